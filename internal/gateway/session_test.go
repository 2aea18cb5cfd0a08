package gateway

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/neonride/internal/config"
	"github.com/vovakirdan/neonride/internal/env"
)

func newTestManager(saver EpisodeSaver) *Manager {
	load := func(p config.Profile) (config.NeonRideConfig, error) { return config.Default(p), nil }
	return NewManager(load, saver, 0, log.New(io.Discard))
}

func runUntilDone(t *testing.T, s *Session) {
	t.Helper()
	for i := 0; i < 200000; i++ {
		if res, _ := s.Step(env.ActionStay); res.Done {
			return
		}
	}
	t.Fatal("episode never ended")
}

func TestSessionSavesEpisodeOnce(t *testing.T) {
	saver := &fakeSaver{}
	m := newTestManager(saver)
	seed := int64(11)

	s, err := m.Create("training", &seed)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	runUntilDone(t, s)
	for i := 0; i < 10; i++ {
		s.Step(env.ActionLeft)
	}
	if saver.count() != 1 {
		t.Fatalf("saved %d episodes, expected 1", saver.count())
	}

	ep := saver.episodes[0]
	info := s.Info()
	if ep.Policy != RemotePolicy || ep.Seed != seed || ep.Profile != config.ProfileTraining {
		t.Errorf("episode metadata = %+v", ep)
	}
	if ep.Ticks != info.Ticks || ep.Score != info.Score || ep.TotalReward != info.TotalReward {
		t.Errorf("episode %+v disagrees with session %+v", ep, info)
	}

	s.Reset(nil)
	runUntilDone(t, s)
	if saver.count() != 2 {
		t.Fatalf("saved %d episodes after second run, expected 2", saver.count())
	}
	if saver.episodes[0].ID == saver.episodes[1].ID {
		t.Error("each episode should get its own ID")
	}
	if s.Info().Episodes != 2 {
		t.Errorf("Episodes = %d", s.Info().Episodes)
	}
}

func TestManagerLookup(t *testing.T) {
	m := newTestManager(nil)

	if _, err := m.Create("nope", nil); !errors.Is(err, config.ErrUnknownProfile) {
		t.Errorf("unknown profile error = %v", err)
	}

	s, err := m.Create("", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if s.Profile != config.ProfilePresentation {
		t.Errorf("default profile = %q", s.Profile)
	}

	got, err := m.Get(s.ID.String())
	if err != nil || got != s {
		t.Errorf("Get = %v, %v", got, err)
	}
	if _, err := m.Get("garbage"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get(garbage) error = %v", err)
	}

	if err := m.Delete(s.ID.String()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d after delete", m.Len())
	}
	if err := m.Delete(s.ID.String()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Delete error = %v", err)
	}
}

func TestSeededResetReplaysEpisode(t *testing.T) {
	saver := &fakeSaver{}
	m := newTestManager(saver)
	seed := int64(11)

	s, err := m.Create("training", &seed)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	runUntilDone(t, s)
	first := s.Info()

	s.Reset(nil)
	s.Reset(&seed)
	runUntilDone(t, s)
	replay := s.Info()
	if replay.Ticks != first.Ticks || replay.TotalReward != first.TotalReward {
		t.Errorf("reseeded episode = %d ticks / %f, want %d / %f", replay.Ticks, replay.TotalReward, first.Ticks, first.TotalReward)
	}

	other := int64(12)
	s.Reset(&other)
	runUntilDone(t, s)
	if s.Info().Seed != 12 {
		t.Errorf("Seed = %d after reseed, want 12", s.Info().Seed)
	}
	if got := saver.episodes[len(saver.episodes)-1].Seed; got != 12 {
		t.Errorf("saved episode seed = %d, want 12", got)
	}
}

func TestManagerReapsIdleSessions(t *testing.T) {
	m := NewManager(func(p config.Profile) (config.NeonRideConfig, error) {
		return config.Default(p), nil
	}, nil, 2, log.New(io.Discard))
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	idle, err := m.Create("training", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	busy, err := m.Create("training", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := m.Create("training", nil); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("third Create error = %v, want ErrTooManySessions", err)
	}

	clock = clock.Add(20 * time.Minute)
	if _, err := m.Get(busy.ID.String()); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	clock = clock.Add(15 * time.Minute)
	if n := m.Reap(30 * time.Minute); n != 1 {
		t.Fatalf("Reap removed %d sessions, want 1", n)
	}
	if _, err := m.Get(idle.ID.String()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("idle session still present: %v", err)
	}
	if _, err := m.Get(busy.ID.String()); err != nil {
		t.Errorf("recently used session was reaped: %v", err)
	}

	// The freed slot is usable again
	if _, err := m.Create("training", nil); err != nil {
		t.Errorf("Create after reap failed: %v", err)
	}
}

func TestRunCleanupStopsOnCancel(t *testing.T) {
	m := newTestManager(nil)
	if _, err := m.Create("training", nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	clock := time.Now().Add(time.Hour)
	m.now = func() time.Time { return clock }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.RunCleanup(ctx, time.Millisecond, time.Minute)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for m.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("cleanup never reaped the idle session")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunCleanup did not return after cancel")
	}
}

func TestSessionWithoutSaver(t *testing.T) {
	m := newTestManager(nil)
	seed := int64(5)
	s, _ := m.Create("training", &seed)

	// Must not panic without a saver
	runUntilDone(t, s)
	if !s.Info().Done {
		t.Error("session should be done")
	}
}
