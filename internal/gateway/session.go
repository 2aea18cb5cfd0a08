package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/neonride/internal/agent"
	"github.com/vovakirdan/neonride/internal/config"
	"github.com/vovakirdan/neonride/internal/env"
)

// RemotePolicy is the policy name recorded for episodes driven over the gateway.
const RemotePolicy = "remote"

var (
	// ErrSessionNotFound is returned for an unknown or deleted session ID.
	ErrSessionNotFound = errors.New("gateway: session not found")
	// ErrTooManySessions is returned when the session cap is reached.
	ErrTooManySessions = errors.New("gateway: too many sessions")
)

// EpisodeSaver persists finished episodes. storage.Store implements it.
type EpisodeSaver interface {
	SaveEpisode(ep agent.Episode) error
}

// ProfileLoader resolves a profile to its constants.
type ProfileLoader func(p config.Profile) (config.NeonRideConfig, error)

// Session is one remotely driven environment.
type Session struct {
	ID        uuid.UUID
	Profile   config.Profile
	Seed      int64 // Replaced by a seeded Reset; read it through Info once shared
	CreatedAt time.Time

	mu        sync.Mutex
	lastUsed  time.Time
	env       *env.Env
	episodeID uuid.UUID
	episodes  int
	saved     bool
	saver     EpisodeSaver
	log       *log.Logger
}

func newSession(cfg config.NeonRideConfig, seed int64, now time.Time, saver EpisodeSaver, logger *log.Logger) *Session {
	return &Session{
		ID:        uuid.New(),
		Profile:   cfg.Profile,
		Seed:      seed,
		CreatedAt: now,
		lastUsed:  now,
		env:       env.NewSeeded(cfg, seed),
		episodeID: uuid.New(),
		saver:     saver,
		log:       logger,
	}
}

// Observation returns the current observation.
func (s *Session) Observation() env.Observation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.env.Observation()
}

// Reset starts a new episode. A nil seed continues the current randomness
// stream; otherwise the stream restarts from seed, replaying that episode.
func (s *Session) Reset(seed *int64) env.Observation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seed != nil {
		s.Seed = *seed
		s.env.Reseed(*seed)
	}
	obs := s.env.Reset()
	s.episodeID = uuid.New()
	s.saved = false
	return obs
}

// Step advances the session one tick. The first step that ends an episode
// hands it to the saver.
func (s *Session) Step(a env.Action) (env.StepResult, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.env.Step(a)
	if res.Done && !s.saved {
		s.saved = true
		s.episodes++
		s.save()
	}
	return res, s.env.Ticks()
}

// touch records a request against the session.
func (s *Session) touch(t time.Time) {
	s.mu.Lock()
	s.lastUsed = t
	s.mu.Unlock()
}

// LastUsed returns when the session was last looked up.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// save records the finished episode; callers hold s.mu.
func (s *Session) save() {
	if s.saver == nil {
		return
	}
	ep := agent.Episode{
		ID:          s.episodeID,
		Profile:     s.Profile,
		Policy:      RemotePolicy,
		Seed:        s.Seed,
		Ticks:       s.env.Ticks(),
		Score:       s.env.Score(),
		TotalReward: s.env.TotalReward(),
		EndReason:   agent.EndCollision,
	}
	if err := s.saver.SaveEpisode(ep); err != nil {
		s.log.Warn("could not save episode", "session", s.ID, "error", err)
		return
	}
	s.log.Info("episode finished", "session", s.ID, "ticks", ep.Ticks, "score", ep.Score, "reward", ep.TotalReward)
}

// Info returns a snapshot of the session.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		ID:          s.ID.String(),
		Profile:     string(s.Profile),
		Seed:        s.Seed,
		Ticks:       s.env.Ticks(),
		Score:       s.env.Score(),
		TotalReward: s.env.TotalReward(),
		Done:        s.env.Done(),
		Episodes:    s.episodes,
		CreatedAt:   s.CreatedAt,
		LastUsedAt:  s.lastUsed,
	}
}

// Manager owns the live HTTP sessions.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[uuid.UUID]*Session
	load        ProfileLoader
	saver       EpisodeSaver
	maxSessions int
	log         *log.Logger
	now         func() time.Time
}

// NewManager creates a session manager.
func NewManager(load ProfileLoader, saver EpisodeSaver, maxSessions int, logger *log.Logger) *Manager {
	return &Manager{
		sessions:    make(map[uuid.UUID]*Session),
		load:        load,
		saver:       saver,
		maxSessions: maxSessions,
		log:         logger,
		now:         time.Now,
	}
}

// open builds a session without registering it.
func (m *Manager) open(profile string, seed *int64) (*Session, error) {
	p, err := config.ParseProfile(profile)
	if err != nil {
		return nil, fmt.Errorf("%w %q", err, profile)
	}
	cfg, err := m.load(p)
	if err != nil {
		return nil, fmt.Errorf("gateway: load profile: %w", err)
	}

	now := m.now()
	s := now.UnixNano()
	if seed != nil {
		s = *seed
	}
	return newSession(cfg, s, now, m.saver, m.log), nil
}

// Create opens and registers a session.
func (m *Manager) Create(profile string, seed *int64) (*Session, error) {
	s, err := m.open(profile, seed)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, ErrTooManySessions
	}
	m.sessions[s.ID] = s
	return s, nil
}

// Get returns a registered session.
func (m *Manager) Get(id string) (*Session, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[uid]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(m.now())
	return s, nil
}

// Delete removes a registered session.
func (m *Manager) Delete(id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrSessionNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[uid]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, uid)
	return nil
}

// Len returns the number of registered sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Reap drops sessions that have not been looked up for longer than idle and
// returns how many were removed.
func (m *Manager) Reap(idle time.Duration) int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if now.Sub(s.LastUsed()) > idle {
			delete(m.sessions, id)
			n++
			m.log.Info("session expired", "session", id, "idle", now.Sub(s.LastUsed()).Round(time.Second))
		}
	}
	return n
}

// RunCleanup reaps idle sessions every period until ctx is canceled.
// A non-positive period or idle timeout disables it.
func (m *Manager) RunCleanup(ctx context.Context, period, idle time.Duration) {
	if period <= 0 || idle <= 0 {
		return
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Reap(idle)
		case <-ctx.Done():
			return
		}
	}
}
