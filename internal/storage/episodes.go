package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/neonride/internal/agent"
	"github.com/vovakirdan/neonride/internal/config"
)

// EpisodeRecord is a persisted episode summary. Trajectories are not stored.
type EpisodeRecord struct {
	ID          uuid.UUID
	Profile     config.Profile
	Policy      string
	Seed        int64
	Ticks       int
	Score       int
	TotalReward float64
	EndReason   agent.EndReason
	CreatedAt   time.Time
}

// PolicyStats aggregates the stored episodes of one policy on one profile.
type PolicyStats struct {
	Profile    config.Profile
	Policy     string
	Episodes   int
	MeanReward float64
	MaxReward  float64
	MeanScore  float64
	MaxScore   int
	MeanTicks  float64
}

// SaveEpisode records an episode summary. Saving the same episode ID twice
// is an error.
func (s *Store) SaveEpisode(ep agent.Episode) error {
	_, err := s.db.Exec(
		`INSERT INTO episodes
		 (id, profile, policy, seed, ticks, score, total_reward, end_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ep.ID.String(),
		string(ep.Profile),
		ep.Policy,
		ep.Seed,
		ep.Ticks,
		ep.Score,
		ep.TotalReward,
		string(ep.EndReason),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save episode: %w", err)
	}
	return nil
}

const episodeColumns = `id, profile, policy, seed, ticks, score, total_reward, end_reason, created_at`

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEpisode(sc scanner) (EpisodeRecord, error) {
	var (
		r         EpisodeRecord
		id        string
		profile   string
		reason    string
		createdAt any
	)
	if err := sc.Scan(&id, &profile, &r.Policy, &r.Seed, &r.Ticks, &r.Score, &r.TotalReward, &reason, &createdAt); err != nil {
		return r, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return r, fmt.Errorf("storage: bad episode id %q: %w", id, err)
	}
	r.ID = parsed
	r.Profile = config.Profile(profile)
	r.EndReason = agent.EndReason(reason)
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// EpisodeByID retrieves one episode. Returns nil if it does not exist.
func (s *Store) EpisodeByID(id uuid.UUID) (*EpisodeRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+episodeColumns+` FROM episodes WHERE id = ?`,
		id.String(),
	)
	r, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episode: %w", err)
	}
	return &r, nil
}

// RecentEpisodes retrieves the most recent episodes, newest first.
// An empty policy matches every policy.
func (s *Store) RecentEpisodes(policy string, limit int) ([]EpisodeRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+episodeColumns+`
		 FROM episodes
		 WHERE ? = '' OR policy = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		policy, policy, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var records []EpisodeRecord
	for rows.Next() {
		r, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// GetPolicyStats aggregates stored episodes per profile and policy.
func (s *Store) GetPolicyStats() ([]PolicyStats, error) {
	rows, err := s.db.Query(
		`SELECT profile, policy, COUNT(*), AVG(total_reward), MAX(total_reward),
		        AVG(score), MAX(score), AVG(ticks)
		 FROM episodes
		 GROUP BY profile, policy
		 ORDER BY profile, policy`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get policy stats: %w", err)
	}
	defer rows.Close()

	var stats []PolicyStats
	for rows.Next() {
		var ps PolicyStats
		var profile string
		if err := rows.Scan(&profile, &ps.Policy, &ps.Episodes, &ps.MeanReward, &ps.MaxReward,
			&ps.MeanScore, &ps.MaxScore, &ps.MeanTicks); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ps.Profile = config.Profile(profile)
		stats = append(stats, ps)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
