// Package store persists learned weights and the retrieval log in SQLite,
// and provides the injectable weight cache used by the scorer path.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/haasonsaas/memorable/pkg/models"
)

// ErrNotFound is returned when a requested record does not exist. Callers
// treat it as "no learned weights yet", not a failure.
var ErrNotFound = errors.New("store: not found")

// Store is the single writer for LearnedWeights and the append path for
// the retrieval log.
type Store struct {
	db    *sql.DB
	cache *WeightCache
}

// Open opens (or creates) the engine database at path. An empty path opens
// an in-memory database, used by tests and the CLI's dry runs.
func Open(path string, cache *WeightCache) (*Store, error) {
	if path == "" {
		path = ":memory:"
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	s := &Store{db: db, cache: cache}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewWithDB wraps an existing connection; used by tests.
func NewWithDB(db *sql.DB, cache *WeightCache) *Store {
	return &Store{db: db, cache: cache}
}

func (s *Store) migrate() error {
	stmts := []string{
		`PRAGMA journal_mode=WAL`,
		`PRAGMA busy_timeout=5000`,
		`CREATE TABLE IF NOT EXISTS learned_weights (
			user_id         TEXT PRIMARY KEY,
			emotional       REAL NOT NULL,
			novelty         REAL NOT NULL,
			relevance       REAL NOT NULL,
			social          REAL NOT NULL,
			consequential   REAL NOT NULL,
			sample_size     INTEGER NOT NULL,
			confidence      REAL NOT NULL,
			recalculated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS retrieval_log (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			memory_id     TEXT NOT NULL,
			query         TEXT NOT NULL DEFAULT '',
			emotional     REAL NOT NULL,
			novelty       REAL NOT NULL,
			relevance     REAL NOT NULL,
			social        REAL NOT NULL,
			consequential REAL NOT NULL,
			total_score   INTEGER NOT NULL,
			led_to_action INTEGER NOT NULL DEFAULT 0,
			feedback      TEXT NOT NULL DEFAULT '',
			retrieved_at  TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_retrieval_log_user_time
			ON retrieval_log(user_id, retrieved_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:min(len(stmt), 40)], err)
		}
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetLearnedWeights returns the learned weights for a user, consulting the
// cache first. Returns ErrNotFound when the user has none yet.
func (s *Store) GetLearnedWeights(ctx context.Context, userID string) (models.LearnedWeights, error) {
	if s.cache != nil {
		if lw, ok := s.cache.Get(userID); ok {
			return lw, nil
		}
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, emotional, novelty, relevance, social, consequential,
		       sample_size, confidence, recalculated_at
		FROM learned_weights WHERE user_id = ?`, userID)

	var lw models.LearnedWeights
	err := row.Scan(&lw.UserID,
		&lw.Weights.Emotional, &lw.Weights.Novelty, &lw.Weights.Relevance,
		&lw.Weights.Social, &lw.Weights.Consequential,
		&lw.SampleSize, &lw.Confidence, &lw.RecalculatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LearnedWeights{}, ErrNotFound
	}
	if err != nil {
		return models.LearnedWeights{}, fmt.Errorf("get learned weights: %w", err)
	}

	if s.cache != nil {
		s.cache.Put(lw)
	}
	return lw, nil
}

// PutLearnedWeights upserts a user's learned weights and invalidates the
// cache entry so readers see the new vector immediately.
func (s *Store) PutLearnedWeights(ctx context.Context, lw models.LearnedWeights) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO learned_weights
			(user_id, emotional, novelty, relevance, social, consequential,
			 sample_size, confidence, recalculated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			emotional = excluded.emotional,
			novelty = excluded.novelty,
			relevance = excluded.relevance,
			social = excluded.social,
			consequential = excluded.consequential,
			sample_size = excluded.sample_size,
			confidence = excluded.confidence,
			recalculated_at = excluded.recalculated_at`,
		lw.UserID,
		lw.Weights.Emotional, lw.Weights.Novelty, lw.Weights.Relevance,
		lw.Weights.Social, lw.Weights.Consequential,
		lw.SampleSize, lw.Confidence, lw.RecalculatedAt)
	if err != nil {
		return fmt.Errorf("put learned weights: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(lw.UserID)
	}
	return nil
}

// AppendRetrieval writes one retrieval log row, assigning an id when the
// caller did not. Returns the stored entry.
func (s *Store) AppendRetrieval(ctx context.Context, entry models.RetrievalLogEntry) (models.RetrievalLogEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.RetrievedAt.IsZero() {
		entry.RetrievedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO retrieval_log
			(id, user_id, memory_id, query,
			 emotional, novelty, relevance, social, consequential,
			 total_score, led_to_action, feedback, retrieved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.MemoryID, entry.Query,
		entry.Components.Emotional, entry.Components.Novelty,
		entry.Components.Relevance, entry.Components.Social,
		entry.Components.Consequential,
		entry.TotalScore, boolToInt(entry.LedToAction), string(entry.Feedback),
		entry.RetrievedAt)
	if err != nil {
		return models.RetrievalLogEntry{}, fmt.Errorf("append retrieval: %w", err)
	}
	return entry, nil
}

// MarkOutcome records the after-the-fact outcome of a retrieval: whether
// it led to action and any explicit feedback. This is the only permitted
// mutation of a log row.
func (s *Store) MarkOutcome(ctx context.Context, logID string, ledToAction bool, feedback models.Feedback) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE retrieval_log SET led_to_action = ?, feedback = ?
		WHERE id = ?`,
		boolToInt(ledToAction), string(feedback), logID)
	if err != nil {
		return fmt.Errorf("mark outcome: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark outcome: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRetrievals returns a user's log rows retrieved at or after since,
// oldest first.
func (s *Store) ListRetrievals(ctx context.Context, userID string, since time.Time) ([]models.RetrievalLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, memory_id, query,
		       emotional, novelty, relevance, social, consequential,
		       total_score, led_to_action, feedback, retrieved_at
		FROM retrieval_log
		WHERE user_id = ? AND retrieved_at >= ?
		ORDER BY retrieved_at ASC`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list retrievals: %w", err)
	}
	defer rows.Close()

	var entries []models.RetrievalLogEntry
	for rows.Next() {
		var e models.RetrievalLogEntry
		var action int
		var feedback string
		err := rows.Scan(&e.ID, &e.UserID, &e.MemoryID, &e.Query,
			&e.Components.Emotional, &e.Components.Novelty,
			&e.Components.Relevance, &e.Components.Social,
			&e.Components.Consequential,
			&e.TotalScore, &action, &feedback, &e.RetrievedAt)
		if err != nil {
			return nil, fmt.Errorf("scan retrieval: %w", err)
		}
		e.LedToAction = action != 0
		e.Feedback = models.Feedback(feedback)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ActiveUsers returns users with any retrieval activity since the given
// time; the batch recalibration sweep iterates these.
func (s *Store) ActiveUsers(ctx context.Context, since time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT user_id FROM retrieval_log
		WHERE retrieved_at >= ? ORDER BY user_id`, since)
	if err != nil {
		return nil, fmt.Errorf("active users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
