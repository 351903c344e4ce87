package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/conorfennell/edusprint/internal/domain"
	"github.com/conorfennell/edusprint/internal/exchange"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DefaultKey is the storage key the data set is saved under.
const DefaultKey = "edusprint-db"

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
	key  string
}

// Open creates a new database connection and ensures the schema is up to date.
// The data set is stored under key; an empty key means DefaultKey.
func Open(dsn, key string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, p := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", p, err)
		}
	}

	// Execute the schema to create tables if they don't exist.
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	if key == "" {
		key = DefaultKey
	}
	return &DB{conn: db, key: key}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Load returns the stored data set. A missing or malformed payload yields
// Default(now); a malformed one is logged. Failing to read the payload at all
// is returned as an error so callers never save defaults over it.
func (db *DB) Load(now time.Time) (domain.DataSet, error) {
	var payload string
	err := db.conn.QueryRow(`SELECT payload FROM datasets WHERE key = ?`, db.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Default(now), nil
	}
	if err != nil {
		return domain.DataSet{}, fmt.Errorf("failed to read data set %s: %w", db.key, err)
	}

	ds, err := exchange.Import([]byte(payload))
	if err != nil {
		slog.Warn("Failed to parse stored data set, using defaults", "key", db.key, "error", err)
		return Default(now), nil
	}
	return ds, nil
}

// Save replaces the stored data set.
func (db *DB) Save(ds domain.DataSet) error {
	payload, err := exchange.Export(ds)
	if err != nil {
		return err
	}
	return db.SaveRaw(payload)
}

// SaveRaw stores payload under the data set key as is.
func (db *DB) SaveRaw(payload []byte) error {
	_, err := db.conn.Exec(`
		INSERT INTO datasets (key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, db.key, string(payload), time.Now())
	if err != nil {
		return fmt.Errorf("failed to save data set %s: %w", db.key, err)
	}
	return nil
}

// AppendReviewLog records one grading.
func (db *DB) AppendReviewLog(l domain.ReviewLog) error {
	_, err := db.conn.Exec(`
		INSERT INTO review_logs (card_id, deck_id, grade, reviewed_at, interval_days, ease)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		l.CardID,
		l.DeckID,
		l.Grade,
		l.ReviewedAt,
		l.IntervalDays,
		l.Ease,
	)
	if err != nil {
		return fmt.Errorf("failed to append review log for card %s: %w", l.CardID, err)
	}
	return nil
}

// ReviewLogsByCard returns a card's review history, oldest first.
func (db *DB) ReviewLogsByCard(cardID string) ([]domain.ReviewLog, error) {
	rows, err := db.conn.Query(`
		SELECT card_id, deck_id, grade, reviewed_at, interval_days, ease
		FROM review_logs WHERE card_id = ?
		ORDER BY reviewed_at, id
	`, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review logs for card %s: %w", cardID, err)
	}
	defer rows.Close()

	var logs []domain.ReviewLog
	for rows.Next() {
		var l domain.ReviewLog
		if err := rows.Scan(&l.CardID, &l.DeckID, &l.Grade, &l.ReviewedAt, &l.IntervalDays, &l.Ease); err != nil {
			return nil, fmt.Errorf("failed to scan review log row for card %s: %w", cardID, err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
