package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Source types.
const (
	SourceLocal = "local"
	SourceGit   = "git"
)

// Source represents a card source, either a local path or a Git URL,
// feeding one deck.
type Source struct {
	ID          int64
	Path        string
	Type        string
	DeckID      string
	LastScanned sql.NullTime
}

// InsertSource inserts a new source path into the database and returns its ID.
func (db *DB) InsertSource(path, sourceType, deckID string) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO sources (path, type, deck_id)
		VALUES (?, ?, ?)
	`, path, sourceType, deckID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert source %s: %w", path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for source %s: %w", path, err)
	}
	return id, nil
}

// FindSourceByPath retrieves a source from the database by its path.
func (db *DB) FindSourceByPath(path string) (*Source, error) {
	var s Source
	row := db.conn.QueryRow(`
		SELECT id, path, type, deck_id, last_scanned
		FROM sources WHERE path = ?
	`, path)

	err := row.Scan(&s.ID, &s.Path, &s.Type, &s.DeckID, &s.LastScanned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Source not found
		}
		return nil, fmt.Errorf("failed to find source by path %s: %w", path, err)
	}
	return &s, nil
}

// GetAllSources retrieves all stored sources from the database.
func (db *DB) GetAllSources() ([]Source, error) {
	rows, err := db.conn.Query(`
		SELECT id, path, type, deck_id, last_scanned
		FROM sources ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Path, &s.Type, &s.DeckID, &s.LastScanned); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// UpdateSourceLastScanned updates the last_scanned timestamp for a source.
func (db *DB) UpdateSourceLastScanned(sourceID int64, at time.Time) error {
	_, err := db.conn.Exec(`
		UPDATE sources
		SET last_scanned = ?
		WHERE id = ?
	`, at, sourceID)
	if err != nil {
		return fmt.Errorf("failed to update last scanned for source ID %d: %w", sourceID, err)
	}
	return nil
}

// DeleteSource removes a source. Cards it produced stay in their deck.
func (db *DB) DeleteSource(sourceID int64) error {
	res, err := db.conn.Exec(`DELETE FROM sources WHERE id = ?`, sourceID)
	if err != nil {
		return fmt.Errorf("failed to delete source ID %d: %w", sourceID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("source ID %d not found", sourceID)
	}
	return nil
}
