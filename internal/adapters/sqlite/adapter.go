// Package sqlite provides a SQLite-backed implementation of the draft
// repository port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
	"github.com/ewilliams-labs/moodlist/internal/core/ports"
)

// Adapter implements the draft repository port for SQLite.
type Adapter struct {
	db *sql.DB
}

var _ ports.DraftRepository = (*Adapter)(nil)

// NewAdapter opens the database and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// GetByID loads a draft with its songs in stored order.
func (a *Adapter) GetByID(ctx context.Context, id string) (domain.Draft, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, source_text, phrase, name, requested_count, popularity_ceiling, created_at
		FROM drafts WHERE id = ?
	`, id)

	var draft domain.Draft
	if err := row.Scan(
		&draft.ID,
		&draft.SourceText,
		&draft.Phrase,
		&draft.Name,
		&draft.RequestedCount,
		&draft.PopularityCeiling,
		&draft.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Draft{}, domain.ErrNotFound
		}
		return domain.Draft{}, fmt.Errorf("failed to load draft: %w", err)
	}
	draft.Songs = []domain.Song{}

	rows, err := a.db.QueryContext(ctx, `
		SELECT track_id, title, artist_id, artist_name, url, explanation
		FROM draft_songs
		WHERE draft_id = ?
		ORDER BY position ASC
	`, draft.ID)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("failed to load draft songs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var song domain.Song
		var url sql.NullString
		var explanation sql.NullString
		if err := rows.Scan(
			&song.ID,
			&song.Title,
			&song.ArtistID,
			&song.ArtistName,
			&url,
			&explanation,
		); err != nil {
			return domain.Draft{}, fmt.Errorf("failed to scan draft song: %w", err)
		}
		if url.Valid {
			song.URL = url.String
		}
		if explanation.Valid {
			song.Explanation = explanation.String
		}
		draft.Songs = append(draft.Songs, song)
	}
	if err := rows.Err(); err != nil {
		return domain.Draft{}, fmt.Errorf("failed to iterate draft songs: %w", err)
	}

	return draft, nil
}

// Save stores the draft as a full replacement: the stored song list
// always mirrors the draft's current one, including after regeneration.
func (a *Adapter) Save(ctx context.Context, d domain.Draft) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safety net: auto-rollback if we error before commit

	queryDraft := `
		INSERT INTO drafts (id, source_text, phrase, name, requested_count, popularity_ceiling, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_text=excluded.source_text,
			phrase=excluded.phrase,
			name=excluded.name,
			requested_count=excluded.requested_count,
			popularity_ceiling=excluded.popularity_ceiling;
	`
	if _, err := tx.ExecContext(ctx, queryDraft,
		d.ID, d.SourceText, d.Phrase, d.Name, d.RequestedCount, d.PopularityCeiling, d.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to save draft metadata: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM draft_songs WHERE draft_id = ?", d.ID); err != nil {
		return fmt.Errorf("failed to clear old songs: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO draft_songs (draft_id, position, track_id, title, artist_id, artist_name, url, explanation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, song := range d.Songs {
		if _, err := stmt.ExecContext(ctx,
			d.ID, i, song.ID, song.Title, song.ArtistID, song.ArtistName, song.URL, song.Explanation,
		); err != nil {
			return fmt.Errorf("failed to save song %s: %w", song.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}

	return nil
}

// UpdateSongExplanation patches a single song's explanation in place.
func (a *Adapter) UpdateSongExplanation(ctx context.Context, draftID, trackID, explanation string) error {
	if _, err := a.db.ExecContext(ctx, `
		UPDATE draft_songs SET explanation = ? WHERE draft_id = ? AND track_id = ?
	`, explanation, draftID, trackID); err != nil {
		return fmt.Errorf("failed to update explanation: %w", err)
	}
	return nil
}

// Delete removes a draft and its songs.
func (a *Adapter) Delete(ctx context.Context, id string) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM draft_songs WHERE draft_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete draft songs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM drafts WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	return tx.Commit()
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS drafts (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		phrase TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		requested_count INTEGER NOT NULL,
		popularity_ceiling INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS draft_songs (
		draft_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		track_id TEXT NOT NULL,
		title TEXT NOT NULL,
		artist_id TEXT NOT NULL,
		artist_name TEXT NOT NULL,
		url TEXT,
		explanation TEXT,
		PRIMARY KEY (draft_id, position),
		FOREIGN KEY(draft_id) REFERENCES drafts(id) ON DELETE CASCADE
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}
	return nil
}
