package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var _ SourceRepository = (*SourceRepo)(nil)

type SourceRepo struct {
	db *DB
}

func NewSourceRepository(db *DB) *SourceRepo {
	return &SourceRepo{db: db}
}

func (r *SourceRepo) UpsertSource(name, kind, url string) error {
	_, err := r.db.Exec(`
		INSERT INTO sources (name, kind, url)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			kind = excluded.kind,
			url = excluded.url,
			updated_at = CURRENT_TIMESTAMP
	`, name, kind, url)
	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}

	return nil
}

func (r *SourceRepo) UpdateSourceFetch(name string, nextFetch time.Time) error {
	_, err := r.db.Exec(`
		UPDATE sources
		SET last_fetched_at = ?, next_fetch_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE name = ?
	`, time.Now().UTC(), nextFetch.UTC(), name)
	if err != nil {
		return fmt.Errorf("failed to update source fetch times: %w", err)
	}

	return nil
}

func (r *SourceRepo) GetSource(name string) (*Source, error) {
	var source Source
	var lastFetchedAt, nextFetchAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT name, kind, url, last_fetched_at, next_fetch_at, created_at, updated_at
		FROM sources
		WHERE name = ?
	`, name).Scan(
		&source.Name, &source.Kind, &source.URL, &lastFetchedAt, &nextFetchAt,
		&source.CreatedAt, &source.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	source.LastFetchedAt = nullTimePtr(lastFetchedAt)
	source.NextFetchAt = nullTimePtr(nextFetchAt)

	return &source, nil
}

func (r *SourceRepo) GetSourceCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sources").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
