package database

import (
	"database/sql"
	"fmt"
)

var _ EventRepository = (*EventRepo)(nil)

type EventRepo struct {
	db *DB
}

func NewEventRepository(db *DB) *EventRepo {
	return &EventRepo{db: db}
}

const eventColumns = `
	id, source_name, date, time, location, details, url, video_url,
	latitude, longitude, content_hash, created_at, updated_at`

func (r *EventRepo) UpsertEvent(sourceName string, item EventItem) error {
	_, err := r.db.Exec(`
		INSERT INTO schedule_events (
			id, source_name, date, time, location, details, url, video_url,
			latitude, longitude, content_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			source_name = excluded.source_name,
			date = excluded.date,
			time = excluded.time,
			location = excluded.location,
			details = excluded.details,
			url = excluded.url,
			video_url = excluded.video_url,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			content_hash = excluded.content_hash,
			updated_at = CURRENT_TIMESTAMP
		WHERE content_hash != excluded.content_hash
	`, item.ID, sourceName, item.Date, item.Time, item.Location, item.Details, item.URL, item.VideoURL,
		item.Latitude, item.Longitude, item.ContentHash)
	if err != nil {
		return fmt.Errorf("failed to upsert event: %w", err)
	}

	return nil
}

func (r *EventRepo) GetAllEvents() ([]Event, error) {
	rows, err := r.db.Query(`SELECT ` + eventColumns + ` FROM schedule_events ORDER BY date DESC, time DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// GetEventsBetween returns events whose date lies in [from, to].
func (r *EventRepo) GetEventsBetween(from, to string) ([]Event, error) {
	rows, err := r.db.Query(`
		SELECT `+eventColumns+`
		FROM schedule_events
		WHERE date >= ? AND date <= ?
		ORDER BY date DESC, time DESC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get events between dates: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *EventRepo) GetEventCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM schedule_events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get event count: %w", err)
	}
	return count, nil
}

func collectEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var event Event
		var eventTime sql.NullString
		var latitude, longitude sql.NullFloat64

		err := rows.Scan(
			&event.ID, &event.SourceName, &event.Date, &eventTime, &event.Location, &event.Details,
			&event.URL, &event.VideoURL, &latitude, &longitude, &event.ContentHash,
			&event.CreatedAt, &event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}

		if eventTime.Valid {
			event.Time = &eventTime.String
		}
		if latitude.Valid {
			event.Latitude = &latitude.Float64
		}
		if longitude.Valid {
			event.Longitude = &longitude.Float64
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}
