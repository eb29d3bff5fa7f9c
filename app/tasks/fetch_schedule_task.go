package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/potus-tracker/app/database"
	"github.com/lysyi3m/potus-tracker/app/source"
)

type FetchScheduleTask struct {
	Task
	SourceConfig *source.Config
	fetcher      fetcher
	parser       *source.ScheduleParser
	sourceRepo   database.SourceRepository
	eventRepo    database.EventRepository
}

func NewFetchScheduleTask(sourceName string, sourceConfig *source.Config, httpClient *http.Client, parser *source.ScheduleParser, sourceRepo database.SourceRepository, eventRepo database.EventRepository, userAgent string) *FetchScheduleTask {
	return &FetchScheduleTask{
		Task:         NewTask(TaskTypeFetchSchedule, sourceName),
		SourceConfig: sourceConfig,
		fetcher:      newFetcher(httpClient, userAgent, sourceConfig.Settings.Timeout),
		parser:       parser,
		sourceRepo:   sourceRepo,
		eventRepo:    eventRepo,
	}
}

func (t *FetchScheduleTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	data, _, err := t.fetcher.fetch(ctx, t.SourceConfig.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch schedule: %w", err)
	}

	events, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse schedule: %w", err)
	}

	// Schedule documents list the whole history, so the item cap does not apply.
	for _, event := range events {
		item := database.EventItem{
			ID:          event.ID,
			Date:        event.Date,
			Time:        event.Time,
			Location:    event.Location,
			Details:     event.Details,
			URL:         event.URL,
			VideoURL:    event.VideoURL,
			Latitude:    event.Latitude,
			Longitude:   event.Longitude,
			ContentHash: event.ContentHash,
		}

		if err := t.eventRepo.UpsertEvent(t.SourceName, item); err != nil {
			return fmt.Errorf("failed to store event %s: %w", event.ID, err)
		}
	}

	recordsStored.WithLabelValues(t.SourceName, string(source.KindSchedule)).Add(float64(len(events)))

	nextFetch := time.Now().UTC().Add(time.Duration(t.SourceConfig.Settings.RefreshInterval) * time.Second)
	if err := t.sourceRepo.UpdateSourceFetch(t.SourceName, nextFetch); err != nil {
		return fmt.Errorf("failed to update next fetch time: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"events", len(events))

	return nil
}
