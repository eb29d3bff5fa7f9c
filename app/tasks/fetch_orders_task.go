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

type FetchOrdersTask struct {
	Task
	SourceConfig *source.Config
	fetcher      fetcher
	parser       *source.OrderParser
	filterer     *source.Filterer
	sourceRepo   database.SourceRepository
	orderRepo    database.OrderRepository
}

func NewFetchOrdersTask(sourceName string, sourceConfig *source.Config, httpClient *http.Client, parser *source.OrderParser, filterer *source.Filterer, sourceRepo database.SourceRepository, orderRepo database.OrderRepository, userAgent string) *FetchOrdersTask {
	return &FetchOrdersTask{
		Task:         NewTask(TaskTypeFetchOrders, sourceName),
		SourceConfig: sourceConfig,
		fetcher:      newFetcher(httpClient, userAgent, sourceConfig.Settings.Timeout),
		parser:       parser,
		filterer:     filterer,
		sourceRepo:   sourceRepo,
		orderRepo:    orderRepo,
	}
}

func (t *FetchOrdersTask) Execute(ctx context.Context) error {
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
		return fmt.Errorf("failed to fetch orders feed: %w", err)
	}

	orders, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse orders feed: %w", err)
	}

	total := len(orders)
	orders = t.filterer.Run(orders, t.SourceConfig)
	filteredCount := total - len(orders)

	if maxItems := t.SourceConfig.Settings.MaxItems; maxItems > 0 && len(orders) > maxItems {
		orders = orders[:maxItems]
	}

	for _, order := range orders {
		item := database.OrderItem{
			ID:              order.ID,
			Title:           order.Title,
			SigningDate:     order.SigningDate,
			PublicationDate: order.PublicationDate,
			HTMLURL:         order.HTMLURL,
			PDFURL:          order.PDFURL,
			XMLURL:          order.XMLURL,
			ContentHash:     order.ContentHash,
		}

		if err := t.orderRepo.UpsertOrder(t.SourceName, item); err != nil {
			return fmt.Errorf("failed to store order %s: %w", order.ID, err)
		}
	}

	recordsStored.WithLabelValues(t.SourceName, string(source.KindOrders)).Add(float64(len(orders)))

	nextFetch := time.Now().UTC().Add(time.Duration(t.SourceConfig.Settings.RefreshInterval) * time.Second)
	if err := t.sourceRepo.UpdateSourceFetch(t.SourceName, nextFetch); err != nil {
		return fmt.Errorf("failed to update next fetch time: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"total", total,
		"filtered", filteredCount,
		"stored", len(orders))

	return nil
}
