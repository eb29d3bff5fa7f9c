package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/potus-tracker/app/database"
	"github.com/lysyi3m/potus-tracker/app/fedreg"
	"github.com/lysyi3m/potus-tracker/app/source"
)

var errNoDocument = errors.New("order has no document to render")

type RenderOrdersTask struct {
	Task
	SourceConfig  *source.Config
	fetcher       fetcher
	renderer      *fedreg.Renderer
	textExtractor *source.TextExtractor
	orderRepo     database.OrderRepository
}

func NewRenderOrdersTask(sourceName string, sourceConfig *source.Config, httpClient *http.Client, renderer *fedreg.Renderer, textExtractor *source.TextExtractor, orderRepo database.OrderRepository, userAgent string) *RenderOrdersTask {
	return &RenderOrdersTask{
		Task:          NewTask(TaskTypeRenderOrders, sourceName),
		SourceConfig:  sourceConfig,
		fetcher:       newFetcher(httpClient, userAgent, sourceConfig.Settings.Timeout),
		renderer:      renderer,
		textExtractor: textExtractor,
		orderRepo:     orderRepo,
	}
}

func (t *RenderOrdersTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.RenderContent {
		slog.Debug("Content rendering disabled for source", "source", t.SourceName)
		return nil
	}

	orders, err := t.orderRepo.GetOrdersForRendering(t.SourceName, t.SourceConfig.Settings.MaxItems)
	if err != nil {
		return fmt.Errorf("failed to get orders for rendering: %w", err)
	}

	if len(orders) == 0 {
		slog.Debug("No orders need rendering", "source", t.SourceName)
		return nil
	}

	successCount := 0
	skippedCount := 0
	errorCount := 0

	for _, order := range orders {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		markdown, err := t.renderOrder(ctx, order)
		now := time.Now().UTC()

		status := database.RenderStatusSuccess
		errorMsg := ""
		switch {
		case errors.Is(err, errNoDocument):
			status = database.RenderStatusSkipped
			errorMsg = err.Error()
			skippedCount++
		case err != nil:
			slog.Error("Failed to render order", "order_id", order.ID, "error", err)
			status = database.RenderStatusFailed
			errorMsg = err.Error()
			errorCount++
		default:
			successCount++
		}

		ordersRendered.WithLabelValues(status).Inc()

		if err := t.orderRepo.UpdateRenderedMarkdown(order.ID, markdown, status, &now, errorMsg); err != nil {
			slog.Error("Failed to update render status", "order_id", order.ID, "error", err)
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"success", successCount,
		"skipped", skippedCount,
		"errors", errorCount)

	return nil
}

// renderOrder prefers the Federal Register full-text XML and falls back to
// the readable text of the HTML page.
func (t *RenderOrdersTask) renderOrder(ctx context.Context, order database.OrderForRendering) (string, error) {
	var xmlErr error

	if order.XMLURL != "" {
		markdown, err := t.renderXML(ctx, order.XMLURL)
		if err == nil && markdown != "" {
			return markdown, nil
		}
		xmlErr = err
		if xmlErr == nil {
			xmlErr = errNoDocument
		}
	}

	if order.HTMLURL == "" {
		if xmlErr != nil {
			return "", xmlErr
		}
		return "", errNoDocument
	}

	if xmlErr != nil {
		slog.Debug("Falling back to HTML extraction", "order_id", order.ID, "error", xmlErr)
	}

	data, _, err := t.fetcher.fetch(ctx, order.HTMLURL, "text/html")
	if err != nil {
		return "", fmt.Errorf("failed to fetch order page: %w", err)
	}

	markdown, err := t.textExtractor.Run(data, order.HTMLURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract order text: %w", err)
	}

	return markdown, nil
}

func (t *RenderOrdersTask) renderXML(ctx context.Context, url string) (string, error) {
	data, _, err := t.fetcher.fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch order XML: %w", err)
	}

	root, err := fedreg.Parse(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse order XML: %w", err)
	}

	return t.renderer.Render(root), nil
}
