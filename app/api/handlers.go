package api

import (
	"cmp"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/potus-tracker/app/calendar"
	"github.com/lysyi3m/potus-tracker/app/cfg"
	"github.com/lysyi3m/potus-tracker/app/database"
	"github.com/lysyi3m/potus-tracker/app/feed"
	"github.com/lysyi3m/potus-tracker/app/source"
	"github.com/lysyi3m/potus-tracker/app/tasks"
)

// Open-ended calendar windows are clamped to these dates.
const (
	earliestDate = "0001-01-01"
	latestDate   = "9999-12-31"
)

func NewHandler(configCache *source.ConfigCache, sourceRepo database.SourceRepository,
	orderRepo database.OrderRepository, eventRepo database.EventRepository,
	scheduler tasks.TaskSchedulerInterface, location *time.Location, baseURL string) *Handler {
	return &Handler{
		sourceRepo:  sourceRepo,
		orderRepo:   orderRepo,
		eventRepo:   eventRepo,
		configCache: configCache,
		scheduler:   scheduler,
		joiner:      calendar.NewJoiner(location),
		generator:   feed.NewGenerator(),
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		now:         time.Now,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": h.now().In(h.joiner.Location()).Format(time.RFC3339),
	}

	if sourceCount, err := h.sourceRepo.GetSourceCount(); err == nil {
		health["sources"] = sourceCount
	}
	if orderCount, err := h.orderRepo.GetOrderCount(); err == nil {
		health["orders"] = orderCount
	}
	if eventCount, err := h.eventRepo.GetEventCount(); err == nil {
		health["events"] = eventCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) ListOrders(c *gin.Context) {
	limit := defaultOrderLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(parsed, maxOrderLimit)
	}

	orders, err := h.orderRepo.ListOrders(limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_orders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	response := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, newOrderResponse(order, false))
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": response,
		"total":  len(response),
	})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id := c.Param("id")

	order, err := h.orderRepo.GetOrder(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_order", "order_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	format := c.DefaultQuery("format", "json")
	if format != "json" && order.Markdown == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"error":         "Order has not been rendered",
			"render_status": order.RenderStatus,
		})
		return
	}

	switch format {
	case "json":
		c.JSON(http.StatusOK, newOrderResponse(*order, true))
	case "md", "markdown":
		c.Header("X-Order-ID", order.ID)
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(order.Markdown))
	case "html":
		content, err := h.generator.ToHTML(order.Markdown)
		if err != nil {
			slog.Error("Markdown conversion error", "order_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert markdown"})
			return
		}
		c.Header("X-Order-ID", order.ID)
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(content))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of json, md, html"})
	}
}

// GetOrdersFeed republishes the latest orders as RSS with their rendered text.
func (h *Handler) GetOrdersFeed(c *gin.Context) {
	orders, err := h.orderRepo.ListOrders(defaultOrderLimit)
	if err != nil {
		slog.Error("Database error", "operation", "list_orders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	baseURL := h.baseURL
	if baseURL == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		baseURL = scheme + "://" + c.Request.Host
	}

	rss, err := h.generator.Run(feed.Channel{
		Title:       "Executive Orders",
		Link:        baseURL + "/orders",
		Description: "Presidential executive orders from the Federal Register with full text",
		SelfURL:     baseURL + "/orders.rss",
		Version:     cfg.GetVersion(),
	}, orders)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate feed"})
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

func (h *Handler) ListEvents(c *gin.Context) {
	window, err := parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var events []database.Event
	if window == nil {
		events, err = h.eventRepo.GetAllEvents()
	} else {
		events, err = h.eventRepo.GetEventsBetween(window.From, window.To)
	}
	if err != nil {
		slog.Error("Database error", "operation", "list_events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	response := toCalendarEvents(events)
	c.JSON(http.StatusOK, gin.H{
		"events": response,
		"total":  len(response),
	})
}

// GetCalendar joins every stored event and order. The window only narrows
// the returned days; min_date and max_date always span all stored data.
func (h *Handler) GetCalendar(c *gin.Context) {
	window, err := parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.eventRepo.GetAllEvents()
	if err != nil {
		slog.Error("Database error", "operation", "get_all_events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	orders, err := h.orderRepo.GetAllOrders()
	if err != nil {
		slog.Error("Database error", "operation", "get_all_orders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	view := h.joiner.Run(toCalendarEvents(events), toCalendarOrders(orders), window, h.now())

	c.JSON(http.StatusOK, view)
}

func (h *Handler) APIListSources(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	sources := make([]map[string]interface{}, 0, len(configs))

	for _, sourceConfig := range configs {
		sourceInfo := map[string]interface{}{
			"name":             sourceConfig.Name,
			"kind":             sourceConfig.Kind,
			"url":              sourceConfig.URL,
			"enabled":          sourceConfig.Settings.Enabled,
			"max_items":        sourceConfig.Settings.MaxItems,
			"render_content":   sourceConfig.Settings.RenderContent,
			"refresh_interval": (time.Duration(sourceConfig.Settings.RefreshInterval) * time.Second).String(),
		}

		if src, err := h.sourceRepo.GetSource(sourceConfig.Name); err == nil && src != nil {
			sourceInfo["last_fetched_at"] = src.LastFetchedAt
			sourceInfo["next_fetch_at"] = src.NextFetchAt
			sourceInfo["updated_at"] = src.UpdatedAt
		}

		sources = append(sources, sourceInfo)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": sources,
		"total":   len(sources),
	})
}

func (h *Handler) APIReloadSource(c *gin.Context) {
	name := c.Param("name")

	sourceConfig, err := h.configCache.LoadConfig(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
			return
		}
		slog.Error("Error reloading configuration", "source", name, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to reload configuration",
			"details": err.Error(),
		})
		return
	}

	if err := h.scheduler.EnqueueSource(sourceConfig); err != nil {
		slog.Error("Error enqueueing source tasks", "source", name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue source tasks",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Configuration reloaded and tasks enqueued successfully",
		"source": gin.H{
			"name":    sourceConfig.Name,
			"kind":    sourceConfig.Kind,
			"url":     sourceConfig.URL,
			"enabled": sourceConfig.Settings.Enabled,
		},
	})
}

// APIRenderOrder clears the render state so the next render pass of the
// order's source picks it up again.
func (h *Handler) APIRenderOrder(c *gin.Context) {
	id := c.Param("id")

	order, err := h.orderRepo.GetOrder(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_order", "order_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if err := h.orderRepo.ResetRenderStatus(id); err != nil {
		slog.Error("Database error", "operation", "reset_render_status", "order_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success":       true,
		"order_id":      id,
		"source":        order.SourceName,
		"render_status": database.RenderStatusPending,
	})
}

// parseWindow reads the optional from/to query parameters. A missing bound
// leaves that side of the window open.
func parseWindow(c *gin.Context) (*calendar.Window, error) {
	from := c.Query("from")
	to := c.Query("to")

	if from == "" && to == "" {
		return nil, nil
	}

	return calendar.NewWindow(cmp.Or(from, earliestDate), cmp.Or(to, latestDate))
}

func toCalendarEvents(events []database.Event) []calendar.Event {
	result := make([]calendar.Event, 0, len(events))
	for _, e := range events {
		result = append(result, calendar.Event{
			ID:        e.ID,
			Date:      e.Date,
			Time:      e.Time,
			Location:  e.Location,
			Details:   e.Details,
			URL:       e.URL,
			VideoURL:  e.VideoURL,
			Latitude:  e.Latitude,
			Longitude: e.Longitude,
		})
	}
	return result
}

// toCalendarOrders groups orders by signing date, falling back to the
// publication date when the feed did not state one.
func toCalendarOrders(orders []database.Order) []calendar.Order {
	result := make([]calendar.Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, calendar.Order{
			ID:      o.ID,
			Date:    cmp.Or(o.SigningDate, o.PublicationDate),
			Title:   o.Title,
			PDFURL:  o.PDFURL,
			HTMLURL: o.HTMLURL,
		})
	}
	return result
}
