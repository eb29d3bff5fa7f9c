package api

import (
	"time"

	"github.com/lysyi3m/potus-tracker/app/calendar"
	"github.com/lysyi3m/potus-tracker/app/database"
	"github.com/lysyi3m/potus-tracker/app/feed"
	"github.com/lysyi3m/potus-tracker/app/source"
	"github.com/lysyi3m/potus-tracker/app/tasks"
)

const (
	defaultOrderLimit = 50
	maxOrderLimit     = 500
)

type Handler struct {
	sourceRepo  database.SourceRepository
	orderRepo   database.OrderRepository
	eventRepo   database.EventRepository
	configCache *source.ConfigCache
	scheduler   tasks.TaskSchedulerInterface
	joiner      *calendar.Joiner
	generator   *feed.Generator
	baseURL     string
	now         func() time.Time
}

type orderResponse struct {
	ID              string     `json:"id"`
	Source          string     `json:"source"`
	Title           string     `json:"title"`
	SigningDate     string     `json:"signing_date,omitempty"`
	PublicationDate string     `json:"publication_date,omitempty"`
	HTMLURL         string     `json:"html_url,omitempty"`
	PDFURL          string     `json:"pdf_url,omitempty"`
	XMLURL          string     `json:"xml_url,omitempty"`
	RenderStatus    string     `json:"render_status"`
	RenderError     string     `json:"render_error,omitempty"`
	RenderedAt      *time.Time `json:"rendered_at,omitempty"`
	Markdown        string     `json:"markdown,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func newOrderResponse(order database.Order, withMarkdown bool) orderResponse {
	response := orderResponse{
		ID:              order.ID,
		Source:          order.SourceName,
		Title:           order.Title,
		SigningDate:     order.SigningDate,
		PublicationDate: order.PublicationDate,
		HTMLURL:         order.HTMLURL,
		PDFURL:          order.PDFURL,
		XMLURL:          order.XMLURL,
		RenderStatus:    order.RenderStatus,
		RenderError:     order.RenderError,
		RenderedAt:      order.RenderedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	if withMarkdown {
		response.Markdown = order.Markdown
	}
	return response
}
