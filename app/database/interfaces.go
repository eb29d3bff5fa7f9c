package database

import (
	"time"
)

type OrderItem struct {
	ID              string
	Title           string
	SigningDate     string
	PublicationDate string
	HTMLURL         string
	PDFURL          string
	XMLURL          string
	ContentHash     string
}

type EventItem struct {
	ID          string
	Date        string
	Time        *string
	Location    string
	Details     string
	URL         string
	VideoURL    string
	Latitude    *float64
	Longitude   *float64
	ContentHash string
}

type SourceRepository interface {
	GetSource(name string) (*Source, error)
	GetSourceCount() (int, error)

	UpsertSource(name, kind, url string) error
	UpdateSourceFetch(name string, nextFetch time.Time) error
}

type OrderForRendering struct {
	ID      string
	XMLURL  string
	HTMLURL string
}

type OrderRepository interface {
	GetOrder(id string) (*Order, error)
	ListOrders(limit int) ([]Order, error)
	GetAllOrders() ([]Order, error)
	GetOrderCount() (int, error)

	UpsertOrder(sourceName string, item OrderItem) error

	GetOrdersForRendering(sourceName string, limit int) ([]OrderForRendering, error)
	UpdateRenderedMarkdown(id string, markdown string, status string, renderedAt *time.Time, errorMsg string) error
	ResetRenderStatus(id string) error
}

type EventRepository interface {
	GetAllEvents() ([]Event, error)
	GetEventsBetween(from, to string) ([]Event, error)
	GetEventCount() (int, error)

	UpsertEvent(sourceName string, item EventItem) error
}
