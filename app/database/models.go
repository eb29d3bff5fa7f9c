package database

import (
	"time"
)

type Source struct {
	Name          string // Derived from the configuration filename
	Kind          string // orders or schedule
	URL           string
	LastFetchedAt *time.Time
	NextFetchAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Order struct {
	ID              string // Federal Register document number
	SourceName      string
	Title           string
	SigningDate     string
	PublicationDate string
	HTMLURL         string
	PDFURL          string
	XMLURL          string
	ContentHash     string
	Markdown        string
	RenderStatus    string // pending, success, failed, skipped
	RenderError     string
	RenderAttempts  int
	RenderedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Event struct {
	ID          string
	SourceName  string
	Date        string  // YYYY-MM-DD
	Time        *string // HH:MM:SS, nil when the schedule gives no time
	Location    string
	Details     string
	URL         string
	VideoURL    string
	Latitude    *float64
	Longitude   *float64
	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const (
	RenderStatusPending = "pending"
	RenderStatusSuccess = "success"
	RenderStatusFailed  = "failed"
	RenderStatusSkipped = "skipped"

	MaxRenderAttempts = 3
)
