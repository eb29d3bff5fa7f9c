package calendar

import (
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"

	// SentinelDate is assigned to orders whose date cannot be parsed.
	SentinelDate = "1900-01-01"
)

// Event is a single presidential schedule entry.
type Event struct {
	ID        string   `json:"id"`
	Date      string   `json:"date"`           // YYYY-MM-DD
	Time      *string  `json:"time,omitempty"` // HH:MM:SS
	Location  string   `json:"location"`
	Details   string   `json:"details"`
	URL       string   `json:"url,omitempty"`
	VideoURL  string   `json:"video_url,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Order is a signed or published executive order.
type Order struct {
	ID      string `json:"id"`
	Date    string `json:"date"` // free text or ISO
	Title   string `json:"title"`
	PDFURL  string `json:"pdf_url,omitempty"`
	HTMLURL string `json:"html_url,omitempty"`
}

// Window is an inclusive date range in YYYY-MM-DD form.
type Window struct {
	From string
	To   string
}

func (w *Window) contains(date string) bool {
	if w == nil {
		return true
	}
	return date >= w.From && date <= w.To
}

type Day struct {
	Date   string  `json:"date"`
	Events []Event `json:"events"`
	Orders []Order `json:"orders"`
}

// Highlight points at the event considered current.
type Highlight struct {
	Day     string `json:"day"`
	Minutes *int   `json:"minutes"`
	EventID string `json:"event_id"`
}

type View struct {
	Days      []Day      `json:"days"`
	Highlight *Highlight `json:"highlight"`
	MinDate   time.Time  `json:"min_date"`
	MaxDate   time.Time  `json:"max_date"`
}
