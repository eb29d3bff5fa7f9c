package source

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/unicode/norm"
)

type scheduleEntry struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Time      string          `json:"time"`
	Location  string          `json:"location"`
	Details   string          `json:"details"`
	URL       string          `json:"url"`
	VideoURL  string          `json:"video_url"`
	Latitude  json.RawMessage `json:"latitude"`
	Longitude json.RawMessage `json:"longitude"`
}

// ScheduleParser reads presidential schedule entries from a JSON document,
// either a bare array or an object with a "data" array.
type ScheduleParser struct{}

func NewScheduleParser() *ScheduleParser {
	return &ScheduleParser{}
}

var scheduleTimeLayouts = []string{"15:04:05", "15:04", "3:04 PM", "3:04PM", "3:04 pm", "3:04pm", "3 PM", "3PM"}

func (p *ScheduleParser) Run(data []byte) ([]Event, error) {
	entries, err := p.decode(data)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(entries))
	for _, entry := range entries {
		event, ok := p.normalizeEntry(entry)
		if !ok {
			slog.Debug("Skipping schedule entry with invalid date", "date", entry.Date, "details", entry.Details)
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

func (p *ScheduleParser) decode(data []byte) ([]scheduleEntry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("schedule data is empty")
	}

	var entries []scheduleEntry
	if trimmed[0] == '{' {
		var wrapper struct {
			Data []scheduleEntry `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to parse schedule JSON: %w", err)
		}
		return wrapper.Data, nil
	}

	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse schedule JSON: %w", err)
	}
	return entries, nil
}

func (p *ScheduleParser) normalizeEntry(entry scheduleEntry) (Event, bool) {
	date, ok := p.normalizeDate(entry.Date)
	if !ok {
		return Event{}, false
	}

	event := Event{
		Date:      date,
		Time:      p.normalizeTime(entry.Time),
		Location:  cleanText(entry.Location),
		Details:   cleanText(entry.Details),
		URL:       strings.TrimSpace(entry.URL),
		VideoURL:  strings.TrimSpace(entry.VideoURL),
		Latitude:  parseCoordinate(entry.Latitude),
		Longitude: parseCoordinate(entry.Longitude),
	}

	timeKey := ""
	if event.Time != nil {
		timeKey = *event.Time
	}

	event.ID = cmp.Or(strings.TrimSpace(entry.ID), hashOf(event.Date, timeKey, event.Details))
	event.ContentHash = hashOf(event.Date, timeKey, event.Location, event.Details, event.URL, event.VideoURL,
		coordinateKey(event.Latitude), coordinateKey(event.Longitude))

	return event, true
}

func (p *ScheduleParser) normalizeDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.Format("2006-01-02"), true
	}
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// normalizeTime returns HH:MM:SS, or nil for empty and unrecognized values
// such as "TBD".
func (p *ScheduleParser) normalizeTime(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range scheduleTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			formatted := t.Format("15:04:05")
			return &formatted
		}
	}
	return nil
}

func cleanText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// parseCoordinate accepts a JSON number, a numeric string, or null.
func parseCoordinate(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return &number
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if number, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			return &number
		}
	}
	return nil
}

func coordinateKey(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func hashOf(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:])
}
