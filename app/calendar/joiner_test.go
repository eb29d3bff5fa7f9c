package calendar

import (
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var eastern = time.FixedZone("EST", -5*3600)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func testEvents() []Event {
	return []Event{
		{ID: "e1", Date: "2025-03-05", Time: strPtr("09:00:00"), Details: "Intelligence briefing"},
		{ID: "e2", Date: "2025-03-05", Time: strPtr("14:00:00"), Details: "Address to Congress"},
		{ID: "e3", Date: "2025-03-05", Details: "Lunch"},
		{ID: "e4", Date: "2025-03-04", Time: strPtr("10:00:00"), Details: "Signing"},
		{ID: "e5", Date: "2025-03-04", Time: strPtr("16:30:00"), Details: "Meeting"},
		{ID: "e6", Date: "2025-03-03", Details: "No public events"},
	}
}

func testOrders() []Order {
	return []Order{
		{ID: "2025-04000", Date: "2025-03-05", Title: "Order A"},
		{ID: "2025-04100", Date: "March 5, 2025", Title: "Order B"},
		{ID: "2025-03900", Date: "2025-03-04", Title: "Order C"},
		{ID: "2025-00001", Date: "", Title: "Undated"},
		{ID: "x", Date: "unknown", Title: "Garbage"},
	}
}

func at(day string, hour, minute int) time.Time {
	d, _ := time.ParseInLocation(DateLayout, day, eastern)
	return d.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func dayDates(days []Day) []string {
	dates := make([]string, 0, len(days))
	for _, d := range days {
		dates = append(dates, d.Date)
	}
	return dates
}

func TestJoinGroupsAndSorts(t *testing.T) {
	joiner := NewJoiner(eastern)
	view := joiner.Run(testEvents(), testOrders(), nil, at("2025-03-05", 12, 30))

	if diff := cmp.Diff([]string{"2025-03-05", "2025-03-04", "2025-03-03"}, dayDates(view.Days)); diff != "" {
		t.Errorf("Unexpected days (-want +got):\n%s", diff)
	}

	var ids []string
	for _, e := range view.Days[0].Events {
		ids = append(ids, e.ID)
	}
	if diff := cmp.Diff([]string{"e2", "e1", "e3"}, ids); diff != "" {
		t.Errorf("Unexpected event order (-want +got):\n%s", diff)
	}

	for _, day := range view.Days {
		last := -1
		seenUntimed := false
		for _, e := range day.Events {
			secs, ok := secondsOf(e.Time)
			if !ok {
				seenUntimed = true
				continue
			}
			if seenUntimed {
				t.Errorf("Timed event %s sorted after an untimed event on %s", e.ID, day.Date)
			}
			if last >= 0 && secs > last {
				t.Errorf("Events on %s are not non-increasing by time", day.Date)
			}
			last = secs
		}
	}

	var orderIDs []string
	for _, o := range view.Days[0].Orders {
		orderIDs = append(orderIDs, o.ID)
	}
	if diff := cmp.Diff([]string{"2025-04100", "2025-04000"}, orderIDs); diff != "" {
		t.Errorf("Unexpected order grouping (-want +got):\n%s", diff)
	}
	if len(view.Days[1].Orders) != 1 || view.Days[1].Orders[0].ID != "2025-03900" {
		t.Errorf("Expected one order on 2025-03-04, got %+v", view.Days[1].Orders)
	}
	if view.Days[2].Orders == nil || len(view.Days[2].Orders) != 0 {
		t.Errorf("Expected empty non-nil orders on 2025-03-03, got %+v", view.Days[2].Orders)
	}
}

func TestJoinHighlight(t *testing.T) {
	tests := []struct {
		name     string
		window   *Window
		now      time.Time
		expected *Highlight
	}{
		{
			name:     "latest started event today",
			now:      at("2025-03-05", 12, 30),
			expected: &Highlight{Day: "2025-03-05", Minutes: intPtr(540), EventID: "e1"},
		},
		{
			name:     "event starting exactly now",
			now:      at("2025-03-05", 14, 0),
			expected: &Highlight{Day: "2025-03-05", Minutes: intPtr(840), EventID: "e2"},
		},
		{
			name:     "all of today in the future falls back to previous day",
			now:      at("2025-03-05", 8, 0),
			expected: &Highlight{Day: "2025-03-04", Minutes: intPtr(990), EventID: "e5"},
		},
		{
			name:     "today missing falls back to earlier day",
			now:      at("2025-03-10", 9, 0),
			expected: &Highlight{Day: "2025-03-05", Minutes: intPtr(840), EventID: "e2"},
		},
		{
			name:     "filtered window excludes most recent day",
			window:   &Window{From: "2025-03-03", To: "2025-03-04"},
			now:      at("2025-03-05", 12, 30),
			expected: &Highlight{Day: "2025-03-04", Minutes: intPtr(990), EventID: "e5"},
		},
		{
			name:     "untimed fallback event",
			window:   &Window{From: "2025-03-03", To: "2025-03-03"},
			now:      at("2025-03-05", 12, 30),
			expected: &Highlight{Day: "2025-03-03", EventID: "e6"},
		},
		{
			name:     "no earlier day",
			now:      at("2025-03-01", 12, 0),
			expected: nil,
		},
	}

	joiner := NewJoiner(eastern)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := joiner.Run(testEvents(), testOrders(), tt.window, tt.now)
			if diff := cmp.Diff(tt.expected, view.Highlight); diff != "" {
				t.Errorf("Unexpected highlight (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJoinWindow(t *testing.T) {
	joiner := NewJoiner(eastern)
	window := &Window{From: "2025-03-03", To: "2025-03-04"}
	view := joiner.Run(testEvents(), testOrders(), window, at("2025-03-05", 12, 30))

	dates := dayDates(view.Days)
	if slices.Contains(dates, "2025-03-05") {
		t.Errorf("Expected 2025-03-05 to be filtered out, got %v", dates)
	}
	if len(dates) != 2 {
		t.Errorf("Expected 2 days, got %d", len(dates))
	}
	if view.Highlight == nil || view.Highlight.Day == "2025-03-05" {
		t.Errorf("Expected highlight on a remaining day, got %+v", view.Highlight)
	}

	// Bounds ignore the window.
	if got := view.MaxDate.Format(DateLayout); got != "2025-03-05" {
		t.Errorf("Expected max date 2025-03-05, got %s", got)
	}
	if got := view.MinDate.Format(DateLayout); got != "2025-03-03" {
		t.Errorf("Expected min date 2025-03-03, got %s", got)
	}

	// Undated orders sit on the sentinel day but never stretch the bounds.
	orders := append(testOrders(), Order{ID: "2025-09999", Date: "", Title: "Undated"})
	view = joiner.Run(testEvents(), orders, nil, at("2025-03-05", 12, 30))
	if got := view.MinDate.Format(DateLayout); got != "2025-03-03" {
		t.Errorf("Expected undated orders to leave min date at 2025-03-03, got %s", got)
	}
}

func TestJoinSentinelOrders(t *testing.T) {
	if got := NormalizeOrderDate("", eastern); got != SentinelDate {
		t.Errorf("Expected sentinel for empty date, got %s", got)
	}
	if got := NormalizeOrderDate("unknown", eastern); got != SentinelDate {
		t.Errorf("Expected sentinel for unparsable date, got %s", got)
	}

	events := append(testEvents(), Event{ID: "old", Date: SentinelDate, Time: strPtr("12:00:00")})
	joiner := NewJoiner(eastern)
	view := joiner.Run(events, testOrders(), nil, at("2025-03-05", 12, 30))

	last := view.Days[len(view.Days)-1]
	if last.Date != SentinelDate {
		t.Fatalf("Expected sentinel day last, got %s", last.Date)
	}
	var ids []string
	for _, o := range last.Orders {
		ids = append(ids, o.ID)
	}
	if diff := cmp.Diff([]string{"x", "2025-00001"}, ids); diff != "" {
		t.Errorf("Unexpected sentinel orders (-want +got):\n%s", diff)
	}
	for _, day := range view.Days[:len(view.Days)-1] {
		for _, o := range day.Orders {
			if o.ID == "2025-00001" {
				t.Errorf("Undated order grouped under %s", day.Date)
			}
		}
	}
	if view.Highlight == nil || view.Highlight.Day != "2025-03-05" {
		t.Errorf("Expected today highlight, got %+v", view.Highlight)
	}
}

func TestJoinEmptyInputs(t *testing.T) {
	joiner := NewJoiner(eastern)
	now := at("2025-03-05", 12, 30)

	for name, view := range map[string]View{
		"no events": joiner.Run(nil, testOrders(), nil, now),
		"no orders": joiner.Run(testEvents(), []Order{}, nil, now),
	} {
		if len(view.Days) != 0 {
			t.Errorf("%s: expected no days, got %d", name, len(view.Days))
		}
		if view.Highlight != nil {
			t.Errorf("%s: expected no highlight, got %+v", name, view.Highlight)
		}
		if !view.MinDate.Equal(now) || !view.MaxDate.Equal(now) {
			t.Errorf("%s: expected min/max to be now, got %v/%v", name, view.MinDate, view.MaxDate)
		}
	}
}

func TestJoinIdempotent(t *testing.T) {
	joiner := NewJoiner(eastern)
	events := testEvents()
	orders := testOrders()
	eventsBefore := slices.Clone(events)
	ordersBefore := slices.Clone(orders)
	now := at("2025-03-05", 12, 30)

	first := joiner.Run(events, orders, nil, now)
	second := joiner.Run(events, orders, nil, now)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Expected identical views (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(eventsBefore, events); diff != "" {
		t.Errorf("Events input was modified:\n%s", diff)
	}
	if diff := cmp.Diff(ordersBefore, orders); diff != "" {
		t.Errorf("Orders input was modified:\n%s", diff)
	}
}

func TestJoinUsesReferenceLocation(t *testing.T) {
	joiner := NewJoiner(eastern)
	// 02:00 UTC on the 6th is still the evening of the 5th in EST.
	now := time.Date(2025, 3, 6, 2, 0, 0, 0, time.UTC)

	view := joiner.Run(testEvents(), testOrders(), nil, now)
	expected := &Highlight{Day: "2025-03-05", Minutes: intPtr(840), EventID: "e2"}
	if diff := cmp.Diff(expected, view.Highlight); diff != "" {
		t.Errorf("Unexpected highlight (-want +got):\n%s", diff)
	}
}

func TestNewWindow(t *testing.T) {
	if _, err := NewWindow("2025-03-01", "2025-03-05"); err != nil {
		t.Errorf("Expected valid window, got: %v", err)
	}
	if _, err := NewWindow("2025-03-05", "2025-03-01"); err == nil {
		t.Error("Expected error for reversed window")
	}
	if _, err := NewWindow("03/01/2025", "2025-03-05"); err == nil {
		t.Error("Expected error for malformed from date")
	}
	if _, err := NewWindow("2025-03-01", ""); err == nil {
		t.Error("Expected error for missing to date")
	}
}
