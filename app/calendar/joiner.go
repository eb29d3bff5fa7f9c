package calendar

import (
	"cmp"
	"time"
)

// Joiner combines schedule events and executive orders into a day-grouped
// view. The reference location decides what "today" and "now" mean.
type Joiner struct {
	location *time.Location
}

func NewJoiner(location *time.Location) *Joiner {
	if location == nil {
		location = time.UTC
	}
	return &Joiner{location: location}
}

func (j *Joiner) Location() *time.Location {
	return j.location
}

// Run groups events by date and orders by normalized date, restricted to
// window when it is non-nil, and computes the highlighted event for now.
// Inputs are not modified.
func (j *Joiner) Run(events []Event, orders []Order, window *Window, now time.Time) View {
	now = now.In(j.location)

	if len(events) == 0 || len(orders) == 0 {
		return View{Days: []Day{}, MinDate: now, MaxDate: now}
	}

	minDate, maxDate := j.bounds(events, orders, now)

	eventsByDay := newDayIndex[Event]()
	for _, event := range events {
		if window.contains(event.Date) {
			eventsByDay.add(event.Date, event)
		}
	}
	eventsByDay.sortEach(compareEvents)

	ordersByDay := newDayIndex[Order]()
	for _, order := range orders {
		day := NormalizeOrderDate(order.Date, j.location)
		if window.contains(day) {
			ordersByDay.add(day, order)
		}
	}
	ordersByDay.sortEach(func(a, b Order) int {
		return cmp.Compare(b.ID, a.ID)
	})

	keys := eventsByDay.keysDesc()
	days := make([]Day, 0, len(keys))
	for _, key := range keys {
		dayOrders := ordersByDay.get(key)
		if dayOrders == nil {
			dayOrders = []Order{}
		}
		days = append(days, Day{Date: key, Events: eventsByDay.get(key), Orders: dayOrders})
	}

	return View{
		Days:      days,
		Highlight: j.highlight(days, now),
		MinDate:   minDate,
		MaxDate:   maxDate,
	}
}

// highlight picks the latest event of today that has started. Without one it
// falls back to the most recent event of the closest earlier day.
func (j *Joiner) highlight(days []Day, now time.Time) *Highlight {
	today := now.Format(DateLayout)
	nowMinutes := now.Hour()*60 + now.Minute()

	for _, day := range days {
		if day.Date != today {
			continue
		}
		for _, event := range day.Events {
			if secs, ok := secondsOf(event.Time); ok && secs/60 <= nowMinutes {
				return newHighlight(day.Date, event)
			}
		}
		break
	}

	for _, day := range days {
		if day.Date < today && len(day.Events) > 0 {
			return newHighlight(day.Date, day.Events[0])
		}
	}

	return nil
}

func newHighlight(day string, event Event) *Highlight {
	h := &Highlight{Day: day, EventID: event.ID}
	if secs, ok := secondsOf(event.Time); ok {
		minutes := secs / 60
		h.Minutes = &minutes
	}
	return h
}

func (j *Joiner) bounds(events []Event, orders []Order, now time.Time) (time.Time, time.Time) {
	var minDate, maxDate time.Time
	found := false

	track := func(t time.Time) {
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, j.location)
		if !found || t.Before(minDate) {
			minDate = t
		}
		if !found || t.After(maxDate) {
			maxDate = t
		}
		found = true
	}

	for _, event := range events {
		if t, err := time.ParseInLocation(DateLayout, event.Date, j.location); err == nil {
			track(t)
		}
	}
	for _, order := range orders {
		if t, ok := parseOrderDate(order.Date, j.location); ok {
			track(t)
		}
	}

	if !found {
		return now, now
	}
	return minDate, maxDate
}

// compareEvents orders events newest time first with untimed events last.
func compareEvents(a, b Event) int {
	as, aok := secondsOf(a.Time)
	bs, bok := secondsOf(b.Time)

	switch {
	case aok && !bok:
		return -1
	case !aok && bok:
		return 1
	case aok && bok && as != bs:
		return cmp.Compare(bs, as)
	}
	return cmp.Compare(b.ID, a.ID)
}
