package calendar

import (
	"slices"
)

// dayIndex groups records by date key. Keys are sorted explicitly, never
// taken from map iteration order.
type dayIndex[T any] struct {
	records map[string][]T
}

func newDayIndex[T any]() *dayIndex[T] {
	return &dayIndex[T]{records: make(map[string][]T)}
}

func (d *dayIndex[T]) add(key string, record T) {
	d.records[key] = append(d.records[key], record)
}

func (d *dayIndex[T]) get(key string) []T {
	return d.records[key]
}

// keysDesc returns the date keys newest first.
func (d *dayIndex[T]) keysDesc() []string {
	keys := make([]string, 0, len(d.records))
	for k := range d.records {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	slices.Reverse(keys)
	return keys
}

func (d *dayIndex[T]) sortEach(cmp func(a, b T) int) {
	for _, records := range d.records {
		slices.SortStableFunc(records, cmp)
	}
}
