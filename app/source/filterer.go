package source

import (
	"fmt"
	"log/slog"
	"strings"
)

var filterFields = map[string]bool{
	"title": true,
	"id":    true,
	"link":  true,
}

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run drops orders rejected by the source's filters. Matching is a
// case-insensitive substring test; excludes are checked before includes.
func (f *Filterer) Run(orders []Order, sourceConfig *Config) []Order {
	if len(sourceConfig.Filters) == 0 {
		return orders
	}

	kept := make([]Order, 0, len(orders))
	for _, order := range orders {
		if reason, filtered := f.applyFilters(order, sourceConfig.Filters); filtered {
			slog.Debug("Order filtered", "source", sourceConfig.Name, "order_id", order.ID, "reason", reason)
			continue
		}
		kept = append(kept, order)
	}

	return kept
}

func (f *Filterer) applyFilters(order Order, filters []ConfigFilter) (string, bool) {
	for _, filter := range filters {
		value := f.getFieldValue(order, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude), true
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes), true
			}
		}
	}

	return "", false
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(order Order, field string) string {
	switch field {
	case "title":
		return order.Title
	case "id":
		return order.ID
	case "link":
		return order.HTMLURL
	default:
		return ""
	}
}
