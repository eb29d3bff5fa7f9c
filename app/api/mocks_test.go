package api

import (
	"time"

	"github.com/lysyi3m/potus-tracker/app/database"
	"github.com/lysyi3m/potus-tracker/app/source"
	"github.com/lysyi3m/potus-tracker/app/tasks"
)

type mockSourceRepo struct {
	sources map[string]*database.Source
}

func (m *mockSourceRepo) GetSource(name string) (*database.Source, error) {
	return m.sources[name], nil
}

func (m *mockSourceRepo) GetSourceCount() (int, error) {
	return len(m.sources), nil
}

func (m *mockSourceRepo) UpsertSource(name, kind, url string) error {
	m.sources[name] = &database.Source{Name: name, Kind: kind, URL: url}
	return nil
}

func (m *mockSourceRepo) UpdateSourceFetch(name string, nextFetch time.Time) error {
	return nil
}

type mockOrderRepo struct {
	orders []database.Order
	resets []string
	limit  int
}

func (m *mockOrderRepo) GetOrder(id string) (*database.Order, error) {
	for i := range m.orders {
		if m.orders[i].ID == id {
			order := m.orders[i]
			return &order, nil
		}
	}
	return nil, nil
}

func (m *mockOrderRepo) ListOrders(limit int) ([]database.Order, error) {
	m.limit = limit
	if limit < len(m.orders) {
		return m.orders[:limit], nil
	}
	return m.orders, nil
}

func (m *mockOrderRepo) GetAllOrders() ([]database.Order, error) {
	return m.orders, nil
}

func (m *mockOrderRepo) GetOrderCount() (int, error) {
	return len(m.orders), nil
}

func (m *mockOrderRepo) UpsertOrder(sourceName string, item database.OrderItem) error {
	return nil
}

func (m *mockOrderRepo) GetOrdersForRendering(sourceName string, limit int) ([]database.OrderForRendering, error) {
	return nil, nil
}

func (m *mockOrderRepo) UpdateRenderedMarkdown(id string, markdown string, status string, renderedAt *time.Time, errorMsg string) error {
	return nil
}

func (m *mockOrderRepo) ResetRenderStatus(id string) error {
	m.resets = append(m.resets, id)
	return nil
}

type mockEventRepo struct {
	events      []database.Event
	betweenFrom string
	betweenTo   string
}

func (m *mockEventRepo) GetAllEvents() ([]database.Event, error) {
	return m.events, nil
}

func (m *mockEventRepo) GetEventsBetween(from, to string) ([]database.Event, error) {
	m.betweenFrom, m.betweenTo = from, to
	var events []database.Event
	for _, e := range m.events {
		if e.Date >= from && e.Date <= to {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *mockEventRepo) GetEventCount() (int, error) {
	return len(m.events), nil
}

func (m *mockEventRepo) UpsertEvent(sourceName string, item database.EventItem) error {
	return nil
}

type mockScheduler struct {
	sources []*source.Config
	err     error
}

func (m *mockScheduler) Start() {}

func (m *mockScheduler) Stop() {}

func (m *mockScheduler) EnqueueTask(task tasks.TaskInterface) error {
	return m.err
}

func (m *mockScheduler) EnqueueSource(sourceConfig *source.Config) error {
	if m.err != nil {
		return m.err
	}
	m.sources = append(m.sources, sourceConfig)
	return nil
}
