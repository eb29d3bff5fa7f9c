package tasks

import (
	"sync"
	"time"

	"github.com/lysyi3m/potus-tracker/app/database"
)

type mockSourceRepo struct {
	mu        sync.Mutex
	sources   map[string]*database.Source
	upserts   []string
	nextFetch map[string]time.Time
}

func newMockSourceRepo() *mockSourceRepo {
	return &mockSourceRepo{
		sources:   make(map[string]*database.Source),
		nextFetch: make(map[string]time.Time),
	}
}

func (m *mockSourceRepo) GetSource(name string) (*database.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sources[name], nil
}

func (m *mockSourceRepo) GetSourceCount() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sources), nil
}

func (m *mockSourceRepo) UpsertSource(name, kind, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts = append(m.upserts, name)
	m.sources[name] = &database.Source{Name: name, Kind: kind, URL: url}
	return nil
}

func (m *mockSourceRepo) UpdateSourceFetch(name string, nextFetch time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextFetch[name] = nextFetch
	return nil
}

type renderUpdate struct {
	markdown string
	status   string
	errorMsg string
}

type mockOrderRepo struct {
	mu        sync.Mutex
	orders    []database.OrderItem
	rendering []database.OrderForRendering
	renders   map[string]renderUpdate
	resets    []string
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{renders: make(map[string]renderUpdate)}
}

func (m *mockOrderRepo) GetOrder(id string) (*database.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			return &database.Order{ID: o.ID, Title: o.Title}, nil
		}
	}
	return nil, nil
}

func (m *mockOrderRepo) ListOrders(limit int) ([]database.Order, error) {
	return m.GetAllOrders()
}

func (m *mockOrderRepo) GetAllOrders() ([]database.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []database.Order
	for _, o := range m.orders {
		orders = append(orders, database.Order{ID: o.ID, Title: o.Title})
	}
	return orders, nil
}

func (m *mockOrderRepo) GetOrderCount() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders), nil
}

func (m *mockOrderRepo) UpsertOrder(sourceName string, item database.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, item)
	return nil
}

func (m *mockOrderRepo) GetOrdersForRendering(sourceName string, limit int) ([]database.OrderForRendering, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rendering, nil
}

func (m *mockOrderRepo) UpdateRenderedMarkdown(id string, markdown string, status string, renderedAt *time.Time, errorMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renders[id] = renderUpdate{markdown: markdown, status: status, errorMsg: errorMsg}
	return nil
}

func (m *mockOrderRepo) ResetRenderStatus(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, id)
	return nil
}

type mockEventRepo struct {
	mu     sync.Mutex
	events []database.EventItem
}

func (m *mockEventRepo) GetAllEvents() ([]database.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []database.Event
	for _, e := range m.events {
		events = append(events, database.Event{ID: e.ID, Date: e.Date, Time: e.Time, Details: e.Details})
	}
	return events, nil
}

func (m *mockEventRepo) GetEventsBetween(from, to string) ([]database.Event, error) {
	return m.GetAllEvents()
}

func (m *mockEventRepo) GetEventCount() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events), nil
}

func (m *mockEventRepo) UpsertEvent(sourceName string, item database.EventItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, item)
	return nil
}
