package services

import (
	"context"
	"errors"

	"github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"
	"github.com/rosterhq/rostertrack/modules/roster/domain/entities/audit"
	"github.com/rosterhq/rostertrack/modules/roster/domain/entities/unit"
	"github.com/rosterhq/rostertrack/pkg/configuration"
)

var errTestSave = errors.New("storage unavailable")

// memRepo is an in-memory Repository for service tests.
type memRepo struct {
	records map[string]*serviceman.Serviceman
	order   []string
	saveErr error
}

func newMemRepo() *memRepo {
	return &memRepo{records: make(map[string]*serviceman.Serviceman)}
}

func (m *memRepo) GetAll(_ context.Context) ([]*serviceman.Serviceman, error) {
	out := make([]*serviceman.Serviceman, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.records[name])
	}
	return out, nil
}

func (m *memRepo) GetByName(_ context.Context, name string) (*serviceman.Serviceman, error) {
	rec, ok := m.records[name]
	if !ok {
		return nil, serviceman.ErrNotFound
	}
	return rec, nil
}

func (m *memRepo) Find(ctx context.Context, params *serviceman.FindParams) ([]*serviceman.Serviceman, error) {
	all, _ := m.GetAll(ctx)
	if params == nil {
		return all, nil
	}
	out := make([]*serviceman.Serviceman, 0, len(all))
	for _, rec := range all {
		if params.Unit != "" && rec.Unit() != params.Unit {
			continue
		}
		if params.Category != "" && rec.Category() != params.Category {
			continue
		}
		if params.ActiveOnly && rec.IsServiceComplete() {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *memRepo) Save(_ context.Context, records []*serviceman.Serviceman) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	for _, rec := range records {
		if _, ok := m.records[rec.Name()]; !ok {
			m.order = append(m.order, rec.Name())
		}
		m.records[rec.Name()] = rec
	}
	return nil
}

func (m *memRepo) Delete(_ context.Context, name string) error {
	if _, ok := m.records[name]; !ok {
		return serviceman.ErrNotFound
	}
	delete(m.records, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.records)), nil
}

// stubPublisher records published events without dispatching them.
type stubPublisher struct {
	events []interface{}
}

func (s *stubPublisher) Publish(args ...interface{}) { s.events = append(s.events, args...) }
func (s *stubPublisher) PublishE(args ...interface{}) error {
	s.Publish(args...)
	return nil
}
func (s *stubPublisher) Subscribe(handler interface{})   {}
func (s *stubPublisher) Unsubscribe(handler interface{}) {}
func (s *stubPublisher) Clear()                          {}
func (s *stubPublisher) SubscribersCount() int           { return 0 }

// memAuditRepo collects audit events in memory.
type memAuditRepo struct {
	events    []*audit.Event
	createErr error
}

func (m *memAuditRepo) List(_ context.Context, _ *audit.FindParams) ([]*audit.Event, error) {
	return m.events, nil
}

func (m *memAuditRepo) Count(_ context.Context, _ *audit.FindParams) (int64, error) {
	return int64(len(m.events)), nil
}

func (m *memAuditRepo) Create(_ context.Context, event *audit.Event) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.events = append(m.events, event)
	return nil
}

func testIngestService(repo serviceman.Repository) (*IngestService, *stubPublisher) {
	pub := &stubPublisher{}
	svc := NewIngestService(
		repo,
		pub,
		unit.NewResolver(),
		configuration.IngestOptions{HeaderScanRows: 10},
		configuration.DecodeOptions{Background: false, AsyncThreshold: 1 << 20},
	)
	return svc, pub
}
