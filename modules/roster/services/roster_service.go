package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"
	"github.com/rosterhq/rostertrack/modules/roster/domain/entities/unit"
	"github.com/rosterhq/rostertrack/pkg/dateparse"
	"github.com/rosterhq/rostertrack/pkg/eventbus"
)

// RosterService is the edit surface for records the pipeline produced:
// manual adds, field edits, bulk unit moves and service completion.
type RosterService struct {
	repo      serviceman.Repository
	publisher eventbus.EventBus
	resolver  *unit.Resolver
}

func NewRosterService(repo serviceman.Repository, publisher eventbus.EventBus, resolver *unit.Resolver) *RosterService {
	return &RosterService{
		repo:      repo,
		publisher: publisher,
		resolver:  resolver,
	}
}

func (s *RosterService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *RosterService) GetAll(ctx context.Context) ([]*serviceman.Serviceman, error) {
	return s.repo.GetAll(ctx)
}

func (s *RosterService) GetByName(ctx context.Context, name string) (*serviceman.Serviceman, error) {
	return s.repo.GetByName(ctx, serviceman.NormalizeName(name))
}

func (s *RosterService) Find(ctx context.Context, params *serviceman.FindParams) ([]*serviceman.Serviceman, error) {
	return s.repo.Find(ctx, params)
}

func (s *RosterService) Create(ctx context.Context, data *serviceman.CreateDTO) (*serviceman.Serviceman, error) {
	if errs, ok := data.Ok(ctx); !ok {
		return nil, errs
	}
	name := serviceman.NormalizeName(data.Name)
	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return nil, serviceman.ErrAlreadyExists
	} else if !errors.Is(err, serviceman.ErrNotFound) {
		return nil, err
	}

	resolved, _ := s.resolver.Resolve(data.Unit, serviceman.Category(data.Category))
	entity := data.ToEntity(resolved)
	if err := s.repo.Save(ctx, []*serviceman.Serviceman{entity}); err != nil {
		return nil, err
	}
	s.publisher.Publish(serviceman.NewCreatedEvent(entity))
	return entity, nil
}

func (s *RosterService) Update(ctx context.Context, data *serviceman.UpdateDTO) (*serviceman.Serviceman, error) {
	if errs, ok := data.Ok(ctx); !ok {
		return nil, errs
	}
	entity, err := s.repo.GetByName(ctx, serviceman.NormalizeName(data.Name))
	if err != nil {
		return nil, err
	}

	entity.ApplyAdmin(data.Rank, data.PESStatus)
	if data.Unit != "" {
		resolved, _ := s.resolver.Resolve(data.Unit, entity.Category())
		entity.AssignUnit(resolved)
	}
	if data.MedicalStatus != "" {
		ms, ok := serviceman.ParseMedicalStatus(data.MedicalStatus)
		if !ok {
			return nil, fmt.Errorf("unknown medical status %q", data.MedicalStatus)
		}
		entity.SetMedicalStatus(ms)
	}

	windowOne, err := parseEditDate("window one end", data.WindowOneEnd)
	if err != nil {
		return nil, err
	}
	windowTwo, err := parseEditDate("window two end", data.WindowTwoEnd)
	if err != nil {
		return nil, err
	}
	ord, err := parseEditDate("ORD date", data.ORDDate)
	if err != nil {
		return nil, err
	}
	entity.ApplyServiceDates(windowOne, windowTwo, ord)

	if err := s.repo.Save(ctx, []*serviceman.Serviceman{entity}); err != nil {
		return nil, err
	}
	s.publisher.Publish(serviceman.NewUpdatedEvent(entity))
	return entity, nil
}

// SetResult writes one assessment slot on a stored record; unlike the
// forgiving import path, a grade outside the slot's vocabulary is an
// error here because the caller typed it deliberately.
func (s *RosterService) SetResult(ctx context.Context, name string, phase serviceman.Phase, slot serviceman.Slot, rawGrade, rawDate string) (*serviceman.Serviceman, error) {
	entity, err := s.repo.GetByName(ctx, serviceman.NormalizeName(name))
	if err != nil {
		return nil, err
	}
	grade, ok := serviceman.NormalizeGrade(slot, rawGrade)
	if !ok {
		return nil, fmt.Errorf("grade %q is not valid for %s (want one of %v)", rawGrade, slot, serviceman.GradeVocabulary(slot))
	}
	when, err := parseEditDate("completion date", rawDate)
	if err != nil {
		return nil, err
	}
	if when != nil {
		if err := dateparse.CheckValid(*when, false, time.Now().UTC()); err != nil {
			return nil, fmt.Errorf("completion date %q: %w", rawDate, err)
		}
	}
	if err := entity.SetResult(phase, slot, serviceman.Result{Grade: grade, Date: when}); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, []*serviceman.Serviceman{entity}); err != nil {
		return nil, err
	}
	s.publisher.Publish(serviceman.NewUpdatedEvent(entity))
	return entity, nil
}

func (s *RosterService) Delete(ctx context.Context, name string) (*serviceman.Serviceman, error) {
	normalized := serviceman.NormalizeName(name)
	entity, err := s.repo.GetByName(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, normalized); err != nil {
		return nil, err
	}
	s.publisher.Publish(serviceman.NewDeletedEvent(normalized))
	return entity, nil
}

// BulkAssignUnit moves every named record into one unit. The unit text
// must resolve through a rule; silently defaulting a whole group would
// hide a typo'd unit name.
func (s *RosterService) BulkAssignUnit(ctx context.Context, names []string, rawUnit string) (int, error) {
	resolved, matched := s.resolver.Resolve(rawUnit, serviceman.CategoryNSF)
	if !matched {
		return 0, fmt.Errorf("cannot resolve unit %q", rawUnit)
	}

	moved := make([]*serviceman.Serviceman, 0, len(names))
	movedNames := make([]string, 0, len(names))
	for _, name := range names {
		entity, err := s.repo.GetByName(ctx, serviceman.NormalizeName(name))
		if err != nil {
			if errors.Is(err, serviceman.ErrNotFound) {
				continue
			}
			return 0, err
		}
		entity.AssignUnit(resolved)
		moved = append(moved, entity)
		movedNames = append(movedNames, entity.Name())
	}
	if len(moved) == 0 {
		return 0, nil
	}
	if err := s.repo.Save(ctx, moved); err != nil {
		return 0, err
	}
	s.publisher.Publish(serviceman.NewUnitBulkAssignedEvent(resolved, movedNames))
	return len(moved), nil
}

// MarkServiceComplete flags a record as done with mandatory service;
// active views drop it from then on.
func (s *RosterService) MarkServiceComplete(ctx context.Context, name string) (*serviceman.Serviceman, error) {
	entity, err := s.repo.GetByName(ctx, serviceman.NormalizeName(name))
	if err != nil {
		return nil, err
	}
	entity.MarkServiceComplete()
	if err := s.repo.Save(ctx, []*serviceman.Serviceman{entity}); err != nil {
		return nil, err
	}
	s.publisher.Publish(serviceman.NewServiceCompletedEvent(entity))
	return entity, nil
}

// parseEditDate parses a user-typed date field; empty means "leave
// unchanged". Unlike ingestion, a value that does not parse is an error.
func parseEditDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	when := dateparse.Parse(raw)
	if when == nil {
		return nil, fmt.Errorf("unparseable %s %q", field, raw)
	}
	if err := dateparse.CheckValid(*when, true, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("%s %q: %w", field, raw, err)
	}
	return when, nil
}
