package serviceman

import "time"

// CreatedEvent fires when a record enters the roster outside an ingestion
// run (manual add); ingestion runs publish a single summary event instead.
type CreatedEvent struct {
	Data      Serviceman
	Timestamp time.Time
}

func NewCreatedEvent(result *Serviceman) *CreatedEvent {
	return &CreatedEvent{Data: *result, Timestamp: time.Now().UTC()}
}

type UpdatedEvent struct {
	Data      Serviceman
	Timestamp time.Time
}

func NewUpdatedEvent(result *Serviceman) *UpdatedEvent {
	return &UpdatedEvent{Data: *result, Timestamp: time.Now().UTC()}
}

type DeletedEvent struct {
	Name      string
	Timestamp time.Time
}

func NewDeletedEvent(name string) *DeletedEvent {
	return &DeletedEvent{Name: name, Timestamp: time.Now().UTC()}
}

// ServiceCompletedEvent fires when a record is marked as having finished
// mandatory service and leaves the active views.
type ServiceCompletedEvent struct {
	Data      Serviceman
	Timestamp time.Time
}

func NewServiceCompletedEvent(result *Serviceman) *ServiceCompletedEvent {
	return &ServiceCompletedEvent{Data: *result, Timestamp: time.Now().UTC()}
}

// UnitBulkAssignedEvent fires once per bulk unit move.
type UnitBulkAssignedEvent struct {
	Unit      string
	Names     []string
	Timestamp time.Time
}

func NewUnitBulkAssignedEvent(unit string, names []string) *UnitBulkAssignedEvent {
	return &UnitBulkAssignedEvent{Unit: unit, Names: names, Timestamp: time.Now().UTC()}
}
