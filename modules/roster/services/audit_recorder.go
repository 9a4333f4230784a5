package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"
	"github.com/rosterhq/rostertrack/modules/roster/domain/entities/audit"
	"github.com/rosterhq/rostertrack/pkg/eventbus"
)

// AuditRecorder listens to roster events and writes the change history.
// Recording failures are logged, never propagated; an audit hiccup must
// not fail the operation it describes.
type AuditRecorder struct {
	repo  audit.Repository
	actor string
	log   *logrus.Logger
}

func NewAuditRecorder(repo audit.Repository, actor string, log *logrus.Logger) *AuditRecorder {
	return &AuditRecorder{
		repo:  repo,
		actor: actor,
		log:   log,
	}
}

// Register subscribes the recorder to every roster event on the bus.
func (r *AuditRecorder) Register(bus eventbus.EventBus) {
	bus.Subscribe(r.onCreated)
	bus.Subscribe(r.onUpdated)
	bus.Subscribe(r.onDeleted)
	bus.Subscribe(r.onServiceCompleted)
	bus.Subscribe(r.onBulkAssigned)
	bus.Subscribe(r.onImportCompleted)
	bus.Subscribe(r.onExportCompleted)
}

func (r *AuditRecorder) onCreated(e *serviceman.CreatedEvent) {
	r.record(audit.ActionCreate, e.Data.Name(), map[string]any{
		"category": e.Data.Category(),
		"unit":     e.Data.Unit(),
		"rank":     e.Data.Rank(),
	})
}

func (r *AuditRecorder) onUpdated(e *serviceman.UpdatedEvent) {
	r.record(audit.ActionUpdate, e.Data.Name(), map[string]any{
		"unit":    e.Data.Unit(),
		"rank":    e.Data.Rank(),
		"pes":     e.Data.PESStatus(),
		"medical": e.Data.MedicalStatus(),
	})
}

func (r *AuditRecorder) onDeleted(e *serviceman.DeletedEvent) {
	r.record(audit.ActionDelete, e.Name, nil)
}

func (r *AuditRecorder) onServiceCompleted(e *serviceman.ServiceCompletedEvent) {
	r.record(audit.ActionMarkComplete, e.Data.Name(), nil)
}

func (r *AuditRecorder) onBulkAssigned(e *serviceman.UnitBulkAssignedEvent) {
	r.record(audit.ActionBulkAssign, e.Unit, map[string]any{
		"count": len(e.Names),
		"names": e.Names,
	})
}

func (r *AuditRecorder) onImportCompleted(e *ImportCompletedEvent) {
	r.record(audit.ActionImport, e.Source, map[string]any{
		"run_id":   e.RunID,
		"created":  e.Created,
		"merged":   e.Merged,
		"skipped":  e.Skipped,
		"warnings": e.Warnings,
	})
}

func (r *AuditRecorder) onExportCompleted(e *ExportCompletedEvent) {
	r.record(audit.ActionExport, e.Destination, map[string]any{
		"records": e.Records,
	})
}

func (r *AuditRecorder) record(action, subject string, details any) {
	var payload json.RawMessage
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			r.log.WithError(err).WithField("action", action).Warn("audit payload not serializable")
		} else {
			payload = data
		}
	}
	event := &audit.Event{
		ID:        uuid.New(),
		Actor:     r.actor,
		Action:    action,
		Subject:   subject,
		Details:   payload,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.repo.Create(context.Background(), event); err != nil {
		r.log.WithError(err).WithField("action", action).Error("audit event not recorded")
	}
}
