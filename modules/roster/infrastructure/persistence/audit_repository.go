package persistence

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/rosterhq/rostertrack/modules/roster/domain/entities/audit"
	"github.com/rosterhq/rostertrack/modules/roster/infrastructure/persistence/models"
)

const auditColumns = `id, actor, action, subject, details, created_at`

type AuditRepository struct {
	store *Store
}

func NewAuditRepository(store *Store) audit.Repository {
	return &AuditRepository{store: store}
}

// List returns events newest first. Rows are append-only, so rowid
// order is insertion order.
func (r *AuditRepository) List(ctx context.Context, params *audit.FindParams) ([]*audit.Event, error) {
	where, args := auditFilters(params)
	query := `SELECT ` + auditColumns + ` FROM audit_events WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY rowid DESC`
	if params != nil && params.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, params.Limit, params.Offset)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query audit events")
	}
	defer rows.Close()

	var out []*audit.Event
	for rows.Next() {
		var m models.AuditEvent
		if err := rows.Scan(&m.ID, &m.Actor, &m.Action, &m.Subject, &m.Details, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan audit event")
		}
		out = append(out, toDomainAuditEvent(&m))
	}
	return out, errors.Wrap(rows.Err(), "iterate audit events")
}

func (r *AuditRepository) Count(ctx context.Context, params *audit.FindParams) (int64, error) {
	where, args := auditFilters(params)
	query := `SELECT COUNT(*) FROM audit_events WHERE ` + strings.Join(where, " AND ")

	var count int64
	if err := r.store.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count audit events")
	}
	return count, nil
}

func (r *AuditRepository) Create(ctx context.Context, event *audit.Event) error {
	m := toDBAuditEvent(event)
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO audit_events (`+auditColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.Actor, m.Action, m.Subject, m.Details, m.CreatedAt,
	)
	return errors.Wrap(err, "insert audit event")
}

func auditFilters(params *audit.FindParams) ([]string, []any) {
	where, args := []string{"1 = 1"}, []any{}
	if params == nil {
		return where, args
	}
	if params.Subject != "" {
		where = append(where, "subject = ?")
		args = append(args, params.Subject)
	}
	if params.Action != "" {
		where = append(where, "action = ?")
		args = append(args, params.Action)
	}
	if params.From != nil {
		where = append(where, "created_at >= ?")
		args = append(args, params.From.UTC().Format(timestampLayout))
	}
	if params.To != nil {
		where = append(where, "created_at <= ?")
		args = append(args, params.To.UTC().Format(timestampLayout))
	}
	return where, args
}
