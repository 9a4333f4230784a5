package persistence

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-faster/errors"

	"github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"
	"github.com/rosterhq/rostertrack/modules/roster/infrastructure/persistence/models"
)

const servicemanColumns = `name, category, unit, rank, pes_status, medical_status,
	ord_date, window_one_end, window_two_end, service_complete, assessment, last_updated_at`

type RosterRepository struct {
	store *Store
}

func NewRosterRepository(store *Store) serviceman.Repository {
	return &RosterRepository{store: store}
}

func (r *RosterRepository) GetAll(ctx context.Context) ([]*serviceman.Serviceman, error) {
	return r.query(ctx, `SELECT `+servicemanColumns+` FROM servicemen ORDER BY name`)
}

func (r *RosterRepository) GetByName(ctx context.Context, name string) (*serviceman.Serviceman, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+servicemanColumns+` FROM servicemen WHERE name = ?`, name)

	var m models.Serviceman
	if err := scanServiceman(row.Scan, &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, serviceman.ErrNotFound
		}
		return nil, errors.Wrap(err, "get serviceman")
	}
	return toDomainServiceman(&m)
}

func (r *RosterRepository) Find(ctx context.Context, params *serviceman.FindParams) ([]*serviceman.Serviceman, error) {
	where, args := []string{"1 = 1"}, []any{}
	if params != nil {
		if params.Unit != "" {
			where = append(where, "unit = ?")
			args = append(args, params.Unit)
		}
		if params.Category != "" {
			where = append(where, "category = ?")
			args = append(args, string(params.Category))
		}
		if params.ActiveOnly {
			where = append(where, "service_complete = 0")
		}
	}
	query := `SELECT ` + servicemanColumns + ` FROM servicemen WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY name`
	return r.query(ctx, query, args...)
}

// Save upserts the batch atomically: either every record lands or none.
func (r *RosterRepository) Save(ctx context.Context, records []*serviceman.Serviceman) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO servicemen (`+servicemanColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			category = excluded.category,
			unit = excluded.unit,
			rank = excluded.rank,
			pes_status = excluded.pes_status,
			medical_status = excluded.medical_status,
			ord_date = excluded.ord_date,
			window_one_end = excluded.window_one_end,
			window_two_end = excluded.window_two_end,
			service_complete = excluded.service_complete,
			assessment = excluded.assessment,
			last_updated_at = excluded.last_updated_at`)
	if err != nil {
		return errors.Wrap(err, "prepare upsert")
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		m, err := toDBServiceman(rec)
		if err != nil {
			return errors.Wrapf(err, "encode %s", rec.Name())
		}
		if _, err := stmt.ExecContext(ctx,
			m.Name,
			m.Category,
			m.Unit,
			m.Rank,
			m.PESStatus,
			m.MedicalStatus,
			m.ORDDate,
			m.WindowOneEnd,
			m.WindowTwoEnd,
			m.ServiceComplete,
			m.Assessment,
			m.LastUpdatedAt,
		); err != nil {
			return errors.Wrapf(err, "save %s", rec.Name())
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}

func (r *RosterRepository) Delete(ctx context.Context, name string) error {
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM servicemen WHERE name = ?`, name)
	if err != nil {
		return errors.Wrap(err, "delete serviceman")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete serviceman")
	}
	if affected == 0 {
		return serviceman.ErrNotFound
	}
	return nil
}

func (r *RosterRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM servicemen`).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count servicemen")
	}
	return count, nil
}

func (r *RosterRepository) query(ctx context.Context, query string, args ...any) ([]*serviceman.Serviceman, error) {
	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query servicemen")
	}
	defer rows.Close()

	var out []*serviceman.Serviceman
	for rows.Next() {
		var m models.Serviceman
		if err := scanServiceman(rows.Scan, &m); err != nil {
			return nil, errors.Wrap(err, "scan serviceman")
		}
		rec, err := toDomainServiceman(&m)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s", m.Name)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate servicemen")
	}
	return out, nil
}

func scanServiceman(scan func(...any) error, m *models.Serviceman) error {
	return scan(
		&m.Name,
		&m.Category,
		&m.Unit,
		&m.Rank,
		&m.PESStatus,
		&m.MedicalStatus,
		&m.ORDDate,
		&m.WindowOneEnd,
		&m.WindowTwoEnd,
		&m.ServiceComplete,
		&m.Assessment,
		&m.LastUpdatedAt,
	)
}
