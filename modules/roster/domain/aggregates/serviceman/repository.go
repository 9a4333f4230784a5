package serviceman

import (
	"context"

	"github.com/rosterhq/rostertrack/pkg/serrors"
)

var (
	ErrNotFound      = serrors.NewError("SERVICEMAN_NOT_FOUND", "serviceman not found")
	ErrAlreadyExists = serrors.NewError("SERVICEMAN_EXISTS", "serviceman already exists")
)

// FindParams narrows listing queries. Zero values mean "no constraint";
// ActiveOnly excludes records whose service is complete.
type FindParams struct {
	Unit       string
	Category   Category
	ActiveOnly bool
}

type Repository interface {
	GetAll(ctx context.Context) ([]*Serviceman, error)
	GetByName(ctx context.Context, name string) (*Serviceman, error)
	Find(ctx context.Context, params *FindParams) ([]*Serviceman, error)
	// Save upserts the batch atomically, keyed by normalized name.
	Save(ctx context.Context, records []*Serviceman) error
	Delete(ctx context.Context, name string) error
	Count(ctx context.Context) (int64, error)
}
