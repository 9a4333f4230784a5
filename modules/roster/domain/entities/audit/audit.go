package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Actions recorded against the roster. Subject is a normalized
// serviceman name for record-level actions and a file or sheet name for
// import and export runs.
const (
	ActionImport       = "import"
	ActionExport       = "export"
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionDelete       = "delete"
	ActionBulkAssign   = "bulk_assign"
	ActionMarkComplete = "mark_complete"
)

type Event struct {
	ID        uuid.UUID
	Actor     string
	Action    string
	Subject   string
	Details   json.RawMessage
	CreatedAt time.Time
}

type FindParams struct {
	Subject string
	Action  string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]*Event, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, event *Event) error
}
