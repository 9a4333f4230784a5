package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"
)

// ImportReport is the outcome of one ingestion run. Row and field
// problems land in Warnings and never abort the run; Errors is non-empty
// only when no usable personnel data could be located at all, in which
// case Records is empty. Created counts names new to the run; an applied
// import re-counts names already in the store as Merged.
type ImportReport struct {
	RunID    uuid.UUID                `json:"run_id"`
	Records  []*serviceman.Serviceman `json:"-"`
	Warnings []string                 `json:"warnings"`
	Errors   []string                 `json:"errors"`
	Created  int                      `json:"created"`
	Merged   int                      `json:"merged"`
	Skipped  int                      `json:"skipped"`
}

func newImportReport() *ImportReport {
	return &ImportReport{RunID: uuid.New()}
}

func (r *ImportReport) Failed() bool { return len(r.Errors) > 0 }

func (r *ImportReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ImportReport) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// ImportCompletedEvent fires once per persisted ingestion run.
type ImportCompletedEvent struct {
	RunID     uuid.UUID
	Source    string
	Created   int
	Merged    int
	Skipped   int
	Warnings  int
	Timestamp time.Time
}

func NewImportCompletedEvent(source string, report *ImportReport) *ImportCompletedEvent {
	return &ImportCompletedEvent{
		RunID:     report.RunID,
		Source:    source,
		Created:   report.Created,
		Merged:    report.Merged,
		Skipped:   report.Skipped,
		Warnings:  len(report.Warnings),
		Timestamp: time.Now().UTC(),
	}
}

// ExportCompletedEvent fires once per produced workbook.
type ExportCompletedEvent struct {
	Destination string
	Records     int
	Timestamp   time.Time
}

func NewExportCompletedEvent(destination string, records int) *ExportCompletedEvent {
	return &ExportCompletedEvent{Destination: destination, Records: records, Timestamp: time.Now().UTC()}
}
