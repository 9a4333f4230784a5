package serviceman

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rosterhq/rostertrack/pkg/constants"
	"github.com/rosterhq/rostertrack/pkg/serrors"
)

// CreateDTO is the manual-add payload. Unit is raw text; the service
// resolves it onto the closed vocabulary before the entity is built.
// Rank is required: every sheet row carries one, and an exported record
// without a rank would not survive re-import.
type CreateDTO struct {
	Name      string `json:"name" validate:"required,max=64"`
	Category  string `json:"category" validate:"required,oneof=NSF Regular"`
	Unit      string `json:"unit" validate:"max=64"`
	Rank      string `json:"rank" validate:"required,max=32"`
	PESStatus string `json:"pes_status" validate:"max=16"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Category = strings.TrimSpace(d.Category)
	d.Unit = strings.TrimSpace(d.Unit)
	d.Rank = strings.TrimSpace(d.Rank)
	d.PESStatus = strings.TrimSpace(d.PESStatus)
}

func (d *CreateDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	return serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)), false
}

// ToEntity builds the aggregate; the caller supplies the resolved unit.
func (d *CreateDTO) ToEntity(resolvedUnit string) *Serviceman {
	return New(
		d.Name,
		Category(d.Category),
		WithUnit(resolvedUnit),
		WithRank(d.Rank),
		WithPESStatus(d.PESStatus),
	)
}

// UpdateDTO carries edits keyed by name. Empty fields are left untouched;
// date fields are canonical YYYY-MM-DD or any form the date normalizer
// accepts.
type UpdateDTO struct {
	Name          string `json:"name" validate:"required,max=64"`
	Rank          string `json:"rank" validate:"max=32"`
	PESStatus     string `json:"pes_status" validate:"max=16"`
	Unit          string `json:"unit" validate:"max=64"`
	MedicalStatus string `json:"medical_status" validate:"omitempty,oneof=Fit 'Light Duty' 'Excused Fitness' 'Medical Board'"`
	ORDDate       string `json:"ord_date" validate:"max=32"`
	WindowOneEnd  string `json:"window_one_end" validate:"max=32"`
	WindowTwoEnd  string `json:"window_two_end" validate:"max=32"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Rank = strings.TrimSpace(d.Rank)
	d.PESStatus = strings.TrimSpace(d.PESStatus)
	d.Unit = strings.TrimSpace(d.Unit)
	d.MedicalStatus = strings.TrimSpace(d.MedicalStatus)
	d.ORDDate = strings.TrimSpace(d.ORDDate)
	d.WindowOneEnd = strings.TrimSpace(d.WindowOneEnd)
	d.WindowTwoEnd = strings.TrimSpace(d.WindowTwoEnd)
}

func (d *UpdateDTO) Ok(_ context.Context) (serrors.ValidationErrors, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	if errs == nil {
		return serrors.ValidationErrors{}, true
	}
	return serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors)), false
}
