package serviceman

import "strings"

// Category selects which assessment schema a serviceman is tracked under.
type Category string

const (
	CategoryNSF     Category = "NSF"
	CategoryRegular Category = "Regular"
)

// regularMarker is the token the service column carries for regulars
// ("REG", "REGULAR", "Regular Service" all qualify).
const regularMarker = "REG"

// ParseCategory classifies the raw service-marker cell. Anything that does
// not carry the regular marker is NSF; NSF is the safe default for blank
// or unrecognized markers.
func ParseCategory(raw string) Category {
	if strings.Contains(strings.ToUpper(raw), regularMarker) {
		return CategoryRegular
	}
	return CategoryNSF
}

func (c Category) IsValid() bool {
	return c == CategoryNSF || c == CategoryRegular
}

// MedicalStatus is the closed medical-state vocabulary.
type MedicalStatus string

const (
	MedicalFit            MedicalStatus = "Fit"
	MedicalLightDuty      MedicalStatus = "Light Duty"
	MedicalExcusedFitness MedicalStatus = "Excused Fitness"
	MedicalBoard          MedicalStatus = "Medical Board"
)

var medicalStatuses = []MedicalStatus{MedicalFit, MedicalLightDuty, MedicalExcusedFitness, MedicalBoard}

// ParseMedicalStatus folds raw text onto the vocabulary.
func ParseMedicalStatus(raw string) (MedicalStatus, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, ms := range medicalStatuses {
		if strings.EqualFold(trimmed, string(ms)) {
			return ms, true
		}
	}
	return "", false
}

func (m MedicalStatus) IsValid() bool {
	for _, ms := range medicalStatuses {
		if m == ms {
			return true
		}
	}
	return false
}

// MedicalStatuses returns the vocabulary in display order.
func MedicalStatuses() []MedicalStatus {
	out := make([]MedicalStatus, len(medicalStatuses))
	copy(out, medicalStatuses)
	return out
}
