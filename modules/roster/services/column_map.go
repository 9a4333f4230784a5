package services

import "github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"

// Primary-sheet column contract, 0-indexed from column A. The layout is
// fixed by the sheets in circulation; import and export both read this
// table so a re-imported export lines up column for column.
const (
	colUnitLabel = 0
	colRank      = 1
	colName      = 2
	colPES       = 3
	colService   = 4
)

// columnBinding ties one result column to the assessment slot it feeds.
type columnBinding struct {
	col   int
	phase serviceman.Phase
	slot  serviceman.Slot
}

var nsfResultColumns = []columnBinding{
	{col: 5, phase: serviceman.PhaseOne, slot: serviceman.SlotFitness},
	{col: 6, phase: serviceman.PhaseOne, slot: serviceman.SlotVocational},
	{col: 7, phase: serviceman.PhaseOne, slot: serviceman.SlotAdvanced},
	{col: 8, phase: serviceman.PhaseTwo, slot: serviceman.SlotFitness},
	{col: 9, phase: serviceman.PhaseTwo, slot: serviceman.SlotVocational},
	{col: 10, phase: serviceman.PhaseTwo, slot: serviceman.SlotAdvanced},
}

var regularResultColumns = []columnBinding{
	{col: 11, phase: serviceman.PhaseWorkYear, slot: serviceman.SlotFitness},
	{col: 12, phase: serviceman.PhaseWorkYear, slot: serviceman.SlotVocational},
	{col: 13, phase: serviceman.PhaseWorkYear, slot: serviceman.SlotAdvanced},
	{col: 14, phase: serviceman.PhaseWorkYear, slot: serviceman.SlotSkill},
}

func resultColumns(cat serviceman.Category) []columnBinding {
	if cat == serviceman.CategoryRegular {
		return regularResultColumns
	}
	return nsfResultColumns
}

// primaryColumnCount is the full width of an exported primary-sheet row.
const primaryColumnCount = 15

// Secondary (date) sheet layout: rank and name sit in the same columns
// as the primary sheet, followed by the window and ORD dates.
const (
	secColWindowOne = 3
	secColWindowTwo = 4
	secColORD       = 5
)

// secondaryColumnCount is the width of an exported date-sheet row.
const secondaryColumnCount = 6

// Legacy results sheets carry one test outcome per row.
const (
	legacyColSlot  = 3
	legacyColGrade = 4
	legacyColDate  = 5
)
