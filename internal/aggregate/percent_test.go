package aggregate

import (
	"testing"

	"github.com/yomarr/yomarr/internal/models"
)

func TestUnitPercent(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected int
	}{
		{"halfway", 5, 10, 50},
		{"zero total", 5, 0, 0},
		{"zero current", 0, 10, 0},
		{"complete", 10, 10, 100},
		{"overshoot clamps", 15, 10, 100},
		{"negative current clamps", -3, 10, 0},
		{"rounds up", 1, 3, 33},
		{"rounds half up", 1, 8, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnitPercent(tt.current, tt.total); got != tt.expected {
				t.Errorf("UnitPercent(%d, %d) = %d, expected %d", tt.current, tt.total, got, tt.expected)
			}
		})
	}
}

func TestRecordPercentNil(t *testing.T) {
	if got := RecordPercent(nil); got != 0 {
		t.Errorf("Expected 0 for nil record, got %d", got)
	}
}

func TestFurthest(t *testing.T) {
	records := []*models.ProgressRecord{
		{ContentID: "m1", UnitNumber: 2, CurrentUnit: 5},
		{ContentID: "m1", UnitNumber: 4, CurrentUnit: 1},
		{ContentID: "m1", UnitNumber: 3, CurrentUnit: 9},
	}

	got := Furthest(records)
	if got == nil || got.UnitNumber != 4 {
		t.Fatalf("Expected unit 4 as furthest, got %+v", got)
	}
}

func TestFurthestTieBrokenByCurrentUnit(t *testing.T) {
	records := []*models.ProgressRecord{
		{ContentID: "m1", UnitNumber: 3, CurrentUnit: 2},
		{ContentID: "m1", UnitNumber: 3, CurrentUnit: 7},
	}

	got := Furthest(records)
	if got == nil || got.CurrentUnit != 7 {
		t.Fatalf("Expected tie broken by larger current unit, got %+v", got)
	}
}

func TestFurthestEmpty(t *testing.T) {
	if got := Furthest(nil); got != nil {
		t.Errorf("Expected nil for empty history, got %+v", got)
	}
}

func TestWorkPercent(t *testing.T) {
	units := []Unit{
		{Number: 1, TotalUnits: 10},
		{Number: 2, TotalUnits: 10},
		{Number: 3, TotalUnits: 10},
	}

	// Worked example: furthest {unit 2, current 5} over [10,10,10] = (10+5)/30 = 50%
	records := []*models.ProgressRecord{
		{ContentID: "m1", UnitNumber: 2, CurrentUnit: 5, TotalUnits: 10},
	}
	if got := WorkPercent(records, units); got != 50 {
		t.Errorf("Expected 50, got %d", got)
	}
}

func TestWorkPercentFurthestUnitCapped(t *testing.T) {
	units := []Unit{
		{Number: 1, TotalUnits: 10},
		{Number: 2, TotalUnits: 10},
	}

	// Current unit beyond the unit's own total only earns that unit's total
	records := []*models.ProgressRecord{
		{ContentID: "m1", UnitNumber: 1, CurrentUnit: 25},
	}
	if got := WorkPercent(records, units); got != 50 {
		t.Errorf("Expected 50, got %d", got)
	}
}

func TestWorkPercentEmptyHistory(t *testing.T) {
	units := []Unit{{Number: 1, TotalUnits: 10}}
	if got := WorkPercent(nil, units); got != 0 {
		t.Errorf("Expected 0 for empty history, got %d", got)
	}
}

func TestWorkPercentZeroTotalCatalog(t *testing.T) {
	units := []Unit{
		{Number: 1, TotalUnits: 0},
		{Number: 2, TotalUnits: 0},
	}
	records := []*models.ProgressRecord{
		{ContentID: "m1", UnitNumber: 2, CurrentUnit: 5},
	}
	if got := WorkPercent(records, units); got != 0 {
		t.Errorf("Expected 0 for zero-total catalog, got %d", got)
	}
}

func TestWorkPercentApprox(t *testing.T) {
	records := []*models.ProgressRecord{
		{ContentID: "m1", UnitNumber: 12, CurrentUnit: 3},
	}

	if got := WorkPercentApprox(records, 24); got != 50 {
		t.Errorf("Expected 50, got %d", got)
	}
	if got := WorkPercentApprox(records, 0); got != 0 {
		t.Errorf("Expected 0 for zero unit count, got %d", got)
	}
	if got := WorkPercentApprox(nil, 24); got != 0 {
		t.Errorf("Expected 0 for empty history, got %d", got)
	}
}

func TestWorkPercentApproxMonotonic(t *testing.T) {
	const totalUnits = 37

	prev := 0
	for unit := 0; unit <= totalUnits+5; unit++ {
		records := []*models.ProgressRecord{
			{ContentID: "m1", UnitNumber: unit},
		}
		got := WorkPercentApprox(records, totalUnits)
		if got < prev {
			t.Fatalf("Percent decreased from %d to %d at unit %d", prev, got, unit)
		}
		prev = got
	}

	if prev != 100 {
		t.Errorf("Expected 100 beyond the last unit, got %d", prev)
	}
}

func TestHasUnitTotals(t *testing.T) {
	if HasUnitTotals([]Unit{{Number: 1}, {Number: 2}}) {
		t.Error("Expected false when no unit carries a total")
	}
	if !HasUnitTotals([]Unit{{Number: 1}, {Number: 2, TotalUnits: 4}}) {
		t.Error("Expected true when any unit carries a total")
	}
}
