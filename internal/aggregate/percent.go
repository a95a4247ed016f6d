// Package aggregate computes completion percentages from raw progress
// counters, at both unit (chapter/episode) and whole-work granularity.
// All functions are pure; catalog metadata is passed in by the caller.
package aggregate

import (
	"math"

	"github.com/yomarr/yomarr/internal/models"
)

// Unit describes one chapter/episode of a work as reported by the catalog
type Unit struct {
	Number     int
	TotalUnits int
	Title      string
	Thumbnail  string
}

// UnitPercent converts a current/total counter pair into a 0-100 percentage.
// A total of zero yields 0 rather than dividing by zero.
func UnitPercent(current, total int) int {
	if total <= 0 {
		return 0
	}
	return clampPercent(ratio(current, total))
}

// RecordPercent returns the unit-level percentage for a progress record.
// A nil record (no progress for the requested chapter) yields 0.
func RecordPercent(rec *models.ProgressRecord) int {
	if rec == nil {
		return 0
	}
	return UnitPercent(rec.CurrentUnit, rec.TotalUnits)
}

// Furthest returns the furthest-progress record: the entry with the maximum
// unit number, ties broken by the larger current unit. Returns nil for an
// empty history.
func Furthest(records []*models.ProgressRecord) *models.ProgressRecord {
	var furthest *models.ProgressRecord
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if furthest == nil ||
			rec.UnitNumber > furthest.UnitNumber ||
			(rec.UnitNumber == furthest.UnitNumber && rec.CurrentUnit > furthest.CurrentUnit) {
			furthest = rec
		}
	}
	return furthest
}

// WorkPercent computes whole-work completion from history and the catalog's
// ordered unit list. Every unit strictly before the furthest one counts as
// fully read; the furthest unit contributes min(CurrentUnit, TotalUnits).
// Returns 0 when history is empty or the catalog sums to zero units.
func WorkPercent(records []*models.ProgressRecord, units []Unit) int {
	furthest := Furthest(records)
	if furthest == nil {
		return 0
	}

	var total, done int
	for _, unit := range units {
		total += unit.TotalUnits
		if unit.Number < furthest.UnitNumber {
			done += unit.TotalUnits
		} else if unit.Number == furthest.UnitNumber {
			done += min(furthest.CurrentUnit, unit.TotalUnits)
		}
	}

	if total == 0 {
		return 0
	}

	return clampPercent(ratio(done, total))
}

// WorkPercentApprox is the coarse fallback when per-unit totals are not
// available: furthest unit number over the catalog's unit count. It is
// monotonically non-decreasing in the furthest unit number for a fixed count.
func WorkPercentApprox(records []*models.ProgressRecord, totalUnitCount int) int {
	furthest := Furthest(records)
	if furthest == nil || totalUnitCount <= 0 {
		return 0
	}
	return clampPercent(ratio(furthest.UnitNumber, totalUnitCount))
}

// HasUnitTotals reports whether the catalog supplied per-unit counts
func HasUnitTotals(units []Unit) bool {
	for _, unit := range units {
		if unit.TotalUnits > 0 {
			return true
		}
	}
	return false
}

func ratio(part, whole int) int {
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
