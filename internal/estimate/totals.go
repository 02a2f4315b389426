package estimate

import (
	"math"

	"sizewise/pkg/models"
)

// Totals is the aggregated result over an initiative's selected factors
// and manual resource allocations.
type Totals struct {
	Hours float64 `json:"totalHours"`
	Cost  float64 `json:"totalCost"`
}

// ComputeTotals aggregates hours and cost across selected factors and
// manual resources.
//
// Hours come from each selection's hour snapshot multiplied by its
// quantity, plus manual hours; unit values never contribute to hours.
// Cost multiplies every hour and unit entry by the resource type's rate
// from costs; resource types without a rate contribute 0, and a nil
// costs map skips cost entirely.
//
// A selection with an empty snapshot falls back to the live factor in
// factors. Unit values are always resolved against factors because the
// selection snapshot carries hours only. A factor id that resolves
// nowhere is skipped, never an error.
//
// Hours are rounded to one decimal place so repeated multiplication and
// summation cannot leak float artifacts into classification or storage.
func ComputeTotals(
	selected []models.SelectedFactor,
	manual models.ManualResources,
	factors map[string]models.EstimationFactor,
	costs map[string]float64,
) Totals {
	var t Totals

	for _, sf := range selected {
		qty := float64(sf.Quantity)
		if qty < 1 {
			qty = 1
		}

		hours := sf.Hours
		if len(hours) == 0 {
			if f, ok := factors[sf.FactorID]; ok {
				hours = f.Hours
			}
		}
		for rt, h := range hours {
			t.Hours += h * qty
			if costs != nil {
				t.Cost += h * qty * costs[rt]
			}
		}

		if costs != nil {
			if f, ok := factors[sf.FactorID]; ok {
				for rt, units := range f.Values {
					t.Cost += units * qty * costs[rt]
				}
			}
		}
	}

	for rt, h := range manual.Hours {
		t.Hours += h
		if costs != nil {
			t.Cost += h * costs[rt]
		}
	}
	if costs != nil {
		for rt, units := range manual.Values {
			t.Cost += units * costs[rt]
		}
	}

	t.Hours = Round1(t.Hours)
	return t
}

// Round1 rounds hours to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
