package audit_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sizewise/internal/audit"
	"sizewise/pkg/models"
)

func TestDiff_Reflexive(t *testing.T) {
	dur := 4
	i := models.Initiative{
		Name:        "Revamp",
		Priority:    "high",
		PriorityNum: &dur,
		StartDate:   "2026-02-01",
		SelectedFactors: []models.SelectedFactor{
			{FactorID: "f1", Quantity: 2, Name: "API"},
		},
		Categories:      []string{"web"},
		ManualResources: models.ManualResources{Hours: map[string]float64{"dev": 3}},
	}
	snap := i.Snapshot()

	res := audit.Diff(snap, snap, audit.InitiativeKeys)
	assert.False(t, res.HasChanges)
	assert.Empty(t, res.Changes)
}

func TestDiff_ReflexiveAfterJSONRoundTrip(t *testing.T) {
	// a freshly built snapshot must compare clean against the same
	// snapshot decoded from a persisted journal entry
	i := models.Initiative{
		Name: "Revamp",
		SelectedFactors: []models.SelectedFactor{
			{FactorID: "f1", Quantity: 2, Name: "API", Hours: map[string]float64{"dev": 8}},
		},
		Categories:    []string{"web", "payments"},
		ComputedHours: 16,
	}
	fresh := i.Snapshot()

	b, err := json.Marshal(fresh)
	require.NoError(t, err)
	var stored map[string]any
	require.NoError(t, json.Unmarshal(b, &stored))

	res := audit.Diff(stored, fresh, audit.InitiativeKeys)
	assert.False(t, res.HasChanges, "changes: %v", res.Changes)
}

func TestDiff_TextChange(t *testing.T) {
	oldSnap := map[string]any{"name": "Old"}
	newSnap := map[string]any{"name": "New"}

	res := audit.Diff(oldSnap, newSnap, audit.InitiativeKeys)
	require.True(t, res.HasChanges)
	assert.Equal(t, []string{`changed name from "Old" to "New"`}, res.Changes)
}

func TestDiff_DateComparesDatePortionOnly(t *testing.T) {
	oldSnap := map[string]any{"startDate": "2026-03-01T00:00:00.000Z"}
	newSnap := map[string]any{"startDate": "2026-03-01T23:59:59+02:00"}

	res := audit.Diff(oldSnap, newSnap, audit.InitiativeKeys)
	assert.False(t, res.HasChanges)

	newSnap["startDate"] = "2026-03-02"
	res = audit.Diff(oldSnap, newSnap, audit.InitiativeKeys)
	require.True(t, res.HasChanges)
	assert.Equal(t, []string{"changed start date from 2026-03-01 to 2026-03-02"}, res.Changes)
}

func TestDiff_DateClearedFormatsNone(t *testing.T) {
	oldSnap := map[string]any{"endDate": "2026-06-30"}
	newSnap := map[string]any{"endDate": ""}

	res := audit.Diff(oldSnap, newSnap, audit.InitiativeKeys)
	require.True(t, res.HasChanges)
	assert.Equal(t, []string{"changed end date from 2026-06-30 to none"}, res.Changes)
}

func TestDiff_NumberNilIsNotZero(t *testing.T) {
	// absent duration vs 0 months is a real change
	oldSnap := map[string]any{}
	newSnap := map[string]any{"estimatedDuration": 0}

	res := audit.Diff(oldSnap, newSnap, audit.InitiativeKeys)
	require.True(t, res.HasChanges)
	assert.Equal(t, []string{"changed estimated duration from none to 0"}, res.Changes)

	// both absent is no change
	res = audit.Diff(map[string]any{}, map[string]any{}, audit.InitiativeKeys)
	assert.False(t, res.HasChanges)
}

func TestDiff_FactorListIgnoresOrder(t *testing.T) {
	a := map[string]any{"factorId": "a", "quantity": 1, "name": "A"}
	b := map[string]any{"factorId": "b", "quantity": 2, "name": "B"}

	oldSnap := map[string]any{"selected_factors": []any{a, b}}
	newSnap := map[string]any{"selected_factors": []any{b, a}}

	res := audit.Diff(oldSnap, newSnap, audit.InitiativeKeys)
	assert.False(t, res.HasChanges)
}

func TestDiff_FactorQuantityChangeIsSingleLine(t *testing.T) {
	oldSnap := map[string]any{"selected_factors": []any{
		map[string]any{"factorId": "f", "quantity": 1, "name": "API"},
	}}
	newSnap := map[string]any{"selected_factors": []any{
		map[string]any{"factorId": "f", "quantity": 3, "name": "API"},
	}}

	res := audit.Diff(oldSnap, newSnap, audit.InitiativeKeys)
	require.True(t, res.HasChanges)
	require.Len(t, res.Changes, 1)
	assert.Equal(t, `changed quantity for "API" from 1 to 3`, res.Changes[0])
}

func TestDiff_FactorAddRemove(t *testing.T) {
	oldSnap := map[string]any{"selected_factors": []any{
		map[string]any{"factorId": "a", "quantity": 1, "name": "A"},
	}}
	newSnap := map[string]any{"selected_factors": []any{
		map[string]any{"factorId": "b", "quantity": 2, "name": "B"},
	}}

	res := audit.Diff(oldSnap, newSnap, audit.InitiativeKeys)
	require.True(t, res.HasChanges)
	assert.Equal(t, []string{
		`added factor "B" (quantity 2)`,
		`removed factor "A"`,
	}, res.Changes)
}

func TestDiff_CategorySetIgnoresOrder(t *testing.T) {
	oldSnap := map[string]any{"categories": []any{"web", "payments"}}
	newSnap := map[string]any{"categories": []any{"payments", "web"}}

	res := audit.Diff(oldSnap, newSnap, audit.InitiativeKeys)
	assert.False(t, res.HasChanges)

	newSnap["categories"] = []any{"payments", "mobile"}
	res = audit.Diff(oldSnap, newSnap, audit.InitiativeKeys)
	assert.Equal(t, []string{
		`added category "mobile"`,
		`removed category "web"`,
	}, res.Changes)
}

func TestDiff_ResourceMapPerKey(t *testing.T) {
	oldSnap := map[string]any{"manualHours": map[string]any{"dev": 8, "qa": 4, "ops": 2}}
	newSnap := map[string]any{"manualHours": map[string]any{"dev": 8, "qa": 6, "ux": 3}}

	res := audit.Diff(oldSnap, newSnap, audit.InitiativeKeys)
	require.True(t, res.HasChanges)
	assert.Equal(t, []string{
		"manual hours: removed ops",
		"manual hours: changed qa from 4 to 6",
		"manual hours: added ux (3)",
	}, res.Changes)
}

func TestDiff_ResourceMapZeroEqualsAbsent(t *testing.T) {
	oldSnap := map[string]any{"manualValues": map[string]any{"cloud": 0}}
	newSnap := map[string]any{"manualValues": map[string]any{}}

	res := audit.Diff(oldSnap, newSnap, audit.InitiativeKeys)
	assert.False(t, res.HasChanges)
}

func TestDiff_OutputOrder(t *testing.T) {
	oldSnap := map[string]any{
		"name":        "Old",
		"status":      "draft",
		"categories":  []any{"web"},
		"manualHours": map[string]any{"dev": 1},
	}
	newSnap := map[string]any{
		"name":        "New",
		"status":      "active",
		"categories":  []any{"mobile"},
		"manualHours": map[string]any{"dev": 2},
	}

	res := audit.Diff(oldSnap, newSnap, audit.InitiativeKeys)
	require.Len(t, res.Changes, 5)
	// scalars first in tracked-key order, then collections, then maps
	assert.Equal(t, `changed name from "Old" to "New"`, res.Changes[0])
	assert.Equal(t, `changed status from "draft" to "active"`, res.Changes[1])
	assert.Equal(t, `added category "mobile"`, res.Changes[2])
	assert.Equal(t, `removed category "web"`, res.Changes[3])
	assert.Equal(t, "manual hours: changed dev from 1 to 2", res.Changes[4])
}

func TestDiff_MalformedFieldsDegrade(t *testing.T) {
	oldSnap := map[string]any{"selected_factors": "not a list", "manualHours": 42}
	newSnap := map[string]any{"selected_factors": []any{}, "manualHours": map[string]any{}}

	res := audit.Diff(oldSnap, newSnap, audit.InitiativeKeys)
	assert.False(t, res.HasChanges)
}

func TestDiff_FactorKeys(t *testing.T) {
	oldF := models.EstimationFactor{
		Name:  "API endpoint",
		Hours: map[string]float64{"dev": 8},
	}
	newF := models.EstimationFactor{
		Name:   "API endpoint",
		Hours:  map[string]float64{"dev": 12, "qa": 2},
		Values: map[string]float64{"cloud": 1},
	}

	res := audit.Diff(oldF.Snapshot(), newF.Snapshot(), audit.FactorKeys)
	require.True(t, res.HasChanges)
	assert.Equal(t, []string{
		"hours: changed dev from 8 to 12",
		"hours: added qa (2)",
		"values: added cloud (1)",
	}, res.Changes)
}

func TestDiff_ResourceTypeKeys(t *testing.T) {
	cost := 90.0
	oldRT := models.ResourceType{Name: "Dev", Category: models.CategoryLabour}
	newRT := models.ResourceType{Name: "Dev", Category: models.CategoryLabour, Cost: &cost}

	res := audit.Diff(oldRT.Snapshot(), newRT.Snapshot(), audit.ResourceTypeKeys)
	require.True(t, res.HasChanges)
	assert.Equal(t, []string{"changed cost from none to 90"}, res.Changes)
}
