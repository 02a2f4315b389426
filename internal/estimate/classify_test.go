package estimate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sizewise/internal/estimate"
	"sizewise/pkg/models"
)

func defaultThresholds() []models.ShirtSizeThreshold {
	return []models.ShirtSizeThreshold{
		{Size: "XS", ThresholdHours: 0},
		{Size: "S", ThresholdHours: 40},
		{Size: "M", ThresholdHours: 80},
		{Size: "L", ThresholdHours: 160},
		{Size: "XL", ThresholdHours: 320},
		{Size: "XXL", ThresholdHours: 640},
	}
}

func TestClassify(t *testing.T) {
	ths := defaultThresholds()

	tests := []struct {
		name  string
		hours float64
		want  string
	}{
		{"zero hours", 0, "XS"},
		{"below first real threshold", 39.9, "XS"},
		{"exact threshold is inclusive", 40, "S"},
		{"between thresholds", 100, "M"},
		{"exact upper threshold", 640, "XXL"},
		{"far beyond last threshold", 1000, "XXL"},
		{"negative treated as zero", -5, "XS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, estimate.Classify(tt.hours, ths))
		})
	}
}

func TestClassify_EmptyThresholds(t *testing.T) {
	assert.Equal(t, estimate.DefaultSize, estimate.Classify(500, nil))
}

func TestClassify_Monotonic(t *testing.T) {
	ths := defaultThresholds()

	order := map[string]int{"XS": 0, "S": 1, "M": 2, "L": 3, "XL": 4, "XXL": 5}
	prev := 0
	for hours := 0.0; hours <= 700; hours += 0.5 {
		size := estimate.Classify(hours, ths)
		rank, ok := order[size]
		require.True(t, ok, "unknown size %q", size)
		require.GreaterOrEqual(t, rank, prev, "size shrank at %v hours", hours)
		prev = rank
	}
}

func TestAscending(t *testing.T) {
	shuffled := []models.ShirtSizeThreshold{
		{Size: "M", ThresholdHours: 80},
		{Size: "XS", ThresholdHours: 0},
		{Size: "S", ThresholdHours: 40},
	}
	sorted := estimate.Ascending(shuffled)

	require.Len(t, sorted, 3)
	assert.Equal(t, "XS", sorted[0].Size)
	assert.Equal(t, "S", sorted[1].Size)
	assert.Equal(t, "M", sorted[2].Size)
	// input untouched
	assert.Equal(t, "M", shuffled[0].Size)
}
