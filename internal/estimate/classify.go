package estimate

import (
	"sort"

	"sizewise/pkg/models"
)

// DefaultSize is returned when no threshold list is available.
const DefaultSize = "XS"

// Ascending returns a copy of thresholds sorted by threshold hours,
// smallest first. Classify expects its input in this order.
func Ascending(thresholds []models.ShirtSizeThreshold) []models.ShirtSizeThreshold {
	out := make([]models.ShirtSizeThreshold, len(thresholds))
	copy(out, thresholds)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ThresholdHours < out[j].ThresholdHours
	})
	return out
}

// Classify returns the label of the largest threshold not exceeding
// totalHours. Thresholds must be sorted ascending by hours; boundaries
// are inclusive, so hours equal to a threshold reach its label. Negative
// hours are treated as zero. An empty list yields DefaultSize.
func Classify(totalHours float64, thresholds []models.ShirtSizeThreshold) string {
	if len(thresholds) == 0 {
		return DefaultSize
	}
	if totalHours < 0 {
		totalHours = 0
	}

	size := thresholds[0].Size
	for _, t := range thresholds {
		if totalHours < t.ThresholdHours {
			break
		}
		size = t.Size
	}
	return size
}
