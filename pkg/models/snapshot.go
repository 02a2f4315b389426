package models

// Snapshot builders produce the flat records stored in audit journal
// entries (old_data / new_data) and fed to the differ. Keys use the wire
// field names so a freshly built snapshot compares cleanly against one
// decoded from a persisted journal entry.

func (rt ResourceType) Snapshot() map[string]any {
	snap := map[string]any{
		"name":        rt.Name,
		"description": rt.Description,
		"category":    string(rt.Category),
	}
	if rt.Cost != nil {
		snap["cost"] = *rt.Cost
	}
	return snap
}

func (f EstimationFactor) Snapshot() map[string]any {
	return map[string]any{
		"name":                 f.Name,
		"description":          f.Description,
		"hoursPerResourceType": copyResourceMap(f.Hours),
		"valuePerResourceType": copyResourceMap(f.Values),
	}
}

func (i Initiative) Snapshot() map[string]any {
	factors := make([]any, 0, len(i.SelectedFactors))
	for _, sf := range i.SelectedFactors {
		factors = append(factors, map[string]any{
			"factorId":             sf.FactorID,
			"quantity":             sf.Quantity,
			"name":                 sf.Name,
			"hoursPerResourceType": copyResourceMap(sf.Hours),
		})
	}

	categories := make([]any, 0, len(i.Categories))
	for _, c := range i.Categories {
		categories = append(categories, c)
	}

	snap := map[string]any{
		"name":             i.Name,
		"custom_id":        i.CustomID,
		"description":      i.Description,
		"priority":         i.Priority,
		"status":           i.Status,
		"estimationType":   i.EstimationType,
		"classification":   i.Classification,
		"scope":            i.Scope,
		"outOfScope":       i.OutOfScope,
		"startDate":        i.StartDate,
		"endDate":          i.EndDate,
		"computed_hours":   i.ComputedHours,
		"shirt_size":       i.ShirtSize,
		"selected_factors": factors,
		"categories":       categories,
		"manualHours":      copyResourceMap(i.ManualResources.Hours),
		"manualValues":     copyResourceMap(i.ManualResources.Values),
	}
	if i.PriorityNum != nil {
		snap["priorityNum"] = *i.PriorityNum
	}
	if i.EstimatedDuration != nil {
		snap["estimatedDuration"] = *i.EstimatedDuration
	}
	return snap
}

func copyResourceMap(src map[string]float64) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
