package audit

// Tracked keys per entity, in the order their diffs should appear.
// Names match the snapshot builders in pkg/models.

var ResourceTypeKeys = []Key{
	{Name: "name", Label: "name", Kind: Text},
	{Name: "description", Label: "description", Kind: Text},
	{Name: "category", Label: "category", Kind: Text},
	{Name: "cost", Label: "cost", Kind: Number},
}

var FactorKeys = []Key{
	{Name: "name", Label: "name", Kind: Text},
	{Name: "description", Label: "description", Kind: Text},
	{Name: "hoursPerResourceType", Label: "hours", Kind: ResourceMap},
	{Name: "valuePerResourceType", Label: "values", Kind: ResourceMap},
}

var InitiativeKeys = []Key{
	{Name: "name", Label: "name", Kind: Text},
	{Name: "custom_id", Label: "custom id", Kind: Text},
	{Name: "description", Label: "description", Kind: Text},
	{Name: "priority", Label: "priority", Kind: Text},
	{Name: "priorityNum", Label: "priority number", Kind: Number},
	{Name: "status", Label: "status", Kind: Text},
	{Name: "estimationType", Label: "estimation type", Kind: Text},
	{Name: "classification", Label: "classification", Kind: Text},
	{Name: "scope", Label: "scope", Kind: Text},
	{Name: "outOfScope", Label: "out of scope", Kind: Text},
	{Name: "startDate", Label: "start date", Kind: Date},
	{Name: "endDate", Label: "end date", Kind: Date},
	{Name: "estimatedDuration", Label: "estimated duration", Kind: Number},
	{Name: "computed_hours", Label: "computed hours", Kind: Number},
	{Name: "shirt_size", Label: "shirt size", Kind: Text},
	{Name: "selected_factors", Label: "factor", Kind: FactorList},
	{Name: "categories", Label: "category", Kind: StringSet},
	{Name: "manualHours", Label: "manual hours", Kind: ResourceMap},
	{Name: "manualValues", Label: "manual values", Kind: ResourceMap},
}
