package models

// Domain models matching the database schema in db/migrations/0001_init.sql

// ResourceCategory distinguishes labour effort from non-labour spend.
type ResourceCategory string

const (
	CategoryLabour    ResourceCategory = "Labour"
	CategoryNonLabour ResourceCategory = "Non-Labour"
)

// ResourceType is a category of effort or expense with an optional
// monetary rate (per hour for labour, per unit for non-labour).
type ResourceType struct {
	ID          string           `json:"id" db:"id"`
	Name        string           `json:"name" db:"name" validate:"required"`
	Description string           `json:"description,omitempty" db:"description"`
	Category    ResourceCategory `json:"category" db:"category"`
	Cost        *float64         `json:"cost,omitempty" db:"cost"`
	Journal     []JournalEntry   `json:"journal_entries"`
	Created     int64            `json:"created" db:"created"`
	Updated     int64            `json:"updated" db:"updated"`
}

// EstimationFactor is a reusable named bundle of per-resource-type hour
// and unit estimates. Maps are sparse: absent keys contribute nothing.
type EstimationFactor struct {
	ID          string             `json:"id" db:"id"`
	Name        string             `json:"name" db:"name" validate:"required"`
	Description string             `json:"description,omitempty" db:"description"`
	Hours       map[string]float64 `json:"hoursPerResourceType"`
	Values      map[string]float64 `json:"valuePerResourceType"`
	Journal     []JournalEntry     `json:"journal_entries"`
	Created     int64              `json:"created" db:"created"`
	Updated     int64              `json:"updated" db:"updated"`
}

// TotalHours sums the factor's hour entries across all resource types.
func (f EstimationFactor) TotalHours() float64 {
	var total float64
	for _, h := range f.Hours {
		total += h
	}
	return total
}

// SelectedFactor is a factor picked by an initiative. Name and Hours are
// snapshots taken at selection time so later factor edits do not
// retroactively change initiatives that already selected it.
type SelectedFactor struct {
	FactorID string             `json:"factorId"`
	Quantity int                `json:"quantity"`
	Name     string             `json:"name,omitempty"`
	Hours    map[string]float64 `json:"hoursPerResourceType,omitempty"`
}

// ManualResources holds ad-hoc allocations entered directly on an
// initiative, keyed by resource type id.
type ManualResources struct {
	Hours  map[string]float64 `json:"manualHours,omitempty"`
	Values map[string]float64 `json:"manualValues,omitempty"`
}

// Initiative is one project estimate. ComputedHours and ShirtSize are a
// persisted cache of the aggregation at last save, not authoritative.
type Initiative struct {
	ID                int64            `json:"id" db:"id"`
	Name              string           `json:"name" db:"name" validate:"required"`
	CustomID          string           `json:"custom_id,omitempty" db:"custom_id"`
	Description       string           `json:"description,omitempty" db:"description"`
	Priority          string           `json:"priority,omitempty" db:"priority"`
	PriorityNum       *int             `json:"priorityNum,omitempty" db:"priority_num"`
	Status            string           `json:"status,omitempty" db:"status"`
	EstimationType    string           `json:"estimationType,omitempty" db:"estimation_type"`
	Classification    string           `json:"classification,omitempty" db:"classification"`
	Scope             string           `json:"scope,omitempty" db:"scope"`
	OutOfScope        string           `json:"outOfScope,omitempty" db:"out_of_scope"`
	SelectedFactors   []SelectedFactor `json:"selected_factors"`
	ManualResources   ManualResources  `json:"manual_resources"`
	StartDate         string           `json:"startDate,omitempty" db:"start_date"`
	EndDate           string           `json:"endDate,omitempty" db:"end_date"`
	EstimatedDuration *int             `json:"estimatedDuration,omitempty" db:"estimated_duration"`
	Categories        []string         `json:"categories"`
	ComputedHours     float64          `json:"computed_hours" db:"computed_hours"`
	ShirtSize         string           `json:"shirt_size" db:"shirt_size"`
	Journal           []JournalEntry   `json:"journal_entries"`
	Created           int64            `json:"created" db:"created"`
	Updated           int64            `json:"updated" db:"updated"`
}

// ShirtSizeThreshold maps a size label to the minimum total hours that
// reach it. Rows are conceptually ordered ascending by ThresholdHours;
// callers sort before classification.
type ShirtSizeThreshold struct {
	Size           string  `json:"size" db:"size"`
	ThresholdHours float64 `json:"threshold_hours" db:"threshold_hours"`
}

// ShirtSizeAudit captures the full before/after threshold arrays of one
// bulk threshold update.
type ShirtSizeAudit struct {
	ID      int64                `json:"id" db:"id"`
	Old     []ShirtSizeThreshold `json:"old_thresholds"`
	New     []ShirtSizeThreshold `json:"new_thresholds"`
	Created int64                `json:"created" db:"created"`
}

// Journal entry variants.
const (
	JournalComment = "comment"
	JournalAudit   = "audit"
)

// Audit actions.
const (
	ActionCreated        = "created"
	ActionUpdated        = "updated"
	ActionDuplicatedFrom = "duplicated_from"
)

// JournalEntry is one immutable record in an entity's append-only
// journal: either a free-text comment or a structured before/after
// audit snapshot, discriminated by Type.
type JournalEntry struct {
	Timestamp int64          `json:"timestamp"`
	Type      string         `json:"type"`
	Text      string         `json:"text,omitempty"`
	Action    string         `json:"action,omitempty"`
	OldData   map[string]any `json:"old_data,omitempty"`
	NewData   map[string]any `json:"new_data,omitempty"`
}

// Category is a denormalized autocomplete aid for initiative labels.
// Not referentially enforced against Initiative.Categories.
type Category struct {
	Name       string `json:"name" db:"name"`
	Created    int64  `json:"created" db:"created"`
	LastUsed   int64  `json:"last_used" db:"last_used"`
	UsageCount int64  `json:"usage_count" db:"usage_count"`
}
