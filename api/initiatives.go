package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"sizewise/internal/audit"
	"sizewise/internal/estimate"
	"sizewise/pkg/models"
	"sizewise/pkg/repository"
)

type InitiativesHandler struct {
	initiativeRepo repository.InitiativeRepo
	factorRepo     repository.FactorRepo
	resourceRepo   repository.ResourceTypeRepo
	thresholdRepo  repository.ThresholdRepo
	categoryRepo   repository.CategoryRepo
}

func NewInitiativesHandler(
	ir repository.InitiativeRepo,
	fr repository.FactorRepo,
	rr repository.ResourceTypeRepo,
	tr repository.ThresholdRepo,
	cr repository.CategoryRepo,
) *InitiativesHandler {
	return &InitiativesHandler{
		initiativeRepo: ir,
		factorRepo:     fr,
		resourceRepo:   rr,
		thresholdRepo:  tr,
		categoryRepo:   cr,
	}
}

type initiativeRequest struct {
	Name              string                  `json:"name"`
	CustomID          string                  `json:"custom_id"`
	Description       string                  `json:"description"`
	Priority          string                  `json:"priority"`
	PriorityNum       *int                    `json:"priorityNum"`
	Status            string                  `json:"status"`
	EstimationType    string                  `json:"estimationType"`
	Classification    string                  `json:"classification"`
	Scope             string                  `json:"scope"`
	OutOfScope        string                  `json:"outOfScope"`
	SelectedFactors   []models.SelectedFactor `json:"selected_factors"`
	ManualResources   models.ManualResources  `json:"manual_resources"`
	StartDate         string                  `json:"startDate"`
	EndDate           string                  `json:"endDate"`
	EstimatedDuration *int                    `json:"estimatedDuration"`
	Categories        []string                `json:"categories"`
}

func (req *initiativeRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	for _, sf := range req.SelectedFactors {
		if strings.TrimSpace(sf.FactorID) == "" {
			return "selected factors must reference a factor id"
		}
	}
	return ""
}

func initiativeID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

// factorIndex loads all estimation factors keyed by id.
func (h *InitiativesHandler) factorIndex(r *http.Request) (map[string]models.EstimationFactor, error) {
	factors, err := h.factorRepo.ListFactors(r.Context())
	if err != nil {
		return nil, err
	}
	idx := make(map[string]models.EstimationFactor, len(factors))
	for _, f := range factors {
		idx[f.ID] = f
	}
	return idx, nil
}

// costIndex maps resource type ids to their monetary rate. Resource
// types without a rate are omitted and contribute zero cost.
func (h *InitiativesHandler) costIndex(r *http.Request) (map[string]float64, error) {
	types, err := h.resourceRepo.ListResourceTypes(r.Context())
	if err != nil {
		return nil, err
	}
	costs := make(map[string]float64, len(types))
	for _, rt := range types {
		if rt.Cost != nil {
			costs[rt.ID] = *rt.Cost
		}
	}
	return costs, nil
}

// resolveSelections freezes the requested selections. A selection whose
// factor id matches one already on the initiative keeps the snapshot
// taken when it was first selected; a new selection is snapshotted from
// the live factor. Client-supplied name and hour snapshots are ignored.
func resolveSelections(requested, existing []models.SelectedFactor, factors map[string]models.EstimationFactor) ([]models.SelectedFactor, error) {
	prior := make(map[string]models.SelectedFactor, len(existing))
	for _, sf := range existing {
		prior[sf.FactorID] = sf
	}

	out := make([]models.SelectedFactor, 0, len(requested))
	for _, sf := range requested {
		qty := sf.Quantity
		if qty < 1 {
			qty = 1
		}
		if prev, ok := prior[sf.FactorID]; ok {
			prev.Quantity = qty
			out = append(out, prev)
			continue
		}
		f, ok := factors[sf.FactorID]
		if !ok {
			return nil, fmt.Errorf("unknown estimation factor %s", sf.FactorID)
		}
		hours := make(map[string]float64, len(f.Hours))
		for k, v := range f.Hours {
			hours[k] = v
		}
		out = append(out, models.SelectedFactor{
			FactorID: f.ID,
			Quantity: qty,
			Name:     f.Name,
			Hours:    hours,
		})
	}
	return out, nil
}

// recompute refreshes the cached hour total and shirt size.
func (h *InitiativesHandler) recompute(r *http.Request, i *models.Initiative, factors map[string]models.EstimationFactor) error {
	totals := estimate.ComputeTotals(i.SelectedFactors, i.ManualResources, factors, nil)
	thresholds, err := h.thresholdRepo.ListThresholds(r.Context())
	if err != nil {
		return err
	}
	i.ComputedHours = totals.Hours
	i.ShirtSize = estimate.Classify(totals.Hours, estimate.Ascending(thresholds))
	return nil
}

func (h *InitiativesHandler) touchCategories(r *http.Request, names []string) {
	if len(names) == 0 {
		return
	}
	if err := h.categoryRepo.TouchCategories(r.Context(), names); err != nil {
		logger.Warn("failed to record categories", "err", err)
	}
}

func (h *InitiativesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req initiativeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	factors, err := h.factorIndex(r)
	if err != nil {
		writeError(w, "failed to create initiative", http.StatusInternalServerError)
		return
	}

	selections, err := resolveSelections(req.SelectedFactors, nil, factors)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	i := &models.Initiative{
		Name:              req.Name,
		CustomID:          req.CustomID,
		Description:       req.Description,
		Priority:          req.Priority,
		PriorityNum:       req.PriorityNum,
		Status:            req.Status,
		EstimationType:    req.EstimationType,
		Classification:    req.Classification,
		Scope:             req.Scope,
		OutOfScope:        req.OutOfScope,
		SelectedFactors:   selections,
		ManualResources:   req.ManualResources,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		EstimatedDuration: req.EstimatedDuration,
		Categories:        req.Categories,
	}

	if err := h.recompute(r, i, factors); err != nil {
		writeError(w, "failed to create initiative", http.StatusInternalServerError)
		return
	}

	i.Journal = []models.JournalEntry{{
		Timestamp: time.Now().UTC().UnixMilli(),
		Type:      models.JournalAudit,
		Action:    models.ActionCreated,
		NewData:   i.Snapshot(),
	}}

	id, err := h.initiativeRepo.CreateInitiative(r.Context(), i)
	if err != nil {
		writeError(w, "failed to create initiative", http.StatusInternalServerError)
		return
	}
	i.ID = id

	h.touchCategories(r, i.Categories)

	writeJSON(w, i, http.StatusCreated)
}

func (h *InitiativesHandler) List(w http.ResponseWriter, r *http.Request) {
	initiatives, err := h.initiativeRepo.ListInitiatives(r.Context())
	if err != nil {
		writeError(w, "failed to list initiatives", http.StatusInternalServerError)
		return
	}
	if initiatives == nil {
		initiatives = []models.Initiative{}
	}
	writeJSON(w, initiatives, http.StatusOK)
}

func (h *InitiativesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := initiativeID(r)
	if !ok {
		writeError(w, "invalid initiative id", http.StatusBadRequest)
		return
	}
	i, err := h.initiativeRepo.GetInitiative(r.Context(), id)
	if err != nil {
		writeError(w, "failed to load initiative", http.StatusInternalServerError)
		return
	}
	if i == nil {
		writeError(w, "initiative not found", http.StatusNotFound)
		return
	}
	writeJSON(w, i, http.StatusOK)
}

func (h *InitiativesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := initiativeID(r)
	if !ok {
		writeError(w, "invalid initiative id", http.StatusBadRequest)
		return
	}

	var req initiativeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	i, err := h.initiativeRepo.GetInitiative(r.Context(), id)
	if err != nil {
		writeError(w, "failed to load initiative", http.StatusInternalServerError)
		return
	}
	if i == nil {
		writeError(w, "initiative not found", http.StatusNotFound)
		return
	}

	factors, err := h.factorIndex(r)
	if err != nil {
		writeError(w, "failed to update initiative", http.StatusInternalServerError)
		return
	}

	selections, err := resolveSelections(req.SelectedFactors, i.SelectedFactors, factors)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	oldSnap := i.Snapshot()
	i.Name = req.Name
	i.CustomID = req.CustomID
	i.Description = req.Description
	i.Priority = req.Priority
	i.PriorityNum = req.PriorityNum
	i.Status = req.Status
	i.EstimationType = req.EstimationType
	i.Classification = req.Classification
	i.Scope = req.Scope
	i.OutOfScope = req.OutOfScope
	i.SelectedFactors = selections
	i.ManualResources = req.ManualResources
	i.StartDate = req.StartDate
	i.EndDate = req.EndDate
	i.EstimatedDuration = req.EstimatedDuration
	i.Categories = req.Categories

	if err := h.recompute(r, i, factors); err != nil {
		writeError(w, "failed to update initiative", http.StatusInternalServerError)
		return
	}

	if res := audit.Diff(oldSnap, i.Snapshot(), audit.InitiativeKeys); res.HasChanges {
		i.Journal = append(i.Journal, models.JournalEntry{
			Timestamp: time.Now().UTC().UnixMilli(),
			Type:      models.JournalAudit,
			Action:    models.ActionUpdated,
			OldData:   oldSnap,
			NewData:   i.Snapshot(),
		})
	}

	if err := h.initiativeRepo.UpdateInitiative(r.Context(), i); err != nil {
		writeError(w, "failed to update initiative", http.StatusInternalServerError)
		return
	}

	h.touchCategories(r, i.Categories)

	writeJSON(w, i, http.StatusOK)
}

func (h *InitiativesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := initiativeID(r)
	if !ok {
		writeError(w, "invalid initiative id", http.StatusBadRequest)
		return
	}

	i, err := h.initiativeRepo.GetInitiative(r.Context(), id)
	if err != nil {
		writeError(w, "failed to load initiative", http.StatusInternalServerError)
		return
	}
	if i == nil {
		writeError(w, "initiative not found", http.StatusNotFound)
		return
	}

	if err := h.initiativeRepo.DeleteInitiative(r.Context(), id); err != nil {
		writeError(w, "failed to delete initiative", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Duplicate creates a fresh initiative from an existing one. The copy
// keeps the source's selections with their snapshots but starts a new
// journal that records where it came from.
func (h *InitiativesHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := initiativeID(r)
	if !ok {
		writeError(w, "invalid initiative id", http.StatusBadRequest)
		return
	}

	src, err := h.initiativeRepo.GetInitiative(r.Context(), id)
	if err != nil {
		writeError(w, "failed to load initiative", http.StatusInternalServerError)
		return
	}
	if src == nil {
		writeError(w, "initiative not found", http.StatusNotFound)
		return
	}

	dup := *src
	dup.ID = 0
	dup.Name = src.Name + " (Copy)"
	dup.Created = 0
	dup.Updated = 0
	dup.Journal = []models.JournalEntry{{
		Timestamp: time.Now().UTC().UnixMilli(),
		Type:      models.JournalAudit,
		Action:    models.ActionDuplicatedFrom,
		Text:      fmt.Sprintf("duplicated from initiative %d (%s)", src.ID, src.Name),
		NewData:   dup.Snapshot(),
	}}

	newID, err := h.initiativeRepo.CreateInitiative(r.Context(), &dup)
	if err != nil {
		writeError(w, "failed to duplicate initiative", http.StatusInternalServerError)
		return
	}
	dup.ID = newID

	h.touchCategories(r, dup.Categories)

	writeJSON(w, &dup, http.StatusCreated)
}

// Totals computes the live hour and cost aggregate for an initiative,
// including monetary rates, without touching the persisted cache.
func (h *InitiativesHandler) Totals(w http.ResponseWriter, r *http.Request) {
	id, ok := initiativeID(r)
	if !ok {
		writeError(w, "invalid initiative id", http.StatusBadRequest)
		return
	}

	i, err := h.initiativeRepo.GetInitiative(r.Context(), id)
	if err != nil {
		writeError(w, "failed to load initiative", http.StatusInternalServerError)
		return
	}
	if i == nil {
		writeError(w, "initiative not found", http.StatusNotFound)
		return
	}

	factors, err := h.factorIndex(r)
	if err != nil {
		writeError(w, "failed to compute totals", http.StatusInternalServerError)
		return
	}
	costs, err := h.costIndex(r)
	if err != nil {
		writeError(w, "failed to compute totals", http.StatusInternalServerError)
		return
	}

	totals := estimate.ComputeTotals(i.SelectedFactors, i.ManualResources, factors, costs)
	writeJSON(w, totals, http.StatusOK)
}

func (h *InitiativesHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := initiativeID(r)
	if !ok {
		writeError(w, "invalid initiative id", http.StatusBadRequest)
		return
	}

	text, ok := decodeComment(w, r)
	if !ok {
		return
	}

	i, err := h.initiativeRepo.GetInitiative(r.Context(), id)
	if err != nil {
		writeError(w, "failed to load initiative", http.StatusInternalServerError)
		return
	}
	if i == nil {
		writeError(w, "initiative not found", http.StatusNotFound)
		return
	}

	i.Journal = append(i.Journal, models.JournalEntry{
		Timestamp: time.Now().UTC().UnixMilli(),
		Type:      models.JournalComment,
		Text:      text,
	})

	if err := h.initiativeRepo.UpdateInitiative(r.Context(), i); err != nil {
		writeError(w, "failed to save comment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, i, http.StatusCreated)
}
