package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"sizewise/internal/audit"
	"sizewise/pkg/models"
	"sizewise/pkg/repository"
)

type ResourceTypesHandler struct {
	resourceRepo   repository.ResourceTypeRepo
	factorRepo     repository.FactorRepo
	initiativeRepo repository.InitiativeRepo
}

func NewResourceTypesHandler(rr repository.ResourceTypeRepo, fr repository.FactorRepo, ir repository.InitiativeRepo) *ResourceTypesHandler {
	return &ResourceTypesHandler{resourceRepo: rr, factorRepo: fr, initiativeRepo: ir}
}

type resourceTypeRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Cost        *float64 `json:"cost"`
}

func (req *resourceTypeRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	switch models.ResourceCategory(req.Category) {
	case models.CategoryLabour, models.CategoryNonLabour:
	case "":
		req.Category = string(models.CategoryLabour)
	default:
		return "category must be Labour or Non-Labour"
	}
	if req.Cost != nil && *req.Cost < 0 {
		return "cost must not be negative"
	}
	return ""
}

func (h *ResourceTypesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req resourceTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	if existing, err := h.resourceRepo.GetResourceTypeByName(r.Context(), req.Name); err != nil {
		writeError(w, "failed to create resource type", http.StatusInternalServerError)
		return
	} else if existing != nil {
		writeError(w, "a resource type with this name already exists", http.StatusConflict)
		return
	}

	rt := &models.ResourceType{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Category:    models.ResourceCategory(req.Category),
		Cost:        req.Cost,
	}
	rt.Journal = []models.JournalEntry{{
		Timestamp: time.Now().UTC().UnixMilli(),
		Type:      models.JournalAudit,
		Action:    models.ActionCreated,
		NewData:   rt.Snapshot(),
	}}

	if err := h.resourceRepo.CreateResourceType(r.Context(), rt); err != nil {
		writeError(w, "failed to create resource type", http.StatusInternalServerError)
		return
	}

	writeJSON(w, rt, http.StatusCreated)
}

func (h *ResourceTypesHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.resourceRepo.ListResourceTypes(r.Context())
	if err != nil {
		writeError(w, "failed to list resource types", http.StatusInternalServerError)
		return
	}
	if types == nil {
		types = []models.ResourceType{}
	}
	writeJSON(w, types, http.StatusOK)
}

func (h *ResourceTypesHandler) Get(w http.ResponseWriter, r *http.Request) {
	rt, err := h.resourceRepo.GetResourceType(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "failed to load resource type", http.StatusInternalServerError)
		return
	}
	if rt == nil {
		writeError(w, "resource type not found", http.StatusNotFound)
		return
	}
	writeJSON(w, rt, http.StatusOK)
}

func (h *ResourceTypesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req resourceTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	rt, err := h.resourceRepo.GetResourceType(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "failed to load resource type", http.StatusInternalServerError)
		return
	}
	if rt == nil {
		writeError(w, "resource type not found", http.StatusNotFound)
		return
	}

	if req.Name != rt.Name {
		if existing, err := h.resourceRepo.GetResourceTypeByName(r.Context(), req.Name); err != nil {
			writeError(w, "failed to update resource type", http.StatusInternalServerError)
			return
		} else if existing != nil {
			writeError(w, "a resource type with this name already exists", http.StatusConflict)
			return
		}
	}

	oldSnap := rt.Snapshot()
	rt.Name = req.Name
	rt.Description = req.Description
	rt.Category = models.ResourceCategory(req.Category)
	rt.Cost = req.Cost

	if res := audit.Diff(oldSnap, rt.Snapshot(), audit.ResourceTypeKeys); res.HasChanges {
		rt.Journal = append(rt.Journal, models.JournalEntry{
			Timestamp: time.Now().UTC().UnixMilli(),
			Type:      models.JournalAudit,
			Action:    models.ActionUpdated,
			OldData:   oldSnap,
			NewData:   rt.Snapshot(),
		})
	}

	if err := h.resourceRepo.UpdateResourceType(r.Context(), rt); err != nil {
		writeError(w, "failed to update resource type", http.StatusInternalServerError)
		return
	}

	writeJSON(w, rt, http.StatusOK)
}

func (h *ResourceTypesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rt, err := h.resourceRepo.GetResourceType(r.Context(), id)
	if err != nil {
		writeError(w, "failed to load resource type", http.StatusInternalServerError)
		return
	}
	if rt == nil {
		writeError(w, "resource type not found", http.StatusNotFound)
		return
	}

	referenced, msg, err := h.isReferenced(r, id)
	if err != nil {
		writeError(w, "failed to delete resource type", http.StatusInternalServerError)
		return
	}
	if referenced {
		writeError(w, msg, http.StatusConflict)
		return
	}

	if err := h.resourceRepo.DeleteResourceType(r.Context(), id); err != nil {
		writeError(w, "failed to delete resource type", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// isReferenced reports whether any live estimation factor or initiative
// still allocates against the resource type. Snapshots inside journal
// entries and selected-factor copies do not count.
func (h *ResourceTypesHandler) isReferenced(r *http.Request, id string) (bool, string, error) {
	factors, err := h.factorRepo.ListFactors(r.Context())
	if err != nil {
		return false, "", err
	}
	for _, f := range factors {
		if _, ok := f.Hours[id]; ok {
			return true, "resource type is used by estimation factor " + f.Name, nil
		}
		if _, ok := f.Values[id]; ok {
			return true, "resource type is used by estimation factor " + f.Name, nil
		}
	}

	initiatives, err := h.initiativeRepo.ListInitiatives(r.Context())
	if err != nil {
		return false, "", err
	}
	for _, i := range initiatives {
		if _, ok := i.ManualResources.Hours[id]; ok {
			return true, "resource type has manual allocations on initiative " + i.Name, nil
		}
		if _, ok := i.ManualResources.Values[id]; ok {
			return true, "resource type has manual allocations on initiative " + i.Name, nil
		}
	}

	return false, "", nil
}

func (h *ResourceTypesHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeComment(w, r)
	if !ok {
		return
	}

	rt, err := h.resourceRepo.GetResourceType(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "failed to load resource type", http.StatusInternalServerError)
		return
	}
	if rt == nil {
		writeError(w, "resource type not found", http.StatusNotFound)
		return
	}

	rt.Journal = append(rt.Journal, models.JournalEntry{
		Timestamp: time.Now().UTC().UnixMilli(),
		Type:      models.JournalComment,
		Text:      text,
	})

	if err := h.resourceRepo.UpdateResourceType(r.Context(), rt); err != nil {
		writeError(w, "failed to save comment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, rt, http.StatusCreated)
}

type commentRequest struct {
	Text string `json:"text"`
}

func decodeComment(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return "", false
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, "text is required", http.StatusBadRequest)
		return "", false
	}
	if len(req.Text) > 2000 {
		writeError(w, "comment too long", http.StatusBadRequest)
		return "", false
	}
	return req.Text, true
}
