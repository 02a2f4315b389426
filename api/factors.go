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

type FactorsHandler struct {
	factorRepo     repository.FactorRepo
	initiativeRepo repository.InitiativeRepo
}

func NewFactorsHandler(fr repository.FactorRepo, ir repository.InitiativeRepo) *FactorsHandler {
	return &FactorsHandler{factorRepo: fr, initiativeRepo: ir}
}

type factorRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Hours       map[string]float64 `json:"hoursPerResourceType"`
	Values      map[string]float64 `json:"valuePerResourceType"`
}

func (req *factorRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	for id, h := range req.Hours {
		if h < 0 {
			return "hours for resource type " + id + " must not be negative"
		}
	}
	for id, v := range req.Values {
		if v < 0 {
			return "value for resource type " + id + " must not be negative"
		}
	}
	return ""
}

func (h *FactorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req factorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	if existing, err := h.factorRepo.GetFactorByName(r.Context(), req.Name); err != nil {
		writeError(w, "failed to create estimation factor", http.StatusInternalServerError)
		return
	} else if existing != nil {
		writeError(w, "an estimation factor with this name already exists", http.StatusConflict)
		return
	}

	f := &models.EstimationFactor{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Hours:       req.Hours,
		Values:      req.Values,
	}
	f.Journal = []models.JournalEntry{{
		Timestamp: time.Now().UTC().UnixMilli(),
		Type:      models.JournalAudit,
		Action:    models.ActionCreated,
		NewData:   f.Snapshot(),
	}}

	if err := h.factorRepo.CreateFactor(r.Context(), f); err != nil {
		writeError(w, "failed to create estimation factor", http.StatusInternalServerError)
		return
	}

	writeJSON(w, f, http.StatusCreated)
}

func (h *FactorsHandler) List(w http.ResponseWriter, r *http.Request) {
	factors, err := h.factorRepo.ListFactors(r.Context())
	if err != nil {
		writeError(w, "failed to list estimation factors", http.StatusInternalServerError)
		return
	}
	if factors == nil {
		factors = []models.EstimationFactor{}
	}
	writeJSON(w, factors, http.StatusOK)
}

func (h *FactorsHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := h.factorRepo.GetFactor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "failed to load estimation factor", http.StatusInternalServerError)
		return
	}
	if f == nil {
		writeError(w, "estimation factor not found", http.StatusNotFound)
		return
	}
	writeJSON(w, f, http.StatusOK)
}

// Update edits the shared factor definition only. Initiatives that
// already selected the factor keep the snapshot taken at selection time.
func (h *FactorsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req factorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	f, err := h.factorRepo.GetFactor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "failed to load estimation factor", http.StatusInternalServerError)
		return
	}
	if f == nil {
		writeError(w, "estimation factor not found", http.StatusNotFound)
		return
	}

	if req.Name != f.Name {
		if existing, err := h.factorRepo.GetFactorByName(r.Context(), req.Name); err != nil {
			writeError(w, "failed to update estimation factor", http.StatusInternalServerError)
			return
		} else if existing != nil {
			writeError(w, "an estimation factor with this name already exists", http.StatusConflict)
			return
		}
	}

	oldSnap := f.Snapshot()
	f.Name = req.Name
	f.Description = req.Description
	f.Hours = req.Hours
	f.Values = req.Values

	if res := audit.Diff(oldSnap, f.Snapshot(), audit.FactorKeys); res.HasChanges {
		f.Journal = append(f.Journal, models.JournalEntry{
			Timestamp: time.Now().UTC().UnixMilli(),
			Type:      models.JournalAudit,
			Action:    models.ActionUpdated,
			OldData:   oldSnap,
			NewData:   f.Snapshot(),
		})
	}

	if err := h.factorRepo.UpdateFactor(r.Context(), f); err != nil {
		writeError(w, "failed to update estimation factor", http.StatusInternalServerError)
		return
	}

	writeJSON(w, f, http.StatusOK)
}

func (h *FactorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	f, err := h.factorRepo.GetFactor(r.Context(), id)
	if err != nil {
		writeError(w, "failed to load estimation factor", http.StatusInternalServerError)
		return
	}
	if f == nil {
		writeError(w, "estimation factor not found", http.StatusNotFound)
		return
	}

	initiatives, err := h.initiativeRepo.ListInitiatives(r.Context())
	if err != nil {
		writeError(w, "failed to delete estimation factor", http.StatusInternalServerError)
		return
	}
	for _, i := range initiatives {
		for _, sf := range i.SelectedFactors {
			if sf.FactorID == id {
				writeError(w, "estimation factor is selected by initiative "+i.Name, http.StatusConflict)
				return
			}
		}
	}

	if err := h.factorRepo.DeleteFactor(r.Context(), id); err != nil {
		writeError(w, "failed to delete estimation factor", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *FactorsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeComment(w, r)
	if !ok {
		return
	}

	f, err := h.factorRepo.GetFactor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "failed to load estimation factor", http.StatusInternalServerError)
		return
	}
	if f == nil {
		writeError(w, "estimation factor not found", http.StatusNotFound)
		return
	}

	f.Journal = append(f.Journal, models.JournalEntry{
		Timestamp: time.Now().UTC().UnixMilli(),
		Type:      models.JournalComment,
		Text:      text,
	})

	if err := h.factorRepo.UpdateFactor(r.Context(), f); err != nil {
		writeError(w, "failed to save comment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, f, http.StatusCreated)
}
