package api

import (
	_ "embed"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/qri-io/jsonschema"

	"sizewise/internal/estimate"
	"sizewise/pkg/models"
	"sizewise/pkg/repository"
)

//go:embed import_schema.json
var importSchemaJSON []byte

type ExportHandler struct {
	resourceRepo   repository.ResourceTypeRepo
	factorRepo     repository.FactorRepo
	initiativeRepo repository.InitiativeRepo
	thresholdRepo  repository.ThresholdRepo
}

func NewExportHandler(
	rr repository.ResourceTypeRepo,
	fr repository.FactorRepo,
	ir repository.InitiativeRepo,
	tr repository.ThresholdRepo,
) *ExportHandler {
	return &ExportHandler{
		resourceRepo:   rr,
		factorRepo:     fr,
		initiativeRepo: ir,
		thresholdRepo:  tr,
	}
}

type exportPayload struct {
	ExportedAt    int64                       `json:"exported_at"`
	ResourceTypes []models.ResourceType       `json:"resource_types"`
	Factors       []models.EstimationFactor   `json:"estimation_factors"`
	Initiatives   []models.Initiative         `json:"initiatives"`
	Thresholds    []models.ShirtSizeThreshold `json:"thresholds"`
}

// Export dumps all entities as one JSON document suitable for Import.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	payload := exportPayload{ExportedAt: time.Now().UTC().UnixMilli()}

	var err error
	if payload.ResourceTypes, err = h.resourceRepo.ListResourceTypes(r.Context()); err != nil {
		writeError(w, "failed to export", http.StatusInternalServerError)
		return
	}
	if payload.Factors, err = h.factorRepo.ListFactors(r.Context()); err != nil {
		writeError(w, "failed to export", http.StatusInternalServerError)
		return
	}
	if payload.Initiatives, err = h.initiativeRepo.ListInitiatives(r.Context()); err != nil {
		writeError(w, "failed to export", http.StatusInternalServerError)
		return
	}
	if payload.Thresholds, err = h.thresholdRepo.ListThresholds(r.Context()); err != nil {
		writeError(w, "failed to export", http.StatusInternalServerError)
		return
	}

	if payload.ResourceTypes == nil {
		payload.ResourceTypes = []models.ResourceType{}
	}
	if payload.Factors == nil {
		payload.Factors = []models.EstimationFactor{}
	}
	if payload.Initiatives == nil {
		payload.Initiatives = []models.Initiative{}
	}

	writeJSON(w, payload, http.StatusOK)
}

type importPayload struct {
	ResourceTypes []models.ResourceType       `json:"resource_types"`
	Factors       []models.EstimationFactor   `json:"estimation_factors"`
	Thresholds    []models.ShirtSizeThreshold `json:"thresholds"`
}

type importReport struct {
	ResourceTypes int  `json:"resource_types"`
	Factors       int  `json:"estimation_factors"`
	Thresholds    bool `json:"thresholds_replaced"`
}

// Import validates the uploaded document against the embedded schema,
// then upserts resource types and factors by name. A non-empty
// thresholds array replaces the whole scale and is audited like a
// manual edit. Initiatives are not imported.
func (h *ExportHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 10<<20))
	if err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	schema := &jsonschema.Schema{}
	if err := json.Unmarshal(importSchemaJSON, schema); err != nil {
		writeError(w, "failed to import", http.StatusInternalServerError)
		return
	}
	keyErrs, err := schema.ValidateBytes(r.Context(), body)
	if err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if len(keyErrs) > 0 {
		writeError(w, "invalid import document: "+keyErrs[0].Error(), http.StatusBadRequest)
		return
	}

	var payload importPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	var report importReport

	for _, rt := range payload.ResourceTypes {
		existing, err := h.resourceRepo.GetResourceTypeByName(r.Context(), rt.Name)
		if err != nil {
			writeError(w, "failed to import resource types", http.StatusInternalServerError)
			return
		}
		if existing != nil {
			existing.Description = rt.Description
			if rt.Category != "" {
				existing.Category = rt.Category
			}
			existing.Cost = rt.Cost
			err = h.resourceRepo.UpdateResourceType(r.Context(), existing)
		} else {
			if rt.ID == "" {
				rt.ID = uuid.NewString()
			}
			if rt.Category == "" {
				rt.Category = models.CategoryLabour
			}
			err = h.resourceRepo.CreateResourceType(r.Context(), &rt)
		}
		if err != nil {
			writeError(w, "failed to import resource types", http.StatusInternalServerError)
			return
		}
		report.ResourceTypes++
	}

	for _, f := range payload.Factors {
		existing, err := h.factorRepo.GetFactorByName(r.Context(), f.Name)
		if err != nil {
			writeError(w, "failed to import estimation factors", http.StatusInternalServerError)
			return
		}
		if existing != nil {
			existing.Description = f.Description
			existing.Hours = f.Hours
			existing.Values = f.Values
			err = h.factorRepo.UpdateFactor(r.Context(), existing)
		} else {
			if f.ID == "" {
				f.ID = uuid.NewString()
			}
			err = h.factorRepo.CreateFactor(r.Context(), &f)
		}
		if err != nil {
			writeError(w, "failed to import estimation factors", http.StatusInternalServerError)
			return
		}
		report.Factors++
	}

	if len(payload.Thresholds) > 0 {
		old, err := h.thresholdRepo.ListThresholds(r.Context())
		if err != nil {
			writeError(w, "failed to import thresholds", http.StatusInternalServerError)
			return
		}
		next := estimate.Ascending(payload.Thresholds)
		if err := h.thresholdRepo.ReplaceThresholds(r.Context(), next); err != nil {
			writeError(w, "failed to import thresholds", http.StatusInternalServerError)
			return
		}
		if _, err := h.thresholdRepo.AppendThresholdAudit(r.Context(), old, next); err != nil {
			logger.Warn("failed to record threshold audit", "err", err)
		}
		report.Thresholds = true
	}

	writeJSON(w, report, http.StatusOK)
}
