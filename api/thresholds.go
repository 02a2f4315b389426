package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"sizewise/internal/estimate"
	"sizewise/pkg/models"
	"sizewise/pkg/repository"
)

type ThresholdsHandler struct {
	thresholdRepo repository.ThresholdRepo
}

func NewThresholdsHandler(tr repository.ThresholdRepo) *ThresholdsHandler {
	return &ThresholdsHandler{thresholdRepo: tr}
}

func (h *ThresholdsHandler) List(w http.ResponseWriter, r *http.Request) {
	thresholds, err := h.thresholdRepo.ListThresholds(r.Context())
	if err != nil {
		writeError(w, "failed to list thresholds", http.StatusInternalServerError)
		return
	}
	writeJSON(w, estimate.Ascending(thresholds), http.StatusOK)
}

// Replace swaps the whole threshold scale at once and records the
// before/after pair in the audit log. Existing initiatives keep their
// cached shirt size until their next save.
func (h *ThresholdsHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req []models.ShirtSizeThreshold
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if len(req) == 0 {
		writeError(w, "at least one threshold is required", http.StatusBadRequest)
		return
	}

	seen := make(map[string]bool, len(req))
	for i := range req {
		req[i].Size = strings.TrimSpace(req[i].Size)
		if req[i].Size == "" {
			writeError(w, "threshold size label is required", http.StatusBadRequest)
			return
		}
		if seen[req[i].Size] {
			writeError(w, "duplicate threshold size "+req[i].Size, http.StatusBadRequest)
			return
		}
		seen[req[i].Size] = true
		if req[i].ThresholdHours < 0 {
			writeError(w, "threshold hours must not be negative", http.StatusBadRequest)
			return
		}
	}

	old, err := h.thresholdRepo.ListThresholds(r.Context())
	if err != nil {
		writeError(w, "failed to update thresholds", http.StatusInternalServerError)
		return
	}

	next := estimate.Ascending(req)
	if err := h.thresholdRepo.ReplaceThresholds(r.Context(), next); err != nil {
		writeError(w, "failed to update thresholds", http.StatusInternalServerError)
		return
	}

	if _, err := h.thresholdRepo.AppendThresholdAudit(r.Context(), old, next); err != nil {
		logger.Warn("failed to record threshold audit", "err", err)
	}

	writeJSON(w, next, http.StatusOK)
}

func (h *ThresholdsHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}

	entries, err := h.thresholdRepo.ListThresholdAudit(r.Context(), limit)
	if err != nil {
		writeError(w, "failed to list threshold audit", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.ShirtSizeAudit{}
	}
	writeJSON(w, entries, http.StatusOK)
}
