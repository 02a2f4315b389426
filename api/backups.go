package api

import (
	"encoding/json"
	"net/http"

	"sizewise/internal/backup"
)

type BackupsHandler struct {
	manager *backup.Manager
}

func NewBackupsHandler(m *backup.Manager) *BackupsHandler {
	return &BackupsHandler{manager: m}
}

func (h *BackupsHandler) List(w http.ResponseWriter, r *http.Request) {
	backups, err := h.manager.List()
	if err != nil {
		writeError(w, "failed to list backups", http.StatusInternalServerError)
		return
	}
	if backups == nil {
		backups = []backup.Info{}
	}
	writeJSON(w, backups, http.StatusOK)
}

func (h *BackupsHandler) Run(w http.ResponseWriter, r *http.Request) {
	name, err := h.manager.Run()
	if err != nil {
		writeError(w, "failed to create backup", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"name": name}, http.StatusCreated)
}

type restoreRequest struct {
	Name string `json:"name"`
}

func (h *BackupsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}

	if err := h.manager.Restore(req.Name); err != nil {
		writeError(w, "failed to restore backup: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]string{"restored": req.Name}, http.StatusOK)
}
