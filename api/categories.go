package api

import (
	"net/http"

	"sizewise/pkg/models"
	"sizewise/pkg/repository"
)

type CategoriesHandler struct {
	categoryRepo repository.CategoryRepo
}

func NewCategoriesHandler(cr repository.CategoryRepo) *CategoriesHandler {
	return &CategoriesHandler{categoryRepo: cr}
}

func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.ListCategories(r.Context())
	if err != nil {
		writeError(w, "failed to list categories", http.StatusInternalServerError)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, categories, http.StatusOK)
}
