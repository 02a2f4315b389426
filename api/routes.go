package api

import (
	"github.com/gorilla/mux"

	"sizewise/internal/backup"
	"sizewise/internal/config"
	"sizewise/internal/db"
	"sizewise/internal/repository/sqlite"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB, backups *backup.Manager) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(database, nil)

	// Create handlers
	systemHandler := &SystemHandler{}
	resourceTypesHandler := NewResourceTypesHandler(repo, repo, repo)
	factorsHandler := NewFactorsHandler(repo, repo)
	initiativesHandler := NewInitiativesHandler(repo, repo, repo, repo, repo)
	thresholdsHandler := NewThresholdsHandler(repo)
	categoriesHandler := NewCategoriesHandler(repo)
	backupsHandler := NewBackupsHandler(backups)
	exportHandler := NewExportHandler(repo, repo, repo, repo)

	// System endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")

	apiV1 := r.PathPrefix("/v1").Subrouter()

	// Resource type endpoints
	apiV1.HandleFunc("/resource-types", resourceTypesHandler.Create).Methods("POST")
	apiV1.HandleFunc("/resource-types", resourceTypesHandler.List).Methods("GET")
	apiV1.HandleFunc("/resource-types/{id}", resourceTypesHandler.Get).Methods("GET")
	apiV1.HandleFunc("/resource-types/{id}", resourceTypesHandler.Update).Methods("PUT")
	apiV1.HandleFunc("/resource-types/{id}", resourceTypesHandler.Delete).Methods("DELETE")
	apiV1.HandleFunc("/resource-types/{id}/comments", resourceTypesHandler.AddComment).Methods("POST")

	// Estimation factor endpoints
	apiV1.HandleFunc("/factors", factorsHandler.Create).Methods("POST")
	apiV1.HandleFunc("/factors", factorsHandler.List).Methods("GET")
	apiV1.HandleFunc("/factors/{id}", factorsHandler.Get).Methods("GET")
	apiV1.HandleFunc("/factors/{id}", factorsHandler.Update).Methods("PUT")
	apiV1.HandleFunc("/factors/{id}", factorsHandler.Delete).Methods("DELETE")
	apiV1.HandleFunc("/factors/{id}/comments", factorsHandler.AddComment).Methods("POST")

	// Initiative endpoints
	apiV1.HandleFunc("/initiatives", initiativesHandler.Create).Methods("POST")
	apiV1.HandleFunc("/initiatives", initiativesHandler.List).Methods("GET")
	apiV1.HandleFunc("/initiatives/{id}", initiativesHandler.Get).Methods("GET")
	apiV1.HandleFunc("/initiatives/{id}", initiativesHandler.Update).Methods("PUT")
	apiV1.HandleFunc("/initiatives/{id}", initiativesHandler.Delete).Methods("DELETE")
	apiV1.HandleFunc("/initiatives/{id}/duplicate", initiativesHandler.Duplicate).Methods("POST")
	apiV1.HandleFunc("/initiatives/{id}/totals", initiativesHandler.Totals).Methods("GET")
	apiV1.HandleFunc("/initiatives/{id}/comments", initiativesHandler.AddComment).Methods("POST")

	// Shirt size threshold endpoints
	apiV1.HandleFunc("/thresholds", thresholdsHandler.List).Methods("GET")
	apiV1.HandleFunc("/thresholds", thresholdsHandler.Replace).Methods("PUT")
	apiV1.HandleFunc("/thresholds/audit", thresholdsHandler.ListAudit).Methods("GET")

	// Category endpoints
	apiV1.HandleFunc("/categories", categoriesHandler.List).Methods("GET")

	// Backup endpoints
	apiV1.HandleFunc("/backups", backupsHandler.List).Methods("GET")
	apiV1.HandleFunc("/backups", backupsHandler.Run).Methods("POST")
	apiV1.HandleFunc("/backups/restore", backupsHandler.Restore).Methods("POST")

	// Export / import endpoints
	apiV1.HandleFunc("/export", exportHandler.Export).Methods("GET")
	apiV1.HandleFunc("/import", exportHandler.Import).Methods("POST")

	return r
}
