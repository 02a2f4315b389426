package repository

import (
	"context"

	"sizewise/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type ResourceTypeRepo interface {
	CreateResourceType(ctx context.Context, rt *models.ResourceType) error
	GetResourceType(ctx context.Context, id string) (*models.ResourceType, error)
	GetResourceTypeByName(ctx context.Context, name string) (*models.ResourceType, error)
	ListResourceTypes(ctx context.Context) ([]models.ResourceType, error)
	UpdateResourceType(ctx context.Context, rt *models.ResourceType) error
	DeleteResourceType(ctx context.Context, id string) error
}

type FactorRepo interface {
	CreateFactor(ctx context.Context, f *models.EstimationFactor) error
	GetFactor(ctx context.Context, id string) (*models.EstimationFactor, error)
	GetFactorByName(ctx context.Context, name string) (*models.EstimationFactor, error)
	ListFactors(ctx context.Context) ([]models.EstimationFactor, error)
	UpdateFactor(ctx context.Context, f *models.EstimationFactor) error
	DeleteFactor(ctx context.Context, id string) error
}

type InitiativeRepo interface {
	CreateInitiative(ctx context.Context, i *models.Initiative) (int64, error)
	GetInitiative(ctx context.Context, id int64) (*models.Initiative, error)
	ListInitiatives(ctx context.Context) ([]models.Initiative, error)
	UpdateInitiative(ctx context.Context, i *models.Initiative) error
	DeleteInitiative(ctx context.Context, id int64) error
}

type ThresholdRepo interface {
	ListThresholds(ctx context.Context) ([]models.ShirtSizeThreshold, error)
	ReplaceThresholds(ctx context.Context, thresholds []models.ShirtSizeThreshold) error
	AppendThresholdAudit(ctx context.Context, oldT, newT []models.ShirtSizeThreshold) (int64, error)
	ListThresholdAudit(ctx context.Context, limit int) ([]models.ShirtSizeAudit, error)
}

type CategoryRepo interface {
	// TouchCategories upserts each name, bumping usage count and last-used.
	TouchCategories(ctx context.Context, names []string) error
	ListCategories(ctx context.Context) ([]models.Category, error)
}
