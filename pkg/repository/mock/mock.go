package mock

import (
	"context"

	"sizewise/pkg/models"
)

// Test helpers and mocks
type Mocks struct {
	Thresholds *ThresholdRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Thresholds: &ThresholdRepo{},
	}
}

// ThresholdRepo is an in-memory threshold store with injectable errors.
type ThresholdRepo struct {
	Stored     []models.ShirtSizeThreshold
	Audits     []models.ShirtSizeAudit
	ListErr    error
	ReplaceErr error
	AuditErr   error
}

func (m *ThresholdRepo) ListThresholds(ctx context.Context) ([]models.ShirtSizeThreshold, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Stored, nil
}

func (m *ThresholdRepo) ReplaceThresholds(ctx context.Context, thresholds []models.ShirtSizeThreshold) error {
	if m.ReplaceErr != nil {
		return m.ReplaceErr
	}
	m.Stored = thresholds
	return nil
}

func (m *ThresholdRepo) AppendThresholdAudit(ctx context.Context, oldT, newT []models.ShirtSizeThreshold) (int64, error) {
	if m.AuditErr != nil {
		return 0, m.AuditErr
	}
	m.Audits = append(m.Audits, models.ShirtSizeAudit{ID: int64(len(m.Audits) + 1), Old: oldT, New: newT})
	return int64(len(m.Audits)), nil
}

func (m *ThresholdRepo) ListThresholdAudit(ctx context.Context, limit int) ([]models.ShirtSizeAudit, error) {
	if limit > 0 && len(m.Audits) > limit {
		return m.Audits[:limit], nil
	}
	return m.Audits, nil
}
