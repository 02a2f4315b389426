package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"log/slog"

	"sizewise/internal/db"
	"sizewise/pkg/models"
	"sizewise/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.ResourceTypeRepo = (*SQLiteRepo)(nil)
var _ repository.FactorRepo = (*SQLiteRepo)(nil)
var _ repository.InitiativeRepo = (*SQLiteRepo)(nil)
var _ repository.ThresholdRepo = (*SQLiteRepo)(nil)
var _ repository.CategoryRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal json field: %w", err)
	}
	return string(b), nil
}

// The decode helpers below substitute an empty collection when a stored
// blob fails to parse: a corrupt field degrades that field only, never
// the whole read.

func (r *SQLiteRepo) journalFromRaw(raw sql.NullString, entity, id string) []models.JournalEntry {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var out []models.JournalEntry
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		r.logger.Warn("malformed journal blob, substituting empty", "entity", entity, "id", id, "err", err)
		return nil
	}
	return out
}

func (r *SQLiteRepo) resourceMapFromRaw(raw sql.NullString, entity, id, field string) map[string]float64 {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var out map[string]float64
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		r.logger.Warn("malformed resource map blob, substituting empty", "entity", entity, "id", id, "field", field, "err", err)
		return nil
	}
	return out
}

func (r *SQLiteRepo) selectedFactorsFromRaw(raw sql.NullString, id string) []models.SelectedFactor {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var out []models.SelectedFactor
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		r.logger.Warn("malformed selected_factors blob, substituting empty", "initiative", id, "err", err)
		return nil
	}
	return out
}

func (r *SQLiteRepo) manualResourcesFromRaw(raw sql.NullString, id string) models.ManualResources {
	if !raw.Valid || raw.String == "" {
		return models.ManualResources{}
	}
	var out models.ManualResources
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		r.logger.Warn("malformed manual_resources blob, substituting empty", "initiative", id, "err", err)
		return models.ManualResources{}
	}
	return out
}

func (r *SQLiteRepo) stringsFromRaw(raw sql.NullString, entity, id, field string) []string {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		r.logger.Warn("malformed string list blob, substituting empty", "entity", entity, "id", id, "field", field, "err", err)
		return nil
	}
	return out
}
