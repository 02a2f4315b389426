package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"sizewise/pkg/models"
)

func (r *SQLiteRepo) ListThresholds(ctx context.Context) ([]models.ShirtSizeThreshold, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT size, threshold_hours FROM shirt_size_thresholds ORDER BY threshold_hours ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ShirtSizeThreshold
	for rows.Next() {
		var t models.ShirtSizeThreshold
		if err := rows.Scan(&t.Size, &t.ThresholdHours); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ReplaceThresholds swaps the whole threshold table for the given rows
// in one transaction.
func (r *SQLiteRepo) ReplaceThresholds(ctx context.Context, thresholds []models.ShirtSizeThreshold) error {
	tx, err := r.conn.GetConn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin threshold replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shirt_size_thresholds`); err != nil {
		return fmt.Errorf("clear thresholds: %w", err)
	}
	for _, t := range thresholds {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO shirt_size_thresholds (size, threshold_hours) VALUES (?, ?)`,
			t.Size, t.ThresholdHours); err != nil {
			return fmt.Errorf("insert threshold %s: %w", t.Size, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepo) AppendThresholdAudit(ctx context.Context, oldT, newT []models.ShirtSizeThreshold) (int64, error) {
	oldJSON, err := toJSON(oldT)
	if err != nil {
		return 0, err
	}
	newJSON, err := toJSON(newT)
	if err != nil {
		return 0, err
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO shirt_size_audit (old_thresholds, new_thresholds, created) VALUES (?, ?, ?)`,
		oldJSON, newJSON, now())
	if err != nil {
		return 0, fmt.Errorf("append threshold audit: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) ListThresholdAudit(ctx context.Context, limit int) ([]models.ShirtSizeAudit, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.conn.QueryRows(ctx,
		`SELECT id, old_thresholds, new_thresholds, created FROM shirt_size_audit ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ShirtSizeAudit
	for rows.Next() {
		var (
			a              models.ShirtSizeAudit
			oldRaw, newRaw string
		)
		if err := rows.Scan(&a.ID, &oldRaw, &newRaw, &a.Created); err != nil {
			return nil, err
		}
		a.Old = r.thresholdsFromRaw(oldRaw, a.ID)
		a.New = r.thresholdsFromRaw(newRaw, a.ID)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) thresholdsFromRaw(raw string, auditID int64) []models.ShirtSizeThreshold {
	var out []models.ShirtSizeThreshold
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		r.logger.Warn("malformed threshold audit blob, substituting empty", "audit_id", auditID, "err", err)
		return nil
	}
	return out
}
