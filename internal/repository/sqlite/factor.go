package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"sizewise/pkg/models"
)

func (r *SQLiteRepo) CreateFactor(ctx context.Context, f *models.EstimationFactor) error {
	if f == nil {
		return fmt.Errorf("factor is nil")
	}
	hours, err := toJSON(f.Hours)
	if err != nil {
		return err
	}
	values, err := toJSON(f.Values)
	if err != nil {
		return err
	}
	journal, err := toJSON(f.Journal)
	if err != nil {
		return err
	}
	if f.Created == 0 {
		f.Created = now()
	}
	f.Updated = f.Created

	_, err = r.conn.Exec(ctx,
		`INSERT INTO estimation_factors (id, name, description, hours_per_resource_type, value_per_resource_type, journal, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Name, f.Description, hours, values, journal, f.Created, f.Updated)
	if err != nil {
		return fmt.Errorf("insert factor: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) GetFactor(ctx context.Context, id string) (*models.EstimationFactor, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, name, description, hours_per_resource_type, value_per_resource_type, journal, created, updated FROM estimation_factors WHERE id = ?`, id)
	return r.scanFactor(row)
}

func (r *SQLiteRepo) GetFactorByName(ctx context.Context, name string) (*models.EstimationFactor, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, name, description, hours_per_resource_type, value_per_resource_type, journal, created, updated FROM estimation_factors WHERE name = ?`, name)
	return r.scanFactor(row)
}

func (r *SQLiteRepo) ListFactors(ctx context.Context) ([]models.EstimationFactor, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT id, name, description, hours_per_resource_type, value_per_resource_type, journal, created, updated FROM estimation_factors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EstimationFactor
	for rows.Next() {
		var (
			f                      models.EstimationFactor
			desc                   sql.NullString
			hours, values, journal sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.Name, &desc, &hours, &values, &journal, &f.Created, &f.Updated); err != nil {
			return nil, err
		}
		f.Description = desc.String
		f.Hours = r.resourceMapFromRaw(hours, "factor", f.ID, "hours_per_resource_type")
		f.Values = r.resourceMapFromRaw(values, "factor", f.ID, "value_per_resource_type")
		f.Journal = r.journalFromRaw(journal, "factor", f.ID)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateFactor(ctx context.Context, f *models.EstimationFactor) error {
	if f == nil {
		return fmt.Errorf("factor is nil")
	}
	hours, err := toJSON(f.Hours)
	if err != nil {
		return err
	}
	values, err := toJSON(f.Values)
	if err != nil {
		return err
	}
	journal, err := toJSON(f.Journal)
	if err != nil {
		return err
	}
	f.Updated = now()

	_, err = r.conn.Exec(ctx,
		`UPDATE estimation_factors SET name = ?, description = ?, hours_per_resource_type = ?, value_per_resource_type = ?, journal = ?, updated = ? WHERE id = ?`,
		f.Name, f.Description, hours, values, journal, f.Updated, f.ID)
	if err != nil {
		return fmt.Errorf("update factor: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) DeleteFactor(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM estimation_factors WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) scanFactor(row *sql.Row) (*models.EstimationFactor, error) {
	var (
		f                      models.EstimationFactor
		desc                   sql.NullString
		hours, values, journal sql.NullString
	)
	if err := row.Scan(&f.ID, &f.Name, &desc, &hours, &values, &journal, &f.Created, &f.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	f.Description = desc.String
	f.Hours = r.resourceMapFromRaw(hours, "factor", f.ID, "hours_per_resource_type")
	f.Values = r.resourceMapFromRaw(values, "factor", f.ID, "value_per_resource_type")
	f.Journal = r.journalFromRaw(journal, "factor", f.ID)
	return &f, nil
}
