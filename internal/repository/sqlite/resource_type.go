package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"sizewise/pkg/models"
)

func (r *SQLiteRepo) CreateResourceType(ctx context.Context, rt *models.ResourceType) error {
	if rt == nil {
		return fmt.Errorf("resource type is nil")
	}
	journal, err := toJSON(rt.Journal)
	if err != nil {
		return err
	}
	if rt.Created == 0 {
		rt.Created = now()
	}
	rt.Updated = rt.Created

	_, err = r.conn.Exec(ctx,
		`INSERT INTO resource_types (id, name, description, category, cost, journal, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.ID, rt.Name, rt.Description, string(rt.Category), costValue(rt.Cost), journal, rt.Created, rt.Updated)
	if err != nil {
		return fmt.Errorf("insert resource type: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) GetResourceType(ctx context.Context, id string) (*models.ResourceType, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, name, description, category, cost, journal, created, updated FROM resource_types WHERE id = ?`, id)
	return r.scanResourceType(row)
}

func (r *SQLiteRepo) GetResourceTypeByName(ctx context.Context, name string) (*models.ResourceType, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, name, description, category, cost, journal, created, updated FROM resource_types WHERE name = ?`, name)
	return r.scanResourceType(row)
}

func (r *SQLiteRepo) ListResourceTypes(ctx context.Context) ([]models.ResourceType, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT id, name, description, category, cost, journal, created, updated FROM resource_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ResourceType
	for rows.Next() {
		var (
			rt      models.ResourceType
			desc    sql.NullString
			cost    sql.NullFloat64
			journal sql.NullString
		)
		if err := rows.Scan(&rt.ID, &rt.Name, &desc, &rt.Category, &cost, &journal, &rt.Created, &rt.Updated); err != nil {
			return nil, err
		}
		rt.Description = desc.String
		if cost.Valid {
			c := cost.Float64
			rt.Cost = &c
		}
		rt.Journal = r.journalFromRaw(journal, "resource_type", rt.ID)
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateResourceType(ctx context.Context, rt *models.ResourceType) error {
	if rt == nil {
		return fmt.Errorf("resource type is nil")
	}
	journal, err := toJSON(rt.Journal)
	if err != nil {
		return err
	}
	rt.Updated = now()

	_, err = r.conn.Exec(ctx,
		`UPDATE resource_types SET name = ?, description = ?, category = ?, cost = ?, journal = ?, updated = ? WHERE id = ?`,
		rt.Name, rt.Description, string(rt.Category), costValue(rt.Cost), journal, rt.Updated, rt.ID)
	if err != nil {
		return fmt.Errorf("update resource type: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) DeleteResourceType(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM resource_types WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) scanResourceType(row *sql.Row) (*models.ResourceType, error) {
	var (
		rt      models.ResourceType
		desc    sql.NullString
		cost    sql.NullFloat64
		journal sql.NullString
	)
	if err := row.Scan(&rt.ID, &rt.Name, &desc, &rt.Category, &cost, &journal, &rt.Created, &rt.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	rt.Description = desc.String
	if cost.Valid {
		c := cost.Float64
		rt.Cost = &c
	}
	rt.Journal = r.journalFromRaw(journal, "resource_type", rt.ID)
	return &rt, nil
}

func costValue(c *float64) any {
	if c == nil {
		return nil
	}
	return *c
}
