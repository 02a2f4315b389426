package sqlite

import (
	"context"
	"fmt"
	"strings"

	"sizewise/pkg/models"
)

// TouchCategories upserts each name, bumping usage count and last-used.
// Blank names are ignored.
func (r *SQLiteRepo) TouchCategories(ctx context.Context, names []string) error {
	ts := now()
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		_, err := r.conn.Exec(ctx,
			`INSERT INTO categories (name, created, last_used, usage_count) VALUES (?, ?, ?, 1)
			ON CONFLICT(name) DO UPDATE SET last_used = excluded.last_used, usage_count = usage_count + 1`,
			name, ts, ts)
		if err != nil {
			return fmt.Errorf("touch category %q: %w", name, err)
		}
	}
	return nil
}

func (r *SQLiteRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT name, created, last_used, usage_count FROM categories ORDER BY usage_count DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.Name, &c.Created, &c.LastUsed, &c.UsageCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
