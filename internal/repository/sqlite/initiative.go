package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"sizewise/pkg/models"
)

const initiativeColumns = `id, name, custom_id, description, priority, priority_num, status, estimation_type, classification, scope, out_of_scope, selected_factors, manual_resources, start_date, end_date, estimated_duration, categories, computed_hours, shirt_size, journal, created, updated`

func (r *SQLiteRepo) CreateInitiative(ctx context.Context, i *models.Initiative) (int64, error) {
	if i == nil {
		return 0, fmt.Errorf("initiative is nil")
	}
	factors, manual, categories, journal, err := initiativeBlobs(i)
	if err != nil {
		return 0, err
	}
	if i.Created == 0 {
		i.Created = now()
	}
	i.Updated = i.Created

	res, err := r.conn.Exec(ctx,
		`INSERT INTO initiatives (name, custom_id, description, priority, priority_num, status, estimation_type, classification, scope, out_of_scope, selected_factors, manual_resources, start_date, end_date, estimated_duration, categories, computed_hours, shirt_size, journal, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.Name, i.CustomID, i.Description, i.Priority, intValue(i.PriorityNum), i.Status, i.EstimationType, i.Classification, i.Scope, i.OutOfScope,
		factors, manual, i.StartDate, i.EndDate, intValue(i.EstimatedDuration), categories, i.ComputedHours, i.ShirtSize, journal, i.Created, i.Updated)
	if err != nil {
		return 0, fmt.Errorf("insert initiative: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	i.ID = id
	return id, nil
}

func (r *SQLiteRepo) GetInitiative(ctx context.Context, id int64) (*models.Initiative, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+initiativeColumns+` FROM initiatives WHERE id = ?`, id)
	i, err := r.scanInitiative(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return i, nil
}

func (r *SQLiteRepo) ListInitiatives(ctx context.Context) ([]models.Initiative, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+initiativeColumns+` FROM initiatives ORDER BY updated DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Initiative
	for rows.Next() {
		i, err := r.scanInitiative(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *i)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateInitiative(ctx context.Context, i *models.Initiative) error {
	if i == nil {
		return fmt.Errorf("initiative is nil")
	}
	factors, manual, categories, journal, err := initiativeBlobs(i)
	if err != nil {
		return err
	}
	i.Updated = now()

	_, err = r.conn.Exec(ctx,
		`UPDATE initiatives SET name = ?, custom_id = ?, description = ?, priority = ?, priority_num = ?, status = ?, estimation_type = ?, classification = ?, scope = ?, out_of_scope = ?, selected_factors = ?, manual_resources = ?, start_date = ?, end_date = ?, estimated_duration = ?, categories = ?, computed_hours = ?, shirt_size = ?, journal = ?, updated = ? WHERE id = ?`,
		i.Name, i.CustomID, i.Description, i.Priority, intValue(i.PriorityNum), i.Status, i.EstimationType, i.Classification, i.Scope, i.OutOfScope,
		factors, manual, i.StartDate, i.EndDate, intValue(i.EstimatedDuration), categories, i.ComputedHours, i.ShirtSize, journal, i.Updated, i.ID)
	if err != nil {
		return fmt.Errorf("update initiative: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) DeleteInitiative(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM initiatives WHERE id = ?`, id)
	return err
}

type scanFunc func(dest ...any) error

func (r *SQLiteRepo) scanInitiative(scan scanFunc) (*models.Initiative, error) {
	var (
		i              models.Initiative
		customID       sql.NullString
		desc           sql.NullString
		priority       sql.NullString
		priorityNum    sql.NullInt64
		status         sql.NullString
		estimationType sql.NullString
		classification sql.NullString
		scope          sql.NullString
		outOfScope     sql.NullString
		factors        sql.NullString
		manual         sql.NullString
		startDate      sql.NullString
		endDate        sql.NullString
		duration       sql.NullInt64
		categories     sql.NullString
		journal        sql.NullString
	)
	err := scan(&i.ID, &i.Name, &customID, &desc, &priority, &priorityNum, &status, &estimationType, &classification, &scope, &outOfScope,
		&factors, &manual, &startDate, &endDate, &duration, &categories, &i.ComputedHours, &i.ShirtSize, &journal, &i.Created, &i.Updated)
	if err != nil {
		return nil, err
	}

	i.CustomID = customID.String
	i.Description = desc.String
	i.Priority = priority.String
	i.Status = status.String
	i.EstimationType = estimationType.String
	i.Classification = classification.String
	i.Scope = scope.String
	i.OutOfScope = outOfScope.String
	i.StartDate = startDate.String
	i.EndDate = endDate.String
	if priorityNum.Valid {
		n := int(priorityNum.Int64)
		i.PriorityNum = &n
	}
	if duration.Valid {
		n := int(duration.Int64)
		i.EstimatedDuration = &n
	}

	id := strconv.FormatInt(i.ID, 10)
	i.SelectedFactors = r.selectedFactorsFromRaw(factors, id)
	i.ManualResources = r.manualResourcesFromRaw(manual, id)
	i.Categories = r.stringsFromRaw(categories, "initiative", id, "categories")
	i.Journal = r.journalFromRaw(journal, "initiative", id)
	return &i, nil
}

func initiativeBlobs(i *models.Initiative) (factors, manual, categories, journal string, err error) {
	if factors, err = toJSON(i.SelectedFactors); err != nil {
		return
	}
	if manual, err = toJSON(i.ManualResources); err != nil {
		return
	}
	if categories, err = toJSON(i.Categories); err != nil {
		return
	}
	journal, err = toJSON(i.Journal)
	return
}

func intValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
