package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/kward/rescue-animal-service/internal/model"
)

// ActivityRepo persists the append-only activity log. Entries are only
// ever inserted and listed; there is no update or prune path.
type ActivityRepo struct{ DB *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{DB: db} }

// Insert appends one activity entry, stamping it with the current time
// when the caller left Timestamp zero.
func (r *ActivityRepo) Insert(ctx context.Context, a *model.Activity) error {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	res, err := r.DB.ExecContext(ctx, `INSERT INTO activities
		(animal_name, animal_type, activity_type, description, location, performed_by, timestamp)
		VALUES (?,?,?,?,?,?,?)`,
		a.AnimalName, a.AnimalType, a.ActivityType, a.Description, a.Location, a.PerformedBy, a.Timestamp)
	if err != nil {
		return err
	}
	a.ID, err = res.LastInsertId()
	return err
}

// List returns the full log in insertion order.
func (r *ActivityRepo) List(ctx context.Context) ([]model.Activity, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT
		id, animal_name, animal_type, activity_type, description, location, performed_by, timestamp
		FROM activities ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.AnimalName, &a.AnimalType, &a.ActivityType,
			&a.Description, &a.Location, &a.PerformedBy, &a.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
