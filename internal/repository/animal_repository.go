package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/kward/rescue-animal-service/internal/model"
)

// AnimalRepo persists the flattened animal variant records.
type AnimalRepo struct{ DB *sql.DB }

func NewAnimalRepo(db *sql.DB) *AnimalRepo { return &AnimalRepo{DB: db} }

const animalColumns = `id, type, name, gender, age, weight, acquisition_date, acquisition_country,
	training_status, reserved, in_service_country, location, added_by, created_at,
	breed, species, tail_length, height, body_length, coat_color, declawed,
	wingspan, can_fly, beak_type, fur_color, ear_type, litter_trained`

// Create inserts an animal and sets its server-assigned ID. The name is
// unique case-insensitively; duplicates yield ErrAnimalExists.
func (r *AnimalRepo) Create(ctx context.Context, a *model.Animal) error {
	a.CreatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctx, `INSERT INTO animals
		(type, name, gender, age, weight, acquisition_date, acquisition_country,
		 training_status, reserved, in_service_country, location, added_by, created_at,
		 breed, species, tail_length, height, body_length, coat_color, declawed,
		 wingspan, can_fly, beak_type, fur_color, ear_type, litter_trained)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		string(a.Type), a.Name, a.Gender, a.Age, a.Weight, a.AcquisitionDate, a.AcquisitionCountry,
		a.TrainingStatus, a.Reserved, a.InServiceCountry, a.Location, a.AddedBy, a.CreatedAt,
		a.Breed, a.Species, a.TailLength, a.Height, a.BodyLength, a.CoatColor, a.Declawed,
		a.Wingspan, a.CanFly, a.BeakType, a.FurColor, a.EarType, a.LitterTrained)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return ErrAnimalExists
		}
		return err
	}
	a.ID, err = res.LastInsertId()
	return err
}

// GetByName fetches an animal by its case-insensitive unique name.
func (r *AnimalRepo) GetByName(ctx context.Context, name string) (model.Animal, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+animalColumns+" FROM animals WHERE name=? COLLATE NOCASE LIMIT 1", name)
	return scanAnimal(row)
}

// ListByType returns all animals of one species in insertion order.
func (r *AnimalRepo) ListByType(ctx context.Context, t model.AnimalType) ([]model.Animal, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+animalColumns+" FROM animals WHERE type=? ORDER BY id", string(t))
	if err != nil {
		return nil, err
	}
	return collectAnimals(rows)
}

// ListAll returns every animal in insertion order.
func (r *AnimalRepo) ListAll(ctx context.Context) ([]model.Animal, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+animalColumns+" FROM animals ORDER BY id")
	if err != nil {
		return nil, err
	}
	return collectAnimals(rows)
}

// Update rewrites the mutable fields of the animal identified by
// originalName. The identifier (ID) never changes; the name may.
func (r *AnimalRepo) Update(ctx context.Context, originalName string, a *model.Animal) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE animals SET
		name=?, gender=?, age=?, weight=?, training_status=?, reserved=?, location=?
		WHERE name=? COLLATE NOCASE`,
		a.Name, a.Gender, a.Age, a.Weight, a.TrainingStatus, a.Reserved, a.Location,
		originalName)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return ErrAnimalExists
		}
		return err
	}
	return requireRow(res, ErrAnimalNotFound)
}

// Delete removes an animal by name.
func (r *AnimalRepo) Delete(ctx context.Context, name string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM animals WHERE name=? COLLATE NOCASE", name)
	if err != nil {
		return err
	}
	return requireRow(res, ErrAnimalNotFound)
}

// SetReserved flips the reserved flag on a specific animal.
func (r *AnimalRepo) SetReserved(ctx context.Context, name string, reserved bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE animals SET reserved=? WHERE name=? COLLATE NOCASE", reserved, name)
	if err != nil {
		return err
	}
	return requireRow(res, ErrAnimalNotFound)
}

// ReserveFirstAvailable finds the first animal of the given type that
// is in service, unreserved, and stationed in the requested country
// (case-insensitive), marks it reserved, and returns it. The select and
// update run in one transaction so two concurrent reservations cannot
// claim the same animal. Returns ErrAnimalNotFound when nothing
// qualifies.
func (r *AnimalRepo) ReserveFirstAvailable(ctx context.Context, t model.AnimalType, serviceCountry string) (model.Animal, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Animal{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, "SELECT "+animalColumns+` FROM animals
		WHERE type=? AND reserved=0
		  AND LOWER(training_status)='in service'
		  AND LOWER(in_service_country)=LOWER(?)
		ORDER BY id LIMIT 1`, string(t), strings.TrimSpace(serviceCountry))
	a, err := scanAnimal(row)
	if err != nil {
		return model.Animal{}, err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE animals SET reserved=1 WHERE id=?", a.ID); err != nil {
		return model.Animal{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Animal{}, err
	}
	a.Reserved = true
	return a, nil
}

// UpdateLocation moves an animal to a new location.
func (r *AnimalRepo) UpdateLocation(ctx context.Context, name, location string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE animals SET location=? WHERE name=? COLLATE NOCASE", location, name)
	if err != nil {
		return err
	}
	return requireRow(res, ErrAnimalNotFound)
}

// Stats computes the aggregate counts shown by the list endpoint:
// available = in service and unreserved; training = unreserved and not
// yet in service.
func (r *AnimalRepo) Stats(ctx context.Context) (model.AnimalStats, error) {
	var s model.AnimalStats
	err := r.DB.QueryRowContext(ctx, `SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN reserved=0 AND LOWER(training_status)='in service' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN reserved=1 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN reserved=0 AND LOWER(training_status)<>'in service' THEN 1 ELSE 0 END), 0)
		FROM animals`).
		Scan(&s.Total, &s.Available, &s.Reserved, &s.Training)
	return s, err
}

func collectAnimals(rows *sql.Rows) ([]model.Animal, error) {
	defer rows.Close()
	var out []model.Animal
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAnimal(row rowScanner) (model.Animal, error) {
	var an model.Animal
	var typ string
	err := row.Scan(&an.ID, &typ, &an.Name, &an.Gender, &an.Age, &an.Weight,
		&an.AcquisitionDate, &an.AcquisitionCountry, &an.TrainingStatus, &an.Reserved,
		&an.InServiceCountry, &an.Location, &an.AddedBy, &an.CreatedAt,
		&an.Breed, &an.Species, &an.TailLength, &an.Height, &an.BodyLength,
		&an.CoatColor, &an.Declawed, &an.Wingspan, &an.CanFly, &an.BeakType,
		&an.FurColor, &an.EarType, &an.LitterTrained)
	if err == sql.ErrNoRows {
		return model.Animal{}, ErrAnimalNotFound
	}
	if err != nil {
		return model.Animal{}, err
	}
	an.Type = model.AnimalType(typ)
	return an, nil
}
