package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kward/rescue-animal-service/internal/model"
)

func newDog(name, country, status string, reserved bool) *model.Animal {
	return &model.Animal{
		Type:             model.TypeDog,
		Name:             name,
		Gender:           "male",
		Age:              "3",
		Weight:           "25.5",
		TrainingStatus:   status,
		Reserved:         reserved,
		InServiceCountry: country,
		Location:         "Kennel A",
		Breed:            "German Shepherd",
	}
}

func TestAnimalCreateAndGet(t *testing.T) {
	repo := NewAnimalRepo(newTestDB(t))
	ctx := context.Background()

	d := newDog("Rex", "United States", "in service", false)
	require.NoError(t, repo.Create(ctx, d))
	assert.NotZero(t, d.ID)

	got, err := repo.GetByName(ctx, "rex") // name lookup ignores case
	require.NoError(t, err)
	assert.Equal(t, "Rex", got.Name)
	assert.Equal(t, model.TypeDog, got.Type)
	assert.Equal(t, "German Shepherd", got.Breed)

	_, err = repo.GetByName(ctx, "nobody")
	assert.ErrorIs(t, err, ErrAnimalNotFound)
}

func TestAnimalCreateDuplicateName(t *testing.T) {
	repo := NewAnimalRepo(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newDog("Rex", "US", "intake", false)))
	err := repo.Create(ctx, newDog("REX", "US", "intake", false))
	assert.ErrorIs(t, err, ErrAnimalExists)
}

func TestAnimalListByType(t *testing.T) {
	repo := NewAnimalRepo(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newDog("Rex", "US", "intake", false)))
	require.NoError(t, repo.Create(ctx, newDog("Buddy", "US", "intake", false)))
	require.NoError(t, repo.Create(ctx, &model.Animal{
		Type: model.TypeMonkey, Name: "George", Species: "Capuchin", TrainingStatus: "intake",
	}))

	dogs, err := repo.ListByType(ctx, model.TypeDog)
	require.NoError(t, err)
	require.Len(t, dogs, 2)
	assert.Equal(t, "Rex", dogs[0].Name) // insertion order

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAnimalUpdateAndDelete(t *testing.T) {
	repo := NewAnimalRepo(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newDog("Rex", "US", "Phase I", false)))

	a, err := repo.GetByName(ctx, "Rex")
	require.NoError(t, err)
	a.Name = "Rexford"
	a.TrainingStatus = "in service"
	a.Location = "Field Office"
	require.NoError(t, repo.Update(ctx, "Rex", &a))

	got, err := repo.GetByName(ctx, "Rexford")
	require.NoError(t, err)
	assert.Equal(t, "in service", got.TrainingStatus)
	assert.Equal(t, "Field Office", got.Location)

	require.NoError(t, repo.Delete(ctx, "Rexford"))
	assert.ErrorIs(t, repo.Delete(ctx, "Rexford"), ErrAnimalNotFound)
}

func TestReserveFirstAvailable(t *testing.T) {
	repo := NewAnimalRepo(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newDog("Early", "United States", "in service", true)))
	require.NoError(t, repo.Create(ctx, newDog("Trainee", "United States", "Phase II", false)))
	require.NoError(t, repo.Create(ctx, newDog("Abroad", "Canada", "in service", false)))
	require.NoError(t, repo.Create(ctx, newDog("Match", "United States", "In Service", false)))

	// Skips the reserved, in-training and wrong-country dogs.
	a, err := repo.ReserveFirstAvailable(ctx, model.TypeDog, "united states")
	require.NoError(t, err)
	assert.Equal(t, "Match", a.Name)
	assert.True(t, a.Reserved)

	got, err := repo.GetByName(ctx, "Match")
	require.NoError(t, err)
	assert.True(t, got.Reserved)

	// Nothing left to reserve.
	_, err = repo.ReserveFirstAvailable(ctx, model.TypeDog, "united states")
	assert.ErrorIs(t, err, ErrAnimalNotFound)
}

func TestSetReservedAndUpdateLocation(t *testing.T) {
	repo := NewAnimalRepo(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newDog("Rex", "US", "in service", true)))

	require.NoError(t, repo.SetReserved(ctx, "rex", false))
	require.NoError(t, repo.UpdateLocation(ctx, "rex", "Vet Clinic"))

	got, err := repo.GetByName(ctx, "Rex")
	require.NoError(t, err)
	assert.False(t, got.Reserved)
	assert.Equal(t, "Vet Clinic", got.Location)

	assert.ErrorIs(t, repo.UpdateLocation(ctx, "ghost", "x"), ErrAnimalNotFound)
}

func TestAnimalStats(t *testing.T) {
	repo := NewAnimalRepo(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newDog("Avail", "US", "in service", false)))
	require.NoError(t, repo.Create(ctx, newDog("Taken", "US", "in service", true)))
	require.NoError(t, repo.Create(ctx, newDog("Pupil", "US", "Phase I", false)))

	s, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.AnimalStats{Total: 3, Available: 1, Reserved: 1, Training: 1}, s)
}
