package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kward/rescue-animal-service/internal/model"
)

func TestActivityInsertAndList(t *testing.T) {
	repo := NewActivityRepo(newTestDB(t))
	ctx := context.Background()

	first := &model.Activity{
		AnimalName:   "Rex",
		AnimalType:   "Dog",
		ActivityType: model.ActivityIntake,
		Description:  "New dog added to system",
		Location:     "Intake Facility",
		PerformedBy:  "hana",
	}
	require.NoError(t, repo.Insert(ctx, first))
	assert.NotZero(t, first.ID)
	assert.False(t, first.Timestamp.IsZero())

	require.NoError(t, repo.Insert(ctx, &model.Activity{
		AnimalName:   "Rex",
		AnimalType:   "Dog",
		ActivityType: model.ActivityReservation,
		Description:  "Reserved for service in Canada",
		Location:     "Kennel A",
		PerformedBy:  "hana",
	}))

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.ActivityIntake, entries[0].ActivityType)
	assert.Equal(t, model.ActivityReservation, entries[1].ActivityType)
	assert.Equal(t, "Intake Facility", entries[0].Location)
}
