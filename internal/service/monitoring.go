package service

import (
	"context"
	"time"

	"github.com/kward/rescue-animal-service/internal/model"
	"github.com/kward/rescue-animal-service/internal/queue"
	"github.com/kward/rescue-animal-service/internal/repository"
)

// Monitor records activity-log entries and fans them out to the broker.
// Broker delivery is best-effort; a failed publish never fails the
// originating request.
type Monitor struct {
	Activities *repository.ActivityRepo
	Animals    *repository.AnimalRepo
	// Publish allows tests to swap out the broker call. Nil disables
	// publishing entirely.
	Publish func(ctx context.Context, ev queue.ActivityRecordedEvent) error
}

// NewMonitor wires a Monitor against the real broker publisher.
func NewMonitor(activities *repository.ActivityRepo, animals *repository.AnimalRepo) *Monitor {
	return &Monitor{
		Activities: activities,
		Animals:    animals,
		Publish:    PublishActivityRecorded,
	}
}

// Record appends one activity entry. A LOCATION_UPDATE entry also moves
// the animal to the entry's location so the roster and the log agree.
func (m *Monitor) Record(ctx context.Context, a *model.Activity) error {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	if a.ActivityType == model.ActivityLocationUpdate && a.AnimalName != "" {
		if err := m.Animals.UpdateLocation(ctx, a.AnimalName, a.Location); err != nil {
			return err
		}
	}
	if err := m.Activities.Insert(ctx, a); err != nil {
		return err
	}

	if m.Publish != nil {
		ev := queue.ActivityRecordedEvent{
			AnimalName:   a.AnimalName,
			AnimalType:   a.AnimalType,
			ActivityType: a.ActivityType,
			Description:  a.Description,
			Location:     a.Location,
			PerformedBy:  a.PerformedBy,
			RecordedAt:   a.Timestamp.Format(time.RFC3339),
		}
		go func() {
			pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = m.Publish(pctx, ev)
		}()
	}
	return nil
}
