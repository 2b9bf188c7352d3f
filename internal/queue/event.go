// Package queue defines the message payloads exchanged over the broker
// and the background consumer that drains them.
package queue

// ActivityRecordedEvent is published whenever a domain mutation appends
// an activity-log entry. Downstream consumers get everything they need
// to log or notify without querying the primary database.
type ActivityRecordedEvent struct {
	AnimalName   string `json:"animal_name"`
	AnimalType   string `json:"animal_type"`
	ActivityType string `json:"activity_type"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	PerformedBy  string `json:"performed_by"`
	RecordedAt   string `json:"recorded_at"`
}

// ActivityQueueName is the durable queue carrying activity events.
const ActivityQueueName = "activity.recorded"
