package events

import (
	"time"

	"fitvida/workout-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionCompleted is published whenever a training session is recorded.
// External consumers (achievements, notifications) subscribe to it; the
// publisher never waits on them.
type SessionCompleted struct {
	OwnerID         primitive.ObjectID   `json:"ownerId"`
	SessionID       primitive.ObjectID   `json:"sessionId"`
	DurationSeconds int                  `json:"durationSeconds"`
	Status          domain.SessionStatus `json:"status"`
	OccurredAt      time.Time            `json:"occurredAt"`
}
