package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus type for the lifecycle of a training session record.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "EM_ANDAMENTO"
	SessionConcluded  SessionStatus = "CONCLUIDO"
	SessionCancelled  SessionStatus = "CANCELADO"
)

// ProgressSession records one execution of training, optionally derived from
// a plan template. Its results are created transactionally with the header
// and deleted with it; there is no partial result-replace path.
type ProgressSession struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OwnerID         primitive.ObjectID  `bson:"ownerId" json:"ownerId"`
	PlanID          *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"` // Template used, if any
	StartedAt       time.Time           `bson:"startedAt" json:"startedAt"`
	DurationSeconds int                 `bson:"durationSeconds" json:"durationSeconds"`
	Status          SessionStatus       `bson:"status" json:"status"`
	Notes           string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`

	// Populated on reads.
	Results []SessionResult `bson:"-" json:"results,omitempty"`
	Plan    *PlanSummary    `bson:"-" json:"plan,omitempty"`
}

// SessionResult is the actual outcome for one exercise within a session.
type SessionResult struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID  primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	SetsDone   int                `bson:"setsDone" json:"setsDone"`
	RepsDone   int                `bson:"repsDone" json:"repsDone"`
	Load       float64            `bson:"load,omitempty" json:"load,omitempty"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`

	Exercise *ExerciseSummary `bson:"-" json:"exercise,omitempty"`
}

// SessionResultInput is the caller-supplied outcome used on session create.
type SessionResultInput struct {
	ExerciseID primitive.ObjectID
	SetsDone   int
	RepsDone   int
	Load       float64
	Notes      string
}

// PerformanceStats aggregates performance over a user's concluded sessions.
// All counters are zero (never null) when no session matches.
type PerformanceStats struct {
	SessionsTotal        int64 `bson:"sessionsTotal" json:"sessionsTotal"`
	TotalDurationSeconds int64 `bson:"totalDurationSeconds" json:"totalDurationSeconds"`
	TotalSetsCompleted   int64 `bson:"totalSetsCompleted" json:"totalSetsCompleted"`
}
