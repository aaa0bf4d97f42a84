package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MeasurementType for body metrics logged independently of sessions.
type MeasurementType string

const (
	MeasurementWeight        MeasurementType = "WEIGHT"
	MeasurementCircumference MeasurementType = "CIRCUMFERENCE"
	MeasurementBodyFat       MeasurementType = "BODY_FAT"
)

// WeightUnit is the only unit accepted for WEIGHT measurements.
const WeightUnit = "kg"

// Measurement is a timestamped body metric owned by a user. Measurements are
// created and deleted, never updated in place.
type Measurement struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID    primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Type       MeasurementType    `bson:"type" json:"type"`
	Value      float64            `bson:"value" json:"value"`
	Unit       string             `bson:"unit" json:"unit"`
	RecordedAt time.Time          `bson:"recordedAt" json:"recordedAt"`
}
