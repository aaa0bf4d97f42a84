package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Achievement is a row in the external achievements ledger. This service
// only reads unlocked achievements; the unlock rules live elsewhere.
type Achievement struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID    primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Title      string             `bson:"title" json:"title"`
	UnlockedAt time.Time          `bson:"unlockedAt" json:"unlockedAt"`
}
