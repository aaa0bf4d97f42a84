package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleStudent      Role = "STUDENT"
	RoleProfessional Role = "PROFESSIONAL"
	RoleAdmin        Role = "ADMIN"
)

// Level describes a user's (or plan's) training level.
type Level string

const (
	LevelBeginner     Level = "BEGINNER"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

// User represents an account in the system (student, professional or admin).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	Level        Level              `bson:"level,omitempty" json:"level,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanCreateTemplates reports whether this user's role may flag a plan as a
// reusable template.
func (u *User) CanCreateTemplates() bool {
	return u.Role == RoleProfessional || u.Role == RoleAdmin
}

// OwnerSummary is the denormalized creator info attached to listed plans.
type OwnerSummary struct {
	Name string `bson:"name" json:"name"`
	Role Role   `bson:"role" json:"role"`
}
