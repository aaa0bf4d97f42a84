package service

import (
	"fitvida/workout-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthorizationPolicy is the single ownership rule for edit/delete-class
// operations on plans and progress sessions. Both managers consume this one
// policy instead of re-implementing the owner/admin check per method.
type AuthorizationPolicy struct{}

func NewAuthorizationPolicy() AuthorizationPolicy {
	return AuthorizationPolicy{}
}

// CanMutate reports whether the caller may mutate a resource owned by
// resourceOwnerID: true iff the caller is the owner or an admin.
func (AuthorizationPolicy) CanMutate(resourceOwnerID, callerID primitive.ObjectID, callerRole domain.Role) bool {
	return callerID == resourceOwnerID || callerRole == domain.RoleAdmin
}
