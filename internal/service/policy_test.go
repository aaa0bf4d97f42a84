package service

import (
	"testing"

	"fitvida/workout-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAuthorizationPolicyCanMutate(t *testing.T) {
	policy := NewAuthorizationPolicy()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	cases := []struct {
		name     string
		callerID primitive.ObjectID
		role     domain.Role
		want     bool
	}{
		{"student owner", owner, domain.RoleStudent, true},
		{"student non-owner", stranger, domain.RoleStudent, false},
		{"professional owner", owner, domain.RoleProfessional, true},
		{"professional non-owner", stranger, domain.RoleProfessional, false},
		{"admin owner", owner, domain.RoleAdmin, true},
		{"admin non-owner", stranger, domain.RoleAdmin, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, policy.CanMutate(owner, tc.callerID, tc.role))
		})
	}
}
