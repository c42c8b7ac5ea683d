package domain

import "github.com/google/uuid"

// Actor identifies the authenticated principal performing a request.
// Roles come from the session token; authorization decisions live in the
// services that consume them.
type Actor struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Roles    []string
}

// HasAnyRole reports whether the actor holds at least one of the given roles.
func (a Actor) HasAnyRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range a.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
