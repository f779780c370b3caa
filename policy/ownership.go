// Package policy holds the authorization rules applied by handlers.
package policy

import (
	"go-course-api/apierror"
	"go-course-api/models"
)

// Owned is any resource that belongs to a single user.
type Owned interface {
	OwnerID() uint
}

// Authorize allows actor to mutate resource only if actor owns it.
// It returns apierror.ErrAuthorizationDenied otherwise.
func Authorize(resource Owned, actor *models.User) error {
	if resource == nil || actor == nil || actor.ID == 0 {
		return apierror.ErrAuthorizationDenied
	}
	if resource.OwnerID() != actor.ID {
		return apierror.ErrAuthorizationDenied
	}
	return nil
}
