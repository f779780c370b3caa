// auth.go - HTTP Basic authentication middleware
//
// Authentication Flow:
// 1. Extract email and password from the Authorization: Basic header
// 2. Look the user up by email
// 3. Compare the password against the stored bcrypt hash
// 4. Store the user in the gin context for handlers
//
// Every failure produces the same 401 body so callers cannot tell an
// unknown email from a wrong password.

package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-course-api/apierror"
	"go-course-api/audit"
	"go-course-api/models"
)

const currentUserKey = "currentUser"

// BasicAuth returns a middleware that authenticates every request against
// the users table.
func BasicAuth(db *gorm.DB, rec audit.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		email, password, ok := c.Request.BasicAuth()
		if !ok {
			rec.Record(ctx, NewAuditEvent(c, audit.AuthMissing, ""))
			deny(c, apierror.ErrAuthenticationMissing)
			return
		}

		var user models.User
		err := db.WithContext(ctx).Where("email_address = ?", email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rec.Record(ctx, NewAuditEvent(c, audit.AuthUnknownUser, email))
			deny(c, apierror.ErrAuthenticationInvalid)
			return
		}
		if err != nil {
			deny(c, fmt.Errorf("look up user: %w", err))
			return
		}

		if !user.CheckPassword(password) {
			rec.Record(ctx, NewAuditEvent(c, audit.AuthFailed, email))
			deny(c, apierror.ErrAuthenticationInvalid)
			return
		}

		rec.Record(ctx, NewAuditEvent(c, audit.AuthSucceeded, user.EmailAddress))
		c.Set(currentUserKey, &user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil when BasicAuth did not
// run for this route.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// SetCurrentUser attaches user to the context. BasicAuth does this itself;
// it is exported for tests.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(currentUserKey, user)
}

func deny(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// NewAuditEvent builds an audit event stamped with the request id and route.
func NewAuditEvent(c *gin.Context, typ, actor string) audit.Event {
	return audit.Event{
		Type:      typ,
		Actor:     actor,
		RequestID: RequestID(c),
		At:        time.Now().UTC(),
		Attrs:     map[string]any{"path": c.Request.URL.Path, "method": c.Request.Method},
	}
}
