// user.go - Handles reading the current user and signing up

package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-course-api/apierror"
	"go-course-api/audit"
	"go-course-api/middleware"
	"go-course-api/models"
)

// SignupInput is the body of POST /users.
type SignupInput struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

// UserHandlers serves the /users routes.
type UserHandlers struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewUserHandlers(db *gorm.DB, rec audit.Recorder) *UserHandlers {
	return &UserHandlers{db: db, audit: rec}
}

// GetCurrentUser returns the authenticated user. Password and timestamps
// are never serialized.
func (h *UserHandlers) GetCurrentUser(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		_ = c.Error(apierror.ErrAuthenticationMissing)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser registers a new user and answers 201 with Location "/".
func (h *UserHandlers) CreateUser(c *gin.Context) {
	var input SignupInput
	if err := bindJSON(c, &input); err != nil {
		_ = c.Error(err)
		return
	}

	user := models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		EmailAddress: input.EmailAddress,
	}
	user.SetPassword(input.Password)

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		_ = c.Error(persistError("create user", err))
		return
	}

	ev := middleware.NewAuditEvent(c, audit.UserCreated, user.EmailAddress)
	ev.Subject = fmt.Sprintf("user/%d", user.ID)
	h.audit.Record(c.Request.Context(), ev)

	c.Header("Location", "/")
	c.Status(http.StatusCreated)
}
