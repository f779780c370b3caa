// course.go - Handles listing, reading, creating, updating and deleting courses

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-course-api/apierror"
	"go-course-api/audit"
	"go-course-api/middleware"
	"go-course-api/models"
	"go-course-api/policy"
)

// CourseInput is the body of POST /courses. The owner is always the
// authenticated user, so there is no userId field.
type CourseInput struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	EstimatedTime   string `json:"estimatedTime"`
	MaterialsNeeded string `json:"materialsNeeded"`
}

// CoursePatch is the body of PUT /courses/:id. Only fields present in the
// body are changed; id and userId cannot be changed.
type CoursePatch struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	EstimatedTime   *string `json:"estimatedTime"`
	MaterialsNeeded *string `json:"materialsNeeded"`
}

func (p CoursePatch) apply(course *models.Course) {
	if p.Title != nil {
		course.Title = *p.Title
	}
	if p.Description != nil {
		course.Description = *p.Description
	}
	if p.EstimatedTime != nil {
		course.EstimatedTime = *p.EstimatedTime
	}
	if p.MaterialsNeeded != nil {
		course.MaterialsNeeded = *p.MaterialsNeeded
	}
}

// CourseHandlers serves the /courses routes.
type CourseHandlers struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewCourseHandlers(db *gorm.DB, rec audit.Recorder) *CourseHandlers {
	return &CourseHandlers{db: db, audit: rec}
}

// ListCourses returns every course with its owner embedded.
func (h *CourseHandlers) ListCourses(c *gin.Context) {
	courses := []models.Course{}
	err := h.db.WithContext(c.Request.Context()).
		Preload("User").
		Order("id").
		Find(&courses).Error
	if err != nil {
		_ = c.Error(fmt.Errorf("list courses: %w", err))
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GetCourse returns one course with its owner embedded.
func (h *CourseHandlers) GetCourse(c *gin.Context) {
	course, err := h.find(c, true)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// CreateCourse stores a course owned by the authenticated user.
func (h *CourseHandlers) CreateCourse(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		_ = c.Error(apierror.ErrAuthenticationMissing)
		return
	}

	var input CourseInput
	if err := bindJSON(c, &input); err != nil {
		_ = c.Error(err)
		return
	}

	course := models.Course{
		Title:           input.Title,
		Description:     input.Description,
		EstimatedTime:   input.EstimatedTime,
		MaterialsNeeded: input.MaterialsNeeded,
		UserID:          user.ID,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&course).Error; err != nil {
		_ = c.Error(persistError("create course", err))
		return
	}

	h.record(c, audit.CourseCreated, user, &course)
	c.Header("Location", "/")
	c.Status(http.StatusCreated)
}

// UpdateCourse applies a partial update. Only the owner may update.
func (h *CourseHandlers) UpdateCourse(c *gin.Context) {
	course, ok := h.authorize(c)
	if !ok {
		return
	}

	var patch CoursePatch
	if err := bindJSON(c, &patch); err != nil {
		_ = c.Error(err)
		return
	}
	patch.apply(course)

	if err := h.db.WithContext(c.Request.Context()).Save(course).Error; err != nil {
		_ = c.Error(persistError("update course", err))
		return
	}

	h.record(c, audit.CourseUpdated, middleware.CurrentUser(c), course)
	c.Status(http.StatusNoContent)
}

// DeleteCourse removes a course. Only the owner may delete.
func (h *CourseHandlers) DeleteCourse(c *gin.Context) {
	course, ok := h.authorize(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(course).Error; err != nil {
		_ = c.Error(fmt.Errorf("delete course: %w", err))
		return
	}

	h.record(c, audit.CourseDeleted, middleware.CurrentUser(c), course)
	c.Status(http.StatusNoContent)
}

// authorize loads the course named by :id and checks the caller owns it.
// On failure the error is already recorded on c.
func (h *CourseHandlers) authorize(c *gin.Context) (*models.Course, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		_ = c.Error(apierror.ErrAuthenticationMissing)
		return nil, false
	}

	course, err := h.find(c, false)
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}

	if err := policy.Authorize(course, user); err != nil {
		h.record(c, audit.CourseDenied, user, course)
		_ = c.Error(err)
		return nil, false
	}
	return course, true
}

func (h *CourseHandlers) find(c *gin.Context, withOwner bool) (*models.Course, error) {
	id, err := courseID(c)
	if err != nil {
		return nil, err
	}

	q := h.db.WithContext(c.Request.Context())
	if withOwner {
		q = q.Preload("User")
	}
	var course models.Course
	err = q.First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find course %d: %w", id, err)
	}
	return &course, nil
}

func (h *CourseHandlers) record(c *gin.Context, typ string, actor *models.User, course *models.Course) {
	var email string
	if actor != nil {
		email = actor.EmailAddress
	}
	ev := middleware.NewAuditEvent(c, typ, email)
	ev.Subject = fmt.Sprintf("course/%d", course.ID)
	h.audit.Record(c.Request.Context(), ev)
}
