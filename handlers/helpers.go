// helpers.go - Request binding and error helpers shared by the handlers

package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"go-course-api/apierror"
	"go-course-api/models"
)

// bindJSON decodes the request body into dst. An empty body leaves dst at
// its zero value so field validation can report what is missing.
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindWith(dst, binding.JSON)
	if err == nil || errors.Is(err, io.EOF) { // io.EOF means no body at all
		return nil
	}
	return apierror.BadRequest("Request body must be valid JSON")
}

// persistError passes validation errors through untouched and turns unique
// constraint violations into the duplicate email message.
func persistError(op string, err error) error {
	var verr *apierror.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	// Lost a race with a concurrent signup; the unique index caught it
	if models.IsDuplicateKey(err) {
		return apierror.NewValidationError(models.MsgEmailTaken)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// courseID parses the :id path parameter. Anything that is not a positive
// integer cannot name a course, so it is reported as not found.
func courseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errCourseNotFound
	}
	return uint(id), nil
}

var errCourseNotFound = apierror.NotFound("Course Not Found")
