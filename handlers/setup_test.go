package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"go-course-api/audit"
	"go-course-api/database"
	"go-course-api/logging"
	"go-course-api/middleware"
	"go-course-api/models"
)

// setupTestDB creates a fresh sqlite database for one test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	models.HashCost = bcrypt.MinCost
	db, err := database.Connect(database.Options{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// setupRouter returns a gin engine with the user and course routes
func setupRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler(logging.Discard()))

	users := NewUserHandlers(db, audit.Nop{})
	courses := NewCourseHandlers(db, audit.Nop{})
	auth := middleware.BasicAuth(db, audit.Nop{})

	r.POST("/users", users.CreateUser)
	r.GET("/users", auth, users.GetCurrentUser)
	r.GET("/courses", courses.ListCourses)
	r.GET("/courses/:id", courses.GetCourse)
	r.POST("/courses", auth, courses.CreateCourse)
	r.PUT("/courses/:id", auth, courses.UpdateCourse)
	r.DELETE("/courses/:id", auth, courses.DeleteCourse)
	r.NoRoute(RouteNotFound)
	return r
}

type credentials struct {
	email, password string
}

func createUser(t *testing.T, db *gorm.DB, email, password string) (*models.User, credentials) {
	t.Helper()
	user := &models.User{FirstName: "Test", LastName: "User", EmailAddress: email}
	user.SetPassword(password)
	require.NoError(t, db.Create(user).Error)
	return user, credentials{email, password}
}

func createCourse(t *testing.T, db *gorm.DB, owner *models.User, title string) *models.Course {
	t.Helper()
	course := &models.Course{Title: title, Description: "About " + title, UserID: owner.ID}
	require.NoError(t, db.Create(course).Error)
	return course
}

// serve sends one request. A string body is sent verbatim, anything else
// non-nil is JSON encoded.
func serve(r http.Handler, method, path string, body any, creds *credentials) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if creds != nil {
		req.SetBasicAuth(creds.email, creds.password)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
