// auth_test.go - Tests for the Basic authentication middleware

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"go-course-api/audit"
	"go-course-api/database"
	"go-course-api/logging"
	"go-course-api/models"
)

type recordingRecorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingRecorder) Record(_ context.Context, ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

// setupTestDB creates a fresh sqlite database for one test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	models.HashCost = bcrypt.MinCost
	db, err := database.Connect(database.Options{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func createUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()
	user := &models.User{FirstName: "Joe", LastName: "Smith", EmailAddress: email}
	user.SetPassword(password)
	require.NoError(t, db.Create(user).Error)
	return user
}

// setupRouter returns a gin engine with one protected route that echoes the
// authenticated user's email
func setupRouter(db *gorm.DB, rec audit.Recorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(), ErrorHandler(logging.Discard()))
	r.GET("/me", BasicAuth(db, rec), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": CurrentUser(c).EmailAddress})
	})
	return r
}

func doGet(r http.Handler, setAuth func(*http.Request)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if setAuth != nil {
		setAuth(req)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestBasicAuth(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "joe@smith.com", "joepassword")

	tests := []struct {
		name       string
		setAuth    func(*http.Request)
		wantStatus int
		wantEvent  string
	}{
		{"no header", nil, http.StatusUnauthorized, audit.AuthMissing},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "Basic !!!notbase64") }, http.StatusUnauthorized, audit.AuthMissing},
		{"bearer scheme", func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") }, http.StatusUnauthorized, audit.AuthMissing},
		{"unknown user", func(r *http.Request) { r.SetBasicAuth("nobody@smith.com", "joepassword") }, http.StatusUnauthorized, audit.AuthUnknownUser},
		{"wrong password", func(r *http.Request) { r.SetBasicAuth("joe@smith.com", "wrongpassword") }, http.StatusUnauthorized, audit.AuthFailed},
		{"valid credentials", func(r *http.Request) { r.SetBasicAuth("joe@smith.com", "joepassword") }, http.StatusOK, audit.AuthSucceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingRecorder{}
			w := doGet(setupRouter(db, rec), tt.setAuth)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, []string{tt.wantEvent}, rec.types())
		})
	}
}

func TestBasicAuthAttachesUser(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "joe@smith.com", "joepassword")

	w := doGet(setupRouter(db, audit.Nop{}), func(r *http.Request) { r.SetBasicAuth("joe@smith.com", "joepassword") })

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "joe@smith.com", body["email"])
}

func TestBasicAuthFailuresLookAlike(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "joe@smith.com", "joepassword")
	r := setupRouter(db, audit.Nop{})

	unknown := doGet(r, func(r *http.Request) { r.SetBasicAuth("nobody@smith.com", "x") })
	wrong := doGet(r, func(r *http.Request) { r.SetBasicAuth("joe@smith.com", "x") })
	missing := doGet(r, nil)

	assert.JSONEq(t, `{"message":"Access Denied"}`, unknown.Body.String())
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	assert.Equal(t, unknown.Body.String(), missing.Body.String())
}

func TestCurrentUserWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentUser(c))

	user := &models.User{ID: 7}
	SetCurrentUser(c, user)
	assert.Same(t, user, CurrentUser(c))
}
