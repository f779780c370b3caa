// router.go - Builds the gin engine and the route table

package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-course-api/audit"
	"go-course-api/handlers"
	"go-course-api/middleware"
)

// Deps are the collaborators the routes need.
type Deps struct {
	DB          *gorm.DB
	Audit       audit.Recorder
	Log         *slog.Logger
	CORSOrigins []string
}

// New returns a gin engine with every route registered.
func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.RequestLogger(deps.Log),
		middleware.CORS(deps.CORSOrigins),
		middleware.ErrorHandler(deps.Log),
	)

	users := handlers.NewUserHandlers(deps.DB, deps.Audit)
	courses := handlers.NewCourseHandlers(deps.DB, deps.Audit)
	auth := middleware.BasicAuth(deps.DB, deps.Audit)

	// Public routes (no authentication required)
	r.GET("/", handlers.Welcome)
	r.GET("/healthz", handlers.Health(deps.DB))
	r.POST("/users", users.CreateUser)
	r.GET("/courses", courses.ListCourses)
	r.GET("/courses/:id", courses.GetCourse)

	// Protected routes (require Basic authentication)
	r.GET("/users", auth, users.GetCurrentUser)
	r.POST("/courses", auth, courses.CreateCourse)
	r.PUT("/courses/:id", auth, courses.UpdateCourse)
	r.DELETE("/courses/:id", auth, courses.DeleteCourse)

	r.NoRoute(handlers.RouteNotFound)
	return r
}
