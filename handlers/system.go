// system.go - Root, health and fallback routes

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-course-api/apierror"
	"go-course-api/database"
)

// Welcome answers GET /.
func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the REST API project!"})
}

// RouteNotFound answers any path without a route.
func RouteNotFound(c *gin.Context) {
	_ = c.Error(apierror.NotFound("Route Not Found")) // Rendered by ErrorHandler
}

// Health reports whether the database answers a ping.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Bounded by the request context
		if err := database.Ping(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
