// Package api holds the helpers shared by the HTTP handlers.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/mytheresa/go-catalog-mappings/models"
)

// StatusFor maps repository errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case models.IsInvalidArgument(err):
		return http.StatusBadRequest
	case models.IsNotFound(err):
		return http.StatusNotFound
	case models.IsAlreadyExists(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error writes err as {"error": ...}. Server errors are logged and reported
// with the fallback message only.
func Error(c *gin.Context, err error, fallback string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error(fallback)
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// ParseID reads the :id path parameter. It writes a 400 and returns false
// when the value is not a positive integer.
func ParseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// Eager reports whether the request asked for associations via ?eager=true.
func Eager(c *gin.Context) bool {
	eager, _ := strconv.ParseBool(c.Query("eager"))
	return eager
}

// RequestLogger logs every request through logrus.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		entry := log.WithFields(log.Fields{
			"status": c.Writer.Status(),
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		if len(c.Errors) > 0 {
			entry.Warn(c.Errors.String())
			return
		}
		entry.Debug("request served")
	}
}
