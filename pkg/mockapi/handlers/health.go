package handlers

import (
	"errors"
	"net/http"

	"scrapi-go/pkg/mockapi/store"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports that the mock backend is up
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// abortWithStoreError maps store errors onto FastAPI-style detail responses
func abortWithStoreError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": notFound})
	case errors.Is(err, store.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"detail": "Access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	}
}

func userID(c *gin.Context) string {
	return c.MustGet("userID").(string)
}
