package handlers

import (
	"net/http"

	"scrapi-go/pkg/mockapi/store"
	"scrapi-go/pkg/models"

	"github.com/gin-gonic/gin"
)

type runsQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search    string `form:"search"`
	Status    string `form:"status"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// ListRuns lists the authenticated user's runs with pagination
func ListRuns(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := runsQuery{Page: 1, Limit: 20, SortBy: "created_at", SortOrder: "desc"}
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}

		page := st.ListRuns(userID(c), models.RunsQuery{
			Page:      q.Page,
			Limit:     q.Limit,
			Search:    q.Search,
			Status:    q.Status,
			SortBy:    q.SortBy,
			SortOrder: q.SortOrder,
		})
		c.JSON(http.StatusOK, page)
	}
}

// GetRun returns one run
func GetRun(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, err := st.GetRun(userID(c), c.Param("id"))
		if err != nil {
			abortWithStoreError(c, err, "Run not found")
			return
		}
		c.JSON(http.StatusOK, run)
	}
}
