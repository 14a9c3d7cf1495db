package handlers

import (
	"net/http"

	"scrapi-go/pkg/mockapi/store"
	"scrapi-go/pkg/models"

	"github.com/gin-gonic/gin"
)

type actorCreateRequest struct {
	models.ActorCreate
	Name string `json:"name" binding:"required"`
}

// ListActors lists actors visible to the authenticated user
func ListActors(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, st.ListActors(userID(c)))
	}
}

// GetActor returns one actor
func GetActor(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := st.GetActor(userID(c), c.Param("id"))
		if err != nil {
			abortWithStoreError(c, err, "Actor not found")
			return
		}
		c.JSON(http.StatusOK, actor)
	}
}

// CreateActor creates a private draft actor
func CreateActor(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req actorCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}
		req.ActorCreate.Name = req.Name

		actor := st.CreateActor(userID(c), req.ActorCreate)
		c.JSON(http.StatusOK, actor)
	}
}

// ForkActor clones a public actor
func ForkActor(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		forked, err := st.ForkActor(userID(c), c.Param("id"))
		if err != nil {
			abortWithStoreError(c, err, "Actor not found")
			return
		}
		c.JSON(http.StatusOK, forked)
	}
}

type marketplaceQuery struct {
	Category string `form:"category"`
	Featured bool   `form:"featured"`
	Search   string `form:"search"`
}

// Marketplace lists public actors
func Marketplace(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q marketplaceQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, st.Marketplace(models.MarketplaceQuery{
			Category: q.Category,
			Featured: q.Featured,
			Search:   q.Search,
		}))
	}
}
