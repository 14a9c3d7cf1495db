// Package mockapi is an in-memory stand-in for the Scrapi backend. It serves
// the same routes the client uses, for local development and tests.
package mockapi

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"scrapi-go/pkg/mockapi/handlers"
	"scrapi-go/pkg/mockapi/middleware"
	"scrapi-go/pkg/mockapi/store"
	"scrapi-go/pkg/scraper"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// NewRunner returns a runner that fills runs with fabricated listings for
// their search term and location.
func NewRunner(st *store.Store, logger *log.Logger, opts ...scraper.Option) *scraper.Runner {
	generate := func(job scraper.Job) ([]map[string]any, error) {
		name := "Listing"
		if len(job.SearchTerms) > 0 {
			name = listingName(job.SearchTerms[0])
		}
		n := job.MaxResults
		if n <= 0 || n > 8 {
			n = 8
		}
		return store.DemoLeads(name, job.Location, n), nil
	}
	return scraper.NewRunner(st, generate, append([]scraper.Option{scraper.WithLogger(logger)}, opts...)...)
}

// listingName capitalizes the first letter of a search term.
func listingName(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return "Listing"
	}
	r, size := utf8.DecodeRuneInString(term)
	return string(unicode.ToUpper(r)) + term[size:]
}

// NewRouter wires every route against st. Runs started by the assistant are
// executed by runner; with a nil runner they stay queued. A nil logger
// discards request logs.
func NewRouter(st *store.Store, runner *scraper.Runner, logger *log.Logger) *gin.Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.ErrorHandler())

	// Health check
	router.GET("/health", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(middleware.RequireAuth(st))
	{
		// Runs
		api.GET("/runs", handlers.ListRuns(st))
		api.GET("/runs/:id", handlers.GetRun(st))

		// Datasets
		api.GET("/datasets/:id/items", handlers.DatasetItems(st))
		api.GET("/datasets/:id/export", handlers.ExportDataset(st))
		api.GET("/datasets/export/:id", handlers.ExportDataset(st))

		// Actors
		api.GET("/actors", handlers.ListActors(st))
		api.POST("/actors", handlers.CreateActor(st))
		api.GET("/actors/:id", handlers.GetActor(st))
		api.POST("/actors/:id/fork", handlers.ForkActor(st))
		api.GET("/marketplace", handlers.Marketplace(st))

		// Global chat
		api.POST("/chat/global", handlers.GlobalChat(st, runner))
		api.GET("/chat/global/history", handlers.GlobalChatHistory(st))
		api.DELETE("/chat/global/history", handlers.ClearGlobalChatHistory(st))

		// Lead chat
		api.GET("/leads/:id/chat", handlers.LeadChatHistory(st))
		api.POST("/leads/:id/chat", handlers.LeadChat(st))
		api.POST("/leads/:id/outreach-template", handlers.OutreachTemplate(st))
	}

	return router
}
