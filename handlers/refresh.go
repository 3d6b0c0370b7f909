package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trendpress/trendpress/internal/pipeline"
	"github.com/trendpress/trendpress/internal/runs"
	"github.com/trendpress/trendpress/pkg/logger"
)

// Refresher runs one scrape-and-generate pass.
type Refresher interface {
	Run(ctx context.Context, trigger string) (*pipeline.Result, error)
}

// RegisterRefreshRoutes registers POST /api/article and, when a run store is
// given, GET /api/runs/:id. guards run before the refresh handler only.
func RegisterRefreshRoutes(r gin.IRouter, refresher Refresher, store runs.Store, guards ...gin.HandlerFunc) {
	chain := append(append([]gin.HandlerFunc{}, guards...), RefreshArticles(refresher))
	r.POST("/api/article", chain...)
	if store != nil {
		r.GET("/api/runs/:id", GetRun(store))
	}
}

// RefreshArticles triggers a refresh and answers with the new slugs.
func RefreshArticles(refresher Refresher) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := refresher.Run(c.Request.Context(), "http")
		if res != nil {
			c.Header("X-Run-ID", res.RunID)
		}
		if err != nil {
			logger.Errorf("refresh failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "generated": res.Generated})
	}
}

// GetRun returns the recorded summary of one refresh.
func GetRun(store runs.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, err := store.Load(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		if run == nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "run not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "run": run})
	}
}
