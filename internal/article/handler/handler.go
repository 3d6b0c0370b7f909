package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/trendpress/trendpress/internal/article/repository"
	"github.com/trendpress/trendpress/internal/article/service"
)

const defaultListLimit = 20

// RegisterArticleRoutes registers the read-only article endpoints.
func RegisterArticleRoutes(r gin.IRouter, svc service.Provider) {
	r.GET("/api/articles", func(c *gin.Context) {
		limit := defaultListLimit
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "limit must be a non-negative integer"})
				return
			}
			limit = n
		}
		repo, err := svc.Repository(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		list, err := repo.List(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "articles": list})
	})

	r.GET("/api/articles/:slug", func(c *gin.Context) {
		repo, err := svc.Repository(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		a, err := repo.GetBySlug(c.Request.Context(), c.Param("slug"))
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "article": a})
	})
}
