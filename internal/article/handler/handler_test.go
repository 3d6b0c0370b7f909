package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/trendpress/trendpress/internal/article"
	"github.com/trendpress/trendpress/internal/article/repository"
	"github.com/trendpress/trendpress/internal/article/service"
)

func TestArticleHandler_ListAndGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryRepo()
	for _, title := range []string{"Cricket World Cup", "Budget 2024"} {
		_, err := repo.Insert(context.Background(), &article.Article{Title: title, Slug: article.Slugify(title), Content: "<h1>" + title + "</h1>"})
		require.NoError(t, err)
	}
	g := gin.New()
	RegisterArticleRoutes(g, service.NewMemoryProvider(repo))

	// list
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/articles?limit=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Success  bool               `json:"success"`
		Articles []*article.Article `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.True(t, list.Success)
	require.Len(t, list.Articles, 1)
	require.Equal(t, "budget-2024", list.Articles[0].Slug)

	// get
	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/articles/cricket-world-cup", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var one struct {
		Article article.Article `json:"article"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &one))
	require.Equal(t, "Cricket World Cup", one.Article.Title)

	// missing
	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/articles/nope", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	// bad limit
	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/articles?limit=abc", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}
