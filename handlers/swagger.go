package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves a Swagger UI page and the OpenAPI document behind it.
// - GET /swagger/index.html
// - GET /swagger/doc.json
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>trendpress API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "trendpress", "version": "v0.1.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } }
  },
  "paths": {
    "/api/article": {
      "post": {
        "summary": "Scrape trending topics and generate articles for new ones",
        "security": [ { "bearer": [] } ],
        "responses": {
          "200": { "description": "{success: true, generated: [slug]}", "headers": { "X-Run-ID": { "schema": { "type": "string" } } } },
          "401": { "description": "missing or invalid bearer token (when auth is configured)" },
          "429": { "description": "rate limit exceeded" },
          "500": { "description": "{success: false, message}" }
        }
      }
    },
    "/api/articles": {
      "get": {
        "summary": "List stored articles, newest first",
        "parameters": [ { "name": "limit", "in": "query", "schema": { "type": "integer", "default": 20 } } ],
        "responses": { "200": { "description": "{success, articles}" }, "400": { "description": "bad limit" } }
      }
    },
    "/api/articles/{slug}": {
      "get": {
        "summary": "Get an article by slug",
        "parameters": [ { "name": "slug", "in": "path", "required": true, "schema": { "type": "string" } } ],
        "responses": { "200": { "description": "{success, article}" }, "404": { "description": "not found" } }
      }
    },
    "/api/runs/{id}": {
      "get": {
        "summary": "Get the summary of a refresh run",
        "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ],
        "responses": { "200": { "description": "{success, run}" }, "404": { "description": "run not found" } }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
