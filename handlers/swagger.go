package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>collabwrite API</title>
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

// Minimal OpenAPI document describing the service endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "collabwrite", "version": "v0.1.0" },
  "paths": {
    "/auth/login": {
      "post": {
        "summary": "Credential sign-in",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "tokens returned" }, "401": { "description": "invalid credentials" } }
      }
    },
    "/auth/oidc": {
      "post": { "summary": "Exchange an OIDC id token for local tokens", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"id_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "tokens returned" }, "401": { "description": "invalid id token" } } }
    },
    "/auth/refresh": {
      "post": { "summary": "Refresh access token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/api/documents": {
      "get": { "summary": "List the caller's documents", "responses": { "200": { "description": "documents" }, "401": { "description": "unauthorized" } } },
      "post": { "summary": "Create a document", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"title":{"type":"string"},"description":{"type":"string"}}}}}}, "responses": { "201": { "description": "created document" }, "401": { "description": "unauthorized" } } }
    },
    "/api/documents/{id}": {
      "get": { "summary": "Fetch a document (placeholder when unknown)", "responses": { "200": { "description": "document" } } },
      "patch": { "summary": "Overwrite document content", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"content":{"type":"string"}}}}}}, "responses": { "200": { "description": "updated" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a document (idempotent)", "responses": { "204": { "description": "deleted" } } }
    },
    "/api/documents/{id}/export": {
      "post": { "summary": "Export snapshot as markdown, returns presigned URL", "responses": { "200": { "description": "export url" }, "503": { "description": "export storage not configured" } } }
    },
    "/api/ai/chat": {
      "post": { "summary": "Streaming AI writing assistant", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"messages":{"type":"array"},"documentContent":{"type":"string"}}}}}}, "responses": { "200": { "description": "streamed reply or fallback payload" }, "401": { "description": "unauthorized" } } }
    },
    "/api/v1/me": {
      "get": { "summary": "Get user info", "responses": { "200": { "description": "user or claims" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
