package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"shortlink-be/internal/models"
)

type stubHealthService struct {
	resp *models.HealthResponse
}

func (s stubHealthService) Hello() map[string]string {
	return map[string]string{"message": "Hello World"}
}

func (s stubHealthService) Health(context.Context) *models.HealthResponse {
	return s.resp
}

func TestHealthController(t *testing.T) {
	serve := func(resp *models.HealthResponse, path string) *httptest.ResponseRecorder {
		hc := NewHealthController(stubHealthService{resp: resp})
		r := gin.New()
		r.GET("/", hc.Hello)
		r.GET("/health", hc.Health)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("hello", func(t *testing.T) {
		rec := serve(nil, "/")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Hello World"}`, rec.Body.String())
	})

	t.Run("healthy", func(t *testing.T) {
		rec := serve(&models.HealthResponse{OK: true, Message: "OK", Database: "connected", Cache: "disabled", Timestamp: "2025-01-01T00:00:00.000Z"}, "/health")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok":true,"message":"OK","database":"connected","cache":"disabled","timestamp":"2025-01-01T00:00:00.000Z"}`, rec.Body.String())
	})

	t.Run("database unreachable", func(t *testing.T) {
		rec := serve(&models.HealthResponse{OK: false, Message: "Database unreachable", Database: "disconnected"}, "/health")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
