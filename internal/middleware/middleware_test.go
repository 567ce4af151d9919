package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"shortlink-be/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(logger, metrics.New()), Recovery(logger))
	return r
}

func TestRequestID(t *testing.T) {
	r := newTestEngine(zap.NewNop())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusNoContent)
	})

	t.Run("generates a uuid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := rec.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, seen)
	})

	t.Run("keeps an incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "trace-42")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, "trace-42", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "trace-42", seen)
	})
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newTestEngine(zap.New(core))
	r.GET("/ok", func(c *gin.Context) {
		Logger(c).Info("inside handler")
		c.Status(http.StatusOK)
	})
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok?page=2", nil))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	inside := logs.FilterMessage("inside handler").All()
	require.Len(t, inside, 1)
	assert.Equal(t, "/ok", inside[0].ContextMap()["path"])

	requests := logs.FilterMessage("HTTP request").All()
	require.Len(t, requests, 2)
	assert.Equal(t, zapcore.InfoLevel, requests[0].Level)
	assert.Equal(t, "page=2", requests[0].ContextMap()["query"])
	assert.Equal(t, int64(http.StatusOK), requests[0].ContextMap()["status"])
	assert.Equal(t, zapcore.WarnLevel, requests[1].Level)
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := newTestEngine(zap.New(core))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}
