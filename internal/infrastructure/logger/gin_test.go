package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newObservedEngine builds an engine with a fake request-id middleware in
// front of GinMiddleware, the same ordering the router uses.
func newObservedEngine() (*gin.Engine, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("request_id", "req-reconcile-1")
		c.Next()
	})
	engine.Use(GinMiddleware(log))
	return engine, logs
}

func fieldString(t *testing.T, entry observer.LoggedEntry, key string) string {
	t.Helper()
	for _, f := range entry.Context {
		if f.Key == key {
			return f.String
		}
	}
	return ""
}

func TestGinMiddleware(t *testing.T) {
	t.Run("logs a completed request at info", func(t *testing.T) {
		engine, logs := newObservedEngine()
		engine.GET("/api/v1/articles/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"code": "RAME-A4"})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/articles/42?include=stock", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zapcore.InfoLevel, entry.Level)
		assert.Equal(t, "request completed", entry.Message)
		assert.Equal(t, "req-reconcile-1", fieldString(t, entry, "request_id"))
		assert.Equal(t, "GET", fieldString(t, entry, "method"))
		assert.Equal(t, "/api/v1/articles/42", fieldString(t, entry, "path"))
		assert.Equal(t, "/api/v1/articles/:id", fieldString(t, entry, "route"))
		assert.Equal(t, "include=stock", fieldString(t, entry, "query"))
	})

	t.Run("logs client errors at warn", func(t *testing.T) {
		engine, logs := newObservedEngine()
		engine.PUT("/api/v1/documents/:id/lines", func(c *gin.Context) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/documents/7/lines", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	})

	t.Run("logs server errors at error", func(t *testing.T) {
		engine, logs := newObservedEngine()
		engine.GET("/api/v1/documents", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
	})

	t.Run("tags the authenticated user when set", func(t *testing.T) {
		engine, logs := newObservedEngine()
		engine.POST("/api/v1/distributions", func(c *gin.Context) {
			c.Set("jwt_user_id", "b52ccf1e-0000-4000-8000-000000000001")
			c.Status(http.StatusCreated)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/distributions", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "b52ccf1e-0000-4000-8000-000000000001", fieldString(t, logs.All()[0], "user_id"))
	})

	t.Run("seeds the request context for FromContext", func(t *testing.T) {
		engine, _ := newObservedEngine()

		var gotRequestID string
		engine.GET("/api/v1/categories", func(c *gin.Context) {
			gotRequestID = GetRequestID(c.Request.Context())
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, "req-reconcile-1", gotRequestID)
	})
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	engine := gin.New()
	engine.Use(Recovery(log))
	engine.GET("/api/v1/payments", func(c *gin.Context) {
		panic("nil repository")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "panic recovered", entry.Message)
	assert.Equal(t, "/api/v1/payments", fieldString(t, entry, "path"))
}
