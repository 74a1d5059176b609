package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/variant-editor/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiddlewareTest(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	metrics.Register()

	router := gin.New()
	router.Use(LoggingMiddleware(), MetricsMiddleware())
	router.GET("/sessions/:id", func(c *gin.Context) {
		require.NotNil(t, GetLoggerFromContext(c))
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString("request_id")})
	})
	return router
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	router := setupMiddlewareTest(t)

	tests := []struct {
		name     string
		incoming string
	}{
		{"Generated", ""},
		{"Propagated", "req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/sessions/abc", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			got := w.Header().Get(RequestIDHeader)
			assert.NotEmpty(t, got)
			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, got)
			} else {
				assert.Len(t, got, 36)
			}
			assert.Contains(t, w.Body.String(), got)
		})
	}
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	router := setupMiddlewareTest(t)

	for _, path := range []string{"/sessions/a", "/sessions/b", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()

	assert.Contains(t, body, `path="/sessions/:id"`)
	assert.Contains(t, body, `path="unmatched"`)
	assert.NotContains(t, body, `path="/sessions/a"`)
}

func TestGetLoggerFromContext_Fallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.NotNil(t, GetLoggerFromContext(c))
}
