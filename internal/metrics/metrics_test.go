package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestHandler_ExposesCollectors(t *testing.T) {
	Register()
	EditorOperations.WithLabelValues("add_option").Inc()
	ActiveSessions.Set(3)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `variant_editor_editor_operations_total{operation="add_option"}`))
	assert.True(t, strings.Contains(body, "variant_editor_sessions_active 3"))
}
