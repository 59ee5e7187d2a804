package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.BracketsCreated.WithLabelValues("SingleElimination").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.BracketsCreated.WithLabelValues("SingleElimination")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.BracketsCreated.WithLabelValues("SingleElimination")))
}

func TestHandler_ExposesCounters(t *testing.T) {
	m := New()
	m.Operations.WithLabelValues("report_result", "ok").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `bracket_engine_operations_total{operation="report_result",result="ok"} 1`)
}
