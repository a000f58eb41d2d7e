package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordWorkflow(t *testing.T) {
	before := testutil.ToFloat64(workflowTotal.WithLabelValues("create_task", OutcomeSuccess))
	RecordWorkflow("create_task", OutcomeSuccess)
	after := testutil.ToFloat64(workflowTotal.WithLabelValues("create_task", OutcomeSuccess))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestHandlerExposesProbeMetrics(t *testing.T) {
	RecordProbe("FAILED", 10*time.Millisecond)

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `todoplash_probe_results_total{tls_status="FAILED"}`) {
		t.Error("probe counter missing from exposition")
	}
}
