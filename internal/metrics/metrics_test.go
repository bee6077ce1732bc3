package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	m := New()
	m.Observe("add", nil)
	m.Observe("add", nil)
	m.Observe("add", errors.New("boom"))
	m.ReportJob("done")

	if got := testutil.ToFloat64(m.repoOps.WithLabelValues("add", "ok")); got != 2 {
		t.Fatalf("ok count = %v", got)
	}
	if got := testutil.ToFloat64(m.repoOps.WithLabelValues("add", "error")); got != 1 {
		t.Fatalf("error count = %v", got)
	}
	if got := testutil.ToFloat64(m.reportJobs.WithLabelValues("done")); got != 1 {
		t.Fatalf("report jobs = %v", got)
	}
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.Observe("list", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `studentrecords_repository_operations_total{op="list",outcome="ok"} 1`) {
		t.Fatalf("counter missing from scrape:\n%s", body)
	}
}
