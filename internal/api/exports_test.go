package api

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"studentrecords/internal/auth"
	"studentrecords/internal/queue"
	"studentrecords/internal/report"
)

func TestExports(t *testing.T) {
	r, repo := newTestServer(t)
	if _, err := repo.Add(context.Background(), amaForm()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	tok := login(t, r, "admin", "admin123", auth.RoleAdmin)

	w := do(t, r, http.MethodGet, "/v1/exports/students.csv", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("csv: status %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="students-2024-09-01.csv"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if !strings.Contains(w.Body.String(), "20240099") {
		t.Fatalf("csv missing record: %s", w.Body.String())
	}

	w = do(t, r, http.MethodGet, "/v1/exports/students.pdf?status=unpaid", tok, nil)
	if w.Code != http.StatusOK || !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("students pdf: status %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="all-students-report-2024-09-01.pdf"` {
		t.Fatalf("unexpected disposition %q", got)
	}

	w = do(t, r, http.MethodGet, "/v1/exports/payments.pdf?semester=2024-1", tok, nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("payments pdf: status %d type %q", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestReportJobs(t *testing.T) {
	dir, err := report.NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("dir: %v", err)
	}
	q := queue.NewInMemory(4)
	r, repo := newTestServer(t, WithReports(q, dir))
	if _, err := repo.Add(context.Background(), amaForm()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	tok := login(t, r, "admin", "admin123", auth.RoleAdmin)

	if w := do(t, r, http.MethodPost, "/v1/reports", tok, gin.H{"kind": "grades"}); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown kind: expected 400, got %d", w.Code)
	}

	w := do(t, r, http.MethodPost, "/v1/reports", tok, gin.H{"kind": "payments", "semester": "2024-1"})
	if w.Code != http.StatusAccepted {
		t.Fatalf("create report: expected 202, got %d %s", w.Code, w.Body.String())
	}
	var created struct {
		JobID string `json:"job_id"`
	}
	decode(t, w, &created)

	if w := do(t, r, http.MethodGet, "/v1/reports/"+created.JobID, tok, nil); w.Code != http.StatusAccepted {
		t.Fatalf("pending report: expected 202, got %d", w.Code)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, _ := q.Consume(ctx)
	var msg queue.Message
	select {
	case msg = <-messages:
	case <-time.After(2 * time.Second):
		t.Fatalf("no job published")
	}
	job, err := report.DecodeJob(msg)
	if err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.ID != created.JobID || job.RequestedBy != "admin" || job.Semester != "2024-1" {
		t.Fatalf("unexpected job %+v", job)
	}
	worker := report.NewWorker(repo, dir, report.WithWorkerClock(func() time.Time { return testNow }))
	if res := worker.Process(ctx, job); res.Status != report.StatusDone {
		t.Fatalf("process: %+v", res)
	}

	w = do(t, r, http.MethodGet, "/v1/reports/"+created.JobID, tok, nil)
	if w.Code != http.StatusOK || !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("finished report: status %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="payment-report-2024-09-01.pdf"` {
		t.Fatalf("unexpected disposition %q", got)
	}

	if w := do(t, r, http.MethodGet, "/v1/reports/not-a-uuid", tok, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/v1/reports/6f1c3f8e-7d7a-4b4b-9a4e-0c7b8f3e2a11", tok, nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown job: expected 404, got %d", w.Code)
	}
}

func TestReportJobsDisabled(t *testing.T) {
	r, _ := newTestServer(t)
	tok := login(t, r, "admin", "admin123", auth.RoleAdmin)
	if w := do(t, r, http.MethodPost, "/v1/reports", tok, gin.H{"kind": "students"}); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a queue, got %d", w.Code)
	}
}
