package report

import (
	"bytes"
	"context"
	"log"
	"os"
	"time"

	"studentrecords/internal/cloudinary"
	"studentrecords/internal/queue"
	"studentrecords/internal/student"
)

// Source supplies the data a report is rendered from.
type Source interface {
	List(ctx context.Context) ([]student.Record, error)
	PaymentReport(ctx context.Context, semester string) (student.PaymentReport, error)
}

// Uploader publishes a rendered document somewhere public.
type Uploader interface {
	UploadRaw(ctx context.Context, data []byte, filename, publicID string) (*cloudinary.UploadResult, error)
}

// Counter records finished jobs by status.
type Counter interface {
	ReportJob(status string)
}

// WorkerOption customises a Worker.
type WorkerOption func(*Worker)

// WithUploader uploads each finished document.
func WithUploader(u Uploader) WorkerOption {
	return func(w *Worker) { w.up = u }
}

// WithCounter reports job outcomes.
func WithCounter(c Counter) WorkerOption {
	return func(w *Worker) { w.counter = c }
}

// WithWorkerClock overrides the time used for the "Generated on" line and file names.
func WithWorkerClock(now func() time.Time) WorkerOption {
	return func(w *Worker) { w.now = now }
}

// Worker renders queued report jobs into a Dir.
type Worker struct {
	src     Source
	dir     *Dir
	up      Uploader
	counter Counter
	now     func() time.Time
}

// NewWorker builds a worker reading from src and writing into dir.
func NewWorker(src Source, dir *Dir, opts ...WorkerOption) *Worker {
	w := &Worker{src: src, dir: dir, now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run consumes report jobs until ctx is cancelled or the queue closes.
func (w *Worker) Run(ctx context.Context, q queue.Queue) error {
	messages, err := q.Consume(ctx)
	if err != nil {
		return err
	}
	log.Println("report worker started, waiting for jobs...")
	for msg := range messages {
		if msg.Type != MessageType {
			continue
		}
		job, err := DecodeJob(msg)
		if err != nil {
			log.Printf("dropping report message: %v", err)
			continue
		}
		res := w.Process(ctx, job)
		log.Printf("report job %s %s", job.ID, res.Status)
	}
	log.Println("report worker stopped")
	return nil
}

// Process renders one job and records its result.
func (w *Worker) Process(ctx context.Context, job Job) Result {
	now := w.now()
	res := Result{JobID: job.ID, Kind: job.Kind, UpdatedAt: now}

	data, err := Render(ctx, w.src, job, now)
	if err == nil {
		err = os.WriteFile(w.dir.DocumentPath(job.ID), data, 0o644)
	}
	if err != nil {
		log.Printf("report job %s failed: %v", job.ID, err)
		res.Status = StatusFailed
		res.Error = err.Error()
		w.finish(res)
		return res
	}

	res.Status = StatusDone
	res.FileName = FileName(job.Title, now)
	if w.up != nil {
		up, err := w.up.UploadRaw(ctx, data, res.FileName, job.ID)
		if err != nil {
			log.Printf("report job %s upload failed: %v", job.ID, err)
		} else {
			res.URL = up.SecureURL
		}
	}
	w.finish(res)
	return res
}

func (w *Worker) finish(res Result) {
	if err := w.dir.PutResult(res); err != nil {
		log.Printf("report job %s: could not record status: %v", res.JobID, err)
	}
	if w.counter != nil {
		w.counter.ReportJob(res.Status)
	}
}

// Render produces the PDF bytes for job.
func Render(ctx context.Context, src Source, job Job, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	switch job.Kind {
	case KindStudents:
		records, err := src.List(ctx)
		if err != nil {
			return nil, err
		}
		records = student.Filter(student.Search(records, job.Query), job.Criteria)
		if err := StudentsPDF(&buf, records, job.Title, now); err != nil {
			return nil, err
		}
	case KindPayments:
		rep, err := src.PaymentReport(ctx, job.Semester)
		if err != nil {
			return nil, err
		}
		if err := PaymentPDF(&buf, rep, job.Title, now); err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnknownKind
	}
	return buf.Bytes(), nil
}
