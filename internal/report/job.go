package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"studentrecords/internal/queue"
	"studentrecords/internal/student"
)

// MessageType tags report jobs on the queue.
const MessageType = "report"

// Kind selects which document a job renders.
type Kind string

const (
	KindStudents Kind = "students"
	KindPayments Kind = "payments"
)

// Job statuses.
const (
	StatusQueued = "queued"
	StatusDone   = "done"
	StatusFailed = "failed"
)

// ErrUnknownKind is returned for jobs naming an unsupported document.
var ErrUnknownKind = errors.New("unknown report kind")

// ErrInvalidJobID is returned when a job id is not a UUID.
var ErrInvalidJobID = errors.New("invalid report job id")

// Job asks the worker to render one document.
type Job struct {
	ID          string           `json:"id"`
	Kind        Kind             `json:"kind"`
	Title       string           `json:"title,omitempty"`
	Semester    string           `json:"semester,omitempty"`
	Query       string           `json:"query,omitempty"`
	Criteria    student.Criteria `json:"criteria"`
	RequestedBy string           `json:"requestedBy,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// NewJob fills in the id, creation time and default title.
func NewJob(kind Kind, now time.Time) (Job, error) {
	j := Job{ID: uuid.NewString(), Kind: kind, CreatedAt: now}
	switch kind {
	case KindStudents:
		j.Title = StudentsTitle
	case KindPayments:
		j.Title = PaymentsTitle
	default:
		return Job{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return j, nil
}

// Message wraps the job for the queue.
func (j Job) Message() (queue.Message, error) {
	body, err := json.Marshal(j)
	if err != nil {
		return queue.Message{}, err
	}
	return queue.Message{Type: MessageType, Body: body}, nil
}

// DecodeJob reads a job back from a queue message.
func DecodeJob(msg queue.Message) (Job, error) {
	if msg.Type != MessageType {
		return Job{}, fmt.Errorf("unexpected message type %q", msg.Type)
	}
	var j Job
	if err := json.Unmarshal(msg.Body, &j); err != nil {
		return Job{}, fmt.Errorf("decode report job: %w", err)
	}
	if _, err := uuid.Parse(j.ID); err != nil {
		return Job{}, ErrInvalidJobID
	}
	return j, nil
}

// Result is the status document kept next to each rendered report.
type Result struct {
	JobID     string    `json:"jobId"`
	Kind      Kind      `json:"kind"`
	Status    string    `json:"status"`
	FileName  string    `json:"fileName,omitempty"`
	URL       string    `json:"url,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Dir stores rendered reports and their status documents on disk.
// The API and the worker share it, possibly across processes.
type Dir struct {
	path string
}

// NewDir creates the directory if needed.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &Dir{path: path}, nil
}

// Result returns the status of a job. A job never seen returns nil, nil.
func (d *Dir) Result(id string) (*Result, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidJobID
	}
	data, err := os.ReadFile(d.statusPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode report status: %w", err)
	}
	return &res, nil
}

// PutResult records the status of a job.
func (d *Dir) PutResult(res Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return d.writeAtomic(d.statusPath(res.JobID), data)
}

// DocumentPath is where the rendered document of a job lives.
func (d *Dir) DocumentPath(id string) string {
	return filepath.Join(d.path, id+".pdf")
}

func (d *Dir) statusPath(id string) string {
	return filepath.Join(d.path, id+".json")
}

func (d *Dir) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(d.path, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Enqueue marks the job queued and publishes it.
func Enqueue(ctx context.Context, q queue.Queue, dir *Dir, job Job) error {
	msg, err := job.Message()
	if err != nil {
		return err
	}
	if err := dir.PutResult(Result{JobID: job.ID, Kind: job.Kind, Status: StatusQueued, UpdatedAt: job.CreatedAt}); err != nil {
		return fmt.Errorf("record report job: %w", err)
	}
	if err := q.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish report job: %w", err)
	}
	return nil
}
