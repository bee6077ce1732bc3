package student

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"studentrecords/internal/store"
)

var (
	// ErrStorageUnavailable wraps any failure to read, decode or write the student slot.
	ErrStorageUnavailable = errors.New("student storage unavailable")
	// ErrDuplicateStudentID is returned when another record already holds the student id.
	ErrDuplicateStudentID = errors.New("student id already registered")
)

// Recorder receives one observation per repository operation.
type Recorder interface {
	Observe(op string, err error)
}

// Option customises a Repository.
type Option func(*Repository)

// WithClock replaces the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator replaces the record id generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Repository) { r.newID = fn }
}

// WithRecorder attaches an operation observer, e.g. metrics.
func WithRecorder(rec Recorder) Option {
	return func(r *Repository) { r.rec = rec }
}

// Repository is the single owner of the persisted student collection.
// Every mutation reads the whole slot, changes it in memory and writes it back.
type Repository struct {
	slot  store.Slot
	mu    sync.Mutex
	now   func() time.Time
	newID func() string
	rec   Recorder
}

// NewRepository creates a repository over slot.
func NewRepository(slot store.Slot, opts ...Option) *Repository {
	r := &Repository{
		slot:  slot,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns every stored record in insertion order.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	records, err := r.load(ctx)
	r.observe("list", err)
	return records, err
}

// Get returns the record with id, or nil when none exists.
func (r *Repository) Get(ctx context.Context, id string) (*Record, error) {
	records, err := r.load(ctx)
	r.observe("get", err)
	if err != nil {
		return nil, err
	}
	if i := indexOf(records, id); i >= 0 {
		rec := records[i]
		return &rec, nil
	}
	return nil, nil
}

// Add validates f and stores it as a new record.
func (r *Repository) Add(ctx context.Context, f Form) (Record, error) {
	rec, err := r.add(ctx, f)
	r.observe("add", err)
	return rec, err
}

func (r *Repository) add(ctx context.Context, f Form) (Record, error) {
	if fields := Validate(f); fields != nil {
		return Record{}, &ValidationError{Fields: fields}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return Record{}, err
	}
	if studentIDTaken(records, f.StudentID, "") {
		return Record{}, ErrDuplicateStudentID
	}

	now := r.now()
	rec := Record{ID: r.newID(), CreatedAt: now, UpdatedAt: now}
	f.apply(&rec)
	if rec.FeePaid {
		paid := now
		rec.PaymentDate = &paid
	}

	records = append(records, rec)
	if err := r.save(ctx, records); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Update overwrites the form fields of record id. It returns nil when id is unknown.
// PaymentDate follows FeePaid: it is stamped when the record becomes paid, kept while
// it stays paid and cleared when it is marked unpaid.
func (r *Repository) Update(ctx context.Context, id string, f Form) (*Record, error) {
	rec, err := r.update(ctx, id, f)
	r.observe("update", err)
	return rec, err
}

func (r *Repository) update(ctx context.Context, id string, f Form) (*Record, error) {
	if fields := Validate(f); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(records, id)
	if i < 0 {
		return nil, nil
	}
	if studentIDTaken(records, f.StudentID, id) {
		return nil, ErrDuplicateStudentID
	}

	prev := records[i]
	next := prev
	f.apply(&next)
	next.UpdatedAt = r.stamp(prev.UpdatedAt)
	switch {
	case !next.FeePaid:
		next.PaymentDate = nil
	case !prev.FeePaid || prev.PaymentDate == nil:
		paid := next.UpdatedAt
		next.PaymentDate = &paid
	}

	records[i] = next
	if err := r.save(ctx, records); err != nil {
		return nil, err
	}
	return &next, nil
}

// Delete removes record id. It reports false, without writing, when nothing matched.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := r.delete(ctx, id)
	r.observe("delete", err)
	return ok, err
}

func (r *Repository) delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	i := indexOf(records, id)
	if i < 0 {
		return false, nil
	}
	records = append(records[:i], records[i+1:]...)
	if err := r.save(ctx, records); err != nil {
		return false, err
	}
	return true, nil
}

// MarkFeePaid flags record id as paid and stamps the payment date.
func (r *Repository) MarkFeePaid(ctx context.Context, id string) (bool, error) {
	ok, err := r.markFeePaid(ctx, id)
	r.observe("mark_paid", err)
	return ok, err
}

func (r *Repository) markFeePaid(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	i := indexOf(records, id)
	if i < 0 {
		return false, nil
	}
	now := r.stamp(records[i].UpdatedAt)
	records[i].FeePaid = true
	records[i].PaymentDate = &now
	records[i].UpdatedAt = now
	if err := r.save(ctx, records); err != nil {
		return false, err
	}
	return true, nil
}

// PaymentReport partitions records by fee status. An empty semester or "all" covers every record.
func (r *Repository) PaymentReport(ctx context.Context, semester string) (PaymentReport, error) {
	records, err := r.load(ctx)
	r.observe("payment_report", err)
	if err != nil {
		return PaymentReport{}, err
	}
	return BuildPaymentReport(records, semester), nil
}

// BuildPaymentReport computes the payment aggregate over records.
func BuildPaymentReport(records []Record, semester string) PaymentReport {
	rep := PaymentReport{Paid: []Record{}, Unpaid: []Record{}}
	for _, rec := range records {
		if semester != "" && semester != "all" && rec.Semester != semester {
			continue
		}
		rep.TotalAmount += rec.FeeAmount
		if rec.FeePaid {
			rep.Paid = append(rep.Paid, rec)
			rep.PaidAmount += rec.FeeAmount
		} else {
			rep.Unpaid = append(rep.Unpaid, rec)
		}
	}
	return rep
}

func (r *Repository) load(ctx context.Context) ([]Record, error) {
	data, err := r.slot.Load(ctx)
	if err != nil {
		log.Printf("student store: load failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	records := []Record{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("student store: decode failed: %v", err)
		return nil, fmt.Errorf("%w: decode: %w", ErrStorageUnavailable, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (r *Repository) save(ctx context.Context, records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		log.Printf("student store: encode failed: %v", err)
		return fmt.Errorf("%w: encode: %w", ErrStorageUnavailable, err)
	}
	if err := r.slot.Save(ctx, data); err != nil {
		log.Printf("student store: save failed: %v", err)
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// stamp returns the current time, never earlier than prev.
func (r *Repository) stamp(prev time.Time) time.Time {
	now := r.now()
	if now.Before(prev) {
		return prev
	}
	return now
}

func (r *Repository) observe(op string, err error) {
	if r.rec != nil {
		r.rec.Observe(op, err)
	}
}

func indexOf(records []Record, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

func studentIDTaken(records []Record, studentID, exceptID string) bool {
	for _, rec := range records {
		if rec.ID != exceptID && rec.StudentID == studentID {
			return true
		}
	}
	return false
}
