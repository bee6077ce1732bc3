package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"studentrecords/internal/auth"
	"studentrecords/internal/queue"
	"studentrecords/internal/report"
	"studentrecords/internal/student"
)

const dayLayout = "2006-01-02"

// Store is the record repository the handlers read and mutate.
type Store interface {
	List(ctx context.Context) ([]student.Record, error)
	Get(ctx context.Context, id string) (*student.Record, error)
	Add(ctx context.Context, f student.Form) (student.Record, error)
	Update(ctx context.Context, id string, f student.Form) (*student.Record, error)
	Delete(ctx context.Context, id string) (bool, error)
	MarkFeePaid(ctx context.Context, id string) (bool, error)
	PaymentReport(ctx context.Context, semester string) (student.PaymentReport, error)
}

// Checker reports whether a backing service is reachable.
type Checker interface {
	Healthy(ctx context.Context) bool
}

// Config carries the settings the router needs.
type Config struct {
	JWTIssuer       string
	JWTSigningKey   string
	AccessTTL       time.Duration
	RateLimitPerMin int
	CORSOrigins     []string
}

// Option customises a Handler.
type Option func(*Handler)

// WithReports enables async report jobs published on q and stored in dir.
func WithReports(q queue.Queue, dir *report.Dir) Option {
	return func(h *Handler) { h.jobs, h.reports = q, dir }
}

// WithHealthCheck adds a dependency to /healthz.
func WithHealthCheck(name string, c Checker) Option {
	return func(h *Handler) { h.checks[name] = c }
}

// WithMetrics serves m on /metrics.
func WithMetrics(m http.Handler) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithClock overrides the time used for dashboards and file names.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

type Handler struct {
	store   Store
	gate    *auth.Gate
	cfg     Config
	jobs    queue.Queue // nil when async reports are disabled
	reports *report.Dir
	checks  map[string]Checker
	metrics http.Handler
	now     func() time.Time
}

func New(s Store, gate *auth.Gate, cfg Config, opts ...Option) *Handler {
	h := &Handler{
		store:  s,
		gate:   gate,
		cfg:    cfg,
		checks: map[string]Checker{},
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ---------- Health ----------

func (h *Handler) Healthz(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{"status": "ok"}
	for name, check := range h.checks {
		ok := check.Healthy(c.Request.Context())
		body[name] = ok
		if !ok {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}
	}
	c.JSON(status, body)
}

// ---------- Auth ----------

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin student"`
}

// Login checks the credential for the requested role and issues a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.gate.Check(req.Username, req.Password, req.Role); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	tok, err := auth.Issue(req.Username, req.Role, h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AccessTTL)
	if err != nil {
		log.Printf("token issue failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": tok.AccessToken,
		"expires_at":   tok.ExpiresAt.Unix(),
		"role":         req.Role,
	})
}

// ---------- Students ----------

func (h *Handler) ListStudents(c *gin.Context) {
	records, ok := h.filtered(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": records, "count": len(records)})
}

func (h *Handler) CreateStudent(c *gin.Context) {
	var form student.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.store.Add(c.Request.Context(), form)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) GetStudent(c *gin.Context) {
	rec, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	var form student.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.store.Update(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		writeError(c, err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	found, err := h.store.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkFeePaid flags the fee as paid and returns the updated record.
func (h *Handler) MarkFeePaid(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	found, err := h.store.MarkFeePaid(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	rec, err := h.store.Get(ctx, id)
	if err != nil || rec == nil {
		c.JSON(http.StatusOK, gin.H{"id": id, "feePaid": true})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ---------- Payments & dashboard ----------

func (h *Handler) PaymentReport(c *gin.Context) {
	semester, ok := semesterParam(c)
	if !ok {
		return
	}
	rep, err := h.store.PaymentReport(c.Request.Context(), semester)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) Dashboard(c *gin.Context) {
	records, err := h.store.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, student.Dashboard(records, h.now()))
}

func (h *Handler) Activity(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}
	records, err := h.store.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": student.RecentActivity(records, limit)})
}

// ---------- helpers ----------

// filtered lists records narrowed by the q, program, semester, status, from and to
// query parameters. It writes the error response itself and reports false on failure.
func (h *Handler) filtered(c *gin.Context) ([]student.Record, bool) {
	crit, err := criteriaFromQuery(c.Query)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	records, err := h.store.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return student.Filter(student.Search(records, c.Query("q")), crit), true
}

func criteriaFromQuery(get func(string) string) (student.Criteria, error) {
	crit := student.Criteria{
		Program:  get("program"),
		Semester: get("semester"),
		Status:   get("status"),
	}
	switch crit.Status {
	case "", student.StatusAll, student.StatusPaid, student.StatusUnpaid:
	default:
		return crit, errors.New("status must be one of all, paid, unpaid")
	}
	var err error
	if crit.From, err = parseDay(get("from")); err != nil {
		return crit, errors.New("from must be a date like 2024-09-01")
	}
	if crit.To, err = parseDay(get("to")); err != nil {
		return crit, errors.New("to must be a date like 2024-09-01")
	}
	return crit, nil
}

func parseDay(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(dayLayout, v)
}

func semesterParam(c *gin.Context) (string, bool) {
	semester := c.Query("semester")
	if semester == "" || semester == "all" {
		return semester, true
	}
	for _, s := range student.Semesters {
		if s == semester {
			return semester, true
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "unknown semester " + semester})
	return "", false
}

func claimsOf(c *gin.Context) auth.Claims {
	claimsAny, _ := c.Get("claims")
	claims, _ := claimsAny.(auth.Claims)
	return claims
}

// writeError maps repository errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var verr *student.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, student.ErrDuplicateStudentID):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, student.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
	default:
		log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func csvName(title string, now time.Time) string {
	return strings.TrimSuffix(report.FileName(title, now), ".pdf") + ".csv"
}
