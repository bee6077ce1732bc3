package api

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"studentrecords/internal/report"
)

const pdfType = "application/pdf"

// ---------- Exports ----------

func (h *Handler) ExportStudentsPDF(c *gin.Context) {
	records, ok := h.filtered(c)
	if !ok {
		return
	}
	now := h.now()
	var buf bytes.Buffer
	if err := report.StudentsPDF(&buf, records, report.StudentsTitle, now); err != nil {
		log.Printf("students pdf failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render report"})
		return
	}
	attachment(c, report.FileName(report.StudentsTitle, now), pdfType, buf.Bytes())
}

func (h *Handler) ExportStudentsCSV(c *gin.Context) {
	records, ok := h.filtered(c)
	if !ok {
		return
	}
	data, err := report.StudentsCSV(records)
	if err != nil {
		log.Printf("students csv failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render export"})
		return
	}
	attachment(c, csvName("students", h.now()), "text/csv; charset=utf-8", data)
}

func (h *Handler) ExportPaymentsPDF(c *gin.Context) {
	semester, ok := semesterParam(c)
	if !ok {
		return
	}
	rep, err := h.store.PaymentReport(c.Request.Context(), semester)
	if err != nil {
		writeError(c, err)
		return
	}
	now := h.now()
	var buf bytes.Buffer
	if err := report.PaymentPDF(&buf, rep, report.PaymentsTitle, now); err != nil {
		log.Printf("payment pdf failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render report"})
		return
	}
	attachment(c, report.FileName(report.PaymentsTitle, now), pdfType, buf.Bytes())
}

func attachment(c *gin.Context, name, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// ---------- Report jobs ----------

type reportRequest struct {
	Kind     string `json:"kind" binding:"required,oneof=students payments"`
	Title    string `json:"title"`
	Semester string `json:"semester"`
	Query    string `json:"q"`
	Program  string `json:"program"`
	Status   string `json:"status"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// CreateReport queues a PDF for the worker and returns its job id.
func (h *Handler) CreateReport(c *gin.Context) {
	if h.jobs == nil || h.reports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report jobs not configured"})
		return
	}
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job, err := report.NewJob(report.Kind(req.Kind), h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title != "" {
		job.Title = req.Title
	}
	fields := map[string]string{
		"program": req.Program, "semester": req.Semester, "status": req.Status, "from": req.From, "to": req.To,
	}
	crit, err := criteriaFromQuery(func(k string) string { return fields[k] })
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job.Query = req.Query
	job.Semester = req.Semester
	job.Criteria = crit
	job.RequestedBy = claimsOf(c).Subject

	if err := report.Enqueue(c.Request.Context(), h.jobs, h.reports, job); err != nil {
		log.Printf("report enqueue failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not queue report"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job_id": job.ID, "status": report.StatusQueued})
}

// GetReport downloads a finished report or describes a pending or failed one.
func (h *Handler) GetReport(c *gin.Context) {
	if h.reports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report jobs not configured"})
		return
	}
	res, err := h.reports.Result(c.Param("id"))
	if errors.Is(err, report.ErrInvalidJobID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Printf("report status read failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read report status"})
		return
	}
	if res == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	switch res.Status {
	case report.StatusDone:
		data, err := os.ReadFile(h.reports.DocumentPath(res.JobID))
		if err != nil {
			log.Printf("report %s missing document: %v", res.JobID, err)
			c.JSON(http.StatusNotFound, gin.H{"error": "report file missing"})
			return
		}
		if res.URL != "" {
			c.Header("Link", "<"+res.URL+`>; rel="alternate"`)
		}
		attachment(c, res.FileName, pdfType, data)
	case report.StatusFailed:
		c.JSON(http.StatusInternalServerError, res)
	default:
		c.JSON(http.StatusAccepted, res)
	}
}
