package report

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"studentrecords/internal/student"
)

// Default document titles.
const (
	StudentsTitle = "All Students Report"
	PaymentsTitle = "Payment Report"
)

const dateLayout = "Jan 2, 2006"

type column struct {
	header string
	width  float64
}

type rgb struct{ r, g, b int }

var (
	blue  = rgb{59, 130, 246}
	green = rgb{34, 197, 94}
	red   = rgb{239, 68, 68}
)

var spaces = regexp.MustCompile(`\s+`)

// FileName builds the download name for a report, e.g. "payment-report-2025-03-01.pdf".
func FileName(title string, now time.Time) string {
	slug := spaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	return slug + "-" + now.Format("2006-01-02") + ".pdf"
}

// Money renders an amount with the cedi code used in printed reports.
func Money(v float64) string {
	return "GHS " + strconv.FormatFloat(v, 'f', -1, 64)
}

// StudentsPDF writes a single table listing every record.
func StudentsPDF(w io.Writer, records []student.Record, title string, now time.Time) error {
	return studentsDocument(records, title, now).output(w)
}

func studentsDocument(records []student.Record, title string, now time.Time) *document {
	if title == "" {
		title = StudentsTitle
	}
	doc := newDocument(title, now)
	cols := []column{
		{"Name", 25}, {"Student ID", 20}, {"Email", 30}, {"Program", 20}, {"Year", 15},
		{"Semester", 20}, {"Fee Amount", 20}, {"Status", 15}, {"Payment Date", 25},
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		status := "Unpaid"
		if rec.FeePaid {
			status = "Paid"
		}
		rows = append(rows, []string{
			rec.FullName(), rec.StudentID, rec.Email, rec.Program, rec.Year,
			rec.Semester, Money(rec.FeeAmount), status, paymentDate(rec),
		})
	}
	doc.table(60, cols, rows, blue, 8)
	return doc
}

// PaymentPDF writes the summary block, the paid table and, on a new page,
// the outstanding table. Empty sections are left out.
func PaymentPDF(w io.Writer, rep student.PaymentReport, title string, now time.Time) error {
	return paymentDocument(rep, title, now).output(w)
}

func paymentDocument(rep student.PaymentReport, title string, now time.Time) *document {
	if title == "" {
		title = PaymentsTitle
	}
	doc := newDocument(title, now)
	pdf := doc.pdf

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(20, 65, "Payment Summary")
	pdf.SetFont("Helvetica", "", 12)
	summary := []string{
		fmt.Sprintf("Total Students: %d", len(rep.Paid)+len(rep.Unpaid)),
		fmt.Sprintf("Fees Paid: %d", len(rep.Paid)),
		fmt.Sprintf("Outstanding Fees: %d", len(rep.Unpaid)),
		"Total Revenue: " + Money(rep.PaidAmount),
		"Expected Revenue: " + Money(rep.TotalAmount),
	}
	for i, line := range summary {
		pdf.Text(20, 80+float64(i)*10, line)
	}

	if len(rep.Paid) > 0 {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Text(20, 140, "Students with Paid Fees")
		rows := make([][]string, 0, len(rep.Paid))
		for _, rec := range rep.Paid {
			rows = append(rows, []string{rec.FullName(), rec.StudentID, Money(rec.FeeAmount), paymentDate(rec)})
		}
		cols := []column{{"Name", 60}, {"Student ID", 40}, {"Fee Amount", 40}, {"Payment Date", 50}}
		doc.table(150, cols, rows, green, 10)
	}

	if len(rep.Unpaid) > 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Text(20, 30, "Students with Outstanding Fees")
		rows := make([][]string, 0, len(rep.Unpaid))
		for _, rec := range rep.Unpaid {
			rows = append(rows, []string{rec.FullName(), rec.StudentID, Money(rec.FeeAmount), "Outstanding"})
		}
		cols := []column{{"Name", 60}, {"Student ID", 40}, {"Fee Amount", 40}, {"Status", 50}}
		doc.table(40, cols, rows, red, 10)
	}
	return doc
}

func paymentDate(rec student.Record) string {
	if rec.PaymentDate == nil {
		return "N/A"
	}
	return rec.PaymentDate.Format(dateLayout)
}

type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDocument(title string, now time.Time) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreationDate(now)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(20, 30, d.tr(title))
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(20, 45, "Generated on: "+now.Format(dateLayout))
	return d
}

// table draws a header row in fill and one row per entry below it,
// repeating the header after automatic page breaks.
func (d *document) table(top float64, cols []column, rows [][]string, fill rgb, size float64) {
	pdf := d.pdf
	lineHeight := size * 0.7
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()

	header := func() {
		pdf.SetFont("Helvetica", "B", size)
		pdf.SetFillColor(fill.r, fill.g, fill.b)
		pdf.SetTextColor(255, 255, 255)
		for _, c := range cols {
			pdf.CellFormat(c.width, lineHeight, c.header, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", size)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetY(top)
	header()
	for _, row := range rows {
		if pdf.GetY()+lineHeight > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		for i, c := range cols {
			pdf.CellFormat(c.width, lineHeight, d.fit(row[i], c.width), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// fit truncates s so it stays inside a cell of width w.
func (d *document) fit(s string, w float64) string {
	s = d.tr(s)
	limit := w - 2*d.pdf.GetCellMargin()
	if d.pdf.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && d.pdf.GetStringWidth(s+"...") > limit {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func (d *document) output(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
