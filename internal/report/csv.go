package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"studentrecords/internal/student"
)

// StudentsCSV renders records into a CSV with one row per student.
func StudentsCSV(records []student.Record) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{
		"id", "first_name", "last_name", "email", "phone", "student_id", "program", "year",
		"semester", "fee_amount", "currency", "fee_paid", "payment_date", "created_at", "updated_at",
	})
	for _, r := range records {
		paidAt := ""
		if r.PaymentDate != nil {
			paidAt = r.PaymentDate.UTC().Format(time.RFC3339)
		}
		rec := []string{
			r.ID,
			r.FirstName,
			r.LastName,
			r.Email,
			r.Phone,
			r.StudentID,
			r.Program,
			r.Year,
			r.Semester,
			strconv.FormatFloat(r.FeeAmount, 'f', -1, 64),
			r.Currency,
			strconv.FormatBool(r.FeePaid),
			paidAt,
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
