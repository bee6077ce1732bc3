package student

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Search keeps records whose name, email, student id or program contains term, ignoring case.
func Search(records []Record, term string) []Record {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}
	out := []Record{}
	for _, rec := range records {
		for _, field := range []string{rec.FirstName, rec.LastName, rec.Email, rec.StudentID, rec.Program} {
			if strings.Contains(strings.ToLower(field), term) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// Fee status filter values.
const (
	StatusAll    = "all"
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// Criteria narrows a record listing. Empty or "all" values match everything.
// From and To bound CreatedAt inclusively by calendar day.
type Criteria struct {
	Program  string    `json:"program,omitempty"`
	Semester string    `json:"semester,omitempty"`
	Status   string    `json:"status,omitempty"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
}

// Filter keeps the records matching c.
func Filter(records []Record, c Criteria) []Record {
	out := []Record{}
	for _, rec := range records {
		if !isAll(c.Program) && rec.Program != c.Program {
			continue
		}
		if !isAll(c.Semester) && rec.Semester != c.Semester {
			continue
		}
		switch c.Status {
		case StatusPaid:
			if !rec.FeePaid {
				continue
			}
		case StatusUnpaid:
			if rec.FeePaid {
				continue
			}
		}
		if !c.From.IsZero() && rec.CreatedAt.Before(startOfDay(c.From)) {
			continue
		}
		if !c.To.IsZero() && !rec.CreatedAt.Before(startOfDay(c.To).AddDate(0, 0, 1)) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func isAll(v string) bool { return v == "" || v == "all" }

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Stats summarises the collection for the dashboard.
type Stats struct {
	TotalStudents    int `json:"totalStudents"`
	NewRegistrations int `json:"newRegistrations"`
	ActiveCases      int `json:"activeCases"`
	EngagementRate   int `json:"engagementRate"`
}

// Dashboard counts registrations in the calendar month of now, unpaid records and the
// paid percentage rounded to a whole number.
func Dashboard(records []Record, now time.Time) Stats {
	s := Stats{TotalStudents: len(records)}
	paid := 0
	for _, rec := range records {
		created := rec.CreatedAt.In(now.Location())
		if created.Year() == now.Year() && created.Month() == now.Month() {
			s.NewRegistrations++
		}
		if rec.FeePaid {
			paid++
		} else {
			s.ActiveCases++
		}
	}
	if s.TotalStudents > 0 {
		s.EngagementRate = int(math.Round(float64(paid) / float64(s.TotalStudents) * 100))
	}
	return s
}

// Activity kinds.
const (
	ActivityAdded   = "student_added"
	ActivityUpdated = "student_updated"
	ActivityFeePaid = "fee_paid"
)

// Activity is one entry of the recent activity feed.
type Activity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	StudentName string    `json:"studentName"`
}

const activityWindow = 5

// RecentActivity derives a feed from the most recently updated records, newest first.
// A limit of zero or less returns three entries.
func RecentActivity(records []Record, limit int) []Activity {
	if limit <= 0 {
		limit = 3
	}
	sorted := append([]Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt) })
	if len(sorted) > activityWindow {
		sorted = sorted[:activityWindow]
	}

	out := make([]Activity, 0, len(sorted))
	for _, rec := range sorted {
		name := rec.FullName()
		switch {
		case rec.CreatedAt.Equal(rec.UpdatedAt):
			out = append(out, Activity{ID: rec.ID + "_created", Type: ActivityAdded, Message: "New student registered: " + name, Timestamp: rec.CreatedAt, StudentName: name})
		case rec.FeePaid && rec.PaymentDate != nil:
			out = append(out, Activity{ID: rec.ID + "_paid", Type: ActivityFeePaid, Message: "Fee payment confirmed: " + name, Timestamp: *rec.PaymentDate, StudentName: name})
		default:
			out = append(out, Activity{ID: rec.ID + "_updated", Type: ActivityUpdated, Message: "Student record updated: " + name, Timestamp: rec.UpdatedAt, StudentName: name})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
