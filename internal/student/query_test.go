package student

import (
	"testing"
	"time"
)

func sampleRecords() []Record {
	day := func(d int) time.Time { return time.Date(2024, 9, d, 10, 0, 0, 0, time.UTC) }
	paidAt := day(12)
	return []Record{
		{ID: "a", FirstName: "Ama", LastName: "Owusu", Email: "ama@x.com", StudentID: "20240099", Program: "business", Semester: "2024-1", FeeAmount: 500, CreatedAt: day(1), UpdatedAt: day(1)},
		{ID: "b", FirstName: "Kofi", LastName: "Mensah", Email: "kofi@example.edu", StudentID: "20240100", Program: "engineering", Semester: "2024-2", FeePaid: true, FeeAmount: 750, PaymentDate: &paidAt, CreatedAt: day(5), UpdatedAt: day(12)},
		{ID: "c", FirstName: "Esi", LastName: "Asante", Email: "esi@x.com", StudentID: "20240101", Program: "computer-science", Semester: "2024-1", FeeAmount: 250, CreatedAt: day(10), UpdatedAt: day(15)},
	}
}

func ids(records []Record) string {
	out := ""
	for _, r := range records {
		out += r.ID
	}
	return out
}

func TestSearch(t *testing.T) {
	records := sampleRecords()
	cases := map[string]string{
		"":         "abc",
		"  ":       "abc",
		"AMA":      "a",
		"mensah":   "b",
		"example":  "b",
		"2024010":  "bc",
		"computer": "c",
		"nobody":   "",
		"engineer": "b",
		"x.com":    "ac",
	}
	for term, want := range cases {
		if got := ids(Search(records, term)); got != want {
			t.Fatalf("Search(%q) = %q, want %q", term, got, want)
		}
	}
}

func TestFilter(t *testing.T) {
	records := sampleRecords()
	cases := []struct {
		name string
		c    Criteria
		want string
	}{
		{"no criteria", Criteria{}, "abc"},
		{"all values", Criteria{Program: "all", Semester: "all", Status: StatusAll}, "abc"},
		{"program", Criteria{Program: "business"}, "a"},
		{"semester", Criteria{Semester: "2024-1"}, "ac"},
		{"paid", Criteria{Status: StatusPaid}, "b"},
		{"unpaid", Criteria{Status: StatusUnpaid}, "ac"},
		{"from", Criteria{From: time.Date(2024, 9, 5, 0, 0, 0, 0, time.UTC)}, "bc"},
		{"to inclusive", Criteria{To: time.Date(2024, 9, 5, 0, 0, 0, 0, time.UTC)}, "ab"},
		{"range", Criteria{From: time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC), To: time.Date(2024, 9, 9, 0, 0, 0, 0, time.UTC)}, "b"},
		{"combined", Criteria{Semester: "2024-1", Status: StatusUnpaid, Program: "computer-science"}, "c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ids(Filter(records, tc.c)); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestDashboard(t *testing.T) {
	records := sampleRecords()
	records = append(records, Record{ID: "d", CreatedAt: time.Date(2024, 8, 30, 0, 0, 0, 0, time.UTC)})

	s := Dashboard(records, time.Date(2024, 9, 20, 0, 0, 0, 0, time.UTC))
	if s.TotalStudents != 4 || s.NewRegistrations != 3 || s.ActiveCases != 3 || s.EngagementRate != 25 {
		t.Fatalf("unexpected stats %+v", s)
	}

	empty := Dashboard(nil, time.Now())
	if empty != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", empty)
	}
}

func TestDashboardRoundsRate(t *testing.T) {
	records := []Record{{FeePaid: true}, {FeePaid: true}, {}}
	if s := Dashboard(records, time.Now()); s.EngagementRate != 67 {
		t.Fatalf("expected 67, got %d", s.EngagementRate)
	}
}

func TestRecentActivity(t *testing.T) {
	got := RecentActivity(sampleRecords(), 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	// c updated on the 15th, b paid on the 12th, a created on the 1st
	want := []struct{ id, kind string }{
		{"c_updated", ActivityUpdated},
		{"b_paid", ActivityFeePaid},
		{"a_created", ActivityAdded},
	}
	for i, w := range want {
		if got[i].ID != w.id || got[i].Type != w.kind {
			t.Fatalf("entry %d = %+v, want %s/%s", i, got[i], w.id, w.kind)
		}
	}
	if got[1].Message != "Fee payment confirmed: Kofi Mensah" {
		t.Fatalf("unexpected message %q", got[1].Message)
	}

	if one := RecentActivity(sampleRecords(), 1); len(one) != 1 || one[0].ID != "c_updated" {
		t.Fatalf("limit not applied: %+v", one)
	}
}

func TestRecentActivityLooksAtFiveNewest(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var records []Record
	for i := 0; i < 7; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		records = append(records, Record{ID: string(rune('a' + i)), CreatedAt: ts, UpdatedAt: ts})
	}
	got := RecentActivity(records, 10)
	if len(got) != 5 {
		t.Fatalf("expected window of 5, got %d", len(got))
	}
	if got[0].ID != "g_created" || got[4].ID != "c_created" {
		t.Fatalf("unexpected order: %+v", got)
	}
}
