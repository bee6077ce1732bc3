package student

import (
	"strings"
	"testing"
)

func TestValidateAcceptsCompleteForm(t *testing.T) {
	if errs := Validate(amaForm()); errs != nil {
		t.Fatalf("expected valid form, got %v", errs)
	}
	if errs := Validate(kofiForm()); errs != nil {
		t.Fatalf("expected valid form, got %v", errs)
	}
}

func TestValidateFirstName(t *testing.T) {
	f := amaForm()
	f.FirstName = "John3"
	errs := Validate(f)
	if errs["firstName"] != "Name should only contain alphabets and spaces" {
		t.Fatalf("expected name error, got %v", errs)
	}

	f.FirstName = "John"
	if errs := Validate(f); errs != nil {
		t.Fatalf("expected John to be accepted, got %v", errs)
	}
}

func TestValidateRules(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*Form)
		field string
		want  string
	}{
		{"blank first name", func(f *Form) { f.FirstName = "   " }, "firstName", "This field is required"},
		{"empty last name", func(f *Form) { f.LastName = "" }, "lastName", "This field is required"},
		{"missing email", func(f *Form) { f.Email = "" }, "email", "Email is required"},
		{"bad email", func(f *Form) { f.Email = "ama@x" }, "email", "Please enter a valid email address"},
		{"email with space", func(f *Form) { f.Email = "a ma@x.com" }, "email", "Please enter a valid email address"},
		{"bad phone", func(f *Form) { f.Phone = "024-abc" }, "phone", "Phone number should only contain numbers, spaces, +, -, (, )"},
		{"missing student id", func(f *Form) { f.StudentID = "" }, "studentId", "Student ID is required"},
		{"alpha student id", func(f *Form) { f.StudentID = "2024A" }, "studentId", "Student ID should only contain numbers (0-9)"},
		{"missing program", func(f *Form) { f.Program = "" }, "program", "Program is required"},
		{"unknown program", func(f *Form) { f.Program = "law" }, "program", "Program is not recognised"},
		{"missing year", func(f *Form) { f.Year = "" }, "year", "Academic year is required"},
		{"year out of range", func(f *Form) { f.Year = "5" }, "year", "Academic year must be between 1 and 4"},
		{"missing semester", func(f *Form) { f.Semester = "" }, "semester", "Semester is required"},
		{"negative fee", func(f *Form) { f.FeeAmount = -1 }, "feeAmount", "Fee amount cannot be negative"},
		{"unknown currency", func(f *Form) { f.Currency = "EUR" }, "currency", "Currency must be one of USD, GBP, GHC"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := amaForm()
			tc.edit(&f)
			errs := Validate(f)
			if got := errs[tc.field]; got != tc.want {
				t.Fatalf("field %s: got %q want %q (all: %v)", tc.field, got, tc.want, errs)
			}
			if len(errs) != 1 {
				t.Fatalf("expected only %s to fail, got %v", tc.field, errs)
			}
		})
	}
}

func TestValidateOptionalFields(t *testing.T) {
	f := amaForm()
	f.Phone = ""
	f.Address = ""
	f.Notes = ""
	f.FeeAmount = 0
	if errs := Validate(f); errs != nil {
		t.Fatalf("optional fields should be allowed empty, got %v", errs)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: FieldErrors{"year": "b", "email": "a"}}
	msg := err.Error()
	if !strings.HasPrefix(msg, "validation failed: email: a; year: b") {
		t.Fatalf("unexpected message %q", msg)
	}
}
