package student

import "time"

// Programs offered for registration.
var Programs = []string{"computer-science", "business", "engineering", "psychology", "mathematics", "english"}

// Semesters accepted on records and as report filters.
var Semesters = []string{"2024-1", "2024-2", "2025-1", "2025-2"}

// Currencies a fee may be recorded in. Amounts are always displayed as GHC.
var Currencies = []string{"USD", "GBP", "GHC"}

// DefaultCurrency is applied when a form leaves currency empty.
const DefaultCurrency = "GHC"

// Record is one stored student profile.
type Record struct {
	ID               string     `json:"id" yaml:"id"`
	FirstName        string     `json:"firstName" yaml:"firstName"`
	LastName         string     `json:"lastName" yaml:"lastName"`
	Email            string     `json:"email" yaml:"email"`
	Phone            string     `json:"phone" yaml:"phone"`
	StudentID        string     `json:"studentId" yaml:"studentId"`
	Program          string     `json:"program" yaml:"program"`
	Year             string     `json:"year" yaml:"year"`
	Address          string     `json:"address" yaml:"address"`
	EmergencyContact string     `json:"emergencyContact" yaml:"emergencyContact"`
	Notes            string     `json:"notes" yaml:"notes"`
	FeePaid          bool       `json:"feePaid" yaml:"feePaid"`
	FeeAmount        float64    `json:"feeAmount" yaml:"feeAmount"`
	Currency         string     `json:"currency" yaml:"currency"`
	PaymentDate      *time.Time `json:"paymentDate,omitempty" yaml:"paymentDate,omitempty"`
	Semester         string     `json:"semester" yaml:"semester"`
	CreatedAt        time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt" yaml:"updatedAt"`
}

// FullName joins first and last name.
func (r Record) FullName() string {
	return r.FirstName + " " + r.LastName
}

// Form is the payload submitted to register or edit a student.
type Form struct {
	FirstName        string  `json:"firstName" yaml:"firstName" validate:"notblank,alphaspace"`
	LastName         string  `json:"lastName" yaml:"lastName" validate:"notblank,alphaspace"`
	Email            string  `json:"email" yaml:"email" validate:"notblank,emailshape"`
	Phone            string  `json:"phone" yaml:"phone" validate:"omitempty,phonechars"`
	StudentID        string  `json:"studentId" yaml:"studentId" validate:"notblank,digits"`
	Program          string  `json:"program" yaml:"program" validate:"required,oneof=computer-science business engineering psychology mathematics english"`
	Year             string  `json:"year" yaml:"year" validate:"required,oneof=1 2 3 4"`
	Address          string  `json:"address" yaml:"address"`
	EmergencyContact string  `json:"emergencyContact" yaml:"emergencyContact"`
	Notes            string  `json:"notes" yaml:"notes"`
	FeePaid          bool    `json:"feePaid" yaml:"feePaid"`
	FeeAmount        float64 `json:"feeAmount" yaml:"feeAmount" validate:"gte=0"`
	Currency         string  `json:"currency" yaml:"currency" validate:"omitempty,oneof=USD GBP GHC"`
	Semester         string  `json:"semester" yaml:"semester" validate:"required,oneof=2024-1 2024-2 2025-1 2025-2"`
}

// apply copies every form field onto r.
func (f Form) apply(r *Record) {
	r.FirstName = f.FirstName
	r.LastName = f.LastName
	r.Email = f.Email
	r.Phone = f.Phone
	r.StudentID = f.StudentID
	r.Program = f.Program
	r.Year = f.Year
	r.Address = f.Address
	r.EmergencyContact = f.EmergencyContact
	r.Notes = f.Notes
	r.FeePaid = f.FeePaid
	r.FeeAmount = f.FeeAmount
	r.Currency = f.Currency
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	}
	r.Semester = f.Semester
}

// FormOf returns the editable fields of r, e.g. to prefill an edit.
func FormOf(r Record) Form {
	return Form{
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		Phone:            r.Phone,
		StudentID:        r.StudentID,
		Program:          r.Program,
		Year:             r.Year,
		Address:          r.Address,
		EmergencyContact: r.EmergencyContact,
		Notes:            r.Notes,
		FeePaid:          r.FeePaid,
		FeeAmount:        r.FeeAmount,
		Currency:         r.Currency,
		Semester:         r.Semester,
	}
}

// PaymentReport partitions records by fee status.
type PaymentReport struct {
	Paid        []Record `json:"paid"`
	Unpaid      []Record `json:"unpaid"`
	TotalAmount float64  `json:"totalAmount"`
	PaidAmount  float64  `json:"paidAmount"`
}
