// internal/models/application.go
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EmploymentStatus is the classification produced by the employment-status step.
type EmploymentStatus string

const (
	Employed     EmploymentStatus = "employed"
	SelfEmployed EmploymentStatus = "self_employed"
	Student      EmploymentStatus = "student"
	Unemployed   EmploymentStatus = "unemployed"
)

// Disqualifying reports whether the status ends the application immediately.
func (e EmploymentStatus) Disqualifying() bool {
	return e == Student || e == Unemployed
}

// ApplicationRecord accumulates the answers of one loan-application attempt.
// The eligibility booleans are pointers so "not yet asked" is distinguishable
// from an explicit no.
type ApplicationRecord struct {
	ApplicationID string    `json:"applicationId" db:"application_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`

	// Eligibility
	IsMinimumAge         *bool    `json:"isMinimumAge,omitempty"`
	IsGuatemalanResident *bool    `json:"isGuatemalanResident,omitempty"`
	HasMinimumIncome     *bool    `json:"hasMinimumIncome,omitempty"`
	Age                  *int     `json:"age,omitempty"`
	MonthlyIncome        *float64 `json:"monthlyIncome,omitempty"`
	Qualified            *bool    `json:"qualified,omitempty"`

	// Identity
	FullName    string `json:"fullName,omitempty" db:"full_name"`
	DPI         string `json:"dpi,omitempty" db:"dpi"`
	DateOfBirth string `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Address     string `json:"address,omitempty" db:"address"`
	Phone       string `json:"phone,omitempty" db:"phone"`
	Email       string `json:"email,omitempty" db:"email"`

	// Employment
	EmploymentStatus EmploymentStatus `json:"employmentStatus,omitempty" db:"employment_status"`
	CompanyName      string           `json:"companyName,omitempty" db:"company_name"`
	BusinessType     string           `json:"businessType,omitempty" db:"business_type"`

	// Loan
	LoanAmount  float64 `json:"loanAmount,omitempty" db:"loan_amount"`
	LoanPurpose string  `json:"loanPurpose,omitempty" db:"loan_purpose"`

	// Consent
	ConsentGiven           *bool `json:"consentGiven,omitempty"`
	WantsEmailConfirmation *bool `json:"wantsEmailConfirmation,omitempty"`
}

// NewApplicationRecord creates a fresh record with a generated identifier.
func NewApplicationRecord(now time.Time) *ApplicationRecord {
	return &ApplicationRecord{
		ApplicationID: fmt.Sprintf("APP_%d_%s", now.Unix(), uuid.NewString()[:8]),
		CreatedAt:     now,
	}
}

// IsQualified derives the qualification outcome: all three eligibility checks
// answered and true. Never asked directly.
func (a *ApplicationRecord) IsQualified() bool {
	for _, q := range []*bool{a.IsMinimumAge, a.IsGuatemalanResident, a.HasMinimumIncome} {
		if q == nil || !*q {
			return false
		}
	}
	return true
}

// BoolPtr is a convenience for the tri-state fields.
func BoolPtr(v bool) *bool { return &v }

// IntPtr is a convenience for optional numeric captures.
func IntPtr(v int) *int { return &v }

// Float64Ptr is a convenience for optional numeric captures.
func Float64Ptr(v float64) *float64 { return &v }
