package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// ApplicationStatus is the stage an application has reached.
type ApplicationStatus string

const (
	StatusPending       ApplicationStatus = "Pending"
	StatusPhoneScreen   ApplicationStatus = "Phone Screen"
	StatusInterviewing  ApplicationStatus = "Interviewing"
	StatusOfferExtended ApplicationStatus = "Offer Extended"
	StatusHired         ApplicationStatus = "Hired"
	StatusRejected      ApplicationStatus = "Rejected"
	StatusWithdrawn     ApplicationStatus = "Withdrawn"
)

// AllStatuses lists every application status in funnel order.
var AllStatuses = []ApplicationStatus{
	StatusPending,
	StatusPhoneScreen,
	StatusInterviewing,
	StatusOfferExtended,
	StatusHired,
	StatusRejected,
	StatusWithdrawn,
}

// Valid reports whether s is one of the enumerated statuses.
func (s ApplicationStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether the application has left the pipeline.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusHired || s == StatusRejected || s == StatusWithdrawn
}

// Applicant is a hiring application record. Name is free text and not
// unique; Department is usually empty at ingestion time.
type Applicant struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Role       string            `json:"role"`
	AppliedAt  time.Time         `json:"applied_at"`
	Status     ApplicationStatus `json:"status"`
	Department string            `json:"department,omitempty"`
}

// Validate checks the applicant invariants: a known status and a
// non-zero application date.
func (a Applicant) Validate() error {
	if a.Name == "" {
		return eris.New("applicant: name is required")
	}
	if !a.Status.Valid() {
		return eris.Errorf("applicant: unknown status %q", string(a.Status))
	}
	if a.AppliedAt.IsZero() {
		return eris.New("applicant: application date is required")
	}
	return nil
}
