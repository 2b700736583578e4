package model

// ResolvedLink pairs a hired applicant with an employment record whose
// name matches and whose start date is on or after the application
// date. It is a relation, not a function: one applicant may appear in
// zero or many links (name collisions, re-hires), and ambiguity is kept
// countable rather than collapsed to a first match.
type ResolvedLink struct {
	ApplicantID int64  `json:"applicant_id"`
	EmployeeID  int64  `json:"employee_id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Department  string `json:"department"`
	DaysToHire  int    `json:"days_to_hire"`
}
