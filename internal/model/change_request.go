package model

import "time"

// Change request status values.  PENDING requests are resolved exactly once
// by the job's farmer; ACCEPTED and REJECTED are terminal.
const (
	ChangeStatusPending  = "PENDING"
	ChangeStatusAccepted = "ACCEPTED"
	ChangeStatusRejected = "REJECTED"
)

// ChangeRequest mirrors the `change_requests` table.  A labourer proposes
// new terms for a job; each override is optional and only replaces the job
// field when present.  A labourer may file any number of requests for the
// same job — duplicates are allowed by design.
type ChangeRequest struct {
	ID            uint64    // change_requests.id
	JobID         uint64    // change_requests.job_id
	LabourID      uint64    // change_requests.labour_id
	RequestedDays *int      // change_requests.requested_days (nullable)
	RequestedWage *string   // change_requests.requested_wage (nullable)
	RequestedStay *string   // change_requests.requested_stay (nullable)
	Message       string    // change_requests.message
	Status        string    // change_requests.status
	RequestedAt   time.Time // change_requests.requested_at
}

// Resolved reports whether the request has reached a terminal status.
func (cr *ChangeRequest) Resolved() bool {
	return cr.Status != ChangeStatusPending
}

// ApplyOverrides merges the present override fields onto the job.  Absent
// overrides leave the corresponding job field untouched; a requested day
// count below 1 is coerced like any other day value.  The job's status is
// not touched here — the caller sets it inside the acceptance transaction.
func (cr *ChangeRequest) ApplyOverrides(j *Job) {
	if cr.RequestedDays != nil {
		j.Days = NormalizeDays(*cr.RequestedDays)
	}
	if cr.RequestedWage != nil {
		j.Wage = *cr.RequestedWage
	}
	if cr.RequestedStay != nil {
		j.StayInfo = *cr.RequestedStay
	}
}
