package model

import "time"

// Assignment is the single source of truth for who works a job.  One row per
// (job, labourer) pair, enforced by a unique index; both the direct-assign
// path and the change-request path upsert this record instead of inserting
// duplicates.  The two flags are independent halves of a handshake: the job
// reaches CONFIRMED only when both are true.
type Assignment struct {
	ID                uint64    // assignments.id
	JobID             uint64    // assignments.job_id
	LabourID          uint64    // assignments.labour_id
	AcceptedByFarmer  bool      // assignments.accepted_by_farmer
	ConfirmedByLabour bool      // assignments.confirmed_by_labour
	AssignedAt        time.Time // assignments.assigned_at
}

// Settled reports whether both sides of the handshake have agreed.
func (a *Assignment) Settled() bool {
	return a.AcceptedByFarmer && a.ConfirmedByLabour
}
