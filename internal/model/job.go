package model

import "time"

// Job status values.  The lifecycle only moves forward: an open job becomes
// assigned once a labourer is accepted (directly or through a change
// request), confirmed once both parties agree, and closed terminally.  There
// is no transition back to OPEN.
const (
	JobStatusOpen      = "OPEN"
	JobStatusAssigned  = "ASSIGNED"
	JobStatusConfirmed = "CONFIRMED"
	JobStatusClosed    = "CLOSED"
)

// Job mirrors the `jobs` table.  Days is always at least 1; non-positive
// input is coerced at creation time.  Wage stays a free-form string
// ("500/day", "by negotiation") because listings quote it in many shapes.
type Job struct {
	ID         uint64    // jobs.id
	FarmerID   uint64    // jobs.farmer_id (role FARMER)
	Title      string    // jobs.title
	WorkType   string    // jobs.work_type
	Days       int       // jobs.days
	StayInfo   string    // jobs.stay_info
	Wage       string    // jobs.wage
	Location   string    // jobs.location
	Contact    string    // jobs.contact
	Status     string    // jobs.status
	DatePosted time.Time // jobs.date_posted
}

// ValidJobStatus reports whether s is one of the four modeled statuses.
func ValidJobStatus(s string) bool {
	switch s {
	case JobStatusOpen, JobStatusAssigned, JobStatusConfirmed, JobStatusClosed:
		return true
	}
	return false
}

// CanTransition reports whether a job may move from one status to another.
// ASSIGNED→ASSIGNED is allowed: accepting a second labourer re-applies the
// same status.  Nothing leaves CLOSED, and CONFIRMED can only be closed.
func CanTransition(from, to string) bool {
	if !ValidJobStatus(from) || !ValidJobStatus(to) {
		return false
	}
	switch from {
	case JobStatusOpen:
		return to == JobStatusAssigned || to == JobStatusClosed
	case JobStatusAssigned:
		return to == JobStatusAssigned || to == JobStatusConfirmed || to == JobStatusClosed
	case JobStatusConfirmed:
		return to == JobStatusClosed
	}
	return false
}

// NormalizeDays coerces the posted day count to the minimum of 1.  The
// original listing form allowed empty or zero values; those mean "one day".
func NormalizeDays(days int) int {
	if days < 1 {
		return 1
	}
	return days
}
