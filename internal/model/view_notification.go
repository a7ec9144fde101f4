package model

import "time"

// ViewNotification records that a labourer has opened a job's detail page.
// At most one row exists per (job, labourer) pair; repeat views are no-ops
// enforced by a unique index.  Seen is written false at creation and never
// updated; it is kept to preserve the stored shape of the original data.
type ViewNotification struct {
	ID       uint64    // view_notifications.id
	JobID    uint64    // view_notifications.job_id
	LabourID uint64    // view_notifications.labour_id
	Seen     bool      // view_notifications.seen
	ViewedAt time.Time // view_notifications.viewed_at
}
