package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/farm-labour-exchange/internal/model"
)

// ViewRepo records which labourers have looked at which jobs. The
// (job_id, labour_id) pair is unique, so a labourer produces exactly one
// view row per job no matter how many times they open it.
type ViewRepo struct{ db *sql.DB }

func NewViewRepo(db *sql.DB) *ViewRepo { return &ViewRepo{db: db} }

// RecordView inserts a view notification for the pair unless one already
// exists. INSERT IGNORE against the unique index makes the first-view-only
// rule atomic; there is no check-then-act window. The repeat-view no-op is
// intentional and not reported as an error.
func (r *ViewRepo) RecordView(ctx context.Context, jobID, labourID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT IGNORE INTO view_notifications (job_id, labour_id) VALUES (?,?)",
		jobID, labourID)
	return err
}

// ViewDetail joins a view notification with the viewing labourer and the
// viewed job for display on the farmer's notification feed. Labour fields
// may be empty when the referenced user no longer resolves; the join is
// tolerant so a dangling reference never breaks the feed.
type ViewDetail struct {
	View        model.ViewNotification `json:"view"`
	LabourName  string                 `json:"labour_name"`
	LabourPhone string                 `json:"labour_phone"`
	JobID       uint64                 `json:"job_id"`
	JobTitle    string                 `json:"job_title"`
}

// ListForFarmer returns view details across all of the farmer's jobs,
// newest view first.
func (r *ViewRepo) ListForFarmer(ctx context.Context, farmerID uint64) ([]ViewDetail, error) {
	const q = `SELECT v.id, v.job_id, v.labour_id, v.seen, v.viewed_at,
	                  COALESCE(u.name, ''), COALESCE(u.phone, ''),
	                  j.id, j.title
	           FROM view_notifications v
	           JOIN jobs j ON j.id = v.job_id
	           LEFT JOIN users u ON u.id = v.labour_id
	           WHERE j.farmer_id = ?
	           ORDER BY v.viewed_at DESC, v.id DESC`
	rows, err := r.db.QueryContext(ctx, q, farmerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ViewDetail, 0)
	for rows.Next() {
		var d ViewDetail
		if err := rows.Scan(
			&d.View.ID, &d.View.JobID, &d.View.LabourID, &d.View.Seen, &d.View.ViewedAt,
			&d.LabourName, &d.LabourPhone,
			&d.JobID, &d.JobTitle,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
