package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/farm-labour-exchange/internal/model"
)

// ChangeRequestRepo manages proposed term changes and their pending /
// accepted / rejected lifecycle. Requests are created freely (a labourer may
// file several for the same job) and resolved exactly once.
type ChangeRequestRepo struct{ db *sql.DB }

func NewChangeRequestRepo(db *sql.DB) *ChangeRequestRepo { return &ChangeRequestRepo{db: db} }

// Create inserts a new PENDING request and returns its ID.
func (r *ChangeRequestRepo) Create(ctx context.Context, cr *model.ChangeRequest) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO change_requests (job_id, labour_id, requested_days, requested_wage, requested_stay, message, status)
		 VALUES (?,?,?,?,?,?,?)`,
		cr.JobID, cr.LabourID, cr.RequestedDays, cr.RequestedWage, cr.RequestedStay,
		cr.Message, model.ChangeStatusPending)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	cr.ID = uint64(id)
	cr.Status = model.ChangeStatusPending
	return cr.ID, nil
}

const changeColumns = "id, job_id, labour_id, requested_days, requested_wage, requested_stay, message, status, requested_at"

func scanChangeRequest(row interface{ Scan(...any) error }) (model.ChangeRequest, error) {
	var cr model.ChangeRequest
	var days sql.NullInt64
	var wage, stay sql.NullString
	err := row.Scan(&cr.ID, &cr.JobID, &cr.LabourID, &days, &wage, &stay,
		&cr.Message, &cr.Status, &cr.RequestedAt)
	if err != nil {
		return cr, err
	}
	if days.Valid {
		d := int(days.Int64)
		cr.RequestedDays = &d
	}
	if wage.Valid {
		w := wage.String
		cr.RequestedWage = &w
	}
	if stay.Valid {
		s := stay.String
		cr.RequestedStay = &s
	}
	return cr, nil
}

// GetForUpdateTx fetches a change request and locks its row so a decision
// cannot race another decision on the same request.
func (r *ChangeRequestRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.ChangeRequest, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+changeColumns+" FROM change_requests WHERE id=? LIMIT 1 FOR UPDATE", id)
	return scanChangeRequest(row)
}

// ResolveTx marks a pending request ACCEPTED or REJECTED inside an existing
// transaction. The WHERE clause re-checks PENDING so a request is never
// resolved twice even if two decisions slipped past the row lock.
func (r *ChangeRequestRepo) ResolveTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE change_requests SET status=? WHERE id=? AND status=?",
		status, id, model.ChangeStatusPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidState
	}
	return nil
}

// ListByJob returns all requests for a job, newest first. Shown on the job
// detail page so a labourer sees the negotiation history.
func (r *ChangeRequestRepo) ListByJob(ctx context.Context, jobID uint64) ([]model.ChangeRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+changeColumns+" FROM change_requests WHERE job_id=? ORDER BY requested_at DESC, id DESC",
		jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectChangeRequests(rows)
}

// ChangeRequestDetail pairs a request with the labourer who filed it, for
// the farmer's notification feed.
type ChangeRequestDetail struct {
	Request     model.ChangeRequest `json:"request"`
	LabourName  string              `json:"labour_name"`
	LabourPhone string              `json:"labour_phone"`
	JobTitle    string              `json:"job_title"`
}

// ListForFarmer returns requests across all of the farmer's jobs with
// labourer details, newest first. The user join is tolerant of dangling
// labour references.
func (r *ChangeRequestRepo) ListForFarmer(ctx context.Context, farmerID uint64) ([]ChangeRequestDetail, error) {
	const q = `SELECT cr.id, cr.job_id, cr.labour_id, cr.requested_days, cr.requested_wage, cr.requested_stay,
	                  cr.message, cr.status, cr.requested_at,
	                  COALESCE(u.name, ''), COALESCE(u.phone, ''), j.title
	           FROM change_requests cr
	           JOIN jobs j ON j.id = cr.job_id
	           LEFT JOIN users u ON u.id = cr.labour_id
	           WHERE j.farmer_id = ?
	           ORDER BY cr.requested_at DESC, cr.id DESC`
	rows, err := r.db.QueryContext(ctx, q, farmerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ChangeRequestDetail, 0)
	for rows.Next() {
		var d ChangeRequestDetail
		var days sql.NullInt64
		var wage, stay sql.NullString
		if err := rows.Scan(
			&d.Request.ID, &d.Request.JobID, &d.Request.LabourID, &days, &wage, &stay,
			&d.Request.Message, &d.Request.Status, &d.Request.RequestedAt,
			&d.LabourName, &d.LabourPhone, &d.JobTitle,
		); err != nil {
			return nil, err
		}
		if days.Valid {
			v := int(days.Int64)
			d.Request.RequestedDays = &v
		}
		if wage.Valid {
			v := wage.String
			d.Request.RequestedWage = &v
		}
		if stay.Valid {
			v := stay.String
			d.Request.RequestedStay = &v
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

func collectChangeRequests(rows *sql.Rows) ([]model.ChangeRequest, error) {
	out := make([]model.ChangeRequest, 0)
	for rows.Next() {
		cr, err := scanChangeRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
