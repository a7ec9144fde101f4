package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/farm-labour-exchange/internal/model"
)

// JobRepo owns the 'jobs' table and the job status field. Status never
// changes outside ApplyStatusTx, which validates the transition against the
// modeled lifecycle while the row is locked.
type JobRepo struct{ db *sql.DB }

func NewJobRepo(db *sql.DB) *JobRepo { return &JobRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span several repositories.
func (r *JobRepo) DB() *sql.DB { return r.db }

// Create inserts a job with status OPEN and returns its ID. Days is coerced
// to at least 1 before insertion.
func (r *JobRepo) Create(ctx context.Context, j *model.Job) (uint64, error) {
	j.Days = model.NormalizeDays(j.Days)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (farmer_id, title, work_type, days, stay_info, wage, location, contact, status)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		j.FarmerID, j.Title, j.WorkType, j.Days, j.StayInfo, j.Wage, j.Location, j.Contact, model.JobStatusOpen)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	j.ID = uint64(id)
	j.Status = model.JobStatusOpen
	return j.ID, nil
}

const jobColumns = "id, farmer_id, title, work_type, days, stay_info, wage, location, contact, status, date_posted"

func scanJob(row interface{ Scan(...any) error }) (model.Job, error) {
	var j model.Job
	err := row.Scan(&j.ID, &j.FarmerID, &j.Title, &j.WorkType, &j.Days,
		&j.StayInfo, &j.Wage, &j.Location, &j.Contact, &j.Status, &j.DatePosted)
	return j, err
}

// GetByID fetches a single job.
func (r *JobRepo) GetByID(ctx context.Context, id uint64) (model.Job, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE id=? LIMIT 1", id)
	return scanJob(row)
}

// GetForUpdateTx fetches a job and locks its row for the duration of the
// transaction. Every multi-step mutation on a job starts here so that
// racing requests serialize on the row.
func (r *JobRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Job, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE id=? LIMIT 1 FOR UPDATE", id)
	return scanJob(row)
}

// ListOpen returns all jobs a labourer may browse — everything not CLOSED —
// newest first. Assigned and confirmed jobs stay visible, as they did in
// the original listing.
func (r *JobRepo) ListOpen(ctx context.Context) ([]model.Job, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE status <> ? ORDER BY date_posted DESC, id DESC",
		model.JobStatusClosed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectJobs(rows)
}

// ListByFarmer returns all jobs posted by the farmer, any status, newest first.
func (r *JobRepo) ListByFarmer(ctx context.Context, farmerID uint64) ([]model.Job, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE farmer_id=? ORDER BY date_posted DESC, id DESC",
		farmerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectJobs(rows)
}

func collectJobs(rows *sql.Rows) ([]model.Job, error) {
	jobs := make([]model.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ApplyStatusTx moves a job to a new status inside an existing transaction.
// The caller must hold the row lock (GetForUpdateTx) and pass the status it
// observed; the transition is validated against the lifecycle rule and
// ErrInvalidState is returned when the move is not allowed.
func (r *JobRepo) ApplyStatusTx(ctx context.Context, tx *sql.Tx, jobID uint64, from, to string) error {
	if !model.CanTransition(from, to) {
		return ErrInvalidState
	}
	_, err := tx.ExecContext(ctx,
		"UPDATE jobs SET status=? WHERE id=?", to, jobID)
	return err
}

// UpdateTermsTx rewrites the negotiable fields (days, wage, stay) inside a
// transaction. Used when an accepted change request overrides job terms.
func (r *JobRepo) UpdateTermsTx(ctx context.Context, tx *sql.Tx, j *model.Job) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE jobs SET days=?, wage=?, stay_info=? WHERE id=?",
		j.Days, j.Wage, j.StayInfo, j.ID)
	return err
}
