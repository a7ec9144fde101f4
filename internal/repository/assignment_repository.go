package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/farm-labour-exchange/internal/model"
)

// AssignmentRepo is the ledger of who works which job. The unique
// (job_id, labour_id) index plus ON DUPLICATE KEY UPDATE turn the original
// find-or-create into a single atomic upsert, so two racing acceptances for
// the same pair converge on one row.
type AssignmentRepo struct{ db *sql.DB }

func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

// UpsertFarmerAcceptTx records farmer acceptance for a (job, labourer) pair
// inside an existing transaction: inserts a fresh assignment with
// accepted_by_farmer set, or flips the flag on the existing row. A prior
// labour confirmation is preserved either way.
func (r *AssignmentRepo) UpsertFarmerAcceptTx(ctx context.Context, tx *sql.Tx, jobID, labourID uint64) (model.Assignment, error) {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO assignments (job_id, labour_id, accepted_by_farmer)
		 VALUES (?,?,TRUE)
		 ON DUPLICATE KEY UPDATE accepted_by_farmer = TRUE`,
		jobID, labourID)
	if err != nil {
		return model.Assignment{}, err
	}
	// LastInsertId is unreliable across the upsert's two paths; read the row back.
	return r.getByPairTx(ctx, tx, jobID, labourID)
}

const assignmentColumns = "id, job_id, labour_id, accepted_by_farmer, confirmed_by_labour, assigned_at"

func scanAssignment(row interface{ Scan(...any) error }) (model.Assignment, error) {
	var a model.Assignment
	err := row.Scan(&a.ID, &a.JobID, &a.LabourID,
		&a.AcceptedByFarmer, &a.ConfirmedByLabour, &a.AssignedAt)
	return a, err
}

func (r *AssignmentRepo) getByPairTx(ctx context.Context, tx *sql.Tx, jobID, labourID uint64) (model.Assignment, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+assignmentColumns+" FROM assignments WHERE job_id=? AND labour_id=? LIMIT 1",
		jobID, labourID)
	return scanAssignment(row)
}

// GetByID fetches a single assignment.
func (r *AssignmentRepo) GetByID(ctx context.Context, id uint64) (model.Assignment, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+assignmentColumns+" FROM assignments WHERE id=? LIMIT 1", id)
	return scanAssignment(row)
}

// GetForUpdateTx fetches an assignment and locks its row for the
// transaction, so confirmation does not race another writer.
func (r *AssignmentRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Assignment, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+assignmentColumns+" FROM assignments WHERE id=? LIMIT 1 FOR UPDATE", id)
	return scanAssignment(row)
}

// ConfirmTx sets confirmed_by_labour on an assignment inside an existing
// transaction.
func (r *AssignmentRepo) ConfirmTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE assignments SET confirmed_by_labour = TRUE WHERE id=?", id)
	return err
}

// ListByLabour returns the labourer's assignments, newest first.
func (r *AssignmentRepo) ListByLabour(ctx context.Context, labourID uint64) ([]model.Assignment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+assignmentColumns+" FROM assignments WHERE labour_id=? ORDER BY assigned_at DESC, id DESC",
		labourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssignments(rows)
}

// ListForFarmer returns assignments across all of the farmer's jobs, newest
// first.
func (r *AssignmentRepo) ListForFarmer(ctx context.Context, farmerID uint64) ([]model.Assignment, error) {
	const q = `SELECT a.id, a.job_id, a.labour_id, a.accepted_by_farmer, a.confirmed_by_labour, a.assigned_at
	           FROM assignments a
	           JOIN jobs j ON j.id = a.job_id
	           WHERE j.farmer_id = ?
	           ORDER BY a.assigned_at DESC, a.id DESC`
	rows, err := r.db.QueryContext(ctx, q, farmerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssignments(rows)
}

func collectAssignments(rows *sql.Rows) ([]model.Assignment, error) {
	out := make([]model.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
