package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-labour-exchange/internal/model"
	"github.com/iliyamo/farm-labour-exchange/internal/repository"
)

// FarmerHandler groups the repositories a farmer needs to post jobs, review
// labour activity and resolve change requests. JWT authentication and the
// FARMER role check have already run in middleware; every mutation that
// touches more than one row executes inside a transaction that locks the
// governing job row first, so two requests racing on the same job serialize
// there.
type FarmerHandler struct {
	Jobs        *repository.JobRepo
	Views       *repository.ViewRepo
	Changes     *repository.ChangeRequestRepo
	Assignments *repository.AssignmentRepo
	Users       *repository.UserRepo
}

// NewFarmerHandler constructs a FarmerHandler; all dependencies must be non-nil.
func NewFarmerHandler(jobs *repository.JobRepo, views *repository.ViewRepo, changes *repository.ChangeRequestRepo, assignments *repository.AssignmentRepo, users *repository.UserRepo) *FarmerHandler {
	if jobs == nil || views == nil || changes == nil || assignments == nil || users == nil {
		panic("nil repository passed to NewFarmerHandler")
	}
	return &FarmerHandler{Jobs: jobs, Views: views, Changes: changes, Assignments: assignments, Users: users}
}

type postJobReq struct {
	Title    string `json:"title"`
	WorkType string `json:"work_type"`
	Days     int    `json:"days"`
	StayInfo string `json:"stay_info"`
	Wage     string `json:"wage"`
	Location string `json:"location"`
	Contact  string `json:"contact"`
}

// jobResp is the JSON shape for a job across all endpoints.
type jobResp struct {
	ID         uint64    `json:"id"`
	FarmerID   uint64    `json:"farmer_id"`
	Title      string    `json:"title"`
	WorkType   string    `json:"work_type"`
	Days       int       `json:"days"`
	StayInfo   string    `json:"stay_info"`
	Wage       string    `json:"wage"`
	Location   string    `json:"location"`
	Contact    string    `json:"contact"`
	Status     string    `json:"status"`
	DatePosted time.Time `json:"date_posted"`
}

func toJobResp(j model.Job) jobResp {
	return jobResp{
		ID: j.ID, FarmerID: j.FarmerID, Title: j.Title, WorkType: j.WorkType,
		Days: j.Days, StayInfo: j.StayInfo, Wage: j.Wage, Location: j.Location,
		Contact: j.Contact, Status: j.Status, DatePosted: j.DatePosted,
	}
}

func toJobResps(jobs []model.Job) []jobResp {
	out := make([]jobResp, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobResp(j))
	}
	return out
}

// PostJob handles POST /v1/jobs. Creates a listing with status OPEN; a
// missing or non-positive day count becomes 1.
func (h *FarmerHandler) PostJob(c echo.Context) error {
	farmerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req postJobReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	job := model.Job{
		FarmerID: farmerID,
		Title:    req.Title,
		WorkType: req.WorkType,
		Days:     req.Days,
		StayInfo: req.StayInfo,
		Wage:     req.Wage,
		Location: req.Location,
		Contact:  req.Contact,
	}
	if _, err := h.Jobs.Create(c.Request().Context(), &job); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create job failed"})
	}
	job.DatePosted = time.Now().UTC()
	return c.JSON(http.StatusCreated, toJobResp(job))
}

// MyJobs handles GET /v1/my-jobs: the caller's listings, any status, newest
// first.
func (h *FarmerHandler) MyJobs(c echo.Context) error {
	farmerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	jobs, err := h.Jobs.ListByFarmer(c.Request().Context(), farmerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list jobs failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"jobs": toJobResps(jobs)})
}

// CloseJob handles POST /v1/jobs/:id/close. Closing is terminal and allowed
// from any other status; only the posting farmer may close.
func (h *FarmerHandler) CloseJob(c echo.Context) error {
	farmerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	jobID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}
	ctx := c.Request().Context()
	tx, err := h.Jobs.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	job, err := h.Jobs.GetForUpdateTx(ctx, tx, jobID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if job.FarmerID != farmerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your job"})
	}
	if err := h.Jobs.ApplyStatusTx(ctx, tx, job.ID, job.Status, model.JobStatusClosed); err != nil {
		if errors.Is(err, repository.ErrInvalidState) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "job already closed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "close job failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"id": job.ID, "status": model.JobStatusClosed})
}

type decideReq struct {
	Decision string `json:"decision"` // accept | reject
}

// DecideChange handles POST /v1/change-requests/:id/decide. The request
// must belong to a job the caller owns. Accepting resolves the request,
// upserts the assignment with farmer acceptance, merges present overrides
// onto the job and moves it to ASSIGNED — all in one transaction, so either
// every effect lands or none does. Rejecting only marks the request.
func (h *FarmerHandler) DecideChange(c echo.Context) error {
	farmerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	changeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid change request id"})
	}
	var req decideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	decision := strings.ToLower(strings.TrimSpace(req.Decision))
	if decision != "accept" && decision != "reject" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "decision must be accept or reject"})
	}

	ctx := c.Request().Context()
	tx, err := h.Jobs.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	cr, err := h.Changes.GetForUpdateTx(ctx, tx, changeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "change request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if cr.Resolved() {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "change request already resolved"})
	}

	// Lock the job row and verify ownership before any effect.
	job, err := h.Jobs.GetForUpdateTx(ctx, tx, cr.JobID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if job.FarmerID != farmerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your job"})
	}

	if decision == "reject" {
		if err := h.Changes.ResolveTx(ctx, tx, cr.ID, model.ChangeStatusRejected); err != nil {
			if errors.Is(err, repository.ErrInvalidState) {
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "change request already resolved"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve failed"})
		}
		if err := tx.Commit(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
		}
		committed = true
		return c.JSON(http.StatusOK, echo.Map{"id": cr.ID, "status": model.ChangeStatusRejected})
	}

	// accept
	if !model.CanTransition(job.Status, model.JobStatusAssigned) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "job can no longer be assigned"})
	}
	if err := h.Changes.ResolveTx(ctx, tx, cr.ID, model.ChangeStatusAccepted); err != nil {
		if errors.Is(err, repository.ErrInvalidState) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "change request already resolved"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve failed"})
	}
	assignment, err := h.Assignments.UpsertFarmerAcceptTx(ctx, tx, cr.JobID, cr.LabourID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upsert assignment failed"})
	}
	cr.ApplyOverrides(&job)
	if err := h.Jobs.UpdateTermsTx(ctx, tx, &job); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "apply overrides failed"})
	}
	if err := h.Jobs.ApplyStatusTx(ctx, tx, job.ID, job.Status, model.JobStatusAssigned); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update job status failed"})
	}
	job.Status = model.JobStatusAssigned
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{
		"change_request": echo.Map{"id": cr.ID, "status": model.ChangeStatusAccepted},
		"assignment": echo.Map{
			"id":                  assignment.ID,
			"job_id":              assignment.JobID,
			"labour_id":           assignment.LabourID,
			"accepted_by_farmer":  assignment.AcceptedByFarmer,
			"confirmed_by_labour": assignment.ConfirmedByLabour,
		},
		"job": toJobResp(job),
	})
}

// AssignDirect handles POST /v1/jobs/:id/assign/:labour_id. The farmer
// unilaterally picks a labourer with no prior change request: the
// assignment is upserted with farmer acceptance and the job moves to
// ASSIGNED, awaiting labour confirmation.
func (h *FarmerHandler) AssignDirect(c echo.Context) error {
	farmerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	jobID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}
	labourID, ok := pathID(c, "labour_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid labour id"})
	}

	ctx := c.Request().Context()
	labour, err := h.Users.GetByID(ctx, labourID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "labourer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if labour.Role != model.RoleLabour {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "user is not a labourer"})
	}

	tx, err := h.Jobs.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	job, err := h.Jobs.GetForUpdateTx(ctx, tx, jobID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if job.FarmerID != farmerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your job"})
	}
	if !model.CanTransition(job.Status, model.JobStatusAssigned) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "job can no longer be assigned"})
	}
	assignment, err := h.Assignments.UpsertFarmerAcceptTx(ctx, tx, jobID, labourID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upsert assignment failed"})
	}
	if err := h.Jobs.ApplyStatusTx(ctx, tx, job.ID, job.Status, model.JobStatusAssigned); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update job status failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"assignment": echo.Map{
			"id":                  assignment.ID,
			"job_id":              assignment.JobID,
			"labour_id":           assignment.LabourID,
			"accepted_by_farmer":  assignment.AcceptedByFarmer,
			"confirmed_by_labour": assignment.ConfirmedByLabour,
		},
		"job_status": model.JobStatusAssigned,
	})
}

// Dashboard handles GET /v1/farmer/dashboard: the caller's jobs plus the
// views, change requests and assignments accumulated across them. Pure
// read-side composition, no mutation.
func (h *FarmerHandler) Dashboard(c echo.Context) error {
	farmerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	jobs, err := h.Jobs.ListByFarmer(ctx, farmerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list jobs failed"})
	}
	views, err := h.Views.ListForFarmer(ctx, farmerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list views failed"})
	}
	changes, err := h.Changes.ListForFarmer(ctx, farmerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list change requests failed"})
	}
	assignments, err := h.Assignments.ListForFarmer(ctx, farmerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list assignments failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"jobs":            toJobResps(jobs),
		"views":           views,
		"change_requests": changes,
		"assignments":     assignments,
	})
}

// Notifications handles GET /v1/notifications: the farmer's view feed and
// change requests with labourer contact details, newest first.
func (h *FarmerHandler) Notifications(c echo.Context) error {
	farmerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	views, err := h.Views.ListForFarmer(ctx, farmerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list views failed"})
	}
	changes, err := h.Changes.ListForFarmer(ctx, farmerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list change requests failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"views":           views,
		"change_requests": changes,
	})
}
