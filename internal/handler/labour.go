package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-labour-exchange/internal/model"
	"github.com/iliyamo/farm-labour-exchange/internal/queue"
	"github.com/iliyamo/farm-labour-exchange/internal/repository"
	queue_publisher "github.com/iliyamo/farm-labour-exchange/internal/service"
)

// LabourHandler serves the labourer side: browsing leads to change requests,
// change requests to assignments, and a confirmed assignment settles the job.
// JWT authentication and the LABOUR role check run in middleware.
type LabourHandler struct {
	Jobs        *repository.JobRepo
	Changes     *repository.ChangeRequestRepo
	Assignments *repository.AssignmentRepo
}

// NewLabourHandler constructs a LabourHandler; all dependencies must be non-nil.
func NewLabourHandler(jobs *repository.JobRepo, changes *repository.ChangeRequestRepo, assignments *repository.AssignmentRepo) *LabourHandler {
	if jobs == nil || changes == nil || assignments == nil {
		panic("nil repository passed to NewLabourHandler")
	}
	return &LabourHandler{Jobs: jobs, Changes: changes, Assignments: assignments}
}

type changeRequestReq struct {
	Days    *int    `json:"days"`
	Wage    *string `json:"wage"`
	Stay    *string `json:"stay_info"`
	Message string  `json:"message"`
}

// SubmitChangeRequest handles POST /v1/jobs/:id/change-requests. Every field
// is optional; only the ones present override job terms if the farmer
// accepts. A request against a closed job is rejected, anything else is
// negotiable. Labourers may file several requests for the same job.
func (h *LabourHandler) SubmitChangeRequest(c echo.Context) error {
	labourID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	jobID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}
	var req changeRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Days != nil && *req.Days < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "days must be at least 1"})
	}

	ctx := c.Request().Context()
	job, err := h.Jobs.GetByID(ctx, jobID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if job.Status == model.JobStatusClosed {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "job is closed"})
	}

	cr := model.ChangeRequest{
		JobID:         jobID,
		LabourID:      labourID,
		RequestedDays: req.Days,
		RequestedWage: req.Wage,
		RequestedStay: req.Stay,
		Message:       strings.TrimSpace(req.Message),
	}
	if _, err := h.Changes.Create(ctx, &cr); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create change request failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":     cr.ID,
		"job_id": cr.JobID,
		"status": cr.Status,
	})
}

// ConfirmAssignment handles POST /v1/assignments/:id/confirm. Only the
// assigned labourer may confirm. When the farmer has already accepted, the
// assignment is settled and the job moves to CONFIRMED; the job.confirmed
// event is published after commit so a broker outage cannot undo the state
// change.
func (h *LabourHandler) ConfirmAssignment(c echo.Context) error {
	labourID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	assignmentID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid assignment id"})
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

	a, err := h.Assignments.GetForUpdateTx(ctx, tx, assignmentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "assignment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if a.LabourID != labourID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your assignment"})
	}

	job, err := h.Jobs.GetForUpdateTx(ctx, tx, a.JobID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if job.Status == model.JobStatusClosed {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "job is closed"})
	}

	if !a.ConfirmedByLabour {
		if err := h.Assignments.ConfirmTx(ctx, tx, a.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm failed"})
		}
		a.ConfirmedByLabour = true
	}

	settled := a.Settled()
	jobStatus := job.Status
	if settled && job.Status != model.JobStatusConfirmed {
		if err := h.Jobs.ApplyStatusTx(ctx, tx, job.ID, job.Status, model.JobStatusConfirmed); err != nil {
			if errors.Is(err, repository.ErrInvalidState) {
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "job cannot be confirmed"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update job status failed"})
		}
		jobStatus = model.JobStatusConfirmed
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	if settled && jobStatus == model.JobStatusConfirmed {
		ev := queue.JobConfirmedEvent{
			AssignmentID: a.ID,
			JobID:        job.ID,
			FarmerID:     job.FarmerID,
			LabourID:     a.LabourID,
			JobTitle:     job.Title,
			WorkType:     job.WorkType,
			Days:         job.Days,
			Wage:         job.Wage,
			Location:     job.Location,
			ConfirmedAt:  time.Now().UTC().Format(time.RFC3339),
		}
		// Best effort; a failed publish only loses the notification.
		_ = queue_publisher.PublishJobConfirmed(ctx, ev)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"assignment": echo.Map{
			"id":                  a.ID,
			"job_id":              a.JobID,
			"labour_id":           a.LabourID,
			"accepted_by_farmer":  a.AcceptedByFarmer,
			"confirmed_by_labour": a.ConfirmedByLabour,
		},
		"job_status": jobStatus,
	})
}

// MyAssignments handles GET /v1/my-assignments: the labourer's assignments
// with the job each one belongs to, newest first.
func (h *LabourHandler) MyAssignments(c echo.Context) error {
	labourID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	assignments, err := h.Assignments.ListByLabour(ctx, labourID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list assignments failed"})
	}
	out := make([]echo.Map, 0, len(assignments))
	for _, a := range assignments {
		entry := echo.Map{
			"id":                  a.ID,
			"job_id":              a.JobID,
			"accepted_by_farmer":  a.AcceptedByFarmer,
			"confirmed_by_labour": a.ConfirmedByLabour,
			"assigned_at":         a.AssignedAt,
		}
		if job, err := h.Jobs.GetByID(ctx, a.JobID); err == nil {
			entry["job"] = toJobResp(job)
		}
		out = append(out, entry)
	}
	return c.JSON(http.StatusOK, echo.Map{"assignments": out})
}

// Dashboard handles GET /v1/labour/dashboard: browsable jobs plus the
// caller's own assignments in one response.
func (h *LabourHandler) Dashboard(c echo.Context) error {
	labourID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	jobs, err := h.Jobs.ListOpen(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list jobs failed"})
	}
	assignments, err := h.Assignments.ListByLabour(ctx, labourID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list assignments failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"jobs":        toJobResps(jobs),
		"assignments": assignments,
	})
}
