package handler

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-labour-exchange/internal/model"
	"github.com/iliyamo/farm-labour-exchange/internal/repository"
)

// PublicHandler serves the unauthenticated browse surface: the open job
// board and single-job detail. The detail endpoint additionally records a
// view notification when the caller turns out to be an authenticated
// labourer, which is why these routes skip the JWT middleware and inspect
// the bearer token themselves.
type PublicHandler struct {
	Jobs      *repository.JobRepo
	Views     *repository.ViewRepo
	Changes   *repository.ChangeRequestRepo
	Users     *repository.UserRepo
	JWTSecret string
}

func NewPublicHandler(jobs *repository.JobRepo, views *repository.ViewRepo, changes *repository.ChangeRequestRepo, users *repository.UserRepo, jwtSecret string) *PublicHandler {
	return &PublicHandler{Jobs: jobs, Views: views, Changes: changes, Users: users, JWTSecret: jwtSecret}
}

// ListJobs handles GET /v1/jobs: every job that is not CLOSED, newest first.
// Sits behind the response cache, so repeat listings skip the database.
func (h *PublicHandler) ListJobs(c echo.Context) error {
	jobs, err := h.Jobs.ListOpen(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list jobs failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"jobs": toJobResps(jobs)})
}

// bearerIdentity extracts (user id, role) from an Authorization header if a
// valid HS256 token is present. Missing or invalid tokens are not an error
// here: the caller is simply anonymous.
func (h *PublicHandler) bearerIdentity(c echo.Context) (uint64, string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return 0, "", false
	}
	raw := strings.TrimPrefix(authHeader, "Bearer ")
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(h.JWTSecret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}
	role, _ := claims["role"].(string)
	switch sub := claims["sub"].(type) {
	case float64:
		return uint64(sub), role, true
	case string:
		if n, err := strconv.ParseUint(sub, 10, 64); err == nil {
			return n, role, true
		}
	}
	return 0, "", false
}

// GetJob handles GET /v1/jobs/:id: the job, its farmer's contact card and
// the negotiation history. When the caller is an authenticated labourer the
// first open of a job leaves a view notification for the farmer; repeat
// opens and non-labour callers leave nothing.
func (h *PublicHandler) GetJob(c echo.Context) error {
	jobID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}
	ctx := c.Request().Context()
	job, err := h.Jobs.GetByID(ctx, jobID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if uid, role, ok := h.bearerIdentity(c); ok && role == model.RoleLabour {
		// Repeat views are absorbed by INSERT IGNORE; a failed write must
		// not break the read.
		_ = h.Views.RecordView(ctx, jobID, uid)
	}

	resp := echo.Map{"job": toJobResp(job)}

	if farmer, err := h.Users.GetByID(ctx, job.FarmerID); err == nil {
		resp["farmer"] = echo.Map{
			"id":    farmer.ID,
			"name":  farmer.Name,
			"phone": farmer.Phone,
		}
	}
	if changes, err := h.Changes.ListByJob(ctx, jobID); err == nil {
		resp["change_requests"] = changes
	}
	return c.JSON(http.StatusOK, resp)
}
