package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-labour-exchange/internal/handler"
	"github.com/iliyamo/farm-labour-exchange/internal/middleware"
)

// RegisterLabour registers labourer-scoped endpoints under /v1. All routes
// require a valid JWT and the LABOUR role. Labourers can file change
// requests against a job, confirm their assignments and list their own
// work. Browsing jobs is handled by the public router.
func RegisterLabour(e *echo.Echo, h *handler.LabourHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("LABOUR"),
	)
	g.POST("/jobs/:id/change-requests", h.SubmitChangeRequest)
	g.POST("/assignments/:id/confirm", h.ConfirmAssignment)
	g.GET("/my-assignments", h.MyAssignments)
	g.GET("/labour/dashboard", h.Dashboard)
}
