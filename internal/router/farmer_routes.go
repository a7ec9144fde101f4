package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-labour-exchange/internal/handler"
	"github.com/iliyamo/farm-labour-exchange/internal/middleware"
)

// RegisterFarmer registers FARMER-scoped endpoints under /v1.
// All routes require a valid JWT and FARMER role.
func RegisterFarmer(e *echo.Echo, f *handler.FarmerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("FARMER"),
	)

	// ---- Jobs ----
	g.POST("/jobs", f.PostJob)
	g.GET("/my-jobs", f.MyJobs)
	g.POST("/jobs/:id/close", f.CloseJob)
	// Direct assignment without a prior change request.
	g.POST("/jobs/:id/assign/:labour_id", f.AssignDirect)

	// ---- Negotiation ----
	g.POST("/change-requests/:id/decide", f.DecideChange)

	// ---- Read side ----
	g.GET("/notifications", f.Notifications)
	g.GET("/farmer/dashboard", f.Dashboard)
}
