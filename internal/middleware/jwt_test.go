package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-labour-exchange/internal/utils"
)

const testSecret = "unit-test-secret"

func runProtected(t *testing.T, authHeader string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user_id": c.Get("user_id"), "role": c.Get("role")})
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestJWTAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, "FARMER", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec := runProtected(t, "Bearer "+at.Token, JWTAuth(testSecret))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestJWTAuthRejects(t *testing.T) {
	at, _ := utils.NewAccessToken("other-secret", 7, "FARMER", 5)
	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + at.Token},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := runProtected(t, tc.header, JWTAuth(testSecret))
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	farmerTok, _ := utils.NewAccessToken(testSecret, 1, "FARMER", 5)
	labourTok, _ := utils.NewAccessToken(testSecret, 2, "LABOUR", 5)

	cases := []struct {
		name    string
		token   string
		allowed []string
		want    int
	}{
		{"farmer on farmer route", farmerTok.Token, []string{"FARMER"}, http.StatusOK},
		{"labour on farmer route", labourTok.Token, []string{"FARMER"}, http.StatusForbidden},
		{"labour on shared route", labourTok.Token, []string{"FARMER", "LABOUR"}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := runProtected(t, "Bearer "+tc.token, JWTAuth(testSecret), RequireRole(tc.allowed...))
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	// RequireRole alone, no JWTAuth: the context has no role at all.
	rec := runProtected(t, "", RequireRole("FARMER"))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
