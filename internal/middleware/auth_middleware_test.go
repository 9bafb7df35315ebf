package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/utils"

	"github.com/labstack/echo/v4"
)

type fakeValidator struct {
	userID string
	err    error
}

func (f fakeValidator) ValidateTokenFromRedis(_ context.Context, _ string) (string, error) {
	return f.userID, f.err
}

func serve(t *testing.T, header string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.GET("/admin/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, mws...)

	req := httptest.NewRequest(http.MethodGet, "/admin/5", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := utils.GenerateJWT(userID, role)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	return "Bearer " + tok
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tests := []struct {
		name   string
		header string
		mws    []echo.MiddlewareFunc
		want   int
	}{
		{name: "missing header", mws: []echo.MiddlewareFunc{AuthMiddleware()}, want: http.StatusUnauthorized},
		{name: "bad format", header: "Token abc", mws: []echo.MiddlewareFunc{AuthMiddleware()}, want: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer abc", mws: []echo.MiddlewareFunc{AuthMiddleware()}, want: http.StatusUnauthorized},
		{name: "editor", header: token(t, "5", "editor"), mws: []echo.MiddlewareFunc{AuthMiddleware(), StaffOnly()}, want: http.StatusOK},
		{name: "editor not admin", header: token(t, "5", "editor"), mws: []echo.MiddlewareFunc{AuthMiddleware(), AdminOnly()}, want: http.StatusForbidden},
		{name: "admin", header: token(t, "1", "admin"), mws: []echo.MiddlewareFunc{AuthMiddleware(), AdminOnly()}, want: http.StatusOK},
		{name: "self", header: token(t, "5", "editor"), mws: []echo.MiddlewareFunc{AuthMiddleware(), SelfOrAdmin()}, want: http.StatusOK},
		{name: "other user", header: token(t, "6", "editor"), mws: []echo.MiddlewareFunc{AuthMiddleware(), SelfOrAdmin()}, want: http.StatusForbidden},
		{name: "admin on other user", header: token(t, "1", "admin"), mws: []echo.MiddlewareFunc{AuthMiddleware(), SelfOrAdmin()}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := serve(t, tt.header, tt.mws...); rec.Code != tt.want {
				t.Errorf("status = %d, want %d, body %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareWithRedis(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	header := token(t, "5", "admin")

	tests := []struct {
		name      string
		validator fakeValidator
		want      int
	}{
		{name: "live session", validator: fakeValidator{userID: "5"}, want: http.StatusOK},
		{name: "revoked", validator: fakeValidator{err: errors.New("token not found or expired")}, want: http.StatusUnauthorized},
		{name: "other owner", validator: fakeValidator{userID: "9"}, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := serve(t, header, AuthMiddlewareWithRedis(tt.validator)); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"code":"NOT_FOUND"`) {
		t.Errorf("body = %s", body)
	}
}
