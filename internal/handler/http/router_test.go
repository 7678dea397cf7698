package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/schoolroll/attendance-backend-go/internal/config"
	"github.com/schoolroll/attendance-backend-go/internal/domain/attendance"
	"github.com/schoolroll/attendance-backend-go/internal/domain/auth"
	"github.com/schoolroll/attendance-backend-go/internal/domain/dashboard"
	"github.com/schoolroll/attendance-backend-go/internal/domain/user"
	"github.com/schoolroll/attendance-backend-go/internal/handler/http/response"
	"github.com/schoolroll/attendance-backend-go/internal/pkg/jwt"
	attendanceService "github.com/schoolroll/attendance-backend-go/internal/service/attendance"
	authService "github.com/schoolroll/attendance-backend-go/internal/service/auth"
	dashboardService "github.com/schoolroll/attendance-backend-go/internal/service/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSessionExp = "1h"
	handlerTestSecret     = "test-secret-key-for-jwt"
)

const handlerTestCSV = `student_id,student_name,attendance_status,class_name,period,created_at
101,Alice,Present,Math,1,1700000000
102,Bob,Absent,Math,1,1700000000
103,Carol,Pending,Science,2,1700000000
101,Alice,Absent,Math,1,1700000500
`

type stubIdentityProvider struct {
	identity *auth.Identity
	err      error
}

func (s *stubIdentityProvider) Authenticate(ctx context.Context, email, password string) (*auth.Identity, error) {
	return s.identity, s.err
}

type stubAttendanceRepo struct {
	exportCSV []byte
	exportErr error
	subsJSON  []byte
}

func (s *stubAttendanceRepo) FetchAttendanceExport(ctx context.Context, scope attendance.Scope) ([]byte, error) {
	return s.exportCSV, s.exportErr
}

func (s *stubAttendanceRepo) FetchSubstitutes(ctx context.Context, scope attendance.Scope) ([]byte, error) {
	return s.subsJSON, nil
}

type testApp struct {
	router *chi.Mux
	jwt    jwt.Service
	repo   *stubAttendanceRepo
	idp    *stubIdentityProvider
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	jwtSvc := jwt.NewJWTService(handlerTestSecret, handlerTestSessionExp, false)
	repo := &stubAttendanceRepo{
		exportCSV: []byte(handlerTestCSV),
		subsJSON:  []byte(`[{"email":"SUB@X.com"},{"email":"sub@x.com"}]`),
	}
	idp := &stubIdentityProvider{}
	endpoints := attendance.Endpoints{
		Attendance:  "https://data.example.test/attendance/export",
		Substitutes: "https://data.example.test/substitutes",
	}

	appCfg := config.AppConfig{Env: "test", LogLevel: "error", AllowedOrigins: []string{"http://localhost:3000"}}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	router := NewRouter(
		appCfg,
		logger,
		jwtSvc,
		NewAuthHandler(jwtSvc, authService.NewAuthService(idp, jwtSvc)),
		NewDashboardHandler(dashboardService.NewDashboardService(repo, endpoints)),
		NewAttendanceHandler(attendanceService.NewAttendanceService(repo, endpoints)),
	)
	return &testApp{router: router, jwt: jwtSvc, repo: repo, idp: idp}
}

func (a *testApp) sessionCookie(t *testing.T, role user.Role, schoolCode string) *http.Cookie {
	t.Helper()
	token, expiresAt, err := a.jwt.GenerateSessionToken(jwt.SessionClaims{
		UserID:       "17",
		Email:        "someone@school.edu",
		Role:         role,
		DistrictCode: "D01",
		SchoolCode:   schoolCode,
	})
	require.NoError(t, err)
	return a.jwt.SessionCookie(token, expiresAt)
}

func (a *testApp) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestLiveDashboard_Success(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/live", nil), app.sessionCookie(t, user.RoleAdmin, "S042"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store, no-cache, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
	assert.Equal(t, "0", rec.Header().Get("Expires"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var summary dashboard.DashboardSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Absent)
	assert.Equal(t, 67, summary.AbsentPct)
	assert.Equal(t, 1, summary.SubsCount)
	assert.Equal(t, 100, summary.PeriodStats["1"].AbsentPct)
	assert.Len(t, summary.Activity, 2)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for _, key := range []string{"present", "absent", "total", "presentPct", "absentPct", "subsCount", "absent_students", "periodStats", "activity", "timestamp"} {
		assert.Contains(t, raw, key)
	}
	assert.NotContains(t, raw, "success")
}

func TestLiveDashboard_NoSession(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/live", nil), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)
}

func TestLiveDashboard_BearerHeader(t *testing.T) {
	app := newTestApp(t)
	cookie := app.sessionCookie(t, user.RoleAdmin, "S042")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/live", nil)
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	rec := app.do(req, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLiveDashboard_TeacherForbidden(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/live", nil), app.sessionCookie(t, user.RoleTeacher, "S042"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeEnvelope(t, rec).Error.Code)
}

func TestLiveDashboard_NoSchool(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/live", nil), app.sessionCookie(t, user.RoleAdmin, ""))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLiveDashboard_UpstreamFailure(t *testing.T) {
	app := newTestApp(t)
	app.repo.exportErr = errors.New("upstream attendance export: unexpected status 500")

	rec := app.do(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/live", nil), app.sessionCookie(t, user.RoleAdmin, "S042"))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "UPSTREAM_ERROR", resp.Error.Code)
	assert.Equal(t, "Failed to fetch data", resp.Error.Message)
}

func TestAttendanceExport_Download(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httptest.NewRequest(http.MethodGet, "/api/v1/attendance/export", nil), app.sessionCookie(t, user.RoleTeacher, "S042"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Regexp(t, `^attachment; filename="attendance-D01-S042-\d{4}-\d{2}-\d{2}\.csv"$`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, handlerTestCSV, rec.Body.String())
}

func TestSubstitutes_List(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httptest.NewRequest(http.MethodGet, "/api/v1/substitutes", nil), app.sessionCookie(t, user.RoleAdmin, "S042"))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool                              `json:"success"`
		Data    attendance.SubstituteListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Data.Count)
	assert.Equal(t, "SUB@X.com", body.Data.Substitutes[0].Email)
}

func TestAuth_LoginSetsSessionCookie(t *testing.T) {
	app := newTestApp(t)
	app.idp.identity = &auth.Identity{
		Token: "up-token",
		User: user.User{
			ID:           "17",
			Email:        "admin@school.edu",
			Role:         "admin",
			DistrictCode: "D01",
			SchoolCode:   "S042",
		},
	}

	body := bytes.NewBufferString(`{"email":"admin@school.edu","password":"secret"}`)
	rec := app.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body), nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == jwt.SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.NotContains(t, rec.Body.String(), session.Value)
	assert.NotContains(t, rec.Body.String(), "up-token")

	// The issued cookie opens the dashboard
	dash := app.do(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/live", nil), session)
	assert.Equal(t, http.StatusOK, dash.Code)
}

func TestAuth_LoginValidation(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"not-an-email"}`)), nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "email")
	assert.Contains(t, resp.Error.Details, "password")
}

func TestAuth_LoginInvalidCredentials(t *testing.T) {
	app := newTestApp(t)
	app.idp.err = auth.ErrInvalidCredentials

	rec := app.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@b.cd","password":"x"}`)), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_LogoutRevokesSession(t *testing.T) {
	app := newTestApp(t)
	cookie := app.sessionCookie(t, user.RoleAdmin, "S042")

	rec := app.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	again := app.do(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/live", nil), cookie)
	assert.Equal(t, http.StatusUnauthorized, again.Code)
}

func TestAuth_Me(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), app.sessionCookie(t, user.RoleParent, ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data auth.ProfileResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "parent", body.Data.Role)
	assert.Equal(t, "17", body.Data.ID)
}

func TestHeartbeat(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
