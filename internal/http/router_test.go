package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	apphttp "internhub/internal/http"
	"internhub/internal/http/handlers"
	"internhub/internal/http/metrics"
	httpmw "internhub/internal/http/middleware"
	"internhub/internal/security"
	"internhub/internal/storage"
	"internhub/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testServer struct {
	*httptest.Server
	identity    *store.IdentityStore
	engagements *store.EngagementStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	adapter := storage.NewMemory()
	identity, err := store.NewIdentityStore(context.Background(), adapter, nil)
	require.NoError(t, err)
	engagements, err := store.NewEngagementStore(context.Background(), adapter, store.DefaultOptions(), nil)
	require.NoError(t, err)

	jwtProvider := security.NewJWTProvider("test-secret")
	limiter := httpmw.NewRateLimiter()
	collector := metrics.NewCollector()

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:        handlers.NewAuthHandler(identity, jwtProvider, limiter, time.Hour),
		UserHandler:        handlers.NewUserHandler(identity),
		InternshipHandler:  handlers.NewInternshipHandler(engagements, identity),
		ApplicationHandler: handlers.NewApplicationHandler(engagements, identity, limiter),
		StatsHandler:       handlers.NewStatsHandler(identity, engagements),
		AuthMiddleware:     httpmw.NewAuthMiddleware(jwtProvider),
		Metrics:            collector,
		Logger:             zap.NewNop(),
		RequestTimeout:     5 * time.Second,
	})

	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Client().CloseIdleConnections()
		ts.Close()
	})
	return &testServer{Server: ts, identity: identity, engagements: engagements}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func (ts *testServer) login(t *testing.T, email string) string {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email":    email,
		"password": "irrelevant",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &auth))
	require.NotEmpty(t, auth.Token)
	return auth.Token
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp, body := ts.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodGet, "/health", "", nil)
	resp, body := ts.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "internhub_requests_total")
}

func TestLoginReturnsTokenAndProfile(t *testing.T) {
	ts := newTestServer(t)
	resp, body := ts.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "mentor@company.com",
		"password": "anything",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var auth struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expires_at"`
		User      struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &auth))
	require.NotEmpty(t, auth.Token)
	require.NotEmpty(t, auth.ExpiresAt)
	require.Equal(t, "mentor@company.com", auth.User.Email)
	require.Equal(t, "mentor", auth.User.Role)
}

func TestLoginUnknownEmailIs404(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := ts.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "nobody@x.com",
		"password": "pw",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLoginMissingFieldsIs400(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := ts.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterAndDuplicate(t *testing.T) {
	ts := newTestServer(t)
	payload := map[string]any{
		"email":    "new@university.edu",
		"password": "pw",
		"name":     "New Student",
		"role":     "student",
	}
	resp, body := ts.do(t, http.MethodPost, "/api/register", "", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = ts.do(t, http.MethodPost, "/api/register", "", payload)
	require.Equal(t, http.StatusConflict, resp.StatusCode, string(body))

	var errBody struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &errBody))
	require.Equal(t, "conflict", errBody.Error)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := ts.do(t, http.MethodGet, "/api/internships", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/api/internships", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "student@university.edu")
	resp, _ := ts.do(t, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Nil(t, ts.identity.CurrentUser())
}

func TestInternshipLifecycle(t *testing.T) {
	ts := newTestServer(t)
	mentorToken := ts.login(t, "mentor@company.com")

	resp, body := ts.do(t, http.MethodPost, "/api/internships", mentorToken, map[string]any{
		"title":        "Platform Intern",
		"company":      "Tech Solutions Inc.",
		"description":  "Work on the platform team.",
		"type":         "remote",
		"max_students": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created struct {
		ID         string `json:"id"`
		MentorID   string `json:"mentor_id"`
		MentorName string `json:"mentor_name"`
		Status     string `json:"status"`
		PostedDate string `json:"posted_date"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "2", created.MentorID)
	require.Equal(t, "Sarah Johnson", created.MentorName)
	require.Equal(t, "active", created.Status)
	require.NotEmpty(t, created.PostedDate)

	resp, body = ts.do(t, http.MethodGet, "/api/internships/"+created.ID, mentorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	title := "Platform Intern II"
	resp, body = ts.do(t, http.MethodPut, "/api/internships/"+created.ID, mentorToken, map[string]any{"title": title})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var updated struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(body, &updated))
	require.Equal(t, title, updated.Title)

	resp, _ = ts.do(t, http.MethodDelete, "/api/internships/"+created.ID, mentorToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/api/internships/"+created.ID, mentorToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStudentCannotPostInternships(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "student@university.edu")
	resp, _ := ts.do(t, http.MethodPost, "/api/internships", token, map[string]any{
		"title":       "X",
		"company":     "Y",
		"description": "Z",
		"type":        "remote",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMentorCannotEditForeignPosting(t *testing.T) {
	ts := newTestServer(t)
	resp, body := ts.do(t, http.MethodPost, "/api/register", "", map[string]any{
		"email":    "other@company.com",
		"password": "pw",
		"name":     "Other Mentor",
		"role":     "mentor",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	otherToken := ts.login(t, "other@company.com")

	title := "Hijacked"
	resp, _ = ts.do(t, http.MethodPut, "/api/internships/1", otherToken, map[string]any{"title": title})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodDelete, "/api/internships/1", otherToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminMayEditAnyPosting(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.login(t, "admin@lms.com")
	title := "Renamed by admin"
	resp, body := ts.do(t, http.MethodPut, "/api/internships/1", adminToken, map[string]any{"title": title})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

func TestApplyFlow(t *testing.T) {
	ts := newTestServer(t)
	studentToken := ts.login(t, "student@university.edu")

	resp, body := ts.do(t, http.MethodPost, "/api/applications", studentToken, map[string]any{
		"internship_id": "2",
		"cover_letter":  "Very interested.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created struct {
		ID          string `json:"id"`
		StudentID   string `json:"student_id"`
		StudentName string `json:"student_name"`
		Status      string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	require.Equal(t, "3", created.StudentID)
	require.Equal(t, "Alex Chen", created.StudentName)
	require.Equal(t, "pending", created.Status)

	resp, body = ts.do(t, http.MethodGet, "/api/internships/2", studentToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var posting struct {
		Applicants []string `json:"applicants"`
	}
	require.NoError(t, json.Unmarshal(body, &posting))
	require.Contains(t, posting.Applicants, "3")

	resp, body = ts.do(t, http.MethodGet, "/api/applications/student/3", studentToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &mine))
	require.Len(t, mine, 2)
}

func TestApplyToMissingPostingIs404(t *testing.T) {
	ts := newTestServer(t)
	studentToken := ts.login(t, "student@university.edu")
	resp, _ := ts.do(t, http.MethodPost, "/api/applications", studentToken, map[string]any{
		"internship_id": "does-not-exist",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestApplyRateLimit(t *testing.T) {
	ts := newTestServer(t)
	studentToken := ts.login(t, "student@university.edu")

	for i := 0; i < 3; i++ {
		resp, body := ts.do(t, http.MethodPost, "/api/applications", studentToken, map[string]any{
			"internship_id": "2",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, fmt.Sprintf("attempt %d: %s", i, body))
	}
	resp, _ := ts.do(t, http.MethodPost, "/api/applications", studentToken, map[string]any{
		"internship_id": "2",
	})
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestApplicationStatusUpdate(t *testing.T) {
	ts := newTestServer(t)
	mentorToken := ts.login(t, "mentor@company.com")

	resp, body := ts.do(t, http.MethodPut, "/api/applications/1", mentorToken, map[string]string{"status": "interview"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var updated struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(body, &updated))
	require.Equal(t, "interview", updated.Status)

	resp, _ = ts.do(t, http.MethodPut, "/api/applications/1", mentorToken, map[string]string{"status": "hired"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestApplicationStatusForeignMentorForbidden(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := ts.do(t, http.MethodPost, "/api/register", "", map[string]any{
		"email":    "other@company.com",
		"password": "pw",
		"name":     "Other Mentor",
		"role":     "mentor",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	otherToken := ts.login(t, "other@company.com")

	resp, _ = ts.do(t, http.MethodPut, "/api/applications/1", otherToken, map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSelectionEndpoints(t *testing.T) {
	ts := newTestServer(t)
	mentorToken := ts.login(t, "mentor@company.com")

	resp, body := ts.do(t, http.MethodPost, "/api/internships/1/select", mentorToken, map[string]string{"student_id": "3"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var posting struct {
		SelectedStudents []string `json:"selected_students"`
	}
	require.NoError(t, json.Unmarshal(body, &posting))
	require.Equal(t, []string{"3"}, posting.SelectedStudents)

	resp, _ = ts.do(t, http.MethodPost, "/api/internships/1/select", mentorToken, map[string]string{"student_id": "999"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = ts.do(t, http.MethodPost, "/api/internships/1/unselect", mentorToken, map[string]string{"student_id": "3"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &posting))
	require.Empty(t, posting.SelectedStudents)
}

func TestDeleteCascadesOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	mentorToken := ts.login(t, "mentor@company.com")

	resp, _ := ts.do(t, http.MethodDelete, "/api/internships/1", mentorToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := ts.do(t, http.MethodGet, "/api/applications/internship/1", mentorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var remaining []json.RawMessage
	require.NoError(t, json.Unmarshal(body, &remaining))
	require.Empty(t, remaining)
}

func TestProfileUpdateAuthorization(t *testing.T) {
	ts := newTestServer(t)
	studentToken := ts.login(t, "student@university.edu")

	resp, body := ts.do(t, http.MethodPut, "/api/users/3", studentToken, map[string]any{"bio": "Updated bio"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var updated struct {
		Bio string `json:"bio"`
	}
	require.NoError(t, json.Unmarshal(body, &updated))
	require.Equal(t, "Updated bio", updated.Bio)

	resp, _ = ts.do(t, http.MethodPut, "/api/users/2", studentToken, map[string]any{"bio": "x"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	adminToken := ts.login(t, "admin@lms.com")
	resp, _ = ts.do(t, http.MethodPut, "/api/users/2", adminToken, map[string]any{"bio": "edited by admin"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatsPerRole(t *testing.T) {
	ts := newTestServer(t)

	adminToken := ts.login(t, "admin@lms.com")
	resp, body := ts.do(t, http.MethodGet, "/api/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var overview struct {
		TotalUsers        int `json:"totalUsers"`
		TotalInternships  int `json:"totalInternships"`
		TotalApplications int `json:"totalApplications"`
	}
	require.NoError(t, json.Unmarshal(body, &overview))
	require.Equal(t, 3, overview.TotalUsers)
	require.Equal(t, 2, overview.TotalInternships)
	require.Equal(t, 1, overview.TotalApplications)

	mentorToken := ts.login(t, "mentor@company.com")
	resp, body = ts.do(t, http.MethodGet, "/api/stats", mentorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mentor struct {
		TotalInternships  int `json:"totalInternships"`
		TotalApplications int `json:"totalApplications"`
	}
	require.NoError(t, json.Unmarshal(body, &mentor))
	require.Equal(t, 2, mentor.TotalInternships)
	require.Equal(t, 1, mentor.TotalApplications)

	studentToken := ts.login(t, "student@university.edu")
	resp, body = ts.do(t, http.MethodGet, "/api/stats", studentToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var student struct {
		TotalApplications   int `json:"totalApplications"`
		PendingApplications int `json:"pendingApplications"`
	}
	require.NoError(t, json.Unmarshal(body, &student))
	require.Equal(t, 1, student.TotalApplications)
	require.Equal(t, 1, student.PendingApplications)
}

func TestUnknownRouteIs404(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "student@university.edu")
	resp, _ := ts.do(t, http.MethodGet, "/api/nope", token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
