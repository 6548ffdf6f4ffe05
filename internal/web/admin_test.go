package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/analytics"
)

func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	w := e.do(t, postForm("/admin/login", url.Values{"username": {"owner"}, "password": {"pw"}}))
	if w.Code != http.StatusFound {
		t.Fatalf("login status = %d, want 302", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == adminCookie {
			return c
		}
	}
	t.Fatal("login did not set the admin cookie")
	return nil
}

func (e *testEnv) adminReq(t *testing.T, method, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return e.do(t, req)
}

func TestAdminRequiresLogin(t *testing.T) {
	e := newTestEnv(t)

	for _, path := range []string{"/admin/dashboard", "/admin/api/stats", "/admin/visitors", "/admin/messages", "/admin/export/stats"} {
		w := e.adminReq(t, http.MethodGet, path, nil)
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login" {
			t.Errorf("GET %s = %d %q, want redirect to login", path, w.Code, w.Header().Get("Location"))
		}
	}

	forged := &http.Cookie{Name: adminCookie, Value: "forged"}
	if w := e.adminReq(t, http.MethodGet, "/admin/dashboard", forged); w.Code != http.StatusFound {
		t.Errorf("forged cookie status = %d, want 302", w.Code)
	}
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, postForm("/admin/login", url.Values{"username": {"owner"}, "password": {"wrong"}}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid credentials") {
		t.Error("missing error message")
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == adminCookie && c.Value != "" {
			t.Error("admin cookie set on failed login")
		}
	}
}

func TestAdminDashboardAndStats(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	e.get(t, "/projects/beta")
	e.get(t, "/projects/beta")
	e.get(t, "/")
	e.tracker.Wait()

	w := e.adminReq(t, http.MethodGet, "/admin/dashboard", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `href="/projects/beta"`) {
		t.Error("dashboard missing top project")
	}

	w = e.adminReq(t, http.MethodGet, "/admin/api/stats", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d, want 200", w.Code)
	}
	var stats analytics.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.TotalViews != 2 {
		t.Errorf("TotalViews = %d, want 2", stats.TotalViews)
	}
	if stats.TotalVisitors != 3 {
		t.Errorf("TotalVisitors = %d, want 3", stats.TotalVisitors)
	}

	w = e.adminReq(t, http.MethodGet, "/admin/export/stats", cookie)
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "admin-stats.json") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	if w := e.adminReq(t, http.MethodGet, "/admin/visitors", cookie); w.Code != http.StatusOK {
		t.Errorf("visitors status = %d, want 200", w.Code)
	}
	if w := e.adminReq(t, http.MethodPost, "/admin/privacy/cleanup", cookie); w.Code != http.StatusOK {
		t.Errorf("cleanup status = %d, want 200", w.Code)
	}
}

func TestAdminMessages(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	e.do(t, postForm("/contact", url.Values{
		"fullName": {"Ada"},
		"email":    {"ada@example.com"},
		"message":  {"Portfolio question"},
	}))

	w := e.adminReq(t, http.MethodGet, "/admin/messages", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("messages status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Portfolio question") {
		t.Error("message not listed")
	}

	msgs, err := e.server.deps.Contact.Messages(context.Background(), 10)
	if err != nil || len(msgs) != 1 {
		t.Fatalf("Messages = %v, %v", msgs, err)
	}
	id := msgs[0].ID.String()

	if w := e.adminReq(t, http.MethodDelete, "/admin/messages/not-a-uuid", cookie); w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}
	if w := e.adminReq(t, http.MethodDelete, "/admin/messages/"+id, cookie); w.Code != http.StatusOK {
		t.Errorf("delete status = %d, want 200", w.Code)
	}
	if w := e.adminReq(t, http.MethodDelete, "/admin/messages/"+id, cookie); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
	if w := e.adminReq(t, http.MethodDelete, "/admin/messages/"+uuid.NewString(), cookie); w.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", w.Code)
	}
}

func TestAdminLogout(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	w := e.adminReq(t, http.MethodGet, "/admin/logout", cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login" {
		t.Fatalf("logout = %d %q", w.Code, w.Header().Get("Location"))
	}
	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == adminCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout did not clear the admin cookie")
	}
}
