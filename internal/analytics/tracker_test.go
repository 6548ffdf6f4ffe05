package analytics

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/storage"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tr, err := NewTracker(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewTracker failed: %v", err)
	}
	return tr
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestHashIP(t *testing.T) {
	tr := newTestTracker(t)

	h := tr.HashIP("203.0.113.7")
	if len(h) != 16 {
		t.Errorf("hash length = %d, want 16", len(h))
	}
	if h != tr.HashIP("203.0.113.7") {
		t.Error("hash is not stable within a process")
	}
	if h == tr.HashIP("203.0.113.8") {
		t.Error("different addresses hash identically")
	}

	other := newTestTracker(t)
	if h == other.HashIP("203.0.113.7") {
		t.Error("salt is not per tracker")
	}
}

func TestTrackable(t *testing.T) {
	tests := map[string]bool{
		"/":                   true,
		"/projects/fintrack":  true,
		"/static/site.css":    false,
		"/images/profile.jpg": false,
		"/admin/dashboard":    false,
		"/api/projects":       false,
		"/favicon.ico":        false,
		"/privacy":            false,
		"/healthz":            false,
	}
	for path, want := range tests {
		if got := Trackable(path); got != want {
			t.Errorf("Trackable(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tr := newTestTracker(t)

	r := gin.New()
	r.Use(tr.Middleware())
	r.GET("/*path", func(c *gin.Context) { c.Status(http.StatusOK) })

	requests := []struct {
		path string
		dnt  bool
	}{
		{path: "/"},
		{path: "/projects/a"},
		{path: "/static/site.css"},
		{path: "/", dnt: true},
	}
	for _, rq := range requests {
		req := httptest.NewRequest(http.MethodGet, rq.path, nil)
		req.RemoteAddr = "198.51.100.4:5000"
		req.Header.Set("User-Agent", "test-agent")
		if rq.dnt {
			req.Header.Set("DNT", "1")
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	tr.Wait()

	visitors, err := tr.RecentVisitors(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentVisitors failed: %v", err)
	}
	if len(visitors) != 2 {
		t.Fatalf("recorded %d visits, want 2", len(visitors))
	}
	for _, v := range visitors {
		if v.HashedIP != tr.HashIP("198.51.100.4") {
			t.Errorf("HashedIP = %q, want hash of client address", v.HashedIP)
		}
		if v.UserAgent != "test-agent" {
			t.Errorf("UserAgent = %q", v.UserAgent)
		}
	}
}

func TestStats(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

	visits := []struct {
		at time.Time
		ip string
	}{
		{now.Add(-30 * 24 * time.Hour), "10.0.0.1"},
		{now.Add(-3 * 24 * time.Hour), "10.0.0.1"},
		{now.Add(-2 * time.Hour), "10.0.0.2"},
		{now.Add(-time.Minute), "10.0.0.3"},
	}
	for _, v := range visits {
		tr.now = fixedClock(v.at)
		if err := tr.RecordVisit(ctx, v.ip, "ua", "/"); err != nil {
			t.Fatalf("RecordVisit failed: %v", err)
		}
	}

	tr.now = fixedClock(now)
	for _, slug := range []string{"a", "b", "a", "a", "c", "b"} {
		if err := tr.RecordProjectView(ctx, slug); err != nil {
			t.Fatalf("RecordProjectView failed: %v", err)
		}
	}

	stats, err := tr.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalVisitors != 4 {
		t.Errorf("TotalVisitors = %d, want 4", stats.TotalVisitors)
	}
	if stats.UniqueVisitors != 3 {
		t.Errorf("UniqueVisitors = %d, want 3", stats.UniqueVisitors)
	}
	if stats.VisitorsToday != 2 {
		t.Errorf("VisitorsToday = %d, want 2", stats.VisitorsToday)
	}
	if stats.VisitorsThisWeek != 3 {
		t.Errorf("VisitorsThisWeek = %d, want 3", stats.VisitorsThisWeek)
	}
	if stats.TotalViews != 6 {
		t.Errorf("TotalViews = %d, want 6", stats.TotalViews)
	}
	if stats.TotalMessages != 0 {
		t.Errorf("TotalMessages = %d, want 0", stats.TotalMessages)
	}

	if len(stats.TopProjects) != 3 {
		t.Fatalf("len(TopProjects) = %d, want 3", len(stats.TopProjects))
	}
	wantOrder := []struct {
		slug  string
		views int64
	}{{"a", 3}, {"b", 2}, {"c", 1}}
	for i, w := range wantOrder {
		got := stats.TopProjects[i]
		if got.Slug != w.slug || got.Views != w.views {
			t.Errorf("TopProjects[%d] = %s/%d, want %s/%d", i, got.Slug, got.Views, w.slug, w.views)
		}
		if !got.LastViewedAt.Equal(now) {
			t.Errorf("TopProjects[%d].LastViewedAt = %v, want %v", i, got.LastViewedAt, now)
		}
	}

	if len(stats.RecentVisitors) != 4 {
		t.Fatalf("len(RecentVisitors) = %d, want 4", len(stats.RecentVisitors))
	}
	if !stats.RecentVisitors[0].Timestamp.Equal(now.Add(-time.Minute)) {
		t.Errorf("newest visit = %v, want %v", stats.RecentVisitors[0].Timestamp, now.Add(-time.Minute))
	}
}

func TestCleanup(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, age := range []time.Duration{400 * 24 * time.Hour, 370 * 24 * time.Hour, 10 * 24 * time.Hour} {
		tr.now = fixedClock(now.Add(-age))
		if err := tr.RecordVisit(ctx, "10.0.0.1", "ua", "/"); err != nil {
			t.Fatalf("RecordVisit failed: %v", err)
		}
	}

	tr.now = fixedClock(now)
	removed, err := tr.Cleanup(ctx, 365*24*time.Hour)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	visitors, err := tr.RecentVisitors(ctx, 10)
	if err != nil {
		t.Fatalf("RecentVisitors failed: %v", err)
	}
	if len(visitors) != 1 {
		t.Errorf("remaining = %d, want 1", len(visitors))
	}
}

func TestRunCleanupStopsOnCancel(t *testing.T) {
	tr := newTestTracker(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		tr.RunCleanup(ctx, time.Hour, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("RunCleanup did not return after cancel")
	}
}
