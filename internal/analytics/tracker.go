// Package analytics records privacy-conscious visitor metrics: addresses are
// salted and hashed before storage, Do Not Track is honoured, and old rows
// are purged after a retention period.
package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/Zachkp/portfolio/internal/storage"
)

// Paths that are never counted as visits.
var untrackedPrefixes = []string{
	"/static/",
	"/images/",
	"/admin/",
	"/api/",
	"/favicon",
	"/privacy",
	"/healthz",
}

// Tracker writes visits and project views to the database.
type Tracker struct {
	db     *storage.DB
	salt   string
	logger *slog.Logger
	now    func() time.Time

	pending sync.WaitGroup
}

// NewTracker returns a tracker with a fresh per-process hashing salt. The
// same address hashes identically for the life of the process only.
func NewTracker(db *storage.DB, logger *slog.Logger) (*Tracker, error) {
	salt, err := randomHex(32)
	if err != nil {
		return nil, errors.Wrap(err, "generating hashing salt")
	}
	return &Tracker{
		db:     db,
		salt:   salt,
		logger: logger,
		now:    time.Now,
	}, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashIP returns a salted, truncated hash of ip.
func (t *Tracker) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + t.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// Middleware records page visits in the background.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !Trackable(path) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		t.pending.Add(1)
		go func() {
			defer t.pending.Done()
			if err := t.RecordVisit(context.Background(), ip, ua, path); err != nil {
				t.logger.Error("recording visitor", "path", path, "error", err)
			}
		}()
		c.Next()
	}
}

// Trackable reports whether visits to path are counted.
func Trackable(path string) bool {
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// Wait blocks until background writes started by Middleware have finished.
func (t *Tracker) Wait() {
	t.pending.Wait()
}

// RecordVisit stores a single visit. Only the hash of ip is written.
func (t *Tracker) RecordVisit(ctx context.Context, ip, userAgent, path string) error {
	_, err := t.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)`,
		t.HashIP(ip), userAgent, path, t.now().UTC().Format(storage.TimeFormat),
	)
	return errors.Wrap(err, "inserting visitor")
}

// RecordProjectView increments the view count of a project page.
func (t *Tracker) RecordProjectView(ctx context.Context, slug string) error {
	_, err := t.db.ExecContext(ctx, `
		INSERT INTO project_views (slug, views, last_viewed_at) VALUES (?, 1, ?)
		ON CONFLICT(slug) DO UPDATE SET views = views + 1, last_viewed_at = excluded.last_viewed_at`,
		slug, t.now().UTC().Format(storage.TimeFormat),
	)
	return errors.Wrapf(err, "recording view of %s", slug)
}

// Cleanup deletes visitor rows older than retention and returns how many
// were removed.
func (t *Tracker) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := t.now().Add(-retention).UTC().Format(storage.TimeFormat)
	res, err := t.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "deleting old visitors")
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		t.logger.Info("privacy cleanup", "removed", n, "retention", retention.String())
	}
	return n, nil
}

// RunCleanup purges old visitor data immediately and then every interval
// until ctx is cancelled.
func (t *Tracker) RunCleanup(ctx context.Context, retention, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := t.Cleanup(ctx, retention); err != nil && ctx.Err() == nil {
			t.logger.Error("privacy cleanup failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Visitor is a recorded visit as shown on the dashboard.
type Visitor struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// ProjectViews is the view count of one project page.
type ProjectViews struct {
	Slug         string    `json:"slug"`
	Views        int64     `json:"views"`
	LastViewedAt time.Time `json:"last_viewed_at"`
}

// Stats is the dashboard aggregate.
type Stats struct {
	TotalVisitors    int64          `json:"total_visitors"`
	UniqueVisitors   int64          `json:"unique_visitors"`
	VisitorsToday    int64          `json:"visitors_today"`
	VisitorsThisWeek int64          `json:"visitors_this_week"`
	TotalViews       int64          `json:"total_project_views"`
	TotalMessages    int64          `json:"total_messages"`
	TopProjects      []ProjectViews `json:"top_projects"`
	RecentVisitors   []Visitor      `json:"recent_visitors"`
}

// Stats gathers the dashboard figures.
func (t *Tracker) Stats(ctx context.Context) (*Stats, error) {
	now := t.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	stats := &Stats{}
	counts := []struct {
		dest  *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{midnight.Format(storage.TimeFormat)}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{weekAgo.Format(storage.TimeFormat)}},
		{&stats.TotalViews, `SELECT COALESCE(SUM(views), 0) FROM project_views`, nil},
		{&stats.TotalMessages, `SELECT COUNT(*) FROM messages`, nil},
	}
	for _, c := range counts {
		if err := t.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, errors.Wrapf(err, "querying %q", c.query)
		}
	}

	var err error
	if stats.TopProjects, err = t.TopProjects(ctx, 10); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = t.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}

// TopProjects returns the most viewed project pages.
func (t *Tracker) TopProjects(ctx context.Context, limit int) ([]ProjectViews, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT slug, views, COALESCE(last_viewed_at, '')
		FROM project_views
		ORDER BY views DESC, slug ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying project views")
	}
	defer rows.Close()

	var out []ProjectViews
	for rows.Next() {
		var pv ProjectViews
		var last string
		if err := rows.Scan(&pv.Slug, &pv.Views, &last); err != nil {
			return nil, errors.Wrap(err, "scanning project views")
		}
		pv.LastViewedAt = storage.ParseTime(last)
		out = append(out, pv)
	}
	return out, rows.Err()
}

// RecentVisitors returns the latest visits, newest first.
func (t *Tracker) RecentVisitors(ctx context.Context, limit int) ([]Visitor, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying visitors")
	}
	defer rows.Close()

	var out []Visitor
	for rows.Next() {
		var v Visitor
		var ts sql.NullString
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, errors.Wrap(err, "scanning visitor")
		}
		v.Timestamp = storage.ParseTime(ts.String)
		out = append(out, v)
	}
	return out, rows.Err()
}
