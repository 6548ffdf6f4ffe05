// Package web serves the portfolio: HTML pages and HTMX fragments, a JSON
// API over the content store, and the admin dashboard.
package web

import (
	"crypto/rand"
	"embed"
	"encoding/hex"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Deps are the collaborators the server needs. Tracker may be nil when
// visitor tracking is disabled.
type Deps struct {
	Content   *content.Store
	Tracker   *analytics.Tracker
	Contact   *contact.Service
	Admin     config.Admin
	ImagesDir string
	Logger    *slog.Logger

	// Retention is used by the on-demand privacy cleanup.
	Retention time.Duration
}

// Server holds the gin engine and the per-process admin session token.
type Server struct {
	deps       Deps
	engine     *gin.Engine
	adminToken string
}

// New builds the router. gin's mode must be set by the caller beforehand.
func New(deps Deps) (*Server, error) {
	if deps.Content == nil {
		return nil, errors.New("web: content store is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Retention <= 0 {
		deps.Retention = 365 * 24 * time.Hour
	}

	token, err := generateToken()
	if err != nil {
		return nil, errors.Wrap(err, "generating admin token")
	}

	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parsing templates")
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, errors.Wrap(err, "mounting static assets")
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if deps.Tracker != nil {
		r.Use(deps.Tracker.Middleware())
	}
	r.SetHTMLTemplate(tmpl)

	r.StaticFS("/static", http.FS(static))
	if deps.ImagesDir != "" {
		r.Static("/images", deps.ImagesDir)
	}

	s := &Server{deps: deps, engine: r, adminToken: token}
	s.routes()

	deps.Logger.Info("admin access available", "path", "/admin/login")
	if gin.Mode() == gin.DebugMode {
		deps.Logger.Debug("admin token (dev only)", "token", token)
	}
	if deps.Admin.DefaultCredentials() {
		deps.Logger.Warn("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
	}
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.engine

	r.GET("/", s.home)
	r.GET("/projects", s.projectGrid)
	r.GET("/projects/:slug", s.projectDetail)
	r.GET("/resume", s.resume)
	r.GET("/contact-form", s.contactForm)
	r.POST("/contact", s.submitContact)
	r.GET("/privacy", s.privacy)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/personal", s.apiPersonal)
	api.GET("/projects", s.apiProjects)
	api.GET("/projects/featured", s.apiFeaturedProjects)
	api.GET("/projects/:slug", s.apiProject)
	api.GET("/projects/:slug/adjacent", s.apiAdjacentProjects)
	api.GET("/experience", s.apiExperience)
	api.GET("/skills", s.apiSkills)
	api.GET("/categories", s.apiCategories)

	s.adminRoutes()

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		s.notFound(c)
	})
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
