package web

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
)

func funcMap() template.FuncMap {
	title := cases.Title(language.English)
	return template.FuncMap{
		"categoryLabel": content.CategoryLabel,
		"linkLabel":     func(kind string) string { return title.String(kind) },
		"inc":           func(i int) int { return i + 1 },
		"join":          strings.Join,
		"firstN": func(n int, items []string) []string {
			if len(items) > n {
				return items[:n]
			}
			return items
		},
	}
}

// filterParam reads the project filter from the query string. The choice
// lives in the request, never in server state.
func filterParam(c *gin.Context) string {
	f := strings.TrimSpace(c.Query("filter"))
	if f == "" {
		return content.FilterAll
	}
	return f
}

func (s *Server) home(c *gin.Context) {
	store := s.deps.Content
	filter := filterParam(c)

	c.HTML(http.StatusOK, "index.html", gin.H{
		"title":           store.Personal().Name + " - " + store.Personal().Role,
		"personal":        store.Personal(),
		"roles":           HeroRoles,
		"filters":         store.FilterOptions(),
		"filter":          filter,
		"projects":        store.FilterProjectsByCategory(filter),
		"experience":      store.Experience(),
		"skills":          store.SkillCategories(),
		"projectsIntro":   ProjectsIntro,
		"experienceIntro": ExperienceIntro,
		"skillsIntro":     SkillsIntro,
		"contactIntro":    ContactIntro,
		"availability":    AvailabilityNote,
	})
}

// projectGrid renders only the filtered project cards for HTMX swaps.
func (s *Server) projectGrid(c *gin.Context) {
	store := s.deps.Content
	filter := filterParam(c)

	c.HTML(http.StatusOK, "projects-grid.html", gin.H{
		"filters":  store.FilterOptions(),
		"filter":   filter,
		"projects": store.FilterProjectsByCategory(filter),
	})
}

func (s *Server) projectDetail(c *gin.Context) {
	store := s.deps.Content
	slug := c.Param("slug")

	project, ok := store.ProjectBySlug(slug)
	if !ok {
		s.notFound(c)
		return
	}
	prev, next := store.AdjacentProjects(slug)

	if s.deps.Tracker != nil && c.GetHeader("DNT") != "1" {
		if err := s.deps.Tracker.RecordProjectView(c.Request.Context(), slug); err != nil {
			s.deps.Logger.Error("recording project view", "slug", slug, "error", err)
		}
	}

	c.HTML(http.StatusOK, "project.html", gin.H{
		"title":    project.Title + " - " + store.Personal().Name,
		"personal": store.Personal(),
		"project":  project,
		"prev":     prev,
		"next":     next,
	})
}

func (s *Server) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not-found.html", gin.H{
		"title":    "Project Not Found",
		"personal": s.deps.Content.Personal(),
	})
}

func (s *Server) resume(c *gin.Context) {
	ref := s.deps.Content.Personal().Resume
	if ref == "" {
		s.notFound(c)
		return
	}
	c.Redirect(http.StatusFound, ref)
}

func (s *Server) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"title": "Contact Me",
	})
}

func (s *Server) submitContact(c *gin.Context) {
	if s.deps.Contact == nil {
		c.HTML(http.StatusServiceUnavailable, "contact-error.html", gin.H{
			"error": ContactFailure,
		})
		return
	}

	_, err := s.deps.Contact.Submit(c.Request.Context(),
		c.PostForm("fullName"), c.PostForm("email"), c.PostForm("message"))

	var verr *contact.ValidationError
	switch {
	case err == nil:
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": ContactSuccess,
		})
	case errors.As(err, &verr):
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title":  "Contact Me",
			"errors": verr.Fields,
			"values": gin.H{
				"fullName": c.PostForm("fullName"),
				"email":    c.PostForm("email"),
				"message":  c.PostForm("message"),
			},
		})
	default:
		// Submit has already logged and stored the failed message.
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": ContactFailure,
		})
	}
}

func (s *Server) privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"title":    "Privacy Policy",
		"personal": s.deps.Content.Personal(),
		"tracking": s.deps.Tracker != nil,
	})
}
