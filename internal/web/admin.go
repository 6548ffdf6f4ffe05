package web

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Zachkp/portfolio/internal/contact"
)

const adminCookie = "admin_token"

// adminAuth redirects to the login page unless the session cookie carries
// this process's admin token.
func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) clientHash(c *gin.Context) string {
	if s.deps.Tracker == nil {
		return "untracked"
	}
	return s.deps.Tracker.HashIP(c.ClientIP())
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) adminRoutes() {
	r := s.engine
	log := s.deps.Logger

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		userOK := secureEqual(c.PostForm("username"), s.deps.Admin.Username)
		passOK := secureEqual(c.PostForm("password"), s.deps.Admin.Password)
		if !userOK || !passOK {
			log.Warn("failed admin login", "client", s.clientHash(c))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}

		c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", gin.Mode() == gin.ReleaseMode, true)
		log.Info("admin login", "client", s.clientHash(c))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", gin.Mode() == gin.ReleaseMode, true)
		log.Info("admin logout", "client", s.clientHash(c))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuth())

	admin.GET("/dashboard", func(c *gin.Context) {
		if s.deps.Tracker == nil {
			c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"title": "Dashboard"})
			return
		}
		stats, err := s.deps.Tracker.Stats(c.Request.Context())
		if err != nil {
			log.Error("loading admin stats", "error", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"title": "Dashboard",
			"stats": stats,
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		if s.deps.Tracker == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "visitor tracking disabled"})
			return
		}
		stats, err := s.deps.Tracker.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/visitors", func(c *gin.Context) {
		if s.deps.Tracker == nil {
			c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"title": "Visitors"})
			return
		}
		visitors, err := s.deps.Tracker.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			log.Error("loading visitors", "error", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"title":    "Visitors",
			"visitors": visitors,
		})
	})

	admin.GET("/messages", func(c *gin.Context) {
		if s.deps.Contact == nil {
			c.HTML(http.StatusOK, "admin-messages.html", gin.H{"title": "Messages"})
			return
		}
		msgs, err := s.deps.Contact.Messages(c.Request.Context(), 200)
		if err != nil {
			log.Error("loading messages", "error", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load messages",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{
			"title":    "Messages",
			"messages": msgs,
		})
	})

	admin.DELETE("/messages/:id", func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
			return
		}
		if s.deps.Contact == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}

		err = s.deps.Contact.Delete(c.Request.Context(), id)
		switch {
		case errors.Is(err, contact.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		case err != nil:
			log.Error("deleting message", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		default:
			log.Info("message deleted by admin", "id", id, "client", s.clientHash(c))
			c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
		}
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		if s.deps.Tracker == nil {
			c.JSON(http.StatusOK, gin.H{"message": "Visitor tracking disabled", "removed": 0})
			return
		}
		removed, err := s.deps.Tracker.Cleanup(c.Request.Context(), s.deps.Retention)
		if err != nil {
			log.Error("privacy cleanup", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Privacy cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": removed})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		if s.deps.Tracker == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "visitor tracking disabled"})
			return
		}
		stats, err := s.deps.Tracker.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		log.Info("admin stats exported", "client", s.clientHash(c))
		c.JSON(http.StatusOK, stats)
	})
}
