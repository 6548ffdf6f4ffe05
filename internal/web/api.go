package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/content"
)

func (s *Server) apiPersonal(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Content.Personal())
}

// apiProjects lists projects, optionally filtered with ?category=. The
// reserved values "all" and "featured" behave as on the home page.
func (s *Server) apiProjects(c *gin.Context) {
	category := c.DefaultQuery("category", content.FilterAll)
	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"projects": s.deps.Content.FilterProjectsByCategory(category),
	})
}

func (s *Server) apiFeaturedProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"projects": s.deps.Content.FeaturedProjects(),
	})
}

func (s *Server) apiProject(c *gin.Context) {
	project, ok := s.deps.Content.ProjectBySlug(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

// apiAdjacentProjects answers 200 with null neighbours for an unknown slug;
// only the lookup endpoint reports absence.
func (s *Server) apiAdjacentProjects(c *gin.Context) {
	prev, next := s.deps.Content.AdjacentProjects(c.Param("slug"))
	c.JSON(http.StatusOK, gin.H{
		"previous": prev,
		"next":     next,
	})
}

func (s *Server) apiExperience(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"experience": s.deps.Content.Experience(),
	})
}

func (s *Server) apiSkills(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"skills": s.deps.Content.SkillCategories(),
	})
}

func (s *Server) apiCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": s.deps.Content.Categories(),
		"filters":    s.deps.Content.FilterOptions(),
	})
}
