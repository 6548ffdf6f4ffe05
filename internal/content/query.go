package content

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Reserved filter values accepted by FilterProjectsByCategory.
const (
	FilterAll      = "all"
	FilterFeatured = "featured"
)

// FilterOption is one entry of the project filter bar.
type FilterOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Personal returns the site owner's profile.
func (s *Store) Personal() Personal {
	return s.personal
}

// Projects returns every project in canonical order.
func (s *Store) Projects() []Project {
	return slices.Clone(s.projects)
}

// ProjectBySlug returns the project whose ID equals slug exactly.
func (s *Store) ProjectBySlug(slug string) (Project, bool) {
	for _, p := range s.projects {
		if p.ID == slug {
			return p, true
		}
	}
	return Project{}, false
}

// FeaturedProjects returns the featured projects in canonical order.
func (s *Store) FeaturedProjects() []Project {
	out := make([]Project, 0, len(s.projects))
	for _, p := range s.projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// FilterProjectsByCategory returns the projects shown for a filter value.
// "all" returns everything and "featured" the featured subset; any other
// value keeps projects whose category matches exactly. No match yields an
// empty slice.
func (s *Store) FilterProjectsByCategory(category string) []Project {
	switch category {
	case FilterAll:
		return s.Projects()
	case FilterFeatured:
		return s.FeaturedProjects()
	}

	out := make([]Project, 0)
	for _, p := range s.projects {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// AdjacentProjects returns the projects before and after slug in canonical
// order. Either is nil at the ends of the list; both are nil when slug is
// unknown.
func (s *Store) AdjacentProjects(slug string) (prev, next *Project) {
	i := slices.IndexFunc(s.projects, func(p Project) bool { return p.ID == slug })
	if i > 0 {
		p := s.projects[i-1]
		prev = &p
	}
	// An unknown slug has no next project, not the first one.
	if i >= 0 && i < len(s.projects)-1 {
		n := s.projects[i+1]
		next = &n
	}
	return prev, next
}

// Experience returns the work history in document order.
func (s *Store) Experience() []ExperienceEntry {
	return slices.Clone(s.experience)
}

// SkillCategories returns the skills catalogue in document order.
func (s *Store) SkillCategories() []SkillCategory {
	return slices.Clone(s.skills)
}

// Categories returns the distinct project categories in order of first
// appearance.
func (s *Store) Categories() []string {
	var out []string
	for _, p := range s.projects {
		if p.Category != "" && !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	return out
}

// FilterOptions returns the filter bar: all, featured, then each category.
func (s *Store) FilterOptions() []FilterOption {
	opts := []FilterOption{
		{ID: FilterAll, Label: "All Projects"},
		{ID: FilterFeatured, Label: "Featured"},
	}
	for _, c := range s.Categories() {
		opts = append(opts, FilterOption{ID: c, Label: pluralLabel(CategoryLabel(c))})
	}
	return opts
}

// pluralLabel names a filter group: "Mobile App" becomes "Mobile Apps".
func pluralLabel(label string) string {
	if label == "" || strings.HasSuffix(label, "s") {
		return label
	}
	return label + "s"
}

// CategoryLabel turns a category tag such as "mobile-app" into "Mobile App".
func CategoryLabel(category string) string {
	words := strings.FieldsFunc(category, func(r rune) bool { return r == '-' || r == '_' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}
