package content

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Personal is the site owner's profile. Exactly one exists per store.
type Personal struct {
	Name              string            `json:"name"`
	Role              string            `json:"role"`
	Bio               string            `json:"bio"`
	Location          string            `json:"location"`
	YearsOfExperience Text              `json:"yearsOfExperience"`
	Availability      string            `json:"availability"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	Social            map[string]string `json:"social"`
	ProfileImage      string            `json:"profileImage"`
	Resume            string            `json:"resume"`
}

// Project is a showcased piece of work, addressed by its ID (the slug).
type Project struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	ShortDescription string            `json:"shortDescription"`
	Description      string            `json:"description"`
	Category         string            `json:"category"`
	Year             Text              `json:"year"`
	Featured         bool              `json:"featured"`
	Tags             []string          `json:"tags"`
	Links            map[string]string `json:"links"`
	Thumbnail        string            `json:"thumbnail"`
	Images           []string          `json:"images"`
	Content          ProjectContent    `json:"content"`
}

// ProjectContent is the long-form case study shown on a project's detail page.
type ProjectContent struct {
	Problem      string   `json:"problem"`
	Solution     string   `json:"solution"`
	Process      []string `json:"process"`
	Features     []string `json:"features"`
	Technologies []string `json:"technologies"`
	Results      string   `json:"results"`
}

// ExperienceEntry is one position in the work history.
type ExperienceEntry struct {
	ID           string   `json:"id"`
	Role         string   `json:"role"`
	Company      string   `json:"company"`
	Logo         string   `json:"logo"`
	Duration     string   `json:"duration"`
	Type         string   `json:"type"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
	Technologies []string `json:"technologies"`
}

// SkillCategory groups skills under a heading.
type SkillCategory struct {
	Category string  `json:"category"`
	Items    []Skill `json:"items"`
}

// Skill is a single proficiency. Level is a percentage and is not clamped.
type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	Icon  string `json:"icon"`
}

// Text is a string field that existing documents write either as a JSON
// string or as a bare number ("2024" and 2024 are both accepted).
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Errorf("expected string or number, got %s", b)
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string { return string(t) }

type projectsDocument struct {
	Projects []Project `json:"projects"`
}

type experienceDocument struct {
	Experience []ExperienceEntry `json:"experience"`
}

type skillsDocument struct {
	Skills []SkillCategory `json:"skills"`
}
