// Package content holds the site's static records and the read-only queries
// the pages are built from.
package content

import (
	"bytes"
	"encoding/json"
	"io"
	"io/fs"
	"slices"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/portfolio/data"
)

// Document file names inside the content directory.
const (
	PersonalFile   = "personal.json"
	ProjectsFile   = "projects.json"
	ExperienceFile = "experience.json"
	SkillsFile     = "skills.json"
)

// Store is the immutable set of records the site serves. It is safe for
// concurrent use because nothing writes to it after Load returns.
type Store struct {
	personal   Personal
	projects   []Project
	experience []ExperienceEntry
	skills     []SkillCategory
}

// Load reads and validates the four content documents from fsys. Any missing,
// malformed or invalid document is returned as an error and no store is built.
func Load(fsys fs.FS) (*Store, error) {
	var (
		personal   Personal
		projects   projectsDocument
		experience experienceDocument
		skills     skillsDocument
	)

	var g errgroup.Group
	g.Go(func() error { return decodeFile(fsys, PersonalFile, &personal) })
	g.Go(func() error { return decodeFile(fsys, ProjectsFile, &projects) })
	g.Go(func() error { return decodeFile(fsys, ExperienceFile, &experience) })
	g.Go(func() error { return decodeFile(fsys, SkillsFile, &skills) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Store{
		personal:   personal,
		projects:   projects.Projects,
		experience: experience.Experience,
		skills:     skills.Skills,
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Default loads the documents embedded in the binary.
func Default() (*Store, error) {
	return Load(data.FS)
}

// New builds a store from records already in memory. The same validation as
// Load applies.
func New(personal Personal, projects []Project, experience []ExperienceEntry, skills []SkillCategory) (*Store, error) {
	s := &Store{
		personal:   personal,
		projects:   slices.Clone(projects),
		experience: slices.Clone(experience),
		skills:     slices.Clone(skills),
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeFile(fsys fs.FS, name string, v any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return errors.Wrapf(err, "failed to read content file: %s", name)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(err, "failed to parse content file: %s", name)
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.Errorf("failed to parse content file: %s: unexpected data after document", name)
	}
	return nil
}

func (s *Store) validate() error {
	if s.personal.Name == "" {
		return errors.Errorf("%s: name is required", PersonalFile)
	}

	seen := make(map[string]int, len(s.projects))
	for i, p := range s.projects {
		if p.ID == "" {
			return errors.Errorf("%s: project at index %d missing id", ProjectsFile, i)
		}
		if first, ok := seen[p.ID]; ok {
			return errors.Errorf("%s: duplicate project id %q at index %d and %d", ProjectsFile, p.ID, first, i)
		}
		seen[p.ID] = i
	}

	seen = make(map[string]int, len(s.experience))
	for i, e := range s.experience {
		if e.ID == "" {
			return errors.Errorf("%s: experience at index %d missing id", ExperienceFile, i)
		}
		if first, ok := seen[e.ID]; ok {
			return errors.Errorf("%s: duplicate experience id %q at index %d and %d", ExperienceFile, e.ID, first, i)
		}
		seen[e.ID] = i
	}

	for i, c := range s.skills {
		if c.Category == "" {
			return errors.Errorf("%s: skill category at index %d missing name", SkillsFile, i)
		}
	}
	return nil
}

// LevelWarning describes a skill whose level falls outside 0-100.
type LevelWarning struct {
	Category string
	Skill    string
	Level    int
}

// SkillLevelWarnings lists skills with out-of-range levels. They are served
// unchanged; the list exists so operators can fix the source document.
func (s *Store) SkillLevelWarnings() []LevelWarning {
	var out []LevelWarning
	for _, c := range s.skills {
		for _, item := range c.Items {
			if item.Level < 0 || item.Level > 100 {
				out = append(out, LevelWarning{Category: c.Category, Skill: item.Name, Level: item.Level})
			}
		}
	}
	return out
}
