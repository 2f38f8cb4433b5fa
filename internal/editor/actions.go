package editor

import (
	"fmt"
	"slices"

	"github.com/jonathan/resume-builder/internal/types"
)

// Action is a typed update to one part of the resume. Apply mutates the
// working copy handed to it by the reducer, never the published state.
type Action interface {
	Name() string
	Apply(r *types.Resume) error
}

// SetPersonal replaces the personal details
type SetPersonal struct{ Personal types.Personal }

// SetContact replaces the contact block
type SetContact struct{ Contact types.Contact }

// SetAbout replaces the about-me text
type SetAbout struct{ About string }

// SetEducation replaces all education entries
type SetEducation struct{ Entries []types.Education }

// SetExperience replaces all experience entries
type SetExperience struct{ Entries []types.Experience }

// SetProjects replaces all project entries
type SetProjects struct{ Entries []types.Project }

// SetSkills replaces the skill list
type SetSkills struct{ Skills []string }

// SetLanguages replaces all language entries
type SetLanguages struct{ Entries []types.Language }

// SetLinks replaces all link entries
type SetLinks struct{ Entries []types.Link }

// SetCertifications replaces all certification entries
type SetCertifications struct{ Entries []types.Certification }

// SelectTemplate changes the selected template
type SelectTemplate struct{ Template string }

// Batch applies several actions as one update. It fails as a whole.
type Batch []Action

// RemoveEntry deletes one entry from a list section
type RemoveEntry struct {
	Section types.Section
	Index   int
}

func (SetPersonal) Name() string       { return "set_personal" }
func (SetContact) Name() string        { return "set_contact" }
func (SetAbout) Name() string          { return "set_about" }
func (SetEducation) Name() string      { return "set_education" }
func (SetExperience) Name() string     { return "set_experience" }
func (SetProjects) Name() string       { return "set_projects" }
func (SetSkills) Name() string         { return "set_skills" }
func (SetLanguages) Name() string      { return "set_languages" }
func (SetLinks) Name() string          { return "set_links" }
func (SetCertifications) Name() string { return "set_certifications" }
func (SelectTemplate) Name() string    { return "select_template" }
func (RemoveEntry) Name() string       { return "remove_entry" }
func (Batch) Name() string             { return "batch" }

func (a SetPersonal) Apply(r *types.Resume) error { r.Personal = a.Personal; return nil }
func (a SetContact) Apply(r *types.Resume) error  { r.Contact = a.Contact; return nil }
func (a SetAbout) Apply(r *types.Resume) error    { r.About = a.About; return nil }

func (a SetEducation) Apply(r *types.Resume) error {
	r.Education = slices.Clone(a.Entries)
	return nil
}

func (a SetExperience) Apply(r *types.Resume) error {
	r.Experience = make([]types.Experience, len(a.Entries))
	for i, e := range a.Entries {
		e.Highlights = slices.Clone(e.Highlights)
		r.Experience[i] = e
	}
	return nil
}

func (a SetProjects) Apply(r *types.Resume) error {
	r.Projects = make([]types.Project, len(a.Entries))
	for i, p := range a.Entries {
		p.Stack = slices.Clone(p.Stack)
		r.Projects[i] = p
	}
	return nil
}

func (a SetSkills) Apply(r *types.Resume) error {
	r.Skills = slices.Clone(a.Skills)
	return nil
}

func (a SetLanguages) Apply(r *types.Resume) error {
	r.Languages = slices.Clone(a.Entries)
	return nil
}

func (a SetLinks) Apply(r *types.Resume) error {
	r.Links = slices.Clone(a.Entries)
	return nil
}

func (a SetCertifications) Apply(r *types.Resume) error {
	r.Certifications = slices.Clone(a.Entries)
	return nil
}

func (a SelectTemplate) Apply(r *types.Resume) error {
	if a.Template == "" {
		return &ActionError{Action: a.Name(), Message: "template name is empty"}
	}
	r.Template = a.Template
	return nil
}

func (a RemoveEntry) Apply(r *types.Resume) error {
	var n int
	switch a.Section {
	case types.SectionEducation:
		n = len(r.Education)
	case types.SectionExperience:
		n = len(r.Experience)
	case types.SectionProjects:
		n = len(r.Projects)
	case types.SectionSkills:
		n = len(r.Skills)
	case types.SectionLanguages:
		n = len(r.Languages)
	case types.SectionLinks:
		n = len(r.Links)
	case types.SectionCertifications:
		n = len(r.Certifications)
	default:
		return &ActionError{Action: a.Name(), Message: fmt.Sprintf("section %q has no entries", a.Section)}
	}
	if a.Index < 0 || a.Index >= n {
		return &ActionError{Action: a.Name(), Message: fmt.Sprintf("index %d out of range for %s (%d entries)", a.Index, a.Section, n)}
	}

	i := a.Index
	switch a.Section {
	case types.SectionEducation:
		r.Education = slices.Delete(r.Education, i, i+1)
	case types.SectionExperience:
		r.Experience = slices.Delete(r.Experience, i, i+1)
	case types.SectionProjects:
		r.Projects = slices.Delete(r.Projects, i, i+1)
	case types.SectionSkills:
		r.Skills = slices.Delete(r.Skills, i, i+1)
	case types.SectionLanguages:
		r.Languages = slices.Delete(r.Languages, i, i+1)
	case types.SectionLinks:
		r.Links = slices.Delete(r.Links, i, i+1)
	case types.SectionCertifications:
		r.Certifications = slices.Delete(r.Certifications, i, i+1)
	}
	return nil
}

func (b Batch) Apply(r *types.Resume) error {
	for _, a := range b {
		if err := a.Apply(r); err != nil {
			return err
		}
	}
	return nil
}
