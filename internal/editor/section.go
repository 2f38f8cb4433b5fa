package editor

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/normalize"
	"github.com/jonathan/resume-builder/internal/types"
)

// ActionFor builds the typed replace action for a section from a loosely
// shaped payload. Unusable list entries are dropped and returned as errors;
// a payload that cannot be used at all yields a nil action.
func ActionFor(section types.Section, raw any) (Action, []error) {
	switch section {
	case types.SectionPersonal:
		p, err := normalize.Personal(raw)
		if err != nil {
			return nil, []error{err}
		}
		return SetPersonal{Personal: p}, nil
	case types.SectionContact:
		c, err := normalize.Contact(raw)
		if err != nil {
			return nil, []error{err}
		}
		return SetContact{Contact: c}, nil
	case types.SectionAbout:
		about, err := normalize.About(raw)
		if err != nil {
			return nil, []error{err}
		}
		return SetAbout{About: about}, nil
	case types.SectionSkills:
		skills, err := normalize.Skills(raw)
		if err != nil {
			return nil, []error{err}
		}
		return SetSkills{Skills: skills}, nil
	case types.SectionEducation:
		entries, errs := normalize.Entries(section, raw, normalize.Education)
		return listAction(SetEducation{Entries: entries}, errs)
	case types.SectionExperience:
		entries, errs := normalize.Entries(section, raw, normalize.Experience)
		return listAction(SetExperience{Entries: entries}, errs)
	case types.SectionProjects:
		entries, errs := normalize.Entries(section, raw, normalize.Project)
		return listAction(SetProjects{Entries: entries}, errs)
	case types.SectionLanguages:
		entries, errs := normalize.Entries(section, raw, normalize.Language)
		return listAction(SetLanguages{Entries: entries}, errs)
	case types.SectionLinks:
		entries, errs := normalize.Entries(section, raw, normalize.Link)
		return listAction(SetLinks{Entries: entries}, errs)
	case types.SectionCertifications:
		entries, errs := normalize.Entries(section, raw, normalize.Certification)
		return listAction(SetCertifications{Entries: entries}, errs)
	default:
		return nil, []error{&ActionError{Action: "set_section", Message: fmt.Sprintf("unknown section %q", section)}}
	}
}

// listAction discards the action when the payload was not a list at all
func listAction(action Action, errs []error) (Action, []error) {
	var shapeErr *normalize.ShapeError
	if len(errs) == 1 && errors.As(errs[0], &shapeErr) && shapeErr.Index < 0 {
		return nil, errs
	}
	return action, errs
}

// Load replaces the whole resume as a single batched update
func (s *Store) Load(r *types.Resume) (Snapshot, error) {
	if r == nil {
		return s.Snapshot(), nil
	}
	batch := Batch{
		SetPersonal{Personal: r.Personal},
		SetContact{Contact: r.Contact},
		SetAbout{About: r.About},
		SetEducation{Entries: r.Education},
		SetExperience{Entries: r.Experience},
		SetProjects{Entries: r.Projects},
		SetSkills{Skills: r.Skills},
		SetLanguages{Entries: r.Languages},
		SetLinks{Entries: r.Links},
		SetCertifications{Entries: r.Certifications},
	}
	if r.Template != "" {
		batch = append(batch, SelectTemplate{Template: r.Template})
	}
	return s.Dispatch(batch)
}
