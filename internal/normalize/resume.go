package normalize

import (
	"github.com/jonathan/resume-builder/internal/types"
)

// top-level aliases per section
var sectionKeys = map[types.Section][]string{
	types.SectionPersonal:       {"personal", "personal_details", "personalDetails", "profile"},
	types.SectionContact:        {"contact", "contact_info", "contactInfo", "contacts"},
	types.SectionAbout:          {"about", "about_me", "aboutMe", "summary"},
	types.SectionEducation:      {"education", "educations"},
	types.SectionExperience:     {"experience", "experiences", "work_experience", "workExperience", "work"},
	types.SectionProjects:       {"projects", "project"},
	types.SectionSkills:         {"skills", "skill_set", "skillSet"},
	types.SectionLanguages:      {"languages", "spoken_languages"},
	types.SectionLinks:          {"links", "social_links", "socialLinks", "profiles"},
	types.SectionCertifications: {"certifications", "certificates", "certs"},
}

var templateKeys = []string{"template", "template_name", "templateName"}

// SectionRaw returns the raw value of a section under any accepted alias
func SectionRaw(raw map[string]any, section types.Section) any {
	for _, k := range sectionKeys[section] {
		if v, ok := raw[k]; ok {
			return v
		}
	}
	return nil
}

// Resume maps a loosely shaped resume document. The result is always
// non-nil: unusable sections and entries are left out and described in the
// report. A missing personal section is reported since the name is required.
func Resume(raw map[string]any) (*types.Resume, *Report) {
	report := &Report{}
	out := &types.Resume{}

	r := newReader("", -1, raw)
	out.Template = r.str(templateKeys)
	if r.err != nil {
		report.add(r.err)
	}

	var err error
	if out.Personal, err = Personal(SectionRaw(raw, types.SectionPersonal)); err != nil {
		report.add(err)
	}
	if v := SectionRaw(raw, types.SectionContact); v != nil {
		if out.Contact, err = Contact(v); err != nil {
			report.add(err)
		}
	}
	if out.About, err = About(SectionRaw(raw, types.SectionAbout)); err != nil {
		report.add(err)
	}
	if out.Skills, err = Skills(SectionRaw(raw, types.SectionSkills)); err != nil {
		report.add(err)
	}

	var errs []error
	out.Education, errs = Entries(types.SectionEducation, SectionRaw(raw, types.SectionEducation), Education)
	report.addAll(errs)
	out.Experience, errs = Entries(types.SectionExperience, SectionRaw(raw, types.SectionExperience), Experience)
	report.addAll(errs)
	out.Projects, errs = Entries(types.SectionProjects, SectionRaw(raw, types.SectionProjects), Project)
	report.addAll(errs)
	out.Languages, errs = Entries(types.SectionLanguages, SectionRaw(raw, types.SectionLanguages), Language)
	report.addAll(errs)
	out.Links, errs = Entries(types.SectionLinks, SectionRaw(raw, types.SectionLinks), Link)
	report.addAll(errs)
	out.Certifications, errs = Entries(types.SectionCertifications, SectionRaw(raw, types.SectionCertifications), Certification)
	report.addAll(errs)

	return out, report
}

func (r *Report) addAll(errs []error) {
	for _, err := range errs {
		r.add(err)
	}
}
