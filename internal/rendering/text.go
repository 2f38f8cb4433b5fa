package rendering

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

var sectionTitles = map[types.Section]string{
	types.SectionPersonal:       "Personal Details",
	types.SectionContact:        "Contact",
	types.SectionAbout:          "About Me",
	types.SectionSkills:         "Skills",
	types.SectionLanguages:      "Languages",
	types.SectionLinks:          "Links",
	types.SectionExperience:     "Experience",
	types.SectionEducation:      "Education",
	types.SectionProjects:       "Projects",
	types.SectionCertifications: "Certifications",
}

// SectionTitle returns the display heading of a section
func SectionTitle(s types.Section) string {
	if title, ok := sectionTitles[s]; ok {
		return title
	}
	return string(s)
}

// DateRange formats a start/end pair, e.g. "2019 - Present".
// An empty end date with a start date reads as ongoing.
func DateRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "" || strings.EqualFold(end, "present"):
		return start + " - Present"
	default:
		return start + " - " + end
	}
}

// JoinNonEmpty joins the non-blank parts with sep
func JoinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
