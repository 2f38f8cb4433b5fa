package layout

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

// Block is the payload carried by every content item built from a resume.
// Heading is set on the item that opens its section.
type Block struct {
	Section types.Section
	Index   int
	Heading bool
	Value   any
}

// BuildItems derives the left and right content streams from a resume.
// Sections are visited in table order; sections without a rule or without
// content produce no items. Columns may be overridden per section.
func BuildItems(resume *types.Resume, table *HeightTable, columns map[types.Section]types.Column) (left, right []types.ContentItem) {
	if resume == nil {
		return nil, nil
	}
	if table == nil {
		table = DefaultHeightTable()
	}

	for _, section := range table.Order {
		rule, ok := table.Rule(section)
		if !ok {
			continue
		}
		if col, ok := columns[section]; ok {
			rule.Column = col
		}

		for _, item := range sectionItems(resume, section, rule) {
			if item.Column == types.ColumnLeft {
				left = append(left, item)
			} else {
				right = append(right, item)
			}
		}
	}
	return left, right
}

func sectionItems(resume *types.Resume, section types.Section, rule SectionRule) []types.ContentItem {
	entries := sectionEntries(resume, section)
	if len(entries) == 0 {
		return nil
	}

	if !rule.Split {
		return []types.ContentItem{{
			Key:        string(section),
			Column:     rule.Column,
			HeightCost: rule.Cost(len(entries)),
			Section:    section,
			Payload:    Block{Section: section, Heading: true, Value: sectionValue(resume, section)},
		}}
	}

	items := make([]types.ContentItem, 0, len(entries))
	for i, entry := range entries {
		cost := rule.PerEntry
		if i == 0 {
			cost += rule.Base
		}
		items = append(items, types.ContentItem{
			Key:        fmt.Sprintf("%s/%d", section, i),
			Column:     rule.Column,
			HeightCost: cost,
			Section:    section,
			Payload:    Block{Section: section, Index: i, Heading: i == 0, Value: entry},
		})
	}
	return items
}

// sectionEntries returns the entries of a section as a slice of values.
// Single-value sections yield one entry when set.
func sectionEntries(r *types.Resume, section types.Section) []any {
	switch section {
	case types.SectionPersonal:
		if r.Personal == (types.Personal{}) {
			return nil
		}
		return []any{r.Personal}
	case types.SectionContact:
		if r.Contact.IsZero() {
			return nil
		}
		return []any{r.Contact}
	case types.SectionAbout:
		if r.About == "" {
			return nil
		}
		return []any{r.About}
	case types.SectionSkills:
		return toAny(r.Skills)
	case types.SectionLanguages:
		return toAny(r.Languages)
	case types.SectionLinks:
		return toAny(r.Links)
	case types.SectionExperience:
		return toAny(r.Experience)
	case types.SectionEducation:
		return toAny(r.Education)
	case types.SectionProjects:
		return toAny(r.Projects)
	case types.SectionCertifications:
		return toAny(r.Certifications)
	default:
		return nil
	}
}

// sectionValue returns the whole section for non-split items
func sectionValue(r *types.Resume, section types.Section) any {
	switch section {
	case types.SectionPersonal:
		return r.Personal
	case types.SectionContact:
		return r.Contact
	case types.SectionAbout:
		return r.About
	case types.SectionSkills:
		return r.Skills
	case types.SectionLanguages:
		return r.Languages
	case types.SectionLinks:
		return r.Links
	case types.SectionExperience:
		return r.Experience
	case types.SectionEducation:
		return r.Education
	case types.SectionProjects:
		return r.Projects
	case types.SectionCertifications:
		return r.Certifications
	default:
		return nil
	}
}

func toAny[T any](in []T) []any {
	if len(in) == 0 {
		return nil
	}
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
