package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Column identifies which column of a page an item is destined for
type Column int

const (
	// ColumnLeft is the narrow sidebar column
	ColumnLeft Column = iota
	// ColumnRight is the main content column
	ColumnRight
)

func (c Column) String() string {
	switch c {
	case ColumnLeft:
		return "left"
	case ColumnRight:
		return "right"
	default:
		return fmt.Sprintf("column(%d)", int(c))
	}
}

// ParseColumn parses "left" or "right" (case-insensitive)
func ParseColumn(s string) (Column, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return ColumnLeft, nil
	case "right", "r":
		return ColumnRight, nil
	default:
		return 0, fmt.Errorf("unknown column %q", s)
	}
}

// MarshalJSON encodes the column as its name
func (c Column) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a column name
func (c *Column) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseColumn(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalYAML decodes a column name from a YAML scalar
func (c *Column) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseColumn(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Section names a resume section
type Section string

// Resume sections, in default display order
const (
	SectionPersonal       Section = "personal"
	SectionContact        Section = "contact"
	SectionAbout          Section = "about"
	SectionSkills         Section = "skills"
	SectionLanguages      Section = "languages"
	SectionLinks          Section = "links"
	SectionExperience     Section = "experience"
	SectionEducation      Section = "education"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
)

// AllSections lists every known section
var AllSections = []Section{
	SectionPersonal,
	SectionContact,
	SectionAbout,
	SectionSkills,
	SectionLanguages,
	SectionLinks,
	SectionExperience,
	SectionEducation,
	SectionProjects,
	SectionCertifications,
}

// Valid reports whether s is a known section
func (s Section) Valid() bool {
	for _, known := range AllSections {
		if s == known {
			return true
		}
	}
	return false
}

// ContentItem is an atomic renderable chunk of resume content with an
// estimated height cost. The distributor reads Column and HeightCost only;
// Payload is passed through untouched for the renderers.
type ContentItem struct {
	Key        string  `json:"key"`
	Column     Column  `json:"column"`
	HeightCost float64 `json:"height_cost"`
	Section    Section `json:"section"`
	Payload    any     `json:"-"`
}

// Page is one printable sheet: a left and a right column of items
type Page struct {
	LeftItems  []ContentItem `json:"left_items"`
	RightItems []ContentItem `json:"right_items"`
}

// IsEmpty reports whether neither column holds an item
func (p Page) IsEmpty() bool {
	return len(p.LeftItems) == 0 && len(p.RightItems) == 0
}

// Items returns the items of one column
func (p Page) Items(c Column) []ContentItem {
	if c == ColumnLeft {
		return p.LeftItems
	}
	return p.RightItems
}

// Height returns the summed height cost of one column on this page
func (p Page) Height(c Column) float64 {
	total := 0.0
	for _, item := range p.Items(c) {
		total += item.HeightCost
	}
	return total
}

// Layout is the result of one distribution run
type Layout struct {
	Template   string  `json:"template"`
	Capacity   float64 `json:"capacity"`
	Pages      []Page  `json:"pages"`
	TotalPages int     `json:"total_pages"`
}
