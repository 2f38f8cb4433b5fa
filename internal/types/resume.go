// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Resume is the canonical in-memory representation of a resume.
// It carries no behavior beyond copying; layout and rendering live elsewhere.
type Resume struct {
	Template       string          `json:"template,omitempty"`
	Personal       Personal        `json:"personal"`
	Contact        Contact         `json:"contact"`
	About          string          `json:"about,omitempty"`
	Education      []Education     `json:"education"`
	Experience     []Experience    `json:"experience"`
	Projects       []Project       `json:"projects"`
	Skills         []string        `json:"skills"`
	Languages      []Language      `json:"languages"`
	Links          []Link          `json:"links"`
	Certifications []Certification `json:"certifications"`
}

// Personal holds identity details shown in the header and personal-details block
type Personal struct {
	FullName    string `json:"full_name" validate:"required"`
	Headline    string `json:"headline,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty" validate:"omitempty,url"`
}

// Contact holds the contact block
type Contact struct {
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
}

// IsZero reports whether no contact field is set
func (c Contact) IsZero() bool {
	return c == Contact{}
}

// Education represents one education entry
type Education struct {
	Institution string `json:"institution" validate:"required"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Grade       string `json:"grade,omitempty"`
}

// Experience represents one work experience entry
type Experience struct {
	Company     string   `json:"company" validate:"required"`
	Role        string   `json:"role" validate:"required"`
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// Project represents one project entry
type Project struct {
	Title       string   `json:"title" validate:"required"`
	URL         string   `json:"url,omitempty" validate:"omitempty,url"`
	Stack       []string `json:"stack,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Language is a spoken language with an optional proficiency
type Language struct {
	Name        string `json:"name" validate:"required"`
	Proficiency string `json:"proficiency,omitempty"`
}

// Link is a labelled external link (portfolio, GitHub, LinkedIn...)
type Link struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url" validate:"required,url"`
}

// Certification represents one certification entry
type Certification struct {
	Name   string `json:"name" validate:"required"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
	URL    string `json:"url,omitempty" validate:"omitempty,url"`
}

// Clone returns a deep copy of the resume. Snapshots handed out by the editor
// store are clones, so callers may keep them without observing later edits.
func (r *Resume) Clone() *Resume {
	if r == nil {
		return nil
	}
	out := *r
	out.Education = append([]Education(nil), r.Education...)
	out.Projects = make([]Project, len(r.Projects))
	for i, p := range r.Projects {
		p.Stack = append([]string(nil), p.Stack...)
		out.Projects[i] = p
	}
	out.Experience = make([]Experience, len(r.Experience))
	for i, e := range r.Experience {
		e.Highlights = append([]string(nil), e.Highlights...)
		out.Experience[i] = e
	}
	out.Skills = append([]string(nil), r.Skills...)
	out.Languages = append([]Language(nil), r.Languages...)
	out.Links = append([]Link(nil), r.Links...)
	out.Certifications = append([]Certification(nil), r.Certifications...)
	return &out
}
