package normalize

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-builder/internal/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json field names rather than Go names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check runs struct validation and converts the first failure to a ShapeError
func check(section types.Section, index int, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ShapeError{
			Section: section,
			Index:   index,
			Field:   fe.Field(),
			Reason:  reasonFor(fe),
		}
	}
	return &ShapeError{Section: section, Index: index, Reason: err.Error()}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is not a valid email address"
	case "url":
		return "is not a valid URL"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// Personal maps a personal-details object
func Personal(raw any) (types.Personal, error) {
	obj, err := object(types.SectionPersonal, -1, raw)
	if err != nil {
		return types.Personal{}, err
	}
	r := newReader(types.SectionPersonal, -1, obj)
	p := types.Personal{
		FullName:    r.str(fullNameKeys),
		Headline:    r.str(headlineKeys),
		DateOfBirth: r.str(birthKeys),
		Nationality: r.str(nationalityKeys),
		PhotoURL:    r.str(photoKeys),
	}
	// some clients split the name
	if p.FullName == "" {
		first := r.str([]string{"first_name", "firstName"})
		last := r.str([]string{"last_name", "lastName"})
		p.FullName = strings.TrimSpace(first + " " + last)
	}
	if r.err != nil {
		return types.Personal{}, r.err
	}
	if err := check(types.SectionPersonal, -1, p); err != nil {
		return types.Personal{}, err
	}
	return p, nil
}

// Contact maps a contact object
func Contact(raw any) (types.Contact, error) {
	obj, err := object(types.SectionContact, -1, raw)
	if err != nil {
		return types.Contact{}, err
	}
	r := newReader(types.SectionContact, -1, obj)
	c := types.Contact{
		Email:    r.str(emailKeys),
		Phone:    r.str(phoneKeys),
		Location: r.str(locationKeys),
		Website:  r.str(websiteKeys),
	}
	if r.err != nil {
		return types.Contact{}, r.err
	}
	if err := check(types.SectionContact, -1, c); err != nil {
		return types.Contact{}, err
	}
	return c, nil
}

// About maps the about-me text. It accepts a plain string or an object
// carrying the text under "about", "summary" or "text".
func About(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case map[string]any:
		r := newReader(types.SectionAbout, -1, v)
		s := r.str([]string{"about", "summary", "text", "description"})
		return s, r.err
	default:
		return "", &ShapeError{Section: types.SectionAbout, Index: -1, Reason: fmt.Sprintf("expected text, got %T", raw)}
	}
}

// Education maps one education entry
func Education(index int, raw any) (types.Education, error) {
	obj, err := object(types.SectionEducation, index, raw)
	if err != nil {
		return types.Education{}, err
	}
	r := newReader(types.SectionEducation, index, obj)
	e := types.Education{
		Institution: r.str(institutionKeys),
		Degree:      r.str(degreeKeys),
		Field:       r.str(fieldKeys),
		StartDate:   r.str(startKeys),
		EndDate:     r.str(endKeys),
		Grade:       r.str(gradeKeys),
	}
	if r.err != nil {
		return types.Education{}, r.err
	}
	if err := check(types.SectionEducation, index, e); err != nil {
		return types.Education{}, err
	}
	return e, nil
}

// Experience maps one work experience entry
func Experience(index int, raw any) (types.Experience, error) {
	obj, err := object(types.SectionExperience, index, raw)
	if err != nil {
		return types.Experience{}, err
	}
	r := newReader(types.SectionExperience, index, obj)
	e := types.Experience{
		Company:     r.str(companyKeys),
		Role:        r.str(roleKeys),
		Location:    r.str(locationKeys),
		StartDate:   r.str(startKeys),
		EndDate:     r.str(endKeys),
		Description: r.str(descriptionKeys),
		Highlights:  r.texts(highlightKeys),
	}
	if r.err != nil {
		return types.Experience{}, r.err
	}
	if err := check(types.SectionExperience, index, e); err != nil {
		return types.Experience{}, err
	}
	return e, nil
}

// Project maps one project entry
func Project(index int, raw any) (types.Project, error) {
	obj, err := object(types.SectionProjects, index, raw)
	if err != nil {
		return types.Project{}, err
	}
	r := newReader(types.SectionProjects, index, obj)
	p := types.Project{
		Title:       r.str(projectTitleKeys),
		URL:         r.str(urlKeys),
		Stack:       r.texts(stackKeys),
		Description: r.str(descriptionKeys),
	}
	if r.err != nil {
		return types.Project{}, r.err
	}
	if err := check(types.SectionProjects, index, p); err != nil {
		return types.Project{}, err
	}
	return p, nil
}

// Language maps one language entry. A bare string is taken as the name.
func Language(index int, raw any) (types.Language, error) {
	if s, ok := raw.(string); ok {
		raw = map[string]any{"name": s}
	}
	obj, err := object(types.SectionLanguages, index, raw)
	if err != nil {
		return types.Language{}, err
	}
	r := newReader(types.SectionLanguages, index, obj)
	l := types.Language{
		Name:        r.str(languageNameKeys),
		Proficiency: r.str(proficiencyKeys),
	}
	if r.err != nil {
		return types.Language{}, r.err
	}
	if err := check(types.SectionLanguages, index, l); err != nil {
		return types.Language{}, err
	}
	return l, nil
}

// Link maps one link entry. A bare string is taken as the URL.
func Link(index int, raw any) (types.Link, error) {
	if s, ok := raw.(string); ok {
		raw = map[string]any{"url": s}
	}
	obj, err := object(types.SectionLinks, index, raw)
	if err != nil {
		return types.Link{}, err
	}
	r := newReader(types.SectionLinks, index, obj)
	l := types.Link{
		Label: r.str(labelKeys),
		URL:   r.str(urlKeys),
	}
	if r.err != nil {
		return types.Link{}, r.err
	}
	if err := check(types.SectionLinks, index, l); err != nil {
		return types.Link{}, err
	}
	return l, nil
}

// Certification maps one certification entry
func Certification(index int, raw any) (types.Certification, error) {
	obj, err := object(types.SectionCertifications, index, raw)
	if err != nil {
		return types.Certification{}, err
	}
	r := newReader(types.SectionCertifications, index, obj)
	c := types.Certification{
		Name:   r.str(certNameKeys),
		Issuer: r.str(issuerKeys),
		Date:   r.str(certDateKeys),
		URL:    r.str(urlKeys),
	}
	if r.err != nil {
		return types.Certification{}, r.err
	}
	if err := check(types.SectionCertifications, index, c); err != nil {
		return types.Certification{}, err
	}
	return c, nil
}

// Skills maps the skills section. It accepts a list of strings, a list of
// objects with a "name", or a comma separated string. Duplicates are
// removed case-insensitively, keeping the first spelling.
func Skills(raw any) ([]string, error) {
	var names []string
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		names = strings.Split(v, ",")
	case []any:
		for i, item := range v {
			switch s := item.(type) {
			case string:
				names = append(names, s)
			case map[string]any:
				r := newReader(types.SectionSkills, i, s)
				name := r.str([]string{"name", "skill", "label"})
				if r.err != nil {
					return nil, r.err
				}
				names = append(names, name)
			default:
				return nil, &ShapeError{Section: types.SectionSkills, Index: i, Reason: fmt.Sprintf("expected text, got %T", item)}
			}
		}
	default:
		return nil, &ShapeError{Section: types.SectionSkills, Index: -1, Reason: fmt.Sprintf("expected a list, got %T", raw)}
	}

	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

// Entries maps a list section with the given entry mapper. Entries that fail
// are dropped and their errors returned alongside the usable ones.
func Entries[T any](section types.Section, raw any, fn func(int, any) (T, error)) ([]T, []error) {
	items, err := list(section, raw)
	if err != nil {
		return nil, []error{err}
	}
	var errs []error
	out := make([]T, 0, len(items))
	for i, item := range items {
		v, err := fn(i, item)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, v)
	}
	return out, errs
}
