package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Accepted field names per concept, canonical name first
var (
	fullNameKeys    = []string{"full_name", "fullName", "name", "fullname"}
	headlineKeys    = []string{"headline", "title", "job_title", "position"}
	birthKeys       = []string{"date_of_birth", "dateOfBirth", "dob", "birth_date"}
	nationalityKeys = []string{"nationality", "citizenship"}
	photoKeys       = []string{"photo_url", "photoUrl", "photo", "avatar", "image"}

	emailKeys    = []string{"email", "email_address", "emailAddress", "mail"}
	phoneKeys    = []string{"phone", "phone_number", "phoneNumber", "mobile", "tel"}
	locationKeys = []string{"location", "address", "city"}
	websiteKeys  = []string{"website", "site", "homepage", "web"}

	institutionKeys = []string{"institution", "school", "school_name", "schoolName", "college", "university"}
	degreeKeys      = []string{"degree", "degree_name", "qualification"}
	fieldKeys       = []string{"field", "field_of_study", "fieldOfStudy", "major", "course"}
	gradeKeys       = []string{"grade", "gpa", "score"}

	companyKeys     = []string{"company", "company_name", "companyName", "employer", "organization"}
	roleKeys        = []string{"role", "position", "job_title", "jobTitle", "title"}
	descriptionKeys = []string{"description", "summary", "details"}
	highlightKeys   = []string{"highlights", "achievements", "bullets", "responsibilities"}

	projectTitleKeys = []string{"title", "name", "project_name", "projectName"}
	urlKeys          = []string{"url", "link", "href"}
	stackKeys        = []string{"stack", "tech_stack", "techStack", "technologies", "tools"}

	languageNameKeys = []string{"name", "language", "lang"}
	proficiencyKeys  = []string{"proficiency", "level", "fluency"}

	labelKeys = []string{"label", "name", "title", "platform"}

	certNameKeys = []string{"name", "title", "certification", "certificate_name"}
	issuerKeys   = []string{"issuer", "issued_by", "issuedBy", "organization", "authority"}
	certDateKeys = []string{"date", "issue_date", "issueDate", "issued_on", "year"}

	startKeys = []string{"start_date", "startDate", "from", "start", "start_year"}
	endKeys   = []string{"end_date", "endDate", "to", "end", "end_year"}
)

// object asserts that raw is a JSON object
func object(section types.Section, index int, raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case nil:
		return nil, &ShapeError{Section: section, Index: index, Reason: "entry is null"}
	default:
		return nil, &ShapeError{Section: section, Index: index, Reason: fmt.Sprintf("expected an object, got %T", raw)}
	}
}

// list asserts that raw is a JSON array. A null section is an empty list.
func list(section types.Section, raw any) ([]any, error) {
	switch v := raw.(type) {
	case []any:
		return v, nil
	case nil:
		return nil, nil
	default:
		return nil, &ShapeError{Section: section, Index: -1, Reason: fmt.Sprintf("expected a list, got %T", raw)}
	}
}

// fieldReader looks up the first present alias of a concept and records the
// first unusable value it meets.
type fieldReader struct {
	section types.Section
	index   int
	obj     map[string]any
	err     error
}

func newReader(section types.Section, index int, obj map[string]any) *fieldReader {
	return &fieldReader{section: section, index: index, obj: obj}
}

func (r *fieldReader) lookup(keys []string) (string, any, bool) {
	for _, k := range keys {
		if v, ok := r.obj[k]; ok && v != nil {
			return k, v, true
		}
	}
	return "", nil, false
}

// str reads a string concept. Numbers are accepted and formatted, since
// backends commonly send years and grades as numbers.
func (r *fieldReader) str(keys []string) string {
	key, v, ok := r.lookup(keys)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case bool:
		r.fail(key, "expected text, got a boolean")
	default:
		r.fail(key, fmt.Sprintf("expected text, got %T", v))
	}
	return ""
}

// strings reads a list-of-text concept. A single string is split on newlines.
func (r *fieldReader) texts(keys []string) []string {
	key, v, ok := r.lookup(keys)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case string:
		return splitLines(t)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				r.fail(key, fmt.Sprintf("expected a list of text, found %T", item))
				return nil
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		r.fail(key, fmt.Sprintf("expected a list of text, got %T", v))
		return nil
	}
}

func (r *fieldReader) fail(field, reason string) {
	if r.err == nil {
		r.err = &ShapeError{Section: r.section, Index: r.index, Field: field, Reason: reason}
	}
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
