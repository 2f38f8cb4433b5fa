package normalize

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	return out
}

func TestEducation_Aliases(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want types.Education
	}{
		{
			name: "canonical",
			raw:  map[string]any{"institution": "MIT", "degree": "BSc", "start_date": "2010"},
			want: types.Education{Institution: "MIT", Degree: "BSc", StartDate: "2010"},
		},
		{
			name: "school_name and from/to",
			raw:  map[string]any{"school_name": "ETH", "from": "2012", "to": "2014", "major": "CS"},
			want: types.Education{Institution: "ETH", Field: "CS", StartDate: "2012", EndDate: "2014"},
		},
		{
			name: "camelCase and numeric years",
			raw:  map[string]any{"schoolName": " Oxford ", "startDate": float64(2001), "gpa": 3.8},
			want: types.Education{Institution: "Oxford", StartDate: "2001", Grade: "3.8"},
		},
		{
			name: "json.Number years",
			raw:  map[string]any{"institution": "KTH", "start_date": json.Number("2015"), "end_date": json.Number("2019")},
			want: types.Education{Institution: "KTH", StartDate: "2015", EndDate: "2019"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Education(0, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEducation_ShapeErrors(t *testing.T) {
	tests := []struct {
		name      string
		raw       any
		wantField string
		wantMsg   string
	}{
		{"not an object", "MIT", "", "expected an object"},
		{"null", nil, "", "entry is null"},
		{"no institution", map[string]any{"degree": "BSc"}, "institution", "is required"},
		{"institution wrong type", map[string]any{"institution": []any{"x"}}, "institution", "expected text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Education(2, tt.raw)
			require.Error(t, err)
			var shapeErr *ShapeError
			require.ErrorAs(t, err, &shapeErr)
			assert.Equal(t, types.SectionEducation, shapeErr.Section)
			assert.Equal(t, 2, shapeErr.Index)
			assert.Equal(t, tt.wantField, shapeErr.Field)
			assert.Contains(t, shapeErr.Reason, tt.wantMsg)
		})
	}
}

func TestExperience_HighlightsFromStringOrList(t *testing.T) {
	got, err := Experience(0, map[string]any{
		"employer":     "Acme",
		"jobTitle":     "Engineer",
		"achievements": "- shipped v1\n- cut costs\n\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, "Engineer", got.Role)
	assert.Equal(t, []string{"shipped v1", "cut costs"}, got.Highlights)

	got, err = Experience(0, map[string]any{
		"company":    "Acme",
		"role":       "Engineer",
		"highlights": []any{"a", " ", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Highlights)

	_, err = Experience(0, map[string]any{"company": "Acme", "role": "x", "highlights": []any{1.0}})
	require.Error(t, err)
}

func TestPersonal_SplitName(t *testing.T) {
	got, err := Personal(map[string]any{"firstName": "Ada", "lastName": "Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.FullName)
}

func TestContact_InvalidEmail(t *testing.T) {
	_, err := Contact(map[string]any{"email": "not-an-email"})
	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "email", shapeErr.Field)
}

func TestLinkAndLanguage_BareStrings(t *testing.T) {
	link, err := Link(0, "https://github.com/ada")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/ada", link.URL)

	_, err = Link(0, "not a url")
	assert.Error(t, err)

	lang, err := Language(0, "French")
	require.NoError(t, err)
	assert.Equal(t, types.Language{Name: "French"}, lang)
}

func TestSkills_Shapes(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want []string
	}{
		{"list", []any{"Go", "SQL"}, []string{"Go", "SQL"}},
		{"objects", []any{map[string]any{"name": "Go"}, map[string]any{"skill": "Rust"}}, []string{"Go", "Rust"}},
		{"comma string", "Go, SQL ,, go", []string{"Go", "SQL"}},
		{"null", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Skills(tt.raw)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Skills(42.0)
	assert.Error(t, err)
}

func TestEntries_DropsBadEntriesAndKeepsGoodOnes(t *testing.T) {
	raw := []any{
		map[string]any{"title": "A"},
		"garbage",
		map[string]any{"name": "B"},
	}
	got, errs := Entries(types.SectionProjects, raw, Project)

	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "B", got[1].Title)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "projects[1]")
}

func TestEntries_NotAList(t *testing.T) {
	got, errs := Entries(types.SectionEducation, map[string]any{}, Education)
	assert.Empty(t, got)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "expected a list")
}

func TestResume_MessyDocument(t *testing.T) {
	raw := decode(t, `{
		"templateName": "modern",
		"personalDetails": {"name": "Ada Lovelace", "title": "Analyst"},
		"contactInfo": {"emailAddress": "ada@example.com", "mobile": "+44 1"},
		"aboutMe": "First programmer.",
		"work": [
			{"companyName": "Analytical Engine", "position": "Programmer", "from": "1842"},
			{"companyName": "Nowhere"}
		],
		"educations": [{"school": "Home"}],
		"skillSet": "math, poetry",
		"socialLinks": ["https://example.com/ada"],
		"certificates": [{"title": "Royal Society"}]
	}`)

	resume, report := Resume(raw)

	require.NotNil(t, resume)
	assert.Equal(t, "modern", resume.Template)
	assert.Equal(t, "Ada Lovelace", resume.Personal.FullName)
	assert.Equal(t, "Analyst", resume.Personal.Headline)
	assert.Equal(t, "ada@example.com", resume.Contact.Email)
	assert.Equal(t, "First programmer.", resume.About)
	require.Len(t, resume.Experience, 1)
	assert.Equal(t, "1842", resume.Experience[0].StartDate)
	assert.Equal(t, "Home", resume.Education[0].Institution)
	assert.Equal(t, []string{"math", "poetry"}, resume.Skills)
	assert.Equal(t, "https://example.com/ada", resume.Links[0].URL)
	assert.Equal(t, "Royal Society", resume.Certifications[0].Name)

	assert.False(t, report.OK())
	require.Len(t, report.Errors, 1)
	assert.Equal(t, types.SectionExperience, report.Errors[0].Section)
	assert.Equal(t, 1, report.Errors[0].Index)
	assert.Equal(t, "role", report.Errors[0].Field)
	assert.Error(t, report.Err())
	assert.Len(t, report.Warnings(), 1)
}

func TestResume_MissingPersonalIsReported(t *testing.T) {
	resume, report := Resume(map[string]any{"about": "x"})
	require.NotNil(t, resume)
	assert.Equal(t, "x", resume.About)
	require.False(t, report.OK())
	assert.Equal(t, types.SectionPersonal, report.Errors[0].Section)
}

func TestReport_OKWhenClean(t *testing.T) {
	_, report := Resume(map[string]any{"personal": map[string]any{"full_name": "A"}})
	assert.True(t, report.OK())
	assert.NoError(t, report.Err())
	assert.Empty(t, report.Warnings())
}

func TestShapeError_Message(t *testing.T) {
	err := &ShapeError{Section: types.SectionLinks, Index: 3, Field: "url", Reason: "is required"}
	assert.Equal(t, "shape error: links[3].url: is required", err.Error())

	err = &ShapeError{Index: -1, Reason: "bad"}
	assert.Equal(t, "shape error: (root): bad", err.Error())
}
