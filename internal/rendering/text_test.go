package rendering

import (
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestDateRange(t *testing.T) {
	tests := []struct {
		start, end, want string
	}{
		{"", "", ""},
		{"2019", "", "2019 - Present"},
		{"2019", "present", "2019 - Present"},
		{"2019", "2021", "2019 - 2021"},
		{"", "2021", "2021"},
		{" 2019 ", " 2020 ", "2019 - 2020"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DateRange(tt.start, tt.end), "DateRange(%q, %q)", tt.start, tt.end)
	}
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "a · c", JoinNonEmpty(" · ", "a", " ", "c"))
	assert.Equal(t, "", JoinNonEmpty(", "))
}

func TestSectionTitle(t *testing.T) {
	assert.Equal(t, "About Me", SectionTitle(types.SectionAbout))
	assert.Equal(t, "hobbies", SectionTitle(types.Section("hobbies")))
}
