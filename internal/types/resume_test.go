package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResume_CloneIsIndependent(t *testing.T) {
	orig := &Resume{
		Personal:   Personal{FullName: "Ada Lovelace"},
		Skills:     []string{"Go"},
		Experience: []Experience{{Company: "Analytical Engines", Role: "Engineer", Highlights: []string{"Wrote the first program"}}},
		Projects:   []Project{{Title: "Notes", Stack: []string{"Ink"}}},
	}

	clone := orig.Clone()
	clone.Skills[0] = "Rust"
	clone.Experience[0].Highlights[0] = "changed"
	clone.Projects[0].Stack[0] = "Pencil"
	clone.Personal.FullName = "Someone Else"

	assert.Equal(t, "Go", orig.Skills[0])
	assert.Equal(t, "Wrote the first program", orig.Experience[0].Highlights[0])
	assert.Equal(t, "Ink", orig.Projects[0].Stack[0])
	assert.Equal(t, "Ada Lovelace", orig.Personal.FullName)
}

func TestResume_CloneNil(t *testing.T) {
	var r *Resume
	assert.Nil(t, r.Clone())
}

func TestContact_IsZero(t *testing.T) {
	assert.True(t, Contact{}.IsZero())
	assert.False(t, Contact{Email: "a@b.co"}.IsZero())
}
