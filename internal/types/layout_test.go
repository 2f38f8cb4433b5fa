package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumn_JSON(t *testing.T) {
	item := ContentItem{Key: "skills", Column: ColumnLeft, HeightCost: 4.5, Section: SectionSkills}

	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"column":"left"`)

	var decoded ContentItem
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ColumnLeft, decoded.Column)
	assert.Equal(t, 4.5, decoded.HeightCost)
}

func TestParseColumn(t *testing.T) {
	tests := []struct {
		in      string
		want    Column
		wantErr bool
	}{
		{"left", ColumnLeft, false},
		{"RIGHT", ColumnRight, false},
		{" r ", ColumnRight, false},
		{"middle", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColumn(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPage_Height(t *testing.T) {
	page := Page{
		LeftItems:  []ContentItem{{HeightCost: 8}, {HeightCost: 1.5}},
		RightItems: []ContentItem{{HeightCost: 12}},
	}

	assert.Equal(t, 9.5, page.Height(ColumnLeft))
	assert.Equal(t, 12.0, page.Height(ColumnRight))
	assert.False(t, page.IsEmpty())
	assert.True(t, Page{}.IsEmpty())
}

func TestSection_Valid(t *testing.T) {
	assert.True(t, SectionExperience.Valid())
	assert.False(t, Section("hobbies").Valid())
}
