package layout

import (
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCapacity(t *testing.T) {
	pages := []types.Page{
		{LeftItems: items(types.ColumnLeft, 20, 20)},
		{LeftItems: items(types.ColumnLeft, 80)},
		{RightItems: items(types.ColumnRight, 30, 30)},
	}

	overflows := CheckCapacity(pages, 50)

	require.Len(t, overflows, 2)
	assert.Equal(t, 1, overflows[0].Page)
	assert.True(t, overflows[0].Oversize)
	assert.Equal(t, 30.0, overflows[0].Excess())

	assert.Equal(t, 2, overflows[1].Page)
	assert.Equal(t, types.ColumnRight, overflows[1].Column)
	assert.False(t, overflows[1].Oversize)

	violations := Violations(overflows)
	require.Len(t, violations, 1)
	assert.Equal(t, 2, violations[0].Page)
}

func TestCheckCapacity_NoOverflow(t *testing.T) {
	assert.Empty(t, CheckCapacity(Distribute(items(types.ColumnLeft, 10, 20), nil, 50), 50))
}
