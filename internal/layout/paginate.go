package layout

import "github.com/jonathan/resume-builder/internal/types"

// Options controls a single pagination run
type Options struct {
	Template string
	// Capacity overrides the table capacity when positive
	Capacity float64
	// Columns overrides the table's column per section
	Columns map[types.Section]types.Column
}

// Paginate builds content items from the resume and distributes them.
// Every call is a fresh distribution run; nothing is cached between calls.
func Paginate(resume *types.Resume, table *HeightTable, opts Options) *types.Layout {
	if table == nil {
		table = DefaultHeightTable()
	}
	capacity := table.Capacity
	if opts.Capacity > 0 {
		capacity = opts.Capacity
	}

	left, right := BuildItems(resume, table, opts.Columns)
	pages := Distribute(left, right, capacity)

	return &types.Layout{
		Template:   opts.Template,
		Capacity:   capacity,
		Pages:      pages,
		TotalPages: len(pages),
	}
}
