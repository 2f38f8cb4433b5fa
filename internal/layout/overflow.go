package layout

import (
	"math"

	"github.com/jonathan/resume-builder/internal/types"
)

// Overflow describes a page column whose estimated height exceeds capacity
type Overflow struct {
	Page     int          `json:"page"`
	Column   types.Column `json:"column"`
	Height   float64      `json:"height"`
	Capacity float64      `json:"capacity"`
	// Oversize is set when the column holds a single item that alone exceeds
	// capacity. That is accepted: items are atomic.
	Oversize bool `json:"oversize"`
}

// Excess returns how far over capacity the column is
func (o Overflow) Excess() float64 {
	return math.Max(0, o.Height-o.Capacity)
}

// CheckCapacity reports every page column over capacity.
// Violations (Oversize == false) indicate a distribution bug; oversize entries
// are expected when a single item is larger than a page.
func CheckCapacity(pages []types.Page, capacity float64) []Overflow {
	var out []Overflow
	for i, page := range pages {
		for _, col := range []types.Column{types.ColumnLeft, types.ColumnRight} {
			height := page.Height(col)
			if height <= capacity {
				continue
			}
			out = append(out, Overflow{
				Page:     i,
				Column:   col,
				Height:   height,
				Capacity: capacity,
				Oversize: len(page.Items(col)) == 1,
			})
		}
	}
	return out
}

// Violations filters out accepted oversize entries
func Violations(overflows []Overflow) []Overflow {
	var out []Overflow
	for _, o := range overflows {
		if !o.Oversize {
			out = append(out, o)
		}
	}
	return out
}
