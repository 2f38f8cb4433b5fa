// Package navigator tracks the page currently shown in a paginated preview.
package navigator

import "sync"

// ChangeFunc is called after the current page index changes
type ChangeFunc func(previous, current int)

// Navigator is a clamped page cursor. The current index always satisfies
// 0 <= current <= total-1, and total is at least 1.
// It is safe for concurrent use.
type Navigator struct {
	mu       sync.Mutex
	current  int
	total    int
	onChange ChangeFunc
}

// New returns a navigator at page 0 with the given page count
func New(total int) *Navigator {
	return &Navigator{total: max(total, 1)}
}

// OnChange registers a listener invoked whenever the current index changes.
// Passing nil removes the listener.
func (n *Navigator) OnChange(fn ChangeFunc) {
	n.mu.Lock()
	n.onChange = fn
	n.mu.Unlock()
}

// Current returns the current page index
func (n *Navigator) Current() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Total returns the page count
func (n *Navigator) Total() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.total
}

// State returns the current index and page count together
func (n *Navigator) State() (current, total int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.total
}

// GoTo moves to index, clamped into range. Out-of-range requests are not errors.
func (n *Navigator) GoTo(index int) int {
	return n.update(func(int) int { return index })
}

// Next advances one page, staying on the last page at the end
func (n *Navigator) Next() int {
	return n.update(func(cur int) int { return cur + 1 })
}

// Prev goes back one page, staying on page 0 at the start
func (n *Navigator) Prev() int {
	return n.update(func(cur int) int { return cur - 1 })
}

// update computes the target from the current index under the lock, so
// concurrent Next calls never skip or repeat a page
func (n *Navigator) update(target func(cur int) int) int {
	n.mu.Lock()
	prev := n.current
	n.current = clamp(target(prev), n.total)
	cur, fn := n.current, n.onChange
	n.mu.Unlock()

	if fn != nil && cur != prev {
		fn(prev, cur)
	}
	return cur
}

// SetTotal updates the page count after a re-layout and re-clamps the
// current index so it never points past the last page.
func (n *Navigator) SetTotal(total int) int {
	n.mu.Lock()
	n.total = max(total, 1)
	prev := n.current
	n.current = clamp(n.current, n.total)
	cur, fn := n.current, n.onChange
	n.mu.Unlock()

	if fn != nil && cur != prev {
		fn(prev, cur)
	}
	return cur
}

func clamp(index, total int) int {
	if index < 0 {
		return 0
	}
	if index > total-1 {
		return total - 1
	}
	return index
}
