package layout

import "github.com/jonathan/resume-builder/internal/types"

// Distribute packs two ordered column streams into pages.
//
// Each column is packed greedily and independently: an item that would push
// the column's running height past capacity closes the current page for that
// column, unless the column is still empty on that page, in which case the item
// is placed anyway. Items are never split or reordered.
//
// The columns share a page index: page i holds the i-th left bucket and the
// i-th right bucket. When one column runs longer than the other, the shorter
// column is simply empty on the trailing pages. Left and right content on the
// same page are therefore not guaranteed to be semantically aligned.
//
// Distribute never fails. With no items at all it returns a single empty page.
func Distribute(left, right []types.ContentItem, capacity float64) []types.Page {
	leftBuckets := packColumn(left, capacity)
	rightBuckets := packColumn(right, capacity)

	n := max(len(leftBuckets), len(rightBuckets), 1)
	pages := make([]types.Page, n)
	for i := range pages {
		pages[i].LeftItems = []types.ContentItem{}
		pages[i].RightItems = []types.ContentItem{}
		if i < len(leftBuckets) {
			pages[i].LeftItems = leftBuckets[i]
		}
		if i < len(rightBuckets) {
			pages[i].RightItems = rightBuckets[i]
		}
	}
	return pages
}

// packColumn runs the greedy accumulation for a single column
func packColumn(items []types.ContentItem, capacity float64) [][]types.ContentItem {
	var buckets [][]types.ContentItem
	var current []types.ContentItem
	running := 0.0

	for _, item := range items {
		cost := item.HeightCost
		if running+cost > capacity && len(current) > 0 {
			buckets = append(buckets, current)
			current = nil
			running = 0
		}
		current = append(current, item)
		running += cost
	}

	if len(current) > 0 {
		buckets = append(buckets, current)
	}
	return buckets
}
