package rendering

import (
	"fmt"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-builder/internal/types"
)

// PageSelector matches every page fragment in a rendered document
const PageSelector = "section." + PageClass

// CheckFragments verifies that rendered HTML holds exactly one fragment per
// layout page, ids in page order, each carrying the items the layout assigned
// to it (left column first).
func CheckFragments(html string, lay *types.Layout) error {
	if lay == nil {
		return &RenderError{Message: "no layout to check against"}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return &RenderError{Message: "failed to parse rendered HTML", Cause: err}
	}

	ids := fragmentIDs(doc)
	if len(ids) != len(lay.Pages) {
		return &RenderError{Message: fmt.Sprintf("expected %d page fragments, found %d", len(lay.Pages), len(ids))}
	}
	for i, page := range lay.Pages {
		if ids[i] != PageID(i) {
			return &RenderError{Message: fmt.Sprintf("fragment %d has id %q, want %q", i+1, ids[i], PageID(i))}
		}
		var want []string
		for _, it := range page.LeftItems {
			want = append(want, it.Key)
		}
		for _, it := range page.RightItems {
			want = append(want, it.Key)
		}
		if got := itemKeys(doc, ids[i]); !slices.Equal(got, want) {
			return &RenderError{Message: fmt.Sprintf("page %d holds items %v, layout has %v", i+1, got, want)}
		}
	}
	return nil
}

func fragmentIDs(doc *goquery.Document) []string {
	var ids []string
	doc.Find(PageSelector).Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		ids = append(ids, id)
	})
	return ids
}

func itemKeys(doc *goquery.Document, fragmentID string) []string {
	var keys []string
	doc.Find("#" + fragmentID + " .item").Each(func(_ int, s *goquery.Selection) {
		if key, ok := s.Attr("data-key"); ok {
			keys = append(keys, key)
		}
	})
	return keys
}
