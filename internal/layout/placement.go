package layout

import (
	"fastresume/internal/types"
)

const (
	// workEntriesOnFirstPage is how many work entries fit on page 0 by default.
	workEntriesOnFirstPage = 3
)

// Placement decides which printed page each resume entry lands on.
//
// Overrides maps an entry id to an explicit page index. Ids that no longer
// exist in the content are ignored by every calculation. ManualPages is the
// number of pages the user asked for, which may exceed what the entries need.
type Placement struct {
	Overrides   map[string]int `json:"overrides"`
	ManualPages int            `json:"manualPageCount"`
}

// NewPlacement returns a single-page placement with no overrides.
func NewPlacement() Placement {
	return Placement{
		Overrides:   make(map[string]int),
		ManualPages: 1,
	}
}

// ResolvePage returns the page for the entry with id at position index of its
// section. An override is returned as-is, even if negative or far past the
// last content page.
func (p Placement) ResolvePage(id string, index int, kind SectionKind) int {
	if page, ok := p.Overrides[id]; ok {
		return page
	}
	switch kind {
	case SectionWork:
		if index < workEntriesOnFirstPage {
			return 0
		}
		return 1
	case SectionVolunteer, SectionProject:
		return 1
	default:
		return 0
	}
}

// PageCount derives the number of resume pages from the content and the
// manual page count. It is never cached.
func (p Placement) PageCount(content types.ResumeContent) int {
	last := p.ManualPages - 1
	for _, kind := range Kinds {
		for i, e := range Section(content, kind) {
			if page := p.ResolvePage(e.ID, i, kind); page > last {
				last = page
			}
		}
	}
	return max(0, last) + 1
}

// EntriesOnPage filters entries of kind down to those resolving to page,
// keeping their original order.
func (p Placement) EntriesOnPage(entries []types.Entry, kind SectionKind, page int) []types.Entry {
	var out []types.Entry
	for i, e := range entries {
		if p.ResolvePage(e.ID, i, kind) == page {
			out = append(out, e)
		}
	}
	return out
}

// MoveToPage pins the entry id to page.
func (p *Placement) MoveToPage(id string, page int) {
	if p.Overrides == nil {
		p.Overrides = make(map[string]int)
	}
	p.Overrides[id] = page
}

// AddPage appends an empty trailing page.
func (p *Placement) AddPage() {
	p.ManualPages = max(1, p.ManualPages) + 1
}

// Prune drops overrides whose id is not present in content and reports how
// many were removed.
func (p *Placement) Prune(content types.ResumeContent) int {
	if len(p.Overrides) == 0 {
		return 0
	}
	live := make(map[string]struct{})
	for _, kind := range Kinds {
		for _, e := range Section(content, kind) {
			live[e.ID] = struct{}{}
		}
	}
	removed := 0
	for id := range p.Overrides {
		if _, ok := live[id]; !ok {
			delete(p.Overrides, id)
			removed++
		}
	}
	return removed
}

// Clone returns a copy with its own override map.
func (p Placement) Clone() Placement {
	out := Placement{
		Overrides:   make(map[string]int, len(p.Overrides)),
		ManualPages: p.ManualPages,
	}
	for id, page := range p.Overrides {
		out.Overrides[id] = page
	}
	return out
}

// ShouldShowHeader reports whether the heading for kind is printed on page.
//
// The heading is printed when the page has entries of kind and either it is
// the first page or the previous page holds no entries of kind. Only the
// immediately preceding page is examined, so a section with entries on pages
// 0 and 2 but none on 1 prints its heading again on page 2.
func (p Placement) ShouldShowHeader(pageEntries, allEntries []types.Entry, kind SectionKind, page int) bool {
	if len(pageEntries) == 0 {
		return false
	}
	if page == 0 {
		return true
	}
	for i, e := range allEntries {
		if p.ResolvePage(e.ID, i, kind) == page-1 {
			return false
		}
	}
	return true
}

// reflowDeleted rewrites overrides so the entries of target move to the
// page before it and every later entry shifts up one page.
func (p *Placement) reflowDeleted(content types.ResumeContent, target int) {
	next := p.Clone()
	for _, kind := range Kinds {
		for i, e := range Section(content, kind) {
			current := p.ResolvePage(e.ID, i, kind)
			switch {
			case current == target:
				next.Overrides[e.ID] = max(0, target-1)
			case current > target:
				next.Overrides[e.ID] = current - 1
			}
		}
	}
	next.ManualPages = max(1, p.ManualPages-1)
	*p = next
}
