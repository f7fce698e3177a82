package layout

import "strings"

const pageJoiner = "\n\n"

// CoverLetter is cover-letter text split across printed pages. Page breaks
// are chosen by the user; nothing here measures text.
type CoverLetter struct {
	Pages []string `json:"pages"`
}

// NewCoverLetter puts text on a single page.
func NewCoverLetter(text string) *CoverLetter {
	return &CoverLetter{Pages: []string{text}}
}

func (c *CoverLetter) PageCount() int {
	return max(1, len(c.Pages))
}

// Text joins the pages back into one letter.
func (c *CoverLetter) Text() string {
	return strings.Join(c.Pages, pageJoiner)
}

// AddPage appends an empty page.
func (c *CoverLetter) AddPage() {
	c.Pages = append(c.Pages, "")
}

// RemoveLastPage drops the final page unless it is the only one.
func (c *CoverLetter) RemoveLastPage() bool {
	if len(c.Pages) <= 1 {
		return false
	}
	c.Pages = c.Pages[:len(c.Pages)-1]
	return true
}

// DeletePage removes page i unless it is the only page or out of range.
func (c *CoverLetter) DeletePage(i int) bool {
	if len(c.Pages) <= 1 || i < 0 || i >= len(c.Pages) {
		return false
	}
	c.Pages = append(c.Pages[:i:i], c.Pages[i+1:]...)
	return true
}

// SetPage replaces the text of page i, growing the letter if needed.
func (c *CoverLetter) SetPage(i int, text string) {
	if i < 0 {
		return
	}
	for len(c.Pages) <= i {
		c.Pages = append(c.Pages, "")
	}
	c.Pages[i] = text
}
