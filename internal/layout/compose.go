package layout

import "fastresume/internal/types"

// Profile is the block printed at the top of the first page.
type Profile struct {
	FullName    string                `json:"fullName"`
	ContactInfo string                `json:"contactInfo"`
	Summary     string                `json:"summary"`
	Education   []types.EducationItem `json:"education"`
}

// SectionView is one section's slice of a page.
type SectionView struct {
	Kind       SectionKind   `json:"kind"`
	Title      string        `json:"title"`
	ShowHeader bool          `json:"showHeader"`
	Entries    []types.Entry `json:"entries"`
}

// PageView is everything printed on one resume page.
type PageView struct {
	Index      int                   `json:"index"`
	Settings   PageSettings          `json:"settings"`
	Profile    *Profile              `json:"profile,omitempty"`
	Sections   []SectionView         `json:"sections"`
	References []types.ReferenceItem `json:"references,omitempty"`
}

// Compose lays content out over PageCount pages. Sections without entries on
// a page are left out of that page.
func Compose(content types.ResumeContent, p Placement, settings *SettingsBook) []PageView {
	count := p.PageCount(content)
	pages := make([]PageView, count)

	for i := range pages {
		page := PageView{
			Index:    i,
			Settings: settings.Get(ResumePage(i)),
			Sections: []SectionView{},
		}
		if i == 0 {
			page.Profile = &Profile{
				FullName:    content.FullName,
				ContactInfo: content.ContactInfo,
				Summary:     content.Summary,
				Education:   content.Education,
			}
		}
		for _, kind := range Kinds {
			all := Section(content, kind)
			onPage := p.EntriesOnPage(all, kind, i)
			if len(onPage) == 0 {
				continue
			}
			page.Sections = append(page.Sections, SectionView{
				Kind:       kind,
				Title:      kind.Title(),
				ShowHeader: p.ShouldShowHeader(onPage, all, kind, i),
				Entries:    onPage,
			})
		}
		if i == count-1 {
			page.References = content.References
		}
		pages[i] = page
	}
	return pages
}
