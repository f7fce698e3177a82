package layout

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"fastresume/internal/types"
)

// Document is the persisted state of a resume being laid out.
type Document struct {
	Content          types.ResumeContent     `json:"content"`
	Placement        Placement               `json:"placement"`
	Settings         map[Region]PageSettings `json:"settings,omitempty"`
	CoverLetterPages []string                `json:"coverLetterPages,omitempty"`

	// Undo and Redo carry the content history between sessions.
	Undo []types.ResumeContent `json:"undo,omitempty"`
	Redo []types.ResumeContent `json:"redo,omitempty"`
}

// MaxUndo bounds the number of content versions kept for Undo.
const MaxUndo = 50

// DeleteOutcome reports what DeletePage did.
type DeleteOutcome int

const (
	// DeleteReflowed means a page was removed and later entries shifted up.
	DeleteReflowed DeleteOutcome = iota
	// DeleteCleared means the only page was emptied after confirmation.
	DeleteCleared
	// DeleteDeclined means the only page was kept because confirmation was refused.
	DeleteDeclined
)

func (o DeleteOutcome) String() string {
	switch o {
	case DeleteReflowed:
		return "reflowed"
	case DeleteCleared:
		return "cleared"
	case DeleteDeclined:
		return "declined"
	default:
		return fmt.Sprintf("DeleteOutcome(%d)", int(o))
	}
}

// ConfirmFunc is asked before a destructive clear of the only page.
type ConfirmFunc func() bool

// Editor mutates a resume document and keeps undo/redo stacks of content
// edits. Placement and settings changes are not part of the history. An
// Editor is not safe for concurrent use.
type Editor struct {
	content     types.ResumeContent
	placement   Placement
	settings    *SettingsBook
	coverLetter *CoverLetter

	history []types.ResumeContent
	future  []types.ResumeContent

	newID func(kind SectionKind) string
}

// NewEditor loads doc. Regions missing from doc.Settings use defaults.
func NewEditor(doc Document, defaults PageSettings) *Editor {
	placement := doc.Placement.Clone()
	if placement.ManualPages < 1 {
		placement.ManualPages = 1
	}

	book := NewSettingsBook(defaults)
	for r, s := range doc.Settings {
		book.Set(r, s)
	}

	cl := &CoverLetter{Pages: slices.Clone(doc.CoverLetterPages)}
	if len(cl.Pages) == 0 {
		cl.Pages = []string{""}
	}

	return &Editor{
		content:     doc.Content.Clone(),
		placement:   placement,
		settings:    book,
		coverLetter: cl,
		history:     cloneContents(doc.Undo),
		future:      cloneContents(doc.Redo),
		newID:       defaultEntryID,
	}
}

func defaultEntryID(kind SectionKind) string {
	prefix := map[SectionKind]string{
		SectionWork:      "exp",
		SectionProject:   "proj",
		SectionVolunteer: "vol",
	}[kind]
	if prefix == "" {
		prefix = "item"
	}
	return prefix + "-" + uuid.NewString()
}

// Document snapshots the current state.
func (e *Editor) Document() Document {
	return Document{
		Content:          e.content.Clone(),
		Placement:        e.placement.Clone(),
		Settings:         e.settings.Snapshot(),
		CoverLetterPages: slices.Clone(e.coverLetter.Pages),
		Undo:             cloneContents(e.history),
		Redo:             cloneContents(e.future),
	}
}

func cloneContents(in []types.ResumeContent) []types.ResumeContent {
	if len(in) == 0 {
		return nil
	}
	out := make([]types.ResumeContent, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func (e *Editor) Content() types.ResumeContent { return e.content.Clone() }

func (e *Editor) Placement() Placement { return e.placement.Clone() }

func (e *Editor) Settings() *SettingsBook { return e.settings }

func (e *Editor) CoverLetter() *CoverLetter { return e.coverLetter }

// PageCount is the current number of resume pages.
func (e *Editor) PageCount() int {
	return e.placement.PageCount(e.content)
}

// Compose lays out the current document.
func (e *Editor) Compose() []PageView {
	return Compose(e.content, e.placement, e.settings)
}

// Plan is a document together with its composed pages.
type Plan struct {
	Document  Document   `json:"document"`
	Pages     []PageView `json:"pages"`
	PageCount int        `json:"pageCount"`
	Outcome   string     `json:"outcome,omitempty"`
	CanUndo   bool       `json:"canUndo"`
	CanRedo   bool       `json:"canRedo"`
}

// Plan snapshots the document and lays it out.
func (e *Editor) Plan() Plan {
	return Plan{
		Document:  e.Document(),
		Pages:     e.Compose(),
		PageCount: e.PageCount(),
		CanUndo:   e.CanUndo(),
		CanRedo:   e.CanRedo(),
	}
}

// Update replaces the content, recording the previous content for Undo and
// discarding anything that could be redone. Only the latest MaxUndo versions
// are kept.
func (e *Editor) Update(content types.ResumeContent) {
	e.history = append(e.history, e.content)
	if len(e.history) > MaxUndo {
		e.history = slices.Delete(e.history, 0, len(e.history)-MaxUndo)
	}
	e.future = nil
	e.content = content.Clone()
}

// Undo restores the content before the last Update.
func (e *Editor) Undo() bool {
	if len(e.history) == 0 {
		return false
	}
	last := len(e.history) - 1
	e.future = append([]types.ResumeContent{e.content}, e.future...)
	e.content = e.history[last]
	e.history = e.history[:last]
	return true
}

// Redo reapplies the content most recently undone.
func (e *Editor) Redo() bool {
	if len(e.future) == 0 {
		return false
	}
	e.history = append(e.history, e.content)
	e.content = e.future[0]
	e.future = e.future[1:]
	return true
}

func (e *Editor) CanUndo() bool { return len(e.history) > 0 }

func (e *Editor) CanRedo() bool { return len(e.future) > 0 }

// AddEntry appends entry to the section of kind, assigning an id when it has
// none, and returns the id.
func (e *Editor) AddEntry(kind SectionKind, entry types.Entry) (string, error) {
	next := e.content.Clone()
	list := entriesOf(&next, kind)
	if list == nil {
		return "", fmt.Errorf("unknown section kind %q", kind)
	}
	if entry.ID == "" {
		entry.ID = e.newID(kind)
	}
	*list = append(*list, entry)
	e.Update(next)
	return entry.ID, nil
}

// RemoveEntry deletes the entry with id from the section of kind and drops
// any placement override that no longer points at a live entry.
func (e *Editor) RemoveEntry(kind SectionKind, id string) bool {
	next := e.content.Clone()
	list := entriesOf(&next, kind)
	if list == nil {
		return false
	}
	i := slices.IndexFunc(*list, func(en types.Entry) bool { return en.ID == id })
	if i < 0 {
		return false
	}
	*list = slices.Delete(*list, i, i+1)
	e.Update(next)
	e.placement.Prune(e.content)
	return true
}

// MoveToPage pins the entry id to page.
func (e *Editor) MoveToPage(id string, page int) {
	e.placement.MoveToPage(id, page)
}

// AddPage appends an empty resume page.
func (e *Editor) AddPage() {
	e.placement.AddPage()
}

// DeletePage removes resume page target.
//
// With a single page, confirm decides whether experiences, education,
// volunteer entries, school projects and the summary are cleared. Otherwise
// entries on target move to the previous page (page 0 stays on 0), later
// entries shift up one page and the manual page count drops by one.
func (e *Editor) DeletePage(target int, confirm ConfirmFunc) DeleteOutcome {
	if e.PageCount() == 1 {
		if confirm == nil || !confirm() {
			return DeleteDeclined
		}
		cleared := e.content.Clone()
		cleared.Experiences = []types.Entry{}
		cleared.Education = []types.EducationItem{}
		cleared.Volunteer = []types.Entry{}
		cleared.SchoolProjects = []types.Entry{}
		cleared.Summary = ""
		e.Update(cleared)
		return DeleteCleared
	}

	e.placement.reflowDeleted(e.content, target)
	return DeleteReflowed
}

// RemoveLastPage deletes the final resume page.
func (e *Editor) RemoveLastPage(confirm ConfirmFunc) DeleteOutcome {
	return e.DeletePage(e.PageCount()-1, confirm)
}
