package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fastresume/internal/common"
	"fastresume/internal/errors"
	"fastresume/internal/layout"
	"fastresume/internal/types"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [document.json]",
	Short: "Paginate a structured resume for print",
	Long: `Lay a structured resume out over printed pages and apply edits.

The input is either a layout document (content, placement and page settings)
or the JSON output of analyze, whose optimized resume is laid out with the
default placement and whose cover letter becomes the first cover letter page.
Edits are applied in this order:
  --undo / --redo            step through the content history kept in the document
  --add-entry KIND=JSON      append an entry to work, project or volunteer (repeatable)
  --remove-entry ID          remove an entry and its page pin (repeatable)
  --move ID=PAGE             pin an entry to a page (repeatable)
  --add-pages N              append empty pages
  --delete-page N            delete page N (1-based); entries move to the page before
  --remove-last-page         delete the final page
  --cover-letter-*           add, delete or drop cover letter pages
  --region/--font-size/...   change page settings

Deleting the only page clears the resume and asks for confirmation unless
--yes is given. Use --write to save the edited document.`,
	Args: cobra.ExactArgs(1),
	RunE: runLayout,
}

var (
	layoutConfig         common.CommandConfig
	layoutUndo           bool
	layoutRedo           bool
	layoutAddEntries     []string
	layoutRemoveEntries  []string
	layoutMoves          []string
	layoutAddPages       int
	layoutDeletePage     int
	layoutRemoveLastPage bool
	layoutYes            bool
	layoutWrite          string
	layoutCoverLetter    string
	layoutCLAddPages     int
	layoutCLDeletePage   int
	layoutCLRemoveLast   bool
	layoutRegion         string
	layoutPatch          layout.SettingsPatch
)

func init() {
	addOutputFlags(layoutCmd, &layoutConfig)
	f := layoutCmd.Flags()
	f.BoolVar(&layoutUndo, "undo", false, "Restore the content before the last edit")
	f.BoolVar(&layoutRedo, "redo", false, "Reapply the content most recently undone")
	f.StringArrayVar(&layoutAddEntries, "add-entry", nil, `Append an entry, as KIND=JSON (e.g. work='{"role":"Engineer","company":"Acme"}')`)
	f.StringArrayVar(&layoutRemoveEntries, "remove-entry", nil, "Remove the entry with this id")
	f.StringArrayVar(&layoutMoves, "move", nil, "Pin an entry to a page, as ID=PAGE (1-based)")
	f.IntVar(&layoutAddPages, "add-pages", 0, "Number of empty pages to append")
	f.IntVar(&layoutDeletePage, "delete-page", 0, "Page to delete (1-based)")
	f.BoolVar(&layoutRemoveLastPage, "remove-last-page", false, "Delete the final page")
	f.BoolVarP(&layoutYes, "yes", "y", false, "Do not ask before clearing the only page")
	f.StringVar(&layoutWrite, "write", "", "Write the edited document to this file")
	f.StringVar(&layoutCoverLetter, "cover-letter", "", "Text file to use as the first cover letter page")
	f.IntVar(&layoutCLAddPages, "cover-letter-add-pages", 0, "Number of empty cover letter pages to append")
	f.IntVar(&layoutCLDeletePage, "cover-letter-delete-page", 0, "Cover letter page to delete (1-based)")
	f.BoolVar(&layoutCLRemoveLast, "cover-letter-remove-last-page", false, "Delete the final cover letter page")
	layoutCmd.MarkFlagsMutuallyExclusive("delete-page", "remove-last-page")
	layoutCmd.MarkFlagsMutuallyExclusive("undo", "redo")
	f.StringVar(&layoutRegion, "region", "1", "Region the settings flags apply to: a page number (1-based) or cover-letter")
	layoutPatch.FontSize = f.Float64("font-size", 0, "Body font size in points")
	layoutPatch.Margin = f.Float64("margin", 0, "Page margin")
	layoutPatch.LineHeight = f.Float64("line-height", 0, "Line height multiplier")
	layoutPatch.NameSize = f.Float64("name-size", 0, "Name font size in points")
	layoutPatch.HeaderSize = f.Float64("header-size", 0, "Section header font size in points")
}

func runLayout(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	fp := common.NewFileProcessor(logger, cfg.App.MaxFileSize)
	doc, err := loadDocument(fp, args[0])
	if err != nil {
		return err
	}

	editor := layout.NewEditor(doc, cfg.Layout.PageSettings)
	if layoutCoverLetter != "" {
		text, err := fp.ReadText(layoutCoverLetter)
		if err != nil {
			return err
		}
		editor.CoverLetter().SetPage(0, text)
	}

	plan, err := applyLayoutEdits(cmd, editor)
	if err != nil {
		return err
	}

	if layoutWrite != "" {
		data, err := json.MarshalIndent(editor.Document(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
		if err := fp.WriteFile(layoutWrite, string(data)); err != nil {
			return err
		}
		logger.Info("Layout document written", "file", layoutWrite)
	}

	return common.NewOutputHandler(logger).HandleOutput(plan, layoutConfig)
}

// applyLayoutEdits applies the edit flags in their documented order.
func applyLayoutEdits(cmd *cobra.Command, editor *layout.Editor) (layout.Plan, error) {
	if layoutUndo && !editor.Undo() {
		return layout.Plan{}, errors.NewValidationError(errors.ErrCodeInvalidRequest, "nothing to undo", nil)
	}
	if layoutRedo && !editor.Redo() {
		return layout.Plan{}, errors.NewValidationError(errors.ErrCodeInvalidRequest, "nothing to redo", nil)
	}

	for _, raw := range layoutAddEntries {
		kind, entry, err := parseEntryFlag(raw)
		if err != nil {
			return layout.Plan{}, err
		}
		if _, err := editor.AddEntry(kind, entry); err != nil {
			return layout.Plan{}, errors.NewValidationError(errors.ErrCodeInvalidRequest, err.Error(), err)
		}
	}

	for _, id := range layoutRemoveEntries {
		kind, ok := layout.FindEntry(editor.Content(), id)
		if !ok {
			return layout.Plan{}, entryNotFound(id)
		}
		editor.RemoveEntry(kind, id)
	}

	for _, move := range layoutMoves {
		id, page, err := parseMove(move)
		if err != nil {
			return layout.Plan{}, err
		}
		if _, ok := layout.FindEntry(editor.Content(), id); !ok {
			return layout.Plan{}, entryNotFound(id)
		}
		editor.MoveToPage(id, page-1)
	}

	for range layoutAddPages {
		editor.AddPage()
	}

	confirm := func() bool {
		return layoutYes || confirmPrompt(cmd.InOrStdin(), cmd.ErrOrStderr(),
			"This is the only page. Clear experience, education, volunteer, projects and summary?")
	}
	var outcome string
	if layoutDeletePage != 0 {
		count := editor.PageCount()
		if layoutDeletePage < 1 || layoutDeletePage > count {
			return layout.Plan{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("page %d does not exist (document has %d pages)", layoutDeletePage, count), nil)
		}
		outcome = editor.DeletePage(layoutDeletePage-1, confirm).String()
	}
	if layoutRemoveLastPage {
		outcome = editor.RemoveLastPage(confirm).String()
	}

	if err := applyCoverLetterEdits(editor.CoverLetter()); err != nil {
		return layout.Plan{}, err
	}

	if patch := changedPatch(cmd); patch != nil {
		region, err := parseRegionFlag(layoutRegion)
		if err != nil {
			return layout.Plan{}, err
		}
		if err := validator.New().Struct(patch); err != nil {
			return layout.Plan{}, errors.NewValidationError(errors.ErrCodeInvalidRequest, "invalid page settings", err)
		}
		editor.Settings().Update(region, *patch)
	}

	plan := editor.Plan()
	plan.Outcome = outcome
	return plan, nil
}

func applyCoverLetterEdits(cl *layout.CoverLetter) error {
	for range layoutCLAddPages {
		cl.AddPage()
	}
	if layoutCLDeletePage != 0 && !cl.DeletePage(layoutCLDeletePage-1) {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("cannot delete cover letter page %d of %d; the last remaining page is kept", layoutCLDeletePage, cl.PageCount()), nil)
	}
	if layoutCLRemoveLast {
		cl.RemoveLastPage()
	}
	return nil
}

func entryNotFound(id string) error {
	return errors.NewNotFoundError(errors.ErrCodeEntryNotFound,
		fmt.Sprintf("entry %q is not in the document", id), nil)
}

// changedPatch keeps only the settings flags given on the command line.
func changedPatch(cmd *cobra.Command) *layout.SettingsPatch {
	flags := cmd.Flags()
	patch := layout.SettingsPatch{}
	pick := func(name string, v *float64) *float64 {
		if flags.Changed(name) {
			return v
		}
		return nil
	}
	patch.FontSize = pick("font-size", layoutPatch.FontSize)
	patch.Margin = pick("margin", layoutPatch.Margin)
	patch.LineHeight = pick("line-height", layoutPatch.LineHeight)
	patch.NameSize = pick("name-size", layoutPatch.NameSize)
	patch.HeaderSize = pick("header-size", layoutPatch.HeaderSize)

	if patch == (layout.SettingsPatch{}) {
		return nil
	}
	return &patch
}

// loadDocument reads a layout document, or an analysis result whose
// optimized resume and cover letter seed the content.
func loadDocument(fp *common.FileProcessor, filename string) (layout.Document, error) {
	var raw json.RawMessage
	if err := fp.ReadJSON(filename, &raw); err != nil {
		return layout.Document{}, err
	}

	var doc layout.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return layout.Document{}, errors.NewValidationError(errors.ErrCodeInvalidDocument,
			fmt.Sprintf("%s is not a layout document", filename), err)
	}

	var analysis types.AnalysisResult
	if err := json.Unmarshal(raw, &analysis); err == nil {
		if isEmptyContent(doc.Content) && !isEmptyContent(analysis.OptimizedResume) {
			doc.Content = analysis.OptimizedResume
		}
		if len(doc.CoverLetterPages) == 0 && analysis.CoverLetter != "" {
			doc.CoverLetterPages = []string{analysis.CoverLetter}
		}
	}
	if doc.Placement.Overrides == nil {
		doc.Placement.Overrides = map[string]int{}
	}
	return doc, nil
}

func isEmptyContent(c types.ResumeContent) bool {
	return c.FullName == "" && len(c.Experiences) == 0 && len(c.SchoolProjects) == 0 && len(c.Volunteer) == 0
}

// parseEntryFlag splits KIND=JSON into a section kind and an entry.
func parseEntryFlag(s string) (layout.SectionKind, types.Entry, error) {
	kindStr, body, ok := strings.Cut(s, "=")
	if !ok {
		return "", types.Entry{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid entry %q, expected KIND=JSON", s), nil)
	}
	kind, err := layout.ParseSectionKind(kindStr)
	if err != nil {
		return "", types.Entry{}, errors.NewValidationError(errors.ErrCodeInvalidRequest, err.Error(), err)
	}
	var entry types.Entry
	if err := json.Unmarshal([]byte(body), &entry); err != nil {
		return "", types.Entry{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid entry JSON for %s", kind), err)
	}
	return kind, entry, nil
}

func parseMove(s string) (string, int, error) {
	id, pageStr, ok := strings.Cut(s, "=")
	if !ok || id == "" {
		return "", 0, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid move %q, expected ID=PAGE", s), nil)
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return "", 0, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid page in move %q", s), err)
	}
	return id, page, nil
}

func parseRegionFlag(s string) (layout.Region, error) {
	if s == layout.CoverLetterRegion().String() {
		return layout.CoverLetterRegion(), nil
	}
	page, err := strconv.Atoi(s)
	if err != nil || page < 1 {
		return layout.Region{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid region %q, expected a page number or cover-letter", s), err)
	}
	return layout.ResumePage(page - 1), nil
}

func confirmPrompt(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
