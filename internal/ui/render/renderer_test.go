package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rpeek/internal/archive"
	"github.com/kk-code-lab/rpeek/internal/filetype"
	"github.com/kk-code-lab/rpeek/internal/model"
	"github.com/kk-code-lab/rpeek/internal/preview"
	statepkg "github.com/kk-code-lab/rpeek/internal/state"
	"github.com/kk-code-lab/rpeek/internal/textutil"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	scr := tcell.NewSimulationScreen("")
	if err := scr.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	t.Cleanup(scr.Fini)
	scr.SetSize(w, h)
	return scr
}

func rowText(scr tcell.SimulationScreen, y int) string {
	w, _ := scr.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		mainc, _, _, _ := scr.GetContent(x, y)
		if mainc == 0 {
			mainc = ' '
		}
		b.WriteRune(mainc)
	}
	return strings.TrimRight(b.String(), " ")
}

func screenText(scr tcell.SimulationScreen) string {
	_, h := scr.Size()
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		rows[y] = rowText(scr, y)
	}
	return strings.Join(rows, "\n")
}

func files(names ...string) []model.FileRef {
	refs := make([]model.FileRef, len(names))
	for i, n := range names {
		refs[i] = model.FileRef{Name: n, URL: "https://files.example.com/" + n, Size: 2048}
	}
	return refs
}

func readyPreview(name string) preview.State {
	c := filetype.Classify(name)
	return preview.State{
		Status:         preview.StatusReady,
		Ref:            model.FileRef{Name: name, URL: "https://files.example.com/" + name},
		Classification: c,
		Strategy:       filetype.StrategyFor(c),
	}
}

func TestRenderListShowsFilesAndActionsMarker(t *testing.T) {
	scr := newTestScreen(t, 100, 10)
	r := NewRenderer(scr)
	state := &statepkg.AppState{
		Source:       "files.example.com",
		Files:        files("alpha.txt", "beta.zip"),
		ScreenWidth:  100,
		ScreenHeight: 10,
	}

	r.Render(state)

	header := rowText(scr, 0)
	if !strings.HasPrefix(header, "rpeek files.example.com") || !strings.Contains(header, "recent files") {
		t.Fatalf("unexpected header %q", header)
	}
	first := rowText(scr, 1)
	if !strings.Contains(first, "alpha.txt") || !strings.Contains(first, "2.0 kB") {
		t.Fatalf("first row missing name or size: %q", first)
	}
	if mainc, _, _, _ := scr.GetContent(98, 1); mainc != '⋯' {
		t.Fatalf("expected actions marker at column 98, got %q", mainc)
	}
	if !strings.Contains(rowText(scr, 2), "beta.zip") {
		t.Fatalf("second row missing: %q", rowText(scr, 2))
	}
	if status := rowText(scr, 9); !strings.HasSuffix(status, "1/2") {
		t.Fatalf("status line should show position, got %q", status)
	}
}

func TestRenderSanitizesFileNames(t *testing.T) {
	scr := newTestScreen(t, 80, 6)
	r := NewRenderer(scr)
	state := &statepkg.AppState{
		Files:        files("evil\x1b[2Jname.txt"),
		ScreenWidth:  80,
		ScreenHeight: 6,
	}
	r.Render(state)
	if row := rowText(scr, 1); !strings.Contains(row, "evil?[2Jname.txt") {
		t.Fatalf("control sequence not neutralized: %q", row)
	}
}

func TestComputeLayoutSplitsWhenWide(t *testing.T) {
	state := &statepkg.AppState{Preview: readyPreview("a.txt"), ScreenHeight: 20}
	l := ComputeLayout(state, 120, 20)
	if !l.ShowList || !l.ShowPreview {
		t.Fatalf("expected split layout, got %+v", l)
	}
	if l.ListWidth+1+l.PreviewWidth != 120 || l.PreviewStart != l.ListWidth+1 {
		t.Fatalf("widths do not add up: %+v", l)
	}
	if l.ListWidth < minListWidth {
		t.Fatalf("list narrower than minimum: %d", l.ListWidth)
	}
}

func TestComputeLayoutFullScreenPreview(t *testing.T) {
	state := &statepkg.AppState{Preview: readyPreview("a.txt"), PreviewFullScreen: true}
	if l := ComputeLayout(state, 120, 20); l.ShowList || !l.ShowPreview || l.PreviewWidth != 120 {
		t.Fatalf("expected full screen preview, got %+v", l)
	}

	state.PreviewFullScreen = false
	if l := ComputeLayout(state, 60, 20); l.ShowList {
		t.Fatalf("narrow terminals should not split, got %+v", l)
	}
}

func TestLayoutHitTesting(t *testing.T) {
	state := &statepkg.AppState{Files: files("a.txt", "b.txt")}
	l := ComputeLayout(state, 80, 10)

	if got := l.RowAt(5, 2); got != 1 {
		t.Fatalf("RowAt = %d, want 1", got)
	}
	if got := l.RowAt(5, 0); got != -1 {
		t.Fatalf("header row should not map to a list row, got %d", got)
	}
	if !l.ActionsColumn(78) || !l.ActionsColumn(79) || l.ActionsColumn(77) {
		t.Fatalf("actions column should be the last two cells")
	}
}

func TestMenuPlacementAndItems(t *testing.T) {
	state := &statepkg.AppState{
		Files: files("a.txt", "b.txt"),
		Menu: statepkg.ActionMenu{
			Open:  true,
			Index: 0,
			Items: []statepkg.MenuItem{statepkg.MenuPreview, statepkg.MenuOpenExternal, statepkg.MenuCopyURL},
		},
	}
	l := ComputeLayout(state, 80, 12)
	if !l.ShowMenu {
		t.Fatalf("expected menu to be shown")
	}
	if l.Menu.Y != 2 || l.Menu.X+l.Menu.W != 80 || l.Menu.H != 5 {
		t.Fatalf("unexpected menu rect %+v", l.Menu)
	}
	if got := l.MenuItemAt(l.Menu.X+1, l.Menu.Y+2); got != 1 {
		t.Fatalf("MenuItemAt = %d, want 1", got)
	}
	if got := l.MenuItemAt(l.Menu.X+1, l.Menu.Y); got != -1 {
		t.Fatalf("menu border should not map to an item, got %d", got)
	}
	if got := l.MenuItemAt(0, 5); got != -1 {
		t.Fatalf("outside click mapped to %d", got)
	}

	scr := newTestScreen(t, 80, 12)
	r := NewRenderer(scr)
	r.Render(state)
	if row := rowText(scr, l.Menu.Y+2); !strings.Contains(row, "Open externally") {
		t.Fatalf("menu item not drawn: %q", row)
	}
	if got, ok := r.LastLayout(); !ok || got.Menu != l.Menu {
		t.Fatalf("LastLayout does not match computed layout")
	}
}

func TestRenderTextPreview(t *testing.T) {
	scr := newTestScreen(t, 120, 10)
	r := NewRenderer(scr)
	ps := readyPreview("notes.txt")
	ps.Text = "first\tline\nsecond \x1b]0;title\x07 line\n"
	state := &statepkg.AppState{
		Files:        files("notes.txt"),
		Preview:      ps,
		PreviewLines: textutil.Lines(ps.Text, textutil.DefaultTabWidth),
		ScreenWidth:  120,
		ScreenHeight: 10,
	}

	r.Render(state)
	l, _ := r.LastLayout()
	if !l.ShowPreview {
		t.Fatalf("preview not shown")
	}
	text := screenText(scr)
	if !strings.Contains(rowText(scr, 1), "notes.txt") {
		t.Fatalf("preview title missing: %q", rowText(scr, 1))
	}
	if !strings.Contains(text, "first   line") {
		t.Fatalf("tab not expanded:\n%s", text)
	}
	if !strings.Contains(text, "second ?]0;title? line") {
		t.Fatalf("escape sequence not sanitized:\n%s", text)
	}
}

func TestRenderEmptyTextPreview(t *testing.T) {
	scr := newTestScreen(t, 100, 8)
	r := NewRenderer(scr)
	state := &statepkg.AppState{Preview: readyPreview("empty.md"), PreviewFullScreen: true, ScreenHeight: 8}
	r.Render(state)
	if !strings.Contains(screenText(scr), "(empty file)") {
		t.Fatalf("expected empty file marker:\n%s", screenText(scr))
	}
}

func TestArchiveRows(t *testing.T) {
	entries := []archive.Entry{
		{Path: "a/", IsDir: true},
		{Path: "a/c.txt", Size: 5},
		{Path: "b.txt", Size: 10},
	}
	rows := archiveRows(entries, 40)
	if len(rows) != len(entries)+statepkg.ArchiveHeaderRows {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0] != "Zip contents (3 items: 2 files, 1 folders, 15 B)" {
		t.Fatalf("unexpected summary %q", rows[0])
	}
	if rows[1] != "" {
		t.Fatalf("expected blank separator, got %q", rows[1])
	}
	if !strings.HasPrefix(rows[2], "a/ ") || strings.TrimSpace(rows[2]) != "a/" {
		t.Fatalf("directory row should have no size: %q", rows[2])
	}
	if !strings.HasPrefix(rows[3], "a/c.txt") || !strings.HasSuffix(rows[3], "5 B") {
		t.Fatalf("file row: %q", rows[3])
	}
	if textutil.DisplayWidth(rows[4]) != 40 {
		t.Fatalf("row width = %d, want 40", textutil.DisplayWidth(rows[4]))
	}
}

func TestRenderArchivePreviewScrolls(t *testing.T) {
	scr := newTestScreen(t, 60, 8)
	r := NewRenderer(scr)
	ps := readyPreview("bundle.zip")
	ps.Entries = []archive.Entry{
		{Path: "docs/", IsDir: true},
		{Path: "a.txt", Size: 1},
		{Path: "b.txt", Size: 2},
		{Path: "c.txt", Size: 3},
		{Path: "d.txt", Size: 4},
		{Path: "e.txt", Size: 5},
	}
	state := &statepkg.AppState{
		Preview:             ps,
		PreviewFullScreen:   true,
		PreviewScrollOffset: 2,
		ScreenWidth:         60,
		ScreenHeight:        8,
	}

	r.Render(state)
	if row := rowText(scr, 2); !strings.Contains(row, "docs/") {
		t.Fatalf("scrolled listing should start at the first entry, got %q", row)
	}
	if title := rowText(scr, 1); !strings.Contains(title, "3-7/8") {
		t.Fatalf("title should show scroll position, got %q", title)
	}
}

func TestRenderErrorAndLoading(t *testing.T) {
	scr := newTestScreen(t, 100, 8)
	r := NewRenderer(scr)

	ps := readyPreview("bundle.zip")
	ps.Status = preview.StatusLoading
	state := &statepkg.AppState{Preview: ps, PreviewFullScreen: true, ScreenHeight: 8}
	r.Render(state)
	if !strings.Contains(screenText(scr), "Loading…") {
		t.Fatalf("loading indicator missing:\n%s", screenText(scr))
	}

	ps.Status = preview.StatusError
	ps.Err = errors.New("boom")
	ps.ErrorMessage = preview.UserMessage(filetype.StrategyArchive)
	state.Preview = ps
	r.Render(state)
	text := screenText(scr)
	if !strings.Contains(text, "failed to load archive contents") {
		t.Fatalf("error message missing:\n%s", text)
	}
	if strings.Contains(text, "boom") {
		t.Fatalf("internal error text must not be shown:\n%s", text)
	}
}

func TestRenderEmbedCard(t *testing.T) {
	scr := newTestScreen(t, 100, 10)
	r := NewRenderer(scr)
	state := &statepkg.AppState{Preview: readyPreview("photo.png"), PreviewFullScreen: true, ScreenHeight: 10}
	r.Render(state)
	text := screenText(scr)
	if !strings.Contains(text, "Image") || !strings.Contains(text, "https://files.example.com/photo.png") {
		t.Fatalf("embed card incomplete:\n%s", text)
	}
}

func TestRenderSearchResultsSurface(t *testing.T) {
	scr := newTestScreen(t, 80, 8)
	r := NewRenderer(scr)
	state := &statepkg.AppState{
		Files:             files("recent.txt"),
		SearchActive:      true,
		SearchQuery:       "clo",
		SearchResultsOpen: true,
		SearchResults:     files("cloud.png"),
		ScreenHeight:      8,
	}
	r.Render(state)

	if row := rowText(scr, 1); !strings.HasPrefix(row, "/ clo") {
		t.Fatalf("search line: %q", row)
	}
	if row := rowText(scr, 2); !strings.Contains(row, "cloud.png") {
		t.Fatalf("result row: %q", row)
	}
	if strings.Contains(screenText(scr), "recent.txt") {
		t.Fatalf("recent files should be hidden while results are open")
	}

	theme := GetColorTheme()
	for x := 1; x <= 3; x++ {
		_, _, style, _ := scr.GetContent(x, 2)
		if fg, _, _ := style.Decompose(); fg != theme.MatchFg {
			t.Fatalf("cell %d should be highlighted, fg=%v", x, fg)
		}
	}
	_, _, after, _ := scr.GetContent(4, 2)
	if fg, _, _ := after.Decompose(); fg == theme.MatchFg {
		t.Fatalf("cell after the match should not be highlighted")
	}

	state.SearchResults = nil
	state.SearchErr = errors.New("offline")
	r.Render(state)
	if row := rowText(scr, 2); !strings.Contains(row, "search failed: offline") {
		t.Fatalf("search error row: %q", row)
	}
}

func TestRenderHelpOverlay(t *testing.T) {
	scr := newTestScreen(t, 80, 30)
	r := NewRenderer(scr)
	r.Render(&statepkg.AppState{HelpVisible: true, ClipboardAvailable: true})
	text := screenText(scr)
	for _, want := range []string{"Help", "Search the store", "Copy file link", "Close preview"} {
		if !strings.Contains(text, want) {
			t.Fatalf("help overlay missing %q:\n%s", want, text)
		}
	}
}

func TestFooterHelpSegments(t *testing.T) {
	list := buildFooterHelpText(&statepkg.AppState{})
	if !strings.Contains(list, "/: search") || strings.Contains(list, "copy link") {
		t.Fatalf("unexpected list hints %q", list)
	}
	withClipboard := buildFooterHelpText(&statepkg.AppState{ClipboardAvailable: true})
	if !strings.Contains(withClipboard, "y: copy link") {
		t.Fatalf("clipboard hint missing: %q", withClipboard)
	}
	if strings.Contains(list, "o: open") {
		t.Fatalf("open hint shown without an opener: %q", list)
	}
	if withOpener := buildFooterHelpText(&statepkg.AppState{OpenerAvailable: true}); !strings.Contains(withOpener, "o: open") {
		t.Fatalf("open hint missing: %q", withOpener)
	}
	previewHints := buildFooterHelpText(&statepkg.AppState{Preview: readyPreview("a.txt")})
	if !strings.Contains(previewHints, "Esc: close") {
		t.Fatalf("preview hints %q", previewHints)
	}
}
