package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Joseda-hg/lazydiary/internal/db"
	"github.com/Joseda-hg/lazydiary/internal/journal"
	"github.com/Joseda-hg/lazydiary/internal/model"
	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
)

const (
	viewHeader  = "header"
	viewFooter  = "footer"
	viewPages   = "pages"
	viewTasks   = "tasks"
	viewDetail  = "detail"
	viewHistory = "history"
	viewSearch  = "search"
	viewForm    = "form"
	viewHelp    = "help"
)

var listViews = []string{viewPages, viewTasks, viewHistory}

type UI struct {
	store  *db.Store
	engine *journal.Engine
	gui    *gocui.Gui

	diary model.Diary
	note  string
	query string

	pages   []model.Page
	tasks   []model.InstanceRow
	history []model.HistoryEntry

	selectedPage    int
	selectedTask    int
	selectedHistory int
	focus           string

	form         *formState
	formEditor   *formEditor
	searchActive bool
	helpActive   bool
	status       string
}

type formState struct {
	instanceID int64
	pageID     int64
	fields     []formField
	index      int
}

type formEditor struct {
	ui *UI
}

// Run opens the terminal UI on one diary.
func Run(store *db.Store, engine *journal.Engine, diaryID int64) error {
	diary, err := store.GetDiary(context.Background(), diaryID)
	if err != nil {
		return err
	}

	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := newUI(store, engine, diary)
	ui.gui = gui
	gui.Mouse = true

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	if err := ui.loadPages(); err != nil {
		return err
	}
	ui.selectToday()
	if err := ui.loadTasks(); err != nil {
		return err
	}

	if err := gui.MainLoop(); err != nil && !goerrors.Is(err, gocui.ErrQuit) {
		return err
	}

	return nil
}

func newUI(store *db.Store, engine *journal.Engine, diary model.Diary) *UI {
	ui := &UI{
		store:  store,
		engine: engine,
		diary:  diary,
		focus:  viewTasks,
	}
	ui.formEditor = &formEditor{ui: ui}
	return ui
}

type binding struct {
	view    string
	key     any
	handler func(*gocui.Gui, *gocui.View) error
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	bindings := []binding{
		{"", gocui.KeyCtrlC, u.quit},
		{"", 'q', u.quit},
		{"", 'r', u.reload},
		{"", 'n', u.newTodayPage},
		{"", 'c', u.copyToToday},
		{"", 'a', u.addTask},
		{"", 'e', u.editTask},
		{"", 'd', u.deleteTask},
		{"", 'x', u.completeTask},
		{"", 'D', u.markDeleted},
		{"", 'h', u.refreshHistory},
		{"", '/', u.startSearch},
		{"", '?', u.toggleHelp},
		{"", gocui.KeyTab, u.switchFocus},
		{"", '1', u.focusPages},
		{"", '2', u.focusTasks},
		{"", '3', u.focusHistory},
		{viewSearch, gocui.KeyEnter, u.submitSearch},
		{viewSearch, gocui.KeyEsc, u.cancelSearch},
		{viewForm, gocui.KeyEnter, u.submitFormNow},
		{viewForm, gocui.KeyTab, u.nextFormField},
		{viewForm, gocui.KeyBacktab, u.prevFormField},
		{viewForm, gocui.KeyArrowDown, u.nextFormField},
		{viewForm, gocui.KeyArrowUp, u.prevFormField},
		{viewForm, gocui.KeyEsc, u.cancelForm},
		{viewHelp, gocui.KeyEsc, u.closeHelp},
		{viewHelp, 'q', u.closeHelp},
		{viewHelp, '?', u.closeHelp},
	}
	for _, name := range listViews {
		bindings = append(bindings,
			binding{name, gocui.KeyArrowDown, u.moveDown},
			binding{name, 'j', u.moveDown},
			binding{name, gocui.KeyArrowUp, u.moveUp},
			binding{name, 'k', u.moveUp},
			binding{name, gocui.MouseWheelUp, u.scrollUp},
			binding{name, gocui.MouseWheelDown, u.scrollDown},
		)
	}

	for _, b := range bindings {
		if err := gui.SetKeybinding(b.view, b.key, gocui.ModNone, b.handler); err != nil {
			return err
		}
	}

	for _, name := range listViews {
		viewName := name
		if err := gui.SetViewClickBinding(&gocui.ViewMouseBinding{ViewName: viewName, Key: gocui.MouseLeft, Handler: func(opts gocui.ViewMouseBindingOpts) error {
			return u.onListClick(gui, viewName, opts)
		}}); err != nil {
			return err
		}
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.Wrap = true
	u.renderHeader(headerView)

	footerY1 := max(maxY-2, 1)
	footerY0 := max(footerY1-2, 1)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom < bodyTop {
		return nil
	}

	split := computeLayout(maxX, bodyBottom-bodyTop+1)
	leftX1 := split.leftWidth - 1
	rightX0 := min(leftX1+1, maxX-1)
	rightX1 := maxX - 1
	tasksY1 := bodyTop + split.tasksHeight - 1
	detailY1 := tasksY1 + split.detailHeight

	pagesView, err := gui.SetView(viewPages, 0, bodyTop, leftX1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		pagesView.Title = "1 Pages"
	}
	applyViewStyle(pagesView, u.focus == viewPages, true)
	u.renderPages(pagesView)

	tasksView, err := gui.SetView(viewTasks, rightX0, bodyTop, rightX1, tasksY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	tasksView.Title = "2 Tasks"
	if page := u.currentPage(); page != nil {
		tasksView.Title = "2 Tasks " + model.FormatDate(page.Date)
	}
	applyViewStyle(tasksView, u.focus == viewTasks, true)
	u.renderTasks(tasksView)

	detailView, err := gui.SetView(viewDetail, rightX0, tasksY1+1, rightX1, detailY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		detailView.Title = "Detail"
		detailView.Wrap = true
	}
	applyViewStyle(detailView, false, false)
	u.renderDetail(detailView)

	historyView, err := gui.SetView(viewHistory, rightX0, detailY1+1, rightX1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		historyView.Title = "3 History"
	}
	applyViewStyle(historyView, u.focus == viewHistory, true)
	u.renderHistory(historyView)

	_, _ = gui.SetViewOnTop(viewHeader)
	_, _ = gui.SetViewOnTop(viewFooter)

	if u.searchActive {
		if err := u.showSearch(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewSearch)
	}

	if u.form != nil {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	if gui.CurrentView() == nil {
		_, _ = gui.SetCurrentView(u.focus)
	}

	gui.Cursor = u.searchActive || u.form != nil

	return nil
}

type layout struct {
	leftWidth    int
	tasksHeight  int
	detailHeight int
}

func computeLayout(width, height int) layout {
	safeWidth := max(width-2, 20)
	safeHeight := max(height, 9)

	leftWidth := max(safeWidth/4, 16)
	if leftWidth > safeWidth-20 {
		leftWidth = safeWidth / 2
	}

	tasksHeight := max(int(float64(safeHeight)*0.5), 4)
	detailHeight := max(int(float64(safeHeight)*0.2), 3)
	if safeHeight-tasksHeight-detailHeight < 3 {
		tasksHeight = max(safeHeight-detailHeight-3, 3)
	}

	return layout{leftWidth: leftWidth, tasksHeight: tasksHeight, detailHeight: detailHeight}
}

// loadPages refreshes the diary's page list and keeps the selection on the
// same page id when it still exists.
func (u *UI) loadPages() error {
	var selectedID int64
	if page := u.currentPage(); page != nil {
		selectedID = page.ID
	}

	pages, err := u.store.ListPagesByDiary(context.Background(), u.diary.ID)
	if err != nil {
		return err
	}
	u.pages = pages

	u.selectedPage = min(u.selectedPage, max(len(u.pages)-1, 0))
	for i, page := range u.pages {
		if page.ID == selectedID {
			u.selectedPage = i
			break
		}
	}

	note, err := u.store.GetNote(context.Background(), u.diary.ID)
	switch {
	case err == nil:
		u.note = note.Description
	case errors.Is(err, model.ErrNotFound):
		u.note = ""
	default:
		return err
	}
	return nil
}

// selectToday moves the page selection to today's page, or the latest one.
func (u *UI) selectToday() {
	if len(u.pages) == 0 {
		return
	}
	today := u.engine.Today()
	u.selectedPage = len(u.pages) - 1
	for i, page := range u.pages {
		if page.Date.Equal(today) {
			u.selectedPage = i
			return
		}
	}
}

func (u *UI) loadTasks() error {
	page := u.currentPage()
	if page == nil {
		u.tasks = nil
		u.history = nil
		return nil
	}

	pageID := page.ID
	rows, err := u.store.SearchInstances(context.Background(), model.SearchFilter{PageID: &pageID, Title: u.query})
	if err != nil {
		return err
	}
	u.tasks = rows
	u.selectedTask = min(u.selectedTask, max(len(u.tasks)-1, 0))

	return u.loadHistory()
}

func (u *UI) loadHistory() error {
	selected := u.currentTask()
	if selected == nil {
		u.history = nil
		return nil
	}

	history, err := u.engine.GetHistoryByLineage(context.Background(), selected.LineageID)
	if err != nil {
		return err
	}
	u.history = history
	u.selectedHistory = min(u.selectedHistory, max(len(u.history)-1, 0))
	return nil
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	query := u.query
	if query == "" {
		query = "type / to filter"
	}
	fmt.Fprintf(view, "Diary: %s | Today: %s | Pages: %d | Filter: %s",
		u.diary.OwnerName, model.FormatDate(u.engine.Today()), len(u.pages), query)
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	view.SetOrigin(0, 0)
	view.SetCursor(0, 0)

	fmt.Fprintln(view, "n today's page | c copy open to today | a add | e edit | x complete | D mark deleted | d remove")
	fmt.Fprintln(view, "/ filter | h history | r reload | tab/1-3 panes | ? help | q quit")
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) renderPages(view *gocui.View) {
	view.Clear()
	today := u.engine.Today()
	focused := u.focus == viewPages
	for i, page := range u.pages {
		fmt.Fprintf(view, "%s %s\n", selectionPrefix(i == u.selectedPage, focused), formatPageLabel(page, today))
	}
	if focused {
		view.SetCursor(0, min(u.selectedPage, len(u.pages)-1))
	}
}

func (u *UI) renderTasks(view *gocui.View) {
	view.Clear()
	focused := u.focus == viewTasks
	if u.currentPage() == nil {
		fmt.Fprint(view, "No pages yet, press n to start today")
		return
	}
	for i, row := range u.tasks {
		fmt.Fprintf(view, "%s %s\n", selectionPrefix(i == u.selectedTask, focused), formatTaskSummary(row))
	}
	if focused {
		view.SetCursor(0, min(u.selectedTask, len(u.tasks)-1))
	}
}

func (u *UI) renderDetail(view *gocui.View) {
	view.Clear()
	selected := u.currentTask()
	if selected == nil {
		if u.note != "" {
			fmt.Fprintf(view, "Note: %s", u.note)
			return
		}
		fmt.Fprint(view, "No task selected")
		return
	}

	lines := []string{
		selected.Title,
		fmt.Sprintf("Status: %s", selected.Status),
		fmt.Sprintf("Lineage: #%d since %s", selected.LineageID, selected.LineageCreatedAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("Appears on %d page(s)", len(u.history)),
	}
	fmt.Fprint(view, strings.Join(lines, "\n"))
}

func (u *UI) renderHistory(view *gocui.View) {
	view.Clear()
	focused := u.focus == viewHistory
	for i, entry := range u.history {
		fmt.Fprintf(view, "%s %s | %s | %s\n",
			selectionPrefix(i == u.selectedHistory, focused),
			model.FormatDate(entry.PageDate), entry.Status, entry.Title)
	}
	if focused {
		view.SetCursor(0, min(u.selectedHistory, len(u.history)-1))
	}
}

func (u *UI) onListClick(gui *gocui.Gui, viewName string, opts gocui.ViewMouseBindingOpts) error {
	if u.inputActive() {
		return nil
	}
	view, err := gui.View(viewName)
	if err != nil {
		return nil
	}

	_, y0, _, _ := view.Dimensions()
	_, oy := view.Origin()
	row := max(opts.Y-y0-1+oy, 0)

	switch viewName {
	case viewPages:
		u.selectedPage = min(row, len(u.pages)-1)
		u.selectedTask = 0
		if err := u.loadTasks(); err != nil {
			return err
		}
	case viewTasks:
		u.selectedTask = min(row, len(u.tasks)-1)
		if err := u.loadHistory(); err != nil {
			return err
		}
	case viewHistory:
		u.selectedHistory = min(row, len(u.history)-1)
	}
	return u.setFocus(gui, viewName)
}

func (u *UI) scrollUp(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() || view == nil {
		return nil
	}
	view.ScrollUp(1)
	return nil
}

func (u *UI) scrollDown(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() || view == nil {
		return nil
	}
	view.ScrollDown(1)
	return nil
}

func (u *UI) currentPage() *model.Page {
	if u.selectedPage >= 0 && u.selectedPage < len(u.pages) {
		return &u.pages[u.selectedPage]
	}
	return nil
}

func (u *UI) currentTask() *model.InstanceRow {
	if u.selectedTask >= 0 && u.selectedTask < len(u.tasks) {
		return &u.tasks[u.selectedTask]
	}
	return nil
}

func (u *UI) switchFocus(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	next := viewPages
	for i, name := range listViews {
		if name == u.focus {
			next = listViews[(i+1)%len(listViews)]
			break
		}
	}
	return u.setFocus(gui, next)
}

func (u *UI) focusPages(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewPages)
}

func (u *UI) focusTasks(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewTasks)
}

func (u *UI) focusHistory(gui *gocui.Gui, _ *gocui.View) error {
	return u.setFocus(gui, viewHistory)
}

func (u *UI) setFocus(gui *gocui.Gui, name string) error {
	if u.inputActive() {
		return nil
	}
	u.focus = name
	if gui != nil {
		_, _ = gui.SetCurrentView(name)
	}
	return nil
}

func (u *UI) moveDown(gui *gocui.Gui, _ *gocui.View) error {
	return u.moveSelection(1)
}

func (u *UI) moveUp(gui *gocui.Gui, _ *gocui.View) error {
	return u.moveSelection(-1)
}

func (u *UI) moveSelection(delta int) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewPages:
		next := u.selectedPage + delta
		if next >= 0 && next < len(u.pages) {
			u.selectedPage = next
			u.selectedTask = 0
			return u.loadTasks()
		}
	case viewTasks:
		next := u.selectedTask + delta
		if next >= 0 && next < len(u.tasks) {
			u.selectedTask = next
			return u.loadHistory()
		}
	case viewHistory:
		next := u.selectedHistory + delta
		if next >= 0 && next < len(u.history) {
			u.selectedHistory = next
		}
	}
	return nil
}

func (u *UI) reload(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.status = ""
	return u.refresh()
}

func (u *UI) refresh() error {
	if err := u.loadPages(); err != nil {
		return err
	}
	return u.loadTasks()
}

func (u *UI) refreshHistory(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	return u.loadHistory()
}

// newTodayPage starts today's page, carrying open tasks from the latest
// earlier page.
func (u *UI) newTodayPage(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	result, err := u.engine.CreatePageWithRollover(context.Background(), u.diary.ID, u.engine.Today())
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			u.status = "today's page already exists"
			if err := u.loadPages(); err != nil {
				return err
			}
			u.selectToday()
			return u.loadTasks()
		}
		u.status = err.Error()
		return nil
	}

	if result.SourceDate != nil {
		u.status = fmt.Sprintf("carried %d open task(s) from %s", result.Carried, model.FormatDate(*result.SourceDate))
	} else {
		u.status = "started the first page"
	}
	if err := u.loadPages(); err != nil {
		return err
	}
	u.selectToday()
	u.selectedTask = 0
	return u.loadTasks()
}

// copyToToday copies the selected page's open tasks onto today's page.
func (u *UI) copyToToday(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	page := u.currentPage()
	if page == nil {
		u.status = "no page selected"
		return nil
	}

	result, err := u.engine.CopyOpenTasks(context.Background(), u.diary.ID, page.Date, u.engine.Today())
	if err != nil {
		u.status = err.Error()
		return nil
	}

	if result.NothingToCopy {
		u.status = "no open tasks to copy"
	} else {
		u.status = fmt.Sprintf("copied %d task(s) to today", result.Copied)
	}
	return u.refresh()
}

func (u *UI) startSearch(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.searchActive = true
	return nil
}

func (u *UI) showSearch(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(30, maxX/2)
	x0 := (maxX - width) / 2
	y0 := (maxY - 3) / 2

	view, err := gui.SetView(viewSearch, x0, y0, x0+width, y0+3, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Filter by title"
		view.Wrap = true
		view.Clear()
		fmt.Fprint(view, u.query)
	}
	view.Editable = true
	view.Editor = gocui.DefaultEditor
	_, _ = gui.SetCurrentView(viewSearch)
	return nil
}

func (u *UI) submitSearch(gui *gocui.Gui, view *gocui.View) error {
	u.applySearch(view.Buffer())
	_ = gui.DeleteView(viewSearch)
	_, _ = gui.SetCurrentView(u.focus)
	return u.loadTasks()
}

func (u *UI) applySearch(value string) {
	u.query = strings.TrimSpace(value)
	u.searchActive = false
	u.selectedTask = 0
	u.status = ""
}

func (u *UI) cancelSearch(gui *gocui.Gui, _ *gocui.View) error {
	u.searchActive = false
	_ = gui.DeleteView(viewSearch)
	_, _ = gui.SetCurrentView(u.focus)
	return nil
}

func (u *UI) toggleHelp(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() && !u.helpActive {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	_ = gui.DeleteView(viewHelp)
	_, _ = gui.SetCurrentView(u.focus)
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := 16
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewHelp, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Help"
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprint(view, helpText())
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

func (u *UI) addTask(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	page := u.currentPage()
	if page == nil {
		u.status = "no page selected, press n to start today"
		return nil
	}
	u.form = &formState{pageID: page.ID, fields: buildFormFields(nil)}
	return nil
}

func (u *UI) editTask(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.currentTask()
	if selected == nil {
		return nil
	}
	u.form = &formState{instanceID: selected.InstanceID, pageID: selected.PageID, fields: buildFormFields(selected)}
	return nil
}

func (u *UI) showForm(gui *gocui.Gui) error {
	if u.form == nil {
		return nil
	}

	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := 4
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewForm, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Wrap = true
	}
	view.Title = "New Task"
	if u.form.instanceID != 0 {
		view.Title = "Edit Task"
	}
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) submitFormNow(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if err := u.saveForm(); err != nil {
		u.status = err.Error()
		return nil
	}

	u.form = nil
	u.status = ""
	_ = gui.DeleteView(viewForm)
	_, _ = gui.SetCurrentView(u.focus)
	return u.refresh()
}

// saveForm creates a task from the form, or applies the edit to the
// selected instance. Edits go through EditTask so past pages stay
// untouched.
func (u *UI) saveForm() error {
	input, err := parseFormFields(u.form.fields)
	if err != nil {
		return err
	}
	ctx := context.Background()

	if u.form.instanceID == 0 {
		_, _, err := u.store.CreateTask(ctx, u.form.pageID, input.Title, input.Status)
		return err
	}

	_, err = u.engine.EditTask(ctx, u.form.instanceID, input.Title, input.Status)
	return err
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	u.form = nil
	_ = gui.DeleteView(viewForm)
	_, _ = gui.SetCurrentView(u.focus)
	return nil
}

func (u *UI) nextFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index < len(u.form.fields)-1 {
		u.form.index++
	}
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index > 0 {
		u.form.index--
	}
	u.renderForm(view)
	return nil
}

func (u *UI) renderForm(view *gocui.View) {
	if u.form == nil || view == nil {
		return
	}
	view.Clear()
	for index, field := range u.form.fields {
		prefix := "  "
		if index == u.form.index {
			prefix = "> "
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.Label, field.Value)
	}
	current := u.form.fields[u.form.index]
	cursorX := len([]rune(current.Label+": ")) + len([]rune(current.Value)) + 2
	view.SetCursor(cursorX, u.form.index)
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil || view == nil {
		return false
	}
	field := &ui.form.fields[ui.form.index]

	if ui.form.index == fieldStatus {
		switch key {
		case gocui.KeyArrowRight, gocui.KeySpace:
			field.Value = cycleStatus(field.Value, 1)
		case gocui.KeyArrowLeft:
			field.Value = cycleStatus(field.Value, -1)
		}
		ui.renderForm(view)
		return true
	}

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		field.Value += " "
	case gocui.KeyCtrlU:
		field.Value = ""
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		field.Value += string(ch)
	}

	ui.renderForm(view)
	return true
}

func (u *UI) completeTask(gui *gocui.Gui, _ *gocui.View) error {
	return u.setSelectedStatus(model.StatusCompleted)
}

func (u *UI) markDeleted(gui *gocui.Gui, _ *gocui.View) error {
	return u.setSelectedStatus(model.StatusDeleted)
}

// setSelectedStatus applies status to the selected task. Tasks on past
// pages move to today's page and the selection follows them.
func (u *UI) setSelectedStatus(status string) error {
	if u.inputActive() {
		return nil
	}
	selected := u.currentTask()
	if selected == nil {
		return nil
	}

	result, err := u.engine.MigrateStatus(context.Background(), selected.InstanceID, status)
	if err != nil {
		u.status = err.Error()
		return nil
	}

	if !result.Relocated {
		u.status = ""
		return u.refresh()
	}

	u.status = fmt.Sprintf("%q moved to today as %s", selected.Title, status)
	if err := u.loadPages(); err != nil {
		return err
	}
	u.selectToday()
	if err := u.loadTasks(); err != nil {
		return err
	}
	for i, row := range u.tasks {
		if row.InstanceID == result.InstanceID {
			u.selectedTask = i
			return u.loadHistory()
		}
	}
	return nil
}

// deleteTask removes the selected instance only; the rest of its lineage
// stays.
func (u *UI) deleteTask(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.currentTask()
	if selected == nil {
		return nil
	}
	if err := u.store.DeleteInstance(context.Background(), selected.InstanceID); err != nil {
		u.status = err.Error()
		return nil
	}
	u.status = ""
	return u.loadTasks()
}

func (u *UI) inputActive() bool {
	return u.searchActive || u.form != nil || u.helpActive
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func helpText() string {
	return strings.Join([]string{
		"Navigation:",
		"  Tab cycle panes | 1 Pages | 2 Tasks | 3 History",
		"  j/k or arrows move selection",
		"  mouse click to focus/select, wheel scrolls",
		"",
		"Pages:",
		"  n start today's page (carries open tasks forward)",
		"  c copy the selected page's open tasks to today",
		"",
		"Tasks:",
		"  a add | e edit title/status | d remove from this page",
		"  x complete | D mark deleted",
		"  changes on past pages land on today's page",
		"",
		"Other:",
		"  / filter by title | h refresh history | r reload | ? help | q quit",
	}, "\n")
}

func applyViewStyle(view *gocui.View, focused bool, highlight bool) {
	view.Frame = true
	view.Highlight = focused && highlight
	view.HighlightInactive = false
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	view.InactiveViewSelBgColor = gocui.ColorDefault
	if focused {
		view.FrameColor = gocui.ColorCyan
		view.TitleColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
		view.TitleColor = gocui.ColorDefault
	}
}
