package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/artsel/internal/cli/pagination"
	"github.com/rshade/artsel/internal/collection"
	"github.com/rshade/artsel/internal/logging"
	"github.com/rshade/artsel/internal/selection"
	listview "github.com/rshade/artsel/internal/tui/list"
)

// ErrInvalidCount is returned for bulk-select input that is not a whole number.
var ErrInvalidCount = errors.New("enter a whole number of rows")

const countInputLimit = 9

// PageLoadedMsg carries the result of loading one page for display.
type PageLoadedMsg struct {
	Params pagination.PaginationParams
	Page   *collection.Page
	Err    error
}

// BulkSelectDoneMsg is sent when a bulk selection finishes.
type BulkSelectDoneMsg struct {
	Result selection.Result
	Err    error
}

// BrowserModel is the Bubble Tea model for paging through the collection and
// selecting records.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type BrowserModel struct {
	ctx    context.Context
	logger zerolog.Logger
	source collection.PageSource
	store  *selection.Store

	state   ViewState
	params  pagination.PaginationParams
	records []collection.Record
	meta    pagination.PaginationMeta

	table     table.Model
	pager     paginator.Model
	textInput textinput.Model
	review    *listview.VirtualListModel[collection.Record]
	printer   *message.Printer

	width  int
	height int

	showPrompt  bool
	promptErr   string
	bulkRunning bool
	status      string
	warning     error

	loadingState *LoadingState
	err          error
}

// NewBrowserModel creates a browser that starts on page 1 with pageSize rows.
func NewBrowserModel(
	ctx context.Context,
	source collection.PageSource,
	store *selection.Store,
	pageSize int,
) BrowserModel {
	pager := paginator.New()
	pager.Type = paginator.Arabic
	pager.ArabicFormat = "page %d of %d"

	m := BrowserModel{
		ctx:          ctx,
		logger:       logging.ComponentLogger(*logging.FromContext(ctx), "tui"),
		source:       source,
		store:        store,
		state:        ViewStateLoading,
		params:       pagination.NewPaginationParams(pageSize),
		pager:        pager,
		textInput:    newCountInput(),
		printer:      message.NewPrinter(language.English),
		width:        defaultWidth,
		height:       defaultHeight,
		loadingState: NewLoadingState(),
	}
	m.review = listview.NewVirtualListModel(nil, m.bodyHeight(), m.width, renderReviewRow)
	m.review.SetEmptyText(SubtleStyle.Render("No records selected."))
	m.table = m.buildTable()
	m.loadingState.SetMessage(m.printer.Sprintf("Loading page %d...", m.params.Page))
	return m
}

func newCountInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "Select rows: "
	ti.Placeholder = "number of rows"
	ti.CharLimit = countInputLimit
	return ti
}

// Init loads the first page (Bubble Tea interface).
func (m BrowserModel) Init() tea.Cmd {
	return tea.Batch(loadPage(m.ctx, m.source, m.params), m.loadingState.Init())
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.buildTable()
		m.review.SetSize(m.bodyHeight(), m.width)
		return m, nil
	case PageLoadedMsg:
		return m.handlePageLoaded(msg)
	case BulkSelectDoneMsg:
		return m.handleBulkSelectDone(msg)
	case spinner.TickMsg:
		if m.state == ViewStateLoading || m.bulkRunning {
			return m, m.loadingState.Update(msg)
		}
		return m, nil
	}

	if m.showPrompt {
		return m.handlePromptInput(msg)
	}

	switch m.state {
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateReview:
		return m.handleReviewUpdate(msg)
	case ViewStateError:
		return m.handleErrorUpdate(msg)
	case ViewStateLoading:
		if isQuitKey(msg) {
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
		return m, nil
	case ViewStateQuitting:
		return m, nil
	default:
		return m, nil
	}
}

func isQuitKey(msg tea.Msg) bool {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false
	}
	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		return true
	default:
		return false
	}
}

func (m BrowserModel) handlePageLoaded(msg PageLoadedMsg) (tea.Model, tea.Cmd) {
	// A newer navigation superseded this load.
	if msg.Params != m.params {
		return m, nil
	}

	if msg.Err != nil {
		m.logger.Error().Ctx(m.ctx).
			Err(msg.Err).
			Int("page", msg.Params.Page).
			Int("page_size", msg.Params.PageSize).
			Msg("failed to load page")
		m.state = ViewStateError
		m.err = fmt.Errorf("loading page %d: %w", msg.Params.Page, msg.Err)
		return m, nil
	}

	m.records = msg.Page.Records
	m.meta = pagination.NewPaginationMeta(m.params, msg.Page.Pagination.Total, len(m.records))
	m.pager.PerPage = m.params.PageSize
	m.pager.SetTotalPages(m.meta.TotalItems)
	m.pager.Page = m.params.Page - 1
	m.err = nil
	m.state = ViewStateList
	m.table = m.buildTable()
	return m, nil
}

func (m BrowserModel) handleBulkSelectDone(msg BulkSelectDoneMsg) (tea.Model, tea.Cmd) {
	m.bulkRunning = false
	if msg.Err != nil {
		m.status = ""
		m.warning = msg.Err
		return m, nil
	}

	res := msg.Result
	m.status = m.printer.Sprintf("Selected %d of %d requested rows", res.Appended, res.Requested)
	if res.Exhausted {
		m.status += " (end of collection)"
	}
	m.warning = res.Warning
	m.refreshRows()
	if m.state == ViewStateReview {
		m.review.SetItems(m.store.Rows())
	}
	return m, nil
}

func (m BrowserModel) handlePromptInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			m.closePrompt()
			return m, nil
		case keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEnter:
			n, err := ParseSelectCount(m.textInput.Value())
			if err != nil {
				m.promptErr = err.Error()
				return m, nil
			}
			m.closePrompt()
			return m.startBulkSelect(n)
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *BrowserModel) closePrompt() {
	m.showPrompt = false
	m.promptErr = ""
	m.textInput.Blur()
	m.textInput.Reset()
}

// startBulkSelect dispatches a Grow over the visible page. The prompt is
// already closed, so a second submission cannot arrive before this one ends.
func (m BrowserModel) startBulkSelect(n int) (tea.Model, tea.Cmd) {
	if n <= 0 {
		m.status = "Nothing to select"
		return m, nil
	}

	m.bulkRunning = true
	m.status = ""
	m.warning = nil
	m.loadingState.SetMessage(m.printer.Sprintf("Selecting %d rows...", n))

	visible := append([]collection.Record(nil), m.records...)
	return m, tea.Batch(
		bulkSelect(m.ctx, m.store, n, m.params, visible, m.source),
		m.loadingState.Init(),
	)
}

func (m BrowserModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m.handleListKeypress(keyMsg)
}

func (m BrowserModel) handleListKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyNext, keyNextAlt, keyNextPage:
		if !m.meta.HasNext {
			return m, nil
		}
		return m.goToPage(m.params.Next())
	case keyPrev, keyPrevAlt, keyPrevPage:
		if !m.meta.HasPrevious {
			return m, nil
		}
		return m.goToPage(m.params.Previous())
	case keySpace:
		if rec, ok := m.currentRecord(); ok {
			m.store.Toggle(rec)
			m.refreshRows()
		}
		return m, nil
	case keyBulk:
		if m.bulkRunning || m.store.Growing() {
			return m, nil
		}
		m.showPrompt = true
		m.promptErr = ""
		m.textInput.Reset()
		return m, m.textInput.Focus()
	case keyReview:
		m.state = ViewStateReview
		m.review.SetItems(m.store.Rows())
		m.review.SetCursor(0)
		return m, nil
	case keyClear:
		if m.bulkRunning {
			return m, nil
		}
		m.store.Clear()
		m.status = "Selection cleared"
		m.warning = nil
		m.refreshRows()
		return m, nil
	case keyRetry:
		return m.goToPage(m.params)
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

func (m BrowserModel) handleReviewUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEsc, keyReview:
			m.state = ViewStateList
			m.refreshRows()
			return m, nil
		case keyRemove:
			if rec, ok := m.review.Current(); ok && !m.bulkRunning {
				m.store.Toggle(rec)
				m.review.SetItems(m.store.Rows())
			}
			return m, nil
		}
	}
	m.review.Update(msg)
	return m, nil
}

func (m BrowserModel) handleErrorUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyRetry:
		return m.goToPage(m.params)
	}
	return m, nil
}

func (m BrowserModel) goToPage(params pagination.PaginationParams) (tea.Model, tea.Cmd) {
	m.params = params
	m.state = ViewStateLoading
	m.loadingState.SetMessage(m.printer.Sprintf("Loading page %d...", params.Page))
	return m, tea.Batch(loadPage(m.ctx, m.source, params), m.loadingState.Init())
}

func (m *BrowserModel) currentRecord() (collection.Record, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.records) {
		return collection.Record{}, false
	}
	return m.records[i], true
}

// refreshRows redraws the checkbox column without moving the cursor.
func (m *BrowserModel) refreshRows() {
	m.table.SetRows(m.tableRows())
}

func (m *BrowserModel) bodyHeight() int {
	return max(m.height-chromeHeight, minHeight)
}

func (m *BrowserModel) buildTable() table.Model {
	columns := []table.Column{
		{Title: " ", Width: 3},                //nolint:mnd // Column width.
		{Title: "Code", Width: 8},             //nolint:mnd // Column width.
		{Title: "Title", Width: 36},           //nolint:mnd // Column width.
		{Title: "Artist", Width: 28},          //nolint:mnd // Column width.
		{Title: "Place of Origin", Width: 16}, //nolint:mnd // Column width.
		{Title: "Start Date", Width: 10},      //nolint:mnd // Column width.
		{Title: "End Date", Width: 10},        //nolint:mnd // Column width.
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(m.tableRows()),
		table.WithFocused(true),
		table.WithHeight(m.bodyHeight()),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	return t
}

func (m *BrowserModel) tableRows() []table.Row {
	rows := make([]table.Row, len(m.records))
	for i, rec := range m.records {
		check := "[ ]"
		if m.store.Contains(rec.ID) {
			check = "[x]"
		}
		rows[i] = table.Row{
			check,
			strconv.Itoa(rec.ID),
			rec.Title,
			firstLine(rec.ArtistDisplay),
			rec.PlaceOfOrigin,
			strconv.Itoa(rec.DateStart),
			strconv.Itoa(rec.DateEnd),
		}
	}
	return rows
}

func renderReviewRow(index int, rec collection.Record, focused bool) string {
	line := fmt.Sprintf("%5d. %-8d %s", index+1, rec.ID, rec.Title)
	if artist := firstLine(rec.ArtistDisplay); artist != "" {
		line += SubtleStyle.Render(" / " + artist)
	}
	if focused {
		return TableSelectedStyle.Render(line)
	}
	return line
}

// firstLine returns s up to its first newline. Artist credits carry
// nationality and dates on following lines.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// ParseSelectCount parses the bulk-select prompt. Blank input is 0.
func ParseSelectCount(s string) (int, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCount, s)
	}
	return n, nil
}

func loadPage(ctx context.Context, source collection.PageSource, params pagination.PaginationParams) tea.Cmd {
	return func() tea.Msg {
		page, err := source.Page(ctx, params.Page, params.PageSize)
		return PageLoadedMsg{Params: params, Page: page, Err: err}
	}
}

func bulkSelect(
	ctx context.Context,
	store *selection.Store,
	n int,
	params pagination.PaginationParams,
	visible []collection.Record,
	fetcher collection.PageFetcher,
) tea.Cmd {
	return func() tea.Msg {
		res, err := store.GrowFrom(ctx, n, params.Page, params.PageSize, visible, fetcher)
		return BulkSelectDoneMsg{Result: res, Err: err}
	}
}
