package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders the item at index. focused is true for the cursor row.
type RenderFunc[T any] func(index int, item T, focused bool) string

// VirtualListModel is a cursor over items that renders a height-sized window.
type VirtualListModel[T any] struct {
	items      []T
	renderFunc RenderFunc[T]
	emptyText  string

	cursor int
	offset int // index of the first rendered row
	height int
	width  int
}

// NewVirtualListModel returns a list over items with a viewport of height rows.
func NewVirtualListModel[T any](items []T, height, width int, renderFunc RenderFunc[T]) *VirtualListModel[T] {
	m := &VirtualListModel[T]{
		items:      items,
		renderFunc: renderFunc,
		emptyText:  "(empty)",
		height:     max(height, 1),
		width:      width,
	}
	m.clamp()
	return m
}

// SetEmptyText sets what View shows when there are no items.
func (m *VirtualListModel[T]) SetEmptyText(s string) {
	m.emptyText = s
}

// SetItems replaces the items and keeps the cursor in range.
func (m *VirtualListModel[T]) SetItems(items []T) {
	m.items = items
	m.clamp()
}

// SetSize changes the viewport.
func (m *VirtualListModel[T]) SetSize(height, width int) {
	m.height = max(height, 1)
	m.width = width
	m.clamp()
}

// Init implements tea.Model.
func (m *VirtualListModel[T]) Init() tea.Cmd {
	return nil
}

// Update moves the cursor on navigation keys and resizes on window changes.
func (m *VirtualListModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.SetSize(msg.Height, msg.Width)
	}
	return m, nil
}

//nolint:exhaustive // Only navigation keys move the cursor.
func (m *VirtualListModel[T]) handleKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyUp:
		m.move(-1)
	case tea.KeyDown:
		m.move(1)
	case tea.KeyPgUp:
		m.move(-m.height)
	case tea.KeyPgDown:
		m.move(m.height)
	case tea.KeyHome:
		m.SetCursor(0)
	case tea.KeyEnd:
		m.SetCursor(len(m.items) - 1)
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "j":
			m.move(1)
		case "k":
			m.move(-1)
		case "g":
			m.SetCursor(0)
		case "G":
			m.SetCursor(len(m.items) - 1)
		}
	default:
	}
}

func (m *VirtualListModel[T]) move(delta int) {
	m.SetCursor(m.cursor + delta)
}

// SetCursor moves the cursor to index, clamped to the item range.
func (m *VirtualListModel[T]) SetCursor(index int) {
	m.cursor = index
	m.clamp()
}

// clamp keeps cursor within items and the window around the cursor.
func (m *VirtualListModel[T]) clamp() {
	n := len(m.items)
	if n == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	m.cursor = min(max(m.cursor, 0), n-1)

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	// Don't leave blank rows below the last item when the list shrinks.
	m.offset = max(min(m.offset, n-m.height), 0)
}

// View renders the rows inside the window.
func (m *VirtualListModel[T]) View() string {
	if len(m.items) == 0 {
		return m.emptyText
	}

	from, to := m.Window()
	var b strings.Builder
	for i := from; i < to; i++ {
		if i > from {
			b.WriteByte('\n')
		}
		b.WriteString(m.renderFunc(i, m.items[i], i == m.cursor))
	}
	return b.String()
}

// Window returns the rendered index range [from, to).
func (m *VirtualListModel[T]) Window() (int, int) {
	return m.offset, min(m.offset+m.height, len(m.items))
}

// Len returns the number of items.
func (m *VirtualListModel[T]) Len() int {
	return len(m.items)
}

// Cursor returns the cursor index.
func (m *VirtualListModel[T]) Cursor() int {
	return m.cursor
}

// Height returns the viewport height.
func (m *VirtualListModel[T]) Height() int {
	return m.height
}

// Width returns the viewport width.
func (m *VirtualListModel[T]) Width() int {
	return m.width
}

// Current returns the item under the cursor, or false when the list is empty.
func (m *VirtualListModel[T]) Current() (T, bool) {
	var zero T
	if len(m.items) == 0 {
		return zero, false
	}
	return m.items[m.cursor], true
}
