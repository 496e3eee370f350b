package tui

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	listHelp   = "↑/↓ move • ←/→ page • space toggle • b bulk select • v review • c clear • r reload • q quit"
	reviewHelp = "↑/↓ move • x remove • esc back • q quit"
	errorHelp  = "Press 'r' to retry, 'q' to quit"
)

// View renders the current view (Bubble Tea interface).
func (m BrowserModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), RenderLoading(m.loadingState))
	case ViewStateError:
		return m.renderErrorView()
	case ViewStateReview:
		return m.renderReviewView()
	case ViewStateList:
		return m.renderListView()
	default:
		return ""
	}
}

func (m BrowserModel) renderHeader() string {
	return HeaderStyle.Render("Artworks") + "  " +
		LabelStyle.Render("Selected: ") +
		ValueStyle.Render(m.printer.Sprintf("%d", m.store.Len()))
}

func (m BrowserModel) renderErrorView() string {
	banner := CriticalStyle.
		Width(m.width - borderPadding).
		Render("Error: " + m.err.Error())
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		banner,
		SubtleStyle.Render(errorHelp),
	)
}

func (m BrowserModel) renderListView() string {
	sections := []string{m.renderHeader()}

	if len(m.records) == 0 {
		sections = append(sections, SubtleStyle.Render("No records on this page."))
	} else {
		sections = append(sections, m.table.View())
	}

	sections = append(sections, m.renderPageFooter())

	if status := m.renderStatusBar(); status != "" {
		sections = append(sections, status)
	}

	if m.showPrompt {
		prompt := m.textInput.View()
		if m.promptErr != "" {
			prompt += "  " + WarningStyle.Render(m.promptErr)
		}
		sections = append(sections, prompt)
	}

	sections = append(sections, SubtleStyle.Render(listHelp))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderPageFooter shows the visible range, the total and the page position.
func (m BrowserModel) renderPageFooter() string {
	if m.meta.TotalItems == 0 {
		return LabelStyle.Render("No records")
	}
	counts := m.printer.Sprintf("Showing %d-%d of %d", m.meta.FirstItem, m.meta.LastItem, m.meta.TotalItems)
	return LabelStyle.Render(counts) + "  " + SubtleStyle.Render(m.pager.View())
}

func (m BrowserModel) renderStatusBar() string {
	switch {
	case m.bulkRunning:
		return RenderLoadingInline(m.loadingState)
	case m.warning != nil:
		return WarningStyle.Render("Warning: " + m.warning.Error())
	case m.status != "":
		return InfoStyle.Render(m.status)
	default:
		return ""
	}
}

func (m BrowserModel) renderReviewView() string {
	title := HeaderStyle.Render("SELECTED RECORDS") + " " +
		ValueStyle.Render(m.printer.Sprintf("(%d)", m.review.Len()))
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		BoxStyle.Width(m.width - borderPadding).Render(m.review.View()),
		SubtleStyle.Render(reviewHelp),
	)
}
