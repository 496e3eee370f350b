package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/artsel/internal/collection"
	"github.com/rshade/artsel/internal/selection"
)

// RunBrowser runs the interactive browser until the user quits or ctx is done.
func RunBrowser(
	ctx context.Context,
	source collection.PageSource,
	store *selection.Store,
	pageSize int,
	opts ...tea.ProgramOption,
) error {
	model := NewBrowserModel(ctx, source, store, pageSize)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
