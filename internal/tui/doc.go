// Package tui implements the interactive collection browser.
//
// BrowserModel shows one page of the collection in a table. The user moves
// between pages, toggles single rows, and grows the selection in bulk from a
// count prompt. Bulk selection runs in a tea.Cmd so the view keeps rendering
// while continuation pages are fetched; its warning, if any, is shown in the
// status bar.
package tui
