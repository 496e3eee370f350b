// Package listview provides a windowed list for Bubble Tea views.
//
// Only the rows inside the viewport are rendered, so the selection review pane
// stays responsive after a bulk selection of many thousands of records. The
// window follows the cursor: it scrolls only when the cursor would leave it.
package listview
