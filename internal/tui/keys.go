package tui

// Key bindings, as reported by tea.KeyMsg.String().
const (
	keyQuit   = "q"
	keyCtrlC  = "ctrl+c"
	keyEnter  = "enter"
	keyEsc    = "esc"
	keySpace  = " "
	keyBulk   = "b"
	keyReview = "v"
	keyClear  = "c"
	keyRetry  = "r"
	keyRemove = "x"

	keyNext     = "right"
	keyNextAlt  = "l"
	keyNextPage = "pgdown"
	keyPrev     = "left"
	keyPrevAlt  = "h"
	keyPrevPage = "pgup"
)
