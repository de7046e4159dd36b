package views

import "time"

// View switching messages, handled by the app model.

// SwitchToEditorMsg opens the entry editor on a date.
type SwitchToEditorMsg struct {
	Date time.Time
}

// SwitchToSearchMsg opens the search view.
type SwitchToSearchMsg struct{}

// SwitchToStatusMsg opens the sync status view.
type SwitchToStatusMsg struct{}

// SwitchToHelpMsg opens the help view.
type SwitchToHelpMsg struct{}

// OpenEditorMsg asks the app to hand the terminal to the external editor
// for the given date's entry.
type OpenEditorMsg struct {
	Date time.Time
}
