package ports

import "os/exec"

// TextEditor launches the user's external editor on entry text.
type TextEditor interface {
	// EditText opens the editor seeded with initial and returns what the
	// user saved. It blocks until the editor exits.
	EditText(initial string) (string, error)

	// Command returns an exec.Cmd that opens path in the editor, for
	// callers that need to hand process control to a TUI runtime.
	Command(path string) (*exec.Cmd, error)
}
