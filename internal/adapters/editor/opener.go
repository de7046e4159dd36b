// Package editor shells out to the user's external editor for composing
// journal entry text.
package editor

import (
	"fmt"
	"os"
	"os/exec"
)

// Opener implements ports.TextEditor.
type Opener struct{}

func NewOpener() *Opener {
	return &Opener{}
}

// EditText writes initial to a temp file, opens it in the editor and
// returns the saved contents once the editor exits.
func (o *Opener) EditText(initial string) (string, error) {
	tmp, err := os.CreateTemp("", "daybook-*.txt")
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.WriteString(initial); err != nil {
		tmp.Close()
		return "", fmt.Errorf("seed scratch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	cmd, err := o.Command(path)
	if err != nil {
		return "", err
	}
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor exited with error: %w", err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read scratch file: %w", err)
	}
	return string(edited), nil
}

// Command returns an exec.Cmd for opening a file in the editor. This is
// useful for integrating with bubbletea's ExecProcess.
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	editor := o.findEditor()
	if editor == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

func (o *Opener) findEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}

	// Fall back to whatever common editor is installed.
	editors := []string{"nvim", "vim", "vi", "nano", "code"}
	for _, editor := range editors {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}

	return ""
}
