package summary

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
)

const defaultWrap = 100

// Display prints the summary file to w. Markdown is rendered for terminals;
// otherwise the raw file is copied so CI logs keep the exact text.
func Display(w io.Writer, path string, styled bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read step summary %s: %w", path, err)
	}

	if !styled {
		_, err := w.Write(data)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithPreservedNewLines(),
		glamour.WithWordWrap(defaultWrap),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := r.Render(string(data))
	if err != nil {
		return fmt.Errorf("failed to render step summary: %w", err)
	}

	_, err = fmt.Fprint(w, out)
	return err
}
