package actions

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// OutputWriter is where a run publishes its results to the workflow: step
// outputs for later steps and markdown for the job summary page.
type OutputWriter interface {
	WriteOutput(key, value string) error
	WriteSummary(content string) error
	SummaryPath() string
}

// FileOutputWriter appends to the runner's $GITHUB_OUTPUT and
// $GITHUB_STEP_SUMMARY files. Either path may be empty to skip that file.
type FileOutputWriter struct {
	outputPath  string
	summaryPath string
}

func NewFileOutputWriter(outputPath, summaryPath string) *FileOutputWriter {
	return &FileOutputWriter{outputPath: outputPath, summaryPath: summaryPath}
}

func (w *FileOutputWriter) WriteOutput(key, value string) error {
	if err := appendTo(w.outputPath, formatOutput(key, value)); err != nil {
		return fmt.Errorf("failed to set output %s: %w", key, err)
	}
	return nil
}

func (w *FileOutputWriter) WriteSummary(content string) error {
	return appendTo(w.summaryPath, content)
}

func (w *FileOutputWriter) SummaryPath() string {
	return w.summaryPath
}

// outputDelimiter starts the heredoc marker for multiline values; it grows
// until it no longer occurs in the value.
const outputDelimiter = "JOBWATCH_EOF"

// formatOutput renders one $GITHUB_OUTPUT entry.
func formatOutput(key, value string) string {
	if !strings.Contains(value, "\n") {
		return key + "=" + value + "\n"
	}
	delim := outputDelimiter
	for strings.Contains(value, delim) {
		delim += "_"
	}
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", key, delim, value, delim)
}

func appendTo(path, content string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// Environment is the subset of the Actions runner environment jobwatch reads.
type Environment struct {
	Enabled     bool
	OutputPath  string
	SummaryPath string
	RunID       string
	Repository  string
}

func FromEnv() Environment {
	return Environment{
		Enabled:     os.Getenv("GITHUB_ACTIONS") == "true",
		OutputPath:  os.Getenv("GITHUB_OUTPUT"),
		SummaryPath: os.Getenv("GITHUB_STEP_SUMMARY"),
		RunID:       os.Getenv("GITHUB_RUN_ID"),
		Repository:  os.Getenv("GITHUB_REPOSITORY"),
	}
}

// Commands emits workflow commands (::warning:: etc.). When disabled every call is a no-op.
type Commands struct {
	out     io.Writer
	enabled bool
}

func NewCommands(out io.Writer, enabled bool) *Commands {
	return &Commands{out: out, enabled: enabled}
}

func (c *Commands) Warning(msg string) {
	c.emit("warning", msg)
}

func (c *Commands) Error(msg string) {
	c.emit("error", msg)
}

func (c *Commands) Group(title string) {
	c.emit("group", title)
}

func (c *Commands) EndGroup() {
	if c == nil || !c.enabled {
		return
	}
	fmt.Fprintln(c.out, "::endgroup::")
}

func (c *Commands) emit(name, msg string) {
	if c == nil || !c.enabled {
		return
	}
	fmt.Fprintf(c.out, "::%s::%s\n", name, escapeData(msg))
}

// escapeData encodes characters the runner treats as command syntax.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
