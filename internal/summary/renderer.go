package summary

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Cloudsky01/gh-jobwatch/pkg/models"
)

const (
	AnalysisPattern = "*_analysis_*.txt"

	rootCauseLabel    = "Root Cause Summary:"
	rootCauseReplaced = "Root cause of Job failure:"

	AllSucceededHeading = "### All jobs ran successfully"
)

// Sink receives rendered summary markdown.
type Sink interface {
	WriteSummary(content string) error
}

// JobNameFromFile strips the "_analysis_<suffix>.txt" convention from a file name.
func JobNameFromFile(name string) string {
	base := filepath.Base(name)
	if idx := strings.Index(base, "_analysis_"); idx >= 0 {
		return base[:idx]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FindAnalysisFiles lists regular analysis files in dir sorted by name. A
// missing directory yields no files.
func FindAnalysisFiles(dir string) ([]models.AnalysisFile, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(dir), AnalysisPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis files in %s: %w", dir, err)
	}
	sort.Strings(matches)

	files := make([]models.AnalysisFile, 0, len(matches))
	for _, m := range matches {
		files = append(files, models.AnalysisFile{
			Path:    filepath.Join(dir, filepath.FromSlash(m)),
			JobName: JobNameFromFile(m),
		})
	}
	return files, nil
}

// Section renders one job's analysis as markdown. The content is copied as is
// and followed by a single newline.
func Section(jobName, content string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Job Name: %s\n", jobName)
	b.WriteString(strings.ReplaceAll(content, rootCauseLabel, rootCauseReplaced))
	b.WriteString("\n")
	return b.String()
}

// Render builds the complete summary for the given files.
func Render(files []models.AnalysisFile) (string, error) {
	if len(files) == 0 {
		return AllSucceededHeading + "\n", nil
	}

	var b strings.Builder
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return "", fmt.Errorf("failed to read analysis file %s: %w", f.Path, err)
		}
		b.WriteString(Section(f.JobName, string(data)))
	}
	return b.String(), nil
}

// Renderer scans an analysis directory and appends the result to a Sink.
type Renderer struct {
	Dir  string
	Sink Sink
}

// Run renders every analysis file found and returns how many sections were written.
func (r *Renderer) Run() (int, error) {
	files, err := FindAnalysisFiles(r.Dir)
	if err != nil {
		return 0, err
	}

	content, err := Render(files)
	if err != nil {
		return 0, err
	}

	if err := r.Sink.WriteSummary(content); err != nil {
		return 0, fmt.Errorf("failed to write step summary: %w", err)
	}
	return len(files), nil
}
