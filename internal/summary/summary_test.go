package summary

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type bufferSink struct {
	bytes.Buffer
}

func (b *bufferSink) WriteSummary(content string) error {
	_, err := b.WriteString(content)
	return err
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestJobNameFromFile(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "build_analysis_1.txt", want: "build"},
		{input: "unit-tests_analysis_2024.txt", want: "unit-tests"},
		{input: "dir/deploy_prod_analysis_x.txt", want: "deploy_prod"},
		{input: "a_analysis_b_analysis_c.txt", want: "a"},
		{input: "notes.txt", want: "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := JobNameFromFile(tt.input); got != tt.want {
				t.Errorf("JobNameFromFile(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRendererSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "build_analysis_1.txt", "Root Cause Summary: X")
	writeFile(t, dir, "README.md", "not an analysis")

	sink := &bufferSink{}
	r := &Renderer{Dir: dir, Sink: sink}

	n, err := r.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 section, got %d", n)
	}

	want := "### Job Name: build\nRoot cause of Job failure: X\n"
	if sink.String() != want {
		t.Errorf("got %q, want %q", sink.String(), want)
	}
	if strings.Count(sink.String(), "### ") != 1 {
		t.Errorf("expected exactly one heading, got %q", sink.String())
	}
}

func TestRendererNoFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "build.log", "noise")

	sink := &bufferSink{}
	n, err := (&Renderer{Dir: dir, Sink: sink}).Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 sections, got %d", n)
	}
	if sink.String() != AllSucceededHeading+"\n" {
		t.Errorf("got %q", sink.String())
	}
}

func TestRendererMissingDirectory(t *testing.T) {
	sink := &bufferSink{}
	_, err := (&Renderer{Dir: filepath.Join(t.TempDir(), "absent"), Sink: sink}).Run()
	if err != nil {
		t.Fatalf("missing directory should render the success heading, got %v", err)
	}
	if sink.String() != AllSucceededHeading+"\n" {
		t.Errorf("got %q", sink.String())
	}
}

func TestRendererOrdersByName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zeta_analysis_1.txt", "Root Cause Summary: z\nRoot Cause Summary: again\n")
	writeFile(t, dir, "alpha_analysis_1.txt", "plain text\n")

	sink := &bufferSink{}
	n, err := (&Renderer{Dir: dir, Sink: sink}).Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 sections, got %d", n)
	}

	want := "### Job Name: alpha\nplain text\n\n" +
		"### Job Name: zeta\nRoot cause of Job failure: z\nRoot cause of Job failure: again\n\n"
	if sink.String() != want {
		t.Errorf("got %q, want %q", sink.String(), want)
	}
}

func TestDisplayRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")
	writeFile(t, filepath.Dir(path), filepath.Base(path), "### Job Name: build\nbody\n")

	var out bytes.Buffer
	if err := Display(&out, path, false); err != nil {
		t.Fatalf("Display failed: %v", err)
	}
	if out.String() != "### Job Name: build\nbody\n" {
		t.Errorf("unexpected raw output %q", out.String())
	}
}

func TestDisplayStyled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")
	writeFile(t, filepath.Dir(path), filepath.Base(path), "### Job Name: build\n")

	var out bytes.Buffer
	if err := Display(&out, path, true); err != nil {
		t.Fatalf("Display failed: %v", err)
	}
	if !strings.Contains(out.String(), "build") {
		t.Errorf("rendered output missing heading text: %q", out.String())
	}
}

func TestDisplayMissingFile(t *testing.T) {
	if err := Display(&bytes.Buffer{}, filepath.Join(t.TempDir(), "none.md"), false); err == nil {
		t.Error("expected error for missing summary file")
	}
}

func TestSection(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no trailing newline", content: "X", want: "### Job Name: a\nX\n"},
		{name: "trailing newline", content: "X\n", want: "### Job Name: a\nX\n\n"},
		{name: "empty", content: "", want: "### Job Name: a\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Section("a", tt.content); got != tt.want {
				t.Errorf("Section() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindAnalysisFilesSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "odd_analysis_dir.txt"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "build_analysis_1.txt", "Root Cause Summary: X")

	sink := &bufferSink{}
	n, err := (&Renderer{Dir: dir, Sink: sink}).Run()
	if err != nil {
		t.Fatalf("directories must not break rendering: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 section, got %d", n)
	}
	if strings.Contains(sink.String(), "odd") {
		t.Errorf("directory rendered as a section: %q", sink.String())
	}
}
