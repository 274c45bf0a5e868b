package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("HOME", tmpDir)

	p, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if p.OutputDir != "." {
		t.Errorf("expected default output dir '.', got %s", p.OutputDir)
	}
	if filepath.Base(p.UserConfigDir) != AppName {
		t.Errorf("expected user config dir to end in %s, got %s", AppName, p.UserConfigDir)
	}
}

func TestArtifactPaths(t *testing.T) {
	p := &Paths{OutputDir: "/out"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"jobs response", p.JobsResponseFile(), "/out/jobs_response.json"},
		{"job statuses", p.JobStatusesFile(), "/out/job_statuses.txt"},
		{"failed jobs", p.FailedJobsFile(), "/out/failed_jobs.txt"},
		{"step summary", p.StepSummaryFile(), "/out/step_summary.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != filepath.FromSlash(tt.want) {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestEnsureOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	p := &Paths{OutputDir: dir}

	if err := p.EnsureOutputDir(); err != nil {
		t.Fatalf("EnsureOutputDir failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory %s to exist", dir)
	}
}

func TestGetConfigPathsAndSource(t *testing.T) {
	tmpDir := t.TempDir()
	p := &Paths{
		UserConfigDir: filepath.Join(tmpDir, "config"),
		WorkDir:       filepath.Join(tmpDir, "work"),
	}

	if got := p.GetConfigPaths(); len(got) != 0 {
		t.Fatalf("expected no config paths, got %v", got)
	}

	if err := os.MkdirAll(p.WorkDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p.ProjectConfigFile(), []byte("owner: octo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := p.GetConfigPaths()
	if len(got) != 1 || got[0] != p.ProjectConfigFile() {
		t.Fatalf("expected project config only, got %v", got)
	}

	if p.GetConfigSource(p.ProjectConfigFile()) != SourceProjectConfig {
		t.Error("expected project config source")
	}
	if p.GetConfigSource(p.UserConfigFile()) != SourceUserConfig {
		t.Error("expected user config source")
	}
	if p.GetConfigSource("/elsewhere.yaml") != SourceCLIFlag {
		t.Error("expected CLI flag source for explicit path")
	}
	if SourceProjectConfig.String() != "project config" {
		t.Errorf("unexpected String(): %s", SourceProjectConfig.String())
	}
}
