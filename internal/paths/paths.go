package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName is the application name used in config paths
	AppName = "jobwatch"

	// ConfigFileName is the name of the user config file
	ConfigFileName = "config.yaml"

	// ProjectConfigFileName is the config file looked up in the working directory
	ProjectConfigFileName = ".jobwatch.yaml"

	// JobsResponseFileName holds the raw jobs snapshot
	JobsResponseFileName = "jobs_response.json"

	// JobStatusesFileName holds one "<name> - <conclusion> - Job ID: <id>" line per job
	JobStatusesFileName = "job_statuses.txt"

	// FailedJobsFileName holds one "<name> - <conclusion>" line per failed job
	FailedJobsFileName = "failed_jobs.txt"

	// StepSummaryFileName is used when $GITHUB_STEP_SUMMARY is not set
	StepSummaryFileName = "step_summary.md"
)

// ConfigSource indicates where a config file came from
type ConfigSource int

const (
	SourceUnknown ConfigSource = iota
	SourceUserConfig
	SourceProjectConfig
	SourceCLIFlag
)

func (s ConfigSource) String() string {
	switch s {
	case SourceUserConfig:
		return "user config"
	case SourceProjectConfig:
		return "project config"
	case SourceCLIFlag:
		return "CLI flag"
	default:
		return "unknown"
	}
}

// Paths locates config files and the artifacts a run writes
type Paths struct {
	// UserConfigDir is the user's config directory (~/.config/jobwatch)
	UserConfigDir string

	// WorkDir is the directory the project config is looked up in
	WorkDir string

	// OutputDir receives jobs_response.json, job_statuses.txt and failed_jobs.txt
	OutputDir string
}

// New creates a Paths instance rooted at the current directory
func New(outputDir string) (*Paths, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config directory: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}

	if outputDir == "" {
		outputDir = "."
	}

	return &Paths{
		UserConfigDir: filepath.Join(configDir, AppName),
		WorkDir:       cwd,
		OutputDir:     outputDir,
	}, nil
}

// UserConfigFile returns the path to the user's config file
func (p *Paths) UserConfigFile() string {
	return filepath.Join(p.UserConfigDir, ConfigFileName)
}

// ProjectConfigFile returns the path to the project config in the working directory
func (p *Paths) ProjectConfigFile() string {
	return filepath.Join(p.WorkDir, ProjectConfigFileName)
}

func (p *Paths) JobsResponseFile() string {
	return filepath.Join(p.OutputDir, JobsResponseFileName)
}

func (p *Paths) JobStatusesFile() string {
	return filepath.Join(p.OutputDir, JobStatusesFileName)
}

func (p *Paths) FailedJobsFile() string {
	return filepath.Join(p.OutputDir, FailedJobsFileName)
}

func (p *Paths) StepSummaryFile() string {
	return filepath.Join(p.OutputDir, StepSummaryFileName)
}

// EnsureOutputDir creates the output directory if needed
func (p *Paths) EnsureOutputDir() error {
	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied: cannot create output directory %s\n\n"+
				"Set a writable location with --output-dir or JOBWATCH_OUTPUT_DIR.\n\n"+
				"Original error: %v", p.OutputDir, err)
		}
		return fmt.Errorf("failed to create output directory %s: %w", p.OutputDir, err)
	}
	return nil
}

// GetConfigPaths returns existing config paths in order of precedence (lowest to highest)
func (p *Paths) GetConfigPaths() []string {
	var found []string
	for _, path := range []string{p.UserConfigFile(), p.ProjectConfigFile()} {
		if _, err := os.Stat(path); err == nil {
			found = append(found, path)
		}
	}
	return found
}

// GetConfigSource determines which source a config path corresponds to
func (p *Paths) GetConfigSource(path string) ConfigSource {
	switch path {
	case p.UserConfigFile():
		return SourceUserConfig
	case p.ProjectConfigFile():
		return SourceProjectConfig
	case "":
		return SourceUnknown
	default:
		return SourceCLIFlag
	}
}
