package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Cloudsky01/gh-jobwatch/internal/git"
	"github.com/Cloudsky01/gh-jobwatch/internal/paths"
)

const (
	EnvPrefix = "JOBWATCH"

	DefaultMaxAttempts = 180
	DefaultInterval    = 10 * time.Second
	DefaultSelfJob     = "collect-logs"
	DefaultAPIURL      = "https://api.github.com/"
	DefaultAnalyzerDir = "logs_summary_action/script"
)

var DefaultAnalyzerCommand = []string{"python", "debug_fetch_logs.py"}

// ErrMissingInput is returned by Validate when a required input is unset.
var ErrMissingInput = errors.New("missing required input")

type Config struct {
	RunID      int64  `mapstructure:"run_id" yaml:"run_id,omitempty"`
	Owner      string `mapstructure:"owner" yaml:"owner,omitempty"`
	Repo       string `mapstructure:"repo" yaml:"repo,omitempty"`
	Repository string `mapstructure:"repository" yaml:"-"`
	Token      string `mapstructure:"token" yaml:"-"`
	Cookie     string `mapstructure:"cookie" yaml:"-"`
	APIURL     string `mapstructure:"api_url" yaml:"api_url,omitempty"`
	OutputDir  string `mapstructure:"output_dir" yaml:"output_dir,omitempty"`

	Poll     PollConfig     `mapstructure:"poll" yaml:"poll"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer" yaml:"analyzer"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`

	configPath string
}

type PollConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	Interval    time.Duration `mapstructure:"interval" yaml:"interval"`
	SelfJob     string        `mapstructure:"self_job" yaml:"self_job"`
}

type AnalyzerConfig struct {
	Enabled     bool     `mapstructure:"enabled" yaml:"enabled"`
	Dir         string   `mapstructure:"dir" yaml:"dir"`
	Command     []string `mapstructure:"command" yaml:"command,flow"`
	AnalysisDir string   `mapstructure:"analysis_dir" yaml:"analysis_dir,omitempty"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	Debug bool   `mapstructure:"debug" yaml:"debug,omitempty"`
}

// envBindings maps config keys to the environment variables that may carry
// them, highest precedence first.
var envBindings = map[string][]string{
	"run_id":     {"JOBWATCH_RUN_ID", "INPUT_RUN_ID", "GITHUB_RUN_ID"},
	"owner":      {"JOBWATCH_OWNER", "INPUT_REPO_OWNER"},
	"repo":       {"JOBWATCH_REPO", "INPUT_REPO_NAME"},
	"repository": {"JOBWATCH_REPOSITORY", "GITHUB_REPOSITORY"},
	"token":      {"JOBWATCH_TOKEN", "INPUT_GITHUB_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"},
	"cookie":     {"JOBWATCH_COOKIE", "INPUT_CUSTOM_SERVICE_COOKIE", "CUSTOM_SERVICE_COOKIE"},
	"api_url":    {"JOBWATCH_API_URL", "GITHUB_API_URL"},
}

// FlagBindings maps config keys to CLI flag names.
var FlagBindings = map[string]string{
	"run_id":                "run-id",
	"owner":                 "owner",
	"repo":                  "repo",
	"repository":            "repository",
	"token":                 "token",
	"api_url":               "api-url",
	"output_dir":            "output-dir",
	"poll.max_attempts":     "max-attempts",
	"poll.interval":         "interval",
	"poll.self_job":         "self-job",
	"analyzer.enabled":      "analyze",
	"analyzer.dir":          "analyzer-dir",
	"analyzer.command":      "analyzer-command",
	"analyzer.analysis_dir": "analysis-dir",
	"log.level":             "log-level",
	"log.debug":             "debug",
}

type LoadOptions struct {
	// ConfigFile is an explicit config path; when empty the user and project
	// config files are merged if present.
	ConfigFile string
	Paths      *paths.Paths
	Flags      *pflag.FlagSet

	// DetectRepository resolves owner/repo when no input provides them.
	// Defaults to reading the origin remote of the enclosing git repository.
	DetectRepository func() (string, error)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("output_dir", ".")
	v.SetDefault("poll.max_attempts", DefaultMaxAttempts)
	v.SetDefault("poll.interval", DefaultInterval)
	v.SetDefault("poll.self_job", DefaultSelfJob)
	v.SetDefault("analyzer.enabled", true)
	v.SetDefault("analyzer.dir", DefaultAnalyzerDir)
	v.SetDefault("analyzer.command", DefaultAnalyzerCommand)
	v.SetDefault("log.level", "info")
}

func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range envBindings {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if opts.Flags != nil {
		for key, name := range FlagBindings {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	configPath, err := readConfigFiles(v, opts)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.configPath = configPath
	cfg.Analyzer.Command = normalizeCommand(cfg.Analyzer.Command)
	// The analyzer writes its files into its working directory.
	if cfg.Analyzer.AnalysisDir == "" {
		cfg.Analyzer.AnalysisDir = cfg.Analyzer.Dir
	}

	detect := opts.DetectRepository
	if detect == nil {
		detect = git.DetectRepository
	}
	if err := cfg.resolveRepository(detect); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfigFiles(v *viper.Viper, opts LoadOptions) (string, error) {
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config file: %w", err)
		}
		return opts.ConfigFile, nil
	}

	if opts.Paths == nil {
		return "", nil
	}

	var last string
	for _, path := range opts.Paths.GetConfigPaths() {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		last = path
	}
	return last, nil
}

// normalizeCommand splits a single space-separated entry, as produced by an
// environment variable or a plain string in yaml, into arguments.
func normalizeCommand(cmd []string) []string {
	if len(cmd) == 1 && strings.Contains(cmd[0], " ") {
		return strings.Fields(cmd[0])
	}
	return cmd
}

func (c *Config) resolveRepository(detect func() (string, error)) error {
	if c.Owner != "" && c.Repo != "" {
		return nil
	}

	repository := c.Repository
	if repository == "" {
		detected, err := detect()
		if err != nil || detected == "" {
			return nil
		}
		repository = detected
	}

	owner, repo, err := git.SplitRepository(repository)
	if err != nil {
		return err
	}
	if c.Owner == "" {
		c.Owner = owner
	}
	if c.Repo == "" {
		c.Repo = repo
	}
	return nil
}

// Validate checks the inputs needed before any network call is made.
func (c *Config) Validate() error {
	if c.RunID <= 0 {
		return fmt.Errorf("%w: run id (--run-id, INPUT_RUN_ID or GITHUB_RUN_ID)", ErrMissingInput)
	}
	if c.Owner == "" {
		return fmt.Errorf("%w: repository owner (--owner or INPUT_REPO_OWNER)", ErrMissingInput)
	}
	if c.Repo == "" {
		return fmt.Errorf("%w: repository name (--repo or INPUT_REPO_NAME)", ErrMissingInput)
	}
	if err := git.ValidateRepositoryFormat(c.FullRepository()); err != nil {
		return err
	}
	if c.Token == "" {
		return fmt.Errorf("%w: GitHub token (--token, INPUT_GITHUB_TOKEN or GITHUB_TOKEN)", ErrMissingInput)
	}
	if c.Analyzer.Enabled {
		if c.Cookie == "" {
			return fmt.Errorf("%w: session cookie (CUSTOM_SERVICE_COOKIE)", ErrMissingInput)
		}
		if len(c.Analyzer.Command) == 0 {
			return fmt.Errorf("%w: analyzer command", ErrMissingInput)
		}
	}
	if c.Poll.MaxAttempts < 1 {
		return fmt.Errorf("poll.max_attempts must be at least 1, got %d", c.Poll.MaxAttempts)
	}
	if c.Poll.Interval < 0 {
		return fmt.Errorf("poll.interval must not be negative, got %v", c.Poll.Interval)
	}
	return nil
}

func (c *Config) FullRepository() string {
	return c.Owner + "/" + c.Repo
}

// GetConfigPath returns the last config file that was read, if any.
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Redacted returns a copy safe to print, with secrets masked.
func (c *Config) Redacted() Config {
	out := *c
	out.Token = mask(c.Token)
	out.Cookie = mask(c.Cookie)
	return out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := `# jobwatch configuration
#
# Secrets are never stored here. Provide them through the environment:
#   GITHUB_TOKEN / INPUT_GITHUB_TOKEN   GitHub API token
#   CUSTOM_SERVICE_COOKIE               session cookie passed to the analyzer
#
# Run 'jobwatch --help' for the full list of flags and environment variables.

`
	if err := os.WriteFile(path, []byte(header+string(data)), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
