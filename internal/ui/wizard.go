package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/Cloudsky01/gh-jobwatch/internal/ascii"
	"github.com/Cloudsky01/gh-jobwatch/internal/config"
	"github.com/Cloudsky01/gh-jobwatch/internal/git"
)

// Answers holds the raw wizard input before it is converted to a Config.
type Answers struct {
	Repository      string
	SelfJob         string
	MaxAttempts     string
	Interval        string
	AnalyzeFailures bool
	AnalyzerDir     string
	AnalyzerCommand string
	AnalysisDir     string
}

// DefaultAnswers pre-fills the form from the built-in defaults and a
// detected repository.
func DefaultAnswers(repository string) Answers {
	return Answers{
		Repository:      repository,
		SelfJob:         config.DefaultSelfJob,
		MaxAttempts:     strconv.Itoa(config.DefaultMaxAttempts),
		Interval:        config.DefaultInterval.String(),
		AnalyzeFailures: true,
		AnalyzerDir:     config.DefaultAnalyzerDir,
		AnalyzerCommand: strings.Join(config.DefaultAnalyzerCommand, " "),
	}
}

// Wizard walks the user through creating a config file.
type Wizard struct {
	answers    Answers
	configPath string
	out        io.Writer
}

func NewWizard(detectedRepo, configPath string, out io.Writer) *Wizard {
	return &Wizard{
		answers:    DefaultAnswers(detectedRepo),
		configPath: configPath,
		out:        out,
	}
}

func (w *Wizard) Run() (*config.Config, error) {
	fmt.Fprintln(w.out, spinnerStyle.Render(ascii.Logo()))
	fmt.Fprintln(w.out, TitleStyle.Render("jobwatch configuration"))
	fmt.Fprintf(w.out, "Writing %s\n\n", w.configPath)

	a := &w.answers
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Repository").
				Description("owner/repo whose workflow runs are watched. Leave empty to use GITHUB_REPOSITORY.").
				Placeholder("octo-org/service").
				Validate(validateRepository).
				Value(&a.Repository),
			huh.NewInput().
				Title("Collector job name").
				Description("The job running jobwatch. It is ignored while waiting.").
				Validate(required("job name")).
				Value(&a.SelfJob),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Maximum poll attempts").
				Validate(validateAttempts).
				Value(&a.MaxAttempts),
			huh.NewInput().
				Title("Poll interval").
				Description("Go duration, e.g. 10s or 1m").
				Validate(validateInterval).
				Value(&a.Interval),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Run the log analyzer when jobs fail?").
				Affirmative("Yes").
				Negative("No").
				Value(&a.AnalyzeFailures),
			huh.NewInput().
				Title("Analyzer directory").
				Value(&a.AnalyzerDir),
			huh.NewInput().
				Title("Analyzer command").
				Validate(required("command")).
				Value(&a.AnalyzerCommand),
			huh.NewInput().
				Title("Analysis output directory").
				Description("Where *_analysis_*.txt files are written. Leave empty for the analyzer directory.").
				Value(&a.AnalysisDir),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}
	return a.Config()
}

// Config converts the answers into a config ready to be saved.
func (a Answers) Config() (*config.Config, error) {
	cfg := &config.Config{}

	if repo := strings.TrimSpace(a.Repository); repo != "" {
		owner, name, err := git.SplitRepository(repo)
		if err != nil {
			return nil, err
		}
		cfg.Owner, cfg.Repo = owner, name
	}

	attempts, err := strconv.Atoi(strings.TrimSpace(a.MaxAttempts))
	if err != nil || attempts < 1 {
		return nil, fmt.Errorf("invalid max attempts %q", a.MaxAttempts)
	}
	interval, err := time.ParseDuration(strings.TrimSpace(a.Interval))
	if err != nil || interval < 0 {
		return nil, fmt.Errorf("invalid poll interval %q", a.Interval)
	}

	cfg.Poll = config.PollConfig{
		MaxAttempts: attempts,
		Interval:    interval,
		SelfJob:     strings.TrimSpace(a.SelfJob),
	}
	cfg.Analyzer = config.AnalyzerConfig{
		Enabled:     a.AnalyzeFailures,
		Dir:         strings.TrimSpace(a.AnalyzerDir),
		Command:     strings.Fields(a.AnalyzerCommand),
		AnalysisDir: strings.TrimSpace(a.AnalysisDir),
	}
	cfg.Log = config.LogConfig{Level: "info"}
	return cfg, nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateRepository(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return git.ValidateRepositoryFormat(s)
}

func validateAttempts(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("must be a whole number of at least 1")
	}
	return nil
}

func validateInterval(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a duration: %s", s)
	}
	if d < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}
