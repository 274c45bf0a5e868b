package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Cloudsky01/gh-jobwatch/internal/actions"
	"github.com/Cloudsky01/gh-jobwatch/internal/analyzer"
	"github.com/Cloudsky01/gh-jobwatch/internal/config"
	"github.com/Cloudsky01/gh-jobwatch/internal/github"
	"github.com/Cloudsky01/gh-jobwatch/internal/logging"
	"github.com/Cloudsky01/gh-jobwatch/internal/paths"
	"github.com/Cloudsky01/gh-jobwatch/internal/pipeline"
	"github.com/Cloudsky01/gh-jobwatch/internal/poller"
	"github.com/Cloudsky01/gh-jobwatch/internal/retry"
	"github.com/Cloudsky01/gh-jobwatch/internal/ui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFile string

	rootCmd = &cobra.Command{
		Use:   "jobwatch",
		Short: "Wait for a workflow run's jobs and summarize failures",
		Long: `jobwatch runs as a step inside a GitHub Actions workflow. It polls the
jobs of the current run until they finish, records their statuses, and when
any job failed runs an external log analyzer. The analyzer's findings are
appended to the step summary.

Inputs are read from flags, JOBWATCH_* variables, the Actions inputs
(INPUT_RUN_ID, INPUT_REPO_OWNER, INPUT_REPO_NAME, INPUT_GITHUB_TOKEN) and the
runner context (GITHUB_RUN_ID, GITHUB_REPOSITORY, GITHUB_TOKEN).

Examples:
  jobwatch --run-id 123456 --owner octo --repo service
  jobwatch --analyze=false         # only wait and record statuses
  jobwatch config init             # create .jobwatch.yaml`,
		RunE:          runWatch,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (default: user config merged with .jobwatch.yaml)")
	registerRunFlags(rootCmd)
	rootCmd.SetVersionTemplate(fmt.Sprintf("jobwatch %s (commit %s, built %s)\n", version, commit, date))
}

// registerRunFlags adds the flags bound into config.FlagBindings. Defaults
// mirror the config defaults so an unset flag never shadows a config file.
func registerRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int64("run-id", 0, "Workflow run ID to watch")
	f.String("owner", "", "Repository owner")
	f.String("repo", "", "Repository name")
	f.StringP("repository", "r", "", "Repository in OWNER/REPO format")
	f.String("token", "", "GitHub token (prefer GITHUB_TOKEN)")
	f.String("api-url", config.DefaultAPIURL, "GitHub API base URL")
	f.String("output-dir", ".", "Directory for jobs_response.json, job_statuses.txt and failed_jobs.txt")
	f.Int("max-attempts", config.DefaultMaxAttempts, "Maximum number of job list fetches")
	f.Duration("interval", config.DefaultInterval, "Delay between fetches")
	f.String("self-job", config.DefaultSelfJob, "Name of the job running jobwatch, ignored while waiting")
	f.Bool("analyze", true, "Run the log analyzer when jobs fail")
	f.String("analyzer-dir", config.DefaultAnalyzerDir, "Working directory of the log analyzer")
	f.StringSlice("analyzer-command", config.DefaultAnalyzerCommand, "Log analyzer command and arguments")
	f.String("analysis-dir", "", "Directory scanned for *_analysis_*.txt files (default: the analyzer directory)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.BoolP("debug", "d", false, "Shortcut for --log-level=debug")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := paths.New("")
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: configFile,
		Paths:      p,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.Setup(cfg.Log.Level, cfg.Log.Debug)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	p.OutputDir = cfg.OutputDir

	env := actions.FromEnv()
	client, err := github.NewClient(ctx, github.Options{
		Owner:   cfg.Owner,
		Repo:    cfg.Repo,
		Token:   cfg.Token,
		BaseURL: cfg.APIURL,
	})
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded", "repository", client.GetRepository(), "run_id", cfg.RunID, "config", cfg.GetConfigPath())

	interactive := ui.IsTTY(os.Stdout) && !env.Enabled
	pl := buildPipeline(cfg, p, env, client, logger, os.Stdout, interactive)

	result, err := pl.Run(ctx)
	if err != nil {
		return err
	}

	if interactive {
		printRunReport(os.Stdout, result)
	}
	return nil
}

// buildPipeline wires the stages from a validated config.
func buildPipeline(cfg *config.Config, p *paths.Paths, env actions.Environment, lister poller.JobLister, logger *log.Logger, stdout io.Writer, interactive bool) *pipeline.Pipeline {
	commands := actions.NewCommands(stdout, env.Enabled)
	spinner := interactive && !cfg.Log.Debug

	pollLogger := logger
	if spinner {
		pollLogger = quietLogger(logger)
	}

	var waiter pipeline.Waiter = poller.New(lister, poller.Options{
		Policy:  retry.Policy{MaxAttempts: cfg.Poll.MaxAttempts, Delay: cfg.Poll.Interval},
		SelfJob: cfg.Poll.SelfJob,
		Logger:  pollLogger,
		Warner:  commands,
	})
	if spinner {
		waiter = &ui.SpinnerWaiter{Waiter: waiter, Out: stdout, TTY: true}
	}

	pl := &pipeline.Pipeline{
		RunID: cfg.RunID,
		Env: analyzer.Env{
			Owner:  cfg.Owner,
			Repo:   cfg.Repo,
			RunID:  cfg.RunID,
			Token:  cfg.Token,
			Cookie: cfg.Cookie,
		},
		AnalysisDir: cfg.Analyzer.AnalysisDir,
		Waiter:      waiter,
		Paths:       p,
		Outputs:     actions.NewFileOutputWriter(env.OutputPath, summaryPath(env, p)),
		Commands:    commands,
		Logger:      logger,
		Stdout:      stdout,
		Styled:      interactive,
	}

	if cfg.Analyzer.Enabled {
		pl.Analyzer = &analyzer.Invoker{
			Command: cfg.Analyzer.Command,
			Dir:     cfg.Analyzer.Dir,
			Stdout:  stdout,
			Logger:  logger,
		}
	}
	return pl
}

// quietLogger keeps per-attempt progress off the terminal while the spinner
// owns it. Warnings still get through.
func quietLogger(logger *log.Logger) *log.Logger {
	quiet := logger.With()
	if quiet.GetLevel() < log.WarnLevel {
		quiet.SetLevel(log.WarnLevel)
	}
	return quiet
}

// summaryPath prefers the runner's step summary file and falls back to the
// output directory outside Actions.
func summaryPath(env actions.Environment, p *paths.Paths) string {
	if env.SummaryPath != "" {
		return env.SummaryPath
	}
	return p.StepSummaryFile()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, actions.NewCommands(os.Stdout, actions.FromEnv().Enabled), err)
		os.Exit(1)
	}
}

func reportError(w io.Writer, commands *actions.Commands, err error) {
	fmt.Fprintln(w, ui.ErrorStyle.Render("Error: "+err.Error()))
	commands.Error(err.Error())
}
