package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Cloudsky01/gh-jobwatch/internal/actions"
	"github.com/Cloudsky01/gh-jobwatch/internal/analyzer"
	"github.com/Cloudsky01/gh-jobwatch/internal/paths"
	"github.com/Cloudsky01/gh-jobwatch/internal/report"
	"github.com/Cloudsky01/gh-jobwatch/internal/summary"
	"github.com/Cloudsky01/gh-jobwatch/pkg/models"
)

// Waiter blocks until a run's jobs finish or the poll budget runs out.
type Waiter interface {
	Wait(ctx context.Context, runID int64) (*models.JobsResponse, models.PollOutcome, error)
}

// Analyzer runs the external failure analysis.
type Analyzer interface {
	Run(ctx context.Context, env analyzer.Env) error
}

type Pipeline struct {
	RunID       int64
	Env         analyzer.Env
	AnalysisDir string

	Waiter   Waiter
	Analyzer Analyzer // nil disables analysis
	Paths    *paths.Paths
	Outputs  actions.OutputWriter
	Commands *actions.Commands
	Logger   *log.Logger

	// Stdout receives the status report and the final summary.
	Stdout io.Writer
	// Styled renders the final summary as terminal markdown.
	Styled bool
}

type Result struct {
	Outcome     models.PollOutcome
	Jobs        []models.Job
	Failed      []models.Job
	AnalysisRan bool
	Sections    int
}

// Run executes wait → record → detect → analyze → render → display. The first
// error aborts the remaining stages.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = log.Default()
	}
	stdout := p.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	resp, outcome, err := p.Waiter.Wait(ctx, p.RunID)
	if err != nil {
		return nil, err
	}
	result := &Result{Outcome: outcome, Jobs: resp.Jobs}

	if err := p.record(resp, stdout); err != nil {
		return result, err
	}

	result.Failed = report.FailedJobs(resp.Jobs)
	if err := p.detect(result.Failed, logger); err != nil {
		return result, err
	}

	if len(result.Failed) > 0 {
		if p.Analyzer == nil {
			logger.Warn("Failed jobs detected but log analysis is disabled.")
		} else {
			p.Commands.Group("Log analysis")
			err := p.Analyzer.Run(ctx, p.Env)
			p.Commands.EndGroup()
			if err != nil {
				return result, err
			}
			result.AnalysisRan = true
		}
	}

	p.logAnalysisDir(logger)

	renderer := &summary.Renderer{Dir: p.AnalysisDir, Sink: p.Outputs}
	sections, err := renderer.Run()
	if err != nil {
		return result, err
	}
	result.Sections = sections
	logger.Info("Step summary updated", "sections", sections, "path", p.Outputs.SummaryPath())

	if path := p.Outputs.SummaryPath(); path != "" {
		if err := summary.Display(stdout, path, p.Styled); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (p *Pipeline) record(resp *models.JobsResponse, stdout io.Writer) error {
	if err := p.Paths.EnsureOutputDir(); err != nil {
		return err
	}
	if err := report.WriteJobsResponse(p.Paths.JobsResponseFile(), resp); err != nil {
		return err
	}

	statuses, err := report.WriteStatuses(p.Paths.JobStatusesFile(), resp.Jobs)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "Listing all job statuses:")
	if statuses != "" {
		fmt.Fprintln(stdout, statuses)
	}
	return nil
}

func (p *Pipeline) detect(failed []models.Job, logger *log.Logger) error {
	if len(failed) == 0 {
		logger.Info("No failed jobs detected. Skipping log analysis.")
		return p.Outputs.WriteOutput(report.OutputRunAnalysis, "false")
	}

	logger.Info("Failed jobs detected.", "count", len(failed))
	if err := report.WriteFailed(p.Paths.FailedJobsFile(), failed); err != nil {
		return err
	}
	return p.Outputs.WriteOutput(report.OutputRunAnalysis, "true")
}

func (p *Pipeline) logAnalysisDir(logger *log.Logger) {
	entries, err := os.ReadDir(p.AnalysisDir)
	if err != nil {
		logger.Debug("analysis directory not readable", "dir", p.AnalysisDir, "err", err)
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	logger.Debug("analysis directory contents", "dir", p.AnalysisDir, "files", strings.Join(names, ", "))
}
