package poller

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/Cloudsky01/gh-jobwatch/internal/retry"
	"github.com/Cloudsky01/gh-jobwatch/pkg/models"
)

// JobLister fetches the current jobs of a run.
type JobLister interface {
	ListRunJobs(ctx context.Context, runID int64) (*models.JobsResponse, error)
}

// Warner surfaces a warning to the CI platform.
type Warner interface {
	Warning(msg string)
}

const TimeoutWarning = "Jobs did not complete within the expected time. Proceeding with available job statuses."

type Poller struct {
	lister  JobLister
	retry   *retry.Poller
	selfJob string
	logger  *log.Logger
	warner  Warner
}

type Options struct {
	Policy  retry.Policy
	SelfJob string
	Logger  *log.Logger
	Warner  Warner
	Sleep   retry.SleepFunc
}

func New(lister JobLister, opts Options) *Poller {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	r := retry.New(opts.Policy).WithSleep(opts.Sleep)
	r.OnRetry = func(attempt int) {
		logger.Info("Waiting for jobs to complete...", "attempt", attempt, "max", r.Policy().MaxAttempts)
	}

	return &Poller{
		lister:  lister,
		retry:   r,
		selfJob: opts.SelfJob,
		logger:  logger,
		warner:  opts.Warner,
	}
}

// Incomplete returns the jobs other than selfJob that are still queued or running.
func Incomplete(jobs []models.Job, selfJob string) []models.Job {
	var pending []models.Job
	for _, job := range jobs {
		if job.Name == selfJob {
			continue
		}
		if job.IsPending() {
			pending = append(pending, job)
		}
	}
	return pending
}

// Wait polls the run until every job besides the self job has finished. When the
// attempt budget runs out the last snapshot is returned with Completed=false.
func (p *Poller) Wait(ctx context.Context, runID int64) (*models.JobsResponse, models.PollOutcome, error) {
	fetch := func(ctx context.Context) (*models.JobsResponse, error) {
		resp, err := p.lister.ListRunJobs(ctx, runID)
		if err != nil {
			return nil, err
		}
		p.logger.Debug("fetched jobs", "run", runID, "total", len(resp.Jobs))
		return resp, nil
	}

	done := func(resp *models.JobsResponse) bool {
		pending := Incomplete(resp.Jobs, p.selfJob)
		for _, job := range pending {
			p.logger.Debug("job still running", "name", job.Name, "status", job.Status)
		}
		return len(pending) == 0
	}

	resp, res, err := retry.Poll(ctx, p.retry, fetch, done)
	outcome := models.PollOutcome{Attempts: res.Attempts, Completed: res.Satisfied}
	if err != nil {
		return nil, outcome, fmt.Errorf("waiting for run %d: %w", runID, err)
	}

	if outcome.Completed {
		p.logger.Info("All jobs have completed.", "attempts", outcome.Attempts)
	} else {
		p.logger.Warn(TimeoutWarning, "attempts", outcome.Attempts)
		if p.warner != nil {
			p.warner.Warning(TimeoutWarning)
		}
	}

	return resp, outcome, nil
}
