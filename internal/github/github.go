package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v59/github"
	"golang.org/x/oauth2"

	"github.com/Cloudsky01/gh-jobwatch/pkg/models"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultBaseURL = "https://api.github.com/"

	perPage = 100
)

var (
	ErrRunNotFound = errors.New("workflow run not found")
	ErrNoToken     = errors.New("a GitHub token is required")
)

type Options struct {
	Owner   string
	Repo    string
	Token   string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	api     *gh.Client
	owner   string
	repo    string
	timeout time.Duration
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, ErrNoToken
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = opts.Timeout

	api := gh.NewClient(httpClient)
	if opts.BaseURL != "" && opts.BaseURL != DefaultBaseURL {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", opts.BaseURL, err)
		}
		api.BaseURL = u
	}

	return &Client{
		api:     api,
		owner:   opts.Owner,
		repo:    opts.Repo,
		timeout: opts.Timeout,
	}, nil
}

func (c *Client) GetRepository() string {
	return c.owner + "/" + c.repo
}

func (c *Client) GetTimeout() time.Duration {
	return c.timeout
}

// ListRunJobs fetches every job of the latest attempt of a run, following pagination.
func (c *Client) ListRunJobs(ctx context.Context, runID int64) (*models.JobsResponse, error) {
	opts := &gh.ListWorkflowJobsOptions{
		Filter:      "latest",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	result := &models.JobsResponse{Jobs: []models.Job{}}
	for {
		jobs, resp, err := c.listPage(ctx, runID, opts)
		if err != nil {
			return nil, err
		}

		result.TotalCount = jobs.GetTotalCount()
		for _, j := range jobs.Jobs {
			result.Jobs = append(result.Jobs, convertJob(j))
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

func (c *Client) listPage(ctx context.Context, runID int64, opts *gh.ListWorkflowJobsOptions) (*gh.Jobs, *gh.Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	jobs, resp, err := c.api.Actions.ListWorkflowJobs(reqCtx, c.owner, c.repo, runID, opts)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return nil, nil, fmt.Errorf("listing jobs for run %d timed out after %v", runID, c.timeout)
		}
		var errResp *gh.ErrorResponse
		if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound {
			return nil, nil, fmt.Errorf("%w: run %d in %s", ErrRunNotFound, runID, c.GetRepository())
		}
		return nil, nil, fmt.Errorf("failed to list jobs for run %d: %w", runID, err)
	}

	return jobs, resp, nil
}

func convertJob(j *gh.WorkflowJob) models.Job {
	job := models.Job{
		ID:         j.GetID(),
		RunID:      j.GetRunID(),
		Name:       j.GetName(),
		Status:     j.GetStatus(),
		Conclusion: j.GetConclusion(),
		HTMLURL:    j.GetHTMLURL(),
	}
	if j.StartedAt != nil {
		t := j.StartedAt.Time
		job.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := j.CompletedAt.Time
		job.CompletedAt = &t
	}
	return job
}
