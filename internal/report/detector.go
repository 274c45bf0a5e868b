package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/Cloudsky01/gh-jobwatch/pkg/models"
)

// OutputRunAnalysis is the step output consumed by later workflow steps.
const OutputRunAnalysis = "run_analysis"

// FailedJobs selects the jobs whose conclusion is failure, preserving order.
func FailedJobs(jobs []models.Job) []models.Job {
	var failed []models.Job
	for _, job := range jobs {
		if job.Failed() {
			failed = append(failed, job)
		}
	}
	return failed
}

// HasFailures reports whether any job concluded with a failure.
func HasFailures(jobs []models.Job) bool {
	for _, job := range jobs {
		if job.Failed() {
			return true
		}
	}
	return false
}

func FormatFailed(jobs []models.Job) string {
	lines := make([]string, 0, len(jobs))
	for _, job := range jobs {
		lines = append(lines, fmt.Sprintf("%s - %s", job.Name, job.Conclusion))
	}
	return strings.Join(lines, "\n")
}

func WriteFailed(path string, failed []models.Job) error {
	if err := os.WriteFile(path, []byte(FormatFailed(failed)), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
