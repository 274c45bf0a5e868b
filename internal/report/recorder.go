package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Cloudsky01/gh-jobwatch/pkg/models"
)

// FormatStatuses renders one "<name> - <conclusion> - Job ID: <id>" line per job.
func FormatStatuses(jobs []models.Job) string {
	lines := make([]string, 0, len(jobs))
	for _, job := range jobs {
		lines = append(lines, fmt.Sprintf("%s - %s - Job ID: %d", job.Name, conclusionText(job), job.ID))
	}
	return strings.Join(lines, "\n")
}

// conclusionText mirrors how an unfinished job prints in the status report.
func conclusionText(job models.Job) string {
	if job.Conclusion == "" {
		return "null"
	}
	return job.Conclusion
}

// WriteJobsResponse serializes the full snapshot as JSON.
func WriteJobsResponse(path string, resp *models.JobsResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal jobs response: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteStatuses writes the status report and returns its contents.
func WriteStatuses(path string, jobs []models.Job) (string, error) {
	statuses := FormatStatuses(jobs)
	if err := os.WriteFile(path, []byte(statuses), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return statuses, nil
}
