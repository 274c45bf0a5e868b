package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const maxSearchDepth = 10

// DetectRepository finds the origin remote of the repository containing the
// current directory and returns it in owner/repo format.
func DetectRepository() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return DetectRepositoryFrom(cwd)
}

// DetectRepositoryFrom is DetectRepository starting the upward search at dir.
func DetectRepositoryFrom(dir string) (string, error) {
	gitConfigPath, err := findGitConfig(dir)
	if err != nil {
		return "", err
	}
	return parseGitConfig(gitConfigPath)
}

func findGitConfig(dir string) (string, error) {
	for range maxSearchDepth {
		configPath := filepath.Join(dir, ".git", "config")
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no .git/config found - not in a git repository")
}

func parseGitConfig(configPath string) (string, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return "", fmt.Errorf("failed to read git config: %w", err)
	}

	var inOrigin bool
	var url string
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") {
			inOrigin = trimmed == `[remote "origin"]`
			continue
		}

		if inOrigin && strings.HasPrefix(trimmed, "url") {
			if _, value, ok := strings.Cut(trimmed, "="); ok {
				url = strings.TrimSpace(value)
				break
			}
		}
	}

	if url == "" {
		return "", fmt.Errorf("no origin remote found in git config")
	}

	repo := extractRepoFromURL(url)
	if repo == "" {
		return "", fmt.Errorf("failed to extract owner/repo from URL: %s", url)
	}
	return repo, nil
}

// extractRepoFromURL converts GitHub remote URLs to owner/repo format
// Handles:
//   - https://github.com/owner/repo(.git)
//   - git@github.com:owner/repo(.git)
//   - ssh://git@github.com/owner/repo(.git)
func extractRepoFromURL(url string) string {
	var repo string
	switch {
	case strings.HasPrefix(url, "https://"), strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "ssh://"):
		idx := strings.Index(url, "github.com/")
		if idx == -1 {
			return ""
		}
		repo = url[idx+len("github.com/"):]
	default:
		after, ok := strings.CutPrefix(url, "git@github.com:")
		if !ok {
			return ""
		}
		repo = after
	}

	repo = strings.TrimSuffix(repo, "/")
	repo = strings.TrimSuffix(repo, ".git")
	if !isValidRepoFormat(repo) {
		return ""
	}
	return repo
}
