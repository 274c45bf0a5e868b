package git

import (
	"fmt"
	"regexp"
	"strings"
)

var repoFormatRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+/[a-zA-Z0-9_.-]+$`)

func isValidRepoFormat(repo string) bool {
	return repoFormatRegex.MatchString(repo)
}

// ValidateRepositoryFormat validates that a repository string is in owner/repo format
func ValidateRepositoryFormat(repo string) error {
	if !isValidRepoFormat(repo) {
		return fmt.Errorf("invalid repository format: %q - expected format: owner/repo", repo)
	}
	return nil
}

// SplitRepository splits owner/repo into its two parts
func SplitRepository(repo string) (owner, name string, err error) {
	if err := ValidateRepositoryFormat(repo); err != nil {
		return "", "", err
	}
	owner, name, _ = strings.Cut(repo, "/")
	return owner, name, nil
}
