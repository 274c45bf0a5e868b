package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/charmbracelet/log"
)

var ErrAnalyzerFailed = errors.New("log analyzer failed")

// Env is the context handed to the analyzer process. It is passed explicitly
// rather than through the parent's environment.
type Env struct {
	Owner  string
	Repo   string
	RunID  int64
	Token  string
	Cookie string
}

// Vars renders Env as KEY=value pairs in the names the analyzer reads.
func (e Env) Vars() []string {
	return []string{
		"GITHUB_TOKEN=" + e.Token,
		"REPO_OWNER=" + e.Owner,
		"REPO_NAME=" + e.Repo,
		"CUSTOM_SERVICE_COOKIE=" + e.Cookie,
		"GITHUB_RUN_ID=" + strconv.FormatInt(e.RunID, 10),
	}
}

// redacted is used when echoing the command so secrets stay out of the log.
func (e Env) redacted() []string {
	r := e
	if r.Token != "" {
		r.Token = "***"
	}
	if r.Cookie != "" {
		r.Cookie = "***"
	}
	return r.Vars()
}

type Invoker struct {
	Command []string
	Dir     string
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *log.Logger

	// BaseEnv is the environment the analyzer inherits. Defaults to os.Environ().
	BaseEnv []string
}

// Run executes the analyzer and blocks until it exits. A non-zero exit status
// is returned as ErrAnalyzerFailed.
func (inv *Invoker) Run(ctx context.Context, env Env) error {
	if len(inv.Command) == 0 {
		return fmt.Errorf("%w: no command configured", ErrAnalyzerFailed)
	}

	logger := inv.Logger
	if logger == nil {
		logger = log.Default()
	}

	cmd := exec.CommandContext(ctx, inv.Command[0], inv.Command[1:]...)
	cmd.Dir = inv.Dir
	cmd.Stdout = writerOr(inv.Stdout, os.Stdout)
	cmd.Stderr = writerOr(inv.Stderr, os.Stderr)

	base := inv.BaseEnv
	if base == nil {
		base = os.Environ()
	}
	cmd.Env = append(append([]string{}, base...), env.Vars()...)

	logger.Info("Running log analyzer", "dir", inv.Dir, "command", describe(inv.Command, env))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s exited with status %d", ErrAnalyzerFailed, inv.Command[0], exitErr.ExitCode())
		}
		return fmt.Errorf("%w: %v", ErrAnalyzerFailed, err)
	}

	logger.Info("Log analyzer finished")
	return nil
}

// describe renders the invocation as a copy-pasteable shell line with secrets masked.
func describe(command []string, env Env) string {
	parts := make([]string, 0, len(command)+5)
	for _, kv := range env.redacted() {
		key, value, _ := strings.Cut(kv, "=")
		parts = append(parts, key+"="+shellescape.Quote(value))
	}
	for _, arg := range command {
		parts = append(parts, shellescape.Quote(arg))
	}
	return strings.Join(parts, " ")
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
