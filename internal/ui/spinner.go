package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cloudsky01/gh-jobwatch/pkg/models"
)

type spinnerModel[T any] struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
	result  T
}

type spinnerCompleteMsg[T any] struct {
	result T
	err    error
}

func newSpinnerModel[T any](message string) spinnerModel[T] {
	s := spinner.New()
	s.Spinner = spinner.Globe
	s.Style = spinnerStyle
	return spinnerModel[T]{
		spinner: s,
		message: message,
	}
}

func (m spinnerModel[T]) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = context.Canceled
			return m, tea.Quit
		}
		return m, nil

	case spinnerCompleteMsg[T]:
		m.done = true
		m.err = msg.err
		m.result = msg.result
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m spinnerModel[T]) View() string {
	if m.done {
		if m.err == nil {
			return SuccessStyle.Render("✓ "+m.message+" complete") + "\n"
		}
		return ErrorStyle.Render("✗ "+m.message+" failed: "+m.err.Error()) + "\n"
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), messageStyle.Render(m.message))
}

// RunWithSpinner runs fn while showing a spinner on out. Without a terminal
// it prints plain start and finish lines instead.
func RunWithSpinner[T any](ctx context.Context, out io.Writer, tty bool, message string, fn func(context.Context) (T, error)) (T, error) {
	if !tty {
		fmt.Fprintln(out, messageStyle.Render(message+"..."))
		result, err := fn(ctx)
		if err != nil {
			fmt.Fprintln(out, ErrorStyle.Render("✗ "+message+" failed: "+err.Error()))
			return result, err
		}
		fmt.Fprintln(out, SuccessStyle.Render("✓ "+message+" complete"))
		return result, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newSpinnerModel[T](message), tea.WithOutput(out), tea.WithContext(ctx))

	go func() {
		result, err := fn(ctx)
		p.Send(spinnerCompleteMsg[T]{result: result, err: err})
	}()

	finalModel, err := p.Run()
	cancel()

	var zero T
	if err != nil {
		return zero, err
	}
	if sm, ok := finalModel.(spinnerModel[T]); ok {
		return sm.result, sm.err
	}
	return zero, fmt.Errorf("unexpected model type %T", finalModel)
}

// Waiter matches the pipeline's wait stage.
type Waiter interface {
	Wait(ctx context.Context, runID int64) (*models.JobsResponse, models.PollOutcome, error)
}

// SpinnerWaiter shows a spinner while the wrapped Waiter polls.
type SpinnerWaiter struct {
	Waiter Waiter
	Out    io.Writer
	TTY    bool
}

type waitResult struct {
	resp    *models.JobsResponse
	outcome models.PollOutcome
}

func (s *SpinnerWaiter) Wait(ctx context.Context, runID int64) (*models.JobsResponse, models.PollOutcome, error) {
	message := fmt.Sprintf("Waiting for jobs of run %d", runID)
	r, err := RunWithSpinner(ctx, s.Out, s.TTY, message, func(ctx context.Context) (waitResult, error) {
		resp, outcome, err := s.Waiter.Wait(ctx, runID)
		return waitResult{resp: resp, outcome: outcome}, err
	})
	return r.resp, r.outcome, err
}
