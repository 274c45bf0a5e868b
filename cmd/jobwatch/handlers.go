package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/gh-jobwatch/internal/config"
	"github.com/Cloudsky01/gh-jobwatch/internal/pipeline"
	"github.com/Cloudsky01/gh-jobwatch/internal/ui"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const dividerWidth = 50

func divider() string {
	return dividerStyle.Render(strings.Repeat("━", dividerWidth))
}

func printRunReport(w io.Writer, result *pipeline.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, divider())
	if len(result.Failed) == 0 {
		fmt.Fprintln(w, successStyle.Render("✅ All jobs succeeded"))
	} else {
		fmt.Fprintln(w, failureStyle.Render(fmt.Sprintf("❌ %d job(s) failed", len(result.Failed))))
	}
	fmt.Fprintln(w, divider())
	fmt.Fprintln(w)

	fmt.Fprintln(w, labelStyle.Render("Jobs:           ")+infoStyle.Render(fmt.Sprintf("%d", len(result.Jobs))))
	fmt.Fprintln(w, labelStyle.Render("Poll attempts:  ")+infoStyle.Render(fmt.Sprintf("%d", result.Outcome.Attempts)))
	if !result.Outcome.Completed {
		fmt.Fprintln(w, ui.WarningStyle.Render("⚠ Some jobs were still running when polling stopped"))
	}
	for _, job := range result.Failed {
		fmt.Fprintln(w, infoStyle.Render("  • "+job.Name))
	}
	if result.AnalysisRan {
		fmt.Fprintln(w, labelStyle.Render("Analyses:       ")+infoStyle.Render(fmt.Sprintf("%d", result.Sections)))
	}
	fmt.Fprintln(w)
}

func printInitSummary(w io.Writer, configPath string, cfg *config.Config) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, divider())
	fmt.Fprintln(w, successStyle.Render("✅ Configuration created successfully!"))
	fmt.Fprintln(w, divider())
	fmt.Fprintln(w)

	repository := "(from GITHUB_REPOSITORY)"
	if cfg.Owner != "" && cfg.Repo != "" {
		repository = cfg.FullRepository()
	}

	fmt.Fprintln(w, labelStyle.Render("📁 Config file: ")+infoStyle.Render(configPath))
	fmt.Fprintln(w, labelStyle.Render("📦 Repository:  ")+infoStyle.Render(repository))
	fmt.Fprintln(w, labelStyle.Render("⏱  Polling:     ")+infoStyle.Render(fmt.Sprintf("%d x %s", cfg.Poll.MaxAttempts, cfg.Poll.Interval)))
	if cfg.Analyzer.Enabled {
		fmt.Fprintln(w, labelStyle.Render("🔎 Analyzer:    ")+infoStyle.Render(strings.Join(cfg.Analyzer.Command, " ")))
	} else {
		fmt.Fprintln(w, labelStyle.Render("🔎 Analyzer:    ")+infoStyle.Render("disabled"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("🚀 Next steps:"))
	fmt.Fprintln(w, infoStyle.Render("   jobwatch --run-id <id>   # Watch a run"))
	fmt.Fprintln(w, infoStyle.Render("   jobwatch --help          # See all options"))
	fmt.Fprintln(w)
}
