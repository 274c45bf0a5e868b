package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Cloudsky01/gh-jobwatch/internal/config"
	"github.com/Cloudsky01/gh-jobwatch/internal/git"
	"github.com/Cloudsky01/gh-jobwatch/internal/paths"
	"github.com/Cloudsky01/gh-jobwatch/internal/ui"
)

var (
	force bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage jobwatch configuration",
		Long: `Manage jobwatch configuration files.

Configuration Locations:
  User config:     ~/.config/jobwatch/config.yaml
  Project config:  ./.jobwatch.yaml

Configuration Precedence (lowest to highest):
  1. Built-in defaults
  2. User config
  3. Project config (or --config)
  4. Environment variables (INPUT_*, GITHUB_*, JOBWATCH_*)
  5. CLI flags

Secrets (token, cookie) are only read from flags and the environment.`,
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Show configuration file locations",
		RunE:  runConfigPath,
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Display merged configuration",
		Long:  `Show the effective configuration after merging all sources. Secrets are masked.`,
		RunE:  runConfigShow,
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a project configuration file",
		Long: `Interactively create .jobwatch.yaml in the current directory, or the
file given with --config. Use --force to overwrite an existing file.`,
		RunE: runConfigInit,
	}
)

func init() {
	registerRunFlags(configShowCmd)
	configInitCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration file")

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	p, err := paths.New("")
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}
	printConfigPaths(cmd.OutOrStdout(), p, configFile)
	return nil
}

func printConfigPaths(w io.Writer, p *paths.Paths, explicit string) {
	fmt.Fprintln(w, "Configuration File Locations")
	fmt.Fprintln(w, "════════════════════════════════════════════════════════════")
	fmt.Fprintln(w)

	userConfigPath := p.UserConfigFile()
	fmt.Fprintf(w, "User Config:        %s %s\n", userConfigPath, existsIndicator(fileExists(userConfigPath)))

	projectConfigPath := p.ProjectConfigFile()
	fmt.Fprintf(w, "Project Config:     %s %s\n", projectConfigPath, existsIndicator(fileExists(projectConfigPath)))

	if explicit != "" {
		fmt.Fprintf(w, "--config:           %s %s\n", explicit, existsIndicator(fileExists(explicit)))
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	p, err := paths.New("")
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: configFile,
		Paths:      p,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	w := cmd.OutOrStdout()
	source := p.GetConfigSource(cfg.GetConfigPath())

	fmt.Fprintln(w, "Merged Configuration")
	fmt.Fprintln(w, "════════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "Source: %s\n", source)
	fmt.Fprintf(w, "Path:   %s\n", cfg.GetConfigPath())
	fmt.Fprintln(w)

	data, err := yaml.Marshal(showView(cfg))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(w, string(data))

	if configFile == "" {
		fmt.Fprintln(w, "════════════════════════════════════════════════════════════")
		fmt.Fprintln(w, "Active Configuration Files:")
		for _, path := range p.GetConfigPaths() {
			fmt.Fprintf(w, "  • %s (%s)\n", path, p.GetConfigSource(path))
		}
	}
	return nil
}

// shownConfig includes the fields Config keeps out of saved files, masked.
type shownConfig struct {
	Config     config.Config `yaml:",inline"`
	Repository string        `yaml:"repository"`
	Token      string        `yaml:"token"`
	Cookie     string        `yaml:"cookie"`
}

func showView(cfg *config.Config) shownConfig {
	r := cfg.Redacted()
	repository := ""
	if cfg.Owner != "" && cfg.Repo != "" {
		repository = cfg.FullRepository()
	}
	return shownConfig{
		Config:     r,
		Repository: repository,
		Token:      r.Token,
		Cookie:     r.Cookie,
	}
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	p, err := paths.New("")
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}

	target := initTarget(p, configFile)
	if fileExists(target) && !force {
		return fmt.Errorf("configuration file %s already exists. Use --force to overwrite", target)
	}

	if !ui.IsTTY(os.Stdin) {
		return fmt.Errorf("config init needs an interactive terminal")
	}

	detected, _ := git.DetectRepository()
	w := ui.NewWizard(detected, target, cmd.OutOrStdout())
	cfg, err := w.Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	if err := cfg.Save(target); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	printInitSummary(cmd.OutOrStdout(), target, cfg)
	return nil
}

// initTarget picks where config init writes: --config when given, otherwise
// the project config in the working directory.
func initTarget(p *paths.Paths, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return p.ProjectConfigFile()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func existsIndicator(exists bool) string {
	if exists {
		return "✓"
	}
	return "✗"
}
