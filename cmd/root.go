package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/vines/internal/app"
	"github.com/zjrosen/vines/internal/config"
	"github.com/zjrosen/vines/internal/git"
	"github.com/zjrosen/vines/internal/log"
	"github.com/zjrosen/vines/internal/tracing"
	"github.com/zjrosen/vines/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "vines [path]",
	Short:   "A terminal ui for browsing git history",
	Long:    `A terminal user interface for exploring a repository's commit graph, reading commit diffs, and staging changes hunk by hunk.`,
	Args:    cobra.MaximumNArgs(1),
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/vines/config.yaml)")
	rootCmd.Flags().StringP("path", "p", "",
		"path to the git repository")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"disable automatic refresh when the repository changes")
	rootCmd.Flags().Bool("side-by-side", false,
		"start the diff pane in split view")
	rootCmd.Flags().Bool("debug", false,
		"write debug logs to ~/.config/vines/debug.log")
	rootCmd.Flags().Bool("trace", false,
		"enable OpenTelemetry tracing of git operations")

	_ = viper.BindPFlag("path", rootCmd.Flags().Lookup("path"))
	_ = viper.BindPFlag("ui.side_by_side", rootCmd.Flags().Lookup("side-by-side"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_refresh", defaults.AutoRefresh)
	viper.SetDefault("auto_refresh_debounce", defaults.AutoRefreshDebounce)
	viper.SetDefault("commit_batch_size", defaults.CommitBatchSize)
	viper.SetDefault("palette", defaults.Palette)
	viper.SetDefault("ui.word_diff", defaults.UI.WordDiff)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.side_by_side", defaults.UI.SideBySide)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .vines/config.yaml (current directory)
		// 2. ~/.config/vines/config.yaml (user config)
		if _, err := os.Stat(".vines/config.yaml"); err == nil {
			viper.SetConfigFile(".vines/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "vines"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file anywhere: seed the user config dir with the
		// commented default template so it is discoverable next run.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if home, homeErr := os.UserHomeDir(); homeErr == nil {
				defaultPath := filepath.Join(home, ".config", "vines", "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
		} else {
			fmt.Fprintf(os.Stderr, "reading config: %v\n", err)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		cfg.Path = args[0]
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	repoPath := cfg.Path
	if repoPath == "" {
		var err error
		repoPath, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
	}

	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		if cleanup, err := initDebugLog(); err == nil {
			defer cleanup()
		}
	}
	if traceFlag, _ := cmd.Flags().GetBool("trace"); traceFlag {
		cfg.Tracing.Enabled = true
	}

	if err := styles.ApplyTheme(styles.ThemeConfig{
		Mode:   cfg.Theme.Mode,
		Colors: cfg.Theme.FlattenedColors(),
	}); err != nil {
		return fmt.Errorf("applying theme: %w", err)
	}

	provider, err := newTraceProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	svc := git.NewCLIServiceWithTracer(repoPath, provider.Tracer())
	if !svc.IsGitRepo() {
		return fmt.Errorf("not a git repository: %s", repoPath)
	}

	gitDir := ""
	if cfg.AutoRefresh {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		gitDir, err = svc.GitDir(ctx)
		cancel()
		if err != nil {
			log.Warn(log.CatWatcher, "resolving git dir failed, auto refresh disabled", "error", err)
			gitDir = ""
		}
	}

	model := app.New(svc, cfg, gitDir)
	model.SetConfigPath(viper.ConfigFileUsed())
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()

	if m, ok := final.(app.Model); ok {
		if closeErr := m.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func newTraceProvider(tc config.TracingConfig) (*tracing.Provider, error) {
	filePath := tc.FilePath
	if filePath == "" {
		filePath = config.DefaultTracesFilePath()
	}
	return tracing.NewProvider(tracing.Config{
		Enabled:     tc.Enabled,
		Exporter:    tc.Exporter,
		FilePath:    filePath,
		SampleRate:  tc.SampleRate,
		ServiceName: "vines",
	})
}

func initDebugLog() (func(), error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	logPath := filepath.Join(home, ".config", "vines", "debug.log")
	return log.InitWithTeaLog(logPath, "vines")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
