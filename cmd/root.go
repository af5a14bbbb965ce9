package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/lineconsole/internal/builtins"
	"github.com/zjrosen/lineconsole/internal/config"
	"github.com/zjrosen/lineconsole/internal/console"
	"github.com/zjrosen/lineconsole/internal/flags"
	"github.com/zjrosen/lineconsole/internal/log"
	"github.com/zjrosen/lineconsole/internal/tracing"
	"github.com/zjrosen/lineconsole/internal/tui"
	"github.com/zjrosen/lineconsole/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in the console.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const (
	envPrefix       = "LINECONSOLE"
	localConfigPath = ".lineconsole/config.yaml"
)

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config

	// Color tags may contain dots, so nested keys use "::".
	vp = newViper()
)

var rootCmd = &cobra.Command{
	Use:     "lineconsole",
	Short:   "An interactive line-editing console",
	Long:    `A terminal console with line editing, colored output and a small set of builtin commands.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/lineconsole/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false,
		"write a debug log to ~/.config/lineconsole/debug.log")
	rootCmd.Flags().String("prompt", "", "prompt shown at the start of every line")
	rootCmd.Flags().Bool("no-prompt", false, "hide the prompt")
	rootCmd.Flags().Bool("full-screen", false, "start in full-screen mode")
	rootCmd.Flags().Bool("in-place", false, "draw without the bordered box")
	rootCmd.Flags().Int("height", 0, "rows of the bordered box (0 fills the terminal)")
	rootCmd.Flags().Bool("no-color", false, "disable colors")

	bindFlags(vp, rootCmd)
}

func newViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("::", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	for key, flag := range map[string]string{
		"prompt":          "prompt",
		"no_prompt":       "no-prompt",
		"full_screen":     "full-screen",
		"in_place":        "in-place",
		"height":          "height",
		"theme::no_color": "no-color",
	} {
		_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

func initConfig() {
	// A missing .env is fine; values only fill unset variables.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.ErrorErr(log.CatConfig, "loading .env", err)
	}

	if cfgFile != "" {
		vp.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .lineconsole/config.yaml (current directory)
		// 2. ~/.config/lineconsole/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			vp.SetConfigFile(localConfigPath)
		} else {
			vp.AddConfigPath(config.DefaultConfigDir())
			vp.SetConfigName("config")
			vp.SetConfigType("yaml")
		}
	}

	if err := vp.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// No config file found anywhere - create the default user config
			defaultPath := filepath.Join(config.DefaultConfigDir(), "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				vp.SetConfigFile(defaultPath)
				_ = vp.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		} else {
			log.ErrorErr(log.CatConfig, "reading config", err, "path", vp.ConfigFileUsed())
		}
	}

	loaded, err := decodeConfig(vp)
	if err != nil {
		log.ErrorErr(log.CatConfig, "decoding config", err)
	}
	cfg = loaded
}

// decodeConfig unmarshals v over the defaults.
func decodeConfig(v *viper.Viper) (config.Config, error) {
	c := config.Defaults()
	if err := v.Unmarshal(&c); err != nil {
		return config.Defaults(), fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

// reloader re-reads the config file for the watcher.
func reloader(v *viper.Viper) func() (tui.Reloaded, error) {
	return func() (tui.Reloaded, error) {
		if err := v.ReadInConfig(); err != nil {
			return tui.Reloaded{}, fmt.Errorf("reading config: %w", err)
		}
		next, err := decodeConfig(v)
		if err != nil {
			return tui.Reloaded{}, err
		}
		if err := next.Validate(); err != nil {
			return tui.Reloaded{}, fmt.Errorf("invalid configuration: %w", err)
		}
		return tui.Reloaded{
			Prompt:  next.ConsolePrompt(),
			Palette: next.Theme.Palette(),
			NoColor: next.Theme.NoColor,
		}, nil
	}
}

func runApp(_ *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if debug {
		cleanup, err := log.Init(filepath.Join(config.DefaultConfigDir(), "debug.log"))
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer cleanup()
	}
	logger := log.Default()

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.ErrorErr(log.CatTrace, "tracing shutdown", err)
		}
	}()

	configPath := vp.ConfigFileUsed()
	w, changes := startWatcher(configPath, logger)
	if w != nil {
		defer func() { _ = w.Stop() }()
	}

	model := tui.New(tui.Options{
		Palette: cfg.Theme.Palette(),
		NoColor: cfg.Theme.NoColor,
		Logger:  logger,
		Watcher: w,
		Changes: changes,
		Reload:  reloader(vp),
	})
	c := console.New(model, console.Config{
		Prompt:     cfg.ConsolePrompt(),
		NoPrompt:   cfg.NoPrompt,
		FullScreen: cfg.FullScreen,
		InPlace:    cfg.InPlace,
		Height:     cfg.Height,
		Logger:     logger,
		Tracer:     provider.Tracer(),
		Flags:      flags.New(cfg.Flags),
	})
	defer c.Close()

	if err := builtins.Register(c, builtins.Deps{
		Scheduler:  model,
		ConfigPath: configPath,
		Logger:     logger,
	}); err != nil {
		return fmt.Errorf("registering builtins: %w", err)
	}
	model.Attach(c)

	p := tea.NewProgram(model)
	model.SetProgram(p)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// startWatcher watches the config file when enabled. Failures are logged
// and leave the console without live reload.
func startWatcher(configPath string, logger *log.Logger) (*watcher.Watcher, <-chan struct{}) {
	if !cfg.Watch || configPath == "" {
		return nil, nil
	}
	wc := watcher.DefaultConfig(configPath)
	wc.Logger = logger
	w, err := watcher.New(wc)
	if err != nil {
		logger.ErrorErr(log.CatWatcher, "creating watcher", err)
		return nil, nil
	}
	changes, err := w.Start()
	if err != nil {
		logger.ErrorErr(log.CatWatcher, "starting watcher", err, "path", configPath)
		_ = w.Stop()
		return nil, nil
	}
	return w, changes
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
