package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Vaibhavs10/llm-mem-finder/internal/common/fsutil"
	"github.com/Vaibhavs10/llm-mem-finder/internal/config"
	"github.com/Vaibhavs10/llm-mem-finder/internal/resolver"
	"github.com/Vaibhavs10/llm-mem-finder/internal/service"
)

// Flags holds persistent flag values and the environment lookup.
type Flags struct {
	ConfigPath string
	EnvFile    string
	LogLevel   string
	Getenv     func(string) string
}

// app is the state shared by subcommands once the persistent pre-run has
// loaded configuration.
type app struct {
	flags *Flags
	cfg   config.Config
	log   zerolog.Logger
}

// buildRootCmdWith constructs the command tree bound to flags.
func buildRootCmdWith(flags *Flags) *cobra.Command {
	if flags.Getenv == nil {
		flags.Getenv = os.Getenv
	}
	a := &app{flags: flags, log: zerolog.Nop()}
	root := &cobra.Command{
		Use:           "memfinder",
		Short:         "Estimate the memory needed to run a language model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", flags.ConfigPath, "Config file (.yaml, .json, .toml); defaults MEMFINDER_CONFIG")
	root.PersistentFlags().StringVar(&flags.EnvFile, "env-file", flags.EnvFile, "dotenv file loaded when present")
	root.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug|info|warn|error (defaults MEMFINDER_LOG_LEVEL or info)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.load(cmd.ErrOrStderr())
	}

	root.AddCommand(
		newEstimateCmd(a),
		newResolveCmd(a),
		newQuantsCmd(a),
		newModelsCmd(a),
		newServeCmd(a),
	)
	return root
}

// load resolves configuration: file, then environment, then flags.
func (a *app) load(stderr io.Writer) error {
	if a.flags.EnvFile != "" && fsutil.PathExists(a.flags.EnvFile) {
		if err := godotenv.Load(a.flags.EnvFile); err != nil {
			return fmt.Errorf("load %s: %w", a.flags.EnvFile, err)
		}
	}
	getenv := a.flags.Getenv
	path := a.flags.ConfigPath
	if path == "" {
		path = strings.TrimSpace(getenv("MEMFINDER_CONFIG"))
	}
	var cfg config.Config
	if path != "" {
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = c
	}
	cfg, err := cfg.ApplyEnv(getenv)
	if err != nil {
		return err
	}
	if a.flags.LogLevel != "" {
		cfg.LogLevel = a.flags.LogLevel
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	lvl, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).Level(lvl).With().Timestamp().Logger()
	return nil
}

// service builds the estimate service. Subcommands that only compute from
// explicit inputs pass withProvider=false so no registry is touched.
func (a *app) service(withProvider bool) (*service.Service, error) {
	var p resolver.Provider
	if withProvider {
		var err error
		if p, err = newProvider(a.cfg, a.log); err != nil {
			return nil, err
		}
	}
	return service.New(service.Config{
		Provider:      p,
		ContextTokens: a.cfg.ContextTokens,
		OSOverheadGB:  a.cfg.OSOverheadGB,
		Logger:        a.log,
	}), nil
}

func parseLogLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warning":
		return zerolog.WarnLevel, nil
	case "err":
		return zerolog.ErrorLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}
