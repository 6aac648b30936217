// Package cli implements the strippack command-line interface.
//
// # Commands
//
//   - solve: pack a problem file and print the placement listing
//   - bench: compare strategies on generated instances with known optima
//   - generate: write a synthetic problem file
//   - check: validate a placement listing against its problem
//
// All commands support --verbose (-v) for debug-level logging and --config
// to read settings from a JSON or TOML file.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/strippack/internal/model"
	"github.com/piwi3910/strippack/internal/project"
)

const appName = "strippack"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config model.Config
	out    io.Writer
}

// New creates a CLI that prints results to out and logs to logw.
func New(out, logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(logw, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Config: model.DefaultConfig(),
		out:    out,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          appName,
		Short:        "strippack compares rectangle strip-packing strategies",
		Long:         `strippack packs rectangles into a strip of fixed or free height and benchmarks placement strategies against each other.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadConfig(configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			if cfg.Verbose {
				c.SetLogLevel(LogDebug)
			}
			c.Logger.Debug("loaded config", "path", configPath, "strategies", cfg.Strategies)
			return nil
		},
	}
	root.SetOut(c.out)
	root.PersistentFlags().StringVar(&configPath, "config", project.DefaultConfigPath(), "config file (.json or .toml)")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.checkCommand())

	return root
}

// progress logs completion of an operation with its elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string, keyvals ...interface{}) {
	keyvals = append(keyvals, "duration", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}
