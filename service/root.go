// Package service holds the yatube command line: the web server and the
// administrative commands that work on the same database.
package service

import (
	"fmt"
	"os"

	"yatube/app/config"
	"yatube/app/repositories"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags "-X yatube/service.Version=...".
var Version = "dev"

var osExit = os.Exit

// options are the global flags shared by every subcommand.
type options struct {
	configPath string
}

// NewRootCommand builds the yatube command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "yatube",
		Short: "Yatube - a small blogging platform",
		Long: `Yatube is a blogging platform: authors publish posts, optionally in
thematic groups, and readers browse paginated feeds.

Settings come from an optional INI file (--config), YATUBE_* environment
variables and a .env file in the working directory.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to an INI config file")

	root.AddCommand(
		newServeCommand(opts),
		newCreateUserCommand(opts),
		newGroupCommand(opts),
		newDBCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		osExit(1)
	}
}

// environment is what a command needs after loading settings.
type environment struct {
	cfg    *config.Config
	logger *zap.Logger
}

func (o *options) load() (*environment, error) {
	return o.loadWith(config.Load)
}

// loadForAdmin loads settings for commands that never sign sessions, so a
// missing secret key is not an error for them.
func (o *options) loadForAdmin() (*environment, error) {
	return o.loadWith(config.Read)
}

func (o *options) loadWith(load func(string) (*config.Config, error)) (*environment, error) {
	cfg, err := load(o.configPath)
	if err != nil {
		return nil, err
	}
	logger, err := config.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return &environment{cfg: cfg, logger: logger}, nil
}

func (e *environment) openStore() (*repositories.Store, error) {
	if err := os.MkdirAll(e.cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return repositories.Open(e.cfg.DataDir, e.logger)
}
