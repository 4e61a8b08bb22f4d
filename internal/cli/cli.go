// Package cli implements the kalamine command-line interface.
//
// Commands:
//   - build: render descriptors to XKB and JSON files in the dist directory
//   - render: render one descriptor through the embedded or a custom template
//   - json: print the JSON keymap of one descriptor
//
// Settings come from internal/config; --verbose switches logging to debug.
package cli

import (
	"context"
	"io"
	"log/slog"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/byte4ever/kalamine/descriptor"
	"github.com/byte4ever/kalamine/internal/config"
)

// app carries what every command needs once flags and
// configuration are read.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

func (a *app) loader() *descriptor.Loader {
	return &descriptor.Loader{
		Defaults:       a.cfg.Defaults(),
		StampInfoFiles: a.cfg.StampInfoFiles,
		Now:            a.now,
	}
}

// NewRootCommand builds the command tree. Logs go to
// errOut.
func NewRootCommand(version string, errOut io.Writer) *cobra.Command {
	var (
		verbose bool
		cfgFile string
		envFile string
	)

	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:          "kalamine",
		Short:        "Generate XKB keyboard layouts from layout descriptors",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}

			a.logger = newLogger(errOut, level)

			cfg, err := config.Loader{
				File:    cfgFile,
				EnvFile: envFile,
			}.Load()
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger.Debug(
				"configuration loaded",
				"out_dir", cfg.OutDir,
				"parallelism", cfg.Parallelism,
			)

			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./kalamine.yaml)")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file (default ./.env)")

	root.AddCommand(newBuildCmd(a))
	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newJSONCmd(a))

	return root
}

// Execute runs the CLI with args taken from os.Args.
func Execute(ctx context.Context, version string, errOut io.Writer) error {
	return NewRootCommand(version, errOut).ExecuteContext(ctx)
}
