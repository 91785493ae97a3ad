package main

import (
	"fmt"

	"github.com/danmuck/bindgap/internal/audit"
	"github.com/danmuck/bindgap/internal/config"
	"github.com/danmuck/bindgap/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "bindgap",
		Short: "Report C API functions that have no binding in a wrapper crate",
		Long: `bindgap reads a generated C header, collects every function tagged with an
export marker, and checks that each one is referenced through the binding
prefix (for example "ffi::InitWindow") somewhere in the wrapper sources.

Unbound functions are printed as an unchecked list per library target.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logLevel == "" {
				return nil
			}
			lvl, ok := logging.ParseLevel(opts.logLevel)
			if !ok {
				return fmt.Errorf("unknown log level: %s", opts.logLevel)
			}
			zerolog.SetGlobalLevel(lvl)
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultFileName, "path to the audit config")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: trace|debug|info|warn|error|off")

	cmd.AddCommand(
		newAuditCmd(opts),
		newCheckCmd(),
		newInitCmd(),
		newValidateCmd(opts),
		newWatchCmd(opts),
	)
	return cmd
}

func loadTargets(opts *rootOptions, names []string) ([]audit.Target, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	targets, err := cfg.AuditTargets()
	if err != nil {
		return nil, err
	}
	return config.Select(targets, names)
}
