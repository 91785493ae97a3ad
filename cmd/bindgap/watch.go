package main

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/danmuck/bindgap/internal/audit"
	"github.com/danmuck/bindgap/internal/logging"
	"github.com/danmuck/bindgap/internal/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd(root *rootOptions) *cobra.Command {
	opts := &outputOptions{}
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [target...]",
		Short: "Re-run the audit whenever a header or wrapper file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := loadTargets(root, args)
			if err != nil {
				return err
			}
			w, err := watch.New(targets, debounce)
			if err != nil {
				return err
			}
			defer w.Close()

			logger := logging.For("watch")
			out := cmd.OutOrStdout()
			rerun := watchRerun(out, targets, opts)
			if err := rerun(cmd.Context()); err != nil {
				logger.Error().Err(err).Msg("initial audit failed")
			}
			logger.Info().Int("targets", len(targets)).Msg("watching for changes")
			return w.Run(cmd.Context(), rerun)
		},
	}
	opts.bind(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-running")
	return cmd
}

// watchRerun audits targets once per change. A gap exit is a normal outcome
// while watching; only real failures are returned.
func watchRerun(w io.Writer, targets []audit.Target, opts *outputOptions) func(context.Context) error {
	return func(ctx context.Context) error {
		err := runAudit(ctx, w, targets, opts)
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return err
	}
}
