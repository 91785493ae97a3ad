package main

import (
	"fmt"

	"github.com/danmuck/bindgap/internal/config"
	"github.com/danmuck/bindgap/internal/logging"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var output string
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config and exclusion list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteTemplate(output, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote config template to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", config.DefaultFileName, "output path for the config template")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the config and its exclusion files",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := loadTargets(root, nil)
			if err != nil {
				return err
			}
			logger := logging.For("validate")
			for _, t := range targets {
				logger.Debug().
					Str("target", t.Name).
					Str("header", t.Header).
					Str("wrapper_dir", t.WrapperDir).
					Int("exclusions", t.Exclusions.Len()).
					Msg("target ok")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Validated config at %s (%d targets)\n", root.configPath, len(targets))
			return nil
		},
	}
}
