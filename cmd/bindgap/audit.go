package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/danmuck/bindgap/internal/audit"
	"github.com/danmuck/bindgap/internal/config"
	"github.com/danmuck/bindgap/internal/observability"
	"github.com/danmuck/bindgap/internal/report"
	"github.com/spf13/cobra"
)

// exitGaps is returned when --fail-on-gaps is set and at least one gap exists.
const exitGaps = 2

type outputOptions struct {
	format      string
	failOnGaps  bool
	keepGoing   bool
	parallel    int
	metricsFile string
}

func (o *outputOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", string(report.FormatChecklist), "report format: checklist|json|table")
	cmd.Flags().BoolVar(&o.failOnGaps, "fail-on-gaps", false, "exit with status 2 when any gap is reported")
	cmd.Flags().BoolVar(&o.keepGoing, "keep-going", false, "continue with remaining targets after a target fails")
	cmd.Flags().IntVarP(&o.parallel, "parallel", "j", 1, "number of targets audited concurrently")
	cmd.Flags().StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
}

func newAuditCmd(root *rootOptions) *cobra.Command {
	opts := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "audit [target...]",
		Short: "Audit every configured target, or only the named ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := loadTargets(root, args)
			if err != nil {
				return err
			}
			return runAudit(cmd.Context(), cmd.OutOrStdout(), targets, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

type checkOptions struct {
	name         string
	header       string
	marker       string
	wrapperDir   string
	prefix       string
	exclude      []string
	excludeFiles []string
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}
	out := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Audit one header against one wrapper directory without a config file",
		Example: `  bindgap check --header raylib-sys/raylib/src/raylib.h --marker RLAPI \
    --wrapper-dir raylib/src/core --exclude MemRealloc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := opts.target()
			if err != nil {
				return err
			}
			return runAudit(cmd.Context(), cmd.OutOrStdout(), []audit.Target{target}, out)
		},
	}
	cmd.Flags().StringVar(&opts.name, "name", "", "report label (defaults to the header file name)")
	cmd.Flags().StringVar(&opts.header, "header", "", "path to the reference header")
	cmd.Flags().StringVar(&opts.marker, "marker", "", "export marker every declaration line starts with")
	cmd.Flags().StringVar(&opts.wrapperDir, "wrapper-dir", "", "directory of wrapper sources")
	cmd.Flags().StringVar(&opts.prefix, "prefix", config.DefaultEvidencePrefix, "binding evidence prefix")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "names treated as intentionally unbound")
	cmd.Flags().StringSliceVar(&opts.excludeFiles, "exclude-file", nil, "YAML exclusion files")
	_ = cmd.MarkFlagRequired("header")
	_ = cmd.MarkFlagRequired("marker")
	_ = cmd.MarkFlagRequired("wrapper-dir")
	out.bind(cmd)
	return cmd
}

func (o *checkOptions) target() (audit.Target, error) {
	names := append([]string{}, o.exclude...)
	for _, f := range o.excludeFiles {
		list, err := config.LoadExclusionFile(f)
		if err != nil {
			return audit.Target{}, err
		}
		names = append(names, list.Names()...)
	}
	if err := config.ValidateExclusionNames(names); err != nil {
		return audit.Target{}, fmt.Errorf("exclusions invalid: %w", err)
	}
	name := o.name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(o.header), filepath.Ext(o.header))
	}
	if o.prefix == "" {
		return audit.Target{}, fmt.Errorf("--prefix must not be empty")
	}
	return audit.Target{
		Name:           name,
		Header:         o.header,
		ExportMarker:   o.marker,
		WrapperDir:     o.wrapperDir,
		EvidencePrefix: o.prefix,
		Exclusions:     audit.NewExclusions(names...),
	}, nil
}

// runAudit runs targets and renders the reports. Without --keep-going a failed
// target aborts the run before anything is printed.
func runAudit(ctx context.Context, w io.Writer, targets []audit.Target, opts *outputOptions) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	outcomes, runErr := audit.RunAll(ctx, targets, audit.Options{Parallel: opts.parallel, KeepGoing: opts.keepGoing})

	if opts.metricsFile != "" {
		m := observability.NewMetrics()
		m.RecordAll(outcomes)
		if err := m.WriteTextfile(opts.metricsFile); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}
	if err := report.Write(w, format, outcomes); err != nil {
		return err
	}

	failed := make([]string, 0)
	gaps := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o.Err.Error())
			continue
		}
		gaps += len(o.Report.Gaps)
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d target(s) failed:\n  %s", len(failed), strings.Join(failed, "\n  "))
	}
	if opts.failOnGaps && gaps > 0 {
		return &exitError{code: exitGaps}
	}
	return nil
}
