package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/bindgap/internal/corpus"
	"github.com/danmuck/bindgap/internal/header"
	"github.com/danmuck/bindgap/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Target is one (header, wrapper directory, exclusions) audit unit.
type Target struct {
	Name           string
	Header         string
	ExportMarker   string
	WrapperDir     string
	EvidencePrefix string
	Exclusions     Exclusions
}

// Validate checks the fields a pass cannot run without.
func (t Target) Validate() error {
	switch {
	case strings.TrimSpace(t.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidTarget)
	case strings.TrimSpace(t.Header) == "":
		return fmt.Errorf("%w: %s: header is required", ErrInvalidTarget, t.Name)
	case t.ExportMarker == "":
		return fmt.Errorf("%w: %s: export marker is required", ErrInvalidTarget, t.Name)
	case strings.TrimSpace(t.WrapperDir) == "":
		return fmt.Errorf("%w: %s: wrapper dir is required", ErrInvalidTarget, t.Name)
	}
	return nil
}

// Run executes one target pass. All inputs are read before matching starts.
func Run(ctx context.Context, t Target) (Report, error) {
	if err := t.Validate(); err != nil {
		return Report{}, err
	}
	logger := logging.For("audit").With().Str("target", t.Name).Logger()

	hdr, err := header.Open(t.Header, t.ExportMarker)
	if err != nil {
		return Report{}, fmt.Errorf("target %s: %w: %w", t.Name, ErrMissingInput, err)
	}
	c, err := corpus.Load(t.WrapperDir)
	if err != nil {
		return Report{}, fmt.Errorf("target %s: %w: %w", t.Name, ErrMissingInput, err)
	}
	logger.Debug().Int("files", c.Len()).Str("dir", t.WrapperDir).Msg("corpus loaded")

	report, err := NewAuditor(t.EvidencePrefix, t.Exclusions).Check(ctx, t.Name, hdr.Declarations(), c)
	if errors.Is(err, header.ErrUnreadable) {
		return Report{}, fmt.Errorf("target %s: %w: %w", t.Name, ErrMissingInput, err)
	}
	if err != nil {
		return Report{}, fmt.Errorf("target %s: %w", t.Name, err)
	}

	logger.Debug().
		Int("declared", report.Declared).
		Int("bound", report.Bound).
		Int("excluded", report.Excluded).
		Int("gaps", len(report.Gaps)).
		Msg("pass complete")
	if len(report.StaleExclusions) > 0 {
		logger.Warn().Strs("names", report.StaleExclusions).Msg("exclusions not declared by header")
	}
	if len(report.RedundantExclusions) > 0 {
		logger.Warn().Strs("names", report.RedundantExclusions).Msg("exclusions already bound by wrapper")
	}
	return report, nil
}

// Outcome pairs a target with its report or failure.
type Outcome struct {
	Target string
	Report Report
	Err    error
}

// Options controls a multi-target run.
type Options struct {
	// Parallel caps concurrent passes; values below 1 mean sequential.
	Parallel int
	// KeepGoing runs every target even after one fails.
	KeepGoing bool
}

// RunAll executes every target and returns outcomes in target order. Without
// KeepGoing the first failure cancels passes that have not finished yet and is
// returned as the error.
func RunAll(ctx context.Context, targets []Target, opts Options) ([]Outcome, error) {
	outcomes := make([]Outcome, len(targets))
	limit := opts.Parallel
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, t := range targets {
		outcomes[i].Target = t.Name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i].Err = err
				if opts.KeepGoing {
					return nil
				}
				return err
			}
			report, err := Run(gctx, t)
			outcomes[i].Report = report
			outcomes[i].Err = err
			if err != nil && !opts.KeepGoing {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, ctx.Err()
}
