package audit

import (
	"context"
	"iter"

	"github.com/danmuck/bindgap/internal/corpus"
	"github.com/danmuck/bindgap/internal/header"
)

// Verdict is the terminal state of one candidate.
type Verdict int

const (
	VerdictGap Verdict = iota
	VerdictExcluded
	VerdictBound
)

func (v Verdict) String() string {
	switch v {
	case VerdictExcluded:
		return "excluded"
	case VerdictBound:
		return "bound"
	default:
		return "gap"
	}
}

// Report is the outcome of one completed cross-reference pass.
type Report struct {
	Target   string
	Gaps     []header.Declaration
	Declared int
	Excluded int
	Bound    int

	// Excluded names the header never declares.
	StaleExclusions []string
	// Excluded names the wrapper corpus binds anyway.
	RedundantExclusions []string
}

// GapNames returns the unbound names in declaration order.
func (r Report) GapNames() []string {
	out := make([]string, 0, len(r.Gaps))
	for _, d := range r.Gaps {
		out = append(out, d.Name)
	}
	return out
}

// Coverage is the bound-or-excluded share of declarations; 1 when nothing is declared.
func (r Report) Coverage() float64 {
	if r.Declared == 0 {
		return 1
	}
	return float64(r.Declared-len(r.Gaps)) / float64(r.Declared)
}

// Auditor decides, per declaration, whether a binding exists.
type Auditor struct {
	prefix     string
	exclusions Exclusions
}

// NewAuditor builds an auditor matching prefix+name in wrapper text.
func NewAuditor(prefix string, exclusions Exclusions) *Auditor {
	return &Auditor{prefix: prefix, exclusions: exclusions}
}

// Evidence returns the literal searched for in the corpus.
func (a *Auditor) Evidence(name string) string {
	return a.prefix + name
}

// Decide classifies a single name against the corpus.
func (a *Auditor) Decide(name string, c corpus.Corpus) Verdict {
	if a.exclusions.Has(name) {
		return VerdictExcluded
	}
	if c.Contains(a.Evidence(name)) {
		return VerdictBound
	}
	return VerdictGap
}

// Check consumes decls and returns the completed report. Any extraction error
// discards the partial result.
func (a *Auditor) Check(ctx context.Context, target string, decls iter.Seq2[header.Declaration, error], c corpus.Corpus) (Report, error) {
	report := Report{Target: target, Gaps: make([]header.Declaration, 0)}
	declared := make(map[string]struct{})
	for decl, err := range decls {
		if err != nil {
			return Report{}, err
		}
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		declared[decl.Name] = struct{}{}
		report.Declared++
		switch a.Decide(decl.Name, c) {
		case VerdictExcluded:
			report.Excluded++
		case VerdictBound:
			report.Bound++
		default:
			report.Gaps = append(report.Gaps, decl)
		}
	}

	report.StaleExclusions = make([]string, 0)
	report.RedundantExclusions = make([]string, 0)
	for _, name := range a.exclusions.Sorted() {
		if _, ok := declared[name]; !ok {
			report.StaleExclusions = append(report.StaleExclusions, name)
			continue
		}
		if c.Contains(a.Evidence(name)) {
			report.RedundantExclusions = append(report.RedundantExclusions, name)
		}
	}
	return report, nil
}
