package audit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/bindgap/internal/corpus"
	"github.com/danmuck/bindgap/internal/header"
	"github.com/danmuck/bindgap/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func check(t *testing.T, src string, c corpus.Corpus, excl Exclusions) (Report, error) {
	t.Helper()
	a := NewAuditor("ffi::", excl)
	return a.Check(context.Background(), "Raylib", header.Declarations(strings.NewReader(src), "RLAPI"), c)
}

func TestBoundDeclarationNotReported(t *testing.T) {
	testlog.Start(t)
	src := "RLAPI void InitWindow(int width, int height, const char *title);\n"
	c := corpus.New(corpus.Blob{Name: "core.rs", Text: "unsafe { ffi::InitWindow(w, h, t.as_ptr()) }"})
	report, err := check(t, src, c, NewExclusions())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(report.Gaps) != 0 || report.Bound != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestUnboundDeclarationReported(t *testing.T) {
	testlog.Start(t)
	src := "RLAPI void CloseWindow(void);\n"
	c := corpus.New(corpus.Blob{Name: "core.rs", Text: "ffi::InitWindow"})
	report, err := check(t, src, c, NewExclusions())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if diff := cmp.Diff([]string{"CloseWindow"}, report.GapNames()); diff != "" {
		t.Fatalf("unexpected gaps (-want +got):\n%s", diff)
	}
}

func TestExcludedDeclarationWithEmptyCorpus(t *testing.T) {
	testlog.Start(t)
	src := "RLAPI void *MemRealloc(void *ptr, int size);\n"
	report, err := check(t, src, corpus.New(), NewExclusions("MemRealloc"))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(report.Gaps) != 0 || report.Excluded != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestNoMarkerLinesYieldEmptyReport(t *testing.T) {
	testlog.Start(t)
	report, err := check(t, "void helper(void);\n", corpus.New(), NewExclusions())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if report.Declared != 0 || len(report.Gaps) != 0 || report.Coverage() != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestMalformedDeclarationAborts(t *testing.T) {
	testlog.Start(t)
	src := "RLAPI void CloseWindow(void);\nRLAPI int broken;\n"
	report, err := check(t, src, corpus.New(), NewExclusions())
	if !errors.Is(err, header.ErrMalformedDeclaration) {
		t.Fatalf("expected malformed error, got %v", err)
	}
	if report.Target != "" || report.Gaps != nil {
		t.Fatalf("expected no partial report, got %+v", report)
	}
}

func TestGapOrderFollowsHeader(t *testing.T) {
	testlog.Start(t)
	src := strings.Join([]string{
		"RLAPI void Zeta(void);",
		"RLAPI void Alpha(void);",
		"RLAPI void Bound(void);",
		"RLAPI void Skipped(void);",
		"RLAPI void Mid(void);",
	}, "\n")
	c := corpus.New(
		corpus.Blob{Name: "a.rs", Text: "nothing here"},
		corpus.Blob{Name: "b.rs", Text: "ffi::Bound()"},
	)
	report, err := check(t, src, c, NewExclusions("Skipped"))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if diff := cmp.Diff([]string{"Zeta", "Alpha", "Mid"}, report.GapNames()); diff != "" {
		t.Fatalf("unexpected gaps (-want +got):\n%s", diff)
	}
	if report.Declared != 5 || report.Bound != 1 || report.Excluded != 1 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if got := report.Coverage(); got != 0.4 {
		t.Fatalf("unexpected coverage: %v", got)
	}
}

func TestExclusionWinsOverEvidence(t *testing.T) {
	testlog.Start(t)
	src := "RLAPI void TextCopy(char *dst, const char *src);\nRLAPI void Gone(void);\n"
	c := corpus.New(corpus.Blob{Name: "text.rs", Text: "ffi::TextCopy"})
	report, err := check(t, src, c, NewExclusions("TextCopy", "LoadUTF8"))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if report.Excluded != 1 || report.Bound != 0 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if diff := cmp.Diff([]string{"LoadUTF8"}, report.StaleExclusions); diff != "" {
		t.Fatalf("unexpected stale exclusions (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"TextCopy"}, report.RedundantExclusions); diff != "" {
		t.Fatalf("unexpected redundant exclusions (-want +got):\n%s", diff)
	}
}

func TestCheckDeterministic(t *testing.T) {
	testlog.Start(t)
	src := "RLAPI void A(void);\nRLAPI void B(void);\nRLAPI void C(void);\n"
	c := corpus.New(corpus.Blob{Name: "x.rs", Text: "ffi::B"})
	first, err := check(t, src, c, NewExclusions())
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := check(t, src, c, NewExclusions())
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("reports differ (-first +second):\n%s", diff)
	}
}

func TestCheckHonorsCancellation(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := NewAuditor("ffi::", NewExclusions())
	_, err := a.Check(ctx, "Raylib", header.Declarations(strings.NewReader("RLAPI void A(void);\n"), "RLAPI"), corpus.New())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDecideVerdicts(t *testing.T) {
	testlog.Start(t)
	a := NewAuditor("ffi::", NewExclusions("MemRealloc"))
	c := corpus.New(corpus.Blob{Name: "core.rs", Text: "ffi::InitWindow"})
	cases := map[string]Verdict{
		"MemRealloc":  VerdictExcluded,
		"InitWindow":  VerdictBound,
		"CloseWindow": VerdictGap,
	}
	for name, want := range cases {
		if got := a.Decide(name, c); got != want {
			t.Fatalf("Decide(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestExclusionsAreExact(t *testing.T) {
	e := NewExclusions("", "B", "A", "B ")
	if diff := cmp.Diff([]string{"A", "B", "B "}, e.Sorted()); diff != "" {
		t.Fatalf("unexpected names (-want +got):\n%s", diff)
	}
	if e.Has(" A") {
		t.Fatalf("padded lookup must not match")
	}
	u := e.Union(NewExclusions("C"))
	if u.Len() != 4 || e.Len() != 3 {
		t.Fatalf("union must not mutate receiver: %d %d", u.Len(), e.Len())
	}
}
