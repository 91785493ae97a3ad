package observability

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/bindgap/internal/audit"
	"github.com/danmuck/bindgap/internal/header"
	"github.com/danmuck/bindgap/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func outcomes() []audit.Outcome {
	return []audit.Outcome{
		{
			Target: "Raylib",
			Report: audit.Report{
				Target:   "Raylib",
				Declared: 4,
				Bound:    2,
				Excluded: 1,
				Gaps:     []header.Declaration{{Name: "CloseWindow", Line: 3}},
			},
		},
		{Target: "Raygui", Err: errors.New("boom")},
	}
}

func TestRecordAll(t *testing.T) {
	testlog.Start(t)
	m := NewMetrics()
	m.RecordAll(outcomes())
	m.Record(outcomes()[1])

	if got := testutil.ToFloat64(m.gaps.WithLabelValues("Raylib")); got != 1 {
		t.Fatalf("unexpected gaps: %v", got)
	}
	if got := testutil.ToFloat64(m.coverage.WithLabelValues("Raylib")); got != 0.75 {
		t.Fatalf("unexpected coverage: %v", got)
	}
	if got := testutil.ToFloat64(m.failures.WithLabelValues("Raygui")); got != 2 {
		t.Fatalf("unexpected failures: %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	testlog.Start(t)
	m := NewMetrics()
	m.RecordAll(outcomes())

	path := filepath.Join(t.TempDir(), "bindgap.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		`bindgap_audit_declarations{target="Raylib"} 4`,
		`bindgap_audit_gaps{target="Raylib"} 1`,
		`bindgap_audit_failures_total{target="Raygui"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestWriteTextfileBadPath(t *testing.T) {
	testlog.Start(t)
	m := NewMetrics()
	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Fatalf("expected write error")
	}
}
