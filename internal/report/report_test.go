package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/danmuck/bindgap/internal/audit"
	"github.com/danmuck/bindgap/internal/header"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOutcomes() []audit.Outcome {
	return []audit.Outcome{
		{
			Target: "Raylib",
			Report: audit.Report{
				Target:   "Raylib",
				Declared: 4,
				Bound:    1,
				Excluded: 1,
				Gaps: []header.Declaration{
					{Name: "CloseWindow", Line: 12},
					{Name: "BeginDrawing", Line: 40},
				},
				StaleExclusions: []string{"LoadUTF8"},
			},
		},
		{
			Target: "Raygui",
			Report: audit.Report{Target: "Raygui", Declared: 2, Bound: 2},
		},
		{
			Target: "Broken",
			Err:    errors.New("target Broken: header: malformed declaration at line 3"),
		},
	}
}

func TestChecklist(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatChecklist, sampleOutcomes()))
	want := "===== Raylib =====\n" +
		"- [ ] CloseWindow\n" +
		"- [ ] BeginDrawing\n" +
		"\n" +
		"===== Raygui =====\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestChecklistIdempotent(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, Write(&first, FormatChecklist, sampleOutcomes()))
	require.NoError(t, Write(&second, FormatChecklist, sampleOutcomes()))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleOutcomes()))

	var doc struct {
		Targets []struct {
			Target          string   `json:"target"`
			Error           string   `json:"error"`
			Coverage        float64  `json:"coverage"`
			StaleExclusions []string `json:"stale_exclusions"`
			Gaps            []struct {
				Name string `json:"name"`
				Line int    `json:"line"`
			} `json:"gaps"`
		} `json:"targets"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Targets, 3)

	raylib := doc.Targets[0]
	assert.Equal(t, "Raylib", raylib.Target)
	assert.InDelta(t, 0.5, raylib.Coverage, 1e-9)
	require.Len(t, raylib.Gaps, 2)
	assert.Equal(t, "CloseWindow", raylib.Gaps[0].Name)
	assert.Equal(t, 40, raylib.Gaps[1].Line)
	assert.Equal(t, []string{"LoadUTF8"}, raylib.StaleExclusions)

	assert.Equal(t, 1.0, doc.Targets[1].Coverage)
	assert.NotNil(t, doc.Targets[1].Gaps)
	assert.Contains(t, doc.Targets[2].Error, "malformed declaration")
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, sampleOutcomes()))
	out := buf.String()
	assert.Contains(t, out, "TARGET")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "incomplete")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "error")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatChecklist, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
