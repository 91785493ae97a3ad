// Package report renders audit outcomes for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danmuck/bindgap/internal/audit"
	"github.com/olekukonko/tablewriter"
)

type Format string

const (
	FormatChecklist Format = "checklist"
	FormatJSON      Format = "json"
	FormatTable     Format = "table"
)

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatChecklist, FormatJSON, FormatTable:
		return f, nil
	case "":
		return FormatChecklist, nil
	default:
		return "", fmt.Errorf("unknown report format %q (supported: checklist, json, table)", raw)
	}
}

// Write renders outcomes in the requested format. Outcomes carrying an error
// are skipped by every format except json.
func Write(w io.Writer, format Format, outcomes []audit.Outcome) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, outcomes)
	case FormatTable:
		return WriteTable(w, outcomes)
	default:
		for _, o := range outcomes {
			if o.Err != nil {
				continue
			}
			if err := WriteChecklist(w, o.Report); err != nil {
				return err
			}
		}
		return nil
	}
}

// WriteChecklist prints the target label, one unchecked item per gap, and a blank line.
func WriteChecklist(w io.Writer, r audit.Report) error {
	var b strings.Builder
	b.WriteString("===== " + r.Target + " =====\n")
	for _, name := range r.GapNames() {
		b.WriteString("- [ ] " + name + "\n")
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

type jsonGap struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

type jsonTarget struct {
	Target              string    `json:"target"`
	Error               string    `json:"error,omitempty"`
	Declared            int       `json:"declared"`
	Bound               int       `json:"bound"`
	Excluded            int       `json:"excluded"`
	Coverage            float64   `json:"coverage"`
	Gaps                []jsonGap `json:"gaps"`
	StaleExclusions     []string  `json:"stale_exclusions,omitempty"`
	RedundantExclusions []string  `json:"redundant_exclusions,omitempty"`
}

// WriteJSON prints one document holding every outcome, failures included.
func WriteJSON(w io.Writer, outcomes []audit.Outcome) error {
	docs := make([]jsonTarget, 0, len(outcomes))
	for _, o := range outcomes {
		doc := jsonTarget{Target: o.Target, Gaps: make([]jsonGap, 0)}
		if o.Err != nil {
			doc.Error = o.Err.Error()
			docs = append(docs, doc)
			continue
		}
		r := o.Report
		doc.Declared = r.Declared
		doc.Bound = r.Bound
		doc.Excluded = r.Excluded
		doc.Coverage = r.Coverage()
		for _, g := range r.Gaps {
			doc.Gaps = append(doc.Gaps, jsonGap{Name: g.Name, Line: g.Line})
		}
		doc.StaleExclusions = r.StaleExclusions
		doc.RedundantExclusions = r.RedundantExclusions
		docs = append(docs, doc)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"targets": docs})
}

// WriteTable prints one summary row per target.
func WriteTable(w io.Writer, outcomes []audit.Outcome) error {
	data := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil {
			data = append(data, []string{o.Target, "-", "-", "-", "-", "-", "error"})
			continue
		}
		r := o.Report
		data = append(data, []string{
			r.Target,
			strconv.Itoa(r.Declared),
			strconv.Itoa(r.Bound),
			strconv.Itoa(r.Excluded),
			strconv.Itoa(len(r.Gaps)),
			fmt.Sprintf("%.1f%%", r.Coverage()*100),
			status(r),
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"TARGET", "DECLARED", "BOUND", "EXCLUDED", "GAPS", "COVERAGE", "STATUS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
	return nil
}

func status(r audit.Report) string {
	if len(r.Gaps) == 0 {
		return "complete"
	}
	return "incomplete"
}
