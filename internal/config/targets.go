package config

import (
	"fmt"
	"slices"

	"github.com/danmuck/bindgap/internal/audit"
)

// AuditTargets converts the config into runnable targets, loading every
// referenced exclusion file. Global exclusions apply to every target.
func (c Config) AuditTargets() ([]audit.Target, error) {
	global, err := c.exclusions(c.Exclude, c.ExcludeFiles)
	if err != nil {
		return nil, err
	}
	out := make([]audit.Target, 0, len(c.Targets))
	for _, t := range c.Targets {
		local, err := c.exclusions(t.Exclude, t.ExcludeFiles)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", t.Name, err)
		}
		prefix := t.EvidencePrefix
		if prefix == "" {
			prefix = c.EvidencePrefix
		}
		out = append(out, audit.Target{
			Name:           t.Name,
			Header:         c.Resolve(t.Header),
			ExportMarker:   t.ExportMarker,
			WrapperDir:     c.Resolve(t.WrapperDir),
			EvidencePrefix: prefix,
			Exclusions:     global.Union(local),
		})
	}
	return out, nil
}

func (c Config) exclusions(inline []string, files []string) (audit.Exclusions, error) {
	names := slices.Clone(inline)
	for _, f := range files {
		path := c.Resolve(f)
		list, err := LoadExclusionFile(path)
		if err != nil {
			return audit.Exclusions{}, err
		}
		if err := ValidateExclusionNames(list.Names()); err != nil {
			return audit.Exclusions{}, fmt.Errorf("exclusions invalid (%s): %w", path, err)
		}
		names = append(names, list.Names()...)
	}
	return audit.NewExclusions(names...), nil
}

// Select keeps the named targets in config order. An empty selection keeps all.
func Select(targets []audit.Target, names []string) ([]audit.Target, error) {
	if len(names) == 0 {
		return targets, nil
	}
	known := make(map[string]bool, len(targets))
	for _, t := range targets {
		known[t.Name] = true
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if !known[n] {
			return nil, fmt.Errorf("unknown target: %s", n)
		}
		want[n] = true
	}
	out := make([]audit.Target, 0, len(names))
	for _, t := range targets {
		if want[t.Name] {
			out = append(out, t)
		}
	}
	return out, nil
}
