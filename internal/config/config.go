package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultFileName       = "bindgap.toml"
	DefaultEvidencePrefix = "ffi::"
)

// FileConfig is the on-disk shape of bindgap.toml.
type FileConfig struct {
	EvidencePrefix string         `toml:"evidence_prefix"`
	Exclude        []string       `toml:"exclude"`
	ExcludeFiles   []string       `toml:"exclude_files"`
	Targets        []TargetConfig `toml:"targets"`
}

// TargetConfig describes one library audited against its wrapper sources.
type TargetConfig struct {
	Name           string   `toml:"name"`
	Header         string   `toml:"header"`
	ExportMarker   string   `toml:"export_marker"`
	WrapperDir     string   `toml:"wrapper_dir"`
	EvidencePrefix string   `toml:"evidence_prefix,omitempty"`
	Exclude        []string `toml:"exclude,omitempty"`
	ExcludeFiles   []string `toml:"exclude_files,omitempty"`
}

// Config is a loaded file plus the directory its relative paths resolve against.
type Config struct {
	Path string
	Base string
	FileConfig
}

// Load decodes, defaults and validates a config file. Unknown keys are rejected.
func Load(path string) (Config, error) {
	var raw FileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("config parse failed (%s): unknown keys %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("evidence_prefix") {
		raw.EvidencePrefix = DefaultEvidencePrefix
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("config path (%s): %w", path, err)
	}
	cfg := Config{Path: abs, Base: filepath.Dir(abs), FileConfig: raw}
	if err := Validate(cfg.FileConfig); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// Validate checks a decoded config before any target runs.
func Validate(cfg FileConfig) error {
	if len(cfg.Targets) == 0 {
		return fmt.Errorf("config has no targets")
	}
	if err := ValidateExclusionNames(cfg.Exclude); err != nil {
		return fmt.Errorf("exclude invalid: %w", err)
	}
	seen := make(map[string]int, len(cfg.Targets))
	for i, t := range cfg.Targets {
		if err := ValidateTarget(t, cfg.EvidencePrefix); err != nil {
			return fmt.Errorf("targets[%d] invalid: %w", i, err)
		}
		if prev, ok := seen[t.Name]; ok {
			return fmt.Errorf("targets[%d] invalid: name %q already used by targets[%d]", i, t.Name, prev)
		}
		seen[t.Name] = i
	}
	return nil
}

// ValidateTarget checks one target entry; defaultPrefix stands in for a missing override.
func ValidateTarget(t TargetConfig, defaultPrefix string) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !isValidName(t.Name) {
		return fmt.Errorf("invalid name format %q", t.Name)
	}
	if strings.TrimSpace(t.Header) == "" {
		return fmt.Errorf("header is required")
	}
	if strings.TrimSpace(t.ExportMarker) == "" {
		return fmt.Errorf("export_marker is required")
	}
	if strings.TrimSpace(t.WrapperDir) == "" {
		return fmt.Errorf("wrapper_dir is required")
	}
	if err := ValidateExclusionNames(t.Exclude); err != nil {
		return fmt.Errorf("exclude invalid: %w", err)
	}
	prefix := t.EvidencePrefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	if strings.TrimSpace(prefix) == "" {
		return fmt.Errorf("evidence_prefix is required")
	}
	return nil
}

// ValidateExclusionNames rejects empty or whitespace-padded names; exclusions
// match declarations exactly.
func ValidateExclusionNames(names []string) error {
	for i, n := range names {
		if n == "" {
			return fmt.Errorf("[%d] is empty", i)
		}
		if n != strings.TrimSpace(n) {
			return fmt.Errorf("[%d] %q has surrounding whitespace", i, n)
		}
	}
	return nil
}

// Resolve anchors a config-relative path at the config directory.
func (c Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(c.Base, p))
}

// isValidName accepts letters, digits and single '.', '-', '_' separators.
func isValidName(name string) bool {
	if name == "" {
		return false
	}
	lastSep := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		isAlpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		isSep := c == '.' || c == '-' || c == '_'
		if !(isAlpha || isDigit || isSep) {
			return false
		}
		if (i == 0 || i == len(name)-1) && isSep {
			return false
		}
		if isSep && lastSep {
			return false
		}
		lastSep = isSep
	}
	return true
}
