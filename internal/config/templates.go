package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const DefaultExclusionFile = "wont_impl.yaml"

// DefaultFileConfig audits raylib and raygui against a Rust ffi wrapper.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		EvidencePrefix: DefaultEvidencePrefix,
		ExcludeFiles:   []string{DefaultExclusionFile},
		Targets: []TargetConfig{
			{
				Name:         "Raylib",
				Header:       "raylib-sys/raylib/src/raylib.h",
				ExportMarker: "RLAPI",
				WrapperDir:   "raylib/src/core",
			},
			{
				Name:         "Raygui",
				Header:       "raylib-sys/binding/raygui.h",
				ExportMarker: "    RAYGUIAPI",
				WrapperDir:   "raylib/src/rgui",
			},
		},
	}
}

// Template renders the default config as TOML.
func Template() (string, error) {
	data, err := toml.Marshal(DefaultFileConfig())
	if err != nil {
		return "", fmt.Errorf("config template encode failed: %w", err)
	}
	return templateHeader + string(data), nil
}

// WriteTemplate writes the default config to path and the default exclusion
// file next to it.
func WriteTemplate(path string, overwrite bool) error {
	body, err := Template()
	if err != nil {
		return err
	}
	exclusions := filepath.Join(filepath.Dir(path), DefaultExclusionFile)
	if !overwrite {
		for _, p := range []string{path, exclusions} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("config already exists: %s", p)
			}
		}
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return err
	}
	return os.WriteFile(exclusions, []byte(exclusionTemplate), 0o644)
}

const templateHeader = `# bindgap audit config.
# Relative paths resolve against this file's directory.
`

const exclusionTemplate = `# Functions intentionally left without an ffi binding.
c_shim:
  # implemented in a C file, so the ffi marker never appears
  - SetTraceLogCallback
utf8:
  - GetCodepointNext
  - GetCodepointPrevious
  - CodepointToUTF8
  - LoadUTF8
  - UnloadUTF8
text:
  - TextCopy
  - TextIsEqual
  - TextLength
  - TextFormat
  - TextSubtext
  - TextReplace
  - TextInsert
  - TextJoin
  - TextSplit
  - TextAppend
  - TextFindIndex
  - TextToUpper
  - TextToLower
  - TextToPascal
  - TextToSnake
  - TextToCamel
  - TextToInteger
  - TextToFloat
file:
  - LoadFileData
  - UnloadFileData
  - SaveFileData
  - LoadFileText
  - UnloadFileText
  - SaveFileText
  - FileExists
  - DirectoryExists
  - GetFileExtension
  - GetFileName
  - GetFileNameWithoutExt
  - GetDirectoryPath
  - GetPrevDirectoryPath
  - GetWorkingDirectory
  - MakeDirectory
  - ChangeDirectory
  - IsFileNameValid
  - GetFileModTime
  - ComputeCRC32
  - ComputeMD5
  - ComputeSHA1
misc:
  - MemRealloc
`
