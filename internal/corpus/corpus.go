// Package corpus loads the wrapper sources searched for binding evidence.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danmuck/bindgap/internal/logging"
)

// Blob is the full text of one wrapper file.
type Blob struct {
	Name string
	Text string
}

// Corpus is an immutable set of wrapper file texts.
type Corpus struct {
	blobs []Blob
}

// New builds a corpus from in-memory texts.
func New(blobs ...Blob) Corpus {
	out := make([]Blob, len(blobs))
	copy(out, blobs)
	return Corpus{blobs: out}
}

// Load reads every regular file directly inside dir. Subdirectories are skipped and
// symlinks are followed to their targets.
func Load(dir string) (Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Corpus{}, fmt.Errorf("corpus load failed (%s): %w", dir, err)
	}
	logger := logging.For("corpus")
	blobs := make([]Blob, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil && entry.Type()&fs.ModeSymlink != 0 && errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Str("path", path).Msg("skip dangling symlink")
			continue
		}
		if err != nil {
			return Corpus{}, fmt.Errorf("corpus stat failed (%s): %w", path, err)
		}
		if !info.Mode().IsRegular() {
			logger.Debug().Str("path", path).Msg("skip non-regular entry")
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Corpus{}, fmt.Errorf("corpus read failed (%s): %w", path, err)
		}
		blobs = append(blobs, Blob{Name: entry.Name(), Text: string(data)})
		logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("loaded wrapper file")
	}
	return Corpus{blobs: blobs}, nil
}

// Len returns the number of blobs.
func (c Corpus) Len() int {
	return len(c.blobs)
}

// Names returns blob names in sorted order.
func (c Corpus) Names() []string {
	out := make([]string, 0, len(c.blobs))
	for _, b := range c.blobs {
		out = append(out, b.Name)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether any blob contains needle. The scan stops at the first hit.
func (c Corpus) Contains(needle string) bool {
	_, ok := c.Find(needle)
	return ok
}

// Find returns the name of the first blob containing needle.
func (c Corpus) Find(needle string) (string, bool) {
	for _, b := range c.blobs {
		if strings.Contains(b.Text, needle) {
			return b.Name, true
		}
	}
	return "", false
}
