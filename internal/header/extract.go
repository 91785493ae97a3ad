package header

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

var (
	ErrMalformedDeclaration = errors.New("header: malformed declaration")
	ErrEmptyMarker          = errors.New("header: export marker is empty")
	ErrUnreadable           = errors.New("header: unreadable")
)

// Declaration is one exported symbol found in a header.
type Declaration struct {
	Name string
	Line int
}

// MalformedError reports a marker line that no longer fits the declaration format.
type MalformedError struct {
	Line int
	Text string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%v at line %d: %q", ErrMalformedDeclaration, e.Line, strings.TrimSpace(e.Text))
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformedDeclaration
}

// ParseLine recovers the symbol name from a marker line.
func ParseLine(line string) (string, bool) {
	for _, tok := range strings.Fields(line) {
		idx := strings.IndexByte(tok, '(')
		if idx < 0 {
			continue
		}
		name := strings.ReplaceAll(tok[:idx], "*", "")
		return name, name != ""
	}
	return "", false
}

// Declarations yields the declarations of r whose lines begin with marker.
// The sequence stops at the first read or parse error.
func Declarations(r io.Reader, marker string) iter.Seq2[Declaration, error] {
	return func(yield func(Declaration, error) bool) {
		if marker == "" {
			yield(Declaration{}, ErrEmptyMarker)
			return
		}
		reader := bufio.NewReader(r)
		lineNo := 0
		for {
			raw, readErr := reader.ReadString('\n')
			if readErr != nil && readErr != io.EOF {
				yield(Declaration{}, fmt.Errorf("%w: %w", ErrUnreadable, readErr))
				return
			}
			if raw == "" && readErr == io.EOF {
				return
			}
			lineNo++
			line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
			if strings.HasPrefix(line, marker) {
				name, ok := ParseLine(line)
				if !ok {
					yield(Declaration{}, &MalformedError{Line: lineNo, Text: line})
					return
				}
				if !yield(Declaration{Name: name, Line: lineNo}, nil) {
					return
				}
			}
			if readErr == io.EOF {
				return
			}
		}
	}
}

// File is a header on disk. Every call to Declarations re-reads it.
type File struct {
	Path   string
	Marker string
}

// Open checks that the header exists and is a readable regular file.
func Open(path, marker string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("%w (%s): %w", ErrUnreadable, path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return File{}, fmt.Errorf("%w (%s): %w", ErrUnreadable, path, err)
	}
	if !info.Mode().IsRegular() {
		return File{}, fmt.Errorf("%w (%s): not a regular file", ErrUnreadable, path)
	}
	return File{Path: path, Marker: marker}, nil
}

// Declarations opens the file and yields its declarations lazily.
func (f File) Declarations() iter.Seq2[Declaration, error] {
	return func(yield func(Declaration, error) bool) {
		fh, err := os.Open(f.Path)
		if err != nil {
			yield(Declaration{}, fmt.Errorf("%w (%s): %w", ErrUnreadable, f.Path, err))
			return
		}
		defer fh.Close()
		for decl, err := range Declarations(fh, f.Marker) {
			if !yield(decl, err) || err != nil {
				return
			}
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq iter.Seq2[Declaration, error]) ([]Declaration, error) {
	out := make([]Declaration, 0)
	for decl, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, decl)
	}
	return out, nil
}
