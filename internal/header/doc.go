// Package header extracts exported declarations from a generated C header.
//
// Ownership boundary:
// - export-marker line selection
// - symbol name recovery from a declaration line
//
// Extraction is heuristic: the header is assumed to be machine-generated with one
// declaration per marker line, e.g. `RLAPI void *MemAlloc(unsigned int size);`.
package header
