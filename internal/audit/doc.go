// Package audit cross-references exported declarations against wrapper sources.
//
// Ownership boundary:
// - exclusion set semantics
// - binding evidence matching
// - gap report production, per target and across targets
//
// A target pass is synchronous and read-only. Separate targets share nothing and
// RunAll may execute them concurrently; results always keep target order.
package audit
