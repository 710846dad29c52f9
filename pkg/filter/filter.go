// Package filter applies the four-axis step filter and renumbers the
// survivors. Grounded on pkg/codegen/validator.go's shape of a pass running
// a fixed sequence of independent rules over an ordered list, generalized
// from Go-source validation rules to step filter rules.
//
// The implementation lives in pkg/klve (as FilterApply/FilterByLocation)
// since klve.Record calls it directly and klve importing pkg/filter while
// pkg/filter imports klve's types would be an import cycle; this package
// forwards to it so callers that want the filter pipeline standalone still
// have a pkg/filter to import.
package filter

import "github.com/klve/jstrace/pkg/klve"

// Apply runs the timing, node-type, name, and data-strip filters over steps
// in that order, then renumbers the survivors 1..N, per spec §4.4. opts is
// assumed already validated (klve.VerifyOptions) and fully populated
// (klve.DefaultOptions merged with caller overrides).
func Apply(steps klve.Steps, opts klve.Options) klve.Steps {
	return klve.FilterApply(steps, opts)
}

// FilterByLocation is a convenience slice over an already-filtered Steps
// value, keeping only steps whose loc.start.line matches line. Not part of
// spec §4.4's own pipeline; a supplement for callers driving a line-by-line
// UI (e.g. "show me what happened on line 12").
func FilterByLocation(steps klve.Steps, line int) klve.Steps {
	return klve.FilterByLocation(steps, line)
}
