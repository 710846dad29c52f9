package klve

import "github.com/klve/jstrace/pkg/errs"

// NodeTypeEntry is one row of the fixed node-type filter table (spec §4.4,
// resolved to 23 entries in SPEC_FULL.md §E.1).
type NodeTypeEntry struct {
	Path string // dotted config path, e.g. "literals.numeric"
	Type string // AST type name, e.g. "NumericLiteral"
}

// NodeTypeTable is exhaustive over every AST type the transformer emits a
// step for. Shared between OptionsSchema (here) and pkg/filter's node-type
// filter so the two never drift apart.
var NodeTypeTable = []NodeTypeEntry{
	{"declarations.variable", "VariableDeclaration"},
	{"expressions.identifier", "Identifier"},
	{"expressions.member", "MemberExpression"},
	{"expressions.assignment", "AssignmentExpression"},
	{"expressions.update", "UpdateExpression"},
	{"expressions.call", "CallExpression"},
	{"expressions.new", "NewExpression"},
	{"expressions.binary", "BinaryExpression"},
	{"expressions.logical", "LogicalExpression"},
	{"expressions.unary", "UnaryExpression"},
	{"expressions.sequence", "SequenceExpression"},
	{"statements.if", "IfStatement"},
	{"expressions.conditional", "ConditionalExpression"},
	{"loops.for", "ForStatement"},
	{"loops.while", "WhileStatement"},
	{"statements.try", "TryStatement"},
	{"functions.arrow", "ArrowFunctionExpression"},
	{"functions.expression", "FunctionExpression"},
	{"literals.array", "ArrayExpression"},
	{"literals.object", "ObjectExpression"},
	{"statements.return", "ReturnStatement"},
	{"literals.numeric", "NumericLiteral"},
	{"literals.string", "StringLiteral"},
}

// TypeForPath and PathForType are built once from NodeTypeTable for O(1)
// lookups in both directions.
var (
	typeForPath = map[string]string{}
	pathForType = map[string]string{}
)

func init() {
	for _, e := range NodeTypeTable {
		typeForPath[e.Path] = e.Type
		pathForType[e.Type] = e.Path
	}
}

// PathForType returns the dotted config path for an AST type name, and
// whether the type is one of the 23 declared types.
func PathForType(astType string) (string, bool) {
	p, ok := pathForType[astType]
	return p, ok
}

// NameFilterMode resolves from Include/Exclude per spec §4.4 rule 3.
type NameFilterMode string

const (
	NameFilterInclude NameFilterMode = "include"
	NameFilterExclude NameFilterMode = "exclude"
	NameFilterNone    NameFilterMode = "none"
)

// NameFilter holds the raw include/exclude lists; Mode resolves them to a
// NameFilterMode.
type NameFilter struct {
	Include []string `json:"include,omitempty" toml:"include"`
	Exclude []string `json:"exclude,omitempty" toml:"exclude"`
}

// Mode resolves this filter's effective mode per spec §4.4 rule 3: a
// non-empty Include wins, else a non-empty Exclude, else none.
func (f NameFilter) Mode() NameFilterMode {
	if len(f.Include) > 0 {
		return NameFilterInclude
	}
	if len(f.Exclude) > 0 {
		return NameFilterExclude
	}
	return NameFilterNone
}

// TimingFilter toggles which phases survive the timing filter.
type TimingFilter struct {
	Before bool `json:"before" toml:"before"`
	After  bool `json:"after" toml:"after"`
}

// DataFilter toggles which step fields survive the data-strip pass.
type DataFilter struct {
	Scopes bool `json:"scopes" toml:"scopes"`
	Value  bool `json:"value" toml:"value"`
	Logs   bool `json:"logs" toml:"logs"`
	Dt     bool `json:"dt" toml:"dt"`
	Loc    bool `json:"loc" toml:"loc"`
}

// Filter bundles the three filter axes beyond the node-type table itself.
type Filter struct {
	Names  NameFilter   `json:"names" toml:"names"`
	Timing TimingFilter `json:"timing" toml:"timing"`
	Data   DataFilter   `json:"data" toml:"data"`
}

// Options is JsKlveOptions: the fully-resolved, already-validated options
// the core receives (spec §1: semantic validation happens externally;
// VerifyOptions below covers only the one constraint spec §6 assigns to
// the core itself).
type Options struct {
	// Nodes maps a NodeTypeTable Path to whether that type is kept. An
	// absent path defaults to kept (true), per spec §4.4's "unknown types
	// default to keep" and §4.4's own "all defaults are include/keep".
	Nodes  map[string]bool `json:"nodes" toml:"nodes"`
	Filter Filter          `json:"filter" toml:"filter"`
}

// DefaultOptions returns the all-true/none baseline spec §4.4 requires:
// every node type kept, both timing phases kept, all data fields kept, no
// name filter.
func DefaultOptions() Options {
	nodes := make(map[string]bool, len(NodeTypeTable))
	for _, e := range NodeTypeTable {
		nodes[e.Path] = true
	}
	return Options{
		Nodes: nodes,
		Filter: Filter{
			Timing: TimingFilter{Before: true, After: true},
			Data:   DataFilter{Scopes: true, Value: true, Logs: true, Dt: true, Loc: true},
		},
	}
}

// VerifyOptions raises options-semantic-invalid if both filter.names.include
// and filter.names.exclude are non-empty lists. No other semantic
// constraint is the core's to enforce (spec §6).
func VerifyOptions(opts Options) error {
	if len(opts.Filter.Names.Include) > 0 && len(opts.Filter.Names.Exclude) > 0 {
		return &errs.OptionsInvalid{
			Field:   "filter.names",
			Message: "include and exclude must not both be non-empty",
		}
	}
	return nil
}

// NodeEnabled reports whether astType should be kept under opts, applying
// the "absent path / unknown type defaults to keep" rule.
func (o Options) NodeEnabled(astType string) bool {
	path, known := PathForType(astType)
	if !known {
		return true
	}
	enabled, set := o.Nodes[path]
	if !set {
		return true
	}
	return enabled
}
