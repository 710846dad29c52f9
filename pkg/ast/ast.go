// Package ast defines the abstract syntax tree produced by pkg/parser for
// the supported JavaScript subset, and consumed by pkg/transform.
package ast

import "github.com/klve/jstrace/pkg/token"

// Position and Span mirror the source-location shape used throughout this
// module (pkg/klve.SourceLocation is the portable wire form of a Span).
type Position = token.Position

// Span represents a range in source code.
type Span struct {
	Start Position
	End   Position
}

// Node is the interface implemented by every AST node. The flag accessors
// are part of the interface (rather than a type switch in pkg/transform)
// because the transformer's per-node strategy (spec.md §4.1) needs to read
// and set them generically while walking.
type Node interface {
	Span() Span
	node() // marker method; closes the interface to this package's types

	Done() bool
	SetDone(bool)
	ReportBefore() bool
	SetReportBefore(bool)
	Skip() bool
	SetSkip(bool)
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmt()
}

// base carries the span every node has; embedded by concrete node types so
// they get Span() for free.
type base struct {
	SpanVal Span
}

func (b base) Span() Span { return b.SpanVal }
func (base) node()        {}

// ---------------------------------------------------------------------------
// Flags that travel with a node through the transform, never part of the
// grammar itself. Mutating these in place is how pkg/transform marks nodes
// already handled, mirroring spec.md §9's "sentinel flag" strategy.
// ---------------------------------------------------------------------------

// NodeFlags holds transformer-only bookkeeping bits attached to an
// Expr/Stmt. Every concrete node embeds NodeFlags by value; its methods
// have pointer receivers and are promoted to the node's pointer type,
// which is always how nodes are held (Expr/Stmt values wrap *T), so
// mutating a flag through the interface value is what makes re-visiting a
// node idempotent.
type NodeFlags struct {
	done         bool // already rewritten; do not re-enter (e.g. assignment LHS)
	reportBefore bool // loop test/update clones: emit a before event too
	skip         bool // synthetic scope (the desugared loop's `if`) — omit from scope snapshots
}

func (f *NodeFlags) Done() bool            { return f.done }
func (f *NodeFlags) SetDone(v bool)        { f.done = v }
func (f *NodeFlags) ReportBefore() bool     { return f.reportBefore }
func (f *NodeFlags) SetReportBefore(v bool) { f.reportBefore = v }
func (f *NodeFlags) Skip() bool            { return f.skip }
func (f *NodeFlags) SetSkip(v bool)        { f.skip = v }

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

type NumericLiteral struct {
	base
	NodeFlags
	Value float64
	Raw   string
}

func (*NumericLiteral) expr() {}

type StringLiteral struct {
	base
	NodeFlags
	Value string
	Raw   string
}

func (*StringLiteral) expr() {}

type BooleanLiteral struct {
	base
	NodeFlags
	Value bool
}

func (*BooleanLiteral) expr() {}

type NullLiteral struct {
	base
	NodeFlags
}

func (*NullLiteral) expr() {}

type UndefinedLiteral struct {
	base
	NodeFlags
}

func (*UndefinedLiteral) expr() {}

type Identifier struct {
	base
	NodeFlags
	Name string
	// Synthesized marks an identifier as transformer-introduced rather than
	// parsed from user source, mirroring spec.md §3's "(!)"-suffixed
	// compiler-synthesized scope bindings. pkg/transform emits its own
	// temporaries (NS.cache slots, loop-test holders) as text, not as
	// Identifier nodes, so nothing in this module sets it.
	Synthesized bool
}

func (*Identifier) expr() {}

type ThisExpression struct {
	base
	NodeFlags
}

func (*ThisExpression) expr() {}

// ArrayExpression is an array literal `[a, b, c]`.
type ArrayExpression struct {
	base
	NodeFlags
	Elements []Expr // may contain nil for elisions: [1, , 3]
}

func (*ArrayExpression) expr() {}

// ObjectProperty is one `key: value` pair in an ObjectExpression.
type ObjectProperty struct {
	Key      string
	Computed bool   // true if key was `[expr]:`
	KeyExpr  Expr   // set when Computed
	Value    Expr
}

// ObjectExpression is an object literal `{a: 1, b: 2}`.
type ObjectExpression struct {
	base
	NodeFlags
	Properties []ObjectProperty
}

func (*ObjectExpression) expr() {}

// MemberExpression is `obj.prop` or `obj[prop]`.
type MemberExpression struct {
	base
	NodeFlags
	Object   Expr
	Property Expr // Identifier when !Computed, any Expr when Computed
	Computed bool
	Optional bool // `?.`
}

func (*MemberExpression) expr() {}

// CallExpression is `callee(args...)`.
type CallExpression struct {
	base
	NodeFlags
	Callee    Expr
	Arguments []Expr
	Optional  bool
}

func (*CallExpression) expr() {}

// NewExpression is `new callee(args...)`.
type NewExpression struct {
	base
	NodeFlags
	Callee    Expr
	Arguments []Expr
}

func (*NewExpression) expr() {}

// AssignmentExpression is `target op= value`.
type AssignmentExpression struct {
	base
	NodeFlags
	Operator string // "=", "+=", "-=", "*=", "/="
	Target   Expr   // Identifier or MemberExpression
	Value    Expr
}

func (*AssignmentExpression) expr() {}

// UpdateExpression is `++x`, `x++`, `--x`, `x--`.
type UpdateExpression struct {
	base
	NodeFlags
	Operator string // "++" or "--"
	Prefix   bool
	Target   Expr // Identifier or MemberExpression
}

func (*UpdateExpression) expr() {}

// BinaryExpression covers arithmetic/relational/bitwise binary operators.
type BinaryExpression struct {
	base
	NodeFlags
	Operator string
	Left     Expr
	Right    Expr
}

func (*BinaryExpression) expr() {}

// LogicalExpression covers `&&`, `||`.
type LogicalExpression struct {
	base
	NodeFlags
	Operator string
	Left     Expr
	Right    Expr
}

func (*LogicalExpression) expr() {}

// UnaryExpression covers prefix `!`, `-`, `+`, `typeof`, `~`.
type UnaryExpression struct {
	base
	NodeFlags
	Operator string
	Prefix   bool
	Argument Expr
}

func (*UnaryExpression) expr() {}

// SequenceExpression is the comma operator `a, b, c`.
type SequenceExpression struct {
	base
	NodeFlags
	Expressions []Expr
}

func (*SequenceExpression) expr() {}

// ConditionalExpression is the ternary `test ? cons : alt`.
type ConditionalExpression struct {
	base
	NodeFlags
	Test       Expr
	Consequent Expr
	Alternate  Expr
}

func (*ConditionalExpression) expr() {}

// FunctionExpression is a named or anonymous `function` expression.
type FunctionExpression struct {
	base
	NodeFlags
	Name   string // "" if anonymous
	Params []string
	Body   *BlockStatement
	Async  bool
}

func (*FunctionExpression) expr() {}

// ArrowFunctionExpression is `(params) => body`.
type ArrowFunctionExpression struct {
	base
	NodeFlags
	Params           []string
	Body             *BlockStatement // non-nil for block bodies
	ExpressionBody   Expr            // non-nil for concise bodies: x => x + 1
	Async            bool
}

func (*ArrowFunctionExpression) expr() {}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

type ExpressionStatement struct {
	base
	NodeFlags
	Expression Expr
}

func (*ExpressionStatement) stmt() {}

// Declarator is one `name = init` binding inside a VariableDeclaration.
type Declarator struct {
	Name string
	Init Expr // nil for `let x;`
}

type VariableDeclaration struct {
	base
	NodeFlags
	Kind         string // "var", "let", "const"
	Declarations []Declarator
}

func (*VariableDeclaration) stmt() {}

type BlockStatement struct {
	base
	NodeFlags
	Body []Stmt
}

func (*BlockStatement) stmt() {}

type IfStatement struct {
	base
	NodeFlags
	Test       Expr
	Consequent Stmt
	Alternate  Stmt // nil if no else
}

func (*IfStatement) stmt() {}

// ForStatement is the classic C-style `for (init; test; update) body`.
// Any of Init/Test/Update may be nil.
type ForStatement struct {
	base
	NodeFlags
	Init   Stmt // ExpressionStatement or VariableDeclaration, or nil
	Test   Expr
	Update Expr
	Body   Stmt
}

func (*ForStatement) stmt() {}

type WhileStatement struct {
	base
	NodeFlags
	Test Expr
	Body Stmt
}

func (*WhileStatement) stmt() {}

type ReturnStatement struct {
	base
	NodeFlags
	Argument Expr // nil for bare `return;`
}

func (*ReturnStatement) stmt() {}

type BreakStatement struct {
	base
	NodeFlags
}

func (*BreakStatement) stmt() {}

type ContinueStatement struct {
	base
	NodeFlags
}

func (*ContinueStatement) stmt() {}

type ThrowStatement struct {
	base
	NodeFlags
	Argument Expr
}

func (*ThrowStatement) stmt() {}

// CatchClause is the `catch (param) { body }` part of a TryStatement.
type CatchClause struct {
	Param string // "" if the catch has no binding
	Body  *BlockStatement
}

type TryStatement struct {
	base
	NodeFlags
	Block     *BlockStatement
	Handler   *CatchClause // nil if no catch
	Finalizer *BlockStatement // nil if no finally
}

func (*TryStatement) stmt() {}

// FunctionDeclaration is a hoisted, named `function f() {}` statement.
// Per spec.md §4.1 the declaration itself is never reported; only its body
// is instrumented, and only observed when called.
type FunctionDeclaration struct {
	base
	NodeFlags
	Name   string
	Params []string
	Body   *BlockStatement
	Async  bool
}

func (*FunctionDeclaration) stmt() {}

// ---------------------------------------------------------------------------
// Program
// ---------------------------------------------------------------------------

// Program is the root node: a sequence of top-level statements.
type Program struct {
	base
	Body []Stmt
}

// MakeSpan builds a Span from two positions.
func MakeSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}
