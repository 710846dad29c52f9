// Package transform rewrites a parsed program so that, when the rewritten
// source runs normally, a reporter is invoked around every expression and
// statement without changing observable behavior. Grounded on
// pkg/codegen/codegen.go and compiler/codegen.go's "walk an AST, emit
// text" shape — generalized here from emitting Go/bytecode to emitting
// instrumented JavaScript source text.
package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/klve/jstrace/pkg/ast"
)

// raw marks a string as already-formed JS text, so jsLit emits it verbatim
// instead of quoting it as a string literal.
type raw string

// Instrument rewrites prog into instrumented JS source text. ns is the
// reserved, per-call-unique identifier the emitted code uses for the
// reporter namespace (NS.report/NS.describe/NS.cache/NS.return).
func Instrument(prog *ast.Program, ns string) (string, error) {
	t := &Transformer{ns: ns}
	t.pushScope()
	var sb strings.Builder
	for _, s := range prog.Body {
		sb.WriteString(t.emitStmt(s))
		sb.WriteString("\n")
	}
	t.popScope()
	return sb.String(), nil
}

// Transformer holds the mutable state threaded through one Instrument call:
// the cache-slot counter and the tracked lexical scope chain used to build
// scope-snapshot literals. Nothing here outlives one Instrument call.
type Transformer struct {
	ns         string
	cacheSlot  int
	varSeq     int
	labelSeq   int
	scopes     []*lexScope
	loopLabels []string
}

type lexScope struct {
	names       []string
	synthesized map[string]bool
}

func (t *Transformer) pushScope() {
	t.scopes = append(t.scopes, &lexScope{synthesized: map[string]bool{}})
}

func (t *Transformer) popScope() {
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// declare registers name as visible in the current (innermost) scope, from
// this point in the walk onward. Scopes are populated as-you-go rather than
// via a separate hoisting pre-pass: a name appears in scope snapshots only
// once the walk has passed its declaration, which is what lets the runtime
// guard's catch-and-discard behavior (spec §3) actually matter for reads
// that happen before a `let`/`const` initializer runs.
func (t *Transformer) declare(name string, synthesized bool) {
	if name == "" {
		return
	}
	sc := t.scopes[len(t.scopes)-1]
	sc.names = append(sc.names, name)
	if synthesized {
		sc.synthesized[name] = true
	}
}

func (t *Transformer) nextCacheSlot() int {
	slot := t.cacheSlot
	t.cacheSlot++
	return slot
}

// ---------------------------------------------------------------------------
// Literal-building helpers
// ---------------------------------------------------------------------------

func jsLit(v interface{}) string {
	switch x := v.(type) {
	case raw:
		return string(x)
	case nil:
		return "null"
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(x)
	case string:
		return strconv.Quote(x)
	default:
		return "null"
	}
}

// jsObj builds a JS object literal from alternating key/value pairs.
func jsObj(kv ...interface{}) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i := 0; i < len(kv); i += 2 {
		if i > 0 {
			sb.WriteByte(',')
		}
		key := kv[i].(string)
		sb.WriteString(strconv.Quote(key))
		sb.WriteByte(':')
		sb.WriteString(jsLit(kv[i+1]))
	}
	sb.WriteByte('}')
	return sb.String()
}

func posLit(p ast.Position) string {
	return jsObj("line", p.Line, "column", p.Column)
}

func locLit(span ast.Span) string {
	return jsObj("start", raw(posLit(span.Start)), "end", raw(posLit(span.End)))
}

// scopesLiteralText builds the scope-snapshot array literal for the
// transformer's current scope chain (spec §4.1 "Scope snapshotting"): one
// object per visible frame, innermost last, each property a guarded
// live-read expression.
func (t *Transformer) scopesLiteralText() string {
	var frames []string
	for _, sc := range t.scopes {
		var props []string
		for _, name := range sc.names {
			key := name
			if sc.synthesized[name] {
				key = name + " (!)"
			}
			props = append(props, fmt.Sprintf(
				"%s: %s.describe((() => { try { return %s; } catch (e) { } })())",
				strconv.Quote(key), t.ns, name))
		}
		frames = append(frames, "{"+strings.Join(props, ",")+"}")
	}
	return strings.Join(frames, ",")
}

func (t *Transformer) metaLiteral(nodeType, time string, span ast.Span, detail string) string {
	return jsObj(
		"type", nodeType,
		"time", time,
		"loc", raw(locLit(span)),
		"detail", raw(detail),
		"scopes", raw("["+t.scopesLiteralText()+"]"),
	)
}

// reportCall emits one NS.report(value, meta) call against the
// transformer's reserved namespace.
func (t *Transformer) reportCall(valueText, nodeType, time string, span ast.Span, detail string) string {
	return fmt.Sprintf("%s.report(%s, %s)", t.ns, valueText, t.metaLiteral(nodeType, time, span, detail))
}

// genericWrap implements spec §4.1's generic expression replacement: `E`
// becomes `(maybeBefore, NS.report(E, meta_after))`.
func (t *Transformer) genericWrap(n ast.Node, nodeType string, coreText string, detail string) string {
	before := "null"
	if n.ReportBefore() {
		before = t.reportCall("undefined", nodeType, "before", n.Span(), detail)
	}
	after := t.reportCall(coreText, nodeType, "after", n.Span(), detail)
	return fmt.Sprintf("(%s, %s)", before, after)
}

// statementWrap implements the statement-level before/after sibling calls.
func (t *Transformer) statementWrap(n ast.Node, nodeType string, coreStmtText string, detail string) string {
	before := t.reportCall("undefined", nodeType, "before", n.Span(), detail)
	after := t.reportCall("undefined", nodeType, "after", n.Span(), detail)
	return before + ";\n" + coreStmtText + "\n" + after + ";"
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (t *Transformer) emitStmt(s ast.Stmt) string {
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		// No step of its own (spec SPEC_FULL.md §E.1): the child expression
		// already reports via the generic expression rule.
		return t.emitExpr(n.Expression) + ";"

	case *ast.BlockStatement:
		return t.emitBlockBody(n.Body)

	case *ast.VariableDeclaration:
		return t.statementWrap(n, "VariableDeclaration", t.emitVarDecl(n), detailDeclare(n))

	case *ast.IfStatement:
		return t.statementWrap(n, "IfStatement", t.emitIf(n), detailBranch(n.Alternate != nil))

	case *ast.ForStatement:
		return t.statementWrap(n, "ForStatement", t.emitForDesugared(n), detailLoopFor(n))

	case *ast.WhileStatement:
		return t.statementWrap(n, "WhileStatement", t.emitWhileDesugared(n), detailLoopWhile())

	case *ast.TryStatement:
		return t.statementWrap(n, "TryStatement", t.emitTry(n), detailProtect(n))

	case *ast.ReturnStatement:
		return t.emitReturn(n)

	case *ast.BreakStatement:
		return "break;"

	case *ast.ContinueStatement:
		// Desugared `for` bodies run inside a labeled block so that a bare
		// `continue` still reaches the update clause that follows it,
		// matching real for-loop semantics (see emitForDesugared).
		if n := len(t.loopLabels); n > 0 && t.loopLabels[n-1] != "" {
			return fmt.Sprintf("break %s;", t.loopLabels[n-1])
		}
		return "continue;"

	case *ast.ThrowStatement:
		if n.Argument == nil {
			return "throw undefined;"
		}
		return "throw " + t.emitExpr(n.Argument) + ";"

	case *ast.FunctionDeclaration:
		return t.emitFunctionDeclaration(n)

	default:
		return fmt.Sprintf("/* unsupported statement %T */;", n)
	}
}

// emitBlockBody renders a block's children, each through emitStmt, braced.
func (t *Transformer) emitBlockBody(body []ast.Stmt) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range body {
		sb.WriteString(t.emitStmt(s))
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// emitAsBlock renders s as a brace-delimited statement regardless of
// whether the source wrote it with braces, since eligible statement kinds
// expand to multiple lines (before-report; core; after-report) and need a
// syntactic block to live in a single-statement position (if-branch,
// loop body).
func (t *Transformer) emitAsBlock(s ast.Stmt) string {
	if b, ok := s.(*ast.BlockStatement); ok {
		return t.emitBlockBody(b.Body)
	}
	return "{\n" + t.emitStmt(s) + "\n}"
}

func (t *Transformer) emitVarDecl(n *ast.VariableDeclaration) string {
	var decls []string
	for _, d := range n.Declarations {
		t.declare(d.Name, false)
		if d.Init == nil {
			decls = append(decls, d.Name)
			continue
		}
		decls = append(decls, d.Name+" = "+t.emitExpr(d.Init))
	}
	return n.Kind + " " + strings.Join(decls, ", ") + ";"
}

func (t *Transformer) emitIf(n *ast.IfStatement) string {
	s := "if (" + t.emitExpr(n.Test) + ") " + t.emitAsBlock(n.Consequent)
	if n.Alternate != nil {
		s += " else " + t.emitAsBlock(n.Alternate)
	}
	return s
}

// emitWhileDesugared rewrites `while (T) B` into `while (true) { tmp =
// <report T>; if (!tmp) break; B }` per spec §4.1, marking the cloned test
// _reportBefore so it reports a before event each iteration too.
func (t *Transformer) emitWhileDesugared(n *ast.WhileStatement) string {
	n.Test.SetReportBefore(true)
	testText := t.emitExpr(n.Test)
	tmp := t.freshVarName()
	var sb strings.Builder
	sb.WriteString("while (true) {\n")
	sb.WriteString(fmt.Sprintf("let %s = %s;\n", tmp, testText))
	sb.WriteString(fmt.Sprintf("if (!%s) break;\n", tmp))
	// Nothing follows the body here, so a bare `continue` already does the
	// right thing; push a sentinel so a continue inside this body doesn't
	// pick up an enclosing for-loop's update-preserving label.
	t.loopLabels = append(t.loopLabels, "")
	sb.WriteString(t.emitAsBlock(n.Body))
	t.popLoopLabel()
	sb.WriteString("\n}")
	return sb.String()
}

// emitForDesugared rewrites `for (I; T; U) B` into `{ I; while (true) { tmp
// = <report T>; if (!tmp) break; L: { B } U } }` per spec §4.1. Absent I/T/U
// slots become no-ops but T/U, when present, still report every iteration.
//
// B is wrapped in a fresh labeled block L and a bare `continue` inside it is
// rewritten (see the ContinueStatement case in emitStmt) to `break L;`: real
// for-loop semantics run U before the next test even when the body hits
// continue, and a plain `continue` inside this desugared while(true) would
// jump straight back to the test, skipping U entirely. An unlabeled `break`
// is untouched and still exits the while(true) directly, since break needs
// an explicit label to target a labeled block instead of its nearest
// enclosing loop.
func (t *Transformer) emitForDesugared(n *ast.ForStatement) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	if n.Init != nil {
		sb.WriteString(t.emitStmt(n.Init))
		sb.WriteString("\n")
	} else {
		sb.WriteString("null;\n")
	}

	sb.WriteString("while (true) {\n")
	if n.Test != nil {
		n.Test.SetReportBefore(true)
		tmp := t.freshVarName()
		sb.WriteString(fmt.Sprintf("let %s = %s;\n", tmp, t.emitExpr(n.Test)))
		sb.WriteString(fmt.Sprintf("if (!%s) break;\n", tmp))
	} else {
		sb.WriteString("null;\n")
	}

	label := t.pushLoopLabel()
	sb.WriteString(label + ": ")
	sb.WriteString(t.emitAsBlock(n.Body))
	t.popLoopLabel()
	sb.WriteString("\n")

	if n.Update != nil {
		n.Update.SetReportBefore(true)
		sb.WriteString(t.emitExpr(n.Update))
		sb.WriteString(";\n")
	} else {
		sb.WriteString("null;\n")
	}
	sb.WriteString("}\n}")
	return sb.String()
}

func (t *Transformer) emitTry(n *ast.TryStatement) string {
	s := "try " + t.emitBlockBody(n.Block.Body)
	if n.Handler != nil {
		t.pushScope()
		if n.Handler.Param != "" {
			t.declare(n.Handler.Param, false)
			s += " catch (" + n.Handler.Param + ") " + t.emitBlockBody(n.Handler.Body.Body)
		} else {
			s += " catch " + t.emitBlockBody(n.Handler.Body.Body)
		}
		t.popScope()
	}
	if n.Finalizer != nil {
		s += " finally " + t.emitBlockBody(n.Finalizer.Body)
	}
	return s
}

// emitReturn rewrites `return S` per spec §4.1: NS.return holds the
// observable value so it can be reported before the actual return unwinds.
func (t *Transformer) emitReturn(n *ast.ReturnStatement) string {
	argText := "undefined"
	if n.Argument != nil {
		argText = t.emitExpr(n.Argument)
	}
	returnSlot := t.ns + ".return"
	before := t.reportCall("undefined", "ReturnStatement", "before", n.Span(), detailReturn())
	assign := fmt.Sprintf("%s = %s;", returnSlot, argText)
	after := t.reportCall(returnSlot, "ReturnStatement", "after", n.Span(), detailReturn())
	return before + ";\n" + assign + "\n" + after + ";\nreturn " + returnSlot + ";"
}

func (t *Transformer) emitFunctionDeclaration(n *ast.FunctionDeclaration) string {
	t.pushScope()
	for _, p := range n.Params {
		t.declare(p, false)
	}
	body := t.emitBlockBody(n.Body.Body)
	t.popScope()
	prefix := ""
	if n.Async {
		prefix = "async "
	}
	return prefix + "function " + n.Name + "(" + strings.Join(n.Params, ", ") + ") " + body
}

func (t *Transformer) freshTemp() string {
	return fmt.Sprintf("%s.cache[%d]", t.ns, t.nextCacheSlot())
}

// freshVarName mints a plain local `let` binding, used where the rewrite
// needs a real declarable variable (the desugared loop's test holder)
// rather than an NS.cache slot.
func (t *Transformer) freshVarName() string {
	name := fmt.Sprintf("%s_tmp%d", t.ns, t.varSeq)
	t.varSeq++
	return name
}

// pushLoopLabel mints a fresh label for one desugared loop's body and makes
// it the target for any bare `continue` reached while emitting that body,
// shadowing whatever loop (if any) encloses it. popLoopLabel restores the
// enclosing label once the body is done.
func (t *Transformer) pushLoopLabel() string {
	label := fmt.Sprintf("%s_loop%d", t.ns, t.labelSeq)
	t.labelSeq++
	t.loopLabels = append(t.loopLabels, label)
	return label
}

func (t *Transformer) popLoopLabel() {
	t.loopLabels = t.loopLabels[:len(t.loopLabels)-1]
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

func (t *Transformer) emitExpr(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.NumericLiteral:
		return t.genericWrap(n, "NumericLiteral", n.Raw, detailPrimitiveLiteral())
	case *ast.StringLiteral:
		return t.genericWrap(n, "StringLiteral", strconv.Quote(n.Value), detailPrimitiveLiteral())
	case *ast.BooleanLiteral:
		return boolLit(n.Value)
	case *ast.NullLiteral:
		return "null"
	case *ast.UndefinedLiteral:
		return "undefined"
	case *ast.ThisExpression:
		return "this"

	case *ast.Identifier:
		if n.Done() {
			return n.Name
		}
		return t.genericWrap(n, "Identifier", n.Name, detailRead(n.Name))

	case *ast.MemberExpression:
		return t.emitMember(n)

	case *ast.ArrayExpression:
		return t.emitArray(n)

	case *ast.ObjectExpression:
		return t.emitObject(n)

	case *ast.CallExpression:
		return t.emitCall(n)

	case *ast.NewExpression:
		return t.emitNew(n)

	case *ast.AssignmentExpression:
		return t.emitAssignment(n)

	case *ast.UpdateExpression:
		return t.emitUpdate(n)

	case *ast.BinaryExpression:
		core := t.emitExpr(n.Left) + " " + n.Operator + " " + t.emitExpr(n.Right)
		return t.genericWrap(n, "BinaryExpression", core, detailCompute(n.Operator, false))

	case *ast.LogicalExpression:
		core := t.emitExpr(n.Left) + " " + n.Operator + " " + t.emitExpr(n.Right)
		return t.genericWrap(n, "LogicalExpression", core, detailCompute(n.Operator, false))

	case *ast.UnaryExpression:
		return t.emitUnary(n)

	case *ast.SequenceExpression:
		return t.emitSequence(n)

	case *ast.ConditionalExpression:
		core := t.emitExpr(n.Test) + " ? " + t.emitExpr(n.Consequent) + " : " + t.emitExpr(n.Alternate)
		return t.genericWrap(n, "ConditionalExpression", core, detailBranch(true))

	case *ast.FunctionExpression:
		return t.emitFunctionExpression(n)

	case *ast.ArrowFunctionExpression:
		return t.emitArrow(n)

	default:
		return fmt.Sprintf("/* unsupported expression %T */ undefined", n)
	}
}

func boolLit(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// rawRead renders an expression's plain structural text without generic
// wrapping, used for sub-expressions the spec's rewrite rules re-read
// outside the normal single-evaluation flow (update-expression targets,
// the object of an assignment-target member) so they are not double-reported.
func (t *Transformer) rawRead(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Identifier:
		return n.Name
	case *ast.MemberExpression:
		if n.Computed {
			return t.rawRead(n.Object) + "[" + t.emitExpr(n.Property) + "]"
		}
		name := n.Property.(*ast.Identifier).Name
		return t.rawRead(n.Object) + "." + name
	default:
		return t.emitExpr(e)
	}
}

func (t *Transformer) emitMember(n *ast.MemberExpression) string {
	if n.Done() {
		return t.rawMemberText(n, t.rawOrEmitObject(n))
	}
	objText := t.emitExpr(n.Object)
	core := t.rawMemberText(n, objText)
	return t.genericWrap(n, "MemberExpression", core, detailMember(n))
}

// rawOrEmitObject suppresses the object sub-read when this member node is
// itself an assignment target (spec §9 Open Question: LVal subtree done
// except the computed property).
func (t *Transformer) rawOrEmitObject(n *ast.MemberExpression) string {
	if n.Object.Done() {
		return t.rawRead(n.Object)
	}
	return t.emitExpr(n.Object)
}

func (t *Transformer) rawMemberText(n *ast.MemberExpression, objText string) string {
	if n.Computed {
		bracketPrefix := "["
		if n.Optional {
			bracketPrefix = "?.["
		}
		return objText + bracketPrefix + t.emitExpr(n.Property) + "]"
	}
	accessor := "."
	if n.Optional {
		accessor = "?."
	}
	name := n.Property.(*ast.Identifier).Name
	return objText + accessor + name
}

func (t *Transformer) emitArray(n *ast.ArrayExpression) string {
	parts := make([]string, len(n.Elements))
	for i, el := range n.Elements {
		if el == nil {
			parts[i] = ""
			continue
		}
		parts[i] = t.emitExpr(el)
	}
	core := "[" + strings.Join(parts, ", ") + "]"
	return t.genericWrap(n, "ArrayExpression", core, detailArrayLiteral(len(n.Elements)))
}

func (t *Transformer) emitObject(n *ast.ObjectExpression) string {
	var parts []string
	for _, p := range n.Properties {
		if p.Computed {
			parts = append(parts, "["+t.emitExpr(p.KeyExpr)+"]: "+t.emitExpr(p.Value))
		} else {
			parts = append(parts, strconv.Quote(p.Key)+": "+t.emitExpr(p.Value))
		}
	}
	core := "{" + strings.Join(parts, ", ") + "}"
	return t.genericWrap(n, "ObjectExpression", core, detailObjectLiteral(len(n.Properties)))
}

// emitCall implements spec §4.1's method-call receiver-identity trick: a
// member-expression callee evaluates its receiver exactly once into an NS
// cache slot, reports the callee as a read of that slot, then calls
// `.call(receiver, args...)` on the result.
func (t *Transformer) emitCall(n *ast.CallExpression) string {
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = t.emitExpr(a)
	}
	argsText := strings.Join(args, ", ")

	var coreCall string
	if m, ok := n.Callee.(*ast.MemberExpression); ok {
		slot := t.freshTemp()
		objText := t.emitExpr(m.Object)
		calleeCore := t.rawMemberText(m, slot)
		calleeWrapped := t.genericWrap(m, "MemberExpression", calleeCore, detailMember(m))
		coreCall = fmt.Sprintf("(%s = %s, %s).call(%s%s)", slot, objText, calleeWrapped, slot, prependComma(argsText))
	} else {
		calleeText := t.emitExpr(n.Callee)
		coreCall = fmt.Sprintf("%s.call(undefined%s)", calleeText, prependComma(argsText))
	}

	return t.genericWrap(n, "CallExpression", coreCall, detailCall(n))
}

func prependComma(s string) string {
	if s == "" {
		return ""
	}
	return ", " + s
}

func (t *Transformer) emitNew(n *ast.NewExpression) string {
	calleeText := t.emitExpr(n.Callee)
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = t.emitExpr(a)
	}
	core := "new " + calleeText + "(" + strings.Join(args, ", ") + ")"
	return t.genericWrap(n, "NewExpression", core, detailNew(n))
}

// markLHSDone marks an assignment target's subtree done, except a computed
// member property, per spec §9's preserved open-question heuristic.
func markLHSDone(e ast.Expr) {
	e.SetDone(true)
	if m, ok := e.(*ast.MemberExpression); ok {
		markLHSDone(m.Object)
	}
}

func (t *Transformer) emitAssignment(n *ast.AssignmentExpression) string {
	markLHSDone(n.Target)
	targetText := t.emitExpr(n.Target)
	valueText := t.emitExpr(n.Value)
	core := targetText + " " + n.Operator + " " + valueText
	return t.genericWrap(n, "AssignmentExpression", core, detailAssign(n))
}

// emitUpdate implements spec §4.1's update rewrites. A computed-member
// target (`arr[i]++`) has its object and property cached once up front so
// the repeated read/write occurrences below never re-evaluate `i` (or any
// side effect inside it) more than once.
func (t *Transformer) emitUpdate(n *ast.UpdateExpression) string {
	op := "+"
	if n.Operator == "--" {
		op = "-"
	}

	prelude := ""
	targetText := t.rawRead(n.Target)
	if m, ok := n.Target.(*ast.MemberExpression); ok && m.Computed {
		objSlot := t.freshTemp()
		propSlot := t.freshTemp()
		objText := t.rawOrEmitObject(m)
		propText := t.emitExpr(m.Property)
		prelude = fmt.Sprintf("%s = %s, %s = %s, ", objSlot, objText, propSlot, propText)
		targetText = fmt.Sprintf("%s[%s]", objSlot, propSlot)
	}

	var core string
	if n.Prefix {
		core = fmt.Sprintf("(%s%s = %s %s 1, %s)", prelude, targetText, targetText, op, targetText)
	} else {
		slot := t.freshTemp()
		core = fmt.Sprintf("(%s%s = %s, %s = %s %s 1, %s)", prelude, slot, targetText, targetText, targetText, op, slot)
	}
	return t.genericWrap(n, "UpdateExpression", core, detailUpdate(n))
}

func (t *Transformer) emitUnary(n *ast.UnaryExpression) string {
	var core string
	if n.Operator == "typeof" {
		core = "typeof " + t.emitExpr(n.Argument)
	} else {
		core = n.Operator + t.emitExpr(n.Argument)
	}
	return t.genericWrap(n, "UnaryExpression", core, detailCompute(n.Operator, true))
}

func (t *Transformer) emitSequence(n *ast.SequenceExpression) string {
	parts := make([]string, len(n.Expressions))
	for i, e := range n.Expressions {
		parts[i] = t.emitExpr(e)
	}
	core := "(" + strings.Join(parts, ", ") + ")"
	return t.genericWrap(n, "SequenceExpression", core, detailCompute("", false))
}

func (t *Transformer) emitFunctionExpression(n *ast.FunctionExpression) string {
	t.pushScope()
	for _, p := range n.Params {
		t.declare(p, false)
	}
	body := t.emitBlockBody(n.Body.Body)
	t.popScope()
	prefix := ""
	if n.Async {
		prefix = "async "
	}
	core := prefix + "function " + n.Name + "(" + strings.Join(n.Params, ", ") + ") " + body
	return t.genericWrap(n, "FunctionExpression", core, detailDefineFunction(n))
}

// emitArrow implements spec §4.1's arrow rewrite: wrap in a bound regular
// function so the body gets normal statement-level instrumentation while
// the function value itself is observable at the definition site. A
// concise body is rewritten into an explicit ReturnStatement so the
// return-rewrite logic (NS.return) applies uniformly.
func (t *Transformer) emitArrow(n *ast.ArrowFunctionExpression) string {
	t.pushScope()
	for _, p := range n.Params {
		t.declare(p, false)
	}

	var body string
	if n.Body != nil {
		body = t.emitBlockBody(n.Body.Body)
	} else {
		ret := &ast.ReturnStatement{Argument: n.ExpressionBody}
		ret.SpanVal = n.ExpressionBody.Span()
		body = "{\n" + t.emitReturn(ret) + "\n}"
	}
	t.popScope()

	prefix := ""
	if n.Async {
		prefix = "async "
	}
	core := fmt.Sprintf("(%sfunction(%s) %s).bind(this)", prefix, strings.Join(n.Params, ", "), body)
	return t.genericWrap(n, "ArrowFunctionExpression", core, detailDefineArrow(n))
}
