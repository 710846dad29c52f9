package klve

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/klve/jstrace/pkg/errs"
	"github.com/klve/jstrace/pkg/exec"
	"github.com/klve/jstrace/pkg/parser"
	"github.com/klve/jstrace/pkg/transform"
)

// reservedNamespace mints a fresh per-call name for the global object the
// transformer's emitted calls address (NS.report, NS.describe, NS.cache,
// NS.return): a gensym, not a fixed "NS", so instrumented source can never
// collide with an identically-named global the traced program declares
// itself. Same uuid.NewString() idiom as lib/runtime/objectspace.go's
// GenerateID, with dashes folded to underscores since a JS identifier
// can't contain one.
func reservedNamespace() string {
	return "NS_" + strings.ReplaceAll(uuid.NewString(), "-", "_")
}

// RecordResult is sent exactly once on Record's returned channel, then the
// channel is closed. Go's analogue of a resolved/rejected promise (spec
// §4.5/§6): callers await the channel instead of a .then/.catch pair.
type RecordResult struct {
	Steps Steps
	Err   error
}

// Record parses, instruments, executes, and filters source under cfg,
// delivering exactly one RecordResult on the returned channel before
// closing it. The channel lets a caller select on ctx.Done() alongside the
// trace without Record itself blocking past ctx's deadline once execution
// has started (exec.Run already respects ctx internally).
func Record(ctx context.Context, source string, cfg Config) (<-chan RecordResult, error) {
	opts := cfg.Options
	if opts.Nodes == nil {
		opts = DefaultOptions()
	}
	if err := VerifyOptions(opts); err != nil {
		return nil, err
	}

	prog, err := parser.Parse(source)
	if err != nil {
		return nil, adaptError(err)
	}

	ns := reservedNamespace()
	instrumented, err := transform.Instrument(prog, ns)
	if err != nil {
		return nil, adaptError(err)
	}

	out := make(chan RecordResult, 1)
	go func() {
		defer close(out)

		limits := exec.Limits{}
		if cfg.Meta.Max.Steps > 0 {
			n := cfg.Meta.Max.Steps
			limits.MaxSteps = &n
		}
		if cfg.Meta.Max.Time > 0 {
			t := cfg.Meta.Max.Time
			limits.MaxTime = &t
		}

		res := exec.Run(ctx, instrumented, ns, limits)
		if res.Err != nil {
			out <- RecordResult{Steps: toSteps(res.Events), Err: adaptError(res.Err)}
			return
		}

		steps := append(Steps{InitStep()}, toSteps(res.Events)...)
		out <- RecordResult{Steps: FilterApply(steps, opts)}
	}()

	return out, nil
}

func toSteps(events []exec.Event) Steps {
	steps := make(Steps, 0, len(events))
	for _, ev := range events {
		steps = append(steps, eventToStep(ev))
	}
	return steps
}

func eventToStep(ev exec.Event) Step {
	s := Step{
		Category: categoryForType(ev.NodeType),
		Type:     ev.NodeType,
		Time:     Time(ev.Time),
	}
	dt := ev.Dt
	s.Dt = &dt

	if ev.Loc != nil {
		s.Loc = &SourceLocation{
			Start: Position{Line: ev.Loc.StartLine, Column: ev.Loc.StartCol},
			End:   Position{Line: ev.Loc.EndLine, Column: ev.Loc.EndCol},
		}
	}

	s.Value = &ev.Value

	if len(ev.Scopes) > 0 {
		scopes := make([]Scope, len(ev.Scopes))
		for i, frame := range ev.Scopes {
			sc := Scope{}
			for k, v := range frame {
				sc[k] = v
			}
			scopes[i] = sc
		}
		s.Scopes = scopes
	}

	if len(ev.Logs) > 0 {
		s.Logs = ev.Logs
	}

	s.Detail = detailFromMeta(ev.Meta)

	return s
}

// categoryForType classifies a step by AST type per the node-type table:
// anything rooted under a statement-level construct is "statement", every
// other instrumented node is "expression". ExpressionStatement and the
// other wrapper-only kinds listed in SPEC_FULL.md §E.1 never reach here
// because the transformer never emits a report call for them directly.
func categoryForType(astType string) Category {
	switch astType {
	case "VariableDeclaration", "IfStatement", "ForStatement", "WhileStatement",
		"TryStatement", "ReturnStatement":
		return CategoryStatement
	default:
		return CategoryExpression
	}
}

func detailFromMeta(meta map[string]interface{}) *Detail {
	if meta == nil {
		return nil
	}
	d := &Detail{}
	if a, ok := meta["action"].(string); ok {
		d.Action = Action(a)
	}
	if v, ok := meta["name"].(string); ok {
		d.Name = v
	}
	if v, ok := meta["computed"].(bool); ok {
		d.Computed = &v
	}
	if v, ok := meta["property"].(string); ok {
		d.Property = &v
	}
	if v, ok := meta["optional"].(bool); ok {
		d.Optional = &v
	}
	if v, ok := meta["operator"].(string); ok {
		d.Operator = v
	}
	if v, ok := meta["target"].(string); ok {
		d.Target = &v
	}
	if v, ok := meta["prefix"].(bool); ok {
		d.Prefix = &v
	}
	if v, ok := meta["kind"].(string); ok {
		d.Kind = v
	}
	if n, ok := metaInt(meta["arity"]); ok {
		d.Arity = &n
	}
	if v, ok := meta["callee"].(string); ok {
		d.Callee = &v
	}
	if v, ok := meta["method"].(bool); ok {
		d.Method = &v
	}
	if v, ok := meta["hasAlternate"].(bool); ok {
		d.HasAlternate = &v
	}
	if v, ok := meta["hasInit"].(bool); ok {
		d.HasInit = &v
	}
	if v, ok := meta["hasTest"].(bool); ok {
		d.HasTest = &v
	}
	if v, ok := meta["hasUpdate"].(bool); ok {
		d.HasUpdate = &v
	}
	if v, ok := meta["hasCatch"].(bool); ok {
		d.HasCatch = &v
	}
	if v, ok := meta["hasFinally"].(bool); ok {
		d.HasFinally = &v
	}
	if v, ok := meta["expressionBody"].(bool); ok {
		d.ExpressionBody = &v
	}
	if v, ok := meta["async"].(bool); ok {
		d.Async = &v
	}
	if v, ok := meta["generator"].(bool); ok {
		d.Generator = &v
	}
	if n, ok := metaInt(meta["elementCount"]); ok {
		d.ElementCount = &n
	}
	if n, ok := metaInt(meta["propertyCount"]); ok {
		d.PropertyCount = &n
	}
	if d.Action == "" {
		d.Action = ActionUnknown
	}
	return d
}

// metaInt extracts an integer out of a goja-exported JS number, which
// Export() hands back as int64 or float64 depending on whether the engine
// kept it in its integer fast path.
func metaInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// adaptError classifies a pipeline failure per spec §4.5: parse errors keep
// their loc, limit-exceeded passes through unchanged, anything else becomes
// a runtime-error with a best-effort loc.
func adaptError(err error) error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *errs.ParseError:
		return e
	case *errs.LimitExceeded:
		return e
	case *errs.RuntimeError:
		return e
	default:
		return &errs.RuntimeError{Message: err.Error(), Cause: err}
	}
}
