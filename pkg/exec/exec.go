// Package exec hosts the instrumented source on a goja.Runtime and
// implements the reporter the instrumented code calls into. Grounded on
// vm/vm.go / vm/interpreter.go's frame lifecycle (one fresh frame per run,
// no state surviving it) and on the goja debugger examples under
// _examples/other_examples/dop251-goja__*.go for the concrete API shape
// (goja.New(), vm.Set, vm.RunString).
package exec

import (
	"context"
	"fmt"
	"time"

	"github.com/dop251/goja"

	"github.com/klve/jstrace/pkg/describe"
	"github.com/klve/jstrace/pkg/errs"
)

// Location mirrors the {start,end} span the transformer embeds into every
// meta literal's loc field.
type Location struct {
	StartLine, StartCol int
	EndLine, EndCol     int
}

// Event is one raw reporter invocation, already describe()'d against the
// runtime that produced it. pkg/klve.Record converts a slice of these into
// the public Step sequence; exec itself knows nothing of pkg/klve's Step
// type; to keep the dependency one-directional (pkg/klve -> pkg/exec, not
// the reverse).
type Event struct {
	NodeType string
	Time     string
	Dt       int64
	Loc      *Location
	Value    describe.DescribedValue
	Scopes   []map[string]describe.DescribedValue
	Logs     [][]describe.DescribedValue
	Meta     map[string]interface{} // the node's `detail` object, exported verbatim
}

// Limits are the cooperative ceilings the reporter checks on every call.
// A nil field disables that limit.
type Limits struct {
	MaxSteps *int
	MaxTime  *int64 // milliseconds
}

// Result is what Run produces: either the completed event list, or a
// classified failure. Events collected before a limit was hit are still
// returned alongside the error, per spec §5 ("any steps already collected
// are discarded by the caller" — the caller's choice, not exec's).
type Result struct {
	Events []Event
	Err    error
}

// Run executes instrumented source under a single fresh goja.Runtime. ns
// names the reserved global object the instrumented source addresses as
// NS.report/NS.describe/NS.cache/NS.return.
func Run(ctx context.Context, source, ns string, limits Limits) Result {
	rt := goja.New()

	r := &reporter{rt: rt, limits: limits, start: nowMillis()}

	ns_ := rt.NewObject()
	ns_.Set("report", r.report)
	ns_.Set("describe", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Undefined()
		}
		return call.Arguments[0]
	})
	ns_.Set("cache", rt.NewArray())
	ns_.Set("return", goja.Undefined())
	rt.Set(ns, ns_)

	console := rt.NewObject()
	console.Set("log", func(call goja.FunctionCall) goja.Value {
		var entry []describe.DescribedValue
		for _, a := range call.Arguments {
			var heap describe.Heap
			d := describe.Describe(rt, a, &heap)
			entry = append(entry, describe.DescribedValue{Descriptor: d, Heap: heap})
		}
		r.logQueue = append(r.logQueue, entry)
		return goja.Undefined()
	})
	rt.Set("console", console)

	done := make(chan Result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				if le, ok := rec.(*errs.LimitExceeded); ok {
					done <- Result{Events: r.events, Err: le}
					return
				}
				done <- Result{Events: r.events, Err: &errs.RuntimeError{Message: fmt.Sprintf("%v", rec)}}
			}
		}()
		wrapped := "(function(){\n" + source + "\n})();"
		_, err := rt.RunString(wrapped)
		if err != nil {
			if exc, ok := err.(*goja.Exception); ok {
				done <- Result{Events: r.events, Err: &errs.RuntimeError{Message: exc.Error(), Stack: exc.String(), Cause: err}}
				return
			}
			done <- Result{Events: r.events, Err: &errs.RuntimeError{Message: err.Error(), Cause: err}}
			return
		}
		done <- Result{Events: r.events}
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return Result{Events: r.events, Err: &errs.RuntimeError{Message: "execution canceled", Cause: ctx.Err()}}
	}
}

func nowMillis() int64 { return time.Now().UnixMilli() }

// reporter implements NS.report(value, meta): the only piece of the
// instrumented program's observation surface that runs in Go rather than
// JS. Holds all per-invocation mutable state (spec §5: "execution frame,
// step list, log queue... are all local to one record invocation").
type reporter struct {
	rt       *goja.Runtime
	limits   Limits
	start    int64
	events   []Event
	logQueue [][]describe.DescribedValue
}

func (r *reporter) report(call goja.FunctionCall) goja.Value {
	var value goja.Value = goja.Undefined()
	if len(call.Arguments) > 0 {
		value = call.Arguments[0]
	}
	var metaObj *goja.Object
	if len(call.Arguments) > 1 {
		if o, ok := call.Arguments[1].(*goja.Object); ok {
			metaObj = o
		}
	}

	dt := nowMillis() - r.start
	if r.limits.MaxTime != nil && dt > *r.limits.MaxTime {
		panic(&errs.LimitExceeded{Kind: errs.LimitTime, Observed: dt})
	}
	// +1 accounts for the init step that pkg/klve.Record prepends to the
	// event list once this run finishes: spec §4.2 checks _steps.length
	// against maxSteps where _steps starts out holding that init entry, so
	// the ceiling covers it too.
	if r.limits.MaxSteps != nil && len(r.events)+1 >= *r.limits.MaxSteps {
		panic(&errs.LimitExceeded{Kind: errs.LimitSteps, Observed: int64(len(r.events) + 1)})
	}

	ev := Event{Dt: dt}
	if metaObj != nil {
		ev.NodeType = toString(metaObj.Get("type"))
		ev.Time = toString(metaObj.Get("time"))
		ev.Loc = extractLoc(metaObj.Get("loc"))
		ev.Meta = exportMeta(metaObj.Get("detail"))
		ev.Scopes = extractScopes(r.rt, metaObj.Get("scopes"))
	}

	var heap describe.Heap
	d := describe.Describe(r.rt, value, &heap)
	ev.Value = describe.DescribedValue{Descriptor: d, Heap: heap}

	ev.Logs = r.logQueue
	r.logQueue = nil

	r.events = append(r.events, ev)
	return value
}

func toString(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

func extractLoc(v goja.Value) *Location {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	start, _ := obj.Get("start").(*goja.Object)
	end, _ := obj.Get("end").(*goja.Object)
	loc := &Location{}
	if start != nil {
		loc.StartLine = int(start.Get("line").ToInteger())
		loc.StartCol = int(start.Get("column").ToInteger())
	}
	if end != nil {
		loc.EndLine = int(end.Get("line").ToInteger())
		loc.EndCol = int(end.Get("column").ToInteger())
	}
	return loc
}

func exportMeta(v goja.Value) map[string]interface{} {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	out := map[string]interface{}{}
	for _, k := range obj.Keys() {
		out[k] = obj.Get(k).Export()
	}
	return out
}

func extractScopes(rt *goja.Runtime, v goja.Value) []map[string]describe.DescribedValue {
	arr, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	length := int(arr.Get("length").ToInteger())
	scopes := make([]map[string]describe.DescribedValue, 0, length)
	for i := 0; i < length; i++ {
		frameObj, ok := arr.Get(fmt.Sprintf("%d", i)).(*goja.Object)
		if !ok {
			scopes = append(scopes, map[string]describe.DescribedValue{})
			continue
		}
		frame := map[string]describe.DescribedValue{}
		for _, name := range frameObj.Keys() {
			var heap describe.Heap
			d := describe.Describe(rt, frameObj.Get(name), &heap)
			frame[name] = describe.DescribedValue{Descriptor: d, Heap: heap}
		}
		scopes = append(scopes, frame)
	}
	return scopes
}
