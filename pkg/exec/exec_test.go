package exec

import (
	"context"
	"testing"

	"github.com/klve/jstrace/pkg/errs"
)

func TestRunReportsEveryCall(t *testing.T) {
	src := `
		NS.report(1, {type: "NumericLiteral", time: "after", detail: {action: "literal"}, loc: {start: {line: 1, column: 0}, end: {line: 1, column: 1}}, scopes: []});
		NS.report(2, {type: "NumericLiteral", time: "after", detail: {action: "literal"}, loc: {start: {line: 2, column: 0}, end: {line: 2, column: 1}}, scopes: []});
	`
	res := Run(context.Background(), src, "NS", Limits{})
	if res.Err != nil {
		t.Fatalf("Run returned an error: %v", res.Err)
	}
	if len(res.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(res.Events))
	}
	if res.Events[0].NodeType != "NumericLiteral" {
		t.Errorf("NodeType = %q, want NumericLiteral", res.Events[0].NodeType)
	}
	if res.Events[0].Value.Descriptor.Value != float64(1) {
		t.Errorf("Value = %v, want 1", res.Events[0].Value.Descriptor.Value)
	}
}

func TestRunReportReturnsValueUnchanged(t *testing.T) {
	src := `
		var y = NS.report(41, {type: "NumericLiteral", time: "after", detail: {action: "literal"}, scopes: []}) + 1;
		NS.report(y, {type: "Identifier", time: "after", detail: {action: "read", name: "y"}, scopes: []});
	`
	res := Run(context.Background(), src, "NS", Limits{})
	if res.Err != nil {
		t.Fatalf("Run returned an error: %v", res.Err)
	}
	if len(res.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(res.Events))
	}
	if res.Events[1].Value.Descriptor.Value != float64(42) {
		t.Errorf("NS.report should return its value argument unchanged, y = %v, want 42", res.Events[1].Value.Descriptor.Value)
	}
}

func TestRunMaxStepsLimitExceeded(t *testing.T) {
	src := `
		for (var i = 0; i < 100; i++) {
			NS.report(i, {type: "NumericLiteral", time: "after", detail: {action: "literal"}, scopes: []});
		}
	`
	n := 5
	res := Run(context.Background(), src, "NS", Limits{MaxSteps: &n})
	if res.Err == nil {
		t.Fatal("expected a limit-exceeded error")
	}
	le, ok := res.Err.(*errs.LimitExceeded)
	if !ok {
		t.Fatalf("got %T, want *errs.LimitExceeded", res.Err)
	}
	if le.Kind != errs.LimitSteps {
		t.Errorf("Kind = %v, want steps", le.Kind)
	}
	if le.Observed < int64(n) {
		t.Errorf("Observed = %d, want >= %d", le.Observed, n)
	}
	// one fewer than n: len(r.events)+1 (the seeded init step the caller
	// prepends) is what's compared against maxSteps, so the reporter's own
	// event count tops out one short of n.
	if len(res.Events) != n-1 {
		t.Errorf("got %d events before the limit tripped, want %d", len(res.Events), n-1)
	}
}

func TestRunConsoleLogIsQueued(t *testing.T) {
	src := `
		console.log("hello", 1);
		NS.report(0, {type: "NumericLiteral", time: "after", detail: {action: "literal"}, scopes: []});
	`
	res := Run(context.Background(), src, "NS", Limits{})
	if res.Err != nil {
		t.Fatalf("Run returned an error: %v", res.Err)
	}
	if len(res.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(res.Events))
	}
	if len(res.Events[0].Logs) != 1 {
		t.Fatalf("got %d queued log entries, want 1", len(res.Events[0].Logs))
	}
	if len(res.Events[0].Logs[0]) != 2 {
		t.Errorf("log entry has %d values, want 2", len(res.Events[0].Logs[0]))
	}
}

func TestRunPropagatesThrownException(t *testing.T) {
	src := `throw new Error("boom");`
	res := Run(context.Background(), src, "NS", Limits{})
	if res.Err == nil {
		t.Fatal("expected an error from a thrown exception")
	}
	re, ok := res.Err.(*errs.RuntimeError)
	if !ok {
		t.Fatalf("got %T, want *errs.RuntimeError", res.Err)
	}
	if re.Stack == "" {
		t.Error("Stack should be populated from the goja exception")
	}
}
