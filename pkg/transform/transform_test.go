package transform

import (
	"strings"
	"testing"

	"github.com/klve/jstrace/pkg/parser"
)

func instrument(t *testing.T, src string) string {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parser.Parse(%q): %v", src, err)
	}
	out, err := Instrument(prog, "NS")
	if err != nil {
		t.Fatalf("Instrument(%q): %v", src, err)
	}
	return out
}

func TestInstrumentEmitsReportCalls(t *testing.T) {
	out := instrument(t, `let x = 1;`)
	if !strings.Contains(out, "NS.report(") {
		t.Errorf("instrumented output has no NS.report call:\n%s", out)
	}
}

func TestInstrumentReturnUsesReturnSlot(t *testing.T) {
	out := instrument(t, `function f() { return 1; }`)
	if !strings.Contains(out, "NS.return") {
		t.Errorf("return rewrite did not use NS.return:\n%s", out)
	}
}

func TestInstrumentWhileDesugarsToWhileTrue(t *testing.T) {
	out := instrument(t, `while (x) { y(); }`)
	if !strings.Contains(out, "while (true)") && !strings.Contains(out, "while(true)") {
		t.Errorf("while loop was not desugared into while(true):\n%s", out)
	}
}

func TestInstrumentForDesugarsToWhileTrue(t *testing.T) {
	out := instrument(t, `for (let i = 0; i < 10; i++) { y(); }`)
	if !strings.Contains(out, "while (true)") && !strings.Contains(out, "while(true)") {
		t.Errorf("for loop was not desugared into while(true):\n%s", out)
	}
}

func TestInstrumentArrowBecomesBoundFunction(t *testing.T) {
	out := instrument(t, `let f = (x) => x + 1;`)
	if !strings.Contains(out, ".bind(this)") {
		t.Errorf("arrow function was not rewritten with .bind(this):\n%s", out)
	}
}

func TestInstrumentMemberCallCachesReceiver(t *testing.T) {
	out := instrument(t, `obj.method(1, 2);`)
	if !strings.Contains(out, "NS.cache[") {
		t.Errorf("method call did not cache its receiver through NS.cache:\n%s", out)
	}
	if !strings.Contains(out, ".call(") {
		t.Errorf("method call was not rewritten to use .call() against the cached receiver:\n%s", out)
	}
}

func TestInstrumentUpdateExpressionComputedMemberCachesOnce(t *testing.T) {
	out := instrument(t, `arr[i()]++;`)
	// the side-effecting index expression i() must be cached, not duplicated;
	// the instrumenter emits that call as `<callee>.call(undefined)`
	if strings.Count(out, ".call(undefined)") > 1 {
		t.Errorf("computed update target's index expression appears more than once, implying double evaluation:\n%s", out)
	}
}

func TestInstrumentComputedMemberReadIsValidSyntax(t *testing.T) {
	out := instrument(t, `let y = arr[0];`)
	if strings.Contains(out, ".[") {
		t.Errorf("computed member access emitted invalid dot-bracket syntax:\n%s", out)
	}
}

func TestInstrumentAssignmentTargetNotDoubleReported(t *testing.T) {
	out := instrument(t, `x = 5;`)
	if !strings.Contains(out, "NS.report(") {
		t.Errorf("assignment expression produced no report call at all:\n%s", out)
	}
	if strings.Contains(out, "NS.report(x,") {
		t.Errorf("assignment target x was reported as a read:\n%s", out)
	}
}

func TestInstrumentForContinuePreservesUpdate(t *testing.T) {
	out := instrument(t, `for (let i = 0; i < 10; i++) { if (i) continue; y(); }`)
	if strings.Contains(out, "continue;") {
		t.Errorf("continue inside a desugared for-loop body must become a labeled break, not stay a bare continue:\n%s", out)
	}
	if !strings.Contains(out, "break ") {
		t.Errorf("continue inside a desugared for-loop body should rewrite to a labeled break:\n%s", out)
	}
}

func TestInstrumentNestedWhileInForContinueUnaffected(t *testing.T) {
	out := instrument(t, `for (let i = 0; i < 10; i++) { while (cond()) { continue; } }`)
	if !strings.Contains(out, "continue;") {
		t.Errorf("continue inside a nested while loop's own body must stay a bare continue, not borrow the outer for's label:\n%s", out)
	}
}

func TestInstrumentTryCatch(t *testing.T) {
	out := instrument(t, `try { risky(); } catch (e) { handle(e); }`)
	if !strings.Contains(out, "try") || !strings.Contains(out, "catch") {
		t.Errorf("try/catch structure was lost during instrumentation:\n%s", out)
	}
}
