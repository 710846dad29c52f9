package klve

import (
	"context"
	"testing"
	"time"

	"github.com/klve/jstrace/pkg/errs"
)

func runRecord(t *testing.T, source string, cfg Config) RecordResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := Record(ctx, source, cfg)
	if err != nil {
		t.Fatalf("Record(%q) returned an error before execution started: %v", source, err)
	}
	return <-ch
}

func defaultConfig() Config {
	return Config{Options: DefaultOptions()}
}

// TestRecordConstDeclaration covers scenario 1: "const x = 1;" must produce
// an init step first, followed by a VariableDeclaration step declaring x.
func TestRecordConstDeclaration(t *testing.T) {
	res := runRecord(t, "const x = 1;", defaultConfig())
	if res.Err != nil {
		t.Fatalf("trace failed: %v", res.Err)
	}
	if len(res.Steps) <= 1 {
		t.Fatalf("got %d steps, want > 1", len(res.Steps))
	}
	if res.Steps[0].StepNum != 1 || res.Steps[0].Category != CategoryInit {
		t.Fatalf("first step = %+v, want {step:1, category:init}", res.Steps[0])
	}

	var found bool
	for _, s := range res.Steps {
		if s.Type != "VariableDeclaration" || s.Detail == nil {
			continue
		}
		if s.Detail.Action == ActionDeclare && s.Detail.Kind == "const" &&
			s.Detail.Target != nil && *s.Detail.Target == "x" {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("no VariableDeclaration step with detail {action:declare, kind:const, target:x}: %+v", res.Steps)
	}
}

// TestRecordBinaryExpression covers scenario 2: "1 + 2;" must report the
// addition's result.
func TestRecordBinaryExpression(t *testing.T) {
	res := runRecord(t, "1 + 2;", defaultConfig())
	if res.Err != nil {
		t.Fatalf("trace failed: %v", res.Err)
	}

	var found bool
	for _, s := range res.Steps {
		if s.Type != "BinaryExpression" || s.Time != TimeAfter || s.Detail == nil {
			continue
		}
		if s.Detail.Action != ActionCompute || s.Detail.Operator != "+" {
			continue
		}
		if s.Value == nil {
			continue
		}
		if n, ok := s.Value.Descriptor.Value.(float64); ok && n == 3 {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("no after-BinaryExpression step reporting 1+2=3: %+v", res.Steps)
	}
}

// TestRecordUpdateExpressionReportsPreIncrementValue covers scenario 3:
// postfix x++ must report the value x held *before* incrementing.
func TestRecordUpdateExpressionReportsPreIncrementValue(t *testing.T) {
	res := runRecord(t, "let x = 0; x++;", defaultConfig())
	if res.Err != nil {
		t.Fatalf("trace failed: %v", res.Err)
	}

	var found bool
	for _, s := range res.Steps {
		if s.Type != "UpdateExpression" || s.Detail == nil {
			continue
		}
		d := s.Detail
		if d.Action != ActionUpdate || d.Operator != "++" {
			continue
		}
		if d.Prefix == nil || *d.Prefix != false {
			continue
		}
		if d.Target == nil || *d.Target != "x" {
			continue
		}
		if s.Value == nil {
			continue
		}
		if n, ok := s.Value.Descriptor.Value.(float64); ok && n == 0 {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("no UpdateExpression step reporting the pre-increment value 0: %+v", res.Steps)
	}
}

// TestRecordMaxStepsLimitExceeded covers scenario 4: a tight maxSteps must
// reject with limit-exceeded, kind steps, magnitude >= the configured limit.
func TestRecordMaxStepsLimitExceeded(t *testing.T) {
	cfg := defaultConfig()
	cfg.Meta.Max.Steps = 5

	res := runRecord(t, "for (let i = 0; i < 100; i++) {}", cfg)
	if res.Err == nil {
		t.Fatal("expected a limit-exceeded error")
	}
	le, ok := res.Err.(*errs.LimitExceeded)
	if !ok {
		t.Fatalf("got %T (%v), want *errs.LimitExceeded", res.Err, res.Err)
	}
	if le.Kind.String() != "steps" {
		t.Errorf("Kind = %v, want steps", le.Kind)
	}
	if le.Observed < int64(cfg.Meta.Max.Steps) {
		t.Errorf("Observed = %d, want >= %d", le.Observed, cfg.Meta.Max.Steps)
	}
}

// TestRecordConsoleLogCapturesArguments covers scenario 5: console.log
// arguments must be queued onto the following step's logs.
func TestRecordConsoleLogCapturesArguments(t *testing.T) {
	res := runRecord(t, "console.log('a', 'b');", defaultConfig())
	if res.Err != nil {
		t.Fatalf("trace failed: %v", res.Err)
	}

	var found bool
	for _, s := range res.Steps {
		for _, entry := range s.Logs {
			if len(entry) != 2 {
				continue
			}
			a, _ := entry[0].Descriptor.Value.(string)
			b, _ := entry[1].Descriptor.Value.(string)
			if a == "a" && b == "b" {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("no step captured a console.log('a','b') entry: %+v", res.Steps)
	}
}

// TestRecordParseErrorHasLoc covers scenario 6: a syntax error must be
// rejected with a parse-error carrying a defined loc, before any execution.
func TestRecordParseErrorHasLoc(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := Record(ctx, "const = 1;", defaultConfig())
	if err == nil {
		t.Fatal("expected a parse error")
	}
	pe, ok := err.(*errs.ParseError)
	if !ok {
		t.Fatalf("got %T (%v), want *errs.ParseError", err, err)
	}
	if pe.Span.Start.Line == 0 {
		t.Errorf("ParseError.Span.Start is zero-valued, want a defined loc: %+v", pe.Span)
	}
}
