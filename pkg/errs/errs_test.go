package errs

import (
	"strings"
	"testing"
)

func TestLimitExceededErrorIncludesObservedMagnitude(t *testing.T) {
	e := &LimitExceeded{Kind: LimitSteps, Observed: 7}
	if !strings.Contains(e.Error(), "7") {
		t.Errorf("Error() = %q, want it to mention the observed magnitude", e.Error())
	}
	if !strings.Contains(e.Error(), "steps") {
		t.Errorf("Error() = %q, want it to mention the kind", e.Error())
	}
}

func TestLimitExceededKindString(t *testing.T) {
	if LimitTime.String() != "time" {
		t.Errorf("LimitTime.String() = %q, want time", LimitTime.String())
	}
	if LimitSteps.String() != "steps" {
		t.Errorf("LimitSteps.String() = %q, want steps", LimitSteps.String())
	}
}

func TestRuntimeErrorUnwrap(t *testing.T) {
	cause := &ParseError{Message: "bad token"}
	e := &RuntimeError{Message: "wrapping", Cause: cause}
	if e.Unwrap() != cause {
		t.Error("Unwrap should return the wrapped cause")
	}
}
