package tracepool

import (
	"context"
	"testing"
	"time"

	"github.com/klve/jstrace/pkg/klve"
)

func TestSubmitRunsRecord(t *testing.T) {
	pool := New(2)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := pool.Submit(ctx, `let x = 1;`, klve.Config{Options: klve.DefaultOptions()})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	result := <-ch
	if result.Err != nil {
		t.Fatalf("trace failed: %v", result.Err)
	}
	if len(result.Steps) == 0 {
		t.Error("expected at least the init step")
	}
}

func TestSubmitRespectsCanceledContext(t *testing.T) {
	pool := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := pool.Submit(ctx, `let x = 1;`, klve.Config{Options: klve.DefaultOptions()}); err == nil {
		t.Error("expected Submit to fail against an already-canceled context")
	}
}
