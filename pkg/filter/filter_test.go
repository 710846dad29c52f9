package filter

import (
	"testing"

	"github.com/klve/jstrace/pkg/klve"
)

func target(name string) *string { return &name }

func dt(n int64) *int64 { return &n }

func baseSteps() klve.Steps {
	return klve.Steps{
		klve.InitStep(),
		{StepNum: 2, Category: klve.CategoryExpression, Type: "Identifier", Time: klve.TimeBefore, Dt: dt(1), Detail: &klve.Detail{Action: klve.ActionRead, Name: "a"}},
		{StepNum: 3, Category: klve.CategoryExpression, Type: "Identifier", Time: klve.TimeAfter, Dt: dt(2), Detail: &klve.Detail{Action: klve.ActionRead, Name: "a"}},
		{StepNum: 4, Category: klve.CategoryStatement, Type: "ReturnStatement", Time: klve.TimeAfter, Dt: dt(3), Detail: &klve.Detail{Action: klve.ActionEvaluate}},
		{StepNum: 5, Category: klve.CategoryExpression, Type: "AssignmentExpression", Time: klve.TimeAfter, Dt: dt(4), Detail: &klve.Detail{Action: klve.ActionAssign, Target: target("a")}},
	}
}

func TestApplyKeepsInitStep(t *testing.T) {
	steps := baseSteps()
	opts := klve.DefaultOptions()
	opts.Filter.Timing = klve.TimingFilter{Before: false, After: false}

	out := Apply(steps, opts)
	if len(out) != 1 {
		t.Fatalf("want only the init step to survive, got %d", len(out))
	}
	if out[0].Category != klve.CategoryInit {
		t.Errorf("survivor is not the init step: %+v", out[0])
	}
}

func TestApplyTimingFilter(t *testing.T) {
	steps := baseSteps()
	opts := klve.DefaultOptions()
	opts.Filter.Timing = klve.TimingFilter{Before: false, After: true}

	out := Apply(steps, opts)
	for _, s := range out {
		if s.Category != klve.CategoryInit && s.Time == klve.TimeBefore {
			t.Errorf("before-step survived timing filter: %+v", s)
		}
	}
}

func TestApplyNodeTypeFilter(t *testing.T) {
	steps := baseSteps()
	opts := klve.DefaultOptions()
	path, _ := klve.PathForType("Identifier")
	opts.Nodes[path] = false

	out := Apply(steps, opts)
	for _, s := range out {
		if s.Type == "Identifier" {
			t.Errorf("Identifier step survived node-type filter: %+v", s)
		}
	}
}

func TestApplyNameFilterInclude(t *testing.T) {
	steps := baseSteps()
	opts := klve.DefaultOptions()
	opts.Filter.Names = klve.NameFilter{Include: []string{"a"}}

	out := Apply(steps, opts)
	var sawReturn bool
	for _, s := range out {
		if s.Type == "ReturnStatement" {
			sawReturn = true
		}
	}
	if !sawReturn {
		t.Errorf("ReturnStatement has no candidate name and should have been kept under include mode: %+v", out)
	}
}

func TestApplyNameFilterExclude(t *testing.T) {
	steps := baseSteps()
	opts := klve.DefaultOptions()
	opts.Filter.Names = klve.NameFilter{Exclude: []string{"a"}}

	out := Apply(steps, opts)
	for _, s := range out {
		if s.Detail != nil && s.Detail.Name == "a" {
			t.Errorf("name %q should have been excluded: %+v", "a", s)
		}
	}
}

func TestApplyDataStrip(t *testing.T) {
	steps := baseSteps()
	opts := klve.DefaultOptions()
	opts.Filter.Data.Dt = false

	out := Apply(steps, opts)
	for _, s := range out {
		if s.Dt != nil {
			t.Errorf("dt should have been stripped: %+v", s)
		}
	}
}

func TestApplyRenumbers(t *testing.T) {
	steps := baseSteps()
	opts := klve.DefaultOptions()
	path, _ := klve.PathForType("Identifier")
	opts.Nodes[path] = false

	out := Apply(steps, opts)
	for i, s := range out {
		if s.StepNum != i+1 {
			t.Errorf("step %d has StepNum %d, want %d", i, s.StepNum, i+1)
		}
	}
}

func TestApplyNeverIncreasesStepCount(t *testing.T) {
	steps := baseSteps()

	withoutFilter := Apply(steps, klve.DefaultOptions())

	opts := klve.DefaultOptions()
	opts.Filter.Names = klve.NameFilter{Include: []string{"a"}}
	withFilter := Apply(steps, opts)

	if len(withFilter) > len(withoutFilter) {
		t.Errorf("name filter increased step count: %d > %d", len(withFilter), len(withoutFilter))
	}
}

func TestFilterByLocation(t *testing.T) {
	steps := klve.Steps{
		klve.InitStep(),
		{StepNum: 2, Category: klve.CategoryExpression, Loc: &klve.SourceLocation{Start: klve.Position{Line: 3}}},
		{StepNum: 3, Category: klve.CategoryExpression, Loc: &klve.SourceLocation{Start: klve.Position{Line: 4}}},
	}

	out := FilterByLocation(steps, 3)
	if len(out) != 1 || out[0].StepNum != 2 {
		t.Errorf("FilterByLocation(3) = %+v, want just step 2", out)
	}
}
