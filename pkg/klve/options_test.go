package klve

import "testing"

func TestDefaultOptionsAllKeep(t *testing.T) {
	opts := DefaultOptions()
	if len(opts.Nodes) != len(NodeTypeTable) {
		t.Fatalf("Nodes has %d entries, want %d", len(opts.Nodes), len(NodeTypeTable))
	}
	for _, e := range NodeTypeTable {
		if !opts.Nodes[e.Path] {
			t.Errorf("default options do not keep %q", e.Path)
		}
	}
	if !opts.Filter.Timing.Before || !opts.Filter.Timing.After {
		t.Error("default timing filter should keep both phases")
	}
	if opts.Filter.Names.Mode() != NameFilterNone {
		t.Errorf("default name filter mode = %v, want none", opts.Filter.Names.Mode())
	}
}

func TestNameFilterModeResolution(t *testing.T) {
	tests := []struct {
		name string
		f    NameFilter
		want NameFilterMode
	}{
		{"empty", NameFilter{}, NameFilterNone},
		{"include wins", NameFilter{Include: []string{"a"}, Exclude: []string{"b"}}, NameFilterInclude},
		{"exclude only", NameFilter{Exclude: []string{"b"}}, NameFilterExclude},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Mode(); got != tt.want {
				t.Errorf("Mode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyOptionsRejectsBothIncludeAndExclude(t *testing.T) {
	opts := DefaultOptions()
	opts.Filter.Names = NameFilter{Include: []string{"a"}, Exclude: []string{"b"}}
	if err := VerifyOptions(opts); err == nil {
		t.Error("expected an error when both include and exclude are non-empty")
	}
}

func TestVerifyOptionsAcceptsDefaults(t *testing.T) {
	if err := VerifyOptions(DefaultOptions()); err != nil {
		t.Errorf("VerifyOptions(DefaultOptions()) = %v, want nil", err)
	}
}

func TestNodeEnabledDefaultsUnknownToKeep(t *testing.T) {
	opts := DefaultOptions()
	if !opts.NodeEnabled("SomeUnlistedType") {
		t.Error("unknown node type should default to kept")
	}
}

func TestNodeEnabledRespectsExplicitFalse(t *testing.T) {
	opts := DefaultOptions()
	path, ok := PathForType("NumericLiteral")
	if !ok {
		t.Fatal("NumericLiteral should be in the table")
	}
	opts.Nodes[path] = false
	if opts.NodeEnabled("NumericLiteral") {
		t.Error("explicitly disabled node type should not be enabled")
	}
}

func TestPathForTypeRoundTrips(t *testing.T) {
	for _, e := range NodeTypeTable {
		path, ok := PathForType(e.Type)
		if !ok || path != e.Path {
			t.Errorf("PathForType(%q) = (%q, %v), want (%q, true)", e.Type, path, ok, e.Path)
		}
	}
}
