package klve

// FilterApply runs the timing, node-type, name, and data-strip filters over
// steps in that order, then renumbers the survivors 1..N, per spec §4.4.
// opts is assumed already validated (VerifyOptions) and fully populated
// (DefaultOptions merged with caller overrides). Lives here rather than in
// pkg/filter (which forwards to this) because Record calls it directly and
// pkg/filter importing klve's types while klve imported pkg/filter would be
// an import cycle.
func FilterApply(steps Steps, opts Options) Steps {
	out := make(Steps, 0, len(steps))
	for _, s := range steps {
		if s.Category == CategoryInit {
			out = append(out, s)
			continue
		}
		if !timingKeep(s, opts.Filter.Timing) {
			continue
		}
		if !opts.NodeEnabled(s.Type) {
			continue
		}
		if !nameKeep(s, opts.Filter.Names) {
			continue
		}
		out = append(out, stripData(s, opts.Filter.Data))
	}
	renumberSteps(out)
	return out
}

// FilterByLocation is a convenience slice over an already-filtered Steps
// value, keeping only steps whose loc.start.line matches line. Not part of
// spec §4.4's own pipeline; a supplement for callers driving a line-by-line
// UI (e.g. "show me what happened on line 12").
func FilterByLocation(steps Steps, line int) Steps {
	out := make(Steps, 0)
	for _, s := range steps {
		if s.Category == CategoryInit {
			continue
		}
		if s.Loc == nil {
			continue
		}
		if s.Loc.Start.Line == line {
			out = append(out, s)
		}
	}
	return out
}

func timingKeep(s Step, t TimingFilter) bool {
	switch s.Time {
	case TimeBefore:
		return t.Before
	case TimeAfter:
		return t.After
	default:
		return true
	}
}

// nameKeep extracts candidate names from a step's detail (name, target,
// callee, property — every present string-typed field) and applies the
// resolved include/exclude/none mode, per spec §4.4 rule 3.
func nameKeep(s Step, f NameFilter) bool {
	mode := f.Mode()
	if mode == NameFilterNone {
		return true
	}

	candidates := candidateNames(s.Detail)
	if len(candidates) == 0 {
		return true
	}

	var set map[string]bool
	var list []string
	if mode == NameFilterInclude {
		list = f.Include
	} else {
		list = f.Exclude
	}
	set = make(map[string]bool, len(list))
	for _, n := range list {
		set[n] = true
	}

	anyMatch := false
	for _, c := range candidates {
		if set[c] {
			anyMatch = true
			break
		}
	}

	if mode == NameFilterInclude {
		return anyMatch
	}
	return !anyMatch
}

func candidateNames(d *Detail) []string {
	if d == nil {
		return nil
	}
	var names []string
	if d.Name != "" {
		names = append(names, d.Name)
	}
	if d.Target != nil && *d.Target != "" {
		names = append(names, *d.Target)
	}
	if d.Callee != nil && *d.Callee != "" {
		names = append(names, *d.Callee)
	}
	if d.Property != nil && *d.Property != "" {
		names = append(names, *d.Property)
	}
	return names
}

func stripData(s Step, d DataFilter) Step {
	if !d.Scopes {
		s.Scopes = nil
	}
	if !d.Value {
		s.Value = nil
	}
	if !d.Logs {
		s.Logs = nil
	}
	if !d.Dt {
		s.Dt = nil
	}
	if !d.Loc {
		s.Loc = nil
	}
	return s
}

func renumberSteps(steps Steps) {
	for i := range steps {
		steps[i].StepNum = i + 1
	}
}
