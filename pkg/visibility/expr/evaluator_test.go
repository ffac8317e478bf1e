package expr

import (
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

func TestEvaluatorBooleanComparison(t *testing.T) {
	t.Parallel()

	eval := New()

	ok, err := eval.Eval("threshold", "enabled == true", visibility.Context{
		Values: map[string]any{"enabled": true},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected true")
	}

	ok, err = eval.Eval("threshold", `values.plan == "pro"`, visibility.Context{
		Values: map[string]any{"plan": "free"},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected false for values lookup mismatch")
	}
}

func TestEvaluatorTruthyAndNot(t *testing.T) {
	t.Parallel()

	eval := New()

	ok, err := eval.Eval("threshold", "enabled", visibility.Context{
		Values: map[string]any{"enabled": "yes"},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected non-empty string to be truthy")
	}

	ok, err = eval.Eval("threshold", "!enabled", visibility.Context{
		Values: map[string]any{"enabled": false},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected true for !false")
	}
}

func TestEvaluatorDotLookup(t *testing.T) {
	t.Parallel()

	eval := New()

	ok, err := eval.Eval("cta.headline", `cta.headline != ""`, visibility.Context{
		Values: map[string]any{"cta.headline": "Hello"},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected true for flattened dotted key")
	}

	ok, err = eval.Eval("cta.headline", `cta.headline == "Hello"`, visibility.Context{
		Values: map[string]any{
			"cta": map[string]any{
				"headline": "Hello",
			},
		},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected true for nested map lookup")
	}
}

func TestEvaluatorNilAndExtras(t *testing.T) {
	t.Parallel()

	eval := New()

	ok, err := eval.Eval("threshold", "missing == nil", visibility.Context{
		Values: map[string]any{},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected true for missing == nil")
	}

	ok, err = eval.Eval("threshold", `"admin" in extras.roles`, visibility.Context{
		Extras: map[string]any{"roles": []any{"editor", "admin"}},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected extras lookup to match")
	}
}

func TestEvaluatorBooleanComposition(t *testing.T) {
	t.Parallel()

	eval := New()

	cases := []struct {
		values map[string]any
		rule   string
		want   bool
	}{
		{map[string]any{"enabled": true, "role": "admin"}, `enabled == true && role == "admin"`, true},
		{map[string]any{"enabled": true, "role": "user"}, `enabled == true && role == "admin"`, false},
		{map[string]any{"enabled": false, "role": "admin"}, `enabled == true || role == "admin"`, true},
		{map[string]any{}, "   ", true},
	}
	for _, tc := range cases {
		ok, err := eval.Eval("threshold", tc.rule, visibility.Context{Values: tc.values})
		if err != nil {
			t.Fatalf("Eval(%q) returned error: %v", tc.rule, err)
		}
		if ok != tc.want {
			t.Fatalf("Eval(%q) = %v, want %v", tc.rule, ok, tc.want)
		}
	}
}

func TestEvaluatorCompileError(t *testing.T) {
	t.Parallel()

	if _, err := New().Eval("threshold", "enabled ==", visibility.Context{}); err == nil {
		t.Fatalf("expected compile error")
	}
}
