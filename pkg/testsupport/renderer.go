package testsupport

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/render"
)

// Call records one invocation of StubRenderer.
type Call struct {
	Key  string
	Data map[string]any
}

// StubRenderer is a render.ComponentRenderer returning canned results. Keys
// without a canned result render as "<key>" followed by the sorted data keys,
// which keeps assertions readable.
type StubRenderer struct {
	Results map[string]render.Result
	Errors  map[string]error
	Panics  map[string]any
	Calls   []Call
}

var _ render.ComponentRenderer = (*StubRenderer)(nil)

// NewStubRenderer returns an empty stub.
func NewStubRenderer() *StubRenderer {
	return &StubRenderer{
		Results: make(map[string]render.Result),
		Errors:  make(map[string]error),
		Panics:  make(map[string]any),
	}
}

// Render implements render.ComponentRenderer.
func (s *StubRenderer) Render(_ context.Context, key string, data map[string]any) (render.Result, error) {
	s.Calls = append(s.Calls, Call{Key: key, Data: maps.Clone(data)})
	if value, ok := s.Panics[key]; ok {
		panic(value)
	}
	if err, ok := s.Errors[key]; ok {
		return render.Result{}, err
	}
	if result, ok := s.Results[key]; ok {
		return result, nil
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return render.Result{Markup: fmt.Sprintf("<%s %s>", key, strings.Join(keys, ","))}, nil
}

// Keys lists the rendered keys in call order.
func (s *StubRenderer) Keys() []string {
	out := make([]string, 0, len(s.Calls))
	for _, call := range s.Calls {
		out = append(out, call.Key)
	}
	return out
}
