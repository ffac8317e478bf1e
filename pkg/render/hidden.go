package render

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/scope"
)

// HiddenField is a hidden input emitted inside the form element.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// Nonce carries a request token under the name the backend expects, for
// example "_csrf" or "_wpnonce".
func Nonce(name, token string) HiddenField {
	return Hidden(name, token)
}

// ScopeFields describes the storage slot so the submission handler can route
// values without trusting field names alone.
func ScopeFields(s scope.Scope) []HiddenField {
	if s.IsZero() {
		return nil
	}
	fields := []HiddenField{
		Hidden("_scope", string(s.Kind)),
		Hidden("_storage_key", s.StorageKey),
	}
	if s.Kind == scope.KindUser {
		fields = append(fields, Hidden("_user_id", strconv.FormatInt(s.UserID, 10)))
	}
	return fields
}

// MergeHiddenFields combines field lists. Empty names are dropped, later
// entries win on name collisions and the result is sorted by name.
func MergeHiddenFields(lists ...[]HiddenField) []HiddenField {
	byName := make(map[string]string)
	for _, list := range lists {
		for _, field := range list {
			name := strings.TrimSpace(field.Name)
			if name == "" {
				continue
			}
			byName[name] = field.Value
		}
	}
	if len(byName) == 0 {
		return nil
	}
	out := make([]HiddenField, 0, len(byName))
	for name, value := range byName {
		out = append(out, HiddenField{Name: name, Value: value})
	}
	slices.SortFunc(out, func(a, b HiddenField) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// MethodOverrideField is the hidden input carrying the intended HTTP verb
// when the browser submits a POST in its place.
const MethodOverrideField = "_method"

// MethodOverride returns the hidden input naming method.
func MethodOverride(method string) HiddenField {
	return Hidden(MethodOverrideField, strings.ToUpper(strings.TrimSpace(method)))
}

// SubmitMethod maps a form method to what an HTML form can submit. GET and
// POST pass through; any other verb submits as POST with a MethodOverride
// input. An empty method means POST.
func SubmitMethod(method string) (string, []HiddenField) {
	method = strings.ToUpper(strings.TrimSpace(method))
	switch method {
	case "", "POST":
		return "POST", nil
	case "GET":
		return "GET", nil
	default:
		return "POST", []HiddenField{MethodOverride(method)}
	}
}
