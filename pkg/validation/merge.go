package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrConfiguration reports a bundle that cannot be used as-is, most commonly a
// field that would end up without any validator.
var ErrConfiguration = errors.New("validation: configuration error")

// Validator checks a submitted value. Name identifies the rule in diagnostics
// and merge results.
type Validator struct {
	Name  string
	Check func(value any) error
}

// Sanitizer normalises a submitted value before it is stored.
type Sanitizer struct {
	Name  string
	Clean func(value any) (any, error)
}

// Bundle groups the validators and sanitizers that apply to one component.
// Component-level entries always run; schema-scoped entries describe the
// stored value shape and can be swapped out wholesale by integrators.
type Bundle struct {
	Validators       []Validator
	Sanitizers       []Sanitizer
	SchemaValidators []Validator
	SchemaSanitizers []Sanitizer
}

// Fragment is the integrator-supplied part of a field schema. A nil schema
// slice means "keep the manifest defaults"; a non-nil slice, even an empty
// one, replaces them.
type Fragment struct {
	Validators       []Validator
	Sanitizers       []Sanitizer
	SchemaValidators []Validator
	SchemaSanitizers []Sanitizer
}

// Merge combines the manifest defaults for alias with the integrator
// fragment. Component-level validators and sanitizers accumulate with the
// defaults first. Schema-scoped lists are replaced when the fragment supplies
// them. A merged bundle without a single validator is rejected.
func Merge(alias string, defaults Bundle, fragment Fragment) (Bundle, error) {
	merged := Bundle{
		Validators: append(slices.Clone(defaults.Validators), fragment.Validators...),
		Sanitizers: append(slices.Clone(defaults.Sanitizers), fragment.Sanitizers...),
	}
	if fragment.SchemaValidators != nil {
		merged.SchemaValidators = slices.Clone(fragment.SchemaValidators)
	} else {
		merged.SchemaValidators = slices.Clone(defaults.SchemaValidators)
	}
	if fragment.SchemaSanitizers != nil {
		merged.SchemaSanitizers = slices.Clone(fragment.SchemaSanitizers)
	} else {
		merged.SchemaSanitizers = slices.Clone(defaults.SchemaSanitizers)
	}

	var result *multierror.Error
	if merged.ValidatorCount() == 0 {
		result = multierror.Append(result, fmt.Errorf("%w: component %q has no validators", ErrConfiguration, alias))
	}
	for _, validator := range merged.allValidators() {
		if validator.Check == nil {
			result = multierror.Append(result, fmt.Errorf("%w: component %q validator %q has no check function", ErrConfiguration, alias, validator.Name))
		}
	}
	for _, sanitizer := range merged.allSanitizers() {
		if sanitizer.Clean == nil {
			result = multierror.Append(result, fmt.Errorf("%w: component %q sanitizer %q has no clean function", ErrConfiguration, alias, sanitizer.Name))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return Bundle{}, err
	}
	return merged, nil
}

// ValidatorCount returns the number of component and schema validators.
func (b Bundle) ValidatorCount() int {
	return len(b.Validators) + len(b.SchemaValidators)
}

// ValidatorNames lists validator names in execution order.
func (b Bundle) ValidatorNames() []string {
	names := make([]string, 0, b.ValidatorCount())
	for _, validator := range b.allValidators() {
		names = append(names, validator.Name)
	}
	return names
}

// SanitizerNames lists sanitizer names in execution order.
func (b Bundle) SanitizerNames() []string {
	all := b.allSanitizers()
	names := make([]string, 0, len(all))
	for _, sanitizer := range all {
		names = append(names, sanitizer.Name)
	}
	return names
}

// Clone returns a copy that shares no slices with b.
func (b Bundle) Clone() Bundle {
	return Bundle{
		Validators:       slices.Clone(b.Validators),
		Sanitizers:       slices.Clone(b.Sanitizers),
		SchemaValidators: slices.Clone(b.SchemaValidators),
		SchemaSanitizers: slices.Clone(b.SchemaSanitizers),
	}
}

func (b Bundle) allValidators() []Validator {
	return append(slices.Clone(b.Validators), b.SchemaValidators...)
}

func (b Bundle) allSanitizers() []Sanitizer {
	return append(slices.Clone(b.Sanitizers), b.SchemaSanitizers...)
}

func describe(value any) string {
	return strings.TrimSpace(fmt.Sprintf("%T", value))
}
