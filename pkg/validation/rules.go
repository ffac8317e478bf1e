package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
)

// Text accepts strings and string-like scalars.
func Text() Validator {
	return Validator{Name: "text", Check: func(value any) error {
		switch value.(type) {
		case nil, string, []byte:
			return nil
		default:
			return fmt.Errorf("expected text, got %s", describe(value))
		}
	}}
}

// Number accepts numeric values and numeric strings.
func Number() Validator {
	return Validator{Name: "number", Check: func(value any) error {
		switch v := value.(type) {
		case nil, int, int32, int64, float32, float64, uint, uint32, uint64:
			return nil
		case string:
			if strings.TrimSpace(v) == "" {
				return nil
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
				return fmt.Errorf("expected number, got %q", v)
			}
			return nil
		default:
			return fmt.Errorf("expected number, got %s", describe(value))
		}
	}}
}

// Boolean accepts booleans and the usual checkbox encodings.
func Boolean() Validator {
	return Validator{Name: "boolean", Check: func(value any) error {
		switch v := value.(type) {
		case nil, bool:
			return nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "", "0", "1", "on", "off", "true", "false", "yes", "no":
				return nil
			}
			return fmt.Errorf("expected boolean, got %q", v)
		default:
			return fmt.Errorf("expected boolean, got %s", describe(value))
		}
	}}
}

// Email accepts a single RFC 5322 address.
func Email() Validator {
	return Validator{Name: "email", Check: func(value any) error {
		text, ok := value.(string)
		if !ok || strings.TrimSpace(text) == "" {
			return nil
		}
		if _, err := mail.ParseAddress(text); err != nil {
			return fmt.Errorf("invalid email %q", text)
		}
		return nil
	}}
}

// URL accepts absolute http(s) URLs.
func URL() Validator {
	return Validator{Name: "url", Check: func(value any) error {
		text, ok := value.(string)
		if !ok || strings.TrimSpace(text) == "" {
			return nil
		}
		parsed, err := url.Parse(text)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("invalid url %q", text)
		}
		return nil
	}}
}

// Choice accepts values contained in allowed. An empty allowed list accepts
// anything, since options are often supplied at render time.
func Choice(allowed ...string) Validator {
	return Validator{Name: "choice", Check: func(value any) error {
		if len(allowed) == 0 || value == nil {
			return nil
		}
		text := fmt.Sprint(value)
		for _, candidate := range allowed {
			if candidate == text {
				return nil
			}
		}
		return fmt.Errorf("value %q is not an allowed choice", text)
	}}
}

// TrimSpace strips surrounding whitespace from string values.
func TrimSpace() Sanitizer {
	return Sanitizer{Name: "trim", Clean: func(value any) (any, error) {
		if text, ok := value.(string); ok {
			return strings.TrimSpace(text), nil
		}
		return value, nil
	}}
}
