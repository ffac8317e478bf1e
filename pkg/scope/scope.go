// Package scope describes where a form's values are stored so builders can
// derive consistent input names. Persisting the values is up to the host.
package scope

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidArgument reports a malformed storage key or user id.
var ErrInvalidArgument = errors.New("scope: invalid argument")

// Kind distinguishes site-wide option storage from per-user storage.
type Kind string

const (
	KindOption Kind = "option"
	KindUser   Kind = "user"
)

var storageKeyPattern = regexp.MustCompile(`^[a-z0-9_\-]+$`)

// Scope identifies the storage slot for a form.
type Scope struct {
	Kind       Kind
	StorageKey string
	UserID     int64
}

// Option builds an option-storage scope.
func Option(storageKey string) (Scope, error) {
	s := Scope{Kind: KindOption, StorageKey: strings.TrimSpace(storageKey)}
	if err := s.Validate(); err != nil {
		return Scope{}, err
	}
	return s, nil
}

// User builds a per-user scope. The user id must be positive.
func User(storageKey string, userID int64) (Scope, error) {
	s := Scope{Kind: KindUser, StorageKey: strings.TrimSpace(storageKey), UserID: userID}
	if err := s.Validate(); err != nil {
		return Scope{}, err
	}
	return s, nil
}

// ParseUserID converts a textual user id, rejecting anything that is not a
// positive integer.
func ParseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: user id %q", ErrInvalidArgument, raw)
	}
	return id, nil
}

// Validate checks the identifiers.
func (s Scope) Validate() error {
	if !storageKeyPattern.MatchString(s.StorageKey) {
		return fmt.Errorf("%w: storage key %q must use lowercase letters, digits, dashes or underscores", ErrInvalidArgument, s.StorageKey)
	}
	switch s.Kind {
	case KindOption:
		if s.UserID != 0 {
			return fmt.Errorf("%w: option scope %q cannot carry a user id", ErrInvalidArgument, s.StorageKey)
		}
	case KindUser:
		if s.UserID <= 0 {
			return fmt.Errorf("%w: user id %d", ErrInvalidArgument, s.UserID)
		}
	default:
		return fmt.Errorf("%w: unknown scope kind %q", ErrInvalidArgument, s.Kind)
	}
	return nil
}

// FieldName returns the input name for a field: storage_key[field_id].
func (s Scope) FieldName(fieldID string) string {
	if s.StorageKey == "" {
		return fieldID
	}
	return s.StorageKey + "[" + fieldID + "]"
}

// IsZero reports whether the scope was never configured.
func (s Scope) IsZero() bool {
	return s == Scope{}
}
