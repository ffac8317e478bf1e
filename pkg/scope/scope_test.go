package scope

import (
	"errors"
	"testing"
)

func TestOptionScope(t *testing.T) {
	s, err := Option("site_settings")
	if err != nil {
		t.Fatalf("option: %v", err)
	}
	if got := s.FieldName("title"); got != "site_settings[title]" {
		t.Fatalf("FieldName = %q", got)
	}
	if s.IsZero() {
		t.Fatalf("expected configured scope")
	}
}

func TestUserScope(t *testing.T) {
	id, err := ParseUserID(" 42 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s, err := User("profile", id)
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if s.Kind != KindUser || s.UserID != 42 {
		t.Fatalf("unexpected scope %#v", s)
	}
}

func TestInvalidIdentifiers(t *testing.T) {
	for _, key := range []string{"", "Site Settings", "settings!", "UPPER"} {
		if _, err := Option(key); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("Option(%q): expected invalid argument, got %v", key, err)
		}
	}
	for _, raw := range []string{"0", "-3", "abc", ""} {
		if _, err := ParseUserID(raw); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("ParseUserID(%q): expected invalid argument, got %v", raw, err)
		}
	}
	if _, err := User("profile", 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected zero user id to fail, got %v", err)
	}
	if (Scope{}).FieldName("title") != "title" {
		t.Fatalf("expected unscoped name")
	}
}
