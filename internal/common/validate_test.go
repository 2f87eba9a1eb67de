package common_test

import (
	"errors"
	"testing"

	"blogapi/internal/common"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name string
		got  *common.Violation
		want bool // violation expected
	}{
		{"required ok", common.Required("f", "value"), false},
		{"required empty", common.Required("f", ""), true},
		{"required whitespace", common.Required("f", "   "), true},
		{"minlen ok", common.MinLen("f", "abc", 3), false},
		{"minlen short", common.MinLen("f", "ab", 3), true},
		{"maxlen ok", common.MaxLen("f", "abc", 5), false},
		{"maxlen long", common.MaxLen("f", "abcdef", 5), true},
		{"email ok", common.Email("f", "a@b.com"), false},
		{"email no at", common.Email("f", "nope"), true},
		{"email no domain dot", common.Email("f", "a@b"), true},
		{"email leading at", common.Email("f", "@b.com"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if (tt.got != nil) != tt.want {
				t.Fatalf("violation = %v, want violation: %v", tt.got, tt.want)
			}
		})
	}
}

func TestViolations_AsError(t *testing.T) {
	var v common.Violations
	v.Add(common.Required("username", ""))
	v.Add(common.Email("email", "bad"))

	err := v.OrNil()
	if err == nil {
		t.Fatal("expected an error for non-empty violations")
	}
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("violations should map to ErrBadRequest, got %v", err)
	}

	var out common.Violations
	if !common.AsViolations(err, &out) || len(out) != 2 {
		t.Fatalf("expected 2 violations back, got %v", out)
	}
}

func TestViolations_EmptyIsNil(t *testing.T) {
	var v common.Violations
	v.Add(common.Required("f", "present"))
	if err := v.OrNil(); err != nil {
		t.Fatalf("expected nil for no violations, got %v", err)
	}
}
