package common

import (
	"errors"
	"strconv"
	"strings"
)

// Violation is a single failed field check.
type Violation struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// Violations is the structured result of validating one request. It satisfies
// the error interface and maps to ErrBadRequest in the status table, so
// handlers can return it like any other service error.
type Violations []Violation

func (v Violations) Error() string {
	var b strings.Builder
	for i, vi := range v {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(vi.Field + ": " + vi.Msg)
	}
	return b.String()
}

func (v Violations) Is(target error) bool { return target == ErrBadRequest }

// Add appends a violation when the check failed.
func (v *Violations) Add(vi *Violation) {
	if vi != nil {
		*v = append(*v, *vi)
	}
}

// OrNil returns the list as an error, or nil when every check passed.
func (v Violations) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func AsViolations(err error, out *Violations) bool {
	return errors.As(err, out)
}

// ---- field validators ----

func Required(field, value string) *Violation {
	if strings.TrimSpace(value) == "" {
		return &Violation{Field: field, Msg: "required"}
	}
	return nil
}

func MinLen(field, value string, min int) *Violation {
	if len(strings.TrimSpace(value)) < min {
		return &Violation{Field: field, Msg: "must be at least " + strconv.Itoa(min) + " characters"}
	}
	return nil
}

func MaxLen(field, value string, max int) *Violation {
	if len(value) > max {
		return &Violation{Field: field, Msg: "must be at most " + strconv.Itoa(max) + " characters"}
	}
	return nil
}

func Email(field, value string) *Violation {
	at := strings.Index(value, "@")
	if at < 1 || at == len(value)-1 || !strings.Contains(value[at+1:], ".") {
		return &Violation{Field: field, Msg: "invalid email address"}
	}
	return nil
}
