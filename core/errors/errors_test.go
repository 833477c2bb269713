package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFound("unit", "parsec")
	if got, want := err.Error(), "unit not found: parsec"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrNotFound) {
		t.Error("NotFoundError should unwrap to ErrNotFound")
	}

	err = NewNotFound("catalog", "")
	if got, want := err.Error(), "catalog not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidation("ratio", "must be non-zero")
	if got, want := err.Error(), "validation failed for ratio: must be non-zero"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("ValidationError should unwrap to ErrInvalidInput")
	}

	err = NewValidation("", "bad catalog")
	if got, want := err.Error(), "validation failed: bad catalog"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIOError(t *testing.T) {
	underlying := errors.New("permission denied")
	err := NewIO("open", "/etc/units.yaml", underlying)
	if got, want := err.Error(), "failed to open /etc/units.yaml: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, underlying) {
		t.Error("IOError should unwrap to the underlying error")
	}
}

func TestParseError(t *testing.T) {
	err := NewParse("number", "", "zero denominator")
	if got, want := err.Error(), "failed to parse number: zero denominator"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("ParseError without a cause should unwrap to ErrInvalidInput")
	}

	cause := errors.New("yaml: line 3")
	err = &ParseError{Format: "YAML", Path: "units.yaml", Message: "bad indent", Err: cause}
	if got, want := err.Error(), "failed to parse YAML at units.yaml: bad indent"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, cause) {
		t.Error("ParseError with a cause should unwrap to it")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	base := errors.New("base")
	err := Wrap(base, "loading table")
	if got, want := err.Error(), "loading table: base"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, base) {
		t.Error("wrapped error should match its base")
	}
}

func TestWrapf(t *testing.T) {
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}
	base := errors.New("base")
	err := Wrapf(base, "row %d", 7)
	if got, want := err.Error(), "row 7: base"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAs(t *testing.T) {
	var nf *NotFoundError
	err := fmt.Errorf("outer: %w", NewNotFound("unit", "cubit"))
	if !As(err, &nf) {
		t.Fatal("As should find the NotFoundError through wrapping")
	}
	if nf.ID != "cubit" {
		t.Errorf("ID = %q, want %q", nf.ID, "cubit")
	}
}
