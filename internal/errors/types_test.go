package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorCodeString(t *testing.T) {
	cases := map[ErrorCode]string{
		StructuralErrorCode: "StructuralError",
		ReceiverErrorCode:   "ReceiverError",
		ConfigErrorCode:     "ConfigError",
		GenerateErrorCode:   "GenerateError",
		FileSystemErrorCode: "FileSystemError",
		UnknownErrorCode:    "UnknownError",
	}
	for code, want := range cases {
		if code.String() != want {
			t.Errorf("expected %s, got %s", want, code.String())
		}
	}
}

func TestSourceLocationString(t *testing.T) {
	if (SourceLocation{}).String() != "unknown location" {
		t.Error("empty location should render as unknown")
	}
	loc := SourceLocation{File: "shapes.dispatch", Line: 3, Column: 5}
	if loc.String() != "shapes.dispatch:3:5" {
		t.Errorf("unexpected location %s", loc.String())
	}
	loc.Column = 0
	if loc.String() != "shapes.dispatch:3" {
		t.Errorf("unexpected location %s", loc.String())
	}
}

func TestGenErrorFormatting(t *testing.T) {
	err := Newf(ReceiverErrorCode, "method `%s` should receive self", "broken").
		WithLocation(SourceLocation{File: "t.dispatch", Line: 2, Column: 5})

	msg := err.Error()
	if !strings.Contains(msg, "t.dispatch:2:5") {
		t.Errorf("expected location in message, got %s", msg)
	}
	if !strings.Contains(msg, "ReceiverError") {
		t.Errorf("expected code in message, got %s", msg)
	}
	if !strings.Contains(msg, "method `broken` should receive self") {
		t.Errorf("expected diagnostic text, got %s", msg)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(GenerateErrorCode, "wrapper", cause)

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be discoverable")
	}
}

func TestCodeOf(t *testing.T) {
	err := New(StructuralErrorCode, "bad shape")
	if CodeOf(err) != StructuralErrorCode {
		t.Error("expected structural code")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if CodeOf(wrapped) != StructuralErrorCode {
		t.Error("expected code through fmt.Errorf wrapping")
	}

	if CodeOf(errors.New("plain")) != UnknownErrorCode {
		t.Error("expected unknown code for plain error")
	}
}

func TestSuggestions(t *testing.T) {
	err := New(StructuralErrorCode, "bad shape").
		WithSuggestion("check the block order")

	if len(err.Hints) != 1 || err.Hints[0] != "check the block order" {
		t.Errorf("unexpected hints %v", err.Hints)
	}
}
