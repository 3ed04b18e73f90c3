package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		input     string
		want      string
		wantError bool
	}{
		{name: "valid", input: "john.doe", want: "john.doe"},
		{name: "trimmed", input: "  john_doe  ", want: "john_doe"},
		{name: "minimum length", input: "abc", want: "abc"},
		{name: "empty", input: "", wantError: true},
		{name: "whitespace only", input: "   ", wantError: true},
		{name: "too short", input: "ab", wantError: true},
		{name: "too long", input: strings.Repeat("a", 51), wantError: true},
		{name: "illegal characters", input: "john doe", wantError: true},
		{name: "thai characters", input: "สมชาย", wantError: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateUsername(tc.input)
			if tc.wantError {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		password  string
		wantError bool
	}{
		{name: "valid", password: "password123"},
		{name: "minimum length", password: "12345678"},
		{name: "empty", password: "", wantError: true},
		{name: "too short", password: "1234567", wantError: true},
		{name: "too long", password: strings.Repeat("x", 129), wantError: true},
		{name: "untrimmed spaces kept", password: " 1234567 "},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tc.password)
			if tc.wantError && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantError && err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
		})
	}
}

func TestValidateNewPassword(t *testing.T) {
	t.Parallel()

	if err := ValidateNewPassword("abc123"); err != nil {
		t.Fatalf("six characters should pass: %v", err)
	}
	if err := ValidateNewPassword("abc12"); err == nil {
		t.Fatalf("five characters should fail")
	}
	if err := ValidateNewPassword(""); err == nil {
		t.Fatalf("empty new password should fail")
	}
}
