package http

import "testing"

func TestFormatDollars(t *testing.T) {
	tests := []struct {
		name  string
		cents int64
		want  string
	}{
		{name: "whole", cents: 1200, want: "$12.00"},
		{name: "with cents", cents: 1234, want: "$12.34"},
		{name: "under a dollar", cents: 7, want: "$0.07"},
		{name: "zero", cents: 0, want: "$0.00"},
		{name: "negative", cents: -50, want: "-$0.50"},
		{name: "large", cents: 123456789, want: "$1234567.89"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDollars(tt.cents); got != tt.want {
				t.Errorf("formatDollars(%d) = %q, want %q", tt.cents, got, tt.want)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trims whitespace", input: "  coffee  ", want: "coffee"},
		{name: "strips control chars", input: "cof\x00fee\x07", want: "coffee"},
		{name: "keeps tabs and newlines", input: "a\tb\nc", want: "a\tb\nc"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeInput(tt.input); got != tt.want {
				t.Errorf("sanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate(" 2026-03-05 ")
	if err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	if ymd(d) != "2026-03-05" {
		t.Errorf("round trip = %q", ymd(d))
	}

	if _, err := parseDate("03/05/2026"); err == nil {
		t.Error("slash format accepted")
	}
	if _, err := parseDate(""); err == nil {
		t.Error("empty date accepted")
	}
}
