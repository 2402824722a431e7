package gsm

import (
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Encoding
	}{
		{name: "ascii", input: "Hello world.", want: GSM7},
		{name: "extension chars", input: "Price: 5€ {net}", want: GSM7},
		{name: "accented basic", input: "Café à Åre", want: GSM7},
		{name: "cjk", input: "你好", want: UCS2},
		{name: "emoji", input: "ok 👍", want: UCS2},
		{name: "empty", input: "", want: GSM7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.input); got != tt.want {
				t.Errorf("invalid encoding for %q, want %s, got %s", tt.input, tt.want, got)
			}
		})
	}
}

func TestLength(t *testing.T) {
	tests := []struct {
		name  string
		input string
		enc   Encoding
		want  int
	}{
		{name: "plain septets", input: "abc", enc: GSM7, want: 3},
		{name: "extension septets", input: "a€[b]", enc: GSM7, want: 8},
		{name: "ucs2 bmp", input: "你好", enc: UCS2, want: 2},
		{name: "ucs2 surrogate pair", input: "👍", enc: UCS2, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Length(tt.input, tt.enc); got != tt.want {
				t.Errorf("invalid length for %q, want %d, got %d", tt.input, tt.want, got)
			}
		})
	}
}

func TestLimitFor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "short gsm", input: "hello", want: GSM7SingleLimit},
		{name: "exactly one gsm message", input: strings.Repeat("a", 160), want: GSM7SingleLimit},
		{name: "long gsm", input: strings.Repeat("a", 161), want: GSM7PartLimit},
		{name: "extension pushes over", input: strings.Repeat("a", 159) + "€", want: GSM7PartLimit},
		{name: "short ucs2", input: "你好", want: UCS2SingleLimit},
		{name: "long ucs2", input: strings.Repeat("你", 71), want: UCS2PartLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LimitFor(tt.input); got != tt.want {
				t.Errorf("invalid limit, want %d, got %d", tt.want, got)
			}
		})
	}
}
