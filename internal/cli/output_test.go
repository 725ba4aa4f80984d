package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{7, "0:07"},
		{30, "0:30"},
		{90, "1:30"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-5, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		s      string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a much longer device name", 10, "a much ..."},
		{"abc", 2, "ab"},
	}

	for _, tt := range tests {
		if got := TruncateString(tt.s, tt.maxLen); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
		}
	}
}

func TestStatusIcon(t *testing.T) {
	if got := StatusIcon(true); got != "●" {
		t.Errorf("StatusIcon(true) = %q, want ●", got)
	}
	if got := StatusIcon(false); got != "○" {
		t.Errorf("StatusIcon(false) = %q, want ○", got)
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTableWriter(&buf, "NAME", "ID")
	table.Row("Kitchen", "d2")
	table.Row("Office Mac", "d1")
	table.Flush()

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "NAME") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], "Office Mac") || !strings.Contains(lines[2], "d1") {
		t.Errorf("row = %q", lines[2])
	}
}
