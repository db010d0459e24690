package main

import (
	"strings"
	"testing"
)

func TestParseID(t *testing.T) {
	if _, err := parseID("0", "task"); err == nil {
		t.Fatal("expected an error for id 0")
	}
	if _, err := parseID("abc", "task"); err == nil {
		t.Fatal("expected an error for a non-numeric id")
	}
	id, err := parseID("7", "task")
	if err != nil || id != 7 {
		t.Fatalf("expected id 7, got %d (%v)", id, err)
	}
}

func TestParseIntAllowsNegatives(t *testing.T) {
	value, err := parseInt("-5", "delta")
	if err != nil || value != -5 {
		t.Fatalf("expected -5, got %d (%v)", value, err)
	}
}

func TestPrintableData(t *testing.T) {
	if got := printableData([]byte("short")); got != "short" {
		t.Fatalf("unexpected output %q", got)
	}
	if got := printableData([]byte{0xff, 0xfe}); got != "<2 bytes of binary data>" {
		t.Fatalf("unexpected output %q", got)
	}
	if got := printableData([]byte("line one\nline two")); got != "line one…" {
		t.Fatalf("unexpected output %q", got)
	}
	long := strings.Repeat("x", 100)
	got := printableData([]byte(long))
	if !strings.HasSuffix(got, "…") || len([]rune(got)) != 49 {
		t.Fatalf("unexpected truncation %q", got)
	}
}

func TestYesNo(t *testing.T) {
	if yesNo(true) != "yes" || yesNo(false) != "no" {
		t.Fatal("unexpected yesNo output")
	}
}
