package main

import (
	"strings"
	"testing"
)

func TestRenderTableKeepsHeaderCase(t *testing.T) {
	out := renderTable(
		[]string{"Library", "Albums"},
		[][]string{{"library", "12"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if !strings.Contains(out, "Library") {
		t.Fatalf("header missing from output:\n%s", out)
	}
	if strings.Contains(out, "LIBRARY") {
		t.Fatalf("header should keep its casing:\n%s", out)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"Directory", "Status", "Reason"},
		[][]string{{"/music/inbound/a", "ok"}},
		nil,
	)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 4 {
		t.Fatalf("unexpected table shape:\n%s", out)
	}
	if !strings.Contains(out, "/music/inbound/a") {
		t.Fatalf("row missing from output:\n%s", out)
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if out := renderTable(nil, [][]string{{"x"}}, nil); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
