package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestStatus(t *testing.T) {
	defer SetColor(colorEnabled)

	SetColor(false)
	for _, s := range []string{"PASS", "FAIL", "SKIP", "ERROR", "other"} {
		if got := Status(s); got != s {
			t.Errorf("Status(%q) without color = %q", s, got)
		}
	}

	SetColor(true)
	if got := Status("PASS"); got != "\033[32mPASS\033[0m" {
		t.Errorf("Status(PASS) = %q", got)
	}
	if got := Status("FAIL"); got != "\033[31mFAIL\033[0m" {
		t.Errorf("Status(FAIL) = %q", got)
	}
	if got := Status("SKIP"); got != "\033[33mSKIP\033[0m" {
		t.Errorf("Status(SKIP) = %q", got)
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTableTo(&buf, "PORT", "SPEED", "RESULT")
	tbl.Row("Ethernet0", "50000", "PASS")
	tbl.Row("Ethernet124", "100000", "FAIL")
	tbl.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %q, want 4", lines)
	}
	if !strings.HasPrefix(lines[0], "PORT") || !strings.HasPrefix(lines[1], "----") {
		t.Errorf("header = %q / %q", lines[0], lines[1])
	}
	// Columns are aligned.
	if strings.Index(lines[2], "50000") != strings.Index(lines[3], "100000") {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}
}

func TestTable_EmptyPrintsNothing(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTableTo(&buf, "PORT")
	tbl.Flush()
	if buf.Len() != 0 {
		t.Errorf("empty table wrote %q", buf.String())
	}
}
