package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestOutput_Table_FillsEmptyCells(t *testing.T) {
	var buf bytes.Buffer
	o := &Output{w: &buf}

	// A deployment that has not run yet has no error and no timestamps.
	o.Table(
		[]string{"ID", "STATUS", "ERROR"},
		[][]string{{"d1", "READY", ""}},
	)

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, separator and one row, got %d lines:\n%s", len(lines), out)
	}

	row := lines[2]
	if !strings.Contains(row, "d1") || !strings.Contains(row, "READY") {
		t.Errorf("row should contain the values, got %q", row)
	}
	if !strings.HasSuffix(strings.TrimSpace(row), "-") {
		t.Errorf("empty cell should be rendered as dash, got %q", row)
	}
}

func TestOutput_Print_JSONMode(t *testing.T) {
	var buf bytes.Buffer
	o := &Output{jsonMode: true, w: &buf}

	o.Print([]string{"ID"}, [][]string{{"ignored"}}, map[string]string{"id": "d1"})

	var decoded map[string]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output should be valid JSON: %v\n%s", err, buf.String())
	}
	if decoded["id"] != "d1" {
		t.Errorf("expected id d1, got %q", decoded["id"])
	}
	if strings.Contains(buf.String(), "ignored") {
		t.Error("table rows should not leak into JSON mode")
	}
}

func TestOutput_Success_GoesToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	o := &Output{w: &out, errW: &errOut}

	o.Success("Deployment started: d1")

	if out.Len() != 0 {
		t.Error("stdout should stay clean for data")
	}
	if !strings.Contains(errOut.String(), "Deployment started: d1") {
		t.Errorf("message should go to stderr, got %q", errOut.String())
	}
}
