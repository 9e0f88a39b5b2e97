package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/loxlang/golox/internal/reporter"
)

func TestREPLResetsBetweenLines(t *testing.T) {
	var out bytes.Buffer
	report := reporter.NewConsole(&out, false)

	var seen []string
	r := New("> ", func(source string) error {
		seen = append(seen, source)
		if source == "bad" {
			report.Report(1, "boom")
		}
		return nil
	}, report)

	in := strings.NewReader("bad\ngood\n")
	if err := r.Start(in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != 2 || seen[0] != "bad" || seen[1] != "good" {
		t.Fatalf("got %v", seen)
	}
	if report.HadError() {
		t.Fatalf("had-error flag should have been reset after the second line")
	}
}

func TestREPLSkipsBlankLines(t *testing.T) {
	var out bytes.Buffer
	report := reporter.NewConsole(&out, false)

	var count int
	r := New("> ", func(source string) error {
		count++
		return nil
	}, report)

	in := strings.NewReader("\n   \none;\n")
	if err := r.Start(in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 run, got %d", count)
	}
}
