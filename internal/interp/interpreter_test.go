package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/loxlang/golox/internal/lexer"
	"github.com/loxlang/golox/internal/parser"
	"github.com/loxlang/golox/internal/reporter"
	"github.com/loxlang/golox/internal/resolver"
)

func runSource(t *testing.T, source string) (string, []reporter.Diagnostic) {
	t.Helper()

	var out bytes.Buffer
	report := reporter.NewConsole(&out, false).WithSource(source, "<test>")

	l := lexer.New(source, report)

	p := parser.New(l, report)
	prog := p.Parse()
	if report.HadError() {
		return out.String(), report.Diagnostics()
	}

	depths := resolver.New(report).Resolve(prog)
	if report.HadError() {
		return out.String(), report.Diagnostics()
	}

	in := New(&out, report, depths)
	in.Run(prog)

	return out.String(), report.Diagnostics()
}

func TestArithmeticPrecedence(t *testing.T) {
	out, diags := runSource(t, `print 1 + 2 * 3 - 4 / 2;`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if strings.TrimSpace(out) != "5" {
		t.Fatalf("got %q, want %q", out, "5")
	}
}

func TestStringConcatenation(t *testing.T) {
	out, diags := runSource(t, `print "foo" + "bar";`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if strings.TrimSpace(out) != "foobar" {
		t.Fatalf("got %q", out)
	}
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	_, diags := runSource(t, `print 1 / 0;`)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
}

func TestLogicalShortCircuit(t *testing.T) {
	out, _ := runSource(t, `
		fun sideEffect(v) { print "called"; return v; }
		print false and sideEffect(true);
		print true or sideEffect(false);
	`)
	if strings.Contains(out, "called") {
		t.Fatalf("short-circuit failed, side effect ran: %q", out)
	}
	lines := strings.Fields(out)
	if len(lines) != 2 || lines[0] != "false" || lines[1] != "true" {
		t.Fatalf("got %q", out)
	}
}

func TestBlockScopingAndShadowing(t *testing.T) {
	out, diags := runSource(t, `
		var a = "outer";
		{
			var a = "inner";
			print a;
		}
		print a;
	`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := "inner\nouter\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestClosuresCaptureEnclosingLocal(t *testing.T) {
	out, diags := runSource(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				print i;
			}
			return count;
		}
		var counter = makeCounter();
		counter();
		counter();
	`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := "1\n2\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestClassInitAndThis(t *testing.T) {
	out, diags := runSource(t, `
		class Counter {
			init(start) {
				this.count = start;
			}
			increment() {
				this.count = this.count + 1;
				return this.count;
			}
		}
		var c = Counter(10);
		print c.increment();
		print c.increment();
	`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := "11\n12\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestResolverRejectsSelfReferentialInitializer(t *testing.T) {
	_, diags := runSource(t, `
		var a = "outer";
		{
			var a = a;
		}
	`)
	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", diags)
	}
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, diags := runSource(t, `print nope;`)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
}

func TestCallingNonCallableIsRuntimeError(t *testing.T) {
	_, diags := runSource(t, `
		var x = 5;
		x();
	`)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	_, diags := runSource(t, `
		fun f(a, b) { return a + b; }
		f(1);
	`)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
}
