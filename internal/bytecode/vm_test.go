package bytecode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/loxlang/golox/internal/reporter"
)

func runSource(t *testing.T, source string) (string, *reporter.Console) {
	t.Helper()
	var out bytes.Buffer
	report := reporter.NewConsole(&out, false).WithSource(source, "<test>")
	vm := New(&out, report)
	vm.Interpret(source)
	return out.String(), report
}

func TestVMArithmeticPrecedence(t *testing.T) {
	out, rep := runSource(t, `print 1 + 2 * 3 - 4 / 2;`)
	if rep.HadError() {
		t.Fatalf("unexpected error: %v", rep.Diagnostics())
	}
	if strings.TrimSpace(out) != "5" {
		t.Fatalf("got %q", out)
	}
}

func TestVMStringConcatenation(t *testing.T) {
	out, rep := runSource(t, `print "foo" + "bar";`)
	if rep.HadError() {
		t.Fatalf("unexpected error: %v", rep.Diagnostics())
	}
	if strings.TrimSpace(out) != "foobar" {
		t.Fatalf("got %q", out)
	}
}

func TestVMDivisionByZero(t *testing.T) {
	_, rep := runSource(t, `print 1 / 0;`)
	if len(rep.Diagnostics()) != 1 {
		t.Fatalf("expected one diagnostic, got %v", rep.Diagnostics())
	}
}

func TestVMLogicalShortCircuit(t *testing.T) {
	out, rep := runSource(t, `
		fun sideEffect(v) { print "called"; return v; }
		print false and sideEffect(true);
		print true or sideEffect(false);
	`)
	if rep.HadError() {
		t.Fatalf("unexpected error: %v", rep.Diagnostics())
	}
	if strings.Contains(out, "called") {
		t.Fatalf("short-circuit failed: %q", out)
	}
	fields := strings.Fields(out)
	if len(fields) != 2 || fields[0] != "false" || fields[1] != "true" {
		t.Fatalf("got %q", out)
	}
}

func TestVMBlockScopingAndShadowing(t *testing.T) {
	out, rep := runSource(t, `
		var a = "outer";
		{
			var a = "inner";
			print a;
		}
		print a;
	`)
	if rep.HadError() {
		t.Fatalf("unexpected error: %v", rep.Diagnostics())
	}
	if out != "inner\nouter\n" {
		t.Fatalf("got %q", out)
	}
}

func TestVMClosuresShareCapturedLocal(t *testing.T) {
	out, rep := runSource(t, `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				print count;
			}
			return increment;
		}
		var counter = makeCounter();
		counter();
		counter();
	`)
	if rep.HadError() {
		t.Fatalf("unexpected error: %v", rep.Diagnostics())
	}
	if out != "1\n2\n" {
		t.Fatalf("got %q", out)
	}
}

func TestVMRecursion(t *testing.T) {
	out, rep := runSource(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)
	if rep.HadError() {
		t.Fatalf("unexpected error: %v", rep.Diagnostics())
	}
	if strings.TrimSpace(out) != "55" {
		t.Fatalf("got %q", out)
	}
}

func TestVMClassInitAndThis(t *testing.T) {
	out, rep := runSource(t, `
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
	if rep.HadError() {
		t.Fatalf("unexpected error: %v", rep.Diagnostics())
	}
	if out != "11\n12\n" {
		t.Fatalf("got %q", out)
	}
}

func TestVMUndefinedVariableIsRuntimeError(t *testing.T) {
	_, rep := runSource(t, `print nope;`)
	if len(rep.Diagnostics()) != 1 {
		t.Fatalf("expected one diagnostic, got %v", rep.Diagnostics())
	}
}

func TestVMCallingNonCallableIsRuntimeError(t *testing.T) {
	_, rep := runSource(t, `
		var x = 5;
		x();
	`)
	if len(rep.Diagnostics()) != 1 {
		t.Fatalf("expected one diagnostic, got %v", rep.Diagnostics())
	}
}

func TestVMArityMismatchIsRuntimeError(t *testing.T) {
	_, rep := runSource(t, `
		fun f(a, b) { return a + b; }
		f(1);
	`)
	if len(rep.Diagnostics()) != 1 {
		t.Fatalf("expected one diagnostic, got %v", rep.Diagnostics())
	}
}

func TestVMClockNativeIsCallable(t *testing.T) {
	out, rep := runSource(t, `
		var t = clock();
		print t >= 0;
	`)
	if rep.HadError() {
		t.Fatalf("unexpected error: %v", rep.Diagnostics())
	}
	if strings.TrimSpace(out) != "true" {
		t.Fatalf("got %q", out)
	}
}
