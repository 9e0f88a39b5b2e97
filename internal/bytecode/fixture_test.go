package bytecode

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/loxlang/golox/internal/reporter"
)

// TestFixtures runs the same small Lox programs as the tree-walk
// pipeline's fixture suite (all but its resolver-error case) through
// compile -> run and snapshots their
// stdout, so the two pipelines' observable behavior can be diffed
// against each other by reading both snapshot directories side by side.
func TestFixtures(t *testing.T) {
	fixtures := []struct {
		name   string
		source string
	}{
		{
			name: "fibonacci",
			source: `
				fun fib(n) {
					if (n < 2) return n;
					return fib(n - 1) + fib(n - 2);
				}
				for (var i = 0; i < 8; i = i + 1) {
					print fib(i);
				}
			`,
		},
		{
			name: "closures_and_counters",
			source: `
				fun makeCounter() {
					var count = 0;
					fun increment() {
						count = count + 1;
						return count;
					}
					return increment;
				}
				var a = makeCounter();
				var b = makeCounter();
				print a();
				print a();
				print b();
			`,
		},
		{
			name: "classes_and_methods",
			source: `
				class Greeter {
					init(name) {
						this.name = name;
					}
					greet() {
						return "hello, " + this.name;
					}
				}
				var g = Greeter("lox");
				print g.greet();
			`,
		},
		{
			name: "control_flow_and_logic",
			source: `
				var i = 0;
				while (i < 3) {
					if (i == 1) {
						print "one";
					} else {
						print i;
					}
					i = i + 1;
				}
				print true and false;
				print nil or "fallback";
			`,
		},
		{
			name: "runtime_error_division_by_zero",
			source: `
				print "before";
				print 1 / 0;
				print "after";
			`,
		},
	}

	for _, fixture := range fixtures {
		t.Run(fixture.name, func(t *testing.T) {
			var out bytes.Buffer
			report := reporter.NewConsole(&out, false).WithSource(fixture.source, fixture.name)
			vm := New(&out, report)
			vm.Interpret(fixture.source)
			snaps.MatchSnapshot(t, out.String())
		})
	}
}
