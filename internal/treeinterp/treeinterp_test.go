package treeinterp

import (
	"strings"
	"testing"

	"github.com/cwbudde/jsvm/internal/builtins"
	"github.com/cwbudde/jsvm/internal/lexer"
	"github.com/cwbudde/jsvm/internal/parser"
	"github.com/cwbudde/jsvm/internal/runtime"
)

// testEval parses and evaluates input against a fresh Interp with every
// standard built-in registered, draining the microtask queue afterward so
// async completions have settled by the time the caller inspects the
// result.
func testEval(t *testing.T, input string) runtime.Value {
	t.Helper()
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		var msgs []string
		for _, e := range p.Errors() {
			msgs = append(msgs, e.Message)
		}
		t.Fatalf("parser errors: %s", strings.Join(msgs, "; "))
	}

	ip := New()
	builtins.Register(ip.Realm, ip.Global, ip.Async)
	val, err := ip.EvalProgram(program)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	ip.Async.Queue.Drain()
	if p, ok := val.(*runtime.Promise); ok {
		return p.Value
	}
	return val
}

func testEvalErr(t *testing.T, input string) error {
	t.Helper()
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parser errors on %q", input)
	}
	ip := New()
	builtins.Register(ip.Realm, ip.Global, ip.Async)
	_, err := ip.EvalProgram(program)
	return err
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  runtime.Value
	}{
		{"1 + 2", runtime.Number(3)},
		{"'a' + 'b'", runtime.String("ab")},
		{"true && false", runtime.False},
		{"null ?? 5", runtime.Number(5)},
		{"undefined ?? 5", runtime.Number(5)},
		{"0 ?? 5", runtime.Number(0)},
		{"2 ** 10", runtime.Number(1024)},
	}
	for _, tt := range tests {
		got := testEval(t, tt.input)
		if got != tt.want {
			t.Errorf("%q = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestVarLetConst(t *testing.T) {
	got := testEval(t, `
		let total = 0;
		for (let i = 0; i < 5; i++) { total += i; }
		total;
	`)
	if got != runtime.Number(10) {
		t.Errorf("total = %v, want 10", got)
	}
}

func TestConstReassignThrows(t *testing.T) {
	err := testEvalErr(t, `const x = 1; x = 2;`)
	if err == nil {
		t.Fatal("expected a throw for assignment to const")
	}
}

func TestTDZThrows(t *testing.T) {
	err := testEvalErr(t, `x; let x = 1;`)
	if err == nil {
		t.Fatal("expected a reference error reading before initialization")
	}
}

func TestClosures(t *testing.T) {
	got := testEval(t, `
		function makeCounter() {
			let n = 0;
			return function() { return ++n; };
		}
		const c = makeCounter();
		c(); c(); c();
	`)
	if got != runtime.Number(3) {
		t.Errorf("counter = %v, want 3", got)
	}
}

func TestClassesInheritanceSuper(t *testing.T) {
	got := testEval(t, `
		class Animal {
			constructor(name) { this.name = name; }
			speak() { return this.name + " makes a sound"; }
		}
		class Dog extends Animal {
			speak() { return super.speak() + ", specifically a bark"; }
		}
		new Dog("Rex").speak();
	`)
	want := runtime.String("Rex makes a sound, specifically a bark")
	if got != want {
		t.Errorf("speak() = %v, want %v", got, want)
	}
}

func TestDestructuring(t *testing.T) {
	got := testEval(t, `
		const { a, b: { c } = {} } = { a: 1, b: { c: 2 } };
		const [first, , third] = [10, 20, 30];
		a + c + first + third;
	`)
	if got != runtime.Number(43) {
		t.Errorf("got %v, want 43", got)
	}
}

func TestGenerators(t *testing.T) {
	got := testEval(t, `
		function* gen() {
			yield 1;
			yield 2;
			return 3;
		}
		const it = gen();
		const a = it.next().value;
		const b = it.next().value;
		const c = it.next();
		a + b + (c.done ? c.value : -1);
	`)
	if got != runtime.Number(6) {
		t.Errorf("generator sum = %v, want 6", got)
	}
}

func TestGeneratorDelegation(t *testing.T) {
	got := testEval(t, `
		function* inner() { yield 1; yield 2; }
		function* outer() { yield* inner(); yield 3; }
		const out = [];
		for (const v of outer()) { out.push(v); }
		out.join(",");
	`)
	if got != runtime.String("1,2,3") {
		t.Errorf("got %v, want 1,2,3", got)
	}
}

func TestAsyncAwait(t *testing.T) {
	got := testEval(t, `
		function delay(v) { return Promise.resolve(v); }
		async function run() {
			const a = await delay(1);
			const b = await delay(2);
			return a + b;
		}
		run();
	`)
	if got != runtime.Number(3) {
		t.Errorf("async result = %v, want 3", got)
	}
}

func TestAsyncRejectionPropagates(t *testing.T) {
	got := testEval(t, `
		async function run() {
			try {
				await Promise.reject(new Error("boom"));
				return "unreachable";
			} catch (e) {
				return e.message;
			}
		}
		run();
	`)
	if got != runtime.String("boom") {
		t.Errorf("got %v, want boom", got)
	}
}

func TestForAwaitOf(t *testing.T) {
	got := testEval(t, `
		async function* agen() {
			yield 1;
			yield 2;
		}
		async function run() {
			let total = 0;
			for await (const v of agen()) { total += v; }
			return total;
		}
		run();
	`)
	if got != runtime.Number(3) {
		t.Errorf("got %v, want 3", got)
	}
}

func TestTryFinally(t *testing.T) {
	got := testEval(t, `
		let order = [];
		function risky() {
			try {
				order.push("try");
				throw new Error("nope");
			} finally {
				order.push("finally");
			}
		}
		try { risky(); } catch (e) { order.push(e.message); }
		order.join(",");
	`)
	if got != runtime.String("try,finally,nope") {
		t.Errorf("got %v, want try,finally,nope", got)
	}
}

func TestLabeledBreakContinue(t *testing.T) {
	got := testEval(t, `
		let out = [];
		outer: for (let i = 0; i < 3; i++) {
			for (let j = 0; j < 3; j++) {
				if (j === 1) continue outer;
				out.push(i + "-" + j);
			}
		}
		out.join(",");
	`)
	if got != runtime.String("0-0,1-0,2-0") {
		t.Errorf("got %v, want 0-0,1-0,2-0", got)
	}
}

func TestOptionalChaining(t *testing.T) {
	got := testEval(t, `
		const obj = { a: { b: null } };
		const v = obj?.a?.b?.c ?? "fallback";
		const missing = obj?.x?.y;
		v + "/" + (missing === undefined);
	`)
	if got != runtime.String("fallback/true") {
		t.Errorf("got %v, want fallback/true", got)
	}
}

func TestErrorConstructors(t *testing.T) {
	got := testEval(t, `
		function describe(e) { return e.name + ":" + e.message; }
		const errs = [new Error("plain"), new TypeError("bad type"), new RangeError("out of range")];
		errs.map(describe).join(",");
	`)
	want := runtime.String("Error:plain,TypeError:bad type,RangeError:out of range")
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestErrorInstanceofAndToString(t *testing.T) {
	got := testEval(t, `
		const e = new TypeError("oops");
		(e instanceof TypeError) + "/" + (e instanceof Error) + "/" + e.toString();
	`)
	want := runtime.String("true/true/TypeError: oops")
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestArrayBuiltinMethods(t *testing.T) {
	got := testEval(t, `
		const nums = [5, 3, 1, 4, 2];
		const doubled = nums.map(n => n * 2);
		const evens = doubled.filter(n => n % 4 === 0);
		const total = nums.reduce((acc, n) => acc + n, 0);
		const sorted = [...nums].sort((a, b) => a - b);
		doubled.join(",") + "|" + evens.join(",") + "|" + total + "|" + sorted.join(",");
	`)
	want := runtime.String("10,6,2,8,4|8,4|15|1,2,3,4,5")
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestStringBuiltinMethods(t *testing.T) {
	got := testEval(t, `
		const s = "Hello, World!";
		s.toUpperCase() + "|" + s.toLowerCase() + "|" + s.slice(0, 5) + "|" +
			s.includes("World") + "|" + s.indexOf("World") + "|" +
			s.replace("World", "there");
	`)
	want := runtime.String("HELLO, WORLD!|hello, world!|Hello|true|7|Hello, there!")
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRegExpMethods(t *testing.T) {
	got := testEval(t, `
		const re = /(\d+)-(\d+)/;
		const m = "12-34".match(re);
		m[1] + "/" + m[2] + "/" + re.test("no digits here");
	`)
	want := runtime.String("12/34/false")
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	got := testEval(t, `
		const obj = { a: 1, b: [1, 2, 3], c: "hi" };
		const str = JSON.stringify(obj);
		const back = JSON.parse(str);
		back.a + back.b.length + back.c;
	`)
	want := runtime.String("4hi")
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMathAndSymbol(t *testing.T) {
	got := testEval(t, `
		const s1 = Symbol("tag");
		const s2 = Symbol("tag");
		(Math.max(1, 5, 3) + Math.min(1, 5, 3)) + "/" + (typeof s1) + "/" + (s1 === s2) + "/" + (s1 === s1);
	`)
	want := runtime.String("6/symbol/false/true")
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSwitchFallthrough(t *testing.T) {
	got := testEval(t, `
		function classify(n) {
			let out = "";
			switch (n) {
				case 1:
				case 2:
					out += "low";
				case 3:
					out += "-mid";
					break;
				default:
					out += "-other";
			}
			return out;
		}
		classify(1) + "|" + classify(3) + "|" + classify(9);
	`)
	if got != runtime.String("low-mid|-mid|-other") {
		t.Errorf("got %v, want low-mid|-mid|-other", got)
	}
}
