package engine

import (
	"testing"

	"github.com/cwbudde/jsvm/internal/errors"
	"github.com/cwbudde/jsvm/internal/runtime"
)

func TestEvalReturnsCompletionValue(t *testing.T) {
	e := New()
	defer e.Dispose()

	res := e.Eval("1 + 2 * 3", "t.js")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Value != runtime.Number(7) {
		t.Errorf("got %v, want 7", res.Value)
	}
}

func TestEvalParseErrorSurfacesAsEngineError(t *testing.T) {
	e := New()
	defer e.Dispose()

	res := e.Eval("const = ;", "t.js")
	if res.Err == nil {
		t.Fatal("expected a parse error")
	}
	if res.Err.Kind != errors.KindParse {
		t.Errorf("Kind = %v, want %v", res.Err.Kind, errors.KindParse)
	}
}

func TestEvalThrowSurfacesAsEvaluationError(t *testing.T) {
	e := New()
	defer e.Dispose()

	res := e.Eval(`throw new TypeError("nope");`, "t.js")
	if res.Err == nil {
		t.Fatal("expected a throw to surface as an error")
	}
	if res.Err.Kind != errors.KindEvaluation {
		t.Errorf("Kind = %v, want %v", res.Err.Kind, errors.KindEvaluation)
	}
}

func TestEvalSyncResolvesAlreadySettledPromise(t *testing.T) {
	e := New()
	defer e.Dispose()

	res := e.EvalSync(`Promise.resolve(42)`, "t.js")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Value != runtime.Number(42) {
		t.Errorf("got %v, want 42", res.Value)
	}
}

func TestEvalSyncRejectsPendingPromise(t *testing.T) {
	e := New()
	defer e.Dispose()

	res := e.EvalSync(`new Promise(() => {})`, "t.js")
	if res.Err == nil {
		t.Fatal("expected a host-misuse error for a promise that never settles")
	}
	if res.Err.Kind != errors.KindHostMisuse {
		t.Errorf("Kind = %v, want %v", res.Err.Kind, errors.KindHostMisuse)
	}
}

func TestEvalSyncUnwrapsRejectionAsThrow(t *testing.T) {
	e := New()
	defer e.Dispose()

	res := e.EvalSync(`Promise.reject(new Error("boom"))`, "t.js")
	if res.Err == nil {
		t.Fatal("expected the rejection to surface as an error")
	}
	if res.Err.Kind != errors.KindEvaluation {
		t.Errorf("Kind = %v, want %v", res.Err.Kind, errors.KindEvaluation)
	}
}

func TestRegisterFunctionIsCallableFromScript(t *testing.T) {
	e := New()
	defer e.Dispose()

	e.RegisterFunction("double", func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.Number(0), nil
		}
		return runtime.NumberValue(runtime.ToNumber(args[0]) * 2), nil
	})

	res := e.Eval("double(21)", "t.js")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Value != runtime.Number(42) {
		t.Errorf("got %v, want 42", res.Value)
	}
}

func TestDisposeRejectsPendingPromisesAndBlocksFurtherEval(t *testing.T) {
	e := New()

	res := e.Eval(`new Promise(() => {})`, "t.js")
	if res.Err != nil {
		t.Fatalf("unexpected error before dispose: %v", res.Err)
	}
	p, ok := res.Value.(*runtime.Promise)
	if !ok {
		t.Fatalf("value = %T, want *runtime.Promise", res.Value)
	}

	e.Dispose()
	if p.State != runtime.PromiseRejected {
		t.Errorf("pending promise state after Dispose = %v, want Rejected", p.State)
	}

	again := e.Eval("1", "t.js")
	if again.Err == nil || again.Err.Kind != errors.KindHostMisuse {
		t.Errorf("Eval after Dispose = %+v, want a host-misuse error", again)
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	e := New()
	e.Dispose()
	e.Dispose()
}

func TestDebugStatementPublishesCheckpoint(t *testing.T) {
	e := New()
	defer e.Dispose()

	res := e.Eval(`let x = 5; __debug(x);`, "t.js")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	msg, ok := e.TryReadDebug()
	if !ok {
		t.Fatal("expected a debug message to be queued")
	}
	if msg.Variables["x"] != "5" {
		t.Errorf("Variables[x] = %q, want 5", msg.Variables["x"])
	}
}

func TestWithDebugBufferSizeBounds(t *testing.T) {
	e := New(WithDebugBufferSize(1))
	defer e.Dispose()

	res := e.Eval(`__debug(1); __debug(2);`, "t.js")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	count := 0
	for {
		if _, ok := e.TryReadDebug(); !ok {
			break
		}
		count++
	}
	if count != 1 {
		t.Errorf("buffered debug message count = %d, want 1 (capacity bounds drop the rest)", count)
	}
}

func TestParseReportsSyntaxErrors(t *testing.T) {
	_, errs := Parse("function (", "t.js")
	if len(errs) == 0 {
		t.Fatal("expected at least one parse error")
	}
}

func TestParseReturnsProgramOnValidSource(t *testing.T) {
	prog, errs := Parse("1 + 1", "t.js")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if prog == nil || len(prog.Statements) == 0 {
		t.Fatal("expected a non-empty program")
	}
}
