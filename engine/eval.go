package engine

import (
	"github.com/cwbudde/jsvm/internal/ast"
	"github.com/cwbudde/jsvm/internal/errors"
	"github.com/cwbudde/jsvm/internal/lexer"
	"github.com/cwbudde/jsvm/internal/lowering"
	"github.com/cwbudde/jsvm/internal/parser"
	"github.com/cwbudde/jsvm/internal/runtime"
)

// Result is the outcome of Eval/EvalSync: exactly one of Value or Err is
// set, mirroring the completion-as-value model (§3 Invariants) one layer
// up at the host boundary.
type Result struct {
	Value runtime.Value
	Err   *errors.EngineError
}

// Parse parses source into an AST handle for introspection (§6: "parse
// source into an AST handle for introspection"). file is used only to
// annotate diagnostics.
func Parse(source, file string) (*ast.Program, []*errors.ParseError) {
	l := lexer.New(source)
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		out := make([]*errors.ParseError, len(errs))
		for i, e := range errs {
			out[i] = errors.NewParseError(e.Pos, e.Message, source, file)
		}
		return prog, out
	}
	return prog, nil
}

// Eval parses and evaluates source asynchronously, returning the top-level
// completion value (§6: "evaluate a source string asynchronously,
// returning the top-level completion value"). Pending microtasks are
// drained before returning; if the completion value is a Promise still
// pending once the queue is idle, it is returned as-is and tracked so
// Dispose can reject it later.
func (e *Engine) Eval(source, file string) Result {
	if err := e.checkDisposed(); err != nil {
		return Result{Err: err.(*errors.EngineError)}
	}

	prog, parseErrs := Parse(source, file)
	if len(parseErrs) > 0 {
		return Result{Err: &errors.EngineError{
			Kind:    errors.KindParse,
			Message: errors.FormatParseErrors(parseErrs),
		}}
	}

	val, err := e.interp.EvalProgram(lowering.FoldConstants(prog))
	e.interp.Async.Queue.Drain()
	if err != nil {
		return Result{Err: e.wrapThrow(err)}
	}
	if p, ok := val.(*runtime.Promise); ok && p.State == runtime.PromisePending {
		e.trackPending(p)
	}
	return Result{Value: val}
}

// EvalSync parses and evaluates source, refusing to return a value that
// depends on suspension the queue can't resolve on its own (§6: "evaluate
// synchronously (disallowed if the program suspends)"). Any Promise left
// pending after a full microtask drain means the program was waiting on
// something only a further host tick could supply, so EvalSync surfaces
// ErrMsgSyncAwait instead of handing back a promise the host never asked
// for. A Promise that settles during the drain unwraps to its value (or
// its rejection reason, as a throw).
func (e *Engine) EvalSync(source, file string) Result {
	res := e.Eval(source, file)
	if res.Err != nil {
		return res
	}
	p, ok := res.Value.(*runtime.Promise)
	if !ok {
		return res
	}
	switch p.State {
	case runtime.PromisePending:
		e.untrackPending(p)
		return Result{Err: errors.NewHostMisuseError(errors.ErrMsgSyncAwait)}
	case runtime.PromiseRejected:
		return Result{Err: e.wrapThrow(&runtime.ThrownValue{Value: p.Value})}
	default:
		return Result{Value: p.Value}
	}
}

func (e *Engine) wrapThrow(err error) *errors.EngineError {
	stack := make([]errors.StackFrame, 0, len(e.interp.StackDescriptors()))
	for _, s := range e.interp.StackDescriptors() {
		stack = append(stack, errors.StackFrame{FunctionName: s})
	}
	if tv, ok := err.(*runtime.ThrownValue); ok {
		return errors.NewEvaluationError(runtime.ToString(tv.Value), runtime.Inspect(tv.Value), stack)
	}
	return errors.NewEvaluationError(err.Error(), "", stack)
}
