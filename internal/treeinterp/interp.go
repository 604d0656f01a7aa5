// Package treeinterp is the direct evaluator for non-suspendable JavaScript
// (§4.5 Tree Interpreter). It also supplies the expression/statement
// evaluation logic that runs *inside* a generator's or async function's own
// parked goroutine (internal/genvm, internal/async) between suspension
// points, so both execution modes share exactly one value model, one
// environment model, and one throw/unwind protocol, per §2's "two execution
// modes must share one ... error/unwind protocol."
package treeinterp

import (
	"fmt"

	"github.com/cwbudde/jsvm/internal/async"
	"github.com/cwbudde/jsvm/internal/ast"
	"github.com/cwbudde/jsvm/internal/genvm"
	"github.com/cwbudde/jsvm/internal/runtime"
)

// SignalKind distinguishes the non-normal completions a statement or
// expression can produce (§3 Environment / §4.5: "completion ∈ {normal,
// return(v), throw(v), break(label?), continue(label?)}").
type SignalKind int

const (
	SigThrow SignalKind = iota
	SigReturn
	SigBreak
	SigContinue
)

// Signal is a non-normal completion threaded up through Go's own call stack
// as a plain return value (never a panic) — statement constructs inspect it
// to decide how to combine completions (§4.5). A nil *Signal means "normal".
type Signal struct {
	Kind  SignalKind
	Value runtime.Value
	Label string
}

func throwSignal(v runtime.Value) *Signal { return &Signal{Kind: SigThrow, Value: v} }

// DebugMessage is one checkpoint published at a `__debug()` site (§4.8).
type DebugMessage struct {
	State     string
	Variables map[string]string
	Stack     []string
	Origin    string
}

// Interp is the shared evaluation engine for both the tree interpreter and
// the bodies driven by internal/genvm and internal/async. One Interp exists
// per Engine instance.
type Interp struct {
	Global *runtime.Environment
	Realm  *runtime.Realm
	Async  *async.Driver

	DebugSink func(DebugMessage)

	callStack    []string
	recursionCap int

	// yielders/awaiters map a generator's/async function's call environment
	// to the Yielder/Awaiter parked for it on its own goroutine, so a
	// `yield`/`await` expression nested arbitrarily deep in that call's
	// lexical scope chain can find the right one to suspend on (§4.6, §4.7).
	// Safe without a mutex because genvm/async's handshake protocol
	// guarantees exactly one goroutine executes JS-visible code at a time.
	yielders map[*runtime.Environment]*genvm.Yielder
	awaiters map[*runtime.Environment]*async.Awaiter
}

const defaultRecursionCap = 4000

// New constructs an Interp with a fresh global environment and realm.
func New() *Interp {
	realm := NewRealm()
	ip := &Interp{
		Global:       runtime.NewGlobalEnvironment(),
		Realm:        realm,
		Async:        async.NewDriver(realm),
		recursionCap: defaultRecursionCap,
		yielders:     map[*runtime.Environment]*genvm.Yielder{},
		awaiters:     map[*runtime.Environment]*async.Awaiter{},
	}
	realm.Invoke = func(fn *runtime.Function, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v, sig := ip.call(fn, this, args)
		if sig != nil {
			return nil, sig.asError()
		}
		return v, nil
	}
	return ip
}

// EvalProgram runs every top-level statement of prog against the global
// environment, hoisting var/function declarations first (§4.2). It returns
// the completion value of the last ExpressionStatement evaluated (matching
// the REPL-style "top-level completion value" of §6), or a thrown value as
// an error.
func (ip *Interp) EvalProgram(prog *ast.Program) (runtime.Value, error) {
	ip.hoistBlockDeclarations(ip.Global, statementsOf(prog), true)
	var last runtime.Value = runtime.Undefined
	for _, stmt := range prog.Statements {
		if es, ok := stmt.(*ast.ExpressionStatement); ok {
			v, sig := ip.evalExpr(ip.Global, es.Expression)
			if sig != nil {
				return nil, sig.asError()
			}
			last = v
			continue
		}
		sig := ip.evalStatement(ip.Global, stmt)
		if sig != nil {
			return nil, sig.asError()
		}
	}
	return last, nil
}

func statementsOf(prog *ast.Program) []ast.Statement { return prog.Statements }

func (s *Signal) asError() error {
	if s.Kind == SigThrow {
		return &runtime.ThrownValue{Value: s.Value}
	}
	return fmt.Errorf("illegal %v at top level", s.Kind)
}

// pushFrame records a new call-stack frame, returning the matching pop
// function, or a non-nil *Signal (a RangeError throw) if the recursion cap
// (§7 "stack overflow (interpreter recursion depth exceeded)") is reached.
func (ip *Interp) pushFrame(name string) (func(), *Signal) {
	if len(ip.callStack) >= ip.recursionCap {
		return func() {}, throwSignal(ip.Realm.RangeError("Maximum call stack size exceeded"))
	}
	ip.callStack = append(ip.callStack, name)
	return func() { ip.callStack = ip.callStack[:len(ip.callStack)-1] }, nil
}

// SetRecursionCap overrides the call-stack depth limit used by pushFrame.
func (ip *Interp) SetRecursionCap(n int) { ip.recursionCap = n }

// StackDescriptors returns a snapshot of the current call stack, used by
// both error formatting and debug messages (§4.8, §4.9).
func (ip *Interp) StackDescriptors() []string {
	out := make([]string, len(ip.callStack))
	copy(out, ip.callStack)
	return out
}
