// Package engine is the host-facing facade (§4.8 Scheduler / Engine
// Facade, §6 Host API): create an engine, feed it source, register native
// callables, read debug checkpoints, dispose it. A single Engine owns the
// global environment, the microtask queue, a pending-promise registry, and
// the debug channel — everything internal/treeinterp and internal/async
// need stays behind this package so a host never touches internal/ types
// directly, mirroring the split the teacher keeps between pkg/dwscript and
// internal/interp.
package engine

import (
	"sync"

	"github.com/cwbudde/jsvm/internal/builtins"
	"github.com/cwbudde/jsvm/internal/errors"
	"github.com/cwbudde/jsvm/internal/runtime"
	"github.com/cwbudde/jsvm/internal/treeinterp"
)

// Engine is the single-threaded cooperative runtime described by §5: one
// instance per logical thread, never shared across goroutines.
type Engine struct {
	interp *treeinterp.Interp

	debug     chan treeinterp.DebugMessage
	debugDrop bool

	mu       sync.Mutex
	pending  map[*runtime.Promise]struct{}
	disposed bool
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithRecursionCap overrides the interpreter's call-stack depth limit
// (§7: "stack overflow (interpreter recursion depth exceeded)").
func WithRecursionCap(n int) Option {
	return func(e *Engine) { e.interp.SetRecursionCap(n) }
}

// WithDebugBufferSize sets the capacity of the debug message channel
// (§4.8: "the debug channel is a bounded queue with lossy semantics
// configurable by the host"). The default is 256.
func WithDebugBufferSize(n int) Option {
	return func(e *Engine) {
		e.debug = make(chan treeinterp.DebugMessage, n)
	}
}

// WithDebugDropOldest makes the debug channel drop its oldest unread
// message instead of its newest when full. The default drops the newest
// (the checkpoint that just fired), which favors the earliest context a
// host is likely to be replaying from.
func WithDebugDropOldest(e *Engine) { e.debugDrop = true }

const defaultDebugBufferSize = 256

// New constructs an Engine with a fresh global environment, realm, and
// async driver, and registers every standard built-in (§9) onto it.
func New(opts ...Option) *Engine {
	ip := treeinterp.New()
	e := &Engine{
		interp:  ip,
		debug:   make(chan treeinterp.DebugMessage, defaultDebugBufferSize),
		pending: map[*runtime.Promise]struct{}{},
	}
	builtins.Register(ip.Realm, ip.Global, ip.Async)
	for _, opt := range opts {
		opt(e)
	}
	ip.DebugSink = e.publishDebug
	return e
}

func (e *Engine) publishDebug(msg treeinterp.DebugMessage) {
	if e.debugDrop {
		select {
		case e.debug <- msg:
		default:
			select {
			case <-e.debug:
			default:
			}
			e.debug <- msg
		}
		return
	}
	select {
	case e.debug <- msg:
	default:
	}
}

// RegisterFunction binds a native callable under name in the global scope
// (§6: "register a global native callable by name"). fn receives the
// current `this` binding and the argument list and returns a value, or a
// Go error to surface as a JS throw (§7: host errors wrap into a generic
// Error object crossing back in).
func (e *Engine) RegisterFunction(name string, fn runtime.HostFunc) {
	realm := e.interp.Realm
	host := runtime.NewHostFunction(name, 0, fn, realm.FunctionProto)
	e.interp.Global.DeclareVar(name, host)
	realm.Globals.Define(runtime.StringKey(name), runtime.Descriptor{
		Value: host, Writable: true, Configurable: true,
	})
}

// Dispose releases the engine's state and rejects every promise still
// pending from a prior Eval with an engine-shutdown error (§5: "Memory...
// when the promise is dropped by the host, frames become collectible").
// Further calls to Eval/EvalSync fail with a host-misuse error; the
// package-level Parse does not depend on an Engine and keeps working.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return
	}
	e.disposed = true
	reason := e.interp.Realm.NewError(runtime.KindError, "%s", errors.ErrMsgEngineDisposed)
	for p := range e.pending {
		e.interp.Async.Reject(p, reason)
	}
	e.pending = nil
	close(e.debug)
}

func (e *Engine) checkDisposed() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return errors.NewHostMisuseError(errors.ErrMsgEngineDisposed)
	}
	return nil
}

func (e *Engine) trackPending(p *runtime.Promise) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return
	}
	e.pending[p] = struct{}{}
}

func (e *Engine) untrackPending(p *runtime.Promise) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.pending, p)
}
