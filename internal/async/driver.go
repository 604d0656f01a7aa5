package async

import "github.com/cwbudde/jsvm/internal/runtime"

// Driver owns the microtask queue and the realm's shared Promise prototype,
// and implements the resolution procedure, `.then` attachment, and the
// combinators. One Driver per Engine instance (§5: "engines must not be
// shared across threads").
type Driver struct {
	Queue *Queue
	Realm *runtime.Realm
}

func NewDriver(realm *runtime.Realm) *Driver {
	return &Driver{Queue: NewQueue(), Realm: realm}
}

// NewPromise allocates a fresh pending promise tied to this driver's realm.
func (d *Driver) NewPromise() *runtime.Promise {
	return runtime.NewPromise(d.Realm.PromiseProto)
}

// Resolve implements the `[[Resolve]]` resolution procedure: resolving with
// the promise itself is a TypeError, resolving with another promise adopts
// its eventual state, resolving with a thenable calls its `then`, and
// anything else fulfills directly (§3 Promise: "Resolving with a thenable
// adopts its eventual state").
func (d *Driver) Resolve(p *runtime.Promise, value runtime.Value) {
	if value == runtime.Value(p) {
		d.Reject(p, d.Realm.TypeError("Chaining cycle detected for promise"))
		return
	}
	if inner, ok := value.(*runtime.Promise); ok {
		d.attach(inner, func(state runtime.PromiseState, v runtime.Value) {
			if state == runtime.PromiseFulfilled {
				d.Resolve(p, v)
			} else {
				d.Reject(p, v)
			}
		})
		return
	}
	if then, ok := thenable(value); ok {
		d.Queue.Enqueue(func() {
			resolveFn := runtime.NewHostFunction("", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
				d.Resolve(p, arg(args, 0))
				return runtime.Undefined, nil
			}, d.Realm.FunctionProto)
			rejectFn := runtime.NewHostFunction("", 1, func(_ runtime.Value, args []runtime.Value) (runtime.Value, error) {
				d.Reject(p, arg(args, 0))
				return runtime.Undefined, nil
			}, d.Realm.FunctionProto)
			if _, err := d.Realm.Call(then, value, []runtime.Value{resolveFn, rejectFn}); err != nil {
				d.Reject(p, unwrapThrown(d.Realm, err))
			}
		})
		return
	}
	d.settle(p, runtime.PromiseFulfilled, value)
}

// Reject settles p as rejected with reason.
func (d *Driver) Reject(p *runtime.Promise, reason runtime.Value) {
	d.settle(p, runtime.PromiseRejected, reason)
}

func (d *Driver) settle(p *runtime.Promise, state runtime.PromiseState, value runtime.Value) {
	reactions := p.Settle(state, value)
	for _, r := range reactions {
		r := r
		d.Queue.Enqueue(func() { r.OnSettle(state, value) })
	}
}

// attach registers fn to run (as a microtask) once p settles, whether it
// already has or does so later.
func (d *Driver) attach(p *runtime.Promise, fn func(state runtime.PromiseState, v runtime.Value)) {
	already, state, value := p.Subscribe(&runtime.Reaction{OnSettle: fn})
	if already {
		d.Queue.Enqueue(func() { fn(state, value) })
	}
}

// Then implements `.then(onFulfilled, onRejected)`, returning a new promise
// settled from whichever handler applies (or passed through if the handler
// is nil), per the standard `PromiseReactionJob` semantics.
func (d *Driver) Then(p *runtime.Promise, onFulfilled, onRejected func(runtime.Value) (runtime.Value, error)) *runtime.Promise {
	result := d.NewPromise()
	d.attach(p, func(state runtime.PromiseState, v runtime.Value) {
		handler := onRejected
		if state == runtime.PromiseFulfilled {
			handler = onFulfilled
		}
		if handler == nil {
			if state == runtime.PromiseFulfilled {
				d.Resolve(result, v)
			} else {
				d.Reject(result, v)
			}
			return
		}
		out, err := handler(v)
		if err != nil {
			d.Reject(result, unwrapThrown(d.Realm, err))
			return
		}
		d.Resolve(result, out)
	})
	return result
}

func thenable(v runtime.Value) (*runtime.Function, bool) {
	if _, ok := runtime.AsObject(v); !ok {
		return nil, false
	}
	then, err := runtime.GetProperty(v, runtime.StringKey("then"), v)
	if err != nil {
		return nil, false
	}
	fn, ok := then.(*runtime.Function)
	if !ok {
		return nil, false
	}
	return fn, true
}

func arg(args []runtime.Value, i int) runtime.Value {
	if i < len(args) {
		return args[i]
	}
	return runtime.Undefined
}

// unwrapThrown extracts the JS value from a *runtime.ThrownValue, or wraps
// a plain Go error as a generic Error object (host-callable failures
// surfacing as JS throws, §7: "Host errors from native callables surface as
// JS throws with a wrapping object carrying the host message").
func unwrapThrown(realm *runtime.Realm, err error) runtime.Value {
	if tv, ok := err.(*runtime.ThrownValue); ok {
		return tv.Value
	}
	return realm.NewError(runtime.KindError, "%s", err.Error())
}
