package runtime

// PromiseState is one of the three states a Promise settles into exactly
// once (§3 Promise).
type PromiseState int

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

// Reaction is a single settle-time callback queued by a `.then()`/`await`
// attachment while the promise it watches is still pending. internal/async
// owns what OnSettle actually does (schedule a microtask, resume a parked
// async/generator goroutine, etc.) — this package only stores the list.
type Reaction struct {
	OnSettle func(state PromiseState, value Value)
}

// Promise is the runtime Promise value. Settling is one-shot and
// idempotent; Reactions queued before settlement are drained by the async
// driver's microtask queue (internal/async), never synchronously here.
type Promise struct {
	obj *Object

	State     PromiseState
	Value     Value // fulfillment value or rejection reason once settled
	Reactions []*Reaction

	// Handled marks whether some reaction has observed a rejection, used
	// only for host diagnostics (unhandled rejection reporting is not part
	// of this engine's mandated surface).
	Handled bool
}

func (*Promise) Tag() Tag { return TagPromise }

func NewPromise(proto Value) *Promise {
	p := &Promise{State: PromisePending}
	p.obj = NewObject(proto)
	p.obj.class = "Promise"
	return p
}

func (p *Promise) ownDescriptor(key PropertyKey) (*Descriptor, bool) { return p.obj.GetOwnDescriptor(key) }
func (p *Promise) prototype() Value                                  { return p.obj.Proto }

func (p *Promise) Get(key PropertyKey, receiver Value) (Value, error) {
	return getWithReceiver(p, key, receiver, 0)
}

func (p *Promise) Set(key PropertyKey, v Value, receiver Value) error {
	return setWithReceiver(p, key, v, receiver, 0)
}

func (p *Promise) OwnKeys() []PropertyKey { return p.obj.OwnKeys() }

// Settle moves a pending promise to fulfilled or rejected exactly once
// (§3 Promise: "Settling is one-shot and idempotent"), returning the
// reactions to run (in FIFO order) or nil if the promise had already
// settled.
func (p *Promise) Settle(state PromiseState, value Value) []*Reaction {
	if p.State != PromisePending {
		return nil
	}
	p.State = state
	p.Value = value
	reactions := p.Reactions
	p.Reactions = nil
	return reactions
}

// Subscribe appends a reaction if still pending, or reports that the
// promise has already settled so the caller can run the reaction itself
// (typically as a freshly scheduled microtask).
func (p *Promise) Subscribe(r *Reaction) (already bool, state PromiseState, value Value) {
	if p.State != PromisePending {
		return true, p.State, p.Value
	}
	p.Reactions = append(p.Reactions, r)
	return false, PromisePending, nil
}
