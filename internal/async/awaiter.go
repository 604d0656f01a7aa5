package async

import "github.com/cwbudde/jsvm/internal/runtime"

type asyncResumeKind int

const (
	resumeValue asyncResumeKind = iota
	resumeThrow
)

type asyncResumeMsg struct {
	kind asyncResumeKind
	val  runtime.Value
}

// Awaiter is handed to an async function body closure (owned by
// internal/treeinterp) so it can suspend at each `await` (§4.7).
type Awaiter struct {
	driver   *Driver
	resumeCh chan asyncResumeMsg
	handoff  chan struct{}
}

// Await suspends the async body until v (wrapped as a promise if it isn't
// one already) settles, then resumes with its value or re-raises its
// rejection as a throw (§4.7: "fulfilled -> normal resume; rejected ->
// throw resume").
func (a *Awaiter) Await(v runtime.Value) (runtime.Value, error) {
	p := a.driver.NewPromise()
	a.driver.Resolve(p, v)
	a.driver.attach(p, func(state runtime.PromiseState, value runtime.Value) {
		if state == runtime.PromiseFulfilled {
			a.resumeCh <- asyncResumeMsg{kind: resumeValue, val: value}
		} else {
			a.resumeCh <- asyncResumeMsg{kind: resumeThrow, val: value}
		}
		// Block the microtask-draining thread here until the async body
		// pauses again (at the next await) or finishes; this is what keeps
		// exactly one goroutine running JS-visible code at a time (§5).
		<-a.handoff
	})
	// Hand control back to whoever is waiting on `a.handoff` (RunAsync's
	// caller, or the previous Await's reaction) now that this goroutine is
	// about to park.
	a.handoff <- struct{}{}
	msg := <-a.resumeCh
	if msg.kind == resumeThrow {
		return nil, &runtime.ThrownValue{Value: msg.val}
	}
	return msg.val, nil
}

// RunAsync starts body on a fresh goroutine and returns the promise
// representing its eventual completion. body runs synchronously (from the
// caller's point of view) up to its first `await`, matching real async
// function semantics; it is resumed later by Await's attached reactions as
// the driver drains microtasks.
func (d *Driver) RunAsync(body func(a *Awaiter) (runtime.Value, error)) *runtime.Promise {
	result := d.NewPromise()
	a := &Awaiter{driver: d, resumeCh: make(chan asyncResumeMsg), handoff: make(chan struct{})}
	go func() {
		v, err := body(a)
		if err != nil {
			d.Reject(result, unwrapThrown(d.Realm, err))
		} else {
			d.Resolve(result, v)
		}
		a.handoff <- struct{}{}
	}()
	<-a.handoff
	return result
}
