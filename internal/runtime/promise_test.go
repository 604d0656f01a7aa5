package runtime

import "testing"

func TestPromiseSettleIsOneShot(t *testing.T) {
	p := NewPromise(Null)
	var fired []PromiseState
	p.Subscribe(&Reaction{OnSettle: func(state PromiseState, value Value) { fired = append(fired, state) }})

	reactions := p.Settle(PromiseFulfilled, Number(1))
	if len(reactions) != 1 {
		t.Fatalf("Settle returned %d reactions, want 1", len(reactions))
	}
	reactions[0].OnSettle(p.State, p.Value)
	if len(fired) != 1 || fired[0] != PromiseFulfilled {
		t.Errorf("fired = %v, want [Fulfilled]", fired)
	}

	// A second Settle call on an already-settled promise must be a no-op.
	again := p.Settle(PromiseRejected, Number(2))
	if again != nil {
		t.Errorf("Settle on an already-settled promise returned %v, want nil", again)
	}
	if p.State != PromiseFulfilled || p.Value != Number(1) {
		t.Errorf("promise state changed after second Settle: state=%v value=%v", p.State, p.Value)
	}
}

func TestPromiseSubscribeAfterSettleReportsAlready(t *testing.T) {
	p := NewPromise(Null)
	p.Settle(PromiseRejected, String("boom"))

	already, state, value := p.Subscribe(&Reaction{})
	if !already {
		t.Fatal("Subscribe on a settled promise should report already=true")
	}
	if state != PromiseRejected || value != String("boom") {
		t.Errorf("Subscribe reported state=%v value=%v, want Rejected/boom", state, value)
	}
	if len(p.Reactions) != 0 {
		t.Error("a late subscriber should not be queued as a pending reaction")
	}
}

func TestPromiseSubscribeBeforeSettleQueues(t *testing.T) {
	p := NewPromise(Null)
	already, _, _ := p.Subscribe(&Reaction{})
	if already {
		t.Fatal("Subscribe on a pending promise should report already=false")
	}
	if len(p.Reactions) != 1 {
		t.Fatalf("pending reaction count = %d, want 1", len(p.Reactions))
	}
}
