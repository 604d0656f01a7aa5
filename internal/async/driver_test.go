package async

import (
	"testing"

	"github.com/cwbudde/jsvm/internal/runtime"
)

// newTestRealm builds just enough of a Realm for the driver's own logic
// (no treeinterp.NewRealm here: internal/treeinterp imports this package,
// so pulling it in would be a cycle).
func newTestRealm() *runtime.Realm {
	objectProto := runtime.NewObject(runtime.Null)
	functionProto := runtime.NewObject(objectProto)
	arrayProto := runtime.NewObject(objectProto)
	promiseProto := runtime.NewObject(objectProto)
	errorProtos := map[runtime.ErrorKind]*runtime.Object{
		runtime.KindError: runtime.NewObject(objectProto),
	}
	return &runtime.Realm{
		ObjectProto:   objectProto,
		FunctionProto: functionProto,
		ArrayProto:    arrayProto,
		PromiseProto:  promiseProto,
		ErrorProtos:   errorProtos,
		Globals:       runtime.NewObject(objectProto),
	}
}

func TestDriverResolveFulfillsDirectly(t *testing.T) {
	d := NewDriver(newTestRealm())
	p := d.NewPromise()
	d.Resolve(p, runtime.Number(42))
	if p.State != runtime.PromiseFulfilled || p.Value != runtime.Number(42) {
		t.Errorf("state=%v value=%v, want Fulfilled/42", p.State, p.Value)
	}
}

func TestDriverResolveWithPromiseAdoptsState(t *testing.T) {
	d := NewDriver(newTestRealm())
	inner := d.NewPromise()
	outer := d.NewPromise()
	d.Resolve(outer, inner)
	d.Reject(inner, runtime.String("nope"))
	d.Queue.Drain()
	if outer.State != runtime.PromiseRejected || outer.Value != runtime.String("nope") {
		t.Errorf("outer state=%v value=%v, want Rejected/nope", outer.State, outer.Value)
	}
}

func TestDriverResolveWithSelfIsTypeError(t *testing.T) {
	d := NewDriver(newTestRealm())
	p := d.NewPromise()
	d.Resolve(p, p)
	if p.State != runtime.PromiseRejected {
		t.Fatalf("state=%v, want Rejected", p.State)
	}
	if _, ok := runtime.AsObject(p.Value); !ok {
		t.Fatal("rejection reason should be an error object")
	}
	msg, _ := runtime.GetProperty(p.Value, runtime.StringKey("message"), p.Value)
	if msg != runtime.String("Chaining cycle detected for promise") {
		t.Errorf("message = %v, want the cycle-detected message", msg)
	}
}

func TestDriverThenChainsHandlers(t *testing.T) {
	d := NewDriver(newTestRealm())
	p := d.NewPromise()
	result := d.Then(p, func(v runtime.Value) (runtime.Value, error) {
		return runtime.NumberValue(runtime.ToNumber(v) * 2), nil
	}, nil)
	d.Resolve(p, runtime.Number(21))
	d.Queue.Drain()
	if result.State != runtime.PromiseFulfilled || result.Value != runtime.Number(42) {
		t.Errorf("result state=%v value=%v, want Fulfilled/42", result.State, result.Value)
	}
}

func TestDriverRunAsyncAwaitsFulfillment(t *testing.T) {
	d := NewDriver(newTestRealm())
	result := d.RunAsync(func(a *Awaiter) (runtime.Value, error) {
		v, err := a.Await(runtime.Number(1))
		if err != nil {
			return nil, err
		}
		v2, err := a.Await(runtime.NumberValue(runtime.ToNumber(v) + 1))
		if err != nil {
			return nil, err
		}
		return v2, nil
	})
	d.Queue.Drain()
	if result.State != runtime.PromiseFulfilled || result.Value != runtime.Number(2) {
		t.Errorf("state=%v value=%v, want Fulfilled/2", result.State, result.Value)
	}
}

func TestDriverRunAsyncAwaitRejectionThrows(t *testing.T) {
	d := NewDriver(newTestRealm())
	result := d.RunAsync(func(a *Awaiter) (runtime.Value, error) {
		rejected := d.NewPromise()
		d.Reject(rejected, runtime.String("boom"))
		_, err := a.Await(rejected)
		if err == nil {
			return nil, nil
		}
		tv, ok := err.(*runtime.ThrownValue)
		if !ok {
			return nil, err
		}
		return tv.Value, nil
	})
	d.Queue.Drain()
	if result.State != runtime.PromiseFulfilled || result.Value != runtime.String("boom") {
		t.Errorf("state=%v value=%v, want Fulfilled/boom (caught and returned)", result.State, result.Value)
	}
}

func TestDriverAll(t *testing.T) {
	d := NewDriver(newTestRealm())
	result := d.All([]runtime.Value{runtime.Number(1), runtime.Number(2), runtime.Number(3)})
	d.Queue.Drain()
	if result.State != runtime.PromiseFulfilled {
		t.Fatalf("state=%v, want Fulfilled", result.State)
	}
	arr, ok := result.Value.(*runtime.Array)
	if !ok || arr.Length() != 3 {
		t.Fatalf("value=%v, want a 3-element array", result.Value)
	}
}

func TestDriverAllShortCircuitsOnRejection(t *testing.T) {
	d := NewDriver(newTestRealm())
	rejected := d.NewPromise()
	d.Reject(rejected, runtime.String("bad"))
	result := d.All([]runtime.Value{runtime.Number(1), rejected, runtime.Number(3)})
	d.Queue.Drain()
	if result.State != runtime.PromiseRejected || result.Value != runtime.String("bad") {
		t.Errorf("state=%v value=%v, want Rejected/bad", result.State, result.Value)
	}
}

func TestDriverRace(t *testing.T) {
	d := NewDriver(newTestRealm())
	slow := d.NewPromise()
	result := d.Race([]runtime.Value{slow, runtime.Number(7)})
	d.Queue.Drain()
	if result.State != runtime.PromiseFulfilled || result.Value != runtime.Number(7) {
		t.Errorf("state=%v value=%v, want Fulfilled/7 (already-settled input wins)", result.State, result.Value)
	}
}

func TestDriverAllSettled(t *testing.T) {
	d := NewDriver(newTestRealm())
	rejected := d.NewPromise()
	d.Reject(rejected, runtime.String("bad"))
	result := d.AllSettled([]runtime.Value{runtime.Number(1), rejected})
	d.Queue.Drain()
	arr, ok := result.Value.(*runtime.Array)
	if !ok || arr.Length() != 2 {
		t.Fatalf("value=%v, want a 2-element array", result.Value)
	}
	first, ok := arr.Elements()[0].(*runtime.Object)
	if !ok {
		t.Fatal("element 0 should be a descriptor object")
	}
	status, _ := first.Get(runtime.StringKey("status"), first)
	if status != runtime.String("fulfilled") {
		t.Errorf("element 0 status = %v, want fulfilled", status)
	}
	second, ok := arr.Elements()[1].(*runtime.Object)
	if !ok {
		t.Fatal("element 1 should be a descriptor object")
	}
	status2, _ := second.Get(runtime.StringKey("status"), second)
	if status2 != runtime.String("rejected") {
		t.Errorf("element 1 status = %v, want rejected", status2)
	}
}

func TestDriverAnyResolvesOnFirstFulfillment(t *testing.T) {
	d := NewDriver(newTestRealm())
	rejected := d.NewPromise()
	d.Reject(rejected, runtime.String("bad"))
	result := d.Any([]runtime.Value{rejected, runtime.Number(9)})
	d.Queue.Drain()
	if result.State != runtime.PromiseFulfilled || result.Value != runtime.Number(9) {
		t.Errorf("state=%v value=%v, want Fulfilled/9", result.State, result.Value)
	}
}

func TestDriverAnyRejectsWithAggregateWhenAllFail(t *testing.T) {
	d := NewDriver(newTestRealm())
	a := d.NewPromise()
	d.Reject(a, runtime.String("a-bad"))
	b := d.NewPromise()
	d.Reject(b, runtime.String("b-bad"))
	result := d.Any([]runtime.Value{a, b})
	d.Queue.Drain()
	if result.State != runtime.PromiseRejected {
		t.Fatalf("state=%v, want Rejected", result.State)
	}
	if _, ok := runtime.AsObject(result.Value); !ok {
		t.Fatal("rejection reason should be an object")
	}
	errs, _ := runtime.GetProperty(result.Value, runtime.StringKey("errors"), result.Value)
	arr, ok := errs.(*runtime.Array)
	if !ok || arr.Length() != 2 {
		t.Errorf("errors = %v, want a 2-element array", errs)
	}
}
