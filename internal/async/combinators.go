package async

import "github.com/cwbudde/jsvm/internal/runtime"

// All implements Promise.all: short-circuits on the first rejection,
// preserves index order on fulfillment (§4.7).
func (d *Driver) All(items []runtime.Value) *runtime.Promise {
	result := d.NewPromise()
	if len(items) == 0 {
		d.Resolve(result, runtime.NewArray(d.Realm.ArrayProto, nil))
		return result
	}
	values := make([]runtime.Value, len(items))
	remaining := len(items)
	settled := false
	for i, item := range items {
		i := i
		p := d.NewPromise()
		d.Resolve(p, item)
		d.attach(p, func(state runtime.PromiseState, v runtime.Value) {
			if settled {
				return
			}
			if state == runtime.PromiseRejected {
				settled = true
				d.Reject(result, v)
				return
			}
			values[i] = v
			remaining--
			if remaining == 0 {
				settled = true
				d.Resolve(result, runtime.NewArray(d.Realm.ArrayProto, values))
			}
		})
	}
	return result
}

// Race settles as soon as any input settles, with that same outcome.
func (d *Driver) Race(items []runtime.Value) *runtime.Promise {
	result := d.NewPromise()
	for _, item := range items {
		p := d.NewPromise()
		d.Resolve(p, item)
		d.attach(p, func(state runtime.PromiseState, v runtime.Value) {
			if state == runtime.PromiseFulfilled {
				d.Resolve(result, v)
			} else {
				d.Reject(result, v)
			}
		})
	}
	return result
}

// AllSettled waits for every input to settle and resolves with an array of
// `{status, value|reason}` descriptor objects, in index order.
func (d *Driver) AllSettled(items []runtime.Value) *runtime.Promise {
	result := d.NewPromise()
	if len(items) == 0 {
		d.Resolve(result, runtime.NewArray(d.Realm.ArrayProto, nil))
		return result
	}
	values := make([]runtime.Value, len(items))
	remaining := len(items)
	for i, item := range items {
		i := i
		p := d.NewPromise()
		d.Resolve(p, item)
		d.attach(p, func(state runtime.PromiseState, v runtime.Value) {
			desc := runtime.NewObject(d.Realm.ObjectProto)
			if state == runtime.PromiseFulfilled {
				desc.Define(runtime.StringKey("status"), runtime.Descriptor{Value: runtime.StringValue("fulfilled"), Writable: true, Enumerable: true, Configurable: true})
				desc.Define(runtime.StringKey("value"), runtime.Descriptor{Value: v, Writable: true, Enumerable: true, Configurable: true})
			} else {
				desc.Define(runtime.StringKey("status"), runtime.Descriptor{Value: runtime.StringValue("rejected"), Writable: true, Enumerable: true, Configurable: true})
				desc.Define(runtime.StringKey("reason"), runtime.Descriptor{Value: v, Writable: true, Enumerable: true, Configurable: true})
			}
			values[i] = desc
			remaining--
			if remaining == 0 {
				d.Resolve(result, runtime.NewArray(d.Realm.ArrayProto, values))
			}
		})
	}
	return result
}

// Any resolves with the first fulfillment, or rejects with an AggregateError
// once every input has rejected.
func (d *Driver) Any(items []runtime.Value) *runtime.Promise {
	result := d.NewPromise()
	if len(items) == 0 {
		d.Reject(result, d.Realm.NewError("AggregateError", "All promises were rejected"))
		return result
	}
	errs := make([]runtime.Value, len(items))
	remaining := len(items)
	settled := false
	for i, item := range items {
		i := i
		p := d.NewPromise()
		d.Resolve(p, item)
		d.attach(p, func(state runtime.PromiseState, v runtime.Value) {
			if settled {
				return
			}
			if state == runtime.PromiseFulfilled {
				settled = true
				d.Resolve(result, v)
				return
			}
			errs[i] = v
			remaining--
			if remaining == 0 {
				settled = true
				agg := d.Realm.NewError("AggregateError", "All promises were rejected")
				agg.Define(runtime.StringKey("errors"), runtime.Descriptor{Value: runtime.NewArray(d.Realm.ArrayProto, errs), Writable: true, Configurable: true})
				d.Reject(result, agg)
			}
		})
	}
	return result
}
