package builtins

import (
	"time"

	"github.com/cwbudde/jsvm/internal/runtime"
)

// dateSlot names the own "__time__" property holding each Date's time value (milliseconds since the
// Unix epoch, matching JS's Date internal slot) on every Date instance,
// since the engine's Object has no room for a typed internal slot (§9
// Standard Library: "Date (subset: now, constructor, basic getters,
// toISOString)").
const dateSlot = "__time__"

func registerDate(realm *runtime.Realm, env *runtime.Environment) {
	proto := runtime.NewObject(realm.ObjectProto)

	ctor := runtime.NewHostFunction("Date", 0, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		inst, ok := this.(*runtime.Object)
		if !ok {
			inst = runtime.NewObject(proto)
		}
		inst.SetClass("Date")
		ms := dateArgsToMillis(args)
		inst.Define(runtime.StringKey(dateSlot), runtime.Descriptor{Value: runtime.NumberValue(ms)})
		return inst, nil
	}, realm.FunctionProto)
	ctor.Define(runtime.StringKey("prototype"), runtime.Descriptor{Value: proto, Writable: false})
	proto.Define(runtime.StringKey("constructor"), runtime.Descriptor{Value: ctor, Writable: true, Configurable: true})

	defineMethod(realm, ctor, "now", 0, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.NumberValue(float64(time.Now().UnixMilli())), nil
	})

	getter := func(name string, read func(time.Time) float64) {
		defineMethod(realm, proto, name, 0, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
			t, err := dateTimeOf(realm, this)
			if err != nil {
				return nil, err
			}
			return runtime.NumberValue(read(t)), nil
		})
	}
	getter("getTime", func(t time.Time) float64 { return float64(t.UnixMilli()) })
	getter("valueOf", func(t time.Time) float64 { return float64(t.UnixMilli()) })
	getter("getFullYear", func(t time.Time) float64 { return float64(t.Year()) })
	getter("getMonth", func(t time.Time) float64 { return float64(t.Month() - 1) })
	getter("getDate", func(t time.Time) float64 { return float64(t.Day()) })
	getter("getDay", func(t time.Time) float64 { return float64(t.Weekday()) })
	getter("getHours", func(t time.Time) float64 { return float64(t.Hour()) })
	getter("getMinutes", func(t time.Time) float64 { return float64(t.Minute()) })
	getter("getSeconds", func(t time.Time) float64 { return float64(t.Second()) })
	getter("getMilliseconds", func(t time.Time) float64 { return float64(t.Nanosecond() / 1e6) })

	defineMethod(realm, proto, "toISOString", 0, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		t, err := dateTimeOf(realm, this)
		if err != nil {
			return nil, err
		}
		return runtime.StringValue(t.UTC().Format("2006-01-02T15:04:05.000Z")), nil
	})
	defineMethod(realm, proto, "toString", 0, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		t, err := dateTimeOf(realm, this)
		if err != nil {
			return nil, err
		}
		return runtime.StringValue(t.UTC().Format(time.RFC1123)), nil
	})

	defineGlobal(realm, env, "Date", ctor)
}

func dateTimeOf(realm *runtime.Realm, this runtime.Value) (time.Time, error) {
	if _, ok := runtime.AsObject(this); !ok {
		return time.Time{}, typeError(realm, "Date method called on non-Date receiver")
	}
	d, ok := runtime.GetOwnDescriptor(this, runtime.StringKey(dateSlot))
	if !ok {
		return time.Time{}, typeError(realm, "Date method called on non-Date receiver")
	}
	ms := int64(runtime.ToNumber(d.Value))
	return time.UnixMilli(ms).UTC(), nil
}

func dateArgsToMillis(args []runtime.Value) float64 {
	switch len(args) {
	case 0:
		return float64(time.Now().UnixMilli())
	case 1:
		if s, ok := args[0].(runtime.String); ok {
			if t, err := time.Parse(time.RFC3339, string(s)); err == nil {
				return float64(t.UnixMilli())
			}
			return float64(time.Now().UnixMilli())
		}
		return runtime.ToNumber(args[0])
	default:
		year := int(runtime.ToNumber(arg(args, 0)))
		month := int(runtime.ToNumber(arg(args, 1)))
		day := 1
		if len(args) > 2 {
			day = int(runtime.ToNumber(args[2]))
		}
		hour, min, sec, msec := 0, 0, 0, 0
		if len(args) > 3 {
			hour = int(runtime.ToNumber(args[3]))
		}
		if len(args) > 4 {
			min = int(runtime.ToNumber(args[4]))
		}
		if len(args) > 5 {
			sec = int(runtime.ToNumber(args[5]))
		}
		if len(args) > 6 {
			msec = int(runtime.ToNumber(args[6]))
		}
		t := time.Date(year, time.Month(month+1), day, hour, min, sec, msec*1e6, time.UTC)
		return float64(t.UnixMilli())
	}
}
