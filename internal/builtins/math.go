package builtins

import (
	"math"
	"math/rand"

	"github.com/cwbudde/jsvm/internal/runtime"
)

// registerMath installs the `Math` namespace object (§9 Standard Library:
// "Math"). Determinism (§7) excludes Math.random from "no observable
// nondeterminism" guarantees, same as every JS engine.
func registerMath(realm *runtime.Realm, env *runtime.Environment) {
	m := runtime.NewObject(realm.ObjectProto)

	consts := map[string]float64{
		"PI":      math.Pi,
		"E":       math.E,
		"LN2":     math.Ln2,
		"LN10":    math.Log(10),
		"LOG2E":   1 / math.Ln2,
		"LOG10E":  1 / math.Log(10),
		"SQRT2":   math.Sqrt2,
		"SQRT1_2": math.Sqrt(0.5),
	}
	for name, v := range consts {
		m.Define(runtime.StringKey(name), runtime.Descriptor{Value: runtime.NumberValue(v)})
	}

	unary := map[string]func(float64) float64{
		"abs": math.Abs, "floor": math.Floor, "ceil": math.Ceil, "round": jsRound,
		"trunc": math.Trunc, "sqrt": math.Sqrt, "cbrt": math.Cbrt, "sign": jsSign,
		"sin": math.Sin, "cos": math.Cos, "tan": math.Tan,
		"asin": math.Asin, "acos": math.Acos, "atan": math.Atan,
		"sinh": math.Sinh, "cosh": math.Cosh, "tanh": math.Tanh,
		"log": math.Log, "log2": math.Log2, "log10": math.Log10, "log1p": math.Log1p,
		"exp": math.Exp, "expm1": math.Expm1,
	}
	for name, fn := range unary {
		fn := fn
		defineMethod(realm, m, name, 1, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
			return runtime.NumberValue(fn(runtime.ToNumber(arg(args, 0)))), nil
		})
	}

	defineMethod(realm, m, "pow", 2, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.NumberValue(math.Pow(runtime.ToNumber(arg(args, 0)), runtime.ToNumber(arg(args, 1)))), nil
	})
	defineMethod(realm, m, "atan2", 2, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.NumberValue(math.Atan2(runtime.ToNumber(arg(args, 0)), runtime.ToNumber(arg(args, 1)))), nil
	})
	defineMethod(realm, m, "hypot", 2, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		sum := 0.0
		for _, a := range args {
			v := runtime.ToNumber(a)
			sum += v * v
		}
		return runtime.NumberValue(math.Sqrt(sum)), nil
	})
	defineMethod(realm, m, "max", 2, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.NumberValue(math.Inf(-1)), nil
		}
		best := math.Inf(-1)
		for _, a := range args {
			v := runtime.ToNumber(a)
			if math.IsNaN(v) {
				return runtime.NaN, nil
			}
			if v > best {
				best = v
			}
		}
		return runtime.NumberValue(best), nil
	})
	defineMethod(realm, m, "min", 2, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.NumberValue(math.Inf(1)), nil
		}
		best := math.Inf(1)
		for _, a := range args {
			v := runtime.ToNumber(a)
			if math.IsNaN(v) {
				return runtime.NaN, nil
			}
			if v < best {
				best = v
			}
		}
		return runtime.NumberValue(best), nil
	})
	defineMethod(realm, m, "random", 0, func(this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.NumberValue(rand.Float64()), nil
	})

	defineGlobal(realm, env, "Math", m)
}

func jsRound(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return math.Floor(f + 0.5)
}

func jsSign(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return math.NaN()
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return f
	}
}
