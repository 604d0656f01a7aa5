package runtime

import (
	"math"
	"testing"
)

func TestToBoolean(t *testing.T) {
	tests := []struct {
		name  string
		input Value
		want  bool
	}{
		{"undefined", Undefined, false},
		{"null", Null, false},
		{"true", True, true},
		{"false", False, false},
		{"zero", Number(0), false},
		{"NaN", NaN, false},
		{"nonzero number", Number(1), true},
		{"negative number", Number(-1), true},
		{"empty string", String(""), false},
		{"nonempty string", String("a"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToBoolean(tt.input); got != tt.want {
				t.Errorf("ToBoolean(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		name  string
		input Value
		want  float64
	}{
		{"null", Null, 0},
		{"true", True, 1},
		{"false", False, 0},
		{"number passthrough", Number(3.5), 3.5},
		{"numeric string", String("  42  "), 42},
		{"hex string", String("0x1F"), 31},
		{"empty string", String(""), 0},
		{"garbage string", String("nope"), math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToNumber(tt.input)
			if math.IsNaN(tt.want) {
				if !math.IsNaN(got) {
					t.Errorf("ToNumber(%v) = %v, want NaN", tt.input, got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ToNumber(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
	if !math.IsNaN(ToNumber(Undefined)) {
		t.Error("ToNumber(undefined) should be NaN")
	}
}

func TestToStringCoercion(t *testing.T) {
	tests := []struct {
		name  string
		input Value
		want  string
	}{
		{"undefined", Undefined, "undefined"},
		{"null", Null, "null"},
		{"true", True, "true"},
		{"false", False, "false"},
		{"integral number", Number(42), "42"},
		{"fractional number", Number(3.5), "3.5"},
		{"NaN", NaN, "NaN"},
		{"Infinity", Number(math.Inf(1)), "Infinity"},
		{"negative Infinity", Number(math.Inf(-1)), "-Infinity"},
		{"string passthrough", String("hi"), "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToString(tt.input); got != tt.want {
				t.Errorf("ToString(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStrictEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same number", Number(1), Number(1), true},
		{"different number", Number(1), Number(2), false},
		{"NaN never equals itself", NaN, NaN, false},
		{"same string", String("a"), String("a"), true},
		{"different tag", Number(0), String("0"), false},
		{"null strict equals null", Null, Null, true},
		{"undefined strict equals undefined", Undefined, Undefined, true},
		{"null does not equal undefined", Null, Undefined, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StrictEquals(tt.a, tt.b); got != tt.want {
				t.Errorf("StrictEquals(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSameValueZero(t *testing.T) {
	if !SameValueZero(NaN, NaN) {
		t.Error("SameValueZero(NaN, NaN) should be true, unlike StrictEquals")
	}
	if SameValueZero(Number(0), String("0")) {
		t.Error("SameValueZero should still respect differing tags")
	}
}

func TestLooseEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same tag delegates to strict", Number(1), Number(1), true},
		{"null loose equals undefined", Null, Undefined, true},
		{"null does not loose equal zero", Null, Number(0), false},
		{"number to numeric string", Number(1), String("1"), true},
		{"boolean true to number one", True, Number(1), true},
		{"boolean false to empty string coerces through number", False, String(""), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooseEquals(tt.a, tt.b); got != tt.want {
				t.Errorf("LooseEquals(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name  string
		input Value
		want  string
	}{
		{"undefined", Undefined, "undefined"},
		{"null is object", Null, "object"},
		{"boolean", True, "boolean"},
		{"number", Number(1), "number"},
		{"string", String("a"), "string"},
		{"symbol", NewSymbol("s"), "symbol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeOf(tt.input); got != tt.want {
				t.Errorf("TypeOf(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
