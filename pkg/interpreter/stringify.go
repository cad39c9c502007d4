package interpreter

import (
	"fmt"
	"math"
	"strconv"

	"github.com/davidkellis/lox-interp/pkg/runtime"
)

// Stringify implements spec.md §6.3's value-formatting rules, grounded
// on the teacher's interpreter_stringify.go value-to-display-string
// dispatch (a type switch over one case per Kind).
func Stringify(v runtime.Value) string {
	switch val := v.(type) {
	case runtime.NilValue:
		return "nil"
	case runtime.BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case runtime.NumberValue:
		return formatNumber(val.Val)
	case runtime.StringValue:
		return val.Val
	case *runtime.FunctionValue:
		if val.Name != "" {
			return fmt.Sprintf("<function %s>", val.Name)
		}
		return "<function>"
	case *runtime.BoundMethodValue:
		return Stringify(val.Method)
	case *runtime.NativeFunctionValue:
		return fmt.Sprintf("<function %s>", val.Name)
	case *runtime.ClassValue:
		return fmt.Sprintf("<class %s>", val.Name)
	case *runtime.InstanceValue:
		return fmt.Sprintf("<%s instance>", val.Class.Name)
	default:
		return ""
	}
}

// formatNumber renders the shortest decimal form; integer-valued floats
// omit the decimal point (3, not 3.0).
func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
