package interpreter

import (
	"fmt"

	"github.com/davidkellis/lox-interp/pkg/ast"
	"github.com/davidkellis/lox-interp/pkg/runtime"
	"github.com/davidkellis/lox-interp/pkg/token"
)

func (i *Interpreter) evaluate(expr ast.Expr) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalValue(e.Value), nil
	case *ast.Grouping:
		return i.evaluate(e.Inner)
	case *ast.Unary:
		return i.evaluateUnary(e)
	case *ast.Binary:
		return i.evaluateBinary(e)
	case *ast.Logical:
		return i.evaluateLogical(e)
	case *ast.Ternary:
		return i.evaluateTernary(e)
	case *ast.Variable:
		return i.lookupVariable(e.Name, e)
	case *ast.Assign:
		return i.evaluateAssign(e)
	case *ast.Get:
		return i.evaluateGet(e)
	case *ast.Set:
		return i.evaluateSet(e)
	case *ast.This:
		return i.lookupVariable(e.Keyword, e)
	case *ast.Super:
		return i.evaluateSuper(e)
	case *ast.Call:
		return i.evaluateCall(e)
	case *ast.Function:
		return &runtime.FunctionValue{Declaration: e, Closure: i.environment}, nil
	default:
		panic("interpreter: unhandled expression type")
	}
}

func literalValue(v interface{}) runtime.Value {
	switch val := v.(type) {
	case nil:
		return runtime.NilValue{}
	case bool:
		return runtime.BoolValue{Val: val}
	case float64:
		return runtime.NumberValue{Val: val}
	case string:
		return runtime.StringValue{Val: val}
	default:
		return runtime.NilValue{}
	}
}

// lookupVariable implements spec.md §4.3's variable-access rule: a
// recorded hop-count reads directly from that ancestor environment with
// no chain search; absence of an entry means a global lookup.
func (i *Interpreter) lookupVariable(name token.Token, ref ast.Expr) (runtime.Value, error) {
	if distance, ok := i.locals[ref]; ok {
		v, err := i.environment.GetAt(distance, name.Lexeme)
		if err != nil {
			return nil, i.runtimeErr(name, err.Error())
		}
		return v, nil
	}
	v, err := i.globals.Get(name.Lexeme)
	if err != nil {
		return nil, i.runtimeErr(name, err.Error())
	}
	return v, nil
}

func (i *Interpreter) evaluateAssign(e *ast.Assign) (runtime.Value, error) {
	value, err := i.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	if distance, ok := i.locals[e]; ok {
		i.environment.AssignAt(distance, e.Name.Lexeme, value)
		return value, nil
	}
	if err := i.globals.Assign(e.Name.Lexeme, value); err != nil {
		return nil, i.runtimeErr(e.Name, err.Error())
	}
	return value, nil
}

func (i *Interpreter) evaluateUnary(e *ast.Unary) (runtime.Value, error) {
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op.Kind {
	case token.Bang:
		return runtime.BoolValue{Val: !runtime.IsTruthy(right)}, nil
	case token.Minus:
		n, err := i.checkNumberOperand(right, e.Op)
		if err != nil {
			return nil, err
		}
		return runtime.NumberValue{Val: -n}, nil
	default:
		panic("interpreter: unhandled unary operator")
	}
}

func (i *Interpreter) evaluateTernary(e *ast.Ternary) (runtime.Value, error) {
	cond, err := i.evaluate(e.Cond)
	if err != nil {
		return nil, err
	}
	if runtime.IsTruthy(cond) {
		return i.evaluate(e.Then)
	}
	return i.evaluate(e.Else)
}

func (i *Interpreter) evaluateLogical(e *ast.Logical) (runtime.Value, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op.Kind == token.Or {
		if runtime.IsTruthy(left) {
			return left, nil
		}
	} else {
		if !runtime.IsTruthy(left) {
			return left, nil
		}
	}
	return i.evaluate(e.Right)
}

func (i *Interpreter) evaluateBinary(e *ast.Binary) (runtime.Value, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.Plus:
		return i.evaluatePlus(left, right, e.Op)
	case token.Minus:
		ln, rn, err := i.checkNumberOperands(left, right, e.Op)
		if err != nil {
			return nil, err
		}
		return runtime.NumberValue{Val: ln - rn}, nil
	case token.Star:
		ln, rn, err := i.checkNumberOperands(left, right, e.Op)
		if err != nil {
			return nil, err
		}
		return runtime.NumberValue{Val: ln * rn}, nil
	case token.Slash:
		ln, rn, err := i.checkNumberOperands(left, right, e.Op)
		if err != nil {
			return nil, err
		}
		return runtime.NumberValue{Val: ln / rn}, nil
	case token.Greater:
		ln, rn, err := i.checkNumberOperands(left, right, e.Op)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: ln > rn}, nil
	case token.GreaterEqual:
		ln, rn, err := i.checkNumberOperands(left, right, e.Op)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: ln >= rn}, nil
	case token.Less:
		ln, rn, err := i.checkNumberOperands(left, right, e.Op)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: ln < rn}, nil
	case token.LessEqual:
		ln, rn, err := i.checkNumberOperands(left, right, e.Op)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: ln <= rn}, nil
	case token.EqualEqual:
		return runtime.BoolValue{Val: runtime.Equal(left, right)}, nil
	case token.BangEqual:
		return runtime.BoolValue{Val: !runtime.Equal(left, right)}, nil
	default:
		panic("interpreter: unhandled binary operator")
	}
}

// evaluatePlus implements spec.md §4.3's five-case '+' overload order.
func (i *Interpreter) evaluatePlus(left, right runtime.Value, op token.Token) (runtime.Value, error) {
	if ln, ok := left.(runtime.NumberValue); ok {
		if rn, ok := right.(runtime.NumberValue); ok {
			return runtime.NumberValue{Val: ln.Val + rn.Val}, nil
		}
	}
	if ls, ok := left.(runtime.StringValue); ok {
		if rs, ok := right.(runtime.StringValue); ok {
			return runtime.StringValue{Val: ls.Val + rs.Val}, nil
		}
	}
	if ls, ok := left.(runtime.StringValue); ok {
		if rn, ok := right.(runtime.NumberValue); ok {
			return runtime.StringValue{Val: ls.Val + Stringify(rn)}, nil
		}
	}
	if ln, ok := left.(runtime.NumberValue); ok {
		if rs, ok := right.(runtime.StringValue); ok {
			return runtime.StringValue{Val: Stringify(ln) + rs.Val}, nil
		}
	}
	if _, ok := left.(runtime.StringValue); ok {
		return runtime.StringValue{Val: Stringify(left) + Stringify(right)}, nil
	}
	if _, ok := right.(runtime.StringValue); ok {
		return runtime.StringValue{Val: Stringify(left) + Stringify(right)}, nil
	}
	return nil, i.runtimeErr(op, "Operands must be two numbers or two strings.")
}

func (i *Interpreter) checkNumberOperand(v runtime.Value, op token.Token) (float64, error) {
	if n, ok := v.(runtime.NumberValue); ok {
		return n.Val, nil
	}
	return 0, i.runtimeErr(op, "Operands must be a number.")
}

func (i *Interpreter) checkNumberOperands(left, right runtime.Value, op token.Token) (float64, float64, error) {
	ln, lok := left.(runtime.NumberValue)
	rn, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return 0, 0, i.runtimeErr(op, "Operands must be a number.")
	}
	return ln.Val, rn.Val, nil
}

//-----------------------------------------------------------------------------
// Property access, this/super, calls
//-----------------------------------------------------------------------------

func (i *Interpreter) evaluateGet(e *ast.Get) (runtime.Value, error) {
	obj, err := i.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *runtime.InstanceValue:
		if v, ok := o.Get(e.Name.Lexeme); ok {
			return v, nil
		}
		return nil, i.runtimeErr(e.Name, fmt.Sprintf("Undefined property '%s'.", e.Name.Lexeme))
	case *runtime.ClassValue:
		if v, ok := o.StaticFields[e.Name.Lexeme]; ok {
			return v, nil
		}
		return nil, i.runtimeErr(e.Name, fmt.Sprintf("Undefined property '%s'.", e.Name.Lexeme))
	default:
		return nil, i.runtimeErr(e.Name, "Only instances have properties.")
	}
}

func (i *Interpreter) evaluateSet(e *ast.Set) (runtime.Value, error) {
	obj, err := i.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*runtime.InstanceValue)
	if !ok {
		return nil, i.runtimeErr(e.Name, "Only instances have fields.")
	}
	value, err := i.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	inst.Set(e.Name.Lexeme, value)
	return value, nil
}

// evaluateSuper implements spec.md §4.3's super rule: using its recorded
// hop-count d, fetch the superclass from scope at d, the current
// instance from scope at d-1, and bind the named method to the instance.
func (i *Interpreter) evaluateSuper(e *ast.Super) (runtime.Value, error) {
	distance, ok := i.locals[e]
	if !ok {
		return nil, i.runtimeErr(e.Keyword, "Cannot resolve 'super'.")
	}
	superVal, err := i.environment.GetAt(distance, "super")
	if err != nil {
		return nil, i.runtimeErr(e.Keyword, err.Error())
	}
	superclass := superVal.(*runtime.ClassValue)

	thisVal, err := i.environment.GetAt(distance-1, "this")
	if err != nil {
		return nil, i.runtimeErr(e.Keyword, err.Error())
	}

	method, ok := superclass.FindMethod(e.Method.Lexeme)
	if !ok {
		return nil, i.runtimeErr(e.Method, fmt.Sprintf("Undefined property '%s'.", e.Method.Lexeme))
	}
	return runtime.Bind(thisVal, method), nil
}

func (i *Interpreter) evaluateCall(e *ast.Call) (runtime.Value, error) {
	callee, err := i.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]runtime.Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := i.evaluate(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	return i.callValue(callee, args, e.ClosingParen)
}

// callValue implements spec.md §4.3's function-call dispatch rule:
// check callability, check arity, then dispatch to the appropriate
// callable kind.
func (i *Interpreter) callValue(callee runtime.Value, args []runtime.Value, at token.Token) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		if err := i.checkArity(fn.Arity(), len(args), at); err != nil {
			return nil, err
		}
		return i.callFunction(fn, args)
	case *runtime.BoundMethodValue:
		if err := i.checkArity(fn.Arity(), len(args), at); err != nil {
			return nil, err
		}
		return i.callFunction(fn.Method, args)
	case *runtime.ClassValue:
		if err := i.checkArity(fn.Arity(), len(args), at); err != nil {
			return nil, err
		}
		return i.instantiate(fn, args)
	case *runtime.NativeFunctionValue:
		if err := i.checkArity(fn.Arity, len(args), at); err != nil {
			return nil, err
		}
		return fn.Impl(i.nativeContext(), args)
	default:
		return nil, i.runtimeErr(at, "Object is not callable.")
	}
}

func (i *Interpreter) checkArity(want, got int, at token.Token) error {
	if want != got {
		return i.runtimeErr(at, fmt.Sprintf("Expected %d arguments but got %d.", want, got))
	}
	return nil
}

// callFunction implements spec.md §4.3's user-function dispatch: a new
// environment is created whose parent is the function's captured
// environment, parameters are bound, the body runs, and a Return signal
// (or falling off the end) supplies the result — except an initializer,
// which always returns the `this` bound one hop out in its closure.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	env := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Declaration.Params {
		env.Define(param.Lexeme, args[idx])
	}

	err := i.executeBlock(fn.Declaration.Body, env)
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			if fn.IsInitializer {
				return fn.Closure.GetAt(0, "this")
			}
			return ret.value, nil
		}
		return nil, err
	}

	if fn.IsInitializer {
		return fn.Closure.GetAt(0, "this")
	}
	return runtime.NilValue{}, nil
}

// instantiate implements spec.md §4.3's Class dispatch: allocate a fresh
// instance, invoke __init__ bound to it if present, and return the
// instance (never the initializer's own return value).
func (i *Interpreter) instantiate(class *runtime.ClassValue, args []runtime.Value) (runtime.Value, error) {
	instance := runtime.NewInstance(class)
	if init, ok := class.FindMethod("__init__"); ok {
		bound := runtime.Bind(instance, init)
		if _, err := i.callFunction(bound.Method, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}
