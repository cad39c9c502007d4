package runtime

import "github.com/davidkellis/lox-interp/pkg/ast"

// Kind tags a Value's runtime category, mirroring the teacher's
// Kind()-tagged value system (pkg/runtime/values.go).
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindNativeFunction
	KindBoundMethod
	KindClass
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	case KindBoundMethod:
		return "bound_method"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// Value is the closed sum described in spec.md §3: Nil | Bool | Number |
// String | Callable, where Callable is FunctionValue, ClassValue, or
// NativeFunctionValue (plus BoundMethodValue, which is a callable
// FunctionValue with `this` pre-bound).
type Value interface {
	Kind() Kind
}

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// FunctionValue is a user-defined function or method: its declaration
// plus the environment captured at the point it was evaluated (its
// closure), and whether it is a class initializer (__init__).
type FunctionValue struct {
	Name          string // empty for anonymous functions
	Declaration   *ast.Function
	Closure       *Environment
	IsInitializer bool
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

func (v *FunctionValue) Arity() int {
	return len(v.Declaration.Params)
}

// NativeCallContext gives a native/built-in function access to the
// interpreter's I/O surface without importing pkg/interpreter.
type NativeCallContext struct {
	Stdout ValueWriter
	Stdin  ValueReader
}

// ValueWriter/ValueReader let pkg/interpreter inject its actual I/O
// streams into native functions without a direct import cycle.
type ValueWriter interface {
	WriteString(s string) (int, error)
}

type ValueReader interface {
	ReadLine() (string, error)
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// NativeFunctionValue is a built-in global (clock, input, print, println).
type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v *NativeFunctionValue) Kind() Kind { return KindNativeFunction }

// BoundMethodValue is a FunctionValue with an extra environment layer on
// top of its closure binding `this` to Receiver (spec.md §4.3, Property
// access). Exactly one extra scope above Method.Closure, per spec.md §8.
type BoundMethodValue struct {
	Receiver Value
	Method   *FunctionValue
}

func (v *BoundMethodValue) Kind() Kind { return KindBoundMethod }

func (v *BoundMethodValue) Arity() int {
	return v.Method.Arity()
}

// ClassValue is itself callable (constructing an instance) and is also
// an instance in its own right, carrying static fields (spec.md §3).
type ClassValue struct {
	Name       string
	Superclass *ClassValue // nil for a root class
	Methods    map[string]*FunctionValue
	// StaticFields backs `this`-free Get on the class object itself
	// (static field access in spec.md's Class/Instance data model). Set
	// on a class object is a runtime error; only instances take fields.
	StaticFields map[string]Value
}

func (v *ClassValue) Kind() Kind { return KindClass }

// FindMethod walks the class's own method table, then its superclass
// chain (spec.md §4.3, Property access / super resolution).
func (v *ClassValue) FindMethod(name string) (*FunctionValue, bool) {
	if m, ok := v.Methods[name]; ok {
		return m, true
	}
	if v.Superclass != nil {
		return v.Superclass.FindMethod(name)
	}
	return nil, false
}

// Arity mirrors the class's initializer: `__init__`'s arity, or 0 if
// there is none (spec.md §8, Class equality invariant).
func (v *ClassValue) Arity() int {
	if init, ok := v.FindMethod("__init__"); ok {
		return init.Arity()
	}
	return 0
}

// InstanceValue owns a field mapping and a reference to its class.
type InstanceValue struct {
	Class  *ClassValue
	Fields map[string]Value
}

func (v *InstanceValue) Kind() Kind { return KindInstance }

func NewInstance(class *ClassValue) *InstanceValue {
	return &InstanceValue{Class: class, Fields: make(map[string]Value)}
}

// Get looks up a field, then a bound method, per spec.md §4.3.
func (v *InstanceValue) Get(name string) (Value, bool) {
	if f, ok := v.Fields[name]; ok {
		return f, true
	}
	if m, ok := v.Class.FindMethod(name); ok {
		return Bind(v, m), true
	}
	return nil, false
}

// Set stores a field on the instance, creating the slot if absent.
func (v *InstanceValue) Set(name string, value Value) {
	v.Fields[name] = value
}

// Bind wraps a method in a new environment layer defining `this`,
// producing a BoundMethodValue (spec.md §4.3 / §8 method-binding
// invariant).
func Bind(receiver Value, method *FunctionValue) *BoundMethodValue {
	env := NewEnvironment(method.Closure)
	env.Define("this", receiver)
	bound := &FunctionValue{
		Name:          method.Name,
		Declaration:   method.Declaration,
		Closure:       env,
		IsInitializer: method.IsInitializer,
	}
	return &BoundMethodValue{Receiver: receiver, Method: bound}
}

// IsTruthy implements spec.md §4.3: Nil and Bool(false) are falsy, all
// other values are truthy.
func IsTruthy(v Value) bool {
	switch t := v.(type) {
	case NilValue:
		return false
	case BoolValue:
		return t.Val
	default:
		return true
	}
}

// Equal implements spec.md §3's value equality: Nil=Nil; otherwise by
// host equality on same-typed pairs; mixed types are unequal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Val == bv.Val
	case NumberValue:
		bv, ok := b.(NumberValue)
		return ok && av.Val == bv.Val
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Val == bv.Val
	default:
		return a == b
	}
}
