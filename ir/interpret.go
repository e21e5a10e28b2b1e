package ir

import (
	"github.com/benbjohnson/immutable"
	"github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"
)

// Value is a runtime value:
// float64, bool, string, Unit, *Record, Variant, or a callable (*Closure, *HostFunction, *Partial),
// or a value only the host knows about, like the lists of HostList
type Value any

type UnitValue struct{}

type RecordValue struct {
	Record string
	Fields []Value
}

type VariantValue struct {
	Tag     uint64
	Payload Value
}

// Closure is a FunctionDefinition with the values of its environment
type Closure struct {
	Definition  *FunctionDefinition
	Environment []Value
}

// HostFunction is a global provided by the host instead of by a module
type HostFunction struct {
	Name  string
	Arity int
	Call  func(i *Interpreter, args []Value) (Value, error)
}

// Partial is a callable applied to fewer arguments than it takes
type Partial struct {
	Callee    Value
	Arguments []Value
}

type locals = *immutable.Map[string, Value]

// Interpreter evaluates lowered modules. Globals are looked up in the modules it was
// created with, in order, and then in the host functions. When several modules define
// the same global, the first one is used.
type Interpreter struct {
	functions map[string]*FunctionDefinition
	values    map[string]*GlobalValue
	host      map[string]Value

	cache      map[string]Value
	evaluating *set.Set[string]
}

func NewInterpreter(host map[string]Value, modules ...*Module) *Interpreter {
	i := &Interpreter{
		functions:  make(map[string]*FunctionDefinition),
		values:     make(map[string]*GlobalValue),
		host:       host,
		cache:      make(map[string]Value),
		evaluating: set.New[string](4),
	}
	for _, m := range modules {
		for _, f := range m.Functions {
			if !i.defined(f.Name) {
				i.functions[f.Name] = f
			}
		}
		for _, v := range m.Values {
			if !i.defined(v.Name) {
				i.values[v.Name] = v
			}
		}
	}
	return i
}

func (i *Interpreter) defined(name string) bool {
	_, isFunction := i.functions[name]
	_, isValue := i.values[name]
	return isFunction || isValue
}

// Global returns the value of the global name, evaluating it first if needed
func (i *Interpreter) Global(name string) (Value, error) {
	if v, ok := i.cache[name]; ok {
		return v, nil
	}
	var v Value
	if f, ok := i.functions[name]; ok {
		v = &Closure{Definition: f}
	} else if global, ok := i.values[name]; ok {
		if i.evaluating.Contains(name) {
			return nil, errors.Errorf("global %s depends on its own value", name)
		}
		i.evaluating.Insert(name)
		var err error
		v, err = i.evaluate(global.Body, immutable.NewMap[string, Value](nil))
		i.evaluating.Remove(name)
		if err != nil {
			return nil, errors.Wrapf(err, "evaluating %s", name)
		}
	} else if host, ok := i.host[name]; ok {
		v = host
	} else {
		return nil, errors.Errorf("global %s is not defined", name)
	}
	i.cache[name] = v
	return v, nil
}

// Evaluate evaluates e, where only globals are in scope
func (i *Interpreter) Evaluate(e Expr) (Value, error) {
	return i.evaluate(e, immutable.NewMap[string, Value](nil))
}

// Apply calls f with args, currying as needed
func (i *Interpreter) Apply(f Value, args ...Value) (Value, error) {
	for {
		var arity int
		switch callee := f.(type) {
		case *Closure:
			arity = len(callee.Definition.Arguments)
		case *HostFunction:
			arity = callee.Arity
		case *Partial:
			f = callee.Callee
			args = append(append([]Value{}, callee.Arguments...), args...)
			continue
		default:
			return nil, errors.Errorf("cannot call %T", f)
		}

		if len(args) < arity {
			return &Partial{Callee: f, Arguments: args}, nil
		}
		result, err := i.call(f, args[:arity])
		if err != nil || len(args) == arity {
			return result, err
		}
		f, args = result, args[arity:]
	}
}

func (i *Interpreter) call(f Value, args []Value) (Value, error) {
	switch f := f.(type) {
	case *HostFunction:
		return f.Call(i, args)
	case *Closure:
		def := f.Definition
		b := immutable.NewMapBuilder[string, Value](nil)
		for n, captured := range def.Environment {
			b.Set(captured.Name, f.Environment[n])
		}
		b.Set(def.Name, f)
		for n, arg := range def.Arguments {
			b.Set(arg.Name, args[n])
		}
		return i.evaluate(def.Body, b.Map())
	}
	return nil, errors.Errorf("cannot call %T", f)
}

func (i *Interpreter) lookup(name string, scope locals) (Value, error) {
	if v, ok := scope.Get(name); ok {
		return v, nil
	}
	return i.Global(name)
}

func (i *Interpreter) evaluate(e Expr, scope locals) (Value, error) {
	switch e := e.(type) {
	case *Number:
		return e.Value, nil
	case *Boolean:
		return e.Value, nil
	case *String:
		return e.Value, nil
	case *Unit:
		return UnitValue{}, nil
	case *Variable:
		return i.lookup(e.Name, scope)

	case *Call:
		f, err := i.evaluate(e.Function, scope)
		if err != nil {
			return nil, err
		}
		args := make([]Value, 0, len(e.Arguments))
		for _, arg := range e.Arguments {
			v, err := i.evaluate(arg, scope)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		return i.Apply(f, args...)

	case *Let:
		v, err := i.evaluate(e.Bound, scope)
		if err != nil {
			return nil, err
		}
		return i.evaluate(e.Body, scope.Set(e.Name, v))

	case *LetRecursive:
		closures := make([]*Closure, 0, len(e.Functions))
		for _, f := range e.Functions {
			closure := &Closure{Definition: f, Environment: make([]Value, len(f.Environment))}
			closures = append(closures, closure)
			scope = scope.Set(f.Name, closure)
		}
		for _, closure := range closures {
			for n, captured := range closure.Definition.Environment {
				v, err := i.lookup(captured.Name, scope)
				if err != nil {
					return nil, err
				}
				closure.Environment[n] = v
			}
		}
		return i.evaluate(e.Body, scope)

	case *ArithmeticOperation:
		lhs, rhs, err := i.numbers(e.Lhs, e.Rhs, scope)
		if err != nil {
			return nil, err
		}
		switch e.Operator {
		case Add:
			return lhs + rhs, nil
		case Subtract:
			return lhs - rhs, nil
		case Multiply:
			return lhs * rhs, nil
		case Divide:
			return lhs / rhs, nil
		}
		return nil, errors.Errorf("unknown arithmetic operator %d", e.Operator)

	case *ComparisonOperation:
		return i.compare(e, scope)

	case *AlgebraicCase:
		v, err := i.evaluate(e.Argument, scope)
		if err != nil {
			return nil, err
		}
		b, ok := v.(bool)
		if !ok {
			return nil, errors.Errorf("algebraic case over %T", v)
		}
		index := False.Index
		if b {
			index = True.Index
		}
		for _, alt := range e.Alternatives {
			if alt.Constructor.Index == index {
				return i.evaluate(alt.Expression, scope)
			}
		}
		if e.Default != nil {
			return i.evaluate(e.Default, scope)
		}
		return nil, errors.Errorf("no alternative for %v", b)

	case *VariantCase:
		v, err := i.evaluate(e.Argument, scope)
		if err != nil {
			return nil, err
		}
		variant, ok := v.(VariantValue)
		if !ok {
			return nil, errors.Errorf("variant case over %T", v)
		}
		for _, alt := range e.Alternatives {
			if alt.Tag == variant.Tag {
				return i.evaluate(alt.Expression, scope.Set(alt.Name, variant.Payload))
			}
		}
		if e.Default != nil {
			return i.evaluate(e.Default.Expression, scope.Set(e.Default.Name, variant))
		}
		return nil, errors.Errorf("no alternative for tag %016x", variant.Tag)

	case *Variant:
		payload, err := i.evaluate(e.Payload, scope)
		if err != nil {
			return nil, err
		}
		return VariantValue{Tag: e.Tag, Payload: payload}, nil

	case *RecordConstruction:
		fields := make([]Value, 0, len(e.Elements))
		for _, elem := range e.Elements {
			v, err := i.evaluate(elem, scope)
			if err != nil {
				return nil, err
			}
			fields = append(fields, v)
		}
		return &RecordValue{Record: e.Record, Fields: fields}, nil

	case *RecordElement:
		v, err := i.evaluate(e.Argument, scope)
		if err != nil {
			return nil, err
		}
		record, ok := v.(*RecordValue)
		if !ok || record.Record != e.Record {
			return nil, errors.Errorf("expected a record %s, found %v", e.Record, v)
		}
		return record.Fields[e.Index], nil
	}
	panic(errors.Errorf("unexpected expression %T", e))
}

func (i *Interpreter) numbers(lhs, rhs Expr, scope locals) (float64, float64, error) {
	l, err := i.evaluate(lhs, scope)
	if err != nil {
		return 0, 0, err
	}
	r, err := i.evaluate(rhs, scope)
	if err != nil {
		return 0, 0, err
	}
	lf, lok := l.(float64)
	rf, rok := r.(float64)
	if !lok || !rok {
		return 0, 0, errors.Errorf("expected numbers, found %T and %T", l, r)
	}
	return lf, rf, nil
}

func (i *Interpreter) compare(e *ComparisonOperation, scope locals) (Value, error) {
	if e.Operator == Equal {
		l, err := i.evaluate(e.Lhs, scope)
		if err != nil {
			return nil, err
		}
		r, err := i.evaluate(e.Rhs, scope)
		if err != nil {
			return nil, err
		}
		switch l.(type) {
		case float64, string:
			return l == r, nil
		}
		return nil, errors.Errorf("cannot compare %T values", l)
	}
	l, r, err := i.numbers(e.Lhs, e.Rhs, scope)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case LessThan:
		return l < r, nil
	case LessThanOrEqual:
		return l <= r, nil
	case GreaterThan:
		return l > r, nil
	case GreaterThanOrEqual:
		return l >= r, nil
	}
	return nil, errors.Errorf("unknown comparison operator %d", e.Operator)
}
