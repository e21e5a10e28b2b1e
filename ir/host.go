package ir

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ListValue is a cons cell of the lists HostList provides. The empty list is a nil *ListValue.
// Elements are variants, since lists store their elements as Any.
type ListValue struct {
	First Value
	Rest  *ListValue
}

// ListNames are the globals HostList defines
type ListNames struct {
	Empty       string
	Prepend     string
	Concatenate string
	Equal       string
	Deconstruct string
	First       string
	Rest        string
}

// ListTags are the tags of the members of the union Deconstruct returns
type ListTags struct {
	FirstRest uint64
	None      uint64
}

// HostList implements the list library as cons cells
func HostList(names ListNames, tags ListTags) map[string]Value {
	list := func(v Value) (*ListValue, error) {
		l, ok := v.(*ListValue)
		if !ok {
			return nil, errors.Errorf("expected a list, found %T", v)
		}
		return l, nil
	}
	nonEmpty := func(v Value) (*ListValue, error) {
		l, err := list(v)
		if err == nil && l == nil {
			err = errors.New("expected a non-empty list")
		}
		return l, err
	}

	return map[string]Value{
		names.Empty: (*ListValue)(nil),
		names.Prepend: &HostFunction{Name: names.Prepend, Arity: 2, Call: func(_ *Interpreter, args []Value) (Value, error) {
			rest, err := list(args[1])
			if err != nil {
				return nil, err
			}
			return &ListValue{First: args[0], Rest: rest}, nil
		}},
		names.Concatenate: &HostFunction{Name: names.Concatenate, Arity: 2, Call: func(_ *Interpreter, args []Value) (Value, error) {
			front, err := list(args[0])
			if err != nil {
				return nil, err
			}
			back, err := list(args[1])
			if err != nil {
				return nil, err
			}
			var elems []Value
			for l := front; l != nil; l = l.Rest {
				elems = append(elems, l.First)
			}
			for i := len(elems) - 1; i >= 0; i-- {
				back = &ListValue{First: elems[i], Rest: back}
			}
			return back, nil
		}},
		names.Equal: &HostFunction{Name: names.Equal, Arity: 3, Call: func(i *Interpreter, args []Value) (Value, error) {
			a, err := list(args[1])
			if err != nil {
				return nil, err
			}
			b, err := list(args[2])
			if err != nil {
				return nil, err
			}
			for ; a != nil && b != nil; a, b = a.Rest, b.Rest {
				eq, err := i.Apply(args[0], a.First, b.First)
				if err != nil {
					return nil, err
				}
				if eq != true {
					return false, nil
				}
			}
			return a == nil && b == nil, nil
		}},
		names.Deconstruct: &HostFunction{Name: names.Deconstruct, Arity: 1, Call: func(_ *Interpreter, args []Value) (Value, error) {
			l, err := list(args[0])
			if err != nil {
				return nil, err
			}
			if l == nil {
				return VariantValue{Tag: tags.None, Payload: UnitValue{}}, nil
			}
			return VariantValue{Tag: tags.FirstRest, Payload: l}, nil
		}},
		names.First: &HostFunction{Name: names.First, Arity: 1, Call: func(_ *Interpreter, args []Value) (Value, error) {
			l, err := nonEmpty(args[0])
			if err != nil {
				return nil, err
			}
			return l.First, nil
		}},
		names.Rest: &HostFunction{Name: names.Rest, Arity: 1, Call: func(_ *Interpreter, args []Value) (Value, error) {
			l, err := nonEmpty(args[0])
			if err != nil {
				return nil, err
			}
			return l.Rest, nil
		}},
	}
}

// FormatValue renders v the way the source language would write it.
// Variants are shown as their payload.
func FormatValue(v Value) string {
	sb := &strings.Builder{}
	formatValue(sb, v)
	return sb.String()
}

func formatValue(sb *strings.Builder, v Value) {
	switch v := v.(type) {
	case float64:
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case bool:
		sb.WriteString(strconv.FormatBool(v))
	case string:
		sb.WriteString(strconv.Quote(v))
	case UnitValue:
		sb.WriteString("none")
	case VariantValue:
		formatValue(sb, v.Payload)
	case *RecordValue:
		sb.WriteString(v.Record)
		sb.WriteString("{")
		for i, field := range v.Fields {
			if i != 0 {
				sb.WriteString(", ")
			}
			formatValue(sb, field)
		}
		sb.WriteString("}")
	case *ListValue:
		sb.WriteString("[")
		for l := v; l != nil; l = l.Rest {
			if l != v {
				sb.WriteString(", ")
			}
			formatValue(sb, l.First)
		}
		sb.WriteString("]")
	case *Closure:
		sb.WriteString("<function " + v.Definition.Name + ">")
	case *HostFunction:
		sb.WriteString("<function " + v.Name + ">")
	case *Partial:
		sb.WriteString("<partial application>")
	default:
		sb.WriteString("<unknown>")
	}
}
