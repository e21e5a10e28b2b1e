package ir

import (
	"cmp"

	"github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"
)

// FreeVariables returns the names e uses without binding them, in sorted order
func FreeVariables(e Expr) *set.TreeSet[string] {
	free := set.NewTreeSet[string](cmp.Compare[string])
	freeVariables(e, set.New[string](0), free)
	return free
}

// FunctionFreeVariables returns the names the body of f uses other than its own arguments
// and its own name
func FunctionFreeVariables(f *FunctionDefinition) *set.TreeSet[string] {
	bound := set.New[string](len(f.Arguments) + 1)
	bound.Insert(f.Name)
	for _, arg := range f.Arguments {
		bound.Insert(arg.Name)
	}
	free := set.NewTreeSet[string](cmp.Compare[string])
	freeVariables(f.Body, bound, free)
	return free
}

func with(bound *set.Set[string], names ...string) *set.Set[string] {
	next := bound.Copy()
	next.InsertSlice(names)
	return next
}

func freeVariables(e Expr, bound *set.Set[string], free *set.TreeSet[string]) {
	switch e := e.(type) {
	case *Number, *Boolean, *String, *Unit:
	case *Variable:
		if !bound.Contains(e.Name) {
			free.Insert(e.Name)
		}
	case *Call:
		freeVariables(e.Function, bound, free)
		for _, arg := range e.Arguments {
			freeVariables(arg, bound, free)
		}
	case *Let:
		freeVariables(e.Bound, bound, free)
		freeVariables(e.Body, with(bound, e.Name), free)
	case *LetRecursive:
		names := make([]string, 0, len(e.Functions))
		for _, f := range e.Functions {
			names = append(names, f.Name)
		}
		inner := with(bound, names...)
		for _, f := range e.Functions {
			args := make([]string, 0, len(f.Arguments))
			for _, arg := range f.Arguments {
				args = append(args, arg.Name)
			}
			freeVariables(f.Body, with(inner, args...), free)
		}
		freeVariables(e.Body, inner, free)
	case *ArithmeticOperation:
		freeVariables(e.Lhs, bound, free)
		freeVariables(e.Rhs, bound, free)
	case *ComparisonOperation:
		freeVariables(e.Lhs, bound, free)
		freeVariables(e.Rhs, bound, free)
	case *AlgebraicCase:
		freeVariables(e.Argument, bound, free)
		for _, alt := range e.Alternatives {
			freeVariables(alt.Expression, bound, free)
		}
		if e.Default != nil {
			freeVariables(e.Default, bound, free)
		}
	case *VariantCase:
		freeVariables(e.Argument, bound, free)
		for _, alt := range e.Alternatives {
			freeVariables(alt.Expression, with(bound, alt.Name), free)
		}
		if e.Default != nil {
			freeVariables(e.Default.Expression, with(bound, e.Default.Name), free)
		}
	case *Variant:
		freeVariables(e.Payload, bound, free)
	case *RecordConstruction:
		for _, elem := range e.Elements {
			freeVariables(elem, bound, free)
		}
	case *RecordElement:
		freeVariables(e.Argument, bound, free)
	default:
		panic(errors.Errorf("unexpected expression %T", e))
	}
}
