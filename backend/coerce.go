package backend

import (
	"slices"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/ir"
)

// coercion lowers the widening of a value from one type to another.
//
//   - into a union or Any, a value that is not a variant yet is tagged with its type;
//     variants are already stored the same way for every union and for Any.
//   - out of a union into a function type, the variant is matched and every member coerced.
//   - between function types, the function is wrapped in a closure coercing its argument
//     and its result.
func (c *Compiler) coercion(e *ast.TypeCoercion, s scope) (ir.Expr, error) {
	equal, err := c.services.Equality.Equal(e.From, e.To)
	if err != nil {
		return nil, err
	}
	if equal {
		return c.expression(e.Argument, s)
	}
	fromVariant, err := c.isVariant(e.From)
	if err != nil {
		return nil, err
	}
	toVariant, err := c.isVariant(e.To)
	if err != nil {
		return nil, err
	}

	switch {
	case fromVariant && toVariant:
		return c.expression(e.Argument, s)
	case toVariant:
		return c.variant(e, s)
	case fromVariant:
		unwrapped, err := c.unwrap(e)
		if err != nil {
			return nil, err
		}
		return c.expression(unwrapped, s)
	}

	from, fromFunction, err := c.services.Resolver.ResolveToFunction(e.From)
	if err != nil {
		return nil, err
	}
	to, toFunction, err := c.services.Resolver.ResolveToFunction(e.To)
	if err != nil {
		return nil, err
	}
	ilerr.Assert(fromFunction && toFunction, "no coercion from %v to %v", e.From, e.To)
	wrapper, err := c.functionWrapper(e, from, to)
	if err != nil {
		return nil, err
	}
	return c.expression(wrapper, s)
}

// variant tags the value of e with the member of e.To it belongs to
func (c *Compiler) variant(e *ast.TypeCoercion, s scope) (ir.Expr, error) {
	member := e.From
	argument := e.Argument
	tag, err := c.tags.Tag(member)
	if err != nil {
		return nil, err
	}

	if union, ok, err := c.services.Resolver.ResolveToUnion(e.To); err != nil {
		return nil, err
	} else if ok {
		// a function can belong to a union through a wider function type,
		// in which case it is tagged as that member
		tags, err := c.tags.Tags(union.Members)
		if err != nil {
			return nil, err
		}
		if _, found := slices.BinarySearch(tags, tag); !found {
			wider, err := c.widerMember(member, union)
			if err != nil {
				return nil, err
			}
			argument = &ast.TypeCoercion{Range: e.Range, From: member, To: wider, Argument: argument}
			member = wider
			if tag, err = c.tags.Tag(member); err != nil {
				return nil, err
			}
		}
	}

	payload, err := c.expression(argument, s)
	if err != nil {
		return nil, err
	}
	payloadType, err := c.compileType(member)
	if err != nil {
		return nil, err
	}
	return &ir.Variant{Tag: tag, Type: payloadType, Payload: payload}, nil
}

func (c *Compiler) widerMember(t types.Type, union *types.Union) (types.Type, error) {
	for _, m := range union.Members {
		ok, err := c.services.Subtype.IsSubtype(t, m)
		if err != nil {
			return nil, err
		}
		if ok {
			return m, nil
		}
	}
	ilerr.Unreachable("%v is not a member of %v", t, union)
	return nil, nil
}

// unwrap matches the variant e.Argument against every member of e.From:
//
//	case x of m1 $v -> ($v as m1 => To) | m2 $v -> ($v as m2 => To) ...
func (c *Compiler) unwrap(e *ast.TypeCoercion) (ast.Expression, error) {
	members, err := c.services.Members(e.From)
	if err != nil {
		return nil, err
	}
	name := c.names.Next()
	alternatives := make([]ast.Alternative, 0, len(members))
	for _, m := range members {
		value, err := c.coerced(&ast.Variable{Range: e.Range, Name: name}, m, e.To)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, ast.Alternative{Type: m, Name: name, Expression: value})
	}
	return &ast.Case{Range: e.Range, Type: e.From, Argument: e.Argument, Alternatives: alternatives}, nil
}

// functionWrapper builds a closure calling e.Argument:
//
//	let $f = e in let $c $x = (($f ($x as To.Argument => From.Argument)) as From.Result => To.Result) in $c
func (c *Compiler) functionWrapper(e *ast.TypeCoercion, from, to *types.Function) (ast.Expression, error) {
	function, argument, closure := c.names.Next(), c.names.Next(), c.names.Next()
	arg, err := c.coerced(&ast.Variable{Range: e.Range, Name: argument}, to.Argument, from.Argument)
	if err != nil {
		return nil, err
	}
	call, err := c.coerced(&ast.Application{Range: e.Range, Function: &ast.Variable{Range: e.Range, Name: function}, Argument: arg}, from.Result, to.Result)
	if err != nil {
		return nil, err
	}
	return &ast.Let{
		Range:       e.Range,
		Definitions: []ast.Definition{&ast.ValueDefinition{Range: e.Range, Name: function, Type: e.From, Body: e.Argument}},
		Expression: &ast.Let{
			Range: e.Range,
			Definitions: []ast.Definition{&ast.FunctionDefinition{
				Range:     e.Range,
				Name:      closure,
				Arguments: []string{argument},
				Type:      e.To,
				Body:      call,
			}},
			Expression: &ast.Variable{Range: e.Range, Name: closure},
		},
	}, nil
}

// coerced is e as a value of type to, when it is of type from
func (c *Compiler) coerced(e ast.Expression, from, to types.Type) (ast.Expression, error) {
	equal, err := c.services.Equality.Equal(from, to)
	if err != nil || equal {
		return e, err
	}
	return &ast.TypeCoercion{Range: source.RangeOf(e), From: from, To: to, Argument: e}, nil
}
