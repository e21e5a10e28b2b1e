package backend

import (
	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/ir"
)

func (c *Compiler) expression(e ast.Expression, s scope) (ir.Expr, error) {
	switch e := e.(type) {
	case *ast.Number:
		return &ir.Number{Value: e.Value}, nil
	case *ast.Boolean:
		return &ir.Boolean{Value: e.Value}, nil
	case *ast.String:
		return &ir.String{Value: e.Value}, nil
	case *ast.None:
		return &ir.Unit{}, nil
	case *ast.Variable:
		return &ir.Variable{Name: e.Name}, nil

	case *ast.Application:
		head, arguments := ast.ApplicationSpine(e)
		function, err := c.expression(head, s)
		if err != nil {
			return nil, err
		}
		args, err := c.expressions(arguments, s)
		if err != nil {
			return nil, err
		}
		return &ir.Call{Function: function, Arguments: args}, nil

	case *ast.If:
		operands, err := c.expressions([]ast.Expression{e.Condition, e.Then, e.Else}, s)
		if err != nil {
			return nil, err
		}
		return ir.NewIf(operands[0], operands[1], operands[2]), nil

	case *ast.Let:
		return c.let(e, s)

	case *ast.Case:
		return c.caseExpression(e, s)

	case *ast.ArithmeticOperation:
		operands, err := c.expressions([]ast.Expression{e.Lhs, e.Rhs}, s)
		if err != nil {
			return nil, err
		}
		return &ir.ArithmeticOperation{Operator: arithmeticOperators[e.Operator], Lhs: operands[0], Rhs: operands[1]}, nil

	case *ast.OrderOperation:
		operands, err := c.expressions([]ast.Expression{e.Lhs, e.Rhs}, s)
		if err != nil {
			return nil, err
		}
		return &ir.ComparisonOperation{Operator: orderOperators[e.Operator], Lhs: operands[0], Rhs: operands[1]}, nil

	case *ast.EqualityOperation:
		return c.equality(e, s)

	case *ast.RecordConstruction:
		return c.recordConstruction(e, s)

	case *ast.RecordElementOperation:
		record, ok, err := c.services.Resolver.ResolveToRecord(e.Type)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ilerr.New(ilerr.NewRecordExpected{Positioner: e.Range, Type: e.Type})
		}
		_, index, ok := record.Field(e.Field)
		if !ok {
			return nil, ilerr.New(ilerr.NewRecordFieldNotFound{Positioner: e.Range, Record: record.Name, Field: e.Field})
		}
		argument, err := c.expression(e.Record, s)
		if err != nil {
			return nil, err
		}
		return &ir.RecordElement{Record: record.Name, Index: index, Argument: argument}, nil

	case *ast.TypeCoercion:
		return c.coercion(e, s)

	case *ast.BooleanOperation, *ast.RecordUpdate, *ast.List, *ast.ListCase, *ast.Pipe:
		ilerr.Unreachable("%T left for lowering at %v", e, e.Pos())
	}
	ilerr.Unreachable("unexpected expression %T", e)
	return nil, nil
}

func (c *Compiler) expressions(es []ast.Expression, s scope) ([]ir.Expr, error) {
	out := make([]ir.Expr, 0, len(es))
	for _, e := range es {
		lowered, err := c.expression(e, s)
		if err != nil {
			return nil, err
		}
		out = append(out, lowered)
	}
	return out, nil
}

// equality lowers the comparisons desugaring leaves: those of numbers and of strings
func (c *Compiler) equality(e *ast.EqualityOperation, s scope) (ir.Expr, error) {
	ilerr.Assert(e.Operator == ast.Equal, "%v left for lowering at %v", e.Operator, e.Pos())
	resolved, err := c.services.Resolver.Resolve(e.Type)
	if err != nil {
		return nil, err
	}
	switch resolved.(type) {
	case *types.Number, *types.String:
	default:
		ilerr.Unreachable("equality of %v left for lowering", e.Type)
	}
	operands, err := c.expressions([]ast.Expression{e.Lhs, e.Rhs}, s)
	if err != nil {
		return nil, err
	}
	return &ir.ComparisonOperation{Operator: ir.Equal, Lhs: operands[0], Rhs: operands[1]}, nil
}

// recordConstruction lays out the fields of e in the order of its record type
func (c *Compiler) recordConstruction(e *ast.RecordConstruction, s scope) (ir.Expr, error) {
	record, ok, err := c.services.Resolver.ResolveToRecord(e.Type)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ilerr.New(ilerr.NewRecordExpected{Positioner: e.Range, Type: e.Type})
	}
	byName := make(map[string]ast.Expression, len(e.Fields))
	for _, f := range e.Fields {
		if _, _, ok := record.Field(f.Name); !ok {
			return nil, ilerr.New(ilerr.NewRecordFieldNotFound{Positioner: e.Range, Record: record.Name, Field: f.Name})
		}
		byName[f.Name] = f.Expression
	}
	elements := make([]ir.Expr, 0, len(record.Fields))
	for _, field := range record.Fields {
		value, ok := byName[field.Name]
		if !ok {
			return nil, ilerr.New(ilerr.NewRecordFieldNotFound{Positioner: e.Range, Record: record.Name, Field: field.Name})
		}
		lowered, err := c.expression(value, s)
		if err != nil {
			return nil, err
		}
		elements = append(elements, lowered)
	}
	return &ir.RecordConstruction{Record: record.Name, Elements: elements}, nil
}
