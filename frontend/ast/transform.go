package ast

import (
	"fmt"

	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/frontend/types"
)

// Transformer rebuilds expression trees bottom-up.
//
// OnType is applied to every known type slot of a node before OnExpression sees the node,
// and OnExpression is applied to a node after all of its children were transformed.
// OnUnknownType fills type slots that are still nil, given the node they belong to.
// Any of them may be nil. Input trees are never modified.
type Transformer struct {
	OnExpression  func(Expression) (Expression, error)
	OnType        func(types.Type) (types.Type, error)
	OnUnknownType func(at source.Positioner) types.Type
}

func (t Transformer) typ(typ types.Type, at source.Positioner) (types.Type, error) {
	if typ == nil {
		if t.OnUnknownType == nil {
			return nil, nil
		}
		return t.OnUnknownType(at), nil
	}
	if t.OnType == nil {
		return typ, nil
	}
	return t.OnType(typ)
}

func (t Transformer) TransformModule(m *Module) (*Module, error) {
	definitions := make([]Definition, 0, len(m.Definitions))
	for _, def := range m.Definitions {
		newDef, err := t.TransformDefinition(def)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, newDef)
	}
	typeDefinitions := make([]*TypeDefinition, 0, len(m.TypeDefinitions))
	for _, def := range m.TypeDefinitions {
		newType, err := t.typ(def.Type, def)
		if err != nil {
			return nil, err
		}
		typeDefinitions = append(typeDefinitions, &TypeDefinition{Range: def.Range, Name: def.Name, Type: newType})
	}
	next := m.WithDefinitions(definitions)
	next.TypeDefinitions = typeDefinitions
	return next, nil
}

func (t Transformer) TransformDefinition(def Definition) (Definition, error) {
	switch def := def.(type) {
	case *FunctionDefinition:
		typ, err := t.typ(def.Type, def)
		if err != nil {
			return nil, err
		}
		body, err := t.TransformExpression(def.Body)
		if err != nil {
			return nil, err
		}
		return &FunctionDefinition{Range: def.Range, Name: def.Name, Arguments: def.Arguments, Type: typ, Body: body}, nil
	case *ValueDefinition:
		typ, err := t.typ(def.Type, def)
		if err != nil {
			return nil, err
		}
		body, err := t.TransformExpression(def.Body)
		if err != nil {
			return nil, err
		}
		return &ValueDefinition{Range: def.Range, Name: def.Name, Type: typ, Body: body}, nil
	}
	panic(fmt.Sprintf("unexpected definition %T", def))
}

func (t Transformer) TransformExpression(e Expression) (Expression, error) {
	rebuilt, err := t.children(e)
	if err != nil {
		return nil, err
	}
	if t.OnExpression == nil {
		return rebuilt, nil
	}
	return t.OnExpression(rebuilt)
}

func (t Transformer) children(e Expression) (Expression, error) {
	var err error
	// rec transforms a child, keeping the first error
	rec := func(child Expression) Expression {
		if err != nil || child == nil {
			return child
		}
		var out Expression
		out, err = t.TransformExpression(child)
		return out
	}
	recType := func(typ types.Type) types.Type {
		if err != nil {
			return typ
		}
		var out types.Type
		out, err = t.typ(typ, e)
		return out
	}
	fields := func(fs []RecordField) []RecordField {
		out := make([]RecordField, len(fs))
		for i, f := range fs {
			out[i] = RecordField{Name: f.Name, Expression: rec(f.Expression)}
		}
		return out
	}

	var out Expression
	switch e := e.(type) {
	case *Number, *Boolean, *String, *None, *Variable:
		return e, nil
	case *Application:
		out = &Application{Range: e.Range, Function: rec(e.Function), Argument: rec(e.Argument)}
	case *If:
		out = &If{Range: e.Range, Condition: rec(e.Condition), Then: rec(e.Then), Else: rec(e.Else)}
	case *Let:
		definitions := make([]Definition, len(e.Definitions))
		for i, def := range e.Definitions {
			if err != nil {
				break
			}
			definitions[i], err = t.TransformDefinition(def)
		}
		out = &Let{Range: e.Range, Definitions: definitions, Expression: rec(e.Expression)}
	case *Case:
		alternatives := make([]Alternative, len(e.Alternatives))
		for i, alt := range e.Alternatives {
			alternatives[i] = Alternative{Type: recType(alt.Type), Name: alt.Name, Expression: rec(alt.Expression)}
		}
		out = &Case{Range: e.Range, Type: recType(e.Type), Argument: rec(e.Argument), Alternatives: alternatives}
	case *ArithmeticOperation:
		out = &ArithmeticOperation{Range: e.Range, Operator: e.Operator, Lhs: rec(e.Lhs), Rhs: rec(e.Rhs)}
	case *OrderOperation:
		out = &OrderOperation{Range: e.Range, Operator: e.Operator, Lhs: rec(e.Lhs), Rhs: rec(e.Rhs)}
	case *BooleanOperation:
		out = &BooleanOperation{Range: e.Range, Operator: e.Operator, Lhs: rec(e.Lhs), Rhs: rec(e.Rhs)}
	case *EqualityOperation:
		out = &EqualityOperation{Range: e.Range, Operator: e.Operator, Type: recType(e.Type), Lhs: rec(e.Lhs), Rhs: rec(e.Rhs)}
	case *RecordConstruction:
		out = &RecordConstruction{Range: e.Range, Type: recType(e.Type), Fields: fields(e.Fields)}
	case *RecordElementOperation:
		out = &RecordElementOperation{Range: e.Range, Type: recType(e.Type), Record: rec(e.Record), Field: e.Field}
	case *RecordUpdate:
		out = &RecordUpdate{Range: e.Range, Type: recType(e.Type), Record: rec(e.Record), Fields: fields(e.Fields)}
	case *List:
		elements := make([]ListElement, len(e.Elements))
		for i, elem := range e.Elements {
			elements[i] = ListElement{Expression: rec(elem.Expression), Spread: elem.Spread}
		}
		out = &List{Range: e.Range, Type: recType(e.Type), Elements: elements}
	case *ListCase:
		out = &ListCase{
			Range:               e.Range,
			Type:                recType(e.Type),
			Argument:            rec(e.Argument),
			FirstName:           e.FirstName,
			RestName:            e.RestName,
			EmptyAlternative:    rec(e.EmptyAlternative),
			NonEmptyAlternative: rec(e.NonEmptyAlternative),
		}
	case *TypeCoercion:
		out = &TypeCoercion{Range: e.Range, From: recType(e.From), To: recType(e.To), Argument: rec(e.Argument)}
	case *Pipe:
		out = &Pipe{Range: e.Range, Lhs: rec(e.Lhs), Rhs: rec(e.Rhs)}
	default:
		panic(fmt.Sprintf("unexpected expression %T", e))
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TransformTypes applies f to every type slot of m, including type definitions
func TransformTypes(m *Module, f func(types.Type) (types.Type, error)) (*Module, error) {
	return Transformer{OnType: f}.TransformModule(m)
}
