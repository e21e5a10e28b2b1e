package document

import (
	"gopkg.in/yaml.v3"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/types"
)

var (
	arithmeticOperators = map[string]ast.ArithmeticOperator{
		"add":      ast.Add,
		"subtract": ast.Subtract,
		"multiply": ast.Multiply,
		"divide":   ast.Divide,
	}
	orderOperators = map[string]ast.OrderOperator{
		"lt": ast.LessThan,
		"le": ast.LessThanOrEqual,
		"gt": ast.GreaterThan,
		"ge": ast.GreaterThanOrEqual,
	}
	booleanOperators = map[string]ast.BooleanOperator{
		"and": ast.And,
		"or":  ast.Or,
	}
	equalityOperators = map[string]ast.EqualityOperator{
		"eq": ast.Equal,
		"ne": ast.NotEqual,
	}
)

// definitions decodes a mapping of names to definitions. A definition is either
// an expression, for a value of inferred type, or a mapping with a body:
//
//	name: {arguments: [a, b], type: T, body: expression}
func (d *decoder) definitions(n *yaml.Node) ([]ast.Definition, error) {
	if n.Kind != 0 && n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "expected definitions by name")
	}
	var out []ast.Definition
	for _, entry := range entries(n) {
		def, err := d.definition(entry.Fst, entry.Snd)
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

func (d *decoder) definition(key, n *yaml.Node) (ast.Definition, error) {
	name, err := d.name(key)
	if err != nil {
		return nil, err
	}
	at := d.at(key)
	if !hasKey(n, "body") {
		body, err := d.expression(n)
		if err != nil {
			return nil, err
		}
		return &ast.ValueDefinition{Range: at, Name: name, Body: body}, nil
	}

	fields, err := d.fields(n, "arguments", "type", "body")
	if err != nil {
		return nil, err
	}
	arguments, err := d.names(fields["arguments"])
	if err != nil {
		return nil, err
	}
	t, err := d.optionalType(fields["type"])
	if err != nil {
		return nil, err
	}
	body, err := d.expression(fields["body"])
	if err != nil {
		return nil, err
	}
	if len(arguments) == 0 {
		return &ast.ValueDefinition{Range: at, Name: name, Type: t, Body: body}, nil
	}
	return &ast.FunctionDefinition{Range: at, Name: name, Arguments: arguments, Type: t, Body: body}, nil
}

func hasKey(n *yaml.Node, key string) bool {
	for _, entry := range entries(n) {
		if entry.Fst.Value == key {
			return true
		}
	}
	return false
}

// expression decodes an expression.
// Numbers, booleans and null are literals, and any other scalar is a variable.
// Everything else is a mapping from the kind of expression to its operands, optionally with its type:
//
//	{string: text}
//	{apply: [function, argument...]}
//	{if: [condition, then, else]}
//	{let: {definitions: {...}, in: expression}}
//	{case: {argument: e, alternatives: [{type: T, name: x, body: e}, ...]}, type: T}
//	{add|subtract|multiply|divide|lt|le|gt|ge|and|or: [lhs, rhs]}
//	{eq|ne: [lhs, rhs], type: T}
//	{record: {field: e, ...}, type: T}
//	{field: [record, name], type: T}
//	{update: [record, {field: e, ...}], type: T}
//	{list: [e, {spread: e}, ...], type: T}
//	{listcase: {argument: e, empty: e, first: x, rest: xs, nonempty: e}, type: T}
//	{pipe: [lhs, rhs]}
func (d *decoder) expression(n *yaml.Node) (ast.Expression, error) {
	if n == nil {
		return nil, d.errorf(n, "expected an expression")
	}
	at := d.at(n)
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int", "!!float":
			var v float64
			if err := n.Decode(&v); err != nil {
				return nil, d.errorf(n, "invalid number %s", n.Value)
			}
			return &ast.Number{Range: at, Value: v}, nil
		case "!!bool":
			var v bool
			if err := n.Decode(&v); err != nil {
				return nil, d.errorf(n, "invalid boolean %s", n.Value)
			}
			return &ast.Boolean{Range: at, Value: v}, nil
		case "!!null":
			return &ast.None{Range: at}, nil
		}
		name, err := d.name(n)
		if err != nil {
			return nil, err
		}
		return &ast.Variable{Range: at, Name: name}, nil
	case yaml.MappingNode:
		return d.compound(n)
	}
	return nil, d.errorf(n, "expected an expression")
}

func (d *decoder) compound(n *yaml.Node) (ast.Expression, error) {
	at := d.at(n)
	var kind, value, typed *yaml.Node
	for _, entry := range entries(n) {
		switch {
		case entry.Fst.Value == "type":
			typed = entry.Snd
		case kind != nil:
			return nil, d.errorf(entry.Fst, "expected a single kind of expression, found '%s' and '%s'", kind.Value, entry.Fst.Value)
		default:
			kind, value = entry.Fst, entry.Snd
		}
	}
	if kind == nil {
		return nil, d.errorf(n, "expected an expression")
	}
	t, err := d.optionalType(typed)
	if err != nil {
		return nil, err
	}

	if op, ok := arithmeticOperators[kind.Value]; ok {
		operands, err := d.operands(value, 2)
		if err != nil {
			return nil, err
		}
		return &ast.ArithmeticOperation{Range: at, Operator: op, Lhs: operands[0], Rhs: operands[1]}, nil
	}
	if op, ok := orderOperators[kind.Value]; ok {
		operands, err := d.operands(value, 2)
		if err != nil {
			return nil, err
		}
		return &ast.OrderOperation{Range: at, Operator: op, Lhs: operands[0], Rhs: operands[1]}, nil
	}
	if op, ok := booleanOperators[kind.Value]; ok {
		operands, err := d.operands(value, 2)
		if err != nil {
			return nil, err
		}
		return &ast.BooleanOperation{Range: at, Operator: op, Lhs: operands[0], Rhs: operands[1]}, nil
	}
	if op, ok := equalityOperators[kind.Value]; ok {
		operands, err := d.operands(value, 2)
		if err != nil {
			return nil, err
		}
		return &ast.EqualityOperation{Range: at, Operator: op, Type: t, Lhs: operands[0], Rhs: operands[1]}, nil
	}

	switch kind.Value {
	case "string":
		if value.Kind != yaml.ScalarNode {
			return nil, d.errorf(value, "expected the text of a string")
		}
		return &ast.String{Range: at, Value: value.Value}, nil

	case "apply":
		operands, err := d.operands(value, -1)
		if err != nil {
			return nil, err
		}
		if len(operands) < 2 {
			return nil, d.errorf(value, "an application needs a function and arguments")
		}
		return ast.NewApplication(operands[0], operands[1:]...), nil

	case "if":
		operands, err := d.operands(value, 3)
		if err != nil {
			return nil, err
		}
		return &ast.If{Range: at, Condition: operands[0], Then: operands[1], Else: operands[2]}, nil

	case "let":
		fields, err := d.fields(value, "definitions", "in")
		if err != nil {
			return nil, err
		}
		if fields["definitions"] == nil {
			return nil, d.errorf(value, "a let needs definitions")
		}
		definitions, err := d.definitions(fields["definitions"])
		if err != nil {
			return nil, err
		}
		body, err := d.expression(fields["in"])
		if err != nil {
			return nil, err
		}
		return &ast.Let{Range: at, Definitions: definitions, Expression: body}, nil

	case "case":
		return d.caseExpression(value, t)

	case "record":
		fields, err := d.recordFields(value)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, d.errorf(n, "a record needs a type")
		}
		return &ast.RecordConstruction{Range: at, Type: t, Fields: fields}, nil

	case "field":
		if value.Kind != yaml.SequenceNode || len(value.Content) != 2 {
			return nil, d.errorf(value, "expected a record and a field name")
		}
		record, err := d.expression(value.Content[0])
		if err != nil {
			return nil, err
		}
		field, err := d.name(value.Content[1])
		if err != nil {
			return nil, err
		}
		return &ast.RecordElementOperation{Range: at, Type: t, Record: record, Field: field}, nil

	case "update":
		if value.Kind != yaml.SequenceNode || len(value.Content) != 2 {
			return nil, d.errorf(value, "expected a record and the fields to update")
		}
		record, err := d.expression(value.Content[0])
		if err != nil {
			return nil, err
		}
		fields, err := d.recordFields(value.Content[1])
		if err != nil {
			return nil, err
		}
		return &ast.RecordUpdate{Range: at, Type: t, Record: record, Fields: fields}, nil

	case "list":
		return d.list(value, t)

	case "listcase":
		return d.listCase(value, t)

	case "pipe":
		operands, err := d.operands(value, 2)
		if err != nil {
			return nil, err
		}
		return &ast.Pipe{Range: at, Lhs: operands[0], Rhs: operands[1]}, nil
	}
	return nil, d.errorf(kind, "unknown kind of expression '%s'", kind.Value)
}

// operands decodes a sequence of expressions of length count, or of any length when count is negative
func (d *decoder) operands(n *yaml.Node, count int) ([]ast.Expression, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "expected a list of operands")
	}
	if count >= 0 && len(n.Content) != count {
		return nil, d.errorf(n, "expected %d operands, found %d", count, len(n.Content))
	}
	out := make([]ast.Expression, 0, len(n.Content))
	for _, operand := range n.Content {
		e, err := d.expression(operand)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *decoder) recordFields(n *yaml.Node) ([]ast.RecordField, error) {
	if n.Kind != yaml.MappingNode && n.ShortTag() != "!!null" {
		return nil, d.errorf(n, "expected record fields by name")
	}
	var out []ast.RecordField
	for _, entry := range entries(n) {
		name, err := d.name(entry.Fst)
		if err != nil {
			return nil, err
		}
		e, err := d.expression(entry.Snd)
		if err != nil {
			return nil, err
		}
		out = append(out, ast.RecordField{Name: name, Expression: e})
	}
	return out, nil
}

func (d *decoder) caseExpression(n *yaml.Node, t types.Type) (ast.Expression, error) {
	fields, err := d.fields(n, "argument", "alternatives")
	if err != nil {
		return nil, err
	}
	argument, err := d.expression(fields["argument"])
	if err != nil {
		return nil, err
	}
	alternatives := fields["alternatives"]
	if alternatives == nil || alternatives.Kind != yaml.SequenceNode || len(alternatives.Content) == 0 {
		return nil, d.errorf(n, "a case needs alternatives")
	}
	c := &ast.Case{Range: d.at(n), Type: t, Argument: argument}
	for _, alt := range alternatives.Content {
		altFields, err := d.fields(alt, "type", "name", "body")
		if err != nil {
			return nil, err
		}
		if altFields["type"] == nil {
			return nil, d.errorf(alt, "an alternative needs a type")
		}
		altType, err := d.typ(altFields["type"], "")
		if err != nil {
			return nil, err
		}
		name := "_"
		if altFields["name"] != nil {
			if name, err = d.name(altFields["name"]); err != nil {
				return nil, err
			}
		}
		body, err := d.expression(altFields["body"])
		if err != nil {
			return nil, err
		}
		c.Alternatives = append(c.Alternatives, ast.Alternative{Type: altType, Name: name, Expression: body})
	}
	return c, nil
}

func (d *decoder) list(n *yaml.Node, t types.Type) (ast.Expression, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "expected list elements")
	}
	l := &ast.List{Range: d.at(n), Type: t}
	for _, elem := range n.Content {
		if spread := entries(elem); len(spread) == 1 && spread[0].Fst.Value == "spread" {
			e, err := d.expression(spread[0].Snd)
			if err != nil {
				return nil, err
			}
			l.Elements = append(l.Elements, ast.ListElement{Expression: e, Spread: true})
			continue
		}
		e, err := d.expression(elem)
		if err != nil {
			return nil, err
		}
		l.Elements = append(l.Elements, ast.ListElement{Expression: e})
	}
	return l, nil
}

func (d *decoder) listCase(n *yaml.Node, t types.Type) (ast.Expression, error) {
	fields, err := d.fields(n, "argument", "empty", "first", "rest", "nonempty")
	if err != nil {
		return nil, err
	}
	argument, err := d.expression(fields["argument"])
	if err != nil {
		return nil, err
	}
	empty, err := d.expression(fields["empty"])
	if err != nil {
		return nil, err
	}
	first, err := d.name(fields["first"])
	if err != nil {
		return nil, err
	}
	rest, err := d.name(fields["rest"])
	if err != nil {
		return nil, err
	}
	nonEmpty, err := d.expression(fields["nonempty"])
	if err != nil {
		return nil, err
	}
	return &ast.ListCase{
		Range:               d.at(n),
		Type:                t,
		Argument:            argument,
		FirstName:           first,
		RestName:            rest,
		EmptyAlternative:    empty,
		NonEmptyAlternative: nonEmpty,
	}, nil
}
