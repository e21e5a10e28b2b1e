package document

import (
	"gopkg.in/yaml.v3"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/types"
)

// Types are written as
//
//	Number | Boolean | String | None | Any | <name of a type>
//	{function: [argument..., result]}
//	{list: element}
//	{union: [member...]}
//	{record: {field: type, ...}}    only as the type of a type definition
func (d *decoder) typeDefinitions(n *yaml.Node) ([]*ast.TypeDefinition, error) {
	var out []*ast.TypeDefinition
	for _, entry := range entries(n) {
		name, err := d.name(entry.Fst)
		if err != nil {
			return nil, err
		}
		t, err := d.typ(entry.Snd, name)
		if err != nil {
			return nil, err
		}
		out = append(out, &ast.TypeDefinition{Range: d.at(entry.Fst), Name: name, Type: t})
	}
	return out, nil
}

// typ decodes a type. A record is only allowed when defining, as name, a new type.
func (d *decoder) typ(n *yaml.Node, defining string) (types.Type, error) {
	at := d.at(n)
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Value {
		case "Number":
			return &types.Number{Range: at}, nil
		case "Boolean":
			return &types.Boolean{Range: at}, nil
		case "String":
			return &types.String{Range: at}, nil
		case "None":
			return &types.None{Range: at}, nil
		case "Any":
			return &types.Any{Range: at}, nil
		case "":
			return nil, d.errorf(n, "expected a type")
		}
		return &types.Reference{Range: at, Name: n.Value}, nil

	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, d.errorf(n, "expected a single type constructor")
		}
		kind, value := n.Content[0], n.Content[1]
		switch kind.Value {
		case "function":
			if value.Kind != yaml.SequenceNode || len(value.Content) < 2 {
				return nil, d.errorf(value, "a function type needs at least an argument and a result")
			}
			parts, err := d.types(value.Content)
			if err != nil {
				return nil, err
			}
			f := types.NewFunction(parts[len(parts)-1], parts[:len(parts)-1]...)
			return types.WithRange(f, at), nil
		case "list":
			element, err := d.typ(value, "")
			if err != nil {
				return nil, err
			}
			return &types.List{Range: at, Element: element}, nil
		case "union":
			if value.Kind != yaml.SequenceNode || len(value.Content) == 0 {
				return nil, d.errorf(value, "a union needs members")
			}
			members, err := d.types(value.Content)
			if err != nil {
				return nil, err
			}
			return &types.Union{Range: at, Members: members}, nil
		case "record":
			if defining == "" {
				return nil, d.errorf(kind, "records can only be declared as type definitions")
			}
			if value.Kind != yaml.MappingNode && value.ShortTag() != "!!null" {
				return nil, d.errorf(value, "expected the fields of the record")
			}
			record := &types.Record{Range: at, Name: defining}
			for _, field := range entries(value) {
				name, err := d.name(field.Fst)
				if err != nil {
					return nil, err
				}
				t, err := d.typ(field.Snd, "")
				if err != nil {
					return nil, err
				}
				record.Fields = append(record.Fields, types.RecordField{Name: name, Type: t})
			}
			return record, nil
		}
		return nil, d.errorf(kind, "unknown type constructor '%s'", kind.Value)
	}
	return nil, d.errorf(n, "expected a type")
}

func (d *decoder) types(ns []*yaml.Node) ([]types.Type, error) {
	out := make([]types.Type, 0, len(ns))
	for _, n := range ns {
		t, err := d.typ(n, "")
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// optionalType decodes n if present. Missing types are left for inference.
func (d *decoder) optionalType(n *yaml.Node) (types.Type, error) {
	if n == nil {
		return nil, nil
	}
	return d.typ(n, "")
}

// typeNode encodes t. A record named defining is written out in full, other records by name.
func typeNode(t types.Type, defining string) *yaml.Node {
	constructor := func(kind string, value *yaml.Node) *yaml.Node {
		return &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle, Content: []*yaml.Node{scalar(kind), value}}
	}
	sequence := func(ts ...types.Type) *yaml.Node {
		n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, t := range ts {
			n.Content = append(n.Content, typeNode(t, ""))
		}
		return n
	}

	switch t := t.(type) {
	case *types.Any, *types.Boolean, *types.Number, *types.String, *types.None:
		return scalar(t.String())
	case *types.Reference:
		return scalar(t.Name)
	case *types.Function:
		var parts []types.Type
		var result types.Type = t
		for f, ok := result.(*types.Function); ok; f, ok = result.(*types.Function) {
			parts = append(parts, f.Argument)
			result = f.Result
		}
		return constructor("function", sequence(append(parts, result)...))
	case *types.List:
		return constructor("list", typeNode(t.Element, ""))
	case *types.Union:
		return constructor("union", sequence(t.Members...))
	case *types.Record:
		if t.Name != defining {
			return scalar(t.Name)
		}
		fields := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		for _, f := range t.Fields {
			fields.Content = append(fields.Content, scalar(f.Name), typeNode(f.Type, ""))
		}
		return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{scalar("record"), fields}}
	}
	ilerr.Unreachable("cannot encode type %T", t)
	return nil
}
