package desugar

import (
	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/util"
)

// accessorArgument is the argument name of generated accessor functions
const accessorArgument = "record"

// AccessorName is the name of the function reading field out of records named record
func AccessorName(record, field string) string {
	return record + "." + field
}

// AddRecordDefinitions adds the definitions every record type of m brings with it:
// an accessor function T.f for every field f of a record T, and for records without
// any field, a value named like the record, since all values of such a record are the same.
func AddRecordDefinitions(m *ast.Module) *ast.Module {
	var generated []ast.Definition
	for _, def := range m.TypeDefinitions {
		record, ok := def.Type.(*types.Record)
		if !ok {
			continue
		}
		self := &types.Reference{Range: def.Range, Name: def.Name}
		if len(record.Fields) == 0 {
			generated = append(generated, &ast.ValueDefinition{
				Range: def.Range,
				Name:  def.Name,
				Type:  self,
				Body:  &ast.RecordConstruction{Range: def.Range, Type: self},
			})
		}
		for _, field := range record.Fields {
			generated = append(generated, &ast.FunctionDefinition{
				Range:     def.Range,
				Name:      AccessorName(def.Name, field.Name),
				Arguments: []string{accessorArgument},
				Type:      &types.Function{Range: def.Range, Argument: self, Result: field.Type},
				Body: &ast.RecordElementOperation{
					Range:  def.Range,
					Type:   self,
					Record: &ast.Variable{Range: def.Range, Name: accessorArgument},
					Field:  field.Name,
				},
			})
		}
	}
	if len(generated) == 0 {
		return m
	}
	return m.WithDefinitions(append(generated, m.Definitions...))
}

// ExpandRecordUpdates turns every record update into a record construction
// that reads the fields it does not override from the original record, through accessors.
func ExpandRecordUpdates(m *ast.Module, resolver *types.Resolver) (*ast.Module, error) {
	names := util.NewNameGenerator("record")
	return ast.Transformer{
		OnExpression: func(e ast.Expression) (ast.Expression, error) {
			update, ok := e.(*ast.RecordUpdate)
			if !ok {
				return e, nil
			}
			if update.Type == nil {
				return nil, ilerr.New(ilerr.NewRecordExpected{Positioner: update.Range, Type: &types.Any{Range: update.Range}})
			}
			record, ok, err := resolver.ResolveToRecord(update.Type)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, ilerr.New(ilerr.NewRecordExpected{Positioner: update.Range, Type: update.Type})
			}
			overrides := make(map[string]ast.Expression, len(update.Fields))
			for _, f := range update.Fields {
				if _, _, ok := record.Field(f.Name); !ok {
					return nil, ilerr.New(ilerr.NewRecordFieldNotFound{Positioner: update.Range, Record: record.Name, Field: f.Name})
				}
				overrides[f.Name] = f.Expression
			}

			name := names.Next()
			fields := make([]ast.RecordField, 0, len(record.Fields))
			for _, f := range record.Fields {
				value, overridden := overrides[f.Name]
				if !overridden {
					value = &ast.Application{
						Range:    update.Range,
						Function: &ast.Variable{Range: update.Range, Name: AccessorName(record.Name, f.Name)},
						Argument: &ast.Variable{Range: update.Range, Name: name},
					}
				}
				fields = append(fields, ast.RecordField{Name: f.Name, Expression: value})
			}
			return &ast.Let{
				Range:       update.Range,
				Definitions: []ast.Definition{&ast.ValueDefinition{Range: update.Range, Name: name, Type: update.Type, Body: update.Record}},
				Expression:  &ast.RecordConstruction{Range: update.Range, Type: update.Type, Fields: fields},
			}, nil
		},
	}.TransformModule(m)
}

// EliminatePipes turns `a |> f` into `f a`
func EliminatePipes(m *ast.Module) (*ast.Module, error) {
	return ast.Transformer{
		OnExpression: func(e ast.Expression) (ast.Expression, error) {
			pipe, ok := e.(*ast.Pipe)
			if !ok {
				return e, nil
			}
			return &ast.Application{Range: pipe.Range, Function: pipe.Rhs, Argument: pipe.Lhs}, nil
		},
	}.TransformModule(m)
}
