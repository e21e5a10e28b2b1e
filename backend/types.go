package backend

import (
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/ir"
)

// compileType returns the runtime representation of t.
// Unions and Any are both variants, and function types take one argument at a time.
func (c *Compiler) compileType(t types.Type) (ir.Type, error) {
	resolved, err := c.services.Resolver.Resolve(t)
	if err != nil {
		return nil, err
	}
	switch resolved := resolved.(type) {
	case *types.Number:
		return &ir.NumberType{}, nil
	case *types.Boolean:
		return &ir.BooleanType{}, nil
	case *types.String:
		return &ir.StringType{}, nil
	case *types.None:
		return &ir.UnitType{}, nil
	case *types.Any, *types.Union:
		return &ir.VariantType{}, nil
	case *types.Record:
		return &ir.RecordType{Name: resolved.Name}, nil
	case *types.Function:
		arg, err := c.compileType(resolved.Argument)
		if err != nil {
			return nil, err
		}
		result, err := c.compileType(resolved.Result)
		if err != nil {
			return nil, err
		}
		return &ir.FunctionType{Arguments: []ir.Type{arg}, Result: result}, nil
	}
	ilerr.Unreachable("type %v (%T) left for lowering", t, resolved)
	return nil, nil
}

// compileRecord lays out record as its fields in declaration order
func (c *Compiler) compileRecord(record *types.Record) (*ir.TypeDefinition, error) {
	fields := make([]ir.Type, 0, len(record.Fields))
	for _, field := range record.Fields {
		t, err := c.compileType(field.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, t)
	}
	return &ir.TypeDefinition{Name: record.Name, Fields: fields}, nil
}

// isVariant reports whether values of t are stored as variants
func (c *Compiler) isVariant(t types.Type) (bool, error) {
	resolved, err := c.services.Resolver.Resolve(t)
	if err != nil {
		return false, err
	}
	switch resolved.(type) {
	case *types.Any, *types.Union:
		return true, nil
	}
	return false, nil
}
