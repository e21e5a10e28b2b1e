package desugar

import (
	"github.com/cottand/ilec/frontend/ast"
)

// ExpandBooleanOperations turns && and || into ifs, which only evaluate
// their right-hand side when needed
func ExpandBooleanOperations(m *ast.Module) (*ast.Module, error) {
	return ast.Transformer{
		OnExpression: func(e ast.Expression) (ast.Expression, error) {
			op, ok := e.(*ast.BooleanOperation)
			if !ok {
				return e, nil
			}
			if op.Operator == ast.And {
				return &ast.If{Range: op.Range, Condition: op.Lhs, Then: op.Rhs, Else: &ast.Boolean{Range: op.Range, Value: false}}, nil
			}
			return &ast.If{Range: op.Range, Condition: op.Lhs, Then: &ast.Boolean{Range: op.Range, Value: true}, Else: op.Rhs}, nil
		},
	}.TransformModule(m)
}
