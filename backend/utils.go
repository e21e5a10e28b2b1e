package backend

import (
	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/ir"
)

var arithmeticOperators = map[ast.ArithmeticOperator]ir.ArithmeticOperator{
	ast.Add:      ir.Add,
	ast.Subtract: ir.Subtract,
	ast.Multiply: ir.Multiply,
	ast.Divide:   ir.Divide,
}

var orderOperators = map[ast.OrderOperator]ir.ComparisonOperator{
	ast.LessThan:           ir.LessThan,
	ast.LessThanOrEqual:    ir.LessThanOrEqual,
	ast.GreaterThan:        ir.GreaterThan,
	ast.GreaterThanOrEqual: ir.GreaterThanOrEqual,
}

// tagSlice sorts tags for xtgo/set
type tagSlice []uint64

func (s tagSlice) Len() int           { return len(s) }
func (s tagSlice) Less(i, j int) bool { return s[i] < s[j] }
func (s tagSlice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
