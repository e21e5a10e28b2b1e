package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cottand/ilec/frontend/types"
)

var arithmeticSymbols = map[ArithmeticOperator]string{Add: "+", Subtract: "-", Multiply: "*", Divide: "/"}
var orderSymbols = map[OrderOperator]string{LessThan: "<", LessThanOrEqual: "<=", GreaterThan: ">", GreaterThanOrEqual: ">="}
var booleanSymbols = map[BooleanOperator]string{And: "&&", Or: "||"}
var equalitySymbols = map[EqualityOperator]string{Equal: "==", NotEqual: "!="}

func (o ArithmeticOperator) String() string { return arithmeticSymbols[o] }
func (o OrderOperator) String() string      { return orderSymbols[o] }
func (o BooleanOperator) String() string    { return booleanSymbols[o] }
func (o EqualityOperator) String() string   { return equalitySymbols[o] }

// ExprString renders e on a single line, for logs and test failures
func ExprString(e Expression) string {
	sb := &strings.Builder{}
	writeExpr(sb, e)
	return sb.String()
}

func typeString(t types.Type) string {
	if t == nil {
		return "_"
	}
	return t.String()
}

func writeExpr(sb *strings.Builder, e Expression) {
	switch e := e.(type) {
	case *Number:
		sb.WriteString(strconv.FormatFloat(e.Value, 'g', -1, 64))
	case *Boolean:
		sb.WriteString(strconv.FormatBool(e.Value))
	case *String:
		sb.WriteString(strconv.Quote(e.Value))
	case *None:
		sb.WriteString("none")
	case *Variable:
		sb.WriteString(e.Name)
	case *Application:
		sb.WriteString("(")
		writeExpr(sb, e.Function)
		sb.WriteString(" ")
		writeExpr(sb, e.Argument)
		sb.WriteString(")")
	case *If:
		sb.WriteString("(if ")
		writeExpr(sb, e.Condition)
		sb.WriteString(" then ")
		writeExpr(sb, e.Then)
		sb.WriteString(" else ")
		writeExpr(sb, e.Else)
		sb.WriteString(")")
	case *Let:
		sb.WriteString("(let ")
		for i, def := range e.Definitions {
			if i != 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(DefinitionString(def))
		}
		sb.WriteString(" in ")
		writeExpr(sb, e.Expression)
		sb.WriteString(")")
	case *Case:
		sb.WriteString("(case ")
		writeExpr(sb, e.Argument)
		sb.WriteString(" : ")
		sb.WriteString(typeString(e.Type))
		sb.WriteString(" of")
		for _, alt := range e.Alternatives {
			fmt.Fprintf(sb, " | %s: %s -> ", alt.Name, typeString(alt.Type))
			writeExpr(sb, alt.Expression)
		}
		sb.WriteString(")")
	case *ArithmeticOperation:
		writeBinary(sb, e.Operator.String(), e.Lhs, e.Rhs)
	case *OrderOperation:
		writeBinary(sb, e.Operator.String(), e.Lhs, e.Rhs)
	case *BooleanOperation:
		writeBinary(sb, e.Operator.String(), e.Lhs, e.Rhs)
	case *EqualityOperation:
		writeBinary(sb, e.Operator.String()+"["+typeString(e.Type)+"]", e.Lhs, e.Rhs)
	case *RecordConstruction:
		sb.WriteString(typeString(e.Type))
		writeFields(sb, e.Fields)
	case *RecordElementOperation:
		writeExpr(sb, e.Record)
		sb.WriteString(".")
		sb.WriteString(e.Field)
	case *RecordUpdate:
		sb.WriteString(typeString(e.Type))
		sb.WriteString("{")
		writeExpr(sb, e.Record)
		sb.WriteString(" |")
		writeFields(sb, e.Fields)
		sb.WriteString("}")
	case *List:
		sb.WriteString("[")
		for i, elem := range e.Elements {
			if i != 0 {
				sb.WriteString(", ")
			}
			if elem.Spread {
				sb.WriteString("...")
			}
			writeExpr(sb, elem.Expression)
		}
		sb.WriteString("]")
	case *ListCase:
		sb.WriteString("(case ")
		writeExpr(sb, e.Argument)
		sb.WriteString(" of [] -> ")
		writeExpr(sb, e.EmptyAlternative)
		fmt.Fprintf(sb, " | [%s, ...%s] -> ", e.FirstName, e.RestName)
		writeExpr(sb, e.NonEmptyAlternative)
		sb.WriteString(")")
	case *TypeCoercion:
		sb.WriteString("(")
		writeExpr(sb, e.Argument)
		fmt.Fprintf(sb, " as %s => %s)", typeString(e.From), typeString(e.To))
	case *Pipe:
		writeBinary(sb, "|>", e.Lhs, e.Rhs)
	default:
		fmt.Fprintf(sb, "<%T>", e)
	}
}

func writeBinary(sb *strings.Builder, op string, lhs, rhs Expression) {
	sb.WriteString("(")
	writeExpr(sb, lhs)
	sb.WriteString(" ")
	sb.WriteString(op)
	sb.WriteString(" ")
	writeExpr(sb, rhs)
	sb.WriteString(")")
}

func writeFields(sb *strings.Builder, fields []RecordField) {
	sb.WriteString("{")
	for i, f := range fields {
		if i != 0 {
			sb.WriteString(",")
		}
		sb.WriteString(" ")
		sb.WriteString(f.Name)
		sb.WriteString(" = ")
		writeExpr(sb, f.Expression)
	}
	sb.WriteString(" }")
}

func DefinitionString(def Definition) string {
	switch def := def.(type) {
	case *FunctionDefinition:
		return fmt.Sprintf("%s %s : %s = %s", def.Name, strings.Join(def.Arguments, " "), typeString(def.Type), ExprString(def.Body))
	case *ValueDefinition:
		return fmt.Sprintf("%s : %s = %s", def.Name, typeString(def.Type), ExprString(def.Body))
	}
	return fmt.Sprintf("<%T>", def)
}

// String renders the whole module, one definition per line
func (m *Module) String() string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "module %s\n", m.Path)
	for _, def := range m.TypeDefinitions {
		t := typeString(def.Type)
		if record, ok := def.Type.(*types.Record); ok {
			t = record.FieldsString()
		}
		fmt.Fprintf(sb, "type %s = %s\n", def.Name, t)
	}
	for _, def := range m.Definitions {
		sb.WriteString(DefinitionString(def))
		sb.WriteString("\n")
	}
	return sb.String()
}
