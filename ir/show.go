package ir

import (
	"fmt"
	"strconv"
	"strings"
)

var arithmeticSymbols = map[ArithmeticOperator]string{Add: "+", Subtract: "-", Multiply: "*", Divide: "/"}
var comparisonSymbols = map[ComparisonOperator]string{
	Equal:              "==",
	LessThan:           "<",
	LessThanOrEqual:    "<=",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
}

func (o ArithmeticOperator) String() string { return arithmeticSymbols[o] }
func (o ComparisonOperator) String() string { return comparisonSymbols[o] }

// ExprString renders e over several lines, for logs and test failures
func ExprString(e Expr) string {
	ctx := newShowContext()
	ctx.writeExpr(e)
	return ctx.String()
}

type showContext struct {
	*strings.Builder
	indent    int
	indentStr string
}

func newShowContext() *showContext {
	return &showContext{
		Builder:   &strings.Builder{},
		indentStr: "  ",
	}
}

func (ctx *showContext) newline() {
	ctx.WriteString("\n")
	ctx.WriteString(strings.Repeat(ctx.indentStr, ctx.indent))
}

func (ctx *showContext) nested(f func()) {
	ctx.indent++
	f()
	ctx.indent--
}

func (ctx *showContext) writeExpr(e Expr) {
	switch e := e.(type) {
	case nil:
		ctx.WriteString("nil")
	case *Number:
		ctx.WriteString(strconv.FormatFloat(e.Value, 'g', -1, 64))
	case *Boolean:
		ctx.WriteString(strconv.FormatBool(e.Value))
	case *String:
		ctx.WriteString(strconv.Quote(e.Value))
	case *Unit:
		ctx.WriteString("unit")
	case *Variable:
		ctx.WriteString(e.Name)
	case *Call:
		ctx.writeExpr(e.Function)
		ctx.WriteString("(")
		for i, arg := range e.Arguments {
			if i > 0 {
				ctx.WriteString(", ")
			}
			ctx.writeExpr(arg)
		}
		ctx.WriteString(")")
	case *Let:
		fmt.Fprintf(ctx, "let %s %s = ", e.Name, e.Type)
		ctx.nested(func() { ctx.writeExpr(e.Bound) })
		ctx.newline()
		ctx.writeExpr(e.Body)
	case *LetRecursive:
		for _, f := range e.Functions {
			ctx.writeFunction(f)
			ctx.newline()
		}
		ctx.writeExpr(e.Body)
	case *ArithmeticOperation:
		ctx.writeBinary(e.Operator.String(), e.Lhs, e.Rhs)
	case *ComparisonOperation:
		ctx.writeBinary(e.Operator.String(), e.Lhs, e.Rhs)
	case *AlgebraicCase:
		ctx.WriteString("case ")
		ctx.writeExpr(e.Argument)
		ctx.nested(func() {
			for _, alt := range e.Alternatives {
				ctx.newline()
				fmt.Fprintf(ctx, "%s -> ", alt.Constructor.Name)
				ctx.nested(func() { ctx.writeExpr(alt.Expression) })
			}
			if e.Default != nil {
				ctx.newline()
				ctx.WriteString("_ -> ")
				ctx.nested(func() { ctx.writeExpr(e.Default) })
			}
		})
	case *VariantCase:
		ctx.WriteString("case ")
		ctx.writeExpr(e.Argument)
		ctx.nested(func() {
			for _, alt := range e.Alternatives {
				ctx.newline()
				fmt.Fprintf(ctx, "%s %s #%016x -> ", alt.Name, alt.Type, alt.Tag)
				ctx.nested(func() { ctx.writeExpr(alt.Expression) })
			}
			if e.Default != nil {
				ctx.newline()
				fmt.Fprintf(ctx, "%s -> ", e.Default.Name)
				ctx.nested(func() { ctx.writeExpr(e.Default.Expression) })
			}
		})
	case *Variant:
		fmt.Fprintf(ctx, "variant #%016x ", e.Tag)
		ctx.WriteString("(")
		ctx.writeExpr(e.Payload)
		fmt.Fprintf(ctx, " : %s)", e.Type)
	case *RecordConstruction:
		ctx.WriteString(e.Record)
		ctx.WriteString("{")
		for i, elem := range e.Elements {
			if i > 0 {
				ctx.WriteString(", ")
			}
			ctx.writeExpr(elem)
		}
		ctx.WriteString("}")
	case *RecordElement:
		ctx.writeExpr(e.Argument)
		fmt.Fprintf(ctx, ".%d", e.Index)
	default:
		fmt.Fprintf(ctx, "<%T>", e)
	}
}

func (ctx *showContext) writeBinary(op string, lhs, rhs Expr) {
	ctx.WriteString("(")
	ctx.writeExpr(lhs)
	ctx.WriteString(" " + op + " ")
	ctx.writeExpr(rhs)
	ctx.WriteString(")")
}

func writeArguments(ctx *showContext, args []Argument) {
	ctx.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			ctx.WriteString(", ")
		}
		fmt.Fprintf(ctx, "%s %s", arg.Name, arg.Type)
	}
	ctx.WriteString(")")
}

func (ctx *showContext) writeFunction(f *FunctionDefinition) {
	ctx.WriteString("func ")
	if len(f.Environment) != 0 {
		writeArguments(ctx, f.Environment)
		ctx.WriteString(" ")
	}
	ctx.WriteString(f.Name)
	writeArguments(ctx, f.Arguments)
	fmt.Fprintf(ctx, " %s =", f.Result)
	ctx.nested(func() {
		ctx.newline()
		ctx.writeExpr(f.Body)
	})
}

func (m *Module) String() string {
	ctx := newShowContext()
	fmt.Fprintf(ctx, "module %s\n", m.Path)
	for _, def := range m.TypeDefinitions {
		ctx.WriteString(def.String())
		ctx.WriteString("\n")
	}
	for _, d := range m.Declarations {
		fmt.Fprintf(ctx, "declare %s %s\n", d.Name, d.Type)
	}
	for _, f := range m.Functions {
		ctx.writeFunction(f)
		ctx.WriteString("\n")
	}
	for _, v := range m.Values {
		fmt.Fprintf(ctx, "var %s %s =", v.Name, v.Type)
		ctx.nested(func() {
			ctx.newline()
			ctx.writeExpr(v.Body)
		})
		ctx.WriteString("\n")
	}
	return ctx.String()
}
