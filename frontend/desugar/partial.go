package desugar

import (
	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/infer"
	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/util"
)

// ExpandPartialApplications turns calls to known functions with fewer arguments than the
// function definition has into a closure taking the missing arguments:
//
//	f a
//
// where f has arguments x and y, becomes
//
//	let $pa0 = a in let $pa2 $pa1 = f $pa0 $pa1 in $pa2
//
// Supplied arguments are evaluated where the call was, as they would have been
// without the expansion.
//
// Imported functions have no known definition, so calls to them are left as they are.
func ExpandPartialApplications(m *ast.Module, services *types.Services) (*ast.Module, error) {
	p := &partialExpander{resolver: services.Resolver, names: util.NewNameGenerator("pa")}
	w := walker{extractor: infer.NewTypeExtractor(services), onExpression: p.expression}
	return w.module(m, newScope(infer.ModuleEnv(m)))
}

type partialExpander struct {
	resolver *types.Resolver
	names    *util.NameGenerator
}

func (p *partialExpander) expression(e ast.Expression, s scope) (ast.Expression, error) {
	if _, ok := e.(*ast.Application); !ok {
		return e, nil
	}
	head, arguments := ast.ApplicationSpine(e)
	function, ok := head.(*ast.Variable)
	if !ok {
		return e, nil
	}
	arity := s.arity(function.Name)
	if len(arguments) >= arity {
		return e, nil
	}
	functionType, ok := s.env.Lookup(function.Name)
	ilerr.Assert(ok && functionType != nil, "no type for function %s", function.Name)
	parameters, result, err := p.parameters(functionType, arity)
	if err != nil {
		return nil, err
	}
	at := source.RangeOf(e)

	supplied := make([]ast.Definition, 0, len(arguments))
	callArguments := make([]ast.Expression, 0, arity)
	for i, arg := range arguments {
		name := p.names.Next()
		supplied = append(supplied, &ast.ValueDefinition{Range: source.RangeOf(arg), Name: name, Type: parameters[i], Body: arg})
		callArguments = append(callArguments, variable(at, name))
	}
	missing := make([]string, 0, arity-len(arguments))
	for range parameters[len(arguments):] {
		name := p.names.Next()
		missing = append(missing, name)
		callArguments = append(callArguments, variable(at, name))
	}

	closure := p.names.Next()
	return &ast.Let{
		Range:       at,
		Definitions: supplied,
		Expression: &ast.Let{
			Range: at,
			Definitions: []ast.Definition{&ast.FunctionDefinition{
				Range:     at,
				Name:      closure,
				Arguments: missing,
				Type:      types.NewFunction(result, parameters[len(arguments):]...),
				Body:      ast.NewApplication(function, callArguments...),
			}},
			Expression: variable(at, closure),
		},
	}, nil
}

// parameters splits the curried type of a function with arity arguments
// into the types of its arguments and its result
func (p *partialExpander) parameters(t types.Type, arity int) ([]types.Type, types.Type, error) {
	parameters := make([]types.Type, 0, arity)
	for range arity {
		f, ok, err := p.resolver.ResolveToFunction(t)
		if err != nil {
			return nil, nil, err
		}
		ilerr.Assert(ok, "type %v of a function with %d arguments is not a function type", t, arity)
		parameters = append(parameters, f.Argument)
		t = f.Result
	}
	return parameters, t, nil
}
