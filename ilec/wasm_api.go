//go:build js && wasm

package ilec

import (
	"fmt"
	"go/token"
	"syscall/js"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/document"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/ir"
)

// compileDocument compiles the single module document given as first argument
func compileDocument(args []js.Value) (*ir.Module, []byte, error) {
	if len(args) != 1 {
		return nil, nil, fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	fset := token.NewFileSet()
	m, err := document.DecodeModule(fset, "program.yaml", []byte(args[0].String()))
	if err != nil {
		return nil, nil, explain(err, fset)
	}
	cfg := DefaultConfiguration()
	compiled := map[string]*ast.ModuleInterface{}
	out, err := Build([]Unit{{Module: m.Module, Imports: m.ImportPaths}}, compiled, cfg)
	if err != nil {
		return nil, nil, explain(err, fset)
	}
	iface, err := document.EncodeInterface(compiled[m.Path])
	if err != nil {
		return nil, nil, err
	}
	return out[0], iface, nil
}

func explain(err error, fset *token.FileSet) error {
	if ileErr, ok := ilerr.As(err); ok {
		return fmt.Errorf("the program has the following errors:\n%s", ilerr.FormatWithPosition(ileErr, fset))
	}
	return fmt.Errorf("the compiler encountered a failure:\n%w", err)
}

// CompileAndShowIR compiles a module document and shows its interface and IR.
//
// output: { error: string } | { interface: string, ir: string }
func CompileAndShowIR(_ js.Value, args []js.Value) (ret any) {
	errorObj := func(err string) any {
		return js.ValueOf(map[string]any{"error": err})
	}
	defer func() {
		if r := recover(); r != nil {
			ret = errorObj("compiler panicked: " + fmt.Sprint(r))
		}
	}()

	m, iface, err := compileDocument(args)
	if err != nil {
		return errorObj(err.Error())
	}
	return js.ValueOf(map[string]any{
		"interface": string(iface),
		"ir":        m.String(),
	})
}

// evaluateMain compiles a module document and evaluates its main definition
func evaluateMain(_ js.Value, args []js.Value) (any, error) {
	m, _, err := compileDocument(args)
	if err != nil {
		return nil, err
	}
	host, err := HostList(DefaultConfiguration())
	if err != nil {
		return nil, err
	}
	v, err := ir.NewInterpreter(host, m).Global(m.Path + ".main")
	if err != nil {
		return nil, fmt.Errorf("error during evaluation: %w", err)
	}
	return ir.FormatValue(v), nil
}

// asPromise turns a function that may fail into a JS function returning a promise,
// rejected with an Error when the function fails or panics
func asPromise(function func(js.Value, []js.Value) (any, error)) any {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		handler := js.FuncOf(func(_ js.Value, promiseArgs []js.Value) any {
			resolve := promiseArgs[0]
			reject := promiseArgs[1]

			go func() {
				defer func() {
					if r := recover(); r != nil {
						reject.Invoke(js.Global().Get("Error").New(fmt.Sprintf("%s", r)))
					}
				}()

				data, err := function(this, args)
				if err != nil {
					reject.Invoke(js.Global().Get("Error").New(err.Error()))
				} else {
					resolve.Invoke(js.ValueOf(data))
				}
			}()
			return nil
		})
		return js.Global().Get("Promise").New(handler)
	})
}

var EvaluateMain = asPromise(evaluateMain)
