//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cottand/ilec/ilec"
)

func main() {
	js.Global().Set("CompileAndShowIR", js.FuncOf(ilec.CompileAndShowIR))
	js.Global().Set("EvaluateMain", ilec.EvaluateMain)

	// wait indefinitely so that Go does not terminate execution
	// and the function remains available
	<-make(chan struct{})
}
