package ilerr

import (
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"runtime/debug"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/cottand/ilec/frontend/source"
)

// enableDebugErrorPrinting makes errors include the frame that created them when printed
var enableDebugErrorPrinting = false

const enableDebugFullStacktrace bool = false

func FormatWithCode(e IleError) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			lines := strings.Split(stack, "\n")
			if len(lines) > 6 {
				stack = strings.TrimSpace(lines[6])
			}
		}
		return fmt.Sprintf("%s:(E%03d) %s", stack, e.Code(), e.Error())
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

// FormatWithPosition renders e as a file:line:column diagnostic
func FormatWithPosition(e IleError, fset *token.FileSet) string {
	return fmt.Sprintf("%s: %s", source.Location(fset, e), FormatWithCode(e))
}

// New attaches the creation stack to err. Every compile error should be created through it.
func New[E IleError](err E) IleError {
	return err.withStack(debug.Stack())
}

// As returns the IleError wrapped in err, if there is one
func As(err error) (IleError, bool) {
	var ileErr IleError
	if errors.As(err, &ileErr) {
		return ileErr, true
	}
	return nil, false
}

// CodeOf returns the ErrCode of err, or None when err is not a compile error
func CodeOf(err error) ErrCode {
	if ileErr, ok := As(err); ok {
		return ileErr.Code()
	}
	return None
}

// LogAttr renders err for structured logging without evaluating it
// unless the record is emitted
func LogAttr(err error) slog.Attr {
	return slog.Any("err", errLogValuer{err})
}

type errLogValuer struct{ error }

func (e errLogValuer) LogValue() slog.Value {
	if ileErr, ok := As(e.error); ok {
		return slog.StringValue(FormatWithCode(ileErr))
	}
	return slog.StringValue(e.Error())
}

// Unreachable signals a violated internal invariant: a state that earlier stages
// of the compiler were supposed to rule out. It is not a compile error, it is a bug.
func Unreachable(format string, args ...any) {
	panic(pkgerrors.Errorf("unreachable: "+format, args...))
}

// Assert panics through Unreachable when cond does not hold
func Assert(cond bool, format string, args ...any) {
	if !cond {
		Unreachable(format, args...)
	}
}
