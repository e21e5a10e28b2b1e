package ast

import (
	"context"
	"log/slog"

	"github.com/cottand/ilec/frontend/types"
)

// Slog wraps an Expression as a slog.LogValuer to not render expression strings
// unless they definitely need to be logged
func Slog(expr Expression) slog.LogValuer {
	return exprLogValuer{expr}
}

type exprLogValuer struct{ Expression }

func (l exprLogValuer) LogValue() slog.Value {
	return slog.StringValue(ExprString(l.Expression))
}

type typeLogValuer struct{ types.Type }

func (l typeLogValuer) LogValue() slog.Value {
	return slog.StringValue(l.Type.String())
}

// lazy replaces expressions and types in attr with their LogValuer
func lazy(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() != slog.KindAny {
		return attr
	}
	switch v := attr.Value.Any().(type) {
	case Expression:
		attr.Value = slog.AnyValue(Slog(v))
	case types.Type:
		attr.Value = slog.AnyValue(typeLogValuer{v})
	}
	return attr
}

// ExprHandler is a slog.Handler capable of lazy-printing expression trees and types
func ExprHandler(underlying slog.Handler) slog.Handler {
	return &exprLogHandler{underlying: underlying}
}

func ExprLogger(underlying *slog.Logger) *slog.Logger {
	return slog.New(ExprHandler(underlying.Handler()))
}

type exprLogHandler struct {
	underlying slog.Handler
}

func (l *exprLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return l.underlying.Enabled(ctx, level)
}

func (l *exprLogHandler) Handle(ctx context.Context, record slog.Record) error {
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		newRecord.AddAttrs(lazy(attr))
		return true
	})
	return l.underlying.Handle(ctx, newRecord)
}

func (l *exprLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	wrapped := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		wrapped[i] = lazy(attr)
	}
	return ExprHandler(l.underlying.WithAttrs(wrapped))
}

func (l *exprLogHandler) WithGroup(name string) slog.Handler {
	return ExprHandler(l.underlying.WithGroup(name))
}
