// Package errors annotates errors with structured slog attributes and the source location where the
// annotation happened, so that a single log line explains where and why a plan failed.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
)

//nolint:gochecknoglobals // re-exported so callers only need to import this package.
var (
	Is     = stderrors.Is
	As     = stderrors.As
	Unwrap = stderrors.Unwrap
	Join   = stderrors.Join
)

type annotatedError struct {
	err   error
	msg   string
	attrs []slog.Attr
	pc    uintptr
}

func (e *annotatedError) Error() string {
	switch {
	case e.err == nil:
		return e.msg
	case e.msg == "":
		return e.err.Error()
	default:
		return e.msg + ": " + e.err.Error()
	}
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// NewSentinel creates an error meant to be declared once at package level and compared with [Is].
// Sentinels carry no source location because they are created during package initialisation.
func NewSentinel(msg string) error {
	return stderrors.New(msg) //nolint:err113 // this is the sentinel constructor.
}

// New creates an error annotated with attrs and the caller's source location.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{err: nil, msg: msg, attrs: attrs, pc: callerPC(1)}
}

// Wrap annotates err with a message, attrs, and the caller's source location. Wrapping nil returns nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return &annotatedError{err: err, msg: msg, attrs: attrs, pc: callerPC(1)}
}

// DecoratePanic converts a recovered panic value into an error pointing at the panic site.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	var msg string
	if err, ok := recovered.(error); ok {
		msg = "panic: " + err.Error()
	} else {
		msg = fmt.Sprintf("panic: %v", recovered)
	}
	return &annotatedError{err: nil, msg: msg, attrs: nil, pc: panicSitePC()}
}

// SlogError renders err as an "error" group with the message, the annotations collected from the whole
// wrap chain, and the source location of the innermost annotation.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	var (
		annotations []any
		source      string
	)
	for cur := err; cur != nil; cur = stderrors.Unwrap(cur) {
		ae, ok := cur.(*annotatedError) //nolint:errorlint // walking the chain one link at a time.
		if !ok {
			continue
		}
		for _, a := range ae.attrs {
			annotations = append(annotations, a)
		}
		if ae.pc != 0 {
			source = formatPC(ae.pc)
		}
	}
	attrs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return slog.Group("error", attrs...)
}

func callerPC(skip int) uintptr {
	var pcs [1]uintptr
	// +2 skips runtime.Callers and callerPC itself.
	if runtime.Callers(skip+2, pcs[:]) == 0 {
		return 0
	}
	return pcs[0]
}

func panicSitePC() uintptr {
	const depth = 32
	pcs := make([]uintptr, depth)
	n := runtime.Callers(2, pcs) //nolint:mnd // skip runtime.Callers and panicSitePC.
	frames := runtime.CallersFrames(pcs[:n])
	var (
		first      uintptr
		afterPanic bool
	)
	for {
		frame, more := frames.Next()
		if first == 0 {
			first = frame.PC
		}
		if afterPanic {
			return frame.PC
		}
		if frame.Function == "runtime.gopanic" {
			afterPanic = true
		}
		if !more {
			break
		}
	}
	return first
}

func formatPC(pc uintptr) string {
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if frame.File == "" {
		return ""
	}
	return frame.File + ":" + strconv.Itoa(frame.Line)
}
