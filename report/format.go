package report

import (
	"fmt"
	"path"
	"reflect"
	"runtime/debug"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	noReason        = "No reason"
	unknownLocation = "  at unknown location"
	innerLabel      = "Inner Exception"

	// DateLayout is the round-trip UTC format of the Date header line.
	DateLayout = "2006-01-02T15:04:05.0000000Z07:00"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Header renders the five line report header.
func Header(metadata Metadata, osInfo OSInfo, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Package: %s\n", metadata.Package)
	fmt.Fprintf(&b, "Product-ID: %s\n", metadata.ProductID)
	fmt.Fprintf(&b, "Version: %s\n", metadata.Version)
	fmt.Fprintf(&b, "OS: %s %s\n", osInfo.Platform, osInfo.Version)
	fmt.Fprintf(&b, "Date: %s\n", now.UTC().Format(DateLayout))
	return b.String()
}

// Body renders the exception message and stack trace, followed by the inner
// exception block when the inner exception carries a stack trace.
func Body(ex *Exception) string {
	if ex == nil {
		ex = &Exception{}
	}

	var b strings.Builder
	writeException(&b, ex)

	if inner := ex.Inner; inner != nil && inner.StackTrace != "" {
		b.WriteString("\n\n")
		b.WriteString(innerLabel + "\n")
		writeException(&b, inner)
	}

	return strings.TrimSpace(b.String())
}

// CrashLog joins a header and the body of ex with a blank line.
func CrashLog(header string, ex *Exception) string {
	return header + "\n" + Body(ex)
}

func writeException(b *strings.Builder, ex *Exception) {
	message := ex.Message
	if message == "" {
		message = noReason
	}
	stackTrace := ex.StackTrace
	if stackTrace == "" {
		stackTrace = unknownLocation
	}

	b.WriteString(message + "\n")
	b.WriteString(stackTrace)
}

// FromError converts err into an Exception. The stack trace comes from the
// outermost github.com/pkg/errors stack in the chain, the inner exception is
// the root cause of err.
func FromError(err error) *Exception {
	if err == nil {
		return nil
	}

	ex := &Exception{
		Message:    err.Error(),
		StackTrace: stackTraceOf(err),
	}

	if cause := rootCause(err); cause != err {
		ex.Inner = &Exception{
			Message:    cause.Error(),
			StackTrace: stackTraceOf(cause),
		}
	}

	return ex
}

// FromPanic converts a recovered panic value into an Exception. Errors
// without an attached stack get the stack of the current goroutine.
func FromPanic(recovered interface{}) *Exception {
	if err, ok := recovered.(error); ok {
		ex := FromError(err)
		if ex.StackTrace == "" {
			ex.StackTrace = strings.TrimSpace(string(debug.Stack()))
		}
		return ex
	}

	return &Exception{
		Message:    fmt.Sprint(recovered),
		StackTrace: strings.TrimSpace(string(debug.Stack())),
	}
}

func stackTraceOf(err error) string {
	for err != nil {
		if tracer, ok := err.(stackTracer); ok {
			var lines []string
			for _, frame := range tracer.StackTrace() {
				lines = append(lines, fmt.Sprintf("  at %n (%s:%d)", frame, frame, frame))
			}
			return strings.Join(lines, "\n")
		}
		err = errors.Unwrap(err)
	}
	return ""
}

func rootCause(err error) error {
	for {
		next := errors.Cause(err)
		if next == err {
			next = errors.Unwrap(err)
		}
		if next == nil || next == err {
			return err
		}
		err = next
	}
}

// PackageName returns the Go package path of the application value's type.
func PackageName(app interface{}) string {
	t := reflect.TypeOf(app)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.PkgPath()
}

// BuildMetadata reads the product id and version from the main module's
// embedded build info.
func BuildMetadata() Metadata {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Metadata{}
	}

	version := info.Main.Version
	if version == "(devel)" {
		version = ""
	}

	var productID string
	if info.Main.Path != "" {
		productID = path.Base(info.Main.Path)
	}

	return Metadata{
		ProductID: productID,
		Version:   strings.TrimPrefix(version, "v"),
	}
}
