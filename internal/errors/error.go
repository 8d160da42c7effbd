package errors

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/vango-dev/maproute/pkg/router"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryRoutes  Category = "routes"
	CategoryRequest Category = "request"
	CategoryServer  Category = "server"
	CategoryCLI     Category = "cli"
)

// Location is a position in a route table or settings file.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// String returns the location as file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Error is a coded error shown to people running the maproute tool.
type Error struct {
	// Code is a unique identifier such as "M002" or a router code "R001".
	Code string `json:"code,omitempty"`

	Category Category `json:"category"`

	// Message is a short description of the error.
	Message string `json:"message"`

	// Detail is a longer explanation.
	Detail string `json:"detail,omitempty"`

	Location *Location `json:"location,omitempty"`

	// Context holds the source lines around Location.
	Context []string `json:"-"`

	Suggestion string `json:"suggestion,omitempty"`

	// Wrapped is the underlying error, if any.
	Wrapped error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithLocation points the error at a file on disk and loads the lines
// around it.
func (e *Error) WithLocation(file string, line, column int) *Error {
	e.Location = &Location{File: file, Line: line, Column: column}
	if f, err := os.Open(file); err == nil {
		defer f.Close()
		e.Context = contextLines(bufio.NewScanner(f), line, 5)
	}
	return e
}

// WithSource points the error at a position in an in-memory document,
// such as an embedded or downloaded route table.
func (e *Error) WithSource(name string, data []byte, line, column int) *Error {
	e.Location = &Location{File: name, Line: line, Column: column}
	e.Context = contextLines(bufio.NewScanner(bytes.NewReader(data)), line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// contextLines returns up to size lines centred on target.
func contextLines(scanner *bufio.Scanner, target, size int) []string {
	if target <= 0 {
		return nil
	}
	var lines []string
	n := 0
	start := max(target-size/2, 1)
	end := target + size/2
	for scanner.Scan() {
		n++
		if n >= start && n <= end {
			lines = append(lines, scanner.Text())
		}
		if n > end {
			break
		}
	}
	return lines
}

// contextStart returns the line number of the first context line.
func (e *Error) contextStart() int {
	if e.Location == nil {
		return 0
	}
	return max(e.Location.Line-5/2, 1)
}

// New creates an Error from a registered code.
func New(code string) *Error {
	tmpl, ok := registry[code]
	if !ok {
		return &Error{Code: code, Message: "Unknown error"}
	}
	return &Error{
		Code:       code,
		Category:   tmpl.Category,
		Message:    tmpl.Message,
		Detail:     tmpl.Detail,
		Suggestion: tmpl.Suggestion,
	}
}

// Newf creates an Error without a code.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{Category: category, Message: fmt.Sprintf(format, args...)}
}

// FromRouter converts a coded router error.
func FromRouter(re *router.Error) *Error {
	cat := CategoryRequest
	if re.Category() == router.CategoryConfig {
		cat = CategoryRoutes
	}
	e := &Error{
		Code:       string(re.Code),
		Category:   cat,
		Message:    re.Title(),
		Detail:     re.Message,
		Suggestion: re.Suggestion(),
		Wrapped:    re.Err,
	}
	switch {
	case re.Route != "" && re.Template != "":
		e.Detail = prefix(fmt.Sprintf("route %q, template %q", re.Route, re.Template), e.Detail)
	case re.Route != "":
		e.Detail = prefix(fmt.Sprintf("route %q", re.Route), e.Detail)
	}
	return e
}

func prefix(p, s string) string {
	if s == "" {
		return p
	}
	return p + ": " + s
}

// Flatten returns the coded errors carried by err. Router errors are
// converted; any other error becomes a single uncoded entry.
func Flatten(err error) []*Error {
	if err == nil {
		return nil
	}
	var list List
	if stderrors.As(err, &list) {
		return list
	}
	var own *Error
	if stderrors.As(err, &own) {
		return []*Error{own}
	}
	if res := router.AsErrors(err); len(res) > 0 {
		out := make([]*Error, 0, len(res))
		for _, re := range res {
			out = append(out, FromRouter(re))
		}
		return out
	}
	return []*Error{{Category: CategoryCLI, Message: err.Error()}}
}

// List is a set of errors reported together, such as every problem found
// in one route table.
type List []*Error

// Error implements the error interface.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msg := fmt.Sprintf("%d errors:", len(l))
	for _, e := range l {
		msg += "\n  " + e.Error()
	}
	return msg
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l List) Unwrap() []error {
	out := make([]error, len(l))
	for i, e := range l {
		out[i] = e
	}
	return out
}

// FromError wraps a standard error under code. Errors that already are
// *Error are returned unchanged.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return New(code).Wrap(err)
}
