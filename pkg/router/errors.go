package router

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies a kind of router error.
type Code string

// Configuration errors (R0xx) are returned by New; request errors (R1xx)
// by matching, building and decoding.
const (
	CodeTemplateSyntax Code = "R001"
	CodeMissingCodec   Code = "R002"
	CodeDuplicateParam Code = "R003"
	CodeAliasCollision Code = "R004"
	CodeAliasTarget    Code = "R005"
	CodeDuplicateRoute Code = "R006"
	CodeNoPaths        Code = "R007"
	CodeInvalidLiteral Code = "R008"
	CodeMissingID      Code = "R009"
	CodeSameParams     Code = "R010"

	CodeNoRoute      Code = "R101"
	CodeUnknownRoute Code = "R102"
	CodeQueryDecode  Code = "R103"
	CodeEncode       Code = "R104"
	CodeParamDecode  Code = "R105"
)

// Category groups codes by when they can occur.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryRequest Category = "request"
)

// errorTemplate holds the fixed text of a code.
type errorTemplate struct {
	Category   Category
	Title      string
	Suggestion string
}

var registry = map[Code]errorTemplate{
	CodeTemplateSyntax: {
		Category:   CategoryConfig,
		Title:      "malformed path template",
		Suggestion: `Templates start with "/", have no empty segments and no trailing "/" (except "/" itself).`,
	},
	CodeMissingCodec: {
		Category:   CategoryConfig,
		Title:      "placeholder has no codec",
		Suggestion: "Declare the parameter in Params, or map the placeholder to a declared parameter in ParamAliases.",
	},
	CodeDuplicateParam: {
		Category:   CategoryConfig,
		Title:      "duplicate parameter in template",
		Suggestion: "Each parameter may appear once per template, aliases included.",
	},
	CodeAliasCollision: {
		Category:   CategoryConfig,
		Title:      "alias collides with a declared key",
		Suggestion: "Pick an alias name that is not already a parameter or query key of the route.",
	},
	CodeAliasTarget: {
		Category:   CategoryConfig,
		Title:      "alias points to an undeclared key",
		Suggestion: "Alias targets must be canonical keys declared in Params or Query.",
	},
	CodeDuplicateRoute: {
		Category:   CategoryConfig,
		Title:      "duplicate route id",
		Suggestion: "Route ids are used by Href and Navigate and must be unique.",
	},
	CodeNoPaths: {
		Category:   CategoryConfig,
		Title:      "route declares no path template",
		Suggestion: "Add at least one template to Paths.",
	},
	CodeInvalidLiteral: {
		Category:   CategoryConfig,
		Title:      "invalid escape in literal segment",
		Suggestion: "Literal segments may only contain valid %XX escapes.",
	},
	CodeMissingID: {
		Category:   CategoryConfig,
		Title:      "route has no id",
		Suggestion: "Give every route definition a non-empty ID.",
	},
	CodeSameParams: {
		Category:   CategoryConfig,
		Title:      "templates take the same parameters",
		Suggestion: "Href picks a template by its parameters, so only one of them is reachable. Split the templates into separate routes.",
	},
	CodeNoRoute: {
		Category: CategoryRequest,
		Title:    "no route matches the path",
	},
	CodeUnknownRoute: {
		Category: CategoryRequest,
		Title:    "unknown route id",
	},
	CodeQueryDecode: {
		Category: CategoryRequest,
		Title:    "query parameter failed to decode",
	},
	CodeEncode: {
		Category: CategoryRequest,
		Title:    "value failed to encode",
	},
	CodeParamDecode: {
		Category: CategoryRequest,
		Title:    "path parameter failed to decode",
	},
}

// Sentinel errors for errors.Is. Any *Error with the same code matches.
var (
	ErrTemplateSyntax = &Error{Code: CodeTemplateSyntax}
	ErrMissingCodec   = &Error{Code: CodeMissingCodec}
	ErrDuplicateParam = &Error{Code: CodeDuplicateParam}
	ErrAliasCollision = &Error{Code: CodeAliasCollision}
	ErrAliasTarget    = &Error{Code: CodeAliasTarget}
	ErrDuplicateRoute = &Error{Code: CodeDuplicateRoute}
	ErrNoPaths        = &Error{Code: CodeNoPaths}
	ErrInvalidLiteral = &Error{Code: CodeInvalidLiteral}
	ErrMissingID      = &Error{Code: CodeMissingID}
	ErrSameParams     = &Error{Code: CodeSameParams}
	ErrNoRoute        = &Error{Code: CodeNoRoute}
	ErrUnknownRoute   = &Error{Code: CodeUnknownRoute}
	ErrQueryDecode    = &Error{Code: CodeQueryDecode}
	ErrEncode         = &Error{Code: CodeEncode}
	ErrParamDecode    = &Error{Code: CodeParamDecode}
)

// Error is a coded router error.
type Error struct {
	Code Code

	// Route is the id of the route involved, if any.
	Route string

	// Template is the path template involved, if any.
	Template string

	// Key is the parameter, query key or alias involved, if any.
	Key string

	// Value is the raw URL text involved, if any.
	Value string

	// Message describes this occurrence.
	Message string

	// Err is the underlying error, typically from a codec.
	Err error
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Title())
	if e.Route != "" {
		fmt.Fprintf(&b, " (route %q", e.Route)
		if e.Template != "" {
			fmt.Fprintf(&b, ", template %q", e.Template)
		}
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Title returns the short description registered for the code.
func (e *Error) Title() string {
	if tmpl, ok := registry[e.Code]; ok {
		return tmpl.Title
	}
	return "router error"
}

// Category returns the category registered for the code.
func (e *Error) Category() Category {
	return registry[e.Code].Category
}

// Suggestion returns a hint on how to fix the error, if one is registered.
func (e *Error) Suggestion() string {
	return registry[e.Code].Suggestion
}

// Errors collects every configuration error found by New.
type Errors []*Error

// Error implements the error interface.
func (es Errors) Error() string {
	switch len(es) {
	case 0:
		return "no router errors"
	case 1:
		return es[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d route configuration errors:", len(es))
	for _, e := range es {
		b.WriteString("\n  ")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (es Errors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

// AsErrors flattens err into the coded errors it carries.
func AsErrors(err error) []*Error {
	var es Errors
	if errors.As(err, &es) {
		return es
	}
	var e *Error
	if errors.As(err, &e) {
		return []*Error{e}
	}
	return nil
}
