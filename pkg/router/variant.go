package router

import (
	"reflect"
	"strings"

	"github.com/vango-dev/maproute/pkg/routepath"
)

// Variant is one compiled path template of a route.
type Variant struct {
	Route       *Route
	Template    string
	Index       int
	Tokens      []Token
	Specificity Specificity

	params []string
}

func newVariant(r *Route, template string, index int, tokens []Token) *Variant {
	v := &Variant{
		Route:       r,
		Template:    template,
		Index:       index,
		Tokens:      tokens,
		Specificity: specificityOf(tokens, r.index, index),
	}
	for _, t := range tokens {
		if t.IsParam() {
			v.params = append(v.params, t.Param)
		}
	}
	return v
}

// Params returns the canonical parameter names of the variant in
// template order.
func (v *Variant) Params() []string {
	return append([]string(nil), v.params...)
}

// match checks the raw segments of a path against the variant and decodes
// its parameters.
func (v *Variant) match(segments []string) (map[string]any, bool) {
	if len(segments) != len(v.Tokens) {
		return nil, false
	}

	params := make(map[string]any, len(v.params))
	for i, t := range v.Tokens {
		seg := segments[i]
		if !t.IsParam() {
			text, err := routepath.UnescapeLiteral(seg)
			if err != nil || text != t.Literal {
				return nil, false
			}
			continue
		}

		if seg == "" {
			return nil, false
		}
		text, err := routepath.UnescapeParam(seg)
		if err != nil {
			return nil, false
		}
		value, err := t.Codec.Decode(text)
		if err != nil {
			return nil, false
		}
		params[t.Param] = value
	}
	return params, true
}

// satisfiedBy reports whether params holds a value for every parameter of
// the variant.
func (v *Variant) satisfiedBy(params map[string]any) bool {
	for _, name := range v.params {
		if absent(params[name]) {
			return false
		}
	}
	return true
}

// absent reports whether value is nil, including a nil pointer, map, slice
// or interface stored in the any.
func absent(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Build renders the variant with params. Missing parameters render as
// empty segments.
func (v *Variant) Build(params map[string]any) (string, error) {
	if len(v.Tokens) == 0 {
		return "/", nil
	}

	var b strings.Builder
	for _, t := range v.Tokens {
		b.WriteByte('/')
		if !t.IsParam() {
			b.WriteString(t.Raw)
			continue
		}

		value := params[t.Param]
		if absent(value) {
			continue
		}
		text, err := t.Codec.Encode(value)
		if err != nil {
			return "", &Error{
				Code:     CodeEncode,
				Route:    v.Route.ID(),
				Template: v.Template,
				Key:      t.Param,
				Err:      err,
			}
		}
		b.WriteString(routepath.EscapeParam(text))
	}
	return b.String(), nil
}
