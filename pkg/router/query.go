package router

import (
	"net/url"

	"github.com/vango-dev/maproute/pkg/codec"
)

// DecodeQuery decodes the raw query of a location for this route.
//
// Aliases are applied first: an alias is ignored when its canonical key
// already has a non-empty value, otherwise its values are copied onto the
// canonical key. The result holds every declared key, nil when absent.
//
// On failure DecodeQuery returns the empty query (every key nil) together
// with an *Error (CodeQueryDecode) naming the first failing key.
func (r *Route) DecodeQuery(raw url.Values) (map[string]any, error) {
	values := r.resolveAliases(raw)

	out := make(map[string]any, len(r.queryKeys))
	for _, key := range r.queryKeys {
		vs := values[key]
		if len(vs) == 0 {
			out[key] = nil
			continue
		}

		c := r.def.Query[key]
		var (
			value any
			err   error
		)
		if mc, ok := c.(codec.MultiCodec); ok {
			value, err = mc.DecodeAll(vs)
		} else {
			value, err = c.Decode(vs[0])
		}
		if err != nil {
			return r.EmptyQuery(), &Error{
				Code:  CodeQueryDecode,
				Route: r.ID(),
				Key:   key,
				Value: vs[0],
				Err:   err,
			}
		}
		out[key] = value
	}
	return out, nil
}

// EmptyQuery returns every declared query key mapped to nil.
func (r *Route) EmptyQuery() map[string]any {
	out := make(map[string]any, len(r.queryKeys))
	for _, key := range r.queryKeys {
		out[key] = nil
	}
	return out
}

// EncodeQuery encodes values into a canonical query string without the
// leading "?". Keys are sorted, aliases never appear, and nil or default
// values are left out. Keys the route does not declare are ignored.
func (r *Route) EncodeQuery(values map[string]any) (string, error) {
	q := url.Values{}
	for _, key := range r.queryKeys {
		value := values[key]
		c := r.def.Query[key]
		if absent(value) || codec.IsDefault(c, value) {
			continue
		}

		if mc, ok := c.(codec.MultiCodec); ok {
			all, err := mc.EncodeAll(value)
			if err != nil {
				return "", &Error{Code: CodeEncode, Route: r.ID(), Key: key, Err: err}
			}
			for _, s := range all {
				q.Add(key, s)
			}
			continue
		}

		s, err := c.Encode(value)
		if err != nil {
			return "", &Error{Code: CodeEncode, Route: r.ID(), Key: key, Err: err}
		}
		q.Set(key, s)
	}
	return q.Encode(), nil
}

func (r *Route) resolveAliases(raw url.Values) url.Values {
	if len(r.aliasOrder) == 0 {
		return raw
	}

	values := make(url.Values, len(raw))
	for k, v := range raw {
		values[k] = v
	}
	for _, alias := range r.aliasOrder {
		canonical := r.def.QueryAliases[alias]
		if hasValue(values[canonical]) {
			continue
		}
		if vs := values[alias]; len(vs) > 0 {
			values[canonical] = vs
		}
	}
	return values
}

func hasValue(vs []string) bool {
	for _, v := range vs {
		if v != "" {
			return true
		}
	}
	return false
}
