package router

import "net/url"

// ParseInput decodes textual parameters and query values, as typed on a
// command line or sent to the inspector, into an Input for Href.
//
// Param keys may be aliases. Unlike DecodeQuery, a query value that fails
// to decode is an error rather than a soft failure.
func (r *Route) ParseInput(params map[string]string, query url.Values, hash string) (Input, error) {
	in := Input{Hash: hash}
	if len(params) > 0 {
		in.Params = make(map[string]any, len(params))
	}
	for key, raw := range params {
		canonical := key
		if target, ok := r.def.ParamAliases[key]; ok {
			canonical = target
		}
		c, ok := r.def.Params[canonical]
		if !ok {
			e := newError(CodeParamDecode, "undeclared parameter %q", key)
			e.Route, e.Key = r.ID(), key
			return Input{}, e
		}
		value, err := c.Decode(raw)
		if err != nil {
			return Input{}, &Error{Code: CodeParamDecode, Route: r.ID(), Key: key, Value: raw, Err: err}
		}
		in.Params[canonical] = value
	}

	for key := range query {
		if _, declared := r.def.Query[key]; declared {
			continue
		}
		if _, alias := r.def.QueryAliases[key]; !alias {
			e := newError(CodeQueryDecode, "undeclared query key %q", key)
			e.Route, e.Key = r.ID(), key
			return Input{}, e
		}
	}
	if len(query) > 0 {
		values, err := r.DecodeQuery(query)
		if err != nil {
			return Input{}, err
		}
		in.Query = values
	}
	return in, nil
}
