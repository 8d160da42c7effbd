package router

import (
	"github.com/vango-dev/maproute/pkg/routepath"
)

// Href builds the location of route id for in.
func (r *Router) Href(id string, in Input) (string, error) {
	route, ok := r.Lookup(id)
	if !ok {
		e := newError(CodeUnknownRoute, "%q", id)
		e.Route = id
		return "", e
	}
	href, fallback, err := route.href(in)
	if fallback {
		r.logger.Debug("router: no template satisfied by params, using first template",
			"route", id,
			"template", route.variants[0].Template)
	}
	return href, err
}

// Href builds the location of the route for in.
func (r *Route) Href(in Input) (string, error) {
	href, _, err := r.href(in)
	return href, err
}

func (r *Route) href(in Input) (string, bool, error) {
	v, fallback := r.VariantFor(in.Params)
	href, err := v.Href(in)
	return href, fallback, err
}

// Href builds the location of in on this template, without choosing
// among the templates of the route.
func (v *Variant) Href(in Input) (string, error) {
	path, err := v.Build(in.Params)
	if err != nil {
		return "", err
	}
	query, err := v.Route.EncodeQuery(in.Query)
	if err != nil {
		return "", err
	}
	return routepath.Join(path, query, in.Hash), nil
}

// BuildPath renders the path of the route for params.
func (r *Route) BuildPath(params map[string]any) (string, error) {
	v, _ := r.VariantFor(params)
	return v.Build(params)
}

// VariantFor picks the template used to build a path from params: the
// first one, preferring templates with more parameters and then the usual
// specificity order, whose parameters are all present. When none is
// satisfied the first declared template is returned with fallback == true;
// the path built from it has empty segments for the missing parameters.
func (r *Route) VariantFor(params map[string]any) (v *Variant, fallback bool) {
	for _, candidate := range r.build {
		if candidate.satisfiedBy(params) {
			return candidate, false
		}
	}
	return r.variants[0], true
}
