package inspect

import (
	"github.com/vango-dev/maproute/pkg/router"
)

// RouteInfo describes a compiled route.
type RouteInfo struct {
	ID        string        `json:"id"`
	Index     int           `json:"index"`
	Params    []string      `json:"params,omitempty"`
	Query     []string      `json:"query,omitempty"`
	Templates []VariantInfo `json:"templates"`
}

// VariantInfo describes one template of a route.
type VariantInfo struct {
	Template    string          `json:"template"`
	Params      []string        `json:"params,omitempty"`
	Specificity SpecificityInfo `json:"specificity"`

	// Rank is the position of the template in matching order.
	Rank int `json:"rank"`
}

// SpecificityInfo mirrors router.Specificity.
type SpecificityInfo struct {
	Literals     int `json:"literals"`
	Weight       int `json:"weight"`
	Registration int `json:"registration"`
	Index        int `json:"index"`
}

// Describe lists the routes of r in registration order.
func Describe(r *router.Router) []RouteInfo {
	rank := make(map[*router.Variant]int)
	for i, v := range r.Variants() {
		rank[v] = i
	}

	routes := r.Routes()
	out := make([]RouteInfo, 0, len(routes))
	for _, route := range routes {
		info := RouteInfo{
			ID:     route.ID(),
			Index:  route.Index(),
			Params: route.ParamKeys(),
			Query:  route.QueryKeys(),
		}
		for _, v := range route.Variants() {
			info.Templates = append(info.Templates, VariantInfo{
				Template:    v.Template,
				Params:      v.Params(),
				Specificity: SpecificityInfo(v.Specificity),
				Rank:        rank[v],
			})
		}
		out = append(out, info)
	}
	return out
}
