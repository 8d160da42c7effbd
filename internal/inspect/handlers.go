package inspect

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	clierrors "github.com/vango-dev/maproute/internal/errors"
	"github.com/vango-dev/maproute/pkg/router"
	"github.com/vango-dev/maproute/pkg/routepath"
)

// paramPrefix marks href query keys that are path parameters.
const paramPrefix = "param."

// Resolution is the answer of /resolve.
type Resolution struct {
	Route    string         `json:"route"`
	Template string         `json:"template"`
	Params   map[string]any `json:"params"`
	Query    map[string]any `json:"query"`

	// QueryError is set when the query failed to decode and Query holds
	// the empty fallback.
	QueryError *clierrors.Error `json:"queryError,omitempty"`

	Context Context `json:"context"`

	// Canonical is the location rebuilt on the matched template from the
	// decoded values.
	Canonical string `json:"canonical"`
}

// Context mirrors router.RouteContext.
type Context struct {
	Reason   router.LoadReason `json:"reason"`
	Path     string            `json:"path"`
	Pathname string            `json:"pathname"`
	Search   string            `json:"search,omitempty"`
	Hash     string            `json:"hash,omitempty"`
	Query    url.Values        `json:"query,omitempty"`
}

// Href is the answer of /href/{id}.
type Href struct {
	Route    string `json:"route"`
	Href     string `json:"href"`
	Absolute string `json:"absolute,omitempty"`
}

// Resolve matches and decodes a location the way a navigation controller
// would on first load.
func Resolve(r *router.Router, raw string) (*Resolution, error) {
	loc, err := routepath.Parse(raw)
	if err != nil {
		return nil, clierrors.New(clierrors.CodeBadArgument).WithDetail(raw).Wrap(err)
	}
	res, err := r.Resolve(loc, router.ReasonNavigation)
	if err != nil {
		return nil, err
	}

	route := res.Match.Route
	out := &Resolution{
		Route:    route.ID(),
		Template: res.Match.Variant.Template,
		Params:   res.Match.Params,
		Query:    res.Query,
		Context: Context{
			Reason:   res.Context.Reason,
			Path:     res.Context.Path,
			Pathname: res.Context.Pathname,
			Search:   res.Context.Search,
			Hash:     res.Context.Hash,
			Query:    res.Context.Query,
		},
	}
	var qe *router.Error
	if res.QueryErr != nil {
		if errors.As(res.QueryErr, &qe) {
			out.QueryError = clierrors.FromRouter(qe)
		} else {
			out.QueryError = clierrors.Newf(clierrors.CategoryRequest, "%v", res.QueryErr)
		}
	}
	canonical, err := res.Match.Variant.Href(router.Input{
		Params: res.Match.Params,
		Query:  res.Query,
		Hash:   strings.TrimPrefix(loc.Hash, "#"),
	})
	if err != nil {
		return nil, err
	}
	out.Canonical = canonical
	return out, nil
}

func (s *Server) handleRoutes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Describe(s.router))
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("path")
	if raw == "" {
		writeError(w, http.StatusBadRequest, clierrors.New(clierrors.CodeBadArgument).WithDetail(`missing "path"`))
		return
	}
	res, err := Resolve(s.router, raw)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHref(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	route, ok := s.router.Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, &router.Error{Code: router.CodeUnknownRoute, Route: id})
		return
	}

	params := make(map[string]string)
	query := url.Values{}
	hash := ""
	for key, values := range r.URL.Query() {
		switch {
		case key == "hash":
			hash = values[0]
		case strings.HasPrefix(key, paramPrefix):
			params[strings.TrimPrefix(key, paramPrefix)] = values[0]
		default:
			query[key] = values
		}
	}

	in, err := route.ParseInput(params, query, hash)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	href, err := s.router.Href(id, in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	out := Href{Route: id, Href: href}
	if s.origin != "" {
		out.Absolute = strings.TrimSuffix(s.origin, "/") + href
	}
	writeJSON(w, http.StatusOK, out)
}

// statusOf maps an error to an HTTP status.
func statusOf(err error) int {
	for _, re := range router.AsErrors(err) {
		switch re.Code {
		case router.CodeNoRoute, router.CodeUnknownRoute:
			return http.StatusNotFound
		}
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	clierrors.PrintJSON(w, err)
}
