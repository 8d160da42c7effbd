// Package router resolves in-app locations of the map application to route
// definitions and typed parameters, and builds locations back from them.
//
// # Templates
//
// A route declares one or more path templates. Segments starting with ":"
// are parameters decoded by the codec declared for them:
//
//	router.Definition{
//	    ID:     "element",
//	    Paths:  []string{"/node/:id", "/node/:id/history"},
//	    Params: map[string]codec.Codec{"id": codec.PositiveInt},
//	}
//
// Templates are validated when the router is built. New reports malformed
// templates, placeholders without codecs, duplicate parameters and alias
// collisions as coded errors (see Code); matching never fails with a
// configuration error.
//
// # Specificity
//
// Every template of every route is compiled into a Variant and all variants
// are sorted once. A variant with more literal segments ranks first
// ("/search/history" before "/search/:id"), then the one whose parameter
// codecs accept fewer strings, then the earlier registered route, then the
// earlier declared template. Match walks the variants in that order and
// returns the first whose literals and codecs all accept the path.
//
// # Query strings
//
// Query keys are declared per route with their own codecs and optional
// aliases ({"query": "q"}). Query values are advisory: a value that fails
// to decode yields an empty query for the route rather than a failed
// navigation. EncodeQuery writes a canonical, alias-free query string.
//
// # Usage
//
//	r, err := router.New(defs)
//	if err != nil {
//	    return err // router.Errors lists every problem
//	}
//
//	m, ok := r.Match("/changeset/42")
//	// m.Route.ID() == "changeset", m.Params["id"] == 42
//
//	href, err := r.Href("search", router.Input{
//	    Query: map[string]any{"q": "cafe"},
//	})
//	// href == "/search?q=cafe"
package router
