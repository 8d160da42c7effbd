package router

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vango-dev/maproute/pkg/routepath"
)

func TestHref(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name string
		id   string
		in   Input
		want string
	}{
		{"root", "index", Input{}, "/"},
		{"param", "changeset", Input{Params: map[string]any{"id": 42}}, "/changeset/42"},
		{"no params picks short template", "search", Input{}, "/search"},
		{"params pick long template", "search", Input{Params: map[string]any{"id": "abc"}}, "/search/abc"},
		{"most params wins", "node-history", Input{Params: map[string]any{"id": 5, "version": 2}}, "/node/5/history/2"},
		{"fewer params pick the shorter template", "node-history", Input{Params: map[string]any{"id": 5}}, "/node/5/history"},
		{"typed nil is absent", "node-history", Input{Params: map[string]any{"id": 5, "version": (*int)(nil)}}, "/node/5/history"},
		{"element page", "node", Input{Params: map[string]any{"id": 5}}, "/node/5"},
		{
			"query and hash",
			"search",
			Input{Query: map[string]any{"q": "cafe", "local": true}, Hash: "map=3/1/2"},
			"/search?local=1&q=cafe#map=3/1/2",
		},
		{"default query omitted", "search", Input{Query: map[string]any{"local": false}}, "/search"},
		{"plus survives", "search", Input{Params: map[string]any{"id": "a+b"}}, "/search/a%2Bb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Href(tt.id, tt.in)
			if err != nil {
				t.Fatalf("Href() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Href() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHrefFallback(t *testing.T) {
	r := newTestRouter(t)
	route, _ := r.Lookup("node-history")

	v, fallback := route.VariantFor(map[string]any{"version": 2})
	if !fallback || v.Template != "/node/:id/history" {
		t.Errorf("VariantFor() = %s, %v; want /node/:id/history, true", v.Template, fallback)
	}

	got, err := r.Href("node-history", Input{Params: map[string]any{"version": 2}})
	if err != nil {
		t.Fatalf("Href() error: %v", err)
	}
	if got != "/node//history" {
		t.Errorf("Href() = %q, want %q", got, "/node//history")
	}
}

func TestHrefErrors(t *testing.T) {
	r := newTestRouter(t)

	if _, err := r.Href("nope", Input{}); !errors.Is(err, ErrUnknownRoute) {
		t.Errorf("unknown route error = %v", err)
	}
	if _, err := r.Href("changeset", Input{Params: map[string]any{"id": "42"}}); !errors.Is(err, ErrEncode) {
		t.Errorf("encode error = %v", err)
	}
}

// Every href built from a match must match the same template with the
// same parameters again.
func TestHrefRoundTrip(t *testing.T) {
	r := newTestRouter(t)

	paths := []string{
		"/",
		"/changeset/42",
		"/search",
		"/search/caf%C3%A9%20bar",
		"/node/7",
		"/node/7/history",
		"/node/7/history/3",
		"/user/John+Doe",
		"/history",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			m := r.MustMatch(path)
			href, err := m.Route.Href(Input{Params: m.Params})
			if err != nil {
				t.Fatalf("Href() error: %v", err)
			}
			again, ok := r.Match(routepath.MustParse(href).Pathname)
			if !ok {
				t.Fatalf("built href %q does not match", href)
			}
			if again.Variant != m.Variant || !reflect.DeepEqual(again.Params, m.Params) {
				t.Errorf("round trip of %q via %q = %s %v, want %s %v",
					path, href, again.Variant.Template, again.Params, m.Variant.Template, m.Params)
			}
		})
	}
}
