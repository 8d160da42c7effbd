package navigation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vango-dev/maproute/pkg/codec"
	"github.com/vango-dev/maproute/pkg/router"
	"github.com/vango-dev/maproute/pkg/routepath"
)

const testOrigin = "https://example.org"

func testRoutes() []router.Definition {
	return []router.Definition{
		{ID: "index", Paths: []string{"/"}},
		{
			ID:     "changeset",
			Paths:  []string{"/changeset/:id"},
			Params: map[string]codec.Codec{"id": codec.PositiveInt},
		},
		{
			ID:     "search",
			Paths:  []string{"/search", "/search/:id"},
			Params: map[string]codec.Codec{"id": codec.String},
			Query: map[string]codec.Codec{
				"q":     codec.String,
				"local": codec.Flag,
			},
			QueryAliases: map[string]string{"query": "q"},
		},
		{
			ID:    "node",
			Paths: []string{"/node/:id", "/node/:id/history/:version"},
			Params: map[string]codec.Codec{
				"id":      codec.PositiveInt,
				"version": codec.PositiveInt,
			},
		},
		{
			ID:    "history",
			Paths: []string{"/history"},
			Query: map[string]codec.Codec{"before": codec.PositiveInt},
		},
	}
}

type recorder struct {
	applied  []Applied
	failures []Failure
	writes   []Write
}

func (r *recorder) RouteApplied(a Applied)     { r.applied = append(r.applied, a) }
func (r *recorder) NavigationFailed(f Failure) { r.failures = append(r.failures, f) }
func (r *recorder) HistoryWritten(w Write)     { r.writes = append(r.writes, w) }

// setup starts a controller on a memory port at initial.
func setup(t *testing.T, initial string) (*Controller, *MemoryPort, *recorder) {
	t.Helper()
	port := NewMemoryPort(testOrigin, routepath.MustParse(initial))
	rec := &recorder{}
	c, err := NewController(router.MustNew(testRoutes()), port, WithObserver(rec))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, port, rec
}
