package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/maproute/pkg/reactive"
	"github.com/vango-dev/maproute/pkg/router"
	"github.com/vango-dev/maproute/pkg/routepath"
)

func TestNewController(t *testing.T) {
	t.Run("applies the initial location", func(t *testing.T) {
		c, port, rec := setup(t, "/changeset/42")

		active := c.Route().Peek()
		require.NotNil(t, active)
		assert.Equal(t, "changeset", active.Route.ID())
		assert.Equal(t, "/changeset/:id", active.Variant.Template)
		assert.Equal(t, 42, c.Param("id").Peek())
		assert.Equal(t, "/changeset/42", c.Path().Peek())
		assert.Equal(t, router.ReasonNavigation, c.Context().Peek().Reason)
		assert.Equal(t, StateIdle, c.State())
		assert.Empty(t, port.Writes)
		require.Len(t, rec.applied, 1)
		assert.Equal(t, "changeset", rec.applied[0].Route)
	})

	t.Run("fails on an unroutable location", func(t *testing.T) {
		port := NewMemoryPort(testOrigin, routepath.MustParse("/nowhere"))
		rec := &recorder{}
		c, err := NewController(router.MustNew(testRoutes()), port, WithObserver(rec))
		assert.Nil(t, c)
		assert.ErrorIs(t, err, router.ErrNoRoute)
		require.Len(t, rec.failures, 1)
		assert.Equal(t, "/nowhere", rec.failures[0].URL)
	})

	t.Run("decodes aliased query without rewriting the url", func(t *testing.T) {
		c, port, _ := setup(t, "/search?query=cafe&local=1")

		assert.Equal(t, "cafe", c.Query("q").Peek())
		assert.Equal(t, true, c.Query("local").Peek())
		assert.Nil(t, c.Query("query"))
		assert.Empty(t, port.Writes)
	})

	t.Run("applies an empty query when decoding fails", func(t *testing.T) {
		c, _, rec := setup(t, "/history?before=soon")

		assert.Nil(t, c.Query("before").Peek())
		require.Len(t, rec.applied, 1)
		assert.ErrorIs(t, rec.applied[0].QueryErr, router.ErrQueryDecode)
	})
}

func TestNavigate(t *testing.T) {
	t.Run("pushes and applies", func(t *testing.T) {
		c, port, rec := setup(t, "/")

		ok := c.Navigate("changeset", router.Input{Params: map[string]any{"id": 7}})
		require.True(t, ok)

		assert.Equal(t, []Write{{Kind: WritePush, URL: "/changeset/7"}}, port.Writes)
		assert.Equal(t, 2, port.Len())
		assert.Equal(t, "changeset", c.Route().Peek().Route.ID())
		assert.Equal(t, 7, c.Param("id").Peek())
		assert.Equal(t, port.Writes, rec.writes)
	})

	t.Run("updates parameter cells in place", func(t *testing.T) {
		c, _, _ := setup(t, "/changeset/7")

		cell := c.Param("id")
		require.True(t, c.Navigate("changeset", router.Input{Params: map[string]any{"id": 8}}))

		assert.Same(t, cell, c.Param("id"))
		assert.Equal(t, 8, cell.Peek())
	})

	t.Run("replaces the parameter bag when the route changes", func(t *testing.T) {
		c, _, _ := setup(t, "/")

		var bags int
		reactive.NewEffect(c.Runtime(), func() {
			c.ParamBag().Get()
			bags++
		})
		require.Equal(t, 1, bags)

		c.MustNavigate("changeset", router.Input{Params: map[string]any{"id": 7}})
		assert.Equal(t, 2, bags)

		c.MustNavigate("changeset", router.Input{Params: map[string]any{"id": 8}})
		assert.Equal(t, 2, bags)

		c.MustNavigate("node", router.Input{Params: map[string]any{"id": 1}})
		assert.Equal(t, 3, bags)
		assert.Nil(t, c.Param("version").Peek())
	})

	t.Run("creates a new context for every application", func(t *testing.T) {
		c, _, _ := setup(t, "/changeset/1")

		first := c.Context().Peek()
		c.MustNavigate("changeset", router.Input{Params: map[string]any{"id": 2}})
		second := c.Context().Peek()

		assert.NotSame(t, first, second)
		assert.Equal(t, "/changeset/2", second.Pathname)
	})

	t.Run("raises a hash change when only the hash changes", func(t *testing.T) {
		c, port, _ := setup(t, "/search?q=x")
		ctx := c.Context().Peek()

		ok := c.Navigate("search", router.Input{
			Query: map[string]any{"q": "x"},
			Hash:  "map=1/2/3",
		})
		require.True(t, ok)

		assert.Equal(t, []Write{{Kind: WritePush, URL: "/search?q=x#map=1/2/3"}}, port.Writes)
		assert.Equal(t, []HashChange{{
			Old: "https://example.org/search?q=x",
			New: "https://example.org/search?q=x#map=1/2/3",
		}}, port.HashChanges)
		assert.Same(t, ctx, c.Context().Peek())
		assert.Equal(t, "#map=1/2/3", c.Location().Hash)
	})

	t.Run("replace does not add an entry", func(t *testing.T) {
		c, port, _ := setup(t, "/")

		require.True(t, c.Replace("changeset", router.Input{Params: map[string]any{"id": 3}}))
		assert.Equal(t, 1, port.Len())
		assert.Equal(t, []Write{{Kind: WriteReplace, URL: "/changeset/3"}}, port.Writes)
		assert.Equal(t, 3, c.Param("id").Peek())
	})

	t.Run("reports soft failures", func(t *testing.T) {
		c, port, rec := setup(t, "/")

		assert.False(t, c.Navigate("nope", router.Input{}))
		assert.False(t, c.Navigate("changeset", router.Input{Params: map[string]any{"id": "x"}}))
		assert.False(t, c.NavigateURL("/nowhere"))
		assert.Empty(t, port.Writes)
		require.Len(t, rec.failures, 3)
		assert.ErrorIs(t, rec.failures[0].Err, router.ErrUnknownRoute)
		assert.ErrorIs(t, rec.failures[1].Err, router.ErrEncode)
		assert.ErrorIs(t, rec.failures[2].Err, router.ErrNoRoute)
		assert.Equal(t, "index", c.Route().Peek().Route.ID())
	})

	t.Run("strict variants panic", func(t *testing.T) {
		c, _, _ := setup(t, "/")

		assert.Panics(t, func() { c.MustNavigate("nope", router.Input{}) })
		assert.Panics(t, func() { c.MustReplace("nope", router.Input{}) })
	})
}

func TestPopNavigation(t *testing.T) {
	t.Run("applies back and forward", func(t *testing.T) {
		c, _, _ := setup(t, "/")
		c.MustNavigate("changeset", router.Input{Params: map[string]any{"id": 1}})
		c.MustNavigate("changeset", router.Input{Params: map[string]any{"id": 2}})

		require.True(t, c.Back())
		assert.Equal(t, 1, c.Param("id").Peek())
		assert.Equal(t, router.ReasonPopState, c.Context().Peek().Reason)

		require.True(t, c.Forward())
		assert.Equal(t, 2, c.Param("id").Peek())
	})

	t.Run("keeps the previous route on an unroutable location", func(t *testing.T) {
		c, port, rec := setup(t, "/")
		require.NoError(t, port.PushPath("/nowhere"))
		c.MustNavigate("search", router.Input{})

		port.Back()

		assert.Equal(t, "search", c.Route().Peek().Route.ID())
		assert.Equal(t, "/search", c.Location().Pathname)
		require.Len(t, rec.failures, 1)
		assert.Equal(t, router.ReasonPopState, rec.failures[0].Reason)
		assert.ErrorIs(t, rec.failures[0].Err, router.ErrNoRoute)
	})

	t.Run("ignores pops after close", func(t *testing.T) {
		c, port, _ := setup(t, "/")
		c.MustNavigate("changeset", router.Input{Params: map[string]any{"id": 1}})
		c.Close()

		port.Back()
		assert.Equal(t, "changeset", c.Route().Peek().Route.ID())
	})
}

func TestState(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "applying", StateApplying.String())
	assert.Equal(t, "writing", StateWriting.String())
	assert.Equal(t, "unknown", State(9).String())
}
