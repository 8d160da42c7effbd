package config

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/maproute/internal/errors"
	"github.com/vango-dev/maproute/pkg/codec"
	"github.com/vango-dev/maproute/pkg/routepath"
	"github.com/vango-dev/maproute/pkg/router"
)

const smallYAML = `log:
  level: debug
  format: json
server:
  readTimeout: 30s
  writeTimeout: 5
routes:
  - id: index
    paths: [/]
  - id: node
    paths: [/node/:id/history, /node/:id/history/:version]
    params:
      id: positive-int
      version: positive-int
    query:
      local: flag
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	t.Run("embedded table builds a router", func(t *testing.T) {
		c := Default()
		require.NoError(t, c.Validate())
		assert.Equal(t, DefaultSource, c.Source())
		assert.Equal(t, FormatYAML, c.Format())

		r, err := c.Router(nil)
		require.NoError(t, err)
		assert.Len(t, r.Routes(), len(c.Routes))
	})

	t.Run("embedded table resolves the map site urls", func(t *testing.T) {
		r, err := Default().Router(nil)
		require.NoError(t, err)

		tests := []struct {
			path  string
			route string
		}{
			{"/", "index"},
			{"/changeset/42", "changeset"},
			{"/node/5", "element"},
			{"/way/7/history", "element-history"},
			{"/relation/9/history/3", "element-history"},
			{"/note/new", "note-new"},
			{"/note/12", "note"},
			{"/history", "history"},
			{"/history/friends", "history-friends"},
			{"/history/nearby", "history-nearby"},
			{"/user/alice", "user"},
			{"/user/alice/history", "user-history"},
			{"/user/alice/diary", "diary"},
			{"/diary/de", "diary"},
			{"/diary", "diary"},
		}
		for _, tt := range tests {
			m, ok := r.Match(tt.path)
			if !assert.True(t, ok, tt.path) {
				continue
			}
			assert.Equal(t, tt.route, m.Route.ID(), tt.path)

			href, err := r.Href(tt.route, router.Input{Params: m.Params})
			require.NoError(t, err)
			assert.Equal(t, tt.path, href, "href of %s leads elsewhere", tt.route)
		}

		_, ok := r.Match("/changeset/abc")
		assert.False(t, ok)
	})

	t.Run("search query alias", func(t *testing.T) {
		r, err := Default().Router(nil)
		require.NoError(t, err)
		res, err := r.Resolve(routepath.MustParse("/search?query=cafe"), router.ReasonNavigation)
		require.NoError(t, err)
		assert.Equal(t, "cafe", res.Query["q"])
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		c, err := LoadFile(writeFile(t, "routes.yaml", smallYAML))
		require.NoError(t, err)

		assert.Equal(t, "debug", c.Log.Level)
		assert.Equal(t, "json", c.Log.Format)
		assert.Equal(t, DefaultAddr, c.Server.Addr)
		assert.Equal(t, Duration(30*time.Second), c.Server.ReadTimeout)
		assert.Equal(t, Duration(5*time.Second), c.Server.WriteTimeout)
		require.Len(t, c.Routes, 2)
		assert.Equal(t, 8, c.Routes[0].Line)
		assert.Equal(t, 10, c.Routes[1].Line)
		assert.Equal(t, "positive-int", c.Routes[1].Params["id"])
	})

	t.Run("json", func(t *testing.T) {
		content := `{
  "log": {"level": "warn"},
  "server": {"addr": ":9090", "readTimeout": "1m", "writeTimeout": 2},
  "routes": [
    {"id": "index", "paths": ["/"]},
    {"id": "user", "paths": ["/user/:name"], "params": {"name": "string"}}
  ]
}`
		c, err := LoadFile(writeFile(t, "routes.json", content))
		require.NoError(t, err)

		assert.Equal(t, "warn", c.Log.Level)
		assert.Equal(t, "text", c.Log.Format)
		assert.Equal(t, ":9090", c.Server.Addr)
		assert.Equal(t, Duration(time.Minute), c.Server.ReadTimeout)
		assert.Equal(t, Duration(2*time.Second), c.Server.WriteTimeout)
		require.Len(t, c.Routes, 2)
		assert.Equal(t, 5, c.Routes[0].Line)
		assert.Equal(t, 6, c.Routes[1].Line)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, errors.New(errors.CodeConfigNotFound))
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := LoadFile(writeFile(t, "routes.toml", ""))
		assert.ErrorIs(t, err, errors.New(errors.CodeConfigFormat))
	})

	t.Run("yaml syntax error has a location", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "routes:\n  - id: a\n   paths: [/\n")
		_, err := LoadFile(path)
		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, errors.CodeConfigParse, e.Code)
		require.NotNil(t, e.Location)
		assert.Positive(t, e.Location.Line)
	})

	t.Run("json syntax error has a location", func(t *testing.T) {
		path := writeFile(t, "bad.json", "{\n  \"routes\": [\n    {\"id\": }\n  ]\n}")
		_, err := LoadFile(path)
		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, errors.CodeConfigParse, e.Code)
		require.NotNil(t, e.Location)
		assert.Positive(t, e.Location.Line)
	})

	t.Run("json rejects unknown fields", func(t *testing.T) {
		_, err := LoadFile(writeFile(t, "extra.json", `{"rutes": []}`))
		assert.ErrorIs(t, err, errors.New(errors.CodeConfigParse))
	})

	t.Run("empty yaml gives defaults", func(t *testing.T) {
		c, err := LoadFile(writeFile(t, "empty.yaml", ""))
		require.NoError(t, err)
		assert.Empty(t, c.Routes)
		assert.Equal(t, "info", c.Log.Level)
	})
}

func TestLoad(t *testing.T) {
	t.Run("empty source is the default table", func(t *testing.T) {
		c, err := Load(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, DefaultSource, c.Source())
	})

	t.Run("path", func(t *testing.T) {
		path := writeFile(t, "r.yml", smallYAML)
		c, err := Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, path, c.Source())
	})
}

func TestDefinitions(t *testing.T) {
	t.Run("unknown codecs are reported together with their location", func(t *testing.T) {
		content := `routes:
  - id: a
    paths: [/a/:x]
    params:
      x: coordinates
  - id: b
    paths: [/b]
    query:
      y: nope
      z: int
`
		c, err := Parse("routes.yaml", []byte(content), FormatYAML)
		require.NoError(t, err)

		_, err = c.Definitions(codec.DefaultRegistry())
		var list errors.List
		require.ErrorAs(t, err, &list)
		require.Len(t, list, 2)
		assert.Equal(t, errors.CodeUnknownCodec, list[0].Code)
		assert.Equal(t, 2, list[0].Location.Line)
		assert.Contains(t, list[0].Detail, `"coordinates"`)
		assert.Equal(t, 6, list[1].Location.Line)
	})

	t.Run("custom registry", func(t *testing.T) {
		reg := codec.DefaultRegistry()
		require.NoError(t, reg.Register("zoom", codec.Int))
		c, err := Parse("r.yaml", []byte("routes:\n  - id: a\n    paths: [/]\n    query: {z: zoom}\n"), FormatYAML)
		require.NoError(t, err)

		defs, err := c.Definitions(reg)
		require.NoError(t, err)
		require.Len(t, defs, 1)
		assert.Equal(t, codec.Int, defs[0].Query["z"])
	})
}

func TestRouterErrors(t *testing.T) {
	content := `routes:
  - id: a
    paths: [/a]
  - id: b
    paths: [/b/:id]
  - id: a
    paths: [/c]
`
	c, err := Parse("routes.yaml", []byte(content), FormatYAML)
	require.NoError(t, err)

	_, err = c.Router(nil)
	var list errors.List
	require.ErrorAs(t, err, &list)
	require.Len(t, list, 2)

	codes := []string{list[0].Code, list[1].Code}
	assert.ElementsMatch(t, []string{string(router.CodeMissingCodec), string(router.CodeDuplicateRoute)}, codes)
	for _, e := range list {
		assert.NotNil(t, e.Location, e.Code)
		assert.Equal(t, errors.CategoryRoutes, e.Category)
	}
}

func TestValidate(t *testing.T) {
	c := New()
	require.NoError(t, c.Validate())

	c.Log.Level = "loud"
	c.Log.Format = "xml"
	c.Server.ReadTimeout = Duration(-time.Second)
	err := c.Validate()
	var list errors.List
	require.ErrorAs(t, err, &list)
	assert.Len(t, list, 3)
	for _, e := range list {
		assert.Equal(t, errors.CodeInvalidSetting, e.Code)
	}
}

func TestLogger(t *testing.T) {
	c := New()
	c.Log.Level = "warn"
	c.Log.Format = "json"

	var buf bytes.Buffer
	logger, err := c.Logger(&buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("route", "node"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"route":"node"`)

	c.Log.Level = "??"
	_, err = c.Logger(io.Discard)
	assert.ErrorIs(t, err, errors.New(errors.CodeInvalidSetting))
}

func TestWSConfig(t *testing.T) {
	c := New()
	c.Server.ReadTimeout = Duration(time.Second)
	ws := c.WSConfig()
	assert.Equal(t, time.Second, ws.ReadTimeout)
	assert.Nil(t, ws.CheckOrigin)

	c.Server.AllowedOrigins = []string{"https://www.openstreetmap.org/"}
	check := c.WSConfig().CheckOrigin
	require.NotNil(t, check)

	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Origin", "https://www.openstreetmap.org")
	assert.True(t, check(req))
	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))
}

type fakeS3 struct {
	bucket, key string
	body        string
	err         error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket, f.key = aws.ToString(in.Bucket), aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestLoadS3(t *testing.T) {
	t.Run("fetches and parses by extension", func(t *testing.T) {
		client := &fakeS3{body: smallYAML}
		c, err := LoadS3(context.Background(), client, "s3://maps/tables/routes.yaml")
		require.NoError(t, err)
		assert.Equal(t, "maps", client.bucket)
		assert.Equal(t, "tables/routes.yaml", client.key)
		assert.Len(t, c.Routes, 2)
		assert.Equal(t, "s3://maps/tables/routes.yaml", c.Source())
	})

	t.Run("fetch failure", func(t *testing.T) {
		cause := stderrors.New("access denied")
		_, err := LoadS3(context.Background(), &fakeS3{err: cause}, "s3://maps/routes.json")
		assert.ErrorIs(t, err, errors.New(errors.CodeRemoteFetch))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("bad url", func(t *testing.T) {
		for _, raw := range []string{"s3://bucket", "s3:///key.yaml", "http://x/y.yaml"} {
			_, err := LoadS3(context.Background(), &fakeS3{}, raw)
			assert.ErrorIs(t, err, errors.New(errors.CodeBadArgument), raw)
		}
	})

	t.Run("too large", func(t *testing.T) {
		body := strings.Repeat("#", maxRemoteSize+1)
		_, err := LoadS3(context.Background(), &fakeS3{body: body}, "s3://maps/routes.yaml")
		assert.ErrorIs(t, err, errors.New(errors.CodeRemoteFetch))
	})
}

func TestPosition(t *testing.T) {
	data := []byte("ab\ncd\n")
	tests := []struct {
		offset    int64
		line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{4, 2, 2},
		{-1, 0, 0},
	}
	for _, tt := range tests {
		line, col := position(data, tt.offset)
		assert.Equal(t, tt.line, line, "offset %d", tt.offset)
		assert.Equal(t, tt.col, col, "offset %d", tt.offset)
	}
}
