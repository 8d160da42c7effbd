package config

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// Logger builds the slog logger selected by Log.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := c.LogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// checkOrigin returns a WebSocket origin check accepting the listed
// origins, or nil to keep the same-host default.
func checkOrigin(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	norm := make([]string, len(allowed))
	for i, o := range allowed {
		norm[i] = strings.ToLower(strings.TrimSuffix(o, "/"))
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return false
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return slices.Contains(norm, strings.ToLower(u.Scheme+"://"+u.Host))
	}
}
