package config

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/vango-dev/maproute/internal/errors"
	"github.com/vango-dev/maproute/pkg/codec"
	"github.com/vango-dev/maproute/pkg/router"
	"github.com/vango-dev/maproute/pkg/wsport"
)

const (
	// DefaultAddr is the default inspector listen address.
	DefaultAddr = ":8080"

	// DefaultSource names the embedded route table in messages.
	DefaultSource = "<default>"

	// EnvConfig and EnvAddr are read by the CLI.
	EnvConfig = "MAPROUTE_CONFIG"
	EnvAddr   = "MAPROUTE_ADDR"
)

//go:embed default.yaml
var defaultTable []byte

// Config is a route table together with the settings of the tool that
// serves it.
type Config struct {
	Log     LogConfig     `yaml:"log" json:"log"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
	Routes  []RouteConfig `yaml:"routes" json:"routes"`

	source string
	format Format
	data   []byte
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`

	// Format is text or json.
	Format string `yaml:"format" json:"format"`
}

// ServerConfig configures the inspector and its WebSocket endpoint.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`

	// Origin prefixes hrefs the inspector returns as absolute URLs.
	Origin string `yaml:"origin" json:"origin"`

	// AllowedOrigins lists origins accepted on /ws. Empty means same host.
	AllowedOrigins []string `yaml:"allowedOrigins" json:"allowedOrigins"`

	ReadTimeout      Duration `yaml:"readTimeout" json:"readTimeout"`
	WriteTimeout     Duration `yaml:"writeTimeout" json:"writeTimeout"`
	HandshakeTimeout Duration `yaml:"handshakeTimeout" json:"handshakeTimeout"`
	MaxMessageSize   int64    `yaml:"maxMessageSize" json:"maxMessageSize"`
}

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	Namespace string `yaml:"namespace" json:"namespace"`
	Subsystem string `yaml:"subsystem" json:"subsystem"`
}

// RouteConfig declares one route with codecs given by name.
type RouteConfig struct {
	ID           string            `yaml:"id" json:"id"`
	Paths        []string          `yaml:"paths" json:"paths"`
	Params       map[string]string `yaml:"params" json:"params"`
	Query        map[string]string `yaml:"query" json:"query"`
	ParamAliases map[string]string `yaml:"paramAliases" json:"paramAliases"`
	QueryAliases map[string]string `yaml:"queryAliases" json:"queryAliases"`

	// Line and Column locate the definition in its source, when known.
	Line   int `yaml:"-" json:"-"`
	Column int `yaml:"-" json:"-"`
}

// New creates a Config with default settings and no routes.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Default returns the embedded route table of the map site.
func Default() *Config {
	c, err := Parse(DefaultSource, defaultTable, FormatYAML)
	if err != nil {
		panic("config: embedded route table: " + err.Error())
	}
	return c
}

// Load reads a route table from source. An empty source selects the
// embedded table; "s3://bucket/key" is fetched from S3; anything else is
// a local file.
func Load(ctx context.Context, source string) (*Config, error) {
	switch {
	case source == "":
		return Default(), nil
	case strings.HasPrefix(source, "s3://"):
		client, err := NewS3Client(ctx)
		if err != nil {
			return nil, err
		}
		return LoadS3(ctx, client, source)
	default:
		return LoadFile(source)
	}
}

// LoadFile reads a route table from a YAML or JSON file.
func LoadFile(path string) (*Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No file at " + path)
		}
		return nil, errors.New(errors.CodeConfigParse).Wrap(err)
	}
	return Parse(path, data, format)
}

// Parse decodes a route table. name labels the source in errors.
func Parse(name string, data []byte, format Format) (*Config, error) {
	c := &Config{source: name, format: format, data: data}
	var err error
	switch format {
	case FormatYAML:
		err = decodeYAML(name, data, c)
	case FormatJSON:
		err = decodeJSON(name, data, c)
	default:
		err = errors.New(errors.CodeConfigFormat).WithDetail(fmt.Sprintf("format %q", format))
	}
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	return c, nil
}

// Source returns where the table was loaded from.
func (c *Config) Source() string {
	return c.source
}

// Format returns the format the table was decoded from.
func (c *Config) Format() Format {
	return c.format
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "maproute"
	}
}

// Validate checks the settings. Route definitions are checked by Router.
func (c *Config) Validate() error {
	var errs errors.List
	if _, err := c.logLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, c.settingError("log.format",
			fmt.Sprintf("%q is not text or json", c.Log.Format)))
	}
	for _, d := range []struct {
		key string
		val Duration
	}{
		{"server.readTimeout", c.Server.ReadTimeout},
		{"server.writeTimeout", c.Server.WriteTimeout},
		{"server.handshakeTimeout", c.Server.HandshakeTimeout},
	} {
		if d.val < 0 {
			errs = append(errs, c.settingError(d.key, "must not be negative"))
		}
	}
	if c.Server.MaxMessageSize < 0 {
		errs = append(errs, c.settingError("server.maxMessageSize", "must not be negative"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) settingError(key, detail string) *errors.Error {
	return errors.New(errors.CodeInvalidSetting).
		WithDetail(key + ": " + detail).
		WithSuggestion("Fix the setting in " + c.sourceName())
}

func (c *Config) sourceName() string {
	if c.source == "" {
		return "the configuration"
	}
	return filepath.Base(c.source)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	level, err := c.logLevel()
	if err != nil {
		return 0, err
	}
	return level, nil
}

func (c *Config) logLevel() (slog.Level, *errors.Error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, c.settingError("log.level",
			fmt.Sprintf("%q is not debug, info, warn or error", c.Log.Level))
	}
	return level, nil
}

// WSConfig returns the WebSocket settings. Zero values fall back to the
// wsport defaults.
func (c *Config) WSConfig() wsport.Config {
	return wsport.Config{
		ReadTimeout:      time.Duration(c.Server.ReadTimeout),
		WriteTimeout:     time.Duration(c.Server.WriteTimeout),
		HandshakeTimeout: time.Duration(c.Server.HandshakeTimeout),
		MaxMessageSize:   c.Server.MaxMessageSize,
		CheckOrigin:      checkOrigin(c.Server.AllowedOrigins),
	}
}

// Definitions resolves the codec names of every route through reg. All
// unknown codecs are reported together.
func (c *Config) Definitions(reg *codec.Registry) ([]router.Definition, error) {
	if reg == nil {
		reg = codec.DefaultRegistry()
	}
	defs := make([]router.Definition, 0, len(c.Routes))
	var errs errors.List
	for _, rc := range c.Routes {
		def := router.Definition{
			ID:           rc.ID,
			Paths:        slices.Clone(rc.Paths),
			ParamAliases: rc.ParamAliases,
			QueryAliases: rc.QueryAliases,
		}
		var bad []*errors.Error
		def.Params, bad = resolveCodecs(reg, rc.Params)
		errs = append(errs, c.locate(rc, bad)...)
		def.Query, bad = resolveCodecs(reg, rc.Query)
		errs = append(errs, c.locate(rc, bad)...)
		defs = append(defs, def)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return defs, nil
}

// Router builds a router from the table.
func (c *Config) Router(reg *codec.Registry, opts ...router.Option) (*router.Router, error) {
	defs, err := c.Definitions(reg)
	if err != nil {
		return nil, err
	}
	r, err := router.New(defs, opts...)
	if err != nil {
		return nil, c.routerErrors(err)
	}
	return r, nil
}

// routerErrors converts router configuration errors and points each one
// at the definition of its route.
func (c *Config) routerErrors(err error) error {
	res := router.AsErrors(err)
	if len(res) == 0 {
		return errors.New(errors.CodeRouteTable).Wrap(err)
	}
	out := make(errors.List, 0, len(res))
	for _, re := range res {
		e := errors.FromRouter(re)
		if rc, ok := c.route(re.Route); ok {
			c.locate(rc, []*errors.Error{e})
		}
		out = append(out, e)
	}
	return out
}

func (c *Config) route(id string) (RouteConfig, bool) {
	if id == "" {
		return RouteConfig{}, false
	}
	i := slices.IndexFunc(c.Routes, func(rc RouteConfig) bool { return rc.ID == id })
	if i < 0 {
		return RouteConfig{}, false
	}
	return c.Routes[i], true
}

// locate attaches the position of rc to errs.
func (c *Config) locate(rc RouteConfig, errs []*errors.Error) []*errors.Error {
	if rc.Line == 0 {
		return errs
	}
	for _, e := range errs {
		e.WithSource(c.source, c.data, rc.Line, rc.Column)
	}
	return errs
}

func resolveCodecs(reg *codec.Registry, names map[string]string) (map[string]codec.Codec, []*errors.Error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make(map[string]codec.Codec, len(names))
	var errs []*errors.Error
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, key := range keys {
		c, err := reg.Lookup(names[key])
		if err != nil {
			errs = append(errs, errors.New(errors.CodeUnknownCodec).
				WithDetail(fmt.Sprintf("%q uses codec %q", key, names[key])).
				Wrap(err))
			continue
		}
		out[key] = c
	}
	return out, errs
}
