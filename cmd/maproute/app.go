package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"github.com/vango-dev/maproute/internal/config"
	clierrors "github.com/vango-dev/maproute/internal/errors"
	"github.com/vango-dev/maproute/pkg/router"
)

const (
	envConfig  = config.EnvConfig
	envAddr    = config.EnvAddr
	envNoColor = "NO_COLOR"
)

// app holds the flags and the lazily loaded table shared by commands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	envFile    string
	logLevel   string
	jsonOut    bool
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
}

// setup loads the environment file and applies color settings.
func (a *app) setup() error {
	if a.envFile != "" {
		if _, err := os.Stat(a.envFile); err == nil {
			if err := godotenv.Load(a.envFile); err != nil {
				return clierrors.New(clierrors.CodeEnvFile).WithDetail(a.envFile).Wrap(err)
			}
		} else if a.envFile != ".env" {
			return clierrors.New(clierrors.CodeEnvFile).WithDetail(a.envFile).Wrap(err)
		}
	}
	if _, ok := os.LookupEnv(envNoColor); ok {
		a.noColor = true
	}
	if a.noColor || a.jsonOut {
		clierrors.DisableColors()
	} else {
		clierrors.EnableColors()
	}
	return nil
}

// load reads and validates the configuration once.
func (a *app) load(ctx context.Context) (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	source := a.configPath
	if source == "" {
		source = os.Getenv(envConfig)
	}
	cfg, err := config.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	if a.logLevel != "" {
		cfg.Log.Level = strings.ToLower(a.logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := cfg.Logger(a.stderr)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	a.logger = logger
	return cfg, nil
}

// router loads the configuration and compiles it.
func (a *app) router(ctx context.Context) (*config.Config, *router.Router, error) {
	cfg, err := a.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	r, err := cfg.Router(nil, router.WithLogger(a.logger))
	if err != nil {
		return nil, nil, err
	}
	return cfg, r, nil
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) println(s string) {
	io.WriteString(a.stdout, s+"\n")
}
