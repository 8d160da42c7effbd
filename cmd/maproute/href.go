package main

import (
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	clierrors "github.com/vango-dev/maproute/internal/errors"
	"github.com/vango-dev/maproute/internal/inspect"
	"github.com/vango-dev/maproute/pkg/router"
)

func hrefCmd(a *app) *cobra.Command {
	var (
		params   []string
		query    []string
		hash     string
		absolute bool
	)

	cmd := &cobra.Command{
		Use:   "href <route-id>",
		Short: "Build a canonical href from typed values",
		Long: `Href encodes path parameters and query values with the codecs of the
route and renders the most specific template they satisfy. Aliased
keys are accepted and written under their canonical name.`,
		Example: `  maproute href element -p type=node -p id=5 -p version=2
  maproute href search -q query=cafe --hash map=12/51.5/-0.1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, r, err := a.router(cmd.Context())
			if err != nil {
				return err
			}
			id := args[0]
			route, ok := r.Lookup(id)
			if !ok {
				return &router.Error{Code: router.CodeUnknownRoute, Route: id}
			}

			p, err := pairs("--param", params)
			if err != nil {
				return err
			}
			q, err := pairs("--query", query)
			if err != nil {
				return err
			}
			single := make(map[string]string, len(p))
			for k, vs := range p {
				single[k] = vs[len(vs)-1]
			}

			in, err := route.ParseInput(single, url.Values(q), hash)
			if err != nil {
				return err
			}
			href, err := r.Href(id, in)
			if err != nil {
				return err
			}

			out := inspect.Href{Route: id, Href: href}
			if cfg.Server.Origin != "" {
				out.Absolute = strings.TrimSuffix(cfg.Server.Origin, "/") + href
			}
			if a.jsonOut {
				return a.writeJSON(out)
			}
			if absolute && out.Absolute != "" {
				a.println(out.Absolute)
			} else {
				a.println(out.Href)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "path parameter as key=value")
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query value as key=value (repeat for lists)")
	cmd.Flags().StringVar(&hash, "hash", "", "fragment without the leading #")
	cmd.Flags().BoolVarP(&absolute, "absolute", "a", false, "prefix server.origin")

	return cmd
}

// pairs parses key=value arguments of flag.
func pairs(flag string, args []string) (map[string][]string, error) {
	out := make(map[string][]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, clierrors.New(clierrors.CodeBadArgument).
				WithDetail(flag + " " + arg).
				WithSuggestion("Write " + flag + " key=value")
		}
		out[key] = append(out[key], value)
	}
	return out, nil
}
