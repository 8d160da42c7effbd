package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	clierrors "github.com/vango-dev/maproute/internal/errors"
	"github.com/vango-dev/maproute/internal/inspect"
	"github.com/vango-dev/maproute/pkg/router"
)

func matchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "match <path>...",
		Aliases: []string{"resolve"},
		Short:   "Resolve locations to routes, params and query",
		Long: `Match resolves each location the way the router does on first load:
it picks the most specific template, decodes path parameters and
query, and rebuilds the canonical href from the decoded values.

A query that fails to decode is reported but does not fail the match.`,
		Example: `  maproute match /node/5/history/2
  maproute match '/search?query=cafe#map=12/51.5/-0.1'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, r, err := a.router(cmd.Context())
			if err != nil {
				return err
			}

			var (
				results []*inspect.Resolution
				errs    clierrors.List
			)
			for _, raw := range args {
				res, err := inspect.Resolve(r, raw)
				if err != nil {
					errs = append(errs, unresolved(raw, err)...)
					continue
				}
				results = append(results, res)
			}

			if a.jsonOut {
				if err := a.writeJSON(results); err != nil {
					return err
				}
			} else {
				for _, res := range results {
					printResolution(a, res)
				}
			}
			if len(errs) > 0 {
				return errs
			}
			return nil
		},
	}
}

func unresolved(raw string, err error) []*clierrors.Error {
	if errors.Is(err, router.ErrNoRoute) {
		return []*clierrors.Error{clierrors.New(clierrors.CodeUnresolvedRoute).WithDetail(raw).Wrap(err)}
	}
	return clierrors.Flatten(err)
}

func printResolution(a *app, res *inspect.Resolution) {
	a.success("%s → %s (%s)", res.Context.Path, res.Route, res.Template)
	if len(res.Params) > 0 {
		a.info("params:    %v", res.Params)
	}
	if query := present(res.Query); len(query) > 0 {
		a.info("query:     %v", query)
	}
	if res.QueryError != nil {
		a.info("query error: %s", res.QueryError.FormatCompact())
	}
	a.info("canonical: %s", res.Canonical)
	fmt.Fprintln(a.stdout)
}

// present drops absent query keys.
func present(query map[string]any) map[string]any {
	out := make(map[string]any, len(query))
	for k, v := range query {
		if v != nil {
			out[k] = v
		}
	}
	return out
}
