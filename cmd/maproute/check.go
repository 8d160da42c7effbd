package main

import (
	"github.com/spf13/cobra"
)

type checkResult struct {
	Source    string `json:"source"`
	Format    string `json:"format"`
	Routes    int    `json:"routes"`
	Templates int    `json:"templates"`
}

func checkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and compile every route",
		Long: `Check loads the table, validates its settings and compiles every
route. All problems are reported together, each pointing at the
definition that caused it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, r, err := a.router(cmd.Context())
			if err != nil {
				return err
			}
			res := checkResult{
				Source:    cfg.Source(),
				Format:    string(cfg.Format()),
				Routes:    len(r.Routes()),
				Templates: len(r.Variants()),
			}
			if a.jsonOut {
				return a.writeJSON(res)
			}
			a.success("%s: %d routes, %d templates", res.Source, res.Routes, res.Templates)
			return nil
		},
	}
}
