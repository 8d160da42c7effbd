package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/maproute/internal/inspect"
)

func routesCmd(a *app) *cobra.Command {
	var byRoute bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List templates in matching order",
		Long: `Routes prints every template of the table in the order the matcher
tries them, with the specificity that decided the order.

With --by-route the templates are grouped under their route in
registration order instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, r, err := a.router(cmd.Context())
			if err != nil {
				return err
			}
			routes := inspect.Describe(r)
			if a.jsonOut {
				return a.writeJSON(routes)
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			if byRoute {
				for _, route := range routes {
					fmt.Fprintf(tw, "%s\tparams: %s\tquery: %s\n", route.ID, list(route.Params), list(route.Query))
					for _, v := range route.Templates {
						fmt.Fprintf(tw, "  #%d\t%s\t%s\n", v.Rank, v.Template, specificity(v.Specificity))
					}
				}
				return tw.Flush()
			}

			byRank := make([]struct {
				id string
				v  inspect.VariantInfo
			}, len(r.Variants()))
			for _, route := range routes {
				for _, v := range route.Templates {
					byRank[v.Rank].id = route.ID
					byRank[v.Rank].v = v
				}
			}
			fmt.Fprintln(tw, "RANK\tROUTE\tTEMPLATE\tLITERALS\tWEIGHT")
			for _, e := range byRank {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", e.v.Rank, e.id, e.v.Template, e.v.Specificity.Literals, e.v.Specificity.Weight)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&byRoute, "by-route", false, "group templates by route")

	return cmd
}

func list(keys []string) string {
	if len(keys) == 0 {
		return "-"
	}
	return strings.Join(keys, ",")
}

func specificity(s inspect.SpecificityInfo) string {
	return fmt.Sprintf("literals=%d weight=%d", s.Literals, s.Weight)
}
