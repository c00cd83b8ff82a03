package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/mohammed-shakir/sales-dashboard/internal/aggregate"
	"github.com/mohammed-shakir/sales-dashboard/internal/cli"
	"github.com/mohammed-shakir/sales-dashboard/internal/dashboard"
)

func summaryCmd(rt *app) *cobra.Command {
	var (
		sel        selection
		topSellers int
		measure    string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard metrics and rankings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := aggregate.ParseMeasure(measure)
			if err != nil {
				return err
			}
			opts, onEmpty, err := dashboardOptions(rt.cfg)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("top-vendedores") {
				opts.TopSellers = topSellers
			}
			ld, err := newLoader(rt)
			if err != nil {
				return err
			}
			p, recs, err := sel.fetch(cmd.Context(), ld, onEmpty)
			if err != nil {
				return err
			}
			view, err := dashboard.Build(recs, opts)
			if err != nil {
				return err
			}
			view.Params = p.String()
			if cmd.Flags().Changed("medida") {
				view = view.ForMeasure(m)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			return cli.RenderSummary(cmd.OutOrStdout(), view)
		},
	}
	sel.bind(cmd)
	cmd.Flags().IntVar(&topSellers, "top-vendedores", 0, "number of sellers ranked (2-10); overrides TOP_SELLERS")
	cmd.Flags().StringVar(&measure, "medida", "", "only the receita (sum) or quantidade (count) tab; default shows both")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the view as JSON")
	return cmd
}
