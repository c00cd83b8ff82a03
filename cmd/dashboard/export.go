package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mohammed-shakir/sales-dashboard/internal/cli"
	"github.com/mohammed-shakir/sales-dashboard/internal/export"
	"github.com/mohammed-shakir/sales-dashboard/internal/filter"
)

func exportCmd(rt *app) *cobra.Command {
	var (
		sel     selection
		columns []string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered records as CSV",
		Long: `Fetch the selected region and year, apply the filters and write the
chosen columns as a UTF-8 CSV file. Use --out - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cols, err := export.ParseColumns(columns)
			if err != nil {
				return err
			}
			onEmpty, err := filter.ParseEmptySelection(rt.cfg.EmptySelection)
			if err != nil {
				return err
			}
			ld, err := newLoader(rt)
			if err != nil {
				return err
			}
			_, recs, err := sel.fetch(cmd.Context(), ld, onEmpty)
			if err != nil {
				return err
			}
			data, err := export.Encode(recs, cols)
			if err != nil {
				return err
			}

			if out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			path := filepath.Join(filepath.Dir(out), export.FileName(filepath.Base(out), rt.cfg.ExportName))
			if out == "" {
				path = export.FileName("", rt.cfg.ExportName)
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%d linhas gravadas em %s", len(recs), path)))
			return err
		},
	}
	sel.bind(cmd)
	cmd.Flags().StringArrayVar(&columns, "coluna", nil, "column to export (repeatable); default all")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file; .csv is appended when missing")
	return cmd
}
