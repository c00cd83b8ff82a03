package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/mohammed-shakir/sales-dashboard/internal/dashboard"
)

// RenderSummary prints the header metrics and every chart of v as tables.
func RenderSummary(w io.Writer, v dashboard.View) error {
	title := "Dashboard de vendas"
	if v.Params != "" {
		title += " · " + v.Params
	}
	if _, err := fmt.Fprintln(w, TitleStyle.Render(title)); err != nil {
		return err
	}

	boxes := make([]string, len(v.Metrics))
	for i, m := range v.Metrics {
		boxes[i] = MetricStyle.Render(SubtleStyle.Render(m.Label) + "\n" + m.Formatted)
	}
	if _, err := fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, boxes...)); err != nil {
		return err
	}

	if v.Empty {
		_, err := fmt.Fprintln(w, FormatWarning("Nenhuma venda para os filtros selecionados."))
		return err
	}

	for _, tab := range v.Tabs {
		if _, err := fmt.Fprintln(w, "\n"+SubtitleStyle.Render(strings.ToUpper(tab.Name))); err != nil {
			return err
		}
		for _, c := range tab.Charts {
			if err := renderChart(w, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderChart(w io.Writer, c dashboard.Chart) error {
	if _, err := fmt.Fprintln(w, SubtleStyle.Render(c.Title)); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, b := range c.Bars {
		fmt.Fprintf(tw, "  %d.\t%s\t%s\n", i+1, b.Label, b.Value.StringFixed(2))
	}
	return tw.Flush()
}
