package main

import (
	"github.com/vango-dev/dhframe/pkg/frame"
	"github.com/vango-dev/dhframe/pkg/host"
	"github.com/vango-dev/dhframe/pkg/render"
	"github.com/vango-dev/dhframe/pkg/widget"
)

// demoPage displays a ticking table and a chart over it.
func demoPage() host.PageFunc {
	prices := &widget.Table{
		Columns: []string{"Timestamp", "Sym", "Price", "Size"},
		Rows:    1000,
		Ticking: true,
	}
	chart := &widget.Figure{
		Title: "Price over time",
		Series: []widget.Series{
			{Name: "Price", Table: prices, X: "Timestamp", Y: "Price"},
		},
	}

	return func(run *frame.Run) error {
		run.Add(render.Heading(1, "dhframe demo"))
		run.Add(render.Paragraph("Each rerun rebinds these widgets under fresh identifiers."))

		if _, err := run.Display(prices, frame.Key("prices")); err != nil {
			return err
		}
		_, err := run.Display(chart, frame.Height(400), frame.Key("chart"))
		return err
	}
}
