package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// EnergyReport is the per-tour cost breakdown behind the HTML chart.
type EnergyReport struct {
	Title    string
	Subtitle string
	Tours    []TourEnergy
}

// TourEnergy carries one tour's movement and communication shares in joules.
type TourEnergy struct {
	Label    string
	Movement float64
	Comms    float64
}

// WriteHTML renders a grouped bar chart, one group per tour with movement
// and communication side by side, as a standalone HTML page.
func (r EnergyReport) WriteHTML(w io.Writer) error {
	if len(r.Tours) == 0 {
		return fmt.Errorf("energy report needs at least one tour")
	}

	labels := make([]string, len(r.Tours))
	movement := make([]opts.BarData, len(r.Tours))
	comms := make([]opts.BarData, len(r.Tours))
	for i, t := range r.Tours {
		labels[i] = t.Label
		movement[i] = opts.BarData{Value: t.Movement}
		comms[i] = opts.BarData{Value: t.Comms}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: r.Title, Width: "900px", Height: "520px"}),
		charts.WithTitleOpts(opts.Title{Title: r.Title, Subtitle: r.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "energy (J)"}),
	)
	bar.SetXAxis(labels).
		AddSeries("movement", movement).
		AddSeries("communication", comms)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render energy report: %w", err)
	}
	return nil
}
