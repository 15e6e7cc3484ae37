package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// TourMap describes one finished plan as drawable geometry. All coordinates
// are metres from the field's lower-left corner.
type TourMap struct {
	Title        string
	WidthMeters  float64
	HeightMeters float64
	Segments     []r2.Point
	Tours        []TourPath
}

// TourPath is the set of cell centres one relay agent serves.
type TourPath struct {
	Label string
	IsHub bool
	Cells []r2.Point
}

const mapWidthInches = 8

var (
	segmentColor  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255}
	hubColor      = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 255}
	boundaryColor = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 255}
)

// WritePNG draws the field boundary, every tour's cells and the stranded
// segments onto a single PNG image.
func (m TourMap) WritePNG(w io.Writer) error {
	if m.WidthMeters <= 0 || m.HeightMeters <= 0 {
		return fmt.Errorf("field dimensions must be positive, got %.1fx%.1f", m.WidthMeters, m.HeightMeters)
	}

	p := plot.New()
	p.Title.Text = m.Title
	if p.Title.Text == "" {
		p.Title.Text = "Relay Tours"
	}
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"
	p.Legend.Top = true
	p.Legend.Left = true

	if err := m.addBoundary(p); err != nil {
		return err
	}

	colors := tourPalette(len(m.Tours))
	for i, tour := range m.Tours {
		if len(tour.Cells) == 0 {
			continue
		}
		cells, err := plotter.NewScatter(toXYs(tour.Cells))
		if err != nil {
			return fmt.Errorf("failed to plot tour %q: %w", tour.Label, err)
		}
		if tour.IsHub {
			cells.GlyphStyle.Color = hubColor
			cells.GlyphStyle.Radius = vg.Points(6)
			cells.GlyphStyle.Shape = draw.PyramidGlyph{}
		} else {
			cells.GlyphStyle.Color = colors[i]
			cells.GlyphStyle.Radius = vg.Points(4)
			cells.GlyphStyle.Shape = draw.BoxGlyph{}
		}
		p.Add(cells)
		p.Legend.Add(tour.Label, cells)
	}

	if len(m.Segments) > 0 {
		segs, err := plotter.NewScatter(toXYs(m.Segments))
		if err != nil {
			return fmt.Errorf("failed to plot segments: %w", err)
		}
		segs.GlyphStyle.Color = segmentColor
		segs.GlyphStyle.Radius = vg.Points(2.5)
		segs.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(segs)
		p.Legend.Add("segments", segs)
	}

	// Frame the whole field with a small margin so edge cells stay visible.
	margin := 0.03 * math.Max(m.WidthMeters, m.HeightMeters)
	p.X.Min, p.X.Max = -margin, m.WidthMeters+margin
	p.Y.Min, p.Y.Max = -margin, m.HeightMeters+margin

	height := mapWidthInches * m.HeightMeters / m.WidthMeters
	wt, err := p.WriterTo(mapWidthInches*vg.Inch, vg.Length(height)*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render tour map: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write tour map: %w", err)
	}
	return nil
}

func (m TourMap) addBoundary(p *plot.Plot) error {
	frame, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: 0},
		{X: m.WidthMeters, Y: 0},
		{X: m.WidthMeters, Y: m.HeightMeters},
		{X: 0, Y: m.HeightMeters},
		{X: 0, Y: 0},
	})
	if err != nil {
		return fmt.Errorf("failed to plot field boundary: %w", err)
	}
	frame.Color = boundaryColor
	frame.Width = vg.Points(1)
	p.Add(frame)
	return nil
}

func toXYs(pts []r2.Point) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return xys
}

// tourPalette spreads n hues evenly around the colour wheel so adjacent
// tours stay distinguishable.
func tourPalette(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	out := make([]color.Color, n)
	for i := range out {
		r, g, b := hslToRGB(float64(i)/float64(n), 0.65, 0.45)
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	if s == 0 {
		v := uint8(math.Round(l * 255))
		return v, v, v
	}
	q := l * (1 + s)
	if l >= 0.5 {
		q = l + s - l*s
	}
	p := 2*l - q
	conv := func(t float64) uint8 {
		if t < 0 {
			t++
		}
		if t > 1 {
			t--
		}
		var v float64
		switch {
		case t < 1.0/6.0:
			v = p + (q-p)*6*t
		case t < 0.5:
			v = q
		case t < 2.0/3.0:
			v = p + (q-p)*(2.0/3.0-t)*6
		default:
			v = p
		}
		return uint8(math.Round(v * 255))
	}
	return conv(h + 1.0/3.0), conv(h), conv(h - 1.0/3.0)
}
