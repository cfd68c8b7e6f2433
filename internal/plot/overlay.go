package plot

import (
	"fmt"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"synthgrid/internal/stellar"
)

// Overlay renders every flux row against the shared wavelength vector and
// writes the figure to path (format chosen by extension, typically .png).
// One line per star, labeled with its parameter tuple.
func Overlay(path string, wave []float64, flux [][]float64, stars []stellar.Parameters) error {
	if len(flux) == 0 {
		return fmt.Errorf("no spectra to plot")
	}
	if len(flux) != len(stars) {
		return fmt.Errorf("%d flux rows for %d stars", len(flux), len(stars))
	}

	p := gplot.New()
	p.X.Label.Text = "Wavelength (A)"
	p.Y.Label.Text = "Normalised Flux"
	p.Legend.Top = true

	for i, row := range flux {
		if len(row) != len(wave) {
			return fmt.Errorf("row %d has %d samples for %d wavelengths", i, len(row), len(wave))
		}
		points := make(plotter.XYs, len(row))
		for j := range row {
			points[j].X = wave[j]
			points[j].Y = row[j]
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("build line for row %d: %w", i, err)
		}
		line.LineStyle.Width = vg.Points(0.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(stars[i].String(), line)
	}

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
