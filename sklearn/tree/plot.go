package tree

import (
	"fmt"
	"image/color"
	"math"

	"github.com/YuminosukeSato/weaklearn/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	sampleColor    = color.RGBA{R: 50, G: 50, B: 255, A: 255}
	thresholdColor = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	stepColor      = color.RGBA{R: 255, A: 255}
)

// PlotSplit draws the training samples on the split attribute against their
// labels, a dashed vertical line at every bucket threshold and the label the
// stump assigns across the attribute range.
func PlotSplit(s *Stump, X mat.Matrix, labels []int) (*plot.Plot, error) {
	if s.OneClass {
		return nil, errors.NewValueError("PlotSplit", "stump has no split attribute")
	}
	nSamples, nFeatures := X.Dims()
	if nFeatures != s.NFeatures {
		return nil, errors.NewDimensionError("PlotSplit", s.NFeatures, nFeatures, 1)
	}
	if len(labels) != nSamples {
		return nil, errors.NewDimensionError("PlotSplit", nSamples, len(labels), 0)
	}

	column := mat.Col(nil, s.SplitColumn, X)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Decision stump split on feature %d", s.SplitColumn)
	p.X.Label.Text = fmt.Sprintf("Feature %d", s.SplitColumn)
	p.Y.Label.Text = "Class"

	pts := make(plotter.XYs, nSamples)
	for i := range pts {
		pts[i].X = column[i]
		pts[i].Y = float64(labels[i])
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build sample scatter")
	}
	scatter.Color = sampleColor
	p.Add(scatter)
	p.Legend.Add("samples", scatter)

	lo, hi := floats.Min(column), floats.Max(column)
	lo = math.Min(lo, s.Buckets[0].Threshold)
	hi = math.Max(hi, s.Buckets[len(s.Buckets)-1].Threshold)
	maxClass := float64(s.NumClasses - 1)

	for _, b := range s.Buckets[1:] {
		line, err := plotter.NewLine(plotter.XYs{
			{X: b.Threshold, Y: -0.5},
			{X: b.Threshold, Y: maxClass + 0.5},
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to build threshold line")
		}
		line.Color = thresholdColor
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)
	}

	steps := make(plotter.XYs, 0, 2*len(s.Buckets))
	for i, b := range s.Buckets {
		begin := b.Threshold
		if i == 0 {
			begin = lo
		}
		end := hi
		if i+1 < len(s.Buckets) {
			end = s.Buckets[i+1].Threshold
		}
		steps = append(steps,
			plotter.XY{X: begin, Y: float64(b.Label)},
			plotter.XY{X: end, Y: float64(b.Label)},
		)
	}
	step, err := plotter.NewLine(steps)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build prediction line")
	}
	step.Color = stepColor
	step.LineStyle.Width = vg.Points(2)
	p.Add(step)
	p.Legend.Add("prediction", step)

	return p, nil
}

// SaveSplitPlot renders PlotSplit to filename. The image format follows
// the file extension (.png, .svg, .pdf, ...).
func SaveSplitPlot(s *Stump, X mat.Matrix, labels []int, filename string) error {
	p, err := PlotSplit(s, X, labels)
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return errors.Wrapf(err, "failed to save plot to %s", filename)
	}
	return nil
}
