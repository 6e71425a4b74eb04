package analysis

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"

	"github.com/KaramelBytes/edaloom-cli/internal/stats"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Panel is one Q-Q plot of a figure.
type Panel struct {
	Title string
	Plot  stats.ProbPlot
}

// Figure is a row of Q-Q panels sharing a super-title.
type Figure struct {
	Title       string
	Panels      []Panel
	PanelWidth  int
	PanelHeight int
}

const titleBand = 24

var (
	sampleColor = drawing.Color{R: 59, G: 76, B: 192, A: 255}
	lineColor   = drawing.Color{R: 180, G: 4, B: 38, A: 255}
)

// Image renders every panel and lays them out left to right under the title.
func (f *Figure) Image() (image.Image, error) {
	if len(f.Panels) == 0 {
		return nil, fmt.Errorf("figure has no panels")
	}
	w, h := f.PanelWidth, f.PanelHeight
	if w <= 0 {
		w = 360
	}
	if h <= 0 {
		h = 360
	}
	canvas := image.NewRGBA(image.Rect(0, 0, w*len(f.Panels), h+titleBand))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	for i, p := range f.Panels {
		img, err := renderPanel(p, w, h)
		if err != nil {
			return nil, fmt.Errorf("render panel %q: %w", p.Title, err)
		}
		at := image.Rect(i*w, titleBand, (i+1)*w, titleBand+h)
		draw.Draw(canvas, at, img, img.Bounds().Min, draw.Src)
	}
	drawTitle(canvas, f.Title)
	return canvas, nil
}

// WritePNG encodes the rendered figure as PNG.
func (f *Figure) WritePNG(w io.Writer) error {
	img, err := f.Image()
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func renderPanel(p Panel, w, h int) (image.Image, error) {
	pp := p.Plot
	n := len(pp.Theoretical)
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 points, got %d", n)
	}
	lo, hi := pp.Theoretical[0], pp.Theoretical[n-1]
	ch := chart.Chart{
		Title:      p.Title,
		TitleStyle: chart.Style{FontSize: 10},
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 30, Left: 16, Right: 16, Bottom: 12}},
		XAxis: chart.XAxis{
			Name:           "Theoretical quantiles",
			ValueFormatter: quantileTick,
		},
		YAxis: chart.YAxis{
			Name:           "Ordered values",
			ValueFormatter: YTickFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "sample",
				XValues: pp.Theoretical,
				YValues: pp.Ordered,
				Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 3, DotColor: sampleColor},
			},
			chart.ContinuousSeries{
				Name:    "fit",
				XValues: []float64{lo, hi},
				YValues: []float64{pp.Intercept + pp.Slope*lo, pp.Intercept + pp.Slope*hi},
				Style:   chart.Style{StrokeWidth: 1.5, StrokeColor: lineColor},
			},
		},
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

func quantileTick(v interface{}) string {
	if x, ok := v.(float64); ok {
		return strconv.FormatFloat(x, 'f', 1, 64)
	}
	return ""
}

func drawTitle(dst draw.Image, text string) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: dst, Src: image.NewUniform(color.Black), Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := (dst.Bounds().Dx() - tw) / 2
	if x < 4 {
		x = 4
	}
	y := (titleBand + face.Metrics().Ascent.Ceil()) / 2
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
}
