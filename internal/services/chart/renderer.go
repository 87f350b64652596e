// Package chart renders candle series into images.
package chart

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/chartbot/internal/domain"
	"github.com/vadiminshakov/chartbot/pkg/indicators"
)

// ErrEmptySeries is returned when there is nothing to draw.
var ErrEmptySeries = errors.New("cannot render an empty candle series")

const (
	defaultWidth  = 1000
	defaultHeight = 800

	marginLeft   = 90.0
	marginRight  = 20.0
	marginTop    = 40.0
	marginBottom = 60.0
	panelGap     = 12.0

	gridLines  = 5
	timeLabels = 6
)

type rgb struct{ r, g, b float64 }

var (
	colorBackground = rgb{1, 1, 1}
	colorGrid       = rgb{0.88, 0.88, 0.88}
	colorAxis       = rgb{0.35, 0.35, 0.35}
	colorText       = rgb{0.1, 0.1, 0.1}
	colorBullish    = rgb{0.0, 0.6, 0.0}
	colorBearish    = rgb{0.85, 0.1, 0.1}
	colorSMA        = rgb{1.0, 0.55, 0.0}
)

// Renderer draws candlestick charts with an SMA overlay and a volume panel.
// It holds no per-request state and is safe for concurrent use.
type Renderer struct {
	width  int
	height int
	pool   sync.Pool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the output image size in pixels.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// NewRenderer creates a chart renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{width: defaultWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(r)
	}
	r.pool.New = func() any { return new(bytes.Buffer) }
	return r
}

type plotArea struct {
	x, y, w, h float64
	min, max   float64
}

func (p plotArea) yFor(v float64) float64 {
	return p.y + p.h - (v-p.min)/(p.max-p.min)*p.h
}

// Render draws the series as a PNG. The caller must Release the artifact.
func (r *Renderer) Render(series domain.CandleSeries, coinLabel, timeframeLabel string) (*Artifact, error) {
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}

	closes := series.Closes()
	var sma indicators.Series
	hasSMA := false
	if len(closes) >= indicators.DefaultSMAPeriod {
		s, err := indicators.CalculateSMA(closes, indicators.DefaultSMAPeriod)
		if err != nil {
			return nil, errors.Wrap(err, "calculate SMA")
		}
		sma, hasSMA = s, true
	}
	bullish, bearish := series.Partition()

	dc := gg.NewContext(r.width, r.height)
	setColor(dc, colorBackground)
	dc.Clear()

	plotW := float64(r.width) - marginLeft - marginRight
	plotH := float64(r.height) - marginTop - marginBottom - panelGap
	price := plotArea{x: marginLeft, y: marginTop, w: plotW, h: plotH * 3 / 4}
	volume := plotArea{x: marginLeft, y: marginTop + price.h + panelGap, w: plotW, h: plotH / 4}

	price.min, price.max = priceRange(series, sma)
	volume.min, volume.max = 0, maxVolume(series)

	drawTitle(dc, float64(r.width)/2, marginTop/2, fmt.Sprintf("%s Candlestick Chart (%s)", printable(coinLabel), printable(timeframeLabel)))
	drawPanel(dc, price, "Price (USD)", formatPrice)
	drawPanel(dc, volume, "Volume", formatVolume)

	slot := plotW / float64(len(series))
	xFor := func(i int) float64 { return marginLeft + (float64(i)+0.5)*slot }

	drawCandles(dc, series, bullish, colorBullish, price, slot, xFor)
	drawCandles(dc, series, bearish, colorBearish, price, slot, xFor)
	drawVolume(dc, series, volume, slot, xFor)

	if hasSMA {
		drawSMA(dc, sma, price, xFor)
		drawLegend(dc, price, fmt.Sprintf("SMA %d", indicators.DefaultSMAPeriod))
	}

	drawTimeAxis(dc, series, volume, xFor)

	buf := r.pool.Get().(*bytes.Buffer)
	buf.Reset()
	if err := dc.EncodePNG(buf); err != nil {
		r.pool.Put(buf)
		return nil, errors.Wrap(err, "encode chart PNG")
	}

	return &Artifact{
		buf:     buf,
		release: func(b *bytes.Buffer) { r.pool.Put(b) },
		SMA:     sma,
		HasSMA:  hasSMA,
		Bullish: bullish,
		Bearish: bearish,
	}, nil
}

func setColor(dc *gg.Context, c rgb) {
	dc.SetRGB(c.r, c.g, c.b)
}

func priceRange(series domain.CandleSeries, sma indicators.Series) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range series {
		lo = math.Min(lo, c.Low.InexactFloat64())
		hi = math.Max(hi, c.High.InexactFloat64())
		lo = math.Min(lo, math.Min(c.Open.InexactFloat64(), c.Close.InexactFloat64()))
		hi = math.Max(hi, math.Max(c.Open.InexactFloat64(), c.Close.InexactFloat64()))
	}
	for _, v := range sma.Values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi <= lo {
		pad := math.Max(math.Abs(hi)*0.01, 1)
		return lo - pad, hi + pad
	}
	pad := (hi - lo) * 0.02
	return lo - pad, hi + pad
}

func maxVolume(series domain.CandleSeries) float64 {
	hi := 0.0
	for _, c := range series {
		hi = math.Max(hi, c.Volume.InexactFloat64())
	}
	if hi == 0 {
		return 1
	}
	return hi * 1.05
}

func drawTitle(dc *gg.Context, x, y float64, title string) {
	setColor(dc, colorText)
	dc.DrawStringAnchored(title, x, y, 0.5, 0.5)
}

func drawPanel(dc *gg.Context, p plotArea, label string, format func(float64) string) {
	dc.SetLineWidth(1)
	for i := 0; i <= gridLines; i++ {
		v := p.min + (p.max-p.min)*float64(i)/gridLines
		y := p.yFor(v)
		setColor(dc, colorGrid)
		dc.DrawLine(p.x, y, p.x+p.w, y)
		dc.Stroke()
		setColor(dc, colorText)
		dc.DrawStringAnchored(format(v), p.x-6, y, 1, 0.5)
	}

	setColor(dc, colorAxis)
	dc.DrawRectangle(p.x, p.y, p.w, p.h)
	dc.Stroke()

	dc.Push()
	cx, cy := 14.0, p.y+p.h/2
	dc.RotateAbout(-math.Pi/2, cx, cy)
	setColor(dc, colorText)
	dc.DrawStringAnchored(label, cx, cy, 0.5, 0.5)
	dc.Pop()
}

func drawCandles(dc *gg.Context, series domain.CandleSeries, idx []int, c rgb, p plotArea, slot float64, xFor func(int) float64) {
	body := math.Max(slot*0.8, 1)
	wick := math.Max(slot*0.08, 1)
	setColor(dc, c)

	for _, i := range idx {
		k := series[i]
		x := xFor(i)
		open, close := k.Open.InexactFloat64(), k.Close.InexactFloat64()
		high, low := k.High.InexactFloat64(), k.Low.InexactFloat64()

		dc.DrawRectangle(x-wick/2, p.yFor(high), wick, p.yFor(low)-p.yFor(high))
		dc.Fill()

		top, bottom := p.yFor(math.Max(open, close)), p.yFor(math.Min(open, close))
		h := math.Max(bottom-top, 1)
		dc.DrawRectangle(x-body/2, top, body, h)
		dc.Fill()
	}
}

func drawVolume(dc *gg.Context, series domain.CandleSeries, p plotArea, slot float64, xFor func(int) float64) {
	width := math.Max(slot*0.8, 1)
	for i, k := range series {
		if k.Bullish() {
			setColor(dc, colorBullish)
		} else {
			setColor(dc, colorBearish)
		}
		top := p.yFor(k.Volume.InexactFloat64())
		dc.DrawRectangle(xFor(i)-width/2, top, width, p.y+p.h-top)
		dc.Fill()
	}
}

func drawSMA(dc *gg.Context, sma indicators.Series, p plotArea, xFor func(int) float64) {
	setColor(dc, colorSMA)
	dc.SetLineWidth(2)
	for j, v := range sma.Values {
		x, y := xFor(sma.Offset+j), p.yFor(v)
		if j == 0 {
			dc.MoveTo(x, y)
			continue
		}
		dc.LineTo(x, y)
	}
	dc.Stroke()
	dc.SetLineWidth(1)
}

func drawLegend(dc *gg.Context, p plotArea, label string) {
	x, y := p.x+10, p.y+10
	w, _ := dc.MeasureString(label)

	setColor(dc, colorBackground)
	dc.DrawRectangle(x, y, w+40, 22)
	dc.Fill()
	setColor(dc, colorAxis)
	dc.DrawRectangle(x, y, w+40, 22)
	dc.Stroke()

	setColor(dc, colorSMA)
	dc.SetLineWidth(2)
	dc.DrawLine(x+6, y+11, x+26, y+11)
	dc.Stroke()
	dc.SetLineWidth(1)

	setColor(dc, colorText)
	dc.DrawStringAnchored(label, x+32, y+11, 0, 0.5)
}

func drawTimeAxis(dc *gg.Context, series domain.CandleSeries, p plotArea, xFor func(int) float64) {
	n := len(series)
	ticks := timeLabels
	if n < ticks {
		ticks = n
	}
	setColor(dc, colorText)
	for t := 0; t < ticks; t++ {
		i := 0
		if ticks > 1 {
			i = t * (n - 1) / (ticks - 1)
		}
		label := series[i].OpenTime.UTC().Format("2006-01-02 15:04")
		dc.DrawStringAnchored(label, xFor(i), p.y+p.h+16, 0.5, 0.5)
	}
	dc.DrawStringAnchored("UTC", p.x+p.w, p.y+p.h+36, 1, 0.5)
}

func formatPrice(v float64) string {
	switch av := math.Abs(v); {
	case av >= 1000:
		return fmt.Sprintf("%.0f", v)
	case av >= 1:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.6f", v)
	}
}

func formatVolume(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// printable drops characters the built-in bitmap font cannot draw.
func printable(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 0x20 && r < 0x7f {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
