package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/chartbot/internal/domain"
	"github.com/vadiminshakov/chartbot/pkg/indicators"
)

const (
	htmlBullish = "#009900"
	htmlBearish = "#d91a1a"
	htmlSMA     = "#ff8c00"
	htmlEMA     = "#1f77b4"

	// MaxEMAPeriod bounds the EMA overlay period accepted by RenderHTML.
	MaxEMAPeriod = 200
)

type htmlConfig struct {
	emaPeriod int
}

// HTMLOption tunes RenderHTML.
type HTMLOption func(*htmlConfig)

// WithEMA adds an EMA overlay of the given period. The overlay is skipped
// when the series is shorter than the period.
func WithEMA(period int) HTMLOption {
	return func(c *htmlConfig) {
		c.emaPeriod = period
	}
}

// RenderHTML writes an interactive page with the same content as the PNG
// chart: candles, the SMA overlay when there is enough data, and volume.
func RenderHTML(w io.Writer, series domain.CandleSeries, coinLabel, timeframeLabel string, options ...HTMLOption) error {
	last, ok := series.Latest()
	if !ok {
		return ErrEmptySeries
	}

	var cfg htmlConfig
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.emaPeriod < 0 || cfg.emaPeriod > MaxEMAPeriod {
		return errors.Errorf("EMA period must be between 1 and %d, got %d", MaxEMAPeriod, cfg.emaPeriod)
	}

	title := fmt.Sprintf("%s Candlestick Chart (%s)", coinLabel, timeframeLabel)
	subtitle := fmt.Sprintf("UTC, last close %s", last.Close.String())

	x := make([]string, len(series))
	candles := make([]opts.KlineData, len(series))
	volumes := make([]opts.BarData, len(series))
	for i, c := range series {
		x[i] = c.OpenTime.UTC().Format("2006-01-02 15:04")
		// echarts expects [open, close, low, high]
		candles[i] = opts.KlineData{Value: [4]float64{
			c.Open.InexactFloat64(),
			c.Close.InexactFloat64(),
			c.Low.InexactFloat64(),
			c.High.InexactFloat64(),
		}}
		color := htmlBearish
		if c.Bullish() {
			color = htmlBullish
		}
		volumes[i] = opts.BarData{
			Value:     c.Volume.InexactFloat64(),
			ItemStyle: &opts.ItemStyle{Color: color},
		}
	}

	zoom := []opts.DataZoom{
		{Type: "inside", Start: 0, End: 100},
		{Type: "slider", Start: 0, End: 100},
	}

	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "600px", PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Price (USD)", Scale: opts.Bool(true)}),
		charts.WithDataZoomOpts(zoom...),
	)
	kline.SetXAxis(x).AddSeries("Price", candles,
		charts.WithItemStyleOpts(opts.ItemStyle{
			Color:        htmlBullish,
			Color0:       htmlBearish,
			BorderColor:  htmlBullish,
			BorderColor0: htmlBearish,
		}),
	)

	closes := series.Closes()
	if len(closes) >= indicators.DefaultSMAPeriod {
		sma, err := indicators.CalculateSMA(closes, indicators.DefaultSMAPeriod)
		if err != nil {
			return errors.Wrap(err, "calculate SMA")
		}
		kline.Overlap(overlayLine(x, fmt.Sprintf("SMA %d", indicators.DefaultSMAPeriod), sma, htmlSMA))
	}
	if cfg.emaPeriod > 0 && len(closes) >= cfg.emaPeriod {
		ema, err := indicators.CalculateEMA(closes, cfg.emaPeriod)
		if err != nil {
			return errors.Wrap(err, "calculate EMA")
		}
		kline.Overlap(overlayLine(x, fmt.Sprintf("EMA %d", cfg.emaPeriod), ema, htmlEMA))
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "220px"}),
		charts.WithTitleOpts(opts.Title{Title: "Volume"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(zoom...),
	)
	bar.SetXAxis(x).AddSeries("Volume", volumes)

	page := components.NewPage()
	page.SetPageTitle(title)
	page.AddCharts(kline, bar)

	return errors.Wrap(page.Render(w), "render chart page")
}

func overlayLine(x []string, name string, values indicators.Series, color string) *charts.Line {
	line := charts.NewLine()
	line.SetXAxis(x).AddSeries(name, lineData(values, len(x)),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: 2}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
	)
	return line
}

// lineData pads the head of an indicator with gaps so it lines up with the candles.
func lineData(values indicators.Series, n int) []opts.LineData {
	out := make([]opts.LineData, n)
	for i := range out {
		if v, ok := values.At(i); ok {
			out[i] = opts.LineData{Value: v}
			continue
		}
		out[i] = opts.LineData{Value: "-"}
	}
	return out
}
