// Package plot renders backtest results as standalone HTML charts.
package plot

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/metrics"
)

const (
	colorEquity   = "#3b82f6"
	colorDrawdown = "#f87171"
	colorPrice    = "#9ca3af"
	colorShort    = "#fbbf24"
	colorLong     = "#f472b6"
	colorBuy      = "#34d399"
	colorSell     = "#ef4444"

	chartWidthPx  = 1400
	chartHeightPx = 480

	timeLayout = "2006-01-02 15:04"
)

// Input is what a report page shows. Rows and Trades are optional; without
// Rows only the equity panel is drawn.
type Input struct {
	Title  string
	Equity []backtest.EquityPoint
	Rows   []market.SignalCandle
	Trades []backtest.Trade
}

// Render writes an HTML page with an equity and drawdown panel and, when
// rows are given, a price panel with the moving averages and fills.
func Render(w io.Writer, in Input) error {
	if len(in.Equity) == 0 {
		return fmt.Errorf("plot: empty equity curve")
	}

	page := components.NewPage()
	page.PageTitle = in.Title
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(equityChart(in))
	if len(in.Rows) > 0 {
		page.AddCharts(priceChart(in))
	}
	return page.Render(w)
}

// WriteFile renders in to path.
func WriteFile(path string, in Input) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Render(f, in); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func initOpts() opts.Initialization {
	return opts.Initialization{
		Theme:  types.ThemeWesteros,
		Width:  fmt.Sprintf("%dpx", chartWidthPx),
		Height: fmt.Sprintf("%dpx", chartHeightPx),
	}
}

func equityChart(in Input) *charts.Line {
	values := make([]float64, len(in.Equity))
	xAxis := make([]string, len(in.Equity))
	for i, p := range in.Equity {
		values[i] = p.Equity
		xAxis[i] = p.Time.UTC().Format(timeLayout)
	}

	peak := metrics.RunningPeak(values)
	equity := make([]opts.LineData, len(values))
	dd := make([]opts.LineData, len(values))
	for i, v := range values {
		equity[i] = opts.LineData{Value: round(v, 2)}
		dd[i] = opts.LineData{Value: round((v/peak[i]-1)*100, 4)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{Title: in.Title, Subtitle: "equity / drawdown %"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
	)
	line.ExtendYAxis(opts.YAxis{Name: "DD %", Position: "right", Max: 0})
	line.SetXAxis(xAxis)
	line.AddSeries("Equity", equity,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorEquity, Width: 2}),
	)
	line.AddSeries("Drawdown %", dd,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false), YAxisIndex: 1}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorDrawdown, Width: 1}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Color: colorDrawdown, Opacity: opts.Float(0.2)}),
	)
	return line
}

func priceChart(in Input) *charts.Line {
	n := len(in.Rows)
	xAxis := make([]string, n)
	closes := make([]opts.LineData, n)
	short := make([]opts.LineData, n)
	long := make([]opts.LineData, n)
	index := make(map[time.Time]int, n)
	for i, r := range in.Rows {
		xAxis[i] = r.Time.UTC().Format(timeLayout)
		closes[i] = opts.LineData{Value: round(r.Close, 4)}
		short[i] = nullData(r.SMAShort)
		long[i] = nullData(r.SMALong)
		index[r.Time.UTC()] = i
	}

	buys := make([]opts.LineData, n)
	sells := make([]opts.LineData, n)
	for _, t := range in.Trades {
		i, ok := index[t.Time.UTC()]
		if !ok {
			continue
		}
		if t.Side == backtest.Buy {
			buys[i] = opts.LineData{Value: round(t.Price, 4)}
		} else {
			sells[i] = opts.LineData{Value: round(t.Price, 4)}
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{Title: "Price", Subtitle: "close, SMAs and fills"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
	)
	line.SetXAxis(xAxis)
	noSymbol := charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)})
	line.AddSeries("Close", closes, noSymbol, charts.WithLineStyleOpts(opts.LineStyle{Color: colorPrice, Width: 1}))
	line.AddSeries("SMA short", short, noSymbol, charts.WithLineStyleOpts(opts.LineStyle{Color: colorShort, Width: 2}))
	line.AddSeries("SMA long", long, noSymbol, charts.WithLineStyleOpts(opts.LineStyle{Color: colorLong, Width: 2}))
	line.AddSeries("Buy", buys,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true), Symbol: "triangle", SymbolSize: 10}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorBuy}),
	)
	line.AddSeries("Sell", sells,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true), Symbol: "diamond", SymbolSize: 10}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorSell}),
	)
	return line
}

func nullData(v market.NullFloat) opts.LineData {
	if !v.Valid {
		return opts.LineData{Value: nil}
	}
	return opts.LineData{Value: round(v.Float64, 4)}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
