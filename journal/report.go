package journal

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rustyeddy/backtester/optimize"
)

func money(x float64) string {
	return "$" + humanize.FormatFloat("#,###.##", x)
}

// PrintSummary writes the performance block for a single run.
func PrintSummary(w io.Writer, r Run) {
	p := r.Perf
	fmt.Fprintln(w)
	fmt.Fprintln(w, " Backtest Summary")
	fmt.Fprintf(w, "Symbol: %s | period=%s interval=%s\n", r.Symbol, r.Period, r.Interval)
	fmt.Fprintf(w, "Strategy:    %s tp=%.2f%% sl=%.2f%%\n", r.Strategy, r.Execution.TakeProfit*100, r.Execution.StopLoss*100)
	if !r.Start.IsZero() {
		fmt.Fprintf(w, "Span:        %s .. %s\n", r.Start.UTC().Format(time.RFC3339), r.End.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Final Value: %s\n", money(p.FinalValue))
	fmt.Fprintf(w, "Profit:      %s\n", money(p.Profit))
	fmt.Fprintf(w, "Return:      %.2f%%\n", p.ReturnPct)
	fmt.Fprintf(w, "Trades:      %d\n", p.Trades)
	fmt.Fprintf(w, "Win Rate:    %.2f%%\n", p.WinRatePct)
	fmt.Fprintf(w, "Avg Trade:   %.2f%%\n", p.AvgTradeReturnPct)
	fmt.Fprintf(w, "Max DD:      %.2f%%\n", p.MaxDrawdownPct)
	fmt.Fprintf(w, "ProfitFact:  %.2f\n", p.ProfitFactor)
	fmt.Fprintf(w, "Sharpe:      %.2f\n", p.Sharpe)
	fmt.Fprintf(w, "Trade log entries: %d\n", r.TradeLog)

	if r.RunID != "" {
		fmt.Fprintf(w, "Run ID:      %s\n", r.RunID)
	}
	if r.PlotPath != "" {
		fmt.Fprintf(w, "Equity Plot: %s\n", r.PlotPath)
	}
	if r.OrgPath != "" {
		fmt.Fprintf(w, "Org Report:  %s\n", r.OrgPath)
	}
}

// PrintSweep writes the first n ranked rows as an aligned table. n <= 0
// prints every row.
func PrintSweep(w io.Writer, rows []optimize.Row, n int) error {
	if n > 0 {
		rows = optimize.Top(rows, n)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "short\tlong\trsi_thr\ttp\tsl\tfinal_value\treturn_pct\ttrades\twin_rate_pct\tavg_trade_pct\tmax_dd_pct\tprofit_factor\tsharpe\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%.2f\t%.2f\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			r.Short, r.Long,
			g(r.RSIThreshold), g(r.TakeProfit), g(r.StopLoss),
			r.FinalValue, r.ReturnPct, r.Trades, r.WinRatePct, r.AvgTradeReturnPct,
			r.MaxDrawdownPct, r.ProfitFactor, r.Sharpe,
		)
	}
	return tw.Flush()
}

// PrintTrades writes a trade log.
func PrintTrades(w io.Writer, trades []TradeRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSIDE\tTIME\tPRICE\tQTY\tFEE\tREASON")
	for _, t := range trades {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.4f\t%.6f\t%.4f\t%s\n",
			t.Seq, t.Side, t.Time.UTC().Format(time.RFC3339), t.Price, t.Qty, t.Fee, t.Reason)
	}
	return tw.Flush()
}

func g(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
