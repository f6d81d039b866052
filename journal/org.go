package journal

import (
	"bytes"
	"os"
	"text/template"
	"time"
)

var orgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTemplate = template.Must(template.New("run").Funcs(orgFuncs).Parse(RunOrgTemplate))

// FormatOrg renders r as an Org-mode entry.
func FormatOrg(r Run) (string, error) {
	buf := new(bytes.Buffer)
	if err := orgTemplate.Execute(buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteOrg renders r to r.OrgPath.
func WriteOrg(r Run) error {
	s, err := FormatOrg(r)
	if err != nil {
		return err
	}
	return os.WriteFile(r.OrgPath, []byte(s), 0644)
}

const RunOrgTemplate = `
* BACKTEST: sma-cross-rsi {{.Symbol}} {{if .Interval}}{{.Interval}}{{else}}(interval?){{end}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:STRATEGY:    {{.Strategy}}
:INTERVAL:    {{.Interval}}
:PERIOD:      {{.Period}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:START_CASH:  {{printf "%.2f" .Execution.InitialCash}}
:FINAL_VALUE: {{printf "%.2f" .Perf.FinalValue}}
:PROFIT:      {{printf "%.2f" .Perf.Profit}}
:RETURN_PCT:  {{printf "%.2f" .Perf.ReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .Perf.MaxDrawdownPct}}
:TRADES:      {{.Perf.Trades}}
:WIN_RATE:    {{printf "%.2f" .Perf.WinRatePct}}
:PROFIT_FAC:  {{printf "%.2f" .Perf.ProfitFactor}}
:SHARPE:      {{printf "%.2f" .Perf.Sharpe}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Strategy Parameters
| Parameter      | Value |
|----------------+-------|
| Short SMA      | {{.Strategy.ShortWindow}} |
| Long SMA       | {{.Strategy.LongWindow}} |
| RSI Window     | {{.Strategy.RSIWindow}} |
| RSI Threshold  | {{printf "%.2f" .Strategy.RSIThreshold}} |
| Take Profit %  | {{printf "%.2f" (mul100 .Execution.TakeProfit)}} |
| Stop Loss %    | {{printf "%.2f" (mul100 .Execution.StopLoss)}} |
| Fee %          | {{printf "%.3f" (mul100 .Execution.FeeFrac)}} |
| Slippage %     | {{printf "%.3f" (mul100 .Execution.SlippageFrac)}} |

** Performance Summary
- Final Value:      *{{printf "%.2f" .Perf.FinalValue}}*
- Return:           *{{printf "%.2f" .Perf.ReturnPct}}%*
- Max Drawdown:     *{{printf "%.2f" .Perf.MaxDrawdownPct}}%*
- Win Rate:         *{{printf "%.2f" .Perf.WinRatePct}}%*
- Avg Trade:        *{{printf "%.2f" .Perf.AvgTradeReturnPct}}%*
- Profit Factor:    *{{printf "%.2f" .Perf.ProfitFactor}}*
- Sharpe:           *{{printf "%.2f" .Perf.Sharpe}}*
- Trade log:        {{.TradeLog}} orders

** Equity Curve
{{- if .PlotPath }}
[[file:{{.PlotPath}}]]
{{- else }}
# render with --plot to link an equity chart here
{{- end }}
`
