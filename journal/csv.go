package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSVJournal writes the trade log and equity curve to two CSV files. Either
// path may be empty to skip that file. Run headers are not written.
type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

var (
	tradeHeader  = []string{"run_id", "seq", "side", "time", "price", "qty", "fee", "reason"}
	equityHeader = []string{"run_id", "time", "equity"}
)

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	j := &CSVJournal{}

	if tradesPath != "" {
		tf, err := os.Create(tradesPath)
		if err != nil {
			return nil, err
		}
		j.tf = tf
		j.trades = csv.NewWriter(tf)
		if err := j.trades.Write(tradeHeader); err != nil {
			_ = j.Close()
			return nil, err
		}
	}

	if equityPath != "" {
		ef, err := os.Create(equityPath)
		if err != nil {
			_ = j.Close()
			return nil, err
		}
		j.ef = ef
		j.equity = csv.NewWriter(ef)
		if err := j.equity.Write(equityHeader); err != nil {
			_ = j.Close()
			return nil, err
		}
	}

	return j, nil
}

func (j *CSVJournal) RecordRun(Run) error { return nil }

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	if j.trades == nil {
		return nil
	}
	return j.trades.Write([]string{
		t.RunID,
		strconv.Itoa(t.Seq),
		string(t.Side),
		t.Time.UTC().Format(time.RFC3339),
		f(t.Price),
		f(t.Qty),
		f(t.Fee),
		t.Reason,
	})
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	if j.equity == nil {
		return nil
	}
	return j.equity.Write([]string{
		e.RunID,
		e.Time.UTC().Format(time.RFC3339),
		f(e.Equity),
	})
}

func (j *CSVJournal) Close() error {
	var first error
	keep := func(err error) {
		if first == nil && err != nil {
			first = err
		}
	}

	if j.trades != nil {
		j.trades.Flush()
		keep(j.trades.Error())
	}
	if j.equity != nil {
		j.equity.Flush()
		keep(j.equity.Error())
	}
	if j.tf != nil {
		keep(j.tf.Close())
	}
	if j.ef != nil {
		keep(j.ef.Close())
	}
	return first
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
