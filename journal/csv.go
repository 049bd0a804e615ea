package journal

import (
	"encoding/csv"
	"io"
	"strconv"
)

var Header = []string{"trade", "starting_capital", "profit", "ending_capital"}

type CSVJournal struct {
	rows *csv.Writer
}

// NewCSV writes the header to w and returns a journal appending rows to it.
// Closing the journal flushes but does not close w.
func NewCSV(w io.Writer) (*CSVJournal, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return nil, err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return &CSVJournal{rows: cw}, nil
}

func (j *CSVJournal) RecordRow(r Row) error {
	return j.rows.Write([]string{
		strconv.Itoa(r.Trade),
		f(r.StartingCapital),
		f(r.Profit),
		f(r.EndingCapital),
	})
}

func (j *CSVJournal) Close() error {
	j.rows.Flush()
	return j.rows.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
