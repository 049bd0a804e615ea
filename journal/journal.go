// journal/journal.go
package journal

import "github.com/rustyeddy/compound/compound"

// Row is one line of the trade-details table.
type Row struct {
	Trade           int
	StartingCapital float64
	Profit          float64
	EndingCapital   float64
}

type Journal interface {
	RecordRow(Row) error
	Close() error
}

// Rows turns a seed-prefixed trajectory into table rows. The seed row
// starts and ends at the starting capital with no profit.
func Rows(trajectory []compound.TradeRecord) []Row {
	rows := make([]Row, 0, len(trajectory))
	for i, rec := range trajectory {
		start := rec.Capital
		if i > 0 {
			start = trajectory[i-1].Capital
		}
		rows = append(rows, Row{
			Trade:           rec.Trade,
			StartingCapital: start,
			Profit:          rec.Profit,
			EndingCapital:   rec.Capital,
		})
	}
	return rows
}

// Write records every row of the trajectory and closes j.
func Write(j Journal, trajectory []compound.TradeRecord) error {
	for _, r := range Rows(trajectory) {
		if err := j.RecordRow(r); err != nil {
			return err
		}
	}
	return j.Close()
}
