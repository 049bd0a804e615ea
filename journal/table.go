package journal

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rustyeddy/compound/format"
)

// TableJournal renders rows as an aligned, human readable table.
type TableJournal struct {
	tw *tabwriter.Writer
}

func NewTable(w io.Writer) *TableJournal {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Trade\tStarting Capital\tProfit\tEnding Capital\t")
	return &TableJournal{tw: tw}
}

func (j *TableJournal) RecordRow(r Row) error {
	_, err := fmt.Fprintf(j.tw, "%d\t%s\t%s\t%s\t\n",
		r.Trade, format.Dollars(r.StartingCapital), format.Dollars(r.Profit), format.Dollars(r.EndingCapital))
	return err
}

func (j *TableJournal) Close() error {
	return j.tw.Flush()
}
