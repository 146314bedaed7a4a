package display

import (
	"fmt"
	"io"
	"time"

	"github.com/dmagro/eth-indexer-explorer/internal/history"
)

// RecentTable lists the recent-queries ledger, newest first. The # column is
// the index accepted by "explorer rerun".
type RecentTable struct {
	Entries []history.RecentQuery
	Now     time.Time
}

func (f *RecentTable) Format(w io.Writer) error {
	heading(w, "Recent Queries")
	if len(f.Entries) == 0 {
		fmt.Fprintln(w, Dim("  No recent queries yet."))
		return nil
	}

	tbl := newTable(w, "#", "Type", "Query", "When", "Status", "ID")
	for i, e := range f.Entries {
		status := Green(string(e.Status))
		if e.Status != history.StatusSuccess {
			status = Red(string(e.Status))
		}
		tbl.AddRow(i+1, e.Type, e.Query, relative(f.Now.Sub(e.Timestamp)), status, Dim(e.ID))
	}
	tbl.Print()
	fmt.Fprintf(w, "\n%s\n\n", Dim(fmt.Sprintf("%d of %d slots used; rerun one with: explorer rerun <#|id>", len(f.Entries), history.MaxEntries)))
	return nil
}
