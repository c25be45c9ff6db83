package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/mrzlkvvv/OhMyCash/provider"
)

func printRates(out io.Writer, records []provider.Record) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight|tabwriter.Debug)

	if _, err := fmt.Fprintln(w, "ID\tCODE\tCOUNT\tRATE\tNAME\t"); err != nil {
		return err
	}

	for _, r := range records {
		if _, err := fmt.Fprintf(
			w, "%s\t%s\t%d\t%s\t%s\t\n",
			r.ID, r.Code, r.Count, strconv.FormatFloat(r.Rate, 'f', 4, 64), r.Name,
		); err != nil {
			return err
		}
	}

	return w.Flush()
}
