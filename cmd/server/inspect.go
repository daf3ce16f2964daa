package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/h4ks-com/cashbook/internal/database"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Show the application tables and their row counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			counts, err := database.TableCounts(a.db)
			if err != nil {
				return err
			}

			tables := make([]string, 0, len(counts))
			for name := range counts {
				tables = append(tables, name)
			}
			sort.Strings(tables)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TABLE\tROWS")
			for _, name := range tables {
				fmt.Fprintf(w, "%s\t%d\n", name, counts[name])
			}
			return w.Flush()
		},
	}
}
