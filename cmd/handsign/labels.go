package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayusman/handsign/internal/gesture"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Print every gesture label with its finger pattern",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printLabels(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}

// printLabels writes the label table. Patterns read thumb first: 'O' open,
// '-' closed, '*' either.
func printLabels(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "LABEL\tFINGERS\tTHUMB-INDEX\tACTIONABLE")
	fmt.Fprintln(w, "-----\t-------\t-----------\t----------")

	for _, l := range gesture.Labels() {
		pattern, near := gesture.Pattern(l)
		if pattern == "" {
			pattern = "n/a"
		}
		touch := ""
		if near {
			touch = "touching"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", l, pattern, touch, l.Actionable())
	}
	return w.Flush()
}
