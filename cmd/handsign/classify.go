package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/handsign/internal/gesture"
	"github.com/ayusman/handsign/internal/source"
)

var classifyVerbose bool

var classifyCmd = &cobra.Command{
	Use:   "classify [file|-]",
	Short: "Classify JSON Lines landmark observations, one label per line",
	Long: `Reads one observation per line, for example
  {"present":true,"landmarks":[{"x":0.5,"y":0.8,"z":0}, ...21 points]}
and prints the recognized label of each. Reads stdin when no file or "-"
is given. Malformed lines print INVALID and are reported on stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := io.Reader(os.Stdin)
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		return runClassify(cmd.Context(), in, cmd.OutOrStdout(), classifyVerbose)
	},
}

func init() {
	classifyCmd.Flags().BoolVarP(&classifyVerbose, "verbose", "v", false, "also print the finger state")
	rootCmd.AddCommand(classifyCmd)
}

// invalidLabel is printed for lines that cannot be classified.
const invalidLabel = "INVALID"

// runClassify streams observations from in through the classifier and
// writes one line per observation to out. It returns an error summarizing
// how many lines were invalid.
func runClassify(ctx context.Context, in io.Reader, out io.Writer, verbose bool) error {
	src := source.NewReaderSource(in)
	classifier := gesture.New()

	var total, invalid int
	for {
		obs, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, source.ErrMalformed) {
			total++
			invalid++
			log.Printf("Skipping %v", err)
			fmt.Fprintln(out, invalidLabel)
			continue
		}
		if err != nil {
			return err
		}

		total++
		res, err := classifier.Evaluate(obs.Present, obs.Landmarks)
		if err != nil {
			invalid++
			log.Printf("Skipping line %d: %v", src.Line(), err)
			fmt.Fprintln(out, invalidLabel)
			continue
		}
		if verbose && res.Label != gesture.NoHand {
			fmt.Fprintf(out, "%s\t%s\n", res.Label, res.Fingers)
		} else {
			fmt.Fprintln(out, res.Label)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d observations were invalid", invalid, total)
	}
	return nil
}
