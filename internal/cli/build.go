package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBuildCmd(a *app) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the index and print its statistics",
		Long: `Build the index over a dataset and print graph statistics.

Examples:
  nahiri build --data points.jsonl
  nahiri build --data points.json --metric l2 --capacities 32,8,4,2 --verify`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.open(cmd)
			if err != nil {
				return err
			}

			if verify {
				if err := db.Validate(); err != nil {
					return err
				}
			}

			st := db.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "points:              %d\n", st.Nodes)
			fmt.Fprintf(out, "keys:                %d\n", st.Keys)
			fmt.Fprintf(out, "dimension:           %d\n", st.Dimension)
			fmt.Fprintf(out, "metric:              %s\n", st.Metric)
			fmt.Fprintf(out, "capacities:          %v\n", st.Capacities)
			fmt.Fprintf(out, "edges:               %d\n", st.Edges)
			fmt.Fprintf(out, "covered:             %d\n", st.Covered)
			fmt.Fprintf(out, "orphans:             %d\n", st.Orphans)
			fmt.Fprintf(out, "mean first distance: %.6g\n", st.MeanFirstDistance)
			if verify {
				fmt.Fprintln(out, "valid:               true")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "Check every graph invariant after building")

	return cmd
}
