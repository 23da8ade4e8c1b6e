package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/VirgileHenry/nahiri/index"
)

// DefaultLimit is the default number of results.
const DefaultLimit = 10

func newQueryCmd(a *app) *cobra.Command {
	var (
		limit   int
		exclude []string
	)

	cmd := &cobra.Command{
		Use:   "query <key>",
		Short: "List the stored neighbors of a key",
		Long: `List the payloads closest to the one registered under key, closest first.

Only the key's own neighbor list is read, so at most L0 results are returned.

Examples:
  nahiri query --data points.jsonl doc-42
  nahiri query --data points.jsonl -k 5 --exclude doc-7,doc-9 doc-42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.codec()
			if err != nil {
				return err
			}

			db, err := a.open(cmd)
			if err != nil {
				return err
			}

			var filter index.Filter[Record]
			if len(exclude) > 0 {
				filter = func(r Record) bool { return !slices.Contains(exclude, r.Key) }
			}

			records, ok := db.Neighbors(cmd.Context(), args[0], limit, filter)
			if !ok {
				return fmt.Errorf("key %q not found", args[0])
			}

			return printRecords(cmd, c, records)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "k", DefaultLimit, "Maximum number of results")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Keys to leave out of the results")

	return cmd
}

func newClosestCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "closest <vector>",
		Short: "Find the stored vectors closest to a vector",
		Long: `Scan every stored vector and print the closest payloads, closest first.

The vector is a JSON array with exactly one number per dimension.

Examples:
  nahiri closest --data points.jsonl '[0.1, 0.2, 0.3]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.codec()
			if err != nil {
				return err
			}

			db, err := a.open(cmd)
			if err != nil {
				return err
			}

			v, err := db.Flat().Space().Decode(c, []byte(args[0]))
			if err != nil {
				return err
			}

			records, err := db.Closest(cmd.Context(), v.Values(), limit, nil)
			if err != nil {
				return err
			}

			return printRecords(cmd, c, records)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "k", DefaultLimit, "Maximum number of results")

	return cmd
}
