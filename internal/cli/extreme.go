package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swmmcosim/pkg/extreme"
	"github.com/matzehuels/swmmcosim/pkg/results"
)

func (c *CLI) extremeCommand() *cobra.Command {
	var wantMin bool

	cmd := &cobra.Command{
		Use:   "extreme <file>",
		Short: "Find the maximum or minimum of sampled results",
		Long: `Find the optimal value of a results file.

Accepted inputs are run records and plain JSON arrays or objects (.json),
sample tables (.csv) and "key value" record files (any other extension).
Flat and keyed data yield one value; 2D data yields the extreme row; 3D data
yields one result per group.`,
		Example: `  cosim extreme run.json
  cosim extreme run.csv --min
  cosim extreme info.dat`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := results.LoadData(args[0])
			if err != nil {
				return err
			}
			found, err := extreme.Find(d, !wantMin)
			if err != nil {
				return err
			}

			kind := "Max"
			if wantMin {
				kind = "Min"
			}
			headers := []string{"Group", kind, "Index"}
			if d.Shape() == extreme.ShapeKeyed {
				headers = append(headers, "Key")
			}
			rows := make([][]string, len(found))
			for i, x := range found {
				rows[i] = []string{fmt.Sprint(i), formatNumber(x.Value), fmt.Sprint(x.Index)}
				if d.Shape() == extreme.ShapeKeyed {
					rows[i] = append(rows[i], x.Key)
				}
			}

			p := c.printer()
			p.info("%s data from %s", d.Shape(), args[0])
			p.table(headers, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&wantMin, "min", false, "find the minimum instead of the maximum")
	return cmd
}
