package cli

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swmmcosim/pkg/cosim"
	"github.com/matzehuels/swmmcosim/pkg/solver/playback"
)

func (c *CLI) areasCommand() *cobra.Command {
	var (
		tracePath string
		units     string
	)

	cmd := &cobra.Command{
		Use:   "areas <model.inp> <link>...",
		Short: "Read link cross-section areas after the first routing step",
		Long: `Open the model, advance one routing step and read the flow area of each
link, then finish the run. The session is replayed from --trace.`,
		Example: `  cosim areas gate.inp C-5 C-6 --trace gate.yaml --units SI`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := parseUnits(units)
			if err != nil {
				return err
			}
			trace, err := playback.LoadTrace(tracePath)
			if err != nil {
				return err
			}

			model, ids := args[0], args[1:]
			areas, err := cosim.LinkAreas(cmd.Context(), playback.New(trace), model, ids, u)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(areas))
			for _, id := range slices.Sorted(slices.Values(ids)) {
				rows = append(rows, []string{id, formatNumber(areas[id])})
			}
			c.printer().table([]string{"Link", "Area (" + areaUnit(u.String()) + ")"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tracePath, "trace", "t", "", "recorded solver trace (YAML or JSON)")
	cmd.Flags().StringVar(&units, "units", "", "unit system: US or SI (default US)")
	_ = cmd.MarkFlagRequired("trace")

	return cmd
}

func areaUnit(units string) string {
	if units == "SI" {
		return "m²"
	}
	return "ft²"
}
