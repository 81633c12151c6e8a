package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/workplan/internal/cli/formatter"
)

func newCalcCmd(app *App) *cobra.Command {
	var class, params, operationID string

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Price an expense payload without storing it",
		Example: `  workplan calc --class III --params '{"fuel_type":"DIESEL","distance_km":300,"consumption_km_per_liter":10,"price_per_liter":6}'
  workplan calc --class I --operation op-sentinela --params @subsistence.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseClass(class)
			if err != nil {
				return err
			}
			raw, err := readParams(params)
			if err != nil {
				return err
			}
			res, err := app.Plans.Quote(cmd.Context(), operationID, c, raw)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatQuote(c, res))
			return nil
		},
	}

	cmd.Flags().StringVar(&class, "class", "", "Expense class (I to X)")
	cmd.Flags().StringVar(&params, "params", "", "JSON payload, or @file to read it from a file")
	cmd.Flags().StringVar(&operationID, "operation", "", "Operation supplying headcount and duration defaults")
	_ = cmd.MarkFlagRequired("class")

	return cmd
}
