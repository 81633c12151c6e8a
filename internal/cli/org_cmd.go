package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/workplan/internal/cli/formatter"
)

func newOrgCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Inspect and provision the organizational hierarchy",
	}

	cmd.AddCommand(
		newOrgImportCmd(app),
		newOrgListCmd(app),
		newOrgChainCmd(app),
		newOrgTreeCmd(app),
	)

	return cmd
}

func newOrgImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import org units and operations from a provisioning file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d org units and %d operations\n", res.OrgUnitCount, res.OperationCount)
			return nil
		},
	}
}

func newOrgListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List org units",
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := app.Orgs.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(units))
			for _, u := range units {
				parent := "-"
				if u.ParentID != nil {
					parent = *u.ParentID
				}
				rows = append(rows, []string{u.ID, u.Abbreviation, u.Designation, string(u.Kind), parent, u.BudgetCode})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(
				[]string{"ID", "ABBR", "DESIGNATION", "KIND", "PARENT", "BUDGET CODE"}, rows))
			return nil
		},
	}
}

func newOrgChainCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chain <org-id>",
		Short: "Show the approval chain for plans owned by an org unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := app.Orgs.Chain(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatChain(chain, 0))
			return nil
		},
	}
}

func newOrgTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [root-id]",
		Short: "Show the hierarchy below an org unit (default: the root)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rootID := ""
			if len(args) == 1 {
				rootID = args[0]
			} else {
				units, err := app.Orgs.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, u := range units {
					if u.IsRoot() {
						rootID = u.ID
						break
					}
				}
				if rootID == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "No org units provisioned.")
					return nil
				}
			}
			units, err := app.Orgs.Tree(cmd.Context(), rootID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOrgTree(units))
			return nil
		},
	}
}

func newOperationCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operation",
		Short: "Inspect operations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List operations and their participants",
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := app.Operations.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(ops))
			for _, op := range ops {
				rows = append(rows, []string{
					op.ID, op.Name, op.OwnerOrgID,
					op.StartDate.Format(time.DateOnly) + " .. " + op.EndDate.Format(time.DateOnly),
					fmt.Sprint(op.Headcount), fmt.Sprint(len(op.Participants)),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(
				[]string{"ID", "NAME", "OWNER", "PERIOD", "HEADCOUNT", "PARTICIPANTS"}, rows))
			return nil
		},
	})
	return cmd
}
