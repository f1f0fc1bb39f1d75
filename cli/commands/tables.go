package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/frm-go/cli/internal/ui"
	"github.com/satishbabariya/frm-go/migrate/introspect"
	"github.com/satishbabariya/frm-go/runtime/session"
)

func newTablesCommand(global *globalOptions) *cobra.Command {
	var columns bool

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the tables in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.config()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			sess, err := session.Open(ctx, cfg.Provider, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer sess.Close()

			in, err := introspect.NewIntrospector(sess.DB(), sess.Dialect())
			if err != nil {
				return err
			}
			names, err := in.TableNames(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !columns {
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			for _, name := range names {
				cols, err := in.Columns(ctx, name)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(cols))
				for _, c := range cols {
					rows = append(rows, []string{c.Name, c.Type, yesNo(c.PrimaryKey), yesNo(c.Nullable)})
				}
				table, err := ui.RenderTable([]string{"Column", "Type", "PK", "Nullable"}, rows)
				if err != nil {
					return err
				}
				ui.PrintSection(out, name)
				fmt.Fprintln(out, table)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&columns, "columns", "c", false, "show the columns of each table")
	return cmd
}
