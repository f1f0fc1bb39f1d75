package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/frm-go/cli/internal/ui"
	"github.com/satishbabariya/frm-go/migrate"
	"github.com/satishbabariya/frm-go/migrate/sqlgen"
)

func newMigrateCommand(global *globalOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables of the declared records",
		Long: `Create every declared table that does not exist yet, in foreign key
dependency order. Existing tables are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.config()
			if err != nil {
				return err
			}
			p, err := loadProject(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if dryRun {
				gen, err := sqlgen.NewGenerator(cfg.Provider)
				if err != nil {
					return err
				}
				stmts, err := migrate.Plan(gen, p.entries)
				if err != nil {
					return err
				}
				for _, stmt := range stmts {
					fmt.Fprintf(out, "%s;\n\n", stmt)
				}
				return nil
			}

			ctx := cmd.Context()
			sess, err := p.open(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.Migrate(ctx, p.entries); err != nil {
				return err
			}
			ui.PrintSuccess(out, "%d tables ready in %s", len(p.entries), sess.Dialect().Name())
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the DDL without connecting")
	return cmd
}
