package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/frm-go/cli/internal/config"
	"github.com/satishbabariya/frm-go/cli/internal/ui"
	"github.com/satishbabariya/frm-go/query/compiler"
)

func newRunCommand(global *globalOptions) *cobra.Command {
	var (
		funcName string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Compile a comprehension function and print its results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.config()
			if err != nil {
				return err
			}
			file := cfg.QueryPath
			if len(args) > 0 {
				file = args[0]
			}
			if !cmd.Flags().Changed("format") && cfg.Format == "json" {
				format = "json"
			}

			errOut := cmd.ErrOrStderr()
			p, err := loadProject(errOut, cfg)
			if err != nil {
				return err
			}
			src, err := config.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read queries: %w", err)
			}

			ctx := cmd.Context()
			sess, err := p.open(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			q, err := compiler.New(p.registry, compiler.WithFilename(file)).CompileFunc(src, funcName, sess)
			if err != nil {
				return report(errOut, src, err)
			}
			rows, err := q.All(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				data, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			headers := make([]string, 0, len(q.Columns()))
			for _, c := range q.Columns() {
				headers = append(headers, c.Qualified())
			}
			table := make([][]string, 0, len(rows))
			for _, row := range rows {
				cells := make([]string, len(row))
				for i, v := range row {
					cells[i] = formatValue(v)
				}
				table = append(table, cells)
			}
			rendered, err := ui.RenderTable(headers, table)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, rendered)
			ui.PrintSuccess(out, "%d rows", len(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&funcName, "func", "", "function to run when the file defines several")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	return cmd
}
