package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/frm-go/cli/internal/version"
)

func newVersionCommand() *cobra.Command {
	var (
		short   bool
		require string
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if require != "" {
				ok, err := info.Satisfies(require)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("frm %s does not satisfy %q", info.Version, require)
				}
			}
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.String())
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), info.FullString())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print a single line")
	cmd.Flags().StringVar(&require, "require", "", "fail unless the version satisfies this constraint")
	return cmd
}
