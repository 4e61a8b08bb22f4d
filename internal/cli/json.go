package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newJSONCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "json DESCRIPTOR",
		Short: "Print the JSON keymap of one layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dsc, err := a.loader().Load(args[0])
			if err != nil {
				return fmt.Errorf("json: %w", err)
			}

			buf, err := renderJSON(dsc)
			if err != nil {
				return fmt.Errorf("json: %w", err)
			}

			return a.emit(cmd.OutOrStdout(), output, buf)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}
