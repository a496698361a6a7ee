package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/expressivo"
)

func newLatexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latex <expression>",
		Short: "Render an expression as LaTeX",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := expressivo.Parse(joinArgs(args))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), expressivo.LaTeX(e))
			return nil
		},
	}
}
