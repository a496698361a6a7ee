package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/expressivo"
)

func newParseCmd() *cobra.Command {
	var asJSON bool
	var asLaTeX bool

	cmd := &cobra.Command{
		Use:   "parse <expression>",
		Short: "Parse an expression and print its canonical form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := expressivo.Parse(joinArgs(args))
			if err != nil {
				return err
			}
			log.Debugf("parsed %d top-level terms", len(e.AddOperands()))

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				j, err := expressivo.ToJSON(e)
				if err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
				fmt.Fprintln(out, j)
			case asLaTeX:
				fmt.Fprintln(out, e.LaTeX())
			default:
				fmt.Fprintln(out, e.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the expression tree as JSON")
	cmd.Flags().BoolVar(&asLaTeX, "latex", false, "print the expression as LaTeX")
	cmd.MarkFlagsMutuallyExclusive("json", "latex")
	return cmd
}
