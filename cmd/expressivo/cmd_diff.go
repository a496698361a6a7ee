package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/expressivo"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <expression> <variable>",
		Short: "Differentiate an expression with respect to a variable",
		Long: `Differentiate an expression with respect to a variable.

The derivative is printed unsimplified: terms such as 0 and x*1 are kept.
Pipe the result through "expressivo simplify" to fold numeric groups.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := expressivo.DiffCommand(args[0], args[1])
			if err != nil {
				return err
			}
			log.Debugf("d/d%s %s", args[1], args[0])
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}
