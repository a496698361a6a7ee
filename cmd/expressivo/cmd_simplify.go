package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/njchilds90/expressivo"
)

func newSimplifyCmd() *cobra.Command {
	var assignments []string
	var envFile string

	cmd := &cobra.Command{
		Use:   "simplify <expression>",
		Short: "Substitute values for variables and fold numeric groups",
		Long: `Substitute values for variables and fold numeric groups.

Values come from an optional YAML file of name: number pairs and from
repeated --env name=value flags. Flags win over the file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(envFile, assignments)
			if err != nil {
				return err
			}
			log.Debugf("environment: %s", strings.Join(env.Names(), ","))

			e, err := expressivo.Parse(joinArgs(args))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.Simplify(env).String())
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&assignments, "env", nil, "variable assignment name=value (repeatable)")
	cmd.Flags().StringVar(&envFile, "env-file", envOrDefault("EXPRESSIVO_ENV_FILE", ""), "YAML file of variable values (env EXPRESSIVO_ENV_FILE)")
	return cmd
}

func loadEnv(path string, assignments []string) (expressivo.Env, error) {
	env := expressivo.Env{}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open env file: %w", err)
		}
		defer f.Close()
		env, err = expressivo.LoadEnv(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		log.Infof("loaded %d values from %s", len(env), path)
	}

	values := make(map[string]string, len(assignments))
	var result *multierror.Error
	for _, a := range assignments {
		name, value, ok := strings.Cut(a, "=")
		if !ok {
			result = multierror.Append(result, fmt.Errorf("--env %q: expected name=value", a))
			continue
		}
		values[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	overrides, err := expressivo.EnvFromStrings(values)
	if err != nil {
		return nil, err
	}
	for name, value := range overrides {
		env[name] = value
	}
	return env, nil
}
