package expressivo

import (
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Env maps variable names to the literals substituted for them by Simplify.
// A nil Env is empty, and a name bound to a nil *Num counts as unbound.
type Env map[string]*Num

// Set validates name and binds it to value, allocating the map of a nil Env.
func (env *Env) Set(name string, value *Num) error {
	if !isVariableName(name) {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	if value == nil {
		return errors.Wrapf(ErrInvalidNumber, "variable %s: nil value", name)
	}
	if *env == nil {
		*env = Env{}
	}
	(*env)[name] = value
	return nil
}

// Names returns the bound names in sorted order.
func (env Env) Names() []string {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnvFromFloats converts native float values into an Env. Every invalid
// entry is reported, not just the first.
func EnvFromFloats(values map[string]float64) (Env, error) {
	env := Env{}
	var result *multierror.Error
	for _, name := range sortedKeys(values) {
		n, err := NumFromFloat(values[name])
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "variable %s", name))
			continue
		}
		if err := env.Set(name, n); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return env, nil
}

// EnvFromStrings converts decimal text values into an Env.
func EnvFromStrings(values map[string]string) (Env, error) {
	env := Env{}
	var result *multierror.Error
	for _, name := range sortedKeys(values) {
		n, err := NumFromString(values[name])
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "variable %s", name))
			continue
		}
		if err := env.Set(name, n); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return env, nil
}

// LoadEnv reads a YAML mapping of variable names to numbers:
//
//	abc: 2.5
//	x: 10
//
// Values are read from the scalar text, so they are exact decimals.
func LoadEnv(r io.Reader) (Env, error) {
	var doc map[string]yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return Env{}, nil
		}
		return nil, errors.Wrap(err, "can't decode environment")
	}
	values := make(map[string]string, len(doc))
	var result *multierror.Error
	for name, node := range doc {
		if node.Kind != yaml.ScalarNode {
			result = multierror.Append(result, fmt.Errorf("variable %s: line %d: value must be a number", name, node.Line))
			continue
		}
		values[name] = node.Value
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return EnvFromStrings(values)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
