package expressivo

// DiffCommand parses expression and returns the text of its derivative with
// respect to variable. The result is Parse(expression).Diff(v).String(), so
// zero and identity terms are kept.
func DiffCommand(expression, variable string) (string, error) {
	e, err := Parse(expression)
	if err != nil {
		return "", err
	}
	v, err := MakeVar(variable)
	if err != nil {
		return "", err
	}
	return e.Diff(v).String(), nil
}

// SimplifyCommand parses expression, substitutes the values in env and
// returns the text of the result. Variables missing from env are left in
// place; a fully numeric result is a single number.
func SimplifyCommand(expression string, env map[string]float64) (string, error) {
	e, err := Parse(expression)
	if err != nil {
		return "", err
	}
	values, err := EnvFromFloats(env)
	if err != nil {
		return "", err
	}
	return e.Simplify(values).String(), nil
}
