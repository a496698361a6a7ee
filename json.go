package expressivo

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ============================================================
// JSON Serialization
// ============================================================

// ToJSON encodes e in the object form read by FromJSON.
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// FromJSON rebuilds an expression from the object form produced by ToJSON.
// Structural failures wrap ErrInvalidInput; bad leaves keep the error of
// MakeVar or NumFromString.
// Sums and products are rebuilt left to right through MakeSum and
// MakeProduct, so nested operands of the same kind are flattened.
func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, errors.Wrap(ErrInvalidInput, "expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, errors.Wrap(ErrInvalidInput, "missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, errors.Wrap(ErrInvalidInput, "field 'type' must be a non-empty string")
	}

	subString := func(field string) (string, error) {
		v, ok := data[field]
		if !ok {
			return "", errors.Wrapf(ErrInvalidInput, "%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", errors.Wrapf(ErrInvalidInput, "%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}

	subExprArray := func(field string) ([]Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidInput, "%s: missing %q", typ, field)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, errors.Wrapf(ErrInvalidInput, "%s: %q must be an array", typ, field)
		}
		if len(raw) < 2 {
			return nil, errors.Wrapf(ErrInvalidInput, "%s: %q needs at least two operands", typ, field)
		}
		out := make([]Expr, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, errors.Wrapf(ErrInvalidInput, "%s: %q[%d] must be an object", typ, field, i)
			}
			e, err := FromJSON(m)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: %s[%d]", typ, field, i)
			}
			out[i] = e
		}
		return out, nil
	}

	switch typ {
	case "num":
		val, err := subString("value")
		if err != nil {
			return nil, err
		}
		n, err := NumFromString(val)
		if err != nil {
			return nil, err
		}
		return n, nil

	case "var":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		v, err := MakeVar(name)
		if err != nil {
			return nil, err
		}
		return v, nil

	case "sum":
		terms, err := subExprArray("terms")
		if err != nil {
			return nil, err
		}
		return foldSum(terms), nil

	case "product":
		factors, err := subExprArray("factors")
		if err != nil {
			return nil, err
		}
		return foldProduct(factors), nil
	}
	return nil, errors.Wrapf(ErrInvalidInput, "unknown expression type %q", typ)
}
