package expressivo

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// ============================================================
// Num: exact nonnegative decimal
// ============================================================

// Num is a nonnegative decimal literal. The value is held as an exact
// rational whose denominator only has the prime factors 2 and 5, so it
// always has a finite plain-decimal rendering.
type Num struct {
	val  *big.Rat
	text string
}

// N returns the literal for a nonnegative integer. It panics on negative input.
func N(n int64) *Num {
	if n < 0 {
		panic("expressivo: negative literal")
	}
	return newNum(new(big.Rat).SetInt64(n))
}

// MakeNum returns the literal for value. The value must be nonnegative and
// have a terminating decimal expansion.
func MakeNum(value *big.Rat) (*Num, error) {
	if value == nil {
		return nil, errors.Wrap(ErrInvalidNumber, "nil value")
	}
	if value.Sign() < 0 {
		return nil, errors.Wrapf(ErrInvalidNumber, "%s is negative", value.RatString())
	}
	if _, ok := decimalPlaces(value.Denom()); !ok {
		return nil, errors.Wrapf(ErrInvalidNumber, "%s has no finite decimal expansion", value.RatString())
	}
	return newNum(new(big.Rat).Set(value)), nil
}

// NumFromString parses plain decimal text: digits with at most one decimal
// point and at least one digit, e.g. "2", "2.000", ".5" or "5.".
func NumFromString(s string) (*Num, error) {
	if !isDecimalText(s) {
		return nil, errors.Wrapf(ErrInvalidNumber, "%q is not a nonnegative decimal", s)
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidNumber, "%q is not a nonnegative decimal", s)
	}
	return newNum(r), nil
}

// NumFromFloat converts f through its shortest decimal representation, so
// 0.1 becomes exactly 0.1 rather than the nearest binary fraction.
func NumFromFloat(f float64) (*Num, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.Wrapf(ErrInvalidNumber, "%v is not finite", f)
	}
	if f < 0 {
		return nil, errors.Wrapf(ErrInvalidNumber, "%v is negative", f)
	}
	if f == 0 {
		f = 0 // -0 would format as "-0"
	}
	return NumFromString(strconv.FormatFloat(f, 'f', -1, 64))
}

func newNum(r *big.Rat) *Num {
	return &Num{val: r, text: decimalString(r)}
}

func (n *Num) String() string        { return n.text }
func (n *Num) LaTeX() string         { return n.text }
func (n *Num) Diff(*Var) Expr        { return N(0) }
func (n *Num) Simplify(Env) Expr     { return n }
func (n *Num) AddOperands() []Expr   { return []Expr{n} }
func (n *Num) MulOperands() []Expr   { return []Expr{n} }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) Hash() uint64          { return xxhash.Sum64String("num:" + n.text) }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) exprType() string      { return "num" }
func (n *Num) isNumeric() bool       { return true }

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.text}
}

func numAdd(a, b *Num) *Num { return newNum(new(big.Rat).Add(a.val, b.val)) }
func numMul(a, b *Num) *Num { return newNum(new(big.Rat).Mul(a.val, b.val)) }

// decimalString renders r without exponent or trailing fractional zeros.
func decimalString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	places, ok := decimalPlaces(r.Denom())
	if !ok {
		panic("expressivo: literal without finite decimal expansion")
	}
	s := r.FloatString(places)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// decimalPlaces returns the smallest k such that d divides 10^k, and false
// when no such k exists.
func decimalPlaces(d *big.Int) (int, bool) {
	rest := new(big.Int).Set(d)
	twos := stripFactor(rest, 2)
	fives := stripFactor(rest, 5)
	return max(twos, fives), rest.IsInt64() && rest.Int64() == 1
}

func stripFactor(z *big.Int, f int64) int {
	div := big.NewInt(f)
	q, r := new(big.Int), new(big.Int)
	count := 0
	for z.Sign() != 0 {
		q.QuoRem(z, div, r)
		if r.Sign() != 0 {
			break
		}
		z.Set(q)
		count++
	}
	return count
}

func isDecimalText(s string) bool {
	digits, dots := 0, 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
