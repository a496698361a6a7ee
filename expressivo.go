// Package expressivo parses polynomial expressions over nonnegative decimals
// and variables and manipulates them symbolically.
//
// Design goals:
//   - Immutable, flattened n-ary sums and products
//   - Exact decimal arithmetic (math/big.Rat)
//   - Deterministic output: no term is reordered, dropped or combined
//     beyond folding purely numeric groups
//   - Round-trip rendering: Parse(e.String()) is always equal to e
package expressivo

import (
	"encoding/binary"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidInput is returned by Parse for text outside the grammar.
	ErrInvalidInput = errors.New("invalid expression")
	// ErrInvalidName is returned for empty or non-alphabetic variable names.
	ErrInvalidName = errors.New("invalid variable name")
	// ErrInvalidNumber is returned for negative or non-decimal literals.
	ErrInvalidNumber = errors.New("invalid number")
)

// ============================================================
// Core Interface
// ============================================================

// Expr is the closed set {*Num, *Var, *Sum, *Product}.
type Expr interface {
	String() string
	LaTeX() string
	Equal(other Expr) bool
	Hash() uint64
	Diff(v *Var) Expr
	Simplify(env Env) Expr
	// AddOperands is the operand list this expression contributes to a sum.
	AddOperands() []Expr
	// MulOperands is the operand list this expression contributes to a product.
	MulOperands() []Expr
	exprType() string
	isNumeric() bool
	toJSON() map[string]interface{}
}

// ============================================================
// Var: symbolic variable
// ============================================================

type Var struct{ name string }

// MakeVar returns the variable called name. Names are one or more ASCII
// letters and are case-sensitive.
func MakeVar(name string) (*Var, error) {
	if !isVariableName(name) {
		return nil, errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return &Var{name: name}, nil
}

// S is MakeVar for names known to be valid. It panics otherwise.
func S(name string) *Var {
	v, err := MakeVar(name)
	if err != nil {
		panic("expressivo: " + err.Error())
	}
	return v
}

func (v *Var) String() string        { return v.name }
func (v *Var) LaTeX() string         { return v.name }
func (v *Var) Name() string          { return v.name }
func (v *Var) AddOperands() []Expr   { return []Expr{v} }
func (v *Var) MulOperands() []Expr   { return []Expr{v} }
func (v *Var) Equal(other Expr) bool { o, ok := other.(*Var); return ok && v.name == o.name }
func (v *Var) Hash() uint64          { return xxhash.Sum64String("var:" + v.name) }
func (v *Var) exprType() string      { return "var" }
func (v *Var) isNumeric() bool       { return false }
func (v *Var) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "var", "name": v.name}
}

func (v *Var) Diff(wrt *Var) Expr {
	if v.name == wrt.name {
		return N(1)
	}
	return N(0)
}

func (v *Var) Simplify(env Env) Expr {
	if value := env[v.name]; value != nil {
		return value
	}
	return v
}

func isVariableName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

// ============================================================
// Sum: flattened n-ary addition
// ============================================================

// Sum holds two or more terms, none of which is itself a *Sum.
type Sum struct{ terms []Expr }

// MakeSum returns left+right. The terms of left come first, and nested sums
// on either side are flattened into the result.
func MakeSum(left, right Expr) *Sum {
	terms := make([]Expr, 0, len(left.AddOperands())+len(right.AddOperands()))
	terms = append(terms, left.AddOperands()...)
	terms = append(terms, right.AddOperands()...)
	return newSum(terms)
}

// newSum takes ownership of terms, which must already be flat.
func newSum(terms []Expr) *Sum {
	if len(terms) < 2 {
		panic("expressivo: sum needs at least two terms")
	}
	return &Sum{terms: terms}
}

func (s *Sum) String() string {
	parts := make([]string, len(s.terms))
	for i, t := range s.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, "+")
}

func (s *Sum) LaTeX() string {
	parts := make([]string, len(s.terms))
	for i, t := range s.terms {
		parts[i] = t.LaTeX()
	}
	return strings.Join(parts, " + ")
}

func (s *Sum) AddOperands() []Expr { return append([]Expr(nil), s.terms...) }
func (s *Sum) MulOperands() []Expr { return []Expr{s} }
func (s *Sum) Terms() []Expr       { return s.AddOperands() }
func (s *Sum) Hash() uint64        { return hashOperands("sum", s.terms) }
func (s *Sum) exprType() string    { return "sum" }
func (s *Sum) isNumeric() bool     { return false }

func (s *Sum) Equal(other Expr) bool {
	o, ok := other.(*Sum)
	return ok && equalOperands(s.terms, o.terms)
}

// Diff keeps the order of the terms: d(y1+...+yn) = dy1+...+dyn. The first
// n-1 terms are differentiated as a group and the group is summed with dyn.
func (s *Sum) Diff(v *Var) Expr {
	n := len(s.terms)
	if n == 2 {
		return MakeSum(s.terms[0].Diff(v), s.terms[1].Diff(v))
	}
	head := &Sum{terms: s.terms[:n-1]}
	return MakeSum(head.Diff(v), s.terms[n-1].Diff(v))
}

func (s *Sum) Simplify(env Env) Expr {
	terms, numeric := simplifyOperands(s.terms, env)
	if !numeric {
		return foldSum(terms)
	}
	acc := N(0)
	for _, t := range terms {
		acc = numAdd(acc, t.(*Num))
	}
	return acc
}

func (s *Sum) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sum", "terms": operandsJSON(s.terms)}
}

// ============================================================
// Product: flattened n-ary multiplication
// ============================================================

// Product holds two or more factors, none of which is itself a *Product.
type Product struct{ factors []Expr }

// MakeProduct returns left*right. The factors of left come first, and
// nested products on either side are flattened into the result.
func MakeProduct(left, right Expr) *Product {
	factors := make([]Expr, 0, len(left.MulOperands())+len(right.MulOperands()))
	factors = append(factors, left.MulOperands()...)
	factors = append(factors, right.MulOperands()...)
	return newProduct(factors)
}

// newProduct takes ownership of factors, which must already be flat.
func newProduct(factors []Expr) *Product {
	if len(factors) < 2 {
		panic("expressivo: product needs at least two factors")
	}
	return &Product{factors: factors}
}

// String wraps factors that are sums in one pair of parentheses.
func (p *Product) String() string {
	parts := make([]string, len(p.factors))
	for i, f := range p.factors {
		if len(f.AddOperands()) > 1 {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return strings.Join(parts, "*")
}

func (p *Product) LaTeX() string {
	parts := make([]string, len(p.factors))
	for i, f := range p.factors {
		if len(f.AddOperands()) > 1 {
			parts[i] = "\\left(" + f.LaTeX() + "\\right)"
		} else {
			parts[i] = f.LaTeX()
		}
	}
	return strings.Join(parts, " \\cdot ")
}

func (p *Product) AddOperands() []Expr { return []Expr{p} }
func (p *Product) MulOperands() []Expr { return append([]Expr(nil), p.factors...) }
func (p *Product) Factors() []Expr     { return p.MulOperands() }
func (p *Product) Hash() uint64        { return hashOperands("product", p.factors) }
func (p *Product) exprType() string    { return "product" }
func (p *Product) isNumeric() bool     { return false }

func (p *Product) Equal(other Expr) bool {
	o, ok := other.(*Product)
	return ok && equalOperands(p.factors, o.factors)
}

// Diff applies the product rule to (y1*...*y(n-1), yn):
// d(P*yn) = P*dyn + dP*yn, recursing into dP. Identity and zero factors
// produced along the way are kept.
func (p *Product) Diff(v *Var) Expr {
	n := len(p.factors)
	if n == 2 {
		return diffTwoFactors(p.factors[0], p.factors[1], v)
	}
	head := &Product{factors: p.factors[:n-1]}
	return diffTwoFactors(head, p.factors[n-1], v)
}

func diffTwoFactors(left, right Expr, v *Var) Expr {
	return MakeSum(MakeProduct(left, right.Diff(v)), MakeProduct(left.Diff(v), right))
}

func (p *Product) Simplify(env Env) Expr {
	factors, numeric := simplifyOperands(p.factors, env)
	if !numeric {
		return foldProduct(factors)
	}
	acc := N(1)
	for _, f := range factors {
		acc = numMul(acc, f.(*Num))
	}
	return acc
}

func (p *Product) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "product", "factors": operandsJSON(p.factors)}
}

// ============================================================
// Shared operand helpers
// ============================================================

func equalOperands(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func hashOperands(tag string, ops []Expr) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(tag)
	var buf [8]byte
	for _, op := range ops {
		binary.LittleEndian.PutUint64(buf[:], op.Hash())
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// simplifyOperands simplifies every operand and reports whether all of the
// results are literals.
func simplifyOperands(ops []Expr, env Env) ([]Expr, bool) {
	out := make([]Expr, len(ops))
	numeric := true
	for i, op := range ops {
		out[i] = op.Simplify(env)
		if !out[i].isNumeric() {
			numeric = false
		}
	}
	return out, numeric
}

// foldSum rebuilds a sum from ops, re-flattening any operand that became a sum.
func foldSum(ops []Expr) Expr {
	result := ops[0]
	for _, op := range ops[1:] {
		result = MakeSum(result, op)
	}
	return result
}

// foldProduct rebuilds a product from ops, re-flattening nested products.
func foldProduct(ops []Expr) Expr {
	result := ops[0]
	for _, op := range ops[1:] {
		result = MakeProduct(result, op)
	}
	return result
}

func operandsJSON(ops []Expr) []map[string]interface{} {
	out := make([]map[string]interface{}, len(ops))
	for i, op := range ops {
		out[i] = op.toJSON()
	}
	return out
}

// ============================================================
// Public API
// ============================================================

// String returns the canonical text of e.
func String(e Expr) string { return e.String() }

// LaTeX returns e rendered as LaTeX.
func LaTeX(e Expr) string { return e.LaTeX() }

// Differentiate returns the unsimplified derivative of e with respect to v.
func Differentiate(e Expr, v *Var) Expr { return e.Diff(v) }

// Simplify substitutes env into e and folds numeric groups.
func Simplify(e Expr, env Env) Expr { return e.Simplify(env) }

// Equal reports whether a and b are structurally equal.
func Equal(a, b Expr) bool { return a.Equal(b) }

// IsNumeric reports whether e is a literal.
func IsNumeric(e Expr) bool { return e.isNumeric() }

// PrettyPrint returns e indented on its own line.
func PrettyPrint(e Expr) string { return "  " + e.String() + "\n" }

// MustParse is Parse for inputs known to be valid. It panics otherwise.
func MustParse(input string) Expr {
	e, err := Parse(input)
	if err != nil {
		panic("expressivo: " + err.Error())
	}
	return e
}

// FreeSymbols returns the names of the variables appearing in e.
func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Var:
		out[v.name] = struct{}{}
	case *Sum:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Product:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	}
}
