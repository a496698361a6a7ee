package expressivo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/expressivo"
)

func TestParse_Primitives(t *testing.T) {
	e, err := expressivo.Parse("  abcd ")
	require.NoError(t, err)
	assert.True(t, e.Equal(expressivo.S("abcd")))

	e, err = expressivo.Parse("((( 111.0000 )))")
	require.NoError(t, err)
	assert.True(t, e.Equal(expressivo.N(111)))
}

func TestParse_Structures(t *testing.T) {
	abcd, abcde := expressivo.S("abcd"), expressivo.S("abcde")
	n := expressivo.N(123)
	sumVarNum := expressivo.MakeSum(abcde, n)
	sumVarNumRev := expressivo.MakeSum(n, abcde)
	productNumVar := expressivo.MakeProduct(abcd, n)
	productNumVarRev := expressivo.MakeProduct(n, abcd)
	sumOfProduct := expressivo.MakeSum(sumVarNum, productNumVar)

	tests := []struct {
		name  string
		input string
		want  expressivo.Expr
	}{
		{"sum of primitives", "(  (  ( abcde )  )   +  ((( 123.00000000000000000000)))   ) ", sumVarNum},
		{"sum of sum and primitive", "abcd + 123+abcde", expressivo.MakeSum(abcd, sumVarNumRev)},
		{"sum of sums", "123  + (( abcde +  abcde ) +123)", expressivo.MakeSum(sumVarNumRev, sumVarNum)},
		{"sum of sum and product", "abcde + 123 + abcd*123", sumOfProduct},
		{"product of primitives", "( ( 123)  * ((  abcd ))   )", productNumVarRev},
		{"product of primitive and product", "abcde * (  (( abcd ))  *  123 )", expressivo.MakeProduct(abcde, productNumVar)},
		{"product of sum and product", " ( abcde  + 123 + abcd * 123 ) *123*abcd", expressivo.MakeProduct(sumOfProduct, productNumVarRev)},
		{"left grouping", "(2 + 5) + 6 + 7", expressivo.MustParse("2 + 5 + (6 + 7)")},
		{"whitespace everywhere", " \t3+ a *\n b  ", expressivo.MakeSum(expressivo.N(3), expressivo.MakeProduct(expressivo.S("a"), expressivo.S("b")))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expressivo.Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParse_OrderMatters(t *testing.T) {
	assert.False(t, expressivo.MustParse("x+y").Equal(expressivo.MustParse("y+x")))
	assert.False(t, expressivo.MustParse("x*y").Equal(expressivo.MustParse("y*x")))
}

func TestParse_CaseSensitive(t *testing.T) {
	assert.False(t, expressivo.MustParse("abcd").Equal(expressivo.MustParse("AbCd")))
	assert.True(t, expressivo.MustParse("3434.23").Equal(expressivo.MustParse("3434.2300000")))
}

func TestParse_InvalidInput(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"a 9",
		"ab9",
		"(9*3",
		"9*3)",
		"a*b*-5",
		"3+",
		"*x",
		"()",
		"a+*b",
		"x/y",
		"x^2",
		"2.3.4",
		"a_b",
		"+",
		".",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := expressivo.Parse(input)
			assert.ErrorIs(t, err, expressivo.ErrInvalidInput)
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { expressivo.MustParse("(") })
}

func TestGrammar(t *testing.T) {
	assert.NotEmpty(t, expressivo.Grammar())
}
