package dialect

import (
	"testing"

	"github.com/sqlrel/sqlrel/sql"
	"github.com/sqlrel/sqlrel/sql/expression"
	"github.com/sqlrel/sqlrel/sql/plan"
	"github.com/stretchr/testify/require"
)

// emptyScope is a Scope with no aliases and no enclosing statement.
type emptyScope struct{}

func (emptyScope) Alias(sql.Node) string { return "" }
func (emptyScope) NeedAliases(sql.Node) bool { return false }
func (emptyScope) IsExtracted(sql.Node) bool { return false }
func (emptyScope) CompiledText(sql.Node) (string, error) { return "", nil }
func (emptyScope) IsForeign(sql.Node) bool { return false }

func TestQuoteIdentifier(t *testing.T) {
	require := require.New(t)
	d := Default()

	require.Equal("foo", d.QuoteIdentifier("foo"))
	require.Equal("_foo2", d.QuoteIdentifier("_foo2"))
	require.Equal(`"select"`, d.QuoteIdentifier("select"))
	require.Equal(`"two words"`, d.QuoteIdentifier("two words"))
	require.Equal(`"1starts_with_digit"`, d.QuoteIdentifier("1starts_with_digit"))
	require.Equal(`"has""quote"`, d.QuoteIdentifier(`has"quote`))
}

func TestQuoteIdentifierMySQL(t *testing.T) {
	require := require.New(t)
	d := MySQL()

	require.Equal("foo", d.QuoteIdentifier("foo"))
	require.Equal("`order`", d.QuoteIdentifier("order"))
	require.Equal("`two words`", d.QuoteIdentifier("two words"))
}

func TestJoinNames(t *testing.T) {
	require := require.New(t)

	name, ok := Default().JoinName(sql.LeftSemiJoin)
	require.True(ok)
	require.Equal("LEFT SEMI JOIN", name)

	_, ok = MySQL().JoinName(sql.FullOuterJoin)
	require.False(ok)

	require.True(Default().SupportsNonEquijoin())
	require.False(Impala().SupportsNonEquijoin())
}

func TestTranslateLiterals(t *testing.T) {
	require := require.New(t)
	d := Default()

	cases := []struct {
		value    interface{}
		expected string
	}{
		{int64(42), "42"},
		{7, "7"},
		{"foo", "'foo'"},
		{"it's", "'it''s'"},
		{true, "TRUE"},
		{false, "FALSE"},
		{nil, "NULL"},
		{1.5, "1.5"},
		{float64(2), "2.0"},
		{1e-13, "1e-13"},
	}

	for _, tt := range cases {
		text, err := d.Translate(expression.NewLiteral(tt.value), emptyScope{}, false, false)
		require.NoError(err)
		require.Equal(tt.expected, text)
	}
}

func TestTranslateOperators(t *testing.T) {
	require := require.New(t)
	d := Default()
	table := plan.NewPhysicalTable("t", []string{"a", "b"})
	a := expression.NewTableColumn(table, "a")
	b := expression.NewTableColumn(table, "b")

	text, err := d.Translate(expression.NewEquals(a, expression.NewLiteral(1)), emptyScope{}, false, false)
	require.NoError(err)
	require.Equal("a = 1", text)

	text, err = d.Translate(
		expression.NewAnd(
			expression.NewGreaterThan(a, expression.NewLiteral(1)),
			expression.NewLessThan(b, expression.NewLiteral(10)),
		),
		emptyScope{}, false, false,
	)
	require.NoError(err)
	require.Equal("(a > 1) AND (b < 10)", text)

	text, err = d.Translate(
		expression.NewNot(expression.NewEquals(a, b)),
		emptyScope{}, false, false,
	)
	require.NoError(err)
	require.Equal("NOT (a = b)", text)

	text, err = d.Translate(
		expression.NewValueOp("add", a, expression.NewValueOp("multiply", b, expression.NewLiteral(2))),
		emptyScope{}, false, false,
	)
	require.NoError(err)
	require.Equal("a + (b * 2)", text)

	text, err = d.Translate(expression.NewValueOp("floor", a), emptyScope{}, false, false)
	require.NoError(err)
	require.Equal("floor(a)", text)
}

func TestTranslateReductions(t *testing.T) {
	require := require.New(t)
	d := Default()
	table := plan.NewPhysicalTable("t", []string{"a"})
	a := expression.NewTableColumn(table, "a")

	text, err := d.Translate(expression.NewCount(table), emptyScope{}, false, false)
	require.NoError(err)
	require.Equal("count(*)", text)

	text, err = d.Translate(expression.NewMean(a), emptyScope{}, false, false)
	require.NoError(err)
	require.Equal("avg(a)", text)

	text, err = d.Translate(
		expression.NewCount(expression.NewDistinctColumn(a)), emptyScope{}, false, false)
	require.NoError(err)
	require.Equal("count(DISTINCT a)", text)

	named, err := d.Translate(
		expression.NewSum(a).WithName("total"), emptyScope{}, true, false)
	require.NoError(err)
	require.Equal(`sum(a) AS "total"`, named)
}

func TestTranslateNamedColumn(t *testing.T) {
	require := require.New(t)
	d := Default()
	table := plan.NewPhysicalTable("t", []string{"a"})
	a := expression.NewTableColumn(table, "a")

	// A column whose name matches its source needs no AS clause.
	text, err := d.Translate(a, emptyScope{}, true, false)
	require.NoError(err)
	require.Equal("a", text)

	text, err = d.Translate(a.WithName("b"), emptyScope{}, true, false)
	require.NoError(err)
	require.Equal(`a AS "b"`, text)
}

func TestTranslateWindowOp(t *testing.T) {
	require := require.New(t)
	d := Default()
	table := plan.NewPhysicalTable("t", []string{"g", "x"})
	g := expression.NewTableColumn(table, "g")
	x := expression.NewTableColumn(table, "x")

	text, err := d.Translate(
		expression.NewWindowOp(table, []sql.ValueNode{g}, expression.NewSum(x)),
		emptyScope{}, false, false,
	)
	require.NoError(err)
	require.Equal("sum(x) OVER (PARTITION BY g)", text)
}

func TestTranslateScalarParameter(t *testing.T) {
	require := require.New(t)

	text, err := Default().Translate(
		expression.NewScalarParameter("cutoff"), emptyScope{}, false, false)
	require.NoError(err)
	require.Equal(":cutoff", text)
}

func TestTranslateUnsupported(t *testing.T) {
	require := require.New(t)
	table := plan.NewPhysicalTable("t", []string{"a"})
	a := expression.NewTableColumn(table, "a")

	// A raw histogram has no SQL rendering; the builder rewrites it first.
	_, err := Default().Translate(expression.NewHistogram(a, 5), emptyScope{}, false, false)
	require.Error(err)
	require.True(sql.ErrTranslation.Is(err))
}
