package compiler

import (
	"strings"
	"testing"

	"github.com/sqlrel/sqlrel/sql"
	"github.com/sqlrel/sqlrel/sql/dialect"
	"github.com/sqlrel/sqlrel/sql/expression"
	"github.com/sqlrel/sqlrel/sql/plan"
	"github.com/stretchr/testify/require"
)

func testTable(name string, cols ...string) *plan.PhysicalTable {
	return plan.NewPhysicalTable(name, cols)
}

func col(t sql.TableNode, name string) *expression.TableColumn {
	return expression.NewTableColumn(t, name)
}

func mustCompile(t *testing.T, n sql.Node) string {
	t.Helper()
	text, err := ToSQL(n, dialect.Default())
	require.NoError(t, err)
	return text
}

func TestCompileSimpleSelection(t *testing.T) {
	table := testTable("t", "a", "b", "c")
	sel := plan.NewSelection(
		table,
		[]sql.ValueNode{col(table, "a"), col(table, "b")},
		[]sql.ValueNode{expression.NewEquals(col(table, "a"), expression.NewLiteral(1))},
		nil,
	)

	require.Equal(t, strings.Join([]string{
		"SELECT a, b",
		"FROM t",
		"WHERE a = 1",
	}, "\n"), mustCompile(t, sel))
}

func TestCompileBareTable(t *testing.T) {
	table := testTable("t", "a")
	require.Equal(t, "SELECT *\nFROM t", mustCompile(t, table))
}

func TestCompileWildcardSelection(t *testing.T) {
	table := testTable("t", "v")
	sel := plan.NewSelection(
		table, nil,
		[]sql.ValueNode{expression.NewGreaterThan(col(table, "v"), expression.NewLiteral(4))},
		nil,
	)

	require.Equal(t, strings.Join([]string{
		"SELECT *",
		"FROM t",
		"WHERE v > 4",
	}, "\n"), mustCompile(t, sel))
}

func TestCompileMultipleFilters(t *testing.T) {
	table := testTable("t", "v", "w")
	sel := plan.NewSelection(
		table,
		[]sql.ValueNode{col(table, "v")},
		[]sql.ValueNode{
			expression.NewGreaterThan(col(table, "v"), expression.NewLiteral(1)),
			expression.NewLessThan(col(table, "w"), expression.NewLiteral(2)),
		},
		nil,
	)

	require.Equal(t, strings.Join([]string{
		"SELECT v",
		"FROM t",
		"WHERE (v > 1) AND",
		"      (w < 2)",
	}, "\n"), mustCompile(t, sel))
}

func TestCompileOrderBy(t *testing.T) {
	table := testTable("t", "v", "w")
	sel := plan.NewSelection(
		table,
		[]sql.ValueNode{col(table, "v"), col(table, "w")},
		nil,
		[]sql.ValueNode{
			expression.NewSortKey(col(table, "v"), true),
			expression.NewSortKey(col(table, "w"), false),
		},
	)

	require.Equal(t, strings.Join([]string{
		"SELECT v, w",
		"FROM t",
		"ORDER BY v, w DESC",
	}, "\n"), mustCompile(t, sel))
}

func TestCompileAggregation(t *testing.T) {
	table := testTable("sales", "region", "kind", "amount")
	agg := plan.NewAggregation(
		table,
		[]sql.ValueNode{col(table, "region"), col(table, "kind")},
		[]sql.ValueNode{expression.NewSum(col(table, "amount")).WithName("total")},
	)
	agg.Having = []sql.ValueNode{
		expression.NewGreaterThan(expression.NewCount(table), expression.NewLiteral(10)),
	}
	agg.SortKeys = []sql.ValueNode{expression.NewSortKey(col(table, "region"), false)}

	require.Equal(t, strings.Join([]string{
		`SELECT region, kind, sum(amount) AS "total"`,
		"FROM sales",
		"GROUP BY 1, 2",
		"HAVING count(*) > 10",
		"ORDER BY region DESC",
	}, "\n"), mustCompile(t, agg))
}

func TestCompileLimit(t *testing.T) {
	table := testTable("t", "v")
	require.Equal(t, strings.Join([]string{
		"SELECT *",
		"FROM t",
		"LIMIT 10",
	}, "\n"), mustCompile(t, plan.NewLimit(10, 0, table)))

	require.Equal(t, strings.Join([]string{
		"SELECT *",
		"FROM t",
		"LIMIT 10 OFFSET 5",
	}, "\n"), mustCompile(t, plan.NewLimit(10, 5, table)))
}

func TestCompileDistinct(t *testing.T) {
	table := testTable("t", "v", "w")
	sel := plan.NewSelection(table, []sql.ValueNode{col(table, "v")}, nil, nil)

	require.Equal(t, strings.Join([]string{
		"SELECT DISTINCT v",
		"FROM t",
	}, "\n"), mustCompile(t, plan.NewDistinct(sel)))
}

func TestCompileSelectListWrap(t *testing.T) {
	cols := []string{
		"metric_column_one_aa",
		"metric_column_two_aa",
		"metric_column_thr_aa",
		"metric_column_fou_aa",
		"metric_column_fiv_aa",
	}
	table := testTable("wide", cols...)
	projections := make([]sql.ValueNode, len(cols))
	for i, c := range cols {
		projections[i] = col(table, c)
	}
	sel := plan.NewSelection(table, projections, nil, nil)

	require.Equal(t, strings.Join([]string{
		"SELECT metric_column_one_aa, metric_column_two_aa, metric_column_thr_aa,",
		"       metric_column_fou_aa, metric_column_fiv_aa",
		"FROM wide",
	}, "\n"), mustCompile(t, sel))
}

func TestCompileJoin(t *testing.T) {
	left := testTable("foo", "key", "v1")
	right := testTable("bar", "key", "v2")
	join := plan.NewJoin(sql.InnerJoin, left, right,
		[]sql.ValueNode{expression.NewEquals(col(left, "key"), col(right, "key"))})
	sel := plan.NewSelection(join, nil, nil, nil)

	require.Equal(t, strings.Join([]string{
		"SELECT *",
		"FROM foo t0",
		"  INNER JOIN bar t1",
		"    ON t0.key = t1.key",
	}, "\n"), mustCompile(t, sel))
}

func TestCompileJoinMultiplePredicates(t *testing.T) {
	left := testTable("foo", "k1", "k2")
	right := testTable("bar", "k1", "k2")
	join := plan.NewJoin(sql.LeftJoin, left, right, []sql.ValueNode{
		expression.NewEquals(col(left, "k1"), col(right, "k1")),
		expression.NewEquals(col(left, "k2"), col(right, "k2")),
	})
	sel := plan.NewSelection(join, nil, nil, nil)

	require.Equal(t, strings.Join([]string{
		"SELECT *",
		"FROM foo t0",
		"  LEFT OUTER JOIN bar t1",
		"    ON (t0.k1 = t1.k1) AND",
		"       (t0.k2 = t1.k2)",
	}, "\n"), mustCompile(t, sel))
}

func TestCompileJoinOfJoins(t *testing.T) {
	a, b := testTable("a", "k"), testTable("b", "k")
	c, d := testTable("c", "k"), testTable("d", "k")
	left := plan.NewJoin(sql.InnerJoin, a, b,
		[]sql.ValueNode{expression.NewEquals(col(a, "k"), col(b, "k"))})
	right := plan.NewJoin(sql.InnerJoin, c, d,
		[]sql.ValueNode{expression.NewEquals(col(c, "k"), col(d, "k"))})
	join := plan.NewJoin(sql.InnerJoin, left, right,
		[]sql.ValueNode{expression.NewEquals(col(a, "k"), col(c, "k"))})

	_, err := ToSQL(plan.NewSelection(join, nil, nil, nil), dialect.Default())
	require.Error(t, err)
	require.True(t, sql.ErrUnsupportedShape.Is(err))
}

func TestCompileRightNestedJoin(t *testing.T) {
	a, b, c := testTable("a", "k"), testTable("b", "k"), testTable("c", "k")
	inner := plan.NewJoin(sql.InnerJoin, b, c,
		[]sql.ValueNode{expression.NewEquals(col(b, "k"), col(c, "k"))})
	join := plan.NewJoin(sql.InnerJoin, a, inner,
		[]sql.ValueNode{expression.NewEquals(col(a, "k"), col(b, "k"))})

	_, err := ToSQL(plan.NewSelection(join, nil, nil, nil), dialect.Default())
	require.Error(t, err)
	require.True(t, sql.ErrUnsupportedShape.Is(err))
}

func TestCompileNonEquijoin(t *testing.T) {
	require := require.New(t)
	left := testTable("foo", "v")
	right := testTable("bar", "v")
	join := plan.NewJoin(sql.InnerJoin, left, right,
		[]sql.ValueNode{expression.NewLessThan(col(left, "v"), col(right, "v"))})
	sel := plan.NewSelection(join, nil, nil, nil)

	_, err := ToSQL(sel, dialect.Impala())
	require.Error(err)
	require.True(sql.ErrNonEquijoin.Is(err))

	// The generic dialect renders it without complaint.
	text, err := ToSQL(plan.NewSelection(plan.NewJoin(sql.InnerJoin, left, right,
		[]sql.ValueNode{expression.NewLessThan(col(left, "v"), col(right, "v"))}),
		nil, nil, nil), dialect.Default())
	require.NoError(err)
	require.Contains(text, "ON t0.v < t1.v")
}

func TestCompileMissingTableName(t *testing.T) {
	table := testTable("", "v")
	_, err := ToSQL(plan.NewSelection(table, nil, nil, nil), dialect.Default())
	require.Error(t, err)
	require.True(t, sql.ErrMissingTableName.Is(err))
}

func TestCompileExists(t *testing.T) {
	foo := testTable("foo", "key1", "value1")
	bar := testTable("bar", "key1", "value2")
	pred := expression.NewEquals(col(foo, "key1"), col(bar, "key1"))
	sel := plan.NewSelection(foo, nil,
		[]sql.ValueNode{expression.NewAny(pred)}, nil)

	require.Equal(t, strings.Join([]string{
		"SELECT t0.*",
		"FROM foo t0",
		"WHERE EXISTS (",
		"  SELECT 1",
		"  FROM bar t1",
		"  WHERE t0.key1 = t1.key1",
		")",
	}, "\n"), mustCompile(t, sel))
}

func TestCompileNotExists(t *testing.T) {
	foo := testTable("foo", "key1")
	bar := testTable("bar", "key1")
	pred := expression.NewEquals(col(foo, "key1"), col(bar, "key1"))
	sel := plan.NewSelection(foo, nil,
		[]sql.ValueNode{expression.NewNotAny(pred)}, nil)

	text := mustCompile(t, sel)
	require.Contains(t, text, "WHERE NOT EXISTS (")
	require.Contains(t, text, "  WHERE t0.key1 = t1.key1")
}

func TestCompileUnion(t *testing.T) {
	a, b, c := testTable("a", "v"), testTable("b", "v"), testTable("c", "v")
	union := plan.NewUnion(plan.NewUnion(a, b, true), c, false)

	require.Equal(t, strings.Join([]string{
		"SELECT *",
		"FROM a",
		"UNION",
		"SELECT *",
		"FROM b",
		"UNION ALL",
		"SELECT *",
		"FROM c",
	}, "\n"), mustCompile(t, union))
}

func TestCompileIntersectionAndDifference(t *testing.T) {
	require := require.New(t)
	a, b := testTable("a", "v"), testTable("b", "v")

	text, err := ToSQL(plan.NewIntersection(a, b), dialect.Default())
	require.NoError(err)
	require.Equal(strings.Join([]string{
		"SELECT *",
		"FROM a",
		"INTERSECT",
		"SELECT *",
		"FROM b",
	}, "\n"), text)

	text, err = ToSQL(plan.NewDifference(a, b), dialect.Default())
	require.NoError(err)
	require.Equal(strings.Join([]string{
		"SELECT *",
		"FROM a",
		"EXCEPT",
		"SELECT *",
		"FROM b",
	}, "\n"), text)
}

func TestCompileSetOpExtraction(t *testing.T) {
	table := testTable("alltypes", "g", "f")
	makeAgg := func() *plan.Aggregation {
		return plan.NewAggregation(
			table,
			[]sql.ValueNode{col(table, "g")},
			[]sql.ValueNode{expression.NewSum(col(table, "f")).WithName("total")},
		)
	}
	union := plan.NewUnion(makeAgg(), makeAgg(), true)

	// Both arms are the same derived table, so it compiles once as a WITH
	// entry and each arm selects from the alias.
	require.Equal(t, strings.Join([]string{
		"WITH t0 AS (",
		`  SELECT g, sum(f) AS "total"`,
		"  FROM alltypes",
		"  GROUP BY 1",
		")",
		"SELECT *",
		"FROM t0",
		"UNION",
		"SELECT *",
		"FROM t0",
	}, "\n"), mustCompile(t, union))
}

func TestCompileSelfJoin(t *testing.T) {
	table := testTable("purchases", "region", "amount")
	agg := plan.NewAggregation(
		table,
		[]sql.ValueNode{col(table, "region")},
		[]sql.ValueNode{expression.NewSum(col(table, "amount")).WithName("total")},
	)
	ref := plan.NewSelfReference(agg)
	join := plan.NewJoin(sql.InnerJoin, agg, ref,
		[]sql.ValueNode{expression.NewLessThan(col(agg, "total"), col(ref, "total"))})
	sel := plan.NewSelection(join, nil, nil, nil)

	require.Equal(t, strings.Join([]string{
		"WITH t0 AS (",
		`  SELECT region, sum(amount) AS "total"`,
		"  FROM purchases",
		"  GROUP BY 1",
		")",
		"SELECT *",
		"FROM t0",
		"  INNER JOIN t0 t1",
		"    ON t0.total < t1.total",
	}, "\n"), mustCompile(t, sel))
}

func TestCompileNestedExtraction(t *testing.T) {
	table := testTable("purchases", "region", "amount")
	daily := plan.NewAggregation(
		table,
		[]sql.ValueNode{col(table, "region")},
		[]sql.ValueNode{expression.NewSum(col(table, "amount")).WithName("total")},
	)
	rollup := plan.NewAggregation(
		daily,
		[]sql.ValueNode{col(daily, "region")},
		[]sql.ValueNode{expression.NewSum(col(daily, "total")).WithName("grand")},
	)
	ref := plan.NewSelfReference(rollup)
	join := plan.NewJoin(sql.InnerJoin, rollup, ref,
		[]sql.ValueNode{expression.NewLessThan(col(rollup, "grand"), col(ref, "grand"))})
	sel := plan.NewSelection(join, nil, nil, nil)

	// Each WITH entry may only reference entries defined before it.
	require.Equal(t, strings.Join([]string{
		"WITH t0 AS (",
		`  SELECT region, sum(amount) AS "total"`,
		"  FROM purchases",
		"  GROUP BY 1",
		"),",
		"t1 AS (",
		`  SELECT region, sum(total) AS "grand"`,
		"  FROM t0",
		"  GROUP BY 1",
		")",
		"SELECT *",
		"FROM t1",
		"  INNER JOIN t1 t2",
		"    ON t1.grand < t2.grand",
	}, "\n"), mustCompile(t, sel))
}

func TestCompileTopKFilter(t *testing.T) {
	table := testTable("events", "cust", "amount")
	topk := expression.NewTopK(col(table, "cust"), 5,
		expression.NewSum(col(table, "amount")))
	sel := plan.NewSelection(table, nil,
		[]sql.ValueNode{expression.NewSummaryFilter(topk)}, nil)

	require.Equal(t, strings.Join([]string{
		"SELECT t0.*",
		"FROM events t0",
		"  LEFT SEMI JOIN (",
		`    SELECT cust, sum(amount) AS "__tmp__"`,
		"    FROM events",
		"    GROUP BY 1",
		"    ORDER BY sum(amount) DESC",
		"    LIMIT 5",
		"  ) t1",
		"    ON t0.cust = t1.cust",
	}, "\n"), mustCompile(t, sel))
}

func TestCompileHistogram(t *testing.T) {
	table := testTable("m", "v")
	h := expression.NewHistogram(col(table, "v"), 10)
	h.AuxHash = "abc123"
	sel := plan.NewSelection(table, []sql.ValueNode{h}, nil, nil)

	require.Equal(t, strings.Join([]string{
		"SELECT floor((t0.v - (t1.min_abc123 - 1e-13)) / ((t1.max_abc123 - (t1.min_abc123 - 1e-13)) / 9))",
		"FROM m t0",
		"  CROSS JOIN (",
		`    SELECT min(v) AS "min_abc123", max(v) AS "max_abc123"`,
		"    FROM m",
		"  ) t1",
	}, "\n"), mustCompile(t, sel))
}

func TestCompileHistogramGeneratedBounds(t *testing.T) {
	table := testTable("m", "v")
	h := expression.NewHistogram(col(table, "v"), 10)
	sel := plan.NewSelection(table, []sql.ValueNode{h}, nil, nil)

	// Without a fixed aux hash the bound names carry a generated suffix.
	text := mustCompile(t, sel)
	require.Contains(t, text, `AS "min_`)
	require.Contains(t, text, `AS "max_`)
	require.Contains(t, text, "CROSS JOIN (")
}

func TestCompileReductionFilter(t *testing.T) {
	table := testTable("m", "v")
	sel := plan.NewSelection(
		table,
		[]sql.ValueNode{col(table, "v")},
		[]sql.ValueNode{expression.NewGreaterThan(
			col(table, "v"), expression.NewMean(col(table, "v")))},
		nil,
	)

	require.Equal(t, strings.Join([]string{
		"SELECT v",
		"FROM m",
		"WHERE v > (",
		`  SELECT avg(v) AS "tmp"`,
		"  FROM m",
		")",
	}, "\n"), mustCompile(t, sel))
}

func TestCompileScalarReduction(t *testing.T) {
	require := require.New(t)
	table := testTable("events", "cust", "amount")

	ast, err := BuildAST(expression.NewCount(table), NewContext(dialect.Default()))
	require.NoError(err)
	sel := ast.Queries[0].(*Select)

	text, err := sel.Compile()
	require.NoError(err)
	require.Equal(strings.Join([]string{
		`SELECT count(*) AS "tmp"`,
		"FROM events",
	}, "\n"), text)

	// The scalar handler unwraps the single cell of the result.
	out, err := sel.ResultHandler(sql.Result{
		Columns: []string{"tmp"},
		Rows:    [][]interface{}{{int64(42)}},
	})
	require.NoError(err)
	require.Equal(int64(42), out)
}

func TestCompileWindowOp(t *testing.T) {
	table := testTable("trades", "sym", "qty")
	w := expression.NewWindowOp(table,
		[]sql.ValueNode{col(table, "sym")},
		expression.NewSum(col(table, "qty")).WithName("total"))

	// A standalone analytic compiles as its aggregation form.
	require.Equal(t, strings.Join([]string{
		`SELECT sym, sum(qty) AS "total"`,
		"FROM trades",
		"GROUP BY 1",
	}, "\n"), mustCompile(t, w))
}

func TestCompileStandaloneTopK(t *testing.T) {
	table := testTable("events", "cust", "amount")
	topk := expression.NewTopK(col(table, "cust"), 5,
		expression.NewSum(col(table, "amount")))

	require.Equal(t, strings.Join([]string{
		"SELECT cust, sum(amount)",
		"FROM events",
		"GROUP BY 1",
		"ORDER BY sum(amount) DESC",
		"LIMIT 5",
	}, "\n"), mustCompile(t, topk))
}

func TestCompileColumn(t *testing.T) {
	require := require.New(t)
	table := testTable("t", "v")

	ast, err := BuildAST(col(table, "v"), NewContext(dialect.Default()))
	require.NoError(err)
	sel := ast.Queries[0].(*Select)

	text, err := sel.Compile()
	require.NoError(err)
	require.Equal("SELECT v\nFROM t", text)

	out, err := sel.ResultHandler(sql.Result{
		Columns: []string{"v"},
		Rows:    [][]interface{}{{1}, {2}},
	})
	require.NoError(err)
	require.Equal([]interface{}{1, 2}, out)
}

func TestCompileConstant(t *testing.T) {
	require := require.New(t)

	text, err := ToSQL(expression.NewLiteral(5), dialect.Default())
	require.NoError(err)
	require.Equal(`SELECT 5 AS "tmp"`, text)

	text, err = ToSQL(expression.NewScalarParameter("cutoff"), dialect.Default())
	require.NoError(err)
	require.Equal(`SELECT :cutoff AS "cutoff"`, text)
}

func TestCompileFilterOverUnion(t *testing.T) {
	a, b := testTable("a", "g"), testTable("b", "g")
	union := plan.NewUnion(a, b, true)
	sel := plan.NewSelection(union, nil,
		[]sql.ValueNode{expression.NewEquals(col(union, "g"), expression.NewLiteral(1))},
		nil)

	require.Equal(t, strings.Join([]string{
		"SELECT *",
		"FROM (",
		"  SELECT *",
		"  FROM a",
		"  UNION",
		"  SELECT *",
		"  FROM b",
		") t0",
		"WHERE g = 1",
	}, "\n"), mustCompile(t, sel))
}

func TestCompileLimitOverSetOp(t *testing.T) {
	a, b := testTable("a", "v"), testTable("b", "v")
	_, err := ToSQL(plan.NewLimit(10, 0, plan.NewUnion(a, b, true)), dialect.Default())
	require.Error(t, err)
	require.True(t, sql.ErrUnsupportedShape.Is(err))
}

func TestCompileDeterminism(t *testing.T) {
	require := require.New(t)
	foo := testTable("foo", "key1")
	bar := testTable("bar", "key1")
	sel := plan.NewSelection(foo, nil, []sql.ValueNode{
		expression.NewAny(expression.NewEquals(col(foo, "key1"), col(bar, "key1"))),
	}, nil)

	first, err := ToSQL(sel, dialect.Default())
	require.NoError(err)
	second, err := ToSQL(sel, dialect.Default())
	require.NoError(err)
	require.Equal(first, second)
}

func TestSelectEqual(t *testing.T) {
	require := require.New(t)
	table := testTable("t", "a", "b")
	build := func(limit int64) *Select {
		var n sql.TableNode = plan.NewSelection(
			table,
			[]sql.ValueNode{col(table, "a")},
			[]sql.ValueNode{expression.NewEquals(col(table, "b"), expression.NewLiteral(1))},
			nil,
		)
		if limit > 0 {
			n = plan.NewLimit(limit, 0, n)
		}
		ast, err := BuildAST(n, NewContext(dialect.Default()))
		require.NoError(err)
		return ast.Queries[0].(*Select)
	}

	s1, s2 := build(0), build(0)
	require.True(s1.Equal(s1))
	require.True(s1.Equal(s2))
	require.False(s1.Equal(nil))
	require.False(s1.Equal(build(10)))
}
