// Package dialect provides the SQL dialects understood by the compiler.
// Each dialect bundles identifier quoting rules, join keyword support and
// the expression translator.
package dialect

import (
	"regexp"
	"strings"

	"github.com/sqlrel/sqlrel/sql"
)

var unquotedIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z_0-9]*$`)

// Reserved words that must be quoted even though they are lexically plain
// identifiers.
var reservedWords = map[string]struct{}{
	"select": {}, "from": {}, "where": {}, "group": {}, "order": {},
	"by": {}, "having": {}, "limit": {}, "offset": {}, "join": {},
	"union": {}, "intersect": {}, "except": {}, "distinct": {},
	"table": {}, "as": {}, "on": {}, "and": {}, "or": {}, "not": {},
	"exists": {}, "case": {}, "when": {}, "then": {}, "else": {},
	"end": {}, "null": {}, "true": {}, "false": {}, "with": {},
	"left": {}, "right": {}, "inner": {}, "outer": {}, "full": {},
	"cross": {}, "desc": {}, "asc": {}, "between": {}, "like": {},
	"in": {}, "is": {}, "user": {}, "default": {},
}

var joinKeywords = map[sql.JoinType]string{
	sql.InnerJoin:     "INNER JOIN",
	sql.LeftJoin:      "LEFT OUTER JOIN",
	sql.RightJoin:     "RIGHT OUTER JOIN",
	sql.FullOuterJoin: "FULL OUTER JOIN",
	sql.LeftAntiJoin:  "LEFT ANTI JOIN",
	sql.LeftSemiJoin:  "LEFT SEMI JOIN",
	sql.CrossJoin:     "CROSS JOIN",
}

// Dialect implements sql.Dialect for a family of SQL engines that share
// the generated grammar and differ in quoting and join support.
type Dialect struct {
	name        string
	quote       string
	nonEquijoin bool
	joins       map[sql.JoinType]string
}

var _ sql.Dialect = (*Dialect)(nil)

// Default returns the generic dialect: double-quote identifier quoting,
// the full join keyword table and non-equijoin support.
func Default() *Dialect {
	return &Dialect{
		name:        "default",
		quote:       `"`,
		nonEquijoin: true,
		joins:       joinKeywords,
	}
}

// MySQL returns a dialect using backtick quoting. MySQL has no FULL OUTER
// JOIN and no semi or anti join keywords.
func MySQL() *Dialect {
	joins := map[sql.JoinType]string{
		sql.InnerJoin: "INNER JOIN",
		sql.LeftJoin:  "LEFT OUTER JOIN",
		sql.RightJoin: "RIGHT OUTER JOIN",
		sql.CrossJoin: "CROSS JOIN",
	}
	return &Dialect{
		name:        "mysql",
		quote:       "`",
		nonEquijoin: true,
		joins:       joins,
	}
}

// Impala returns a dialect using backtick quoting that rejects
// non-equality join predicates.
func Impala() *Dialect {
	return &Dialect{
		name:        "impala",
		quote:       "`",
		nonEquijoin: false,
		joins:       joinKeywords,
	}
}

// Name implements the sql.Dialect interface.
func (d *Dialect) Name() string { return d.name }

// QuoteIdentifier implements the sql.Dialect interface. Plain identifiers
// pass through unchanged; anything else is wrapped in the dialect quote
// with embedded quotes doubled.
func (d *Dialect) QuoteIdentifier(name string) string {
	if _, reserved := reservedWords[strings.ToLower(name)]; !reserved &&
		unquotedIdentifier.MatchString(name) {
		return name
	}
	return d.forceQuote(name)
}

func (d *Dialect) forceQuote(name string) string {
	return d.quote + strings.Replace(name, d.quote, d.quote+d.quote, -1) + d.quote
}

// JoinName implements the sql.Dialect interface.
func (d *Dialect) JoinName(jt sql.JoinType) (string, bool) {
	kw, ok := d.joins[jt]
	return kw, ok
}

// SupportsNonEquijoin implements the sql.Dialect interface.
func (d *Dialect) SupportsNonEquijoin() bool { return d.nonEquijoin }
