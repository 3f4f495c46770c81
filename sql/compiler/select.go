package compiler

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/sqlrel/sqlrel/sql"
)

// LimitSpec is a resolved LIMIT clause.
type LimitSpec struct {
	Count  int64
	Offset int64
}

// Select is one SELECT statement, or one arm of a set operation, after all
// analysis has run: every field is already resolved and Compile is pure
// text assembly. Compiling registers the statement on its context; invoke
// it once per instance.
type Select struct {
	ctx *Context

	TableSet   sql.TableNode
	SelectSet  []sql.Node
	Subqueries []sql.TableNode
	Where      []sql.ValueNode
	GroupBy    []int
	Having     []sql.ValueNode
	OrderBy    []sql.ValueNode
	Limit      *LimitSpec
	Distinct   bool

	ResultHandler sql.ResultHandler

	indent int
}

var _ Statement = (*Select)(nil)

func (s *Select) translate(e sql.ValueNode, named, permitSubquery bool) (string, error) {
	return s.ctx.dialect.Translate(e, s.ctx, named, permitSubquery)
}

// Compile implements the Statement interface.
func (s *Select) Compile() (string, error) {
	s.ctx.setQuery(s)

	fragments := make([]string, 0, 7)
	for _, format := range []func() (string, error){
		s.formatSubqueries,
		s.formatSelectSet,
		s.formatTableSet,
		s.formatWhere,
		s.formatGroupBy,
		s.formatOrderBy,
		s.formatLimit,
	} {
		frag, err := format()
		if err != nil {
			return "", err
		}
		if frag != "" {
			fragments = append(fragments, frag)
		}
	}
	return strings.Join(fragments, "\n"), nil
}

func (s *Select) formatSubqueries() (string, error) {
	if len(s.Subqueries) == 0 {
		return "", nil
	}
	entries := make([]string, len(s.Subqueries))
	for i, sub := range s.Subqueries {
		compiled, err := s.ctx.CompiledText(sub)
		if err != nil {
			return "", err
		}
		entries[i] = s.ctx.Alias(sub) + " AS (\n" + sql.Indent(compiled, 2) + "\n)"
	}
	return "WITH " + strings.Join(entries, ",\n"), nil
}

func (s *Select) formatSelectSet() (string, error) {
	formatted := make([]string, len(s.SelectSet))
	for i, e := range s.SelectSet {
		switch e := e.(type) {
		case sql.ValueNode:
			text, err := s.translate(e, true, false)
			if err != nil {
				return "", err
			}
			formatted[i] = text
		case sql.TableNode:
			// A wildcard selection, prefixed when disambiguation is needed.
			// A materialized join has no alias of its own and stays bare.
			if s.ctx.NeedAliases(e) {
				if alias := s.ctx.Alias(e); alias != "" {
					formatted[i] = alias + ".*"
				} else {
					formatted[i] = "*"
				}
			} else {
				formatted[i] = "*"
			}
		default:
			return "", sql.ErrInternal.New("select item is neither value nor table")
		}
	}

	var buf bytes.Buffer
	lineLength := 0
	const maxLength = 70
	tokens := 0
	for i, val := range formatted {
		switch {
		case strings.Contains(val, "\n"):
			// Multi-line items always get their own lines.
			if i > 0 {
				buf.WriteString(",")
			}
			buf.WriteString("\n")
			indented := sql.Indent(val, s.indent)
			buf.WriteString(indented)
			lines := strings.Split(indented, "\n")
			lineLength = len(lines[len(lines)-1])
			tokens = 1
		case tokens > 0 && lineLength > 0 && len(val)+lineLength > maxLength:
			if i > 0 {
				buf.WriteString(",\n       ")
			} else {
				buf.WriteString("\n")
			}
			buf.WriteString(val)
			lineLength = len(val) + 7
			tokens = 1
		default:
			if i > 0 {
				buf.WriteString(",")
			}
			buf.WriteString(" ")
			buf.WriteString(val)
			tokens++
			lineLength += len(val) + 2
		}
	}

	if s.Distinct {
		return "SELECT DISTINCT" + buf.String(), nil
	}
	return "SELECT" + buf.String(), nil
}

func (s *Select) formatTableSet() (string, error) {
	if s.TableSet == nil {
		return "", nil
	}
	formatted, err := newTableSetFormatter(s).format(s.TableSet)
	if err != nil {
		return "", err
	}
	return "FROM " + formatted, nil
}

func (s *Select) formatWhere() (string, error) {
	if len(s.Where) == 0 {
		return "", nil
	}
	preds := make([]string, len(s.Where))
	for i, pred := range s.Where {
		text, err := s.translate(pred, false, true)
		if err != nil {
			return "", err
		}
		if len(s.Where) > 1 {
			text = "(" + text + ")"
		}
		preds[i] = text
	}
	return "WHERE " + strings.Join(preds, " AND\n"+strings.Repeat(" ", 6)), nil
}

func (s *Select) formatGroupBy() (string, error) {
	if len(s.GroupBy) == 0 {
		return "", nil
	}
	ordinals := make([]string, len(s.GroupBy))
	for i, pos := range s.GroupBy {
		ordinals[i] = strconv.Itoa(pos + 1)
	}
	lines := []string{"GROUP BY " + strings.Join(ordinals, ", ")}

	if len(s.Having) > 0 {
		preds := make([]string, len(s.Having))
		for i, pred := range s.Having {
			text, err := s.translate(pred, false, false)
			if err != nil {
				return "", err
			}
			preds[i] = text
		}
		lines = append(lines, "HAVING "+strings.Join(preds, " AND "))
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Select) formatOrderBy() (string, error) {
	if len(s.OrderBy) == 0 {
		return "", nil
	}
	keys := make([]string, len(s.OrderBy))
	for i, key := range s.OrderBy {
		text, err := s.translate(key, false, false)
		if err != nil {
			return "", err
		}
		keys[i] = text
	}
	return "ORDER BY " + strings.Join(keys, ", "), nil
}

func (s *Select) formatLimit() (string, error) {
	if s.Limit == nil {
		return "", nil
	}
	frag := "LIMIT " + strconv.FormatInt(s.Limit.Count, 10)
	if s.Limit.Offset != 0 {
		frag += " OFFSET " + strconv.FormatInt(s.Limit.Offset, 10)
	}
	return frag, nil
}

// Equal reports whether two statements would compile to the same query:
// same limit and pairwise structural equality of every resolved field.
func (s *Select) Equal(other *Select) bool {
	if s == other {
		return true
	}
	if other == nil {
		return false
	}
	if (s.Limit == nil) != (other.Limit == nil) {
		return false
	}
	if s.Limit != nil && *s.Limit != *other.Limit {
		return false
	}
	if s.Distinct != other.Distinct {
		return false
	}
	if len(s.GroupBy) != len(other.GroupBy) {
		return false
	}
	for i, g := range s.GroupBy {
		if other.GroupBy[i] != g {
			return false
		}
	}
	a, b := s.allNodes(), other.allNodes()
	if len(a) != len(b) {
		return false
	}
	// Structural keys are memoized per node, so shared substructure is
	// hashed once instead of re-walked per comparison.
	cache := map[sql.NodeID]uint64{}
	for i := range a {
		if !nodesEqualCached(a[i], b[i], cache) {
			return false
		}
	}
	return true
}

func (s *Select) allNodes() []sql.Node {
	var out []sql.Node
	out = append(out, s.SelectSet...)
	out = append(out, s.TableSet)
	for _, w := range s.Where {
		out = append(out, w)
	}
	for _, h := range s.Having {
		out = append(out, h)
	}
	for _, o := range s.OrderBy {
		out = append(out, o)
	}
	for _, q := range s.Subqueries {
		out = append(out, q)
	}
	return out
}

func nodesEqualCached(a, b sql.Node, cache map[sql.NodeID]uint64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.ID() == b.ID() {
		return true
	}
	ka, ok := cache[a.ID()]
	if !ok {
		ka = sql.KeyOf(a)
		cache[a.ID()] = ka
	}
	kb, ok := cache[b.ID()]
	if !ok {
		kb = sql.KeyOf(b)
		cache[b.ID()] = kb
	}
	return ka == kb
}
