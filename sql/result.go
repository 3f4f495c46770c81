package sql

// Result is a minimal in-memory result set, the shape a backend client hands
// back after executing a compiled statement.
type Result struct {
	Columns []string
	Rows    [][]interface{}
}

// Column returns the values of the named column across all rows.
func (r Result) Column(name string) ([]interface{}, error) {
	for i, c := range r.Columns {
		if c != name {
			continue
		}
		out := make([]interface{}, len(r.Rows))
		for j, row := range r.Rows {
			out[j] = row[i]
		}
		return out, nil
	}
	return nil, ErrColumnNotFound.New(name)
}

// ResultHandler maps a raw result set back to the shape the caller expects:
// a scalar, a column, or the table itself.
type ResultHandler func(Result) (interface{}, error)
