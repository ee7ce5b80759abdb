package table

// Row holds one record's cells in column order. A nil cell is a missing value.
type Row []*string

// Table is an in-memory row table. All rows have len(Columns) cells.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// New returns an empty table with the given columns.
func New(name string, columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols}
}

// Str returns a pointer to s, for building cells.
func Str(s string) *string {
	return &s
}

// Deref returns the cell value, or "" when missing.
func Deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of col, or -1.
func (t *Table) Index(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Has reports whether the table has a column named col.
func (t *Table) Has(col string) bool {
	return t.Index(col) >= 0
}

// Append adds a row. Short rows are padded with missing cells.
func (t *Table) Append(cells ...*string) {
	row := make(Row, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Get returns the cell at row i in column col (nil when missing or no such column).
func (t *Table) Get(i int, col string) *string {
	idx := t.Index(col)
	if idx < 0 {
		return nil
	}
	return t.Rows[i][idx]
}

// Column returns the cells of col in row order, or nil if the column does not exist.
func (t *Table) Column(col string) []*string {
	idx := t.Index(col)
	if idx < 0 {
		return nil
	}
	out := make([]*string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}

// Clone copies the table. Cells are shared since strings are immutable;
// replacing a cell in the clone does not affect the original.
func (t *Table) Clone() *Table {
	c := New(t.Name, t.Columns)
	c.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		r := make(Row, len(row))
		copy(r, row)
		c.Rows[i] = r
	}
	return c
}

// Empty returns a table with the same name and columns and no rows.
func (t *Table) Empty() *Table {
	return New(t.Name, t.Columns)
}

// Select projects rows onto the named columns, in the given order.
// Unknown columns yield missing cells.
func (t *Table) Select(rows []int, columns []string) *Table {
	out := New(t.Name, columns)
	idx := make([]int, len(columns))
	for j, col := range columns {
		idx[j] = t.Index(col)
	}
	for _, i := range rows {
		r := make(Row, len(columns))
		for j, k := range idx {
			if k >= 0 {
				r[j] = t.Rows[i][k]
			}
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// HasMissing reports whether any cell in the row is missing.
func (r Row) HasMissing() bool {
	for _, v := range r {
		if v == nil {
			return true
		}
	}
	return false
}
