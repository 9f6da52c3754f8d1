package export

// Column describes one table column: the row key it pulls, the header
// label rendered for it, and a relative width weight used by the PDF
// renderer. A zero Weight counts as 1.
type Column struct {
	Key    string
	Label  string
	Weight float64
}

// Table is the renderer-independent export payload. Rows are keyed by
// Column.Key; missing keys render as empty cells.
type Table struct {
	Title   string
	Columns []Column
	Rows    []map[string]string
}

func (t Table) weightTotal() float64 {
	total := 0.0
	for _, col := range t.Columns {
		w := col.Weight
		if w <= 0 {
			w = 1
		}
		total += w
	}
	return total
}
