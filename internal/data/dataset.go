// Package data loads the per-state dataset the chart is drawn from.
package data

import (
	"github.com/statehealth/scatter/internal/column"
)

// Row is one state's record.
type Row struct {
	State        string
	Abbreviation string
	values       [column.Count]float64
}

// NewRow builds a row from values keyed by column.
func NewRow(state, abbreviation string, values map[column.Key]float64) Row {
	r := Row{State: state, Abbreviation: abbreviation}
	for k, v := range values {
		r.values[column.Lookup(k).Key] = v
	}
	return r
}

// Value returns the row's value for k.
func (r Row) Value(k column.Key) float64 {
	return r.values[column.Lookup(k).Key]
}

// Dataset is an ordered, read-only sequence of rows.
type Dataset struct {
	rows  []Row
	index map[string]int
}

// NewDataset wraps rows. The slice is copied.
func NewDataset(rows []Row) *Dataset {
	ds := &Dataset{
		rows:  make([]Row, len(rows)),
		index: make(map[string]int, len(rows)),
	}
	copy(ds.rows, rows)
	for i, r := range ds.rows {
		if _, dup := ds.index[r.Abbreviation]; !dup {
			ds.index[r.Abbreviation] = i
		}
	}
	return ds
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Row returns the i-th row.
func (d *Dataset) Row(i int) Row {
	return d.rows[i]
}

// Rows returns a copy of all rows.
func (d *Dataset) Rows() []Row {
	out := make([]Row, len(d.rows))
	copy(out, d.rows)
	return out
}

// Values returns the column k across all rows, in row order.
func (d *Dataset) Values(k column.Key) []float64 {
	out := make([]float64, len(d.rows))
	for i, r := range d.rows {
		out[i] = r.Value(k)
	}
	return out
}

// Index returns the position of the first row with the given abbreviation.
func (d *Dataset) Index(abbreviation string) (int, bool) {
	i, ok := d.index[abbreviation]
	return i, ok
}
