// Package camtrapdp converts Wildlife Insights project exports into
// Camtrap Data Package v1.0.2 bundles: three cross-referenced CSV tables
// (deployments, media, observations) plus a datapackage.json manifest.
package camtrapdp

import (
	"fmt"
	"strings"
)

// FieldType is a Table Schema type label.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeInteger  FieldType = "integer"
	TypeNumber   FieldType = "number"
	TypeBoolean  FieldType = "boolean"
	TypeDatetime FieldType = "datetime"
)

// Column is one named, typed column. The empty string is the null cell:
// CSV output cannot distinguish the two, and neither do we.
type Column struct {
	Name   string
	Type   FieldType
	Values []string
}

// SkipReason says why an optional column was left out of a table.
type SkipReason string

const (
	SkipNone     SkipReason = ""
	SkipAllEmpty SkipReason = "all values empty"
	SkipNoSource SkipReason = "source column absent"
)

// ColumnResult is the outcome of building one optional column: either a
// column to include, or a reason it was skipped. Optional columns with no
// usable values are omitted entirely rather than written as blanks.
type ColumnResult struct {
	Column *Column
	Skip   SkipReason
}

// OptionalColumn wraps values as an includable column, or reports
// SkipAllEmpty when no value survives trimming.
func OptionalColumn(name string, typ FieldType, values []string) ColumnResult {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return ColumnResult{Column: &Column{Name: name, Type: typ, Values: values}}
		}
	}
	return ColumnResult{Skip: SkipAllEmpty}
}

// SkippedColumn reports an optional column that could not be built at all.
func SkippedColumn(reason SkipReason) ColumnResult {
	return ColumnResult{Skip: reason}
}

// Table is an ordered set of equal-length columns destined for one CSV.
type Table struct {
	Name    string
	Columns []Column
	rows    int
	hasRows bool
}

// NewTable returns an empty table named after its output resource.
func NewTable(name string) *Table {
	return &Table{Name: name}
}

// Len returns the row count.
func (t *Table) Len() int { return t.rows }

// AddColumn appends a required column. All columns must agree on length.
func (t *Table) AddColumn(name string, typ FieldType, values []string) error {
	if t.hasRows && len(values) != t.rows {
		return fmt.Errorf("table %s: column %s has %d values, table has %d rows",
			t.Name, name, len(values), t.rows)
	}
	t.rows = len(values)
	t.hasRows = true
	t.Columns = append(t.Columns, Column{Name: name, Type: typ, Values: values})
	return nil
}

// Include appends an optional column when the result carries one.
// Returns true if the column was added.
func (t *Table) Include(res ColumnResult) bool {
	if res.Column == nil {
		return false
	}
	if err := t.AddColumn(res.Column.Name, res.Column.Type, res.Column.Values); err != nil {
		return false
	}
	return true
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// HasColumn reports whether the named column is present.
func (t *Table) HasColumn(name string) bool { return t.Column(name) != nil }

// Header returns the column names in order.
func (t *Table) Header() []string {
	h := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		h[i] = c.Name
	}
	return h
}

// Row materializes row i as CSV cells.
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		row[j] = c.Values[i]
	}
	return row
}

// RequireComplete verifies that every listed required field exists and has
// no empty cells. The error names the field, how many rows are missing it,
// and what the operator should fix; the pipeline treats it as fatal and
// writes nothing.
func (t *Table) RequireComplete(fields map[string]string) error {
	for _, c := range t.Columns {
		remedy, required := fields[c.Name]
		if !required {
			continue
		}
		missing := 0
		for _, v := range c.Values {
			if strings.TrimSpace(v) == "" {
				missing++
			}
		}
		if missing > 0 {
			return &CompletenessError{
				Table:   t.Name,
				Field:   c.Name,
				Missing: missing,
				Total:   t.rows,
				Remedy:  remedy,
			}
		}
		delete(fields, c.Name)
	}
	for f := range fields {
		return fmt.Errorf("%s: required field %q was never built", t.Name, f)
	}
	return nil
}

// CompletenessError reports a required output field with missing values.
type CompletenessError struct {
	Table   string
	Field   string
	Missing int
	Total   int
	Remedy  string
}

func (e *CompletenessError) Error() string {
	msg := fmt.Sprintf("%s: required field %q is missing in %d of %d rows",
		e.Table, e.Field, e.Missing, e.Total)
	if e.Remedy != "" {
		msg += ". " + e.Remedy
	}
	return msg
}

// CheckUnique verifies that the named column has no duplicate values.
// Up to ten offending values are listed in the error.
func (t *Table) CheckUnique(name string) error {
	c := t.Column(name)
	if c == nil {
		return fmt.Errorf("%s: no column %q to check for uniqueness", t.Name, name)
	}
	seen := make(map[string]bool, len(c.Values))
	var dups []string
	for _, v := range c.Values {
		if seen[v] {
			if len(dups) < 10 {
				dups = append(dups, v)
			}
		}
		seen[v] = true
	}
	if len(dups) > 0 {
		return fmt.Errorf("%s: duplicate %s values after deduplication: %s",
			t.Name, name, strings.Join(dups, ", "))
	}
	return nil
}
