package ui

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Column describes one table column. Numeric columns are right-aligned, header included.
type Column struct {
	Title   string
	Numeric bool
}

// Table collects rows for a rounded go-pretty table. Titles keep their casing.
type Table struct {
	columns []Column
	rows    []table.Row
	footer  table.Row
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...Column) *Table {
	return &Table{columns: columns}
}

// Add appends a row. Missing cells render empty and extra cells are dropped.
func (t *Table) Add(cells ...string) {
	t.rows = append(t.rows, t.row(cells))
}

// Footer sets a totals row drawn below the body.
func (t *Table) Footer(cells ...string) {
	t.footer = t.row(cells)
}

func (t *Table) row(cells []string) table.Row {
	r := make(table.Row, len(t.columns))
	for i := range r {
		if i < len(cells) {
			r[i] = cells[i]
		} else {
			r[i] = ""
		}
	}
	return r
}

// Render draws the table, or returns "" when it has no columns.
func (t *Table) Render() string {
	if len(t.columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault

	header := make(table.Row, len(t.columns))
	configs := make([]table.ColumnConfig, len(t.columns))
	for i, c := range t.columns {
		header[i] = c.Title

		align := text.AlignLeft
		if c.Numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: align, AlignFooter: align}
	}

	tw.AppendHeader(header)
	tw.AppendRows(t.rows)
	if t.footer != nil {
		tw.AppendFooter(t.footer)
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
