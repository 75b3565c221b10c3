package models

import (
	"errors"
	"fmt"
)

// ColumnType declares how a column's cells are interpreted
type ColumnType string

// ColumnType constants
const (
	ColumnNumeric     ColumnType = "numeric"
	ColumnCategorical ColumnType = "categorical"
)

// IsValidColumnType checks if a given ColumnType is one of the valid constants
func IsValidColumnType(t ColumnType) bool {
	switch t {
	case ColumnNumeric, ColumnCategorical:
		return true
	default:
		return false
	}
}

// Cell is a single dataset value. Null marks an absent cell; Number is
// meaningful for numeric columns, Label for categorical ones.
type Cell struct {
	Number float64 `json:"number,omitempty"`
	Label  string  `json:"label,omitempty"`
	Null   bool    `json:"null,omitempty"`
}

// NumberCell builds a populated numeric cell
func NumberCell(v float64) Cell {
	return Cell{Number: v}
}

// LabelCell builds a populated categorical cell
func LabelCell(v string) Cell {
	return Cell{Label: v}
}

// NullCell builds an absent cell
func NullCell() Cell {
	return Cell{Null: true}
}

// Column is a named, typed column of cells
type Column struct {
	Name  string     `json:"name" validate:"required"`
	Type  ColumnType `json:"type" validate:"required,oneof=numeric categorical"`
	Cells []Cell     `json:"cells"`
}

// Numbers returns the non-null numeric values of the column in row order
func (c *Column) Numbers() []float64 {
	values := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.Null {
			continue
		}
		values = append(values, cell.Number)
	}
	return values
}

// Labels returns the non-null categorical values of the column in row order
func (c *Column) Labels() []string {
	values := make([]string, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.Null {
			continue
		}
		values = append(values, cell.Label)
	}
	return values
}

// Dataset represents a rectangular dataset handed to the analysis pipeline.
// Columns are ordered; row count is uniform across columns.
type Dataset struct {
	Name    string   `json:"name" validate:"required"`
	Columns []Column `json:"columns" validate:"required,min=1,dive"`
}

// RowCount returns the number of rows in the dataset
func (d *Dataset) RowCount() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Cells)
}

// NumericColumns returns the numeric columns in declaration order
func (d *Dataset) NumericColumns() []Column {
	var cols []Column
	for _, c := range d.Columns {
		if c.Type == ColumnNumeric {
			cols = append(cols, c)
		}
	}
	return cols
}

// CategoricalColumns returns the categorical columns in declaration order
func (d *Dataset) CategoricalColumns() []Column {
	var cols []Column
	for _, c := range d.Columns {
		if c.Type == ColumnCategorical {
			cols = append(cols, c)
		}
	}
	return cols
}

// ColumnByName finds a column by name
func (d *Dataset) ColumnByName(name string) (*Column, bool) {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i], true
		}
	}
	return nil, false
}

// Validate checks structural integrity of the dataset
func (d *Dataset) Validate() error {
	if d.Name == "" {
		return errors.New("dataset name is required")
	}
	if len(d.Columns) == 0 {
		return errors.New("dataset must have at least one column")
	}

	seen := make(map[string]bool, len(d.Columns))
	rows := len(d.Columns[0].Cells)
	for i, col := range d.Columns {
		if col.Name == "" {
			return fmt.Errorf("column %d has no name", i)
		}
		if seen[col.Name] {
			return fmt.Errorf("duplicate column name: %s", col.Name)
		}
		seen[col.Name] = true

		if !IsValidColumnType(col.Type) {
			return fmt.Errorf("column %s has invalid type: %s (must be one of: numeric, categorical)", col.Name, col.Type)
		}
		if len(col.Cells) != rows {
			return fmt.Errorf("column %s has %d rows, expected %d", col.Name, len(col.Cells), rows)
		}
	}

	return nil
}
