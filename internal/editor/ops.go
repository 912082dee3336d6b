// Package editor applies table-shaped edit operations to SQL text.
// Every operation is a pure text-to-text function: reparse the
// document, mutate one statement model, regenerate. Statements the
// operation does not touch come back byte-identical, and any failure
// returns the input text unchanged.
package editor

import (
	"fmt"
	"strings"

	"github.com/maraichr/sqlgrid/internal/deparse"
	"github.com/maraichr/sqlgrid/internal/extract"
	"github.com/maraichr/sqlgrid/internal/sqlast"
	"github.com/maraichr/sqlgrid/internal/sqlvalue"
	"github.com/maraichr/sqlgrid/pkg/apierr"
	"github.com/maraichr/sqlgrid/pkg/models"
)

// Edit operation names as they appear in the render protocol.
const (
	OpCellEdit        = "cellEdit"
	OpAddRow          = "addRow"
	OpDeleteRow       = "deleteRow"
	OpAddColumn       = "addColumn"
	OpDeleteColumn    = "deleteColumn"
	OpEditColumnName  = "editColumnName"
	OpEditWhere       = "editWhere"
	OpDeleteStatement = "deleteStatement"
)

// Operation is one edit message. Which fields matter depends on Op;
// unused fields are ignored.
type Operation struct {
	Op    string `json:"op"`
	Stmt  int    `json:"stmt"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Value string `json:"value"`
	Name  string `json:"name"`
	Where string `json:"where"`
}

// Apply dispatches one operation against document text and returns the
// regenerated text. On error the original text is returned unchanged.
func Apply(text string, op Operation) (string, error) {
	switch op.Op {
	case OpCellEdit:
		return CellEdit(text, op.Stmt, op.Row, op.Col, op.Value)
	case OpAddRow:
		return AddRow(text, op.Stmt)
	case OpDeleteRow:
		return DeleteRow(text, op.Stmt, op.Row)
	case OpAddColumn:
		return AddColumn(text, op.Stmt, op.Name)
	case OpDeleteColumn:
		return DeleteColumn(text, op.Stmt, op.Col)
	case OpEditColumnName:
		return EditColumnName(text, op.Stmt, op.Col, op.Name)
	case OpEditWhere:
		return EditWhere(text, op.Stmt, op.Where)
	case OpDeleteStatement:
		return DeleteStatement(text, op.Stmt)
	default:
		return text, apierr.InvalidEditOp(op.Op)
	}
}

// CellEdit overwrites one value: a row cell of an insert, or an
// assignment value of an update (row must be 0, col addresses the
// assignment). The new text is reclassified into its scalar kind.
func CellEdit(text string, stmt, row, col int, value string) (string, error) {
	return mutate(text, stmt, func(st *models.Statement) error {
		switch st.Kind {
		case models.StatementInsert:
			if row < 0 || row >= len(st.Rows) {
				return apierr.RowOutOfRange(row)
			}
			if col < 0 || col >= len(st.Rows[row]) {
				return apierr.ColumnOutOfRange(col)
			}
			st.Rows[row][col] = sqlvalue.Classify(value)
			return nil
		case models.StatementUpdate:
			if row != 0 {
				return apierr.RowOutOfRange(row)
			}
			if col < 0 || col >= len(st.Assignments) {
				return apierr.ColumnOutOfRange(col)
			}
			st.Assignments[col].Value = sqlvalue.Classify(value)
			return nil
		default:
			return apierr.WrongStatementKind(OpCellEdit, string(st.Kind))
		}
	})
}

// AddRow appends a row of empty strings to an insert, or one more
// empty-valued assignment (reusing the first column name) to an update.
func AddRow(text string, stmt int) (string, error) {
	return mutate(text, stmt, func(st *models.Statement) error {
		switch st.Kind {
		case models.StatementInsert:
			row := make([]models.Scalar, len(st.Columns))
			for i := range row {
				row[i] = models.StringScalar("")
			}
			st.Rows = append(st.Rows, row)
			return nil
		case models.StatementUpdate:
			name := "column1"
			if len(st.Assignments) > 0 {
				name = st.Assignments[0].Column
			}
			st.Assignments = append(st.Assignments, models.Assignment{Column: name, Value: models.StringScalar("")})
			st.Columns = append(st.Columns, name)
			return nil
		default:
			return apierr.WrongStatementKind(OpAddRow, string(st.Kind))
		}
	})
}

// DeleteRow removes one row from an insert.
func DeleteRow(text string, stmt, row int) (string, error) {
	return mutate(text, stmt, func(st *models.Statement) error {
		if st.Kind != models.StatementInsert {
			return apierr.WrongStatementKind(OpDeleteRow, string(st.Kind))
		}
		if row < 0 || row >= len(st.Rows) {
			return apierr.RowOutOfRange(row)
		}
		st.Rows = append(st.Rows[:row], st.Rows[row+1:]...)
		return nil
	})
}

// AddColumn appends a column to an insert (empty cell on every row) or
// one assignment to an update. An empty name synthesizes the first
// unused columnN, counting from column1.
func AddColumn(text string, stmt int, name string) (string, error) {
	return mutate(text, stmt, func(st *models.Statement) error {
		switch st.Kind {
		case models.StatementInsert:
			name, err := resolveNewColumn(st.Columns, name)
			if err != nil {
				return err
			}
			st.Columns = append(st.Columns, name)
			for i := range st.Rows {
				st.Rows[i] = append(st.Rows[i], models.StringScalar(""))
			}
			return nil
		case models.StatementUpdate:
			name, err := resolveNewColumn(st.Columns, name)
			if err != nil {
				return err
			}
			st.Assignments = append(st.Assignments, models.Assignment{Column: name, Value: models.StringScalar("")})
			st.Columns = append(st.Columns, name)
			return nil
		default:
			return apierr.WrongStatementKind(OpAddColumn, string(st.Kind))
		}
	})
}

// DeleteColumn removes one column: the name and that cell from every
// insert row, or the addressed assignment of an update.
func DeleteColumn(text string, stmt, col int) (string, error) {
	return mutate(text, stmt, func(st *models.Statement) error {
		switch st.Kind {
		case models.StatementInsert:
			if col < 0 || col >= len(st.Columns) {
				return apierr.ColumnOutOfRange(col)
			}
			st.Columns = append(st.Columns[:col], st.Columns[col+1:]...)
			for i, row := range st.Rows {
				if col < len(row) {
					st.Rows[i] = append(row[:col], row[col+1:]...)
				}
			}
			return nil
		case models.StatementUpdate:
			if col < 0 || col >= len(st.Assignments) {
				return apierr.ColumnOutOfRange(col)
			}
			st.Assignments = append(st.Assignments[:col], st.Assignments[col+1:]...)
			if col < len(st.Columns) {
				st.Columns = append(st.Columns[:col], st.Columns[col+1:]...)
			}
			return nil
		default:
			return apierr.WrongStatementKind(OpDeleteColumn, string(st.Kind))
		}
	})
}

// EditColumnName renames a column in place. The new name must be
// non-empty and unique within the statement.
func EditColumnName(text string, stmt, col int, name string) (string, error) {
	return mutate(text, stmt, func(st *models.Statement) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return apierr.EmptyColumnName()
		}
		switch st.Kind {
		case models.StatementInsert, models.StatementUpdate:
			if col < 0 || col >= len(st.Columns) {
				return apierr.ColumnOutOfRange(col)
			}
			for i, existing := range st.Columns {
				if i != col && existing == name {
					return apierr.DuplicateColumn(name)
				}
			}
			st.Columns[col] = name
			if st.Kind == models.StatementUpdate && col < len(st.Assignments) {
				st.Assignments[col].Column = name
			}
			return nil
		default:
			return apierr.WrongStatementKind(OpEditColumnName, string(st.Kind))
		}
	})
}

// EditWhere replaces the WHERE condition of an update or delete. The
// candidate statement is round-tripped through the parser first; a
// rejected condition leaves the document text byte-identical.
func EditWhere(text string, stmt int, where string) (string, error) {
	return mutate(text, stmt, func(st *models.Statement) error {
		switch st.Kind {
		case models.StatementUpdate, models.StatementDelete:
		default:
			return apierr.WrongStatementKind(OpEditWhere, string(st.Kind))
		}
		candidate := *st
		candidate.WhereText = strings.TrimSpace(where)
		candidate.Dirty = true
		rendered, ok := deparse.Statement(candidate)
		if !ok {
			return apierr.WhereRejected(fmt.Errorf("statement cannot be rendered"))
		}
		if err := sqlast.Validate(rendered); err != nil {
			return apierr.WhereRejected(err)
		}
		st.WhereText = candidate.WhereText
		return nil
	})
}

// DeleteStatement removes one whole statement from the document.
func DeleteStatement(text string, stmt int) (string, error) {
	doc := extract.Document(text)
	if stmt < 0 || stmt >= len(doc.Statements) {
		return text, apierr.StatementOutOfRange(stmt)
	}
	stmts := append(doc.Statements[:stmt:stmt], doc.Statements[stmt+1:]...)
	return deparse.Document(stmts), nil
}

// mutate runs fn against the addressed statement and regenerates the
// document, marking only that statement dirty.
func mutate(text string, stmt int, fn func(*models.Statement) error) (string, error) {
	doc := extract.Document(text)
	if stmt < 0 || stmt >= len(doc.Statements) {
		return text, apierr.StatementOutOfRange(stmt)
	}
	if err := fn(&doc.Statements[stmt]); err != nil {
		return text, err
	}
	doc.Statements[stmt].Dirty = true
	return deparse.Document(doc.Statements), nil
}

// resolveNewColumn validates an explicit column name or synthesizes the
// first columnN not already taken.
func resolveNewColumn(existing []string, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name != "" {
		for _, col := range existing {
			if col == name {
				return "", apierr.DuplicateColumn(name)
			}
		}
		return name, nil
	}
	taken := make(map[string]bool, len(existing))
	for _, col := range existing {
		taken[col] = true
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("column%d", n)
		if !taken[candidate] {
			return candidate, nil
		}
	}
}
