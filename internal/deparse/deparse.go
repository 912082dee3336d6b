// Package deparse renders statement models back into SQL text. A
// statement no edit has touched emits its original source fragment
// verbatim; only dirty statements are rendered canonically, so a
// round-trip through the editor never reformats what the user left
// alone.
package deparse

import (
	"strings"

	"github.com/maraichr/sqlgrid/internal/sqlvalue"
	"github.com/maraichr/sqlgrid/pkg/models"
)

// Document renders an ordered statement list into file text. Statements
// join with one blank line; unrenderable statements are dropped. The
// output ends with a single trailing newline when non-empty.
func Document(stmts []models.Statement) string {
	parts := make([]string, 0, len(stmts))
	for _, st := range stmts {
		if text, ok := Statement(st); ok {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// Statement renders one statement, returning false when it has nothing
// to emit (an unknown statement with no recorded source).
func Statement(st models.Statement) (string, bool) {
	if !st.Dirty && st.RawText != "" {
		return terminate(st.RawText), true
	}
	switch st.Kind {
	case models.StatementInsert:
		return insert(st)
	case models.StatementUpdate:
		return update(st)
	case models.StatementDelete:
		return deleteStmt(st)
	case models.StatementSelect:
		return selectStmt(st)
	default:
		if st.RawText != "" {
			return terminate(st.RawText), true
		}
		return "", false
	}
}

func insert(st models.Statement) (string, bool) {
	if st.TableName == "" {
		return "", false
	}
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(sqlvalue.QuoteQualified(st.TableName))
	if len(st.Columns) > 0 {
		b.WriteString(" (")
		b.WriteString(identList(st.Columns))
		b.WriteString(")")
	}
	if len(st.Rows) == 0 {
		// An INSERT ... SELECT extracts without rows; the original
		// fragment is the only faithful rendering left.
		if st.RawText != "" {
			return terminate(st.RawText), true
		}
		return "", false
	}
	b.WriteString(" VALUES ")
	for i, row := range st.Rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j, cell := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(sqlvalue.Format(cell))
		}
		b.WriteString(")")
	}
	b.WriteString(";")
	return b.String(), true
}

func update(st models.Statement) (string, bool) {
	if st.TableName == "" || len(st.Assignments) == 0 {
		return "", false
	}
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(sqlvalue.QuoteQualified(st.TableName))
	b.WriteString(" SET ")
	for i, a := range st.Assignments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sqlvalue.QuoteIdent(a.Column))
		b.WriteString(" = ")
		b.WriteString(sqlvalue.Format(a.Value))
	}
	if st.WhereText != "" {
		b.WriteString(" WHERE ")
		b.WriteString(st.WhereText)
	}
	b.WriteString(";")
	return b.String(), true
}

func deleteStmt(st models.Statement) (string, bool) {
	if st.TableName == "" {
		return "", false
	}
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(sqlvalue.QuoteQualified(st.TableName))
	if st.WhereText != "" {
		b.WriteString(" WHERE ")
		b.WriteString(st.WhereText)
	}
	b.WriteString(";")
	return b.String(), true
}

func selectStmt(st models.Statement) (string, bool) {
	if len(st.Columns) == 0 {
		return "", false
	}
	var b strings.Builder
	b.WriteString("SELECT ")
	// Select columns are display names (aliases, dotted references,
	// expression text), not bare identifiers; emit them as written.
	b.WriteString(strings.Join(st.Columns, ", "))
	if st.TableName != "" {
		b.WriteString(" FROM ")
		b.WriteString(sqlvalue.QuoteQualified(st.TableName))
	}
	if st.WhereText != "" {
		b.WriteString(" WHERE ")
		b.WriteString(st.WhereText)
	}
	b.WriteString(";")
	return b.String(), true
}

func identList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = sqlvalue.QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

func terminate(raw string) string {
	trimmed := strings.TrimRight(raw, " \t\r\n")
	if strings.HasSuffix(trimmed, ";") {
		return trimmed
	}
	return trimmed + ";"
}
