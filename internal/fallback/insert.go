// Package fallback recovers INSERT statements the parser rejects for
// column/value arity mismatches. It is deliberately lexical: a head
// pattern finds the table and column list, and a quote-aware scanner
// cuts the VALUES tail into rows and fields, so inputs the grammar
// refuses still become editable models.
package fallback

import (
	"regexp"
	"strings"

	"github.com/maraichr/sqlgrid/internal/sqlvalue"
	"github.com/maraichr/sqlgrid/pkg/models"
)

var insertHead = regexp.MustCompile(`(?is)^\s*INSERT\s+INTO\s+([^\s(]+)\s*\(([^)]*)\)\s*VALUES\s*(.*)$`)

// ParseInsert attempts lexical recovery of one statement. Returns false
// when the text does not look like INSERT INTO <table> (<columns>)
// VALUES or when no value group can be found. Rows are classified but
// not reconciled; the caller owns squaring them against the columns.
func ParseInsert(text string) (models.Statement, bool) {
	m := insertHead.FindStringSubmatch(text)
	if m == nil {
		return models.Statement{}, false
	}
	st := models.Statement{
		Kind:      models.StatementInsert,
		TableName: cleanIdent(m[1]),
		Fallback:  true,
	}
	if cols := strings.TrimSpace(m[2]); cols != "" {
		for _, col := range strings.Split(cols, ",") {
			st.Columns = append(st.Columns, cleanIdent(col))
		}
	}
	groups := scanGroups(m[3])
	if len(groups) == 0 {
		return models.Statement{}, false
	}
	for _, group := range groups {
		fields := scanFields(group)
		row := make([]models.Scalar, 0, len(fields))
		for _, f := range fields {
			row = append(row, sqlvalue.Classify(f))
		}
		st.Rows = append(st.Rows, row)
	}
	return st, true
}

// cleanIdent trims a lexed identifier and strips one layer of
// surrounding quote characters.
func cleanIdent(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		switch s[0] {
		case '"', '\'', '`':
			if s[len(s)-1] == s[0] {
				s = s[1 : len(s)-1]
			}
		}
	}
	return s
}
