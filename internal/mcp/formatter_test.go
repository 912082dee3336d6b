package mcp

import (
	"strings"
	"testing"

	"github.com/maraichr/sqlgrid/pkg/models"
)

func insertStatement() models.Statement {
	return models.Statement{
		Kind:      models.StatementInsert,
		TableName: "users",
		Columns:   []string{"name", "age"},
		Rows: [][]models.Scalar{
			{models.StringScalar("Al"), models.NumberScalar("31")},
			{models.StringScalar("O'Brien"), models.NullScalar()},
		},
	}
}

// --- statement cards ---

func TestFormatStatement_Insert(t *testing.T) {
	out := FormatStatement(0, insertStatement())

	if !strings.Contains(out, "**[0] INSERT INTO users**") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "2 columns × 2 rows") {
		t.Errorf("missing shape: %q", out)
	}
	if !strings.Contains(out, "| name | age |") {
		t.Errorf("missing column header row: %q", out)
	}
	if !strings.Contains(out, "| 'Al' | 31 |") {
		t.Errorf("missing data row: %q", out)
	}
	// Cells render as SQL literals: quotes doubled, null as NULL.
	if !strings.Contains(out, "| 'O''Brien' | NULL |") {
		t.Errorf("missing literal rendering: %q", out)
	}
}

func TestFormatStatement_Update(t *testing.T) {
	st := models.Statement{
		Kind:      models.StatementUpdate,
		TableName: "users",
		Columns:   []string{"age"},
		Assignments: []models.Assignment{
			{Column: "age", Value: models.NumberScalar("32")},
		},
		WhereText: "id = 7",
	}
	out := FormatStatement(1, st)

	if !strings.Contains(out, "**[1] UPDATE users**") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "| age | 32 |") {
		t.Errorf("missing assignment row: %q", out)
	}
	if !strings.Contains(out, "WHERE `id = 7`") {
		t.Errorf("missing where: %q", out)
	}
}

func TestFormatStatement_Unknown(t *testing.T) {
	st := models.Statement{
		Kind:    models.StatementUnknown,
		RawText: "CREATE TABLE t (id int);",
	}
	out := FormatStatement(2, st)

	if !strings.Contains(out, "not editable") {
		t.Errorf("missing marker: %q", out)
	}
	if !strings.Contains(out, "CREATE TABLE t (id int);") {
		t.Errorf("missing raw text: %q", out)
	}
}

func TestFormatStatement_EscapesPipes(t *testing.T) {
	st := models.Statement{
		Kind:      models.StatementInsert,
		TableName: "t",
		Columns:   []string{"v"},
		Rows:      [][]models.Scalar{{models.StringScalar("a|b")}},
	}
	out := FormatStatement(0, st)
	if !strings.Contains(out, `'a\|b'`) {
		t.Errorf("pipe not escaped: %q", out)
	}
}

// --- document rendering ---

func TestFormatDocument(t *testing.T) {
	doc := models.Document{
		Statements: []models.Statement{insertStatement()},
		Success:    true,
	}
	out := FormatDocument("users.sql", doc, 0)

	if !strings.Contains(out, "**users.sql** — 1 statements") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "INSERT INTO users") {
		t.Errorf("missing statement card: %q", out)
	}
	if strings.Contains(out, "truncated") {
		t.Errorf("unexpected truncation: %q", out)
	}
}

func TestFormatDocument_ParseFailure(t *testing.T) {
	doc := models.Document{Success: false, Error: "syntax error at or near \"FROOM\""}
	out := FormatDocument("bad.sql", doc, 0)

	if !strings.Contains(out, "parse failed") {
		t.Errorf("missing failure marker: %q", out)
	}
	if !strings.Contains(out, "FROOM") {
		t.Errorf("missing error detail: %q", out)
	}
}

// --- budget ---

func TestResponseBuilder_Truncation(t *testing.T) {
	rb := NewResponseBuilder(10)
	rb.AddHeader("**header**")
	added := 0
	for i := 0; i < 100; i++ {
		if !rb.AddLine("some reasonably long line of response text") {
			break
		}
		added++
	}
	if added == 100 {
		t.Fatal("expected the budget to stop additions")
	}
	if !rb.IsTruncated() {
		t.Error("expected truncated flag")
	}
	out := rb.Finalize(100, added)
	if !strings.Contains(out, "truncated") {
		t.Errorf("missing truncation notice: %q", out)
	}
}
