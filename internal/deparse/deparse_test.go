package deparse

import (
	"reflect"
	"strings"
	"testing"

	"github.com/maraichr/sqlgrid/internal/extract"
	"github.com/maraichr/sqlgrid/pkg/models"
)

// --- Statement: verbatim path ---

func TestStatement_CleanEmitsRawText(t *testing.T) {
	st := models.Statement{
		Kind:    models.StatementInsert,
		RawText: "INSERT  INTO  t  (a)\nVALUES (1)",
	}
	got, ok := Statement(st)
	if !ok {
		t.Fatal("expected a rendering")
	}
	if got != "INSERT  INTO  t  (a)\nVALUES (1);" {
		t.Errorf("got %q", got)
	}
}

func TestStatement_CleanKeepsExistingSemicolon(t *testing.T) {
	st := models.Statement{Kind: models.StatementUnknown, RawText: "CREATE TABLE t (id int);"}
	got, _ := Statement(st)
	if got != "CREATE TABLE t (id int);" {
		t.Errorf("got %q", got)
	}
}

func TestStatement_UnknownWithoutRawTextIsDropped(t *testing.T) {
	if _, ok := Statement(models.Statement{Kind: models.StatementUnknown}); ok {
		t.Error("expected unknown statement without source to be unrenderable")
	}
}

// --- Statement: canonical path ---

func TestStatement_DirtyInsert(t *testing.T) {
	st := models.Statement{
		Kind:      models.StatementInsert,
		TableName: "users",
		Columns:   []string{"name", "age"},
		Rows: [][]models.Scalar{
			{models.StringScalar("Al"), models.NumberScalar("30")},
			{models.StringScalar("Bo"), models.NullScalar()},
		},
		Dirty: true,
	}
	got, _ := Statement(st)
	want := "INSERT INTO users (name, age) VALUES ('Al', 30), ('Bo', NULL);"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestStatement_DirtyInsertEscapesQuotes(t *testing.T) {
	st := models.Statement{
		Kind:      models.StatementInsert,
		TableName: "t",
		Columns:   []string{"name"},
		Rows:      [][]models.Scalar{{models.StringScalar("O'Brien")}},
		Dirty:     true,
	}
	got, _ := Statement(st)
	if got != "INSERT INTO t (name) VALUES ('O''Brien');" {
		t.Errorf("got %q", got)
	}
}

func TestStatement_DirtyInsertQuotesIdents(t *testing.T) {
	st := models.Statement{
		Kind:      models.StatementInsert,
		TableName: "app.Users",
		Columns:   []string{"Name", "order"},
		Rows:      [][]models.Scalar{{models.StringScalar("x"), models.NumberScalar("1")}},
		Dirty:     true,
	}
	got, _ := Statement(st)
	if !strings.HasPrefix(got, `INSERT INTO app."Users" ("Name", "order")`) {
		t.Errorf("got %q", got)
	}
}

func TestStatement_DirtyUpdate(t *testing.T) {
	st := models.Statement{
		Kind:      models.StatementUpdate,
		TableName: "users",
		Assignments: []models.Assignment{
			{Column: "name", Value: models.StringScalar("Bo")},
			{Column: "age", Value: models.NumberScalar("25")},
		},
		WhereText: "id = 7",
		Dirty:     true,
	}
	got, _ := Statement(st)
	want := "UPDATE users SET name = 'Bo', age = 25 WHERE id = 7;"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestStatement_DirtyUpdateWithoutWhere(t *testing.T) {
	st := models.Statement{
		Kind:        models.StatementUpdate,
		TableName:   "t",
		Assignments: []models.Assignment{{Column: "a", Value: models.NumberScalar("1")}},
		Dirty:       true,
	}
	got, _ := Statement(st)
	if got != "UPDATE t SET a = 1;" {
		t.Errorf("got %q", got)
	}
}

func TestStatement_DirtyDeleteKeepsWhere(t *testing.T) {
	st := models.Statement{
		Kind:      models.StatementDelete,
		TableName: "logs",
		WhereText: "level = 'debug'",
		Dirty:     true,
	}
	got, _ := Statement(st)
	if got != "DELETE FROM logs WHERE level = 'debug';" {
		t.Errorf("got %q", got)
	}
}

func TestStatement_DirtySelect(t *testing.T) {
	st := models.Statement{
		Kind:      models.StatementSelect,
		TableName: "users",
		Columns:   []string{"id", "name"},
		Dirty:     true,
	}
	got, _ := Statement(st)
	if got != "SELECT id, name FROM users;" {
		t.Errorf("got %q", got)
	}
}

func TestStatement_DirtyInsertSelectFallsBackToRawText(t *testing.T) {
	st := models.Statement{
		Kind:      models.StatementInsert,
		TableName: "t",
		Columns:   []string{"a", "b"},
		RawText:   "INSERT INTO t (a, b) SELECT x, y FROM u",
		Dirty:     true,
	}
	got, _ := Statement(st)
	if got != "INSERT INTO t (a, b) SELECT x, y FROM u;" {
		t.Errorf("got %q", got)
	}
}

// --- Document ---

func TestDocument_JoinsWithBlankLine(t *testing.T) {
	stmts := []models.Statement{
		{Kind: models.StatementInsert, RawText: "INSERT INTO a (x) VALUES (1)"},
		{Kind: models.StatementDelete, RawText: "DELETE FROM b"},
	}
	got := Document(stmts)
	want := "INSERT INTO a (x) VALUES (1);\n\nDELETE FROM b;\n"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestDocument_DropsUnrenderable(t *testing.T) {
	stmts := []models.Statement{
		{Kind: models.StatementUnknown},
		{Kind: models.StatementInsert, RawText: "INSERT INTO a (x) VALUES (1)"},
	}
	got := Document(stmts)
	if got != "INSERT INTO a (x) VALUES (1);\n" {
		t.Errorf("got %q", got)
	}
}

func TestDocument_Empty(t *testing.T) {
	if got := Document(nil); got != "" {
		t.Errorf("got %q", got)
	}
}

// --- Round trips through extraction ---

func TestRoundTrip_VerbatimPath(t *testing.T) {
	texts := []string{
		"INSERT INTO users (name, age) VALUES ('Al', 30);",
		"UPDATE users SET name = 'Bo' WHERE id = 7;",
		"DELETE FROM logs WHERE level = 'debug';",
		"SELECT id, name FROM users;",
	}
	for _, text := range texts {
		first := extract.Document(text)
		second := extract.Document(Document(first.Statements))
		assertModelsEqual(t, text, first.Statements, second.Statements)
	}
}

func TestRoundTrip_CanonicalPath(t *testing.T) {
	texts := []string{
		"INSERT INTO users (name, age) VALUES ('Al', 30), ('O''Brien', NULL);",
		"UPDATE users SET name = 'Bo', age = 25 WHERE id = 7 AND active = TRUE;",
		"DELETE FROM logs WHERE level = 'debug';",
		"SELECT id, name FROM users;",
	}
	for _, text := range texts {
		first := extract.Document(text)
		for i := range first.Statements {
			first.Statements[i].Dirty = true
		}
		second := extract.Document(Document(first.Statements))
		assertModelsEqual(t, text, first.Statements, second.Statements)
	}
}

func assertModelsEqual(t *testing.T, input string, want, got []models.Statement) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %d statements, want %d", input, len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if g.Kind != w.Kind {
			t.Errorf("%s: kind = %q, want %q", input, g.Kind, w.Kind)
		}
		if g.TableName != w.TableName {
			t.Errorf("%s: table = %q, want %q", input, g.TableName, w.TableName)
		}
		if !reflect.DeepEqual(g.Columns, w.Columns) {
			t.Errorf("%s: columns = %v, want %v", input, g.Columns, w.Columns)
		}
		if !reflect.DeepEqual(g.Rows, w.Rows) {
			t.Errorf("%s: rows = %+v, want %+v", input, g.Rows, w.Rows)
		}
		if !reflect.DeepEqual(g.Assignments, w.Assignments) {
			t.Errorf("%s: assignments = %+v, want %+v", input, g.Assignments, w.Assignments)
		}
	}
}
