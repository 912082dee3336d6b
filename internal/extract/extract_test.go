package extract

import (
	"reflect"
	"testing"

	"github.com/maraichr/sqlgrid/pkg/models"
)

// --- Document: inserts ---

func TestDocument_Insert(t *testing.T) {
	doc := Document("INSERT INTO users (name, age) VALUES ('Al', 30);")
	if !doc.Success {
		t.Fatalf("Success = false, error = %q", doc.Error)
	}
	st := onlyStatement(t, doc)
	if st.Kind != models.StatementInsert {
		t.Fatalf("kind = %q", st.Kind)
	}
	if st.TableName != "users" {
		t.Errorf("table = %q", st.TableName)
	}
	if !reflect.DeepEqual(st.Columns, []string{"name", "age"}) {
		t.Errorf("columns = %v", st.Columns)
	}
	want := [][]models.Scalar{{models.StringScalar("Al"), models.NumberScalar("30")}}
	if !reflect.DeepEqual(st.Rows, want) {
		t.Errorf("rows = %+v", st.Rows)
	}
}

func TestDocument_InsertScalarKinds(t *testing.T) {
	doc := Document("INSERT INTO t (a, b, c, d, e) VALUES (NULL, true, 30, 1.50, 'x');")
	st := onlyStatement(t, doc)
	want := []models.Scalar{
		models.NullScalar(),
		models.BoolScalar(true),
		models.NumberScalar("30"),
		models.NumberScalar("1.50"),
		models.StringScalar("x"),
	}
	if !reflect.DeepEqual(st.Rows[0], want) {
		t.Errorf("row = %+v", st.Rows[0])
	}
}

func TestDocument_InsertDecodesEscapedQuote(t *testing.T) {
	doc := Document("INSERT INTO t (name) VALUES ('O''Brien');")
	st := onlyStatement(t, doc)
	if st.Rows[0][0] != models.StringScalar("O'Brien") {
		t.Errorf("cell = %+v", st.Rows[0][0])
	}
}

func TestDocument_InsertUnwrapsTypeCast(t *testing.T) {
	doc := Document("INSERT INTO t (v) VALUES ('5'::integer);")
	st := onlyStatement(t, doc)
	if st.Rows[0][0] != models.StringScalar("5") {
		t.Errorf("cell = %+v", st.Rows[0][0])
	}
}

func TestDocument_InsertFunctionValueBecomesText(t *testing.T) {
	doc := Document("INSERT INTO t (created) VALUES (now());")
	st := onlyStatement(t, doc)
	cell := st.Rows[0][0]
	if cell.Kind != models.ScalarString {
		t.Fatalf("cell kind = %q", cell.Kind)
	}
	if cell.Text != "now()" {
		t.Errorf("cell text = %q", cell.Text)
	}
}

func TestDocument_InsertDefaultKeyword(t *testing.T) {
	doc := Document("INSERT INTO t (a, b) VALUES (DEFAULT, 1);")
	st := onlyStatement(t, doc)
	if st.Rows[0][0] != models.StringScalar("DEFAULT") {
		t.Errorf("cell = %+v", st.Rows[0][0])
	}
}

func TestDocument_InsertSelectHasNoRows(t *testing.T) {
	doc := Document("INSERT INTO t (a, b) SELECT x, y FROM u;")
	st := onlyStatement(t, doc)
	if st.Kind != models.StatementInsert || len(st.Rows) != 0 {
		t.Errorf("statement = %+v", st)
	}
}

func TestDocument_SchemaQualifiedTable(t *testing.T) {
	doc := Document("INSERT INTO app.users (name) VALUES ('x');")
	st := onlyStatement(t, doc)
	if st.TableName != "app.users" {
		t.Errorf("table = %q", st.TableName)
	}
}

// --- Document: arity-mismatch recovery ---

func TestDocument_ArityMismatchRecoversViaFallback(t *testing.T) {
	doc := Document("INSERT INTO users (name, age) VALUES ('Al', 30, 'extra');")
	if !doc.Success {
		t.Fatalf("Success = false, error = %q", doc.Error)
	}
	st := onlyStatement(t, doc)
	if !st.Fallback {
		t.Fatal("statement not marked as fallback")
	}
	// Extra cell truncated to the declared width.
	if len(st.Rows[0]) != 2 {
		t.Errorf("row = %+v", st.Rows[0])
	}
}

func TestDocument_ArityMismatchShortRowPadsWithEmptyStrings(t *testing.T) {
	doc := Document("INSERT INTO users (name, age, city) VALUES ('Al');")
	st := onlyStatement(t, doc)
	if !st.Fallback {
		t.Fatal("statement not marked as fallback")
	}
	want := []models.Scalar{
		models.StringScalar("Al"),
		models.StringScalar(""),
		models.StringScalar(""),
	}
	if !reflect.DeepEqual(st.Rows[0], want) {
		t.Errorf("row = %+v", st.Rows[0])
	}
}

// --- Document: updates, deletes, selects ---

func TestDocument_Update(t *testing.T) {
	doc := Document("UPDATE users SET name = 'Bo', age = 25 WHERE id = 7;")
	st := onlyStatement(t, doc)
	if st.Kind != models.StatementUpdate {
		t.Fatalf("kind = %q", st.Kind)
	}
	if st.TableName != "users" {
		t.Errorf("table = %q", st.TableName)
	}
	want := []models.Assignment{
		{Column: "name", Value: models.StringScalar("Bo")},
		{Column: "age", Value: models.NumberScalar("25")},
	}
	if !reflect.DeepEqual(st.Assignments, want) {
		t.Errorf("assignments = %+v", st.Assignments)
	}
	if !reflect.DeepEqual(st.Columns, []string{"name", "age"}) {
		t.Errorf("columns = %v", st.Columns)
	}
	if st.WhereText != "id = 7" {
		t.Errorf("where = %q", st.WhereText)
	}
}

func TestDocument_UpdateWhereKeepsSourceSpelling(t *testing.T) {
	doc := Document("UPDATE t SET a = 1 WHERE  created_at<NOW()  AND  x IN (1,2);")
	st := onlyStatement(t, doc)
	if st.WhereText != "created_at<NOW()  AND  x IN (1,2)" {
		t.Errorf("where = %q", st.WhereText)
	}
}

func TestDocument_UpdateWithoutWhere(t *testing.T) {
	doc := Document("UPDATE t SET a = 1;")
	st := onlyStatement(t, doc)
	if st.WhereText != "" {
		t.Errorf("where = %q", st.WhereText)
	}
}

func TestDocument_Delete(t *testing.T) {
	doc := Document("DELETE FROM logs WHERE level = 'debug';")
	st := onlyStatement(t, doc)
	if st.Kind != models.StatementDelete {
		t.Fatalf("kind = %q", st.Kind)
	}
	if st.TableName != "logs" {
		t.Errorf("table = %q", st.TableName)
	}
	if st.WhereText != "level = 'debug'" {
		t.Errorf("where = %q", st.WhereText)
	}
}

func TestDocument_Select(t *testing.T) {
	doc := Document("SELECT id, name FROM users;")
	st := onlyStatement(t, doc)
	if st.Kind != models.StatementSelect {
		t.Fatalf("kind = %q", st.Kind)
	}
	if !reflect.DeepEqual(st.Columns, []string{"id", "name"}) {
		t.Errorf("columns = %v", st.Columns)
	}
	if st.TableName != "users" {
		t.Errorf("table = %q", st.TableName)
	}
}

func TestDocument_SelectStar(t *testing.T) {
	doc := Document("SELECT * FROM users;")
	st := onlyStatement(t, doc)
	if !reflect.DeepEqual(st.Columns, []string{"*"}) {
		t.Errorf("columns = %v", st.Columns)
	}
}

func TestDocument_SelectAliasAndExpression(t *testing.T) {
	doc := Document("SELECT count(*) AS total, age + 1 FROM users;")
	st := onlyStatement(t, doc)
	if len(st.Columns) != 2 {
		t.Fatalf("columns = %v", st.Columns)
	}
	if st.Columns[0] != "total" {
		t.Errorf("aliased column = %q", st.Columns[0])
	}
	if st.Columns[1] == "" {
		t.Error("expression column has no text")
	}
}

// --- Document: unknown and failed statements ---

func TestDocument_UnknownKind(t *testing.T) {
	doc := Document("CREATE TABLE t (id int);")
	if !doc.Success {
		t.Fatalf("Success = false: %q", doc.Error)
	}
	st := onlyStatement(t, doc)
	if st.Kind != models.StatementUnknown {
		t.Fatalf("kind = %q", st.Kind)
	}
	if !reflect.DeepEqual(st.Columns, []string{"Type"}) {
		t.Errorf("columns = %v", st.Columns)
	}
	if st.Rows[0][0].Text != "CreateStmt" {
		t.Errorf("diagnostic = %+v", st.Rows[0][0])
	}
}

func TestDocument_ParseFailureIsPreserved(t *testing.T) {
	doc := Document("SELEC wrong;")
	if doc.Success {
		t.Fatal("expected Success = false")
	}
	if doc.Error == "" {
		t.Error("expected a document error")
	}
	st := onlyStatement(t, doc)
	if st.Kind != models.StatementUnknown {
		t.Errorf("kind = %q", st.Kind)
	}
	if st.RawText != "SELEC wrong" {
		t.Errorf("raw = %q", st.RawText)
	}
}

func TestDocument_FailureDoesNotPoisonOthers(t *testing.T) {
	doc := Document("SELEC wrong;\nINSERT INTO t (a) VALUES (1);")
	if doc.Success {
		t.Fatal("expected Success = false")
	}
	if len(doc.Statements) != 2 {
		t.Fatalf("statements = %d", len(doc.Statements))
	}
	if doc.Statements[1].Kind != models.StatementInsert {
		t.Errorf("second statement = %+v", doc.Statements[1])
	}
}

// --- Document: raw text ---

func TestDocument_RawTextKeepsComments(t *testing.T) {
	doc := Document("-- seed\nINSERT INTO t (a) VALUES (1);")
	st := onlyStatement(t, doc)
	if st.RawText != "-- seed\nINSERT INTO t (a) VALUES (1)" {
		t.Errorf("raw = %q", st.RawText)
	}
}

func TestDocument_StatementOrderIsIndex(t *testing.T) {
	doc := Document("INSERT INTO a (x) VALUES (1);\nUPDATE b SET y = 2;\nDELETE FROM c;")
	if len(doc.Statements) != 3 {
		t.Fatalf("statements = %d", len(doc.Statements))
	}
	kinds := []models.StatementKind{
		doc.Statements[0].Kind,
		doc.Statements[1].Kind,
		doc.Statements[2].Kind,
	}
	want := []models.StatementKind{
		models.StatementInsert,
		models.StatementUpdate,
		models.StatementDelete,
	}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("kinds = %v", kinds)
	}
}

func TestDocument_Empty(t *testing.T) {
	doc := Document("")
	if !doc.Success || len(doc.Statements) != 0 {
		t.Errorf("doc = %+v", doc)
	}
}

func onlyStatement(t *testing.T, doc models.Document) models.Statement {
	t.Helper()
	if len(doc.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(doc.Statements))
	}
	return doc.Statements[0]
}
