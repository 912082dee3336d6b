package sqltext

import "testing"

// --- Split ---

func TestSplit_TwoStatements(t *testing.T) {
	frags := Split("INSERT INTO a (x) VALUES (1);\nINSERT INTO b (y) VALUES (2);")
	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(frags))
	}
	if frags[0].Clean != "INSERT INTO a (x) VALUES (1)" {
		t.Errorf("first fragment = %q", frags[0].Clean)
	}
	if frags[1].Clean != "INSERT INTO b (y) VALUES (2)" {
		t.Errorf("second fragment = %q", frags[1].Clean)
	}
}

func TestSplit_NoTrailingSemicolon(t *testing.T) {
	frags := Split("SELECT 1")
	if len(frags) != 1 || frags[0].Clean != "SELECT 1" {
		t.Fatalf("got %+v", frags)
	}
}

func TestSplit_DropsEmptyFragments(t *testing.T) {
	frags := Split(";;\n  ;\nSELECT 1;;")
	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1: %+v", len(frags), frags)
	}
}

func TestSplit_SemicolonInsideString(t *testing.T) {
	frags := Split("INSERT INTO t (v) VALUES ('a;b');")
	if len(frags) != 1 {
		t.Fatalf("split inside a string literal: %+v", frags)
	}
	if frags[0].Clean != "INSERT INTO t (v) VALUES ('a;b')" {
		t.Errorf("fragment = %q", frags[0].Clean)
	}
}

func TestSplit_SemicolonInsideDoubledQuoteString(t *testing.T) {
	frags := Split("INSERT INTO t (v) VALUES ('it''s; fine');")
	if len(frags) != 1 {
		t.Fatalf("doubled quote ended the string early: %+v", frags)
	}
}

func TestSplit_LineCommentStripped(t *testing.T) {
	frags := Split("SELECT 1; -- trailing note\nSELECT 2;")
	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2: %+v", len(frags), frags)
	}
	if frags[1].Clean != "SELECT 2" {
		t.Errorf("second fragment = %q", frags[1].Clean)
	}
}

func TestSplit_SemicolonInsideCommentDoesNotSplit(t *testing.T) {
	frags := Split("SELECT 1 -- not done; yet\n+ 2;")
	if len(frags) != 1 {
		t.Fatalf("comment semicolon split the statement: %+v", frags)
	}
	if frags[0].Clean != "SELECT 1 \n+ 2" {
		t.Errorf("clean text = %q", frags[0].Clean)
	}
}

func TestSplit_BlockCommentStripped(t *testing.T) {
	frags := Split("SELECT/* hidden; stuff */1;")
	if len(frags) != 1 {
		t.Fatalf("got %+v", frags)
	}
	if frags[0].Clean != "SELECT 1" {
		t.Errorf("clean text = %q", frags[0].Clean)
	}
}

func TestSplit_CommentMarkerInsideString(t *testing.T) {
	frags := Split("INSERT INTO t (v) VALUES ('a -- not a comment');")
	if len(frags) != 1 {
		t.Fatalf("got %+v", frags)
	}
	if frags[0].Clean != "INSERT INTO t (v) VALUES ('a -- not a comment')" {
		t.Errorf("string content was mangled: %q", frags[0].Clean)
	}
}

func TestSplit_RawKeepsComments(t *testing.T) {
	frags := Split("-- seed users\nINSERT INTO t (v) VALUES (1);")
	if len(frags) != 1 {
		t.Fatalf("got %+v", frags)
	}
	if frags[0].Raw != "-- seed users\nINSERT INTO t (v) VALUES (1)" {
		t.Errorf("raw span = %q", frags[0].Raw)
	}
	if frags[0].Clean != "INSERT INTO t (v) VALUES (1)" {
		t.Errorf("clean span = %q", frags[0].Clean)
	}
}

func TestSplit_CommentOnlyInputYieldsNothing(t *testing.T) {
	frags := Split("-- just a header\n/* and a block */")
	if len(frags) != 0 {
		t.Fatalf("got %+v, want none", frags)
	}
}

// --- WhereText ---

func TestWhereText_Basic(t *testing.T) {
	got := WhereText("UPDATE users SET age = 31 WHERE id = 5")
	if got != "id = 5" {
		t.Errorf("got %q", got)
	}
}

func TestWhereText_KeepsSourceSpelling(t *testing.T) {
	got := WhereText("DELETE FROM logs WHERE created_at < NOW() - INTERVAL '7 days';")
	if got != "created_at < NOW() - INTERVAL '7 days'" {
		t.Errorf("got %q", got)
	}
}

func TestWhereText_None(t *testing.T) {
	if got := WhereText("DELETE FROM logs"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestWhereText_CaseInsensitive(t *testing.T) {
	if got := WhereText("update t set a=1 where a=2"); got != "a=2" {
		t.Errorf("got %q", got)
	}
}

func TestWhereText_IgnoresSubquery(t *testing.T) {
	got := WhereText("UPDATE t SET a = (SELECT max(x) FROM u WHERE u.id = 1)")
	if got != "" {
		t.Errorf("picked up the subquery WHERE: %q", got)
	}
}

func TestWhereText_IgnoresStringContent(t *testing.T) {
	got := WhereText("UPDATE t SET note = 'tell me where' WHERE id = 2")
	if got != "id = 2" {
		t.Errorf("got %q", got)
	}
}

func TestWhereText_IgnoresIdentifierPrefix(t *testing.T) {
	got := WhereText("UPDATE t SET wherever = 1 WHERE id = 3")
	if got != "id = 3" {
		t.Errorf("got %q", got)
	}
}
