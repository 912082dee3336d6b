package models

type StatementKind string

const (
	StatementInsert  StatementKind = "insert"
	StatementUpdate  StatementKind = "update"
	StatementDelete  StatementKind = "delete"
	StatementSelect  StatementKind = "select"
	StatementUnknown StatementKind = "unknown"
)

type ScalarKind string

const (
	ScalarNull    ScalarKind = "null"
	ScalarBoolean ScalarKind = "boolean"
	ScalarNumber  ScalarKind = "number"
	ScalarString  ScalarKind = "string"
)

// Scalar is one cell value. Text holds the rendering the grid edits:
// empty for null, "true"/"false" for booleans, the literal digits for
// numbers, and the decoded content (quotes stripped, doubled quotes
// collapsed) for strings.
type Scalar struct {
	Kind ScalarKind `json:"kind"`
	Text string     `json:"text"`
}

func NullScalar() Scalar { return Scalar{Kind: ScalarNull} }

func BoolScalar(b bool) Scalar {
	if b {
		return Scalar{Kind: ScalarBoolean, Text: "true"}
	}
	return Scalar{Kind: ScalarBoolean, Text: "false"}
}

func NumberScalar(text string) Scalar { return Scalar{Kind: ScalarNumber, Text: text} }

func StringScalar(text string) Scalar { return Scalar{Kind: ScalarString, Text: text} }

// Assignment is one SET pair of an UPDATE statement.
type Assignment struct {
	Column string `json:"column"`
	Value  Scalar `json:"value"`
}

// Statement is the uniform grid model for one SQL statement. Which
// fields are populated depends on Kind: inserts carry Columns and Rows,
// updates carry Assignments (Columns mirrors the assignment names),
// updates and deletes carry WhereText as raw condition source. RawText
// always holds the original statement fragment; Dirty marks statements
// an edit has touched, which is what switches regeneration from the
// verbatim fragment to the canonical rendering.
type Statement struct {
	Kind        StatementKind `json:"kind"`
	TableName   string        `json:"table_name,omitempty"`
	Columns     []string      `json:"columns,omitempty"`
	Rows        [][]Scalar    `json:"rows,omitempty"`
	Assignments []Assignment  `json:"assignments,omitempty"`
	WhereText   string        `json:"where_text,omitempty"`
	Fallback    bool          `json:"fallback,omitempty"`
	RawText     string        `json:"raw_text,omitempty"`
	Dirty       bool          `json:"dirty,omitempty"`
}
