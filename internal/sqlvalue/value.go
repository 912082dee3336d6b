// Package sqlvalue classifies literal text into grid scalars and
// renders scalars back into SQL literals. Every path that turns a raw
// token into a cell (AST extraction fallback, lexical recovery, cell
// edits) and every path that turns a cell back into SQL goes through
// this package so the two directions stay inverses.
package sqlvalue

import (
	"strconv"
	"strings"

	"github.com/maraichr/sqlgrid/pkg/models"
)

// Classify derives the scalar for a piece of literal text. Precedence:
// a quoted run is a string (content unquoted, doubled quotes
// collapsed), then true/false, then numbers, then NULL, and anything
// else stays a plain string.
func Classify(text string) models.Scalar {
	trimmed := strings.TrimSpace(text)
	if inner, ok := Unquote(trimmed); ok {
		return models.StringScalar(inner)
	}
	switch strings.ToLower(trimmed) {
	case "true":
		return models.BoolScalar(true)
	case "false":
		return models.BoolScalar(false)
	}
	if isNumeric(trimmed) {
		return models.NumberScalar(trimmed)
	}
	if strings.EqualFold(trimmed, "null") {
		return models.NullScalar()
	}
	return models.StringScalar(trimmed)
}

// Format renders a scalar as a SQL literal.
func Format(v models.Scalar) string {
	if v.Kind == models.ScalarNull {
		return "NULL"
	}
	return FormatText(v.Text)
}

// FormatText renders cell text as a SQL literal: text already wrapped
// in quotes passes through (double quotes rewritten to single),
// null/true/false keywords upper-case, numbers stay bare, and
// everything else is single-quoted with embedded quotes doubled.
func FormatText(text string) string {
	if isQuoted(text) {
		return strings.ReplaceAll(text, `"`, `'`)
	}
	switch strings.ToLower(text) {
	case "null":
		return "NULL"
	case "true":
		return "TRUE"
	case "false":
		return "FALSE"
	}
	if isNumeric(text) {
		return text
	}
	return "'" + strings.ReplaceAll(text, "'", "''") + "'"
}

// QuoteIdent renders an identifier, double-quoting it unless it is a
// plain lower-case non-keyword name the parser would fold back to
// itself.
func QuoteIdent(name string) string {
	if isBareIdent(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteQualified renders a possibly schema-qualified name, quoting each
// dotted part independently.
func QuoteQualified(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = QuoteIdent(p)
	}
	return strings.Join(parts, ".")
}

// Unquote strips one layer of matching single or double quotes and
// collapses doubled quotes of the same kind. Returns false when the
// text is not a quoted run.
func Unquote(text string) (string, bool) {
	if !isQuoted(text) {
		return text, false
	}
	q := text[0]
	inner := text[1 : len(text)-1]
	switch q {
	case '\'':
		inner = strings.ReplaceAll(inner, "''", "'")
	case '"':
		inner = strings.ReplaceAll(inner, `""`, `"`)
	}
	return inner, true
}

func isQuoted(text string) bool {
	if len(text) < 2 {
		return false
	}
	q := text[0]
	return (q == '\'' || q == '"') && text[len(text)-1] == q
}

func isNumeric(text string) bool {
	if text == "" {
		return false
	}
	c := text[0]
	if c != '+' && c != '-' && c != '.' && (c < '0' || c > '9') {
		return false
	}
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return true
	}
	_, err := strconv.ParseFloat(text, 64)
	return err == nil
}

func isBareIdent(name string) bool {
	if name == "" || reservedKeywords[name] {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// reservedKeywords is PostgreSQL's fully reserved keyword set. These
// names need double quotes even when already lower-case; unreserved and
// type/function keywords stay bare since the grammar accepts them as
// column names.
var reservedKeywords = map[string]bool{
	"all": true, "analyse": true, "analyze": true, "and": true,
	"any": true, "array": true, "as": true, "asc": true,
	"asymmetric": true, "both": true, "case": true, "cast": true,
	"check": true, "collate": true, "column": true, "constraint": true,
	"create": true, "current_catalog": true, "current_date": true,
	"current_role": true, "current_time": true, "current_timestamp": true,
	"current_user": true, "default": true, "deferrable": true,
	"desc": true, "distinct": true, "do": true, "else": true,
	"end": true, "except": true, "false": true, "fetch": true,
	"for": true, "foreign": true, "from": true, "grant": true,
	"group": true, "having": true, "in": true, "initially": true,
	"intersect": true, "into": true, "lateral": true, "leading": true,
	"limit": true, "localtime": true, "localtimestamp": true,
	"not": true, "null": true, "offset": true, "on": true,
	"only": true, "or": true, "order": true, "placing": true,
	"primary": true, "references": true, "returning": true,
	"select": true, "session_user": true, "some": true,
	"symmetric": true, "system_user": true, "table": true,
	"then": true, "to": true, "trailing": true, "true": true,
	"union": true, "unique": true, "user": true, "using": true,
	"variadic": true, "when": true, "where": true, "window": true,
	"with": true,
}
