// Package sqlast wraps the PostgreSQL parser behind a single-statement
// API with typed failures. Everything downstream that needs grammar
// knowledge goes through here; the rest of the engine never imports the
// parser directly for error handling.
package sqlast

import (
	"errors"
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/pganalyze/pg_query_go/v6/parser"
)

type FailureKind int

const (
	FailureSyntax FailureKind = iota
	FailureArityMismatch
)

// ArityMismatchMessage is the failure text for INSERT statements whose
// VALUES rows do not match the declared column list.
const ArityMismatchMessage = "column count doesn't match value count"

// ParseError is a typed parse failure. Position is the byte offset
// reported by the parser, 0 when unknown.
type ParseError struct {
	Kind     FailureKind
	Message  string
	Position int
}

func (e *ParseError) Error() string {
	if e.Position > 0 {
		return fmt.Sprintf("%s (at %d)", e.Message, e.Position)
	}
	return e.Message
}

// IsArityMismatch reports whether err is an INSERT column/value count
// failure, the condition that routes a statement to lexical recovery.
func IsArityMismatch(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == FailureArityMismatch
}

// ParseStatement parses exactly one SQL statement. An InsertStmt with a
// declared column list is additionally checked for row arity: the raw
// grammar accepts mismatched rows (PostgreSQL itself rejects them later,
// during analysis), so the check happens here to keep the one-statement
// contract strict.
func ParseStatement(sql string) (*pg_query.RawStmt, error) {
	res, err := pg_query.Parse(sql)
	if err != nil {
		return nil, syntaxError(err)
	}
	switch len(res.Stmts) {
	case 0:
		return nil, &ParseError{Kind: FailureSyntax, Message: "empty statement"}
	case 1:
	default:
		return nil, &ParseError{Kind: FailureSyntax, Message: fmt.Sprintf("expected one statement, found %d", len(res.Stmts))}
	}
	raw := res.Stmts[0]
	if ins := raw.GetStmt().GetInsertStmt(); ins != nil {
		if err := checkInsertArity(ins); err != nil {
			return nil, err
		}
	}
	return raw, nil
}

// Validate reports whether sql parses as one well-formed statement.
func Validate(sql string) error {
	_, err := ParseStatement(sql)
	return err
}

// Fingerprint returns the parser's normalized statement fingerprint,
// used as a cache-key component that ignores whitespace and literals.
func Fingerprint(sql string) (string, error) {
	return pg_query.Fingerprint(sql)
}

// DeparseExpr renders a single expression node back to SQL by deparsing
// it as the target of a bare SELECT.
func DeparseExpr(expr *pg_query.Node) (string, error) {
	res := &pg_query.ParseResult{
		Stmts: []*pg_query.RawStmt{{
			Stmt: &pg_query.Node{Node: &pg_query.Node_SelectStmt{
				SelectStmt: &pg_query.SelectStmt{
					TargetList: []*pg_query.Node{{
						Node: &pg_query.Node_ResTarget{ResTarget: &pg_query.ResTarget{Val: expr}},
					}},
				},
			}},
		}},
	}
	out, err := pg_query.Deparse(res)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(out, "SELECT "), nil
}

func checkInsertArity(ins *pg_query.InsertStmt) error {
	cols := len(ins.GetCols())
	if cols == 0 {
		return nil
	}
	sel := ins.GetSelectStmt().GetSelectStmt()
	if sel == nil {
		return nil
	}
	for _, row := range sel.GetValuesLists() {
		items := row.GetList().GetItems()
		if len(items) != cols {
			return &ParseError{Kind: FailureArityMismatch, Message: ArityMismatchMessage}
		}
	}
	return nil
}

func syntaxError(err error) *ParseError {
	var pgErr *parser.Error
	if errors.As(err, &pgErr) {
		return &ParseError{Kind: FailureSyntax, Message: pgErr.Message, Position: pgErr.Cursorpos}
	}
	return &ParseError{Kind: FailureSyntax, Message: err.Error()}
}
