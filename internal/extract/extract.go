// Package extract turns SQL text into grid models: it splits the file,
// parses each statement, and walks the AST into the uniform Statement
// shape. Statements the parser rejects are either recovered lexically
// (INSERT arity mismatches) or preserved as unknown rather than
// dropped.
package extract

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/maraichr/sqlgrid/internal/fallback"
	"github.com/maraichr/sqlgrid/internal/sqlast"
	"github.com/maraichr/sqlgrid/internal/sqltext"
	"github.com/maraichr/sqlgrid/pkg/models"
)

// Document parses a whole SQL file into its grid model. The result
// always contains one statement per non-empty fragment; Success flips
// false and Error records the first failure when any fragment could not
// be parsed or recovered.
func Document(text string) models.Document {
	frags := sqltext.Split(text)
	doc := models.Document{
		Statements: make([]models.Statement, 0, len(frags)),
		Raw:        text,
		Success:    true,
	}
	for _, frag := range frags {
		stmt, err := statement(frag)
		if err != nil && doc.Success {
			doc.Success = false
			doc.Error = err.Error()
		}
		doc.Statements = append(doc.Statements, stmt)
	}
	return doc
}

// statement extracts one fragment. On parse failure the returned model
// is still usable: a recovered insert when the failure was an arity
// mismatch, otherwise an unknown statement carrying the original text.
func statement(frag sqltext.Fragment) (models.Statement, error) {
	raw, err := sqlast.ParseStatement(frag.Clean)
	if err != nil {
		if sqlast.IsArityMismatch(err) {
			if st, ok := fallback.ParseInsert(frag.Clean); ok {
				st.Columns, st.Rows = Reconcile(st.Columns, st.Rows)
				st.RawText = frag.Raw
				return st, nil
			}
		}
		st := unknownStatement("invalid")
		st.RawText = frag.Raw
		return st, err
	}
	st := fromAST(raw, frag.Clean)
	st.RawText = frag.Raw
	return st, nil
}

func fromAST(raw *pg_query.RawStmt, clean string) models.Statement {
	node := raw.GetStmt()
	switch {
	case node.GetInsertStmt() != nil:
		return fromInsert(node.GetInsertStmt())
	case node.GetUpdateStmt() != nil:
		return fromUpdate(node.GetUpdateStmt(), clean)
	case node.GetDeleteStmt() != nil:
		return fromDelete(node.GetDeleteStmt(), clean)
	case node.GetSelectStmt() != nil:
		return fromSelect(node.GetSelectStmt())
	default:
		return unknownStatement(nodeKind(node))
	}
}

func fromInsert(ins *pg_query.InsertStmt) models.Statement {
	st := models.Statement{
		Kind:      models.StatementInsert,
		TableName: rangeVarToQualified(ins.Relation),
	}
	for _, col := range ins.Cols {
		if rt := col.GetResTarget(); rt != nil {
			st.Columns = append(st.Columns, rt.Name)
		}
	}
	if sel := ins.GetSelectStmt().GetSelectStmt(); sel != nil {
		for _, row := range sel.ValuesLists {
			items := row.GetList().GetItems()
			cells := make([]models.Scalar, 0, len(items))
			for _, item := range items {
				cells = append(cells, scalarFromExpr(item))
			}
			st.Rows = append(st.Rows, cells)
		}
	}
	st.Columns, st.Rows = Reconcile(st.Columns, st.Rows)
	return st
}

func fromUpdate(upd *pg_query.UpdateStmt, clean string) models.Statement {
	st := models.Statement{
		Kind:      models.StatementUpdate,
		TableName: rangeVarToQualified(upd.Relation),
	}
	for _, target := range upd.TargetList {
		rt := target.GetResTarget()
		if rt == nil {
			continue
		}
		st.Assignments = append(st.Assignments, models.Assignment{
			Column: rt.Name,
			Value:  scalarFromExpr(rt.Val),
		})
		st.Columns = append(st.Columns, rt.Name)
	}
	if upd.WhereClause != nil {
		st.WhereText = sqltext.WhereText(clean)
	}
	return st
}

func fromDelete(del *pg_query.DeleteStmt, clean string) models.Statement {
	st := models.Statement{
		Kind:      models.StatementDelete,
		TableName: rangeVarToQualified(del.Relation),
	}
	if del.WhereClause != nil {
		st.WhereText = sqltext.WhereText(clean)
	}
	return st
}

func fromSelect(sel *pg_query.SelectStmt) models.Statement {
	st := models.Statement{Kind: models.StatementSelect}
	for _, target := range sel.TargetList {
		rt := target.GetResTarget()
		if rt == nil {
			continue
		}
		st.Columns = append(st.Columns, selectColumnName(rt))
	}
	if len(sel.FromClause) == 1 {
		if rv := sel.FromClause[0].GetRangeVar(); rv != nil {
			st.TableName = rangeVarToQualified(rv)
		}
	}
	return st
}

// selectColumnName picks the display name for one result column: the
// alias when present, a dotted column reference, or the deparsed
// expression text.
func selectColumnName(rt *pg_query.ResTarget) string {
	if rt.Name != "" {
		return rt.Name
	}
	if cr := rt.Val.GetColumnRef(); cr != nil {
		parts := make([]string, 0, len(cr.Fields))
		for _, f := range cr.Fields {
			if s := f.GetString_(); s != nil {
				parts = append(parts, s.Sval)
			} else if f.GetAStar() != nil {
				parts = append(parts, "*")
			}
		}
		return strings.Join(parts, ".")
	}
	return exprText(rt.Val)
}

func unknownStatement(kind string) models.Statement {
	return models.Statement{
		Kind:    models.StatementUnknown,
		Columns: []string{"Type"},
		Rows:    [][]models.Scalar{{models.StringScalar(kind)}},
	}
}

func nodeKind(node *pg_query.Node) string {
	if node == nil || node.Node == nil {
		return "empty"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", node.Node), "*pg_query.Node_")
}

func rangeVarToQualified(rv *pg_query.RangeVar) string {
	if rv == nil {
		return ""
	}
	if rv.Schemaname != "" {
		return rv.Schemaname + "." + rv.Relname
	}
	return rv.Relname
}
