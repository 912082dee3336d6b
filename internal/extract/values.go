package extract

import (
	"strconv"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/maraichr/sqlgrid/internal/sqlast"
	"github.com/maraichr/sqlgrid/pkg/models"
)

// scalarFromExpr normalizes a value expression into a scalar. Constants
// map onto the four kinds, casts unwrap to their inner literal, and
// everything else (function calls, parameters, DEFAULT) survives as the
// expression's SQL text. This never fails; the worst case is a string
// scalar of the rendered expression.
func scalarFromExpr(node *pg_query.Node) models.Scalar {
	if node == nil {
		return models.NullScalar()
	}
	if ac := node.GetAConst(); ac != nil {
		return scalarFromConst(ac)
	}
	if tc := node.GetTypeCast(); tc != nil {
		return scalarFromExpr(tc.Arg)
	}
	if node.GetSetToDefault() != nil {
		return models.StringScalar("DEFAULT")
	}
	return models.StringScalar(exprText(node))
}

func scalarFromConst(ac *pg_query.A_Const) models.Scalar {
	if ac.GetIsnull() {
		return models.NullScalar()
	}
	switch {
	case ac.GetBoolval() != nil:
		return models.BoolScalar(ac.GetBoolval().GetBoolval())
	case ac.GetIval() != nil:
		return models.NumberScalar(strconv.FormatInt(int64(ac.GetIval().GetIval()), 10))
	case ac.GetFval() != nil:
		return models.NumberScalar(ac.GetFval().GetFval())
	case ac.GetSval() != nil:
		return models.StringScalar(ac.GetSval().GetSval())
	case ac.GetBsval() != nil:
		return models.StringScalar(ac.GetBsval().GetBsval())
	}
	return models.NullScalar()
}

func exprText(node *pg_query.Node) string {
	out, err := sqlast.DeparseExpr(node)
	if err != nil {
		return "expr"
	}
	return strings.TrimSpace(out)
}
