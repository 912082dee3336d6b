package extract

import (
	"fmt"

	"github.com/maraichr/sqlgrid/pkg/models"
)

// Reconcile forces every row to the declared column width so the grid
// is always rectangular: long rows truncate, short rows pad with empty
// strings. When no columns were declared, names are synthesized from
// the widest row. Idempotent.
func Reconcile(columns []string, rows [][]models.Scalar) ([]string, [][]models.Scalar) {
	if len(columns) == 0 && len(rows) > 0 {
		width := 0
		for _, row := range rows {
			if len(row) > width {
				width = len(row)
			}
		}
		columns = make([]string, width)
		for i := range columns {
			columns[i] = fmt.Sprintf("column%d", i+1)
		}
	}
	for i, row := range rows {
		switch {
		case len(row) > len(columns):
			rows[i] = row[:len(columns)]
		case len(row) < len(columns):
			padded := make([]models.Scalar, len(columns))
			copy(padded, row)
			for j := len(row); j < len(columns); j++ {
				padded[j] = models.StringScalar("")
			}
			rows[i] = padded
		}
	}
	return columns, rows
}
