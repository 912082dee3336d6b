// Package mcp renders document state into token-budgeted Markdown for
// agent consumption.
package mcp

import (
	"fmt"
	"strings"

	"github.com/maraichr/sqlgrid/internal/sqlvalue"
	"github.com/maraichr/sqlgrid/pkg/models"
)

const defaultMaxTokens = 4000

// ResponseBuilder constructs token-budgeted Markdown responses for MCP
// tools. Cost is estimated at four characters per token.
type ResponseBuilder struct {
	buf           strings.Builder
	tokenEstimate int
	maxTokens     int
	truncated     bool
	itemCount     int
}

// NewResponseBuilder creates a builder with the given token budget.
// If maxTokens <= 0, defaultMaxTokens is used.
func NewResponseBuilder(maxTokens int) *ResponseBuilder {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &ResponseBuilder{maxTokens: maxTokens}
}

// AddHeader writes a header line to the response.
func (rb *ResponseBuilder) AddHeader(text string) {
	line := text + "\n\n"
	rb.buf.WriteString(line)
	rb.tokenEstimate += len(line) / 4
}

// AddLine writes a single line, returning false if the budget is
// exceeded.
func (rb *ResponseBuilder) AddLine(text string) bool {
	line := text + "\n"
	cost := len(line) / 4
	if rb.tokenEstimate+cost > rb.maxTokens {
		rb.truncated = true
		return false
	}
	rb.buf.WriteString(line)
	rb.tokenEstimate += cost
	return true
}

// AddStatementCard renders one statement as a Markdown card with its
// grid table. Returns false if the card would exceed the budget.
func (rb *ResponseBuilder) AddStatementCard(idx int, st models.Statement) bool {
	card := FormatStatement(idx, st)
	cost := len(card) / 4
	if rb.tokenEstimate+cost > rb.maxTokens {
		rb.truncated = true
		return false
	}
	rb.buf.WriteString(card)
	rb.tokenEstimate += cost
	rb.itemCount++
	return true
}

// AddRawText writes raw text, respecting the budget.
func (rb *ResponseBuilder) AddRawText(text string) bool {
	cost := len(text) / 4
	if rb.tokenEstimate+cost > rb.maxTokens {
		rb.truncated = true
		return false
	}
	rb.buf.WriteString(text)
	rb.tokenEstimate += cost
	return true
}

// Finalize appends a truncation notice when needed and returns the
// final response text.
func (rb *ResponseBuilder) Finalize(totalCount, returnedCount int) string {
	if rb.truncated || returnedCount < totalCount {
		rb.buf.WriteString(fmt.Sprintf(
			"\n---\n*Showing %d of %d statements (truncated to ~%d tokens).*\n",
			returnedCount, totalCount, rb.maxTokens))
	}
	return rb.buf.String()
}

// TokenEstimate returns the current estimated token count.
func (rb *ResponseBuilder) TokenEstimate() int { return rb.tokenEstimate }

// IsTruncated returns whether the response was truncated.
func (rb *ResponseBuilder) IsTruncated() bool { return rb.truncated }

// ItemCount returns the number of statement cards added.
func (rb *ResponseBuilder) ItemCount() int { return rb.itemCount }

// FormatStatement renders one statement as a Markdown card. Inserts
// become a column-header table with one line per row, updates a
// column/value table plus the WHERE text. Cells render in SQL literal
// form, so what the agent sees is what the regenerated file will say.
func FormatStatement(idx int, st models.Statement) string {
	var b strings.Builder

	switch st.Kind {
	case models.StatementInsert:
		fmt.Fprintf(&b, "**[%d] INSERT INTO %s**", idx, st.TableName)
		if st.Fallback {
			b.WriteString(" *(lexical fallback)*")
		}
		fmt.Fprintf(&b, " — %d columns × %d rows\n", len(st.Columns), len(st.Rows))
		writeTableHeader(&b, st.Columns)
		for _, row := range st.Rows {
			writeTableRow(&b, row)
		}

	case models.StatementUpdate:
		fmt.Fprintf(&b, "**[%d] UPDATE %s**\n", idx, st.TableName)
		writeTableHeader(&b, []string{"column", "value"})
		for _, a := range st.Assignments {
			fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(a.Column), escapeCell(sqlvalue.Format(a.Value)))
		}
		if st.WhereText != "" {
			fmt.Fprintf(&b, "WHERE `%s`\n", st.WhereText)
		}

	case models.StatementDelete:
		fmt.Fprintf(&b, "**[%d] DELETE FROM %s**\n", idx, st.TableName)
		if st.WhereText != "" {
			fmt.Fprintf(&b, "WHERE `%s`\n", st.WhereText)
		}

	case models.StatementSelect:
		fmt.Fprintf(&b, "**[%d] SELECT** — %s\n", idx, strings.Join(st.Columns, ", "))
		if st.TableName != "" {
			fmt.Fprintf(&b, "FROM %s\n", st.TableName)
		}
		if st.WhereText != "" {
			fmt.Fprintf(&b, "WHERE `%s`\n", st.WhereText)
		}

	default:
		fmt.Fprintf(&b, "**[%d] statement** *(not editable as a grid)*\n", idx)
		fmt.Fprintf(&b, "```sql\n%s\n```\n", strings.TrimRight(st.RawText, "\n"))
	}

	b.WriteByte('\n')
	return b.String()
}

// FormatDocument renders a whole parse result within the token budget.
func FormatDocument(path string, doc models.Document, maxTokens int) string {
	rb := NewResponseBuilder(maxTokens)
	if !doc.Success {
		rb.AddHeader(fmt.Sprintf("**%s** — parse failed", path))
		rb.AddLine(doc.Error)
		return rb.Finalize(0, 0)
	}
	rb.AddHeader(fmt.Sprintf("**%s** — %d statements", path, len(doc.Statements)))
	shown := 0
	for i, st := range doc.Statements {
		if !rb.AddStatementCard(i, st) {
			break
		}
		shown++
	}
	return rb.Finalize(len(doc.Statements), shown)
}

func writeTableHeader(b *strings.Builder, cols []string) {
	b.WriteString("|")
	for _, c := range cols {
		fmt.Fprintf(b, " %s |", escapeCell(c))
	}
	b.WriteString("\n|")
	for range cols {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
}

func writeTableRow(b *strings.Builder, row []models.Scalar) {
	b.WriteString("|")
	for _, cell := range row {
		fmt.Fprintf(b, " %s |", escapeCell(sqlvalue.Format(cell)))
	}
	b.WriteString("\n")
}

// escapeCell keeps literal pipes from breaking the Markdown table.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
