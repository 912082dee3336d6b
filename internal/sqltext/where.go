package sqltext

import "strings"

// WhereText returns the raw source text of a statement's top-level
// WHERE condition, or "" when it has none. The keyword is matched
// outside strings, comments, and parentheses, so a WHERE belonging to a
// subquery or sitting inside a literal is never picked up. The returned
// text keeps the source spelling of the condition.
func WhereText(stmt string) string {
	state := stateNormal
	depth := 0

	for i := 0; i < len(stmt); i++ {
		c := stmt[i]
		switch state {
		case stateNormal:
			switch {
			case c == '-' && i+1 < len(stmt) && stmt[i+1] == '-':
				state = stateLineComment
			case c == '/' && i+1 < len(stmt) && stmt[i+1] == '*':
				state = stateBlockComment
				i++
			case c == '\'':
				state = stateSingleQuote
			case c == '"':
				state = stateDoubleQuote
			case c == '(':
				depth++
			case c == ')':
				if depth > 0 {
					depth--
				}
			case depth == 0 && (c == 'w' || c == 'W') && isWordAt(stmt, i, "where"):
				tail := strings.TrimSpace(stmt[i+len("where"):])
				return strings.TrimSpace(strings.TrimSuffix(tail, ";"))
			}

		case stateLineComment:
			if c == '\n' {
				state = stateNormal
			}

		case stateBlockComment:
			if c == '*' && i+1 < len(stmt) && stmt[i+1] == '/' {
				i++
				state = stateNormal
			}

		case stateSingleQuote:
			if c == '\'' {
				if i+1 < len(stmt) && stmt[i+1] == '\'' {
					i++
					continue
				}
				state = stateNormal
			}

		case stateDoubleQuote:
			if c == '"' {
				if i+1 < len(stmt) && stmt[i+1] == '"' {
					i++
					continue
				}
				state = stateNormal
			}
		}
	}
	return ""
}

// isWordAt reports whether word starts at position i with non-ident
// characters (or the text boundary) on both sides.
func isWordAt(text string, i int, word string) bool {
	if i+len(word) > len(text) {
		return false
	}
	if !strings.EqualFold(text[i:i+len(word)], word) {
		return false
	}
	if i > 0 && isIdentByte(text[i-1]) {
		return false
	}
	if i+len(word) < len(text) && isIdentByte(text[i+len(word)]) {
		return false
	}
	return true
}

func isIdentByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
	case c >= 'A' && c <= 'Z':
	case c >= '0' && c <= '9':
	case c == '_':
	default:
		return false
	}
	return true
}
