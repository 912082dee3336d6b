package fallback

import "strings"

type scanState int

const (
	stateNormal scanState = iota
	stateSingleQuote
	stateDoubleQuote
)

// scanGroups returns the top-level parenthesized spans of a VALUES
// tail. Parens and commas inside quoted runs are literal, and nested
// parens stay inside their group.
func scanGroups(tail string) []string {
	var groups []string
	state := stateNormal
	depth := 0
	start := -1

	for i := 0; i < len(tail); i++ {
		c := tail[i]
		switch state {
		case stateNormal:
			switch c {
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			case '(':
				if depth == 0 {
					start = i + 1
				}
				depth++
			case ')':
				if depth > 0 {
					depth--
					if depth == 0 {
						groups = append(groups, tail[start:i])
						start = -1
					}
				}
			}

		case stateSingleQuote:
			if c == '\'' {
				if i+1 < len(tail) && tail[i+1] == '\'' {
					i++
					continue
				}
				state = stateNormal
			}

		case stateDoubleQuote:
			if c == '"' {
				if i+1 < len(tail) && tail[i+1] == '"' {
					i++
					continue
				}
				state = stateNormal
			}
		}
	}
	return groups
}

// scanFields splits one value group on top-level commas. A doubled
// quote inside a same-kind run is the escaped-quote convention and
// stays in the run.
func scanFields(group string) []string {
	var fields []string
	var field strings.Builder
	state := stateNormal

	for i := 0; i < len(group); i++ {
		c := group[i]
		switch state {
		case stateNormal:
			switch c {
			case ',':
				fields = append(fields, field.String())
				field.Reset()
				continue
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
			field.WriteByte(c)

		case stateSingleQuote:
			field.WriteByte(c)
			if c == '\'' {
				if i+1 < len(group) && group[i+1] == '\'' {
					field.WriteByte('\'')
					i++
					continue
				}
				state = stateNormal
			}

		case stateDoubleQuote:
			field.WriteByte(c)
			if c == '"' {
				if i+1 < len(group) && group[i+1] == '"' {
					field.WriteByte('"')
					i++
					continue
				}
				state = stateNormal
			}
		}
	}
	fields = append(fields, field.String())
	return fields
}
