// Package sqltext performs the lexical work on raw SQL files: splitting
// into statements and locating clauses, without a full parse. The
// scanner understands quoted runs and comments, so semicolons and
// comment markers inside string literals never confuse it.
package sqltext

import "strings"

// Fragment is one statement span of a file. Clean is the
// comment-stripped text handed to the parser; Raw is the original span
// (comments included) kept for verbatim regeneration. Neither includes
// the terminating semicolon.
type Fragment struct {
	Clean string
	Raw   string
}

type scanState int

const (
	stateNormal scanState = iota
	stateLineComment
	stateBlockComment
	stateSingleQuote
	stateDoubleQuote
)

// Split cuts a SQL file into statement fragments on top-level
// semicolons. Fragments that are empty once comments are stripped are
// dropped; the order of the result is the statement index every edit
// operation addresses.
func Split(text string) []Fragment {
	var frags []Fragment
	var clean, raw strings.Builder
	state := stateNormal

	flush := func() {
		f := Fragment{
			Clean: strings.TrimSpace(clean.String()),
			Raw:   strings.TrimSpace(raw.String()),
		}
		clean.Reset()
		raw.Reset()
		if f.Clean != "" {
			frags = append(frags, f)
		}
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch state {
		case stateNormal:
			switch {
			case c == ';':
				flush()
				continue
			case c == '-' && i+1 < len(text) && text[i+1] == '-':
				state = stateLineComment
				raw.WriteByte(c)
				continue
			case c == '/' && i+1 < len(text) && text[i+1] == '*':
				state = stateBlockComment
				clean.WriteByte(' ')
				raw.WriteByte(c)
				continue
			case c == '\'':
				state = stateSingleQuote
			case c == '"':
				state = stateDoubleQuote
			}
			clean.WriteByte(c)
			raw.WriteByte(c)

		case stateLineComment:
			raw.WriteByte(c)
			if c == '\n' {
				state = stateNormal
				clean.WriteByte(c)
			}

		case stateBlockComment:
			raw.WriteByte(c)
			if c == '*' && i+1 < len(text) && text[i+1] == '/' {
				raw.WriteByte('/')
				i++
				state = stateNormal
			}

		case stateSingleQuote:
			clean.WriteByte(c)
			raw.WriteByte(c)
			if c == '\'' {
				if i+1 < len(text) && text[i+1] == '\'' {
					clean.WriteByte('\'')
					raw.WriteByte('\'')
					i++
					continue
				}
				state = stateNormal
			}

		case stateDoubleQuote:
			clean.WriteByte(c)
			raw.WriteByte(c)
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					clean.WriteByte('"')
					raw.WriteByte('"')
					i++
					continue
				}
				state = stateNormal
			}
		}
	}
	flush()
	return frags
}
