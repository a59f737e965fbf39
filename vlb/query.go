package vlb

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// Placeholder marks where BuildQuery inserts an argument
	Placeholder = "{}"
	// escapeChar makes the following placeholder or escape literal
	escapeChar = '\\'
)

// errDanglingEscape is wrapped by the TemplateError for a trailing escape
var errDanglingEscape = errors.New("template ends with an unfinished escape")

// booleanKeywords are the VLB operators, German and English
var booleanKeywords = map[string]struct{}{
	"und":   {},
	"and":   {},
	"oder":  {},
	"or":    {},
	"nicht": {},
	"not":   {},
}

// Sanitize quotes VLB boolean operators in s so they are searched as literal
// words. A keyword only matches as a whole whitespace-delimited token; its
// casing is kept.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	start := -1
	flush := func(end int) {
		word := s[start:end]
		if _, ok := booleanKeywords[strings.ToLower(word)]; ok {
			b.WriteByte('"')
			b.WriteString(word)
			b.WriteByte('"')
		} else {
			b.WriteString(word)
		}
		start = -1
	}

	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				flush(i)
			}
			b.WriteRune(r)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		flush(len(s))
	}

	return b.String()
}

// segment is a piece of a parsed template
type segment struct {
	text        string
	placeholder bool
}

// parseTemplate splits template into literal text and placeholders. On a
// malformed template it returns the segments read so far with the error.
func parseTemplate(template string) ([]segment, error) {
	var segments []segment
	var lit strings.Builder

	flushLiteral := func() {
		if lit.Len() > 0 {
			segments = append(segments, segment{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(template); {
		switch {
		case template[i] == escapeChar:
			rest := template[i+1:]
			switch {
			case strings.HasPrefix(rest, Placeholder):
				lit.WriteString(Placeholder)
				i += 1 + len(Placeholder)
			case strings.HasPrefix(rest, string(escapeChar)):
				lit.WriteByte(escapeChar)
				i += 2
			case rest == "":
				flushLiteral()
				return segments, errDanglingEscape
			default:
				lit.WriteByte(escapeChar)
				i++
			}
		case strings.HasPrefix(template[i:], Placeholder):
			flushLiteral()
			segments = append(segments, segment{placeholder: true})
			i += len(Placeholder)
		default:
			_, size := utf8.DecodeRuneInString(template[i:])
			lit.WriteString(template[i : i+size])
			i += size
		}
	}
	flushLiteral()

	return segments, nil
}

func countPlaceholders(segments []segment) int {
	n := 0
	for _, seg := range segments {
		if seg.placeholder {
			n++
		}
	}
	return n
}

// CountPlaceholders returns the number of unescaped placeholders in template
func CountPlaceholders(template string) int {
	segments, _ := parseTemplate(template)
	return countPlaceholders(segments)
}

// BuildQuery substitutes the sanitized args into the placeholders of
// template, left to right. The number of args must equal the number of
// unescaped placeholders.
func BuildQuery(template string, args ...string) (string, error) {
	segments, parseErr := parseTemplate(template)

	if n := countPlaceholders(segments); n != len(args) {
		return "", &Error{
			Kind:    KindArgumentCount,
			Op:      "query",
			Message: fmt.Sprintf("template has %d placeholders but %d arguments were given", n, len(args)),
		}
	}
	if parseErr != nil {
		return "", &Error{Kind: KindTemplate, Op: "query", Message: "failed to format query", Err: parseErr}
	}

	var b strings.Builder
	next := 0
	for _, seg := range segments {
		if seg.placeholder {
			b.WriteString(Sanitize(args[next]))
			next++
			continue
		}
		b.WriteString(seg.text)
	}

	return b.String(), nil
}
