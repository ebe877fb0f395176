package script

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Quote returns s as a single quoted JavaScript string literal that is also safe to embed in
// an inline script element.
func Quote(s string) string {
	var b strings.Builder
	writeQuoted(&b, s)
	return b.String()
}

func writeQuoted(b *strings.Builder, s string) {
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\'':
			b.WriteString(`\'`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\u2028':
			b.WriteString(`\u2028`)
		case r == '\u2029':
			b.WriteString(`\u2029`)
		case r == '<' && strings.HasPrefix(s[i:], "</"):
			b.WriteString(`<\/`)
			size = 2
		case r == '<' && strings.HasPrefix(s[i:], "<!--"):
			b.WriteString(`\x3C`)
		case r < 0x20:
			fmt.Fprintf(b, `\x%02X`, r)
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	b.WriteByte('\'')
}
