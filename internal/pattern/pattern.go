// Package pattern expands value templates into script that rebuilds a bound value at runtime.
package pattern

import (
	"strings"

	"github.com/alexisbeaulieu97/livepreview/internal/descriptor"
	"github.com/alexisbeaulieu97/livepreview/internal/script"
)

// Sentinel marks where the bound value is substituted into a template.
const Sentinel = "$"

// SettingsVar holds the snapshot of all setting values read by placeholder references.
const SettingsVar = "settings"

// segment is either literal template text or an already compiled expression.
type segment struct {
	text string
	expr script.Expr
}

// Expand compiles template into statements assigning the expanded value back to target.
// Replacements apply in order and only to literal template text, so text inserted by one
// entry is never rewritten by a later entry or by the sentinel. An empty template yields
// no statements.
func Expand(target, template string, replacements []descriptor.Replacement) []script.Stmt {
	if template == "" {
		return nil
	}

	segments := []segment{{text: template}}
	referenced := false
	for _, r := range replacements {
		if r.Placeholder == "" {
			continue
		}
		ref := script.Index(script.Ident(SettingsVar), script.Lit(r.Setting))
		var hit bool
		segments, hit = splitLiterals(segments, r.Placeholder, ref)
		referenced = referenced || hit
	}
	segments, _ = splitLiterals(segments, Sentinel, script.Ident(target))

	parts := make([]script.Expr, 0, len(segments))
	for _, seg := range segments {
		if seg.expr != nil {
			parts = append(parts, seg.expr)
			continue
		}
		parts = append(parts, script.Lit(seg.text))
	}

	var stmts []script.Stmt
	if referenced {
		stmts = append(stmts, script.Var(SettingsVar, script.Method(script.Ident("window.wp.customize"), "get")))
	}
	return append(stmts, script.Assign(target, script.Concat(parts...)))
}

// splitLiterals replaces every occurrence of needle inside literal segments with expr.
func splitLiterals(in []segment, needle string, expr script.Expr) ([]segment, bool) {
	out := make([]segment, 0, len(in))
	hit := false
	for _, seg := range in {
		if seg.expr != nil || !strings.Contains(seg.text, needle) {
			out = append(out, seg)
			continue
		}
		hit = true
		pieces := strings.Split(seg.text, needle)
		for i, piece := range pieces {
			if i > 0 {
				out = append(out, segment{expr: expr})
			}
			if piece != "" {
				out = append(out, segment{text: piece})
			}
		}
	}
	return out, hit
}

// Overlapping returns pairs of placeholders where the first contains the second. Such
// entries depend on declaration order to expand as intended.
func Overlapping(replacements []descriptor.Replacement) [][2]string {
	var pairs [][2]string
	for i, a := range replacements {
		for j, b := range replacements {
			if i == j || a.Placeholder == "" || b.Placeholder == "" {
				continue
			}
			if strings.Contains(a.Placeholder, b.Placeholder) && (a.Placeholder != b.Placeholder || i < j) {
				pairs = append(pairs, [2]string{a.Placeholder, b.Placeholder})
			}
		}
	}
	return pairs
}
