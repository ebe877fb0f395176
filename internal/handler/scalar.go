package handler

import (
	"github.com/alexisbeaulieu97/livepreview/internal/binding"
	"github.com/alexisbeaulieu97/livepreview/internal/pattern"
	"github.com/alexisbeaulieu97/livepreview/internal/script"
)

// Scalar writes a single declaration built from the whole value.
type Scalar struct{}

func (Scalar) Handle(b binding.Binding) Output {
	value := ValueVar(b.Index)

	stmts := bindValue(value, b.Callback)
	stmts = append(stmts, pattern.Expand(value, b.ValuePattern, b.Replacements)...)
	if b.Property == backgroundImage {
		stmts = append(stmts, wrapURL(value))
	}

	decl := script.Concat(
		script.Lit(b.Selector+"{"+b.Property+":"+b.Prefix),
		script.Ident(value),
		script.Lit(b.Units+b.Suffix+";}"),
	)
	return Output{Statements: stmts, Fragment: inMediaQuery(b.MediaQuery, decl)}
}
