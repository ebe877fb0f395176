package handler

import (
	"github.com/alexisbeaulieu97/livepreview/internal/binding"
	"github.com/alexisbeaulieu97/livepreview/internal/pattern"
	"github.com/alexisbeaulieu97/livepreview/internal/script"
)

const (
	subValue = "subValue"
	subKey   = "subKey"
)

// Composite writes one declaration per entry of an object value, such as the edges of a
// dimensions control or the parts of a background.
type Composite struct{}

func (Composite) Handle(b binding.Binding) Output {
	value := ValueVar(b.Index)
	css := CSSVar(b.Index)

	stmts := bindValue(value, b.Callback)
	stmts = append(stmts, script.Var(css, script.Lit("")))

	var body []script.Stmt
	if b.Choice != "" {
		branch := transformSubValue(b)
		branch = append(branch, script.AddAssign(css, declaration(b, script.Lit(choiceProperty(b)))))
		body = []script.Stmt{script.If(script.StrictEq(script.Lit(b.Choice), script.Ident(subKey)), branch...)}
	} else {
		body = transformSubValue(b)
		body = append(body, script.If(
			script.Call(script.Ident("_.contains"), directionList(), script.Ident(subKey)),
			script.AddAssign(css, declaration(b, script.Concat(script.Lit(b.Property+"-"), script.Ident(subKey)))),
		).Otherwise(
			script.AddAssign(css, declaration(b, script.Ident(subKey))),
		))
	}

	stmts = append(stmts, script.Do(script.Call(
		script.Ident("_.each"),
		script.Ident(value),
		script.Func([]string{subValue, subKey}, body...),
	)))
	if b.MediaQuery != "" {
		stmts = append(stmts, script.Assign(css, inMediaQuery(b.MediaQuery, script.Ident(css))))
	}

	return Output{Statements: stmts, Fragment: script.Ident(css)}
}

// transformSubValue applies the value template and the background-image url rule to the
// iterated sub-value.
func transformSubValue(b binding.Binding) []script.Stmt {
	stmts := pattern.Expand(subValue, b.ValuePattern, b.Replacements)
	switch {
	case b.Property == backgroundImage || b.Choice == backgroundImage:
		stmts = append(stmts, wrapURL(subValue))
	case b.Choice == "":
		stmts = append(stmts, script.If(script.StrictEq(script.Lit(backgroundImage), script.Ident(subKey)), wrapURL(subValue)))
	}
	return stmts
}

// choiceProperty names the declaration emitted for a restricted sub-key.
func choiceProperty(b binding.Binding) string {
	switch {
	case b.Property == "":
		return b.Choice
	case directional(b.Choice):
		return b.Property + "-" + b.Choice
	default:
		return b.Property
	}
}

func declaration(b binding.Binding, property script.Expr) script.Expr {
	return script.Concat(
		script.Lit(b.Selector+"{"),
		property,
		script.Lit(":"+b.Prefix),
		script.Ident(subValue),
		script.Lit(b.Units+b.Suffix+";}"),
	)
}

func directionList() script.Expr {
	list := make(script.Array, 0, len(directions))
	for _, d := range directions {
		list = append(list, script.Lit(d))
	}
	return list
}
