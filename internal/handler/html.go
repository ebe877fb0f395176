package handler

import (
	"github.com/alexisbeaulieu97/livepreview/internal/binding"
	"github.com/alexisbeaulieu97/livepreview/internal/script"
)

// HTML writes the value into the target elements' markup or into one of their attributes.
type HTML struct{}

func (HTML) Handle(b binding.Binding) Output {
	value := HTMLVar(b.Index)
	stmts := []script.Stmt{script.Var(value, script.Ident(NewValue))}

	if b.Choice != "" {
		stmts = append(stmts, script.If(
			script.Call(script.Ident("_.isObject"), script.Ident(value)),
			script.Assign(value, script.Index(script.Ident(value), script.Lit(b.Choice))),
		))
	}

	target := script.Call(script.Ident("jQuery"), script.Lit(b.Selector))
	if b.Attr != "" {
		stmts = append(stmts, script.Do(script.Method(target, "attr", script.Lit(b.Attr), script.Ident(value))))
	} else {
		stmts = append(stmts, script.Do(script.Method(target, "html", script.Ident(value))))
	}
	return Output{Statements: stmts}
}
