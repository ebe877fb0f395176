// Package handler turns normalized bindings into the statements and CSS fragments of a
// field's change procedure.
package handler

import (
	"strconv"

	"github.com/alexisbeaulieu97/livepreview/internal/binding"
	"github.com/alexisbeaulieu97/livepreview/internal/script"
)

// NewValue is the parameter carrying the setting's new value inside a change procedure.
const NewValue = "newval"

// Output is the contribution of one binding to its field's procedure.
type Output struct {
	Statements []script.Stmt
	// Fragment evaluates to CSS text at runtime. Nil when the binding writes no CSS.
	Fragment script.Expr
}

// Handler compiles one binding.
type Handler interface {
	Handle(b binding.Binding) Output
}

// For returns the handler for a binding kind.
func For(kind binding.Kind) Handler {
	switch kind {
	case binding.KindComposite:
		return Composite{}
	case binding.KindTypography:
		return Typography{}
	case binding.KindHTML:
		return HTML{}
	default:
		return Scalar{}
	}
}

// ValueVar is the per-binding copy of the new value.
func ValueVar(index int) string { return NewValue + strconv.Itoa(index) }

// CSSVar accumulates the per-binding CSS text.
func CSSVar(index int) string { return "css" + strconv.Itoa(index) }

// HTMLVar is the per-binding markup value.
func HTMLVar(index int) string { return "html" + strconv.Itoa(index) }

// bindValue copies the new value into name and applies the binding's callback to it.
func bindValue(name string, cb binding.Callback) []script.Stmt {
	stmts := []script.Stmt{script.Var(name, script.Ident(NewValue))}
	if !cb.Set() {
		return stmts
	}
	args := []script.Expr{script.Ident(name)}
	if cb.Arg != "" {
		args = append(args, script.Raw(cb.Arg))
	}
	return append(stmts, script.Assign(name, script.Call(script.Ident(cb.Name), args...)))
}

const backgroundImage = "background-image"

// wrapURL wraps name in url("...") unless it already holds a url() expression.
func wrapURL(name string) script.Stmt {
	return script.If(
		script.StrictEq(script.Raw("-1"), script.Method(script.Call(script.Ident("String"), script.Ident(name)), "indexOf", script.Lit("url("))),
		script.Assign(name, script.Concat(script.Lit(`url("`), script.Ident(name), script.Lit(`")`))),
	)
}

// inMediaQuery wraps css in a media query block when one is configured.
func inMediaQuery(mediaQuery string, css script.Expr) script.Expr {
	if mediaQuery == "" {
		return css
	}
	return script.Concat(script.Lit(mediaQuery+"{"), css, script.Lit("}"))
}

var directions = []string{"top", "bottom", "left", "right"}

func directional(key string) bool {
	for _, d := range directions {
		if d == key {
			return true
		}
	}
	return false
}
