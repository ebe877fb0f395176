package compiler

import (
	"html"

	"github.com/alexisbeaulieu97/livepreview/internal/binding"
	"github.com/alexisbeaulieu97/livepreview/internal/descriptor"
	"github.com/alexisbeaulieu97/livepreview/internal/handler"
	"github.com/alexisbeaulieu97/livepreview/internal/script"
)

// CompiledField is the structured change procedure of one field. It is rendered to text
// only by Render.
type CompiledField struct {
	Setting    string
	StyleID    string
	Bindings   []binding.Binding
	Preamble   []script.Stmt
	Statements []script.Stmt
	Fragments  []script.Expr
}

// CompileField compiles an eligible field. Eligibility is not checked.
func CompileField(field descriptor.Field) CompiledField {
	bindings := binding.NormalizeField(field)
	cf := CompiledField{
		Setting:  field.Settings,
		StyleID:  field.StyleID(),
		Bindings: bindings,
	}

	if needsTypographyPreamble(field.Control(), bindings) {
		cf.Preamble = handler.TypographyPreamble()
	}
	for _, b := range bindings {
		out := handler.For(b.Kind).Handle(b)
		cf.Statements = append(cf.Statements, out.Statements...)
		if out.Fragment != nil {
			cf.Fragments = append(cf.Fragments, out.Fragment)
		}
	}
	return cf
}

func needsTypographyPreamble(control descriptor.ControlKind, bindings []binding.Binding) bool {
	if control == descriptor.ControlTypography {
		return true
	}
	for _, b := range bindings {
		if b.Kind == binding.KindTypography {
			return true
		}
	}
	return false
}

// Handlers names the handler used by each binding, in binding order.
func (c CompiledField) Handlers() []string {
	names := make([]string, 0, len(c.Bindings))
	for _, b := range c.Bindings {
		names = append(names, b.Kind.String())
	}
	return names
}

// Procedure subscribes to the field's setting. On every change it makes sure the field's
// style element exists, runs the binding statements and replaces the element's text with
// the joined CSS fragments.
func (c CompiledField) Procedure() script.Stmt {
	body := make([]script.Stmt, 0, len(c.Preamble)+len(c.Statements)+2)
	body = append(body, ensureStyleElement(c.StyleID))
	body = append(body, c.Preamble...)
	body = append(body, c.Statements...)
	body = append(body, script.Do(script.Method(
		script.Call(script.Ident("jQuery"), styleElement(c.StyleID)),
		"text",
		script.Concat(c.Fragments...),
	)))

	onChange := script.Func([]string{handler.NewValue}, body...)
	subscribe := script.Func([]string{"value"}, script.Do(script.Method(script.Ident("value"), "bind", onChange)))
	return script.Do(script.Call(script.Ident("wp.customize"), script.Lit(c.Setting), subscribe))
}

// Render serializes the procedure.
func (c CompiledField) Render() string {
	return script.Render(c.Procedure())
}

func styleElement(id string) script.Expr {
	return script.Method(script.Ident("document"), "getElementById", script.Lit(id))
}

func ensureStyleElement(id string) script.Stmt {
	missing := script.Or(
		script.StrictEq(script.Raw("null"), styleElement(id)),
		script.StrictEq(script.Lit("undefined"), script.Typeof(styleElement(id))),
	)
	tag := `<style id="` + html.EscapeString(id) + `"></style>`
	return script.If(missing, script.Do(script.Method(
		script.Call(script.Ident("jQuery"), script.Lit("head")),
		"append",
		script.Lit(tag),
	)))
}
