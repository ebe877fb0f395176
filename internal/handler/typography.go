package handler

import (
	"github.com/alexisbeaulieu97/livepreview/internal/binding"
	"github.com/alexisbeaulieu97/livepreview/internal/script"
)

// FontProperty pairs a CSS property with the preamble variable holding its value.
type FontProperty struct {
	Property string
	Var      string
}

// FontProperties lists the declarations a typography binding can emit, in emission order.
var FontProperties = []FontProperty{
	{Property: "font-family", Var: "fontFamily"},
	{Property: "font-size", Var: "fontSize"},
	{Property: "line-height", Var: "lineHeight"},
	{Property: "letter-spacing", Var: "letterSpacing"},
	{Property: "word-spacing", Var: "wordSpacing"},
	{Property: "text-align", Var: "textAlign"},
	{Property: "text-transform", Var: "textTransform"},
	{Property: "color", Var: "color"},
	{Property: "font-weight", Var: "fontWeight"},
	{Property: "font-style", Var: "fontStyle"},
}

const fontFamily = "font-family"

// Typography writes font declarations from a typography value decomposed by
// TypographyPreamble.
type Typography struct{}

func (Typography) Handle(b binding.Binding) Output {
	css := CSSVar(b.Index)
	stmts := []script.Stmt{script.Var(css, script.Lit(""))}

	props := FontProperties
	if p, ok := lookupFontProperty(b.Choice); ok {
		props = []FontProperty{p}
	}
	if props[0].Property == fontFamily {
		stmts = append(stmts, loadFont())
	}
	for _, p := range props {
		stmts = append(stmts, script.AddAssign(css, script.Cond(
			script.StrictNe(script.Lit(""), script.Ident(p.Var)),
			script.Concat(script.Lit(b.Selector+"{"+p.Property+":"), script.Ident(p.Var), script.Lit(";}")),
			script.Lit(""),
		)))
	}
	if b.MediaQuery != "" {
		stmts = append(stmts, script.Assign(css, inMediaQuery(b.MediaQuery, script.Ident(css))))
	}

	return Output{Statements: stmts, Fragment: script.Ident(css)}
}

func lookupFontProperty(property string) (FontProperty, bool) {
	for _, p := range FontProperties {
		if p.Property == property {
			return p, true
		}
	}
	return FontProperty{}, false
}

// TypographyPreamble decomposes the new value into the variables read by typography
// bindings. It runs once per change, before any binding.
func TypographyPreamble() []script.Stmt {
	stmts := []script.Stmt{
		script.Var("fontFamily", pick("font-family", script.Lit(""))),
		script.Var("variant", script.Call(script.Ident("String"), pick("variant", script.Lit("400")))),
		script.Var("subsets", pick("subsets", script.Array{})),
		script.Var("subsetsString", script.Cond(
			script.And(script.Call(script.Ident("_.isObject"), script.Ident("subsets")), script.Member(script.Ident("subsets"), "length")),
			script.Concat(script.Lit(":"), script.Method(script.Ident("subsets"), "join", script.Lit(","))),
			script.Lit(""),
		)),
	}
	for _, p := range FontProperties[1:8] {
		stmts = append(stmts, script.Var(p.Var, pick(p.Property, script.Lit(""))))
	}

	digits := script.Method(script.Ident("variant"), "match", script.Raw(`/\d/g`))
	stmts = append(stmts,
		script.Var("fontWeight", script.Cond(digits, script.Method(digits, "join", script.Lit("")), script.Lit("400"))),
		script.Var("fontStyle", script.Cond(
			script.StrictNe(script.Raw("-1"), script.Method(script.Ident("variant"), "indexOf", script.Lit("italic"))),
			script.Lit("italic"),
			script.Lit("normal"),
		)),
	)
	return stmts
}

func pick(key string, fallback script.Expr) script.Expr {
	field := script.Index(script.Ident(NewValue), script.Lit(key))
	return script.Cond(script.Call(script.Ident("_.isUndefined"), field), fallback, field)
}

// loadFont injects a script tag requesting the current family and variant from the web
// font loader, when the page provides one.
func loadFont() script.Stmt {
	tag := script.Concat(
		script.Lit(`<script>if('undefined'!==typeof WebFont){WebFont.load({google:{families:["`),
		script.Method(script.Ident("fontFamily"), "replace", script.Raw(`/"/g`), script.Lit("&quot;")),
		script.Lit(":"),
		script.Ident("variant"),
		script.Ident("subsetsString"),
		script.Lit(`"]}});}</script>`),
	)
	return script.If(
		script.StrictNe(script.Lit(""), script.Ident("fontFamily")),
		script.Do(script.Method(script.Call(script.Ident("jQuery"), script.Lit("head")), "append", tag)),
	)
}
