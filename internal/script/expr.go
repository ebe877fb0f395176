package script

import (
	"strings"
)

// Expr is a JavaScript expression.
type Expr interface {
	emit(b *strings.Builder)
}

// Lit is a string literal.
type Lit string

func (l Lit) emit(b *strings.Builder) { writeQuoted(b, string(l)) }

// Ident is an identifier or dotted member path emitted verbatim.
type Ident string

func (i Ident) emit(b *strings.Builder) { b.WriteString(string(i)) }

// Raw is trusted code emitted verbatim, such as a regular expression or JSON literal.
type Raw string

func (r Raw) emit(b *strings.Builder) { b.WriteString(string(r)) }

type concat []Expr

// Concat joins parts with the string concatenation operator. Adjacent literals are merged
// and empty literals dropped. When the first two operands are both non-literal an empty
// string is kept in front so the result is always a string.
func Concat(parts ...Expr) Expr {
	var flat []Expr
	for _, part := range parts {
		if nested, ok := part.(concat); ok {
			flat = append(flat, nested...)
			continue
		}
		if part != nil {
			flat = append(flat, part)
		}
	}

	var merged []Expr
	for _, part := range flat {
		lit, isLit := part.(Lit)
		if isLit && lit == "" {
			continue
		}
		if isLit && len(merged) > 0 {
			if prev, ok := merged[len(merged)-1].(Lit); ok {
				merged[len(merged)-1] = prev + lit
				continue
			}
		}
		merged = append(merged, part)
	}

	switch len(merged) {
	case 0:
		return Lit("")
	case 1:
		return merged[0]
	}

	_, firstLit := merged[0].(Lit)
	_, secondLit := merged[1].(Lit)
	if !firstLit && !secondLit {
		merged = append([]Expr{Lit("")}, merged...)
	}
	return concat(merged)
}

func (c concat) emit(b *strings.Builder) {
	for i, part := range c {
		if i > 0 {
			b.WriteByte('+')
		}
		emitOperand(b, part)
	}
}

type binary struct {
	op   string
	l, r Expr
}

func (e binary) emit(b *strings.Builder) {
	emitOperand(b, e.l)
	b.WriteString(e.op)
	emitOperand(b, e.r)
}

// StrictEq renders a===b.
func StrictEq(a, b Expr) Expr { return binary{op: "===", l: a, r: b} }

// StrictNe renders a!==b.
func StrictNe(a, b Expr) Expr { return binary{op: "!==", l: a, r: b} }

// Or renders a||b.
func Or(a, b Expr) Expr { return binary{op: "||", l: a, r: b} }

// And renders a&&b.
func And(a, b Expr) Expr { return binary{op: "&&", l: a, r: b} }

type ternary struct {
	cond, then, els Expr
}

// Cond renders (cond)?then:els.
func Cond(cond, then, els Expr) Expr { return ternary{cond: cond, then: then, els: els} }

func (t ternary) emit(b *strings.Builder) {
	b.WriteByte('(')
	t.cond.emit(b)
	b.WriteString(")?")
	emitOperand(b, t.then)
	b.WriteByte(':')
	emitOperand(b, t.els)
}

type call struct {
	fn   Expr
	args []Expr
}

// Call renders fn(args...).
func Call(fn Expr, args ...Expr) Expr { return call{fn: fn, args: args} }

// Method renders recv.name(args...).
func Method(recv Expr, name string, args ...Expr) Expr {
	return call{fn: member{obj: recv, name: name}, args: args}
}

func (c call) emit(b *strings.Builder) {
	emitOperand(b, c.fn)
	b.WriteByte('(')
	for i, arg := range c.args {
		if i > 0 {
			b.WriteByte(',')
		}
		arg.emit(b)
	}
	b.WriteByte(')')
}

type member struct {
	obj  Expr
	name string
}

// Member renders obj.name.
func Member(obj Expr, name string) Expr { return member{obj: obj, name: name} }

func (m member) emit(b *strings.Builder) {
	emitOperand(b, m.obj)
	b.WriteByte('.')
	b.WriteString(m.name)
}

type index struct {
	obj, key Expr
}

// Index renders obj[key].
func Index(obj, key Expr) Expr { return index{obj: obj, key: key} }

func (i index) emit(b *strings.Builder) {
	emitOperand(b, i.obj)
	b.WriteByte('[')
	i.key.emit(b)
	b.WriteByte(']')
}

type unary struct {
	op string
	e  Expr
}

// Not renders !e.
func Not(e Expr) Expr { return unary{op: "!", e: e} }

// Typeof renders typeof e.
func Typeof(e Expr) Expr { return unary{op: "typeof ", e: e} }

func (u unary) emit(b *strings.Builder) {
	b.WriteString(u.op)
	emitOperand(b, u.e)
}

// Array renders [elems...].
type Array []Expr

func (a Array) emit(b *strings.Builder) {
	b.WriteByte('[')
	for i, elem := range a {
		if i > 0 {
			b.WriteByte(',')
		}
		elem.emit(b)
	}
	b.WriteByte(']')
}

type function struct {
	params []string
	body   []Stmt
}

// Func renders an anonymous function expression.
func Func(params []string, body ...Stmt) Expr { return function{params: params, body: body} }

func (f function) emit(b *strings.Builder) {
	b.WriteString("function(")
	b.WriteString(strings.Join(f.params, ","))
	b.WriteString("){")
	emitBlock(b, f.body)
	b.WriteByte('}')
}

// emitOperand parenthesizes compound expressions used as operands.
func emitOperand(b *strings.Builder, e Expr) {
	switch e.(type) {
	case concat, binary, ternary, unary:
		b.WriteByte('(')
		e.emit(b)
		b.WriteByte(')')
	default:
		e.emit(b)
	}
}
