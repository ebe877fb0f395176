package script

import (
	"strings"
)

// Stmt is a JavaScript statement.
type Stmt interface {
	emit(b *strings.Builder)
}

type assign struct {
	decl  bool
	name  string
	op    string
	value Expr
}

// Var renders var name=value;
func Var(name string, value Expr) Stmt { return assign{decl: true, name: name, op: "=", value: value} }

// Assign renders name=value;
func Assign(name string, value Expr) Stmt { return assign{name: name, op: "=", value: value} }

// AddAssign renders name+=value;
func AddAssign(name string, value Expr) Stmt { return assign{name: name, op: "+=", value: value} }

func (a assign) emit(b *strings.Builder) {
	if a.decl {
		b.WriteString("var ")
	}
	b.WriteString(a.name)
	b.WriteString(a.op)
	a.value.emit(b)
	b.WriteByte(';')
}

type exprStmt struct {
	e Expr
}

// Do renders an expression statement.
func Do(e Expr) Stmt { return exprStmt{e: e} }

func (s exprStmt) emit(b *strings.Builder) {
	s.e.emit(b)
	b.WriteByte(';')
}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	Test Expr
	Then []Stmt
	Else []Stmt
}

// If renders if(test){then...}.
func If(test Expr, then ...Stmt) IfStmt { return IfStmt{Test: test, Then: then} }

// Otherwise returns the conditional with an else branch attached.
func (s IfStmt) Otherwise(els ...Stmt) IfStmt {
	s.Else = els
	return s
}

func (s IfStmt) emit(b *strings.Builder) {
	b.WriteString("if(")
	s.Test.emit(b)
	b.WriteString("){")
	emitBlock(b, s.Then)
	b.WriteByte('}')
	if len(s.Else) > 0 {
		b.WriteString("else{")
		emitBlock(b, s.Else)
		b.WriteByte('}')
	}
}

// Block groups statements without braces.
type Block []Stmt

func (bl Block) emit(b *strings.Builder) { emitBlock(b, bl) }

func emitBlock(b *strings.Builder, stmts []Stmt) {
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.emit(b)
		}
	}
}

// Render serializes statements into script text.
func Render(stmts ...Stmt) string {
	var b strings.Builder
	emitBlock(&b, stmts)
	return b.String()
}

// RenderExpr serializes a single expression.
func RenderExpr(e Expr) string {
	var b strings.Builder
	e.emit(&b)
	return b.String()
}
