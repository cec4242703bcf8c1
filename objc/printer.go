package objc

import (
	"fmt"
	"strings"
)

// printer accumulates indented Objective-C text.
type printer struct {
	sb          strings.Builder
	indent      int
	indentStr   string
	atLineStart bool
}

func newPrinter() *printer {
	return &printer{indentStr: "    ", atLineStart: true}
}

func (p *printer) writeIndent() {
	if !p.atLineStart {
		return
	}
	for i := 0; i < p.indent; i++ {
		p.sb.WriteString(p.indentStr)
	}
	p.atLineStart = false
}

func (p *printer) write(s string) {
	p.writeIndent()
	p.sb.WriteString(s)
}

func (p *printer) newline() {
	p.sb.WriteString("\n")
	p.atLineStart = true
}

func (p *printer) line(format string, args ...any) {
	if len(args) == 0 {
		p.write(format)
	} else {
		p.write(fmt.Sprintf(format, args...))
	}
	p.newline()
}

// blank writes an empty line unless the output already ends with one.
func (p *printer) blank() {
	s := p.sb.String()
	if s == "" || strings.HasSuffix(s, "\n\n") {
		return
	}
	p.newline()
}

func (p *printer) String() string {
	return p.sb.String()
}

func (p *printer) printStmts(stmts []Stmt) {
	for _, s := range stmts {
		p.printStmt(s)
	}
}

func (p *printer) printStmt(s Stmt) {
	switch s := s.(type) {
	case *Block:
		p.line("{")
		p.indent++
		p.printStmts(s.Stmts)
		p.indent--
		p.line("}")
	case *ExprStmt:
		p.line("%s;", s.Expr)
	case *VarDecl:
		if s.Init == "" {
			p.line("%s;", JoinDecl(s.Type, s.Name))
		} else {
			p.line("%s = %s;", JoinDecl(s.Type, s.Name), s.Init)
		}
	case *Return:
		if s.Expr == "" {
			p.line("return;")
		} else {
			p.line("return %s;", s.Expr)
		}
	case *If:
		p.printIf(s)
		p.newline()
	case *For:
		p.write(fmt.Sprintf("for (%s; %s; %s) ", s.Init, s.Cond, s.Update))
		p.printBody(s.Body)
		p.newline()
	case *ForIn:
		p.write(fmt.Sprintf("for (%s in %s) ", JoinDecl(s.Type, s.Name), s.Collection))
		p.printBody(s.Body)
		p.newline()
	case *While:
		p.write(fmt.Sprintf("while (%s) ", s.Cond))
		p.printBody(s.Body)
		p.newline()
	case *DoWhile:
		p.write("do ")
		p.printBody(s.Body)
		p.line(" while (%s);", s.Cond)
	case *Switch:
		p.printSwitch(s)
	case *Break:
		p.line("break;")
	case *Continue:
		p.line("continue;")
	case *Throw:
		if s.Expr == "" {
			p.line("@throw;")
		} else {
			p.line("@throw %s;", s.Expr)
		}
	case *Try:
		p.write("@try ")
		p.printBody(s.Body)
		for _, c := range s.Catches {
			p.write(fmt.Sprintf(" @catch (%s) ", JoinDecl(c.Type, c.Name)))
			p.printBody(c.Body)
		}
		if s.Finally != nil {
			p.write(" @finally ")
			p.printBody(s.Finally)
		}
		p.newline()
	case *Synchronized:
		p.write(fmt.Sprintf("@synchronized (%s) ", s.Lock))
		p.printBody(s.Body)
		p.newline()
	case *Raw:
		p.line("%s", s.Line)
	case nil:
	default:
		panic(fmt.Sprintf("objc: unknown statement %T", s))
	}
}

// printBody prints a braced body without a trailing newline.
func (p *printer) printBody(s Stmt) {
	p.write("{")
	p.newline()
	p.indent++
	if block, ok := s.(*Block); ok {
		p.printStmts(block.Stmts)
	} else if s != nil {
		p.printStmt(s)
	}
	p.indent--
	p.write("}")
}

func (p *printer) printIf(s *If) {
	p.write(fmt.Sprintf("if (%s) ", s.Cond))
	p.printBody(s.Then)
	switch e := s.Else.(type) {
	case nil:
	case *If:
		p.write(" else ")
		p.printIf(e)
	default:
		p.write(" else ")
		p.printBody(e)
	}
}

func (p *printer) printSwitch(s *Switch) {
	p.line("switch (%s) {", s.Tag)
	for _, c := range s.Cases {
		if len(c.Labels) == 0 {
			p.line("default:")
		}
		for _, label := range c.Labels {
			p.line("case %s:", label)
		}
		p.indent++
		if declaresLocals(c.Body) {
			p.line("{")
			p.indent++
			p.printStmts(c.Body)
			p.indent--
			p.line("}")
		} else {
			p.printStmts(c.Body)
		}
		p.indent--
	}
	p.line("}")
}

func declaresLocals(stmts []Stmt) bool {
	for _, s := range stmts {
		if _, ok := s.(*VarDecl); ok {
			return true
		}
	}
	return false
}
