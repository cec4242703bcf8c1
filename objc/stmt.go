package objc

// Stmt is an Objective-C statement. Expressions inside statements are
// already rendered text.
type Stmt interface {
	stmt()
}

type Block struct {
	Stmts []Stmt
}

type ExprStmt struct {
	Expr string
}

// VarDecl declares a local. Type is the rendered C type such as
// "NSString *" or "__auto_type".
type VarDecl struct {
	Type string
	Name string
	Init string
}

type Return struct {
	Expr string
}

type If struct {
	Cond string
	Then Stmt
	Else Stmt
}

// For is a C for loop. Init and Update are rendered clauses.
type For struct {
	Init   string
	Cond   string
	Update string
	Body   Stmt
}

// ForIn is fast enumeration: for (Type Name in Collection).
type ForIn struct {
	Type       string
	Name       string
	Collection string
	Body       Stmt
}

type While struct {
	Cond string
	Body Stmt
}

type DoWhile struct {
	Body Stmt
	Cond string
}

type Switch struct {
	Tag   string
	Cases []Case
}

// Case is one switch group. No labels means default.
type Case struct {
	Labels []string
	Body   []Stmt
}

type Break struct{}

type Continue struct{}

type Throw struct {
	Expr string
}

type Try struct {
	Body    *Block
	Catches []Catch
	Finally *Block
}

type Catch struct {
	Type string
	Name string
	Body *Block
}

type Synchronized struct {
	Lock string
	Body *Block
}

// Raw is a single preformatted line.
type Raw struct {
	Line string
}

func (*Block) stmt()        {}
func (*ExprStmt) stmt()     {}
func (*VarDecl) stmt()      {}
func (*Return) stmt()       {}
func (*If) stmt()           {}
func (*For) stmt()          {}
func (*ForIn) stmt()        {}
func (*While) stmt()        {}
func (*DoWhile) stmt()      {}
func (*Switch) stmt()       {}
func (*Break) stmt()        {}
func (*Continue) stmt()     {}
func (*Throw) stmt()        {}
func (*Try) stmt()          {}
func (*Synchronized) stmt() {}
func (*Raw) stmt()          {}
