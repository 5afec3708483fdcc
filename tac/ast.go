package tac

// Node positions are token indexes into the slice the tree was parsed from.
type Node interface {
	Pos() int
}

type Statement interface {
	Node
	stmtNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) Pos() int {
	if len(p.Statements) == 0 {
		return 0
	}
	return p.Statements[0].Pos()
}

// AssignStmt is "Target = Value ;". Declarations with an initializer parse to
// the same node; the position is the index of the "=" token.
type AssignStmt struct {
	Target   string
	Value    []Token
	position int
}

func (s *AssignStmt) stmtNode() {}
func (s *AssignStmt) Pos() int  { return s.position }

// BadAssignStmt is an "=" with no identifier in front of it.
type BadAssignStmt struct {
	position int
}

func (s *BadAssignStmt) stmtNode() {}
func (s *BadAssignStmt) Pos() int  { return s.position }

// Conditions and headers are kept as raw text; they are emitted verbatim.
type IfStmt struct {
	Condition  string
	Consequent []Statement
	Alternate  []Statement
	HasElse    bool
	position   int
}

func (s *IfStmt) stmtNode() {}
func (s *IfStmt) Pos() int  { return s.position }

type WhileStmt struct {
	Condition string
	Body      []Statement
	position  int
}

func (s *WhileStmt) stmtNode() {}
func (s *WhileStmt) Pos() int  { return s.position }

type ForStmt struct {
	Init      string
	Condition string
	Post      string
	Body      []Statement
	position  int
}

func (s *ForStmt) stmtNode() {}
func (s *ForStmt) Pos() int  { return s.position }

type SwitchStmt struct {
	Subject  string
	Clauses  []*CaseClause
	position int
}

func (s *SwitchStmt) stmtNode() {}
func (s *SwitchStmt) Pos() int  { return s.position }

// CaseClause is one "case V:" or "default:" arm. Arms fall through; there is
// no implicit jump to the end of the switch.
type CaseClause struct {
	Value     string
	IsDefault bool
	Body      []Statement
	position  int
}

func (c *CaseClause) Pos() int { return c.position }
