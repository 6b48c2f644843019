// Package ast defines the babu parse tree node types.
package ast

// Span represents a source location range.
type Span struct {
	File      string `json:"file"`
	StartLine int    `json:"startLine"`
	StartCol  int    `json:"startCol"`
	EndLine   int    `json:"endLine"`
	EndCol    int    `json:"endCol"`
}

// Node is the interface implemented by all parse tree nodes.
type Node interface {
	Kind() string
	NodeSpan() Span
}

// ArithOp is one of the four arithmetic operators.
type ArithOp string

const (
	OpAdd ArithOp = "+"
	OpSub ArithOp = "-"
	OpMul ArithOp = "*"
	OpDiv ArithOp = "/"
)

// CompareOp is one of the six comparison operators.
type CompareOp string

const (
	OpLt   CompareOp = "<"
	OpLtEq CompareOp = "<="
	OpGt   CompareOp = ">"
	OpGtEq CompareOp = ">="
	OpEqEq CompareOp = "=="
	OpNeq  CompareOp = "!="
)

// LogicalOp is `and` or `or`.
type LogicalOp string

const (
	OpAnd LogicalOp = "and"
	OpOr  LogicalOp = "or"
)

// --- Expr is the interface for all expression nodes ---

type Expr interface {
	Node
	exprNode() // sealed marker
}

// --- Stmt is the interface for all statement nodes ---

type Stmt interface {
	Node
	stmtNode() // sealed marker
}

// --- Literal Expressions ---

type IntLiteral struct {
	Span  Span
	Value int64
}

func (n *IntLiteral) Kind() string   { return "IntLiteral" }
func (n *IntLiteral) NodeSpan() Span { return n.Span }
func (n *IntLiteral) exprNode()      {}

type StringLiteral struct {
	Span  Span
	Value string
}

func (n *StringLiteral) Kind() string   { return "StringLiteral" }
func (n *StringLiteral) NodeSpan() Span { return n.Span }
func (n *StringLiteral) exprNode()      {}

type BooleanLiteral struct {
	Span  Span
	Value bool
}

func (n *BooleanLiteral) Kind() string   { return "BooleanLiteral" }
func (n *BooleanLiteral) NodeSpan() Span { return n.Span }
func (n *BooleanLiteral) exprNode()      {}

// --- References and grouping ---

type VariableRef struct {
	Span Span
	Name string
}

func (n *VariableRef) Kind() string   { return "VariableRef" }
func (n *VariableRef) NodeSpan() Span { return n.Span }
func (n *VariableRef) exprNode()      {}

type Parenthesized struct {
	Span  Span
	Inner Expr
}

func (n *Parenthesized) Kind() string   { return "Parenthesized" }
func (n *Parenthesized) NodeSpan() Span { return n.Span }
func (n *Parenthesized) exprNode()      {}

// --- Operators ---

type UnaryNot struct {
	Span    Span
	Operand Expr
}

func (n *UnaryNot) Kind() string   { return "UnaryNot" }
func (n *UnaryNot) NodeSpan() Span { return n.Span }
func (n *UnaryNot) exprNode()      {}

type Arithmetic struct {
	Span  Span
	Op    ArithOp
	Left  Expr
	Right Expr
}

func (n *Arithmetic) Kind() string   { return "Arithmetic" }
func (n *Arithmetic) NodeSpan() Span { return n.Span }
func (n *Arithmetic) exprNode()      {}

type Comparison struct {
	Span  Span
	Op    CompareOp
	Left  Expr
	Right Expr
}

func (n *Comparison) Kind() string   { return "Comparison" }
func (n *Comparison) NodeSpan() Span { return n.Span }
func (n *Comparison) exprNode()      {}

type Logical struct {
	Span  Span
	Op    LogicalOp
	Left  Expr
	Right Expr
}

func (n *Logical) Kind() string   { return "Logical" }
func (n *Logical) NodeSpan() Span { return n.Span }
func (n *Logical) exprNode()      {}

// --- Statements ---

type PrintStmt struct {
	Span  Span
	Value Expr
}

func (n *PrintStmt) Kind() string   { return "PrintStmt" }
func (n *PrintStmt) NodeSpan() Span { return n.Span }
func (n *PrintStmt) stmtNode()      {}

type VarDecl struct {
	Span  Span
	Name  string
	Value Expr
}

func (n *VarDecl) Kind() string   { return "VarDecl" }
func (n *VarDecl) NodeSpan() Span { return n.Span }
func (n *VarDecl) stmtNode()      {}

type InputStmt struct {
	Span Span
	Name string
}

func (n *InputStmt) Kind() string   { return "InputStmt" }
func (n *InputStmt) NodeSpan() Span { return n.Span }
func (n *InputStmt) stmtNode()      {}

type Block struct {
	Span       Span
	Statements []Stmt
}

func (n *Block) Kind() string   { return "Block" }
func (n *Block) NodeSpan() Span { return n.Span }
func (n *Block) stmtNode()      {}

// ElseIfBranch is one `lekin babu` arm of an IfStmt.
type ElseIfBranch struct {
	Span Span
	Cond Expr
	Body *Block
}

func (n *ElseIfBranch) Kind() string   { return "ElseIfBranch" }
func (n *ElseIfBranch) NodeSpan() Span { return n.Span }

type IfStmt struct {
	Span    Span
	Cond    Expr
	Body    *Block
	ElseIfs []*ElseIfBranch
	Else    *Block // nil when there is no `magar shona` branch
}

func (n *IfStmt) Kind() string   { return "IfStmt" }
func (n *IfStmt) NodeSpan() Span { return n.Span }
func (n *IfStmt) stmtNode()      {}

type ForLoopStmt struct {
	Span  Span
	Var   string
	Start Expr
	End   Expr
	Step  Expr // nil means a step of 1
	Body  *Block
}

func (n *ForLoopStmt) Kind() string   { return "ForLoopStmt" }
func (n *ForLoopStmt) NodeSpan() Span { return n.Span }
func (n *ForLoopStmt) stmtNode()      {}

// --- Program ---

type Program struct {
	Span       Span
	Statements []Stmt
}

func (n *Program) Kind() string   { return "Program" }
func (n *Program) NodeSpan() Span { return n.Span }
