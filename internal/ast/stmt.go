package ast

import (
	"bslcheck/internal/source"
	"bslcheck/internal/token"
)

type StmtKind uint8

const (
	// StmtPlain: присваивание, вызов, Выполнить, ДобавитьОбработчик и т.п.
	StmtPlain StmtKind = iota
	StmtVar
	StmtIf
	StmtWhile
	StmtFor
	StmtForEach
	StmtTry
	StmtReturn
	StmtRaise
	StmtGoto
	StmtBreak
	StmtContinue
	StmtLabel
	// StmtPreproc is a flat #Если/#ИначеЕсли/#Иначе/#КонецЕсли marker;
	// branches are grouped later by the flow analysis.
	StmtPreproc
)

var stmtKindNames = [...]string{
	StmtPlain:    "plain",
	StmtVar:      "var",
	StmtIf:       "if",
	StmtWhile:    "while",
	StmtFor:      "for",
	StmtForEach:  "for-each",
	StmtTry:      "try",
	StmtReturn:   "return",
	StmtRaise:    "raise",
	StmtGoto:     "goto",
	StmtBreak:    "break",
	StmtContinue: "continue",
	StmtLabel:    "label",
	StmtPreproc:  "preproc",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "unknown"
}

// IsLoop reports whether k is one of the loop statements.
func (k StmtKind) IsLoop() bool {
	return k == StmtWhile || k == StmtFor || k == StmtForEach
}

type StmtFlags uint8

const (
	// FlagMalformed marks a statement recovered from a syntax error.
	FlagMalformed StmtFlags = 1 << iota
)

// Block is a sequence of statements.
type Block struct {
	Span  source.Span
	Stmts []StmtID
}

type Stmt struct {
	Kind  StmtKind
	Span  source.Span
	Flags StmtFlags
	// Keyword is the span of the leading keyword (Если, Пока, Возврат, ...).
	Keyword source.Span
	// Expr: условие цикла, значение Возврат, аргумент исключения, тело простого оператора.
	Expr TokenRange
	// Name: метка (Перейти/~Метка:) или переменная цикла.
	Name     string
	NameSpan source.Span
	// Preproc is the marker kind for StmtPreproc.
	Preproc token.Kind
	Vars    []VarID
	Payload PayloadID
}

func (s *Stmt) Malformed() bool { return s.Flags&FlagMalformed != 0 }

// CondBranch is one 'Если'/'ИначеЕсли' arm.
type CondBranch struct {
	Keyword source.Span
	Cond    TokenRange
	Body    Block
}

type IfStmt struct {
	Branches []CondBranch
	HasElse  bool
	ElseKw   source.Span
	Else     Block
	End      source.Span
}

type LoopStmt struct {
	// From/To для 'Для', коллекция для 'Для Каждого'.
	From TokenRange
	To   TokenRange
	Body Block
	End  source.Span
}

type TryStmt struct {
	Body     Block
	ExceptKw source.Span
	Except   Block
	End      source.Span
}

type Stmts struct {
	Arena *Arena[Stmt]
	Ifs   *Arena[IfStmt]
	Loops *Arena[LoopStmt]
	Tries *Arena[TryStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena: NewArena[Stmt](capHint),
		Ifs:   NewArena[IfStmt](capHint / 8),
		Loops: NewArena[LoopStmt](capHint / 8),
		Tries: NewArena[TryStmt](capHint / 16),
	}
}

func (s *Stmts) New(st Stmt) StmtID {
	return StmtID(s.Arena.Allocate(st))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewIf(st Stmt, payload IfStmt) StmtID {
	st.Kind = StmtIf
	st.Payload = PayloadID(s.Ifs.Allocate(payload))
	return s.New(st)
}

func (s *Stmts) NewLoop(st Stmt, payload LoopStmt) StmtID {
	st.Payload = PayloadID(s.Loops.Allocate(payload))
	return s.New(st)
}

func (s *Stmts) NewTry(st Stmt, payload TryStmt) StmtID {
	st.Kind = StmtTry
	st.Payload = PayloadID(s.Tries.Allocate(payload))
	return s.New(st)
}

// If returns the payload of an StmtIf statement.
func (s *Stmts) If(id StmtID) (*IfStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtIf {
		return nil, false
	}
	p := s.Ifs.Get(uint32(st.Payload))
	return p, p != nil
}

// Loop returns the payload of a loop statement.
func (s *Stmts) Loop(id StmtID) (*LoopStmt, bool) {
	st := s.Get(id)
	if st == nil || !st.Kind.IsLoop() {
		return nil, false
	}
	p := s.Loops.Get(uint32(st.Payload))
	return p, p != nil
}

// Try returns the payload of an StmtTry statement.
func (s *Stmts) Try(id StmtID) (*TryStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtTry {
		return nil, false
	}
	p := s.Tries.Get(uint32(st.Payload))
	return p, p != nil
}

// Children returns the nested blocks of a statement in source order.
func (s *Stmts) Children(id StmtID) []Block {
	st := s.Get(id)
	if st == nil {
		return nil
	}
	switch st.Kind {
	case StmtIf:
		p, ok := s.If(id)
		if !ok {
			return nil
		}
		out := make([]Block, 0, len(p.Branches)+1)
		for _, br := range p.Branches {
			out = append(out, br.Body)
		}
		if p.HasElse {
			out = append(out, p.Else)
		}
		return out
	case StmtWhile, StmtFor, StmtForEach:
		if p, ok := s.Loop(id); ok {
			return []Block{p.Body}
		}
	case StmtTry:
		if p, ok := s.Try(id); ok {
			return []Block{p.Body, p.Except}
		}
	}
	return nil
}
