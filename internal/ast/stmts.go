package ast

import (
	"crust/internal/source"
	"crust/internal/token"
)

// Stmts manages allocation of statements.
type Stmts struct {
	Arena   *Arena[Stmt]
	Exprs   *Arena[ExprStmt]
	Lets    *Arena[LetStmt]
	Blocks  *Arena[BlockStmt]
	Ifs     *Arena[IfStmt]
	Whiles  *Arena[WhileStmt]
	Funcs   *Arena[FuncStmt]
	Returns *Arena[ReturnStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Exprs:   NewArena[ExprStmt](capHint),
		Lets:    NewArena[LetStmt](capHint),
		Blocks:  NewArena[BlockStmt](capHint / 4),
		Ifs:     NewArena[IfStmt](capHint / 4),
		Whiles:  NewArena[WhileStmt](capHint / 4),
		Funcs:   NewArena[FuncStmt](capHint / 4),
		Returns: NewArena[ReturnStmt](capHint / 4),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) payload(id StmtID, kind StmtKind) (PayloadID, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != kind {
		return NoPayloadID, false
	}
	return st.Payload, true
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	payload := s.Exprs.Allocate(ExprStmt{Expr: expr})
	return s.new(StmtExpr, span, PayloadID(payload))
}

func (s *Stmts) Expr(id StmtID) (*ExprStmt, bool) {
	p, ok := s.payload(id, StmtExpr)
	if !ok {
		return nil, false
	}
	return s.Exprs.Get(uint32(p)), true
}

func (s *Stmts) NewLet(span source.Span, name token.Token, value ExprID) StmtID {
	payload := s.Lets.Allocate(LetStmt{Name: name, Value: value})
	return s.new(StmtLet, span, PayloadID(payload))
}

func (s *Stmts) Let(id StmtID) (*LetStmt, bool) {
	p, ok := s.payload(id, StmtLet)
	if !ok {
		return nil, false
	}
	return s.Lets.Get(uint32(p)), true
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	payload := s.Blocks.Allocate(BlockStmt{Stmts: append([]StmtID(nil), stmts...)})
	return s.new(StmtBlock, span, PayloadID(payload))
}

func (s *Stmts) Block(id StmtID) (*BlockStmt, bool) {
	p, ok := s.payload(id, StmtBlock)
	if !ok {
		return nil, false
	}
	return s.Blocks.Get(uint32(p)), true
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	payload := s.Ifs.Allocate(IfStmt{Cond: cond, Then: then, Else: els})
	return s.new(StmtIf, span, PayloadID(payload))
}

func (s *Stmts) If(id StmtID) (*IfStmt, bool) {
	p, ok := s.payload(id, StmtIf)
	if !ok {
		return nil, false
	}
	return s.Ifs.Get(uint32(p)), true
}

func (s *Stmts) NewWhile(span source.Span, cond ExprID, body StmtID) StmtID {
	payload := s.Whiles.Allocate(WhileStmt{Cond: cond, Body: body})
	return s.new(StmtWhile, span, PayloadID(payload))
}

func (s *Stmts) While(id StmtID) (*WhileStmt, bool) {
	p, ok := s.payload(id, StmtWhile)
	if !ok {
		return nil, false
	}
	return s.Whiles.Get(uint32(p)), true
}

func (s *Stmts) NewFunc(span source.Span, name token.Token, params []token.Token, body StmtID) StmtID {
	payload := s.Funcs.Allocate(FuncStmt{
		Name:   name,
		Params: append([]token.Token(nil), params...),
		Body:   body,
	})
	return s.new(StmtFunc, span, PayloadID(payload))
}

func (s *Stmts) Func(id StmtID) (*FuncStmt, bool) {
	p, ok := s.payload(id, StmtFunc)
	if !ok {
		return nil, false
	}
	return s.Funcs.Get(uint32(p)), true
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	payload := s.Returns.Allocate(ReturnStmt{Value: value})
	return s.new(StmtReturn, span, PayloadID(payload))
}

func (s *Stmts) Return(id StmtID) (*ReturnStmt, bool) {
	p, ok := s.payload(id, StmtReturn)
	if !ok {
		return nil, false
	}
	return s.Returns.Get(uint32(p)), true
}
