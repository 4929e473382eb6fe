package eval

import (
	"fmt"

	"crust/internal/ast"
	"crust/internal/token"
)

// ValueKind tags the variants of Value.
type ValueKind uint8

const (
	KindNothing ValueKind = iota // «нет значения», а не ноль
	KindInt
	KindBool
	KindFunc
)

func (k ValueKind) String() string {
	switch k {
	case KindNothing:
		return "nothing"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindFunc:
		return "func"
	default:
		return "unknown"
	}
}

// Function is a declared function. Env is the environment the declaration ran
// in; each call gets an activation chained to it.
type Function struct {
	Name   string
	Params []token.Token
	Body   ast.StmtID
	Decl   ast.StmtID
	Env    *Env
}

// Value is a runtime value.
type Value struct {
	Kind ValueKind
	Int  int64
	Bool bool
	Func *Function
}

// Nothing is the result of statements and calls that produce no value.
var Nothing = Value{}

func IntValue(v int64) Value { return Value{Kind: KindInt, Int: v} }
func BoolValue(v bool) Value { return Value{Kind: KindBool, Bool: v} }
func FuncValue(f *Function) Value { return Value{Kind: KindFunc, Func: f} }

// IsNothing reports whether v carries no value.
func (v Value) IsNothing() bool { return v.Kind == KindNothing }

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindFunc:
		if v.Func == nil {
			return "<func>"
		}
		return fmt.Sprintf("<func %s/%d>", v.Func.Name, len(v.Func.Params))
	default:
		return "nothing"
	}
}
