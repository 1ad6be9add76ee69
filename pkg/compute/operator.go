// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compute

import (
	"fmt"
	"sync/atomic"
)

type OpKind int

const (
	OPK_Invalid OpKind = iota
	OPK_Equal
	OPK_Less
	OPK_Greater
	OPK_Add
	OPK_Sub
	OPK_Mul
	OPK_Div
	OPK_And
	OPK_Cast
	//type relabel without conversion
	OPK_Reinterpret
	//pseudo column producers
	OPK_RowLocator
	//operators defined outside the builtin set
	OPK_User
)

func (kind OpKind) String() string {
	switch kind {
	case OPK_Equal:
		return "equal"
	case OPK_Less:
		return "less"
	case OPK_Greater:
		return "greater"
	case OPK_Add:
		return "add"
	case OPK_Sub:
		return "sub"
	case OPK_Mul:
		return "mul"
	case OPK_Div:
		return "div"
	case OPK_And:
		return "and"
	case OPK_Cast:
		return "cast"
	case OPK_Reinterpret:
		return "reinterpret"
	case OPK_RowLocator:
		return "row_locator"
	case OPK_User:
		return "user"
	default:
		panic(fmt.Sprintf("usp %v", int(kind)))
	}
}

func (kind OpKind) isComparison() bool {
	switch kind {
	case OPK_Equal, OPK_Less, OPK_Greater:
		return true
	default:
		return false
	}
}

func (kind OpKind) isArithmetic() bool {
	switch kind {
	case OPK_Add, OPK_Sub, OPK_Mul, OPK_Div:
		return true
	default:
		return false
	}
}

const VariadicArity = -1

var gOperatorSeq atomic.Uint64

// Operator identifies one overload of a SQL operator or function.
//
// Operators are compared by pointer. Two overloads sharing a display name
// are different operators. An Operator never changes after creation.
type Operator struct {
	name  string
	kind  OpKind
	arity int
	seq   uint64
}

func NewOperator(name string, kind OpKind, arity int) *Operator {
	if kind == OPK_Invalid {
		panic("invalid operator kind")
	}
	return &Operator{
		name:  name,
		kind:  kind,
		arity: arity,
		seq:   gOperatorSeq.Add(1),
	}
}

func (op *Operator) Name() string {
	return op.name
}

func (op *Operator) Kind() OpKind {
	return op.kind
}

// Arity is the operand count, VariadicArity for any count.
func (op *Operator) Arity() int {
	return op.arity
}

// Seq orders operators by creation. It is only used for stable listings.
func (op *Operator) Seq() uint64 {
	return op.seq
}

func (op *Operator) String() string {
	return op.name
}

func operatorLess(a, b *Operator) bool {
	return a.seq < b.seq
}

// builtin operators
var (
	EqualOp       = NewOperator("=", OPK_Equal, 2)
	LessOp        = NewOperator("<", OPK_Less, 2)
	GreaterOp     = NewOperator(">", OPK_Greater, 2)
	AddOp         = NewOperator("+", OPK_Add, 2)
	SubOp         = NewOperator("-", OPK_Sub, 2)
	MulOp         = NewOperator("*", OPK_Mul, 2)
	DivOp         = NewOperator("/", OPK_Div, 2)
	AndOp         = NewOperator("AND", OPK_And, 2)
	CastOp        = NewOperator("CAST", OPK_Cast, 1)
	ReinterpretOp = NewOperator("REINTERPRET", OPK_Reinterpret, 1)
)

func BuiltinOperators() []*Operator {
	return []*Operator{
		EqualOp,
		LessOp,
		GreaterOp,
		AddOp,
		SubOp,
		MulOp,
		DivOp,
		AndOp,
		CastOp,
		ReinterpretOp,
	}
}
