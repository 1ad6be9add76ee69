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
	"strings"

	"github.com/daviszhen/rexgen/pkg/common"
)

// Node is a node of a typed scalar expression tree.
//
// Trees may share subtrees. Node identity is pointer identity, and the
// translator translates a shared node once.
type Node interface {
	Type() common.LType
	Nullable() bool
	String() string
}

var _ Node = new(Call)
var _ Node = new(FieldRef)
var _ Node = new(Literal)

// Call applies an operator to operands.
type Call struct {
	Op      *Operator
	Args    []Node
	RetType common.LType
	// IsNullable is true when the result can be NULL.
	IsNullable bool
	// WideMultiply hints that fixed point multiplication may overflow.
	WideMultiply bool
}

func (call *Call) Type() common.LType {
	return call.RetType
}

func (call *Call) Nullable() bool {
	return call.IsNullable
}

func (call *Call) String() string {
	sb := strings.Builder{}
	if call.Op == nil {
		sb.WriteString("<nil>")
	} else {
		sb.WriteString(call.Op.Name())
	}
	sb.WriteByte('(')
	for i, arg := range call.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		if arg == nil {
			sb.WriteString("<nil>")
		} else {
			sb.WriteString(arg.String())
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// FieldRef references a column of the input row by ordinal.
// Ordinals in the reserved band address pseudo columns.
type FieldRef struct {
	Index      int
	Typ        common.LType
	IsNullable bool
	Name       string
}

func (ref *FieldRef) Type() common.LType {
	return ref.Typ
}

func (ref *FieldRef) Nullable() bool {
	return ref.IsNullable
}

func (ref *FieldRef) String() string {
	if ref.Name != "" {
		return fmt.Sprintf("$%d(%s)", ref.Index, ref.Name)
	}
	return fmt.Sprintf("$%d", ref.Index)
}

type Literal struct {
	//textual value. empty for NULL
	Text   string
	Typ    common.LType
	IsNull bool
}

func (lit *Literal) Type() common.LType {
	return lit.Typ
}

func (lit *Literal) Nullable() bool {
	return lit.IsNull
}

func (lit *Literal) String() string {
	if lit.IsNull {
		return "NULL"
	}
	if lit.Typ.Id == common.LTID_VARCHAR || lit.Typ.Id == common.LTID_CHAR {
		return fmt.Sprintf("'%s'", lit.Text)
	}
	return lit.Text
}

type Field struct {
	Name     string
	Typ      common.LType
	Nullable bool
}

// RelNode is the relational input an expression reads its fields from.
type RelNode interface {
	Fields() []Field
}

type Relation struct {
	fields []Field
}

func NewRelation(fields ...Field) *Relation {
	return &Relation{fields: fields}
}

func (rel *Relation) Fields() []Field {
	return rel.fields
}

// ExprBuilder makes typed expression nodes.
type ExprBuilder interface {
	MakeInputRef(rel RelNode, index int) (Node, error)
	MakeCall(op *Operator, args ...Node) (Node, error)
}
