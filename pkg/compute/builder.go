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
	"github.com/cockroachdb/errors"

	"github.com/daviszhen/rexgen/pkg/common"
)

var _ ExprBuilder = new(Builder)

// Builder makes typed expression nodes. Result types of arithmetic calls
// follow its decimal rule.
type Builder struct {
	rule     *common.DecimalRule
	specials *SpecialOperators
}

func NewBuilder(rule *common.DecimalRule, specials *SpecialOperators) *Builder {
	if rule == nil {
		rule = common.DefaultDecimalRule()
	}
	if specials == nil {
		specials = DefaultSpecialOperators()
	}
	return &Builder{
		rule:     rule,
		specials: specials,
	}
}

func (b *Builder) Rule() *common.DecimalRule {
	return b.rule
}

func (b *Builder) Specials() *SpecialOperators {
	return b.specials
}

func (b *Builder) MakeInputRef(rel RelNode, index int) (Node, error) {
	fields := rel.Fields()
	if index < 0 || index >= len(fields) {
		return nil, errors.Newf("field %d out of range [0,%d)", index, len(fields))
	}
	field := fields[index]
	return &FieldRef{
		Index:      index,
		Typ:        field.Typ,
		IsNullable: field.Nullable,
		Name:       field.Name,
	}, nil
}

// MakePseudoRef references the pseudo column with synthetic id.
func (b *Builder) MakePseudoRef(id int) (Node, error) {
	meta, ok := b.specials.ById(id)
	if !ok {
		return nil, errors.Newf("no pseudo column 0x%X", id)
	}
	return &FieldRef{
		Index:      id,
		Typ:        meta.RetType,
		IsNullable: meta.Nullable,
		Name:       meta.Op.Name(),
	}, nil
}

func (b *Builder) MakeLiteral(text string, typ common.LType) (Node, error) {
	if !typ.IsValid() || typ.Id == common.LTID_NULL {
		return nil, errors.Newf("invalid literal type %v", typ)
	}
	return &Literal{Text: text, Typ: typ}, nil
}

// MakeNumber makes a numeric literal typed by its text.
func (b *Builder) MakeNumber(text string) (Node, error) {
	typ, err := common.LiteralType(text)
	if err != nil {
		return nil, err
	}
	return &Literal{Text: text, Typ: typ}, nil
}

func (b *Builder) MakeNull(typ common.LType) Node {
	return &Literal{Typ: typ, IsNull: true}
}

func (b *Builder) MakeCast(arg Node, typ common.LType) (Node, error) {
	if arg == nil {
		return nil, errors.Newf("cast of nil")
	}
	if !typ.IsValid() {
		return nil, errors.Newf("cast to invalid type")
	}
	return &Call{
		Op:         CastOp,
		Args:       []Node{arg},
		RetType:    typ,
		IsNullable: arg.Nullable(),
	}, nil
}

func (b *Builder) MakeReinterpret(arg Node, typ common.LType) (Node, error) {
	if arg == nil {
		return nil, errors.Newf("reinterpret of nil")
	}
	if !typ.IsValid() {
		return nil, errors.Newf("reinterpret as invalid type")
	}
	return &Call{
		Op:         ReinterpretOp,
		Args:       []Node{arg},
		RetType:    typ,
		IsNullable: arg.Nullable(),
	}, nil
}

// MakeCallTyped makes a call whose result type is decided by the caller.
func (b *Builder) MakeCallTyped(op *Operator, typ common.LType, nullable bool, args ...Node) (Node, error) {
	if err := checkArgs(op, args); err != nil {
		return nil, err
	}
	return &Call{
		Op:         op,
		Args:       args,
		RetType:    typ,
		IsNullable: nullable,
	}, nil
}

// MakeCall makes a call and derives its result type.
func (b *Builder) MakeCall(op *Operator, args ...Node) (Node, error) {
	if err := checkArgs(op, args); err != nil {
		return nil, err
	}
	call := &Call{
		Op:         op,
		Args:       args,
		IsNullable: anyNullable(args),
	}
	if meta, ok := b.specials.ByOp(op); ok {
		call.RetType = meta.RetType
		call.IsNullable = meta.Nullable
		return call, nil
	}
	switch kind := op.Kind(); {
	case kind.isComparison():
		if !canCompare(args[0].Type(), args[1].Type()) {
			return nil, errors.Newf("can not compare %v with %v", args[0].Type(), args[1].Type())
		}
		call.RetType = common.BooleanType()
	case kind == OPK_And:
		for _, arg := range args {
			id := arg.Type().Id
			if id != common.LTID_BOOLEAN && id != common.LTID_NULL {
				return nil, errors.Newf("AND on %v", arg.Type())
			}
		}
		call.RetType = common.BooleanType()
	case kind.isArithmetic():
		typ, wide, err := b.arithmeticType(kind, args[0].Type(), args[1].Type())
		if err != nil {
			return nil, err
		}
		call.RetType = typ
		call.WideMultiply = wide
	case kind == OPK_Cast, kind == OPK_Reinterpret:
		return nil, errors.Newf("%s needs a target type", op.Name())
	default:
		return nil, errors.Newf("no result type for %s of kind %v", op.Name(), kind)
	}
	return call, nil
}

func (b *Builder) arithmeticType(kind OpKind, left, right common.LType) (common.LType, bool, error) {
	if !arithmeticOperand(left) || !arithmeticOperand(right) {
		return common.Invalid(), false, errors.Newf("%v on %v and %v", kind, left, right)
	}
	switch kind {
	case OPK_Mul:
		if typ, ok := b.rule.CreateProduct(left, right); ok {
			return typ, b.rule.UseDoubleMultiplication(left, right), nil
		}
	case OPK_Div:
		if typ, ok := b.rule.CreateQuotient(left, right); ok {
			return typ, false, nil
		}
	}
	typ := common.MaxLType(left, right)
	if !typ.IsValid() {
		return common.Invalid(), false, errors.Newf("%v on %v and %v", kind, left, right)
	}
	return typ, false, nil
}

func arithmeticOperand(typ common.LType) bool {
	return typ.IsNumeric() || typ.Id == common.LTID_NULL
}

func canCompare(left, right common.LType) bool {
	if left.Id == common.LTID_NULL || right.Id == common.LTID_NULL {
		return true
	}
	if left.IsNumeric() && right.IsNumeric() {
		return true
	}
	return left.Id == right.Id
}

func anyNullable(args []Node) bool {
	for _, arg := range args {
		if arg.Nullable() {
			return true
		}
	}
	return false
}

func checkArgs(op *Operator, args []Node) error {
	if op == nil {
		return errors.Newf("nil operator")
	}
	if op.Arity() != VariadicArity && len(args) != op.Arity() {
		return errors.Newf("%s wants %d operands, got %d", op.Name(), op.Arity(), len(args))
	}
	for i, arg := range args {
		if arg == nil {
			return errors.Newf("operand %d of %s is nil", i, op.Name())
		}
	}
	return nil
}
