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

	"github.com/cockroachdb/errors"

	"github.com/daviszhen/rexgen/pkg/common"
)

// Implementor generates code for calls of one operator.
//
// CanImplement must not have side effects. Implement is only invoked after
// CanImplement returned true for the same call, with one fragment per
// operand in operand order.
type Implementor interface {
	CanImplement(call *Call) bool
	Implement(tr *Translator, call *Call, operands []*Fragment) (*Fragment, error)
}

var _ Implementor = new(BinaryInfixImplementor)
var _ Implementor = new(CastImplementor)
var _ Implementor = new(IgnoredCallImplementor)
var _ Implementor = new(PseudoColumnImplementor)

// BinaryInfixImplementor emits "(left op right)" once both operands are
// brought to a common type. Decimal operands use the methods of
// decimal.Decimal instead of Go operators.
type BinaryInfixImplementor struct {
	Op string
}

var decimalMethods = map[OpKind]string{
	OPK_Add: "Add",
	OPK_Sub: "Sub",
	OPK_Mul: "Mul",
	OPK_Div: "Quo",
}

var decimalCmps = map[OpKind]string{
	OPK_Equal:   "==",
	OPK_Less:    "<",
	OPK_Greater: ">",
}

// infixDomain is the type both operands are converted to before the
// operator applies.
func infixDomain(call *Call) common.LType {
	if kind := call.Op.Kind(); kind.isComparison() || kind == OPK_And {
		return common.MaxLType(call.Args[0].Type(), call.Args[1].Type())
	}
	return call.RetType
}

// liftOperand converts an operand into the domain and returns the type it
// ends up with. Integers lifted to DECIMAL keep scale 0.
func liftOperand(from, domain common.LType) (castFunc, common.LType, bool) {
	if from.Id == common.LTID_NULL || from.GetInternalType() == domain.GetInternalType() {
		return castIdentity, from, true
	}
	to := domain
	if to.Id == common.LTID_DECIMAL && from.IsIntegral() {
		to = common.DecimalType(to.Width, 0)
	}
	fun, ok := lookupCast(from, to)
	return fun, to, ok
}

func isWide(call *Call) bool {
	return call.WideMultiply && call.Op.Kind() == OPK_Mul
}

func (impl *BinaryInfixImplementor) CanImplement(call *Call) bool {
	if len(call.Args) != 2 {
		return false
	}
	for _, arg := range call.Args {
		if arg == nil || !arg.Type().IsValid() {
			return false
		}
	}
	if isWide(call) {
		for _, arg := range call.Args {
			phy := arg.Type().GetInternalType()
			if phy != common.DECIMAL && !phy.IsInteger() {
				return false
			}
		}
		return call.RetType.Id == common.LTID_DECIMAL
	}
	domain := infixDomain(call)
	if !domain.IsValid() {
		return false
	}
	for _, arg := range call.Args {
		if _, _, ok := liftOperand(arg.Type(), domain); !ok {
			return false
		}
	}
	if domain.GetInternalType() == common.DECIMAL {
		kind := call.Op.Kind()
		_, isMethod := decimalMethods[kind]
		_, isCmp := decimalCmps[kind]
		return isMethod || isCmp
	}
	return true
}

func (impl *BinaryInfixImplementor) Implement(tr *Translator, call *Call, operands []*Fragment) (*Fragment, error) {
	if len(operands) != 2 {
		return nil, errors.AssertionFailedf("%s wants 2 operands, got %d", impl.Op, len(operands))
	}
	var code string
	if isWide(call) {
		code = fmt.Sprintf("floatToDecimal(%s %s %s, %d)",
			wideOperand(operands[0]), impl.Op, wideOperand(operands[1]), call.RetType.Scale)
	} else {
		domain := infixDomain(call)
		var lifted [2]string
		var scales [2]int
		for i, operand := range operands {
			fun, typ, ok := liftOperand(operand.Typ, domain)
			if !ok {
				return nil, errors.Newf("operand %d of %s: %v to %v", i, call.Op.Name(), operand.Typ, domain)
			}
			lifted[i] = fun(operand.Code)
			scales[i] = typ.Scale
		}
		if domain.GetInternalType() == common.DECIMAL {
			var ok bool
			code, ok = decimalInfix(call.Op.Kind(), call.RetType, lifted, scales)
			if !ok {
				return nil, errors.Newf("%s on decimals", call.Op.Name())
			}
		} else {
			code = fmt.Sprintf("(%s %s %s)", lifted[0], impl.Op, lifted[1])
		}
	}
	return &Fragment{
		Code:     code,
		Typ:      call.RetType,
		Nullable: call.IsNullable,
	}, nil
}

func wideOperand(frag *Fragment) string {
	if frag.Typ.GetInternalType() == common.DECIMAL {
		return fmt.Sprintf("decimalToFloat64(%s)", frag.Code)
	}
	return fmt.Sprintf("float64(%s)", frag.Code)
}

// decimalInfix emits decimal arithmetic rescaled to the result scale, or a
// comparison through Cmp.
func decimalInfix(kind OpKind, ret common.LType, operands [2]string, scales [2]int) (string, bool) {
	if cmp, has := decimalCmps[kind]; has {
		return fmt.Sprintf("(%s.Cmp(%s) %s 0)", operands[0], operands[1], cmp), true
	}
	method, has := decimalMethods[kind]
	if !has {
		return "", false
	}
	code := fmt.Sprintf("mustDecimal(%s.%s(%s))", operands[0], method, operands[1])
	switch kind {
	case OPK_Add, OPK_Sub:
		return decimalRescale(max(scales[0], scales[1]), ret.Scale)(code), true
	case OPK_Mul:
		return decimalRescale(scales[0]+scales[1], ret.Scale)(code), true
	}
	//the scale of a quotient depends on the values
	return fmt.Sprintf("%s.Round(%d).Pad(%d)", code, ret.Scale, ret.Scale), true
}

type castFunc func(from string) string

func castIdentity(from string) string {
	return from
}

func castGoConv(goTyp string) castFunc {
	return func(from string) string {
		return fmt.Sprintf("%s(%s)", goTyp, from)
	}
}

func intToDecimal(scale int) castFunc {
	return func(from string) string {
		return decimalRescale(0, scale)(fmt.Sprintf("decimal.MustNew(int64(%s), 0)", from))
	}
}

func numToBool(from string) string {
	return fmt.Sprintf("(%s != 0)", from)
}

func floatToDecimal(scale int) castFunc {
	return func(from string) string {
		return fmt.Sprintf("floatToDecimal(float64(%s), %d)", from, scale)
	}
}

func decimalToFloat(goTyp string) castFunc {
	return func(from string) string {
		return fmt.Sprintf("%s(decimalToFloat64(%s))", goTyp, from)
	}
}

func decimalRescale(fromScale, toScale int) castFunc {
	return func(from string) string {
		switch {
		case toScale < fromScale:
			return fmt.Sprintf("%s.Round(%d)", from, toScale)
		case toScale > fromScale:
			return fmt.Sprintf("%s.Pad(%d)", from, toScale)
		default:
			return from
		}
	}
}

func toString(from string) string {
	return fmt.Sprintf("fmt.Sprint(%s)", from)
}

// lookupCast returns the conversion from one type to another, false when
// the conversion is not supported by generated code.
func lookupCast(from, to common.LType) (castFunc, bool) {
	if !from.IsValid() || !to.IsValid() {
		return nil, false
	}
	if from.Equal(to) || from.Id == common.LTID_NULL {
		return castIdentity, true
	}
	fromP := from.GetInternalType()
	toP := to.GetInternalType()
	if toP.IsVarchar() {
		if fromP.IsVarchar() {
			return castIdentity, true
		}
		return toString, true
	}
	toGo, ok := toP.GoType()
	if !ok {
		return nil, false
	}
	switch {
	case fromP.IsInteger():
		switch {
		case toP.IsInteger(), toP.IsFloat():
			return castGoConv(toGo), true
		case toP == common.DECIMAL:
			return intToDecimal(to.Scale), true
		case toP == common.BOOL:
			return numToBool, true
		}
	case fromP.IsFloat():
		switch {
		case toP.IsFloat():
			return castGoConv(toGo), true
		case toP == common.DECIMAL:
			return floatToDecimal(to.Scale), true
		}
	case fromP == common.DECIMAL:
		switch {
		case toP == common.DECIMAL:
			return decimalRescale(from.Scale, to.Scale), true
		case toP.IsFloat():
			return decimalToFloat(toGo), true
		}
	}
	return nil, false
}

// CastImplementor converts its operand to the call result type.
type CastImplementor struct {
}

func (impl *CastImplementor) CanImplement(call *Call) bool {
	if len(call.Args) != 1 || call.Args[0] == nil {
		return false
	}
	_, ok := lookupCast(call.Args[0].Type(), call.RetType)
	return ok
}

func (impl *CastImplementor) Implement(tr *Translator, call *Call, operands []*Fragment) (*Fragment, error) {
	if len(operands) != 1 {
		return nil, errors.AssertionFailedf("cast wants 1 operand, got %d", len(operands))
	}
	fun, ok := lookupCast(call.Args[0].Type(), call.RetType)
	if !ok {
		return nil, errors.Newf("cast from %v to %v", call.Args[0].Type(), call.RetType)
	}
	return &Fragment{
		Code:     fun(operands[0].Code),
		Typ:      call.RetType,
		Nullable: call.IsNullable,
	}, nil
}

// IgnoredCallImplementor passes its first operand through. The call only
// relabels the operand type.
type IgnoredCallImplementor struct {
}

func (impl *IgnoredCallImplementor) CanImplement(call *Call) bool {
	return len(call.Args) >= 1 && call.Args[0] != nil
}

func (impl *IgnoredCallImplementor) Implement(tr *Translator, call *Call, operands []*Fragment) (*Fragment, error) {
	if len(operands) == 0 {
		return nil, errors.AssertionFailedf("%s has no operand", call.Op.Name())
	}
	return &Fragment{
		Code:     operands[0].Code,
		Typ:      call.RetType,
		Nullable: call.IsNullable,
	}, nil
}

// PseudoColumnImplementor reads the pseudo column a special operator
// produces. The operand only names the relation and emits no code.
type PseudoColumnImplementor struct {
	Specials *SpecialOperators
}

func (impl *PseudoColumnImplementor) CanImplement(call *Call) bool {
	return len(call.Args) == 1 &&
		call.Args[0] != nil &&
		impl.Specials.IsSpecialOperator(call.Op)
}

func (impl *PseudoColumnImplementor) Implement(tr *Translator, call *Call, operands []*Fragment) (*Fragment, error) {
	id, ok := impl.Specials.ColumnId(call.Op)
	if !ok {
		return nil, errors.AssertionFailedf("%s is not a special operator", call.Op.Name())
	}
	return &Fragment{
		Code:     pseudoColumnCode(id),
		Typ:      call.RetType,
		Nullable: call.IsNullable,
	}, nil
}

func pseudoColumnCode(id int) string {
	return fmt.Sprintf("pseudoColumn(0x%X)", id)
}
