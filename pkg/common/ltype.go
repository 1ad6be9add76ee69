package common

import (
	"fmt"

	"github.com/govalues/decimal"
)

// DecimalMaxWidth is bounded by the coefficient of the decimal runtime.
const DecimalMaxWidth = decimal.MaxPrec

type LType struct {
	Id    LTypeId
	PTyp  PhyType
	Width int
	Scale int
}

// typeTraits is what expressions need to know about a logical type.
type typeTraits struct {
	phy      PhyType
	numeric  bool
	integral bool
	// exact is true when every value has a decimal form of digits
	// significant digits and no fraction.
	exact  bool
	digits int
	// widensTo lists the types a value converts to without an explicit
	// cast.
	widensTo []LTypeId
}

var lTypeTraits = map[LTypeId]typeTraits{
	LTID_INVALID: {phy: INVALID},
	LTID_ANY:     {phy: INVALID},
	LTID_UNKNOWN: {phy: UNKNOWN},
	LTID_NULL:    {phy: INT32, exact: true},
	LTID_BOOLEAN: {phy: BOOL, exact: true, digits: 1},
	LTID_TINYINT: {
		phy: INT8, numeric: true, integral: true, exact: true, digits: 3,
		widensTo: []LTypeId{
			LTID_SMALLINT, LTID_INTEGER, LTID_BIGINT, LTID_HUGEINT,
			LTID_FLOAT, LTID_DOUBLE, LTID_DECIMAL,
		},
	},
	LTID_UTINYINT: {
		phy: UINT8, numeric: true, integral: true, exact: true, digits: 3,
		widensTo: []LTypeId{
			LTID_USMALLINT, LTID_UINTEGER, LTID_UBIGINT, LTID_SMALLINT,
			LTID_INTEGER, LTID_BIGINT, LTID_HUGEINT, LTID_FLOAT,
			LTID_DOUBLE, LTID_DECIMAL,
		},
	},
	LTID_SMALLINT: {
		phy: INT16, numeric: true, integral: true, exact: true, digits: 5,
		widensTo: []LTypeId{
			LTID_INTEGER, LTID_BIGINT, LTID_HUGEINT,
			LTID_FLOAT, LTID_DOUBLE, LTID_DECIMAL,
		},
	},
	LTID_USMALLINT: {
		phy: UINT16, numeric: true, integral: true, exact: true, digits: 5,
		widensTo: []LTypeId{
			LTID_UINTEGER, LTID_UBIGINT, LTID_INTEGER, LTID_BIGINT,
			LTID_HUGEINT, LTID_FLOAT, LTID_DOUBLE, LTID_DECIMAL,
		},
	},
	LTID_INTEGER: {
		phy: INT32, numeric: true, integral: true, exact: true, digits: 10,
		widensTo: []LTypeId{
			LTID_BIGINT, LTID_HUGEINT, LTID_FLOAT, LTID_DOUBLE, LTID_DECIMAL,
		},
	},
	LTID_UINTEGER: {
		phy: UINT32, numeric: true, integral: true, exact: true, digits: 10,
		widensTo: []LTypeId{
			LTID_UBIGINT, LTID_BIGINT, LTID_HUGEINT,
			LTID_FLOAT, LTID_DOUBLE, LTID_DECIMAL,
		},
	},
	LTID_BIGINT: {
		phy: INT64, numeric: true, integral: true, exact: true, digits: 19,
		widensTo: []LTypeId{
			LTID_FLOAT, LTID_DOUBLE, LTID_HUGEINT, LTID_DECIMAL,
		},
	},
	LTID_UBIGINT: {
		phy: UINT64, numeric: true, integral: true, exact: true, digits: 20,
		widensTo: []LTypeId{
			LTID_FLOAT, LTID_DOUBLE, LTID_HUGEINT, LTID_DECIMAL,
		},
	},
	LTID_HUGEINT: {
		phy: INT128, numeric: true, integral: true, exact: true, digits: 38,
		widensTo: []LTypeId{
			LTID_FLOAT, LTID_DOUBLE, LTID_DECIMAL,
		},
	},
	LTID_FLOAT: {
		phy: FLOAT, numeric: true,
		widensTo: []LTypeId{LTID_DOUBLE},
	},
	LTID_DOUBLE: {phy: DOUBLE, numeric: true},
	LTID_DECIMAL: {
		phy: DECIMAL, numeric: true, exact: true,
		widensTo: []LTypeId{LTID_FLOAT, LTID_DOUBLE},
	},
	LTID_DATE: {
		phy:      DATE,
		widensTo: []LTypeId{LTID_TIMESTAMP},
	},
	LTID_TIME:      {phy: INT64},
	LTID_TIMESTAMP: {phy: INT64},
	LTID_INTERVAL:  {phy: INTERVAL},
	LTID_CHAR:      {phy: VARCHAR},
	LTID_VARCHAR:   {phy: VARCHAR},
}

func (id LTypeId) traits() typeTraits {
	tr, has := lTypeTraits[id]
	if !has {
		panic(fmt.Sprintf("usp logical type %d", id))
	}
	return tr
}

func MakeLType(id LTypeId) LType {
	return LType{Id: id, PTyp: id.traits().phy}
}

func Null() LType {
	return MakeLType(LTID_NULL)
}

func Invalid() LType {
	return MakeLType(LTID_INVALID)
}

func DecimalType(width, scale int) LType {
	ret := MakeLType(LTID_DECIMAL)
	ret.Width = width
	ret.Scale = scale
	return ret
}

func HugeintType() LType {
	return MakeLType(LTID_HUGEINT)
}

func BigintType() LType {
	return MakeLType(LTID_BIGINT)
}

func UbigintType() LType {
	return MakeLType(LTID_UBIGINT)
}

func IntegerType() LType {
	return MakeLType(LTID_INTEGER)
}

func SmallintType() LType {
	return MakeLType(LTID_SMALLINT)
}

func TinyintType() LType {
	return MakeLType(LTID_TINYINT)
}

func FloatType() LType {
	return MakeLType(LTID_FLOAT)
}

func DoubleType() LType {
	return MakeLType(LTID_DOUBLE)
}

func BooleanType() LType {
	return MakeLType(LTID_BOOLEAN)
}

func DateType() LType {
	return MakeLType(LTID_DATE)
}

func VarcharType() LType {
	return MakeLType(LTID_VARCHAR)
}

func VarcharType2(width int) LType {
	ret := MakeLType(LTID_VARCHAR)
	ret.Width = width
	return ret
}

func (lt LType) IsValid() bool {
	return lt.Id != LTID_INVALID
}

func (lt LType) IsNumeric() bool {
	return lt.Id.traits().numeric
}

func (lt LType) IsIntegral() bool {
	return lt.Id.traits().integral
}

// GetDecimalSize returns the (precision, scale) a value of the type
// needs when it is handled as a decimal.
func (lt LType) GetDecimalSize() (bool, int, int) {
	if lt.Id == LTID_DECIMAL {
		return true, lt.Width, lt.Scale
	}
	tr := lt.Id.traits()
	return tr.exact, tr.digits, 0
}

func (lt LType) GetInternalType() PhyType {
	return lt.Id.traits().phy
}

func (lt LType) Equal(o LType) bool {
	if lt.Id == LTID_DECIMAL {
		return o.Id == LTID_DECIMAL && lt.Width == o.Width && lt.Scale == o.Scale
	}
	return lt.Id == o.Id
}

func (lt LType) String() string {
	switch lt.Id {
	case LTID_DECIMAL:
		return fmt.Sprintf("%s(%d,%d)", lt.Id.SqlName(), lt.Width, lt.Scale)
	case LTID_VARCHAR, LTID_CHAR:
		if lt.Width > 0 {
			return fmt.Sprintf("%s(%d)", lt.Id.SqlName(), lt.Width)
		}
	}
	return lt.Id.SqlName()
}

// CanWiden reports whether a value of from converts to to without an
// explicit cast.
func CanWiden(from, to LType) bool {
	switch {
	case from.Id == LTID_NULL, from.Id == LTID_UNKNOWN:
		return true
	case to.Id == LTID_ANY, to.Id == LTID_VARCHAR:
		return true
	case from.Id == to.Id:
		return true
	}
	for _, target := range from.Id.traits().widensTo {
		if target == to.Id {
			return true
		}
	}
	return false
}

// fitDecimal widens dec so the integral digits of other fit.
func fitDecimal(other, dec LType) LType {
	exact, digits, _ := other.GetDecimalSize()
	if !exact {
		panic(fmt.Sprintf("to decimal failed. %v ", other))
	}
	if digits <= dec.Width-dec.Scale {
		return dec
	}
	return DecimalType(min(digits+dec.Scale, DecimalMaxWidth), dec.Scale)
}

// widerNumeric picks the numeric type both sides widen to. Signed and
// unsigned integers of the same size meet at the next signed size.
func widerNumeric(left, right LType) LType {
	if left.Id > right.Id {
		left, right = right, left
	}
	switch {
	case CanWiden(left, right):
		if right.Id == LTID_DECIMAL {
			return fitDecimal(left, right)
		}
		return right
	case CanWiden(right, left):
		if left.Id == LTID_DECIMAL {
			return fitDecimal(right, left)
		}
		return left
	case left.Id == LTID_BIGINT || right.Id == LTID_UBIGINT:
		return HugeintType()
	case left.Id == LTID_INTEGER || right.Id == LTID_UINTEGER:
		return BigintType()
	case left.Id == LTID_SMALLINT || right.Id == LTID_USMALLINT:
		return IntegerType()
	case left.Id == LTID_TINYINT || right.Id == LTID_UTINYINT:
		return SmallintType()
	}
	panic(fmt.Sprintf("imcompatible %v %v", left, right))
}

// unionDecimal keeps the integral digits of both sides and gives up
// fraction digits once the width is exhausted.
func unionDecimal(left, right LType) LType {
	integral := max(left.Width-left.Scale, right.Width-right.Scale)
	scale := max(left.Scale, right.Scale)
	width := integral + scale
	if width > DecimalMaxWidth {
		width = DecimalMaxWidth
		scale = width - integral
	}
	return DecimalType(width, scale)
}

// MaxLType is the default result type of combining two operand types.
// Arithmetic derivation falls back to it when a specialized rule does
// not apply.
func MaxLType(left, right LType) LType {
	switch {
	case left.Id != right.Id && left.IsNumeric() && right.IsNumeric():
		return widerNumeric(left, right)
	case left.Id == LTID_UNKNOWN || left.Id == LTID_NULL:
		return right
	case right.Id == LTID_UNKNOWN || right.Id == LTID_NULL:
		return left
	case left.Id == LTID_DATE && right.Id == LTID_INTERVAL:
		return left
	case right.Id == LTID_DATE && left.Id == LTID_INTERVAL:
		return right
	case left.Id < right.Id:
		return right
	case right.Id < left.Id:
		return left
	case left.Id == LTID_DECIMAL:
		return unionDecimal(left, right)
	case left.Id == LTID_VARCHAR:
		//no collation here
		return right
	}
	return left
}
