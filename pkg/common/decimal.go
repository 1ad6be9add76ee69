package common

import (
	"fmt"
	"strconv"

	decimal2 "github.com/govalues/decimal"
)

type Decimal struct {
	decimal2.Decimal
}

func ParseDecimal(text string) (Decimal, error) {
	d, err := decimal2.Parse(text)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{d}, nil
}

func (dec *Decimal) Equal(o *Decimal) bool {
	return dec.Decimal.Cmp(o.Decimal) == 0
}

func (dec *Decimal) String() string {
	return dec.Decimal.String()
}

// Type is the narrowest DECIMAL holding the value.
func (dec *Decimal) Type() LType {
	scale := dec.Decimal.Scale()
	prec := max(dec.Decimal.Prec(), scale, 1)
	return DecimalType(prec, scale)
}

// LiteralType derives the type of a numeric literal. Literals without a
// fractional part become INTEGER or BIGINT when they fit, everything else
// is the narrowest DECIMAL holding the value.
func LiteralType(text string) (LType, error) {
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		if v >= -2147483647 && v <= 2147483647 {
			return IntegerType(), nil
		}
		return BigintType(), nil
	}
	dec, err := ParseDecimal(text)
	if err != nil {
		return Invalid(), fmt.Errorf("invalid numeric literal %q: %w", text, err)
	}
	return dec.Type(), nil
}
