package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLType(t *testing.T) {
	type args struct {
		text   string
		wanted LType
	}
	tests := []args{
		{text: "integer", wanted: IntegerType()},
		{text: "INT", wanted: IntegerType()},
		{text: " bigint ", wanted: BigintType()},
		{text: "int8", wanted: BigintType()},
		{text: "decimal(5,2)", wanted: DecimalType(5, 2)},
		{text: "Numeric( 10 , 0 )", wanted: DecimalType(10, 0)},
		{text: "decimal(7)", wanted: DecimalType(7, 0)},
		{text: "decimal", wanted: DecimalType(DecimalMaxWidth, 0)},
		{text: "varchar(20)", wanted: VarcharType2(20)},
		{text: "text", wanted: VarcharType()},
		{text: "boolean", wanted: BooleanType()},
		{text: "double", wanted: DoubleType()},
		{text: "date", wanted: DateType()},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			typ, err := ParseLType(tt.text)
			require.NoError(t, err)
			assert.True(t, tt.wanted.Equal(typ), "wanted %v got %v", tt.wanted, typ)
			assert.Equal(t, tt.wanted.Width, typ.Width)
		})
	}

	bad := []string{
		"",
		"nothing",
		"any",
		"decimal(20,2)",
		"decimal(5,6)",
		"decimal(0)",
		"decimal(5,2",
		"decimal(a,b)",
		"decimal(1,2,3)",
		"integer(4)",
		"varchar(1,2)",
	}
	for _, text := range bad {
		_, err := ParseLType(text)
		assert.Error(t, err, text)
	}
}

func TestLTypeString(t *testing.T) {
	assert.Equal(t, "DECIMAL(10,4)", DecimalType(10, 4).String())
	assert.Equal(t, "INTEGER", IntegerType().String())
	assert.Equal(t, "VARCHAR(3)", VarcharType2(3).String())
	assert.Equal(t, "VARCHAR", VarcharType().String())
	assert.Equal(t, "LTID_BIGINT", LTID_BIGINT.String())
	assert.Panics(t, func() {
		_ = LTypeId(9999).String()
	})
}

func TestLiteralType(t *testing.T) {
	type args struct {
		text   string
		wanted LType
	}
	tests := []args{
		{text: "42", wanted: IntegerType()},
		{text: "-7", wanted: IntegerType()},
		{text: "3000000000", wanted: BigintType()},
		{text: "123.45", wanted: DecimalType(5, 2)},
		{text: "0.50", wanted: DecimalType(2, 2)},
		{text: "-1.5", wanted: DecimalType(2, 1)},
		{text: "0.000", wanted: DecimalType(3, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			typ, err := LiteralType(tt.text)
			require.NoError(t, err)
			assert.True(t, tt.wanted.Equal(typ), "wanted %v got %v", tt.wanted, typ)
		})
	}
	_, err := LiteralType("1.2.3")
	assert.Error(t, err)
	_, err = LiteralType("abc")
	assert.Error(t, err)
}

func TestMaxLType(t *testing.T) {
	type args struct {
		left, right LType
		wanted      LType
	}
	tests := []args{
		{left: IntegerType(), right: BigintType(), wanted: BigintType()},
		{left: IntegerType(), right: DoubleType(), wanted: DoubleType()},
		{left: DecimalType(5, 2), right: DecimalType(7, 1), wanted: DecimalType(8, 2)},
		{left: IntegerType(), right: DecimalType(5, 2), wanted: DecimalType(12, 2)},
		{left: DecimalType(19, 0), right: DecimalType(19, 10), wanted: DecimalType(19, 0)},
		{left: Null(), right: DateType(), wanted: DateType()},
		{left: BigintType(), right: UbigintType(), wanted: HugeintType()},
		{left: UbigintType(), right: DecimalType(5, 2), wanted: DecimalType(19, 2)},
	}
	for _, tt := range tests {
		got := MaxLType(tt.left, tt.right)
		assert.True(t, tt.wanted.Equal(got), "%v %v: wanted %v got %v", tt.left, tt.right, tt.wanted, got)
	}
	assert.Panics(t, func() {
		MaxLType(BooleanType(), MakeLType(LTypeId(9999)))
	})
}

func TestCanWiden(t *testing.T) {
	type args struct {
		from, to LType
		wanted   bool
	}
	tests := []args{
		{from: IntegerType(), to: IntegerType(), wanted: true},
		{from: IntegerType(), to: DecimalType(5, 2), wanted: true},
		{from: Null(), to: DateType(), wanted: true},
		{from: DateType(), to: VarcharType(), wanted: true},
		{from: DoubleType(), to: IntegerType(), wanted: false},
		{from: DecimalType(5, 2), to: BigintType(), wanted: false},
		{from: UbigintType(), to: BigintType(), wanted: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wanted, CanWiden(tt.from, tt.to), "%v -> %v", tt.from, tt.to)
	}
}
