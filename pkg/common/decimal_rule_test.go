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

package common

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkBound(t *testing.T, rule *DecimalRule, typ LType) {
	t.Helper()
	require.Equal(t, LTID_DECIMAL, typ.Id)
	assert.GreaterOrEqual(t, typ.Scale, 0, typ.String())
	assert.LessOrEqual(t, typ.Scale, typ.Width, typ.String())
	assert.LessOrEqual(t, typ.Width, rule.MaxPrecision, typ.String())
	assert.Greater(t, typ.Width, 0, typ.String())
}

func TestDefaultDecimalRule(t *testing.T) {
	rule := DefaultDecimalRule()
	assert.Equal(t, 19, rule.MaxPrecision)
	assert.Equal(t, 19, rule.MaxScale)
	assert.Equal(t, 6, rule.ProductScaleCap)
	assert.Equal(t, 6, rule.MinQuotientScale)
	assert.Equal(t, 6, rule.QuotientScaleCap)
}

func TestCreateProduct(t *testing.T) {
	type args struct {
		left, right LType
		wanted      LType
	}
	tests := []args{
		{
			//no capping
			left:   DecimalType(5, 2),
			right:  DecimalType(5, 2),
			wanted: DecimalType(10, 4),
		},
		{
			//scale 19 -> shrink by min(38-19, 19-6) = 13
			left:   DecimalType(19, 10),
			right:  DecimalType(19, 10),
			wanted: DecimalType(19, 6),
		},
		{
			//scale 10, pDiff 1, sDiff 4
			left:   DecimalType(10, 5),
			right:  DecimalType(10, 5),
			wanted: DecimalType(19, 9),
		},
		{
			//precision capped, scale already under the cap
			left:   DecimalType(15, 2),
			right:  DecimalType(15, 3),
			wanted: DecimalType(19, 5),
		},
		{
			left:   IntegerType(),
			right:  DecimalType(5, 2),
			wanted: DecimalType(15, 2),
		},
		{
			left:   IntegerType(),
			right:  SmallintType(),
			wanted: DecimalType(15, 0),
		},
		{
			left:   DecimalType(19, 19),
			right:  DecimalType(19, 19),
			wanted: DecimalType(19, 6),
		},
	}
	rule := DefaultDecimalRule()
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v*%v", tt.left, tt.right), func(t *testing.T) {
			ret, ok := rule.CreateProduct(tt.left, tt.right)
			require.True(t, ok)
			assert.True(t, tt.wanted.Equal(ret), "wanted %v got %v", tt.wanted, ret)
			checkBound(t, rule, ret)
		})
	}
}

func TestNotApplicable(t *testing.T) {
	rule := DefaultDecimalRule()
	type args struct {
		left, right LType
	}
	tests := []args{
		{left: DoubleType(), right: DecimalType(5, 2)},
		{left: DecimalType(5, 2), right: FloatType()},
		{left: VarcharType(), right: IntegerType()},
		{left: BooleanType(), right: IntegerType()},
		//too wide for the type system
		{left: HugeintType(), right: IntegerType()},
		{left: UbigintType(), right: IntegerType()},
	}
	for _, tt := range tests {
		_, ok := rule.CreateProduct(tt.left, tt.right)
		assert.False(t, ok, "%v * %v", tt.left, tt.right)
		_, ok = rule.CreateQuotient(tt.left, tt.right)
		assert.False(t, ok, "%v / %v", tt.left, tt.right)
	}
	assert.Panics(t, func() {
		rule.UseDoubleMultiplication(DoubleType(), IntegerType())
	})
}

func TestUseDoubleMultiplication(t *testing.T) {
	rule := DefaultDecimalRule()
	//18 digits
	assert.False(t, rule.UseDoubleMultiplication(DecimalType(9, 2), DecimalType(9, 2)))
	assert.False(t, rule.UseDoubleMultiplication(DecimalType(10, 0), DecimalType(8, 0)))
	//19 digits
	assert.True(t, rule.UseDoubleMultiplication(DecimalType(10, 2), DecimalType(9, 2)))
	assert.True(t, rule.UseDoubleMultiplication(BigintType(), TinyintType()))
	assert.True(t, rule.UseDoubleMultiplication(DecimalType(19, 0), DecimalType(19, 0)))

	for p1 := 1; p1 <= rule.MaxPrecision; p1++ {
		for p2 := 1; p2 <= rule.MaxPrecision; p2++ {
			got := rule.UseDoubleMultiplication(DecimalType(p1, 0), DecimalType(p2, 0))
			assert.Equal(t, p1+p2 >= rule.MaxPrecision, got, "p1 %d p2 %d", p1, p2)
		}
	}
}

func TestCreateQuotient(t *testing.T) {
	type args struct {
		left, right LType
		wanted      LType
	}
	tests := []args{
		{
			//dout = 5-2+2 = 5
			left:   DecimalType(5, 2),
			right:  DecimalType(5, 2),
			wanted: DecimalType(11, 6),
		},
		{
			//dout = min(19-0+10, 19) = 19, then 19-6
			left:   DecimalType(19, 0),
			right:  DecimalType(19, 10),
			wanted: DecimalType(19, 6),
		},
		{
			//no integer digits
			left:   DecimalType(3, 3),
			right:  IntegerType(),
			wanted: DecimalType(6, 6),
		},
		{
			left:   IntegerType(),
			right:  IntegerType(),
			wanted: DecimalType(16, 6),
		},
	}
	rule := DefaultDecimalRule()
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v/%v", tt.left, tt.right), func(t *testing.T) {
			ret, ok := rule.CreateQuotient(tt.left, tt.right)
			require.True(t, ok)
			assert.True(t, tt.wanted.Equal(ret), "wanted %v got %v", tt.wanted, ret)
			checkBound(t, rule, ret)
		})
	}
}

func allDecimals(maxPrecision int) []LType {
	ret := make([]LType, 0)
	for p := 1; p <= maxPrecision; p++ {
		for s := 0; s <= p; s++ {
			ret = append(ret, DecimalType(p, s))
		}
	}
	return ret
}

func TestDerivedBoundsExhaustive(t *testing.T) {
	rule := DefaultDecimalRule()
	typs := allDecimals(rule.MaxPrecision)
	for _, left := range typs {
		for _, right := range typs {
			prod, ok := rule.CreateProduct(left, right)
			require.True(t, ok)
			checkBound(t, rule, prod)

			quot, ok := rule.CreateQuotient(left, right)
			require.True(t, ok)
			checkBound(t, rule, quot)
		}
	}
}

func TestQuotientRandomSweep(t *testing.T) {
	rule := DefaultDecimalRule()
	rnd := rand.New(rand.NewSource(20240601))
	gen := func() LType {
		p := 1 + rnd.Intn(rule.MaxPrecision)
		s := rnd.Intn(p + 1)
		return DecimalType(p, s)
	}
	for i := 0; i < 10000; i++ {
		left, right := gen(), gen()
		ret, ok := rule.CreateQuotient(left, right)
		require.True(t, ok)
		require.Greater(t, ret.Width, 0, "%v / %v", left, right)
		require.LessOrEqual(t, ret.Width, rule.MaxPrecision, "%v / %v", left, right)
	}
}

func TestNarrowRule(t *testing.T) {
	rule := &DecimalRule{
		MaxPrecision:     10,
		MaxScale:         10,
		ProductScaleCap:  2,
		MinQuotientScale: 2,
		QuotientScaleCap: 4,
	}
	ret, ok := rule.CreateProduct(DecimalType(8, 4), DecimalType(8, 4))
	require.True(t, ok)
	//scale 8, pDiff 6, sDiff 6
	assert.True(t, DecimalType(10, 2).Equal(ret), ret.String())

	ret, ok = rule.CreateQuotient(DecimalType(8, 4), DecimalType(2, 0))
	require.True(t, ok)
	//scale min(max(2, 7), 4) = 4, dout min(4, 10-4)
	assert.True(t, DecimalType(8, 4).Equal(ret), ret.String())

	//integers wider than the type system are not exact numeric here
	_, ok = rule.CreateProduct(BigintType(), IntegerType())
	assert.False(t, ok)

	for _, left := range allDecimals(rule.MaxPrecision) {
		for _, right := range allDecimals(rule.MaxPrecision) {
			prod, _ := rule.CreateProduct(left, right)
			checkBound(t, rule, prod)
			quot, _ := rule.CreateQuotient(left, right)
			checkBound(t, rule, quot)
		}
	}
}

func TestBrokenRuleAsserts(t *testing.T) {
	//no fractional budget for quotients
	rule := &DecimalRule{
		MaxPrecision:     19,
		MaxScale:         19,
		ProductScaleCap:  6,
		MinQuotientScale: 0,
		QuotientScaleCap: 0,
	}
	assert.Panics(t, func() {
		rule.CreateQuotient(DecimalType(2, 2), IntegerType())
	})
}
