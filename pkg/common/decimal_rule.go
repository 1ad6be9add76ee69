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

	"github.com/daviszhen/rexgen/pkg/util"
)

// DecimalRule derives result types of exact numeric multiplication and
// division. A rule is immutable and safe for concurrent use.
//
// Every derived type satisfies 0 <= scale <= precision <= MaxPrecision.
type DecimalRule struct {
	MaxPrecision int
	MaxScale     int

	// ProductScaleCap is the fractional digit budget a product keeps
	// before integer digits win over fractional digits.
	ProductScaleCap int

	MinQuotientScale int
	QuotientScaleCap int
}

func DefaultDecimalRule() *DecimalRule {
	return NewDecimalRuleFromConfig(util.DefaultConfig())
}

func NewDecimalRuleFromConfig(cfg *util.Config) *DecimalRule {
	return &DecimalRule{
		MaxPrecision:     cfg.TypeSystem.MaxPrecision,
		MaxScale:         cfg.TypeSystem.MaxScale,
		ProductScaleCap:  cfg.Decimal.ProductScaleCap,
		MinQuotientScale: cfg.Decimal.MinQuotientScale,
		QuotientScaleCap: cfg.Decimal.QuotientScaleCap,
	}
}

// ExactNumeric returns the (precision, scale) of an exact numeric type.
// Integers have scale 0. Types that are not exact numeric, or whose digits
// do not fit MaxPrecision, are rejected.
func (rule *DecimalRule) ExactNumeric(typ LType) (int, int, bool) {
	if typ.Id != LTID_DECIMAL && !typ.IsIntegral() {
		return 0, 0, false
	}
	_, prec, scale := typ.GetDecimalSize()
	if prec <= 0 || prec > rule.MaxPrecision || scale < 0 || scale > prec {
		return 0, 0, false
	}
	return prec, scale, true
}

// CreateProduct derives the type of t1 * t2. The second result is false
// when either side is not exact numeric, and the caller falls back to its
// default rule.
func (rule *DecimalRule) CreateProduct(t1, t2 LType) (LType, bool) {
	p1, s1, ok1 := rule.ExactNumeric(t1)
	p2, s2, ok2 := rule.ExactNumeric(t2)
	if !ok1 || !ok2 {
		return Invalid(), false
	}

	scale := min(s1+s2, rule.MaxScale)
	precision := p1 + p2
	if precision > rule.MaxPrecision && scale > rule.ProductScaleCap {
		//keep integer digits. drop fractional digits down to the cap
		pDiff := precision - rule.MaxPrecision
		sDiff := scale - rule.ProductScaleCap
		scale -= min(pDiff, sDiff)
	}
	precision = min(precision, rule.MaxPrecision)

	rule.checkBounds("product", t1, t2, precision, scale)
	return DecimalType(precision, scale), true
}

// UseDoubleMultiplication reports whether fixed point multiplication of
// t1 and t2 may overflow, in which case execution multiplies in a wider
// approximate representation. Both sides must be exact numeric.
func (rule *DecimalRule) UseDoubleMultiplication(t1, t2 LType) bool {
	_, ok := rule.CreateProduct(t1, t2)
	util.AssertFunc(ok)
	p1, _, _ := rule.ExactNumeric(t1)
	p2, _, _ := rule.ExactNumeric(t2)
	return p1+p2 >= rule.MaxPrecision
}

// CreateQuotient derives the type of t1 / t2. The second result is false
// when either side is not exact numeric.
func (rule *DecimalRule) CreateQuotient(t1, t2 LType) (LType, bool) {
	p1, s1, ok1 := rule.ExactNumeric(t1)
	p2, s2, ok2 := rule.ExactNumeric(t2)
	if !ok1 || !ok2 {
		return Invalid(), false
	}

	//integer digits after aligning the scales
	dout := min(p1-s1+s2, rule.MaxPrecision)
	scale := min(max(rule.MinQuotientScale, s1+p2+1), rule.QuotientScaleCap)
	dout = min(dout, rule.MaxPrecision-scale)
	precision := dout + scale

	util.AssertFunc(precision > 0)
	rule.checkBounds("quotient", t1, t2, precision, scale)
	return DecimalType(precision, scale), true
}

func (rule *DecimalRule) checkBounds(what string, t1, t2 LType, precision, scale int) {
	if scale < 0 || scale > precision || precision > rule.MaxPrecision {
		panic(fmt.Sprintf("%s of %v and %v derived DECIMAL(%d,%d) out of bounds (max precision %d)",
			what, t1, t2, precision, scale, rule.MaxPrecision))
	}
}
