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
	"sort"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/daviszhen/rexgen/pkg/util"
)

// ImplementorTable maps operators to their implementors.
//
// A table is filled by one goroutine, then sealed. A sealed table is read
// only and safe for concurrent lookups.
type ImplementorTable struct {
	impls  map[*Operator]Implementor
	sealed atomic.Bool
}

func NewImplementorTable() *ImplementorTable {
	return &ImplementorTable{
		impls: make(map[*Operator]Implementor),
	}
}

// Register binds op to impl. A later registration of the same operator
// replaces the earlier one.
func (table *ImplementorTable) Register(op *Operator, impl Implementor) {
	if table.sealed.Load() {
		panic(fmt.Sprintf("register %s on a sealed implementor table", op.Name()))
	}
	util.AssertFunc(op != nil && impl != nil)
	if prev, has := table.impls[op]; has && prev != impl {
		util.Warn("implementor replaced",
			zap.String("op", op.Name()),
			zap.String("prev", fmt.Sprintf("%T", prev)),
			zap.String("impl", fmt.Sprintf("%T", impl)))
	}
	table.impls[op] = impl
}

// RegisterDefaults registers the builtin operators.
func (table *ImplementorTable) RegisterDefaults() {
	table.Register(EqualOp, &BinaryInfixImplementor{Op: "=="})
	table.Register(LessOp, &BinaryInfixImplementor{Op: "<"})
	table.Register(GreaterOp, &BinaryInfixImplementor{Op: ">"})
	table.Register(AddOp, &BinaryInfixImplementor{Op: "+"})
	table.Register(SubOp, &BinaryInfixImplementor{Op: "-"})
	table.Register(MulOp, &BinaryInfixImplementor{Op: "*"})
	table.Register(DivOp, &BinaryInfixImplementor{Op: "/"})
	table.Register(AndOp, &BinaryInfixImplementor{Op: "&&"})
	table.Register(CastOp, &CastImplementor{})
	table.Register(ReinterpretOp, &IgnoredCallImplementor{})
}

// RegisterSpecials registers every special operator of specials.
func (table *ImplementorTable) RegisterSpecials(specials *SpecialOperators) {
	impl := &PseudoColumnImplementor{Specials: specials}
	for _, meta := range specials.List() {
		table.Register(meta.Op, impl)
	}
}

func (table *ImplementorTable) Seal() {
	table.sealed.Store(true)
}

func (table *ImplementorTable) Sealed() bool {
	return table.sealed.Load()
}

// Get returns the implementor of op. The lookup is by operator identity.
func (table *ImplementorTable) Get(op *Operator) (Implementor, bool) {
	impl, ok := table.impls[op]
	return impl, ok
}

func (table *ImplementorTable) Len() int {
	return len(table.impls)
}

// Operators lists the registered operators in creation order.
func (table *ImplementorTable) Operators() []*Operator {
	ret := make([]*Operator, 0, len(table.impls))
	for op := range table.impls {
		ret = append(ret, op)
	}
	sort.Slice(ret, func(i, j int) bool {
		return operatorLess(ret[i], ret[j])
	})
	return ret
}

var gImplementors util.Lazy[*ImplementorTable]

// DefaultImplementorTable returns the process wide table of builtin and
// special operators. It is built on first use, exactly once.
func DefaultImplementorTable() *ImplementorTable {
	return gImplementors.Get(func() *ImplementorTable {
		table := NewImplementorTable()
		table.RegisterDefaults()
		table.RegisterSpecials(DefaultSpecialOperators())
		table.Seal()
		util.Debug("implementor table built", zap.Int("operators", table.Len()))
		return table
	})
}

// ImplementorTableBuilds counts how many times the default table was built.
func ImplementorTableBuilds() int64 {
	return gImplementors.Builds()
}
