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
	"math"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq/oid"
	treemap "github.com/liyue201/gostl/ds/map"
	"github.com/tidwall/btree"
	"go.uber.org/zap"

	"github.com/daviszhen/rexgen/pkg/common"
	"github.com/daviszhen/rexgen/pkg/util"
)

// Pseudo columns travel through the same integer channel as column
// ordinals. Their ids live in [SpecialColumnIdBase, math.MaxInt32], far
// above any real ordinal.
const (
	SpecialColumnIdBase = 0x7FFFFF00
	SpecialColumnIdMax  = math.MaxInt32
)

const (
	RowLocatorOffset = 0
)

// RowLocatorOp produces the physical location of a row.
var RowLocatorOp = NewOperator("ROWID", OPK_RowLocator, 1)

// IsReservedColumnId reports whether id lies in the pseudo column band.
// The id may still be unassigned.
func IsReservedColumnId(id int) bool {
	return id >= SpecialColumnIdBase && id <= SpecialColumnIdMax
}

type SpecialOp struct {
	Op       *Operator
	RetOid   oid.Oid
	RetType  common.LType
	Nullable bool
	ColumnId int
}

// RetTypeName is the wire name of the return type.
func (meta *SpecialOp) RetTypeName() string {
	return oid.TypeName[meta.RetOid]
}

func (meta *SpecialOp) String() string {
	null := "not null"
	if meta.Nullable {
		null = "null"
	}
	return fmt.Sprintf("%s %s %s 0x%X", meta.Op.Name(), meta.RetTypeName(), null, meta.ColumnId)
}

func specialOpLess(a, b *SpecialOp) bool {
	return a.ColumnId < b.ColumnId
}

func operatorCmp(a, b *Operator) int {
	switch {
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	default:
		return 0
	}
}

// SpecialOperators is the closed set of operators that denote pseudo
// columns. It has two indexes built together, by operator and by
// synthetic column id. It is read only after construction.
type SpecialOperators struct {
	byOp *treemap.Map[*Operator, *SpecialOp]
	byId *btree.BTreeG[*SpecialOp]
}

func builtinSpecialOps() []*SpecialOp {
	return []*SpecialOp{
		{
			Op:       RowLocatorOp,
			RetOid:   oid.T_int8,
			RetType:  common.BigintType(),
			Nullable: true,
			ColumnId: SpecialColumnIdBase + RowLocatorOffset,
		},
	}
}

func NewSpecialOperators() *SpecialOperators {
	return newSpecialOperators(builtinSpecialOps()...)
}

func newSpecialOperators(ops ...*SpecialOp) *SpecialOperators {
	specials := &SpecialOperators{
		byOp: treemap.New[*Operator, *SpecialOp](operatorCmp),
		byId: btree.NewBTreeG[*SpecialOp](specialOpLess),
	}
	for _, meta := range ops {
		if !IsReservedColumnId(meta.ColumnId) {
			panic(fmt.Sprintf("special operator %s has column id %d outside the reserved band",
				meta.Op.Name(), meta.ColumnId))
		}
		if _, err := specials.byOp.Get(meta.Op); err == nil {
			panic(fmt.Sprintf("special operator %s registered twice", meta.Op.Name()))
		}
		if old, ok := specials.byId.Get(meta); ok {
			panic(fmt.Sprintf("special operators %s and %s share column id 0x%X",
				old.Op.Name(), meta.Op.Name(), meta.ColumnId))
		}
		specials.byOp.Insert(meta.Op, meta)
		specials.byId.Set(meta)
	}
	return specials
}

var gSpecials util.Lazy[*SpecialOperators]

func DefaultSpecialOperators() *SpecialOperators {
	return gSpecials.Get(func() *SpecialOperators {
		specials := NewSpecialOperators()
		util.Debug("special operators built", zap.Int("count", specials.Len()))
		return specials
	})
}

func (specials *SpecialOperators) ByOp(op *Operator) (*SpecialOp, bool) {
	meta, err := specials.byOp.Get(op)
	if err != nil {
		return nil, false
	}
	return meta, true
}

func (specials *SpecialOperators) ById(id int) (*SpecialOp, bool) {
	return specials.byId.Get(&SpecialOp{ColumnId: id})
}

func (specials *SpecialOperators) IsSpecialOperator(op *Operator) bool {
	_, ok := specials.ByOp(op)
	return ok
}

func (specials *SpecialOperators) IsSpecialColumnId(id int) bool {
	if !IsReservedColumnId(id) {
		return false
	}
	_, ok := specials.ById(id)
	return ok
}

func (specials *SpecialOperators) OpName(op *Operator) (string, bool) {
	meta, ok := specials.ByOp(op)
	if !ok {
		return "", false
	}
	return meta.Op.Name(), true
}

func (specials *SpecialOperators) OpNameById(id int) (string, bool) {
	meta, ok := specials.ById(id)
	if !ok {
		return "", false
	}
	return meta.Op.Name(), true
}

func (specials *SpecialOperators) RetTypeName(id int) (string, bool) {
	meta, ok := specials.ById(id)
	if !ok {
		return "", false
	}
	return meta.RetTypeName(), true
}

func (specials *SpecialOperators) IsNullable(id int) (nullable bool, ok bool) {
	meta, ok := specials.ById(id)
	if !ok {
		return false, false
	}
	return meta.Nullable, true
}

func (specials *SpecialOperators) ColumnId(op *Operator) (int, bool) {
	meta, ok := specials.ByOp(op)
	if !ok {
		return 0, false
	}
	return meta.ColumnId, true
}

func (specials *SpecialOperators) Len() int {
	return specials.byId.Len()
}

// List returns the special operators ordered by column id.
func (specials *SpecialOperators) List() []*SpecialOp {
	ret := make([]*SpecialOp, 0, specials.byId.Len())
	specials.byId.Scan(func(meta *SpecialOp) bool {
		ret = append(ret, meta)
		return true
	})
	return ret
}

// MakeRidExpr applies the row locator to field fieldNo of rel. fieldNo
// defaults to 0. The row shape of rel does not change.
func (specials *SpecialOperators) MakeRidExpr(builder ExprBuilder, rel RelNode, fieldNo ...int) (Node, error) {
	no := 0
	if len(fieldNo) > 0 {
		no = fieldNo[0]
	}
	if !specials.IsSpecialOperator(RowLocatorOp) {
		return nil, errors.New("row locator is not a special operator")
	}
	ref, err := builder.MakeInputRef(rel, no)
	if err != nil {
		return nil, err
	}
	return builder.MakeCall(RowLocatorOp, ref)
}
