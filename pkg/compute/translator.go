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
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/daviszhen/rexgen/pkg/common"
	"github.com/daviszhen/rexgen/pkg/util"
)

// ErrUnimplementedOperator marks translation failures caused by an
// operator without a usable implementor.
var ErrUnimplementedOperator = errors.New("unimplemented operator")

// LeafTranslator generates code for nodes that are not calls.
type LeafTranslator interface {
	TranslateLeaf(node Node) (*Fragment, error)
}

type LeafTranslatorFunc func(node Node) (*Fragment, error)

func (fun LeafTranslatorFunc) TranslateLeaf(node Node) (*Fragment, error) {
	return fun(node)
}

// DefaultLeafTranslator reads fields from a row slice named "row" and
// prints literals as Go literals. It has no state.
type DefaultLeafTranslator struct {
	Specials *SpecialOperators
}

func (leaf *DefaultLeafTranslator) TranslateLeaf(node Node) (*Fragment, error) {
	switch n := node.(type) {
	case *FieldRef:
		code := fmt.Sprintf("row[%d]", n.Index)
		if leaf.Specials != nil && leaf.Specials.IsSpecialColumnId(n.Index) {
			code = pseudoColumnCode(n.Index)
		} else if n.Index < 0 || IsReservedColumnId(n.Index) {
			return nil, errors.Newf("field %d is not a column", n.Index)
		}
		return &Fragment{Code: code, Typ: n.Typ, Nullable: n.IsNullable}, nil
	case *Literal:
		code, err := literalCode(n)
		if err != nil {
			return nil, err
		}
		return &Fragment{Code: code, Typ: n.Typ, Nullable: n.IsNull}, nil
	default:
		return nil, errors.Newf("no leaf translation for %T", node)
	}
}

func literalCode(lit *Literal) (string, error) {
	if lit.IsNull {
		return "nil", nil
	}
	typ := lit.Typ
	switch {
	case typ.Id == common.LTID_BOOLEAN:
		b, err := strconv.ParseBool(lit.Text)
		if err != nil {
			return "", errors.Wrapf(err, "boolean literal %q", lit.Text)
		}
		return strconv.FormatBool(b), nil
	case typ.Id == common.LTID_DECIMAL:
		dec, err := common.ParseDecimal(lit.Text)
		if err != nil {
			return "", errors.Wrapf(err, "decimal literal %q", lit.Text)
		}
		return fmt.Sprintf("decimal.MustParse(%q)", dec.String()), nil
	case typ.IsIntegral():
		v, err := strconv.ParseInt(lit.Text, 10, 64)
		if err != nil {
			return "", errors.Wrapf(err, "integer literal %q", lit.Text)
		}
		return strconv.FormatInt(v, 10), nil
	case typ.Id == common.LTID_FLOAT || typ.Id == common.LTID_DOUBLE:
		v, err := strconv.ParseFloat(lit.Text, 64)
		if err != nil {
			return "", errors.Wrapf(err, "float literal %q", lit.Text)
		}
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case typ.Id == common.LTID_VARCHAR || typ.Id == common.LTID_CHAR:
		return strconv.Quote(lit.Text), nil
	default:
		return "", errors.Newf("no literal of type %v", typ)
	}
}

type planStep struct {
	node Node
	impl Implementor
}

type planFrame struct {
	node     Node
	expanded bool
	impl     Implementor
}

// Translator turns expression trees into Go source fragments.
//
// A Translator memoizes fragments by node identity, so a subtree shared
// by several parents is emitted once. It is not safe for concurrent use.
type Translator struct {
	table *ImplementorTable
	leaf  LeafTranslator
	memo  map[Node]*Fragment
}

func NewTranslator(table *ImplementorTable, leaf LeafTranslator) *Translator {
	if table == nil {
		table = DefaultImplementorTable()
	}
	if leaf == nil {
		leaf = &DefaultLeafTranslator{Specials: DefaultSpecialOperators()}
	}
	return &Translator{
		table: table,
		leaf:  leaf,
		memo:  make(map[Node]*Fragment),
	}
}

// Translate returns the fragment of root, translating operands first.
//
// Every call in the tree is checked before any code is generated. If one
// of them has no implementor, or its implementor cannot handle it, the
// error wraps ErrUnimplementedOperator and no implementor has been asked
// to implement anything.
func (tr *Translator) Translate(root Node) (*Fragment, error) {
	if root == nil {
		return nil, errors.AssertionFailedf("translate nil expression")
	}
	if frag, ok := tr.memo[root]; ok {
		return frag, nil
	}
	passId := uuid.New().String()
	steps, leaves, err := tr.plan(root)
	if err != nil {
		util.Debug("translate aborted",
			zap.String("pass", passId),
			zap.String("expr", root.String()),
			zap.Error(err))
		return nil, err
	}

	for node, frag := range leaves {
		tr.memo[node] = frag
	}
	for _, st := range steps {
		if st.impl == nil {
			continue
		}
		call := st.node.(*Call)
		operands := make([]*Fragment, len(call.Args))
		for i, arg := range call.Args {
			operand, ok := tr.memo[arg]
			if !ok {
				return nil, errors.AssertionFailedf("operand %d of %s was not translated", i, call.Op.Name())
			}
			operands[i] = operand
		}
		frag, err := st.impl.Implement(tr, call, operands)
		if err != nil {
			return nil, errors.Wrapf(err, "implement %s", call.Op.Name())
		}
		if frag == nil {
			return nil, errors.AssertionFailedf("implementor of %s returned no fragment", call.Op.Name())
		}
		tr.memo[call] = frag
	}
	util.Debug("translate done",
		zap.String("pass", passId),
		zap.Int("steps", len(steps)),
		zap.Int("memo", len(tr.memo)))
	return tr.memo[root], nil
}

// plan walks the tree in post order without recursion. It resolves the
// implementor of every untranslated call and translates the leaves.
// Nothing is stored into the memo.
func (tr *Translator) plan(root Node) ([]planStep, map[Node]*Fragment, error) {
	steps := make([]planStep, 0)
	leaves := make(map[Node]*Fragment)
	visited := make(map[Node]bool)
	stack := []planFrame{{node: root}}
	for !util.Empty(stack) {
		top := util.Back(stack)
		stack = util.Pop(stack)
		if top.node == nil {
			return nil, nil, errors.AssertionFailedf("nil operand")
		}
		if _, ok := tr.memo[top.node]; ok {
			continue
		}
		if top.expanded {
			steps = append(steps, planStep{node: top.node, impl: top.impl})
			continue
		}
		if visited[top.node] {
			continue
		}
		visited[top.node] = true

		call, ok := top.node.(*Call)
		if !ok {
			frag, err := tr.leaf.TranslateLeaf(top.node)
			if err != nil {
				return nil, nil, err
			}
			leaves[top.node] = frag
			steps = append(steps, planStep{node: top.node})
			continue
		}
		impl, err := tr.resolve(call)
		if err != nil {
			return nil, nil, err
		}
		stack = append(stack, planFrame{node: call, expanded: true, impl: impl})
		for i := len(call.Args) - 1; i >= 0; i-- {
			stack = append(stack, planFrame{node: call.Args[i]})
		}
	}
	return steps, leaves, nil
}

func (tr *Translator) resolve(call *Call) (Implementor, error) {
	if call.Op == nil {
		return nil, errors.AssertionFailedf("call without operator")
	}
	impl, ok := tr.table.Get(call.Op)
	if !ok {
		return nil, errors.Wrapf(ErrUnimplementedOperator, "no implementor for %s", call.Op.Name())
	}
	if !impl.CanImplement(call) {
		return nil, errors.Wrapf(ErrUnimplementedOperator, "cannot implement %s", call.String())
	}
	return impl, nil
}

// Reset drops memoized fragments.
func (tr *Translator) Reset() {
	clear(tr.memo)
}
