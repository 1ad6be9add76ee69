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
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviszhen/rexgen/pkg/common"
)

func loadTestDoc(t *testing.T) (*Relation, []Node) {
	data, err := os.ReadFile("testdata/exprs.yaml")
	require.NoError(t, err)
	doc, err := ParseExprDoc(data)
	require.NoError(t, err)
	rel, nodes, err := doc.Build(NewBuilder(nil, nil))
	require.NoError(t, err)
	return rel, nodes
}

func fragmentsText(frags []*Fragment) []byte {
	sb := strings.Builder{}
	for _, frag := range frags {
		sb.WriteString(fmt.Sprintf("%s : %v\n", frag.Code, frag.Typ))
	}
	return []byte(sb.String())
}

func TestTranslateDocGolden(t *testing.T) {
	rel, nodes := loadTestDoc(t)
	require.Len(t, rel.Fields(), 6)
	require.Len(t, nodes, 9)

	tr := NewTranslator(nil, nil)
	frags := make([]*Fragment, 0, len(nodes))
	for _, node := range nodes {
		frag, err := tr.Translate(node)
		require.NoError(t, err, node.String())
		frags = append(frags, frag)
	}
	g := goldie.New(t)
	g.Assert(t, "translate_exprs", fragmentsText(frags))
}

func TestTranslateAll(t *testing.T) {
	_, nodes := loadTestDoc(t)
	tr := NewTranslator(nil, nil)
	wanted := make([]*Fragment, 0, len(nodes))
	for _, node := range nodes {
		frag, err := tr.Translate(node)
		require.NoError(t, err)
		wanted = append(wanted, frag)
	}

	for _, parallelism := range []int{0, 1, 3, 16} {
		frags, err := TranslateAll(context.Background(), nil, nil, nodes, parallelism)
		require.NoError(t, err)
		assert.Equal(t, wanted, frags, "parallelism %d", parallelism)
	}
}

type panicImplementor struct {
}

func (impl *panicImplementor) CanImplement(call *Call) bool {
	return true
}

func (impl *panicImplementor) Implement(tr *Translator, call *Call, operands []*Fragment) (*Fragment, error) {
	panic("broken implementor")
}

func TestTranslateAllErrors(t *testing.T) {
	_, nodes := loadTestDoc(t)
	b := NewBuilder(nil, nil)
	userOp := NewOperator("boom", OPK_User, 1)
	boom, err := b.MakeCallTyped(userOp, common.IntegerType(), false, nodes[0])
	require.NoError(t, err)

	roots := append(append([]Node{}, nodes...), boom)
	_, err = TranslateAll(context.Background(), nil, nil, roots, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnimplementedOperator), err.Error())
	assert.Contains(t, err.Error(), fmt.Sprintf("expr %d", len(nodes)))

	table := NewImplementorTable()
	table.RegisterDefaults()
	table.RegisterSpecials(DefaultSpecialOperators())
	table.Register(userOp, &panicImplementor{})
	table.Seal()
	_, err = TranslateAll(context.Background(), table, nil, roots, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken implementor")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = TranslateAll(ctx, nil, nil, nodes, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseExprDocErrors(t *testing.T) {
	b := NewBuilder(nil, nil)
	tests := []string{
		"exprs: [",
		"input: [integer]",
		"input: [integer]\nexprs: [{field: 0, lit: \"1\"}]",
		"input: [integer]\nexprs: [{}]",
		"input: [integer]\nexprs: [{field: 1}]",
		"input: [nothing]\nexprs: [{field: 0}]",
		"input: [integer]\nexprs: [{op: \"%\", args: [{field: 0}, {field: 0}]}]",
		"input: [integer]\nexprs: [{op: \"+\", args: [{field: 0}]}]",
		"input: [integer]\nexprs: [{cast: {field: 0}, type: blob}]",
		"input: [integer]\nexprs: [{lit: \"1\", type: blob}]",
		"input: [integer]\nexprs: [{isnull: true}]",
		"input: [integer]\nexprs: [{rowid: 3}]",
	}
	for _, text := range tests {
		doc, err := ParseExprDoc([]byte(text))
		if err != nil {
			continue
		}
		_, _, err = doc.Build(b)
		assert.Error(t, err, text)
	}
}

func TestExplain(t *testing.T) {
	_, nodes := loadTestDoc(t)
	out := Explain(nodes[4])
	assert.True(t, strings.HasPrefix(out, "AND : BOOLEAN"), out)
	assert.Contains(t, out, "< : BOOLEAN")
	assert.Contains(t, out, "$0(f0) : INTEGER")
	assert.Contains(t, out, "0.5 : DOUBLE")

	out = Explain(nodes[2])
	assert.Contains(t, out, "* : DECIMAL(19,4) wide null")
	assert.Contains(t, out, "CAST : DECIMAL(9,2) null")

	out = ExplainAll(nodes)
	assert.Contains(t, out, "Exprs:")
	assert.Contains(t, out, "ROWID : BIGINT null")
}
