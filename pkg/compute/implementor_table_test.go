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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"github.com/daviszhen/rexgen/pkg/util"
)

func TestDefaultImplementorTableOnce(t *testing.T) {
	const n = 64
	tables := make([]*ImplementorTable, n)
	g := errgroup.Group{}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			tables[i] = DefaultImplementorTable()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for _, table := range tables {
		assert.Same(t, tables[0], table)
	}
	assert.Equal(t, int64(1), ImplementorTableBuilds())
	assert.True(t, tables[0].Sealed())
}

func TestDefaultImplementorTableContents(t *testing.T) {
	table := DefaultImplementorTable()
	wanted := append(BuiltinOperators(), RowLocatorOp)
	assert.Equal(t, len(wanted), table.Len())
	assert.Equal(t, wanted, table.Operators())

	infix := map[*Operator]string{
		EqualOp:   "==",
		LessOp:    "<",
		GreaterOp: ">",
		AddOp:     "+",
		SubOp:     "-",
		MulOp:     "*",
		DivOp:     "/",
		AndOp:     "&&",
	}
	for op, sym := range infix {
		impl, ok := table.Get(op)
		require.True(t, ok, op.Name())
		bin, ok := impl.(*BinaryInfixImplementor)
		require.True(t, ok, op.Name())
		assert.Equal(t, sym, bin.Op)
	}

	impl, ok := table.Get(CastOp)
	require.True(t, ok)
	assert.IsType(t, &CastImplementor{}, impl)
	impl, ok = table.Get(ReinterpretOp)
	require.True(t, ok)
	assert.IsType(t, &IgnoredCallImplementor{}, impl)
	impl, ok = table.Get(RowLocatorOp)
	require.True(t, ok)
	assert.IsType(t, &PseudoColumnImplementor{}, impl)
}

func TestImplementorTableRegister(t *testing.T) {
	//same display name, different identity
	plus := NewOperator("+", OPK_User, 2)
	table := NewImplementorTable()
	_, ok := table.Get(plus)
	assert.False(t, ok)

	core, logs := observer.New(zap.WarnLevel)
	prevLogger := util.Logger()
	util.SetLogger(zap.New(core))
	defer util.SetLogger(prevLogger)

	first := &BinaryInfixImplementor{Op: "+"}
	second := &BinaryInfixImplementor{Op: "|"}
	table.Register(plus, first)
	table.Register(plus, first)
	assert.Equal(t, 0, logs.Len())
	table.Register(plus, second)
	assert.Equal(t, 1, table.Len())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "implementor replaced", logs.All()[0].Message)
	impl, ok := table.Get(plus)
	require.True(t, ok)
	assert.Same(t, second, impl)
	_, ok = table.Get(AddOp)
	assert.False(t, ok)

	table.Seal()
	assert.Panics(t, func() {
		table.Register(AddOp, first)
	})
	assert.Panics(t, func() {
		DefaultImplementorTable().Register(plus, first)
	})
	_, ok = DefaultImplementorTable().Get(plus)
	assert.False(t, ok)
}
