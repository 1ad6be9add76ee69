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
	"runtime/debug"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/daviszhen/rexgen/pkg/util"
)

// TranslateAll translates independent expression trees concurrently. Each
// tree gets its own Translator. Results are in the order of roots.
//
// The leaf translator is shared by all goroutines and must be safe for
// concurrent use. The first failure cancels the trees not started yet.
func TranslateAll(
	ctx context.Context,
	table *ImplementorTable,
	leaf LeafTranslator,
	roots []Node,
	parallelism int,
) ([]*Fragment, error) {
	if table == nil {
		table = DefaultImplementorTable()
	}
	if leaf == nil {
		leaf = &DefaultLeafTranslator{Specials: DefaultSpecialOperators()}
	}
	ret := make([]*Fragment, len(roots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallelism, 1))
	for i, root := range roots {
		g.Go(func() (err error) {
			defer func() {
				if rErr := recover(); rErr != nil {
					err = errors.Wrapf(util.ConvertPanicError(rErr), "expr %d", i)
					util.Error("translate panic",
						zap.Int("expr", i),
						zap.Error(err),
						zap.String("stack", string(debug.Stack())))
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			frag, err := NewTranslator(table, leaf).Translate(root)
			if err != nil {
				return errors.Wrapf(err, "expr %d", i)
			}
			ret[i] = frag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}
