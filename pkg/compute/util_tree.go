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

	"github.com/xlab/treeprint"
)

func nodeLabel(node Node) string {
	switch n := node.(type) {
	case *Call:
		label := fmt.Sprintf("%s : %v", n.Op.Name(), n.RetType)
		if n.WideMultiply {
			label += " wide"
		}
		if n.IsNullable {
			label += " null"
		}
		return label
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%s : %v", node.String(), node.Type())
	}
}

// WriteNodeTree adds node and its operands under tree.
func WriteNodeTree(tree treeprint.Tree, node Node) {
	call, ok := node.(*Call)
	if !ok {
		tree.AddNode(nodeLabel(node))
		return
	}
	sub := tree.AddBranch(nodeLabel(call))
	for _, arg := range call.Args {
		WriteNodeTree(sub, arg)
	}
}

// Explain renders an expression tree. Shared subtrees are printed once
// per parent.
func Explain(node Node) string {
	tree := treeprint.NewWithRoot(nodeLabel(node))
	if call, ok := node.(*Call); ok {
		for _, arg := range call.Args {
			WriteNodeTree(tree, arg)
		}
	}
	return tree.String()
}

func ExplainAll(nodes []Node) string {
	tree := treeprint.NewWithRoot("Exprs:")
	for i, node := range nodes {
		p := tree.AddBranch(fmt.Sprintf("%d", i))
		WriteNodeTree(p, node)
	}
	return tree.String()
}

func ExplainSpecials(specials *SpecialOperators) string {
	tree := treeprint.NewWithRoot("SpecialOperators:")
	for _, meta := range specials.List() {
		tree.AddNode(meta.String())
	}
	return tree.String()
}
