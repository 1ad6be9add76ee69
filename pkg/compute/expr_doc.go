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
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/daviszhen/rexgen/pkg/common"
)

// ExprDoc is a YAML description of an input row and expressions over it.
//
//	input: [integer, "decimal(10,2)"]
//	exprs:
//	  - op: "*"
//	    args: [{field: 0}, {lit: "1.5"}]
//	  - rowid: 0
type ExprDoc struct {
	Input []string   `yaml:"input"`
	Exprs []ExprItem `yaml:"exprs"`
}

// ExprItem describes one node. Exactly one of Op, Field, Lit, Null (isnull),
// Rowid and Cast is set.
type ExprItem struct {
	Op    string     `yaml:"op,omitempty"`
	Args  []ExprItem `yaml:"args,omitempty"`
	Field *int       `yaml:"field,omitempty"`
	Lit   *string    `yaml:"lit,omitempty"`
	Null  bool       `yaml:"isnull,omitempty"`
	Rowid *int       `yaml:"rowid,omitempty"`
	Cast  *ExprItem  `yaml:"cast,omitempty"`
	Type  string     `yaml:"type,omitempty"`
}

func ParseExprDoc(data []byte) (*ExprDoc, error) {
	doc := &ExprDoc{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(err, "decode expression document")
	}
	if len(doc.Exprs) == 0 {
		return nil, errors.New("expression document has no exprs")
	}
	return doc, nil
}

// Relation builds the input relation. Fields are nullable and named
// f0, f1, ...
func (doc *ExprDoc) Relation() (*Relation, error) {
	fields := make([]Field, 0, len(doc.Input))
	for i, name := range doc.Input {
		typ, err := common.ParseLType(name)
		if err != nil {
			return nil, errors.Wrapf(err, "input %d", i)
		}
		fields = append(fields, Field{
			Name:     fmt.Sprintf("f%d", i),
			Typ:      typ,
			Nullable: true,
		})
	}
	return NewRelation(fields...), nil
}

// Build makes the expression trees of the document.
func (doc *ExprDoc) Build(b *Builder) (*Relation, []Node, error) {
	rel, err := doc.Relation()
	if err != nil {
		return nil, nil, err
	}
	ret := make([]Node, 0, len(doc.Exprs))
	for i := range doc.Exprs {
		node, err := buildItem(b, rel, &doc.Exprs[i])
		if err != nil {
			return nil, nil, errors.Wrapf(err, "expr %d", i)
		}
		ret = append(ret, node)
	}
	return rel, ret, nil
}

func buildItem(b *Builder, rel *Relation, item *ExprItem) (Node, error) {
	set := 0
	for _, has := range []bool{
		item.Op != "",
		item.Field != nil,
		item.Lit != nil,
		item.Null,
		item.Rowid != nil,
		item.Cast != nil,
	} {
		if has {
			set++
		}
	}
	if set != 1 {
		return nil, errors.Newf("want exactly one of op, field, lit, isnull, rowid, cast. got %d", set)
	}

	switch {
	case item.Field != nil:
		return b.MakeInputRef(rel, *item.Field)
	case item.Lit != nil:
		if item.Type == "" {
			return b.MakeNumber(*item.Lit)
		}
		typ, err := common.ParseLType(item.Type)
		if err != nil {
			return nil, err
		}
		return b.MakeLiteral(*item.Lit, typ)
	case item.Null:
		typ, err := common.ParseLType(item.Type)
		if err != nil {
			return nil, err
		}
		return b.MakeNull(typ), nil
	case item.Rowid != nil:
		return b.Specials().MakeRidExpr(b, rel, *item.Rowid)
	case item.Cast != nil:
		typ, err := common.ParseLType(item.Type)
		if err != nil {
			return nil, err
		}
		arg, err := buildItem(b, rel, item.Cast)
		if err != nil {
			return nil, err
		}
		return b.MakeCast(arg, typ)
	default:
		op, err := lookupOperator(item.Op)
		if err != nil {
			return nil, err
		}
		args := make([]Node, 0, len(item.Args))
		for i := range item.Args {
			arg, err := buildItem(b, rel, &item.Args[i])
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return b.MakeCall(op, args...)
	}
}

func lookupOperator(name string) (*Operator, error) {
	for _, op := range BuiltinOperators() {
		if strings.EqualFold(op.Name(), name) {
			return op, nil
		}
	}
	return nil, errors.Newf("unknown operator %q", name)
}
