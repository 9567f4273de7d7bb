// Package closure extracts the captured names of an operator's source form.
// Backends that stage a computation remotely need to know which values from
// the operator's environment the body actually references; this package
// answers that by parsing the source as an HCL expression and collecting its
// free names.
//
// A name is free when it is neither a declared parameter nor part of the
// runtime vocabulary the extractor was built with. The vocabulary always
// contains the builtin operator names; callers add the dimension and offset
// names of their mesh, since those resolve through the offset-provider
// context at execution time and are never staged.
package closure

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// builtins are the callable primitives of the DSL; they are never captured.
var builtins = []string{
	"neighbor_sum",
	"max_over",
	"min_over",
	"where",
	"broadcast",
}

// Extractor analyzes operator source forms against a fixed vocabulary.
type Extractor struct {
	vocabulary map[string]struct{}
}

// New builds an extractor. The builtin operator names are always in the
// vocabulary; the given names extend it.
func New(vocabulary ...string) *Extractor {
	x := &Extractor{vocabulary: make(map[string]struct{}, len(builtins)+len(vocabulary))}
	for _, name := range builtins {
		x.vocabulary[name] = struct{}{}
	}
	for _, name := range vocabulary {
		x.vocabulary[name] = struct{}{}
	}
	return x
}

// Extract parses source, collects every referenced name (variables and
// function calls), drops params and vocabulary names, and returns the
// remaining names bound to their env values. A free name missing from env is
// an error: the operator could not be restaged faithfully without it.
func (x *Extractor) Extract(source string, params []string, env map[string]any) (map[string]any, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(source), "operator source", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse operator source: %w", diags)
	}

	bound := make(map[string]struct{}, len(params))
	for _, p := range params {
		bound[p] = struct{}{}
	}

	free := make(map[string]struct{})
	collect := func(name string) {
		if _, ok := bound[name]; ok {
			return
		}
		if _, ok := x.vocabulary[name]; ok {
			return
		}
		free[name] = struct{}{}
	}

	// Variables() yields every traversal root. Parameters applied to offsets
	// appear in call position instead, so the syntax tree is walked for
	// function call names as well.
	for _, traversal := range expr.Variables() {
		collect(traversal.RootName())
	}
	hclsyntax.VisitAll(expr, func(node hclsyntax.Node) hcl.Diagnostics {
		if call, ok := node.(*hclsyntax.FunctionCallExpr); ok {
			collect(call.Name)
		}
		return nil
	})

	names := make([]string, 0, len(free))
	for name := range free {
		names = append(names, name)
	}
	sort.Strings(names)

	captured := make(map[string]any, len(names))
	for _, name := range names {
		v, ok := env[name]
		if !ok {
			return nil, fmt.Errorf("operator source references %q, which is not bound in its environment", name)
		}
		captured[name] = v
	}
	return captured, nil
}
