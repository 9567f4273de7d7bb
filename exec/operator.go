package exec

import (
	"context"
	"fmt"

	"github.com/vk/fieldgridgo/field"
)

// Body is a compiled operator computation. It receives the call's arguments
// and returns the computed value; the ctx it runs under carries the offset
// context of the enclosing outermost call, so remaps and nested operator
// calls inside the body resolve against it.
type Body func(ctx context.Context, args []field.Value) (field.Value, error)

// Operator is an immutable wrapper around a compiled computation: the body,
// the metadata external backends need to restage it (a source form, the
// parameter names, the values it captures), and the registry it dispatches
// through.
type Operator struct {
	name      string
	body      Body
	params    []string
	source    string
	captured  map[string]any
	registry  *Registry
	extractor ClosureExtractor
}

// Option configures operator construction.
type Option func(*Operator)

// WithSource records the operator's source form and parameter names. External
// backends receive both; the closure extractor analyzes the source to decide
// which captured names to stage.
func WithSource(source string, params ...string) Option {
	return func(op *Operator) {
		op.source = source
		op.params = append([]string(nil), params...)
	}
}

// WithCaptured records the name→value environment the operator's source form
// may reference beyond its parameters.
func WithCaptured(env map[string]any) Option {
	return func(op *Operator) {
		op.captured = make(map[string]any, len(env))
		for name, v := range env {
			op.captured[name] = v
		}
	}
}

// WithRegistry selects the backend registry the operator dispatches through
// instead of the package default.
func WithRegistry(r *Registry) Option {
	return func(op *Operator) { op.registry = r }
}

// WithExtractor wires the closure extractor consulted when the operator is
// dispatched to a non-embedded backend.
func WithExtractor(x ClosureExtractor) Option {
	return func(op *Operator) { op.extractor = x }
}

// NewOperator builds an operator value. A missing name or nil body is a
// programmer error and panics, like a duplicate registration would.
func NewOperator(name string, body Body, opts ...Option) *Operator {
	if name == "" {
		panic("exec: operator name must not be empty")
	}
	if body == nil {
		panic(fmt.Sprintf("exec: operator %q has a nil body", name))
	}
	op := &Operator{name: name, body: body, registry: DefaultRegistry()}
	for _, opt := range opts {
		opt(op)
	}
	return op
}

// Name returns the operator's registered name.
func (op *Operator) Name() string { return op.name }

// Source returns the operator's source form, empty when none was recorded.
func (op *Operator) Source() string { return op.source }

// Params returns the operator's declared parameter names.
func (op *Operator) Params() []string {
	return append([]string(nil), op.params...)
}

func (op *Operator) String() string { return op.name }

// Descriptor is the backend-facing view of an operator for one call: its
// identity, the source form and parameters, the captured names already
// filtered by the closure extractor, and the compiled body for in-process
// execution. External backends ignore the body; the embedded backend ignores
// the captured map.
type Descriptor struct {
	Name     string
	Source   string
	Params   []string
	Captured map[string]any
	Body     Body
}
