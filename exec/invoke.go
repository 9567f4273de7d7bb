package exec

import (
	"context"
	"fmt"

	"github.com/vk/fieldgridgo/field"
	"github.com/vk/fieldgridgo/internal/ctxlog"
	"github.com/vk/fieldgridgo/mesh"
)

// CallOption configures one operator invocation.
type CallOption func(*callOptions)

type callOptions struct {
	out         field.Value
	provider    mesh.Provider
	hasProvider bool
	backend     string
}

// WithOut supplies the output target the computed result is copied into.
// Mandatory at outermost scope, forbidden on nested calls.
func WithOut(out field.Value) CallOption {
	return func(c *callOptions) { c.out = out }
}

// WithOffsetProvider supplies the offset-name bindings for the call tree the
// outermost call opens. Forbidden on nested calls.
func WithOffsetProvider(p mesh.Provider) CallOption {
	return func(c *callOptions) {
		c.provider = p
		c.hasProvider = true
	}
}

// WithBackend selects the execution strategy by identifier; the default is
// the embedded backend. Forbidden on nested calls.
func WithBackend(name string) CallOption {
	return func(c *callOptions) { c.backend = name }
}

// Invoke runs the operator. Whether the call is outermost or nested is
// decided by the presence of an open offset context in ctx: the outermost
// call builds one from its offset provider, executes the body through the
// selected backend, copies the fully formed result into out and tears the
// context down on every exit path; a nested call executes the body against
// the caller's context and returns the computed value directly, with no
// copy.
func (op *Operator) Invoke(ctx context.Context, args []field.Value, opts ...CallOption) (field.Value, error) {
	var call callOptions
	for _, opt := range opts {
		opt(&call)
	}
	if len(op.params) > 0 && len(args) != len(op.params) {
		return nil, fmt.Errorf("operator %s takes %d arguments %v, got %d",
			op.name, len(op.params), op.params, len(args))
	}

	if mctx, ok := mesh.FromContext(ctx); ok && !mctx.Closed() {
		return op.invokeNested(ctx, args, &call)
	}
	return op.invokeOutermost(ctx, args, &call)
}

func (op *Operator) invokeNested(ctx context.Context, args []field.Value, call *callOptions) (field.Value, error) {
	switch {
	case call.out != nil:
		return nil, fmt.Errorf("%w: %s called with out", ErrNestedCall, op.name)
	case call.hasProvider:
		return nil, fmt.Errorf("%w: %s called with an offset provider", ErrNestedCall, op.name)
	case call.backend != "":
		return nil, fmt.Errorf("%w: %s called with backend %q", ErrNestedCall, op.name, call.backend)
	}
	return op.body(ctx, args)
}

func (op *Operator) invokeOutermost(ctx context.Context, args []field.Value, call *callOptions) (field.Value, error) {
	logger := ctxlog.FromContext(ctx)
	if call.out == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingOut, op.name)
	}

	provider := call.provider
	if provider == nil {
		provider = mesh.Provider{}
	}
	mctx, err := mesh.NewContext(provider)
	if err != nil {
		return nil, fmt.Errorf("operator %s: %w", op.name, err)
	}
	// The context dies with this call, whether the body succeeds or fails.
	defer mctx.Close()
	ctx = mesh.WithContext(ctx, mctx)

	name := call.backend
	if name == "" {
		name = Embedded
	}
	backend, err := op.registry.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("operator %s: %w", op.name, err)
	}

	desc := Descriptor{
		Name:   op.name,
		Source: op.source,
		Params: op.Params(),
		Body:   op.body,
	}
	if name != Embedded {
		captured, err := op.capturedNames(name)
		if err != nil {
			return nil, err
		}
		desc.Captured = captured
	}

	logger.Debug("Outermost operator call opened.",
		"operator", op.name, "backend", name, "offsets", len(provider), "args", len(args))
	if err := backend.Execute(ctx, desc, args, call.out, mctx); err != nil {
		return nil, err
	}
	logger.Debug("Outermost operator call finished.", "operator", op.name)
	return call.out, nil
}

// capturedNames produces the captured map staged to an external backend. An
// operator without a source form cannot be analyzed; that is only acceptable
// when it also captures nothing.
func (op *Operator) capturedNames(backend string) (map[string]any, error) {
	if op.source == "" {
		if len(op.captured) == 0 {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("operator %s captures %d names but has no source form to analyze for backend %q",
			op.name, len(op.captured), backend)
	}
	if op.extractor == nil {
		return nil, fmt.Errorf("operator %s has no closure extractor wired for backend %q", op.name, backend)
	}
	captured, err := op.extractor.Extract(op.source, op.params, op.captured)
	if err != nil {
		return nil, fmt.Errorf("operator %s closure extraction: %w", op.name, err)
	}
	return captured, nil
}
