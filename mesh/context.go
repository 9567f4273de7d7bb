package mesh

import (
	"context"
	"fmt"
)

// Context is the offset-provider context of one outermost operator call. The
// invocation controller creates it when the call opens, threads it through
// context.Context, and closes it when the call returns on any path. Between
// those two points it is consulted read-only by every remap expression in the
// call tree, nested operator calls included.
//
// A Context belongs to a single call tree and is not safe for concurrent use;
// concurrent outermost calls need their own context.Context chains.
type Context struct {
	entries Provider
	closed  bool
}

// NewContext validates the provider and wraps it in a fresh open context.
func NewContext(p Provider) (*Context, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	entries := make(Provider, len(p))
	for name, entry := range p {
		entries[name] = entry
	}
	return &Context{entries: entries}, nil
}

// Provider returns a snapshot of the registered entries. It exists for
// serialization boundaries such as external backends; resolution during a
// call goes through Resolve.
func (c *Context) Provider() Provider {
	entries := make(Provider, len(c.entries))
	for name, entry := range c.entries {
		entries[name] = entry
	}
	return entries
}

// Resolve looks up the entry registered under an offset name.
func (c *Context) Resolve(name string) (OffsetEntry, error) {
	if c.closed {
		return nil, fmt.Errorf("resolving offset %q: %w", name, ErrClosedContext)
	}
	entry, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: no offset named %q", ErrProvider, name)
	}
	return entry, nil
}

// Close destroys the context. Any later Resolve fails, which turns a leaked
// reference into an immediate error instead of a stale read.
func (c *Context) Close() { c.closed = true }

// Closed reports whether the owning call has already returned.
func (c *Context) Closed() bool { return c.closed }

// key is an unexported type preventing collisions with context keys from
// other packages.
type key struct{}

var contextKey = key{}

// WithContext returns a ctx carrying the offset context. The invocation
// controller installs it for the duration of an outermost call.
func WithContext(ctx context.Context, mc *Context) context.Context {
	return context.WithValue(ctx, contextKey, mc)
}

// FromContext extracts the active offset context, if any. Its presence is
// what distinguishes a nested operator call from an outermost one.
func FromContext(ctx context.Context) (*Context, bool) {
	mc, ok := ctx.Value(contextKey).(*Context)
	return mc, ok
}
