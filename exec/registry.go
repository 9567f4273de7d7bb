package exec

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/fieldgridgo/field"
	"github.com/vk/fieldgridgo/mesh"
)

// Embedded is the backend identifier of the in-process execution strategy.
// Every registry carries it.
const Embedded = "embedded"

// Backend is one execution strategy for an outermost operator call. Execute
// runs the described operator against args and fills out; it must produce
// the same observable result as the embedded backend for the same call. The
// offset context is passed both through ctx (for in-process evaluation) and
// as mctx (for serialization at collaborator boundaries).
type Backend interface {
	Name() string
	Execute(ctx context.Context, desc Descriptor, args []field.Value, out field.Value, mctx *mesh.Context) error
}

// ClosureExtractor produces the subset of env an operator's source form
// references beyond its parameters. The invocation controller consults it
// only when dispatching to a non-embedded backend.
type ClosureExtractor interface {
	Extract(source string, params []string, env map[string]any) (map[string]any, error)
}

// Registry maps backend identifiers to execution strategies. The mapping is
// closed at construction: every registration happens during wiring, and a
// duplicate name is a programmer error.
type Registry struct {
	backends map[string]Backend
}

// NewRegistry builds a registry holding the embedded backend plus any extra
// strategies.
func NewRegistry(extra ...Backend) *Registry {
	r := &Registry{backends: make(map[string]Backend)}
	r.Register(embeddedBackend{})
	for _, b := range extra {
		r.Register(b)
	}
	return r
}

// Register adds an execution strategy. It panics on a nil backend or a name
// collision, mirroring handler registration.
func (r *Registry) Register(b Backend) {
	if b == nil {
		panic("exec: nil backend registered")
	}
	name := b.Name()
	if name == "" {
		panic("exec: backend with an empty name registered")
	}
	if _, exists := r.backends[name]; exists {
		panic(fmt.Sprintf("exec: backend %q already registered", name))
	}
	r.backends[name] = b
}

// Lookup resolves a backend identifier.
func (r *Registry) Lookup(name string) (Backend, error) {
	b, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrBackend, name, r.Names())
	}
	return b, nil
}

// Names lists the registered backend identifiers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the shared registry operators dispatch through
// unless wired otherwise. It carries only the embedded backend.
func DefaultRegistry() *Registry { return defaultRegistry }
