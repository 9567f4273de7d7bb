package manifest

import (
	"fmt"
	"sort"

	"github.com/vk/fieldgridgo/field"
	"github.com/vk/fieldgridgo/mesh"
)

// Document is the translated content of one manifest: the meshes it declares
// and the run blocks to perform against them.
type Document struct {
	Meshes []*Mesh
	Runs   []*Run
}

// Mesh is one translated mesh block.
type Mesh struct {
	Name     string
	Dims     map[string]mesh.Dimension
	Offsets  map[string]*mesh.FieldOffset
	Provider mesh.Provider
	Fields   map[string]field.Value
}

// Run is one translated run block; its operator, argument and output names
// are resolved by the caller.
type Run struct {
	Name     string
	Mesh     string
	Operator string
	Args     []string
	Out      string
}

// Mesh resolves a mesh by name. An empty name selects the document's only
// mesh and fails when the document declares several.
func (d *Document) Mesh(name string) (*Mesh, error) {
	if name == "" {
		if len(d.Meshes) == 1 {
			return d.Meshes[0], nil
		}
		return nil, fmt.Errorf("manifest declares %d meshes; runs must name one", len(d.Meshes))
	}
	for _, m := range d.Meshes {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("manifest declares no mesh named %q", name)
}

// Vocabulary returns the sorted names a stencil source form may reference
// without capturing them: the mesh's dimensions and its offset names.
func (m *Mesh) Vocabulary() []string {
	seen := make(map[string]struct{}, len(m.Dims)+len(m.Offsets)+len(m.Provider))
	for name := range m.Dims {
		seen[name] = struct{}{}
	}
	for name := range m.Offsets {
		seen[name] = struct{}{}
	}
	for name := range m.Provider {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Field resolves a field by name.
func (m *Mesh) Field(name string) (field.Value, error) {
	v, ok := m.Fields[name]
	if !ok {
		return nil, fmt.Errorf("mesh %q declares no field named %q", m.Name, name)
	}
	return v, nil
}
