package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/vk/fieldgridgo/field"
	"github.com/vk/fieldgridgo/mesh"
)

// Value kinds on the wire.
const (
	kindField = "field"
	kindTuple = "tuple"
)

// Dim is a dimension on the wire.
type Dim struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// Value is a field or tuple on the wire. Field data travels in row-major
// order of the field's own dimensions, exactly as Data() materializes it.
type Value struct {
	Kind   string          `json:"kind"`
	Type   string          `json:"type,omitempty"`
	Dims   []Dim           `json:"dims,omitempty"`
	Lens   []int           `json:"lens,omitempty"`
	Origin []int           `json:"origin,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
	Elems  []Value         `json:"elems,omitempty"`
}

// Entry is one offset-provider registration on the wire.
type Entry struct {
	Kind      string  `json:"kind"` // "dimension" or "connectivity"
	Dimension *Dim    `json:"dimension,omitempty"`
	Source    *Dim    `json:"source,omitempty"`
	Target    *Dim    `json:"target,omitempty"`
	Table     [][]int `json:"table,omitempty"`
}

// Request is one operator call on the wire.
type Request struct {
	Operator string           `json:"operator"`
	Source   string           `json:"source,omitempty"`
	Params   []string         `json:"params,omitempty"`
	Captured map[string]any   `json:"captured,omitempty"`
	Args     []Value          `json:"args"`
	Out      Value            `json:"out"`
	Provider map[string]Entry `json:"provider,omitempty"`
}

// Response carries the materialized outputs of one call.
type Response struct {
	Outputs []Value `json:"outputs"`
}

// EncodeValue converts a field value to its wire form.
func EncodeValue(v field.Value) (Value, error) {
	switch x := v.(type) {
	case *field.Field[float64]:
		return encodeField(x, "float64")
	case *field.Field[int64]:
		return encodeField(x, "int64")
	case *field.Field[bool]:
		return encodeField(x, "bool")
	case field.Tuple:
		w := Value{Kind: kindTuple, Elems: make([]Value, len(x))}
		for i, elem := range x {
			e, err := EncodeValue(elem)
			if err != nil {
				return Value{}, fmt.Errorf("tuple element %d: %w", i, err)
			}
			w.Elems[i] = e
		}
		return w, nil
	default:
		return Value{}, fmt.Errorf("cannot encode %s value", field.TypeName(v))
	}
}

func encodeField[T field.Elem](f *field.Field[T], elem string) (Value, error) {
	data, err := json.Marshal(f.Data())
	if err != nil {
		return Value{}, fmt.Errorf("field data: %w", err)
	}
	dims := f.Dims()
	wire := make([]Dim, len(dims))
	for i, d := range dims {
		wire[i] = Dim{Name: d.Name, Kind: d.Kind.String()}
	}
	return Value{
		Kind:   kindField,
		Type:   elem,
		Dims:   wire,
		Lens:   f.Lens(),
		Origin: f.Origins(),
		Data:   data,
	}, nil
}

// DecodeValue converts a wire value back into a field value.
func DecodeValue(w Value) (field.Value, error) {
	switch w.Kind {
	case kindTuple:
		t := make(field.Tuple, len(w.Elems))
		for i, e := range w.Elems {
			v, err := DecodeValue(e)
			if err != nil {
				return nil, fmt.Errorf("tuple element %d: %w", i, err)
			}
			t[i] = v
		}
		return t, nil
	case kindField:
		dims, err := decodeDims(w.Dims)
		if err != nil {
			return nil, err
		}
		opts, err := originOptions(dims, w.Origin)
		if err != nil {
			return nil, err
		}
		switch w.Type {
		case "float64":
			return decodeField[float64](w, dims, opts)
		case "int64":
			return decodeField[int64](w, dims, opts)
		case "bool":
			return decodeField[bool](w, dims, opts)
		default:
			return nil, fmt.Errorf("unknown field element type %q", w.Type)
		}
	default:
		return nil, fmt.Errorf("unknown value kind %q", w.Kind)
	}
}

func decodeField[T field.Elem](w Value, dims []mesh.Dimension, opts []field.Option) (field.Value, error) {
	var data []T
	if len(w.Data) > 0 {
		if err := json.Unmarshal(w.Data, &data); err != nil {
			return nil, fmt.Errorf("field data: %w", err)
		}
	}
	return field.NewShaped(dims, w.Lens, data, opts...)
}

func decodeDims(wire []Dim) ([]mesh.Dimension, error) {
	dims := make([]mesh.Dimension, len(wire))
	for i, d := range wire {
		kind, err := mesh.ParseKind(d.Kind)
		if err != nil {
			return nil, fmt.Errorf("dimension %s: %w", d.Name, err)
		}
		dims[i] = mesh.Dim(d.Name, kind)
	}
	return dims, nil
}

func originOptions(dims []mesh.Dimension, origin []int) ([]field.Option, error) {
	if len(origin) == 0 {
		return nil, nil
	}
	if len(origin) != len(dims) {
		return nil, fmt.Errorf("%d origins for %d dimensions", len(origin), len(dims))
	}
	opts := make([]field.Option, 0, len(origin))
	for i, n := range origin {
		if n != 0 {
			opts = append(opts, field.WithOrigin(dims[i], n))
		}
	}
	return opts, nil
}

// EncodeProvider converts an offset provider to its wire form.
func EncodeProvider(p mesh.Provider) (map[string]Entry, error) {
	wire := make(map[string]Entry, len(p))
	for name, entry := range p {
		switch e := entry.(type) {
		case mesh.Dimension:
			wire[name] = Entry{
				Kind:      "dimension",
				Dimension: &Dim{Name: e.Name, Kind: e.Kind.String()},
			}
		case *mesh.Connectivity:
			src, tgt := e.Source(), e.Target()
			wire[name] = Entry{
				Kind:   "connectivity",
				Source: &Dim{Name: src.Name, Kind: src.Kind.String()},
				Target: &Dim{Name: tgt.Name, Kind: tgt.Kind.String()},
				Table:  e.Table(),
			}
		default:
			return nil, fmt.Errorf("%w: offset %q resolves to %T", mesh.ErrProvider, name, entry)
		}
	}
	return wire, nil
}

// DecodeProvider converts a wire provider back into registered entries.
func DecodeProvider(wire map[string]Entry) (mesh.Provider, error) {
	p := make(mesh.Provider, len(wire))
	for name, entry := range wire {
		switch entry.Kind {
		case "dimension":
			if entry.Dimension == nil {
				return nil, fmt.Errorf("%w: offset %q names no dimension", mesh.ErrProvider, name)
			}
			kind, err := mesh.ParseKind(entry.Dimension.Kind)
			if err != nil {
				return nil, fmt.Errorf("offset %q: %w", name, err)
			}
			p[name] = mesh.Dim(entry.Dimension.Name, kind)
		case "connectivity":
			if entry.Source == nil || entry.Target == nil {
				return nil, fmt.Errorf("%w: offset %q names no source/target", mesh.ErrProvider, name)
			}
			dims, err := decodeDims([]Dim{*entry.Source, *entry.Target})
			if err != nil {
				return nil, fmt.Errorf("offset %q: %w", name, err)
			}
			conn, err := mesh.NewConnectivity(dims[0], dims[1], entry.Table)
			if err != nil {
				return nil, fmt.Errorf("offset %q: %w", name, err)
			}
			p[name] = conn
		default:
			return nil, fmt.Errorf("%w: offset %q has unknown entry kind %q", mesh.ErrProvider, name, entry.Kind)
		}
	}
	return p, nil
}

// encodeCaptured stages a captured environment: field values go through the
// wire encoding, plain Go values are passed to the JSON encoder as-is.
func encodeCaptured(env map[string]any) (map[string]any, error) {
	if len(env) == 0 {
		return nil, nil
	}
	wire := make(map[string]any, len(env))
	for name, v := range env {
		if fv, ok := v.(field.Value); ok {
			encoded, err := EncodeValue(fv)
			if err != nil {
				return nil, fmt.Errorf("captured %q: %w", name, err)
			}
			wire[name] = encoded
			continue
		}
		wire[name] = v
	}
	return wire, nil
}
