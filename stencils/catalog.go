package stencils

import (
	"context"
	"fmt"

	"github.com/vk/fieldgridgo/exec"
	"github.com/vk/fieldgridgo/field"
)

// clampFloor is the lower bound clamp_negative holds its input to. It is
// also staged to external backends as the operator's captured environment.
const clampFloor = 0.0

// Catalog builds the built-in operators keyed by name. The options are
// applied to every operator; callers use them to wire a shared registry and
// a closure extractor.
func Catalog(opts ...exec.Option) map[string]*exec.Operator {
	catalog := make(map[string]*exec.Operator)
	add := func(name string, body exec.Body, own ...exec.Option) {
		if _, dup := catalog[name]; dup {
			panic(fmt.Sprintf("stencils: operator %q registered twice", name))
		}
		catalog[name] = exec.NewOperator(name, body, append(own, opts...)...)
	}

	add("nearest_cell_to_edge", nearestCellToEdge,
		exec.WithSource("cells(E2C[1])", "cells"))
	add("sum_adjacent_cells", sumAdjacentCells,
		exec.WithSource("neighbor_sum(cells(E2C), E2CDim)", "cells"))
	add("max_adjacent_cell", maxAdjacentCell,
		exec.WithSource("max_over(cells(E2C), E2CDim)", "cells"))
	add("min_adjacent_cell", minAdjacentCell,
		exec.WithSource("min_over(cells(E2C), E2CDim)", "cells"))
	add("level_delta", levelDelta,
		exec.WithSource("values - values(Koff[1])", "values"))
	add("clamp_negative", clampNegative,
		exec.WithSource("where(values < floor, floor, values)", "values"),
		exec.WithCaptured(map[string]any{"floor": clampFloor}))

	return catalog
}

func nearestCellToEdge(ctx context.Context, args []field.Value) (field.Value, error) {
	return field.Remap(ctx, args[0], E2C.At(1))
}

func sumAdjacentCells(ctx context.Context, args []field.Value) (field.Value, error) {
	gathered, err := field.Remap(ctx, args[0], E2C.All())
	if err != nil {
		return nil, err
	}
	return field.NeighborSum(gathered, E2CDim)
}

func maxAdjacentCell(ctx context.Context, args []field.Value) (field.Value, error) {
	gathered, err := field.Remap(ctx, args[0], E2C.All())
	if err != nil {
		return nil, err
	}
	return field.MaxOver(gathered, E2CDim)
}

func minAdjacentCell(ctx context.Context, args []field.Value) (field.Value, error) {
	gathered, err := field.Remap(ctx, args[0], E2C.All())
	if err != nil {
		return nil, err
	}
	return field.MinOver(gathered, E2CDim)
}

// levelDelta is the backward difference along the vertical axis: the value
// at level k minus the value at level k-1. The result window starts one
// level above the input's.
func levelDelta(ctx context.Context, args []field.Value) (field.Value, error) {
	below, err := field.Remap(ctx, args[0], Koff.At(1))
	if err != nil {
		return nil, err
	}
	return field.Sub(args[0], below)
}

func clampNegative(ctx context.Context, args []field.Value) (field.Value, error) {
	floor := field.Scalar(clampFloor)
	mask, err := field.Lt(args[0], floor)
	if err != nil {
		return nil, err
	}
	return field.Where(mask, floor, args[0])
}
