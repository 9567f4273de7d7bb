package exec

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/fieldgridgo/field"
	"github.com/vk/fieldgridgo/mesh"
)

var (
	cellDim = mesh.Dim("Cell", mesh.Horizontal)
	edgeDim = mesh.Dim("Edge", mesh.Horizontal)
	e2cDim  = mesh.Dim("E2CDim", mesh.Local)

	e2cOffset = mesh.MustOffset("E2C", cellDim, edgeDim, e2cDim)
)

func pentagonProvider(t *testing.T) mesh.Provider {
	t.Helper()
	conn, err := mesh.NewConnectivity(cellDim, edgeDim, [][]int{
		{1, 0}, {3, 0}, {3, 0}, {4, 0}, {5, 0}, {6, 0},
		{1, 6}, {1, 2}, {2, 3}, {2, 4}, {4, 5}, {5, 6},
	})
	require.NoError(t, err)
	return mesh.Provider{"E2C": conn}
}

func cellValues(t *testing.T) *field.Field[float64] {
	t.Helper()
	f, err := field.FromSlice(cellDim, []float64{5, 6, 7, 8, 3, 4})
	require.NoError(t, err)
	return f
}

func edgeZeros(t *testing.T) *field.Field[float64] {
	t.Helper()
	f, err := field.Zeros[float64](mesh.Dims(edgeDim), []int{12})
	require.NoError(t, err)
	return f
}

// sumAdjacentCells gathers both neighbor slots of every edge and sums them.
func sumAdjacentCells() *Operator {
	return NewOperator("sum_adjacent_cells", func(ctx context.Context, args []field.Value) (field.Value, error) {
		gathered, err := field.Remap(ctx, args[0], e2cOffset.All())
		if err != nil {
			return nil, err
		}
		return field.NeighborSum(gathered, e2cDim)
	}, WithSource("neighbor_sum(cells(E2C), E2CDim)", "cells"))
}

func TestInvokeOutermost(t *testing.T) {
	op := sumAdjacentCells()
	out := edgeZeros(t)

	got, err := op.Invoke(context.Background(), []field.Value{cellValues(t)},
		WithOut(out), WithOffsetProvider(pentagonProvider(t)))
	require.NoError(t, err)

	require.Same(t, out, got, "outermost call returns its out target")
	assert.Equal(t, []float64{5, 7, 7, 8, 3, 4, 9, 11, 13, 14, 11, 7}, out.Data())
}

func TestInvokeOutermostRequiresOut(t *testing.T) {
	op := sumAdjacentCells()

	_, err := op.Invoke(context.Background(), []field.Value{cellValues(t)},
		WithOffsetProvider(pentagonProvider(t)))
	assert.ErrorIs(t, err, ErrMissingOut)
}

func TestInvokeDefaultsToEmptyProvider(t *testing.T) {
	op := NewOperator("double", func(ctx context.Context, args []field.Value) (field.Value, error) {
		return field.Mul(args[0], field.Scalar(2.0))
	})
	out, err := field.Zeros[float64](mesh.Dims(cellDim), []int{6})
	require.NoError(t, err)

	_, err = op.Invoke(context.Background(), []field.Value{cellValues(t)}, WithOut(out))
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 12, 14, 16, 6, 8}, out.Data())
}

func TestInvokeNested(t *testing.T) {
	inner := sumAdjacentCells()

	outer := NewOperator("scaled_edge_sums", func(ctx context.Context, args []field.Value) (field.Value, error) {
		sums, err := inner.Invoke(ctx, args)
		if err != nil {
			return nil, err
		}
		return field.Mul(sums, field.Scalar(10.0))
	})

	out := edgeZeros(t)
	_, err := outer.Invoke(context.Background(), []field.Value{cellValues(t)},
		WithOut(out), WithOffsetProvider(pentagonProvider(t)))
	require.NoError(t, err)
	assert.Equal(t, []float64{50, 70, 70, 80, 30, 40, 90, 110, 130, 140, 110, 70}, out.Data())
}

func TestInvokeNestedRejectsOutermostOptions(t *testing.T) {
	inner := sumAdjacentCells()

	cases := []struct {
		name string
		opts func(t *testing.T) []CallOption
	}{
		{"out", func(t *testing.T) []CallOption {
			return []CallOption{WithOut(edgeZeros(t))}
		}},
		{"offset provider", func(t *testing.T) []CallOption {
			return []CallOption{WithOffsetProvider(pentagonProvider(t))}
		}},
		{"empty offset provider", func(t *testing.T) []CallOption {
			return []CallOption{WithOffsetProvider(nil)}
		}},
		{"backend", func(t *testing.T) []CallOption {
			return []CallOption{WithBackend(Embedded)}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outer := NewOperator("outer", func(ctx context.Context, args []field.Value) (field.Value, error) {
				return inner.Invoke(ctx, args, tc.opts(t)...)
			})

			_, err := outer.Invoke(context.Background(), []field.Value{cellValues(t)},
				WithOut(edgeZeros(t)), WithOffsetProvider(pentagonProvider(t)))
			assert.ErrorIs(t, err, ErrNestedCall)
		})
	}
}

func TestInvokeClosesContextOnEveryPath(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var leaked context.Context
		op := NewOperator("leak", func(ctx context.Context, args []field.Value) (field.Value, error) {
			leaked = ctx
			return args[0], nil
		})

		out, err := field.Zeros[float64](mesh.Dims(cellDim), []int{6})
		require.NoError(t, err)
		_, err = op.Invoke(context.Background(), []field.Value{cellValues(t)},
			WithOut(out), WithOffsetProvider(pentagonProvider(t)))
		require.NoError(t, err)

		mctx, ok := mesh.FromContext(leaked)
		require.True(t, ok)
		assert.True(t, mctx.Closed())
		_, err = mctx.Resolve("E2C")
		assert.ErrorIs(t, err, mesh.ErrClosedContext)
	})

	t.Run("body failure", func(t *testing.T) {
		var leaked context.Context
		boom := errors.New("boom")
		op := NewOperator("fail", func(ctx context.Context, args []field.Value) (field.Value, error) {
			leaked = ctx
			return nil, boom
		})

		_, err := op.Invoke(context.Background(), nil,
			WithOut(edgeZeros(t)), WithOffsetProvider(pentagonProvider(t)))
		require.ErrorIs(t, err, boom)

		mctx, ok := mesh.FromContext(leaked)
		require.True(t, ok)
		assert.True(t, mctx.Closed())
	})

	t.Run("a retained ctx does not block a new outermost call", func(t *testing.T) {
		var leaked context.Context
		op := NewOperator("leak", func(ctx context.Context, args []field.Value) (field.Value, error) {
			leaked = ctx
			return args[0], nil
		})

		out, err := field.Zeros[float64](mesh.Dims(cellDim), []int{6})
		require.NoError(t, err)
		_, err = op.Invoke(context.Background(), []field.Value{cellValues(t)},
			WithOut(out), WithOffsetProvider(pentagonProvider(t)))
		require.NoError(t, err)

		// The context retained from the finished call is closed, so a new
		// call through it is outermost again.
		_, err = op.Invoke(leaked, []field.Value{cellValues(t)},
			WithOut(out), WithOffsetProvider(pentagonProvider(t)))
		assert.NoError(t, err)
	})
}

func TestInvokeValidatesProvider(t *testing.T) {
	op := sumAdjacentCells()

	_, err := op.Invoke(context.Background(), []field.Value{cellValues(t)},
		WithOut(edgeZeros(t)), WithOffsetProvider(mesh.Provider{"E2C": nil}))
	assert.ErrorIs(t, err, mesh.ErrProvider)
}

func TestInvokeUnknownBackend(t *testing.T) {
	op := sumAdjacentCells()

	_, err := op.Invoke(context.Background(), []field.Value{cellValues(t)},
		WithOut(edgeZeros(t)), WithOffsetProvider(pentagonProvider(t)), WithBackend("gpu"))
	assert.ErrorIs(t, err, ErrBackend)
}

func TestInvokeMismatchedOutLeavesItUntouched(t *testing.T) {
	op := sumAdjacentCells()
	wrong, err := field.FromSlice(edgeDim, []float64{1, 2, 3})
	require.NoError(t, err)

	_, err = op.Invoke(context.Background(), []field.Value{cellValues(t)},
		WithOut(wrong), WithOffsetProvider(pentagonProvider(t)))
	require.ErrorIs(t, err, field.ErrShape)
	assert.Equal(t, []float64{1, 2, 3}, wrong.Data())
}

func TestInvokeChecksArity(t *testing.T) {
	op := sumAdjacentCells()

	_, err := op.Invoke(context.Background(), []field.Value{cellValues(t), cellValues(t)},
		WithOut(edgeZeros(t)), WithOffsetProvider(pentagonProvider(t)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "takes 1 arguments")
}

func TestInvokeTupleOut(t *testing.T) {
	op := NewOperator("pair", func(ctx context.Context, args []field.Value) (field.Value, error) {
		doubled, err := field.Mul(args[0], field.Scalar(2.0))
		if err != nil {
			return nil, err
		}
		return field.Tuple{args[0], doubled}, nil
	})

	first, err := field.Zeros[float64](mesh.Dims(cellDim), []int{6})
	require.NoError(t, err)
	second, err := field.Zeros[float64](mesh.Dims(cellDim), []int{6})
	require.NoError(t, err)

	_, err = op.Invoke(context.Background(), []field.Value{cellValues(t)},
		WithOut(field.Tuple{first, second}))
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6, 7, 8, 3, 4}, first.Data())
	assert.Equal(t, []float64{10, 12, 14, 16, 6, 8}, second.Data())
}

func TestNewOperatorPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewOperator("", func(ctx context.Context, args []field.Value) (field.Value, error) { return nil, nil })
	})
	assert.Panics(t, func() { NewOperator("nil_body", nil) })
}
