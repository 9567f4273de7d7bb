package stencils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/fieldgridgo/closure"
	"github.com/vk/fieldgridgo/exec"
	"github.com/vk/fieldgridgo/field"
	"github.com/vk/fieldgridgo/mesh"
	"github.com/vk/fieldgridgo/stencils"
)

// The pentagon fixture: six cells, twelve edges, boundary edges with a
// single real neighbor padded by the sentinel.
func pentagonProvider(t *testing.T) mesh.Provider {
	t.Helper()
	conn, err := mesh.NewConnectivity(stencils.Cell, stencils.Edge, [][]int{
		{1, 0}, {3, 0}, {3, 0}, {4, 0}, {5, 0}, {6, 0},
		{1, 6}, {1, 2}, {2, 3}, {2, 4}, {4, 5}, {5, 6},
	})
	require.NoError(t, err)
	return mesh.Provider{"E2C": conn, "Koff": stencils.K}
}

func cellValues(t *testing.T) *field.Field[float64] {
	t.Helper()
	f, err := field.FromSlice(stencils.Cell, []float64{5, 6, 7, 8, 3, 4})
	require.NoError(t, err)
	return f
}

func TestCatalogGatherOperators(t *testing.T) {
	catalog := stencils.Catalog()

	cases := []struct {
		name string
		want []float64
	}{
		// Slot 1 of each edge row.
		{"nearest_cell_to_edge", []float64{5, 7, 7, 8, 3, 4, 5, 5, 6, 6, 8, 3}},
		// Sentinel slots contribute zero to the sum.
		{"sum_adjacent_cells", []float64{5, 7, 7, 8, 3, 4, 9, 11, 13, 14, 11, 7}},
		// Sentinel zeros participate in the reduction; they never win the max
		// here because every cell value is positive, but they do win the min
		// on the boundary edges.
		{"max_adjacent_cell", []float64{5, 7, 7, 8, 3, 4, 5, 6, 7, 8, 8, 4}},
		{"min_adjacent_cell", []float64{0, 0, 0, 0, 0, 0, 4, 5, 6, 6, 3, 3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			op, ok := catalog[tc.name]
			require.True(t, ok, "catalog must declare %s", tc.name)

			out, err := field.Zeros[float64](mesh.Dims(stencils.Edge), []int{12})
			require.NoError(t, err)

			_, err = op.Invoke(context.Background(), []field.Value{cellValues(t)},
				exec.WithOut(out), exec.WithOffsetProvider(pentagonProvider(t)))
			require.NoError(t, err)
			assert.Equal(t, tc.want, out.Data())
		})
	}
}

func TestLevelDelta(t *testing.T) {
	op := stencils.Catalog()["level_delta"]
	require.NotNil(t, op)

	levels, err := field.FromSlice(stencils.K, []float64{10, 13, 17, 20})
	require.NoError(t, err)

	// The backward difference is defined on levels 2..4 only.
	out, err := field.Zeros[float64](mesh.Dims(stencils.K), []int{3}, field.WithOrigin(stencils.K, 1))
	require.NoError(t, err)

	_, err = op.Invoke(context.Background(), []field.Value{levels},
		exec.WithOut(out), exec.WithOffsetProvider(pentagonProvider(t)))
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4, 3}, out.Data())

	v, err := out.At(2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func TestClampNegative(t *testing.T) {
	op := stencils.Catalog()["clamp_negative"]
	require.NotNil(t, op)

	values, err := field.FromSlice(stencils.Cell, []float64{-1.5, 2, 0, -3})
	require.NoError(t, err)
	out, err := field.Zeros[float64](mesh.Dims(stencils.Cell), []int{4})
	require.NoError(t, err)

	_, err = op.Invoke(context.Background(), []field.Value{values}, exec.WithOut(out))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 0, 0}, out.Data())
}

// stagingBackend records the descriptor it is handed and runs the body so
// the call still produces output.
type stagingBackend struct {
	desc exec.Descriptor
}

func (b *stagingBackend) Name() string { return "staging" }

func (b *stagingBackend) Execute(ctx context.Context, desc exec.Descriptor, args []field.Value, out field.Value, mctx *mesh.Context) error {
	b.desc = desc
	result, err := desc.Body(ctx, args)
	if err != nil {
		return err
	}
	return field.CopyInto(out, result)
}

func TestCatalogStagesCapturedEnvironment(t *testing.T) {
	backend := &stagingBackend{}
	catalog := stencils.Catalog(
		exec.WithRegistry(exec.NewRegistry(backend)),
		exec.WithExtractor(closure.New(stencils.Vocabulary()...)),
	)

	t.Run("clamp_negative captures its floor", func(t *testing.T) {
		values, err := field.FromSlice(stencils.Cell, []float64{-1, 1})
		require.NoError(t, err)
		out, err := field.Zeros[float64](mesh.Dims(stencils.Cell), []int{2})
		require.NoError(t, err)

		_, err = catalog["clamp_negative"].Invoke(context.Background(), []field.Value{values},
			exec.WithOut(out), exec.WithBackend("staging"))
		require.NoError(t, err)

		assert.Equal(t, "clamp_negative", backend.desc.Name)
		assert.Equal(t, "where(values < floor, floor, values)", backend.desc.Source)
		assert.Equal(t, []string{"values"}, backend.desc.Params)
		assert.Equal(t, map[string]any{"floor": 0.0}, backend.desc.Captured)
		assert.Equal(t, []float64{0, 1}, out.Data())
	})

	t.Run("vocabulary names are not captured", func(t *testing.T) {
		out, err := field.Zeros[float64](mesh.Dims(stencils.Edge), []int{12})
		require.NoError(t, err)

		_, err = catalog["sum_adjacent_cells"].Invoke(context.Background(), []field.Value{cellValues(t)},
			exec.WithOut(out), exec.WithOffsetProvider(pentagonProvider(t)), exec.WithBackend("staging"))
		require.NoError(t, err)
		assert.Empty(t, backend.desc.Captured)
	})
}

func TestVocabulary(t *testing.T) {
	assert.Equal(t, []string{
		"Cell", "E2C", "E2CDim", "Edge", "K", "Koff", "V2E", "V2EDim", "Vertex",
	}, stencils.Vocabulary())
}
