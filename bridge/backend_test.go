package bridge_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/fieldgridgo/bridge"
	"github.com/vk/fieldgridgo/closure"
	"github.com/vk/fieldgridgo/exec"
	"github.com/vk/fieldgridgo/field"
	"github.com/vk/fieldgridgo/mesh"
	"github.com/vk/fieldgridgo/stencils"
)

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

// bridgeCatalog wires the built-in operators to dispatch through a bridge
// backend targeting the given server.
func bridgeCatalog(t *testing.T, srv *httptest.Server) map[string]*exec.Operator {
	t.Helper()
	backend := bridge.New("codegen", srv.URL, srv.Client())
	return stencils.Catalog(
		exec.WithRegistry(exec.NewRegistry(backend)),
		exec.WithExtractor(closure.New(stencils.Vocabulary()...)),
	)
}

// The bridge contract: for the same call, a conforming remote service and
// the embedded backend fill out with identical contents.
func TestBridgeMatchesEmbedded(t *testing.T) {
	srv := httptest.NewServer(bridge.ReplayHandler(stencils.Catalog()))
	defer srv.Close()

	remote := bridgeCatalog(t, srv)
	local := stencils.Catalog()

	cases := []struct {
		name string
		arg  func(t *testing.T) field.Value
		out  func(t *testing.T) *field.Field[float64]
	}{
		{
			name: "sum_adjacent_cells",
			arg:  func(t *testing.T) field.Value { return cellValues(t) },
			out: func(t *testing.T) *field.Field[float64] {
				f, err := field.Zeros[float64](mesh.Dims(stencils.Edge), []int{12})
				require.NoError(t, err)
				return f
			},
		},
		{
			name: "level_delta",
			arg: func(t *testing.T) field.Value {
				f, err := field.FromSlice(stencils.K, []float64{10, 13, 17, 20})
				require.NoError(t, err)
				return f
			},
			out: func(t *testing.T) *field.Field[float64] {
				f, err := field.Zeros[float64](mesh.Dims(stencils.K), []int{3}, field.WithOrigin(stencils.K, 1))
				require.NoError(t, err)
				return f
			},
		},
		{
			name: "clamp_negative",
			arg: func(t *testing.T) field.Value {
				f, err := field.FromSlice(stencils.Cell, []float64{-1.5, 2, 0, -3})
				require.NoError(t, err)
				return f
			},
			out: func(t *testing.T) *field.Field[float64] {
				f, err := field.Zeros[float64](mesh.Dims(stencils.Cell), []int{4})
				require.NoError(t, err)
				return f
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			viaBridge := tc.out(t)
			_, err := remote[tc.name].Invoke(context.Background(), []field.Value{tc.arg(t)},
				exec.WithOut(viaBridge), exec.WithOffsetProvider(pentagonProvider(t)),
				exec.WithBackend("codegen"))
			require.NoError(t, err)

			viaEmbedded := tc.out(t)
			_, err = local[tc.name].Invoke(context.Background(), []field.Value{tc.arg(t)},
				exec.WithOut(viaEmbedded), exec.WithOffsetProvider(pentagonProvider(t)))
			require.NoError(t, err)

			if diff := cmp.Diff(viaEmbedded.Data(), viaBridge.Data()); diff != "" {
				t.Errorf("bridge result diverges from embedded (-embedded +bridge):\n%s", diff)
			}
		})
	}
}

// The request body must carry the full call: source form, captured
// environment, provider tables.
func TestBridgeStagesCall(t *testing.T) {
	var staged bridge.Request
	replay := bridge.ReplayHandler(stencils.Catalog())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &staged))
		r.Body = io.NopCloser(bytes.NewReader(body))
		replay.ServeHTTP(w, r)
	}))
	defer srv.Close()

	catalog := bridgeCatalog(t, srv)
	out, err := field.Zeros[float64](mesh.Dims(stencils.Cell), []int{2})
	require.NoError(t, err)
	arg, err := field.FromSlice(stencils.Cell, []float64{-1, 1})
	require.NoError(t, err)

	_, err = catalog["clamp_negative"].Invoke(context.Background(), []field.Value{arg},
		exec.WithOut(out), exec.WithBackend("codegen"))
	require.NoError(t, err)

	assert.Equal(t, "clamp_negative", staged.Operator)
	assert.Equal(t, "where(values < floor, floor, values)", staged.Source)
	assert.Equal(t, []string{"values"}, staged.Params)
	assert.Equal(t, map[string]any{"floor": 0.0}, staged.Captured)
	require.Len(t, staged.Args, 1)
	assert.Equal(t, []int{2}, staged.Args[0].Lens)
	assert.Equal(t, []float64{0, 1}, out.Data())
}

func TestBridgeProviderTravels(t *testing.T) {
	var staged bridge.Request
	replay := bridge.ReplayHandler(stencils.Catalog())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &staged))
		r.Body = io.NopCloser(bytes.NewReader(body))
		replay.ServeHTTP(w, r)
	}))
	defer srv.Close()

	catalog := bridgeCatalog(t, srv)
	out, err := field.Zeros[float64](mesh.Dims(stencils.Edge), []int{12})
	require.NoError(t, err)

	_, err = catalog["sum_adjacent_cells"].Invoke(context.Background(), []field.Value{cellValues(t)},
		exec.WithOut(out), exec.WithOffsetProvider(pentagonProvider(t)), exec.WithBackend("codegen"))
	require.NoError(t, err)

	e2c, ok := staged.Provider["E2C"]
	require.True(t, ok, "connectivity must travel with the call")
	assert.Equal(t, "connectivity", e2c.Kind)
	assert.Equal(t, &bridge.Dim{Name: "Cell", Kind: "horizontal"}, e2c.Source)
	assert.Equal(t, &bridge.Dim{Name: "Edge", Kind: "horizontal"}, e2c.Target)
	assert.Len(t, e2c.Table, 12)

	koff, ok := staged.Provider["Koff"]
	require.True(t, ok)
	assert.Equal(t, "dimension", koff.Kind)
	assert.Equal(t, &bridge.Dim{Name: "K", Kind: "vertical"}, koff.Dimension)

	assert.Equal(t, []float64{5, 7, 7, 8, 3, 4, 9, 11, 13, 14, 11, 7}, out.Data())
}

func TestBridgeErrorReplies(t *testing.T) {
	mctx, err := mesh.NewContext(mesh.Provider{})
	require.NoError(t, err)
	out, err := field.Zeros[float64](mesh.Dims(stencils.Cell), []int{1})
	require.NoError(t, err)
	desc := exec.Descriptor{Name: "sum_adjacent_cells"}

	t.Run("non-200 reply", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no such operator", http.StatusNotFound)
		}))
		defer srv.Close()

		err := bridge.New("codegen", srv.URL, srv.Client()).
			Execute(context.Background(), desc, nil, out, mctx)
		require.Error(t, err)
		assert.ErrorContains(t, err, "404")
		assert.ErrorContains(t, err, "no such operator")
	})

	t.Run("malformed reply body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		err := bridge.New("codegen", srv.URL, srv.Client()).
			Execute(context.Background(), desc, nil, out, mctx)
		assert.ErrorContains(t, err, "malformed reply")
	})

	t.Run("wrong output count", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(bridge.Response{})
		}))
		defer srv.Close()

		err := bridge.New("codegen", srv.URL, srv.Client()).
			Execute(context.Background(), desc, nil, out, mctx)
		assert.ErrorContains(t, err, "0 outputs")
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		err := bridge.New("codegen", srv.URL, nil).
			Execute(context.Background(), desc, nil, out, mctx)
		require.Error(t, err)
	})
}

func TestReplayHandlerRejects(t *testing.T) {
	srv := httptest.NewServer(bridge.ReplayHandler(stencils.Catalog()))
	defer srv.Close()

	t.Run("malformed request", func(t *testing.T) {
		resp, err := srv.Client().Post(srv.URL, "application/json", bytes.NewReader([]byte("{")))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown operator", func(t *testing.T) {
		body, err := json.Marshal(bridge.Request{Operator: "no_such_operator"})
		require.NoError(t, err)
		resp, err := srv.Client().Post(srv.URL, "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestTupleRoundTrip(t *testing.T) {
	a := cellValues(t)
	b, err := field.FromSlice(stencils.Cell, []int64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	wire, err := bridge.EncodeValue(field.Tuple{a, field.Tuple{b}})
	require.NoError(t, err)
	decoded, err := bridge.DecodeValue(wire)
	require.NoError(t, err)

	tup, ok := decoded.(field.Tuple)
	require.True(t, ok)
	require.Len(t, tup, 2)
	first, ok := tup[0].(*field.Field[float64])
	require.True(t, ok)
	assert.Equal(t, a.Data(), first.Data())
	inner, ok := tup[1].(field.Tuple)
	require.True(t, ok)
	nested, ok := inner[0].(*field.Field[int64])
	require.True(t, ok)
	assert.Equal(t, b.Data(), nested.Data())
}
