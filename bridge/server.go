package bridge

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vk/fieldgridgo/exec"
	"github.com/vk/fieldgridgo/field"
)

// ReplayHandler serves the backend wire contract by executing each request
// against the given operator catalog in process. It is the conformance
// reference for external services: anything a remote backend replies must
// match what this handler replies for the same request.
func ReplayHandler(catalog map[string]*exec.Operator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("malformed request: %v", err), http.StatusBadRequest)
			return
		}

		op, ok := catalog[req.Operator]
		if !ok {
			http.Error(w, fmt.Sprintf("unknown operator %q", req.Operator), http.StatusNotFound)
			return
		}

		args := make([]field.Value, len(req.Args))
		for i, a := range req.Args {
			v, err := DecodeValue(a)
			if err != nil {
				http.Error(w, fmt.Sprintf("argument %d: %v", i+1, err), http.StatusBadRequest)
				return
			}
			args[i] = v
		}
		out, err := DecodeValue(req.Out)
		if err != nil {
			http.Error(w, fmt.Sprintf("out: %v", err), http.StatusBadRequest)
			return
		}
		provider, err := DecodeProvider(req.Provider)
		if err != nil {
			http.Error(w, fmt.Sprintf("provider: %v", err), http.StatusBadRequest)
			return
		}

		if _, err := op.Invoke(r.Context(), args,
			exec.WithOut(out), exec.WithOffsetProvider(provider)); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		output, err := EncodeValue(out)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Response{Outputs: []Value{output}})
	})
}
