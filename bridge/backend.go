package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vk/fieldgridgo/exec"
	"github.com/vk/fieldgridgo/field"
	"github.com/vk/fieldgridgo/internal/ctxlog"
	"github.com/vk/fieldgridgo/mesh"
)

// Backend executes operators by POSTing the call to an external service.
type Backend struct {
	name     string
	endpoint string
	client   *http.Client
}

// New builds a bridge backend registered under name, targeting endpoint. A
// nil client falls back to a plain client with a request timeout.
func New(name, endpoint string, client *http.Client) *Backend {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Backend{name: name, endpoint: endpoint, client: client}
}

// Name returns the backend identifier the registry dispatches on.
func (b *Backend) Name() string { return b.name }

// Execute serializes the call, performs the exchange and copies the replied
// output into out. out is written only after the reply fully decodes.
func (b *Backend) Execute(ctx context.Context, desc exec.Descriptor, args []field.Value, out field.Value, mctx *mesh.Context) error {
	logger := ctxlog.FromContext(ctx)

	req, err := buildRequest(desc, args, out, mctx)
	if err != nil {
		return fmt.Errorf("bridge %s: %w", b.name, err)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("bridge %s: encode request: %w", b.name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("bridge %s: %w", b.name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	logger.Debug("Dispatching operator to bridge backend.",
		"backend", b.name, "operator", desc.Name, "endpoint", b.endpoint, "bytes", len(body))

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("bridge %s: %w", b.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bridge %s: %s replied %s: %s",
			b.name, b.endpoint, resp.Status, strings.TrimSpace(string(detail)))
	}

	var reply Response
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("bridge %s: malformed reply: %w", b.name, err)
	}
	if len(reply.Outputs) != 1 {
		return fmt.Errorf("bridge %s: reply carries %d outputs, want 1", b.name, len(reply.Outputs))
	}
	result, err := DecodeValue(reply.Outputs[0])
	if err != nil {
		return fmt.Errorf("bridge %s: malformed reply: %w", b.name, err)
	}
	if err := field.CopyInto(out, result); err != nil {
		return fmt.Errorf("bridge %s: reply does not fit out: %w", b.name, err)
	}
	return nil
}

func buildRequest(desc exec.Descriptor, args []field.Value, out field.Value, mctx *mesh.Context) (*Request, error) {
	req := &Request{
		Operator: desc.Name,
		Source:   desc.Source,
		Params:   desc.Params,
		Args:     make([]Value, len(args)),
	}
	var err error
	if req.Captured, err = encodeCaptured(desc.Captured); err != nil {
		return nil, err
	}
	for i, arg := range args {
		if req.Args[i], err = EncodeValue(arg); err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
	}
	if req.Out, err = EncodeValue(out); err != nil {
		return nil, fmt.Errorf("out: %w", err)
	}
	if req.Provider, err = EncodeProvider(mctx.Provider()); err != nil {
		return nil, err
	}
	return req, nil
}
