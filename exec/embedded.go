package exec

import (
	"context"
	"fmt"

	"github.com/vk/fieldgridgo/field"
	"github.com/vk/fieldgridgo/internal/ctxlog"
	"github.com/vk/fieldgridgo/mesh"
)

// embeddedBackend evaluates the operator body in process. The result is
// fully formed before any element reaches out, so a failing body or a
// mismatched shape never leaves out partially overwritten.
type embeddedBackend struct{}

func (embeddedBackend) Name() string { return Embedded }

func (embeddedBackend) Execute(ctx context.Context, desc Descriptor, args []field.Value, out field.Value, _ *mesh.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Embedded backend executing operator.", "operator", desc.Name, "args", len(args))

	result, err := desc.Body(ctx, args)
	if err != nil {
		return fmt.Errorf("operator %s: %w", desc.Name, err)
	}
	if err := field.CopyInto(out, result); err != nil {
		return fmt.Errorf("operator %s result does not fit out: %w", desc.Name, err)
	}
	return nil
}
