package app

import (
	"context"
	"fmt"

	"github.com/vk/fieldgridgo/closure"
	"github.com/vk/fieldgridgo/exec"
	"github.com/vk/fieldgridgo/field"
	"github.com/vk/fieldgridgo/internal/ctxlog"
	"github.com/vk/fieldgridgo/manifest"
	"github.com/vk/fieldgridgo/stencils"
)

// Run executes the manifest named by the application's configuration: it
// loads the document, then performs every run block in declaration order and
// reports each output field to the application writer.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	doc, err := a.loader.Load(ctx, a.config.ManifestPath)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	if len(doc.Runs) == 0 {
		a.logger.Warn("No run blocks found in manifest, execution not required.")
		return nil
	}

	a.logger.Info("🚀 Starting stencil execution...", "runs", len(doc.Runs))
	for _, run := range doc.Runs {
		if err := a.executeRun(ctx, doc, run); err != nil {
			return fmt.Errorf("run %q: %w", run.Name, err)
		}
	}
	a.logger.Info("🏁 Execution finished.")

	a.logger.Debug("App.Run method finished.")
	return nil
}

// executeRun resolves one run block against its mesh and invokes the operator
// as an outermost call materializing into the named output field.
func (a *App) executeRun(ctx context.Context, doc *manifest.Document, run *manifest.Run) error {
	m, err := doc.Mesh(run.Mesh)
	if err != nil {
		return err
	}

	catalog := stencils.Catalog(
		exec.WithRegistry(a.registry),
		exec.WithExtractor(closure.New(m.Vocabulary()...)),
	)
	op, ok := catalog[run.Operator]
	if !ok {
		return fmt.Errorf("unknown operator %q", run.Operator)
	}

	args := make([]field.Value, len(run.Args))
	for i, name := range run.Args {
		if args[i], err = m.Field(name); err != nil {
			return err
		}
	}
	out, err := m.Field(run.Out)
	if err != nil {
		return err
	}

	opts := []exec.CallOption{
		exec.WithOut(out),
		exec.WithOffsetProvider(m.Provider),
	}
	if a.config.Backend != exec.Embedded {
		opts = append(opts, exec.WithBackend(a.config.Backend))
	}

	a.logger.Debug("Invoking operator.",
		"run", run.Name, "operator", run.Operator, "backend", a.config.Backend)
	if _, err := op.Invoke(ctx, args, opts...); err != nil {
		return err
	}

	fmt.Fprintf(a.outW, "%s: %s = %s\n", run.Name, run.Out, formatValue(out))
	return nil
}

// formatValue renders a value's window contents for the run report.
func formatValue(v field.Value) string {
	switch f := v.(type) {
	case *field.Field[float64]:
		return fmt.Sprintf("%v", f.Data())
	case *field.Field[int64]:
		return fmt.Sprintf("%v", f.Data())
	case *field.Field[bool]:
		return fmt.Sprintf("%v", f.Data())
	default:
		return fmt.Sprint(v)
	}
}
