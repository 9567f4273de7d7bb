package manifest

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/fieldgridgo/internal/ctxlog"
	"github.com/vk/fieldgridgo/internal/fsutil"
)

// Loader parses and translates mesh manifests.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a manifest loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load reads every manifest under path, a single .hcl file or a directory
// searched recursively, and merges them into one document.
func (l *Loader) Load(ctx context.Context, path string) (*Document, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest path: %w", err)
	}
	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindManifests(path)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s for manifests: %w", path, err)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl manifests found under %s", path)
	}
	logger.Debug("Manifest loader started.", "path", path, "files", len(files))

	doc := &Document{}
	for _, file := range files {
		hclFile, diags := l.parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}
		if err := l.decodeFile(ctx, file, hclFile, doc); err != nil {
			return nil, err
		}
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	logger.Debug("Manifest loading complete.", "meshes", len(doc.Meshes), "runs", len(doc.Runs))
	return doc, nil
}

// Decode translates manifest source held in memory; filename is used in
// diagnostics only.
func (l *Loader) Decode(ctx context.Context, filename string, src []byte) (*Document, error) {
	hclFile, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}
	doc := &Document{}
	if err := l.decodeFile(ctx, filename, hclFile, doc); err != nil {
		return nil, err
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (l *Loader) decodeFile(ctx context.Context, filename string, file *hcl.File, doc *Document) error {
	logger := ctxlog.FromContext(ctx)

	var root documentSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode %s: %w", filename, diags)
	}

	for _, mb := range root.Meshes {
		m, err := translateMesh(mb)
		if err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}
		logger.Debug("Mesh translated.",
			"mesh", m.Name, "dimensions", len(m.Dims), "offsets", len(m.Provider), "fields", len(m.Fields))
		doc.Meshes = append(doc.Meshes, m)
	}
	for _, rb := range root.Runs {
		doc.Runs = append(doc.Runs, &Run{
			Name:     rb.Name,
			Mesh:     rb.Mesh,
			Operator: rb.Operator,
			Args:     append([]string(nil), rb.Args...),
			Out:      rb.Out,
		})
	}
	return nil
}

// validateDocument checks the cross-block references a single file cannot:
// mesh and run names must be unique across the document, and every named
// mesh reference must resolve.
func validateDocument(doc *Document) error {
	meshes := make(map[string]struct{}, len(doc.Meshes))
	for _, m := range doc.Meshes {
		if _, dup := meshes[m.Name]; dup {
			return fmt.Errorf("mesh %q declared twice", m.Name)
		}
		meshes[m.Name] = struct{}{}
	}
	runs := make(map[string]struct{}, len(doc.Runs))
	for _, r := range doc.Runs {
		if _, dup := runs[r.Name]; dup {
			return fmt.Errorf("run %q declared twice", r.Name)
		}
		runs[r.Name] = struct{}{}
		if _, err := doc.Mesh(r.Mesh); err != nil {
			return fmt.Errorf("run %q: %w", r.Name, err)
		}
	}
	return nil
}
