// Package registry serves model metadata from a local directory of weights,
// for offline resolution without a remote hub.
package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/Vaibhavs10/llm-mem-finder/internal/common/fsutil"
	"github.com/Vaibhavs10/llm-mem-finder/pkg/types"
)

// weightExts are the file types that mark a directory as a model.
var weightExts = []string{".gguf", ".safetensors", ".bin", ".pt", ".pth"}

// maxDepth bounds the scan to <root>/<org>/<name>.
const maxDepth = 2

// Dir is a read-only, in-memory index built once by LoadDir.
type Dir struct {
	root   string
	models map[string]types.ModelMetadata
}

// modelNotFoundError signals an id that is not present under the scanned root.
type modelNotFoundError struct{ id string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.id }

// ErrModelNotFound returns an error for an id missing from the registry.
func ErrModelNotFound(id string) error { return modelNotFoundError{id: id} }

// IsModelNotFound reports whether the error indicates a missing model id.
func IsModelNotFound(err error) bool {
	var e modelNotFoundError
	return errors.As(err, &e)
}

// LoadDir scans dir for models. Weight files directly under dir become one
// model each, keyed by filename (e.g. "llama-3.1-8b-q4_k_m.gguf"). Any
// subdirectory up to two levels deep that holds weight files becomes a model
// keyed by its slash-separated relative path (e.g. "meta-llama/Llama-2-7b-hf"),
// listing every regular file in it.
func LoadDir(dir string) (*Dir, error) {
	abs, err := fsutil.ResolvePath(dir)
	if err != nil {
		return nil, err
	}
	d := &Dir{root: abs, models: make(map[string]types.ModelMetadata)}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !fsutil.HasExt(e.Name(), weightExts...) {
			continue
		}
		d.models[e.Name()] = types.ModelMetadata{Files: []types.FileDescriptor{types.NewFileDescriptor(e.Name())}}
	}
	if err := d.scan(abs, "", 1); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dir) scan(dir, rel string, depth int) error {
	if depth > maxDepth {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		sub := filepath.Join(dir, e.Name())
		id := path.Join(rel, e.Name())
		files, err := os.ReadDir(sub)
		if err != nil {
			return fmt.Errorf("read dir: %w", err)
		}
		var md types.ModelMetadata
		hasWeights := false
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			md.Files = append(md.Files, types.NewFileDescriptor(f.Name()))
			if fsutil.HasExt(f.Name(), weightExts...) {
				hasWeights = true
			}
		}
		if hasWeights {
			d.models[id] = md
			continue
		}
		if err := d.scan(sub, id, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Root returns the absolute scanned directory.
func (d *Dir) Root() string { return d.root }

// IDs returns every known model id, sorted.
func (d *Dir) IDs() []string {
	ids := make([]string, 0, len(d.models))
	for id := range d.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FetchModel implements resolver.Provider. Local files never report a
// parameter count, so resolution relies on the identifier heuristic.
func (d *Dir) FetchModel(ctx context.Context, id string) (types.ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return types.ModelMetadata{}, err
	}
	md, ok := d.models[id]
	if !ok {
		return types.ModelMetadata{}, ErrModelNotFound(id)
	}
	md.Files = append([]types.FileDescriptor(nil), md.Files...)
	return md, nil
}
