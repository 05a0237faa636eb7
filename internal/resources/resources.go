// Package resources resolves asset names to paths, searching a
// resource directory tree recursively when a name is not a plain path.
package resources

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Resolver maps asset names to filesystem paths. A name that already
// exists as a path is returned unchanged; otherwise the resolver walks
// its root directory for a file with a matching base name. The zero
// root disables searching.
type Resolver struct {
	root string
}

// New creates a resolver over root. An empty root resolves plain paths
// only.
func New(root string) *Resolver {
	return &Resolver{root: root}
}

// Root returns the directory the resolver searches.
func (r *Resolver) Root() string { return r.root }

// Resolve returns a usable path for name. Plain paths win; otherwise
// the first file under the root whose base name matches base(name) is
// returned, in lexical walk order.
func (r *Resolver) Resolve(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	if r.root == "" {
		return "", fmt.Errorf("resources: %q: %w", name, fs.ErrNotExist)
	}

	base := filepath.Base(name)
	var found string
	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == base {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("resources: %q: %w", name, err)
	}
	if found == "" {
		return "", fmt.Errorf("resources: %q not found under %q: %w", name, r.root, fs.ErrNotExist)
	}
	return found, nil
}
