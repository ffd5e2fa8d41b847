package dataset

import (
	"path/filepath"
	"strings"

	"github.com/helixml/salary/internal/domain"
)

// Resolver maps user-supplied dataset paths onto the filesystem.
type Resolver struct {
	dir string
}

// NewResolver creates a Resolver rooted at dir. An empty dir leaves paths
// untouched.
func NewResolver(dir string) Resolver {
	return Resolver{dir: dir}
}

// Resolve returns the path to read for p. With a root directory set,
// relative paths are joined to it and may not climb out of it.
func (r Resolver) Resolve(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", domain.Validationf("data_file is required")
	}
	if r.dir == "" || filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}

	root := filepath.Clean(r.dir)
	joined := filepath.Join(root, p)
	rel, err := filepath.Rel(root, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", domain.Validationf("data_file %q is outside the dataset directory", p)
	}
	return joined, nil
}
