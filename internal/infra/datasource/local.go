package datasource

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charityfund/faqbot/internal/domain/catalog"
)

// LocalSource opens dataset files from a directory on disk.
type LocalSource struct {
	root string
}

// NewLocalSource constructs a source rooted at dir.
func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{root: dir}
}

// Open resolves ref inside the root directory and opens it.
// Refs escaping the root are rejected.
func (s *LocalSource) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("dataset reference cannot be empty")
	}
	path := ref
	if s.root != "" {
		path = filepath.Join(s.root, filepath.Clean("/"+ref))
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", ref, err)
	}
	return file, nil
}

var _ catalog.DatasetSource = (*LocalSource)(nil)
