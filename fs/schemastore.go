package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Traves-Theberge/webform-cli"
)

// schemaExt is the file extension of stored schemas.
const schemaExt = ".json"

// Ensure SchemaStore implements webform.SchemaStore at compile time.
var _ webform.SchemaStore = (*SchemaStore)(nil)

// SchemaStore reads schemas stored as <dir>/<name>.json.
type SchemaStore struct {
	dir string
}

// NewSchemaStore creates a SchemaStore reading from dir.
func NewSchemaStore(dir string) *SchemaStore {
	return &SchemaStore{dir: dir}
}

// ReadSchema returns the raw JSON of the named schema.
func (s *SchemaStore) ReadSchema(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, webform.Errorf(webform.EINVALID, "invalid schema name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name+schemaExt))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, webform.Errorf(webform.ENOTFOUND, "schema %q not found", name)
	}
	return data, err
}

// ListSchemas returns the sorted names of all schemas in the directory.
// A missing directory has no schemas.
func (s *SchemaStore) ListSchemas(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	} else if err != nil {
		return nil, err
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != schemaExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), schemaExt))
	}
	slices.Sort(names)
	return names, nil
}
