package emitter

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dnest4/modelgen/codegen/naming"
)

// Template names, identical to the file names of the original builder.
var (
	HeaderTemplate = naming.TemplateFile(naming.HeaderFile(naming.DefaultClass))
	SourceTemplate = naming.TemplateFile(naming.SourceFile(naming.DefaultClass))
)

//go:embed templates/*.template
var templateFS embed.FS

// TemplateSource loads template text by name.
type TemplateSource interface {
	ReadTemplate(name string) (string, error)
}

// DirSource reads templates from a directory on disk.
type DirSource string

// ReadTemplate implements TemplateSource.
func (d DirSource) ReadTemplate(name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(string(d), name))
	if err != nil {
		return "", fmt.Errorf("load template: %w", err)
	}
	return string(b), nil
}

type fsSource struct {
	fsys fs.FS
}

// FSSource reads templates from fsys.
func FSSource(fsys fs.FS) TemplateSource {
	return fsSource{fsys: fsys}
}

// DefaultTemplates returns the templates embedded in the binary.
func DefaultTemplates() TemplateSource {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		// The embedded tree is fixed at build time.
		panic(err)
	}
	return FSSource(sub)
}

func (s fsSource) ReadTemplate(name string) (string, error) {
	b, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return "", fmt.Errorf("load template: %w", err)
	}
	return string(b), nil
}
