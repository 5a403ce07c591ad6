package generator

import (
	"bytes"
	"text/template"
)

var loaderTemplate = template.Must(template.New("loader").Parse(`// Code generated by ffi-bindgen. DO NOT EDIT.

package {{.Package}}

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/jupiterrider/ffi"
)

var lib ffi.Lib

// funcLoaders holds one function per generated file built for this
// platform. Each prepares the functions its file declares.
var funcLoaders []func() error

func Load(path string) error {
	var err error
	lib, err = ffi.Load(getLibraryPath(path))
	if err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}

	for _, load := range funcLoaders {
		if err := load(); err != nil {
			return err
		}
	}

	return nil
}

func getLibraryPath(basePath string) string {
	var filename string
	switch runtime.GOOS {
	case "linux", "freebsd":
		filename = "lib{{.LibName}}.so"
	case "darwin":
		filename = "lib{{.LibName}}.dylib"
	case "windows":
		filename = "{{.LibName}}.dll"
	default:
		filename = "lib{{.LibName}}.so"
	}
	return filepath.Join(basePath, filename)
}
`))

func (g *Generator) generateLoader() (string, error) {
	var buf bytes.Buffer
	err := loaderTemplate.Execute(&buf, map[string]string{
		"Package": g.packageName,
		"LibName": g.libName,
	})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
