//go:build !clang

package clangsrc

import (
	"github.com/ardanlabs/ffi-bindgen/catalog"
	"github.com/ardanlabs/ffi-bindgen/native"
)

func ScanMacros(header string, includeDirs []string, resolver native.Resolver) ([]catalog.MacroDefinition, error) {
	return nil, ErrUnavailable
}
