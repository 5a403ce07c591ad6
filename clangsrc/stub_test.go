//go:build !clang

package clangsrc

import (
	"errors"
	"testing"

	"github.com/ardanlabs/ffi-bindgen/native"
)

func TestScanMacrosUnavailable(t *testing.T) {
	macros, err := ScanMacros("api.h", nil, native.Resolver{})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if macros != nil {
		t.Errorf("expected no macros, got %v", macros)
	}
}
