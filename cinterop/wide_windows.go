//go:build windows

package cinterop

import (
	"github.com/jupiterrider/ffi"
	"golang.org/x/sys/windows"
)

// CCharWide is a wchar_t, which is a UTF-16 code unit on Windows.
type CCharWide uint16

var FFITypeCCharWide = ffi.TypeUint16

func bytePtrFromString(s string) (*byte, error) {
	return windows.BytePtrFromString(s)
}

func bytePtrToString(p *byte) string {
	return windows.BytePtrToString(p)
}

func wideFromString(s string) (*CCharWide, error) {
	p, err := windows.UTF16PtrFromString(s)
	if err != nil {
		return nil, err
	}
	return (*CCharWide)(p), nil
}

func wideToString(p *CCharWide) string {
	return windows.UTF16PtrToString((*uint16)(p))
}
