//go:build unix

package cinterop

import (
	"unicode/utf8"
	"unsafe"

	"github.com/jupiterrider/ffi"
	"golang.org/x/sys/unix"
)

// CCharWide is a wchar_t, which is four bytes outside Windows.
type CCharWide uint32

var FFITypeCCharWide = ffi.TypeUint32

func bytePtrFromString(s string) (*byte, error) {
	return unix.BytePtrFromString(s)
}

func bytePtrToString(p *byte) string {
	return unix.BytePtrToString(p)
}

func wideFromString(s string) (*CCharWide, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return nil, unix.EINVAL
		}
	}

	buf := make([]CCharWide, 0, utf8.RuneCountInString(s)+1)
	for _, r := range s {
		buf = append(buf, CCharWide(r))
	}
	buf = append(buf, 0)

	return &buf[0], nil
}

func wideToString(p *CCharWide) string {
	var runes []rune
	for ptr := unsafe.Pointer(p); ; ptr = unsafe.Add(ptr, unsafe.Sizeof(CCharWide(0))) {
		c := *(*CCharWide)(ptr)
		if c == 0 {
			break
		}
		runes = append(runes, rune(c))
	}
	return string(runes)
}
