// Package clangsrc reads macro definitions straight from C headers through
// libclang. The adapter needs cgo and a libclang installation, so it is only
// built with the clang build tag; without it ScanMacros reports
// ErrUnavailable and callers fall back to scanning the header text.
//
// The go-clang module is not required by default. Add it before a tagged
// build:
//
//	go get github.com/go-clang/clang-v13/clang@latest
//	go build -tags clang
package clangsrc

import "errors"

var ErrUnavailable = errors.New("libclang support not built in (build with -tags clang)")

// compileArgs are the arguments every header is parsed with. Headers are
// parsed as C regardless of their extension.
func compileArgs(includeDirs []string) []string {
	args := []string{"-x", "c"}
	for _, dir := range includeDirs {
		args = append(args, "-I"+dir)
	}
	return args
}
