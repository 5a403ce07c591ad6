package clangsrc

import (
	"slices"
	"testing"
)

func TestCompileArgs(t *testing.T) {
	got := compileArgs([]string{"/usr/local/include", "include"})
	want := []string{"-x", "c", "-I/usr/local/include", "-Iinclude"}

	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
