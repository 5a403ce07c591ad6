package catalog

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ardanlabs/ffi-bindgen/macro"
)

// commentRe also matches string and character literals so that comment
// markers inside them are skipped.
var commentRe = regexp.MustCompile(`"(?:\\.|[^"\\\n])*"|'(?:\\.|[^'\\\n])*'|/\*[\s\S]*?\*/|//[^\n]*`)
var defineRe = regexp.MustCompile(`^[ \t]*#[ \t]*define[ \t]+([A-Za-z_]\w*)(\(?)(.*)$`)

// ScanMacros extracts the object-like macro definitions of a header. It is
// the fallback used when the catalog was produced without a preprocessing
// record. Function-like and empty macros are skipped.
func ScanMacros(content string, path string) []MacroDefinition {
	content = removeComments(content)
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var macros []MacroDefinition

	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines); i++ {
		lineNumber := i + 1
		line := lines[i]

		for strings.HasSuffix(line, "\\") && i+1 < len(lines) {
			i++
			line = strings.TrimSuffix(line, "\\") + " " + lines[i]
		}

		m := defineRe.FindStringSubmatch(line)
		if m == nil || m[2] == "(" {
			continue
		}

		body := strings.TrimSpace(m[3])
		if body == "" {
			continue
		}

		tokens, err := macro.Tokenize(body)
		if err != nil || len(tokens) == 0 {
			continue
		}

		column := strings.Index(line, m[1]) + 1

		macros = append(macros, MacroDefinition{
			Name:   m[1],
			Tokens: tokens,
			Location: Location{
				FileName: filepath.Base(path),
				FilePath: filepath.ToSlash(path),
				Line:     lineNumber,
				Column:   column,
			},
		})
	}

	return macros
}

// removeComments blanks out comments but keeps their newlines so that line
// numbers stay aligned with the original header.
func removeComments(s string) string {
	return commentRe.ReplaceAllStringFunc(s, func(m string) string {
		switch {
		case strings.HasPrefix(m, "//"):
			return ""
		case strings.HasPrefix(m, "/*"):
			return strings.Repeat("\n", strings.Count(m, "\n")) + " "
		}
		return m
	})
}
