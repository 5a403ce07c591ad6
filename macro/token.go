package macro

import (
	"fmt"
	"strings"
)

var punctuators = []string{
	"<<=", ">>=", "...",
	"<<", ">>", "<=", ">=", "==", "!=", "&&", "||", "->", "++", "--", "##",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
}

// Tokenize splits the replacement list of a macro into C preprocessing
// tokens. It does not expand anything.
func Tokenize(src string) ([]string, error) {
	var tokens []string

	for i := 0; i < len(src); {
		c := src[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			i++

		case isIdentStart(c):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			if j < len(src) && (src[j] == '"' || src[j] == '\'') && isEncodingPrefix(src[i:j]) {
				end, err := scanQuoted(src, j)
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, src[i:end])
				i = end
				continue
			}
			tokens = append(tokens, src[i:j])
			i = j

		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			j := i + 1
			for j < len(src) {
				d := src[j]
				if (d == '+' || d == '-') && strings.ContainsRune("eEpP", rune(src[j-1])) {
					j++
					continue
				}
				if !isIdentPart(d) && d != '.' {
					break
				}
				j++
			}
			tokens = append(tokens, src[i:j])
			i = j

		case c == '"' || c == '\'':
			end, err := scanQuoted(src, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, src[i:end])
			i = end

		default:
			tok := string(c)
			for _, p := range punctuators {
				if strings.HasPrefix(src[i:], p) {
					tok = p
					break
				}
			}
			tokens = append(tokens, tok)
			i += len(tok)
		}
	}

	return tokens, nil
}

func scanQuoted(src string, start int) (int, error) {
	quote := src[start]
	for j := start + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1, nil
		case '\n':
			return 0, fmt.Errorf("unterminated literal at offset %d", start)
		}
	}
	return 0, fmt.Errorf("unterminated literal at offset %d", start)
}

func isEncodingPrefix(s string) bool {
	return s == "L" || s == "u" || s == "U" || s == "u8"
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
