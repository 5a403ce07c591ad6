package macro

import (
	"fmt"
	"strconv"
	"strings"
)

// normalize rewrites a raw macro token stream into one the parser accepts:
// type aliases are substituted, size_t becomes uint64 and ULL literals become
// uint64 conversions.
func (e *Evaluator) normalize(tokens []string) ([]string, error) {
	out := make([]string, 0, len(tokens))

	for _, tok := range tokens {
		if target, ok := e.systemAliases[tok]; ok {
			tok = target
		} else if target, ok := e.userAliases[tok]; ok {
			tok = target
		}

		if tok == "size_t" {
			tok = "uint64"
		}

		if hasULLSuffix(tok) {
			digits := tok[:len(tok)-3]
			if err := validateUint64(digits); err != nil {
				return nil, fmt.Errorf("literal %s: %w", tok, err)
			}
			out = append(out, "uint64", "(", digits, ")")
			continue
		}

		out = append(out, tok)
	}

	return out, nil
}

// hasULLSuffix reports whether tok is a numeric literal ending in ULL.
// Identifiers such as MODE_FULL are left alone.
func hasULLSuffix(tok string) bool {
	return len(tok) > 3 && isDigit(tok[0]) && strings.EqualFold(tok[len(tok)-3:], "ull")
}

func validateUint64(digits string) error {
	var err error

	switch {
	case strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X"):
		_, err = strconv.ParseUint(digits[2:], 16, 64)
	case len(digits) > 1 && digits[0] == '0':
		_, err = strconv.ParseUint(digits[1:], 8, 64)
	default:
		_, err = strconv.ParseUint(digits, 10, 64)
	}

	if err != nil {
		return fmt.Errorf("not an unsigned 64-bit integer")
	}

	return nil
}
