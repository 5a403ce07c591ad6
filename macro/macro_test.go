package macro

import (
	"errors"
	"slices"
	"testing"
)

func evaluate(e *Evaluator, src string, mapped map[string]Result) (Result, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return Result{}, err
	}
	return e.Evaluate(tokens, mapped)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantType  string
		wantValue string
	}{
		{"decimal", "42", "int", "42"},
		{"negative", "-42", "int", "-42"},
		{"parenthesized", "(((7)))", "int", "7"},
		{"precedence", "1 + 2 * 3", "int", "7"},
		{"shift binds looser than add", "1 << 2 + 1", "int", "8"},
		{"bit or of shifts", "(1 << 4) | 1", "int", "17"},
		{"integer division", "10 / 4", "int", "2"},
		{"remainder", "10 % 4", "int", "2"},
		{"float division", "10.0 / 4", "float64", "2.5"},
		{"float suffix", "1.5f", "float32", "1.5"},
		{"exponent", "1e3", "float64", "1000"},
		{"unsigned suffix", "5U", "uint32", "5"},
		{"long suffix", "5L", "int64", "5"},
		{"unsigned long suffix", "5UL", "uint64", "5"},
		{"hex", "0x10", "int", "16"},
		{"octal", "010", "int", "8"},
		{"char", "'A'", "int32", "65"},
		{"escaped char", `'\n'`, "int32", "10"},
		{"hex escaped char", `'\x41'`, "int32", "65"},
		{"string concatenation", `"ab" "cd"`, "string", `"abcd"`},
		{"wide string", `L"wide"`, "string", `"wide"`},
		{"ULL hex", "0xFFULL", "uint64", "255"},
		{"ULL lower case", "10ull", "uint64", "10"},
		{"ULL max", "18446744073709551615ULL", "uint64", "18446744073709551615"},
		{"c cast wraps", "(uint32)-1", "uint32", "4294967295"},
		{"c keyword cast wraps", "(unsigned int)-1", "uint32", "4294967295"},
		{"c cast truncates float", "(int)3.9", "int32", "3"},
		{"size_t cast", "(size_t)-1", "uint64", "18446744073709551615"},
		{"go conversion", "uint16(65535)", "uint16", "65535"},
		{"complement unsigned", "~0U", "uint32", "4294967295"},
		{"complement signed", "~0", "int", "-1"},
		{"overflowing untyped int", "0x7FFFFFFFFFFFFFFF + 1", "uint64", "9223372036854775808"},
		{"typed and untyped", "(uint8)200 + 55", "uint8", "255"},
		{"comparison", "3 > 2", "bool", "true"},
		{"logical", "1 < 2 && 2 < 3", "bool", "true"},
		{"ternary", "1 ? 2 : 3", "int", "2"},
		{"ternary evaluates only the chosen branch", "0 ? 1 / 0 : 3", "int", "3"},
		{"nested ternary", "0 ? 1 : 0 ? 2 : 3", "int", "3"},
		{"rune arithmetic", "'a' + 1", "int32", "98"},
		{"float promotion", "1 + 0.5", "float64", "1.5"},
	}

	e := New(nil, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluate(e, tt.src, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Type != tt.wantType {
				t.Errorf("expected type %s, got %s", tt.wantType, got.Type)
			}
			if got.Value != tt.wantValue {
				t.Errorf("expected value %s, got %s", tt.wantValue, got.Value)
			}
		})
	}
}

func TestEvaluateUnmappable(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"invalid ULL digits", "ZFFULL"},
		{"ULL overflow", "18446744073709551616ULL"},
		{"NULL", "NULL"},
		{"unknown identifier", "FOO + 1"},
		{"sizeof", "sizeof(int)"},
		{"more than one value", "1, 2"},
		{"trailing tokens", "1 2"},
		{"unbalanced parenthesis", "(1 + 2"},
		{"division by zero", "1 / 0"},
		{"remainder by zero", "1 % 0"},
		{"go conversion overflow", "uint8(256)"},
		{"negated unsigned", "-5U"},
		{"mismatched types", "1U + 1L"},
		{"long cast without width", "(long)1"},
		{"not on integer", "!1"},
		{"string minus", `"a" - "b"`},
		{"float remainder", "1.5 % 2"},
		{"negative shift", "1 << -1"},
		{"huge shift", "1 << 5000"},
		{"untyped overflow", "0xFFFFFFFFFFFFFFFF + 1"},
		{"typed overflow", "(uint8)255 + 1"},
		{"multi character literal", "'ab'"},
	}

	e := New(nil, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evaluate(e, tt.src, nil)
			if !errors.Is(err, ErrUnmappable) {
				t.Errorf("expected ErrUnmappable, got %v", err)
			}
		})
	}
}

func TestEvaluateEmpty(t *testing.T) {
	_, err := New(nil, nil).Evaluate(nil, nil)
	if !errors.Is(err, ErrUnmappable) {
		t.Errorf("expected ErrUnmappable, got %v", err)
	}
}

func TestEvaluateDependentMacros(t *testing.T) {
	e := New(nil, nil)
	mapped := map[string]Result{}

	a, err := evaluate(e, "2", mapped)
	if err != nil {
		t.Fatalf("evaluating A: %v", err)
	}
	mapped["A"] = a

	b, err := evaluate(e, "A + 3", mapped)
	if err != nil {
		t.Fatalf("evaluating B: %v", err)
	}
	if b.Type != "int" {
		t.Errorf("expected type int, got %s", b.Type)
	}
	if b.Value != "5" {
		t.Errorf("expected value 5, got %s", b.Value)
	}

	if _, err := evaluate(e, "A + 3", nil); !errors.Is(err, ErrUnmappable) {
		t.Errorf("expected ErrUnmappable without A, got %v", err)
	}

	mapped["MODE_FULL"] = a
	def, err := evaluate(e, "MODE_FULL", mapped)
	if err != nil {
		t.Fatalf("evaluating DEF: %v", err)
	}
	if def.Type != "int" || def.Value != "2" {
		t.Errorf("expected int 2, got %s %s", def.Type, def.Value)
	}
}

func TestEvaluateDependentTypes(t *testing.T) {
	e := New(nil, nil)
	mapped := map[string]Result{
		"SMALL": {Type: "uint8", Value: "200"},
		"RATIO": {Type: "float32", Value: "0.5"},
		"NAME":  {Type: "string", Value: `"lib"`},
	}

	tests := []struct {
		src       string
		wantType  string
		wantValue string
		wantErr   bool
	}{
		{src: "SMALL + 50", wantType: "uint8", wantValue: "250"},
		{src: "SMALL + 100", wantErr: true},
		{src: "RATIO * 4", wantType: "float32", wantValue: "2"},
		{src: `NAME "-v1"`, wantErr: true},
		{src: "SMALL + RATIO", wantErr: true},
	}

	for _, tt := range tests {
		got, err := evaluate(e, tt.src, mapped)
		if tt.wantErr {
			if !errors.Is(err, ErrUnmappable) {
				t.Errorf("%s: expected ErrUnmappable, got %v", tt.src, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.src, err)
			continue
		}
		if got.Type != tt.wantType || got.Value != tt.wantValue {
			t.Errorf("%s: expected %s %s, got %s %s", tt.src, tt.wantType, tt.wantValue, got.Type, got.Value)
		}
	}
}

func TestEvaluateAliases(t *testing.T) {
	e := New(map[string]string{"my_short": "int16"}, map[string]string{"flags_t": "uint32"})

	got, err := evaluate(e, "(my_short)70000", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != "int16" || got.Value != "4464" {
		t.Errorf("expected int16 4464, got %s %s", got.Type, got.Value)
	}

	got, err = evaluate(e, "(flags_t)1 << 31", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != "uint32" || got.Value != "2147483648" {
		t.Errorf("expected uint32 2147483648, got %s %s", got.Type, got.Value)
	}
}

func TestEvaluateLongSize(t *testing.T) {
	e := New(nil, nil)
	e.LongSize = 8

	got, err := evaluate(e, "(unsigned long)-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != "uint64" || got.Value != "18446744073709551615" {
		t.Errorf("expected uint64 max, got %s %s", got.Type, got.Value)
	}

	e.LongSize = 4
	got, err = evaluate(e, "(long)0x80000000", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != "int32" || got.Value != "-2147483648" {
		t.Errorf("expected int32 -2147483648, got %s %s", got.Type, got.Value)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"1<<2", []string{"1", "<<", "2"}},
		{"(FOO|BAR)", []string{"(", "FOO", "|", "BAR", ")"}},
		{"1.5e+3f", []string{"1.5e+3f"}},
		{"0xFFULL", []string{"0xFFULL"}},
		{`L"abc" u8"x"`, []string{`L"abc"`, `u8"x"`}},
		{`'\''`, []string{`'\''`}},
		{"a>=b&&c", []string{"a", ">=", "b", "&&", "c"}},
		{"", nil},
	}

	for _, tt := range tests {
		got, err := Tokenize(tt.src)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.src, err)
			continue
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("%q: expected %q, got %q", tt.src, tt.want, got)
		}
	}

	if _, err := Tokenize(`"unterminated`); err == nil {
		t.Error("expected an error for an unterminated string")
	}
}
