package argspec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []Token
	}{
		{"empty", nil, nil},
		{"long flag", []string{"--output"}, []Token{LongFlag("output")}},
		{"short cluster", []string{"-abc"}, []Token{ShortFlag('a'), ShortFlag('b'), ShortFlag('c')}},
		{"values", []string{"x.txt", ""}, []Token{Value("x.txt"), Value("")}},
		{"bare dash", []string{"-"}, nil},
		{"double dash", []string{"--"}, []Token{LongFlag("")}},
		{"triple dash", []string{"---x"}, []Token{LongFlag("-x")}},
		{"no equals splitting", []string{"--out=x"}, []Token{LongFlag("out=x")}},
		{"unicode short", []string{"-é"}, []Token{ShortFlag('é')}},
		{
			"mixed",
			[]string{"in.json", "-vo", "out.txt", "--stdin"},
			[]Token{Value("in.json"), ShortFlag('v'), ShortFlag('o'), Value("out.txt"), LongFlag("stdin")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollectTokens(tt.args)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CollectTokens(%q) mismatch (-want +got):\n%s", tt.args, diff)
			}
		})
	}
}

func TestTokenize_EarlyBreak(t *testing.T) {
	var seen []Token
	for tok := range Tokenize([]string{"-abc", "--long", "value"}) {
		seen = append(seen, tok)
		if len(seen) == 2 {
			break
		}
	}
	if diff := cmp.Diff([]Token{ShortFlag('a'), ShortFlag('b')}, seen); diff != "" {
		t.Errorf("early break mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenize_Lazy(t *testing.T) {
	args := []string{"first"}
	seq := Tokenize(args)
	args[0] = "--second"

	got := CollectTokens(args)
	for tok := range seq {
		if tok != got[0] {
			t.Errorf("sequence classified %v before being ranged over", tok)
		}
	}
}

func TestToken_String(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
		flag bool
	}{
		{LongFlag("output"), "--output", true},
		{ShortFlag('o'), "-o", true},
		{Value("x.txt"), "x.txt", false},
		{Token{}, "", false},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		if tt.tok.IsFlag() != tt.flag {
			t.Errorf("%v.IsFlag() = %v", tt.tok, !tt.flag)
		}
	}
}

func BenchmarkTokenize(b *testing.B) {
	args := []string{"in.json", "-vo", "out.txt", "--input-format", "yaml", "--stdin"}
	b.ReportAllocs()
	for b.Loop() {
		for range Tokenize(args) {
		}
	}
}
