package argspec

import (
	"iter"
	"slices"
	"strings"
)

// TokenKind classifies a token produced by Tokenize.
type TokenKind uint8

const (
	// TokenLongFlag is a "--name" item with the prefix removed.
	TokenLongFlag TokenKind = iota + 1
	// TokenShortFlag is a single character taken from a "-abc" cluster.
	TokenShortFlag
	// TokenValue is any item that does not start with '-'.
	TokenValue
)

// String returns the token kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenLongFlag:
		return "long-flag"
	case TokenShortFlag:
		return "short-flag"
	case TokenValue:
		return "value"
	default:
		return "unknown"
	}
}

// Token is the unit the resolver works on. Only the field matching Kind is set.
type Token struct {
	Kind  TokenKind
	Name  string // TokenLongFlag
	Short rune   // TokenShortFlag
	Text  string // TokenValue
}

// LongFlag returns a TokenLongFlag token.
func LongFlag(name string) Token { return Token{Kind: TokenLongFlag, Name: name} }

// ShortFlag returns a TokenShortFlag token.
func ShortFlag(c rune) Token { return Token{Kind: TokenShortFlag, Short: c} }

// Value returns a TokenValue token.
func Value(text string) Token { return Token{Kind: TokenValue, Text: text} }

// IsFlag reports whether the token addresses an entry by name.
func (t Token) IsFlag() bool {
	return t.Kind == TokenLongFlag || t.Kind == TokenShortFlag
}

// String renders the token the way a user would have typed it.
func (t Token) String() string {
	switch t.Kind {
	case TokenLongFlag:
		return "--" + t.Name
	case TokenShortFlag:
		return "-" + string(t.Short)
	case TokenValue:
		return t.Text
	default:
		return ""
	}
}

// Tokenize classifies raw argument items (program name already stripped) in a
// single left-to-right pass. The sequence is lazy: nothing is classified until
// it is ranged over.
//
//	"--output"  -> LongFlag("output")
//	"-abc"      -> ShortFlag('a'), ShortFlag('b'), ShortFlag('c')
//	"x.txt", "" -> Value("x.txt"), Value("")
//
// A bare "--" is not a terminator; it becomes LongFlag("").
func Tokenize(args []string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for _, arg := range args {
			if name, ok := strings.CutPrefix(arg, "--"); ok {
				if !yield(LongFlag(name)) {
					return
				}
				continue
			}
			if cluster, ok := strings.CutPrefix(arg, "-"); ok {
				for _, c := range cluster {
					if !yield(ShortFlag(c)) {
						return
					}
				}
				continue
			}
			if !yield(Value(arg)) {
				return
			}
		}
	}
}

// CollectTokens materializes Tokenize(args).
func CollectTokens(args []string) []Token {
	return slices.Collect(Tokenize(args))
}
