package importdomain

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/xrash/smetrics"
)

// Similarity scores two names from 0 (unrelated) to 100 (identical).
type Similarity interface {
	Score(a, b string) int
}

// SimilarityFunc adapts a function to Similarity.
type SimilarityFunc func(a, b string) int

func (f SimilarityFunc) Score(a, b string) int { return f(a, b) }

// TokenSortRatio compares names regardless of word order: both sides are
// lowercased, stripped of punctuation and their tokens sorted before an
// indel ratio is computed.
type TokenSortRatio struct{}

func (TokenSortRatio) Score(a, b string) int {
	sa, sb := sortedTokens(a), sortedTokens(b)
	if sa == "" || sb == "" {
		return 0
	}
	if sa == sb {
		return 100
	}
	return indelRatio(sa, sb)
}

func sortedTokens(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	tokens := strings.Fields(cleaned)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// indelRatio is 100 * (1 - d/(len(a)+len(b))) where d is the insert/delete
// distance, obtained from Wagner-Fischer with substitution cost 2.
func indelRatio(a, b string) int {
	ea, eb := encodeRunes(a, b)
	total := len(ea) + len(eb)
	if total == 0 {
		return 100
	}
	d := smetrics.WagnerFischer(ea, eb, 1, 1, 2)
	return int(math.RoundToEven(100 * (1 - float64(d)/float64(total))))
}

// encodeRunes maps each distinct rune to a single byte so that distances are
// counted per character rather than per UTF-8 byte. Inputs with more than 255
// distinct runes fall back to their raw bytes.
func encodeRunes(a, b string) (string, string) {
	alphabet := make(map[rune]byte)
	encode := func(s string) ([]byte, bool) {
		out := make([]byte, 0, len(s))
		for _, r := range s {
			code, ok := alphabet[r]
			if !ok {
				if len(alphabet) >= 255 {
					return nil, false
				}
				code = byte(len(alphabet) + 1)
				alphabet[r] = code
			}
			out = append(out, code)
		}
		return out, true
	}
	ea, okA := encode(a)
	eb, okB := encode(b)
	if !okA || !okB {
		return a, b
	}
	return string(ea), string(eb)
}
