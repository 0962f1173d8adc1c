package normalize

import (
	"strings"
	"unicode"

	"github.com/gosimple/unidecode"
)

// Canonical category labels.
const (
	Homme = "Homme"
	Femme = "Femme"
	Mixte = "Mixte"
)

// ReportOrder is the order in which categories are laid out in reports.
var ReportOrder = []string{Femme, Mixte, Homme}

var synonyms = map[string]string{
	"H": Homme, "HOMME": Homme, "HOMMES": Homme, "MASCULIN": Homme, "MEN": Homme, "MALE": Homme,
	"F": Femme, "FEMME": Femme, "FEMMES": Femme, "DAME": Femme, "DAMES": Femme,
	"FEMININE": Femme, "WOMEN": Femme, "FEMALE": Femme,
	"M": Mixte, "MIXTE": Mixte, "MIXTES": Mixte, "MIXED": Mixte, "MIX": Mixte,
}

// Category maps a raw category cell to Homme, Femme or Mixte. Values that
// match no synonym are returned uppercased so they can be fixed by hand
// later. ok is false when the cell is empty.
func Category(raw string) (label string, ok bool) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return "", false
	}
	if canonical, found := synonyms[fold(v)]; found {
		return canonical, true
	}
	return v, true
}

// Matches reports whether a stored category value belongs to target. Single
// letter codes (H, F, M) only match as whole words.
func Matches(value, target string) bool {
	v := strings.ToLower(fold(strings.TrimSpace(value)))
	t := strings.ToLower(fold(strings.TrimSpace(target)))

	switch t {
	case "homme":
		return strings.Contains(v, "homme") || strings.Contains(v, "masculin") || hasWord(v, "h")
	case "femme":
		return strings.Contains(v, "femme") || strings.Contains(v, "feminin") ||
			strings.Contains(v, "dame") || hasWord(v, "f")
	case "mixte":
		return strings.Contains(v, "mixte") || hasWord(v, "m")
	}
	return strings.Contains(v, t)
}

func fold(s string) string {
	return unidecode.Unidecode(s)
}

func hasWord(s, word string) bool {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if tok == word {
			return true
		}
	}
	return false
}
