package app

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugRemove  = regexp.MustCompile(`[*+~.()'"!:@]`)
	slugCharMap = strings.NewReplacer(
		"œ", "oe", "Œ", "OE", "æ", "ae", "Æ", "AE", "ß", "ss",
		"&", "and", "%", "percent", "$", "dollar",
		"-", " ",
	)
)

// Slugify turns a free-text address into a lower-case, dash-separated
// ASCII slug: "123, Rue Saint-Hubert" -> "123-rue-saint-hubert".
func Slugify(s string) string {
	s = slugCharMap.Replace(s)
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err == nil {
		s = folded
	}
	s = slugRemove.ReplaceAllString(s, "")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}
