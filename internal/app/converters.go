package app

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"apt_reviews/internal/domain"
)

var (
	trueTokens = map[string]struct{}{"oui": {}, "yes": {}, "true": {}}

	// five-point label scale, French form labels first
	scoreLabels = map[string]int{
		"très mauvais": 1, "very poor": 1,
		"mauvais": 2, "poor": 2,
		"bon": 3, "good": 3,
		"très bon": 4, "very good": 4,
		"excellent": 5,
	}

	durationLabels = map[string]int{
		"de 1 an à 3 ans": 2, "1 to 3 years": 2,
		"plus de 3 ans": 3, "more than 3 years": 3,
	}

	htmlTag    = regexp.MustCompile(`<[^>]+>`)
	labelNoise = strings.NewReplacer("[", "", "]", "", `"`, "")
)

// ToInt parses the leading integer of a text answer and ignores anything
// after it. Blank or non-numeric input yields nil.
func ToInt(a domain.RawAnswer) *int {
	if a.Blank() || a.IsComposite() {
		return nil
	}
	n, ok := leadingInt(a.Text())
	if !ok {
		return nil
	}
	return &n
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ToBoolean is true iff the text answer is one of oui/yes/true, ignoring case.
func ToBoolean(a domain.RawAnswer) bool {
	if a.IsComposite() {
		return false
	}
	return isTrueToken(a.Text())
}

// ToBooleanAt applies ToBoolean to the i-th sub-answer. Missing sub-answers are false.
func ToBooleanAt(a domain.RawAnswer, i int) bool {
	v, ok := a.Sub(i)
	if !ok {
		return false
	}
	return isTrueToken(v)
}

func isTrueToken(s string) bool {
	_, ok := trueTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// ToScore rescales a 7-point answer to the 5-point display scale. The
// result is not clamped: out-of-range inputs give out-of-range scores.
func ToScore(a domain.RawAnswer) int {
	return rescale(ToInt(a))
}

func ToScoreAt(a domain.RawAnswer, i int) int {
	v, ok := a.Sub(i)
	if !ok {
		return 0
	}
	return rescale(ToInt(domain.TextAnswer(v)))
}

func rescale(n *int) int {
	if n == nil {
		return 0
	}
	// halves round toward +Inf
	return int(math.Floor(float64(*n)/7*5 + 0.5))
}

// ToScoreFromLabel matches the i-th sub-answer against the five-point label
// scale. Unknown labels give 0.
func ToScoreFromLabel(a domain.RawAnswer, i int) int {
	v, ok := a.Sub(i)
	if !ok {
		return 0
	}
	label := strings.ToLower(strings.TrimSpace(labelNoise.Replace(v)))
	return scoreLabels[label]
}

// ToDurationClass: 2 for one to three years, 3 for more, 1 otherwise.
func ToDurationClass(a domain.RawAnswer) int {
	if a.IsComposite() {
		return 1
	}
	if c, ok := durationLabels[strings.ToLower(strings.TrimSpace(a.Text()))]; ok {
		return c
	}
	return 1
}

// SanitizeText strips HTML tags from free text. Blank input gives nil.
func SanitizeText(a domain.RawAnswer) *string {
	if a.Blank() || a.IsComposite() {
		return nil
	}
	s := htmlTag.ReplaceAllString(a.Text(), "")
	return &s
}
