// Package match links contacts across sources: token-based name
// similarity, fuzzy organisation similarity, and an additive confidence
// score with per-pairing weights.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics decomposes accented runes and strips the combining marks,
// so "José" compares equal to "Jose".
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeText(s string) string {
	folded, _, err := transform.String(foldDiacritics, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func tokens(s string) []string {
	n := normalizeText(s)
	if n == "" {
		return nil
	}
	return strings.Split(n, " ")
}

// NameSimilarity scores two personal names in [0,1]. Tokens are matched
// exactly, or by substring when both tokens are longer than three runes;
// single-letter tokens (initials) never count as matches. The denominator
// is the longer token list, and the comparison order is fixed so the
// function is symmetric.
func NameSimilarity(a, b string) float64 {
	ta, tb := tokens(a), tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	longer, shorter := ta, tb
	if len(tb) > len(ta) ||
		(len(tb) == len(ta) && strings.Join(tb, " ") > strings.Join(ta, " ")) {
		longer, shorter = tb, ta
	}

	matched := 0
	for _, lt := range longer {
		if len(lt) <= 1 {
			continue
		}
		for _, st := range shorter {
			if tokenMatch(lt, st) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(longer))
}

func tokenMatch(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) > 3 && len(b) > 3 {
		return strings.Contains(a, b) || strings.Contains(b, a)
	}
	return false
}

// TextSimilarity scores two free-text fields (organisation names mostly)
// in [0,1]: exact match 1.0, containment 0.8, otherwise the Jaccard
// overlap of their word sets.
func TextSimilarity(a, b string) float64 {
	na, nb := normalizeText(a), normalizeText(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.8
	}

	setA := map[string]bool{}
	for _, t := range strings.Split(na, " ") {
		setA[t] = true
	}
	setB := map[string]bool{}
	for _, t := range strings.Split(nb, " ") {
		setB[t] = true
	}

	inter := 0
	for t := range setA {
		if setB[t] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// normalizeURL reduces a profile URL to scheme-less, www-less, lower-case
// form without a trailing slash, so export and knowledge-base spellings of
// the same profile compare equal.
func normalizeURL(u string) string {
	s := strings.ToLower(strings.TrimSpace(u))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimSuffix(s, "/")
}
