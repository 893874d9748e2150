// Package normalizer canonicalizes payer names, references and amounts so the
// matching engine compares like with like. All functions are pure: no I/O and
// no failure modes beyond treating nil/empty input as the empty string.
package normalizer

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
)

// legalSuffixes are common Spanish legal-entity suffixes stripped when
// comparing two already-normalized names. Entries are in normalized form
// (uppercase, no punctuation).
var legalSuffixes = []string{"SL", "SA", "SLU", "SAU", "SCP", "CB", "SLL", "SLP", "SC"}

var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize derives the canonical form of a raw transaction. The original
// counterparty name and remittance info stay on the raw record for audit.
func Normalize(raw domain.RawTransaction) domain.CanonicalTransaction {
	return domain.CanonicalTransaction{
		RawTransaction:      raw,
		NormalizedPayerName: NormalizeName(raw.CounterpartyName),
		NormalizedReference: NormalizeReference(raw.RemittanceInfo),
		AmountMajorUnits:    decimal.New(raw.AmountMinorUnits, -2),
	}
}

// NormalizeName uppercases, strips diacritics, removes punctuation and
// collapses whitespace.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	folded, _, err := transform.String(stripDiacritics, name)
	if err != nil {
		// Invalid UTF-8 sequences are kept as-is rather than dropped.
		folded = name
	}
	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := true
	for _, r := range strings.ToUpper(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// NormalizeReference extracts the longest contiguous alphanumeric run from a
// free-text remittance concept. An empty result means "no reference".
func NormalizeReference(remittance string) string {
	best := ""
	current := strings.Builder{}
	flush := func() {
		if current.Len() > len(best) {
			best = current.String()
		}
		current.Reset()
	}
	folded, _, err := transform.String(stripDiacritics, remittance)
	if err != nil {
		folded = remittance
	}
	for _, r := range strings.ToUpper(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return best
}

// CompactAlphanumeric strips everything but letters and digits, uppercased
// and with diacritics removed. Used for substring checks where a hyphenated
// code ("C-0042") must still be found inside a remittance concept.
func CompactAlphanumeric(s string) string {
	folded, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToUpper(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// StripLegalSuffixes removes trailing legal-entity suffixes from an already
// normalized name ("INMUEBLES GARCIA S L" -> "INMUEBLES GARCIA").
func StripLegalSuffixes(normalized string) string {
	tokens := strings.Fields(normalized)
	for len(tokens) > 0 {
		if isLegalSuffix(tokens[len(tokens)-1]) {
			tokens = tokens[:len(tokens)-1]
			continue
		}
		// "S.L." normalizes to the two tokens "S L"; join trailing
		// single-letter tokens and test the concatenation too.
		joined := ""
		n := 0
		for i := len(tokens) - 1; i >= 0 && len(tokens[i]) == 1; i-- {
			joined = tokens[i] + joined
			n++
		}
		if n > 1 && isLegalSuffix(joined) {
			tokens = tokens[:len(tokens)-n]
			continue
		}
		break
	}
	return strings.Join(tokens, " ")
}

func isLegalSuffix(token string) bool {
	for _, s := range legalSuffixes {
		if token == s {
			return true
		}
	}
	return false
}

// TokenOverlap computes a deterministic, symmetric similarity in [0,1]
// between two normalized names: the Jaccard index of their token sets after
// legal-suffix stripping. Empty inputs score 0.
func TokenOverlap(a, b string) float64 {
	tokensA := tokenSet(StripLegalSuffixes(a))
	tokensB := tokenSet(StripLegalSuffixes(b))
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	intersection := 0
	for t := range tokensA {
		if tokensB[t] {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		set[t] = true
	}
	return set
}
