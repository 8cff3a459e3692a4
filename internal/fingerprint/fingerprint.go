// Package fingerprint reduces free-text product descriptions to canonical,
// order-independent token signatures used for competitor matching.
package fingerprint

import (
	"regexp"
	"slices"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	parenRe   = regexp.MustCompile(`\(.*?\)`)
	numericRe = regexp.MustCompile(`\b\d+(\.\d+)?\b`)
	splitRe   = regexp.MustCompile(`[\s,/]+`)

	numericOnlyRe = regexp.MustCompile(`^[\d.]+$`)
)

// stopwords are packaging and unit words that never identify a product.
var stopwords = map[string]bool{
	"PACK": true, "PACKS": true, "PCS": true, "NOS": true, "NO": true,
	"UNIT": true, "UNITS": true, "SET": true, "SETS": true,
	"BOX": true, "BOXES": true, "BOTTLE": true, "BOTTLES": true,
	"VIAL": true, "VIALS": true,
	"ML": true, "MG": true, "GM": true, "KG": true,
	"OF": true, "AND": true, "WITH": true,
}

// minTokenLen is the shortest token kept in a signature.
const minTokenLen = 3

// parenStripper turns unbalanced parentheses left after annotation removal
// into separators.
var parenStripper = strings.NewReplacer("(", " ", ")", " ")

// Fingerprint returns the canonical signature of text: upper-cased tokens with
// parenthesized annotations, standalone numbers, stopwords and short tokens
// removed, plurals folded, sorted and space-joined. Empty, blank and "nan"
// input yield "".
func Fingerprint(text string) string {
	return strings.Join(Tokens(text), " ")
}

// Tokens returns the sorted, de-duplicated token list behind Fingerprint.
func Tokens(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "nan") {
		return nil
	}

	text = strings.ToUpper(norm.NFKC.String(text))
	text = parenRe.ReplaceAllString(text, "")
	text = parenStripper.Replace(text)
	text = numericRe.ReplaceAllString(text, "")

	var tokens []string
	for _, raw := range splitRe.Split(text, -1) {
		t, ok := normalizeToken(raw)
		if !ok {
			continue
		}
		tokens = append(tokens, t)
	}

	sort.Strings(tokens)
	return slices.Compact(tokens)
}

// normalizeToken strips numbers and edge punctuation and folds plurals until
// the token is stable. Stopwords, purely numeric and short tokens are
// rejected. Iterating to a fixed point keeps Fingerprint idempotent.
func normalizeToken(t string) (string, bool) {
	for {
		if stopwords[t] {
			return "", false
		}
		next := numericRe.ReplaceAllString(t, "")
		next = strings.TrimFunc(next, notAlnum)
		next = Singularize(next)
		if next == t {
			break
		}
		t = next
	}
	if len([]rune(t)) < minTokenLen || numericOnlyRe.MatchString(t) {
		return "", false
	}
	return t, true
}

func notAlnum(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// Singularize folds a simple English plural to its singular form. Words
// shorter than four runes and words ending in SS, US or IS are returned
// unchanged so that GLASS and VIRUS survive.
func Singularize(word string) string {
	if len([]rune(word)) < 4 {
		return word
	}
	switch {
	case strings.HasSuffix(word, "SS"),
		strings.HasSuffix(word, "US"),
		strings.HasSuffix(word, "IS"):
		return word
	case strings.HasSuffix(word, "IES"):
		return strings.TrimSuffix(word, "IES") + "Y"
	case strings.HasSuffix(word, "ES"):
		return strings.TrimSuffix(word, "ES")
	case strings.HasSuffix(word, "S"):
		return strings.TrimSuffix(word, "S")
	}
	return word
}

// Set is an unordered token set.
type Set map[string]struct{}

// TokenSet fingerprints text and returns its tokens as a Set.
func TokenSet(text string) Set {
	tokens := Tokens(text)
	s := make(Set, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

// SubsetOf reports whether every token of s is present in other. An empty
// set is never treated as a match.
func (s Set) SubsetOf(other Set) bool {
	if len(s) == 0 || len(s) > len(other) {
		return false
	}
	for t := range s {
		if _, ok := other[t]; !ok {
			return false
		}
	}
	return true
}

// Match reports whether query's tokens are a subset of item's tokens.
func Match(query, item string) bool {
	return TokenSet(query).SubsetOf(TokenSet(item))
}
