// Package rouge scores a generated summary against its source text with
// ROUGE-1, ROUGE-2 and ROUGE-L F-measures over stemmed tokens.
package rouge

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/kljensen/snowball/english"
)

const (
	Rouge1 = "rouge1"
	Rouge2 = "rouge2"
	RougeL = "rougeL"
)

// Metrics lists the tracked metric names in report order.
var Metrics = []string{Rouge1, Rouge2, RougeL}

var ErrInvalidText = errors.New("text is not valid UTF-8")

// Scores maps a metric name to its F-measure in [0, 1].
type Scores map[string]float64

// Zero returns a Scores value with every tracked metric set to 0.
func Zero() Scores {
	s := make(Scores, len(Metrics))
	for _, m := range Metrics {
		s[m] = 0
	}
	return s
}

// Score compares candidate against reference. An empty side yields zero for
// every metric.
func Score(reference, candidate string) (Scores, error) {
	if reference == "" || candidate == "" {
		return Zero(), nil
	}
	if !utf8.ValidString(reference) || !utf8.ValidString(candidate) {
		return nil, ErrInvalidText
	}

	ref := Tokenize(reference)
	cand := Tokenize(candidate)

	return Scores{
		Rouge1: ngramF1(ref, cand, 1),
		Rouge2: ngramF1(ref, cand, 2),
		RougeL: lcsF1(ref, cand),
	}, nil
}

// Tokenize lowercases text, splits it on anything that is not an ASCII letter
// or digit and stems tokens longer than three characters.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for i, tok := range fields {
		if len(tok) > 3 {
			fields[i] = english.Stem(tok, true)
		}
	}
	return fields
}

func ngrams(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], " ")]++
	}
	return counts
}

func ngramF1(ref, cand []string, n int) float64 {
	refGrams := ngrams(ref, n)
	candGrams := ngrams(cand, n)

	overlap, refTotal, candTotal := 0, 0, 0
	for g, c := range refGrams {
		refTotal += c
		overlap += min(c, candGrams[g])
	}
	for _, c := range candGrams {
		candTotal += c
	}
	return fmeasure(overlap, candTotal, refTotal)
}

func lcsF1(ref, cand []string) float64 {
	return fmeasure(lcsLength(ref, cand), len(cand), len(ref))
}

// lcsLength returns the length of the longest common subsequence of a and b.
func lcsLength(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func fmeasure(overlap, candTotal, refTotal int) float64 {
	if overlap == 0 || candTotal == 0 || refTotal == 0 {
		return 0
	}
	precision := float64(overlap) / float64(candTotal)
	recall := float64(overlap) / float64(refTotal)
	return 2 * precision * recall / (precision + recall)
}
