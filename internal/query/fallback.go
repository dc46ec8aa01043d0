// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"regexp"
	"sort"
)

// Token patterns for the heuristic path: lowercase English alphabetic runs
// of three or more characters, kanji runs, and hiragana/katakana runs of
// two or more characters.
var (
	englishWordRe  = regexp.MustCompile(`\b[a-z]{3,}\b`)
	japaneseWordRe = regexp.MustCompile(`[一-龠々]+|[あ-ん]{2,}|[ア-ン]{2,}`)
)

// englishStopwords are generic English words excluded from keyword ranking.
var englishStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "her": true,
	"was": true, "one": true, "our": true, "out": true, "has": true,
	"have": true, "had": true, "his": true, "him": true, "how": true,
	"its": true, "may": true, "new": true, "now": true, "old": true,
	"see": true, "two": true, "way": true, "who": true, "did": true,
	"get": true, "let": true, "put": true, "say": true, "she": true,
	"too": true, "use": true, "that": true, "this": true, "with": true,
	"from": true, "they": true, "what": true, "which": true, "their": true,
	"would": true, "about": true, "there": true, "when": true, "where": true,
	"into": true, "some": true, "them": true, "then": true, "these": true,
	"those": true, "such": true, "than": true, "been": true, "were": true,
	"will": true, "more": true, "most": true, "very": true, "also": true,
	"after": true, "before": true, "between": true, "through": true,
	"like": true, "want": true, "interested": true, "finding": true,
	"looking": true, "papers": true, "paper": true, "research": true,
	"particularly": true, "focusing": true, "used": true, "using": true,
}

// japaneseStopwords are particles and pronouns excluded from keyword ranking.
var japaneseStopwords = map[string]bool{
	"の": true, "に": true, "は": true, "を": true, "た": true,
	"が": true, "で": true, "て": true, "と": true, "し": true,
	"れ": true, "さ": true, "ある": true, "いる": true, "も": true,
	"する": true, "から": true, "な": true, "こと": true, "として": true,
	"です": true, "ます": true, "である": true, "これ": true, "それ": true,
	"この": true, "その": true, "あの": true, "どの": true, "ここ": true,
	"そこ": true, "どこ": true, "について": true, "ください": true,
	"私": true, "あなた": true, "彼": true, "彼女": true,
}

// HeuristicExtractor is the deterministic, network-free fallback strategy:
// regex tokenization, stop-word removal, and frequency ranking with ties
// broken by first occurrence.
type HeuristicExtractor struct{}

// Extract tokenizes text, removes stop-words, and returns the top
// maxKeywords tokens by descending frequency. Same input always yields the
// same ordered output.
func (HeuristicExtractor) Extract(_ context.Context, text string, maxKeywords int) Result {
	lowered := toLowerASCII(text)

	words := englishWordRe.FindAllString(lowered, -1)
	words = append(words, japaneseWordRe.FindAllString(text, -1)...)

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string
	for i, w := range words {
		if englishStopwords[w] || japaneseStopwords[w] {
			continue
		}
		if _, ok := counts[w]; !ok {
			firstSeen[w] = i
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if maxKeywords > 0 && len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	return Result{Keywords: order}
}

// toLowerASCII lowercases A-Z only, leaving multibyte runes untouched so
// Japanese tokenization sees the original text.
func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
