// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"regexp"
	"strings"
)

// Method selects how Optimize treats the raw query.
type Method string

const (
	// MethodAuto extracts keywords for long queries and passes short ones
	// through verbatim.
	MethodAuto Method = "auto"
	// MethodKeywords always runs keyword extraction.
	MethodKeywords Method = "keywords"
	// MethodOriginal uses the trimmed query as-is.
	MethodOriginal Method = "original"
)

// autoThreshold is the trimmed length (in runes) above which MethodAuto
// switches to keyword extraction. Fixed design constant.
const autoThreshold = 50

// Optimizer compacts raw queries before they reach the search transport.
type Optimizer struct {
	Extractor Extractor
}

// Optimize returns the query to send to the search API. MethodKeywords joins
// extracted keywords with single spaces, degrading to the trimmed original
// when extraction yields nothing.
func (o *Optimizer) Optimize(ctx context.Context, rawQuery string, method Method, maxKeywords int) string {
	trimmed := strings.TrimSpace(rawQuery)

	switch method {
	case MethodOriginal:
		return trimmed
	case MethodKeywords:
		return o.keywordQuery(ctx, rawQuery, trimmed, maxKeywords)
	default: // MethodAuto
		if len([]rune(trimmed)) > autoThreshold {
			return o.keywordQuery(ctx, rawQuery, trimmed, maxKeywords)
		}
		return trimmed
	}
}

func (o *Optimizer) keywordQuery(ctx context.Context, rawQuery, trimmed string, maxKeywords int) string {
	r := o.Extractor.Extract(ctx, rawQuery, maxKeywords)
	if len(r.Keywords) == 0 {
		return trimmed
	}
	return strings.Join(r.Keywords, " ")
}

// sentenceBoundaryRe matches ASCII and full-width sentence-ending
// punctuation followed by optional whitespace.
var sentenceBoundaryRe = regexp.MustCompile(`[.!?。！？]\s*`)

// SplitLongQuery splits an overlong query into sub-queries of at most
// maxLength runes, packing sentences greedily in original order. A query
// within the limit comes back as a single element unchanged. A sentence that
// alone exceeds the limit is truncated to exactly maxLength runes, as is a
// query with no usable sentence boundaries at all.
func SplitLongQuery(rawQuery string, maxLength int) []string {
	if len([]rune(rawQuery)) <= maxLength {
		return []string{rawQuery}
	}

	sentences := sentenceBoundaryRe.Split(rawQuery, -1)
	var subQueries []string
	current := ""

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		switch {
		case len([]rune(current))+len([]rune(sentence))+1 <= maxLength:
			if current != "" {
				current += " " + sentence
			} else {
				current = sentence
			}
		case len([]rune(sentence)) > maxLength:
			if current != "" {
				subQueries = append(subQueries, current)
				current = ""
			}
			subQueries = append(subQueries, string([]rune(sentence)[:maxLength]))
		default:
			if current != "" {
				subQueries = append(subQueries, current)
			}
			current = sentence
		}
	}
	if current != "" {
		subQueries = append(subQueries, current)
	}

	if len(subQueries) == 0 {
		return []string{string([]rune(rawQuery)[:maxLength])}
	}
	return subQueries
}
