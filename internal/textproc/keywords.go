package textproc

import "sort"

// KeywordExtractor ranks normalized tokens by frequency. Tokens are kept
// in surface form (folded but unstemmed) so callers see real words.
type KeywordExtractor struct {
	norm *Normalizer
}

func NewKeywordExtractor(minWordLength int, removeStopwords bool) *KeywordExtractor {
	return &KeywordExtractor{
		norm: NewNormalizer(minWordLength, removeStopwords, false, ""),
	}
}

// Extract returns up to max distinct tokens ordered by descending
// frequency, ties broken by first occurrence. It never fails; empty input
// yields an empty slice.
func (k *KeywordExtractor) Extract(text string, max int) []string {
	if max <= 0 {
		return nil
	}

	tokens := k.norm.Normalize(text)
	counts := make(map[string]int, len(tokens))
	firstSeen := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		if _, ok := counts[tok]; !ok {
			firstSeen[tok] = i
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > max {
		order = order[:max]
	}
	return order
}
