package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// minCoverage is the share of a word's trigrams an entry must contain.
const minCoverage = 0.4

// Match is an entry matching a query, with its score.
type Match struct {
	Index int
	Score float64
}

// Matcher scores entries against multi-word queries by trigram coverage.
type Matcher struct {
	normalized []string
	trigrams   []map[string]struct{}
}

// NewMatcher indexes texts.
func NewMatcher(texts []string) *Matcher {
	m := &Matcher{
		normalized: make([]string, len(texts)),
		trigrams:   make([]map[string]struct{}, len(texts)),
	}
	for i, text := range texts {
		m.normalized[i] = normalize(text)
		m.trigrams[i] = trigrams(m.normalized[i])
	}
	return m
}

// Search returns the entries matching every word of query, best first.
// Entries with equal scores keep their index order. An empty query matches
// everything.
func (m *Matcher) Search(query string) []Match {
	words := strings.Fields(normalize(query))
	if len(words) == 0 {
		all := make([]Match, len(m.normalized))
		for i := range all {
			all[i] = Match{Index: i}
		}
		return all
	}

	wordTris := make([]map[string]struct{}, len(words))
	for i, w := range words {
		wordTris[i] = trigrams(w)
	}

	var matches []Match
	for i := range m.normalized {
		if score := m.score(i, words, wordTris); score > 0 {
			matches = append(matches, Match{Index: i, Score: score})
		}
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return matches
}

// score is the mean word similarity, or 0 if any word is missing.
func (m *Matcher) score(idx int, words []string, wordTris []map[string]struct{}) float64 {
	text := m.normalized[idx]
	total := 0.0
	for i, w := range words {
		if len([]rune(w)) <= 2 {
			if !strings.Contains(text, w) {
				return 0
			}
			total++
			continue
		}
		sim := coverage(wordTris[i], m.trigrams[idx])
		if sim < minCoverage {
			return 0
		}
		if strings.Contains(text, w) {
			sim += 0.5
		}
		total += sim
	}
	return total / float64(len(words))
}

// normalize lowercases s and strips diacritics, so "cafe" finds "Café".
func normalize(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// trigrams returns the trigram set of s, padded so that prefixes and
// suffixes count.
func trigrams(s string) map[string]struct{} {
	if s == "" {
		return nil
	}
	runes := []rune("  " + s + "  ")
	set := make(map[string]struct{}, len(runes))
	for i := 0; i+3 <= len(runes); i++ {
		tri := string(runes[i : i+3])
		if strings.TrimSpace(tri) != "" {
			set[tri] = struct{}{}
		}
	}
	return set
}

// coverage is |query ∩ entry| / |query|. Unlike Jaccard it does not punish
// short queries against long entries.
func coverage(query, entry map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	n := 0
	for tri := range query {
		if _, ok := entry[tri]; ok {
			n++
		}
	}
	return float64(n) / float64(len(query))
}
