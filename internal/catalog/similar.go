package catalog

import (
	"strings"
	"unicode"

	"github.com/dadao-education/unicatalog/internal/models"
)

// SimilarityThreshold is the score at which two names are reported as a
// possible duplicate
const SimilarityThreshold = 0.75

// Match is a catalog entry whose name resembles a candidate
type Match struct {
	University models.University
	Score      float64
}

// Similar returns catalog entries whose Chinese or English name resembles
// u's without being an exact nameCN match. Matching stays exact; this only
// feeds warnings.
func (r *Repository) Similar(u models.University) []Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []Match
	for _, existing := range r.universities {
		if existing.NameCN == u.NameCN {
			continue
		}
		score := calculateSimilarity(normalizeName(existing.NameCN), normalizeName(u.NameCN))
		if u.NameEN != "" && existing.NameEN != "" {
			if en := calculateSimilarity(normalizeName(existing.NameEN), normalizeName(u.NameEN)); en > score {
				score = en
			}
		}
		if score >= SimilarityThreshold {
			matches = append(matches, Match{University: existing, Score: score})
		}
	}
	return matches
}

// normalizeName lowercases and drops punctuation and spacing
func normalizeName(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// calculateSimilarity returns 1 - distance/maxLen over runes
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	a, b := []rune(s1), []rune(s2)
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1.0 - float64(levenshteinDistance(a, b))/float64(maxLen)
}

func levenshteinDistance(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
