package search

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// MatchIndexes returns the rune positions in title that match query, for
// highlighting. A case-insensitive substring match is preferred; otherwise the
// positions of a fuzzy subsequence match are returned. Nil means no match.
func MatchIndexes(query, title string) []int {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || title == "" {
		return nil
	}

	if indexes := matchSubstring(query, strings.ToLower(title)); indexes != nil {
		return indexes
	}

	matches := fuzzy.Find(query, []string{strings.ToLower(title)})
	if len(matches) == 0 {
		return nil
	}
	return byteToRuneIndexes(strings.ToLower(title), matches[0].MatchedIndexes)
}

// matchSubstring finds query as a substring anywhere in the lowercased title
func matchSubstring(query, lowerTitle string) []int {
	idx := strings.Index(lowerTitle, query)
	if idx < 0 {
		return nil
	}
	// Convert byte index to rune index
	start := len([]rune(lowerTitle[:idx]))
	return makeIndexRange(start, start+len([]rune(query)))
}

// byteToRuneIndexes converts byte offsets reported by sahilm/fuzzy into rune positions
func byteToRuneIndexes(s string, byteIdx []int) []int {
	if len(byteIdx) == 0 {
		return nil
	}
	lookup := make(map[int]int, len(s))
	r := 0
	for i := range s {
		lookup[i] = r
		r++
	}
	out := make([]int, 0, len(byteIdx))
	for _, b := range byteIdx {
		if ri, ok := lookup[b]; ok {
			out = append(out, ri)
		}
	}
	return out
}

// makeIndexRange creates a slice of consecutive integers [start, end)
func makeIndexRange(start, end int) []int {
	indexes := make([]int, end-start)
	for i := range indexes {
		indexes[i] = start + i
	}
	return indexes
}

// Highlight renders title with every matched rune passed through mark
func Highlight(title string, indexes []int, mark, plain func(string) string) string {
	if len(indexes) == 0 {
		return plain(title)
	}
	matched := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		matched[i] = true
	}

	var b strings.Builder
	var run []rune
	inMatch := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		if inMatch {
			b.WriteString(mark(string(run)))
		} else {
			b.WriteString(plain(string(run)))
		}
		run = run[:0]
	}
	for i, r := range []rune(title) {
		if matched[i] != inMatch {
			flush()
			inMatch = matched[i]
		}
		run = append(run, r)
	}
	flush()
	return b.String()
}
