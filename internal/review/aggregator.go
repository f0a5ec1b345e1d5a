package review

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Artexxx/perf-tracker/internal/dto"
)

var delimiters = regexp.MustCompile(`[,;.\n]`)

// Tokens normalizes one raw free-text value into tokens: strings are split
// on common delimiters, lists are used element by element. Tokens are
// trimmed, lowercased and dropped when 2 characters or shorter.
func Tokens(value any) []string {
	var raw []string

	switch v := value.(type) {
	case nil:
		return nil
	case string:
		raw = delimiters.Split(v, -1)
	case []string:
		raw = v
	case []any:
		raw = stringItems(v)
	case primitive.A:
		raw = stringItems(v)
	default:
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, token := range raw {
		token = strings.ToLower(strings.TrimSpace(token))
		if utf8.RuneCountInString(token) > 2 {
			out = append(out, token)
		}
	}

	return out
}

func stringItems(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

// Frequencies builds a frequency table over the given raw field values,
// ordered by descending count; ties keep first-encountered order.
func Frequencies(values []any) []dto.TokenCount {
	counts := make(map[string]int)
	var order []string

	for _, value := range values {
		for _, token := range Tokens(value) {
			if _, seen := counts[token]; !seen {
				order = append(order, token)
			}
			counts[token]++
		}
	}

	out := make([]dto.TokenCount, 0, len(order))
	for _, token := range order {
		out = append(out, dto.TokenCount{Token: token, Count: counts[token]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	return out
}

// TopK returns the keys of the k highest-frequency tokens, counts dropped.
func TopK(values []any, k int) []string {
	table := Frequencies(values)
	if k < len(table) {
		table = table[:k]
	}

	out := make([]string, 0, len(table))
	for _, tc := range table {
		out = append(out, tc.Token)
	}

	return out
}
