package source

import (
	"strings"

	"MarketFeed/internal/config"
)

// Queries expands a token definition into the ordered search-query set:
// the base query (name, symbol, mandatory phrases) followed by every
// non-empty combination of additional phrases, order-preserving. For k
// additional phrases that is 1 + (2^k - 1) queries; the base query alone
// maximizes recall while the combinations narrow results.
func Queries(token config.Token) []string {
	parts := append([]string{token.Name, token.Symbol}, token.MandatoryPhrases...)
	baseQuery := strings.TrimSpace(strings.Join(parts, " "))

	queries := []string{baseQuery}
	additional := token.AdditionalPhrases

	for r := 1; r <= len(additional); r++ {
		for _, combo := range combinations(additional, r) {
			queries = append(queries, baseQuery+" "+strings.Join(combo, " "))
		}
	}

	return queries
}

// combinations yields all r-element order-preserving subsets of items.
func combinations(items []string, r int) [][]string {
	var out [][]string
	combo := make([]string, r)

	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == r {
			out = append(out, append([]string(nil), combo...))
			return
		}
		for i := start; i <= len(items)-(r-depth); i++ {
			combo[depth] = items[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)

	return out
}
