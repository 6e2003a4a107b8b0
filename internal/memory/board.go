package memory

import "math/rand"

// Generate builds a shuffled board holding two copies of the first pairCount
// distinct tokens in pool.
//
// A pool with fewer distinct tokens than requested yields a smaller board
// rather than an error. Card IDs are assigned from the final shuffled
// position.
func Generate(pool []Token, pairCount int, rng *rand.Rand) []Card {
	if pairCount <= 0 {
		return nil
	}

	items := DistinctTokens(pool)
	if len(items) > pairCount {
		items = items[:pairCount]
	}

	deck := make([]Token, 0, len(items)*2)
	deck = append(deck, items...)
	deck = append(deck, items...)
	Shuffle(deck, rng)

	cards := make([]Card, len(deck))
	for i, content := range deck {
		cards[i] = Card{ID: i, Content: content}
	}
	return cards
}

// Shuffle applies an in-place Fisher-Yates shuffle.
func Shuffle(tokens []Token, rng *rand.Rand) {
	for i := len(tokens) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
}

// DistinctTokens returns pool without repeats or empty tokens, keeping
// first-occurrence order.
func DistinctTokens(pool []Token) []Token {
	seen := make(map[Token]struct{}, len(pool))
	out := make([]Token, 0, len(pool))
	for _, t := range pool {
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
