package search

import "hybrid-search-be/internal/entity"

// Diversify greedily picks one result per distinct category before filling the
// remaining slots by raw score, so a single category cannot dominate the
// top-K. Input must already be sorted; relative order inside the output is
// preserved by the underlying sort order.
func Diversify(results []*entity.Result, topK int) []*entity.Result {
	if topK <= 0 || len(results) <= 1 {
		return results
	}

	seen := make(map[string]bool)
	picked := make(map[string]bool)
	out := make([]*entity.Result, 0, topK)

	// First pass: best result of each category, in score order.
	for _, r := range results {
		if len(out) >= topK {
			return out
		}
		category := categoryOf(r)
		if seen[category] {
			continue
		}
		seen[category] = true
		picked[r.Id] = true
		out = append(out, r)
	}

	// Second pass: fill by raw score.
	for _, r := range results {
		if len(out) >= topK {
			break
		}
		if picked[r.Id] {
			continue
		}
		out = append(out, r)
	}
	return out
}

func categoryOf(r *entity.Result) string {
	if r.Metadata != nil {
		if c, ok := r.Metadata["category"].(string); ok {
			return c
		}
	}
	return ""
}
