package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"hybrid-search-be/internal/entity"
)

// KeyPrefix namespaces every search cache key so prefix invalidation can
// target search entries without touching unrelated keys in the shared backend.
const KeyPrefix = "search:"

// canonicalKey is the fixed field set hashed into a cache key. Filter values are
// reduced to their sorted keys; caller-supplied nonces or field ordering never
// change the key, so semantically identical queries share one entry.
type canonicalKey struct {
	Query          string   `json:"query"`
	TopK           int      `json:"topK"`
	Namespace      string   `json:"namespace"`
	FilterKeys     []string `json:"filterKeys"`
	IncludeVectors bool     `json:"includeVectors"`
}

// QueryKey computes the deterministic cache key for a search query.
func QueryKey(q *entity.Query) string {
	filterKeys := make([]string, 0, len(q.Filter))
	for k := range q.Filter {
		filterKeys = append(filterKeys, k)
	}
	sort.Strings(filterKeys)

	canonical := canonicalKey{
		Query:          normalizeText(q.Text),
		TopK:           q.TopK,
		Namespace:      q.Namespace,
		FilterKeys:     filterKeys,
		IncludeVectors: q.IncludeVectors,
	}

	payload, _ := json.Marshal(canonical)
	h := sha256.Sum256(payload)
	return KeyPrefix + q.Namespace + ":" + hex.EncodeToString(h[:])
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// IsComplex reports whether a query qualifies for the L3 layer:
// large topK, many filter clauses, or an aggregation request.
func IsComplex(q *entity.Query) bool {
	return q.TopK > 50 || len(q.Filter) > 3 || q.Aggregate
}
