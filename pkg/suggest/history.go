package suggest

import (
	"sort"
	"strings"

	"github.com/SThor/spendform/pkg/models"
)

// Number of category suggestions derived from a payee's history.
const historyLimit = 3

// MatchMode selects how a transaction's text field is compared against the
// query in MostCommonCategory.
type MatchMode string

const (
	MatchContains   MatchMode = "contains"
	MatchStartsWith MatchMode = "startsWith"
	MatchExact      MatchMode = "exact"
)

// ByPayeeHistory ranks the categories the payee's past transactions were
// filed under by usage count, most used first, and returns up to three
// category ids. Equal counts keep first-seen order; uncategorized
// transactions are ignored. An empty history yields an empty slice.
func ByPayeeHistory(transactions []models.PayeeTransaction) []string {
	counts := make(map[string]int)
	var order []string
	for _, tx := range transactions {
		if tx.CategoryID == "" {
			continue
		}
		if counts[tx.CategoryID] == 0 {
			order = append(order, tx.CategoryID)
		}
		counts[tx.CategoryID]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > historyLimit {
		order = order[:historyLimit]
	}
	return order
}

// MostCommonCategory finds the category most frequently attached to past
// transactions whose purpose matches the query under the given mode. Both
// sides are trimmed and lower-cased before comparison; transactions with a
// blank category never count. Returns false when the query is empty, nothing
// matches, or there is no history at all.
func MostCommonCategory(transactions []models.GroupTransaction, query string, mode MatchMode) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" || len(transactions) == 0 {
		return "", false
	}

	counts := make(map[string]int)
	var order []string
	for _, tx := range transactions {
		category := strings.TrimSpace(tx.Category)
		if category == "" {
			continue
		}
		if !matches(strings.ToLower(strings.TrimSpace(tx.Purpose)), normalized, mode) {
			continue
		}
		if counts[category] == 0 {
			order = append(order, category)
		}
		counts[category]++
	}
	if len(order) == 0 {
		return "", false
	}

	best := order[0]
	for _, category := range order[1:] {
		if counts[category] > counts[best] {
			best = category
		}
	}
	return best, true
}

func matches(field, query string, mode MatchMode) bool {
	switch mode {
	case MatchStartsWith:
		return strings.HasPrefix(field, query)
	case MatchExact:
		return field == query
	default:
		return strings.Contains(field, query)
	}
}
