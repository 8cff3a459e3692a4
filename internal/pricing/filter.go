package pricing

import (
	"strings"

	"github.com/sells-group/l1-pricing/internal/fingerprint"
	"github.com/sells-group/l1-pricing/internal/model"
)

// itemCategoriesPrefix is boilerplate the tender portal puts in front of
// every offered-item list.
const itemCategoriesPrefix = "Item Categories :"

// QuerySignatures splits a comma-separated product query into phrases and
// returns the token set of each phrase that has meaningful tokens.
func QuerySignatures(query string) []fingerprint.Set {
	var sets []fingerprint.Set
	for _, phrase := range splitPhrases(query) {
		if s := fingerprint.TokenSet(phrase); len(s) > 0 {
			sets = append(sets, s)
		}
	}
	return sets
}

// FilterCompetitors returns the bids whose offered items match the query,
// in their original order and unmodified. A bid matches when any query
// phrase's tokens are a subset of any one of its item's tokens. A query
// with no meaningful tokens matches nothing.
func FilterCompetitors(bids []model.BidRecord, query string) []model.BidRecord {
	return filterBySignatures(bids, QuerySignatures(query))
}

func filterBySignatures(bids []model.BidRecord, queries []fingerprint.Set) []model.BidRecord {
	if len(queries) == 0 {
		return nil
	}

	var matched []model.BidRecord
	for _, bid := range bids {
		if bidMatches(bid, queries) {
			matched = append(matched, bid)
		}
	}
	return matched
}

func bidMatches(bid model.BidRecord, queries []fingerprint.Set) bool {
	offered := strings.ReplaceAll(bid.OfferedItem, itemCategoriesPrefix, "")
	for _, item := range splitPhrases(offered) {
		itemTokens := fingerprint.TokenSet(item)
		if len(itemTokens) == 0 {
			continue
		}
		for _, q := range queries {
			if q.SubsetOf(itemTokens) {
				return true
			}
		}
	}
	return false
}

func splitPhrases(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
