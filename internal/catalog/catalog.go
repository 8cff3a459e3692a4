// Package catalog derives the canonical product list from the historical
// financial dataset's offered items.
package catalog

import (
	"encoding/csv"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/l1-pricing/internal/fingerprint"
	"github.com/sells-group/l1-pricing/internal/model"
)

var (
	versionRe = regexp.MustCompile(`\(V\d+\)`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

const categoryPrefix = "Item Categories :"

// NormalizeRaw upper-cases name, drops version markers such as "(V2)",
// collapses whitespace and singularizes each word.
func NormalizeRaw(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	name = versionRe.ReplaceAllString(name, "")
	name = strings.TrimSpace(spaceRe.ReplaceAllString(name, " "))
	if name == "" {
		return ""
	}

	words := strings.Split(name, " ")
	for i, w := range words {
		words[i] = fingerprint.Singularize(w)
	}
	return strings.Join(words, " ")
}

// ExtractRawProducts splits every offered item into its comma-separated
// products and returns their normalized forms, de-duplicated and sorted.
func ExtractRawProducts(bids []model.BidRecord) []string {
	seen := make(map[string]struct{})
	for _, b := range bids {
		item := strings.TrimSpace(strings.ReplaceAll(b.OfferedItem, categoryPrefix, ""))
		if item == "" {
			continue
		}
		for _, part := range strings.Split(item, ",") {
			if n := NormalizeRaw(part); n != "" {
				seen[n] = struct{}{}
			}
		}
	}
	return sortedKeys(seen)
}

// Canonicalize groups raw products by fingerprint and keeps the longest
// variant of each group. Equal-length variants resolve to the lexically
// smallest. Products with an empty fingerprint are dropped.
func Canonicalize(raw []string) []string {
	best := make(map[string]string)
	for _, r := range raw {
		key := fingerprint.Fingerprint(r)
		if key == "" {
			continue
		}
		v := strings.ToUpper(strings.TrimSpace(r))
		cur, ok := best[key]
		if !ok || len(v) > len(cur) || (len(v) == len(cur) && v < cur) {
			best[key] = v
		}
	}

	out := make(map[string]struct{}, len(best))
	for _, v := range best {
		out[v] = struct{}{}
	}
	return sortedKeys(out)
}

// Build returns the canonical product list for bids.
func Build(bids []model.BidRecord) []string {
	return Canonicalize(ExtractRawProducts(bids))
}

// WriteCSV writes products as a single product_item column.
func WriteCSV(w io.Writer, products []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"product_item"}); err != nil {
		return eris.Wrap(err, "catalog: write header")
	}
	for _, p := range products {
		if err := cw.Write([]string{p}); err != nil {
			return eris.Wrap(err, "catalog: write row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "catalog: flush")
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
