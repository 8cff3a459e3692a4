// Package report renders pricing results for people: markdown, HTML,
// YAML, JSON and aligned text tables.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/l1-pricing/internal/model"
	"github.com/sells-group/l1-pricing/internal/money"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat validates s. Empty selects JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML, FormatTable, FormatMarkdown, FormatHTML:
		return f, nil
	default:
		return "", eris.Errorf("report: unknown format %q (want json, yaml, table, markdown or html)", s)
	}
}

// Renderer writes pricing results with amounts formatted for one locale.
type Renderer struct {
	money *money.Formatter
}

// NewRenderer returns a Renderer using mf for amounts.
func NewRenderer(mf *money.Formatter) *Renderer {
	return &Renderer{money: mf}
}

// Write renders r to w in format f.
func (rd *Renderer) Write(w io.Writer, f Format, r *model.PricingResult) error {
	switch f {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(r), "report: encode json")
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatTable:
		return rd.Table(w, r)
	case FormatMarkdown:
		_, err := io.WriteString(w, rd.Markdown(r))
		return eris.Wrap(err, "report: write markdown")
	case FormatHTML:
		doc, err := rd.HTML(r)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, doc)
		return eris.Wrap(err, "report: write html")
	default:
		return eris.Errorf("report: unknown format %q", f)
	}
}

// WriteYAML encodes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "report: encode yaml")
	}
	return eris.Wrap(enc.Close(), "report: close yaml")
}

// Markdown renders r as a GitHub-flavored markdown report.
func (rd *Renderer) Markdown(r *model.PricingResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# L1 Price Recommendation: %s\n\n", r.Product)
	fmt.Fprintf(&b, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", r.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Quantity requested: %d\n\n", r.Quantity)

	if r.Empty {
		b.WriteString("No competitors were analyzed.\n\n")
		writeWarnings(&b, r.Warnings)
		return b.String()
	}

	b.WriteString("## Price Band\n\n")
	b.WriteString("| Bound | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Low (aggressive L1) | %s |\n", rd.money.Format(r.LowPrice))
	fmt.Fprintf(&b, "| High (conservative L1) | %s |\n\n", rd.money.Format(r.HighPrice))
	fmt.Fprintf(&b, "- Price type: %s\n", r.PriceType)
	fmt.Fprintf(&b, "- Confidence: %s\n", r.Confidence)
	fmt.Fprintf(&b, "- Policy: %s\n", r.Policy)
	fmt.Fprintf(&b, "- Competitors analyzed: %d (%d matched bids)\n", r.CompetitorsAnalyzed, r.BidsMatched)
	fmt.Fprintf(&b, "- Basis: %s\n\n", r.Basis)

	if len(r.TopSellers) > 0 {
		b.WriteString("## Top Sellers\n\n")
		b.WriteString("| Seller | Bids | Average | Least | Last Ranked | Recommended |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|\n")
		for _, s := range r.TopSellers {
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n",
				escapeCell(s.SellerName), s.Bids,
				rd.money.Format(s.Average),
				rd.money.Format(s.LeastPrice),
				rd.lastRanked(s),
				rd.money.Format(s.RecommendedPrice),
			)
		}
		b.WriteString("\n")
	}

	if q := r.Quantities; q != nil {
		b.WriteString("## Quantity Context\n\n")
		fmt.Fprintf(&b, "- Tenders with a recorded quantity: %d\n", q.TendersWithQty)
		fmt.Fprintf(&b, "- Similar tenders: %d\n", q.SimilarTenders)
		if q.MedianQuantity > 0 {
			fmt.Fprintf(&b, "- Median historical quantity: %g\n", q.MedianQuantity)
		}
		if q.Note != "" {
			fmt.Fprintf(&b, "\n%s\n", q.Note)
		}
		b.WriteString("\n")
	}

	writeWarnings(&b, r.Warnings)
	return b.String()
}

// HTML renders the markdown report as a standalone HTML document.
func (rd *Renderer) HTML(r *model.PricingResult) (string, error) {
	var content bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(rd.Markdown(r)), &content); err != nil {
		return "", eris.Wrap(err, "report: markdown convert")
	}
	return "<!doctype html><html><head><meta charset='utf-8'>" +
		"<title>L1 Price Recommendation: " + html.EscapeString(r.Product) + "</title>" +
		"</head><body>" + content.String() + "</body></html>\n", nil
}

// Table writes r as aligned key/value lines followed by the top sellers.
func (rd *Renderer) Table(out io.Writer, r *model.PricingResult) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Product:\t%s\n", r.Product)
	_, _ = fmt.Fprintf(w, "Quantity:\t%d\n", r.Quantity)
	if !r.Empty {
		_, _ = fmt.Fprintf(w, "Low price:\t%s\n", rd.money.Format(r.LowPrice))
		_, _ = fmt.Fprintf(w, "High price:\t%s\n", rd.money.Format(r.HighPrice))
		_, _ = fmt.Fprintf(w, "Price type:\t%s\n", r.PriceType)
		_, _ = fmt.Fprintf(w, "Confidence:\t%s\n", r.Confidence)
		_, _ = fmt.Fprintf(w, "Competitors:\t%d\n", r.CompetitorsAnalyzed)
	}
	for _, warn := range r.Warnings {
		_, _ = fmt.Fprintf(w, "Warning:\t%s\n", warn)
	}
	if err := w.Flush(); err != nil {
		return eris.Wrap(err, "report: flush table")
	}

	if len(r.TopSellers) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(out)
	return rd.Sellers(out, r.TopSellers)
}

// Sellers writes one aligned row per seller.
func (rd *Renderer) Sellers(out io.Writer, sellers []model.SellerSummary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SELLER\tBIDS\tAVERAGE\tINFLATION\tLEAST\tLAST_RANKED\tRECOMMENDED")
	_, _ = fmt.Fprintln(w, "------\t----\t-------\t---------\t-----\t-----------\t-----------")
	for _, s := range sellers {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%.2f%%\t%s\t%s\t%s\n",
			truncate(s.SellerName, 40),
			s.Bids,
			rd.money.Format(s.Average),
			s.InflationPercent,
			rd.money.Format(s.LeastPrice),
			rd.lastRanked(s),
			rd.money.Format(s.RecommendedPrice),
		)
	}
	return eris.Wrap(w.Flush(), "report: flush sellers")
}

func (rd *Renderer) lastRanked(s model.SellerSummary) string {
	if s.LastRankedPrice == nil {
		return "-"
	}
	v := rd.money.Format(*s.LastRankedPrice)
	if s.LastRank != "" {
		v += " (" + s.LastRank + ")"
	}
	return v
}

func writeWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("## Warnings\n\n")
	for _, w := range warnings {
		fmt.Fprintf(b, "- %s\n", w)
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
