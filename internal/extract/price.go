package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// priceRe matches a currency amount: comma-grouped digits followed by the
// KRW unit word, e.g. "12,345원".
var priceRe = regexp.MustCompile(`(\d{1,3}(?:,\d{3})*)\s*원`)

// ParsePrice extracts the first currency amount from text. Malformed or
// non-positive amounts yield 0; amounts beyond int32 range are clamped.
func ParsePrice(text string) int {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// ParseMetaPrice parses a structured price metadata value: a bare number,
// optionally comma-grouped, with no unit word. Same zero/clamp policy as
// ParsePrice.
func ParseMetaPrice(text string) int {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// PriceSource names one place a listing price can be found.
type PriceSource struct {
	Name  string
	Texts func(s Snapshot) []string
}

// PriceChain is the ordered fallback search for a listing price. Sources are
// tried in order and the first positive parse wins; detail enrichment is the
// caller's last resort when the whole chain comes up empty.
var PriceChain = []PriceSource{
	{Name: "aria-label", Texts: func(s Snapshot) []string { return []string{s.AriaLabel} }},
	{Name: "anchor-text", Texts: func(s Snapshot) []string { return []string{s.AnchorText} }},
	{Name: "price-hints", Texts: func(s Snapshot) []string { return s.PriceHints }},
	{Name: "card", Texts: func(s Snapshot) []string { return []string{s.CardText} }},
	{Name: "card-parent", Texts: func(s Snapshot) []string { return []string{s.ParentText} }},
}

// ResolvePrice runs the price chain over a snapshot row. 0 means unresolved.
func ResolvePrice(s Snapshot) int {
	for _, src := range PriceChain {
		for _, t := range src.Texts(s) {
			if v := ParsePrice(t); v > 0 {
				return v
			}
		}
	}
	return 0
}
