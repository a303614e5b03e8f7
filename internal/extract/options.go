package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var bracketRe = regexp.MustCompile(`\[[^\]]*\]`)

// optionBoilerplate marks label texts that are UI chrome, not option values.
var optionBoilerplate = []string{"선택", "옵션", "수량"}

// ParseOptions collects option label texts from a product detail page and
// joins them as a comma-separated string. Bracketed annotations are stripped
// and boilerplate labels discarded. nil means the product has no options,
// which is a valid outcome, not an error.
func ParseOptions(html string) *string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var parts []string
	doc.Find(`label, button[role="radio"], [class*="option"] label`).Each(func(_ int, sel *goquery.Selection) {
		t := bracketRe.ReplaceAllString(sel.Text(), "")
		t = strings.Join(strings.Fields(t), " ")
		if t == "" {
			return
		}
		for _, noise := range optionBoilerplate {
			if strings.Contains(t, noise) {
				return
			}
		}
		parts = append(parts, t)
	})

	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, ", ")
	return &joined
}
