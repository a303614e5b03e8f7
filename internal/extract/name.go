package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

var brandLabelRe = regexp.MustCompile(`^\s*브랜드명\s*:\s*`)

// CleanName derives the display name from a product anchor's aria label:
// everything before the trailing "판매가" price segment, minus the "상품명:"
// structural prefix. Full-width punctuation is folded first so label
// variants like "상품명：" match too.
func CleanName(ariaLabel string) string {
	s := width.Fold.String(ariaLabel)
	s = strings.ReplaceAll(s, "상품명 :", "상품명:")
	if i := strings.Index(s, "판매가"); i > 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(strings.TrimSpace(s), "상품명:")
	return strings.TrimSpace(s)
}

// CleanBrandName strips a "브랜드명:" label prefix from a brand display name
// resolved off the brand's landing page.
func CleanBrandName(name string) string {
	s := width.Fold.String(name)
	s = brandLabelRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
