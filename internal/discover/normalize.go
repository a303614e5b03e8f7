package discover

import "strings"

// NormalizeBrandURL canonicalizes a brand URL: https scheme forced, query and
// fragment stripped, trailing slash removed. The result is the brand's
// identity key, and the transform is idempotent.
func NormalizeBrandURL(u string) string {
	u = strings.TrimSpace(u)
	if strings.HasPrefix(u, "http://") {
		u = "https://" + strings.TrimPrefix(u, "http://")
	}
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	if i := strings.IndexByte(u, '#'); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimSuffix(u, "/")
	return u
}

// absolutize resolves a possibly site-relative href against the storefront
// base URL.
func absolutize(base, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return base + href
}
