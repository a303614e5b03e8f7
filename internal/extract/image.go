package extract

import "strings"

// ResolveImage picks an absolute image URL from a snapshot row: the resolved
// current source first, then srcset / fname= reconstruction. Empty means no
// image could be derived; placeholder filtering is the caller's concern.
func ResolveImage(s Snapshot) string {
	if u := normalizeImageURL(s.ImageSrc); u != "" {
		return u
	}
	return imageFromSrcset(s.SrcsetRaw)
}

// normalizeImageURL rewrites protocol-relative references to explicit https.
func normalizeImageURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

// imageFromSrcset reconstructs an image URL from a raw srcset or fname=
// carrying source attribute. srcset entries keep only the first URL; fname=
// parameters are unwrapped and forced to https.
func imageFromSrcset(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	src := raw
	if i := strings.IndexAny(src, " \t"); i > 0 {
		src = src[:i]
	}
	if strings.Contains(src, "fname=") {
		tail := src[strings.Index(src, "fname=")+len("fname="):]
		if j := strings.IndexByte(tail, '&'); j >= 0 {
			tail = tail[:j]
		}
		if tail == "" {
			return ""
		}
		if strings.HasPrefix(tail, "http") {
			return tail
		}
		return "https:" + tail
	}
	return normalizeImageURL(src)
}

// PlaceholderMatcher recognizes known default/fallback image signatures.
type PlaceholderMatcher struct {
	signatures []string
}

// NewPlaceholderMatcher builds a matcher over the configured signatures.
func NewPlaceholderMatcher(signatures []string) *PlaceholderMatcher {
	return &PlaceholderMatcher{signatures: signatures}
}

// Unusable reports whether an image URL must not be persisted: blank, or
// carrying any known placeholder signature.
func (m *PlaceholderMatcher) Unusable(url string) bool {
	if strings.TrimSpace(url) == "" {
		return true
	}
	for _, sig := range m.signatures {
		if sig != "" && strings.Contains(url, sig) {
			return true
		}
	}
	return false
}
