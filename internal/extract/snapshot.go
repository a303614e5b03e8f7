// Package extract holds the listing snapshot script and the field resolver
// chains that turn raw snapshot rows into clean typed fields. Everything in
// this package is pure over captured data so the heuristics can be tuned and
// tested without a live browser.
package extract

// Snapshot is one raw product anchor captured from a rendered listing page.
// Text fields are whitespace-collapsed; nothing is validated at capture time.
type Snapshot struct {
	ProductID  string   `json:"pid"`
	AriaLabel  string   `json:"aria"`
	AnchorText string   `json:"anchorText"`
	PriceHints []string `json:"priceHints"`
	CardText   string   `json:"cardText"`
	ParentText string   `json:"parentText"`
	ImageSrc   string   `json:"imageSrc"`
	SrcsetRaw  string   `json:"srcsetRaw"`
}

// ListingSnapshotJS captures every product anchor on the current document as
// a Snapshot row. It only reads the DOM: product id from the href, the aria
// label, price candidate texts in fallback order (anchor, price-styled
// descendants, card container, card parent) and image source candidates
// (resolved src, lazy-load attributes, srcset / fname= carriers). All
// cleanup and validation happens on the Go side.
const ListingSnapshotJS = `(() => {
	const textOf = n => ((n && n.innerText) || '').replace(/\s+/g, ' ').trim();
	const anchors = Array.from(document.querySelectorAll("a[href^='/product/'][aria-label]"));
	return anchors.map(a => {
		const m = /\/product\/(\d+)/.exec(a.getAttribute('href') || '');
		const card = a.closest('li,div,article') || a.parentElement;
		const hints = Array.from(a.querySelectorAll("[class*='price'],strong,em,span"))
			.map(textOf).filter(t => t !== '');
		let imageSrc = '';
		const img = a.querySelector('img');
		if (img) {
			imageSrc = img.currentSrc || img.getAttribute('src') ||
				img.getAttribute('data-src') || img.getAttribute('data-original') ||
				img.getAttribute('data-lazy') || '';
		}
		let srcsetRaw = '';
		const s = a.querySelector("img[srcset],source[srcset],img[src*='fname='],source[src*='fname=']");
		if (s) srcsetRaw = s.getAttribute('srcset') || s.getAttribute('src') || '';
		return {
			pid: m ? m[1] : '',
			aria: a.getAttribute('aria-label') || '',
			anchorText: textOf(a),
			priceHints: hints,
			cardText: card ? textOf(card) : '',
			parentText: (card && card.parentElement) ? textOf(card.parentElement) : '',
			imageSrc: imageSrc,
			srcsetRaw: srcsetRaw
		};
	});
})()`

// DetailPriceMetaJS reads the structured price metadata from a product detail
// page, preferred over free-text scanning during enrichment.
const DetailPriceMetaJS = `(() => {
	const p = document.querySelector("meta[property='og:price:amount'],meta[property='product:price:amount']");
	return p ? p.content : '';
})()`

// BodyTextJS returns the visible body text, used as the free-text fallback
// for detail-page price scanning.
const BodyTextJS = `(document.body && document.body.innerText) || ''`
