package extractor

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxAncestorDepth bounds the walk from a link up to the job tile holding its
// "Posted ... ago" label.
const MaxAncestorDepth = 10

// Result is the outcome of one page scan.
type Result struct {
	URLs           []string
	SkippedOld     int
	SkippedUnknown int
}

// ExtractHTML parses an HTML snapshot and runs Extract on it.
func ExtractHTML(r io.Reader, pageURL string, maxAgeMinutes *float64) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse page html: %w", err)
	}
	return Extract(doc, pageURL, maxAgeMinutes)
}

// Extract collects unique job-detail URLs from doc in page order. When
// maxAgeMinutes is set, links whose posting age is unknown or above the
// threshold are dropped and counted.
func Extract(doc *goquery.Document, pageURL string, maxAgeMinutes *float64) (Result, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return Result{}, fmt.Errorf("invalid page url %q: %w", pageURL, err)
	}

	var res Result
	var urls []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		//cheap check before url parsing
		if !strings.Contains(href, JobPathMarker) {
			return
		}

		jobURL, ok := CanonicalizeURL(href, base)
		if !ok {
			return
		}

		if maxAgeMinutes != nil {
			age, known := PostedAgeNear(a)
			if !known {
				res.SkippedUnknown++
				return
			}
			if age > *maxAgeMinutes {
				res.SkippedOld++
				return
			}
		}

		urls = append(urls, jobURL)
	})

	res.URLs = Dedup(urls)
	return res, nil
}

// PostedAgeNear walks up from sel looking for the posting age label.
func PostedAgeNear(sel *goquery.Selection) (float64, bool) {
	node := sel.First()
	for i := 0; i < MaxAncestorDepth && node.Length() > 0; i++ {
		if minutes, ok := ParsePostedAge(RenderedText(node)); ok {
			return minutes, true
		}
		node = node.Parent()
	}
	return 0, false
}

// Dedup removes repeated strings keeping the first occurrence's position.
func Dedup(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	unique := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		unique = append(unique, u)
	}
	return unique
}
