package extractor

import (
	"net/url"
	"strings"
)

const (
	upworkHost = "www.upwork.com"
	// JobPathMarker is the substring every candidate href must contain
	JobPathMarker = "/jobs/"
)

// CanonicalizeURL resolves raw against base and returns the normalized job-detail
// URL. ok is false when raw does not point at a single Upwork job page.
func CanonicalizeURL(raw string, base *url.URL) (string, bool) {
	var (
		u   *url.URL
		err error
	)
	if base != nil {
		u, err = base.Parse(raw)
	} else {
		u, err = url.Parse(raw)
	}
	if err != nil {
		return "", false
	}

	//keep within upwork
	if strings.ToLower(u.Hostname()) != upworkHost {
		return "", false
	}

	//only job detail pages: /jobs/~<token>, /jobs/<slug>_<id>, /jobs/<id>
	path := u.Path
	if strings.HasPrefix(path, "/nx/search/jobs") {
		return "", false
	}
	if !strings.HasPrefix(path, JobPathMarker) {
		return "", false
	}
	if path == "/jobs" || path == "/jobs/" {
		return "", false
	}
	if !looksLikeJobSegment(firstJobSegment(path)) {
		return "", false
	}

	//job pages don't depend on the querystring
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	u.Host = normalizeHost(u)

	return u.String(), true
}

func firstJobSegment(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

// looksLikeJobSegment keeps category/landing/help pages under /jobs/ out.
func looksLikeJobSegment(segment string) bool {
	if strings.Contains(segment, "~") {
		return true
	}
	return strings.ContainsAny(segment, "0123456789")
}

func normalizeHost(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if port == "" || (u.Scheme == "https" && port == "443") || (u.Scheme == "http" && port == "80") {
		return host
	}
	return host + ":" + port
}
