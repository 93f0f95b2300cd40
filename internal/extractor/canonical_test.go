package extractor

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBase(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestCanonicalizeURL(t *testing.T) {
	base := mustBase(t, "https://www.upwork.com/nx/search/jobs")

	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{
			name:     "relative tilde token",
			raw:      "/jobs/~01abcidxyz",
			expected: "https://www.upwork.com/jobs/~01abcidxyz",
			ok:       true,
		},
		{
			name:     "slug with id, query and fragment stripped",
			raw:      "/jobs/Go-Developer_~0123/?referrer_url_path=%2Fnx%2Fsearch#details",
			expected: "https://www.upwork.com/jobs/Go-Developer_~0123/",
			ok:       true,
		},
		{
			name:     "numeric id",
			raw:      "https://www.upwork.com/jobs/123456789",
			expected: "https://www.upwork.com/jobs/123456789",
			ok:       true,
		},
		{
			name:     "host case and default port",
			raw:      "https://WWW.Upwork.com:443/jobs/~01",
			expected: "https://www.upwork.com/jobs/~01",
			ok:       true,
		},
		{
			name:     "dot segments resolved",
			raw:      "/jobs/../jobs/~09",
			expected: "https://www.upwork.com/jobs/~09",
			ok:       true,
		},
		{name: "bare collection root", raw: "/jobs/", ok: false},
		{name: "collection root without slash", raw: "/jobs", ok: false},
		{name: "search listing", raw: "/nx/search/jobs/?q=golang", ok: false},
		{name: "category page", raw: "/jobs/Web-Development", ok: false},
		{name: "other host", raw: "https://www.upwork.com.example.com/jobs/~01", ok: false},
		{name: "not under jobs", raw: "/freelancers/~01abc", ok: false},
		{name: "malformed", raw: "http://[::1/jobs/~01", ok: false},
		{name: "javascript link", raw: "javascript:/jobs/~01", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CanonicalizeURL(tt.raw, base)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCanonicalizeURL_Idempotent(t *testing.T) {
	base := mustBase(t, "https://www.upwork.com/nx/search/jobs/?q=go")

	raws := []string{
		"/jobs/~01abcidxyz",
		"/jobs/Senior-Go-Engineer_~0198f/?source=rss",
		"https://www.upwork.com:443/jobs/42#apply",
	}
	for _, raw := range raws {
		first, ok := CanonicalizeURL(raw, base)
		require.True(t, ok, raw)

		second, ok := CanonicalizeURL(first, base)
		require.True(t, ok, first)
		assert.Equal(t, first, second)

		//no base needed for absolute input
		third, ok := CanonicalizeURL(first, nil)
		require.True(t, ok, first)
		assert.Equal(t, first, third)
	}
}

func TestCanonicalizeURL_EquivalentLinksCollapse(t *testing.T) {
	base := mustBase(t, "https://www.upwork.com/nx/search/jobs")

	variants := []string{
		"/jobs/~0abc",
		"/jobs/~0abc?source=search",
		"/jobs/~0abc#top",
		"https://www.upwork.com/jobs/~0abc",
		"https://WWW.UPWORK.COM/jobs/~0abc?x=1",
	}
	want := "https://www.upwork.com/jobs/~0abc"
	for _, v := range variants {
		got, ok := CanonicalizeURL(v, base)
		require.True(t, ok, v)
		assert.Equal(t, want, got, v)
	}
}
