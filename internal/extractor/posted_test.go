package extractor

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostedAge(t *testing.T) {
	tests := []struct {
		text     string
		expected float64
		ok       bool
	}{
		{text: "Posted 3 hours ago", expected: 180, ok: true},
		{text: "Posted just now ago", expected: 0, ok: true},
		{text: "posted JUST  NOW ago", expected: 0, ok: true},
		{text: "Posted 30 seconds ago", expected: 0.5, ok: true},
		{text: "Posted 1 minute ago", expected: 1, ok: true},
		{text: "Posted 45 minutes ago", expected: 45, ok: true},
		{text: "Posted 2 days ago", expected: 2880, ok: true},
		{text: "Posted 1 week ago", expected: 10080, ok: true},
		{text: "Posted 2 months ago", expected: 86400, ok: true},
		{text: "Hourly: $40-$60\nPosted 12 minutes ago\nProposals: 5", expected: 12, ok: true},
		{text: "Posted yesterday", ok: false},
		{text: "Posted 5 minutes", ok: false},
		{text: "Posted 2 years ago", ok: false},
		{text: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParsePostedAge(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestRenderedText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div id="tile">
			<script>var posted = "Posted 1 minute ago";</script>
			<h2>Go developer</h2><small>Posted&nbsp;3&nbsp;hours ago</small>
			<p>line one<br>line two</p>
		</div>`))
	require.NoError(t, err)

	text := RenderedText(doc.Find("#tile"))
	assert.NotContains(t, text, "1 minute")
	assert.Contains(t, text, "Posted 3 hours ago")
	assert.Contains(t, text, "line one\nline two")

	minutes, ok := ParsePostedAge(text)
	require.True(t, ok)
	assert.Equal(t, 180.0, minutes)
}
