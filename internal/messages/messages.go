// Request/response contracts for the two stages. Each message kind has its own
// typed request and response; defaults are resolved once, here, at the boundary.

package messages

import (
	"math"
	"time"

	"go-upwork-opener/internal/extractor"
	"go-upwork-opener/internal/sequencer"
)

// ExtractRequest asks the page side for job links.
type ExtractRequest struct {
	MaxAgeMinutes *float64 `json:"maxAgeMinutes,omitempty"`
}

// MaxAge returns the age threshold, or nil when none is active.
func (r ExtractRequest) MaxAge() *float64 {
	if r.MaxAgeMinutes == nil || !isFinite(*r.MaxAgeMinutes) {
		return nil
	}
	v := *r.MaxAgeMinutes
	return &v
}

type ExtractResponse struct {
	OK             bool     `json:"ok"`
	URLs           []string `json:"urls"`
	Count          int      `json:"count"`
	SkippedOld     int      `json:"skippedOld"`
	SkippedUnknown int      `json:"skippedUnknown"`
}

// NewExtractResponse wraps an extraction result in a successful response.
func NewExtractResponse(res extractor.Result) ExtractResponse {
	urls := res.URLs
	if urls == nil {
		urls = []string{}
	}
	return ExtractResponse{
		OK:             true,
		URLs:           urls,
		Count:          len(urls),
		SkippedOld:     res.SkippedOld,
		SkippedUnknown: res.SkippedUnknown,
	}
}

// OpenRequest asks the background side to open tabs. Entries of URLs that are
// not strings are dropped when resolving.
type OpenRequest struct {
	URLs             []any    `json:"urls"`
	OpenInBackground *bool    `json:"openInBackground,omitempty"`
	DelayMs          *float64 `json:"delayMs,omitempty"`
}

// NewOpenRequest builds the wire form of a request.
func NewOpenRequest(urls []string, openInBackground bool, delay time.Duration) OpenRequest {
	list := make([]any, len(urls))
	for i, u := range urls {
		list[i] = u
	}
	ms := float64(delay) / float64(time.Millisecond)
	return OpenRequest{
		URLs:             list,
		OpenInBackground: &openInBackground,
		DelayMs:          &ms,
	}
}

// Resolve applies defaults: background unless explicitly false, 75ms delay when
// absent or not finite, no delay when negative.
func (r OpenRequest) Resolve() sequencer.Request {
	req := sequencer.DefaultRequest(nil)

	for _, v := range r.URLs {
		if s, ok := v.(string); ok {
			req.URLs = append(req.URLs, s)
		}
	}
	if r.OpenInBackground != nil {
		req.OpenInBackground = *r.OpenInBackground
	}
	if r.DelayMs != nil && isFinite(*r.DelayMs) {
		if *r.DelayMs <= 0 {
			req.Delay = 0
		} else {
			req.Delay = time.Duration(*r.DelayMs * float64(time.Millisecond))
		}
	}
	return req
}

type OpenResponse struct {
	OK     bool   `json:"ok"`
	Opened int    `json:"opened"`
	Error  string `json:"error,omitempty"`
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
