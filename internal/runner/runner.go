package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go-upwork-opener/internal/messages"
)

const (
	UpworkPrefix   = "https://www.upwork.com/"
	MinTabs        = 1
	MaxTabs        = 200
	DefaultMaxTabs = 50
)

var (
	ErrNotUpworkPage = errors.New("active page is not an upwork page")
	ErrExtractFailed = errors.New("job link collection failed")
)

// OpenError reports a tab-creation failure after Opened tabs were created.
type OpenError struct {
	Opened int
	Msg    string
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("opened %d tabs before failing: %s", e.Opened, e.Msg)
}

// Client is the caller's view of the two stages.
type Client interface {
	PageURL() string
	Extract(ctx context.Context, req messages.ExtractRequest) (messages.ExtractResponse, error)
	Open(ctx context.Context, req messages.OpenRequest) (messages.OpenResponse, error)
}

// SeenStore remembers jobs opened by earlier runs.
type SeenStore interface {
	IsSeen(url string) bool
	Add(urls []string)
}

// Policy holds the caller-side knobs.
type Policy struct {
	MaxTabs          int
	OpenInBackground bool
	Delay            time.Duration
	MaxAgeMinutes    *float64
}

// ClampTabs keeps the tab cap inside [MinTabs, MaxTabs]; zero means default.
func ClampTabs(n int) int {
	if n == 0 {
		return DefaultMaxTabs
	}
	if n < MinTabs {
		return MinTabs
	}
	if n > MaxTabs {
		return MaxTabs
	}
	return n
}

// Summary describes one run. Status is the text shown to the user.
type Summary struct {
	Status         string
	Found          int
	Requested      int
	Opened         int
	SkippedOld     int
	SkippedUnknown int
	SkippedSeen    int
	OpenedURLs     []string
}

type Runner struct {
	client Client
	policy Policy
	seen   SeenStore
}

// New creates a runner. seen may be nil.
func New(client Client, policy Policy, seen SeenStore) *Runner {
	policy.MaxTabs = ClampTabs(policy.MaxTabs)
	return &Runner{client: client, policy: policy, seen: seen}
}

// Run collects job links from the current page and opens up to MaxTabs of them.
// The returned Summary always carries a status text, also on error.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	pageURL := r.client.PageURL()
	if !strings.HasPrefix(pageURL, UpworkPrefix) {
		sum.Status = "Open an Upwork page first (" + UpworkPrefix + ")."
		return sum, fmt.Errorf("%w: %q", ErrNotUpworkPage, pageURL)
	}

	res, err := r.client.Extract(ctx, messages.ExtractRequest{MaxAgeMinutes: r.policy.MaxAgeMinutes})
	if err != nil {
		sum.Status = "Couldn't connect to the page.\nTry reloading the Upwork page, then run again."
		return sum, err
	}
	if !res.OK {
		sum.Status = "Couldn't collect job links from this page."
		return sum, ErrExtractFailed
	}

	sum.SkippedOld = res.SkippedOld
	sum.SkippedUnknown = res.SkippedUnknown

	urls := r.dropSeen(res.URLs, &sum)
	sum.Found = len(urls)
	if len(urls) == 0 {
		sum.Status = "No job links found on this page." + r.skipNote(sum)
		return sum, nil
	}

	limited := urls
	if len(limited) > r.policy.MaxTabs {
		limited = limited[:r.policy.MaxTabs]
	}
	sum.Requested = len(limited)
	log.Printf("🔗 Opening %d of %d job links", len(limited), len(urls))

	openRes, err := r.client.Open(ctx, messages.NewOpenRequest(limited, r.policy.OpenInBackground, r.policy.Delay))
	if err != nil {
		sum.Status = "Couldn't reach the browser to open tabs."
		return sum, err
	}

	//tabs are opened in order, so the first Opened urls are the ones that made it
	sum.Opened = openRes.Opened
	if sum.Opened > len(limited) {
		sum.Opened = len(limited)
	}
	if sum.Opened < 0 {
		sum.Opened = 0
	}
	sum.OpenedURLs = limited[:sum.Opened]
	if r.seen != nil && sum.Opened > 0 {
		r.seen.Add(sum.OpenedURLs)
	}

	if !openRes.OK {
		msg := openRes.Error
		if msg == "" {
			msg = "unknown error"
		}
		sum.Status = "Failed to open tabs: " + msg
		return sum, &OpenError{Opened: sum.Opened, Msg: msg}
	}

	sum.Status = fmt.Sprintf("Opened %d tabs.", sum.Opened)
	if len(urls) > len(limited) {
		sum.Status += fmt.Sprintf("\n(Showing first %d of %d)", len(limited), len(urls))
	}
	sum.Status += r.skipNote(sum)
	return sum, nil
}

func (r *Runner) dropSeen(urls []string, sum *Summary) []string {
	if r.seen == nil {
		return urls
	}
	fresh := make([]string, 0, len(urls))
	for _, u := range urls {
		if r.seen.IsSeen(u) {
			sum.SkippedSeen++
			continue
		}
		fresh = append(fresh, u)
	}
	return fresh
}

func (r *Runner) skipNote(sum Summary) string {
	var parts []string
	if r.policy.MaxAgeMinutes != nil {
		parts = append(parts, fmt.Sprintf("%d older than %g min", sum.SkippedOld, *r.policy.MaxAgeMinutes))
		parts = append(parts, fmt.Sprintf("%d with unknown age", sum.SkippedUnknown))
	}
	if sum.SkippedSeen > 0 {
		parts = append(parts, fmt.Sprintf("%d opened before", sum.SkippedSeen))
	}
	if len(parts) == 0 {
		return ""
	}
	return "\nSkipped: " + strings.Join(parts, ", ") + "."
}
