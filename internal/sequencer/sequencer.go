// Opens a batch of URLs as browser tabs, one at a time, with a fixed pause
// between creations. Tabs are never created concurrently: the pause is the
// backpressure against the browser's own tab and automation limits.

package sequencer

import (
	"context"
	"net/url"
	"time"
)

const (
	DefaultDelay            = 75 * time.Millisecond
	DefaultOpenInBackground = true
)

// TabOpener creates a single browser tab. active asks for the tab to be focused.
type TabOpener interface {
	OpenTab(ctx context.Context, url string, active bool) error
}

// Request is a resolved open request. Build it with DefaultRequest or from the
// wire form so defaults are applied once.
type Request struct {
	URLs             []string
	OpenInBackground bool
	Delay            time.Duration
}

// DefaultRequest returns a request for urls with the default focus and pacing.
func DefaultRequest(urls []string) Request {
	return Request{
		URLs:             urls,
		OpenInBackground: DefaultOpenInBackground,
		Delay:            DefaultDelay,
	}
}

// Open creates one tab per valid URL in order and returns how many were created.
// The first failing creation stops the sequence; tabs opened before it stay open
// and are included in the returned count together with the creation error.
// A cancelled ctx stops the sequence with ctx.Err().
func Open(ctx context.Context, opener TabOpener, req Request) (int, error) {
	opened := 0
	for _, raw := range req.URLs {
		if !isHTTPURL(raw) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return opened, err
		}

		//in foreground mode only the first tab takes focus
		active := !req.OpenInBackground && opened == 0
		if err := opener.OpenTab(ctx, raw, active); err != nil {
			return opened, err
		}
		opened++

		if req.Delay > 0 {
			if err := sleep(ctx, req.Delay); err != nil {
				return opened, err
			}
		}
	}
	return opened, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
