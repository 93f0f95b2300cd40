package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-upwork-opener/internal/messages"
)

type fakeClient struct {
	pageURL    string
	extract    messages.ExtractResponse
	extractErr error
	open       func(req messages.OpenRequest) (messages.OpenResponse, error)
	openReqs   []messages.OpenRequest
}

func (c *fakeClient) PageURL() string { return c.pageURL }

func (c *fakeClient) Extract(context.Context, messages.ExtractRequest) (messages.ExtractResponse, error) {
	return c.extract, c.extractErr
}

func (c *fakeClient) Open(_ context.Context, req messages.OpenRequest) (messages.OpenResponse, error) {
	c.openReqs = append(c.openReqs, req)
	if c.open != nil {
		return c.open(req)
	}
	return messages.OpenResponse{OK: true, Opened: len(req.URLs)}, nil
}

type memorySeen map[string]bool

func (m memorySeen) IsSeen(url string) bool { return m[url] }

func (m memorySeen) Add(urls []string) {
	for _, u := range urls {
		m[u] = true
	}
}

func jobURLs(n int) []string {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://www.upwork.com/jobs/~%02d", i)
	}
	return urls
}

const searchURL = "https://www.upwork.com/nx/search/jobs/?q=golang"

func TestClampTabs(t *testing.T) {
	assert.Equal(t, 50, ClampTabs(0))
	assert.Equal(t, 1, ClampTabs(-3))
	assert.Equal(t, 200, ClampTabs(1000))
	assert.Equal(t, 25, ClampTabs(25))
}

func TestRun_NotUpworkPage(t *testing.T) {
	client := &fakeClient{pageURL: "https://example.com/jobs"}

	sum, err := New(client, Policy{}, nil).Run(context.Background())
	assert.ErrorIs(t, err, ErrNotUpworkPage)
	assert.Equal(t, "Open an Upwork page first (https://www.upwork.com/).", sum.Status)
	assert.Empty(t, client.openReqs)
}

func TestRun_TransportFailureIsNotZeroResults(t *testing.T) {
	client := &fakeClient{
		pageURL:    searchURL,
		extractErr: fmt.Errorf("%w: target closed", messages.ErrTransport),
	}

	sum, err := New(client, Policy{}, nil).Run(context.Background())
	assert.ErrorIs(t, err, messages.ErrTransport)
	assert.Contains(t, sum.Status, "Couldn't connect to the page.")
	assert.NotContains(t, sum.Status, "No job links")
}

func TestRun_ExtractNotOK(t *testing.T) {
	client := &fakeClient{pageURL: searchURL, extract: messages.ExtractResponse{OK: false}}

	sum, err := New(client, Policy{}, nil).Run(context.Background())
	assert.ErrorIs(t, err, ErrExtractFailed)
	assert.Equal(t, "Couldn't collect job links from this page.", sum.Status)
}

func TestRun_NoJobs(t *testing.T) {
	client := &fakeClient{pageURL: searchURL, extract: messages.ExtractResponse{OK: true}}

	sum, err := New(client, Policy{}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No job links found on this page.", sum.Status)
	assert.Empty(t, client.openReqs)
}

func TestRun_NoJobsWithFilterShowsCounters(t *testing.T) {
	maxAge := 60.0
	client := &fakeClient{pageURL: searchURL, extract: messages.ExtractResponse{OK: true, SkippedOld: 4, SkippedUnknown: 1}}

	sum, err := New(client, Policy{MaxAgeMinutes: &maxAge}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No job links found on this page.\nSkipped: 4 older than 60 min, 1 with unknown age.", sum.Status)
}

func TestRun_CapsAndReports(t *testing.T) {
	urls := jobURLs(5)
	client := &fakeClient{pageURL: searchURL, extract: messages.ExtractResponse{OK: true, URLs: urls, Count: 5}}

	sum, err := New(client, Policy{MaxTabs: 3, OpenInBackground: true}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Opened 3 tabs.\n(Showing first 3 of 5)", sum.Status)
	assert.Equal(t, 5, sum.Found)
	assert.Equal(t, 3, sum.Requested)
	assert.Equal(t, urls[:3], sum.OpenedURLs)

	require.Len(t, client.openReqs, 1)
	resolved := client.openReqs[0].Resolve()
	assert.Equal(t, urls[:3], resolved.URLs)
	assert.True(t, resolved.OpenInBackground)
}

func TestRun_OpenFailureKeepsPartialCount(t *testing.T) {
	urls := jobURLs(3)
	seen := memorySeen{}
	client := &fakeClient{
		pageURL: searchURL,
		extract: messages.ExtractResponse{OK: true, URLs: urls, Count: 3},
		open: func(messages.OpenRequest) (messages.OpenResponse, error) {
			return messages.OpenResponse{OK: false, Opened: 1, Error: "Tabs cannot be edited right now"}, nil
		},
	}

	sum, err := New(client, Policy{}, seen).Run(context.Background())
	var openErr *OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, 1, openErr.Opened)
	assert.Equal(t, "Failed to open tabs: Tabs cannot be edited right now", sum.Status)
	assert.Equal(t, 1, sum.Opened)
	//only the tab that was created is remembered
	assert.True(t, seen.IsSeen(urls[0]))
	assert.False(t, seen.IsSeen(urls[1]))
}

func TestRun_OpenCountNeverExceedsRequested(t *testing.T) {
	urls := jobURLs(2)
	seen := memorySeen{}
	client := &fakeClient{
		pageURL: searchURL,
		extract: messages.ExtractResponse{OK: true, URLs: urls, Count: 2},
		open: func(messages.OpenRequest) (messages.OpenResponse, error) {
			return messages.OpenResponse{OK: false, Opened: 5, Error: "boom"}, nil
		},
	}

	sum, err := New(client, Policy{}, seen).Run(context.Background())
	var openErr *OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, 2, openErr.Opened)
	assert.Equal(t, 2, sum.Opened)
	assert.Equal(t, urls, sum.OpenedURLs)
}

func TestRun_OpenTransportFailure(t *testing.T) {
	client := &fakeClient{
		pageURL: searchURL,
		extract: messages.ExtractResponse{OK: true, URLs: jobURLs(2), Count: 2},
		open: func(messages.OpenRequest) (messages.OpenResponse, error) {
			return messages.OpenResponse{}, fmt.Errorf("%w: browser closed", messages.ErrTransport)
		},
	}

	sum, err := New(client, Policy{}, nil).Run(context.Background())
	assert.ErrorIs(t, err, messages.ErrTransport)
	assert.Zero(t, sum.Opened)
	assert.NotContains(t, sum.Status, "Opened")
}

func TestRun_SkipsSeenJobs(t *testing.T) {
	urls := jobURLs(3)
	seen := memorySeen{urls[1]: true}
	client := &fakeClient{pageURL: searchURL, extract: messages.ExtractResponse{OK: true, URLs: urls, Count: 3}}

	sum, err := New(client, Policy{}, seen).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.SkippedSeen)
	assert.Equal(t, []string{urls[0], urls[2]}, sum.OpenedURLs)
	assert.Equal(t, "Opened 2 tabs.\nSkipped: 1 opened before.", sum.Status)
	assert.True(t, seen.IsSeen(urls[2]))
}

func TestOpenError(t *testing.T) {
	err := error(&OpenError{Opened: 2, Msg: "boom"})
	assert.Equal(t, "opened 2 tabs before failing: boom", err.Error())
	assert.False(t, errors.Is(err, ErrExtractFailed))
}
