package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/playwright-community/playwright-go"
)

var errPageClosed = errors.New("page was closed")

// Page is the rendered page job links are collected from. It implements
// messages.PageSource.
type Page struct {
	page playwright.Page
}

func NewPage(page playwright.Page) *Page {
	return &Page{page: page}
}

// Raw exposes the underlying playwright page.
func (p *Page) Raw() playwright.Page {
	return p.page
}

func (p *Page) URL() string {
	if p.page == nil {
		return ""
	}
	return p.page.URL()
}

// HTML snapshots the current DOM.
func (p *Page) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.page == nil || p.page.IsClosed() {
		return "", errPageClosed
	}
	content, err := p.page.Content()
	if err != nil {
		return "", fmt.Errorf("read page content: %w", err)
	}
	return content, nil
}

// Navigate loads url, waits for job tiles to render and scrolls like a person
// so lazily loaded tiles are in the DOM before a snapshot.
func (p *Page) Navigate(ctx context.Context, url string, settle time.Duration) error {
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}

	//job tiles are rendered client side
	if _, err := p.page.WaitForSelector("a[href*='/jobs/']", playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(15000),
	}); err != nil {
		log.Printf("    ⚠️ No job links rendered yet: %v", err)
	}

	if err := sleepCtx(ctx, settle); err != nil {
		return err
	}

	if err := HoverResults(p.page); err != nil {
		log.Printf("    ⚠️ Mouse movement failed: %v", err)
	}
	count, err := ScrollJobList(p.page)
	if err != nil {
		log.Printf("    ⚠️ Scroll failed: %v", err)
	} else {
		log.Printf("    📜 %d job links rendered", count)
	}
	return ctx.Err()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
