package browser

import (
	"context"
	"fmt"
	"log"

	"github.com/playwright-community/playwright-go"
)

// TabOpener opens job pages as new tabs of a browser context. It implements
// sequencer.TabOpener.
type TabOpener struct {
	browserCtx playwright.BrowserContext
	//page that regains focus after a background tab is created
	source playwright.Page
}

func NewTabOpener(browserCtx playwright.BrowserContext, source playwright.Page) *TabOpener {
	return &TabOpener{browserCtx: browserCtx, source: source}
}

// OpenTab fails only when no tab could be created. Once the tab exists it
// counts as opened, whatever happens while its page loads or takes focus.
func (t *TabOpener) OpenTab(ctx context.Context, url string, active bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	page, err := t.browserCtx.NewPage()
	if err != nil {
		return fmt.Errorf("could not create tab: %w", err)
	}

	//commit is enough: the tab exists and is loading, like a user-opened tab
	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateCommit,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		log.Printf("    ⚠️ Tab opened but %s did not load: %v", url, err)
	}

	focus := page
	if !active {
		focus = t.source
	}
	if focus == nil || focus.IsClosed() {
		return nil
	}
	if err := focus.BringToFront(); err != nil {
		log.Printf("    ⚠️ Could not focus tab: %v", err)
	}
	return nil
}
