package browser

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	jobLinkCountJS = `() => document.querySelectorAll("a[href*='/jobs/']").length`
	scrollStepJS   = `() => window.scrollBy(0, Math.round(window.innerHeight * 0.8))`
	scrollTopJS    = `() => window.scrollTo(0, 0)`

	//rounds without new job links before the list counts as fully loaded
	settledRounds   = 2
	maxScrollRounds = 12
)

// evaluator is the part of playwright.Page the scroller needs.
type evaluator interface {
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

// jitter picks a duration in [min, max] using int63n, e.g. rand.Int63n.
func jitter(int63n func(int64) int64, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(int63n(int64(max-min)+1))
}

// RandomDelay sleeps for a random duration between min and max.
func RandomDelay(min, max time.Duration) {
	time.Sleep(jitter(rand.Int63n, min, max))
}

// ScrollJobList scrolls the search results until no new job tiles render, so
// lazily loaded tiles are in the DOM before a snapshot. It returns the number
// of job links rendered and leaves the page scrolled back to the top.
func ScrollJobList(page evaluator) (int, error) {
	return scrollJobList(page, maxScrollRounds, func() { RandomDelay(600*time.Millisecond, 1400*time.Millisecond) })
}

func scrollJobList(page evaluator, maxRounds int, pause func()) (int, error) {
	count, err := jobLinkCount(page)
	if err != nil {
		return 0, err
	}

	quiet := 0
	for round := 0; round < maxRounds && quiet < settledRounds; round++ {
		if _, err := page.Evaluate(scrollStepJS); err != nil {
			return count, fmt.Errorf("scroll results: %w", err)
		}
		pause()

		n, err := jobLinkCount(page)
		if err != nil {
			return count, err
		}
		if n > count {
			count = n
			quiet = 0
		} else {
			quiet++
		}
	}

	if _, err := page.Evaluate(scrollTopJS); err != nil {
		return count, fmt.Errorf("scroll to top: %w", err)
	}
	return count, nil
}

func jobLinkCount(page evaluator) (int, error) {
	v, err := page.Evaluate(jobLinkCountJS)
	if err != nil {
		return 0, fmt.Errorf("count job links: %w", err)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("count job links: unexpected result %T", v)
	}
}

type point struct {
	X, Y float64
}

// resultsPath returns n points inside the results column of a width x height
// viewport: the middle 60% horizontally, below the search header.
func resultsPath(random func() float64, width, height, n int) []point {
	left, right := float64(width)*0.2, float64(width)*0.8
	top, bottom := float64(height)*0.25, float64(height)*0.95

	path := make([]point, n)
	for i := range path {
		path[i] = point{
			X: left + random()*(right-left),
			Y: top + random()*(bottom-top),
		}
	}
	return path
}

// HoverResults moves the mouse across the job tiles the way a reader skims
// the list.
func HoverResults(page playwright.Page) error {
	viewport := page.ViewportSize()
	if viewport == nil {
		return nil
	}
	for _, p := range resultsPath(rand.Float64, viewport.Width, viewport.Height, 3) {
		if err := page.Mouse().Move(p.X, p.Y, playwright.MouseMoveOptions{Steps: playwright.Int(8)}); err != nil {
			return fmt.Errorf("move mouse: %w", err)
		}
		RandomDelay(100*time.Millisecond, 300*time.Millisecond)
	}
	return nil
}
