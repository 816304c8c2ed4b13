package runner

import (
	"context"
	"time"
)

// Page is the browser page handle the runner drives. The live
// implementation sits in internal/browser; tests substitute a mock so
// runs are deterministic (a live site is stateful and is not).
type Page interface {
	// Navigate loads url and blocks until the load event or timeout.
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// Locate returns a lazy handle for the index-th element matching
	// selector (0-based). Resolution happens in WaitVisible.
	Locate(selector string, index int) Element
	// Scroll moves the viewport down by one screen height.
	Scroll(ctx context.Context) error
	// Press sends a key to the focused element.
	Press(ctx context.Context, key string) error
	// Screenshot writes a PNG of the current viewport to path.
	Screenshot(path string) error
	// Sleep pauses for d, returning early only on context
	// cancellation.
	Sleep(ctx context.Context, d time.Duration) error
	// Close releases the page and its browser. Called exactly once
	// per run by the runner.
	Close() error
}

// Element is one located page element.
type Element interface {
	// WaitVisible blocks until the element exists and is visible, or
	// the timeout elapses. The timeout covers both.
	WaitVisible(timeout time.Duration) error
	Click() error
	// Fill replaces the element's text with text. Empty text clears
	// the field.
	Fill(text string) error
	SelectOption(value string) error
	Hover() error
}
