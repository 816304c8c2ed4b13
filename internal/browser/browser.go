// Package browser drives a real Chromium instance through go-rod and
// exposes it behind the runner.Page contract.
package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/v0xg/webreplay/internal/runner"
)

// Options configures the browser session.
type Options struct {
	Width      int
	Height     int
	Headless   bool
	ProfileDir string // Chrome/Chromium profile directory for authenticated sessions
}

// SetupError means the browser or page could not be created. Unlike a
// step failure, it aborts before any run starts.
type SetupError struct {
	Err error
}

func (e *SetupError) Error() string { return fmt.Sprintf("browser setup: %v", e.Err) }

func (e *SetupError) Unwrap() error { return e.Err }

// Browser wraps the Rod browser and a single page for one run.
type Browser struct {
	browser *rod.Browser
	page    *rod.Page
	height  int
}

var _ runner.Page = (*Browser)(nil)

// New launches Chromium and opens a blank page sized to the given
// viewport. Partial acquisition is rolled back before returning a
// SetupError.
func New(opts Options) (*Browser, error) {
	if opts.Width == 0 {
		opts.Width = 1280
	}
	if opts.Height == 0 {
		opts.Height = 720
	}

	path, _ := launcher.LookPath()
	l := launcher.New().Bin(path).Headless(opts.Headless)
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, &SetupError{Err: fmt.Errorf("launch chromium: %w", err)}
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, &SetupError{Err: fmt.Errorf("connect: %w", err)}
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		return nil, &SetupError{Err: fmt.Errorf("open page: %w", err)}
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
		Mobile:            false,
	}); err != nil {
		_ = page.Close()
		_ = browser.Close()
		return nil, &SetupError{Err: fmt.Errorf("set viewport: %w", err)}
	}

	return &Browser{browser: browser, page: page, height: opts.Height}, nil
}

// Navigate loads url and waits for the load event, bounded by timeout.
func (b *Browser) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	p := b.page.Context(ctx).Timeout(timeout)
	if err := p.Navigate(url); err != nil {
		return err
	}
	return p.WaitLoad()
}

// Locate returns a lazy handle for the index-th match of selector.
func (b *Browser) Locate(selector string, index int) runner.Element {
	return &element{page: b.page, selector: selector, index: index}
}

// Scroll moves down one viewport height.
func (b *Browser) Scroll(ctx context.Context) error {
	return b.page.Context(ctx).Mouse.Scroll(0, float64(b.height), 1)
}

// Press sends a named key to the page.
func (b *Browser) Press(ctx context.Context, key string) error {
	k, err := lookupKey(key)
	if err != nil {
		return err
	}
	return b.page.Context(ctx).Keyboard.Press(k)
}

// Screenshot writes the current viewport as PNG to path.
func (b *Browser) Screenshot(path string) error {
	data, err := b.page.Screenshot(false, nil)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Sleep pauses for d, aborting early on context cancellation.
func (b *Browser) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Close releases the page, then the browser.
func (b *Browser) Close() error {
	var first error
	if b.page != nil {
		if err := b.page.Close(); err != nil {
			first = err
		}
		b.page = nil
	}
	if b.browser != nil {
		if err := b.browser.Close(); err != nil && first == nil {
			first = err
		}
		b.browser = nil
	}
	return first
}
