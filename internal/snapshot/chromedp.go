package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"github.com/pentrail/pentrail/internal/logging"
)

// userAgent is pinned so captures look like a current desktop browser rather
// than the headless default, which some stacks serve different markup to.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// ChromedpCapturer drives a headless browser so snapshots can observe runtime
// globals and browser storage in addition to the rendered markup.
type ChromedpCapturer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
	logger      logging.Logger
}

// NewChromedpCapturer starts a headless browser allocator. The timeout bounds
// each Capture call; zero means 45 seconds.
func NewChromedpCapturer(timeout time.Duration, logger logging.Logger) (*ChromedpCapturer, error) {
	if logger == nil {
		logger = &logging.NopLogger{}
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpCapturer{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// Capture loads the URL in a fresh tab, waits for the document to settle and
// extracts the rendered markup plus the runtime observations the static
// backend cannot see.
func (c *ChromedpCapturer) Capture(ctx context.Context, url string) (Snapshot, error) {
	tabCtx, tabCancel := chromedp.NewContext(c.allocCtx)
	defer tabCancel()

	runCtx, runCancel := context.WithTimeout(tabCtx, c.timeout)
	defer runCancel()

	// Honor cancellation from the caller as well as our own timeout.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			runCancel()
		case <-done:
		}
	}()

	var (
		html     string
		location string
		globals  []string
		local    []string
		session  []string
	)

	err := chromedp.Run(runCtx,
		emulation.SetUserAgentOverride(userAgent),
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.OuterHTML("html", &html),
		chromedp.Location(&location),
		chromedp.Evaluate(`Object.getOwnPropertyNames(window)`, &globals),
		chromedp.Evaluate(`(() => { try { return Object.keys(localStorage) } catch (e) { return [] } })()`, &local),
		chromedp.Evaluate(`(() => { try { return Object.keys(sessionStorage) } catch (e) { return [] } })()`, &session),
	)
	if err != nil {
		return nil, fmt.Errorf("headless capture of %s failed: %w", url, err)
	}

	static, err := NewStaticSnapshot(html, location)
	if err != nil {
		return nil, err
	}

	globalSet := make(map[string]struct{}, len(globals))
	for _, g := range globals {
		globalSet[g] = struct{}{}
	}

	c.logger.Debug("captured live snapshot",
		logging.Field{Key: "component", Value: "snapshot"},
		logging.Field{Key: "url", Value: url},
		logging.Field{Key: "globals", Value: len(globals)},
		logging.Field{Key: "localStorage", Value: len(local)},
	)

	return &LiveSnapshot{
		StaticSnapshot: static,
		globals:        globalSet,
		local:          local,
		session:        session,
	}, nil
}

// Close shuts the browser allocator down.
func (c *ChromedpCapturer) Close() error {
	c.allocCancel()
	return nil
}

// LiveSnapshot layers runtime observations over a parsed document.
type LiveSnapshot struct {
	*StaticSnapshot
	globals map[string]struct{}
	local   []string
	session []string
}

func (s *LiveSnapshot) HasGlobal(name string) bool {
	_, ok := s.globals[name]
	return ok
}

func (s *LiveSnapshot) StorageEntries() []string { return s.local }

func (s *LiveSnapshot) SessionEntries() []string { return s.session }
