package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Per-operation ceiling so a wedged page cannot stall pagination forever.
const browserOpTimeout = 60 * time.Second

// browserSession owns a headless Chrome instance for the duration of the
// pagination stage. It implements resultsPage. Acquire before pagination,
// Close once pagination ends.
type browserSession struct {
	ctx          context.Context
	cancel       context.CancelFunc
	allocCancel  context.CancelFunc
	linkSelector string
	settleDelay  time.Duration
}

// newBrowserSession launches the browser and waits for it to be usable.
func newBrowserSession(parent context.Context, settings *Settings) (*browserSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", *settings.Search.Headless),
		chromedp.Flag("disable-gpu", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// Force the browser to actually start so launch failures surface here
	// rather than midway through pagination.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	return &browserSession{
		ctx:          ctx,
		cancel:       cancel,
		allocCancel:  allocCancel,
		linkSelector: settings.Search.LinkSelector,
		settleDelay:  time.Duration(settings.Search.SettleDelaySeconds) * time.Second,
	}, nil
}

// Close releases the page and the browser process.
func (s *browserSession) Close() {
	s.cancel()
	s.allocCancel()
}

func (s *browserSession) run(actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, browserOpTimeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func (s *browserSession) Navigate(url string) error {
	return s.run(chromedp.Navigate(url))
}

// WaitSettled polls document readiness, then sleeps the fixed settle delay so
// client-rendered results have a chance to appear before anchors are read.
func (s *browserSession) WaitSettled() error {
	var ready bool
	return s.run(
		chromedp.Poll(`document.readyState === "complete"`, &ready,
			chromedp.WithPollingInterval(250*time.Millisecond),
			chromedp.WithPollingTimeout(30*time.Second)),
		chromedp.Sleep(s.settleDelay),
	)
}

func (s *browserSession) Links() ([]string, error) {
	sel, err := json.Marshal(s.linkSelector)
	if err != nil {
		return nil, err
	}
	var links []string
	script := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%s)).map(a => a.href).filter(h => h)`, sel)
	if err := s.run(chromedp.Evaluate(script, &links)); err != nil {
		return nil, fmt.Errorf("collecting anchors: %w", err)
	}
	return links, nil
}

func (s *browserSession) ClickPageNumber(n int) (bool, error) {
	var clicked bool
	script := fmt.Sprintf(`(() => {
		const pages = document.querySelector("div.pages");
		if (!pages) return false;
		const link = pages.querySelector('a[title*="%d"]');
		if (!link) return false;
		link.click();
		return true;
	})()`, n)
	if err := s.run(chromedp.Evaluate(script, &clicked)); err != nil {
		return false, fmt.Errorf("clicking page %d control: %w", n, err)
	}
	return clicked, nil
}

func (s *browserSession) ClickNext() (bool, error) {
	var clicked bool
	synonyms, err := json.Marshal(nextSynonyms)
	if err != nil {
		return false, err
	}
	script := `(() => {
		const synonyms = ` + string(synonyms) + `;
		for (const a of document.querySelectorAll("a")) {
			const text = (a.innerText || "").trim().toLowerCase();
			if (synonyms.includes(text)) {
				a.click();
				return true;
			}
		}
		return false;
	})()`
	if err := s.run(chromedp.Evaluate(script, &clicked)); err != nil {
		return false, fmt.Errorf("clicking next control: %w", err)
	}
	return clicked, nil
}

func (s *browserSession) Location() (string, error) {
	var url string
	if err := s.run(chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

func (s *browserSession) Reload() error {
	return s.run(chromedp.Reload(), chromedp.Sleep(s.settleDelay))
}
