package main

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
)

// nextSynonyms is the visible-text set accepted as a "next page" control.
var nextSynonyms = []string{"next", "next page", ">", "»"}

// resultsPage abstracts one search-results page in a live browser session so
// the pagination loop can be tested without a browser and the site's markup
// stays a localized concern of the implementation.
type resultsPage interface {
	// Navigate loads the given URL.
	Navigate(url string) error
	// WaitSettled blocks until the page reaches a quiescent state, then for
	// a fixed settle delay to admit client-rendered content.
	WaitSettled() error
	// Links returns the href of every anchor matching the result selector,
	// in document order.
	Links() ([]string, error)
	// ClickPageNumber clicks the pagination control labeled with the given
	// 1-based page number. Returns false when no such control exists.
	ClickPageNumber(n int) (bool, error)
	// ClickNext clicks any control whose visible text is a "next" synonym.
	// Returns false when none exists.
	ClickNext() (bool, error)
	// Location returns the page's current URL.
	Location() (string, error)
	// Reload force-reloads the current page.
	Reload() error
}

// pageState is the pagination loop's working state. It is owned exclusively
// by collectLinks and discarded when the loop terminates.
type pageState struct {
	currentPage int
	links       []string
	done        bool
}

// collectLinks drives a results page through successive result pages and
// returns every candidate article URL in encounter order. Termination is
// always by exhaustion or the page cap, never by error: an empty list is
// valid output. Duplicate URLs across pages are not deduplicated here;
// downstream handling is positional.
func collectLinks(page resultsPage, settings *Settings) []string {
	state := pageState{currentPage: 1}

	if err := page.Navigate(settings.Search.StartURL); err != nil {
		log.Printf("✗ Failed to open search results: %v", err)
		return nil
	}

	retried := false
	for state.currentPage <= settings.Search.MaxPages && !state.done {
		log.Printf("→ Scraping page %d...", state.currentPage)

		if err := page.WaitSettled(); err != nil {
			log.Printf("✗ Page %d never settled: %v", state.currentPage, err)
			break
		}

		links, err := page.Links()
		if err != nil {
			log.Printf("✗ Reading links on page %d: %v", state.currentPage, err)
			break
		}
		if len(links) == 0 {
			log.Printf("No articles found on page %d. Stopping.", state.currentPage)
			break
		}

		log.Printf("Found %d articles on page %d", len(links), state.currentPage)
		state.links = append(state.links, links...)

		advanced, err := advancePage(page, &state, settings)
		if err != nil {
			// One reload-and-retry of the same iteration; a second failure
			// on the same page ends pagination.
			if retried {
				log.Printf("✗ Advancing past page %d failed twice. Stopping.", state.currentPage)
				break
			}
			log.Printf("Error navigating to next page: %v", err)
			if rerr := page.Reload(); rerr != nil {
				log.Printf("✗ Failed to reload page. Stopping.")
				break
			}
			retried = true
			continue
		}
		retried = false

		if !advanced {
			log.Printf("No more pages found. Stopping at page %d", state.currentPage)
			state.done = true
			break
		}
		state.currentPage++
	}

	log.Printf("Total articles collected: %d", len(state.links))
	return state.links
}

// advancePage tries the three navigation strategies in fixed order and
// reports whether any of them moved to the next page.
func advancePage(page resultsPage, state *pageState, settings *Settings) (bool, error) {
	// Strategy 1: pagination control labeled with the next page number.
	clicked, err := page.ClickPageNumber(state.currentPage + 1)
	if err != nil {
		return false, fmt.Errorf("clicking page %d: %w", state.currentPage+1, err)
	}
	if clicked {
		return true, nil
	}

	// Strategy 2: any control whose text matches a "next" synonym.
	clicked, err = page.ClickNext()
	if err != nil {
		return false, fmt.Errorf("clicking next link: %w", err)
	}
	if clicked {
		return true, nil
	}

	// Strategy 3: bump the pagination offset parameter in the URL.
	current, err := page.Location()
	if err != nil {
		return false, fmt.Errorf("reading current URL: %w", err)
	}
	next, ok := bumpOffsetParam(current, settings.Search.OffsetParam, settings.Search.OffsetStep)
	if !ok {
		return false, nil
	}
	log.Printf("Navigating to next page via URL: %s", next)
	if err := page.Navigate(next); err != nil {
		return false, fmt.Errorf("navigating to %s: %w", next, err)
	}
	return true, nil
}

// bumpOffsetParam increments the numeric query parameter that carries the
// result offset (Yahoo uses b=, stepping by 10). Returns false when the
// parameter is not present in the URL.
func bumpOffsetParam(pageURL, param string, step int) (string, bool) {
	re := regexp.MustCompile(regexp.QuoteMeta(param) + `=(\d+)`)
	match := re.FindStringSubmatch(pageURL)
	if match == nil {
		return "", false
	}
	current, err := strconv.Atoi(match[1])
	if err != nil {
		return "", false
	}
	old := fmt.Sprintf("%s=%d", param, current)
	next := fmt.Sprintf("%s=%d", param, current+step)
	return strings.Replace(pageURL, old, next, 1), true
}
