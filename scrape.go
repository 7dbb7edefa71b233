package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// runScrape executes the full scrape stage: pagination, platform filtering,
// per-URL extraction, record filtering and CSV persistence.
func runScrape(config *Config) error {
	settings := config.Settings
	startedAt := time.Now()

	log.Printf("Navigating to: %s", settings.Search.StartURL)
	session, err := newBrowserSession(context.Background(), settings)
	if err != nil {
		return fmt.Errorf("starting browser session: %w", err)
	}

	links := collectLinks(session, settings)
	// Pagination is over; the browser is not needed for extraction.
	session.Close()

	candidates := filterPlatformLinks(links)
	if skipped := len(links) - len(candidates); skipped > 0 {
		log.Printf("Skipped %d video/social platform links", skipped)
	}

	log.Printf("→ Extracting article information from %d URLs...", len(candidates))
	scraper := NewArticleScraper(settings)
	records := make([]ArticleRecord, 0, len(candidates))
	for i, url := range candidates {
		log.Printf("[%d/%d] Processing: %s", i+1, len(candidates), url)
		record := scraper.Extract(url)
		records = append(records, record)

		switch result := classifyRecord(record); result.Status {
		case StatusSuccess:
			log.Printf("✓ %s", truncate(record.Title, 50))
		case StatusSkipped:
			log.Printf("✗ Skipping (%s): %s", result.Reason, url)
		case StatusError:
			log.Printf("✗ Failed (%s): %s", result.Reason, url)
		}
	}

	kept := filterRecords(records)

	path, err := writeArticlesCSV(settings.DataDirectory, kept, startedAt)
	if err != nil {
		return fmt.Errorf("saving articles: %w", err)
	}

	log.Printf("✓ Saved %d articles to %s", len(kept), path)
	return nil
}

// classifyRecord maps a record onto a processing outcome for logging. The
// classification mirrors the post-extraction filter rules.
func classifyRecord(record ArticleRecord) ProcessingResult {
	switch {
	case strings.HasPrefix(record.Title, errorPrefix):
		return ProcessingResult{URL: record.URL, Status: StatusError, Reason: record.Title}
	case record.Text == noTextFound:
		return ProcessingResult{URL: record.URL, Status: StatusSkipped, Reason: "no text extracted"}
	default:
		return ProcessingResult{URL: record.URL, Status: StatusSuccess}
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
