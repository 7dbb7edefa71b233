package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	// Spoofed desktop browser identity; plenty of news sites serve bots an
	// empty shell otherwise.
	desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	fetchTimeout = 10 * time.Second

	// Paragraphs at or below this rune count are treated as boilerplate.
	minParagraphRunes = 50
)

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// structuredResult is the output of the primary extraction strategy. The
// content HTML is kept so the markdown archive can be written from it.
type structuredResult struct {
	record      ArticleRecord
	contentHTML string
}

// structuredExtractFunc is the primary "extract(url) -> record" capability.
// Injectable so tests can force the DOM fallback path.
type structuredExtractFunc func(pageURL string) (structuredResult, error)

// ArticleScraper turns one URL into an ArticleRecord. Extract never returns
// an error: every failure mode is encoded into the record's string fields so
// a single bad article cannot halt the pipeline.
type ArticleScraper struct {
	client     *http.Client
	structured structuredExtractFunc
	archive    *markdownArchiver
}

// NewArticleScraper creates a scraper with the readability-based primary
// strategy and the goquery fallback.
func NewArticleScraper(settings *Settings) *ArticleScraper {
	s := &ArticleScraper{
		client: &http.Client{Timeout: fetchTimeout},
		structured: func(pageURL string) (structuredResult, error) {
			return readabilityExtract(pageURL, fetchTimeout)
		},
	}
	if settings.Archive.Enabled {
		s.archive = newMarkdownArchiver(settings.Archive.Directory)
	}
	return s
}

// Extract fetches the page and extracts title, body and publish date,
// trying the structured strategy first and the DOM heuristics second.
// Both strategies fetch: the direct GET validates reachability and feeds
// the fallback, the structured extractor re-fetches independently.
func (s *ArticleScraper) Extract(pageURL string) ArticleRecord {
	body, err := s.fetch(pageURL)
	if err != nil {
		return errorRecord(pageURL, err)
	}

	result, err := s.structured(pageURL)
	if err == nil && result.record.Text != "" {
		if s.archive != nil {
			if aerr := s.archive.Save(result.record.Title, pageURL, result.contentHTML); aerr != nil {
				log.Printf("Archiving %s failed: %v", pageURL, aerr)
			}
		}
		return result.record
	}
	if err != nil {
		log.Printf("Structured extraction failed for %s: %v", pageURL, err)
	}

	return extractFromDOM(body, pageURL)
}

// fetch performs the direct GET with the spoofed user agent. Client and
// server error statuses short-circuit the whole extraction.
func (s *ArticleScraper) fetch(pageURL string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", desktopUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: pageURL}
	}

	return io.ReadAll(resp.Body)
}

// errorRecord encodes a fetch failure into a record; the error message is
// replicated into both title and text so either downstream filter catches it.
func errorRecord(pageURL string, err error) ArticleRecord {
	msg := fmt.Sprintf("%s %v", errorPrefix, err)
	return ArticleRecord{
		Title:       msg,
		Text:        msg,
		PublishDate: noDateFound,
		URL:         pageURL,
	}
}

// readabilityExtract runs the structured content extractor. It performs its
// own fetch of the URL.
func readabilityExtract(pageURL string, timeout time.Duration) (structuredResult, error) {
	article, err := readability.FromURL(pageURL, timeout)
	if err != nil {
		return structuredResult{}, fmt.Errorf("readability: %w", err)
	}

	text := normalizeWhitespace(article.TextContent)
	if text == "" {
		return structuredResult{}, fmt.Errorf("readability yielded no text for %s", pageURL)
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = noTitleFound
	}

	date := noDateFound
	if article.PublishedTime != nil {
		date = article.PublishedTime.Format(time.RFC3339)
	}

	return structuredResult{
		record: ArticleRecord{
			Title:       title,
			Text:        text,
			PublishDate: date,
			URL:         pageURL,
		},
		contentHTML: article.Content,
	}, nil
}

// Structural and non-article elements stripped before the fallback reads
// body text.
var unwantedSelectors = []string{
	"script", "style", "nav", "header", "footer", "aside",
	".nav", ".header", ".footer", ".sidebar", ".advertisement",
	".menu", ".navigation", ".social", ".share", ".comments",
	`[class*="nav"]`, `[class*="menu"]`, `[class*="ad"]`,
	`[class*="social"]`, `[class*="share"]`, `[class*="comment"]`,
}

// Candidate main-content containers, most specific first.
var contentSelectors = []string{
	"article",
	"main",
	".content",
	".article-content",
	".post-content",
	".entry-content",
	".story-content",
	".article-body",
	".post-body",
	`[role="main"]`,
}

var titleSelectors = []string{
	"h1",
	"title",
	`[property="og:title"]`,
	`[name="twitter:title"]`,
}

var dateSelectors = []string{
	`[property="article:published_time"]`,
	`[name="publish_date"]`,
	`[name="date"]`,
	".publish-date",
	".date",
	"time",
	`[class*="date"]`,
	`[class*="time"]`,
}

// extractFromDOM is the heuristic fallback: ordered title selectors, denylist
// element removal, main-content discovery, long-paragraph harvesting and
// ordered date selectors. Empty fields resolve to sentinels.
func extractFromDOM(body []byte, pageURL string) ArticleRecord {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return errorRecord(pageURL, err)
	}

	title := extractDOMTitle(doc)

	doc.Find(strings.Join(unwantedSelectors, ", ")).Remove()

	text := extractDOMText(doc)
	date := extractDOMDate(doc)

	if title == "" {
		title = noTitleFound
	}
	if text == "" {
		text = noTextFound
	}
	if date == "" {
		date = noDateFound
	}

	return ArticleRecord{
		Title:       title,
		Text:        text,
		PublishDate: date,
		URL:         pageURL,
	}
}

// extractDOMTitle returns the first non-empty hit across the ordered title
// selectors, reading the content attribute when present and text otherwise.
func extractDOMTitle(doc *goquery.Document) string {
	for _, sel := range titleSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		title, _ := el.Attr("content")
		if title == "" {
			title = el.Text()
		}
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	return ""
}

// extractDOMText harvests paragraph/div text longer than the boilerplate
// threshold, scoped to the main-content container when one is found.
func extractDOMText(doc *goquery.Document) string {
	var scope *goquery.Selection
	for _, sel := range contentSelectors {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			scope = found
			break
		}
	}
	if scope == nil {
		scope = doc.Find("body")
		if scope.Length() == 0 {
			scope = doc.Selection
		}
	}

	var parts []string
	scope.Find("p, div").Each(func(_ int, el *goquery.Selection) {
		text := strings.TrimSpace(el.Text())
		if utf8.RuneCountInString(text) > minParagraphRunes {
			parts = append(parts, text)
		}
	})

	return normalizeWhitespace(strings.Join(parts, " "))
}

// extractDOMDate returns the first non-empty hit across the ordered date
// selectors, preferring content, then datetime, then element text.
func extractDOMDate(doc *goquery.Document) string {
	for _, sel := range dateSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		date, _ := el.Attr("content")
		if date == "" {
			date, _ = el.Attr("datetime")
		}
		if date == "" {
			date = el.Text()
		}
		if date = strings.TrimSpace(date); date != "" {
			return date
		}
	}
	return ""
}

// normalizeWhitespace collapses runs of whitespace to single spaces and trims.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
