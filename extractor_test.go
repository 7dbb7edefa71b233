package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const longParagraph = "The quarterback threw for three hundred yards and four touchdowns in the season opener on Sunday afternoon."

var failingStructured = func(pageURL string) (structuredResult, error) {
	return structuredResult{}, errors.New("no structured content")
}

func TestExtractHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	scraper := &ArticleScraper{client: server.Client(), structured: failingStructured}
	record := scraper.Extract(server.URL)

	want := fmt.Sprintf("%s HTTP 404 for %s", errorPrefix, server.URL)
	if record.Title != want {
		t.Errorf("Title = %q, want %q", record.Title, want)
	}
	if record.Text != want {
		t.Errorf("Text = %q, want %q", record.Text, want)
	}
	if record.PublishDate != noDateFound {
		t.Errorf("PublishDate = %q, want %q", record.PublishDate, noDateFound)
	}
	if record.URL != server.URL {
		t.Errorf("URL = %q, want %q", record.URL, server.URL)
	}
}

func TestExtractPrefersStructured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><h1>Fallback Title</h1></body></html>")
	}))
	defer server.Close()

	structured := ArticleRecord{
		Title:       "Structured Title",
		Text:        "Structured body text.",
		PublishDate: "2025-08-01T00:00:00Z",
		URL:         server.URL,
	}
	scraper := &ArticleScraper{
		client: server.Client(),
		structured: func(pageURL string) (structuredResult, error) {
			return structuredResult{record: structured}, nil
		},
	}

	record := scraper.Extract(server.URL)
	if record != structured {
		t.Errorf("Extract() = %+v, want structured result %+v", record, structured)
	}
}

func TestExtractFallsBackToDOM(t *testing.T) {
	page := fmt.Sprintf(`<html><body><article><h1>DOM Title</h1><p>%s</p></article></body></html>`, longParagraph)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	scraper := &ArticleScraper{client: server.Client(), structured: failingStructured}
	record := scraper.Extract(server.URL)

	if record.Title != "DOM Title" {
		t.Errorf("Title = %q, want %q", record.Title, "DOM Title")
	}
	if record.Text != longParagraph {
		t.Errorf("Text = %q, want %q", record.Text, longParagraph)
	}
}

func TestExtractFallsBackWhenStructuredTextEmpty(t *testing.T) {
	page := fmt.Sprintf(`<html><body><article><h1>DOM Title</h1><p>%s</p></article></body></html>`, longParagraph)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	scraper := &ArticleScraper{
		client: server.Client(),
		structured: func(pageURL string) (structuredResult, error) {
			return structuredResult{record: ArticleRecord{Title: "Empty", URL: pageURL}}, nil
		},
	}

	record := scraper.Extract(server.URL)
	if record.Title != "DOM Title" {
		t.Errorf("Title = %q, want DOM fallback title", record.Title)
	}
}

func TestExtractFromDOMTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"h1 wins",
			`<html><head><title>Tab Title</title></head><body><h1>Heading Title</h1></body></html>`,
			"Heading Title",
		},
		{
			"title element",
			`<html><head><title>Tab Title</title></head><body></body></html>`,
			"Tab Title",
		},
		{
			"og:title content attribute",
			`<html><head><meta property="og:title" content="Meta Title"></head><body></body></html>`,
			"Meta Title",
		},
		{
			"nothing found",
			`<html><body><p>text only</p></body></html>`,
			noTitleFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := extractFromDOM([]byte(tt.html), "https://a.example/x")
			if record.Title != tt.want {
				t.Errorf("Title = %q, want %q", record.Title, tt.want)
			}
		})
	}
}

func TestExtractFromDOMText(t *testing.T) {
	t.Run("scoped to main content", func(t *testing.T) {
		html := fmt.Sprintf(
			`<html><body><p>Outside the article, also quite long, easily past the fifty character cutoff.</p><article><p>%s</p></article></body></html>`,
			longParagraph)
		record := extractFromDOM([]byte(html), "https://a.example/x")
		if record.Text != longParagraph {
			t.Errorf("Text = %q, want %q", record.Text, longParagraph)
		}
	})

	t.Run("short paragraphs dropped", func(t *testing.T) {
		html := fmt.Sprintf(`<html><body><article><p>Too short.</p><p>%s</p><p>Also short.</p></article></body></html>`, longParagraph)
		record := extractFromDOM([]byte(html), "https://a.example/x")
		if record.Text != longParagraph {
			t.Errorf("Text = %q, want %q", record.Text, longParagraph)
		}
	})

	t.Run("only short paragraphs yields sentinel", func(t *testing.T) {
		html := `<html><body><article><p>Too short.</p><p>Still short.</p></article></body></html>`
		record := extractFromDOM([]byte(html), "https://a.example/x")
		if record.Text != noTextFound {
			t.Errorf("Text = %q, want %q", record.Text, noTextFound)
		}
	})

	t.Run("unwanted elements removed", func(t *testing.T) {
		html := fmt.Sprintf(
			`<html><body><article><p class="social-embed">Follow us on every platform for more updates, breaking stories and highlights.</p><p>%s</p></article></body></html>`,
			longParagraph)
		record := extractFromDOM([]byte(html), "https://a.example/x")
		if record.Text != longParagraph {
			t.Errorf("Text = %q, want %q", record.Text, longParagraph)
		}
	})

	t.Run("internal whitespace collapsed", func(t *testing.T) {
		html := `<html><body><article><p>A  first   sentence that
	spans lines and carries    enough characters to clear the cutoff.</p></article></body></html>`
		record := extractFromDOM([]byte(html), "https://a.example/x")
		want := "A first sentence that spans lines and carries enough characters to clear the cutoff."
		if record.Text != want {
			t.Errorf("Text = %q, want %q", record.Text, want)
		}
	})
}

func TestExtractFromDOMDate(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"meta content attribute",
			`<html><head><meta property="article:published_time" content="2025-08-20T10:00:00Z"></head><body></body></html>`,
			"2025-08-20T10:00:00Z",
		},
		{
			"time datetime attribute",
			`<html><body><time datetime="2025-08-19">August 19</time></body></html>`,
			"2025-08-19",
		},
		{
			"date class text",
			`<html><body><span class="date">Aug 18, 2025</span></body></html>`,
			"Aug 18, 2025",
		},
		{
			"nothing found",
			`<html><body><p>no date here</p></body></html>`,
			noDateFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := extractFromDOM([]byte(tt.html), "https://a.example/x")
			if record.PublishDate != tt.want {
				t.Errorf("PublishDate = %q, want %q", record.PublishDate, tt.want)
			}
		})
	}
}

func TestFetchSendsDesktopUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, "<html><body></body></html>")
	}))
	defer server.Close()

	scraper := &ArticleScraper{client: server.Client(), structured: failingStructured}
	scraper.Extract(server.URL)

	if !strings.Contains(gotUA, "Mozilla/5.0") {
		t.Errorf("User-Agent = %q, want a desktop browser identity", gotUA)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  a  b  ", "a b"},
		{"a\n\nb\tc", "a b c"},
		{"", ""},
		{"   ", ""},
		{"single", "single"},
	}

	for _, tt := range tests {
		if got := normalizeWhitespace(tt.in); got != tt.want {
			t.Errorf("normalizeWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
