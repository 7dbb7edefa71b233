package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// csvColumns is the fixed column order of the scrape output.
var csvColumns = []string{"title", "text", "publish_date", "url"}

// writeArticlesCSV writes the surviving records to a timestamped CSV under
// dir, creating the directory if absent. Returns the file path.
func writeArticlesCSV(dir string, records []ArticleRecord, startedAt time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}

	filename := fmt.Sprintf("sentiment_articles_%s.csv", startedAt.Format("20060102_150405"))
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		return "", fmt.Errorf("writing CSV header: %w", err)
	}
	for _, record := range records {
		row := []string{record.Title, record.Text, record.PublishDate, record.URL}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing CSV: %w", err)
	}

	return path, nil
}

// markdownArchiver saves readable markdown copies of extracted articles.
type markdownArchiver struct {
	dir       string
	converter *md.Converter
}

func newMarkdownArchiver(dir string) *markdownArchiver {
	return &markdownArchiver{
		dir:       dir,
		converter: md.NewConverter("", true, nil),
	}
}

// Save converts the extracted content HTML to markdown and writes it under
// the archive directory, named by a slug of the title.
func (a *markdownArchiver) Save(title, sourceURL, contentHTML string) error {
	if contentHTML == "" {
		return nil
	}

	markdown, err := a.converter.ConvertString(contentHTML)
	if err != nil {
		return fmt.Errorf("converting article HTML: %w", err)
	}

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	content := fmt.Sprintf("# %s\n\nSource: %s\n\n%s\n", title, sourceURL, markdown)
	path := filepath.Join(a.dir, generateSlugFromTitle(title)+".md")
	return os.WriteFile(path, []byte(content), 0644)
}

// generateSlugFromTitle creates a filesystem-safe slug from an article title
func generateSlugFromTitle(title string) string {
	if title == "" {
		return "article"
	}

	slug := strings.ToLower(title)
	slug = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(slug, "-")
	slug = regexp.MustCompile(`-+`).ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	// Limit length to avoid filesystem issues
	if len(slug) > 50 {
		slug = slug[:50]
		slug = strings.Trim(slug, "-")
	}

	if slug == "" {
		return "article"
	}

	return slug
}
