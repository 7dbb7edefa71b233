package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// runLoad executes the load stage: read a scraped CSV, build documents,
// chunk them and save both sets as JSON under the data directory.
func runLoad(config *Config, csvPath string) error {
	settings := config.Settings

	if csvPath == "" {
		latest, err := latestArticlesCSV(settings.DataDirectory)
		if err != nil {
			return err
		}
		csvPath = latest
	}

	log.Printf("Loading sentiment data from %s", csvPath)
	records, err := loadArticlesCSV(csvPath)
	if err != nil {
		return fmt.Errorf("loading sentiment data: %w", err)
	}
	log.Printf("Loaded %d articles from CSV", len(records))

	prefix := strings.TrimSuffix(filepath.Base(csvPath), ".csv")
	docs := buildDocuments(records, prefix)
	analyzeDocuments(docs)

	chunked := splitDocuments(docs, settings.Chunking.ChunkSize, settings.Chunking.ChunkOverlap)
	log.Printf("Split %d documents into %d chunks", len(docs), len(chunked))

	originalPath := filepath.Join(settings.DataDirectory, prefix+"_original_docs.json")
	if err := saveDocuments(originalPath, docs); err != nil {
		return fmt.Errorf("saving original documents: %w", err)
	}
	log.Printf("✓ Saved %d original documents to %s", len(docs), originalPath)

	chunkedPath := filepath.Join(settings.DataDirectory, prefix+"_chunked_docs.json")
	if err := saveDocuments(chunkedPath, chunked); err != nil {
		return fmt.Errorf("saving chunked documents: %w", err)
	}
	log.Printf("✓ Saved %d chunked documents to %s", len(chunked), chunkedPath)

	return nil
}

// latestArticlesCSV finds the most recently modified scrape output in dir.
func latestArticlesCSV(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "sentiment_articles_*.csv"))
	if err != nil {
		return "", fmt.Errorf("globbing for CSV files: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no sentiment CSV found in %s: run scrape first", dir)
	}
	return newestFile(matches)
}

// newestFile returns the most recently modified of the given paths.
func newestFile(paths []string) (string, error) {
	latest := ""
	var latestMod int64
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); latest == "" || mod > latestMod {
			latest = path
			latestMod = mod
		}
	}
	if latest == "" {
		return "", fmt.Errorf("none of the candidate files could be read")
	}
	return latest, nil
}

// loadArticlesCSV parses a scrape-stage CSV back into records. The header
// row must match the fixed column order.
func loadArticlesCSV(path string) ([]ArticleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvColumns)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	for i, column := range csvColumns {
		if header[i] != column {
			return nil, fmt.Errorf("unexpected CSV header %v, want %v", header, csvColumns)
		}
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV rows: %w", err)
	}

	records := make([]ArticleRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ArticleRecord{
			Title:       row[0],
			Text:        row[1],
			PublishDate: row[2],
			URL:         row[3],
		})
	}
	return records, nil
}

// buildDocuments converts records into retrieval documents. Content carries
// title, text and URL; metadata keeps the originals plus the row index so
// later labeling stays positional.
func buildDocuments(records []ArticleRecord, prefix string) []Document {
	docs := make([]Document, 0, len(records))
	for i, record := range records {
		content := fmt.Sprintf("Title: %s\n\nText: %s\n\nURL: %s", record.Title, record.Text, record.URL)
		docs = append(docs, Document{
			Content: content,
			Metadata: DocumentMetadata{
				Title:       record.Title,
				URL:         record.URL,
				PublishDate: record.PublishDate,
				Source:      prefix + "_sentiment",
				Index:       i,
			},
		})
	}
	return docs
}

// analyzeDocuments logs basic statistics about the loaded set.
func analyzeDocuments(docs []Document) {
	if len(docs) == 0 {
		log.Printf("No documents to analyze")
		return
	}

	totalLength := 0
	for _, doc := range docs {
		totalLength += len(doc.Content)
	}
	log.Printf("Total articles: %d", len(docs))
	log.Printf("Average text length: %d characters", totalLength/len(docs))

	sample := docs
	if len(sample) > 5 {
		sample = sample[:5]
	}
	for i, doc := range sample {
		log.Printf("Sample title %d: %s", i+1, doc.Metadata.Title)
	}
}

// saveDocuments writes documents as JSON, creating the directory if absent.
func saveDocuments(path string, docs []Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding documents: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// loadDocuments reads a document set saved by saveDocuments.
func loadDocuments(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decoding documents from %s: %w", path, err)
	}
	return docs, nil
}
