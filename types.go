package main

// Sentinel values used in place of missing fields. Records always carry all
// four fields; a failed extraction is encoded, never omitted.
const (
	noTitleFound = "No title found"
	noTextFound  = "No text found"
	noDateFound  = "No date found"

	errorPrefix = "Error:"
)

// ArticleRecord is one scraped article. Created by the extractor, filtered,
// then written to CSV. Not mutated after creation.
type ArticleRecord struct {
	Title       string
	Text        string
	PublishDate string
	URL         string
}

// DocumentMetadata is the per-article metadata carried through the load and
// query stages.
type DocumentMetadata struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishDate string `json:"publish_date"`
	Source      string `json:"source"`
	Index       int    `json:"index"`
}

// Document is the unit passed to chunking, embedding and retrieval. Chunks
// produced from a document inherit its metadata unchanged.
type Document struct {
	Content  string           `json:"content"`
	Metadata DocumentMetadata `json:"metadata"`
}

// ProcessingStatus represents the outcome of processing a single URL.
type ProcessingStatus string

const (
	StatusSuccess ProcessingStatus = "success"
	StatusSkipped ProcessingStatus = "skipped"
	StatusError   ProcessingStatus = "error"
)

// ProcessingResult tracks the outcome of one URL through the scrape stage.
type ProcessingResult struct {
	URL    string
	Status ProcessingStatus
	Reason string
}
