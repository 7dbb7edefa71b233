package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	settingsPath    string
	queryPromptPath string
	apiKey          string
	csvPath         string
	chunksPath      string
	startURL        string
	maxPages        int
	archiveArticles bool
)

var rootCmd = &cobra.Command{
	Use:   "sentimentrag",
	Short: "Scrape topic articles and answer a fixed prompt over them with RAG",
	Long: `A pipeline for collecting web articles about a topic from search-result
pages, chunking them into retrieval documents, and answering a fixed
prompt with embeddings and a chat-completion model.`,
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Paginate search results, extract articles and write a CSV",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := newConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if startURL != "" {
			config.Settings.Search.StartURL = startURL
		}
		if maxPages > 0 {
			config.Settings.Search.MaxPages = maxPages
		}
		if archiveArticles {
			config.Settings.Archive.Enabled = true
		}

		if err := runScrape(config); err != nil {
			log.Fatalf("Scraping failed: %v", err)
		}
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Build and chunk retrieval documents from a scraped CSV",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := newConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		if err := runLoad(config, csvPath); err != nil {
			log.Fatalf("Loading failed: %v", err)
		}
	},
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Retrieve the most relevant chunks and generate an answer",
	Run: func(cmd *cobra.Command, args []string) {
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			log.Fatal("API key required: use --api-key flag or OPENAI_API_KEY environment variable")
		}

		config, err := newConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		if err := runQuery(config, chunksPath, apiKey); err != nil {
			log.Fatalf("Query failed: %v", err)
		}
	},
}

// newConfig builds the Config from the settings file and flag overrides.
func newConfig() (*Config, error) {
	overrides := &ConfigOverrides{}
	if settingsPath != "" {
		overrides.SettingsPath = &settingsPath
	}
	if queryPromptPath != "" {
		overrides.QueryPromptPath = &queryPromptPath
	}
	return NewConfig(overrides)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to a settings YAML file")

	scrapeCmd.Flags().StringVar(&startURL, "start-url", "", "Search-results URL to start pagination from")
	scrapeCmd.Flags().IntVar(&maxPages, "max-pages", 0, "Maximum number of result pages to visit")
	scrapeCmd.Flags().BoolVar(&archiveArticles, "archive", false, "Save markdown copies of extracted articles")

	loadCmd.Flags().StringVar(&csvPath, "csv", "", "Scraped CSV to load (default: newest in the data directory)")

	queryCmd.Flags().StringVar(&chunksPath, "chunks", "", "Chunked documents file (default: newest in the data directory)")
	queryCmd.Flags().StringVar(&apiKey, "api-key", "", "OpenAI API key")
	queryCmd.Flags().StringVar(&queryPromptPath, "prompt", "", "Path to a custom query prompt file")

	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(queryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
